package utils

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	// DefaultPageLimit is applied when the caller sends no limit.
	DefaultPageLimit = 20
	// MaxPageLimit caps a single listing page; file listings carry no
	// content, so larger pages only bloat the envelope.
	MaxPageLimit = 100
)

// PaginationParams are the sanitized page and limit query values.
type PaginationParams struct {
	Page  int
	Limit int
}

// ParsePagination reads page and limit from the query string and clamps
// them to sane bounds. Garbage values fall back to the defaults.
func ParsePagination(c *fiber.Ctx) PaginationParams {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit := c.QueryInt("limit", DefaultPageLimit)
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	return PaginationParams{Page: page, Limit: limit}
}

// Offset is the row offset of the first entry on the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ApplyPagination scopes a query to the requested page.
func ApplyPagination(query *gorm.DB, p PaginationParams) *gorm.DB {
	return query.Offset(p.Offset()).Limit(p.Limit)
}
