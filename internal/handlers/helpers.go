package handlers

import (
	"errors"
	"strings"

	"github.com/cloudbox/backend/internal/services"
	"github.com/cloudbox/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// serviceError maps the service error kinds to HTTP responses. Handlers
// funnel every service failure through here so the status mapping lives in
// one place.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, "resource not found")
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrTokenExpired),
		errors.Is(err, services.ErrTokenSignatureInvalid),
		errors.Is(err, services.ErrTokenMalformed):
		return utils.Error(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrRootFolderAlreadyExists),
		errors.Is(err, services.ErrFolderNameNotUnique),
		errors.Is(err, services.ErrFileAlreadyExists),
		errors.Is(err, services.ErrEmailAlreadyExists),
		errors.Is(err, services.ErrFolderNotEmpty):
		return utils.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidArgument),
		errors.Is(err, services.ErrInvalidFolderName),
		errors.Is(err, services.ErrRootFolderImmutable),
		errors.Is(err, services.ErrIncompleteFileDetails):
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	default:
		return utils.Error(c, fiber.StatusInternalServerError, "internal server error")
	}
}
