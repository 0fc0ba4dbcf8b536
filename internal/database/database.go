package database

import (
	"fmt"

	"github.com/cloudbox/backend/internal/config"
	"github.com/cloudbox/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema and the uniqueness constraints that back every
// check-then-insert path in the services. The in-service lookups are an
// optimization; these indexes are the actual serialization point under
// concurrent requests.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.File{},
		&models.AuditLog{},
		&models.AuditExportCursor{},
	); err != nil {
		return err
	}

	// AutoMigrate covers the composite indexes declared on the models.
	// The one-root-per-owner rule needs a partial index, which gorm tags
	// cannot express; sqlite (tests) accepts the same syntax.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_folders_one_root_per_owner
		 ON folders (owner_id) WHERE is_root`,
	).Error
}
