package core

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB from GORM: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the tables for all persisted entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Worker{},
		&TimeEntry{},
		&Break{},
		&Leave{},
		&ImportBatch{},
	)
}
