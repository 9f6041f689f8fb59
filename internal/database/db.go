package database

import (
	"fmt"
	"log"

	"pangea-go-server/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the local cache database and runs migrations. The
// returned handle is shared by all repositories; catalog writes are
// serialized above this layer.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("[Database] Connection established")

	if err := db.AutoMigrate(&models.CachedCountry{}, &models.CachedESim{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}
