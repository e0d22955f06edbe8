package postgres

import (
	"fmt"
	"log"

	"github.com/LavaJover/bakery-order-service/internal/config"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Models lists every table owned by the service.
func Models() []interface{} {
	return []interface{}{
		&models.PurchaseModel{},
		&models.PurchaseItemModel{},
		&models.TransactionModel{},
		&models.NotificationLogModel{},
		&models.RejectedPurchaseModel{},
	}
}

func MustInitDB(cfg *config.PurchaseConfig) *gorm.DB {
	dsn := cfg.PurchaseDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	// Schema is owned by SQL migrations when a path is configured.
	if cfg.PurchaseDB.MigrationsPath == "" {
		if err := AutoMigrate(db); err != nil {
			log.Fatalf("failed to migrate db: %v\n", err)
		}
	}

	return db
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
