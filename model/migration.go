package model

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func migrateDB() error {
	m := gormigrate.New(DB, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202506010001",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&PaymentGatewayConfig{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("payment_gateway_configs")
			},
		},
		{
			ID: "202506150001",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&PaymentSession{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("payment_sessions")
			},
		},
	})

	return m.Migrate()
}
