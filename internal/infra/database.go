package infra

import (
	"fmt"

	"facturador/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create / update all tables.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the schema. Also used by integration tests against a
// throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Contacto{},
		&model.Producto{},
		&model.Banco{},
		&model.Tarjeta{},
		&model.Comprobante{},
		&model.ComprobanteItem{},
		&model.Pago{},
		&model.TicketAcceso{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	// Fiscal numbering must be unique per (tipo, punto de venta) but only for
	// numbered vouchers — presupuestos all carry numero 0.
	return db.Exec(`DO $$ BEGIN
	  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_comprobantes_numeracion') THEN
	    CREATE UNIQUE INDEX uni_comprobantes_numeracion
	        ON comprobantes (tipo, punto_de_venta, numero)
	        WHERE numero > 0;
	  END IF;
	END $$`).Error
}
