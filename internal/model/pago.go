package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pago records a payment applied to a Comprobante.
// Metodo: "efectivo" | "debito" | "credito" | "transferencia" | "cheque"
// Pagos are never mutated; registering one is the only event that may
// transition the voucher's estado.
type Pago struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComprobanteID uuid.UUID `gorm:"type:uuid;index;not null"`

	Metodo        string          `gorm:"type:varchar(30);not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Moneda        string          `gorm:"type:varchar(3);not null;default:'ARS'"`
	FechaRecibido time.Time       `gorm:"not null"`

	// Optional references; when present they must point at an active record
	BancoID   *uuid.UUID `gorm:"type:uuid"`
	TarjetaID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
}
