package model

import (
	"time"

	"github.com/google/uuid"
)

// Contacto is an invoice receiver (cliente or proveedor).
// CondicionIVA: see afip.Condicion* constants. CUIT is nil for anonymous
// end consumers; an A-category voucher cannot be issued without it.
type Contacto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"not null"`
	CUIT         *string   `gorm:"type:varchar(20);uniqueIndex;column:cuit"`
	CondicionIVA string    `gorm:"type:varchar(30);not null;default:'consumidor_final';column:condicion_iva"`
	Direccion    string
	Email        *string
	Telefono     string
	Activo       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
