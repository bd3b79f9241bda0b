package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Comprobante is any fiscal document the system issues: factura, nota de
// crédito/débito or internal presupuesto.
// Tipo: see afip.Comprobante* constants.
// Estado: "pendiente" | "enviada" | "anulado"
// CondicionPago: "contado" | "cuenta_corriente"
//
// A presupuesto carries PuntoDeVenta = Numero = 0 and is never authorized.
// Invariants: MontoTotal = MontoNeto + MontoIVA (MontoIVA is 0 for letra C);
// MontoPagado <= MontoTotal; a comprobante with AsociadoNumero set must be a
// nota and carries the type of the voucher it corrects.
type Comprobante struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo         string    `gorm:"type:varchar(30);not null;index:idx_comprobantes_tipo_numero,priority:1"`
	PuntoDeVenta int       `gorm:"not null;default:0"`
	Numero       int64     `gorm:"not null;default:0;index:idx_comprobantes_tipo_numero,priority:2"`
	FechaEmision time.Time `gorm:"not null"`

	ContactoID *uuid.UUID `gorm:"type:uuid;index"`
	Contacto   *Contacto  `gorm:"foreignKey:ContactoID"`

	MontoNeto   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoIVA    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:monto_iva"`
	MontoTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoPagado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Estado        string `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CondicionPago string `gorm:"type:varchar(20);not null;default:'cuenta_corriente'"`

	// Nota de crédito/débito linkage back to the corrected voucher
	AsociadoTipo   *string `gorm:"type:varchar(30)"`
	AsociadoNumero *int64

	// CAE is the authorization code returned by AFIP
	CAE            *string    `gorm:"type:varchar(20);column:cae"`
	CAEVencimiento *time.Time `gorm:"column:cae_vencimiento"`
	Autorizado     bool       `gorm:"not null;default:false"`

	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath       *string `gorm:"column:pdf_path"`
	Observaciones *string

	Items []ComprobanteItem `gorm:"foreignKey:ComprobanteID"`
	Pagos []Pago            `gorm:"foreignKey:ComprobanteID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComprobanteItem is a line item, owned exclusively by its Comprobante.
// Created together with the voucher, immutable afterward.
type ComprobanteItem struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComprobanteID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProductoID    *uuid.UUID `gorm:"type:uuid"`
	Producto      *Producto  `gorm:"foreignKey:ProductoID"`

	Codigo         string          `gorm:"type:varchar(50)"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time
}
