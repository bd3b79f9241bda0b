package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ComprobanteFilter is bound from query string of GET /v1/comprobantes.
type ComprobanteFilter struct {
	Tipo       string `form:"tipo"`
	Estado     string `form:"estado"` // pendiente | enviada | anulado | all
	ContactoID string `form:"contacto_id" validate:"omitempty,uuid"`
	Desde      string `form:"desde"` // YYYY-MM-DD
	Hasta      string `form:"hasta"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemComprobanteRequest struct {
	ProductoID     *string         `json:"producto_id"     validate:"omitempty,uuid"`
	Codigo         string          `json:"codigo"          validate:"omitempty,max=50"`
	Descripcion    string          `json:"descripcion"     validate:"required,min=1,max=200"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
}

type CrearComprobanteRequest struct {
	Tipo       string                   `json:"tipo"        validate:"required"`
	ContactoID *string                  `json:"contacto_id" validate:"omitempty,uuid"`
	Items      []ItemComprobanteRequest `json:"items"       validate:"required,min=1,dive"`

	// Pagos iniciales: se persisten en la misma transacción que el
	// comprobante. La condición de pago se deriva de su suma (contado si
	// cubren el total, cuenta corriente si no).
	Pagos []RegistrarPagoRequest `json:"pagos" validate:"omitempty,dive"`

	// Asociado: obligatorio para notas de crédito/débito — el comprobante
	// que la nota corrige.
	AsociadoTipo   *string `json:"asociado_tipo"`
	AsociadoNumero *int64  `json:"asociado_numero" validate:"omitempty,min=1"`

	// Autorizar=false acepta el comprobante con numeración local, sin CAE.
	Autorizar *bool `json:"autorizar"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemComprobanteResponse struct {
	ProductoID     *string         `json:"producto_id"`
	Codigo         string          `json:"codigo"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type ComprobanteResponse struct {
	ID             string                    `json:"id"`
	Tipo           string                    `json:"tipo"`
	PuntoDeVenta   int                       `json:"punto_de_venta"`
	Numero         int64                     `json:"numero"`
	FechaEmision   string                    `json:"fecha_emision"`
	ContactoID     *string                   `json:"contacto_id"`
	ContactoNombre string                    `json:"contacto_nombre,omitempty"`
	MontoNeto      decimal.Decimal           `json:"monto_neto"`
	MontoIVA       decimal.Decimal           `json:"monto_iva"`
	MontoTotal     decimal.Decimal           `json:"monto_total"`
	MontoPagado    decimal.Decimal           `json:"monto_pagado"`
	Estado         string                    `json:"estado"`
	CondicionPago  string                    `json:"condicion_pago"`
	CAE            *string                   `json:"cae"`
	CAEVencimiento *string                   `json:"cae_vencimiento"`
	Autorizado     bool                      `json:"autorizado"`
	Observaciones  string                    `json:"observaciones,omitempty"`
	Items          []ItemComprobanteResponse `json:"items"`
	Pagos          []PagoResponse            `json:"pagos"`
}

type ComprobanteListResponse struct {
	Data  []ComprobanteResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
