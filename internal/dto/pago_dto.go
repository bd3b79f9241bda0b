package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarPagoRequest struct {
	Metodo        string          `json:"metodo"         validate:"required,oneof=efectivo debito credito transferencia cheque"`
	Monto         decimal.Decimal `json:"monto"          validate:"required"`
	Moneda        string          `json:"moneda"         validate:"omitempty,len=3"`
	FechaRecibido *string         `json:"fecha_recibido" validate:"omitempty,datetime=2006-01-02"`
	BancoID       *string         `json:"banco_id"       validate:"omitempty,uuid"`
	TarjetaID     *string         `json:"tarjeta_id"     validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoResponse struct {
	ID            string          `json:"id"`
	ComprobanteID string          `json:"comprobante_id"`
	Metodo        string          `json:"metodo"`
	Monto         decimal.Decimal `json:"monto"`
	Moneda        string          `json:"moneda"`
	FechaRecibido string          `json:"fecha_recibido"`
	BancoID       *string         `json:"banco_id,omitempty"`
	TarjetaID     *string         `json:"tarjeta_id,omitempty"`
}

// RegistrarPagoResponse devuelve el pago junto al estado resultante del
// comprobante, para que el cliente no tenga que re-consultar.
type RegistrarPagoResponse struct {
	Pago        PagoResponse    `json:"pago"`
	MontoPagado decimal.Decimal `json:"monto_pagado"`
	Estado      string          `json:"estado"`
}
