package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre string `form:"nombre"`
	Codigo string `form:"codigo"`
	Activo string `form:"activo"` // true (default) | false | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo      string          `json:"codigo"      validate:"required,min=1,max=50"`
	Nombre      string          `json:"nombre"      validate:"required,min=2,max=150"`
	Descripcion string          `json:"descripcion" validate:"omitempty,max=500"`
	Precio      decimal.Decimal `json:"precio"      validate:"required"`
}

type ActualizarProductoRequest struct {
	Nombre      string           `json:"nombre"      validate:"omitempty,min=2,max=150"`
	Descripcion string           `json:"descripcion" validate:"omitempty,max=500"`
	Precio      *decimal.Decimal `json:"precio"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Activo      bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
