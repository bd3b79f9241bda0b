package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearBancoRequest struct {
	Nombre string  `json:"nombre" validate:"required,min=2,max=100"`
	CBU    *string `json:"cbu"    validate:"omitempty,len=22,numeric"`
}

type CrearTarjetaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
	Tipo   string `json:"tipo"   validate:"omitempty,oneof=debito credito"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BancoResponse struct {
	ID     string  `json:"id"`
	Nombre string  `json:"nombre"`
	CBU    *string `json:"cbu"`
	Activo bool    `json:"activo"`
}

type TarjetaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Tipo   string `json:"tipo"`
	Activo bool   `json:"activo"`
}
