package dto

// ─── Filter / List ──────────────────────────────────────────────────────────

type ContactoFilter struct {
	Nombre       string `form:"nombre"`
	CondicionIVA string `form:"condicion_iva"`
	Activo       string `form:"activo"` // true (default) | false | all
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearContactoRequest struct {
	Nombre       string  `json:"nombre"        validate:"required,min=2,max=150"`
	CUIT         *string `json:"cuit"          validate:"omitempty,len=11,numeric"`
	CondicionIVA string  `json:"condicion_iva" validate:"omitempty,oneof=responsable_inscripto exento consumidor_final monotributo"`
	Direccion    string  `json:"direccion"     validate:"omitempty,max=250"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Telefono     string  `json:"telefono"      validate:"omitempty,max=30"`
}

type ActualizarContactoRequest struct {
	Nombre       string  `json:"nombre"        validate:"omitempty,min=2,max=150"`
	CUIT         *string `json:"cuit"          validate:"omitempty,len=11,numeric"`
	CondicionIVA string  `json:"condicion_iva" validate:"omitempty,oneof=responsable_inscripto exento consumidor_final monotributo"`
	Direccion    string  `json:"direccion"     validate:"omitempty,max=250"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Telefono     string  `json:"telefono"      validate:"omitempty,max=30"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ContactoResponse struct {
	ID           string  `json:"id"`
	Nombre       string  `json:"nombre"`
	CUIT         *string `json:"cuit"`
	CondicionIVA string  `json:"condicion_iva"`
	Direccion    string  `json:"direccion"`
	Email        *string `json:"email"`
	Telefono     string  `json:"telefono"`
	Activo       bool    `json:"activo"`
}

type ContactoListResponse struct {
	Data  []ContactoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
