package model

import (
	"time"

	"github.com/google/uuid"
)

// Banco is a bank account payments can reference.
type Banco struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	CBU       *string   `gorm:"type:varchar(22);column:cbu"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tarjeta is a card (débito/crédito) payments can reference.
type Tarjeta struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Tipo      string    `gorm:"type:varchar(20);not null;default:'credito'"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
