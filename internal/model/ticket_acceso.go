package model

import "time"

// TicketAcceso is a WSAA access credential (token + firma pair) for one
// AFIP sub-service. One row per service, replaced wholesale on refresh.
type TicketAcceso struct {
	ID        uint      `gorm:"primaryKey"`
	Servicio  string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	Token     string    `gorm:"type:text;not null"`
	Firma     string    `gorm:"type:text;not null"`
	ExpiraEn  time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TicketAcceso) TableName() string { return "tickets_acceso" }

// Vigente reports whether the ticket can still be used at instant t.
// A safety margin keeps us from presenting a credential that expires
// mid-request.
func (t *TicketAcceso) Vigente(ahora time.Time) bool {
	return ahora.Add(5 * time.Minute).Before(t.ExpiraEn)
}
