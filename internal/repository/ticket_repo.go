package repository

import (
	"context"

	"facturador/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TicketRepository persists WSAA access tickets, one row per sub-service.
type TicketRepository interface {
	Find(ctx context.Context, servicio string) (*model.TicketAcceso, error)
	// Guardar replaces the ticket for its service wholesale (last writer
	// wins — concurrent refreshes are tolerated, any valid ticket works).
	Guardar(ctx context.Context, t *model.TicketAcceso) error
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepo{db: db}
}

func (r *ticketRepo) Find(ctx context.Context, servicio string) (*model.TicketAcceso, error) {
	var t model.TicketAcceso
	err := r.db.WithContext(ctx).Where("servicio = ?", servicio).First(&t).Error
	return &t, err
}

func (r *ticketRepo) Guardar(ctx context.Context, t *model.TicketAcceso) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "servicio"}},
		UpdateAll: true,
	}).Create(t).Error
}
