package repository

import (
	"context"

	"facturador/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PagoRepository interface {
	// CreateTx y SumByComprobanteTx corren dentro de la tx del registrador:
	// el alta del pago y el recálculo del pagado son un solo commit.
	CreateTx(tx *gorm.DB, p *model.Pago) error
	SumByComprobanteTx(tx *gorm.DB, comprobanteID uuid.UUID) (decimal.Decimal, error)
	ListByComprobante(ctx context.Context, comprobanteID uuid.UUID) ([]model.Pago, error)
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) CreateTx(tx *gorm.DB, p *model.Pago) error {
	return tx.Create(p).Error
}

func (r *pagoRepo) SumByComprobanteTx(tx *gorm.DB, comprobanteID uuid.UUID) (decimal.Decimal, error) {
	// Suma total sobre todos los pagos del comprobante, no acumulación
	// incremental: un pago duplicado o corregido nunca desincroniza el pagado.
	var res struct{ Total decimal.Decimal }
	err := tx.Model(&model.Pago{}).
		Where("comprobante_id = ?", comprobanteID).
		Select("COALESCE(SUM(monto), 0) AS total").
		Scan(&res).Error
	return res.Total, err
}

func (r *pagoRepo) ListByComprobante(ctx context.Context, comprobanteID uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).
		Where("comprobante_id = ?", comprobanteID).
		Order("fecha_recibido ASC").
		Find(&pagos).Error
	return pagos, err
}
