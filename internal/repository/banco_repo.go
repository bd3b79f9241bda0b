package repository

import (
	"context"

	"facturador/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BancoRepository cubre los dos registros de medios de pago: bancos para
// transferencias y tarjetas para débito/crédito.
type BancoRepository interface {
	CreateBanco(ctx context.Context, b *model.Banco) error
	ListBancos(ctx context.Context) ([]model.Banco, error)
	BancoDisponible(ctx context.Context, id uuid.UUID) (bool, error)

	CreateTarjeta(ctx context.Context, t *model.Tarjeta) error
	ListTarjetas(ctx context.Context) ([]model.Tarjeta, error)
	TarjetaDisponible(ctx context.Context, id uuid.UUID) (bool, error)
}

type bancoRepo struct{ db *gorm.DB }

func NewBancoRepository(db *gorm.DB) BancoRepository { return &bancoRepo{db: db} }

func (r *bancoRepo) CreateBanco(ctx context.Context, b *model.Banco) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bancoRepo) ListBancos(ctx context.Context) ([]model.Banco, error) {
	var bancos []model.Banco
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&bancos).Error
	return bancos, err
}

func (r *bancoRepo) BancoDisponible(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Banco{}).
		Where("id = ? AND activo = true", id).Count(&n).Error
	return n > 0, err
}

func (r *bancoRepo) CreateTarjeta(ctx context.Context, t *model.Tarjeta) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *bancoRepo) ListTarjetas(ctx context.Context) ([]model.Tarjeta, error) {
	var tarjetas []model.Tarjeta
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&tarjetas).Error
	return tarjetas, err
}

func (r *bancoRepo) TarjetaDisponible(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Tarjeta{}).
		Where("id = ? AND activo = true", id).Count(&n).Error
	return n > 0, err
}
