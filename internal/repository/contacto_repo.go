package repository

import (
	"context"

	"facturador/internal/dto"
	"facturador/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactoRepository interface {
	Create(ctx context.Context, c *model.Contacto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contacto, error)
	FindByCUIT(ctx context.Context, cuit string) (*model.Contacto, error)
	List(ctx context.Context, filter dto.ContactoFilter) ([]model.Contacto, int64, error)
	Update(ctx context.Context, c *model.Contacto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type contactoRepo struct{ db *gorm.DB }

func NewContactoRepository(db *gorm.DB) ContactoRepository { return &contactoRepo{db: db} }

func (r *contactoRepo) Create(ctx context.Context, c *model.Contacto) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *contactoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Contacto, error) {
	var c model.Contacto
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *contactoRepo) FindByCUIT(ctx context.Context, cuit string) (*model.Contacto, error) {
	var c model.Contacto
	err := r.db.WithContext(ctx).Where("cuit = ? AND activo = true", cuit).First(&c).Error
	return &c, err
}

func (r *contactoRepo) List(ctx context.Context, filter dto.ContactoFilter) ([]model.Contacto, int64, error) {
	var contactos []model.Contacto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Contacto{})

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.CondicionIVA != "" {
		q = q.Where("condicion_iva = ?", filter.CondicionIVA)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Offset(offset).Limit(filter.Limit).Find(&contactos).Error
	return contactos, total, err
}

func (r *contactoRepo) Update(ctx context.Context, c *model.Contacto) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *contactoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Contacto{}).
		Where("id = ?", id).Update("activo", false).Error
}
