package repository

import (
	"context"

	"facturador/internal/dto"
	"facturador/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComprobanteRepository defines the data access contract for vouchers.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ComprobanteRepository interface {
	// Create runs inside a caller-owned transaction: a voucher is never
	// persisted outside the same tx that writes its items and pagos.
	Create(ctx context.Context, tx *gorm.DB, c *model.Comprobante) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comprobante, error)
	List(ctx context.Context, filter dto.ComprobanteFilter) ([]model.Comprobante, int64, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error
	ActualizarPagadoTx(tx *gorm.DB, id uuid.UUID, pagado interface{}, estado, condicionPago string) error

	// ProximoNumeroLocal asigna numeración local para comprobantes no
	// autorizados ante AFIP. Debe correr dentro de la tx de creación.
	ProximoNumeroLocal(tx *gorm.DB, puntoDeVenta int, tipo string) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type comprobanteRepo struct{ db *gorm.DB }

func NewComprobanteRepository(db *gorm.DB) ComprobanteRepository {
	return &comprobanteRepo{db: db}
}

func (r *comprobanteRepo) DB() *gorm.DB { return r.db }

func (r *comprobanteRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Comprobante) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *comprobanteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comprobante, error) {
	var c model.Comprobante
	err := r.db.WithContext(ctx).
		Preload("Contacto").Preload("Items").Preload("Pagos").
		First(&c, id).Error
	return &c, err
}

func (r *comprobanteRepo) List(ctx context.Context, filter dto.ComprobanteFilter) ([]model.Comprobante, int64, error) {
	var comprobantes []model.Comprobante
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Comprobante{})

	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ContactoID != "" {
		q = q.Where("contacto_id = ?", filter.ContactoID)
	}
	if filter.Desde != "" {
		q = q.Where("fecha_emision >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha_emision <= ?", filter.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Contacto").Preload("Items").Preload("Pagos").
		Order("fecha_emision DESC, numero DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&comprobantes).Error

	return comprobantes, total, err
}

func (r *comprobanteRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Comprobante{}).
		Where("id = ?", id).Update("estado", estado).Error
}

func (r *comprobanteRepo) UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Comprobante{}).
		Where("id = ?", id).Update("pdf_path", path).Error
}

func (r *comprobanteRepo) ActualizarPagadoTx(tx *gorm.DB, id uuid.UUID, pagado interface{}, estado, condicionPago string) error {
	return tx.Model(&model.Comprobante{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"monto_pagado":   pagado,
			"estado":         estado,
			"condicion_pago": condicionPago,
		}).Error
}

func (r *comprobanteRepo) ProximoNumeroLocal(tx *gorm.DB, puntoDeVenta int, tipo string) (int64, error) {
	// MAX(numero)+1 bajo la tx de creación; el unique (tipo, punto_de_venta,
	// numero) corta la carrera si dos creaciones concurrentes ven el mismo MAX.
	var ultimo int64
	err := tx.Model(&model.Comprobante{}).
		Where("punto_de_venta = ? AND tipo = ?", puntoDeVenta, tipo).
		Select("COALESCE(MAX(numero), 0)").Scan(&ultimo).Error
	if err != nil {
		return 0, err
	}
	return ultimo + 1, nil
}
