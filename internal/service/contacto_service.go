package service

import (
	"context"
	"errors"
	"fmt"

	"facturador/internal/dto"
	"facturador/internal/model"
	"facturador/internal/repository"

	"github.com/google/uuid"
)

type ContactoService interface {
	Crear(ctx context.Context, req dto.CrearContactoRequest) (*dto.ContactoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ContactoResponse, error)
	Listar(ctx context.Context, filter dto.ContactoFilter) (*dto.ContactoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarContactoRequest) (*dto.ContactoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type contactoService struct {
	repo repository.ContactoRepository
}

func NewContactoService(repo repository.ContactoRepository) ContactoService {
	return &contactoService{repo: repo}
}

func (s *contactoService) Crear(ctx context.Context, req dto.CrearContactoRequest) (*dto.ContactoResponse, error) {
	if req.CUIT != nil && *req.CUIT != "" {
		if existing, err := s.repo.FindByCUIT(ctx, *req.CUIT); err == nil {
			return nil, fmt.Errorf("ya existe un contacto con CUIT %s: %s", *req.CUIT, existing.Nombre)
		}
	}
	condicion := req.CondicionIVA
	if condicion == "" {
		condicion = "consumidor_final"
	}
	c := &model.Contacto{
		Nombre:       req.Nombre,
		CUIT:         req.CUIT,
		CondicionIVA: condicion,
		Direccion:    req.Direccion,
		Email:        req.Email,
		Telefono:     req.Telefono,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return contactoToResponse(c), nil
}

func (s *contactoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ContactoResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("contacto no encontrado")
	}
	return contactoToResponse(c), nil
}

func (s *contactoService) Listar(ctx context.Context, filter dto.ContactoFilter) (*dto.ContactoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	contactos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ContactoResponse, 0, len(contactos))
	for i := range contactos {
		data = append(data, *contactoToResponse(&contactos[i]))
	}
	return &dto.ContactoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *contactoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarContactoRequest) (*dto.ContactoResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("contacto no encontrado")
	}
	if req.Nombre != "" {
		c.Nombre = req.Nombre
	}
	if req.CUIT != nil {
		c.CUIT = req.CUIT
	}
	if req.CondicionIVA != "" {
		c.CondicionIVA = req.CondicionIVA
	}
	if req.Direccion != "" {
		c.Direccion = req.Direccion
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Telefono != "" {
		c.Telefono = req.Telefono
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return contactoToResponse(c), nil
}

func (s *contactoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("contacto no encontrado")
	}
	return s.repo.SoftDelete(ctx, id)
}

func contactoToResponse(c *model.Contacto) *dto.ContactoResponse {
	return &dto.ContactoResponse{
		ID:           c.ID.String(),
		Nombre:       c.Nombre,
		CUIT:         c.CUIT,
		CondicionIVA: c.CondicionIVA,
		Direccion:    c.Direccion,
		Email:        c.Email,
		Telefono:     c.Telefono,
		Activo:       c.Activo,
	}
}
