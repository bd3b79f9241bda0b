package service

import (
	"context"

	"facturador/internal/dto"
	"facturador/internal/model"
	"facturador/internal/repository"
)

// BancoService administers the medios de pago registries.
type BancoService interface {
	CrearBanco(ctx context.Context, req dto.CrearBancoRequest) (*dto.BancoResponse, error)
	ListarBancos(ctx context.Context) ([]dto.BancoResponse, error)
	CrearTarjeta(ctx context.Context, req dto.CrearTarjetaRequest) (*dto.TarjetaResponse, error)
	ListarTarjetas(ctx context.Context) ([]dto.TarjetaResponse, error)
}

type bancoService struct {
	repo repository.BancoRepository
}

func NewBancoService(repo repository.BancoRepository) BancoService {
	return &bancoService{repo: repo}
}

func (s *bancoService) CrearBanco(ctx context.Context, req dto.CrearBancoRequest) (*dto.BancoResponse, error) {
	b := &model.Banco{Nombre: req.Nombre, CBU: req.CBU, Activo: true}
	if err := s.repo.CreateBanco(ctx, b); err != nil {
		return nil, err
	}
	return &dto.BancoResponse{ID: b.ID.String(), Nombre: b.Nombre, CBU: b.CBU, Activo: b.Activo}, nil
}

func (s *bancoService) ListarBancos(ctx context.Context) ([]dto.BancoResponse, error) {
	bancos, err := s.repo.ListBancos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BancoResponse, len(bancos))
	for i, b := range bancos {
		out[i] = dto.BancoResponse{ID: b.ID.String(), Nombre: b.Nombre, CBU: b.CBU, Activo: b.Activo}
	}
	return out, nil
}

func (s *bancoService) CrearTarjeta(ctx context.Context, req dto.CrearTarjetaRequest) (*dto.TarjetaResponse, error) {
	tipo := req.Tipo
	if tipo == "" {
		tipo = "credito"
	}
	t := &model.Tarjeta{Nombre: req.Nombre, Tipo: tipo, Activo: true}
	if err := s.repo.CreateTarjeta(ctx, t); err != nil {
		return nil, err
	}
	return &dto.TarjetaResponse{ID: t.ID.String(), Nombre: t.Nombre, Tipo: t.Tipo, Activo: t.Activo}, nil
}

func (s *bancoService) ListarTarjetas(ctx context.Context) ([]dto.TarjetaResponse, error) {
	tarjetas, err := s.repo.ListTarjetas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TarjetaResponse, len(tarjetas))
	for i, t := range tarjetas {
		out[i] = dto.TarjetaResponse{ID: t.ID.String(), Nombre: t.Nombre, Tipo: t.Tipo, Activo: t.Activo}
	}
	return out, nil
}
