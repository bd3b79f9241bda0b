package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"facturador/internal/dto"
	"facturador/internal/model"
	"facturador/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagoService interface {
	Registrar(ctx context.Context, comprobanteID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.RegistrarPagoResponse, error)
	ListarPorComprobante(ctx context.Context, comprobanteID uuid.UUID) ([]dto.PagoResponse, error)
}

type pagoService struct {
	repo            repository.PagoRepository
	comprobanteRepo repository.ComprobanteRepository
	bancoRepo       repository.BancoRepository
}

func NewPagoService(
	repo repository.PagoRepository,
	comprobanteRepo repository.ComprobanteRepository,
	bancoRepo repository.BancoRepository,
) PagoService {
	return &pagoService{repo: repo, comprobanteRepo: comprobanteRepo, bancoRepo: bancoRepo}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// Records a payment against a voucher and settles its state, all in one tx:
//   1. Validate the voucher accepts payments and the medio de pago exists
//   2. BEGIN TX: insert pago, recompute monto_pagado as SUM over ALL pagos of
//      the voucher (never incremental), flip estado to "enviada" and condición
//      de pago to "contado" only when the recomputed total covers monto_total;
//      COMMIT

func (s *pagoService) Registrar(ctx context.Context, comprobanteID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.RegistrarPagoResponse, error) {
	comp, err := s.comprobanteRepo.FindByID(ctx, comprobanteID)
	if err != nil {
		return nil, errors.New("comprobante no encontrado")
	}
	if comp.Estado == "anulado" {
		return nil, errors.New("no se puede registrar un pago sobre un comprobante anulado")
	}

	pago, err := construirPago(ctx, s.bancoRepo, req)
	if err != nil {
		return nil, err
	}
	pago.ComprobanteID = comprobanteID

	resp := &dto.RegistrarPagoResponse{}
	txErr := runTx(ctx, s.comprobanteRepo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, pago); err != nil {
			return err
		}
		pagado, err := s.repo.SumByComprobanteTx(tx, comprobanteID)
		if err != nil {
			return err
		}
		estado := comp.Estado
		condicion := "cuenta_corriente"
		if pagado.GreaterThanOrEqual(comp.MontoTotal) {
			estado = "enviada"
			condicion = "contado"
		}
		if err := s.comprobanteRepo.ActualizarPagadoTx(tx, comprobanteID, pagado, estado, condicion); err != nil {
			return err
		}
		resp.MontoPagado = pagado
		resp.Estado = estado
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp.Pago = *pagoToResponse(pago)
	return resp, nil
}

// construirPago arma un model.Pago validando monto, fecha y las referencias
// a banco/tarjeta según el método. Lo comparten el registro de pagos y los
// pagos iniciales de la creación de comprobantes.
func construirPago(ctx context.Context, bancos repository.BancoRepository, req dto.RegistrarPagoRequest) (*model.Pago, error) {
	if req.Monto.IsZero() || req.Monto.IsNegative() {
		return nil, errors.New("el monto del pago debe ser positivo")
	}

	pago := model.Pago{
		Metodo:        req.Metodo,
		Monto:         req.Monto,
		Moneda:        "ARS",
		FechaRecibido: time.Now(),
	}
	if req.Moneda != "" {
		pago.Moneda = req.Moneda
	}
	if req.FechaRecibido != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaRecibido)
		if err != nil {
			return nil, fmt.Errorf("fecha_recibido inválida: %w", err)
		}
		pago.FechaRecibido = fecha
	}

	switch req.Metodo {
	case "transferencia":
		if req.BancoID == nil {
			return nil, errors.New("una transferencia requiere banco_id")
		}
		bid, err := uuid.Parse(*req.BancoID)
		if err != nil {
			return nil, fmt.Errorf("banco_id inválido: %w", err)
		}
		ok, err := bancos.BancoDisponible(ctx, bid)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("banco no encontrado o inactivo")
		}
		pago.BancoID = &bid
	case "debito", "credito":
		if req.TarjetaID == nil {
			return nil, errors.New("un pago con tarjeta requiere tarjeta_id")
		}
		tid, err := uuid.Parse(*req.TarjetaID)
		if err != nil {
			return nil, fmt.Errorf("tarjeta_id inválido: %w", err)
		}
		ok, err := bancos.TarjetaDisponible(ctx, tid)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("tarjeta no encontrada o inactiva")
		}
		pago.TarjetaID = &tid
	}
	return &pago, nil
}

func (s *pagoService) ListarPorComprobante(ctx context.Context, comprobanteID uuid.UUID) ([]dto.PagoResponse, error) {
	pagos, err := s.repo.ListByComprobante(ctx, comprobanteID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PagoResponse, 0, len(pagos))
	for _, p := range pagos {
		out = append(out, *pagoToResponse(&p))
	}
	return out, nil
}

func pagoToResponse(p *model.Pago) *dto.PagoResponse {
	resp := &dto.PagoResponse{
		ID:            p.ID.String(),
		ComprobanteID: p.ComprobanteID.String(),
		Metodo:        p.Metodo,
		Monto:         p.Monto,
		Moneda:        p.Moneda,
		FechaRecibido: p.FechaRecibido.Format("2006-01-02"),
	}
	if p.BancoID != nil {
		id := p.BancoID.String()
		resp.BancoID = &id
	}
	if p.TarjetaID != nil {
		id := p.TarjetaID.String()
		resp.TarjetaID = &id
	}
	return resp
}
