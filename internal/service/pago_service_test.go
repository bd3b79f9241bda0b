package service

import (
	"context"
	"testing"
	"time"

	"facturador/internal/afip"
	"facturador/internal/dto"
	"facturador/internal/model"
	"facturador/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory PagoRepository stub ────────────────────────────────────────────

type stubPagoRepo struct {
	pagos []model.Pago
}

func (r *stubPagoRepo) CreateTx(_ *gorm.DB, p *model.Pago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos = append(r.pagos, *p)
	return nil
}

func (r *stubPagoRepo) SumByComprobanteTx(_ *gorm.DB, comprobanteID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.pagos {
		if p.ComprobanteID == comprobanteID {
			total = total.Add(p.Monto)
		}
	}
	return total, nil
}

func (r *stubPagoRepo) ListByComprobante(_ context.Context, comprobanteID uuid.UUID) ([]model.Pago, error) {
	var out []model.Pago
	for _, p := range r.pagos {
		if p.ComprobanteID == comprobanteID {
			out = append(out, p)
		}
	}
	return out, nil
}

var _ repository.PagoRepository = (*stubPagoRepo)(nil)

// ── In-memory BancoRepository stub ───────────────────────────────────────────

type stubBancoRepo struct {
	bancos   map[uuid.UUID]bool // id → activo
	tarjetas map[uuid.UUID]bool
}

func newStubBancoRepo() *stubBancoRepo {
	return &stubBancoRepo{bancos: make(map[uuid.UUID]bool), tarjetas: make(map[uuid.UUID]bool)}
}

func (r *stubBancoRepo) CreateBanco(_ context.Context, b *model.Banco) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.bancos[b.ID] = b.Activo
	return nil
}

func (r *stubBancoRepo) ListBancos(_ context.Context) ([]model.Banco, error) { return nil, nil }

func (r *stubBancoRepo) BancoDisponible(_ context.Context, id uuid.UUID) (bool, error) {
	return r.bancos[id], nil
}

func (r *stubBancoRepo) CreateTarjeta(_ context.Context, t *model.Tarjeta) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tarjetas[t.ID] = t.Activo
	return nil
}

func (r *stubBancoRepo) ListTarjetas(_ context.Context) ([]model.Tarjeta, error) { return nil, nil }

func (r *stubBancoRepo) TarjetaDisponible(_ context.Context, id uuid.UUID) (bool, error) {
	return r.tarjetas[id], nil
}

var _ repository.BancoRepository = (*stubBancoRepo)(nil)

// ── helpers ──────────────────────────────────────────────────────────────────

func comprobanteConTotal(t *testing.T, repo *stubComprobanteRepo, total string) *model.Comprobante {
	t.Helper()
	comp := &model.Comprobante{
		Tipo:         afip.ComprobanteFacturaB,
		PuntoDeVenta: 1,
		Numero:       10,
		FechaEmision: time.Now(),
		MontoTotal:   decimal.RequireFromString(total),
		MontoPagado:  decimal.Zero,
		Estado:       "pendiente",
	}
	require.NoError(t, repo.Create(context.Background(), nil, comp))
	return comp
}

// ── Registrar ────────────────────────────────────────────────────────────────

func TestRegistrarPago_Parcial(t *testing.T) {
	compRepo := newStubComprobanteRepo()
	pagoRepo := &stubPagoRepo{}
	svc := NewPagoService(pagoRepo, compRepo, newStubBancoRepo())

	comp := comprobanteConTotal(t, compRepo, "1000.00")

	resp, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo: "efectivo",
		Monto:  decimal.RequireFromString("400.00"),
	})
	require.NoError(t, err)

	// Pago parcial: el comprobante sigue pendiente.
	assert.Equal(t, "400.00", resp.MontoPagado.StringFixed(2))
	assert.Equal(t, "pendiente", resp.Estado)
	assert.Equal(t, "ARS", resp.Pago.Moneda)

	guardado := compRepo.comprobantes[comp.ID]
	assert.Equal(t, "400.00", guardado.MontoPagado.StringFixed(2))
	assert.Equal(t, "pendiente", guardado.Estado)
	assert.Equal(t, "cuenta_corriente", guardado.CondicionPago)
}

func TestRegistrarPago_CubreTotal(t *testing.T) {
	compRepo := newStubComprobanteRepo()
	pagoRepo := &stubPagoRepo{}
	svc := NewPagoService(pagoRepo, compRepo, newStubBancoRepo())

	comp := comprobanteConTotal(t, compRepo, "1000.00")

	_, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo: "efectivo",
		Monto:  decimal.RequireFromString("600.00"),
	})
	require.NoError(t, err)

	resp, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo: "efectivo",
		Monto:  decimal.RequireFromString("400.00"),
	})
	require.NoError(t, err)

	// El recálculo suma TODOS los pagos del comprobante y recién entonces
	// lo marca saldado.
	assert.Equal(t, "1000.00", resp.MontoPagado.StringFixed(2))
	assert.Equal(t, "enviada", resp.Estado)
	assert.Equal(t, "contado", compRepo.comprobantes[comp.ID].CondicionPago)
}

func TestRegistrarPago_SobrepagoTambienSalda(t *testing.T) {
	compRepo := newStubComprobanteRepo()
	svc := NewPagoService(&stubPagoRepo{}, compRepo, newStubBancoRepo())

	comp := comprobanteConTotal(t, compRepo, "500.00")

	resp, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo: "efectivo",
		Monto:  decimal.RequireFromString("600.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "enviada", resp.Estado)
}

func TestRegistrarPago_ComprobanteAnulado(t *testing.T) {
	compRepo := newStubComprobanteRepo()
	svc := NewPagoService(&stubPagoRepo{}, compRepo, newStubBancoRepo())

	comp := comprobanteConTotal(t, compRepo, "500.00")
	require.NoError(t, compRepo.UpdateEstado(context.Background(), comp.ID, "anulado"))

	_, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo: "efectivo",
		Monto:  decimal.RequireFromString("100.00"),
	})
	assert.ErrorContains(t, err, "anulado")
}

func TestRegistrarPago_MontoInvalido(t *testing.T) {
	compRepo := newStubComprobanteRepo()
	svc := NewPagoService(&stubPagoRepo{}, compRepo, newStubBancoRepo())

	comp := comprobanteConTotal(t, compRepo, "500.00")

	_, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo: "efectivo",
		Monto:  decimal.Zero,
	})
	assert.ErrorContains(t, err, "positivo")

	_, err = svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo: "efectivo",
		Monto:  decimal.RequireFromString("-50.00"),
	})
	assert.ErrorContains(t, err, "positivo")
}

func TestRegistrarPago_ComprobanteInexistente(t *testing.T) {
	svc := NewPagoService(&stubPagoRepo{}, newStubComprobanteRepo(), newStubBancoRepo())

	_, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarPagoRequest{
		Metodo: "efectivo",
		Monto:  decimal.RequireFromString("100.00"),
	})
	assert.ErrorContains(t, err, "no encontrado")
}

func TestRegistrarPago_TransferenciaRequiereBanco(t *testing.T) {
	compRepo := newStubComprobanteRepo()
	bancos := newStubBancoRepo()
	svc := NewPagoService(&stubPagoRepo{}, compRepo, bancos)

	comp := comprobanteConTotal(t, compRepo, "500.00")

	// Sin banco_id.
	_, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo: "transferencia",
		Monto:  decimal.RequireFromString("100.00"),
	})
	assert.ErrorContains(t, err, "requiere banco_id")

	// Banco inactivo.
	banco := &model.Banco{Nombre: "Banco Cerrado", Activo: false}
	require.NoError(t, bancos.CreateBanco(context.Background(), banco))
	bid := banco.ID.String()
	_, err = svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo:  "transferencia",
		Monto:   decimal.RequireFromString("100.00"),
		BancoID: &bid,
	})
	assert.ErrorContains(t, err, "banco no encontrado o inactivo")

	// Banco activo.
	activo := &model.Banco{Nombre: "Banco Nación", Activo: true}
	require.NoError(t, bancos.CreateBanco(context.Background(), activo))
	aid := activo.ID.String()
	resp, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo:  "transferencia",
		Monto:   decimal.RequireFromString("100.00"),
		BancoID: &aid,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Pago.BancoID)
	assert.Equal(t, aid, *resp.Pago.BancoID)
}

func TestRegistrarPago_TarjetaRequerida(t *testing.T) {
	compRepo := newStubComprobanteRepo()
	bancos := newStubBancoRepo()
	svc := NewPagoService(&stubPagoRepo{}, compRepo, bancos)

	comp := comprobanteConTotal(t, compRepo, "500.00")

	for _, metodo := range []string{"debito", "credito"} {
		_, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
			Metodo: metodo,
			Monto:  decimal.RequireFromString("100.00"),
		})
		assert.ErrorContains(t, err, "requiere tarjeta_id", metodo)
	}

	tarjeta := &model.Tarjeta{Nombre: "Visa", Activo: true}
	require.NoError(t, bancos.CreateTarjeta(context.Background(), tarjeta))
	tid := tarjeta.ID.String()
	resp, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo:    "credito",
		Monto:     decimal.RequireFromString("100.00"),
		TarjetaID: &tid,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Pago.TarjetaID)
}

func TestRegistrarPago_FechaRecibido(t *testing.T) {
	compRepo := newStubComprobanteRepo()
	pagoRepo := &stubPagoRepo{}
	svc := NewPagoService(pagoRepo, compRepo, newStubBancoRepo())

	comp := comprobanteConTotal(t, compRepo, "500.00")

	fecha := "2026-08-01"
	resp, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo:        "efectivo",
		Monto:         decimal.RequireFromString("100.00"),
		FechaRecibido: &fecha,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01", resp.Pago.FechaRecibido)

	mala := "01/08/2026"
	_, err = svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
		Metodo:        "efectivo",
		Monto:         decimal.RequireFromString("100.00"),
		FechaRecibido: &mala,
	})
	assert.ErrorContains(t, err, "fecha_recibido inválida")
}

func TestListarPorComprobante(t *testing.T) {
	compRepo := newStubComprobanteRepo()
	pagoRepo := &stubPagoRepo{}
	svc := NewPagoService(pagoRepo, compRepo, newStubBancoRepo())

	comp := comprobanteConTotal(t, compRepo, "900.00")
	otro := comprobanteConTotal(t, compRepo, "100.00")

	for _, monto := range []string{"300.00", "300.00"} {
		_, err := svc.Registrar(context.Background(), comp.ID, dto.RegistrarPagoRequest{
			Metodo: "efectivo",
			Monto:  decimal.RequireFromString(monto),
		})
		require.NoError(t, err)
	}
	_, err := svc.Registrar(context.Background(), otro.ID, dto.RegistrarPagoRequest{
		Metodo: "efectivo",
		Monto:  decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	pagos, err := svc.ListarPorComprobante(context.Background(), comp.ID)
	require.NoError(t, err)
	assert.Len(t, pagos, 2)
	for _, p := range pagos {
		assert.Equal(t, comp.ID.String(), p.ComprobanteID)
	}
}
