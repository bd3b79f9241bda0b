package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"facturador/internal/afip"
	"facturador/internal/dto"
	"facturador/internal/infra"
	"facturador/internal/model"
	"facturador/internal/repository"
	"facturador/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClienteFiscal is the slice of the WSFE client the orchestrator needs.
// Defined here so unit tests can stub the fiscal boundary.
type ClienteFiscal interface {
	ProximoNumero(ctx context.Context, ptoVta int, tipo string) (int64, error)
	Autorizar(ctx context.Context, sol afip.SolicitudCAE) (*afip.ResultadoAutorizacion, error)
}

type ComprobanteService interface {
	Crear(ctx context.Context, req dto.CrearComprobanteRequest) (*dto.ComprobanteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ComprobanteResponse, error)
	Listar(ctx context.Context, filter dto.ComprobanteFilter) (*dto.ComprobanteListResponse, error)
	Anular(ctx context.Context, id uuid.UUID) error
}

type comprobanteService struct {
	repo         repository.ComprobanteRepository
	contactoRepo repository.ContactoRepository
	productoRepo repository.ProductoRepository
	bancoRepo    repository.BancoRepository
	fiscal       ClienteFiscal
	cb           *infra.CircuitBreaker
	dispatcher   *worker.Dispatcher
	puntoDeVenta int
}

func NewComprobanteService(
	repo repository.ComprobanteRepository,
	contactoRepo repository.ContactoRepository,
	productoRepo repository.ProductoRepository,
	bancoRepo repository.BancoRepository,
	fiscal ClienteFiscal,
	cb *infra.CircuitBreaker,
	dispatcher *worker.Dispatcher,
	puntoDeVenta int,
) ComprobanteService {
	return &comprobanteService{
		repo:         repo,
		contactoRepo: contactoRepo,
		productoRepo: productoRepo,
		bancoRepo:    bancoRepo,
		fiscal:       fiscal,
		cb:           cb,
		dispatcher:   dispatcher,
		puntoDeVenta: puntoDeVenta,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Emission pipeline:
//   1. Validate tipo, items, pagos iniciales, nota linkage, receiver
//      requirements
//   2. Resolve contacto, compute totals (neto + 21% IVA from total) and the
//      condición de pago (contado si los pagos iniciales cubren el total)
//   3. For fiscal types with autorizar: ask WSFE for the next number and the
//      CAE. Authorization happens BEFORE persistence — a rejected or
//      unreachable comprobante never touches the database.
//   4. BEGIN TX: create comprobante + items + pagos iniciales (local numbering
//      inside the tx when AFIP is skipped); COMMIT
//   5. (async) enqueue PDF/QR/email job

func (s *comprobanteService) Crear(ctx context.Context, req dto.CrearComprobanteRequest) (*dto.ComprobanteResponse, error) {
	if !afip.TipoValido(req.Tipo) {
		return nil, fmt.Errorf("tipo de comprobante desconocido: %q", req.Tipo)
	}
	if len(req.Items) == 0 {
		return nil, errors.New("el comprobante no tiene items")
	}

	esFiscal := afip.EsFiscal(req.Tipo)
	autorizar := esFiscal && (req.Autorizar == nil || *req.Autorizar)

	if afip.EsNota(req.Tipo) {
		if req.AsociadoTipo == nil || req.AsociadoNumero == nil {
			return nil, errors.New("una nota de crédito/débito requiere comprobante asociado")
		}
		if !afip.EsFiscal(*req.AsociadoTipo) {
			return nil, fmt.Errorf("tipo asociado inválido: %q", *req.AsociadoTipo)
		}
		if afip.CategoriaComprobante(*req.AsociadoTipo) != afip.CategoriaComprobante(req.Tipo) {
			return nil, errors.New("la nota y su comprobante asociado deben ser de la misma letra")
		}
	} else if req.AsociadoTipo != nil || req.AsociadoNumero != nil {
		return nil, errors.New("solo una nota puede llevar comprobante asociado")
	}

	// Resolve contacto (optional — anonymous consumidor final otherwise)
	var contacto *model.Contacto
	if req.ContactoID != nil {
		cid, err := uuid.Parse(*req.ContactoID)
		if err != nil {
			return nil, fmt.Errorf("contacto_id inválido: %w", err)
		}
		contacto, err = s.contactoRepo.FindByID(ctx, cid)
		if err != nil {
			return nil, fmt.Errorf("contacto %s no encontrado", *req.ContactoID)
		}
		if !contacto.Activo {
			return nil, fmt.Errorf("el contacto %s está inactivo", contacto.Nombre)
		}
	}

	categoria := afip.CategoriaComprobante(req.Tipo)
	if categoria == "A" && (contacto == nil || contacto.CUIT == nil || *contacto.CUIT == "") {
		return nil, errors.New("un comprobante letra A requiere un contacto con CUIT")
	}

	// Resolve items and compute the gross total
	items, total, err := s.resolverItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("el monto total debe ser mayor a cero")
	}

	// Gross-to-net: prices are IVA-included; for letra C and presupuestos
	// nothing is discriminated.
	neto, iva := desglosarIVA(total, categoria)

	// Pagos iniciales: validated here, persisted in the creation tx. The
	// condición de pago is derived from their sum, never taken from input.
	pagos := make([]model.Pago, 0, len(req.Pagos))
	pagado := decimal.Zero
	for i, pr := range req.Pagos {
		p, err := construirPago(ctx, s.bancoRepo, pr)
		if err != nil {
			return nil, fmt.Errorf("pago %d: %w", i+1, err)
		}
		pagado = pagado.Add(p.Monto)
		pagos = append(pagos, *p)
	}
	if pagado.GreaterThan(total) {
		return nil, errors.New("los pagos iniciales superan el total del comprobante")
	}

	estado := "pendiente"
	condicionPago := "cuenta_corriente"
	if pagado.GreaterThanOrEqual(total) {
		estado = "enviada"
		condicionPago = "contado"
	}

	comp := model.Comprobante{
		Tipo:           req.Tipo,
		FechaEmision:   time.Now(),
		MontoNeto:      neto,
		MontoIVA:       iva,
		MontoTotal:     total,
		MontoPagado:    pagado,
		Estado:         estado,
		CondicionPago:  condicionPago,
		AsociadoTipo:   req.AsociadoTipo,
		AsociadoNumero: req.AsociadoNumero,
		Items:          items,
		Pagos:          pagos,
	}
	if contacto != nil {
		comp.ContactoID = &contacto.ID
	}

	// Fiscal authorization — strictly before any persistence.
	if autorizar {
		if err := s.autorizarComprobante(ctx, &comp, contacto); err != nil {
			return nil, err
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if esFiscal && !autorizar {
			// Local numbering shares the fiscal sequence space but carries
			// no CAE. Assigned inside the tx to close the race window.
			comp.PuntoDeVenta = s.puntoDeVenta
			numero, err := s.repo.ProximoNumeroLocal(tx, s.puntoDeVenta, comp.Tipo)
			if err != nil {
				return err
			}
			comp.Numero = numero
		}
		return s.repo.Create(ctx, tx, &comp)
	})
	if txErr != nil {
		if comp.CAE != nil {
			// The CAE exists at AFIP but not locally. Logged with every key
			// needed for manual reconciliation.
			log.Error().
				Str("cae", *comp.CAE).
				Str("tipo", comp.Tipo).
				Int("pto_vta", comp.PuntoDeVenta).
				Int64("numero", comp.Numero).
				Err(txErr).
				Msg("comprobante autorizado por AFIP pero no persistido")
		}
		return nil, txErr
	}

	// Async document job (best-effort — fire & forget)
	if s.dispatcher != nil {
		payload := map[string]interface{}{"comprobante_id": comp.ID.String()}
		if contacto != nil && contacto.Email != nil && *contacto.Email != "" {
			payload["email"] = *contacto.Email
		}
		_ = s.dispatcher.EnqueueDocumento(ctx, payload)
	}

	resp := comprobanteToResponse(&comp)
	if contacto != nil {
		resp.ContactoNombre = contacto.Nombre
	}
	return resp, nil
}

// autorizarComprobante executes the two WSFE round-trips (numbering + CAE)
// through the circuit breaker and stamps the result onto comp.
func (s *comprobanteService) autorizarComprobante(ctx context.Context, comp *model.Comprobante, contacto *model.Contacto) error {
	comp.PuntoDeVenta = s.puntoDeVenta

	numero, err := conBreaker(s.cb, func() (int64, error) {
		return s.fiscal.ProximoNumero(ctx, s.puntoDeVenta, comp.Tipo)
	})
	if err != nil {
		return err
	}
	comp.Numero = numero

	sol := afip.SolicitudCAE{
		TipoComprobante: comp.Tipo,
		PuntoDeVenta:    comp.PuntoDeVenta,
		Numero:          comp.Numero,
		Fecha:           comp.FechaEmision,
		MontoNeto:       comp.MontoNeto,
		MontoIVA:        comp.MontoIVA,
		MontoTotal:      comp.MontoTotal,
	}
	if contacto != nil {
		sol.CondicionIVAReceptor = contacto.CondicionIVA
		if contacto.CUIT != nil && *contacto.CUIT != "" {
			nro, err := strconv.ParseInt(*contacto.CUIT, 10, 64)
			if err != nil {
				return fmt.Errorf("CUIT del contacto no numérico: %w", err)
			}
			sol.DocNro = nro
		}
	}
	if comp.AsociadoTipo != nil && comp.AsociadoNumero != nil {
		sol.Asociado = &afip.ComprobanteAsociado{
			Tipo:         *comp.AsociadoTipo,
			PuntoDeVenta: s.puntoDeVenta,
			Numero:       *comp.AsociadoNumero,
		}
	}

	res, err := conBreaker(s.cb, func() (*afip.ResultadoAutorizacion, error) {
		return s.fiscal.Autorizar(ctx, sol)
	})
	if err != nil {
		return err
	}
	if !res.Autorizado() {
		return &afip.RechazoAFIP{Observaciones: res.Observaciones}
	}
	if res.CAE == "" {
		return errors.New("respuesta aprobada sin CAE — comprobante no emitido")
	}
	if res.Vencimiento.IsZero() {
		return errors.New("respuesta aprobada sin vencimiento de CAE — comprobante no emitido")
	}

	cae := res.CAE
	comp.CAE = &cae
	comp.Autorizado = true
	venc := res.Vencimiento
	comp.CAEVencimiento = &venc
	if len(res.Observaciones) > 0 {
		// Approved with observations: keep them verbatim on the record.
		msgs := make([]string, len(res.Observaciones))
		for i, o := range res.Observaciones {
			msgs[i] = o.String()
		}
		obs := strings.Join(msgs, "; ")
		comp.Observaciones = &obs
	}
	return nil
}

// conBreaker runs a fiscal call through the circuit breaker. Only transport
// failures count against the breaker: a rejection is a healthy answer.
func conBreaker[T any](cb *infra.CircuitBreaker, fn func() (T, error)) (T, error) {
	var out T
	var opErr error
	cbErr := cb.Execute(func() error {
		var err error
		out, err = fn()
		var te *afip.ErrorTransporte
		if errors.As(err, &te) {
			return err
		}
		opErr = err
		return nil
	})
	if cbErr != nil {
		return out, cbErr
	}
	return out, opErr
}

func (s *comprobanteService) resolverItems(ctx context.Context, reqs []dto.ItemComprobanteRequest) ([]model.ComprobanteItem, decimal.Decimal, error) {
	items := make([]model.ComprobanteItem, 0, len(reqs))
	total := decimal.Zero
	for i, it := range reqs {
		if it.Cantidad <= 0 {
			return nil, decimal.Zero, fmt.Errorf("item %d: cantidad debe ser positiva", i+1)
		}
		if it.PrecioUnitario.LessThanOrEqual(decimal.Zero) {
			return nil, decimal.Zero, fmt.Errorf("item %d: precio unitario debe ser positivo", i+1)
		}
		item := model.ComprobanteItem{
			Codigo:         it.Codigo,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.PrecioUnitario.Mul(decimal.NewFromInt(int64(it.Cantidad))),
		}
		if it.ProductoID != nil {
			pid, err := uuid.Parse(*it.ProductoID)
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("item %d: producto_id inválido: %w", i+1, err)
			}
			p, err := s.productoRepo.FindByID(ctx, pid)
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("item %d: producto no encontrado", i+1)
			}
			if !p.Activo {
				return nil, decimal.Zero, fmt.Errorf("el producto %s está inactivo", p.Nombre)
			}
			item.ProductoID = &pid
			if item.Codigo == "" {
				item.Codigo = p.Codigo
			}
		}
		total = total.Add(item.Subtotal)
		items = append(items, item)
	}
	return items, total, nil
}

// desglosarIVA splits an IVA-included total into neto and IVA at the general
// 21% rate, rounding the neto to 2 decimals so neto+iva == total exactly.
// Letra C and presupuestos carry the whole amount as neto.
func desglosarIVA(total decimal.Decimal, categoria string) (neto, iva decimal.Decimal) {
	if categoria == "" || categoria == "C" {
		return total, decimal.Zero
	}
	tasa, _ := decimal.NewFromString(afip.TasaIVAGeneral)
	neto = total.Div(tasa).Round(2)
	iva = total.Sub(neto)
	return neto, iva
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *comprobanteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ComprobanteResponse, error) {
	comp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("comprobante no encontrado")
	}
	return comprobanteToResponse(comp), nil
}

func (s *comprobanteService) Listar(ctx context.Context, filter dto.ComprobanteFilter) (*dto.ComprobanteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	comprobantes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ComprobanteResponse, 0, len(comprobantes))
	for _, c := range comprobantes {
		data = append(data, *comprobanteToResponse(&c))
	}
	return &dto.ComprobanteListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Anular ────────────────────────────────────────────────────────────────────
// Marks the record anulado. A fiscal voucher with CAE is legally corrected by
// emitting a nota de crédito; the flag here only affects local reporting.

func (s *comprobanteService) Anular(ctx context.Context, id uuid.UUID) error {
	comp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("comprobante no encontrado")
	}
	if comp.Estado == "anulado" {
		return errors.New("el comprobante ya está anulado")
	}
	if comp.Autorizado && afip.EsNota(comp.Tipo) {
		return errors.New("una nota autorizada no puede anularse")
	}
	return s.repo.UpdateEstado(ctx, id, "anulado")
}

// ── helpers ──────────────────────────────────────────────────────────────────

func comprobanteToResponse(c *model.Comprobante) *dto.ComprobanteResponse {
	items := make([]dto.ItemComprobanteResponse, 0, len(c.Items))
	for _, it := range c.Items {
		var pid *string
		if it.ProductoID != nil {
			s := it.ProductoID.String()
			pid = &s
		}
		items = append(items, dto.ItemComprobanteResponse{
			ProductoID:     pid,
			Codigo:         it.Codigo,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal,
		})
	}
	pagos := make([]dto.PagoResponse, 0, len(c.Pagos))
	for _, p := range c.Pagos {
		pagos = append(pagos, *pagoToResponse(&p))
	}
	resp := &dto.ComprobanteResponse{
		ID:            c.ID.String(),
		Tipo:          c.Tipo,
		PuntoDeVenta:  c.PuntoDeVenta,
		Numero:        c.Numero,
		FechaEmision:  c.FechaEmision.Format("2006-01-02"),
		MontoNeto:     c.MontoNeto,
		MontoIVA:      c.MontoIVA,
		MontoTotal:    c.MontoTotal,
		MontoPagado:   c.MontoPagado,
		Estado:        c.Estado,
		CondicionPago: c.CondicionPago,
		CAE:           c.CAE,
		Autorizado:    c.Autorizado,
		Items:         items,
		Pagos:         pagos,
	}
	if c.ContactoID != nil {
		id := c.ContactoID.String()
		resp.ContactoID = &id
	}
	if c.Contacto != nil {
		resp.ContactoNombre = c.Contacto.Nombre
	}
	if c.CAEVencimiento != nil {
		v := c.CAEVencimiento.Format("2006-01-02")
		resp.CAEVencimiento = &v
	}
	if c.Observaciones != nil {
		resp.Observaciones = *c.Observaciones
	}
	return resp
}
