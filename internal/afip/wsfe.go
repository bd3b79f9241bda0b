package afip

// wsfe.go — WSFEV1 protocol client: last-authorized-number queries and CAE
// authorization requests. Requests are typed structs serialized once through
// encoding/xml; no string templating.
//
// WSFE signals errors on two layers: the SOAP transport can succeed while the
// payload carries an Errors array (hard) or an Events array (advisory). Both
// are inspected on every response before any business field is trusted.

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"facturador/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const wsfeNs = "http://ar.gov.afip.dif.FEV1/"

// Autenticador yields a valid access ticket for an AFIP sub-service.
type Autenticador interface {
	Autenticar(ctx context.Context, servicio string) (*model.TicketAcceso, error)
}

// ClienteWSFE talks to the WSFEV1 endpoint on behalf of one CUIT.
type ClienteWSFE struct {
	url        string
	cuit       int64
	auth       Autenticador
	httpClient *http.Client
}

func NewClienteWSFE(url string, cuit int64, auth Autenticador, timeout time.Duration) *ClienteWSFE {
	return &ClienteWSFE{
		url:        url,
		cuit:       cuit,
		auth:       auth,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Domain types ─────────────────────────────────────────────────────────────

// SolicitudCAE is a fully computed voucher ready for authorization.
type SolicitudCAE struct {
	TipoComprobante string
	PuntoDeVenta    int
	Numero          int64
	Fecha           time.Time

	MontoNeto  decimal.Decimal
	MontoIVA   decimal.Decimal
	MontoTotal decimal.Decimal

	// DocNro 0 means anonymous end consumer; DocTipo 0 lets the
	// per-category default from codigos.go apply.
	DocTipo int
	DocNro  int64

	// Internal enum; empty defaults to consumidor final.
	CondicionIVAReceptor string

	// Set for notas de crédito/débito: the voucher being corrected.
	Asociado *ComprobanteAsociado
}

// ComprobanteAsociado links a nota back to its original voucher.
type ComprobanteAsociado struct {
	Tipo         string
	PuntoDeVenta int
	Numero       int64
}

// ResultadoAutorizacion is the classified outcome of FECAESolicitar.
// Transport failures surface as *ErrorTransporte instead, because they are
// retryable while a rejection is not.
type ResultadoAutorizacion struct {
	Resultado     string // "A" aprobado | "R" rechazado
	CAE           string
	Vencimiento   time.Time
	Observaciones []Observacion
}

// Autorizado reports whether AFIP approved the voucher.
func (r *ResultadoAutorizacion) Autorizado() bool { return r.Resultado == "A" }

// ── SOAP shapes ──────────────────────────────────────────────────────────────

type feAuth struct {
	Token string `xml:"ar:Token"`
	Sign  string `xml:"ar:Sign"`
	Cuit  int64  `xml:"ar:Cuit"`
}

type soapEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	NsSoap  string   `xml:"xmlns:soap,attr"`
	NsAr    string   `xml:"xmlns:ar,attr"`
	Body    any      `xml:"soap:Body"`
}

type ultimoAutorizadoCall struct {
	XMLName  xml.Name `xml:"ar:FECompUltimoAutorizado"`
	Auth     feAuth   `xml:"ar:Auth"`
	PtoVta   int      `xml:"ar:PtoVta"`
	CbteTipo int      `xml:"ar:CbteTipo"`
}

type feError struct {
	Code int    `xml:"Code"`
	Msg  string `xml:"Msg"`
}

type feEvento struct {
	Code int    `xml:"Code"`
	Msg  string `xml:"Msg"`
}

type ultimoAutorizadoRespuesta struct {
	XMLName   xml.Name `xml:"Envelope"`
	Resultado struct {
		PtoVta   int        `xml:"PtoVta"`
		CbteTipo int        `xml:"CbteTipo"`
		CbteNro  int64      `xml:"CbteNro"`
		Errors   []feError  `xml:"Errors>Err"`
		Events   []feEvento `xml:"Events>Evt"`
	} `xml:"Body>FECompUltimoAutorizadoResponse>FECompUltimoAutorizadoResult"`
}

type caeSolicitarCall struct {
	XMLName  xml.Name `xml:"ar:FECAESolicitar"`
	Auth     feAuth   `xml:"ar:Auth"`
	FeCAEReq feCAEReq `xml:"ar:FeCAEReq"`
}

type feCAEReq struct {
	FeCabReq feCabReq `xml:"ar:FeCabReq"`
	FeDetReq feDetReq `xml:"ar:FeDetReq"`
}

type feCabReq struct {
	CantReg  int `xml:"ar:CantReg"`
	PtoVta   int `xml:"ar:PtoVta"`
	CbteTipo int `xml:"ar:CbteTipo"`
}

type feDetReq struct {
	Detalle feCAEDetRequest `xml:"ar:FECAEDetRequest"`
}

type feCAEDetRequest struct {
	Concepto   int    `xml:"ar:Concepto"`
	DocTipo    int    `xml:"ar:DocTipo"`
	DocNro     int64  `xml:"ar:DocNro"`
	CbteDesde  int64  `xml:"ar:CbteDesde"`
	CbteHasta  int64  `xml:"ar:CbteHasta"`
	CbteFch    string `xml:"ar:CbteFch"`
	ImpTotal   string `xml:"ar:ImpTotal"`
	ImpTotConc string `xml:"ar:ImpTotConc"`
	ImpNeto    string `xml:"ar:ImpNeto"`
	ImpOpEx    string `xml:"ar:ImpOpEx"`
	ImpTrib    string `xml:"ar:ImpTrib"`
	ImpIVA     string `xml:"ar:ImpIVA"`
	MonId      string `xml:"ar:MonId"`
	MonCotiz   string `xml:"ar:MonCotiz"`

	CondicionIVAReceptorId int `xml:"ar:CondicionIVAReceptorId"`

	CbtesAsoc *cbtesAsoc `xml:"ar:CbtesAsoc,omitempty"`
	Iva       *alicIvas  `xml:"ar:Iva,omitempty"`
}

type cbtesAsoc struct {
	CbteAsoc []cbteAsoc `xml:"ar:CbteAsoc"`
}

type cbteAsoc struct {
	Tipo   int   `xml:"ar:Tipo"`
	PtoVta int   `xml:"ar:PtoVta"`
	Nro    int64 `xml:"ar:Nro"`
}

type alicIvas struct {
	AlicIva []alicIva `xml:"ar:AlicIva"`
}

type alicIva struct {
	ID      int    `xml:"ar:Id"`
	BaseImp string `xml:"ar:BaseImp"`
	Importe string `xml:"ar:Importe"`
}

type caeSolicitarRespuesta struct {
	XMLName   xml.Name `xml:"Envelope"`
	Resultado struct {
		FeCabResp struct {
			Resultado string `xml:"Resultado"`
		} `xml:"FeCabResp"`
		FeDetResp struct {
			Detalles []feCAEDetResponse `xml:"FECAEDetResponse"`
		} `xml:"FeDetResp"`
		Errors []feError  `xml:"Errors>Err"`
		Events []feEvento `xml:"Events>Evt"`
	} `xml:"Body>FECAESolicitarResponse>FECAESolicitarResult"`
}

type feCAEDetResponse struct {
	CbteDesde     int64  `xml:"CbteDesde"`
	Resultado     string `xml:"Resultado"`
	CAE           string `xml:"CAE"`
	CAEFchVto     string `xml:"CAEFchVto"`
	Observaciones []struct {
		Code int    `xml:"Code"`
		Msg  string `xml:"Msg"`
	} `xml:"Observaciones>Obs"`
}

// ── Operations ───────────────────────────────────────────────────────────────

// ProximoNumero queries the last authorized number for (ptoVta, tipo) and
// returns last+1 — 1 when AFIP reports no prior voucher.
func (c *ClienteWSFE) ProximoNumero(ctx context.Context, ptoVta int, tipo string) (int64, error) {
	code, err := CodigoComprobante(tipo)
	if err != nil {
		return 0, err
	}
	ticket, err := c.auth.Autenticar(ctx, ServicioWSFE)
	if err != nil {
		return 0, err
	}

	call := ultimoAutorizadoCall{
		Auth:     feAuth{Token: ticket.Token, Sign: ticket.Firma, Cuit: c.cuit},
		PtoVta:   ptoVta,
		CbteTipo: code,
	}

	var parsed ultimoAutorizadoRespuesta
	if err := c.llamar(ctx, "FECompUltimoAutorizado", call, &parsed); err != nil {
		return 0, err
	}

	// Payload-level check before trusting the numeric result.
	if err := primerError(parsed.Resultado.Errors); err != nil {
		return 0, err
	}
	registrarEventos("FECompUltimoAutorizado", parsed.Resultado.Events)

	return parsed.Resultado.CbteNro + 1, nil
}

// Autorizar submits a FECAESolicitar request and classifies the outcome.
func (c *ClienteWSFE) Autorizar(ctx context.Context, sol SolicitudCAE) (*ResultadoAutorizacion, error) {
	det, err := c.armarDetalle(sol)
	if err != nil {
		return nil, err
	}
	code, _ := CodigoComprobante(sol.TipoComprobante) // validated by armarDetalle

	ticket, err := c.auth.Autenticar(ctx, ServicioWSFE)
	if err != nil {
		return nil, err
	}

	call := caeSolicitarCall{
		Auth: feAuth{Token: ticket.Token, Sign: ticket.Firma, Cuit: c.cuit},
		FeCAEReq: feCAEReq{
			FeCabReq: feCabReq{CantReg: 1, PtoVta: sol.PuntoDeVenta, CbteTipo: code},
			FeDetReq: feDetReq{Detalle: *det},
		},
	}

	var parsed caeSolicitarRespuesta
	if err := c.llamar(ctx, "FECAESolicitar", call, &parsed); err != nil {
		return nil, err
	}

	if err := primerError(parsed.Resultado.Errors); err != nil {
		return nil, err
	}
	registrarEventos("FECAESolicitar", parsed.Resultado.Events)

	if len(parsed.Resultado.FeDetResp.Detalles) == 0 {
		return nil, &ErrorAFIP{Mensaje: "respuesta FECAESolicitar sin detalle"}
	}
	detalle := parsed.Resultado.FeDetResp.Detalles[0]

	res := &ResultadoAutorizacion{
		Resultado: detalle.Resultado,
		CAE:       detalle.CAE,
	}
	for _, o := range detalle.Observaciones {
		res.Observaciones = append(res.Observaciones, Observacion{Codigo: o.Code, Mensaje: o.Msg})
	}
	if detalle.CAEFchVto != "" {
		venc, err := time.Parse("20060102", detalle.CAEFchVto)
		if err != nil {
			return nil, &ErrorAFIP{Mensaje: fmt.Sprintf("CAEFchVto %q no parseable", detalle.CAEFchVto)}
		}
		res.Vencimiento = venc
	}

	if res.Autorizado() {
		log.Info().
			Str("cae", res.CAE).
			Int("pto_vta", sol.PuntoDeVenta).
			Int64("numero", sol.Numero).
			Msg("wsfe: CAE otorgado")
	} else {
		log.Warn().
			Int("pto_vta", sol.PuntoDeVenta).
			Int64("numero", sol.Numero).
			Int("observaciones", len(res.Observaciones)).
			Msg("wsfe: comprobante rechazado")
	}
	return res, nil
}

// armarDetalle applies the per-category build rules:
//   - receiver document only when the voucher actually carries one,
//     consumidor final (99/0) otherwise;
//   - letra C reports IVA as exactly zero and omits the AlicIva block;
//   - other letters carry exactly one 21% breakdown line;
//   - notas must link their original voucher via CbtesAsoc.
func (c *ClienteWSFE) armarDetalle(sol SolicitudCAE) (*feCAEDetRequest, error) {
	categoria := CategoriaComprobante(sol.TipoComprobante)
	if categoria == "" {
		return nil, fmt.Errorf("%w: tipo %q no es fiscal", ErrCodigoNoMapeado, sol.TipoComprobante)
	}

	docTipo, docNro := sol.DocTipo, sol.DocNro
	if docNro == 0 {
		docTipo, docNro = DocTipoConsumidorFinal, 0
	} else if docTipo == 0 {
		docTipo = DocTipoReceptorPorCategoria[categoria]
	}

	condicion := sol.CondicionIVAReceptor
	if condicion == "" {
		condicion = CondicionConsumidorFinal
	}
	condicionCode, err := CodigoCondicionIVA(condicion)
	if err != nil {
		return nil, err
	}

	det := &feCAEDetRequest{
		Concepto:               1, // productos
		DocTipo:                docTipo,
		DocNro:                 docNro,
		CbteDesde:              sol.Numero,
		CbteHasta:              sol.Numero,
		CbteFch:                sol.Fecha.Format("20060102"),
		ImpTotal:               sol.MontoTotal.StringFixed(2),
		ImpTotConc:             "0.00",
		ImpOpEx:                "0.00",
		ImpTrib:                "0.00",
		MonId:                  "PES",
		MonCotiz:               "1.000",
		CondicionIVAReceptorId: condicionCode,
	}

	if categoria == "C" {
		// Letra C: no IVA discrimination — neto equals total, IVA exactly 0.
		det.ImpNeto = sol.MontoTotal.StringFixed(2)
		det.ImpIVA = "0.00"
	} else {
		det.ImpNeto = sol.MontoNeto.StringFixed(2)
		det.ImpIVA = sol.MontoIVA.StringFixed(2)
		det.Iva = &alicIvas{AlicIva: []alicIva{{
			ID:      AlicIVA21,
			BaseImp: sol.MontoNeto.StringFixed(2),
			Importe: sol.MontoIVA.StringFixed(2),
		}}}
	}

	if EsNota(sol.TipoComprobante) {
		if sol.Asociado == nil {
			return nil, fmt.Errorf("afip: nota %s sin comprobante asociado", sol.TipoComprobante)
		}
		asocCode, err := CodigoComprobante(sol.Asociado.Tipo)
		if err != nil {
			return nil, err
		}
		det.CbtesAsoc = &cbtesAsoc{CbteAsoc: []cbteAsoc{{
			Tipo:   asocCode,
			PtoVta: sol.Asociado.PuntoDeVenta,
			Nro:    sol.Asociado.Numero,
		}}}
	}

	return det, nil
}

// llamar posts one SOAP call and decodes the response envelope into out.
func (c *ClienteWSFE) llamar(ctx context.Context, accion string, body any, out any) error {
	env := soapEnvelope{NsSoap: soapNsEnvelope, NsAr: wsfeNs, Body: body}
	payload, err := xml.Marshal(env)
	if err != nil {
		return fmt.Errorf("afip: armado de envelope %s: %w", accion, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url,
		bytes.NewReader(append([]byte(xml.Header), payload...)))
	if err != nil {
		return fmt.Errorf("afip: creacion de request %s: %w", accion, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", wsfeNs+accion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ErrorTransporte{Op: accion, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ErrorTransporte{Op: accion, Err: fmt.Errorf("HTTP %d: %s",
			resp.StatusCode, bytes.TrimSpace(raw))}
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ErrorTransporte{Op: accion, Err: fmt.Errorf("respuesta no parseable: %w", err)}
	}
	return nil
}

func primerError(errs []feError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ErrorAFIP{Codigo: errs[0].Code, Mensaje: errs[0].Msg}
}

// registrarEventos logs advisory events embedded in an OK payload. Events are
// never failures.
func registrarEventos(accion string, eventos []feEvento) {
	for _, e := range eventos {
		log.Info().
			Str("accion", accion).
			Str("evento", strconv.Itoa(e.Code)+": "+e.Msg).
			Msg("wsfe: evento informativo")
	}
}
