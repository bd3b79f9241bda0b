package afip

// wsaa.go — AFIP authentication service client (LoginCms).
// Produces time-boxed access tickets and caches them in the ticket store so
// the dominant path is a DB read, not a network round-trip.

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"facturador/internal/model"
	"facturador/internal/repository"

	"github.com/rs/zerolog/log"
)

// ServicioWSFE is the WSDL service name WSFE tickets are issued for.
const ServicioWSFE = "wsfe"

const soapNsEnvelope = "http://schemas.xmlsoap.org/soap/envelope/"
const wsaaNs = "http://wsaa.view.sua.dvadac.desein.afip.gov"

// Ticket lifecycle per service: ABSENT → AUTHENTICATING → VALID → EXPIRED →
// AUTHENTICATING → … Expiration is purely time-based; there is no revocation.

// ClienteWSAA authenticates against the WSAA login endpoint.
type ClienteWSAA struct {
	url        string
	firmador   *Firmador
	tickets    repository.TicketRepository
	httpClient *http.Client
}

func NewClienteWSAA(url string, firmador *Firmador, tickets repository.TicketRepository, timeout time.Duration) *ClienteWSAA {
	return &ClienteWSAA{
		url:        url,
		firmador:   firmador,
		tickets:    tickets,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── SOAP request/response shapes ─────────────────────────────────────────────

type loginCmsEnvelope struct {
	XMLName xml.Name     `xml:"soapenv:Envelope"`
	NsSoap  string       `xml:"xmlns:soapenv,attr"`
	NsWsaa  string       `xml:"xmlns:wsaa,attr"`
	Body    loginCmsBody `xml:"soapenv:Body"`
}

type loginCmsBody struct {
	LoginCms loginCmsCall `xml:"wsaa:loginCms"`
}

type loginCmsCall struct {
	In0 string `xml:"wsaa:in0"`
}

// loginCmsRespuesta matches the WSAA response envelope. loginCmsReturn holds
// the XML-escaped loginTicketResponse; the decoder unescapes it into a string
// that is parsed in a second pass.
type loginCmsRespuesta struct {
	XMLName xml.Name `xml:"Envelope"`
	Return  string   `xml:"Body>loginCmsResponse>loginCmsReturn"`
	Fault   struct {
		Code   string `xml:"faultcode"`
		String string `xml:"faultstring"`
	} `xml:"Body>Fault"`
}

type loginTicketResponse struct {
	XMLName xml.Name `xml:"loginTicketResponse"`
	Header  struct {
		ExpirationTime string `xml:"expirationTime"`
	} `xml:"header"`
	Credentials struct {
		Token string `xml:"token"`
		Sign  string `xml:"sign"`
	} `xml:"credentials"`
}

// ── Operations ───────────────────────────────────────────────────────────────

// Autenticar returns a valid access ticket for servicio.
// Fast path: a non-expired persisted ticket, no network call. Otherwise signs
// a fresh login ticket, posts it to WSAA, and persists the result before
// returning it. Transport failures are NOT retried here so that authority
// outages stay visible to the caller.
func (c *ClienteWSAA) Autenticar(ctx context.Context, servicio string) (*model.TicketAcceso, error) {
	if t, err := c.tickets.Find(ctx, servicio); err == nil && t.Vigente(time.Now()) {
		return t, nil
	}

	cms, err := c.firmador.TicketFirmado(servicio, time.Now())
	if err != nil {
		return nil, err
	}

	ltr, err := c.loginCms(ctx, cms)
	if err != nil {
		return nil, err
	}

	expira, err := time.Parse(time.RFC3339, ltr.Header.ExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("%w: expirationTime %q no parseable: %v",
			ErrConfiguracion, ltr.Header.ExpirationTime, err)
	}

	ticket := &model.TicketAcceso{
		Servicio: servicio,
		Token:    ltr.Credentials.Token,
		Firma:    ltr.Credentials.Sign,
		ExpiraEn: expira,
	}
	if err := c.tickets.Guardar(ctx, ticket); err != nil {
		return nil, fmt.Errorf("afip: persistencia de ticket %s: %w", servicio, err)
	}

	log.Info().
		Str("servicio", servicio).
		Time("expira_en", expira).
		Msg("wsaa: ticket de acceso renovado")
	return ticket, nil
}

func (c *ClienteWSAA) loginCms(ctx context.Context, cms string) (*loginTicketResponse, error) {
	env := loginCmsEnvelope{
		NsSoap: soapNsEnvelope,
		NsWsaa: wsaaNs,
		Body:   loginCmsBody{LoginCms: loginCmsCall{In0: cms}},
	}
	payload, err := xml.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("afip: armado de envelope loginCms: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url,
		bytes.NewReader(append([]byte(xml.Header), payload...)))
	if err != nil {
		return nil, fmt.Errorf("afip: creacion de request loginCms: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ErrorTransporte{Op: "loginCms", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &ErrorTransporte{Op: "loginCms", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		// Un fault SOAP llega con 500 y cuerpo XML; cualquier otro no-200
		// (el 502 de un balanceador, HTML de mantenimiento) es transporte.
		var fallo loginCmsRespuesta
		if xml.Unmarshal(raw, &fallo) == nil && fallo.Fault.String != "" {
			return nil, fmt.Errorf("%w: fault WSAA %s: %s",
				ErrConfiguracion, fallo.Fault.Code, fallo.Fault.String)
		}
		snippet := bytes.TrimSpace(raw)
		if len(snippet) > 4096 {
			snippet = snippet[:4096]
		}
		return nil, &ErrorTransporte{Op: "loginCms", Err: fmt.Errorf("HTTP %d: %s",
			resp.StatusCode, snippet)}
	}

	var parsed loginCmsRespuesta
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: respuesta WSAA no parseable: %v", ErrConfiguracion, err)
	}
	if parsed.Fault.String != "" {
		return nil, fmt.Errorf("%w: fault WSAA %s: %s",
			ErrConfiguracion, parsed.Fault.Code, parsed.Fault.String)
	}
	if parsed.Return == "" {
		return nil, fmt.Errorf("%w: respuesta WSAA sin loginCmsReturn", ErrConfiguracion)
	}

	var ltr loginTicketResponse
	if err := xml.Unmarshal([]byte(parsed.Return), &ltr); err != nil {
		return nil, fmt.Errorf("%w: loginTicketResponse no parseable: %v", ErrConfiguracion, err)
	}
	if ltr.Credentials.Token == "" || ltr.Credentials.Sign == "" {
		return nil, fmt.Errorf("%w: loginTicketResponse sin credenciales", ErrConfiguracion)
	}
	return &ltr, nil
}
