package infra

// qr.go — AFIP QR payload (RG 4892). Every printed fiscal voucher carries a
// QR pointing to AFIP's verification page with a base64-encoded JSON payload.

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"facturador/internal/afip"
	"facturador/internal/model"
)

const qrBaseURL = "https://www.afip.gob.ar/fe/qr/?p="

// qrPayload is the fixed JSON shape mandated by RG 4892.
type qrPayload struct {
	Ver      int     `json:"ver"`
	Fecha    string  `json:"fecha"`
	CUIT     int64   `json:"cuit"`
	PtoVta   int     `json:"ptoVta"`
	TipoCmp  int     `json:"tipoCmp"`
	NroCmp   int64   `json:"nroCmp"`
	Importe  float64 `json:"importe"`
	Moneda   string  `json:"moneda"`
	Ctz      float64 `json:"ctz"`
	TipoDoc  *int    `json:"tipoDocRec,omitempty"`
	NroDoc   *int64  `json:"nroDocRec,omitempty"`
	TipoCod  string  `json:"tipoCodAut"`
	CodAut   int64   `json:"codAut"`
}

// QRVerificacionURL builds the AFIP verification URL for an authorized
// voucher. Fails for vouchers without CAE: the QR only exists on fiscal
// documents.
func QRVerificacionURL(c *model.Comprobante, cuitEmisor int64) (string, error) {
	if c.CAE == nil || *c.CAE == "" {
		return "", fmt.Errorf("qr: comprobante sin CAE")
	}
	tipoCmp, err := afip.CodigoComprobante(c.Tipo)
	if err != nil {
		return "", err
	}
	codAut, err := strconv.ParseInt(*c.CAE, 10, 64)
	if err != nil {
		return "", fmt.Errorf("qr: CAE no numérico: %w", err)
	}
	total, _ := c.MontoTotal.Round(2).Float64()

	p := qrPayload{
		Ver:     1,
		Fecha:   c.FechaEmision.Format("2006-01-02"),
		CUIT:    cuitEmisor,
		PtoVta:  c.PuntoDeVenta,
		TipoCmp: tipoCmp,
		NroCmp:  c.Numero,
		Importe: total,
		Moneda:  "PES",
		Ctz:     1,
		TipoCod: "E", // CAE
		CodAut:  codAut,
	}
	if c.Contacto != nil && c.Contacto.CUIT != nil && *c.Contacto.CUIT != "" {
		if nro, err := strconv.ParseInt(*c.Contacto.CUIT, 10, 64); err == nil {
			tipoDoc := afip.DocTipoCUIT
			p.TipoDoc = &tipoDoc
			p.NroDoc = &nro
		}
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return qrBaseURL + base64.StdEncoding.EncodeToString(raw), nil
}
