package infra

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"facturador/internal/afip"
	"facturador/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comprobanteAutorizado() *model.Comprobante {
	cae := "71234567890123"
	venc := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return &model.Comprobante{
		Tipo:           afip.ComprobanteFacturaB,
		PuntoDeVenta:   1,
		Numero:         42,
		FechaEmision:   time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		MontoTotal:     decimal.RequireFromString("1210.00"),
		CAE:            &cae,
		CAEVencimiento: &venc,
		Autorizado:     true,
	}
}

func decodificarPayload(t *testing.T, url string) map[string]interface{} {
	t.Helper()
	require.True(t, strings.HasPrefix(url, "https://www.afip.gob.ar/fe/qr/?p="))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "https://www.afip.gob.ar/fe/qr/?p="))
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func TestQRVerificacionURL(t *testing.T) {
	url, err := QRVerificacionURL(comprobanteAutorizado(), 20111111112)
	require.NoError(t, err)

	p := decodificarPayload(t, url)
	assert.EqualValues(t, 1, p["ver"])
	assert.Equal(t, "2026-08-20", p["fecha"])
	assert.EqualValues(t, 20111111112, p["cuit"])
	assert.EqualValues(t, 1, p["ptoVta"])
	assert.EqualValues(t, 6, p["tipoCmp"])
	assert.EqualValues(t, 42, p["nroCmp"])
	assert.EqualValues(t, 1210, p["importe"])
	assert.Equal(t, "PES", p["moneda"])
	assert.EqualValues(t, 1, p["ctz"])
	assert.Equal(t, "E", p["tipoCodAut"])
	assert.EqualValues(t, 71234567890123, p["codAut"])

	// Receptor anónimo: el documento no viaja.
	_, conDoc := p["nroDocRec"]
	assert.False(t, conDoc)
}

func TestQRVerificacionURL_ConReceptor(t *testing.T) {
	c := comprobanteAutorizado()
	cuit := "30111111118"
	c.Contacto = &model.Contacto{Nombre: "Distribuidora Sur SA", CUIT: &cuit}

	url, err := QRVerificacionURL(c, 20111111112)
	require.NoError(t, err)

	p := decodificarPayload(t, url)
	assert.EqualValues(t, afip.DocTipoCUIT, p["tipoDocRec"])
	assert.EqualValues(t, 30111111118, p["nroDocRec"])
}

func TestQRVerificacionURL_SinCAE(t *testing.T) {
	c := comprobanteAutorizado()
	c.CAE = nil

	_, err := QRVerificacionURL(c, 20111111112)
	assert.ErrorContains(t, err, "sin CAE")
}

func TestQRVerificacionURL_CAENoNumerico(t *testing.T) {
	c := comprobanteAutorizado()
	malo := "no-numerico"
	c.CAE = &malo

	_, err := QRVerificacionURL(c, 20111111112)
	assert.ErrorContains(t, err, "CAE no numérico")
}

func TestQRVerificacionURL_Presupuesto(t *testing.T) {
	c := comprobanteAutorizado()
	c.Tipo = afip.ComprobantePresupuesto

	// Un presupuesto nunca debería llegar acá, pero si llega el error es
	// de mapeo, no un QR inválido silencioso.
	_, err := QRVerificacionURL(c, 20111111112)
	assert.ErrorIs(t, err, afip.ErrCodigoNoMapeado)
}
