package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"facturador/internal/afip"
	"facturador/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emisorDePrueba() PDFEmisor {
	return PDFEmisor{
		RazonSocial: "Servicios del Plata SRL",
		CUIT:        20111111112,
		Direccion:   "Av. Corrientes 1234, CABA",
	}
}

func facturaParaPDF() *model.Comprobante {
	cae := "71234567890123"
	venc := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return &model.Comprobante{
		Tipo:         afip.ComprobanteFacturaB,
		PuntoDeVenta: 1,
		Numero:       42,
		FechaEmision: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		MontoNeto:    decimal.RequireFromString("1000.00"),
		MontoIVA:     decimal.RequireFromString("210.00"),
		MontoTotal:   decimal.RequireFromString("1210.00"),
		Estado:       "pendiente",
		CAE:          &cae,
		CAEVencimiento: &venc,
		Autorizado:   true,
		Items: []model.ComprobanteItem{
			{
				Codigo:         "SRV-01",
				Descripcion:    "Servicio de consultoría",
				Cantidad:       2,
				PrecioUnitario: decimal.RequireFromString("605.00"),
				Subtotal:       decimal.RequireFromString("1210.00"),
			},
		},
	}
}

func TestGenerarComprobantePDF(t *testing.T) {
	dir := t.TempDir()

	path, err := GenerarComprobantePDF(facturaParaPDF(), emisorDePrueba(), dir)
	require.NoError(t, err)

	assert.Equal(t, "factura_b_0001_00000042.pdf", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500), "el PDF debe tener contenido")
}

func TestGenerarComprobantePDF_Presupuesto(t *testing.T) {
	dir := t.TempDir()

	c := facturaParaPDF()
	c.Tipo = afip.ComprobantePresupuesto
	c.PuntoDeVenta = 0
	c.Numero = 0
	c.CAE = nil
	c.CAEVencimiento = nil
	c.Autorizado = false
	c.MontoNeto = c.MontoTotal
	c.MontoIVA = decimal.Zero

	path, err := GenerarComprobantePDF(c, emisorDePrueba(), dir)
	require.NoError(t, err)

	assert.Equal(t, "presupuesto_0000_00000000.pdf", filepath.Base(path))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestGenerarComprobantePDF_CreaDirectorio(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "anidado", "pdfs")

	path, err := GenerarComprobantePDF(facturaParaPDF(), emisorDePrueba(), dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path) || filepath.Dir(path) == dir)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
