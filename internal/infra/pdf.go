package infra

// pdf.go — PDF rendering of emitted comprobantes using go-pdf/fpdf.
// A4 layout with emitter header, receptor block, item table, IVA breakdown
// and the fiscal footer (CAE + vencimiento + AFIP verification URL).
//
// The output file is saved to storagePath/{tipo}_{ptoVta}_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"facturador/internal/afip"
	"facturador/internal/model"

	"github.com/go-pdf/fpdf"
)

// PDFEmisor carries the letterhead data stamped on every document.
type PDFEmisor struct {
	RazonSocial string
	CUIT        int64
	Direccion   string
}

var nombresTipo = map[string]string{
	afip.ComprobanteFacturaA:     "FACTURA A",
	afip.ComprobanteFacturaB:     "FACTURA B",
	afip.ComprobanteFacturaC:     "FACTURA C",
	afip.ComprobanteNotaCreditoA: "NOTA DE CRÉDITO A",
	afip.ComprobanteNotaCreditoB: "NOTA DE CRÉDITO B",
	afip.ComprobanteNotaCreditoC: "NOTA DE CRÉDITO C",
	afip.ComprobanteNotaDebitoA:  "NOTA DE DÉBITO A",
	afip.ComprobanteNotaDebitoB:  "NOTA DE DÉBITO B",
	afip.ComprobanteNotaDebitoC:  "NOTA DE DÉBITO C",
	afip.ComprobantePresupuesto:  "PRESUPUESTO",
}

// GenerarComprobantePDF renders a voucher to disk and returns the absolute
// path of the generated file.
func GenerarComprobantePDF(c *model.Comprobante, emisor PDFEmisor, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("%s_%04d_%08d.pdf", c.Tipo, c.PuntoDeVenta, c.Numero)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	titulo := nombresTipo[c.Tipo]
	if titulo == "" {
		titulo = c.Tipo
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, titulo, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if c.Numero > 0 {
		pdf.CellFormat(contentW, 6,
			fmt.Sprintf("N° %04d-%08d", c.PuntoDeVenta, c.Numero), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(contentW, 6, "Fecha: "+c.FechaEmision.Format("02/01/2006"), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Emisor ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 5, emisor.RazonSocial, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("CUIT: %d", emisor.CUIT), "", 1, "L", false, 0, "")
	if emisor.Direccion != "" {
		pdf.CellFormat(contentW, 5, emisor.Direccion, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Receptor ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	if c.Contacto != nil {
		pdf.CellFormat(contentW, 5, "Cliente: "+c.Contacto.Nombre, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		if c.Contacto.CUIT != nil && *c.Contacto.CUIT != "" {
			pdf.CellFormat(contentW, 5, "CUIT: "+*c.Contacto.CUIT, "", 1, "L", false, 0, "")
		}
	} else {
		pdf.CellFormat(contentW, 5, "Cliente: Consumidor Final", "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.14 // codigo
	col2 := contentW * 0.42 // descripcion
	col3 := contentW * 0.10 // cantidad
	col4 := contentW * 0.17 // precio unitario
	col5 := contentW * 0.17 // subtotal

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Código", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Descripción", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Cant.", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col4, 6, "P. Unit.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range c.Items {
		desc := item.Descripcion
		if len(desc) > 45 {
			desc = desc[:44] + "…"
		}
		pdf.CellFormat(col1, 6, item.Codigo, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, fmt.Sprintf("%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+item.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, "$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totales ───────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3 + col4
	if !c.MontoIVA.IsZero() {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(labelW, 5, "Neto gravado:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 5, "$"+c.MontoNeto.StringFixed(2), "", 1, "R", false, 0, "")
		pdf.CellFormat(labelW, 5, "IVA 21%:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 5, "$"+c.MontoIVA.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 7, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 7, "$"+c.MontoTotal.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Pie fiscal ───────────────────────────────────────────────────────────
	if c.CAE != nil && *c.CAE != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 5, "CAE: "+*c.CAE, "", 1, "L", false, 0, "")
		if c.CAEVencimiento != nil {
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(contentW, 5,
				"Vencimiento CAE: "+c.CAEVencimiento.Format("02/01/2006"), "", 1, "L", false, 0, "")
		}
		if url, err := QRVerificacionURL(c, emisor.CUIT); err == nil {
			pdf.SetFont("Helvetica", "", 6)
			pdf.MultiCell(contentW, 3.5, "Verificación AFIP: "+url, "", "L", false)
		}
	} else if c.Tipo == afip.ComprobantePresupuesto {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 5, "Documento no válido como factura", "", 1, "C", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
