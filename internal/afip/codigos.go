package afip

// codigos.go — static mappings between internal enums and AFIP numeric codes.
// Every internal value used at the WSFE boundary must have an entry here;
// a missing entry surfaces as ErrCodigoNoMapeado before anything is sent.

import "fmt"

// Tipos internos de comprobante.
// "presupuesto" is the only non-fiscal type: it carries no punto de venta,
// no numero (both 0) and is never sent to AFIP.
const (
	ComprobanteFacturaA     = "factura_a"
	ComprobanteFacturaB     = "factura_b"
	ComprobanteFacturaC     = "factura_c"
	ComprobanteNotaCreditoA = "nota_credito_a"
	ComprobanteNotaCreditoB = "nota_credito_b"
	ComprobanteNotaCreditoC = "nota_credito_c"
	ComprobanteNotaDebitoA  = "nota_debito_a"
	ComprobanteNotaDebitoB  = "nota_debito_b"
	ComprobanteNotaDebitoC  = "nota_debito_c"
	ComprobantePresupuesto  = "presupuesto"
)

// WSFE CbteTipo codes.
var codigosComprobante = map[string]int{
	ComprobanteFacturaA:     1,
	ComprobanteNotaDebitoA:  2,
	ComprobanteNotaCreditoA: 3,
	ComprobanteFacturaB:     6,
	ComprobanteNotaDebitoB:  7,
	ComprobanteNotaCreditoB: 8,
	ComprobanteFacturaC:     11,
	ComprobanteNotaDebitoC:  12,
	ComprobanteNotaCreditoC: 13,
}

// CodigoComprobante maps an internal voucher type to its WSFE CbteTipo code.
func CodigoComprobante(tipo string) (int, error) {
	code, ok := codigosComprobante[tipo]
	if !ok {
		return 0, fmt.Errorf("%w: tipo de comprobante %q", ErrCodigoNoMapeado, tipo)
	}
	return code, nil
}

// Condiciones de IVA del receptor (internal enum values).
const (
	CondicionResponsableInscripto = "responsable_inscripto"
	CondicionExento               = "exento"
	CondicionConsumidorFinal      = "consumidor_final"
	CondicionMonotributo          = "monotributo"
)

// WSFE CondicionIVAReceptorId codes (RG 5616).
var codigosCondicionIVA = map[string]int{
	CondicionResponsableInscripto: 1,
	CondicionExento:               4,
	CondicionConsumidorFinal:      5,
	CondicionMonotributo:          6,
}

// CodigoCondicionIVA maps an internal IVA condition to its receptor code.
func CodigoCondicionIVA(condicion string) (int, error) {
	code, ok := codigosCondicionIVA[condicion]
	if !ok {
		return 0, fmt.Errorf("%w: condicion IVA %q", ErrCodigoNoMapeado, condicion)
	}
	return code, nil
}

// Tipos de documento del receptor (WSFE DocTipo).
//
// DocTipoCDI is kept as a named constant because the legacy system used it
// and DocTipoCUIT interchangeably for the same receiver scenario; which one
// is authoritative was never settled. The per-category table below is the
// single decision point — change it there, not at call sites.
const (
	DocTipoCUIT            = 80
	DocTipoCUIL            = 86
	DocTipoCDI             = 87
	DocTipoDNI             = 96
	DocTipoConsumidorFinal = 99
)

// DocTipoReceptorPorCategoria is the default document-type code used when a
// contact carries a tax document, keyed by voucher category letter.
var DocTipoReceptorPorCategoria = map[string]int{
	"A": DocTipoCUIT,
	"B": DocTipoCUIT,
	"C": DocTipoCUIT,
}

// IVA general del 21% — the only rate this pipeline emits.
// AlicIVA21 is the WSFE AlicIva Id for that rate.
const (
	AlicIVA21      = 5
	TasaIVAGeneral = "1.21"
)

// CategoriaComprobante returns the AFIP letter ("A", "B" or "C") of a
// voucher type, or "" for non-fiscal types.
func CategoriaComprobante(tipo string) string {
	switch tipo {
	case ComprobanteFacturaA, ComprobanteNotaCreditoA, ComprobanteNotaDebitoA:
		return "A"
	case ComprobanteFacturaB, ComprobanteNotaCreditoB, ComprobanteNotaDebitoB:
		return "B"
	case ComprobanteFacturaC, ComprobanteNotaCreditoC, ComprobanteNotaDebitoC:
		return "C"
	default:
		return ""
	}
}

// EsNota reports whether the type is a credit or debit note, which must link
// back to the voucher it corrects.
func EsNota(tipo string) bool {
	switch tipo {
	case ComprobanteNotaCreditoA, ComprobanteNotaCreditoB, ComprobanteNotaCreditoC,
		ComprobanteNotaDebitoA, ComprobanteNotaDebitoB, ComprobanteNotaDebitoC:
		return true
	}
	return false
}

// EsFiscal reports whether the type is emitted through AFIP at all.
func EsFiscal(tipo string) bool {
	_, ok := codigosComprobante[tipo]
	return ok
}

// TipoValido reports whether tipo is a known internal voucher type.
func TipoValido(tipo string) bool {
	return tipo == ComprobantePresupuesto || EsFiscal(tipo)
}
