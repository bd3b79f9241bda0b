package afip

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCodigoNoMapeado indicates that an internal enum value has no AFIP code.
// This is a programming/configuration error, never a user error.
var ErrCodigoNoMapeado = errors.New("afip: valor interno sin codigo AFIP mapeado")

// ErrConfiguracion marks fatal configuration problems (missing cert/key,
// unparseable credentials). Never retried: the same inputs will fail again.
var ErrConfiguracion = errors.New("afip: error de configuracion")

// ErrorTransporte wraps network failures and timeouts against AFIP.
// Retryable by the caller with backoff; never converted into a rejection.
type ErrorTransporte struct {
	Op  string
	Err error
}

func (e *ErrorTransporte) Error() string {
	return fmt.Sprintf("afip: %s: error de transporte: %v", e.Op, e.Err)
}

func (e *ErrorTransporte) Unwrap() error { return e.Err }

// Retryable always reports true: a transport failure says nothing about the
// validity of the request itself.
func (e *ErrorTransporte) Retryable() bool { return true }

// Observacion is an authority-supplied reason code with its verbatim message.
type Observacion struct {
	Codigo  int
	Mensaje string
}

func (o Observacion) String() string {
	return fmt.Sprintf("[%d] %s", o.Codigo, o.Mensaje)
}

// RechazoAFIP means AFIP accepted the request but declined it. The
// observations are the only actionable diagnostic a business user has, so
// they travel verbatim. Not retryable with the same payload.
type RechazoAFIP struct {
	Observaciones []Observacion
}

func (e *RechazoAFIP) Error() string {
	if len(e.Observaciones) == 0 {
		return "afip: comprobante rechazado"
	}
	msgs := make([]string, len(e.Observaciones))
	for i, o := range e.Observaciones {
		msgs[i] = o.String()
	}
	return "afip: comprobante rechazado: " + strings.Join(msgs, "; ")
}

// ErrorAFIP is an application-level error embedded in an otherwise OK
// transport response (the Errors array of a WSFE payload). Distinct from a
// rejection: the request never reached business evaluation.
type ErrorAFIP struct {
	Codigo  int
	Mensaje string
}

func (e *ErrorAFIP) Error() string {
	return fmt.Sprintf("afip: error %d: %s", e.Codigo, e.Mensaje)
}
