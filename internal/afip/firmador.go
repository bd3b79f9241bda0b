package afip

// firmador.go — builds the WSAA loginTicketRequest document and produces the
// CMS (PKCS#7) signature AFIP requires, base64-encoded for the SOAP body.

import (
	"crypto"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"encoding/xml"
	"fmt"
	"os"
	"time"
)

// Clock-skew tolerance of the login ticket: generated ~10 minutes in the
// past, valid ~12 hours into the future, per WSAA's own windows.
const (
	ticketSkewPasado = 10 * time.Minute
	ticketVigencia   = 12 * time.Hour
)

// loginTicketRequest is the document WSAA expects inside the CMS signature.
type loginTicketRequest struct {
	XMLName xml.Name          `xml:"loginTicketRequest"`
	Version string            `xml:"version,attr"`
	Header  loginTicketHeader `xml:"header"`
	Service string            `xml:"service"`
}

type loginTicketHeader struct {
	UniqueID       int64  `xml:"uniqueId"`
	GenerationTime string `xml:"generationTime"`
	ExpirationTime string `xml:"expirationTime"`
}

// Firmador signs login tickets with the business certificate and private key.
// A Firmador that fails to construct is a fatal configuration error: retrying
// with the same cert/key will not fix a missing signing capability.
type Firmador struct {
	cert *x509.Certificate
	key  crypto.PrivateKey
}

// NewFirmador parses PEM-encoded certificate and private key bytes.
func NewFirmador(certPEM, keyPEM []byte) (*Firmador, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, fmt.Errorf("%w: certificado PEM invalido", ErrConfiguracion)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parseo de certificado: %v", ErrConfiguracion, err)
	}

	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, fmt.Errorf("%w: clave privada PEM invalida", ErrConfiguracion)
	}
	key, err := parsePrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parseo de clave privada: %v", ErrConfiguracion, err)
	}

	return &Firmador{cert: cert, key: key}, nil
}

// NewFirmadorDesdeArchivos loads the cert/key pair from the configured paths.
func NewFirmadorDesdeArchivos(certPath, keyPath string) (*Firmador, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("%w: lectura de certificado %s: %v", ErrConfiguracion, certPath, err)
	}
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: lectura de clave %s: %v", ErrConfiguracion, keyPath, err)
	}
	return NewFirmador(certPEM, keyPEM)
}

func parsePrivateKey(der []byte) (crypto.PrivateKey, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, fmt.Errorf("formato de clave no soportado (se espera PKCS#1, PKCS#8 o EC)")
}

// TicketRequest builds the XML login ticket for a given sub-service at now.
func TicketRequest(servicio string, now time.Time) ([]byte, error) {
	req := loginTicketRequest{
		Version: "1.0",
		Header: loginTicketHeader{
			UniqueID:       now.Unix(),
			GenerationTime: now.Add(-ticketSkewPasado).Format(time.RFC3339),
			ExpirationTime: now.Add(ticketVigencia).Format(time.RFC3339),
		},
		Service: servicio,
	}
	out, err := xml.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("afip: armado de loginTicketRequest: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// TicketFirmado returns the base64 CMS signature over the login ticket for
// servicio, ready for the loginCms SOAP body.
func (f *Firmador) TicketFirmado(servicio string, now time.Time) (string, error) {
	doc, err := TicketRequest(servicio, now)
	if err != nil {
		return "", err
	}

	signed, err := firmarCMS(doc, f.cert, f.key)
	if err != nil {
		return "", fmt.Errorf("%w: firma CMS: %v", ErrConfiguracion, err)
	}
	return base64.StdEncoding.EncodeToString(signed), nil
}
