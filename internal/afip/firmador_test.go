package afip

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"encoding/xml"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mozilla.org/pkcs7"
)

// certDePrueba generates a self-signed certificate + key pair, PEM-encoded.
func certDePrueba(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "facturador-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	return certPEM, keyPEM
}

func TestTicketRequest_Ventanas(t *testing.T) {
	ahora := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	doc, err := TicketRequest(ServicioWSFE, ahora)
	require.NoError(t, err)

	var req struct {
		XMLName xml.Name `xml:"loginTicketRequest"`
		Version string   `xml:"version,attr"`
		Header  struct {
			UniqueID       int64  `xml:"uniqueId"`
			GenerationTime string `xml:"generationTime"`
			ExpirationTime string `xml:"expirationTime"`
		} `xml:"header"`
		Service string `xml:"service"`
	}
	require.NoError(t, xml.Unmarshal(doc, &req))

	assert.Equal(t, "1.0", req.Version)
	assert.Equal(t, "wsfe", req.Service)
	assert.Equal(t, ahora.Unix(), req.Header.UniqueID)

	gen, err := time.Parse(time.RFC3339, req.Header.GenerationTime)
	require.NoError(t, err)
	exp, err := time.Parse(time.RFC3339, req.Header.ExpirationTime)
	require.NoError(t, err)

	// generationTime de 10 minutos atrás para tolerar clock skew;
	// expirationTime 12 horas adelante.
	assert.Equal(t, ahora.Add(-10*time.Minute).Unix(), gen.Unix())
	assert.Equal(t, ahora.Add(12*time.Hour).Unix(), exp.Unix())
}

func TestNewFirmador_CertInvalido(t *testing.T) {
	_, keyPEM := certDePrueba(t)

	_, err := NewFirmador([]byte("no es PEM"), keyPEM)
	assert.ErrorIs(t, err, ErrConfiguracion)
}

func TestNewFirmador_ClaveInvalida(t *testing.T) {
	certPEM, _ := certDePrueba(t)

	_, err := NewFirmador(certPEM, []byte("tampoco"))
	assert.ErrorIs(t, err, ErrConfiguracion)
}

func TestTicketFirmado_CMSParseable(t *testing.T) {
	certPEM, keyPEM := certDePrueba(t)
	f, err := NewFirmador(certPEM, keyPEM)
	require.NoError(t, err)

	cms, err := f.TicketFirmado(ServicioWSFE, time.Now())
	require.NoError(t, err)

	der, err := base64.StdEncoding.DecodeString(cms)
	require.NoError(t, err, "el CMS debe viajar en base64 estándar")

	p7, err := pkcs7.Parse(der)
	require.NoError(t, err)

	// El documento firmado viaja embebido (WSAA rechaza firmas detached).
	contenido := string(p7.Content)
	assert.Contains(t, contenido, "<loginTicketRequest")
	assert.Contains(t, contenido, "<service>wsfe</service>")
	assert.True(t, strings.HasPrefix(contenido, xml.Header[:5]))
}
