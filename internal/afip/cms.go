package afip

import (
	"crypto"
	"crypto/x509"

	"go.mozilla.org/pkcs7"
)

// firmarCMS produces a DER-encoded PKCS#7 SignedData blob over content.
// The signed content stays embedded (WSAA rejects detached signatures).
func firmarCMS(content []byte, cert *x509.Certificate, key crypto.PrivateKey) ([]byte, error) {
	sd, err := pkcs7.NewSignedData(content)
	if err != nil {
		return nil, err
	}
	if err := sd.AddSigner(cert, key, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, err
	}
	return sd.Finish()
}
