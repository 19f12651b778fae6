package token

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ParseRSAPrivateKey decodes a PEM-encoded RSA private key in PKCS1 or PKCS8
// form.
func ParseRSAPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("token: parse private key: %w", err)
	}
	return key, nil
}

// ParseRSAPublicKey decodes a PEM-encoded RSA public key. PKIX and certificate
// forms go through the jwt helper; the older PKCS1 "RSA PUBLIC KEY" form is
// handled here directly.
func ParseRSAPublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	if block, _ := pem.Decode(pemBytes); block != nil && block.Type == "RSA PUBLIC KEY" {
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("token: parse PKCS1 public key: %w", err)
		}
		return key, nil
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("token: parse public key: %w", err)
	}
	return key, nil
}
