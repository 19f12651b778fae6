package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRSAKeys(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPKCS1 := pem.EncodeToMemory(&pem.Block{
		Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	got, err := ParseRSAPrivateKey(privPKCS1)
	require.NoError(t, err)
	require.True(t, key.Equal(got))

	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	got, err = ParseRSAPrivateKey(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}))
	require.NoError(t, err)
	require.True(t, key.Equal(got))

	pkix, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	gotPub, err := ParseRSAPublicKey(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkix}))
	require.NoError(t, err)
	require.True(t, key.PublicKey.Equal(gotPub))

	pkcs1Pub := pem.EncodeToMemory(&pem.Block{
		Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey),
	})
	gotPub, err = ParseRSAPublicKey(pkcs1Pub)
	require.NoError(t, err)
	require.True(t, key.PublicKey.Equal(gotPub))

	_, err = ParseRSAPrivateKey([]byte("not pem"))
	require.Error(t, err)
	_, err = ParseRSAPublicKey([]byte("not pem"))
	require.Error(t, err)
}
