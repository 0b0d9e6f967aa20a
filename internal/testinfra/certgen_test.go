package testinfra

import (
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCertBundle(t *testing.T) {
	bundle, err := GenerateCertBundle([]string{"localhost", "127.0.0.1"})
	require.NoError(t, err)

	require.NotEmpty(t, bundle.CACert)
	require.NotEmpty(t, bundle.ServerCert)
	require.NotEmpty(t, bundle.ServerKey)

	ca := parseCert(t, bundle.CACert)
	server := parseCert(t, bundle.ServerCert)

	assert.True(t, ca.IsCA)
	assert.Equal(t, "netres-test-ca", ca.Subject.CommonName)

	assert.False(t, server.IsCA)
	assert.Contains(t, server.DNSNames, "localhost")
	require.Len(t, server.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", server.IPAddresses[0].String())

	pool := x509.NewCertPool()
	pool.AddCert(ca)

	_, err = server.Verify(x509.VerifyOptions{Roots: pool, KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}})
	assert.NoError(t, err, "server cert should chain to CA")
}

func TestCertBundle_TLSConfigs(t *testing.T) {
	bundle, err := GenerateCertBundle([]string{"127.0.0.1"})
	require.NoError(t, err)

	serverCfg, err := bundle.ServerTLSConfig()
	require.NoError(t, err)
	assert.Len(t, serverCfg.Certificates, 1)

	clientCfg, err := bundle.ClientTLSConfig()
	require.NoError(t, err)
	assert.NotNil(t, clientCfg.RootCAs)

	_, err = (&CertBundle{}).ClientTLSConfig()
	assert.Error(t, err)
}

func parseCert(t *testing.T, pemData []byte) *x509.Certificate {
	t.Helper()
	block, _ := pem.Decode(pemData)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	return cert
}
