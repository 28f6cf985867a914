// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package pkitest issues throwaway certificates for tests.
package pkitest

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var serial atomic.Int64

// Options describes a certificate to issue. Zero values get sensible defaults.
type Options struct {
	CommonName   string
	Organization string
	KeyType      string // "EC" (default), "RSA" or "Ed25519"
	KeyUsage     x509.KeyUsage
	ExtKeyUsage  []x509.ExtKeyUsage
	NotBefore    time.Time
	NotAfter     time.Time
	IsCA         bool
	DNSNames     []string
	IPAddresses  []net.IP
	OCSPServer   []string
	CRLURLs      []string
}

// Issued is a certificate with its private key and the chain up to, but
// excluding, the self-signed root.
type Issued struct {
	Cert  *x509.Certificate
	Key   crypto.Signer
	Chain []*x509.Certificate
}

// TLSCertificate returns the leaf and its chain as a [tls.Certificate].
func (i *Issued) TLSCertificate() tls.Certificate {
	out := tls.Certificate{PrivateKey: i.Key, Leaf: i.Cert}
	for _, c := range i.Chain {
		out.Certificate = append(out.Certificate, c.Raw)
	}
	return out
}

// NewKey generates a key of the given type.
func NewKey(tb testing.TB, keyType string) crypto.Signer {
	tb.Helper()

	switch keyType {
	case "RSA":
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(tb, err)
		return k
	case "Ed25519":
		_, k, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(tb, err)
		return k
	default:
		k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(tb, err)
		return k
	}
}

// SelfSigned issues a self-signed certificate.
func SelfSigned(tb testing.TB, opts Options) *Issued {
	tb.Helper()

	key := NewKey(tb, opts.KeyType)
	tmpl := template(opts)
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, key.Public(), key)
	require.NoError(tb, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(tb, err)

	return &Issued{Cert: cert, Key: key, Chain: []*x509.Certificate{cert}}
}

// NewAuthority issues a self-signed CA able to sign certificates and CRLs.
func NewAuthority(tb testing.TB, commonName string) *Issued {
	tb.Helper()

	return SelfSigned(tb, Options{
		CommonName: commonName,
		IsCA:       true,
		KeyUsage:   x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature,
	})
}

// Issue signs a certificate described by opts with the receiver.
func (i *Issued) Issue(tb testing.TB, opts Options) *Issued {
	tb.Helper()

	key := NewKey(tb, opts.KeyType)
	der, err := x509.CreateCertificate(rand.Reader, template(opts), i.Cert, key.Public(), i.Key)
	require.NoError(tb, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(tb, err)

	chain := []*x509.Certificate{cert}
	if !isSelfSigned(i.Cert) {
		chain = append(chain, i.Chain...)
	}
	return &Issued{Cert: cert, Key: key, Chain: chain}
}

func isSelfSigned(c *x509.Certificate) bool {
	return string(c.RawIssuer) == string(c.RawSubject)
}

func template(opts Options) *x509.Certificate {
	notBefore := opts.NotBefore
	if notBefore.IsZero() {
		notBefore = time.Now().Add(-time.Hour).Truncate(time.Second)
	}
	notAfter := opts.NotAfter
	if notAfter.IsZero() {
		notAfter = notBefore.Add(365 * 24 * time.Hour)
	}
	cn := opts.CommonName
	if cn == "" {
		cn = "pkitest"
	}

	subject := pkix.Name{CommonName: cn}
	if opts.Organization != "" {
		subject.Organization = []string{opts.Organization}
	}

	return &x509.Certificate{
		SerialNumber:          big.NewInt(serial.Add(1)),
		Subject:               subject,
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              opts.KeyUsage,
		ExtKeyUsage:           opts.ExtKeyUsage,
		BasicConstraintsValid: true,
		IsCA:                  opts.IsCA,
		DNSNames:              opts.DNSNames,
		IPAddresses:           opts.IPAddresses,
		OCSPServer:            opts.OCSPServer,
		CRLDistributionPoints: opts.CRLURLs,
	}
}
