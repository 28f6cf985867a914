// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package manager

import (
	"crypto/x509"
	"fmt"
	"slices"
	"time"

	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// X509TrustManager validates peer chains with [x509.Certificate.Verify]
// against a fixed set of trust anchors.
//
// The chain tail serves as the intermediate pool. Client chains must allow
// client authentication, server chains server authentication.
type X509TrustManager struct {
	algorithm string
	anchors   []*x509.Certificate
	roots     *x509.CertPool

	// Now returns the time chains are validated at. Defaults to time.Now.
	Now func() time.Time
}

// NewX509TrustManager creates a trust manager trusting anchors.
func NewX509TrustManager(algorithm string, anchors []*x509.Certificate) *X509TrustManager {
	roots := x509.NewCertPool()
	kept := make([]*x509.Certificate, 0, len(anchors))
	for _, a := range anchors {
		if a == nil {
			continue
		}
		roots.AddCert(a)
		kept = append(kept, a)
	}

	return &X509TrustManager{
		algorithm: algorithm,
		anchors:   kept,
		roots:     roots,
		Now:       time.Now,
	}
}

// Algorithm returns the algorithm name the manager was created for.
func (m *X509TrustManager) Algorithm() string { return m.algorithm }

// CheckClientTrusted validates a chain presented by a client.
func (m *X509TrustManager) CheckClientTrusted(chain []*x509.Certificate, authType string) error {
	return m.verify(chain, authType, x509.ExtKeyUsageClientAuth)
}

// CheckServerTrusted validates a chain presented by a server.
func (m *X509TrustManager) CheckServerTrusted(chain []*x509.Certificate, authType string) error {
	return m.verify(chain, authType, x509.ExtKeyUsageServerAuth)
}

// AcceptedIssuers returns a copy of the trust anchors.
func (m *X509TrustManager) AcceptedIssuers() []*x509.Certificate {
	return slices.Clone(m.anchors)
}

func (m *X509TrustManager) verify(chain []*x509.Certificate, authType string, usage x509.ExtKeyUsage) error {
	if len(chain) == 0 || chain[0] == nil {
		return fmt.Errorf("%w: empty certificate chain", ErrUntrustedChain)
	}
	if authType == "" {
		return fmt.Errorf("%w: empty authentication type", x509certs.ErrInvalidInput)
	}

	intermediates := x509.NewCertPool()
	for _, c := range chain[1:] {
		if c != nil {
			intermediates.AddCert(c)
		}
	}

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	if _, err := chain[0].Verify(x509.VerifyOptions{
		Roots:         m.roots,
		Intermediates: intermediates,
		CurrentTime:   now(),
		KeyUsages:     []x509.ExtKeyUsage{usage},
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrUntrustedChain, err)
	}
	return nil
}
