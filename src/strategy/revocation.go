// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package strategy

import (
	"bytes"
	"context"
	"crypto"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/crypto/ocsp"

	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
)

// RevocationStatus is the revocation state of a certificate.
type RevocationStatus int

const (
	// StatusUnknown means no responder could vouch for the certificate.
	StatusUnknown RevocationStatus = iota
	// StatusGood means the certificate is not revoked.
	StatusGood
	// StatusRevoked means the certificate is revoked.
	StatusRevoked
)

// String returns the status name.
func (s RevocationStatus) String() string {
	switch s {
	case StatusGood:
		return "Good"
	case StatusRevoked:
		return "Revoked"
	default:
		return "Unknown"
	}
}

var (
	// ErrNoRevocationSource reports a certificate naming neither an OCSP
	// responder nor a CRL distribution point.
	ErrNoRevocationSource = errors.New("strategy: no OCSP responder or CRL distribution point")

	// ErrIssuerNotFound reports a chain that does not carry the leaf's issuer.
	ErrIssuerNotFound = errors.New("strategy: issuer certificate not found in chain")
)

// maxResponseSize bounds OCSP responses and CRLs read from the network.
const maxResponseSize = 10 << 20

// Revocation rejects chains whose leaf is revoked according to its OCSP
// responder, or its CRL when no responder is advertised, and defers
// otherwise.
//
// Lookups that fail are soft failures unless HardFail is set. Responses
// are cached until their next update.
type Revocation struct {
	// HTTP configures the client used for lookups.
	HTTP *HTTPConfig
	// Cache stores responses. Nil disables caching.
	Cache *ResponseCache
	// HardFail rejects chains whose status cannot be determined.
	HardFail bool
	// Log receives lookup failures. Nil discards them.
	Log logger.Logger
}

// NewRevocation creates a soft-failing revocation strategy with a default
// cache. version is reported in the User-Agent header.
func NewRevocation(version string) *Revocation {
	return &Revocation{
		HTTP:  NewHTTPConfig(version),
		Cache: NewResponseCache(DefaultCacheConfig),
	}
}

// ShouldDelegateToDefaultTrust implements [TrustDecisionStrategy].
func (r *Revocation) ShouldDelegateToDefaultTrust(chain []*x509.Certificate, _ string) (bool, error) {
	if len(chain) == 0 || chain[0] == nil {
		return true, nil
	}
	leaf := chain[0]

	status, err := r.Check(context.Background(), leaf, findIssuer(leaf, chain[1:]))
	switch {
	case status == StatusRevoked:
		return false, fmt.Errorf("%w: certificate %s is revoked", manager.ErrUntrustedChain, leaf.SerialNumber)
	case errors.Is(err, ErrNoRevocationSource):
		return true, nil
	case err != nil:
		logger.OrNop(r.Log).Printf("revocation check for %s failed: %v", leaf.Subject, err)
		if r.HardFail {
			return false, fmt.Errorf("%w: revocation status unavailable: %w", manager.ErrUntrustedChain, err)
		}
	}
	return true, nil
}

// Check returns the revocation status of cert. OCSP is preferred; the CRL
// is consulted when cert names no responder.
func (r *Revocation) Check(ctx context.Context, cert, issuer *x509.Certificate) (RevocationStatus, error) {
	if issuer == nil {
		return StatusUnknown, ErrIssuerNotFound
	}

	switch {
	case len(cert.OCSPServer) > 0:
		return r.checkOCSP(ctx, cert, issuer)
	case len(cert.CRLDistributionPoints) > 0:
		return r.checkCRL(ctx, cert, issuer)
	default:
		return StatusUnknown, ErrNoRevocationSource
	}
}

func (r *Revocation) checkOCSP(ctx context.Context, cert, issuer *x509.Certificate) (RevocationStatus, error) {
	ocspURL := cert.OCSPServer[0]
	key := "ocsp|" + ocspURL + "|" + cert.SerialNumber.String()

	respData, cached := r.cached(key)
	if !cached {
		reqData, err := ocsp.CreateRequest(cert, issuer, &ocsp.RequestOptions{Hash: crypto.SHA1})
		if err != nil {
			return StatusUnknown, fmt.Errorf("failed to create OCSP request: %w", err)
		}

		// Make HTTP POST request to OCSP server (RFC 6960)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ocspURL, bytes.NewReader(reqData))
		if err != nil {
			return StatusUnknown, fmt.Errorf("failed to create OCSP HTTP request: %w", err)
		}
		req.Header.Set("Content-Type", "application/ocsp-request")
		req.Header.Set("Accept", "application/ocsp-response")

		if respData, err = r.fetch(req); err != nil {
			return StatusUnknown, fmt.Errorf("OCSP request failed: %w", err)
		}
	}

	resp, err := ocsp.ParseResponseForCert(respData, cert, issuer)
	if err != nil {
		return StatusUnknown, fmt.Errorf("failed to parse OCSP response: %w", err)
	}
	if !cached {
		r.store(key, respData, resp.NextUpdate)
	}

	switch resp.Status {
	case ocsp.Good:
		return StatusGood, nil
	case ocsp.Revoked:
		return StatusRevoked, nil
	default:
		return StatusUnknown, nil
	}
}

func (r *Revocation) checkCRL(ctx context.Context, cert, issuer *x509.Certificate) (RevocationStatus, error) {
	crlURL := cert.CRLDistributionPoints[0]
	key := "crl|" + crlURL

	crlData, cached := r.cached(key)
	if !cached {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, crlURL, nil)
		if err != nil {
			return StatusUnknown, fmt.Errorf("failed to create CRL request: %w", err)
		}
		if crlData, err = r.fetch(req); err != nil {
			return StatusUnknown, fmt.Errorf("CRL request failed: %w", err)
		}
	}

	crl, err := x509.ParseRevocationList(crlData)
	if err != nil {
		return StatusUnknown, fmt.Errorf("failed to parse CRL: %w", err)
	}
	if err := crl.CheckSignatureFrom(issuer); err != nil {
		return StatusUnknown, fmt.Errorf("CRL signature: %w", err)
	}
	if !cached {
		r.store(key, crlData, crl.NextUpdate)
	}

	for _, entry := range crl.RevokedCertificateEntries {
		if entry.SerialNumber.Cmp(cert.SerialNumber) == 0 {
			return StatusRevoked, nil
		}
	}
	return StatusGood, nil
}

func (r *Revocation) fetch(req *http.Request) ([]byte, error) {
	httpConfig := r.HTTP
	if httpConfig == nil {
		httpConfig = NewHTTPConfig("")
	}
	req.Header.Set("User-Agent", httpConfig.GetUserAgent())

	resp, err := httpConfig.Client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return gc.ReadAll(resp.Body, maxResponseSize)
}

func (r *Revocation) cached(key string) ([]byte, bool) {
	if r.Cache == nil {
		return nil, false
	}
	return r.Cache.Get(key)
}

func (r *Revocation) store(key string, data []byte, nextUpdate time.Time) {
	if r.Cache == nil || nextUpdate.IsZero() {
		return
	}
	r.Cache.Set(key, data, nextUpdate)
}

// findIssuer returns the certificate of pool that issued cert.
func findIssuer(cert *x509.Certificate, pool []*x509.Certificate) *x509.Certificate {
	for _, c := range pool {
		if c != nil && bytes.Equal(c.RawSubject, cert.RawIssuer) {
			return c
		}
	}
	return nil
}
