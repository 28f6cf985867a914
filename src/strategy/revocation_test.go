// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package strategy_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/x509"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ocsp"

	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/pkitest"
	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
	"github.com/H0llyW00dzZ/tls-context-builder/src/strategy"
)

// responder serves OCSP responses and a CRL signed by ca.
type responder struct {
	ca      *pkitest.Issued
	revoked map[string]bool
	hits    atomic.Int64
	fail    atomic.Bool
}

func (r *responder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hits.Add(1)
	if r.fail.Load() {
		http.Error(w, "down", http.StatusServiceUnavailable)
		return
	}

	now := time.Now().Truncate(time.Second)
	if req.Method == http.MethodGet {
		tmpl := &x509.RevocationList{
			Number:     big.NewInt(1),
			ThisUpdate: now.Add(-time.Minute),
			NextUpdate: now.Add(time.Hour),
		}
		for serial := range r.revoked {
			n, _ := new(big.Int).SetString(serial, 10)
			tmpl.RevokedCertificateEntries = append(tmpl.RevokedCertificateEntries,
				x509.RevocationListEntry{SerialNumber: n, RevocationTime: now.Add(-time.Minute)})
		}
		der, err := x509.CreateRevocationList(rand.Reader, tmpl, r.ca.Cert, r.ca.Key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Write(der)
		return
	}

	body, _ := io.ReadAll(req.Body)
	ocspReq, err := ocsp.ParseRequest(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := ocsp.Good
	if r.revoked[ocspReq.SerialNumber.String()] {
		status = ocsp.Revoked
	}
	resp, err := ocsp.CreateResponse(r.ca.Cert, r.ca.Cert, ocsp.Response{
		Status:       status,
		SerialNumber: ocspReq.SerialNumber,
		ThisUpdate:   now.Add(-time.Minute),
		NextUpdate:   now.Add(time.Hour),
		RevokedAt:    now.Add(-time.Minute),
	}, r.ca.Key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/ocsp-response")
	w.Write(resp)
}

func TestRevocation(t *testing.T) {
	ca := pkitest.NewAuthority(t, "Revocation CA")
	r := &responder{ca: ca, revoked: map[string]bool{}}
	srv := httptest.NewServer(r)
	defer srv.Close()

	good := ca.Issue(t, pkitest.Options{CommonName: "good", OCSPServer: []string{srv.URL}})
	revoked := ca.Issue(t, pkitest.Options{CommonName: "revoked", OCSPServer: []string{srv.URL}})
	crlGood := ca.Issue(t, pkitest.Options{CommonName: "crl-good", CRLURLs: []string{srv.URL + "/ca.crl"}})
	crlRevoked := ca.Issue(t, pkitest.Options{CommonName: "crl-revoked", CRLURLs: []string{srv.URL + "/ca.crl"}})
	silent := ca.Issue(t, pkitest.Options{CommonName: "no-source"})
	r.revoked[revoked.Cert.SerialNumber.String()] = true
	r.revoked[crlRevoked.Cert.SerialNumber.String()] = true

	chainOf := func(i *pkitest.Issued) []*x509.Certificate { return []*x509.Certificate{i.Cert, ca.Cert} }

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "OCSP Good Defers",
			testFunc: func(t *testing.T) {
				rev := strategy.NewRevocation("test")
				ok, err := rev.ShouldDelegateToDefaultTrust(chainOf(good), "ECDSA")
				require.NoError(t, err)
				assert.True(t, ok)
			},
		},
		{
			name: "OCSP Revoked Rejects",
			testFunc: func(t *testing.T) {
				rev := strategy.NewRevocation("test")
				_, err := rev.ShouldDelegateToDefaultTrust(chainOf(revoked), "ECDSA")
				assert.ErrorIs(t, err, manager.ErrUntrustedChain)
				assert.ErrorContains(t, err, "revoked")
			},
		},
		{
			name: "CRL Fallback",
			testFunc: func(t *testing.T) {
				rev := strategy.NewRevocation("test")
				status, err := rev.Check(context.Background(), crlGood.Cert, ca.Cert)
				require.NoError(t, err)
				assert.Equal(t, strategy.StatusGood, status)

				status, err = rev.Check(context.Background(), crlRevoked.Cert, ca.Cert)
				require.NoError(t, err)
				assert.Equal(t, strategy.StatusRevoked, status)
				assert.Equal(t, "Revoked", status.String())
			},
		},
		{
			name: "Responses Are Cached",
			testFunc: func(t *testing.T) {
				rev := strategy.NewRevocation("test")
				before := r.hits.Load()
				for range 3 {
					_, err := rev.Check(context.Background(), good.Cert, ca.Cert)
					require.NoError(t, err)
				}
				assert.Equal(t, before+1, r.hits.Load())
				assert.Equal(t, int64(2), rev.Cache.Metrics().Hits)
			},
		},
		{
			name: "No Source Defers Even When Hard Failing",
			testFunc: func(t *testing.T) {
				rev := strategy.NewRevocation("test")
				rev.HardFail = true
				ok, err := rev.ShouldDelegateToDefaultTrust(chainOf(silent), "ECDSA")
				require.NoError(t, err)
				assert.True(t, ok)

				_, err = rev.Check(context.Background(), silent.Cert, ca.Cert)
				assert.ErrorIs(t, err, strategy.ErrNoRevocationSource)
			},
		},
		{
			name: "Soft And Hard Failure",
			testFunc: func(t *testing.T) {
				r.fail.Store(true)
				defer r.fail.Store(false)

				var buf bytes.Buffer
				rev := &strategy.Revocation{HTTP: strategy.NewHTTPConfig("test"), Log: logger.NewJSONLogger(&buf, false)}
				ok, err := rev.ShouldDelegateToDefaultTrust(chainOf(good), "ECDSA")
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Contains(t, buf.String(), "status 503")

				rev.HardFail = true
				_, err = rev.ShouldDelegateToDefaultTrust(chainOf(good), "ECDSA")
				assert.ErrorIs(t, err, manager.ErrUntrustedChain)
			},
		},
		{
			name: "Missing Issuer",
			testFunc: func(t *testing.T) {
				rev := strategy.NewRevocation("test")
				_, err := rev.Check(context.Background(), good.Cert, nil)
				assert.ErrorIs(t, err, strategy.ErrIssuerNotFound)

				rev.HardFail = true
				_, err = rev.ShouldDelegateToDefaultTrust([]*x509.Certificate{good.Cert}, "ECDSA")
				assert.ErrorIs(t, err, manager.ErrUntrustedChain)

				ok, err := rev.ShouldDelegateToDefaultTrust(nil, "ECDSA")
				require.NoError(t, err)
				assert.True(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func TestHTTPConfig(t *testing.T) {
	cfg := strategy.NewHTTPConfig("1.2.3")
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Contains(t, cfg.GetUserAgent(), "TLS-Context-Builder/1.2.3")

	cfg.UserAgent = "custom"
	assert.Equal(t, "custom", cfg.GetUserAgent())

	client := cfg.Client()
	assert.Same(t, client, cfg.Client())

	cfg.SetTimeout(time.Second)
	assert.Equal(t, time.Second, cfg.Timeout())
	assert.Equal(t, time.Second, cfg.Client().Timeout)
	assert.Equal(t, 10*time.Second, client.Timeout, "handed out client is left untouched")
	assert.NotSame(t, client, cfg.Client())
}

func TestHTTPConfigConcurrentTimeout(t *testing.T) {
	cfg := strategy.NewHTTPConfig("1.2.3")

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cfg.SetTimeout(time.Duration(i+1) * time.Second)
		}()
		go func() {
			defer wg.Done()
			client := cfg.Client()
			assert.Positive(t, client.Timeout)
		}()
	}
	wg.Wait()
	assert.Equal(t, cfg.Timeout(), cfg.Client().Timeout)
}
