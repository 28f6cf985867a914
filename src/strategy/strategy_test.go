// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package strategy_test

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/pkitest"
	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
	"github.com/H0llyW00dzZ/tls-context-builder/src/strategy"
)

// spyTrustManager records calls and answers with err.
type spyTrustManager struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (s *spyTrustManager) record(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op)
	return s.err
}

func (s *spyTrustManager) Algorithm() string { return "spy" }
func (s *spyTrustManager) CheckClientTrusted([]*x509.Certificate, string) error {
	return s.record("client")
}
func (s *spyTrustManager) CheckServerTrusted([]*x509.Certificate, string) error {
	return s.record("server")
}
func (s *spyTrustManager) AcceptedIssuers() []*x509.Certificate {
	s.record("issuers")
	return nil
}

// spyKeyManager records selection calls and their arguments.
type spyKeyManager struct {
	alias       string
	clientCalls [][]string
	serverCalls []string
	issuers     [][][]byte
}

func (s *spyKeyManager) Algorithm() string { return "spy" }
func (s *spyKeyManager) ChooseClientAlias(keyTypes []string, issuers [][]byte, _ manager.ConnectionHint) string {
	s.clientCalls = append(s.clientCalls, keyTypes)
	s.issuers = append(s.issuers, issuers)
	return s.alias
}
func (s *spyKeyManager) ChooseServerAlias(keyType string, issuers [][]byte, _ manager.ConnectionHint) string {
	s.serverCalls = append(s.serverCalls, keyType)
	s.issuers = append(s.issuers, issuers)
	return s.alias
}
func (s *spyKeyManager) CertificateChain(alias string) []*x509.Certificate {
	if alias == s.alias {
		return []*x509.Certificate{{}}
	}
	return nil
}
func (s *spyKeyManager) PrivateKey(alias string) crypto.PrivateKey {
	if alias == s.alias {
		return "key"
	}
	return nil
}
func (s *spyKeyManager) ClientAliases(string, [][]byte) []string { return []string{s.alias} }
func (s *spyKeyManager) ServerAliases(string, [][]byte) []string { return []string{s.alias, "other"} }

func TestFilteringTrustManager(t *testing.T) {
	leaf := pkitest.SelfSigned(t, pkitest.Options{CommonName: "peer"})
	rejected := fmt.Errorf("%w: default says no", manager.ErrUntrustedChain)

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "True Defers To Accepting Delegate",
			testFunc: func(t *testing.T) {
				spy := &spyTrustManager{}
				tm := strategy.NewFilteringTrustManager(spy, strategy.DeferToDefault())
				assert.NoError(t, tm.CheckServerTrusted(leaf.Chain, "ECDSA"))
				assert.Equal(t, []string{"server"}, spy.calls)
			},
		},
		{
			name: "True Defers To Rejecting Delegate",
			testFunc: func(t *testing.T) {
				spy := &spyTrustManager{err: rejected}
				tm := strategy.NewFilteringTrustManager(spy, strategy.DeferToDefault())
				err := tm.CheckClientTrusted(leaf.Chain, "ECDSA")
				assert.Same(t, rejected, err)
				assert.Equal(t, []string{"client"}, spy.calls)
			},
		},
		{
			name: "False Accepts Without Delegate",
			testFunc: func(t *testing.T) {
				spy := &spyTrustManager{err: rejected}
				tm := strategy.NewFilteringTrustManager(spy, strategy.TrustAll())
				assert.NoError(t, tm.CheckServerTrusted(leaf.Chain, "ECDSA"))
				assert.NoError(t, tm.CheckClientTrusted(nil, ""))
				assert.Empty(t, spy.calls)
			},
		},
		{
			name: "Strategy Error Propagates",
			testFunc: func(t *testing.T) {
				spy := &spyTrustManager{}
				veto := fmt.Errorf("%w: vetoed", manager.ErrUntrustedChain)
				tm := strategy.NewFilteringTrustManager(spy, strategy.TrustDecisionFunc(
					func([]*x509.Certificate, string) (bool, error) { return true, veto }))
				err := tm.CheckServerTrusted(leaf.Chain, "ECDSA")
				assert.ErrorIs(t, err, manager.ErrUntrustedChain)
				assert.Same(t, veto, err)
				assert.Empty(t, spy.calls)
			},
		},
		{
			name: "Strategy Sees Arguments",
			testFunc: func(t *testing.T) {
				var gotChain []*x509.Certificate
				var gotAuth string
				tm := strategy.NewFilteringTrustManager(&spyTrustManager{}, strategy.TrustDecisionFunc(
					func(chain []*x509.Certificate, authType string) (bool, error) {
						gotChain, gotAuth = chain, authType
						return false, nil
					}))
				require.NoError(t, tm.CheckServerTrusted(leaf.Chain, "RSA"))
				assert.Equal(t, leaf.Chain, gotChain)
				assert.Equal(t, "RSA", gotAuth)
			},
		},
		{
			name: "Pass Through And Nil Strategy",
			testFunc: func(t *testing.T) {
				spy := &spyTrustManager{}
				tm := strategy.NewFilteringTrustManager(spy, nil)
				assert.Nil(t, tm.AcceptedIssuers())
				assert.NoError(t, tm.CheckServerTrusted(leaf.Chain, "ECDSA"))
				assert.Equal(t, []string{"issuers", "server"}, spy.calls)
				assert.Equal(t, "spy", tm.Algorithm())
				assert.Same(t, spy, tm.Unwrap())
			},
		},
		{
			name: "Decorators Stack",
			testFunc: func(t *testing.T) {
				spy := &spyTrustManager{err: rejected}
				inner := strategy.NewFilteringTrustManager(spy, strategy.DeferToDefault())
				outer := strategy.NewFilteringTrustManager(inner, strategy.DeferToDefault())
				assert.ErrorIs(t, outer.CheckServerTrusted(leaf.Chain, "ECDSA"), manager.ErrUntrustedChain)

				bypass := strategy.NewFilteringTrustManager(inner, strategy.TrustAll())
				assert.NoError(t, bypass.CheckServerTrusted(leaf.Chain, "ECDSA"))
				assert.Len(t, spy.calls, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func TestFilteringKeyManager(t *testing.T) {
	issuers := [][]byte{[]byte("issuer")}

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Override Bypasses Delegate",
			testFunc: func(t *testing.T) {
				spy := &spyKeyManager{alias: "default"}
				km := strategy.NewFilteringKeyManager(spy, strategy.StaticAlias("forced"), nil)
				assert.Equal(t, "forced", km.ChooseClientAlias([]string{"EC"}, issuers, manager.ConnectionHint{}))
				assert.Equal(t, "forced", km.ChooseServerAlias("EC", issuers, manager.ConnectionHint{}))
				assert.Empty(t, spy.clientCalls)
				assert.Empty(t, spy.serverCalls)
			},
		},
		{
			name: "Unknown Alias Returned Anyway",
			testFunc: func(t *testing.T) {
				spy := &spyKeyManager{alias: "default"}
				km := strategy.NewFilteringKeyManager(spy, strategy.StaticAlias("missing"), nil)
				assert.Equal(t, "missing", km.ChooseServerAlias("EC", nil, manager.ConnectionHint{}))
				assert.Nil(t, km.CertificateChain("missing"))
				assert.Nil(t, km.PrivateKey("missing"))
			},
		},
		{
			name: "No Override Delegates Once",
			testFunc: func(t *testing.T) {
				spy := &spyKeyManager{alias: "default"}
				km := strategy.NewFilteringKeyManager(spy, strategy.AliasSelectionFunc(func() string { return "" }), nil)

				assert.Equal(t, "default", km.ChooseClientAlias([]string{"RSA", "EC"}, issuers, manager.ConnectionHint{}))
				require.Len(t, spy.clientCalls, 1)
				assert.Equal(t, []string{"RSA", "EC"}, spy.clientCalls[0])

				assert.Equal(t, "default", km.ChooseServerAlias("EC", issuers, manager.ConnectionHint{}))
				assert.Equal(t, []string{"EC"}, spy.serverCalls)
				assert.Equal(t, [][][]byte{issuers, issuers}, spy.issuers)
			},
		},
		{
			name: "Material Passes Through",
			testFunc: func(t *testing.T) {
				spy := &spyKeyManager{alias: "default"}
				km := strategy.NewFilteringKeyManager(spy, strategy.StaticAlias("forced"), nil)
				assert.Len(t, km.CertificateChain("default"), 1)
				assert.Equal(t, "key", km.PrivateKey("default"))
				assert.Equal(t, []string{"default"}, km.ClientAliases("EC", nil))
				assert.Equal(t, []string{"default", "other"}, km.ServerAliases("EC", nil))
				assert.Equal(t, "spy", km.Algorithm())
				assert.Same(t, spy, km.Unwrap())
			},
		},
		{
			name: "Logs Chosen Alias",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				spy := &spyKeyManager{alias: "default"}
				km := strategy.NewFilteringKeyManager(spy, nil, logger.NewJSONLogger(&buf, false))
				km.ChooseServerAlias("EC", nil, manager.ConnectionHint{})
				assert.Contains(t, buf.String(), `server alias \"default\" chosen by spy`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func TestFilteringConcurrentUse(t *testing.T) {
	leaf := pkitest.SelfSigned(t, pkitest.Options{})
	spy := &spyTrustManager{}
	tm := strategy.NewFilteringTrustManager(spy, strategy.Sequence(strategy.ValidityWindow{}, strategy.DeferToDefault()))

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, tm.CheckServerTrusted(leaf.Chain, "ECDSA"))
		}()
	}
	wg.Wait()
	assert.Len(t, spy.calls, 32)
}

var errBoom = errors.New("boom")
