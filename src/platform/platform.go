// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package platform

import (
	"crypto/rand"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/H0llyW00dzZ/tls-context-builder/src/keystore"
	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
)

// Provider derives default managers from stores and assembles TLS contexts.
type Provider interface {
	// Capabilities returns the protocols and default algorithms supported.
	Capabilities() Capabilities
	// KeyManagers derives key managers from store, recovering keys with
	// password. Failures wrap [ErrUnsupportedAlgorithm] or [ErrKeyMaterial].
	KeyManagers(algorithm string, store keystore.KeyStore, password []byte) ([]manager.Manager, error)
	// TrustManagers derives trust managers from store. Failures wrap
	// [ErrUnsupportedAlgorithm] or [ErrStore].
	TrustManagers(algorithm string, store keystore.KeyStore) ([]manager.Manager, error)
	// NewContext assembles a context. Unknown protocols fail with
	// [ErrUnsupportedProtocol].
	NewContext(protocol string, keyManagers, trustManagers []manager.Manager, random io.Reader) (*Context, error)
}

// KeyManagerFactory derives key managers from a key store.
type KeyManagerFactory func(store keystore.KeyStore, password []byte) ([]manager.Manager, error)

// TrustManagerFactory derives trust managers from a trust store.
type TrustManagerFactory func(store keystore.KeyStore) ([]manager.Manager, error)

// Platform is the default [Provider], backed by crypto/tls and a registry
// of manager factories keyed by case-insensitive algorithm name.
type Platform struct {
	caps Capabilities
	log  logger.Logger

	mu             sync.RWMutex
	keyFactories   map[string]KeyManagerFactory
	trustFactories map[string]TrustManagerFactory
}

// New creates a platform with caps and the built-in factories: "X509" and
// "SunX509" for key managers, "PKIX" and "SunX509" for trust managers. A
// nil log discards output.
func New(caps Capabilities, log logger.Logger) *Platform {
	p := &Platform{
		caps:           caps,
		log:            logger.OrNop(log),
		keyFactories:   make(map[string]KeyManagerFactory),
		trustFactories: make(map[string]TrustManagerFactory),
	}

	for _, alg := range []string{AlgorithmX509, AlgorithmSunX509} {
		p.RegisterKeyManagerFactory(alg, X509KeyManagerFactory(alg))
	}
	for _, alg := range []string{AlgorithmPKIX, AlgorithmSunX509} {
		p.RegisterTrustManagerFactory(alg, X509TrustManagerFactory(alg))
	}
	return p
}

// Default returns a platform with [DefaultCapabilities] and no logging.
func Default() *Platform { return New(DefaultCapabilities(), nil) }

// Capabilities returns the capabilities the platform was created with.
func (p *Platform) Capabilities() Capabilities {
	c := p.caps
	c.Protocols = slices.Clone(c.Protocols)
	return c
}

// RegisterKeyManagerFactory registers f under algorithm, replacing any
// previous factory with the same name.
func (p *Platform) RegisterKeyManagerFactory(algorithm string, f KeyManagerFactory) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keyFactories[strings.ToUpper(algorithm)] = f
}

// RegisterTrustManagerFactory registers f under algorithm, replacing any
// previous factory with the same name.
func (p *Platform) RegisterTrustManagerFactory(algorithm string, f TrustManagerFactory) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trustFactories[strings.ToUpper(algorithm)] = f
}

// KeyManagers implements [Provider].
func (p *Platform) KeyManagers(algorithm string, store keystore.KeyStore, password []byte) ([]manager.Manager, error) {
	p.mu.RLock()
	f, ok := p.keyFactories[strings.ToUpper(algorithm)]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: key manager %q", ErrUnsupportedAlgorithm, algorithm)
	}

	managers, err := f(store, password)
	if err != nil {
		return nil, err
	}
	p.log.Printf("%d key manager(s) created with %s from %s store", len(managers), algorithm, store.Type())
	return managers, nil
}

// TrustManagers implements [Provider].
func (p *Platform) TrustManagers(algorithm string, store keystore.KeyStore) ([]manager.Manager, error) {
	p.mu.RLock()
	f, ok := p.trustFactories[strings.ToUpper(algorithm)]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: trust manager %q", ErrUnsupportedAlgorithm, algorithm)
	}

	managers, err := f(store)
	if err != nil {
		return nil, err
	}
	p.log.Printf("%d trust manager(s) created with %s from %s store", len(managers), algorithm, store.Type())
	return managers, nil
}

// NewContext implements [Provider]. A nil random uses crypto/rand.
func (p *Platform) NewContext(protocol string, keyManagers, trustManagers []manager.Manager, random io.Reader) (*Context, error) {
	proto, err := p.caps.Protocol(protocol)
	if err != nil {
		return nil, err
	}
	if random == nil {
		random = rand.Reader
	}

	p.log.Printf("context initialized for %s with %d key manager(s) and %d trust manager(s)",
		proto.Name, len(keyManagers), len(trustManagers))

	return &Context{
		protocol:      proto,
		keyManagers:   slices.Clone(keyManagers),
		trustManagers: slices.Clone(trustManagers),
		random:        random,
		log:           p.log,
	}, nil
}
