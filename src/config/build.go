// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"crypto/x509"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/tls-context-builder/src/keystore"
	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/H0llyW00dzZ/tls-context-builder/src/strategy"
	"github.com/H0llyW00dzZ/tls-context-builder/src/tlscontext"
	"github.com/H0llyW00dzZ/tls-context-builder/src/version"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// Default timeout for OCSP and CRL lookups.
const defaultRevocationTimeout = 10 * time.Second

// Builder loads the configured stores and returns a builder for the context
// they describe, along with a function releasing any token sessions opened
// for it. The release function is safe to call more than once.
//
// Key store failures wrap [tlscontext.ErrKeyMaterial], trust store failures
// [tlscontext.ErrStore]; malformed settings and unset secrets wrap
// [ErrInvalidConfig].
func (c *Config) Builder(log logger.Logger) (*tlscontext.Builder, func() error, error) {
	log = logger.OrNop(log)
	b := tlscontext.NewBuilder().WithLogger(log)
	if c.Protocol != "" {
		b.WithProtocol(c.Protocol)
	}

	var closers []func() error
	release := func() error {
		var errs []error
		for _, closeFn := range closers {
			errs = append(errs, closeFn())
		}
		closers = nil
		return errors.Join(errs...)
	}
	fail := func(err error) (*tlscontext.Builder, func() error, error) {
		_ = release()
		return nil, nil, err
	}

	var keys keystore.KeyStore
	if c.KeyStore != nil {
		store, password, closeFn, err := openStore(*c.KeyStore, false)
		if err != nil {
			return fail(err)
		}
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
		keys = store
		b.WithKeyStore(store, password).WithKeyManagerAlgorithm(c.KeyStore.Algorithm)
	}

	alias, err := c.Alias.strategy(keys)
	if err != nil {
		return fail(err)
	}
	b.WithAliasSelection(alias)

	if c.TrustStore != nil {
		store, _, closeFn, err := openStore(*c.TrustStore, true)
		if err != nil {
			return fail(err)
		}
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
		b.WithTrustStore(store).WithTrustManagerAlgorithm(c.TrustStore.Algorithm)
	}

	trust, err := c.Trust.strategy(log)
	if err != nil {
		return fail(err)
	}
	b.WithTrustDecision(trust).WithTrustLogging(c.Trust.Log)

	return b, release, nil
}

// openStore loads s and returns it with the password protecting its keys.
func openStore(s Store, trust bool) (keystore.KeyStore, []byte, func() error, error) {
	kind := tlscontext.ErrKeyMaterial
	if trust {
		kind = tlscontext.ErrStore
	}

	typ := strings.ToUpper(s.Type)
	if s.PKCS11 != nil || typ == keystore.TypePKCS11 {
		if s.PKCS11 == nil {
			return nil, nil, nil, fmt.Errorf("%w: PKCS11 store without pkcs11 section", ErrInvalidConfig)
		}
		pin, err := secret(s.PKCS11.PIN)
		if err != nil {
			return nil, nil, nil, err
		}

		token, err := keystore.LoadPKCS11(keystore.PKCS11Config{
			ModulePath: s.PKCS11.Module,
			TokenLabel: s.PKCS11.TokenLabel,
			Slot:       s.PKCS11.Slot,
			PIN:        string(pin),
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: %w", kind, err)
		}
		return token, pin, token.Close, nil
	}

	password, err := secret(s.Password)
	if err != nil {
		return nil, nil, nil, err
	}

	var store *keystore.Store
	if trust {
		store, err = keystore.LoadTrustFile(s.Path, typ, password)
	} else {
		store, err = keystore.LoadFile(s.Path, typ, password)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", kind, err)
	}
	return store, password, nil, nil
}

func (a Alias) strategy(keys keystore.KeyStore) (strategy.AliasSelectionStrategy, error) {
	switch a.Strategy {
	case "", "none":
		return nil, nil
	case "static":
		if a.Name == "" {
			return nil, fmt.Errorf("%w: static alias strategy without name", ErrInvalidConfig)
		}
		return strategy.StaticAlias(a.Name), nil
	case "keyUsage":
		if keys == nil {
			return nil, fmt.Errorf("%w: keyUsage alias strategy without key store", ErrInvalidConfig)
		}
		usages, err := x509certs.ParseKeyUsages(a.KeyUsages...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		alias, err := strategy.NewKeyUsageAlias(keys, usages...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", tlscontext.ErrKeyMaterial, err)
		}
		return alias, nil
	default:
		return nil, fmt.Errorf("%w: unknown alias strategy %q", ErrInvalidConfig, a.Strategy)
	}
}

func (t Trust) strategy(log logger.Logger) (strategy.TrustDecisionStrategy, error) {
	var strategies []strategy.TrustDecisionStrategy
	for _, name := range t.Strategies {
		s, err := t.named(name, log)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}

	switch len(strategies) {
	case 0:
		return nil, nil
	case 1:
		return strategies[0], nil
	default:
		return strategy.Sequence(strategies...), nil
	}
}

func (t Trust) named(name string, log logger.Logger) (strategy.TrustDecisionStrategy, error) {
	switch name {
	case "default":
		return strategy.DeferToDefault(), nil
	case "trustAll":
		return strategy.TrustAll(), nil
	case "validity":
		return strategy.ValidityWindow{}, nil
	case "keyUsage":
		usages, err := x509certs.ParseKeyUsages(t.KeyUsages...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return strategy.RequireKeyUsage(usages...), nil
	case "pinnedIssuers":
		if len(t.PinnedIssuers) == 0 {
			return nil, fmt.Errorf("%w: pinnedIssuers strategy without certificates", ErrInvalidConfig)
		}
		pins, err := loadPins(t.PinnedIssuers)
		if err != nil {
			return nil, err
		}
		return strategy.NewPinnedIssuers(pins...), nil
	case "hostname":
		if t.Hostname == "" {
			return nil, fmt.Errorf("%w: hostname strategy without hostname", ErrInvalidConfig)
		}
		return strategy.Hostname(t.Hostname), nil
	case "ocsp":
		r := strategy.NewRevocation(version.Version)
		r.HardFail = t.OCSP.HardFail
		r.HTTP.SetTimeout(defaultRevocationTimeout)
		if t.OCSP.Timeout > 0 {
			r.HTTP.SetTimeout(time.Duration(t.OCSP.Timeout) * time.Second)
		}
		r.Log = log
		return r, nil
	default:
		return nil, fmt.Errorf("%w: unknown trust strategy %q", ErrInvalidConfig, name)
	}
}

// loadPins reads the CA certificates of every PEM, DER or PKCS#7 file in
// paths.
func loadPins(paths []string) ([]*x509.Certificate, error) {
	var pins []*x509.Certificate
	for _, path := range paths {
		store, err := keystore.LoadTrustFile(path, keystore.TypePEM, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: pinned issuers: %w", tlscontext.ErrStore, err)
		}

		aliases, err := store.Aliases()
		if err != nil {
			return nil, fmt.Errorf("%w: pinned issuers: %w", tlscontext.ErrStore, err)
		}
		for _, alias := range aliases {
			cert, err := store.Certificate(alias)
			if err != nil {
				return nil, fmt.Errorf("%w: pinned issuers: %w", tlscontext.ErrStore, err)
			}
			if c, err := x509certs.Unwrap(cert); err == nil {
				pins = append(pins, c)
			}
		}
	}
	return pins, nil
}
