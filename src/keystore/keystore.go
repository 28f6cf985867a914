// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"crypto"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"sync"

	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// Store types reported by [KeyStore.Type].
const (
	TypePKCS12 = "PKCS12"
	TypePEM    = "PEM"
	TypePKCS11 = "PKCS11"
	TypeMemory = "MEMORY"
)

var (
	// ErrAliasNotFound reports an alias that is not present in the store.
	ErrAliasNotFound = errors.New("keystore: alias not found")

	// ErrNotKeyEntry reports a private key request for a certificate-only entry.
	ErrNotKeyEntry = errors.New("keystore: alias does not hold a private key")

	// ErrUnrecoverableKey reports a private key that cannot be recovered with
	// the given password.
	ErrUnrecoverableKey = errors.New("keystore: cannot recover key, wrong password")

	// ErrIncorrectPassword reports a store whose integrity password is wrong.
	ErrIncorrectPassword = errors.New("keystore: incorrect store password")

	// ErrUnsupportedType reports a store type no loader exists for.
	ErrUnsupportedType = errors.New("keystore: unsupported store type")

	// ErrNoKeyMaterial reports a file that holds no certificate or key.
	ErrNoKeyMaterial = errors.New("keystore: no key material found")
)

// KeyStore is a read-only view of a key or trust store.
//
// Implementations must be safe for concurrent use.
type KeyStore interface {
	// Type returns the store type, e.g. [TypePKCS12].
	Type() string
	// Aliases returns every alias in the store, sorted.
	Aliases() ([]string, error)
	// IsKeyEntry reports whether alias holds a private key.
	IsKeyEntry(alias string) (bool, error)
	// Certificate returns the certificate of alias, the leaf for key entries.
	Certificate(alias string) (x509certs.Certificate, error)
	// CertificateChain returns the chain of a key entry, leaf first, or nil
	// for a certificate-only entry.
	CertificateChain(alias string) ([]x509certs.Certificate, error)
	// PrivateKey recovers the key of alias with password.
	PrivateKey(alias string, password []byte) (crypto.PrivateKey, error)
}

type entry struct {
	chain    []x509certs.Certificate
	key      crypto.PrivateKey
	password []byte
}

// Store is an in-memory [KeyStore]. The zero value is not usable; create
// stores with [NewStore] or one of the loaders.
type Store struct {
	typ     string
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewStore creates an empty store reporting typ from [Store.Type].
func NewStore(typ string) *Store {
	if typ == "" {
		typ = TypeMemory
	}
	return &Store{typ: typ, entries: make(map[string]*entry)}
}

// Type returns the store type.
func (s *Store) Type() string { return s.typ }

// SetKeyEntry stores key and its chain under alias, protected by password.
// An existing entry with the same alias is replaced.
func (s *Store) SetKeyEntry(alias string, key crypto.PrivateKey, password []byte, chain ...x509certs.Certificate) error {
	if alias == "" {
		return fmt.Errorf("%w: empty alias", x509certs.ErrInvalidInput)
	}
	if key == nil {
		return fmt.Errorf("%w: key entry %q without key", x509certs.ErrInvalidInput, alias)
	}
	if len(chain) == 0 || chain[0] == nil {
		return fmt.Errorf("%w: key entry %q without certificate", x509certs.ErrInvalidInput, alias)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[alias] = &entry{
		chain:    slices.Clone(chain),
		key:      key,
		password: slices.Clone(password),
	}
	return nil
}

// SetCertificateEntry stores a trusted certificate under alias.
func (s *Store) SetCertificateEntry(alias string, cert x509certs.Certificate) error {
	if alias == "" {
		return fmt.Errorf("%w: empty alias", x509certs.ErrInvalidInput)
	}
	if cert == nil {
		return x509certs.ErrNilCertificate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[alias] = &entry{chain: []x509certs.Certificate{cert}}
	return nil
}

// Aliases returns every alias, sorted.
func (s *Store) Aliases() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	aliases := make([]string, 0, len(s.entries))
	for alias := range s.entries {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	return aliases, nil
}

// Contains reports whether alias exists.
func (s *Store) Contains(alias string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[alias]
	return ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IsKeyEntry reports whether alias holds a private key.
func (s *Store) IsKeyEntry(alias string) (bool, error) {
	e, err := s.lookup(alias)
	if err != nil {
		return false, err
	}
	return e.key != nil, nil
}

// Certificate returns the certificate of alias.
func (s *Store) Certificate(alias string) (x509certs.Certificate, error) {
	e, err := s.lookup(alias)
	if err != nil {
		return nil, err
	}
	return e.chain[0], nil
}

// CertificateChain returns the chain of a key entry, or nil for a
// certificate entry.
func (s *Store) CertificateChain(alias string) ([]x509certs.Certificate, error) {
	e, err := s.lookup(alias)
	if err != nil {
		return nil, err
	}
	if e.key == nil {
		return nil, nil
	}
	return slices.Clone(e.chain), nil
}

// PrivateKey returns the key of alias when password matches the one the
// entry was stored with.
func (s *Store) PrivateKey(alias string, password []byte) (crypto.PrivateKey, error) {
	e, err := s.lookup(alias)
	if err != nil {
		return nil, err
	}
	if e.key == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotKeyEntry, alias)
	}
	if subtle.ConstantTimeCompare(e.password, password) != 1 && len(e.password)+len(password) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnrecoverableKey, alias)
	}
	return e.key, nil
}

func (s *Store) lookup(alias string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAliasNotFound, alias)
	}
	return e, nil
}
