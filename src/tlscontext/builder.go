// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package tlscontext

import (
	"crypto/rand"
	"io"
	"slices"

	"github.com/H0llyW00dzZ/tls-context-builder/src/keystore"
	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
	"github.com/H0llyW00dzZ/tls-context-builder/src/platform"
	"github.com/H0llyW00dzZ/tls-context-builder/src/strategy"
)

// Errors returned by [Builder.Build], defined by the platform provider.
var (
	ErrUnsupportedProtocol  = platform.ErrUnsupportedProtocol
	ErrUnsupportedAlgorithm = platform.ErrUnsupportedAlgorithm
	ErrKeyMaterial          = platform.ErrKeyMaterial
	ErrStore                = platform.ErrStore
)

// DefaultProtocol is the protocol used when none is configured.
const DefaultProtocol = "TLSv1.2"

// Builder assembles a [platform.Context] from key material, trust material
// and optional decision strategies.
//
// Every setting is optional. A Builder is not safe for concurrent use; the
// contexts it builds are.
type Builder struct {
	keyStore     keystore.KeyStore
	password     []byte
	keyAlgorithm string
	alias        strategy.AliasSelectionStrategy

	trustStore     keystore.KeyStore
	trustAlgorithm string
	trust          strategy.TrustDecisionStrategy
	trustLogging   bool

	protocol string
	random   io.Reader
	provider platform.Provider
	log      logger.Logger
}

// NewBuilder creates a builder using the default platform, protocol
// [DefaultProtocol] and crypto/rand.
//
// Returns:
//   - A pointer to a new Builder instance ready for configuration
func NewBuilder() *Builder {
	return &Builder{
		protocol: DefaultProtocol,
		random:   rand.Reader,
		log:      logger.Nop(),
	}
}

// WithKeyStore sets the store key managers are derived from and the
// password recovering its keys. A nil store builds a context without key
// managers.
//
// Parameters:
//   - store: Key store holding private key entries
//   - password: Password protecting the key entries
//
// Returns:
//   - The Builder instance for method chaining
func (b *Builder) WithKeyStore(store keystore.KeyStore, password []byte) *Builder {
	b.keyStore = store
	b.password = slices.Clone(password)
	return b
}

// WithKeyManagerAlgorithm sets the key manager algorithm. An empty name
// selects the provider default.
func (b *Builder) WithKeyManagerAlgorithm(algorithm string) *Builder {
	b.keyAlgorithm = algorithm
	return b
}

// WithAliasSelection sets the strategy overriding key alias choices.
//
// Parameters:
//   - s: Strategy consulted before the default key manager, or nil for none
//
// Returns:
//   - The Builder instance for method chaining
func (b *Builder) WithAliasSelection(s strategy.AliasSelectionStrategy) *Builder {
	b.alias = s
	return b
}

// WithTrustStore sets the store trust managers are derived from. A nil
// store builds a context without trust managers, which rejects every peer
// chain. A non-nil store without entries still yields a trust manager; it
// has no anchors, so only a trust decision strategy can accept a chain.
func (b *Builder) WithTrustStore(store keystore.KeyStore) *Builder {
	b.trustStore = store
	return b
}

// WithTrustManagerAlgorithm sets the trust manager algorithm. An empty name
// selects the provider default.
func (b *Builder) WithTrustManagerAlgorithm(algorithm string) *Builder {
	b.trustAlgorithm = algorithm
	return b
}

// WithTrustDecision sets the strategy consulted before default chain
// validation.
//
// Parameters:
//   - s: Strategy deciding whether to delegate, accept or reject, or nil
//     to always delegate
//
// Returns:
//   - The Builder instance for method chaining
func (b *Builder) WithTrustDecision(s strategy.TrustDecisionStrategy) *Builder {
	b.trust = s
	return b
}

// TrustDecision returns the strategy set by [Builder.WithTrustDecision], or
// nil.
func (b *Builder) TrustDecision() strategy.TrustDecisionStrategy { return b.trust }

// WithTrustLogging wraps the trust managers with
// [manager.LoggingTrustManager], logging every trust check.
func (b *Builder) WithTrustLogging(enabled bool) *Builder {
	b.trustLogging = enabled
	return b
}

// WithProtocol sets the protocol name, such as "TLSv1.3" or "TLS".
func (b *Builder) WithProtocol(protocol string) *Builder {
	b.protocol = protocol
	return b
}

// WithRandom sets the source of randomness for handshakes. Nil restores
// crypto/rand.
func (b *Builder) WithRandom(r io.Reader) *Builder {
	if r == nil {
		r = rand.Reader
	}
	b.random = r
	return b
}

// WithProvider sets the provider deriving managers and initializing the
// context. Nil restores [platform.Default].
func (b *Builder) WithProvider(p platform.Provider) *Builder {
	b.provider = p
	return b
}

// WithLogger sets the logger used by the builder and the key manager
// decorators. Nil discards output.
func (b *Builder) WithLogger(l logger.Logger) *Builder {
	b.log = logger.OrNop(l)
	return b
}

// Build derives the managers, decorates them with the configured strategies
// and initializes a context. Stores are only read.
//
// Key managers implementing [manager.KeyManager] are wrapped with
// [strategy.FilteringKeyManager] when an alias strategy is set, trust
// managers implementing [manager.TrustManager] with
// [strategy.FilteringTrustManager] when a trust strategy is set. Other
// managers are passed through unchanged.
//
// Returns:
//   - The initialized context
//   - An error wrapping [ErrUnsupportedProtocol], [ErrUnsupportedAlgorithm],
//     [ErrKeyMaterial] or [ErrStore] on failure
func (b *Builder) Build() (*platform.Context, error) {
	provider := b.provider
	if provider == nil {
		provider = platform.New(platform.DefaultCapabilities(), b.log)
	}
	caps := provider.Capabilities()

	keyManagers, err := b.keyManagers(provider, caps)
	if err != nil {
		return nil, err
	}

	trustManagers, err := b.trustManagers(provider, caps)
	if err != nil {
		return nil, err
	}

	protocol := b.protocol
	if protocol == "" {
		protocol = caps.DefaultProtocol
	}
	return provider.NewContext(protocol, keyManagers, trustManagers, b.random)
}

func (b *Builder) keyManagers(provider platform.Provider, caps platform.Capabilities) ([]manager.Manager, error) {
	if b.keyStore == nil {
		return nil, nil
	}

	algorithm := b.keyAlgorithm
	if algorithm == "" {
		algorithm = caps.DefaultKeyManagerAlgorithm
	}

	managers, err := provider.KeyManagers(algorithm, b.keyStore, b.password)
	if err != nil {
		return nil, err
	}
	if b.alias == nil {
		return managers, nil
	}

	for i, m := range managers {
		if km, ok := m.(manager.KeyManager); ok {
			managers[i] = strategy.NewFilteringKeyManager(km, b.alias, b.log)
		}
	}
	return managers, nil
}

func (b *Builder) trustManagers(provider platform.Provider, caps platform.Capabilities) ([]manager.Manager, error) {
	if b.trustStore == nil {
		return nil, nil
	}

	algorithm := b.trustAlgorithm
	if algorithm == "" {
		algorithm = caps.DefaultTrustManagerAlgorithm
	}

	managers, err := provider.TrustManagers(algorithm, b.trustStore)
	if err != nil {
		return nil, err
	}

	for i, m := range managers {
		tm, ok := m.(manager.TrustManager)
		if !ok {
			continue
		}
		if b.trust != nil {
			tm = strategy.NewFilteringTrustManager(tm, b.trust)
		}
		if b.trustLogging {
			tm = manager.NewLoggingTrustManager(tm, b.log)
		}
		managers[i] = tm
	}
	return managers, nil
}
