// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package platform

import (
	"crypto/tls"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Protocol maps a protocol name to the TLS versions a context negotiates.
type Protocol struct {
	Name       string
	MinVersion uint16
	MaxVersion uint16
}

// Capabilities describes what a provider supports. It is resolved once,
// typically with [DefaultCapabilities], and passed to [New]; nothing reads
// the environment afterwards.
type Capabilities struct {
	// DefaultProtocol is used when no protocol is configured.
	DefaultProtocol string
	// Protocols lists the protocol names accepted by NewContext.
	Protocols []Protocol
	// DefaultKeyManagerAlgorithm names the key manager factory used when
	// none is configured.
	DefaultKeyManagerAlgorithm string
	// DefaultTrustManagerAlgorithm names the trust manager factory used
	// when none is configured.
	DefaultTrustManagerAlgorithm string
}

// Algorithm names registered by [New].
const (
	AlgorithmX509    = "X509"
	AlgorithmSunX509 = "SunX509"
	AlgorithmPKIX    = "PKIX"
)

var defaultCapabilities = sync.OnceValue(func() Capabilities {
	return Capabilities{
		DefaultProtocol: "TLSv1.2",
		Protocols: []Protocol{
			{Name: "TLSv1", MinVersion: tls.VersionTLS10, MaxVersion: tls.VersionTLS10},
			{Name: "TLSv1.1", MinVersion: tls.VersionTLS11, MaxVersion: tls.VersionTLS11},
			{Name: "TLSv1.2", MinVersion: tls.VersionTLS12, MaxVersion: tls.VersionTLS12},
			{Name: "TLSv1.3", MinVersion: tls.VersionTLS12, MaxVersion: tls.VersionTLS13},
			{Name: "TLS", MinVersion: tls.VersionTLS12, MaxVersion: tls.VersionTLS13},
		},
		DefaultKeyManagerAlgorithm:   AlgorithmX509,
		DefaultTrustManagerAlgorithm: AlgorithmPKIX,
	}
})

// DefaultCapabilities returns the capabilities of crypto/tls. The protocol
// name is the highest version negotiated; versions below TLS 1.2 are only
// offered when named explicitly.
func DefaultCapabilities() Capabilities {
	c := defaultCapabilities()
	c.Protocols = slices.Clone(c.Protocols)
	return c
}

// Protocol looks up name, ignoring case.
func (c Capabilities) Protocol(name string) (Protocol, error) {
	for _, p := range c.Protocols {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Protocol{}, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, name)
}

// ProtocolNames returns the supported protocol names, sorted.
func (c Capabilities) ProtocolNames() []string {
	names := make(map[string]struct{}, len(c.Protocols))
	for _, p := range c.Protocols {
		names[p.Name] = struct{}{}
	}
	return slices.Sorted(maps.Keys(names))
}
