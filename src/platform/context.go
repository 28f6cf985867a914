// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package platform

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"slices"

	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
)

// ClientAuth selects whether a server asks clients for a certificate.
type ClientAuth int

const (
	// NoClientAuth never requests a client certificate.
	NoClientAuth ClientAuth = iota
	// WantClientAuth requests a certificate but accepts clients without one.
	// A presented chain is still checked by the trust manager.
	WantClientAuth
	// NeedClientAuth requires a certificate trusted by the trust manager.
	NeedClientAuth
)

// String returns the name of a.
func (a ClientAuth) String() string {
	switch a {
	case NoClientAuth:
		return "none"
	case WantClientAuth:
		return "want"
	case NeedClientAuth:
		return "need"
	default:
		return fmt.Sprintf("ClientAuth(%d)", int(a))
	}
}

// Context is an initialized TLS context. It turns its key and trust managers
// into [tls.Config] values whose certificate selection and peer verification
// are answered by those managers.
//
// A Context is immutable and safe for concurrent use; every config it
// returns may serve any number of handshakes.
type Context struct {
	protocol      Protocol
	keyManagers   []manager.Manager
	trustManagers []manager.Manager
	random        io.Reader
	log           logger.Logger
}

// Protocol returns the protocol the context was initialized for.
func (c *Context) Protocol() Protocol { return c.protocol }

// KeyManagers returns the key managers the context was initialized with.
func (c *Context) KeyManagers() []manager.Manager { return slices.Clone(c.keyManagers) }

// TrustManagers returns the trust managers the context was initialized with.
func (c *Context) TrustManagers() []manager.Manager { return slices.Clone(c.trustManagers) }

// ClientConfig returns a client configuration for serverName.
//
// The server chain is accepted or rejected by the first trust manager alone;
// crypto/tls verification, hostname checks included, is disabled.
func (c *Context) ClientConfig(serverName string) *tls.Config {
	return &tls.Config{
		ServerName:            serverName,
		MinVersion:            c.protocol.MinVersion,
		MaxVersion:            c.protocol.MaxVersion,
		Rand:                  c.random,
		InsecureSkipVerify:    true,
		VerifyPeerCertificate: c.verifier(false, false),
		GetClientCertificate:  c.clientCertificate,
	}
}

// ServerConfig returns a server configuration requesting client
// certificates according to auth.
func (c *Context) ServerConfig(auth ClientAuth) *tls.Config {
	cfg := &tls.Config{
		MinVersion:     c.protocol.MinVersion,
		MaxVersion:     c.protocol.MaxVersion,
		Rand:           c.random,
		GetCertificate: c.serverCertificate,
	}

	switch auth {
	case WantClientAuth:
		cfg.ClientAuth = tls.RequestClientCert
	case NeedClientAuth:
		cfg.ClientAuth = tls.RequireAnyClientCert
	default:
		cfg.ClientAuth = tls.NoClientCert
		return cfg
	}

	cfg.VerifyPeerCertificate = c.verifier(true, auth == WantClientAuth)
	if tm := c.trustManager(); tm != nil {
		if issuers := tm.AcceptedIssuers(); len(issuers) > 0 {
			cfg.ClientCAs = x509.NewCertPool()
			for _, issuer := range issuers {
				cfg.ClientCAs.AddCert(issuer)
			}
		}
	}
	return cfg
}

func (c *Context) trustManager() manager.TrustManager {
	for _, m := range c.trustManagers {
		if tm, ok := m.(manager.TrustManager); ok {
			return tm
		}
	}
	return nil
}

func (c *Context) keyManager() manager.KeyManager {
	for _, m := range c.keyManagers {
		if km, ok := m.(manager.KeyManager); ok {
			return km
		}
	}
	return nil
}

// verifier returns a VerifyPeerCertificate callback. client reports that
// the peer is a client; optional lets a client without a certificate pass.
func (c *Context) verifier(client, optional bool) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			if optional {
				return nil
			}
			return fmt.Errorf("%w: peer presented no certificate", manager.ErrUntrustedChain)
		}

		chain := make([]*x509.Certificate, 0, len(rawCerts))
		for i, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return fmt.Errorf("%w: chain[%d]: %w", manager.ErrUntrustedChain, i, err)
			}
			chain = append(chain, cert)
		}

		if client {
			return c.CheckClientTrusted(chain)
		}
		return c.CheckServerTrusted(chain)
	}
}

// CheckServerTrusted applies the decision a client config makes about a
// server chain, leaf first.
func (c *Context) CheckServerTrusted(chain []*x509.Certificate) error {
	tm := c.trustManager()
	if tm == nil {
		return fmt.Errorf("%w: no trust manager configured", manager.ErrUntrustedChain)
	}
	return tm.CheckServerTrusted(chain, manager.AuthType(chain))
}

// CheckClientTrusted applies the decision a server config makes about a
// client chain, leaf first.
func (c *Context) CheckClientTrusted(chain []*x509.Certificate) error {
	tm := c.trustManager()
	if tm == nil {
		return fmt.Errorf("%w: no trust manager configured", manager.ErrUntrustedChain)
	}
	return tm.CheckClientTrusted(chain, manager.AuthType(chain))
}

func (c *Context) clientCertificate(cri *tls.CertificateRequestInfo) (*tls.Certificate, error) {
	km := c.keyManager()
	if km == nil {
		return &tls.Certificate{}, nil
	}

	hint := manager.ConnectionHint{Context: cri.Context()}
	alias := km.ChooseClientAlias(keyTypesFor(cri.SignatureSchemes), cri.AcceptableCAs, hint)
	if alias == "" {
		c.log.Println("no client alias matches the certificate request, sending none")
		return &tls.Certificate{}, nil
	}
	return certificateFor(km, alias)
}

func (c *Context) serverCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	km := c.keyManager()
	if km == nil {
		return nil, fmt.Errorf("%w: no key manager configured", ErrKeyMaterial)
	}

	hint := manager.ConnectionHint{Context: hello.Context(), ServerName: hello.ServerName}
	if hello.Conn != nil {
		hint.RemoteAddr = hello.Conn.RemoteAddr()
	}

	keyTypes := keyTypesFor(hello.SignatureSchemes)
	for _, keyType := range keyTypes {
		if alias := km.ChooseServerAlias(keyType, nil, hint); alias != "" {
			return certificateFor(km, alias)
		}
	}
	return nil, fmt.Errorf("%w: no server alias for key types %v", ErrKeyMaterial, keyTypes)
}

func certificateFor(km manager.KeyManager, alias string) (*tls.Certificate, error) {
	chain := km.CertificateChain(alias)
	key := km.PrivateKey(alias)
	if len(chain) == 0 || chain[0] == nil || key == nil {
		return nil, fmt.Errorf("%w: alias %q has no certificate chain or private key", ErrKeyMaterial, alias)
	}

	cert := &tls.Certificate{PrivateKey: key, Leaf: chain[0]}
	for _, c := range chain {
		cert.Certificate = append(cert.Certificate, c.Raw)
	}
	return cert, nil
}

// keyTypesFor maps signature schemes to key types in order of first
// appearance. Without schemes, EC and RSA keys are tried.
func keyTypesFor(schemes []tls.SignatureScheme) []string {
	var types []string
	for _, s := range schemes {
		var kt string
		switch s {
		case tls.ECDSAWithP256AndSHA256, tls.ECDSAWithP384AndSHA384, tls.ECDSAWithP521AndSHA512, tls.ECDSAWithSHA1:
			kt = manager.KeyTypeEC
		case tls.PKCS1WithSHA256, tls.PKCS1WithSHA384, tls.PKCS1WithSHA512, tls.PKCS1WithSHA1,
			tls.PSSWithSHA256, tls.PSSWithSHA384, tls.PSSWithSHA512:
			kt = manager.KeyTypeRSA
		case tls.Ed25519:
			kt = manager.KeyTypeEd25519
		default:
			continue
		}
		if !slices.Contains(types, kt) {
			types = append(types, kt)
		}
	}
	if len(types) == 0 {
		return []string{manager.KeyTypeEC, manager.KeyTypeRSA}
	}
	return types
}
