// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package manager

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"net"
)

// ErrUntrustedChain reports a peer certificate chain rejected by a trust
// decision. Failures of the default PKIX validation wrap it too.
var ErrUntrustedChain = errors.New("manager: untrusted certificate chain")

// Key type names used by key managers, matching the public key of a
// certificate's leaf.
const (
	KeyTypeRSA     = "RSA"
	KeyTypeEC      = "EC"
	KeyTypeEd25519 = "Ed25519"
)

// Manager is any object a provider hands out for key or trust decisions.
//
// Only managers that also implement [TrustManager] or [KeyManager] take
// part in certificate decisions; anything else is passed through untouched.
type Manager interface {
	// Algorithm returns the name of the algorithm the manager was created for.
	Algorithm() string
}

// TrustManager decides whether a peer certificate chain is trusted.
//
// Chains are ordered leaf first. authType names the public key algorithm of
// the leaf as reported by [x509.PublicKeyAlgorithm.String]. A nil error
// means the chain is trusted.
type TrustManager interface {
	Manager
	CheckClientTrusted(chain []*x509.Certificate, authType string) error
	CheckServerTrusted(chain []*x509.Certificate, authType string) error
	// AcceptedIssuers returns the certificate authorities trusted for
	// authenticating peers.
	AcceptedIssuers() []*x509.Certificate
}

// ConnectionHint carries what is known about the connection a key is chosen
// for. Any field may be empty.
type ConnectionHint struct {
	Context    context.Context
	ServerName string
	RemoteAddr net.Addr
}

// KeyManager selects the key material used to authenticate to a peer.
//
// Aliases name key entries of the underlying key store; the empty alias
// means no entry fits. issuers holds DER encoded distinguished names of
// certificate authorities acceptable to the peer, an empty list accepting
// any.
type KeyManager interface {
	Manager
	ChooseClientAlias(keyTypes []string, issuers [][]byte, hint ConnectionHint) string
	ChooseServerAlias(keyType string, issuers [][]byte, hint ConnectionHint) string
	CertificateChain(alias string) []*x509.Certificate
	PrivateKey(alias string) crypto.PrivateKey
	ClientAliases(keyType string, issuers [][]byte) []string
	ServerAliases(keyType string, issuers [][]byte) []string
}

// KeyType returns the key type name of pub, or "" for unsupported keys.
func KeyType(pub crypto.PublicKey) string {
	switch pub.(type) {
	case *rsa.PublicKey:
		return KeyTypeRSA
	case *ecdsa.PublicKey:
		return KeyTypeEC
	case ed25519.PublicKey:
		return KeyTypeEd25519
	default:
		return ""
	}
}

// AuthType returns the authentication type reported for chain, the public
// key algorithm of its leaf, or "" for an empty chain.
func AuthType(chain []*x509.Certificate) string {
	if len(chain) == 0 || chain[0] == nil {
		return ""
	}
	return chain[0].PublicKeyAlgorithm.String()
}
