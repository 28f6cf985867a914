// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/x509"
	"errors"
	"fmt"
)

// TypeX509 is the type name reported by certificates in [X.509] format.
//
// [X.509]: https://grokipedia.com/page/X.509
const TypeX509 = "X.509"

var (
	// ErrInvalidInput reports a required argument that is absent or of the wrong type.
	ErrInvalidInput = errors.New("x509certs: invalid input")

	// ErrNilCertificate reports an absent certificate.
	ErrNilCertificate = fmt.Errorf("%w: certificate must not be nil", ErrInvalidInput)

	// ErrNotX509 reports a certificate that is not in X.509 format.
	ErrNotX509 = fmt.Errorf("%w: certificate is not an X.509 certificate", ErrInvalidInput)

	// ErrZeroTime reports an absent point in time.
	ErrZeroTime = fmt.Errorf("%w: time must not be zero", ErrInvalidInput)

	// ErrUnknownKeyUsage reports a key usage outside the nine RFC 5280 flags.
	ErrUnknownKeyUsage = fmt.Errorf("%w: unknown key usage", ErrInvalidInput)
)

// Certificate is a certificate as handed out by a key store or a TLS peer.
//
// Only [X.509] certificates expose a validity window, key usages and names;
// other formats (for example PKCS#11 attribute certificates) are carried as
// [Opaque] so that stores can still list them.
//
// [X.509]: https://grokipedia.com/page/X.509
type Certificate interface {
	// Type returns the certificate format name, "X.509" for [X509].
	Type() string
	// Encoded returns the certificate encoding, DER for [X509].
	Encoded() []byte
}

// X509 adapts a parsed [x509.Certificate] to [Certificate].
type X509 struct {
	*x509.Certificate
}

// Type returns [TypeX509].
func (c X509) Type() string { return TypeX509 }

// Encoded returns the DER encoding of the certificate.
func (c X509) Encoded() []byte {
	if c.Certificate == nil {
		return nil
	}
	return c.Raw
}

// Opaque is a certificate in a format this package does not parse.
type Opaque struct {
	Format string
	Data   []byte
}

// Type returns the declared format of the certificate.
func (c Opaque) Type() string { return c.Format }

// Encoded returns the raw certificate bytes.
func (c Opaque) Encoded() []byte { return c.Data }

// Wrap adapts a parsed certificate. A nil cert yields a nil [Certificate].
func Wrap(cert *x509.Certificate) Certificate {
	if cert == nil {
		return nil
	}
	return X509{Certificate: cert}
}

// WrapChain adapts a parsed chain, keeping its order.
func WrapChain(certs ...*x509.Certificate) []Certificate {
	if certs == nil {
		return nil
	}

	chain := make([]Certificate, len(certs))
	for i, cert := range certs {
		chain[i] = Wrap(cert)
	}
	return chain
}

// Unwrap returns the parsed X.509 certificate behind cert.
//
// It fails with [ErrNilCertificate] when cert is absent and with [ErrNotX509]
// when cert is in another format.
func Unwrap(cert Certificate) (*x509.Certificate, error) {
	switch c := cert.(type) {
	case nil:
		return nil, ErrNilCertificate
	case X509:
		if c.Certificate == nil {
			return nil, ErrNilCertificate
		}
		return c.Certificate, nil
	case *X509:
		if c == nil || c.Certificate == nil {
			return nil, ErrNilCertificate
		}
		return c.Certificate, nil
	default:
		return nil, ErrNotX509
	}
}

// UnwrapChain returns the parsed X.509 certificates of chain.
// The first member that cannot be unwrapped aborts the conversion.
func UnwrapChain(chain []Certificate) ([]*x509.Certificate, error) {
	certs := make([]*x509.Certificate, 0, len(chain))
	for i, cert := range chain {
		c, err := Unwrap(cert)
		if err != nil {
			return nil, fmt.Errorf("chain[%d]: %w", i, err)
		}
		certs = append(certs, c)
	}
	return certs, nil
}
