// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/x509"
	"encoding/pem"
	"errors"

	"github.com/cloudflare/cfssl/crypto/pkcs7"

	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/gc"
)

var (
	// ErrInvalidPEMBlock indicates that the provided data does not contain a valid PEM block.
	ErrInvalidPEMBlock = errors.New("x509certs: invalid PEM block")

	// ErrInvalidBlockType indicates that the PEM block type is not the expected certificate type.
	ErrInvalidBlockType = errors.New("x509certs: invalid block type")

	// ErrParseCertificate indicates a failure to parse the certificate from the provided data.
	ErrParseCertificate = errors.New("x509certs: failed to parse certificate")

	// ErrParsePKCS7 indicates a failure to parse PKCS7 formatted data.
	ErrParsePKCS7 = errors.New("x509certs: failed to parse PKCS7 data")

	// ErrNoCertificatesInPKCS indicates that no certificates were found in the PKCS7 data.
	ErrNoCertificatesInPKCS = errors.New("x509certs: no certificates found in PKCS7 data")
)

// Codec decodes and encodes [X.509] certificates from PEM, DER and [PKCS7] bundles.
// Key and trust store loaders use it to read certificate material from disk.
//
// [X.509]: https://grokipedia.com/page/X.509
// [PKCS7]: https://grokipedia.com/page/PKCS_7
type Codec struct {
	certBlockType string
}

// NewCodec creates a Codec expecting "CERTIFICATE" PEM blocks.
func NewCodec() *Codec {
	return &Codec{
		certBlockType: "CERTIFICATE",
	}
}

// IsPEM checks if the data is in PEM format.
func (c *Codec) IsPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// DecodeMultiple decodes every certificate block in data.
//
// PEM input may interleave other block types (private keys, parameters);
// those blocks are skipped so a combined key+chain file decodes cleanly.
// Non-PEM input is parsed as concatenated DER, then as PKCS7.
func (c *Codec) DecodeMultiple(data []byte) ([]*x509.Certificate, error) {
	if c.IsPEM(data) {
		return c.decodePEM(data)
	}

	if certs, err := x509.ParseCertificates(data); err == nil && len(certs) > 0 {
		return certs, nil
	}

	certs, err := decodePKCS7(data)
	if errors.Is(err, ErrParsePKCS7) {
		return nil, ErrParseCertificate
	}
	return certs, err
}

// DecodeChain decodes every certificate of data and wraps them, in order,
// as a store chain.
func (c *Codec) DecodeChain(data []byte) ([]Certificate, error) {
	certs, err := c.DecodeMultiple(data)
	if err != nil {
		return nil, err
	}
	return WrapChain(certs...), nil
}

// Decode decodes the first certificate of data.
func (c *Codec) Decode(data []byte) (*x509.Certificate, error) {
	if c.IsPEM(data) {
		certs, err := c.decodePEM(data)
		if err != nil {
			return nil, err
		}
		return certs[0], nil
	}

	if cert, err := x509.ParseCertificate(data); err == nil {
		return cert, nil
	}

	certs, err := decodePKCS7(data)
	if err != nil {
		return nil, err
	}
	return certs[0], nil
}

// decodePEM parses the certificate blocks of data, skipping other types.
func (c *Codec) decodePEM(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		if block.Type != c.certBlockType {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, ErrParseCertificate
		}
		certs = append(certs, cert)
	}

	if len(certs) == 0 {
		return nil, ErrInvalidBlockType
	}
	return certs, nil
}

// decodePKCS7 extracts the certificates of a PKCS7 signed-data bundle using
// Cloudflare's library.
func decodePKCS7(data []byte) ([]*x509.Certificate, error) {
	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrParsePKCS7
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificatesInPKCS
	}
	return p.Content.SignedData.Certificates, nil
}

// EncodePEM encodes a certificate to PEM format.
func (c *Codec) EncodePEM(cert *x509.Certificate) []byte {
	return c.EncodeMultiplePEM([]*x509.Certificate{cert})
}

// EncodeDER encodes a certificate to DER format.
func (c *Codec) EncodeDER(cert *x509.Certificate) []byte { return cert.Raw }

// EncodeMultiplePEM encodes certs as consecutive PEM blocks. Nil entries
// are skipped.
func (c *Codec) EncodeMultiplePEM(certs []*x509.Certificate) []byte {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	for _, cert := range certs {
		if cert == nil {
			continue
		}
		// Writes to a memory buffer cannot fail.
		_ = pem.Encode(buf, &pem.Block{Type: c.certBlockType, Bytes: cert.Raw})
	}
	if buf.Len() == 0 {
		return nil
	}
	return append([]byte(nil), buf.Bytes()...)
}

// EncodeMultipleDER encodes multiple certificates to concatenated DER.
func (c *Codec) EncodeMultipleDER(certs []*x509.Certificate) []byte {
	var data []byte
	for _, cert := range certs {
		if cert != nil {
			data = append(data, cert.Raw...)
		}
	}
	return data
}
