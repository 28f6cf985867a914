// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs_test

import (
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/pkitest"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

const invalidPEM = `
-----BEGIN INVALID-----
MIIEmTCCBD+gAwIBAgIRANFjRCmF+Y2bUYHbhxwkEpowCgYIKoZIzj0EAwIwgY8x
-----END INVALID-----
`

func TestCodecOperations(t *testing.T) {
	ca := pkitest.NewAuthority(t, "Codec Test CA")
	leaf := ca.Issue(t, pkitest.Options{CommonName: "codec.example.com"})

	tests := []struct {
		name     string
		testFunc func(t *testing.T, codec *x509certs.Codec)
	}{
		{
			name: "Decode PEM Certificate",
			testFunc: func(t *testing.T, codec *x509certs.Codec) {
				cert, err := codec.Decode(codec.EncodePEM(leaf.Cert))
				require.NoError(t, err, "Decode() error")

				assert.Equal(t, "codec.example.com", cert.Subject.CommonName)
			},
		},
		{
			name: "Decode DER Certificate",
			testFunc: func(t *testing.T, codec *x509certs.Codec) {
				cert, err := codec.Decode(codec.EncodeDER(leaf.Cert))
				require.NoError(t, err, "Decode() error")

				assert.True(t, leaf.Cert.Equal(cert), "decoded certificate does not match original")
			},
		},
		{
			name: "Decode Multiple PEM Certificates",
			testFunc: func(t *testing.T, codec *x509certs.Codec) {
				data := codec.EncodeMultiplePEM([]*x509.Certificate{leaf.Cert, ca.Cert})

				certs, err := codec.DecodeMultiple(data)
				require.NoError(t, err, "DecodeMultiple() error")

				require.Len(t, certs, 2)
				assert.True(t, certs[1].Equal(ca.Cert))
			},
		},
		{
			name: "Decode Multiple DER Certificates",
			testFunc: func(t *testing.T, codec *x509certs.Codec) {
				data := codec.EncodeMultipleDER([]*x509.Certificate{leaf.Cert, ca.Cert})

				certs, err := codec.DecodeMultiple(data)
				require.NoError(t, err, "DecodeMultiple() error")

				assert.Len(t, certs, 2)
			},
		},
		{
			name: "Decode Multiple Skips Key Blocks",
			testFunc: func(t *testing.T, codec *x509certs.Codec) {
				data := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{0x30, 0x00}})
				data = append(data, codec.EncodePEM(leaf.Cert)...)

				certs, err := codec.DecodeMultiple(data)
				require.NoError(t, err, "DecodeMultiple() error")

				assert.Len(t, certs, 1)
			},
		},
		{
			name: "Invalid Block Type",
			testFunc: func(t *testing.T, codec *x509certs.Codec) {
				_, err := codec.Decode([]byte(invalidPEM))
				assert.ErrorIs(t, err, x509certs.ErrInvalidBlockType)

				_, err = codec.DecodeMultiple([]byte(invalidPEM))
				assert.ErrorIs(t, err, x509certs.ErrInvalidBlockType)
			},
		},
		{
			name: "Garbage Input",
			testFunc: func(t *testing.T, codec *x509certs.Codec) {
				_, err := codec.Decode([]byte("not a certificate"))
				assert.ErrorIs(t, err, x509certs.ErrParsePKCS7)

				_, err = codec.DecodeMultiple([]byte("not a certificate"))
				assert.ErrorIs(t, err, x509certs.ErrParseCertificate)
			},
		},
		{
			name: "IsPEM",
			testFunc: func(t *testing.T, codec *x509certs.Codec) {
				assert.True(t, codec.IsPEM(codec.EncodePEM(leaf.Cert)))
				assert.False(t, codec.IsPEM(leaf.Cert.Raw))
				assert.False(t, codec.IsPEM(nil))
			},
		},
		{
			name: "Decode Chain Skips Other Blocks",
			testFunc: func(t *testing.T, codec *x509certs.Codec) {
				data := append([]byte(invalidPEM), codec.EncodeMultiplePEM([]*x509.Certificate{leaf.Cert, nil, leaf.Cert})...)

				chain, err := codec.DecodeChain(data)
				require.NoError(t, err)
				require.Len(t, chain, 2)
				assert.Equal(t, x509certs.TypeX509, chain[0].Type())
				assert.Equal(t, leaf.Cert.Raw, chain[1].Encoded())

				_, err = codec.DecodeChain([]byte(invalidPEM))
				assert.ErrorIs(t, err, x509certs.ErrInvalidBlockType)
			},
		},
		{
			name: "Encode Empty List",
			testFunc: func(t *testing.T, codec *x509certs.Codec) {
				assert.Empty(t, codec.EncodeMultiplePEM(nil))
				assert.Empty(t, codec.EncodeMultipleDER(nil))
			},
		},
	}

	codec := x509certs.NewCodec()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t, codec)
		})
	}
}
