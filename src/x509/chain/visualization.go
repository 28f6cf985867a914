// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// RenderTable renders chain as a markdown table.
//
// Each row shows the role of the certificate in the chain, its subject and
// issuer common names, the not-after date, the public key and the key usages.
// Members that are not X.509 certificates get a row naming their format.
//
// Parameters:
//   - chain: Certificates, leaf first
//
// Returns:
//   - string: Markdown table representation of the chain
func RenderTable(chain []x509certs.Certificate) string {
	if len(chain) == 0 {
		return "No certificates to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"#", "Role", "Subject", "Issuer", "Valid Until", "Public Key", "Key Usage"})

	rows := make([][]string, 0, len(chain))
	for i, cert := range chain {
		c, err := x509certs.Unwrap(cert)
		if err != nil {
			format := "absent"
			if cert != nil {
				format = cert.Type()
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), "-", format, "-", "-", "-", "-"})
			continue
		}

		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			certificateRole(c, i, len(chain)),
			c.Subject.CommonName,
			c.Issuer.CommonName,
			c.NotAfter.UTC().Format("2006-01-02"),
			describePublicKey(c),
			x509certs.JoinKeyUsages(mustKeyUsages(cert)),
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

func mustKeyUsages(cert x509certs.Certificate) []x509certs.KeyUsage {
	usages, _ := x509certs.KeyUsages(cert)
	return usages
}

// certificateRole names the position of c in a chain of n certificates.
func certificateRole(c *x509.Certificate, i, n int) string {
	switch {
	case bytes.Equal(c.RawIssuer, c.RawSubject) && c.IsCA:
		return "Root CA"
	case i == 0:
		return "End-Entity"
	case c.IsCA:
		return "Intermediate CA"
	default:
		if i == n-1 {
			return "Last"
		}
		return "Certificate"
	}
}

func describePublicKey(c *x509.Certificate) string {
	switch k := c.PublicKey.(type) {
	case *rsa.PublicKey:
		return fmt.Sprintf("%d-bit RSA", k.Size()*8)
	case *ecdsa.PublicKey:
		return fmt.Sprintf("%d-bit ECDSA", k.Curve.Params().BitSize)
	case ed25519.PublicKey:
		return "Ed25519"
	default:
		return c.PublicKeyAlgorithm.String()
	}
}
