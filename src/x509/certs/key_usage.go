// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/x509"
	"fmt"
	"strings"
)

// KeyUsage is one flag of the [RFC 5280] key usage extension.
//
// [RFC 5280]: https://datatracker.ietf.org/doc/html/rfc5280#section-4.2.1.3
type KeyUsage int

const (
	DigitalSignature KeyUsage = iota
	NonRepudiation
	KeyEncipherment
	DataEncipherment
	KeyAgreement
	KeyCertSign
	CRLSign
	EncipherOnly
	DecipherOnly
)

// keyUsageTable maps every KeyUsage to its bit in the extension's BIT STRING
// and to the flag in [x509.KeyUsage]. Table order is the canonical order.
var keyUsageTable = [...]struct {
	usage KeyUsage
	bit   int
	flag  x509.KeyUsage
	name  string
}{
	{DigitalSignature, 0, x509.KeyUsageDigitalSignature, "digitalSignature"},
	{NonRepudiation, 1, x509.KeyUsageContentCommitment, "nonRepudiation"},
	{KeyEncipherment, 2, x509.KeyUsageKeyEncipherment, "keyEncipherment"},
	{DataEncipherment, 3, x509.KeyUsageDataEncipherment, "dataEncipherment"},
	{KeyAgreement, 4, x509.KeyUsageKeyAgreement, "keyAgreement"},
	{KeyCertSign, 5, x509.KeyUsageCertSign, "keyCertSign"},
	{CRLSign, 6, x509.KeyUsageCRLSign, "cRLSign"},
	{EncipherOnly, 7, x509.KeyUsageEncipherOnly, "encipherOnly"},
	{DecipherOnly, 8, x509.KeyUsageDecipherOnly, "decipherOnly"},
}

// AllKeyUsages returns the nine key usages in canonical order.
func AllKeyUsages() []KeyUsage {
	usages := make([]KeyUsage, len(keyUsageTable))
	for i, e := range keyUsageTable {
		usages[i] = e.usage
	}
	return usages
}

// Valid reports whether u is one of the nine defined key usages.
func (u KeyUsage) Valid() bool { return u >= DigitalSignature && u <= DecipherOnly }

// Bit returns the position of u in the key usage BIT STRING.
func (u KeyUsage) Bit() int {
	if !u.Valid() {
		return -1
	}
	return keyUsageTable[u].bit
}

// String returns the RFC 5280 name of u.
func (u KeyUsage) String() string {
	if !u.Valid() {
		return fmt.Sprintf("KeyUsage(%d)", int(u))
	}
	return keyUsageTable[u].name
}

// ParseKeyUsage parses an RFC 5280 name such as "digitalSignature".
// Matching ignores case, underscores and dashes, so "DIGITAL_SIGNATURE"
// and "digital-signature" are accepted too.
func ParseKeyUsage(s string) (KeyUsage, error) {
	want := normalizeUsageName(s)
	for _, e := range keyUsageTable {
		if normalizeUsageName(e.name) == want {
			return e.usage, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKeyUsage, s)
}

// ParseKeyUsages parses every name in names, failing on the first unknown one.
func ParseKeyUsages(names ...string) ([]KeyUsage, error) {
	usages := make([]KeyUsage, 0, len(names))
	for _, name := range names {
		u, err := ParseKeyUsage(name)
		if err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}
	return usages, nil
}

func normalizeUsageName(s string) string {
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToLower(strings.TrimSpace(s))
}

// JoinKeyUsages renders usages as a comma separated list.
func JoinKeyUsages(usages []KeyUsage) string {
	names := make([]string, len(usages))
	for i, u := range usages {
		names[i] = u.String()
	}
	return strings.Join(names, ", ")
}

// keyUsagesOf extracts the usages set in the parsed key usage flags.
func keyUsagesOf(flags x509.KeyUsage) []KeyUsage {
	usages := make([]KeyUsage, 0, len(keyUsageTable))
	for _, e := range keyUsageTable {
		if flags&e.flag != 0 {
			usages = append(usages, e.usage)
		}
	}
	return usages
}
