// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"errors"
	"fmt"
	"time"

	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/gc"
)

var (
	// ErrExpired reports a certificate whose validity window ended before the checked time.
	ErrExpired = errors.New("x509certs: certificate expired")

	// ErrNotYetValid reports a certificate whose validity window starts after the checked time.
	ErrNotYetValid = errors.New("x509certs: certificate not yet valid")
)

// DetailsTimeLayout is the layout of the validity bounds printed by [Details].
const DetailsTimeLayout = "Mon Jan 02 15:04:05 MST 2006"

// ValidityStart returns the not-before bound of cert.
//
// ok is false when cert is not an X.509 certificate and therefore has no
// validity window. An absent cert fails with [ErrNilCertificate].
func ValidityStart(cert Certificate) (t time.Time, ok bool, err error) {
	c, err := Unwrap(cert)
	switch {
	case errors.Is(err, ErrNotX509):
		return time.Time{}, false, nil
	case err != nil:
		return time.Time{}, false, err
	}
	return c.NotBefore, true, nil
}

// ValidityEnd returns the not-after bound of cert, see [ValidityStart].
func ValidityEnd(cert Certificate) (t time.Time, ok bool, err error) {
	c, err := Unwrap(cert)
	switch {
	case errors.Is(err, ErrNotX509):
		return time.Time{}, false, nil
	case err != nil:
		return time.Time{}, false, err
	}
	return c.NotAfter, true, nil
}

// CheckValidityAt reports whether t lies inside the validity window of cert.
// Both bounds are inclusive.
//
// It returns [ErrNotYetValid] or [ErrExpired] when t is outside the window,
// and an [ErrInvalidInput] error when cert is absent or not X.509 or t is zero.
func CheckValidityAt(cert Certificate, t time.Time) error {
	c, err := Unwrap(cert)
	if err != nil {
		return err
	}
	if t.IsZero() {
		return ErrZeroTime
	}

	if t.Before(c.NotBefore) {
		return fmt.Errorf("%w: not before %s", ErrNotYetValid, c.NotBefore.UTC().Format(time.RFC3339))
	}
	if t.After(c.NotAfter) {
		return fmt.Errorf("%w: not after %s", ErrExpired, c.NotAfter.UTC().Format(time.RFC3339))
	}
	return nil
}

// IsValidAt is the boolean form of [CheckValidityAt]: expired and not yet
// valid both yield false. Invalid input is still returned as an error.
func IsValidAt(cert Certificate, t time.Time) (bool, error) {
	err := CheckValidityAt(cert, t)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrExpired), errors.Is(err, ErrNotYetValid):
		return false, nil
	default:
		return false, err
	}
}

// IsValid reports whether cert is valid now.
func IsValid(cert Certificate) (bool, error) { return IsValidAt(cert, time.Now()) }

// ExpiresWithinAt reports whether cert stops being valid within d of now.
// A certificate that already expired reports true.
func ExpiresWithinAt(cert Certificate, d time.Duration, now time.Time) (bool, error) {
	c, err := Unwrap(cert)
	if err != nil {
		return false, err
	}
	if now.IsZero() {
		return false, ErrZeroTime
	}
	return !c.NotAfter.After(now.Add(d)), nil
}

// ExpiresWithinDaysAt is [ExpiresWithinAt] for a whole number of calendar
// days, so windows beyond the range of [time.Duration] stay correct.
func ExpiresWithinDaysAt(cert Certificate, days int, now time.Time) (bool, error) {
	c, err := Unwrap(cert)
	if err != nil {
		return false, err
	}
	if now.IsZero() {
		return false, ErrZeroTime
	}
	return !c.NotAfter.After(now.AddDate(0, 0, days)), nil
}

// ExpiresWithin reports whether cert stops being valid within d from now.
func ExpiresWithin(cert Certificate, d time.Duration) (bool, error) {
	return ExpiresWithinAt(cert, d, time.Now())
}

// ExpiresWithinDays is [ExpiresWithin] for a whole number of days.
func ExpiresWithinDays(cert Certificate, days int) (bool, error) {
	return ExpiresWithinDaysAt(cert, days, time.Now())
}

// KeyUsages returns the key usages set on cert in canonical order.
//
// A certificate without the key usage extension yields an empty slice.
// Absent or non-X.509 input is an error; see [IsKeyUsagePresent] for the
// total variant.
func KeyUsages(cert Certificate) ([]KeyUsage, error) {
	c, err := Unwrap(cert)
	if err != nil {
		return nil, err
	}
	return keyUsagesOf(c.KeyUsage), nil
}

// HasKeyUsage reports whether usage is set on cert, failing like [KeyUsages]
// for absent or non-X.509 input.
func HasKeyUsage(cert Certificate, usage KeyUsage) (bool, error) {
	if !usage.Valid() {
		return false, fmt.Errorf("%w: %d", ErrUnknownKeyUsage, int(usage))
	}

	c, err := Unwrap(cert)
	if err != nil {
		return false, err
	}
	return c.KeyUsage&keyUsageTable[usage].flag != 0, nil
}

// IsKeyUsagePresent reports whether usage is set on cert.
// It never fails: absent or non-X.509 input yields false.
func IsKeyUsagePresent(cert Certificate, usage KeyUsage) bool {
	ok, err := HasKeyUsage(cert, usage)
	return err == nil && ok
}

// Issuer returns the issuer distinguished name of cert.
func Issuer(cert Certificate) (string, error) {
	c, err := Unwrap(cert)
	if err != nil {
		return "", err
	}
	return c.Issuer.String(), nil
}

// Subject returns the subject distinguished name of cert.
func Subject(cert Certificate) (string, error) {
	c, err := Unwrap(cert)
	if err != nil {
		return "", err
	}
	return c.Subject.String(), nil
}

// SignatureAlgorithm returns the name of the algorithm the issuer signed cert with.
func SignatureAlgorithm(cert Certificate) (string, error) {
	c, err := Unwrap(cert)
	if err != nil {
		return "", err
	}
	return c.SignatureAlgorithm.String(), nil
}

// Details renders a fixed multi-line summary of cert for diagnostics.
func Details(cert Certificate) (string, error) {
	c, err := Unwrap(cert)
	if err != nil {
		return "", err
	}

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()         // Reset the buffer to prevent data leaks
		gc.Default.Put(buf) // Return the buffer to the pool for reuse
	}()

	buf.WriteString("Certificate details:\n")
	buf.WriteString("    Signature Algorithm: " + c.SignatureAlgorithm.String() + "\n")
	buf.WriteString("    KeyUsage: " + JoinKeyUsages(keyUsagesOf(c.KeyUsage)) + "\n")
	buf.WriteString("    Validity:\n")
	buf.WriteString("        Not before: " + c.NotBefore.UTC().Format(DetailsTimeLayout) + "\n")
	buf.WriteString("        Not after : " + c.NotAfter.UTC().Format(DetailsTimeLayout) + "\n")
	buf.WriteString("    Issuer : " + c.Issuer.String() + "\n")
	buf.WriteString("    Subject: " + c.Subject.String() + "\n")

	return string(buf.Bytes()), nil
}
