// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

//go:build cgo

package keystore

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"

	"github.com/miekg/pkcs11"

	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// tokenObject is a certificate object read from the token.
type tokenObject struct {
	label    string
	id       []byte
	certType uint
	value    []byte
}

// token is an open, logged in session shared by every signer of a store.
type token struct {
	ctx     *pkcs11.Ctx
	session pkcs11.SessionHandle
	mu      sync.Mutex
}

// LoadPKCS11 opens the token selected by cfg and reads its certificates.
//
// Certificates paired with a private key (same CKA_ID) become key entries
// whose chain is completed from the other certificates on the token. Other
// X.509 certificates become certificate entries; certificates of any other
// type are kept as [x509certs.Opaque]. Repeated labels are suffixed with the
// certificate fingerprint.
func LoadPKCS11(cfg PKCS11Config) (*TokenStore, error) {
	if cfg.ModulePath == "" {
		return nil, fmt.Errorf("%w: module path is required", ErrPKCS11)
	}

	ctx := pkcs11.New(cfg.ModulePath)
	if ctx == nil {
		return nil, fmt.Errorf("%w: failed to load module %s", ErrPKCS11, cfg.ModulePath)
	}
	if err := ctx.Initialize(); err != nil {
		ctx.Destroy()
		return nil, fmt.Errorf("%w: initialize: %w", ErrPKCS11, err)
	}

	release := func() error {
		err := ctx.Finalize()
		ctx.Destroy()
		return err
	}

	tok, err := openToken(ctx, cfg)
	if err != nil {
		release()
		return nil, err
	}

	closeToken := func() error {
		tok.mu.Lock()
		defer tok.mu.Unlock()
		if cfg.PIN != "" {
			ctx.Logout(tok.session)
		}
		ctx.CloseSession(tok.session)
		return release()
	}

	store, err := tok.readStore([]byte(cfg.PIN))
	if err != nil {
		closeToken()
		return nil, err
	}
	return &TokenStore{Store: store, close: closeToken}, nil
}

func openToken(ctx *pkcs11.Ctx, cfg PKCS11Config) (*token, error) {
	slot, err := findSlot(ctx, cfg)
	if err != nil {
		return nil, err
	}

	session, err := ctx.OpenSession(slot, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		return nil, fmt.Errorf("%w: open session: %w", ErrPKCS11, err)
	}

	if cfg.PIN != "" {
		if err := ctx.Login(session, pkcs11.CKU_USER, cfg.PIN); err != nil {
			var perr pkcs11.Error
			errors.As(err, &perr)
			switch perr {
			case pkcs11.CKR_USER_ALREADY_LOGGED_IN:
			case pkcs11.CKR_PIN_INCORRECT, pkcs11.CKR_PIN_LEN_RANGE:
				ctx.CloseSession(session)
				return nil, fmt.Errorf("%w: %w", ErrIncorrectPassword, err)
			default:
				ctx.CloseSession(session)
				return nil, fmt.Errorf("%w: login: %w", ErrPKCS11, err)
			}
		}
	}
	return &token{ctx: ctx, session: session}, nil
}

func findSlot(ctx *pkcs11.Ctx, cfg PKCS11Config) (uint, error) {
	if cfg.Slot != nil {
		return *cfg.Slot, nil
	}

	slots, err := ctx.GetSlotList(true)
	if err != nil {
		return 0, fmt.Errorf("%w: get slot list: %w", ErrPKCS11, err)
	}
	if len(slots) == 0 {
		return 0, fmt.Errorf("%w: no token present", ErrPKCS11)
	}
	if cfg.TokenLabel == "" {
		return slots[0], nil
	}

	for _, slot := range slots {
		info, err := ctx.GetTokenInfo(slot)
		if err != nil {
			continue
		}
		if strings.TrimSpace(info.Label) == cfg.TokenLabel {
			return slot, nil
		}
	}
	return 0, fmt.Errorf("%w: token %q not found", ErrPKCS11, cfg.TokenLabel)
}

func (t *token) readStore(pin []byte) (*Store, error) {
	objects, err := t.certificates()
	if err != nil {
		return nil, err
	}

	var parsed []*x509.Certificate
	for _, o := range objects {
		if o.certType != pkcs11.CKC_X_509 {
			continue
		}
		if c, err := x509.ParseCertificate(o.value); err == nil {
			parsed = append(parsed, c)
		}
	}

	store := NewStore(TypePKCS11)
	for _, o := range objects {
		label := o.label
		if label == "" {
			label = Fingerprint(o.value)
		}
		alias := uniqueAlias(label, o.value, store.Contains)

		if o.certType != pkcs11.CKC_X_509 {
			opaque := x509certs.Opaque{Format: certificateTypeName(o.certType), Data: o.value}
			if err := store.SetCertificateEntry(alias, opaque); err != nil {
				return nil, err
			}
			continue
		}

		leaf, err := x509.ParseCertificate(o.value)
		if err != nil {
			store.SetCertificateEntry(alias, x509certs.Opaque{Format: x509certs.TypeX509, Data: o.value})
			continue
		}

		key, ok := t.privateKey(o.id, leaf.PublicKey)
		if !ok {
			if err := store.SetCertificateEntry(alias, x509certs.Wrap(leaf)); err != nil {
				return nil, err
			}
			continue
		}

		chain := x509certs.WrapChain(buildChain(leaf, parsed)...)
		if err := store.SetKeyEntry(alias, key, pin, chain...); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (t *token) certificates() ([]tokenObject, error) {
	handles, err := t.find([]*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_CERTIFICATE),
	})
	if err != nil {
		return nil, err
	}

	objects := make([]tokenObject, 0, len(handles))
	for _, h := range handles {
		attrs, err := t.ctx.GetAttributeValue(t.session, h, []*pkcs11.Attribute{
			pkcs11.NewAttribute(pkcs11.CKA_VALUE, nil),
			pkcs11.NewAttribute(pkcs11.CKA_LABEL, nil),
			pkcs11.NewAttribute(pkcs11.CKA_ID, nil),
			pkcs11.NewAttribute(pkcs11.CKA_CERTIFICATE_TYPE, nil),
		})
		if err != nil || len(attrs) != 4 || len(attrs[0].Value) == 0 {
			continue
		}
		objects = append(objects, tokenObject{
			value:    attrs[0].Value,
			label:    string(attrs[1].Value),
			id:       attrs[2].Value,
			certType: bytesToUint(attrs[3].Value),
		})
	}
	return objects, nil
}

// privateKey returns a signer for the private key sharing id with a
// certificate, when the token holds one.
func (t *token) privateKey(id []byte, pub crypto.PublicKey) (crypto.Signer, bool) {
	if len(id) == 0 {
		return nil, false
	}
	handles, err := t.find([]*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_PRIVATE_KEY),
		pkcs11.NewAttribute(pkcs11.CKA_ID, id),
	})
	if err != nil || len(handles) == 0 {
		return nil, false
	}

	switch pub.(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey:
		return &tokenSigner{token: t, handle: handles[0], pub: pub}, true
	default:
		return nil, false
	}
}

func (t *token) find(template []*pkcs11.Attribute) ([]pkcs11.ObjectHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ctx.FindObjectsInit(t.session, template); err != nil {
		return nil, fmt.Errorf("%w: find objects: %w", ErrPKCS11, err)
	}
	defer t.ctx.FindObjectsFinal(t.session)

	var all []pkcs11.ObjectHandle
	for {
		handles, _, err := t.ctx.FindObjects(t.session, 100)
		if err != nil {
			return nil, fmt.Errorf("%w: find objects: %w", ErrPKCS11, err)
		}
		if len(handles) == 0 {
			return all, nil
		}
		all = append(all, handles...)
	}
}

// tokenSigner signs with a private key that never leaves the token.
type tokenSigner struct {
	token  *token
	handle pkcs11.ObjectHandle
	pub    crypto.PublicKey
}

// Public returns the public key of the paired certificate.
func (s *tokenSigner) Public() crypto.PublicKey { return s.pub }

// Sign signs digest on the token. RSA keys sign PKCS#1 v1.5 or PSS
// depending on opts, ECDSA signatures are returned ASN.1 encoded.
func (s *tokenSigner) Sign(_ io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	mech, data, err := s.mechanism(digest, opts)
	if err != nil {
		return nil, err
	}

	s.token.mu.Lock()
	if err := s.token.ctx.SignInit(s.token.session, []*pkcs11.Mechanism{mech}, s.handle); err != nil {
		s.token.mu.Unlock()
		return nil, fmt.Errorf("%w: sign init: %w", ErrPKCS11, err)
	}
	sig, err := s.token.ctx.Sign(s.token.session, data)
	s.token.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: sign: %w", ErrPKCS11, err)
	}

	if _, ok := s.pub.(*ecdsa.PublicKey); ok {
		return convertECDSASignature(sig)
	}
	return sig, nil
}

func (s *tokenSigner) mechanism(digest []byte, opts crypto.SignerOpts) (*pkcs11.Mechanism, []byte, error) {
	switch s.pub.(type) {
	case *ecdsa.PublicKey:
		return pkcs11.NewMechanism(pkcs11.CKM_ECDSA, nil), digest, nil
	case *rsa.PublicKey:
		if pss, ok := opts.(*rsa.PSSOptions); ok {
			params, ok := pssParams[pss.Hash]
			if !ok {
				return nil, nil, fmt.Errorf("%w: unsupported PSS hash %v", ErrPKCS11, pss.Hash)
			}
			salt := pss.SaltLength
			if salt <= 0 {
				salt = pss.Hash.Size()
			}
			return pkcs11.NewMechanism(pkcs11.CKM_RSA_PKCS_PSS,
				pkcs11.NewPSSParams(params.hash, params.mgf, uint(salt))), digest, nil
		}

		prefix, ok := digestInfoPrefixes[opts.HashFunc()]
		if !ok {
			return nil, nil, fmt.Errorf("%w: unsupported hash %v", ErrPKCS11, opts.HashFunc())
		}
		return pkcs11.NewMechanism(pkcs11.CKM_RSA_PKCS, nil), append(bytes.Clone(prefix), digest...), nil
	default:
		return nil, nil, fmt.Errorf("%w: unsupported key type %T", ErrPKCS11, s.pub)
	}
}

// DigestInfo prefixes for PKCS#1 v1.5 signatures (RFC 8017).
var digestInfoPrefixes = map[crypto.Hash][]byte{
	crypto.SHA256: {0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20},
	crypto.SHA384: {0x30, 0x41, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x02, 0x05, 0x00, 0x04, 0x30},
	crypto.SHA512: {0x30, 0x51, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40},
}

var pssParams = map[crypto.Hash]struct{ hash, mgf uint }{
	crypto.SHA256: {pkcs11.CKM_SHA256, pkcs11.CKG_MGF1_SHA256},
	crypto.SHA384: {pkcs11.CKM_SHA384, pkcs11.CKG_MGF1_SHA384},
	crypto.SHA512: {pkcs11.CKM_SHA512, pkcs11.CKG_MGF1_SHA512},
}

// convertECDSASignature converts a raw r||s signature to ASN.1 DER.
func convertECDSASignature(raw []byte) ([]byte, error) {
	if len(raw) == 0 || len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: invalid ECDSA signature length %d", ErrPKCS11, len(raw))
	}
	n := len(raw) / 2
	return asn1.Marshal(struct{ R, S *big.Int }{
		new(big.Int).SetBytes(raw[:n]),
		new(big.Int).SetBytes(raw[n:]),
	})
}

func certificateTypeName(t uint) string {
	switch t {
	case pkcs11.CKC_X_509:
		return x509certs.TypeX509
	case pkcs11.CKC_X_509_ATTR_CERT:
		return "X.509 Attribute"
	case pkcs11.CKC_WTLS:
		return "WTLS"
	default:
		return fmt.Sprintf("PKCS11-0x%X", t)
	}
}

// bytesToUint decodes a CK_ULONG attribute in host byte order.
func bytesToUint(b []byte) uint {
	var v uint
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint(b[i])
	}
	return v
}
