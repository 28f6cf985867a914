// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the environment variable consulted by [Load] when no
// path is given.
const EnvConfigFile = "TLSCTX_CONFIG_FILE"

// secretPrefix marks a value resolved from the environment.
const secretPrefix = "env:"

// ErrInvalidConfig reports a configuration rejected by the schema or
// referring to missing secrets.
var ErrInvalidConfig = errors.New("config: invalid configuration")

//go:embed schema.json
var schema string

// Schema returns the JSON Schema configuration files are validated against.
func Schema() string { return schema }

// Format is a configuration file format.
type Format int

const (
	// FormatJSON represents JSON configuration format (.json)
	FormatJSON Format = iota
	// FormatYAML represents YAML configuration format (.yaml, .yml)
	FormatYAML
)

// Config describes a TLS context. Every section is optional; an empty
// configuration builds a context without key or trust managers.
//
// Passwords and PINs are never written literally. They take the form
// "env:NAME" and are read from the environment when the context is built.
type Config struct {
	// Protocol: TLS protocol name such as "TLSv1.3" (default "TLSv1.2")
	Protocol string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	// KeyStore: Key material presented to peers
	KeyStore *Store `json:"keyStore,omitempty" yaml:"keyStore,omitempty"`
	// TrustStore: Certificate authorities trusted for peer chains
	TrustStore *Store `json:"trustStore,omitempty" yaml:"trustStore,omitempty"`
	// Alias: Key alias selection strategy
	Alias Alias `json:"alias" yaml:"alias"`
	// Trust: Trust decision strategies
	Trust Trust `json:"trust" yaml:"trust"`
}

// Store locates a key or trust store.
type Store struct {
	// Type: PKCS12, PEM or PKCS11 (guessed from the path when empty)
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	// Path: Store file for PKCS12 and PEM stores
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Password: Store password as "env:NAME"
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	// Algorithm: Key or trust manager algorithm (provider default when empty)
	Algorithm string `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	// PKCS11: Hardware token holding the store
	PKCS11 *PKCS11 `json:"pkcs11,omitempty" yaml:"pkcs11,omitempty"`
}

// PKCS11 selects a token of a PKCS#11 module.
type PKCS11 struct {
	Module     string `json:"module" yaml:"module"`
	TokenLabel string `json:"tokenLabel,omitempty" yaml:"tokenLabel,omitempty"`
	Slot       *uint  `json:"slot,omitempty" yaml:"slot,omitempty"`
	// PIN: User PIN as "env:NAME"
	PIN string `json:"pin,omitempty" yaml:"pin,omitempty"`
}

// Alias selects the key alias override.
type Alias struct {
	// Strategy: "none" (default), "static" or "keyUsage"
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	// Name: Alias used by the static strategy
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// KeyUsages: Usages the keyUsage strategy requires, e.g. "digitalSignature"
	KeyUsages []string `json:"keyUsages,omitempty" yaml:"keyUsages,omitempty"`
}

// Trust lists the trust decision strategies, evaluated in order.
type Trust struct {
	// Strategies: Any of default, trustAll, validity, keyUsage,
	// pinnedIssuers, hostname and ocsp
	Strategies []string `json:"strategies,omitempty" yaml:"strategies,omitempty"`
	// KeyUsages: Leaf usages required by the keyUsage strategy
	KeyUsages []string `json:"keyUsages,omitempty" yaml:"keyUsages,omitempty"`
	// PinnedIssuers: Files holding the CA certificates the pinnedIssuers
	// strategy accepts chains up to
	PinnedIssuers []string `json:"pinnedIssuers,omitempty" yaml:"pinnedIssuers,omitempty"`
	// Hostname: Name the hostname strategy checks the leaf against
	Hostname string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	// OCSP: Revocation lookup settings
	OCSP OCSP `json:"ocsp" yaml:"ocsp"`
	// Log: Log every trust check
	Log bool `json:"log,omitempty" yaml:"log,omitempty"`
}

// OCSP configures the ocsp trust strategy.
type OCSP struct {
	// HardFail: Reject chains whose revocation status is unavailable
	HardFail bool `json:"hardFail,omitempty" yaml:"hardFail,omitempty"`
	// Timeout: Lookup timeout in seconds (default 10)
	Timeout int `json:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"`
}

// FormatFromPath determines the configuration format from the file
// extension, ignoring case. Anything but .yaml and .yml is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads the configuration at path, or at the path named by
// [EnvConfigFile] when path is empty. Without either an empty
// configuration is returned.
//
// Configuration Priority:
//  1. The path argument
//  2. The TLSCTX_CONFIG_FILE environment variable
//  3. An empty configuration
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates data against the configuration schema and decodes it.
func Parse(data []byte, format Format) (*Config, error) {
	var document gojsonschema.JSONLoader
	switch format {
	case FormatYAML:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
		document = gojsonschema.NewGoLoader(raw)
	default:
		if !json.Valid(data) {
			return nil, errors.New("failed to parse JSON config file: malformed JSON")
		}
		document = gojsonschema.NewBytesLoader(data)
	}

	if err := validate(document); err != nil {
		return nil, err
	}

	cfg := &Config{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return cfg, nil
}

func validate(document gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), document)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// secret resolves an "env:NAME" reference. The empty reference resolves to
// nil.
func secret(ref string) ([]byte, error) {
	if ref == "" {
		return nil, nil
	}
	name, ok := strings.CutPrefix(ref, secretPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: secrets must be given as %sNAME", ErrInvalidConfig, secretPrefix)
	}
	value, ok := os.LookupEnv(name)
	if !ok {
		return nil, fmt.Errorf("%w: environment variable %s is not set", ErrInvalidConfig, name)
	}
	return []byte(value), nil
}
