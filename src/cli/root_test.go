// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli_test

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"software.sslmate.com/src/go-pkcs12"

	"github.com/H0llyW00dzZ/tls-context-builder/src/cli"
	"github.com/H0llyW00dzZ/tls-context-builder/src/config"
	"github.com/H0llyW00dzZ/tls-context-builder/src/internal/helper/pkitest"
	"github.com/H0llyW00dzZ/tls-context-builder/src/manager"
	"github.com/H0llyW00dzZ/tls-context-builder/src/tlscontext"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

const version = "1.3.3.7-testing"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := cli.NewRootCommand(version, nil)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestCommands(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")

	dir := t.TempDir()
	codec := x509certs.NewCodec()

	root := pkitest.NewAuthority(t, "CLI Root")
	leaf := root.Issue(t, pkitest.Options{
		CommonName: "cli.example.com",
		KeyUsage:   x509.KeyUsageDigitalSignature,
	})
	stranger := pkitest.SelfSigned(t, pkitest.Options{CommonName: "stranger"})

	chainPath := writeFile(t, dir, "chain.pem", codec.EncodeMultiplePEM([]*x509.Certificate{leaf.Cert, root.Cert}))
	rootsPath := writeFile(t, dir, "roots.pem", codec.EncodePEM(root.Cert))
	strangerPath := writeFile(t, dir, "stranger.pem", codec.EncodePEM(stranger.Cert))

	pfx, err := pkcs12.Modern.Encode(leaf.Key, leaf.Cert, []*x509.Certificate{root.Cert}, "s3cret")
	require.NoError(t, err)
	p12Path := writeFile(t, dir, "leaf.p12", pfx)
	t.Setenv("CLI_TEST_PASSWORD", "s3cret")

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Version",
			testFunc: func(t *testing.T) {
				out, err := run(t, "--version")
				require.NoError(t, err)
				assert.Contains(t, out, version)
			},
		},
		{
			name: "Inspect",
			testFunc: func(t *testing.T) {
				out, err := run(t, "inspect", chainPath, "--table")
				require.NoError(t, err)
				assert.Contains(t, out, "Certificate 0:")
				assert.Contains(t, out, "Certificate 1:")
				assert.Contains(t, out, "cli.example.com")
				assert.Contains(t, out, "digitalSignature")
			},
		},
		{
			name: "Inspect Requires A File",
			testFunc: func(t *testing.T) {
				_, err := run(t, "inspect")
				assert.Error(t, err)

				_, err = run(t, "inspect", filepath.Join(dir, "missing.pem"))
				assert.ErrorIs(t, err, os.ErrNotExist)

				_, err = run(t, "inspect", writeFile(t, dir, "junk.pem", []byte("junk")))
				assert.ErrorIs(t, err, x509certs.ErrParseCertificate)
			},
		},
		{
			name: "Aliases",
			testFunc: func(t *testing.T) {
				out, err := run(t, "aliases", p12Path, "--password-env", "CLI_TEST_PASSWORD")
				require.NoError(t, err)
				assert.Contains(t, out, "keystore contains 1 alias(es)")
				assert.Contains(t, out, "cli.example.com")

				out, err = run(t, "aliases", p12Path, "--password-env", "CLI_TEST_PASSWORD", "-u", "digitalSignature")
				require.NoError(t, err)
				assert.Equal(t, "cli.example.com\n", out)

				out, err = run(t, "aliases", p12Path, "--password-env", "CLI_TEST_PASSWORD", "-u", "keyAgreement")
				require.NoError(t, err)
				assert.Empty(t, out)

				out, err = run(t, "aliases", chainPath, "--trust")
				require.NoError(t, err)
				assert.Contains(t, out, "keystore contains 2 alias(es)")
			},
		},
		{
			name: "Aliases Errors",
			testFunc: func(t *testing.T) {
				_, err := run(t, "aliases", p12Path, "--password-env", "CLI_TEST_UNSET_VARIABLE")
				assert.ErrorContains(t, err, "CLI_TEST_UNSET_VARIABLE")

				_, err = run(t, "aliases", p12Path, "-u", "teleport")
				assert.ErrorIs(t, err, x509certs.ErrUnknownKeyUsage)
			},
		},
		{
			name: "Verify",
			testFunc: func(t *testing.T) {
				out, err := run(t, "verify", chainPath, "--trust", rootsPath)
				require.NoError(t, err)
				assert.Contains(t, out, "server chain of 2 certificate(s) is trusted")

				out, err = run(t, "verify", chainPath, "--trust", rootsPath, "--client")
				require.NoError(t, err)
				assert.Contains(t, out, "client chain")

				_, err = run(t, "verify", chainPath, "--trust", strangerPath)
				assert.ErrorIs(t, err, manager.ErrUntrustedChain)

				_, err = run(t, "verify", chainPath)
				assert.ErrorIs(t, err, manager.ErrUntrustedChain, "no trust store")
			},
		},
		{
			name: "Verify With Config",
			testFunc: func(t *testing.T) {
				cfgPath := writeFile(t, dir, "trust-all.yaml", []byte("trustStore:\n  path: '"+strangerPath+"'\ntrust:\n  strategies: [trustAll]\n"))
				out, err := run(t, "verify", chainPath, "--config", cfgPath)
				require.NoError(t, err)
				assert.Contains(t, out, "is trusted")

				_, err = run(t, "verify", chainPath, "--config", cfgPath, "--protocol", "NOT-A-PROTOCOL")
				assert.ErrorIs(t, err, tlscontext.ErrUnsupportedProtocol)

				_, err = run(t, "verify", chainPath, "--config", writeFile(t, dir, "bad.json", []byte(`{"bogus": 1}`)))
				assert.ErrorIs(t, err, config.ErrInvalidConfig)
			},
		},
		{
			name: "Connect",
			testFunc: func(t *testing.T) {
				serverCert := root.Issue(t, pkitest.Options{CommonName: "127.0.0.1", IPAddresses: []net.IP{net.IPv4(127, 0, 0, 1)}})
				cert := serverCert.TLSCertificate()
				ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{cert}})
				require.NoError(t, err)
				defer ln.Close()

				go func() {
					for {
						conn, err := ln.Accept()
						if err != nil {
							return
						}
						_ = conn.(*tls.Conn).Handshake()
						conn.Close()
					}
				}()

				out, err := run(t, "connect", ln.Addr().String(), "--trust", rootsPath, "--protocol", "TLSv1.3")
				require.NoError(t, err)
				assert.Contains(t, out, "Protocol: TLS 1.3")
				assert.Contains(t, out, "Peer Certificates: 1")

				_, err = run(t, "connect", ln.Addr().String(), "--trust", strangerPath)
				assert.ErrorIs(t, err, manager.ErrUntrustedChain)

				_, err = run(t, "connect", "no-port")
				assert.Error(t, err)
			},
		},
		{
			name: "Connect Checks Server Name",
			testFunc: func(t *testing.T) {
				otherHost := root.Issue(t, pkitest.Options{CommonName: "other.example.com", DNSNames: []string{"other.example.com"}})
				cert := otherHost.TLSCertificate()
				ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{cert}})
				require.NoError(t, err)
				defer ln.Close()

				go func() {
					for {
						conn, err := ln.Accept()
						if err != nil {
							return
						}
						_ = conn.(*tls.Conn).Handshake()
						conn.Close()
					}
				}()

				_, err = run(t, "connect", ln.Addr().String(), "--trust", rootsPath)
				assert.ErrorIs(t, err, manager.ErrUntrustedChain)

				trustAll := writeFile(t, dir, "connect-trust-all.yaml", []byte("trust:\n  strategies: [trustAll]\n"))
				_, err = run(t, "connect", ln.Addr().String(), "--config", trustAll, "--trust", rootsPath)
				assert.ErrorIs(t, err, manager.ErrUntrustedChain, "trustAll does not skip the server name")

				out, err := run(t, "connect", ln.Addr().String(), "--trust", rootsPath, "--server-name", "other.example.com")
				require.NoError(t, err)
				assert.Contains(t, out, "Peer Certificates: 1")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}
