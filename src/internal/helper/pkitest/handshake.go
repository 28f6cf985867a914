// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pkitest

import (
	"crypto/tls"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// HandshakeResult is the outcome of [Handshake] on both sides.
type HandshakeResult struct {
	// Server is the connection state seen by the server.
	Server    tls.ConnectionState
	ClientErr error
	ServerErr error
}

// Handshake runs one TLS handshake over loopback TCP.
//
// With TLS 1.3 a client finishes before the server has judged its
// certificate, so a rejected client shows up in ServerErr only.
func Handshake(tb testing.TB, client, server *tls.Config) HandshakeResult {
	tb.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(tb, err)
	defer ln.Close()

	deadline := time.Now().Add(10 * time.Second)
	done := make(chan HandshakeResult, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			done <- HandshakeResult{ServerErr: err}
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(deadline)

		srv := tls.Server(conn, server)
		err = srv.Handshake()
		done <- HandshakeResult{Server: srv.ConnectionState(), ServerErr: err}
	}()

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), 10*time.Second)
	require.NoError(tb, err)
	defer conn.Close()
	_ = conn.SetDeadline(deadline)

	clientErr := tls.Client(conn, client).Handshake()
	if clientErr != nil {
		conn.Close()
	}

	res := <-done
	res.ClientErr = clientErr
	return res
}
