// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package manager

import (
	"crypto/x509"

	"github.com/H0llyW00dzZ/tls-context-builder/src/logger"
	x509certs "github.com/H0llyW00dzZ/tls-context-builder/src/x509/certs"
)

// LoggingTrustManager logs every trust check and its outcome, then returns
// the wrapped manager's result unchanged.
type LoggingTrustManager struct {
	delegate TrustManager
	log      logger.Logger
}

// NewLoggingTrustManager wraps delegate. A nil log discards output.
func NewLoggingTrustManager(delegate TrustManager, log logger.Logger) *LoggingTrustManager {
	return &LoggingTrustManager{delegate: delegate, log: logger.OrNop(log)}
}

// Algorithm returns the wrapped manager's algorithm.
func (m *LoggingTrustManager) Algorithm() string { return m.delegate.Algorithm() }

// CheckClientTrusted logs and delegates.
func (m *LoggingTrustManager) CheckClientTrusted(chain []*x509.Certificate, authType string) error {
	m.logChain("CheckClientTrusted", chain, authType)
	return m.outcome("CheckClientTrusted", m.delegate.CheckClientTrusted(chain, authType))
}

// CheckServerTrusted logs and delegates.
func (m *LoggingTrustManager) CheckServerTrusted(chain []*x509.Certificate, authType string) error {
	m.logChain("CheckServerTrusted", chain, authType)
	return m.outcome("CheckServerTrusted", m.delegate.CheckServerTrusted(chain, authType))
}

// AcceptedIssuers delegates.
func (m *LoggingTrustManager) AcceptedIssuers() []*x509.Certificate {
	return m.delegate.AcceptedIssuers()
}

func (m *LoggingTrustManager) logChain(op string, chain []*x509.Certificate, authType string) {
	m.log.Printf("%s(authType=%s) with %d certificate(s)", op, authType, len(chain))
	for i, c := range chain {
		details, err := x509certs.Details(x509certs.Wrap(c))
		if err != nil {
			m.log.Printf("chain[%d]: %v", i, err)
			continue
		}
		m.log.Printf("chain[%d]: %s", i, details)
	}
}

func (m *LoggingTrustManager) outcome(op string, err error) error {
	if err != nil {
		m.log.Printf("%s rejected: %v", op, err)
		return err
	}
	m.log.Printf("%s accepted", op)
	return nil
}
