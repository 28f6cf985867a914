// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509chain inspects certificate chains as handed out by key stores
// and TLS peers: issuer sets, aggregate key usage and expiration ordering.
//
// Like the single-certificate functions in x509certs, key usage checks come
// in two flavours. [IsKeyUsagePresent] treats members it cannot inspect as
// lacking the usage, [HasKeyUsage] reports them as errors.
package x509chain
