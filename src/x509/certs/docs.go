// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509certs inspects single [X.509] certificates: validity window,
// key usage flags, issuer and subject names, and a diagnostic summary.
//
// Inspection functions come in twins where the failure policy differs.
// [KeyUsages] and [HasKeyUsage] fail on absent or non-X.509 input while
// [IsKeyUsagePresent] reports false; [CheckValidityAt] distinguishes expired
// from not yet valid while [IsValidAt] collapses both into false.
//
// The package also provides [Codec] for decoding [PEM], DER and [PKCS7]
// certificate data.
//
// [X.509]: https://grokipedia.com/page/X.509
// [PKCS7]: https://grokipedia.com/page/PKCS_7
// [PEM]: https://grokipedia.com/page/PEM#privacy-enhanced-mail
package x509certs
