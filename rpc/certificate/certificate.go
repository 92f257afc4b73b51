// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate

import (
	"crypto/tls"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"
)

// Fingerprint - SHA3-256 of a DER certificate
type Fingerprint [32]byte

// String - hex form as shown in the logs and by the client
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Get - verify PEM certificate and key text, returning a server TLS
// configuration and the leaf certificate's fingerprint
func Get(log *logger.L, name, certificate, key string) (*tls.Config, Fingerprint, error) {
	var fin Fingerprint

	keyPair, err := tls.X509KeyPair([]byte(certificate), []byte(key))
	if err != nil {
		log.Errorf("%s failed to load keypair: %v", name, err)
		return nil, fin, err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
		MinVersion: tls.VersionTLS12,
	}

	fin = Of(keyPair.Certificate[0])
	log.Infof("%s: SHA3-256 fingerprint: %s", name, fin)

	return tlsConfiguration, fin, nil
}

// Of - compute the fingerprint of a DER certificate
//
// openssl x509 -outform DER -in marketd-rpc.crt | sha3sum -a 256
func Of(certificate []byte) Fingerprint {
	return sha3.Sum256(certificate)
}
