// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package certificate - TLS setup for the RPC listeners
package certificate

import (
	"crypto/tls"
	"os"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"
)

// Get - verify that a PEM certificate and key form a pair and
// return a TLS configuration and the certificate fingerprint
func Get(log *logger.L, name, certificate, key string) (*tls.Config, [32]byte, error) {
	var fin [32]byte

	keyPair, err := tls.X509KeyPair([]byte(certificate), []byte(key))
	if nil != err {
		log.Errorf("%s failed to load keypair: %v", name, err)
		return nil, fin, err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
		MinVersion: tls.VersionTLS12,
	}

	fin = fingerprint(keyPair.Certificate[0])

	return tlsConfiguration, fin, nil
}

// Load - as Get but reading the PEM data from files
func Load(log *logger.L, name, certificateFile, keyFile string) (*tls.Config, [32]byte, error) {
	var fin [32]byte

	certificate, err := os.ReadFile(certificateFile)
	if nil != err {
		log.Errorf("%s failed to read certificate: %q  error: %s", name, certificateFile, err)
		return nil, fin, err
	}
	key, err := os.ReadFile(keyFile)
	if nil != err {
		log.Errorf("%s failed to read private key: %q  error: %s", name, keyFile, err)
		return nil, fin, err
	}
	return Get(log, name, string(certificate), string(key))
}

// fingerprint - compute the fingerprint of a certificate
//
// openssl x509 -outform DER -in rentald-rpc.crt | sha3sum -a 256
func fingerprint(certificate []byte) [32]byte {
	return sha3.Sum256(certificate)
}
