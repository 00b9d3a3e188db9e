// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate_test

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/fixtures"
	"github.com/bitmark-inc/rentald/rpc/certificate"
)

func TestGet(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	cer, key := fixtures.Certificate()

	tlsConfig, fingerprint, err := certificate.Get(
		logger.New(fixtures.LogCategory),
		"test",
		cer,
		key,
	)
	assert.Nil(t, err, "wrong Get")

	pair, _ := tls.X509KeyPair([]byte(cer), []byte(key))

	assert.Equal(t, sha3.Sum256(pair.Certificate[0]), fingerprint, "wrong fingerprint")
	assert.Equal(t, pair.Certificate, tlsConfig.Certificates[0].Certificate, "wrong config")
}

func TestGetMismatch(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	cer, _ := fixtures.Certificate()
	_, otherKey := fixtures.Certificate()

	_, _, err := certificate.Get(logger.New(fixtures.LogCategory), "test", cer, otherKey)
	assert.NotNil(t, err, "mismatched key accepted")
}

func TestLoad(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	dir := t.TempDir()
	cer, key := fixtures.Certificate()
	cerFile := filepath.Join(dir, "rpc.crt")
	keyFile := filepath.Join(dir, "rpc.key")
	assert.Nil(t, os.WriteFile(cerFile, []byte(cer), 0o600), "write certificate")
	assert.Nil(t, os.WriteFile(keyFile, []byte(key), 0o600), "write key")

	_, fingerprint, err := certificate.Load(logger.New(fixtures.LogCategory), "test", cerFile, keyFile)
	assert.Nil(t, err, "wrong Load")
	assert.NotEqual(t, [32]byte{}, fingerprint, "empty fingerprint")

	_, _, err = certificate.Load(logger.New(fixtures.LogCategory), "test", filepath.Join(dir, "missing.crt"), keyFile)
	assert.NotNil(t, err, "missing certificate")
}
