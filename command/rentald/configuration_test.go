// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/fixtures"
	"github.com/bitmark-inc/rentald/processor"
	"github.com/bitmark-inc/rentald/rpc/certificate"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func writeConfiguration(t *testing.T, text string) string {
	dir := t.TempDir()
	name := filepath.Join(dir, "rentald.conf")
	if err := os.WriteFile(name, []byte(text), 0o600); nil != err {
		t.Fatalf("write configuration error: %s", err)
	}
	return name
}

func TestGetConfigurationDefaults(t *testing.T) {
	name := writeConfiguration(t, `
local M = {}
M.data_directory = "."
M.deployment = "testing"
M.client_rpc = { listen = { "127.0.0.1:2230" } }
return M
`)
	dir := filepath.Dir(name)

	c, err := getConfiguration(name)
	assert.Nil(t, err, "configuration")

	assert.Equal(t, filepath.Clean(dir), filepath.Clean(c.DataDirectory), "data directory")
	assert.Equal(t, "testing", c.Deployment, "deployment")
	assert.Equal(t, filepath.Join(dir, "data", "rentald.leveldb"), c.Database.Name, "database")
	assert.Equal(t, channelBook, c.Payment.Channel, "channel")
	assert.False(t, c.Payment.AllowCredit, "credit")
	assert.Equal(t, uint64(defaultRenewalWindowDays), c.Processor.RenewalWindowDays, "renewal window")
	assert.Equal(t, processor.AdjustByLandlord, c.Processor.AdjustPolicy, "adjust policy")
	assert.True(t, c.Expiry.Enabled, "expiry")
	assert.Equal(t, []string{"127.0.0.1:2230"}, c.ClientRPC.Listen, "listen")
	assert.Equal(t, uint64(defaultRPCClients), c.ClientRPC.MaximumConnections, "connections")
	assert.Equal(t, filepath.Join(dir, "rpc.crt"), c.ClientRPC.Certificate, "certificate")
	assert.Equal(t, filepath.Join(dir, "rpc.key"), c.HttpsRPC.PrivateKey, "key")
	assert.Equal(t, "", c.PidFile, "pid file")

	assert.True(t, isDirectory(filepath.Join(dir, "data")), "database directory created")
	assert.True(t, isDirectory(filepath.Join(dir, "log")), "log directory created")
}

func TestGetConfigurationOverrides(t *testing.T) {
	name := writeConfiguration(t, `
local M = {}
M.data_directory = "."
M.pidfile = "rentald.pid"
M.deployment = "live"
M.payment = {
    channel = "postgres",
    dsn = "postgres://localhost/rentald",
    allow_credit = true,
}
M.processor = { renewal_window_days = 7, adjust_policy = "either" }
M.expiry = { enabled = false, interval = 10, batch_size = 5 }
return M
`)
	dir := filepath.Dir(name)

	c, err := getConfiguration(name)
	assert.Nil(t, err, "configuration")

	assert.Equal(t, filepath.Join(dir, "rentald.pid"), c.PidFile, "pid file")
	assert.Equal(t, channelPostgres, c.Payment.Channel, "channel")
	assert.Equal(t, "postgres://localhost/rentald", c.Payment.DSN, "dsn")
	assert.True(t, c.Payment.AllowCredit, "credit")
	assert.Equal(t, uint64(7), c.Processor.RenewalWindowDays, "renewal window")
	assert.Equal(t, processor.AdjustByEither, c.Processor.AdjustPolicy, "adjust policy")
	assert.False(t, c.Expiry.Enabled, "expiry")
	assert.Equal(t, uint64(10), c.Expiry.Interval, "interval")
	assert.Equal(t, 5, c.Expiry.BatchSize, "batch size")
}

func TestGetConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no deployment", `return { data_directory = "." }`},
		{"no data directory", `return { deployment = "testing" }`},
		{"missing data directory", `return { deployment = "testing", data_directory = "/nonexistent/rentald" }`},
		{"unknown channel", `return { deployment = "testing", data_directory = ".", payment = { channel = "cash" } }`},
		{"postgres without dsn", `return { deployment = "testing", data_directory = ".", payment = { channel = "postgres" } }`},
		{"unknown policy", `return { deployment = "testing", data_directory = ".", processor = { adjust_policy = "tenant" } }`},
		{"database path", `return { deployment = "testing", data_directory = ".", database = { name = "x/y.leveldb" } }`},
		{"not a table", `return 42`},
	}

	for _, test := range tests {
		name := writeConfiguration(t, test.text)
		_, err := getConfiguration(name)
		assert.NotNil(t, err, test.name)
	}
}

func TestGetFilenameWithDirectory(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, filepath.Join(dir, "rpc.crt"), getFilenameWithDirectory([]string{dir}, "rpc.crt"), "with directory")
	assert.Equal(t, "rpc.crt", getFilenameWithDirectory(nil, "rpc.crt"), "current directory")
}

func TestMakeSelfSignedCertificate(t *testing.T) {
	dir := t.TempDir()
	certificateFile := filepath.Join(dir, "rpc.crt")
	keyFile := filepath.Join(dir, "rpc.key")

	err := makeSelfSignedCertificate("rpc", certificateFile, keyFile, false, []string{"127.0.0.1"})
	assert.Nil(t, err, "create")

	_, _, err = certificate.Load(logger.New(fixtures.LogCategory), "rpc", certificateFile, keyFile)
	assert.Nil(t, err, "load created pair")

	err = makeSelfSignedCertificate("rpc", certificateFile, keyFile, false, nil)
	assert.Equal(t, fault.ErrFileAlreadyExists, err, "existing files are kept")
}

func isDirectory(name string) bool {
	info, err := os.Stat(name)
	return nil == err && info.IsDir()
}
