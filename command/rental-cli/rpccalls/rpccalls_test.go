// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls_test

import (
	"bytes"
	"crypto/tls"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/command/rental-cli/rpccalls"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/fixtures"
	"github.com/bitmark-inc/rentald/instruction"
	"github.com/bitmark-inc/rentald/payment/book"
	"github.com/bitmark-inc/rentald/processor"
	"github.com/bitmark-inc/rentald/rpc/certificate"
	"github.com/bitmark-inc/rentald/rpc/server"
	"github.com/bitmark-inc/rentald/storage"
)

const deployment = "cli-testing"

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

// start a TLS JSON RPC server over a fresh ledger
func setup(t *testing.T) string {
	store, err := storage.Open(filepath.Join(t.TempDir(), "cli.leveldb"), storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	t.Cleanup(store.Close)

	channel := book.New(store, true)
	p, err := processor.New(processor.Configuration{Deployment: deployment}, store, channel)
	if nil != err {
		t.Fatalf("processor error: %s", err)
	}

	log := logger.New(fixtures.LogCategory)
	crt, key := fixtures.Certificate()
	tlsConfig, _, err := certificate.Get(log, "cli", crt, key)
	if nil != err {
		t.Fatalf("certificate error: %s", err)
	}

	l, err := tls.Listen("tcp", "127.0.0.1:0", tlsConfig)
	if nil != err {
		t.Fatalf("listen error: %s", err)
	}
	t.Cleanup(func() { _ = l.Close() })

	r := server.Create(log, p)
	go func() {
		for {
			conn, err := l.Accept()
			if nil != err {
				return
			}
			go r.ServeCodec(jsonrpc.NewServerCodec(conn))
		}
	}()

	return l.Addr().String()
}

func connect(t *testing.T, address string, verbose bool, handle *bytes.Buffer) *rpccalls.Client {
	client, err := rpccalls.NewClient(address, verbose, handle)
	if nil != err {
		t.Fatalf("client error: %s", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestSign(t *testing.T) {
	key, err := account.NewPrivateKey()
	assert.Nil(t, err, "key")

	now := time.Unix(1600000000, 0)
	i := &instruction.PayRent{Rental: account.Account{0x11}}
	arguments, err := rpccalls.Sign(&rpccalls.SubmitData{
		Key:         key,
		Deployment:  deployment,
		Instruction: i,
		Timestamp:   now,
	})
	assert.Nil(t, err, "sign")
	assert.Equal(t, "pay_rent", arguments.Instruction.Type, "envelope type")
	assert.Equal(t, key.Account(), arguments.Caller, "caller")
	assert.Equal(t, now.Unix(), arguments.Timestamp, "timestamp")

	message := instruction.SigningMessage(deployment, i, now.Unix())
	assert.Nil(t, key.Account().CheckSignature(message, arguments.Signature), "signature")

	other := instruction.SigningMessage("other", i, now.Unix())
	assert.NotNil(t, key.Account().CheckSignature(other, arguments.Signature), "deployment is signed")

	_, err = rpccalls.Sign(&rpccalls.SubmitData{Key: key, Deployment: deployment})
	assert.Equal(t, fault.ErrUnknownInstruction, err, "missing instruction")
}

func TestSubmitAndQuery(t *testing.T) {
	address := setup(t)
	handle := &bytes.Buffer{}
	client := connect(t, address, true, handle)

	key, err := account.NewPrivateKey()
	assert.Nil(t, err, "key")

	reply, err := client.Submit(&rpccalls.SubmitData{
		Key:         key,
		Deployment:  deployment,
		Instruction: &instruction.Initialise{},
		Timestamp:   time.Now(),
	})
	assert.Nil(t, err, "submit")
	assert.Equal(t, "initialize", reply.Instruction, "instruction")
	assert.Contains(t, handle.String(), "Ledger.Submit request", "verbose request")
	assert.Contains(t, handle.String(), "Ledger.Submit reply", "verbose reply")

	platform, err := client.Platform()
	assert.Nil(t, err, "platform")
	assert.Equal(t, key.Account(), platform.Platform.Authority, "authority")

	_, err = client.Listing(account.Account{0x42})
	assert.NotNil(t, err, "missing listing")

	listings, err := client.Listings(0, 10)
	assert.Nil(t, err, "listings")
	assert.Equal(t, 0, len(listings.Listings), "no listings")

	rentals, err := client.Rentals(key.Account())
	assert.Nil(t, err, "rentals")
	assert.Equal(t, 0, len(rentals.Rentals), "no rentals")
}

func TestSubmitWrongDeployment(t *testing.T) {
	address := setup(t)
	client := connect(t, address, false, &bytes.Buffer{})

	key, err := account.NewPrivateKey()
	assert.Nil(t, err, "key")

	_, err = client.Submit(&rpccalls.SubmitData{
		Key:         key,
		Deployment:  "elsewhere",
		Instruction: &instruction.Initialise{},
		Timestamp:   time.Now(),
	})
	assert.NotNil(t, err, "signature from another deployment")
}

func TestFunds(t *testing.T) {
	address := setup(t)
	client := connect(t, address, false, &bytes.Buffer{})

	someone := account.Account{0x55}

	credit, err := client.Credit(someone, 300)
	assert.Nil(t, err, "credit")
	assert.Equal(t, uint64(300), credit.Receipt.Transfer.Amount, "receipt")

	balance, err := client.Balance(someone)
	assert.Nil(t, err, "balance")
	assert.Equal(t, uint64(300), balance.Balance, "balance")
}
