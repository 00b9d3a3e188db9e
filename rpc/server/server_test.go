// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server_test

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/fixtures"
	"github.com/bitmark-inc/rentald/instruction"
	"github.com/bitmark-inc/rentald/payment/book"
	"github.com/bitmark-inc/rentald/processor"
	"github.com/bitmark-inc/rentald/rpc/funds"
	"github.com/bitmark-inc/rentald/rpc/ledger"
	"github.com/bitmark-inc/rentald/rpc/query"
	"github.com/bitmark-inc/rentald/rpc/server"
	"github.com/bitmark-inc/rentald/storage"
)

const deployment = "server-testing"

var address string

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()

	dir, err := os.MkdirTemp("", "rentald-server-")
	if nil != err {
		panic(err)
	}
	store, err := storage.Open(filepath.Join(dir, "server.leveldb"), storage.ReadWrite)
	if nil != err {
		panic(err)
	}
	channel := book.New(store, true)
	p, err := processor.New(processor.Configuration{Deployment: deployment}, store, channel)
	if nil != err {
		panic(err)
	}

	r := server.Create(logger.New(fixtures.LogCategory), p)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if nil != err {
		panic(err)
	}
	address = l.Addr().String()

	go func() {
		for {
			conn, err := l.Accept()
			if nil != err {
				return
			}
			go r.ServeCodec(jsonrpc.NewServerCodec(conn))
		}
	}()

	rc := m.Run()

	_ = l.Close()
	store.Close()
	fixtures.TeardownTestLogger()
	_ = os.RemoveAll(dir)
	os.Exit(rc)
}

func dial(t *testing.T) *rpc.Client {
	conn, err := net.Dial("tcp", address)
	if nil != err {
		t.Fatalf("dial error: %s", err)
	}
	client := jsonrpc.NewClient(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// following tests make sure each service is registered under its name

func TestLedgerSubmit(t *testing.T) {
	client := dial(t)

	key, err := account.NewPrivateKey()
	assert.Nil(t, err, "key")

	i := &instruction.Initialise{}
	envelope, err := instruction.Encode(i)
	assert.Nil(t, err, "encode")

	timestamp := time.Now().Unix()
	arguments := ledger.SubmitArguments{
		Instruction: envelope,
		Caller:      key.Account(),
		Timestamp:   timestamp,
		Signature:   key.Sign(instruction.SigningMessage(deployment, i, timestamp)),
	}

	var reply ledger.SubmitReply
	err = client.Call("Ledger.Submit", &arguments, &reply)
	assert.Nil(t, err, "wrong Ledger.Submit")
	assert.Equal(t, "initialize", reply.Instruction, "wrong instruction")

	var platform query.PlatformReply
	err = client.Call("Query.Platform", &query.PlatformArguments{}, &platform)
	assert.Nil(t, err, "wrong Query.Platform")
	assert.Equal(t, key.Account(), platform.Platform.Authority, "wrong authority")
}

func TestQueryListing(t *testing.T) {
	client := dial(t)

	var reply query.ListingReply
	err := client.Call("Query.Listing", &query.AddressArguments{Address: account.Account{0x42}}, &reply)
	assert.NotNil(t, err, "missing listing found")
	assert.Equal(t, fault.ErrListingNotFound.Error(), err.Error(), "wrong error")
}

func TestFunds(t *testing.T) {
	client := dial(t)

	someone := account.Account{0x77}

	var credit funds.CreditReply
	err := client.Call("Funds.Credit", &funds.CreditArguments{Account: someone, Amount: 250}, &credit)
	assert.Nil(t, err, "wrong Funds.Credit")
	assert.Equal(t, uint64(250), credit.Receipt.Transfer.Amount, "wrong receipt amount")

	var balance funds.BalanceReply
	err = client.Call("Funds.Balance", &funds.BalanceArguments{Account: someone}, &balance)
	assert.Nil(t, err, "wrong Funds.Balance")
	assert.Equal(t, uint64(250), balance.Balance, "wrong balance")
}
