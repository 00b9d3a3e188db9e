// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pgledger_test

import (
	"context"
	"crypto/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/fixtures"
	"github.com/bitmark-inc/rentald/payment"
	"github.com/bitmark-inc/rentald/payment/pgledger"
)

// set to a scratch database to run these tests
const dsnVariable = "RENTALD_TEST_DATABASE_URL"

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func setup(t *testing.T) *pgledger.Ledger {
	dsn := os.Getenv(dsnVariable)
	if "" == dsn {
		t.Skipf("%s not set", dsnVariable)
	}

	ctx := context.Background()
	ledger, err := pgledger.New(ctx, dsn, true)
	if nil != err {
		t.Fatalf("connect error: %s", err)
	}
	t.Cleanup(ledger.Close)

	err = ledger.Migrate(ctx)
	if nil != err {
		t.Fatalf("migrate error: %s", err)
	}
	return ledger
}

// fresh accounts so that repeated runs do not interfere
func newAccount(t *testing.T) account.Account {
	var a account.Account
	_, err := rand.Read(a[:])
	if nil != err {
		t.Fatalf("random error: %s", err)
	}
	return a
}

func TestSettle(t *testing.T) {
	ledger := setup(t)
	ctx := context.Background()

	alice := newAccount(t)
	bob := newAccount(t)
	escrow := newAccount(t)

	_, err := ledger.Credit(ctx, alice, 1000)
	assert.Nil(t, err, "credit")

	receipts, err := ledger.Settle(ctx, []payment.Transfer{
		{From: alice, To: bob, Amount: 600, Memo: "rent"},
		{From: alice, To: escrow, Amount: 400, Memo: "deposit"},
	})
	assert.Nil(t, err, "settle")
	assert.Equal(t, 2, len(receipts), "receipts")

	balance, err := ledger.Balance(ctx, alice)
	assert.Nil(t, err, "balance")
	assert.Equal(t, uint64(0), balance, "alice")

	balance, err = ledger.Balance(ctx, escrow)
	assert.Nil(t, err, "balance")
	assert.Equal(t, uint64(400), balance, "escrow")
}

func TestSettleInsufficient(t *testing.T) {
	ledger := setup(t)
	ctx := context.Background()

	alice := newAccount(t)
	bob := newAccount(t)

	_, err := ledger.Credit(ctx, alice, 100)
	assert.Nil(t, err, "credit")

	_, err = ledger.Settle(ctx, []payment.Transfer{
		{From: alice, To: bob, Amount: 60},
		{From: alice, To: bob, Amount: 60},
	})
	assert.Equal(t, fault.ErrInsufficientFunds, err, "short")

	balance, err := ledger.Balance(ctx, alice)
	assert.Nil(t, err, "balance")
	assert.Equal(t, uint64(100), balance, "rolled back")
}
