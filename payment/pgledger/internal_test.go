// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pgledger

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/payment"
)

func TestLockOrder(t *testing.T) {
	a := account.Account{0x01}
	b := account.Account{0x02}
	c := account.Account{0x03}

	order := lockOrder([]payment.Transfer{
		{From: c, To: a, Amount: 1},
		{From: b, To: c, Amount: 1},
	})
	assert.Equal(t, []account.Account{a, b, c}, order, "ascending order without duplicates")
}

func TestMapError(t *testing.T) {
	check := mapError("update", &pgconn.PgError{Code: codeCheckViolation})
	assert.Equal(t, fault.ErrInsufficientFunds, check, "check violation")

	serial := mapError("commit", &pgconn.PgError{Code: codeSerializationFailure, Message: "could not serialize"})
	assert.True(t, errors.Is(serial, fault.ErrPaymentFailed), "serialization failure")
	assert.Equal(t, fault.KindPayment, fault.Kind(serial), "kind")

	other := mapError("begin", errors.New("connection refused"))
	assert.True(t, fault.IsErrPayment(other), "plain error")
}
