// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor

import (
	"context"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/payment"
	"github.com/bitmark-inc/rentald/storage"
)

// Credit - add funds to an account from outside the ledger
//
// holds the account's lock so a credit never interleaves with an
// instruction that settles against the same balance
func (p *Processor) Credit(ctx context.Context, a account.Account, amount uint64) (payment.Receipt, error) {
	if a.IsZero() {
		return payment.Receipt{}, fault.ErrInvalidAccount
	}
	if err := ctx.Err(); nil != err {
		return payment.Receipt{}, err
	}

	unlock := p.locks.lock([]account.Account{a})
	defer unlock()

	trx := p.store.Begin()
	receipt, err := p.channel.Credit(storage.WithTransaction(ctx, trx), a, amount)
	if nil != err {
		trx.Abort()
		return payment.Receipt{}, err
	}

	err = trx.Commit()
	if nil != err {
		p.log.Criticalf("commit failed after credit: receipt: %s  error: %s", receipt.ID, err)
		return payment.Receipt{}, err
	}

	p.log.Infof("credit: %s  amount: %d  receipt: %s", a, amount, receipt.ID)
	return receipt, nil
}

// Balance - funds of an account as the payment channel reports them
func (p *Processor) Balance(ctx context.Context, a account.Account) (uint64, error) {
	return p.channel.Balance(ctx, a)
}
