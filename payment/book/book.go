// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package book - a payment channel kept inside the ledger database
//
// balances live in the Balances pool keyed by account; when the
// context carries a storage transaction the balance changes join it
// so that records and money commit together
package book

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/counter"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/payment"
	"github.com/bitmark-inc/rentald/record"
	"github.com/bitmark-inc/rentald/storage"
)

// Book - balances held in the Balances pool
type Book struct {
	log         *logger.L
	store       *storage.Store
	allowCredit bool
	epoch       int64
	sequence    counter.Counter
}

// New - create a book over an open store
//
// allowCredit enables Credit, which mints funds and is only meant
// for test deployments
func New(store *storage.Store, allowCredit bool) *Book {
	return &Book{
		log:         logger.New("book"),
		store:       store,
		allowCredit: allowCredit,
		epoch:       time.Now().Unix(),
	}
}

// Settle - apply all transfers in order or none of them
func (book *Book) Settle(ctx context.Context, transfers []payment.Transfer) ([]payment.Receipt, error) {
	transfers = payment.Pending(transfers)
	if 0 == len(transfers) {
		return nil, nil
	}

	trx, joined := storage.TransactionFrom(ctx)
	if !joined {
		trx = book.store.Begin()
	}

	// running balances so that later transfers see earlier ones
	balances := make(map[account.Account]uint64)
	balanceOf := func(a account.Account) uint64 {
		if b, ok := balances[a]; ok {
			return b
		}
		b, _ := trx.GetN(book.store.Pool.Balances, a.Bytes())
		balances[a] = b
		return b
	}

	receipts := make([]payment.Receipt, 0, len(transfers))
	for _, t := range transfers {
		from := balanceOf(t.From)
		if from < t.Amount {
			book.log.Debugf("insufficient funds: %s  balance: %d  amount: %d", t.From, from, t.Amount)
			if !joined {
				trx.Abort()
			}
			return nil, fault.ErrInsufficientFunds
		}
		to, err := record.AddUint64(balanceOf(t.To), t.Amount)
		if nil != err {
			if !joined {
				trx.Abort()
			}
			return nil, err
		}
		balances[t.From] = from - t.Amount
		balances[t.To] = to
		receipts = append(receipts, payment.Receipt{
			ID:       book.nextID(),
			Transfer: t,
		})
	}

	for a, b := range balances {
		trx.PutN(book.store.Pool.Balances, a.Bytes(), b)
	}

	if !joined {
		err := trx.Commit()
		if nil != err {
			return nil, err
		}
	}

	book.log.Debugf("settled: %d transfers", len(receipts))
	return receipts, nil
}

// Balance - funds of an account, including uncommitted changes of a
// joined transaction
func (book *Book) Balance(ctx context.Context, a account.Account) (uint64, error) {
	if trx, ok := storage.TransactionFrom(ctx); ok {
		b, _ := trx.GetN(book.store.Pool.Balances, a.Bytes())
		return b, nil
	}
	b, _ := book.store.Pool.Balances.GetN(a.Bytes())
	return b, nil
}

// Credit - mint funds into an account
func (book *Book) Credit(ctx context.Context, a account.Account, amount uint64) (payment.Receipt, error) {
	if !book.allowCredit {
		return payment.Receipt{}, fault.ErrCreditDisabled
	}
	if 0 == amount {
		return payment.Receipt{}, fault.ErrZeroAmount
	}

	trx, joined := storage.TransactionFrom(ctx)
	if !joined {
		trx = book.store.Begin()
	}

	balance, _ := trx.GetN(book.store.Pool.Balances, a.Bytes())
	balance, err := record.AddUint64(balance, amount)
	if nil != err {
		if !joined {
			trx.Abort()
		}
		return payment.Receipt{}, err
	}
	trx.PutN(book.store.Pool.Balances, a.Bytes(), balance)

	if !joined {
		err := trx.Commit()
		if nil != err {
			return payment.Receipt{}, err
		}
	}

	book.log.Infof("credit: %s  amount: %d  balance: %d", a, amount, balance)
	return payment.Receipt{
		ID: book.nextID(),
		Transfer: payment.Transfer{
			To:     a,
			Amount: amount,
			Memo:   "credit",
		},
	}, nil
}

// receipt ids are unique for the life of the process and
// distinguished across restarts by the start time
func (book *Book) nextID() string {
	return fmt.Sprintf("book-%d-%d", book.epoch, book.sequence.Increment())
}
