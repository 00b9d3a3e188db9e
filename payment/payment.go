// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package payment - value transfer between ledger parties
//
// The ledger core never moves value itself. It hands a list of
// transfers to a Channel which either performs all of them or none.
package payment

//go:generate mockgen -source=payment.go -destination=mocks/payment.go -package=mocks

import (
	"context"

	"github.com/bitmark-inc/rentald/account"
)

// Transfer - move Amount minor units from one account to another
type Transfer struct {
	From   account.Account `json:"from"`
	To     account.Account `json:"to"`
	Amount uint64          `json:"amount,string"`
	Memo   string          `json:"memo"`
}

// Receipt - proof that a transfer was performed by a channel
type Receipt struct {
	ID       string   `json:"id"`
	Transfer Transfer `json:"transfer"`
}

// Channel - the payment capability used by the processor
type Channel interface {
	// Settle - perform every transfer or none of them
	//
	// zero amount transfers are skipped and produce no receipt
	Settle(ctx context.Context, transfers []Transfer) ([]Receipt, error)

	// Balance - current funds of an account
	Balance(ctx context.Context, a account.Account) (uint64, error)

	// Credit - add funds to an account from outside the ledger
	Credit(ctx context.Context, a account.Account, amount uint64) (Receipt, error)
}

// Pending - drop zero amount and self transfers
func Pending(transfers []Transfer) []Transfer {
	result := make([]Transfer, 0, len(transfers))
	for _, t := range transfers {
		if 0 == t.Amount || t.From == t.To {
			continue
		}
		result = append(result, t)
	}
	return result
}

// Parties - distinct accounts touched by a set of transfers
func Parties(transfers []Transfer) []account.Account {
	seen := make(map[account.Account]struct{})
	result := make([]account.Account, 0, 2*len(transfers))
	for _, t := range transfers {
		for _, a := range []account.Account{t.From, t.To} {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			result = append(result, a)
		}
	}
	return result
}
