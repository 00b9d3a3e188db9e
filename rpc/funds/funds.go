// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package funds - RPC access to payment balances
package funds

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/payment"
	"github.com/bitmark-inc/rentald/rpc/ratelimit"
)

const (
	rateLimitFunds = 100
	rateBurstFunds = 50
)

const channelTimeout = 10 * time.Second

// Source - balance access; credits must be serialised with
// settlements on the same account
type Source interface {
	Balance(ctx context.Context, a account.Account) (uint64, error)
	Credit(ctx context.Context, a account.Account, amount uint64) (payment.Receipt, error)
}

// Funds - type for RPC calls
type Funds struct {
	Log     *logger.L
	Limiter *rate.Limiter
	source  Source
}

// New - create the service
func New(log *logger.L, source Source) *Funds {
	return &Funds{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitFunds, rateBurstFunds),
		source:  source,
	}
}

// BalanceArguments - account to look up
type BalanceArguments struct {
	Account account.Account `json:"account"`
}

// BalanceReply - current balance in minor units
type BalanceReply struct {
	Account account.Account `json:"account"`
	Balance uint64          `json:"balance,string"`
}

// Balance - read the balance of an account
func (funds *Funds) Balance(arguments *BalanceArguments, reply *BalanceReply) error {

	if err := ratelimit.Limit(funds.Limiter); nil != err {
		return err
	}
	if nil == arguments || arguments.Account.IsZero() {
		return fault.ErrInvalidAccount
	}

	ctx, cancel := context.WithTimeout(context.Background(), channelTimeout)
	defer cancel()

	balance, err := funds.source.Balance(ctx, arguments.Account)
	if nil != err {
		return err
	}
	reply.Account = arguments.Account
	reply.Balance = balance
	return nil
}

// CreditArguments - funds to mint into an account
type CreditArguments struct {
	Account account.Account `json:"account"`
	Amount  uint64          `json:"amount,string"`
}

// CreditReply - the receipt of the credit
type CreditReply struct {
	Receipt payment.Receipt `json:"receipt"`
}

// Credit - add funds to an account when the channel permits it
func (funds *Funds) Credit(arguments *CreditArguments, reply *CreditReply) error {

	if err := ratelimit.Limit(funds.Limiter); nil != err {
		return err
	}
	if nil == arguments || arguments.Account.IsZero() {
		return fault.ErrInvalidAccount
	}

	ctx, cancel := context.WithTimeout(context.Background(), channelTimeout)
	defer cancel()

	receipt, err := funds.source.Credit(ctx, arguments.Account, arguments.Amount)
	if nil != err {
		return err
	}
	funds.Log.Infof("credit: %s  amount: %d  receipt: %s", arguments.Account, arguments.Amount, receipt.ID)
	reply.Receipt = receipt
	return nil
}
