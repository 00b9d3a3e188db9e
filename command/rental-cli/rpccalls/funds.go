// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/rpc/funds"
)

// Balance - the payment channel balance of an account
func (c *Client) Balance(a account.Account) (*funds.BalanceReply, error) {
	var reply funds.BalanceReply
	if err := c.call("Funds.Balance", &funds.BalanceArguments{Account: a}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Credit - add funds when the daemon allows it
func (c *Client) Credit(a account.Account, amount uint64) (*funds.CreditReply, error) {
	arguments := &funds.CreditArguments{
		Account: a,
		Amount:  amount,
	}
	var reply funds.CreditReply
	if err := c.call("Funds.Credit", arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
