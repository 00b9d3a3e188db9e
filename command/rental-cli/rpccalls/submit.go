// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"time"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/instruction"
	"github.com/bitmark-inc/rentald/rpc/ledger"
)

// SubmitData - what to sign and send
type SubmitData struct {
	Key         *account.PrivateKey
	Deployment  string
	Instruction instruction.Instruction
	Timestamp   time.Time
}

// Sign - build the signed arguments of a Ledger.Submit call
func Sign(data *SubmitData) (*ledger.SubmitArguments, error) {
	envelope, err := instruction.Encode(data.Instruction)
	if nil != err {
		return nil, err
	}

	ts := data.Timestamp.Unix()
	message := instruction.SigningMessage(data.Deployment, data.Instruction, ts)

	return &ledger.SubmitArguments{
		Instruction: envelope,
		Caller:      data.Key.Account(),
		Timestamp:   ts,
		Signature:   data.Key.Sign(message),
	}, nil
}

// Submit - sign and execute an instruction
func (c *Client) Submit(data *SubmitData) (*ledger.SubmitReply, error) {
	arguments, err := Sign(data)
	if nil != err {
		return nil, err
	}

	var reply ledger.SubmitReply
	if err := c.call("Ledger.Submit", arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
