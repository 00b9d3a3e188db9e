// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - RPC entry point for signed instructions
package ledger

import (
	"context"
	"time"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/instruction"
	"github.com/bitmark-inc/rentald/payment"
	"github.com/bitmark-inc/rentald/processor"
	"github.com/bitmark-inc/rentald/rpc/ratelimit"
)

const (
	rateLimitLedger = 100
	rateBurstLedger = 50
)

// TimestampWindow - how far a signed timestamp may be from the
// server clock in either direction
const TimestampWindow = 5 * time.Minute

// upper bound on a single instruction
const executeTimeout = 30 * time.Second

// Processor - the operations the service needs from the processor
type Processor interface {
	Deployment() string
	Execute(ctx context.Context, caller account.Account, i instruction.Instruction) (*processor.Result, error)
}

// Ledger - type for RPC calls
type Ledger struct {
	Log       *logger.L
	Limiter   *rate.Limiter
	processor Processor
	seen      *cache.Cache
	clock     func() time.Time
}

// SubmitArguments - a signed instruction
//
// the signature covers instruction.SigningMessage for the server
// deployment, the decoded instruction and the timestamp
type SubmitArguments struct {
	Instruction *instruction.Envelope `json:"instruction"`
	Caller      account.Account       `json:"caller"`
	Timestamp   int64                 `json:"timestamp,string"`
	Signature   account.Signature     `json:"signature"`
}

// SubmitReply - result from a successful instruction
type SubmitReply struct {
	Instruction string            `json:"instruction"`
	Addresses   []account.Account `json:"addresses"`
	Receipts    []payment.Receipt `json:"receipts"`
}

// New - create the service
//
// clock may be nil to use the system time
func New(log *logger.L, p Processor, clock func() time.Time) *Ledger {
	if nil == clock {
		clock = time.Now
	}
	return &Ledger{
		Log:       log,
		Limiter:   rate.NewLimiter(rateLimitLedger, rateBurstLedger),
		processor: p,
		seen:      cache.New(2*TimestampWindow, TimestampWindow),
		clock:     clock,
	}
}

// Submit - verify and execute one instruction
func (ledger *Ledger) Submit(arguments *SubmitArguments, reply *SubmitReply) error {

	if err := ratelimit.Limit(ledger.Limiter); nil != err {
		return err
	}

	if nil == arguments || nil == arguments.Instruction {
		return fault.ErrMissingParameters
	}
	if arguments.Caller.IsZero() {
		return fault.ErrInvalidAccount
	}

	now := ledger.clock()
	signed := time.Unix(arguments.Timestamp, 0)
	if signed.Before(now.Add(-TimestampWindow)) || signed.After(now.Add(TimestampWindow)) {
		return fault.ErrInvalidTimestamp
	}

	i, err := arguments.Instruction.Decode()
	if nil != err {
		return err
	}

	message := instruction.SigningMessage(ledger.processor.Deployment(), i, arguments.Timestamp)
	err = arguments.Caller.CheckSignature(message, arguments.Signature)
	if nil != err {
		ledger.Log.Debugf("submit: %s  caller: %s  error: %s", arguments.Instruction.Type, arguments.Caller, err)
		return err
	}

	// a signature can only be used once inside its window
	err = ledger.seen.Add(arguments.Signature.String(), struct{}{}, cache.DefaultExpiration)
	if nil != err {
		ledger.Log.Warnf("submit: %s  caller: %s  replayed request", arguments.Instruction.Type, arguments.Caller)
		return fault.ErrReplayedRequest
	}

	ctx, cancel := context.WithTimeout(context.Background(), executeTimeout)
	defer cancel()

	result, err := ledger.processor.Execute(ctx, arguments.Caller, i)
	if nil != err {
		return err
	}

	reply.Instruction = result.Instruction
	reply.Addresses = result.Addresses
	reply.Receipts = result.Receipts

	return nil
}
