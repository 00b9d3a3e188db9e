// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package expiry - close rentals that have passed their end date
//
// expiry is an ordinary instruction that anyone may submit; this
// background process submits it for every overdue rental it finds
package expiry

//go:generate mockgen -source=expiry.go -destination=mocks/ledger.go -package=mocks

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/address"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/instruction"
	"github.com/bitmark-inc/rentald/metrics"
	"github.com/bitmark-inc/rentald/processor"
)

// domain tag of the sweeper identity
const identityTag = "expiry"

// defaults for the sweep
const (
	DefaultInterval  = time.Minute
	DefaultBatchSize = 50
)

// Ledger - the processor operations used by the sweeper
type Ledger interface {
	Expired(count int) ([]account.Account, error)
	Execute(ctx context.Context, caller account.Account, i instruction.Instruction) (*processor.Result, error)
}

// Sweeper - periodically expire overdue rentals
type Sweeper struct {
	log       *logger.L
	ledger    Ledger
	caller    account.Account
	interval  time.Duration
	batchSize int
}

// Identity - the caller recorded on expiries submitted by the sweeper
func Identity(platform account.Account) (account.Account, error) {
	return address.Derive(identityTag, platform[:], nil)
}

// New - create a sweeper
func New(ledger Ledger, caller account.Account, interval time.Duration, batchSize int) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Sweeper{
		log:       logger.New("expiry"),
		ledger:    ledger,
		caller:    caller,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run - background process loop
func (sweeper *Sweeper) Run(args interface{}, shutdown <-chan struct{}) {
	log := sweeper.log

	log.Infof("starting…  interval: %s  batch: %d", sweeper.interval, sweeper.batchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := time.NewTicker(sweeper.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			n, err := sweeper.Sweep(ctx)
			if nil != err {
				log.Errorf("sweep error: %s", err)
			} else if n > 0 {
				log.Infof("expired: %d rentals", n)
			}
		}
	}

	log.Info("stopped")
}

// Sweep - expire one batch of overdue rentals
//
// returns the number expired, rentals closed by someone else in the
// meantime are skipped
func (sweeper *Sweeper) Sweep(ctx context.Context) (int, error) {
	overdue, err := sweeper.ledger.Expired(sweeper.batchSize)
	if nil != err {
		return 0, err
	}

	n := 0
	for _, rental := range overdue {
		_, err := sweeper.ledger.Execute(ctx, sweeper.caller, &instruction.ExpireRental{Rental: rental})
		switch {
		case nil == err:
			n += 1
		case fault.ErrRentalNotActive == err, fault.ErrNotExpired == err, fault.ErrRentalNotFound == err:
			sweeper.log.Debugf("skip: %s  reason: %s", rental, err)
		default:
			sweeper.log.Warnf("rental: %s  expire error: %s", rental, err)
		}
	}

	metrics.ExpirySweeps.Inc()
	metrics.RentalsExpired.Add(float64(n))
	return n, nil
}
