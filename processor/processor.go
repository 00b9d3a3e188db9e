// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package processor - validate and apply instructions to the ledger
//
// Every instruction locks the addresses it touches in ascending
// order, runs against one storage transaction and either commits all
// of its record, index and balance changes or none of them.
package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/address"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/instruction"
	"github.com/bitmark-inc/rentald/metrics"
	"github.com/bitmark-inc/rentald/payment"
	"github.com/bitmark-inc/rentald/record"
	"github.com/bitmark-inc/rentald/storage"
)

// who may adjust a rental
const (
	AdjustByLandlord = "landlord"
	AdjustByEither   = "either"
)

// DefaultRenewalWindow - how long before the end date a renewal is
// accepted
const DefaultRenewalWindow = 30 * 24 * time.Hour

// Configuration - processor settings
type Configuration struct {
	Deployment    string
	RenewalWindow time.Duration
	AdjustPolicy  string
	Clock         func() time.Time
}

// Processor - applies instructions for one deployment
type Processor struct {
	log           *logger.L
	deployment    string
	store         *storage.Store
	channel       payment.Channel
	platform      account.Account
	renewalWindow int64
	adjustEither  bool
	clock         func() time.Time
	locks         *lockTable
}

// Result - outcome of a successful instruction
type Result struct {
	Instruction string            `json:"instruction"`
	Addresses   []account.Account `json:"addresses"`
	Receipts    []payment.Receipt `json:"receipts"`
}

// New - create a processor over an open store and a payment channel
func New(configuration Configuration, store *storage.Store, channel payment.Channel) (*Processor, error) {
	if "" == configuration.Deployment {
		return nil, fault.ErrMissingParameters
	}
	platform, err := address.Platform(configuration.Deployment)
	if nil != err {
		return nil, err
	}

	window := configuration.RenewalWindow
	if 0 == window {
		window = DefaultRenewalWindow
	}
	if window < 0 {
		return nil, fmt.Errorf("renewal window: %s is negative", window)
	}

	adjustEither := false
	switch configuration.AdjustPolicy {
	case "", AdjustByLandlord:
	case AdjustByEither:
		adjustEither = true
	default:
		return nil, fmt.Errorf("adjust policy: %q is not one of: %q, %q", configuration.AdjustPolicy, AdjustByLandlord, AdjustByEither)
	}

	clock := configuration.Clock
	if nil == clock {
		clock = time.Now
	}

	log := logger.New("processor")
	log.Infof("deployment: %q  platform: %s", configuration.Deployment, platform)

	return &Processor{
		log:           log,
		deployment:    configuration.Deployment,
		store:         store,
		channel:       channel,
		platform:      platform,
		renewalWindow: int64(window / time.Second),
		adjustEither:  adjustEither,
		clock:         clock,
		locks:         newLockTable(),
	}, nil
}

// Deployment - the name the platform address is derived from
func (p *Processor) Deployment() string {
	return p.deployment
}

// PlatformAddress - the singleton address of this deployment
func (p *Processor) PlatformAddress() account.Account {
	return p.platform
}

// Execute - apply one instruction on behalf of an authenticated caller
func (p *Processor) Execute(ctx context.Context, caller account.Account, i instruction.Instruction) (*Result, error) {
	name := instruction.Name(i)

	result, err := p.execute(ctx, caller, i)

	metrics.InstructionsTotal.WithLabelValues(name, outcome(err)).Inc()
	if nil != err {
		p.log.Debugf("%s: caller: %s  error: %s", name, caller, err)
		return nil, err
	}
	result.Instruction = name
	p.log.Infof("%s: caller: %s  addresses: %v", name, caller, result.Addresses)
	return result, nil
}

func (p *Processor) execute(ctx context.Context, caller account.Account, i instruction.Instruction) (*Result, error) {
	if nil == i {
		return nil, fault.ErrUnknownInstruction
	}
	if caller.IsZero() {
		return nil, fault.ErrInvalidAccount
	}
	if err := ctx.Err(); nil != err {
		return nil, err
	}

	set, err := p.recordSet(caller, i)
	if nil != err {
		return nil, err
	}

	start := time.Now()
	unlock := p.locks.lock(set)
	defer unlock()
	metrics.LockWaitDuration.Observe(time.Since(start).Seconds())

	timer := prometheus.NewTimer(metrics.InstructionDuration.WithLabelValues(instruction.Name(i)))
	defer timer.ObserveDuration()

	trx := p.store.Begin()
	x := &execution{
		processor: p,
		trx:       trx,
		caller:    caller,
		now:       p.clock().Unix(),
		result:    &Result{},
	}

	err = x.dispatch(i)
	if nil != err {
		trx.Abort()
		return nil, err
	}

	// last chance to give up before money moves
	if err := ctx.Err(); nil != err {
		trx.Abort()
		return nil, err
	}

	if len(x.transfers) > 0 {
		receipts, err := p.channel.Settle(storage.WithTransaction(ctx, trx), x.transfers)
		if nil != err {
			metrics.PaymentFailures.Inc()
			trx.Abort()
			return nil, err
		}
		x.result.Receipts = receipts
	}

	err = trx.Commit()
	if nil != err {
		if len(x.result.Receipts) > 0 {
			p.log.Criticalf("commit failed after settlement: receipts: %v  error: %s", x.result.Receipts, err)
		}
		return nil, err
	}

	for _, r := range x.result.Receipts {
		metrics.PaymentsSettled.Inc()
		metrics.PaymentVolume.Add(float64(r.Transfer.Amount))
	}
	if nil != x.platform {
		metrics.TotalListings.Set(float64(x.platform.TotalListings))
		metrics.TotalRentals.Set(float64(x.platform.TotalRentals))
		metrics.TotalVolume.Set(float64(x.platform.TotalVolume))
	}

	return x.result, nil
}

func (x *execution) dispatch(i instruction.Instruction) error {
	switch i := i.(type) {
	case *instruction.Initialise:
		return x.initialise()
	case *instruction.CreateListing:
		return x.createListing(i)
	case *instruction.UpdateListing:
		return x.updateListing(i)
	case *instruction.VerifyListing:
		return x.verifyListing(i)
	case *instruction.RentProperty:
		return x.rentProperty(i)
	case *instruction.PayRent:
		return x.payRent(i)
	case *instruction.TerminateRental:
		return x.terminateRental(i)
	case *instruction.AdjustRental:
		return x.adjustRental(i)
	case *instruction.RenewRental:
		return x.renewRental(i)
	case *instruction.ApproveTransfer:
		return x.approveTransfer(i)
	case *instruction.TransferRental:
		return x.transferRental(i)
	case *instruction.ExtendRental:
		return x.extendRental(i)
	case *instruction.ExpireRental:
		return x.expireRental(i)
	default:
		return fault.ErrUnknownInstruction
	}
}

func outcome(err error) string {
	if nil == err {
		return "ok"
	}
	return fault.Kind(err)
}

// the addresses an instruction may read or write, including the
// payment parties whose balances it moves
//
// landlord, tenant and authority fields never change once written so
// reading them before the locks are held is safe
func (p *Processor) recordSet(caller account.Account, i instruction.Instruction) ([]account.Account, error) {
	switch i := i.(type) {

	case *instruction.Initialise:
		return []account.Account{p.platform}, nil

	case *instruction.CreateListing:
		return []account.Account{p.platform}, nil

	case *instruction.UpdateListing:
		return []account.Account{i.Listing}, nil

	case *instruction.VerifyListing:
		return []account.Account{p.platform, i.Listing}, nil

	case *instruction.RentProperty:
		listing, err := p.peekListing(i.Listing)
		if nil != err {
			return nil, err
		}
		rental := address.Rental(i.Listing, caller)
		return []account.Account{
			p.platform, i.Listing, rental, address.Escrow(rental),
			caller, listing.Authority,
		}, nil

	case *instruction.PayRent:
		rental, err := p.peekRental(i.Rental)
		if nil != err {
			return nil, err
		}
		return []account.Account{p.platform, i.Rental, rental.Tenant, rental.Landlord}, nil

	case *instruction.TerminateRental:
		return p.rentalSet(i.Rental)

	case *instruction.ExpireRental:
		return p.rentalSet(i.Rental)

	case *instruction.AdjustRental:
		return []account.Account{i.Rental}, nil

	case *instruction.RenewRental:
		return []account.Account{p.platform, i.Rental}, nil

	case *instruction.ApproveTransfer:
		return []account.Account{i.Rental}, nil

	case *instruction.ExtendRental:
		return []account.Account{i.Rental}, nil

	case *instruction.TransferRental:
		rental, err := p.peekRental(i.Rental)
		if nil != err {
			return nil, err
		}
		next := address.Rental(rental.Listing, i.NewTenant)
		return []account.Account{
			i.Rental, address.Escrow(i.Rental),
			next, address.Escrow(next),
			rental.Tenant, rental.Landlord, i.NewTenant,
		}, nil

	default:
		return nil, fault.ErrUnknownInstruction
	}
}

// rental, its listing, its escrow and both parties
func (p *Processor) rentalSet(a account.Account) ([]account.Account, error) {
	rental, err := p.peekRental(a)
	if nil != err {
		return nil, err
	}
	return []account.Account{
		a, rental.Listing, address.Escrow(a),
		rental.Tenant, rental.Landlord,
	}, nil
}

func (p *Processor) peekListing(a account.Account) (*record.Listing, error) {
	packed := p.store.Pool.Listings.Get(a.Bytes())
	if nil == packed {
		return nil, fault.ErrListingNotFound
	}
	return record.UnpackListing(packed)
}

func (p *Processor) peekRental(a account.Account) (*record.Rental, error) {
	packed := p.store.Pool.Rentals.Get(a.Bytes())
	if nil == packed {
		return nil, fault.ErrRentalNotFound
	}
	return record.UnpackRental(packed)
}
