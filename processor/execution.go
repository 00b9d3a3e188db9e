// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor

import (
	"encoding/binary"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/payment"
	"github.com/bitmark-inc/rentald/record"
	"github.com/bitmark-inc/rentald/storage"
)

// party roles in the Parties index
const (
	landlordRole byte = 1
	tenantRole   byte = 2
)

// state of one instruction while its locks are held
type execution struct {
	processor *Processor
	trx       *storage.Transaction
	caller    account.Account
	now       int64
	transfers []payment.Transfer
	result    *Result

	// set when the platform record was written
	platform *record.Platform
}

func (x *execution) pools() *storage.Pools {
	return &x.processor.store.Pool
}

func (x *execution) touched(a account.Account) {
	x.result.Addresses = append(x.result.Addresses, a)
}

// queue a payment, settled only after every check has passed
func (x *execution) pay(from account.Account, to account.Account, amount uint64, memo string) {
	if 0 == amount {
		return
	}
	x.transfers = append(x.transfers, payment.Transfer{
		From:   from,
		To:     to,
		Amount: amount,
		Memo:   memo,
	})
}

func (x *execution) getPlatform() (*record.Platform, error) {
	packed := x.trx.Get(x.pools().Platform, x.processor.platform.Bytes())
	if nil == packed {
		return nil, fault.ErrPlatformNotFound
	}
	return record.UnpackPlatform(packed)
}

func (x *execution) putPlatform(platform *record.Platform) error {
	packed, err := platform.Pack()
	if nil != err {
		return err
	}
	x.trx.Put(x.pools().Platform, x.processor.platform.Bytes(), packed)
	x.platform = platform
	return nil
}

func (x *execution) getListing(a account.Account) (*record.Listing, error) {
	packed := x.trx.Get(x.pools().Listings, a.Bytes())
	if nil == packed {
		return nil, fault.ErrListingNotFound
	}
	return record.UnpackListing(packed)
}

func (x *execution) putListing(a account.Account, listing *record.Listing) error {
	packed, err := listing.Pack()
	if nil != err {
		return err
	}
	x.trx.Put(x.pools().Listings, a.Bytes(), packed)
	x.touched(a)
	return nil
}

func (x *execution) getRental(a account.Account) (*record.Rental, error) {
	packed := x.trx.Get(x.pools().Rentals, a.Bytes())
	if nil == packed {
		return nil, fault.ErrRentalNotFound
	}
	return record.UnpackRental(packed)
}

func (x *execution) putRental(a account.Account, rental *record.Rental) error {
	packed, err := rental.Pack()
	if nil != err {
		return err
	}
	x.trx.Put(x.pools().Rentals, a.Bytes(), packed)
	x.touched(a)
	return nil
}

// a live rental, closed ones are RentalNotActive
func (x *execution) getActiveRental(a account.Account) (*record.Rental, error) {
	rental, err := x.getRental(a)
	if nil != err {
		return nil, err
	}
	if record.Active != rental.Status {
		return nil, fault.ErrRentalNotActive
	}
	return rental, nil
}

// make the address free for a new rental
//
// a closed record is moved to the history pool, a live one is an error
func (x *execution) vacate(a account.Account) error {
	packed := x.trx.Get(x.pools().Rentals, a.Bytes())
	if nil == packed {
		return nil
	}
	old, err := record.UnpackRental(packed)
	if nil != err {
		return err
	}
	if !old.Status.IsClosed() {
		return fault.ErrAlreadyRented
	}

	sequence, err := x.processor.historyCount(a)
	if nil != err {
		return err
	}
	x.trx.Put(x.pools().RentalHistory, sequenceKey(a, sequence), packed)
	x.processor.log.Debugf("archived: %s  sequence: %d  status: %s", a, sequence, old.Status)
	return nil
}

// link both parties to a rental
func (x *execution) indexParties(a account.Account, rental *record.Rental) {
	x.trx.Put(x.pools().Parties, append(rental.Landlord.Bytes(), a[:]...), []byte{landlordRole})
	x.trx.Put(x.pools().Parties, append(rental.Tenant.Bytes(), a[:]...), []byte{tenantRole})
}

// append to the change log of a rental
func (x *execution) appendEvent(a account.Account, event *record.Event) error {
	event.Rental = a
	if event.Actor.IsZero() {
		event.Actor = x.caller
	}
	event.Timestamp = x.now

	packed, err := event.Pack()
	if nil != err {
		return err
	}

	count, _ := x.trx.GetN(x.pools().EventCount, a.Bytes())
	x.trx.Put(x.pools().Events, sequenceKey(a, count), packed)
	x.trx.PutN(x.pools().EventCount, a.Bytes(), count+1)
	return nil
}

// address ++ 8 byte big endian sequence
func sequenceKey(a account.Account, sequence uint64) []byte {
	key := make([]byte, account.AccountSize+8)
	copy(key, a[:])
	binary.BigEndian.PutUint64(key[account.AccountSize:], sequence)
	return key
}

// time arithmetic that fails instead of wrapping
func addSeconds(t int64, seconds int64) (int64, error) {
	r := t + seconds
	if (seconds > 0 && r < t) || (seconds < 0 && r > t) {
		return 0, fault.ErrOverflow
	}
	return r, nil
}
