// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor

import (
	"encoding/binary"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/address"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/instruction"
	"github.com/bitmark-inc/rentald/record"
)

func (x *execution) initialise() error {
	if x.trx.Has(x.pools().Platform, x.processor.platform.Bytes()) {
		return fault.ErrAlreadyInitialised
	}

	platform := &record.Platform{
		Authority: x.caller,
		CreatedAt: x.now,
	}
	err := x.putPlatform(platform)
	if nil != err {
		return err
	}
	x.touched(x.processor.platform)
	return nil
}

func (x *execution) createListing(i *instruction.CreateListing) error {
	err := i.Terms.Validate()
	if nil != err {
		return err
	}

	platform, err := x.getPlatform()
	if nil != err {
		return err
	}

	id, err := platform.RecordListingCreated()
	if nil != err {
		return err
	}

	listing := &record.Listing{
		Platform:    x.processor.platform,
		ID:          id,
		Authority:   x.caller,
		IsAvailable: true,
		IsVerified:  false,
		CreatedAt:   x.now,
		UpdatedAt:   x.now,
	}
	listing.Apply(&i.Terms)

	a := address.Listing(x.processor.platform, id)
	if x.trx.Has(x.pools().Listings, a.Bytes()) {
		// id allocation is monotonic so this is a corrupt platform record
		x.processor.log.Criticalf("listing: %s  id: %d already exists", a, id)
		return fault.ErrRecordExists
	}

	err = x.putListing(a, listing)
	if nil != err {
		return err
	}
	x.trx.Put(x.pools().ListingIndex, authorityKey(x.caller, id), a.Bytes())

	return x.putPlatform(platform)
}

func (x *execution) updateListing(i *instruction.UpdateListing) error {
	listing, err := x.getListing(i.Listing)
	if nil != err {
		return err
	}
	if x.caller != listing.Authority {
		return fault.ErrUnauthorised
	}

	err = i.Terms.Validate()
	if nil != err {
		return err
	}

	listing.Apply(&i.Terms)
	listing.UpdatedAt = x.now
	return x.putListing(i.Listing, listing)
}

func (x *execution) verifyListing(i *instruction.VerifyListing) error {
	platform, err := x.getPlatform()
	if nil != err {
		return err
	}
	if x.caller != platform.Authority {
		return fault.ErrUnauthorised
	}

	listing, err := x.getListing(i.Listing)
	if nil != err {
		return err
	}

	listing.IsVerified = true
	listing.UpdatedAt = x.now
	return x.putListing(i.Listing, listing)
}

// set_availability is never exposed as an instruction, only rent,
// terminate and expire change it
func (x *execution) setAvailability(a account.Account, available bool) error {
	listing, err := x.getListing(a)
	if nil != err {
		return err
	}
	listing.IsAvailable = available
	listing.UpdatedAt = x.now
	return x.putListing(a, listing)
}

// authority ++ 8 byte big endian listing id
func authorityKey(authority account.Account, id uint64) []byte {
	key := make([]byte, account.AccountSize+8)
	copy(key, authority[:])
	binary.BigEndian.PutUint64(key[account.AccountSize:], id)
	return key
}
