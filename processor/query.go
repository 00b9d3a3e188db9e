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
	"github.com/bitmark-inc/rentald/record"
)

// MaximumQueryCount - largest page returned by a list query
const MaximumQueryCount = 100

// queries read committed state and take no record locks

// ListingView - a listing and its address
type ListingView struct {
	Address account.Account `json:"address"`
	*record.Listing
}

// RentalView - a rental, its address and the seconds until its end
// date, negative once the end date has passed
type RentalView struct {
	Address   account.Account `json:"address"`
	Role      string          `json:"role,omitempty"`
	ExpiresIn int64           `json:"expiresIn"`
	*record.Rental
}

// Platform - the singleton record
func (p *Processor) Platform() (*record.Platform, error) {
	packed := p.store.Pool.Platform.Get(p.platform.Bytes())
	if nil == packed {
		return nil, fault.ErrPlatformNotFound
	}
	return record.UnpackPlatform(packed)
}

// Listing - one listing by address
func (p *Processor) Listing(a account.Account) (*ListingView, error) {
	listing, err := p.peekListing(a)
	if nil != err {
		return nil, err
	}
	return &ListingView{Address: a, Listing: listing}, nil
}

// Listings - listings in id order starting from an id
func (p *Processor) Listings(start uint64, count int) ([]*ListingView, error) {
	if count <= 0 || count > MaximumQueryCount {
		return nil, fault.ErrInvalidCount
	}
	platform, err := p.Platform()
	if nil != err {
		return nil, err
	}

	result := make([]*ListingView, 0, count)
	for id := start; id < platform.TotalListings && len(result) < count; id += 1 {
		view, err := p.Listing(address.Listing(p.platform, id))
		if nil != err {
			return nil, err
		}
		result = append(result, view)
	}
	return result, nil
}

// ListingsByAuthority - every listing created by an account
func (p *Processor) ListingsByAuthority(authority account.Account) ([]*ListingView, error) {
	addresses := make([]account.Account, 0, 16)
	cursor := p.store.Pool.ListingIndex.NewPrefixCursor(authority.Bytes())
	err := cursor.Map(func(key []byte, value []byte) error {
		a, err := account.FromBytes(value)
		if nil != err {
			return err
		}
		addresses = append(addresses, a)
		return nil
	})
	if nil != err {
		return nil, err
	}

	result := make([]*ListingView, 0, len(addresses))
	for _, a := range addresses {
		view, err := p.Listing(a)
		if nil != err {
			return nil, err
		}
		result = append(result, view)
	}
	return result, nil
}

// Rental - one rental by address
func (p *Processor) Rental(a account.Account) (*RentalView, error) {
	rental, err := p.peekRental(a)
	if nil != err {
		return nil, err
	}
	return p.rentalView(a, rental, ""), nil
}

// Rentals - every rental in which an account is landlord or tenant
func (p *Processor) Rentals(party account.Account) ([]*RentalView, error) {
	type entry struct {
		address account.Account
		role    byte
	}
	entries := make([]entry, 0, 16)

	cursor := p.store.Pool.Parties.NewPrefixCursor(party.Bytes())
	err := cursor.Map(func(key []byte, value []byte) error {
		a, err := account.FromBytes(key[account.AccountSize:])
		if nil != err {
			return err
		}
		if 1 != len(value) {
			return fault.ErrNotRecordPack
		}
		entries = append(entries, entry{address: a, role: value[0]})
		return nil
	})
	if nil != err {
		return nil, err
	}

	result := make([]*RentalView, 0, len(entries))
	for _, e := range entries {
		rental, err := p.peekRental(e.address)
		if nil != err {
			return nil, err
		}
		role := "tenant"
		if landlordRole == e.role {
			role = "landlord"
		}
		result = append(result, p.rentalView(e.address, rental, role))
	}
	return result, nil
}

// Events - the change log of a rental address
func (p *Processor) Events(rental account.Account, start uint64, count int) ([]*record.Event, error) {
	if count <= 0 || count > MaximumQueryCount {
		return nil, fault.ErrInvalidCount
	}

	cursor := p.store.Pool.Events.NewPrefixCursor(rental.Bytes())
	cursor.Seek(sequenceKey(rental, start))
	elements, err := cursor.Fetch(count)
	if nil != err {
		return nil, err
	}

	result := make([]*record.Event, 0, len(elements))
	for _, e := range elements {
		event, err := record.UnpackEvent(e.Value)
		if nil != err {
			return nil, err
		}
		result = append(result, event)
	}
	return result, nil
}

// History - closed rentals that previously occupied an address,
// oldest first
func (p *Processor) History(rental account.Account) ([]*record.Rental, error) {
	result := make([]*record.Rental, 0, 4)
	cursor := p.store.Pool.RentalHistory.NewPrefixCursor(rental.Bytes())
	err := cursor.Map(func(key []byte, value []byte) error {
		r, err := record.UnpackRental(value)
		if nil != err {
			return err
		}
		result = append(result, r)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return result, nil
}

// Expired - active rentals whose end date has passed, at most count
func (p *Processor) Expired(count int) ([]account.Account, error) {
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}
	now := p.clock().Unix()

	result := make([]account.Account, 0, count)
	cursor := p.store.Pool.Rentals.NewFetchCursor()
	for len(result) < count {
		elements, err := cursor.Fetch(MaximumQueryCount)
		if nil != err {
			return nil, err
		}
		if 0 == len(elements) {
			break
		}
		for _, e := range elements {
			rental, err := record.UnpackRental(e.Value)
			if nil != err {
				return nil, err
			}
			if record.Active != rental.Status || now <= rental.EndDate {
				continue
			}
			a, err := account.FromBytes(e.Key)
			if nil != err {
				return nil, err
			}
			result = append(result, a)
			if len(result) == count {
				break
			}
		}
	}
	return result, nil
}

func (p *Processor) rentalView(a account.Account, rental *record.Rental, role string) *RentalView {
	return &RentalView{
		Address:   a,
		Role:      role,
		ExpiresIn: rental.EndDate - p.clock().Unix(),
		Rental:    rental,
	}
}

// number of archived records for an address
func (p *Processor) historyCount(a account.Account) (uint64, error) {
	n := uint64(0)
	cursor := p.store.Pool.RentalHistory.NewPrefixCursor(a.Bytes())
	err := cursor.Map(func(key []byte, value []byte) error {
		if len(key) == account.AccountSize+8 {
			n = binary.BigEndian.Uint64(key[account.AccountSize:]) + 1
		}
		return nil
	})
	return n, err
}
