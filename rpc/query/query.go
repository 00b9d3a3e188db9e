// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package query - read only RPC access to ledger records
package query

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/processor"
	"github.com/bitmark-inc/rentald/record"
	"github.com/bitmark-inc/rentald/rpc/ratelimit"
)

const (
	rateLimitQuery = 200
	rateBurstQuery = 100
)

// Source - the read operations of the processor
type Source interface {
	PlatformAddress() account.Account
	Platform() (*record.Platform, error)
	Listing(a account.Account) (*processor.ListingView, error)
	Listings(start uint64, count int) ([]*processor.ListingView, error)
	ListingsByAuthority(authority account.Account) ([]*processor.ListingView, error)
	Rental(a account.Account) (*processor.RentalView, error)
	Rentals(party account.Account) ([]*processor.RentalView, error)
	Events(rental account.Account, start uint64, count int) ([]*record.Event, error)
	History(rental account.Account) ([]*record.Rental, error)
}

// Query - type for RPC calls
type Query struct {
	Log     *logger.L
	Limiter *rate.Limiter
	source  Source
}

// New - create the service
func New(log *logger.L, source Source) *Query {
	return &Query{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitQuery, rateBurstQuery),
		source:  source,
	}
}

// ---

// PlatformArguments - empty arguments for platform request
type PlatformArguments struct{}

// PlatformReply - the singleton and its address
type PlatformReply struct {
	Address  account.Account  `json:"address"`
	Platform *record.Platform `json:"platform"`
}

// Platform - fetch the platform record
func (query *Query) Platform(_ *PlatformArguments, reply *PlatformReply) error {

	if err := ratelimit.Limit(query.Limiter); nil != err {
		return err
	}

	platform, err := query.source.Platform()
	if nil != err {
		return err
	}
	reply.Address = query.source.PlatformAddress()
	reply.Platform = platform
	return nil
}

// ---

// AddressArguments - a single address to look up
type AddressArguments struct {
	Address account.Account `json:"address"`
}

func (arguments *AddressArguments) check() error {
	if nil == arguments || arguments.Address.IsZero() {
		return fault.ErrInvalidAccount
	}
	return nil
}

// ListingReply - one listing
type ListingReply struct {
	Listing *processor.ListingView `json:"listing"`
}

// Listing - fetch one listing
func (query *Query) Listing(arguments *AddressArguments, reply *ListingReply) error {

	if err := ratelimit.Limit(query.Limiter); nil != err {
		return err
	}
	if err := arguments.check(); nil != err {
		return err
	}

	listing, err := query.source.Listing(arguments.Address)
	if nil != err {
		return err
	}
	reply.Listing = listing
	return nil
}

// ListingsArguments - a page of listings in id order
type ListingsArguments struct {
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// ListingsReply - a page of listings
type ListingsReply struct {
	Listings  []*processor.ListingView `json:"listings"`
	NextStart uint64                   `json:"nextStart,string"`
}

// Listings - fetch a page of listings
func (query *Query) Listings(arguments *ListingsArguments, reply *ListingsReply) error {

	if nil == arguments {
		return fault.ErrMissingParameters
	}
	if err := ratelimit.LimitN(query.Limiter, arguments.Count, processor.MaximumQueryCount); nil != err {
		return err
	}

	listings, err := query.source.Listings(arguments.Start, arguments.Count)
	if nil != err {
		return err
	}
	reply.Listings = listings
	reply.NextStart = arguments.Start + uint64(len(listings))
	return nil
}

// ListingsByAuthority - fetch the listings created by an account
func (query *Query) ListingsByAuthority(arguments *AddressArguments, reply *ListingsReply) error {

	if err := ratelimit.Limit(query.Limiter); nil != err {
		return err
	}
	if err := arguments.check(); nil != err {
		return err
	}

	listings, err := query.source.ListingsByAuthority(arguments.Address)
	if nil != err {
		return err
	}
	reply.Listings = listings
	reply.NextStart = uint64(len(listings))
	return nil
}

// ---

// RentalReply - one rental
type RentalReply struct {
	Rental *processor.RentalView `json:"rental"`
}

// Rental - fetch one rental
func (query *Query) Rental(arguments *AddressArguments, reply *RentalReply) error {

	if err := ratelimit.Limit(query.Limiter); nil != err {
		return err
	}
	if err := arguments.check(); nil != err {
		return err
	}

	rental, err := query.source.Rental(arguments.Address)
	if nil != err {
		return err
	}
	reply.Rental = rental
	return nil
}

// RentalsReply - rentals of one party
type RentalsReply struct {
	Rentals []*processor.RentalView `json:"rentals"`
}

// Rentals - fetch every rental where an account is landlord or tenant
func (query *Query) Rentals(arguments *AddressArguments, reply *RentalsReply) error {

	if err := ratelimit.Limit(query.Limiter); nil != err {
		return err
	}
	if err := arguments.check(); nil != err {
		return err
	}

	rentals, err := query.source.Rentals(arguments.Address)
	if nil != err {
		return err
	}
	reply.Rentals = rentals
	return nil
}

// EventsArguments - a page of the change log of one rental address
type EventsArguments struct {
	Rental account.Account `json:"rental"`
	Start  uint64          `json:"start,string"`
	Count  int             `json:"count"`
}

// EventsReply - a page of events
type EventsReply struct {
	Events    []*record.Event `json:"events"`
	NextStart uint64          `json:"nextStart,string"`
}

// Events - fetch a page of events
func (query *Query) Events(arguments *EventsArguments, reply *EventsReply) error {

	if nil == arguments {
		return fault.ErrMissingParameters
	}
	if err := ratelimit.LimitN(query.Limiter, arguments.Count, processor.MaximumQueryCount); nil != err {
		return err
	}
	if arguments.Rental.IsZero() {
		return fault.ErrInvalidAccount
	}

	events, err := query.source.Events(arguments.Rental, arguments.Start, arguments.Count)
	if nil != err {
		return err
	}
	reply.Events = events
	reply.NextStart = arguments.Start + uint64(len(events))
	return nil
}

// HistoryReply - closed rentals at one address
type HistoryReply struct {
	Rentals []*record.Rental `json:"rentals"`
}

// History - fetch the archived rentals of an address
func (query *Query) History(arguments *AddressArguments, reply *HistoryReply) error {

	if err := ratelimit.Limit(query.Limiter); nil != err {
		return err
	}
	if err := arguments.check(); nil != err {
		return err
	}

	rentals, err := query.source.History(arguments.Address)
	if nil != err {
		return err
	}
	reply.Rentals = rentals
	return nil
}
