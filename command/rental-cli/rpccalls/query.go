// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/rpc/query"
)

// Platform - fetch the platform singleton
func (c *Client) Platform() (*query.PlatformReply, error) {
	var reply query.PlatformReply
	if err := c.call("Query.Platform", &query.PlatformArguments{}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Listing - fetch one listing
func (c *Client) Listing(a account.Account) (*query.ListingReply, error) {
	var reply query.ListingReply
	if err := c.call("Query.Listing", &query.AddressArguments{Address: a}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Listings - fetch a page of listings
func (c *Client) Listings(start uint64, count int) (*query.ListingsReply, error) {
	arguments := &query.ListingsArguments{
		Start: start,
		Count: count,
	}
	var reply query.ListingsReply
	if err := c.call("Query.Listings", arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// ListingsByAuthority - fetch the listings an account controls
func (c *Client) ListingsByAuthority(authority account.Account) (*query.ListingsReply, error) {
	var reply query.ListingsReply
	if err := c.call("Query.ListingsByAuthority", &query.AddressArguments{Address: authority}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Rental - fetch one rental
func (c *Client) Rental(a account.Account) (*query.RentalReply, error) {
	var reply query.RentalReply
	if err := c.call("Query.Rental", &query.AddressArguments{Address: a}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Rentals - fetch the rentals where an account is a party
func (c *Client) Rentals(party account.Account) (*query.RentalsReply, error) {
	var reply query.RentalsReply
	if err := c.call("Query.Rentals", &query.AddressArguments{Address: party}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Events - fetch a page of the events of a rental
func (c *Client) Events(rental account.Account, start uint64, count int) (*query.EventsReply, error) {
	arguments := &query.EventsArguments{
		Rental: rental,
		Start:  start,
		Count:  count,
	}
	var reply query.EventsReply
	if err := c.call("Query.Events", arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// History - fetch the archived contracts of a rental address
func (c *Client) History(rental account.Account) (*query.HistoryReply, error) {
	var reply query.HistoryReply
	if err := c.call("Query.History", &query.AddressArguments{Address: rental}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
