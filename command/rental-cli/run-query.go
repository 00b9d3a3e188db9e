// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
)

func runPlatform(c *cli.Context) error {
	m := getMetadata(c)

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Platform()
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runListing(c *cli.Context) error {
	m := getMetadata(c)

	listing, err := requireAccount(c, "listing")
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Listing(listing)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runListings(c *cli.Context) error {
	m := getMetadata(c)

	count := c.Int("count")
	if count <= 0 {
		return ErrInvalidCount
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	if "" != c.String("authority") {
		authority, err := requireAccount(c, "authority")
		if nil != err {
			return err
		}
		reply, err := client.ListingsByAuthority(authority)
		if nil != err {
			return err
		}
		return printJson(m.w, reply)
	}

	reply, err := client.Listings(c.Uint64("start"), count)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runRental(c *cli.Context) error {
	m := getMetadata(c)

	rental, err := requireAccount(c, "rental")
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Rental(rental)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runRentals(c *cli.Context) error {
	m := getMetadata(c)

	party, err := accountOrKey(c, "party")
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Rentals(party)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runEvents(c *cli.Context) error {
	m := getMetadata(c)

	rental, err := requireAccount(c, "rental")
	if nil != err {
		return err
	}
	count := c.Int("count")
	if count <= 0 {
		return ErrInvalidCount
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Events(rental, c.Uint64("start"), count)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runHistory(c *cli.Context) error {
	m := getMetadata(c)

	rental, err := requireAccount(c, "rental")
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.History(rental)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}
