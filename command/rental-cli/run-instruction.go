// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"math"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/instruction"
)

func runSubmit(c *cli.Context) error {
	name := c.String("type")
	if "" == name {
		return ErrMissingType
	}

	envelope := &instruction.Envelope{
		Type: name,
	}
	if s := c.String("arguments"); "" != s {
		envelope.Arguments = json.RawMessage(s)
	}

	i, err := envelope.Decode()
	if nil != err {
		return err
	}
	return submit(c, i)
}

func runInitialise(c *cli.Context) error {
	return submit(c, &instruction.Initialise{})
}

func runCreateListing(c *cli.Context) error {
	terms, err := readTerms(c.String("terms"))
	if nil != err {
		return err
	}
	return submit(c, &instruction.CreateListing{
		Terms: *terms,
	})
}

func runUpdateListing(c *cli.Context) error {
	listing, err := requireAccount(c, "listing")
	if nil != err {
		return err
	}
	terms, err := readTerms(c.String("terms"))
	if nil != err {
		return err
	}
	return submit(c, &instruction.UpdateListing{
		Listing: listing,
		Terms:   *terms,
	})
}

func runVerifyListing(c *cli.Context) error {
	listing, err := requireAccount(c, "listing")
	if nil != err {
		return err
	}
	return submit(c, &instruction.VerifyListing{
		Listing: listing,
	})
}

func runRent(c *cli.Context) error {
	listing, err := requireAccount(c, "listing")
	if nil != err {
		return err
	}
	return submit(c, &instruction.RentProperty{
		Listing:  listing,
		RentalID: c.Uint64("id"),
	})
}

func runPay(c *cli.Context) error {
	rental, err := requireAccount(c, "rental")
	if nil != err {
		return err
	}
	return submit(c, &instruction.PayRent{
		Rental: rental,
	})
}

func runTerminate(c *cli.Context) error {
	rental, err := requireAccount(c, "rental")
	if nil != err {
		return err
	}

	var disposition instruction.Disposition
	if err := disposition.UnmarshalText([]byte(c.String("disposition"))); nil != err {
		return err
	}

	return submit(c, &instruction.TerminateRental{
		Rental:      rental,
		Disposition: disposition,
		Refund:      c.Uint64("refund"),
	})
}

func runAdjust(c *cli.Context) error {
	rental, err := requireAccount(c, "rental")
	if nil != err {
		return err
	}
	return submit(c, &instruction.AdjustRental{
		Rental:     rental,
		NewPrice:   c.Uint64("price"),
		NewEndDate: c.Int64("end-date"),
		Reason:     c.String("reason"),
	})
}

func runRenew(c *cli.Context) error {
	rental, err := requireAccount(c, "rental")
	if nil != err {
		return err
	}
	months := c.Uint("months")
	if months > math.MaxUint8 {
		return ErrOutOfRange
	}
	return submit(c, &instruction.RenewRental{
		Rental:    rental,
		Months:    uint8(months),
		NewPrice:  c.Uint64("price"),
		AutoRenew: c.Bool("auto"),
	})
}

func runApproveTransfer(c *cli.Context) error {
	rental, err := requireAccount(c, "rental")
	if nil != err {
		return err
	}

	// blank withdraws an earlier approval
	tenant := account.Account{}
	if "" != c.String("tenant") {
		tenant, err = requireAccount(c, "tenant")
		if nil != err {
			return err
		}
	}

	return submit(c, &instruction.ApproveTransfer{
		Rental:    rental,
		NewTenant: tenant,
	})
}

func runTransfer(c *cli.Context) error {
	rental, err := requireAccount(c, "rental")
	if nil != err {
		return err
	}
	tenant, err := requireAccount(c, "tenant")
	if nil != err {
		return err
	}
	return submit(c, &instruction.TransferRental{
		Rental:    rental,
		NewTenant: tenant,
		Fee:       c.Uint64("fee"),
	})
}

func runExtend(c *cli.Context) error {
	rental, err := requireAccount(c, "rental")
	if nil != err {
		return err
	}
	days := c.Uint("days")
	if days > math.MaxUint16 {
		return ErrOutOfRange
	}
	return submit(c, &instruction.ExtendRental{
		Rental: rental,
		Days:   uint16(days),
		Reason: c.String("reason"),
	})
}

func runExpire(c *cli.Context) error {
	rental, err := requireAccount(c, "rental")
	if nil != err {
		return err
	}
	return submit(c, &instruction.ExpireRental{
		Rental: rental,
	})
}
