// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	connect    string
	key        string
	deployment string
	verbose    bool
	e          io.Writer
	w          io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdout, os.Stderr)

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "rental-cli"
	app.Usage = "submit signed instructions and queries to rentald"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "127.0.0.1:2230",
			Usage:  " rentald client RPC `HOST:PORT`",
			EnvVar: "RENTAL_CONNECT",
		},
		cli.StringFlag{
			Name:   "key, k",
			Value:  "",
			Usage:  " private `KEY` used to sign instructions",
			EnvVar: "RENTAL_KEY",
		},
		cli.StringFlag{
			Name:   "deployment, d",
			Value:  "testing",
			Usage:  " deployment `NAME` of the daemon",
			EnvVar: "RENTAL_DEPLOYMENT",
		},
	}

	rentalFlag := cli.StringFlag{
		Name:  "rental, r",
		Value: "",
		Usage: "*rental `ADDRESS`",
	}
	listingFlag := cli.StringFlag{
		Name:  "listing, l",
		Value: "",
		Usage: "*listing `ADDRESS`",
	}

	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "generate a new private key and show its account",
			ArgsUsage: "\n   (* = required)",
			Action:    runGenerate,
		},
		{
			Name:      "account",
			Usage:     "show the account of the signing key",
			ArgsUsage: "\n   (* = required)",
			Action:    runAccount,
		},
		{
			Name:      "submit",
			Usage:     "sign and submit any instruction",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "type, t",
					Value: "",
					Usage: "*instruction `NAME` e.g. create_listing",
				},
				cli.StringFlag{
					Name:  "arguments, a",
					Value: "",
					Usage: " instruction arguments as `JSON`",
				},
			},
			Action: runSubmit,
		},
		{
			Name:      "initialize",
			Usage:     "create the platform, the signer becomes its authority",
			ArgsUsage: "\n   (* = required)",
			Action:    runInitialise,
		},
		{
			Name:      "create-listing",
			Usage:     "offer a property",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "terms, f",
					Value: "",
					Usage: "*listing terms JSON `FILE`",
				},
			},
			Action: runCreateListing,
		},
		{
			Name:      "update-listing",
			Usage:     "replace the terms of a listing",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				listingFlag,
				cli.StringFlag{
					Name:  "terms, f",
					Value: "",
					Usage: "*listing terms JSON `FILE`",
				},
			},
			Action: runUpdateListing,
		},
		{
			Name:      "verify-listing",
			Usage:     "mark a listing verified (platform authority)",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{listingFlag},
			Action:    runVerifyListing,
		},
		{
			Name:      "rent",
			Usage:     "rent an available listing",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				listingFlag,
				cli.Uint64Flag{
					Name:  "id, i",
					Value: 0,
					Usage: "*rental `ID`",
				},
			},
			Action: runRent,
		},
		{
			Name:      "pay",
			Usage:     "pay one month of rent",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{rentalFlag},
			Action:    runPay,
		},
		{
			Name:      "terminate",
			Usage:     "end a rental",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				rentalFlag,
				cli.StringFlag{
					Name:  "disposition, x",
					Value: "default",
					Usage: " deposit `DISPOSITION` [default|refund|forfeit|split]",
				},
				cli.Uint64Flag{
					Name:  "refund, m",
					Value: 0,
					Usage: " tenant share of a split deposit `AMOUNT`",
				},
			},
			Action: runTerminate,
		},
		{
			Name:      "adjust",
			Usage:     "change the price and end date of a rental",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				rentalFlag,
				cli.Uint64Flag{
					Name:  "price, p",
					Value: 0,
					Usage: "*new monthly `PRICE`",
				},
				cli.Int64Flag{
					Name:  "end-date, e",
					Value: 0,
					Usage: "*new end date `UNIX-SECONDS`",
				},
				cli.StringFlag{
					Name:  "reason",
					Value: "",
					Usage: " `TEXT` recorded with the change",
				},
			},
			Action: runAdjust,
		},
		{
			Name:      "renew",
			Usage:     "extend a rental by whole months",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				rentalFlag,
				cli.UintFlag{
					Name:  "months, n",
					Value: 0,
					Usage: "*`COUNT` of months",
				},
				cli.Uint64Flag{
					Name:  "price, p",
					Value: 0,
					Usage: " new monthly `PRICE` (0 keeps the current price)",
				},
				cli.BoolFlag{
					Name:  "auto",
					Usage: " renew automatically",
				},
			},
			Action: runRenew,
		},
		{
			Name:      "approve-transfer",
			Usage:     "consent to a new tenant (landlord)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				rentalFlag,
				cli.StringFlag{
					Name:  "tenant, t",
					Value: "",
					Usage: " new tenant `ACCOUNT` (blank withdraws consent)",
				},
			},
			Action: runApproveTransfer,
		},
		{
			Name:      "transfer",
			Usage:     "hand a rental to the approved new tenant",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				rentalFlag,
				cli.StringFlag{
					Name:  "tenant, t",
					Value: "",
					Usage: "*new tenant `ACCOUNT`",
				},
				cli.Uint64Flag{
					Name:  "fee, f",
					Value: 0,
					Usage: " transfer `FEE` paid to the landlord",
				},
			},
			Action: runTransfer,
		},
		{
			Name:      "extend",
			Usage:     "push the rental schedule forward by days",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				rentalFlag,
				cli.UintFlag{
					Name:  "days, n",
					Value: 0,
					Usage: "*`COUNT` of days",
				},
				cli.StringFlag{
					Name:  "reason",
					Value: "",
					Usage: " `TEXT` recorded with the extension",
				},
			},
			Action: runExtend,
		},
		{
			Name:      "expire",
			Usage:     "close a rental that is past its end date",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{rentalFlag},
			Action:    runExpire,
		},
		{
			Name:      "platform",
			Usage:     "show the platform",
			ArgsUsage: "\n   (* = required)",
			Action:    runPlatform,
		},
		{
			Name:      "listing",
			Usage:     "show a listing",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{listingFlag},
			Action:    runListing,
		},
		{
			Name:      "listings",
			Usage:     "list listings in creation order",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " first listing `SEQUENCE`",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 20,
					Usage: " maximum `COUNT` to return",
				},
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " only listings controlled by `ACCOUNT`",
				},
			},
			Action: runListings,
		},
		{
			Name:      "rental",
			Usage:     "show a rental",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{rentalFlag},
			Action:    runRental,
		},
		{
			Name:      "rentals",
			Usage:     "list rentals where an account is landlord or tenant",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "party, p",
					Value: "",
					Usage: " `ACCOUNT` (default: signing key)",
				},
			},
			Action: runRentals,
		},
		{
			Name:      "events",
			Usage:     "list the events of a rental",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				rentalFlag,
				cli.Uint64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " first event `SEQUENCE`",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 20,
					Usage: " maximum `COUNT` to return",
				},
			},
			Action: runEvents,
		},
		{
			Name:      "history",
			Usage:     "list the archived contracts of a rental address",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{rentalFlag},
			Action:    runHistory,
		},
		{
			Name:      "balance",
			Usage:     "show the payment balance of an account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: " `ACCOUNT` (default: signing key)",
				},
			},
			Action: runBalance,
		},
		{
			Name:      "credit",
			Usage:     "add funds to an account (when the daemon permits)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: " `ACCOUNT` (default: signing key)",
				},
				cli.Uint64Flag{
					Name:  "amount, m",
					Value: 0,
					Usage: "*`AMOUNT` in minor units",
				},
			},
			Action: runCredit,
		},
		{
			Name:   "version",
			Usage:  "display rental-cli version",
			Action: runVersion,
		},
	}

	app.Before = func(c *cli.Context) error {
		m := &metadata{
			connect:    c.GlobalString("connect"),
			key:        c.GlobalString("key"),
			deployment: c.GlobalString("deployment"),
			verbose:    c.GlobalBool("verbose"),
			e:          c.App.ErrWriter,
			w:          c.App.Writer,
		}
		c.App.Metadata = map[string]interface{}{
			"config": m,
		}
		return nil
	}

	return app
}

func runVersion(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "%s\n", version)
	return nil
}
