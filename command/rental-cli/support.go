// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/command/rental-cli/rpccalls"
	"github.com/bitmark-inc/rentald/instruction"
	"github.com/bitmark-inc/rentald/record"
)

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

func getMetadata(c *cli.Context) *metadata {
	return c.App.Metadata["config"].(*metadata)
}

// the signing key from the global flag or environment
func getKey(m *metadata) (*account.PrivateKey, error) {
	if "" == m.key {
		return nil, ErrMissingKey
	}
	return account.PrivateKeyFromBase58(m.key)
}

// a required account flag
func requireAccount(c *cli.Context, name string) (account.Account, error) {
	s := c.String(name)
	if "" == s {
		return account.Account{}, fmt.Errorf("%s: %w", name, ErrMissingAccount)
	}
	a, err := account.FromBase58(s)
	if nil != err {
		return account.Account{}, fmt.Errorf("%s: %w", name, err)
	}
	return a, nil
}

// an account flag that falls back to the signing key
func accountOrKey(c *cli.Context, name string) (account.Account, error) {
	if "" != c.String(name) {
		return requireAccount(c, name)
	}
	key, err := getKey(getMetadata(c))
	if nil != err {
		return account.Account{}, err
	}
	return key.Account(), nil
}

// listing terms as JSON from a file, "-" for standard input
func readTerms(fileName string) (*record.ListingTerms, error) {
	if "" == fileName {
		return nil, ErrMissingTerms
	}

	var data []byte
	var err error
	if "-" == fileName {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(fileName)
	}
	if nil != err {
		return nil, err
	}

	terms := &record.ListingTerms{}
	if err := json.Unmarshal(data, terms); nil != err {
		return nil, err
	}
	return terms, nil
}

func connect(m *metadata) (*rpccalls.Client, error) {
	if m.verbose {
		fmt.Fprintf(m.e, "connect: %s\n", m.connect)
	}
	return rpccalls.NewClient(m.connect, m.verbose, m.e)
}

// sign an instruction with the current key, submit and print the reply
func submit(c *cli.Context, i instruction.Instruction) error {
	m := getMetadata(c)

	key, err := getKey(m)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "caller: %s\n", key.Account())
		fmt.Fprintf(m.e, "deployment: %s\n", m.deployment)
		fmt.Fprintf(m.e, "instruction: %s\n", instruction.Name(i))
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Submit(&rpccalls.SubmitData{
		Key:         key,
		Deployment:  m.deployment,
		Instruction: i,
		Timestamp:   time.Now(),
	})
	if nil != err {
		return err
	}

	return printJson(m.w, reply)
}
