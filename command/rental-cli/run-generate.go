// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/rentald/account"
)

type generateResult struct {
	Account    account.Account `json:"account"`
	PrivateKey string          `json:"private_key"`
}

func runGenerate(c *cli.Context) error {
	m := getMetadata(c)

	key, err := account.NewPrivateKey()
	if nil != err {
		return err
	}

	return printJson(m.w, generateResult{
		Account:    key.Account(),
		PrivateKey: key.String(),
	})
}

func runAccount(c *cli.Context) error {
	m := getMetadata(c)

	key, err := getKey(m)
	if nil != err {
		return err
	}

	return printJson(m.w, struct {
		Account account.Account `json:"account"`
	}{
		Account: key.Account(),
	})
}
