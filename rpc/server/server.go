// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package server - the RPC services of the daemon
package server

import (
	"net/rpc"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/processor"
	"github.com/bitmark-inc/rentald/rpc/funds"
	"github.com/bitmark-inc/rentald/rpc/ledger"
	"github.com/bitmark-inc/rentald/rpc/query"
)

// Create - an RPC server with every service registered
//
// services: Ledger.Submit, Query.*, Funds.Balance, Funds.Credit
func Create(log *logger.L, p *processor.Processor) *rpc.Server {

	server := rpc.NewServer()

	_ = server.Register(ledger.New(log, p, nil))
	_ = server.Register(query.New(log, p))
	_ = server.Register(funds.New(log, p))

	return server
}
