// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/rentald/fault"
)

// common errors - keep in alphabetic order
const (
	ErrInvalidCount   = fault.InvalidError("count must be positive")
	ErrMissingAccount = fault.InvalidError("account is required")
	ErrMissingKey     = fault.InvalidError("private key is required: use --key or RENTAL_KEY")
	ErrMissingTerms   = fault.InvalidError("terms file is required")
	ErrMissingType    = fault.InvalidError("instruction type is required")
	ErrOutOfRange     = fault.InvalidError("value is out of range")
	ErrZeroAmount     = fault.InvalidError("amount must be positive")
)
