// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package counter - lock free counters shared between goroutines
//
// the daemon uses them for open RPC connection slots and for the
// receipt sequence of the internal book
package counter

import (
	"sync/atomic"
)

// Counter - 64 bit unsigned value updated atomically
//
// the zero value is ready to use
type Counter uint64

// Increment - add one and return the new value
func (c *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(c), 1)
}

// Decrement - subtract one and return the new value, wraps below zero
func (c *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(c), ^uint64(0))
}

// Acquire - take a slot if fewer than maximum are in use
//
// a successful Acquire must be paired with Release
func (c *Counter) Acquire(maximum uint64) bool {
	if c.Increment() <= maximum {
		return true
	}
	c.Decrement()
	return false
}

// Release - give back a slot taken by Acquire
func (c *Counter) Release() {
	c.Decrement()
}

// Uint64 - current value
func (c *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(c))
}

// IsZero - true when nothing is counted
func (c *Counter) IsZero() bool {
	return 0 == c.Uint64()
}
