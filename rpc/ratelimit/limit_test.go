// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/rpc/ratelimit"
)

func TestLimit(t *testing.T) {
	limiter := rate.NewLimiter(100, 10)
	assert.Nil(t, ratelimit.Limit(limiter), "wrong limit")

	// zero burst can never be satisfied
	blocked := rate.NewLimiter(1, 0)
	assert.Equal(t, fault.ErrRateLimiting, ratelimit.Limit(blocked), "wrong blocked limit")
}

func TestLimitN(t *testing.T) {
	limiter := rate.NewLimiter(100, 20)

	assert.Nil(t, ratelimit.LimitN(limiter, 5, 10), "wrong count limit")
	assert.Equal(t, fault.ErrInvalidCount, ratelimit.LimitN(limiter, 0, 10), "zero count")
	assert.Equal(t, fault.ErrInvalidCount, ratelimit.LimitN(limiter, 11, 10), "count above maximum")

	// more than the burst size is never granted
	assert.Equal(t, fault.ErrRateLimiting, ratelimit.LimitN(limiter, 50, 100), "count above burst")
}
