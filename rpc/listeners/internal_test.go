// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/fixtures"
)

func TestParseListenAddress(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)

	addrs := []string{"127.0.0.1:2130", "[::1]:2131", "*:2132"}
	networks, err := parseListenAddress(addrs, log)
	assert.Nil(t, err, "wrong parse")
	assert.Equal(t, []string{"tcp4", "tcp6", "tcp"}, networks, "wrong networks")
	assert.Equal(t, "[::]:2132", addrs[2], "wildcard not rewritten")

	for _, bad := range []string{"localhost:2130", "127.0.0.1", "300.1.1.1:80", "[::1:80"} {
		_, err := parseListenAddress([]string{bad}, log)
		assert.Equal(t, fault.ErrInvalidIPAddress, err, "accepted: %q", bad)
	}
}
