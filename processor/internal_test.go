// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/record"
)

func TestSortedSet(t *testing.T) {
	a := account.Account{0x01}
	b := account.Account{0x02}
	c := account.Account{0x03}

	set := sortedSet([]account.Account{c, a, account.Zero, b, a, c})
	assert.Equal(t, []account.Account{a, b, c}, set, "sorted without zero or duplicates")
}

func TestLockTable(t *testing.T) {
	table := newLockTable()

	a := account.Account{0x01}
	b := account.Account{0x02}
	c := account.Account{0x03}

	unlock := table.lock([]account.Account{a, b})
	assert.Equal(t, 2, table.size(), "entries held")
	unlock()
	assert.Equal(t, 0, table.size(), "entries released")

	// overlapping sets given in opposite orders must not deadlock
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i += 1 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := table.lock([]account.Account{a, b, c})
			counter += 1
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := table.lock([]account.Account{c, b})
			counter += 1
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter, "all ran under lock")
	assert.Equal(t, 0, table.size(), "entries released")
}

func TestPrepaidRent(t *testing.T) {
	now := int64(1600000000)

	items := []struct {
		price    uint64
		next     int64
		expected uint64
	}{
		{1000, now, 0},
		{1000, now - 1, 0},
		{1000, now + record.SecondsPerMonth, 1000},
		{1000, now + 20*record.SecondsPerDay, 666},
		{3000, now + 15*record.SecondsPerDay, 1500},
		{0, now + record.SecondsPerMonth, 0},
	}

	for i, item := range items {
		rental := &record.Rental{Price: item.price, NextPaymentDate: item.next}
		prepaid, err := prepaidRent(rental, now)
		assert.Nil(t, err, "%d: error", i)
		assert.Equal(t, item.expected, prepaid, "%d: prepaid", i)
	}

	// many months paid in advance at the largest price
	rental := &record.Rental{Price: math.MaxUint64, NextPaymentDate: now + 2*record.SecondsPerMonth}
	_, err := prepaidRent(rental, now)
	assert.Equal(t, fault.ErrOverflow, err, "overflow")
}

func TestAddSeconds(t *testing.T) {
	n, err := addSeconds(10, 5)
	assert.Nil(t, err, "add")
	assert.Equal(t, int64(15), n, "add")

	n, err = addSeconds(10, -5)
	assert.Nil(t, err, "subtract")
	assert.Equal(t, int64(5), n, "subtract")

	_, err = addSeconds(math.MaxInt64, 1)
	assert.Equal(t, fault.ErrOverflow, err, "overflow")

	_, err = addSeconds(math.MinInt64, -1)
	assert.Equal(t, fault.ErrOverflow, err, "underflow")
}

func TestSequenceKey(t *testing.T) {
	a := account.Account{0xaa}
	key := sequenceKey(a, 258)
	assert.Equal(t, account.AccountSize+8, len(key), "length")
	assert.Equal(t, a[:], key[:account.AccountSize], "prefix")
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, key[account.AccountSize:], "big endian")
}
