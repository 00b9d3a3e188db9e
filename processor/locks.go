// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor

import (
	"sort"
	"sync"

	"github.com/bitmark-inc/rentald/account"
)

// per-address mutexes, created on demand and removed when unused
type lockTable struct {
	sync.Mutex
	entries map[account.Account]*lockEntry
}

type lockEntry struct {
	sync.Mutex
	references int
}

func newLockTable() *lockTable {
	return &lockTable{
		entries: make(map[account.Account]*lockEntry),
	}
}

// lock all addresses in ascending byte order, duplicates and zero
// addresses are ignored
//
// returns the function that releases them
func (table *lockTable) lock(addresses []account.Account) func() {
	set := sortedSet(addresses)

	held := make([]*lockEntry, 0, len(set))
	for _, a := range set {
		entry := table.acquire(a)
		entry.Lock()
		held = append(held, entry)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i -= 1 {
			held[i].Unlock()
			table.release(set[i])
		}
	}
}

func (table *lockTable) acquire(a account.Account) *lockEntry {
	table.Lock()
	defer table.Unlock()

	entry, ok := table.entries[a]
	if !ok {
		entry = &lockEntry{}
		table.entries[a] = entry
	}
	entry.references += 1
	return entry
}

func (table *lockTable) release(a account.Account) {
	table.Lock()
	defer table.Unlock()

	entry := table.entries[a]
	entry.references -= 1
	if 0 == entry.references {
		delete(table.entries, a)
	}
}

// number of addresses with a live entry
func (table *lockTable) size() int {
	table.Lock()
	defer table.Unlock()
	return len(table.entries)
}

func sortedSet(addresses []account.Account) []account.Account {
	seen := make(map[account.Account]struct{}, len(addresses))
	set := make([]account.Account, 0, len(addresses))
	for _, a := range addresses {
		if a.IsZero() {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		set = append(set, a)
	}
	sort.Slice(set, func(i, j int) bool {
		return set[i].Compare(set[j]) < 0
	})
	return set
}
