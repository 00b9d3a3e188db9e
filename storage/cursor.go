// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/rentald/fault"
)

// FetchCursor - cursor structure
type FetchCursor struct {
	pool     *PoolHandle
	maxRange util.Range
}

// NewFetchCursor - initialise a cursor to the start of a key range
func (p *PoolHandle) NewFetchCursor() *FetchCursor {
	return &FetchCursor{
		pool: p,
		maxRange: util.Range{
			Start: []byte{p.prefix}, // Start of key range, included in the range
			Limit: p.limit,          // Limit of key range, excluded from the range
		},
	}
}

// NewPrefixCursor - a cursor restricted to keys beginning with keyPrefix
func (p *PoolHandle) NewPrefixCursor(keyPrefix []byte) *FetchCursor {
	r := util.BytesPrefix(p.prefixKey(keyPrefix))
	return &FetchCursor{
		pool:     p,
		maxRange: *r,
	}
}

// Seek - move cursor to specific key position
func (cursor *FetchCursor) Seek(key []byte) *FetchCursor {
	cursor.maxRange.Start = cursor.pool.prefixKey(key)
	return cursor
}

// Fetch - return some elements starting from the cursor position
// and advance past them
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if nil == cursor {
		return nil, fault.ErrInvalidCount
	}
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}

	results := make([]Element, 0, count)
	err := cursor.iterate(func(key []byte, value []byte) bool {
		results = append(results, Element{
			Key:   key,
			Value: value,
		})
		return len(results) < count
	})

	if n := len(results); n > 0 {
		// the smallest key greater than the last one returned
		next := cursor.pool.prefixKey(results[n-1].Key)
		cursor.maxRange.Start = append(next, 0x00)
	}
	return results, err
}

// Map - run a function on all elements in the range
func (cursor *FetchCursor) Map(f func(key []byte, value []byte) error) error {
	if nil == cursor {
		return fault.ErrInvalidCount
	}

	var err error
	iterErr := cursor.iterate(func(key []byte, value []byte) bool {
		err = f(key, value)
		return nil == err
	})
	if nil != err {
		return err
	}
	return iterErr
}

// visit elements while f returns true
//
// keys and values passed to f are copies with the pool prefix removed
func (cursor *FetchCursor) iterate(f func(key []byte, value []byte) bool) error {
	store := cursor.pool.store
	store.RLock()
	defer store.RUnlock()

	if nil == store.db {
		return fault.ErrDatabaseIsClosed
	}

	iter := store.db.NewIterator(&cursor.maxRange, nil)
	defer iter.Release()

	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])              // ...

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		if !f(dataKey, dataValue) {
			break
		}
	}
	return iter.Error()
}
