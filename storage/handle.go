// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"
)

// PoolHandle - the structure of a pool handle
type PoolHandle struct {
	prefix byte
	limit  []byte
	store  *Store
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Get - read a committed value for a given key
//
// returns nil if not found
func (p *PoolHandle) Get(key []byte) []byte {
	p.store.RLock()
	defer p.store.RUnlock()
	return p.get(key)
}

// must be called with the store lock held
func (p *PoolHandle) get(key []byte) []byte {
	if nil == p.store.db {
		return nil
	}

	prefixedKey := p.prefixKey(key)
	if value, found := p.store.cache.Get(string(prefixedKey)); found {
		return value
	} else if nil == value {
		// cached as deleted
		return nil
	}

	value, err := p.store.db.Get(prefixedKey, nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("pool.Get", err)

	p.store.cache.Set(dbPut, string(prefixedKey), value)
	return value
}

// GetN - read a record and decode first 8 bytes as big endian uint64
//
// second parameter is false if record was not found
// panics if not 8 (or more) bytes in the record
func (p *PoolHandle) GetN(key []byte) (uint64, bool) {
	buffer := p.Get(key)
	if nil == buffer {
		return 0, false
	}
	return decodeN(key, buffer), true
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	return nil != p.Get(key)
}

func decodeN(key []byte, buffer []byte) uint64 {
	if len(buffer) < 8 {
		logger.Panicf("pool.GetN truncated record for: %x: %x", key, buffer)
	}
	return binary.BigEndian.Uint64(buffer[:8])
}

func encodeN(value uint64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	return buffer
}
