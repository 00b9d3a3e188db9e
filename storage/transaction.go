// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"context"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/fault"
)

// Transaction - a set of writes that commit together
//
// reads through a transaction see its own uncommitted writes, then
// the committed state
type Transaction struct {
	store   *Store
	batch   *leveldb.Batch
	pending map[string]cacheData
	closed  bool
}

// Begin - start a new transaction
func (store *Store) Begin() *Transaction {
	return &Transaction{
		store:   store,
		batch:   new(leveldb.Batch),
		pending: make(map[string]cacheData),
	}
}

func (trx *Transaction) mustBeOpen(operation string) {
	if trx.closed {
		logger.Panicf("transaction.%s on closed transaction", operation)
	}
}

// Put - store a key/value bytes pair
func (trx *Transaction) Put(p *PoolHandle, key []byte, value []byte) {
	trx.mustBeOpen("Put")
	prefixedKey := p.prefixKey(key)
	v := make([]byte, len(value))
	copy(v, value)
	trx.batch.Put(prefixedKey, v)
	trx.pending[string(prefixedKey)] = cacheData{op: dbPut, value: v}
}

// PutN - store a uint64 as 8 byte big endian
func (trx *Transaction) PutN(p *PoolHandle, key []byte, value uint64) {
	trx.Put(p, key, encodeN(value))
}

// Delete - remove a key
func (trx *Transaction) Delete(p *PoolHandle, key []byte) {
	trx.mustBeOpen("Delete")
	prefixedKey := p.prefixKey(key)
	trx.batch.Delete(prefixedKey)
	trx.pending[string(prefixedKey)] = cacheData{op: dbDelete}
}

// Get - read a value, pending writes first
func (trx *Transaction) Get(p *PoolHandle, key []byte) []byte {
	trx.mustBeOpen("Get")
	if data, ok := trx.pending[string(p.prefixKey(key))]; ok {
		if dbDelete == data.op {
			return nil
		}
		return data.value
	}
	return p.Get(key)
}

// GetN - read a uint64 value, pending writes first
func (trx *Transaction) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	buffer := trx.Get(p, key)
	if nil == buffer {
		return 0, false
	}
	return decodeN(key, buffer), true
}

// Has - check if a key exists, pending writes first
func (trx *Transaction) Has(p *PoolHandle, key []byte) bool {
	return nil != trx.Get(p, key)
}

// IsEmpty - true if nothing has been written
func (trx *Transaction) IsEmpty() bool {
	return 0 == len(trx.pending)
}

// Commit - write all pending changes as one batch
//
// the transaction cannot be used afterwards
func (trx *Transaction) Commit() error {
	if trx.closed {
		return fault.ErrTransactionClosed
	}
	trx.closed = true

	if 0 == len(trx.pending) {
		return nil
	}

	store := trx.store
	store.Lock()
	defer store.Unlock()

	if nil == store.db {
		return fault.ErrDatabaseIsClosed
	}

	err := store.db.Write(trx.batch, nil)
	if nil != err {
		store.log.Errorf("commit error: %s", err)
		return err
	}

	for key, data := range trx.pending {
		store.cache.Set(data.op, key, data.value)
	}
	return nil
}

// Abort - discard all pending changes
func (trx *Transaction) Abort() {
	trx.closed = true
	trx.batch.Reset()
	trx.pending = nil
}

type contextKey struct{}

// WithTransaction - attach a transaction to a context so that
// collaborators can join it
func WithTransaction(ctx context.Context, trx *Transaction) context.Context {
	return context.WithValue(ctx, contextKey{}, trx)
}

// TransactionFrom - the transaction attached to a context, if any
func TransactionFrom(ctx context.Context) (*Transaction, bool) {
	trx, ok := ctx.Value(contextKey{}).(*Transaction)
	return trx, ok && nil != trx && !trx.closed
}
