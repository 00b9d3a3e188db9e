// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/fixtures"
	"github.com/bitmark-inc/rentald/storage"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

// configure for testing
func setup(t *testing.T) *storage.Store {
	name := filepath.Join(t.TempDir(), "test.leveldb")
	store, err := storage.Open(name, storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestPutGet(t *testing.T) {
	store := setup(t)
	pool := store.Pool.Listings

	assert.Nil(t, pool.Get([]byte("missing")), "missing key")
	assert.False(t, pool.Has([]byte("missing")), "missing key")

	trx := store.Begin()
	trx.Put(pool, []byte("key-one"), []byte("data-one"))
	trx.PutN(store.Pool.EventCount, []byte("key-one"), 42)

	// not visible before commit
	assert.Nil(t, pool.Get([]byte("key-one")), "uncommitted")

	// visible inside the transaction
	assert.Equal(t, []byte("data-one"), trx.Get(pool, []byte("key-one")), "read own write")
	n, found := trx.GetN(store.Pool.EventCount, []byte("key-one"))
	assert.True(t, found, "read own counter")
	assert.Equal(t, uint64(42), n, "counter value")

	assert.Nil(t, trx.Commit(), "commit")

	assert.Equal(t, []byte("data-one"), pool.Get([]byte("key-one")), "committed")
	n, found = store.Pool.EventCount.GetN([]byte("key-one"))
	assert.True(t, found, "committed counter")
	assert.Equal(t, uint64(42), n, "committed counter value")

	// same key in a different pool is a different record
	assert.Nil(t, store.Pool.Rentals.Get([]byte("key-one")), "pool separation")
}

func TestAbort(t *testing.T) {
	store := setup(t)
	pool := store.Pool.Rentals

	trx := store.Begin()
	trx.Put(pool, []byte("a"), []byte("1"))
	trx.Abort()

	assert.Nil(t, pool.Get([]byte("a")), "aborted write")
	assert.Equal(t, fault.ErrTransactionClosed, trx.Commit(), "commit after abort")
}

func TestDelete(t *testing.T) {
	store := setup(t)
	pool := store.Pool.Parties

	trx := store.Begin()
	trx.Put(pool, []byte("a"), []byte("1"))
	assert.Nil(t, trx.Commit(), "commit")
	assert.True(t, pool.Has([]byte("a")), "stored")

	trx = store.Begin()
	trx.Delete(pool, []byte("a"))
	assert.False(t, trx.Has(pool, []byte("a")), "deleted inside transaction")
	assert.True(t, pool.Has([]byte("a")), "still committed")
	assert.Nil(t, trx.Commit(), "commit")

	assert.False(t, pool.Has([]byte("a")), "deleted")
}

func TestReopen(t *testing.T) {
	name := filepath.Join(t.TempDir(), "reopen.leveldb")

	store, err := storage.Open(name, storage.ReadWrite)
	assert.Nil(t, err, "open")
	trx := store.Begin()
	trx.Put(store.Pool.Platform, []byte("p"), []byte("platform"))
	assert.Nil(t, trx.Commit(), "commit")
	store.Close()

	store, err = storage.Open(name, storage.ReadOnly)
	assert.Nil(t, err, "reopen read only")
	defer store.Close()
	assert.Equal(t, []byte("platform"), store.Pool.Platform.Get([]byte("p")), "persisted")
}

func TestReadOnlyMissing(t *testing.T) {
	name := filepath.Join(t.TempDir(), "missing.leveldb")
	_, err := storage.Open(name, storage.ReadOnly)
	assert.NotNil(t, err, "read only open of missing database")
}

func TestFetchCursor(t *testing.T) {
	store := setup(t)
	pool := store.Pool.ListingIndex

	keys := []string{"key-a", "key-b", "key-c", "key-d", "key-e"}
	trx := store.Begin()
	for _, k := range keys {
		trx.Put(pool, []byte(k), []byte("v-"+k))
	}
	// neighbouring pool must not leak into the range
	trx.Put(store.Pool.Listings, []byte("key-z"), []byte("other"))
	assert.Nil(t, trx.Commit(), "commit")

	cursor := pool.NewFetchCursor()
	first, err := cursor.Fetch(2)
	assert.Nil(t, err, "fetch")
	assert.Equal(t, 2, len(first), "first batch")
	assert.Equal(t, []byte("key-a"), first[0].Key, "first key")
	assert.Equal(t, []byte("v-key-a"), first[0].Value, "first value")

	rest, err := cursor.Fetch(10)
	assert.Nil(t, err, "fetch")
	assert.Equal(t, 3, len(rest), "rest")
	assert.Equal(t, []byte("key-c"), rest[0].Key, "continues after last")

	empty, err := cursor.Fetch(10)
	assert.Nil(t, err, "fetch")
	assert.Equal(t, 0, len(empty), "exhausted")

	_, err = cursor.Fetch(0)
	assert.Equal(t, fault.ErrInvalidCount, err, "zero count")

	seek, err := pool.NewFetchCursor().Seek([]byte("key-d")).Fetch(10)
	assert.Nil(t, err, "fetch")
	assert.Equal(t, 2, len(seek), "after seek")
}

func TestPrefixCursorAndMap(t *testing.T) {
	store := setup(t)
	pool := store.Pool.Parties

	trx := store.Begin()
	trx.Put(pool, []byte("alice/1"), []byte{1})
	trx.Put(pool, []byte("alice/2"), []byte{2})
	trx.Put(pool, []byte("bob/1"), []byte{3})
	assert.Nil(t, trx.Commit(), "commit")

	found := [][]byte{}
	err := pool.NewPrefixCursor([]byte("alice/")).Map(func(key []byte, value []byte) error {
		found = append(found, key)
		return nil
	})
	assert.Nil(t, err, "map")
	assert.Equal(t, [][]byte{[]byte("alice/1"), []byte("alice/2")}, found, "prefix keys")

	stop := fault.ErrInvalidCount
	count := 0
	err = pool.NewFetchCursor().Map(func(key []byte, value []byte) error {
		count += 1
		return stop
	})
	assert.Equal(t, stop, err, "map stops on error")
	assert.Equal(t, 1, count, "single visit")
}

func TestTransactionContext(t *testing.T) {
	store := setup(t)

	_, ok := storage.TransactionFrom(context.Background())
	assert.False(t, ok, "no transaction")

	trx := store.Begin()
	ctx := storage.WithTransaction(context.Background(), trx)
	found, ok := storage.TransactionFrom(ctx)
	assert.True(t, ok, "attached")
	assert.Equal(t, trx, found, "same transaction")

	trx.Abort()
	_, ok = storage.TransactionFrom(ctx)
	assert.False(t, ok, "closed transaction is not offered")
}
