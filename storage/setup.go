// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/fault"
)

// Pools - the set of exported pools
//
// note all must be exported (i.e. initial capital) or initialisation will fail
type Pools struct {
	Platform      *PoolHandle `prefix:"P"`
	Listings      *PoolHandle `prefix:"L"`
	ListingIndex  *PoolHandle `prefix:"I"`
	Rentals       *PoolHandle `prefix:"R"`
	RentalHistory *PoolHandle `prefix:"H"`
	Parties       *PoolHandle `prefix:"O"`
	Events        *PoolHandle `prefix:"E"`
	EventCount    *PoolHandle `prefix:"N"`
	Balances      *PoolHandle `prefix:"B"`
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Store - an open database and its pools
type Store struct {
	sync.RWMutex
	log   *logger.L
	db    *leveldb.DB
	cache Cache
	Pool  Pools
}

// Open - open or create the database and set up the pools
func Open(database string, readOnly bool) (*Store, error) {
	log := logger.New("storage")

	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(database, opt)
	if nil != err {
		log.Errorf("open: %q  error: %s", database, err)
		return nil, err
	}

	store := &Store{
		log:   log,
		db:    db,
		cache: newCache(),
	}

	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	version, err := store.getVersion()
	if nil != err {
		return nil, err
	}
	if version > currentDBVersion {
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return nil, fault.ErrDatabaseVersion
	}
	if 0 == version {
		if readOnly {
			return nil, fault.ErrDatabaseVersion
		}
		err = store.putVersion(currentDBVersion)
		if nil != err {
			return nil, err
		}
	}

	err = store.setupPools()
	if nil != err {
		return nil, err
	}

	log.Infof("opened: %q  version: %d", database, currentDBVersion)

	ok = true // prevent db close
	return store, nil
}

// scan the pool struct tags and create a handle for each field
func (store *Store) setupPools() error {
	poolType := reflect.TypeOf(store.Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&store.Pool).Elem()

	seen := make(map[byte]string)
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo.Name, prefixTag)
		}

		prefix := prefixTag[0]
		if name, ok := seen[prefix]; ok {
			return fmt.Errorf("pool: %s has same prefix as: %s", fieldInfo.Name, name)
		}
		seen[prefix] = fieldInfo.Name

		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			store:  store,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}
	return nil
}

// Close - close the database
func (store *Store) Close() {
	store.Lock()
	defer store.Unlock()

	if nil != store.db {
		store.db.Close()
		store.db = nil
		store.cache.Clear()
		store.log.Info("closed")
	}
}

func (store *Store) getVersion() (int, error) {
	versionValue, err := store.db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		store.log.Criticalf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
		return 0, fault.ErrDatabaseVersion
	}

	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func (store *Store) putVersion(version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))
	return store.db.Put(versionKey, currentVersion, nil)
}
