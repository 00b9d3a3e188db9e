// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - LevelDB record storage
//
// One database is split into pools, each pool owning all keys that
// begin with its prefix byte. Reads go through a short lived cache;
// all writes go through a Transaction which commits as a single
// LevelDB batch.
package storage
