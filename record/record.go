// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record - persisted ledger records
//
// Every record is packed as Varint64(tag) followed by its fields in
// declaration order. Integers are Varint64, identities are 32 raw
// bytes, strings and lists are preceded by a Varint64 count and are
// bounded so that the stored size of a record has a fixed upper limit.
package record

import (
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/util"
)

// TagType - type code for records
type TagType uint64

// enumerate the possible record types
// this is encoded a Varint64 at start of "Packed"
const (
	// null marks beginning of list - not used as a record type
	NullTag = TagType(iota)

	PlatformTag = TagType(iota)
	ListingTag  = TagType(iota)
	RentalTag   = TagType(iota)
	EventTag    = TagType(iota)

	// this item must be last
	InvalidTag = TagType(iota)
)

// Packed - packed records are just a byte slice
type Packed []byte

// byte budgets of the variable length fields
const (
	MaximumTitleLength       = 100
	MaximumDescriptionLength = 500
	MaximumLocationLength    = 200
	MaximumAmenities         = 20
	MaximumAmenityLength     = 32
	MaximumReasonLength      = 200
)

// accepted ranges of the property description, all starting at one
const (
	MaximumSize        = 1000
	MaximumRooms       = 10
	MaximumBathrooms   = 5
	MaximumTotalFloors = 100
)

// time constants in seconds
const (
	SecondsPerDay   = 24 * 60 * 60
	SecondsPerMonth = 30 * SecondsPerDay
)

// Record - any of the packed record types
type Record interface {
	Pack() (Packed, error)
}

// Unpack - turn a byte slice into a record
//
// must cast result to correct type
//
// e.g.
//   switch r := result.(type) {
//   case *record.Rental:
func (record Packed) Unpack() (Record, int, error) {
	tag, n := util.ClippedVarint64(record, 1, int(InvalidTag)-1)
	if 0 == n {
		return nil, 0, fault.ErrNotRecordPack
	}

	r := &reader{buffer: record, n: n}

	var result Record
	switch TagType(tag) {
	case PlatformTag:
		result = r.platform()
	case ListingTag:
		result = r.listing()
	case RentalTag:
		result = r.rental()
	case EventTag:
		result = r.event()
	default:
		return nil, 0, fault.ErrNotRecordPack
	}

	if nil != r.err {
		return nil, 0, r.err
	}
	return result, r.n, nil
}

// AddUint64 - addition that fails instead of wrapping
func AddUint64(a uint64, b uint64) (uint64, error) {
	c := a + b
	if c < a {
		return 0, fault.ErrOverflow
	}
	return c, nil
}

// MulUint64 - multiplication that fails instead of wrapping
func MulUint64(a uint64, b uint64) (uint64, error) {
	if 0 == a || 0 == b {
		return 0, nil
	}
	c := a * b
	if c/b != a {
		return 0, fault.ErrOverflow
	}
	return c, nil
}
