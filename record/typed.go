// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/bitmark-inc/rentald/fault"
)

// typed unpacking for storage readers, trailing bytes are an error

// UnpackPlatform - decode a platform record
func UnpackPlatform(packed Packed) (*Platform, error) {
	r, err := unpackExact(packed)
	if nil != err {
		return nil, err
	}
	p, ok := r.(*Platform)
	if !ok {
		return nil, fault.ErrWrongRecordTag
	}
	return p, nil
}

// UnpackListing - decode a listing record
func UnpackListing(packed Packed) (*Listing, error) {
	r, err := unpackExact(packed)
	if nil != err {
		return nil, err
	}
	l, ok := r.(*Listing)
	if !ok {
		return nil, fault.ErrWrongRecordTag
	}
	return l, nil
}

// UnpackRental - decode a rental record
func UnpackRental(packed Packed) (*Rental, error) {
	r, err := unpackExact(packed)
	if nil != err {
		return nil, err
	}
	rental, ok := r.(*Rental)
	if !ok {
		return nil, fault.ErrWrongRecordTag
	}
	return rental, nil
}

// UnpackEvent - decode a change log entry
func UnpackEvent(packed Packed) (*Event, error) {
	r, err := unpackExact(packed)
	if nil != err {
		return nil, err
	}
	e, ok := r.(*Event)
	if !ok {
		return nil, fault.ErrWrongRecordTag
	}
	return e, nil
}

func unpackExact(packed Packed) (Record, error) {
	r, n, err := packed.Unpack()
	if nil != err {
		return nil, err
	}
	if n != len(packed) {
		return nil, fault.ErrNotRecordPack
	}
	return r, nil
}
