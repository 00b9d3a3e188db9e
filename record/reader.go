// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/util"
)

// sequential field decoder
//
// the first failure is kept in err and all later reads return zero values
type reader struct {
	buffer []byte
	n      int
	err    error
}

func (r *reader) fail(err error) {
	if nil == r.err {
		r.err = err
	}
}

func (r *reader) uint64() uint64 {
	if nil != r.err {
		return 0
	}
	value, count := util.FromVarint64(r.buffer[r.n:])
	if 0 == count {
		r.fail(fault.ErrTruncatedRecord)
		return 0
	}
	r.n += count
	return value
}

func (r *reader) int64() int64 {
	return int64(r.uint64())
}

// a value that must fit the given number of bits
func (r *reader) bounded(bits uint) uint64 {
	value := r.uint64()
	if value >= 1<<bits {
		r.fail(fault.ErrNotRecordPack)
		return 0
	}
	return value
}

func (r *reader) bool() bool {
	if nil != r.err {
		return false
	}
	if r.n >= len(r.buffer) {
		r.fail(fault.ErrTruncatedRecord)
		return false
	}
	b := r.buffer[r.n]
	r.n += 1
	switch b {
	case 0x00:
		return false
	case 0x01:
		return true
	default:
		r.fail(fault.ErrNotRecordPack)
		return false
	}
}

func (r *reader) account() account.Account {
	a := account.Account{}
	if nil != r.err {
		return a
	}
	if r.n+account.AccountSize > len(r.buffer) {
		r.fail(fault.ErrTruncatedRecord)
		return a
	}
	copy(a[:], r.buffer[r.n:r.n+account.AccountSize])
	r.n += account.AccountSize
	return a
}

func (r *reader) string(maximum int) string {
	if nil != r.err {
		return ""
	}
	length, count := util.FromVarint64(r.buffer[r.n:])
	if 0 == count {
		r.fail(fault.ErrTruncatedRecord)
		return ""
	}
	if length > uint64(maximum) {
		r.fail(fault.ErrNotRecordPack)
		return ""
	}
	r.n += count
	end := r.n + int(length)
	if end > len(r.buffer) {
		r.fail(fault.ErrTruncatedRecord)
		return ""
	}
	s := string(r.buffer[r.n:end])
	r.n = end
	return s
}

func (r *reader) strings(maximumCount int, maximumLength int) []string {
	count := r.uint64()
	if nil != r.err {
		return nil
	}
	if count > uint64(maximumCount) {
		r.fail(fault.ErrNotRecordPack)
		return nil
	}
	if 0 == count {
		return nil
	}
	result := make([]string, 0, count)
	for i := uint64(0); i < count; i += 1 {
		result = append(result, r.string(maximumLength))
	}
	if nil != r.err {
		return nil
	}
	return result
}
