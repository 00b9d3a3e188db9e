// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/rentald/util"
)

var varint64Tests = []struct {
	value   uint64
	encoded []byte
}{
	{0, []byte{0x00}},
	{1, []byte{0x01}},
	{127, []byte{0x7f}},
	{128, []byte{0x80, 0x01}},
	{137, []byte{0x89, 0x01}},
	{255, []byte{0xff, 0x01}},
	{256, []byte{0x80, 0x02}},
	{16383, []byte{0xff, 0x7f}},
	{16384, []byte{0x80, 0x80, 0x01}},
	{0x7fffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}},
	{0x8000000000000000, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}},
	{0xfffffffffffffffe, []byte{0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
}

var varint64TruncatedTests = [][]byte{
	{},
	{0x80},
	{0xff},
	{0x80, 0x80},
	{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
}

func TestToVarint64(t *testing.T) {
	for i, item := range varint64Tests {
		assert.Equal(t, item.encoded, util.ToVarint64(item.value), "%d: ToVarint64(%x)", i, item.value)
	}
}

func TestAppendVarint64(t *testing.T) {
	prefix := []byte{0xaa, 0xbb}
	for i, item := range varint64Tests {
		b := append([]byte{}, prefix...)
		b = util.AppendVarint64(b, item.value)
		assert.Equal(t, prefix, b[:2], "%d: prefix", i)
		assert.Equal(t, item.encoded, b[2:], "%d: AppendVarint64(%x)", i, item.value)
	}
}

func TestFromVarint64(t *testing.T) {
	for i, item := range varint64Tests {
		result1, count1 := util.FromVarint64(item.encoded)
		assert.Equal(t, item.value, result1, "%d: FromVarint64(%x)", i, item.encoded)

		suffix := []byte{0xff, 0x97, 0x23}
		b := append(append([]byte{}, item.encoded...), suffix...)

		result2, count2 := util.FromVarint64(b)
		assert.Equal(t, item.value, result2, "%d: FromVarint64(%x)", i, b)
		assert.Equal(t, count1, count2, "%d: count", i)
		assert.Equal(t, suffix, b[count2:], "%d: suffix", i)
	}

	for i, item := range varint64TruncatedTests {
		result, count := util.FromVarint64(item)
		assert.Equal(t, uint64(0), result, "%d: truncated value", i)
		assert.Equal(t, 0, count, "%d: truncated count", i)
	}
}

func TestClippedVarint64(t *testing.T) {
	tests := []struct {
		encoded []byte
		min     int
		max     int
		value   int
		count   int
	}{
		{[]byte{0x05}, 1, 10, 5, 1},
		{[]byte{0x00}, 1, 10, 0, 0},
		{[]byte{0x0b}, 1, 10, 0, 0},
		{[]byte{0x80, 0x01}, 0, 200, 128, 2},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, 0, 8192, 0, 0},
		{[]byte{0x05}, 10, 1, 0, 0},
	}

	for i, item := range tests {
		value, count := util.ClippedVarint64(item.encoded, item.min, item.max)
		assert.Equal(t, item.value, value, "%d: value", i)
		assert.Equal(t, item.count, count, "%d: count", i)
	}
}

func TestAppendFields(t *testing.T) {
	b := util.AppendString(nil, "abc")
	b = util.AppendBytes(b, []byte{0x01, 0x02})
	b = util.AppendBool(b, true)
	b = util.AppendBool(b, false)

	expected := []byte{0x03, 'a', 'b', 'c', 0x02, 0x01, 0x02, 0x01, 0x00}
	assert.Equal(t, expected, b, "packed fields")
}
