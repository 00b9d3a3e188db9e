// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/util"
)

// Platform - the singleton record of a deployment
type Platform struct {
	Authority     account.Account `json:"authority"`
	TotalListings uint64          `json:"totalListings"`
	TotalRentals  uint64          `json:"totalRentals"`
	TotalVolume   uint64          `json:"totalVolume,string"`
	CreatedAt     int64           `json:"createdAt"`
}

// Pack - Varint64(tag) followed by fields in order as struct above
func (platform *Platform) Pack() (Packed, error) {
	message := util.ToVarint64(uint64(PlatformTag))
	message = append(message, platform.Authority[:]...)
	message = util.AppendVarint64(message, platform.TotalListings)
	message = util.AppendVarint64(message, platform.TotalRentals)
	message = util.AppendVarint64(message, platform.TotalVolume)
	message = util.AppendVarint64(message, uint64(platform.CreatedAt))
	return message, nil
}

func (r *reader) platform() *Platform {
	return &Platform{
		Authority:     r.account(),
		TotalListings: r.uint64(),
		TotalRentals:  r.uint64(),
		TotalVolume:   r.uint64(),
		CreatedAt:     r.int64(),
	}
}

// RecordListingCreated - allocate the next listing id
func (platform *Platform) RecordListingCreated() (uint64, error) {
	id := platform.TotalListings
	n, err := AddUint64(platform.TotalListings, 1)
	if nil != err {
		return 0, err
	}
	platform.TotalListings = n
	return id, nil
}

// RecordRentalCreated - count a new rental and its initial volume
func (platform *Platform) RecordRentalCreated(volume uint64) error {
	n, err := AddUint64(platform.TotalRentals, 1)
	if nil != err {
		return err
	}
	v, err := AddUint64(platform.TotalVolume, volume)
	if nil != err {
		return err
	}
	platform.TotalRentals = n
	platform.TotalVolume = v
	return nil
}

// RecordVolume - add to the total volume
func (platform *Platform) RecordVolume(volume uint64) error {
	v, err := AddUint64(platform.TotalVolume, volume)
	if nil != err {
		return err
	}
	platform.TotalVolume = v
	return nil
}
