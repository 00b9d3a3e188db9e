// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package address - deterministic record addresses
//
// An address is the SHA3-256 digest of a fixed program separator
// followed by a domain tag, a parent and a discriminator, each
// preceded by its Varint64 length. The length prefixes keep different
// (tag, parent, discriminator) triples from ever producing the same
// byte string.
package address

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/util"
)

// MaximumSeedLength - longest parent or discriminator accepted
const MaximumSeedLength = 32

// domain tags
const (
	PlatformTag = "platform"
	ListingTag  = "listing"
	RentalTag   = "rental"
	EscrowTag   = "escrow"
)

var separator = []byte("rentald/address/v1")

// Derive - compute the address of a record
func Derive(tag string, parent []byte, discriminator []byte) (account.Account, error) {
	if "" == tag {
		return account.Zero, fault.ErrEmptyDomainTag
	}
	if len(parent) > MaximumSeedLength || len(discriminator) > MaximumSeedLength {
		return account.Zero, fault.ErrInvalidDiscriminator
	}

	buffer := make([]byte, 0, len(separator)+len(tag)+len(parent)+len(discriminator)+4)
	buffer = append(buffer, separator...)
	buffer = util.AppendString(buffer, tag)
	buffer = util.AppendBytes(buffer, parent)
	buffer = util.AppendBytes(buffer, discriminator)

	return account.Account(sha3.Sum256(buffer)), nil
}

// Platform - the singleton address for a deployment
func Platform(deployment string) (account.Account, error) {
	return Derive(PlatformTag, []byte(deployment), nil)
}

// Listing - address of the listing with a sequential id
func Listing(platform account.Account, id uint64) account.Account {
	n := make([]byte, 8)
	binary.BigEndian.PutUint64(n, id)
	return mustDerive(ListingTag, platform[:], n)
}

// Rental - address of the rental of a listing by a tenant
func Rental(listing account.Account, tenant account.Account) account.Account {
	return mustDerive(RentalTag, listing[:], tenant[:])
}

// Escrow - account holding the deposit of a rental
func Escrow(rental account.Account) account.Account {
	return mustDerive(EscrowTag, rental[:], nil)
}

// fixed size inputs cannot fail
func mustDerive(tag string, parent []byte, discriminator []byte) account.Account {
	a, err := Derive(tag, parent, discriminator)
	if nil != err {
		panic(err)
	}
	return a
}
