// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/rentald/fault"
)

// AccountSize - number of bytes in an account
const AccountSize = ed25519.PublicKeySize

// Account - a 32 byte identity
//
// holds either an ed25519 public key (a principal that can sign) or
// a derived record address (which has no private key)
type Account [AccountSize]byte

// Zero - the empty account, never a valid principal
var Zero Account

// FromBytes - convert a byte slice to an account
func FromBytes(b []byte) (Account, error) {
	a := Account{}
	if AccountSize != len(b) {
		return a, fault.ErrInvalidAccount
	}
	copy(a[:], b)
	return a, nil
}

// FromBase58 - convert a Base58 encoded string to an account
func FromBase58(s string) (Account, error) {
	b, err := base58.Decode(s)
	if nil != err {
		return Account{}, fault.ErrInvalidAccount
	}
	return FromBytes(b)
}

// Bytes - a copy of the account as a byte slice
func (account Account) Bytes() []byte {
	b := make([]byte, AccountSize)
	copy(b, account[:])
	return b
}

// IsZero - true for the empty account
func (account Account) IsZero() bool {
	return Zero == account
}

// Compare - byte order of two accounts, as bytes.Compare
func (account Account) Compare(other Account) int {
	return bytes.Compare(account[:], other[:])
}

// String - Base58 form of an account for the fmt package (for %s)
func (account Account) String() string {
	return base58.Encode(account[:])
}

// GoString - account form for the fmt package (for %#v)
func (account Account) GoString() string {
	return "<account:" + base58.Encode(account[:]) + ">"
}

// MarshalText - convert account to Base58 text
func (account Account) MarshalText() ([]byte, error) {
	return []byte(base58.Encode(account[:])), nil
}

// UnmarshalText - convert Base58 text to an account
func (account *Account) UnmarshalText(s []byte) error {
	a, err := FromBase58(string(s))
	if nil != err {
		return err
	}
	*account = a
	return nil
}

// CheckSignature - verify an ed25519 signature by this account over message
func (account Account) CheckSignature(message []byte, signature Signature) error {
	if ed25519.SignatureSize != len(signature) {
		return fault.ErrInvalidSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(account[:]), message, signature) {
		return fault.ErrInvalidSignature
	}
	return nil
}
