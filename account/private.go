// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"crypto/rand"
	"io"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/rentald/fault"
)

// PrivateKey - an ed25519 signing key
type PrivateKey struct {
	key ed25519.PrivateKey
}

// NewPrivateKey - generate a random key pair
func NewPrivateKey() (*PrivateKey, error) {
	return NewPrivateKeyFrom(rand.Reader)
}

// NewPrivateKeyFrom - generate a key pair from a specific random source
func NewPrivateKeyFrom(random io.Reader) (*PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(random)
	if nil != err {
		return nil, err
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromSeed - deterministic key pair from a 32 byte seed
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if ed25519.SeedSize != len(seed) {
		return nil, fault.ErrInvalidAccount
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// PrivateKeyFromBase58 - decode the Base58 seed form produced by String
func PrivateKeyFromBase58(s string) (*PrivateKey, error) {
	seed, err := base58.Decode(s)
	if nil != err {
		return nil, fault.ErrInvalidAccount
	}
	return PrivateKeyFromSeed(seed)
}

// Account - the public identity of this key
func (privateKey *PrivateKey) Account() Account {
	a := Account{}
	copy(a[:], privateKey.key.Public().(ed25519.PublicKey))
	return a
}

// Sign - produce an ed25519 signature over message
func (privateKey *PrivateKey) Sign(message []byte) Signature {
	return ed25519.Sign(privateKey.key, message)
}

// String - Base58 encoded seed
func (privateKey *PrivateKey) String() string {
	return base58.Encode(privateKey.key.Seed())
}
