// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package instruction - the closed set of ledger state transitions
//
// Each variant carries its own typed arguments. The processor
// dispatches on the concrete type with a type switch; Pack gives the
// canonical bytes that a caller signs.
package instruction

import (
	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/record"
	"github.com/bitmark-inc/rentald/util"
)

// TagType - type code for instructions
type TagType uint64

// enumerate the instruction types
// this is encoded a Varint64 at start of the packed form
const (
	// null marks beginning of list - not used as an instruction type
	NullTag = TagType(iota)

	InitialiseTag      = TagType(iota)
	CreateListingTag   = TagType(iota)
	UpdateListingTag   = TagType(iota)
	VerifyListingTag   = TagType(iota)
	RentPropertyTag    = TagType(iota)
	PayRentTag         = TagType(iota)
	TerminateRentalTag = TagType(iota)
	AdjustRentalTag    = TagType(iota)
	RenewRentalTag     = TagType(iota)
	ApproveTransferTag = TagType(iota)
	TransferRentalTag  = TagType(iota)
	ExtendRentalTag    = TagType(iota)
	ExpireRentalTag    = TagType(iota)

	// this item must be last
	InvalidTag = TagType(iota)
)

// Instruction - one of the variants below
type Instruction interface {
	Tag() TagType
	Pack() []byte
}

// Initialise - create the platform, the caller becomes its authority
type Initialise struct{}

// CreateListing - offer a property, the caller becomes its authority
type CreateListing struct {
	Terms record.ListingTerms `json:"terms"`
}

// UpdateListing - replace the terms of an existing listing
type UpdateListing struct {
	Listing account.Account    `json:"listing"`
	Terms   record.ListingTerms `json:"terms"`
}

// VerifyListing - platform authority marks a listing verified
type VerifyListing struct {
	Listing account.Account `json:"listing"`
}

// RentProperty - the caller rents an available listing
type RentProperty struct {
	Listing  account.Account `json:"listing"`
	RentalID uint64          `json:"rentalId"`
}

// PayRent - the tenant pays one month of rent
type PayRent struct {
	Rental account.Account `json:"rental"`
}

// TerminateRental - either party ends a rental
type TerminateRental struct {
	Rental      account.Account `json:"rental"`
	Disposition Disposition     `json:"disposition"`
	Refund      uint64          `json:"refund,string"`
}

// AdjustRental - change price and end date
type AdjustRental struct {
	Rental     account.Account `json:"rental"`
	NewPrice   uint64          `json:"newPrice,string"`
	NewEndDate int64           `json:"newEndDate"`
	Reason     string          `json:"reason"`
}

// RenewRental - the tenant extends by whole months near the end date
type RenewRental struct {
	Rental    account.Account `json:"rental"`
	Months    uint8           `json:"months"`
	NewPrice  uint64          `json:"newPrice,string"`
	AutoRenew bool            `json:"autoRenew"`
}

// ApproveTransfer - the landlord consents to a specific new tenant
//
// a zero NewTenant withdraws consent
type ApproveTransfer struct {
	Rental    account.Account `json:"rental"`
	NewTenant account.Account `json:"newTenant"`
}

// TransferRental - the tenant hands the rental to an approved new tenant
type TransferRental struct {
	Rental    account.Account `json:"rental"`
	NewTenant account.Account `json:"newTenant"`
	Fee       uint64          `json:"fee,string"`
}

// ExtendRental - the tenant pushes the schedule forward by days
type ExtendRental struct {
	Rental account.Account `json:"rental"`
	Days   uint16          `json:"days"`
	Reason string          `json:"reason"`
}

// ExpireRental - close a rental that is past its end date
type ExpireRental struct {
	Rental account.Account `json:"rental"`
}

// Tag - the type code of each variant
func (*Initialise) Tag() TagType      { return InitialiseTag }
func (*CreateListing) Tag() TagType   { return CreateListingTag }
func (*UpdateListing) Tag() TagType   { return UpdateListingTag }
func (*VerifyListing) Tag() TagType   { return VerifyListingTag }
func (*RentProperty) Tag() TagType    { return RentPropertyTag }
func (*PayRent) Tag() TagType         { return PayRentTag }
func (*TerminateRental) Tag() TagType { return TerminateRentalTag }
func (*AdjustRental) Tag() TagType    { return AdjustRentalTag }
func (*RenewRental) Tag() TagType     { return RenewRentalTag }
func (*ApproveTransfer) Tag() TagType { return ApproveTransferTag }
func (*TransferRental) Tag() TagType  { return TransferRentalTag }
func (*ExtendRental) Tag() TagType    { return ExtendRentalTag }
func (*ExpireRental) Tag() TagType    { return ExpireRentalTag }

// Pack - Varint64(tag) followed by the arguments in declaration order

func (i *Initialise) Pack() []byte {
	return util.ToVarint64(uint64(InitialiseTag))
}

func (i *CreateListing) Pack() []byte {
	message := util.ToVarint64(uint64(CreateListingTag))
	return appendTerms(message, &i.Terms)
}

func (i *UpdateListing) Pack() []byte {
	message := util.ToVarint64(uint64(UpdateListingTag))
	message = append(message, i.Listing[:]...)
	return appendTerms(message, &i.Terms)
}

func (i *VerifyListing) Pack() []byte {
	message := util.ToVarint64(uint64(VerifyListingTag))
	return append(message, i.Listing[:]...)
}

func (i *RentProperty) Pack() []byte {
	message := util.ToVarint64(uint64(RentPropertyTag))
	message = append(message, i.Listing[:]...)
	return util.AppendVarint64(message, i.RentalID)
}

func (i *PayRent) Pack() []byte {
	message := util.ToVarint64(uint64(PayRentTag))
	return append(message, i.Rental[:]...)
}

func (i *TerminateRental) Pack() []byte {
	message := util.ToVarint64(uint64(TerminateRentalTag))
	message = append(message, i.Rental[:]...)
	message = util.AppendVarint64(message, uint64(i.Disposition))
	return util.AppendVarint64(message, i.Refund)
}

func (i *AdjustRental) Pack() []byte {
	message := util.ToVarint64(uint64(AdjustRentalTag))
	message = append(message, i.Rental[:]...)
	message = util.AppendVarint64(message, i.NewPrice)
	message = util.AppendVarint64(message, uint64(i.NewEndDate))
	return util.AppendString(message, i.Reason)
}

func (i *RenewRental) Pack() []byte {
	message := util.ToVarint64(uint64(RenewRentalTag))
	message = append(message, i.Rental[:]...)
	message = util.AppendVarint64(message, uint64(i.Months))
	message = util.AppendVarint64(message, i.NewPrice)
	return util.AppendBool(message, i.AutoRenew)
}

func (i *ApproveTransfer) Pack() []byte {
	message := util.ToVarint64(uint64(ApproveTransferTag))
	message = append(message, i.Rental[:]...)
	return append(message, i.NewTenant[:]...)
}

func (i *TransferRental) Pack() []byte {
	message := util.ToVarint64(uint64(TransferRentalTag))
	message = append(message, i.Rental[:]...)
	message = append(message, i.NewTenant[:]...)
	return util.AppendVarint64(message, i.Fee)
}

func (i *ExtendRental) Pack() []byte {
	message := util.ToVarint64(uint64(ExtendRentalTag))
	message = append(message, i.Rental[:]...)
	message = util.AppendVarint64(message, uint64(i.Days))
	return util.AppendString(message, i.Reason)
}

func (i *ExpireRental) Pack() []byte {
	message := util.ToVarint64(uint64(ExpireRentalTag))
	return append(message, i.Rental[:]...)
}

func appendTerms(message []byte, terms *record.ListingTerms) []byte {
	message = util.AppendString(message, terms.Title)
	message = util.AppendString(message, terms.Description)
	message = util.AppendString(message, terms.Location)
	message = util.AppendVarint64(message, terms.Price)
	message = util.AppendVarint64(message, terms.Deposit)
	message = util.AppendVarint64(message, uint64(terms.Size))
	message = util.AppendVarint64(message, uint64(terms.Rooms))
	message = util.AppendVarint64(message, uint64(terms.Bathrooms))
	message = util.AppendVarint64(message, uint64(terms.Floor))
	message = util.AppendVarint64(message, uint64(terms.TotalFloors))
	message = util.AppendVarint64(message, uint64(terms.ContractLength))
	message = util.AppendVarint64(message, uint64(terms.MoveInDate))
	message = util.AppendVarint64(message, uint64(len(terms.Amenities)))
	for _, a := range terms.Amenities {
		message = util.AppendString(message, a)
	}
	return message
}

// SigningMessage - the bytes a caller signs to submit an instruction
//
// binds the deployment and a timestamp so that a signature cannot be
// replayed against another deployment or outside its time window
func SigningMessage(deployment string, i Instruction, timestamp int64) []byte {
	message := util.AppendString(nil, deployment)
	message = append(message, i.Pack()...)
	return util.AppendVarint64(message, uint64(timestamp))
}
