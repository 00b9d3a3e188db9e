// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instruction

import (
	"encoding/json"

	"github.com/bitmark-inc/rentald/fault"
)

// Envelope - JSON form of an instruction for RPC transport
type Envelope struct {
	Type      string          `json:"type"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// instruction names, as used in the envelope and in metrics labels
var names = map[TagType]string{
	InitialiseTag:      "initialize",
	CreateListingTag:   "create_listing",
	UpdateListingTag:   "update_listing",
	VerifyListingTag:   "verify_listing",
	RentPropertyTag:    "rent_property",
	PayRentTag:         "pay_rent",
	TerminateRentalTag: "terminate_rental",
	AdjustRentalTag:    "adjust_rental",
	RenewRentalTag:     "renew_rental",
	ApproveTransferTag: "approve_transfer",
	TransferRentalTag:  "transfer_rental",
	ExtendRentalTag:    "extend_rental",
	ExpireRentalTag:    "expire_rental",
}

// Name - the external name of an instruction
func Name(i Instruction) string {
	if nil == i {
		return "invalid"
	}
	if s, ok := names[i.Tag()]; ok {
		return s
	}
	return "invalid"
}

// empty value of each variant, ready to decode into
func newVariant(name string) (Instruction, error) {
	switch name {
	case "initialize":
		return &Initialise{}, nil
	case "create_listing":
		return &CreateListing{}, nil
	case "update_listing":
		return &UpdateListing{}, nil
	case "verify_listing":
		return &VerifyListing{}, nil
	case "rent_property":
		return &RentProperty{}, nil
	case "pay_rent":
		return &PayRent{}, nil
	case "terminate_rental":
		return &TerminateRental{}, nil
	case "adjust_rental":
		return &AdjustRental{}, nil
	case "renew_rental":
		return &RenewRental{}, nil
	case "approve_transfer":
		return &ApproveTransfer{}, nil
	case "transfer_rental":
		return &TransferRental{}, nil
	case "extend_rental":
		return &ExtendRental{}, nil
	case "expire_rental":
		return &ExpireRental{}, nil
	default:
		return nil, fault.ErrUnknownInstruction
	}
}

// Encode - wrap an instruction in an envelope
func Encode(i Instruction) (*Envelope, error) {
	name := Name(i)
	if "invalid" == name {
		return nil, fault.ErrUnknownInstruction
	}
	arguments, err := json.Marshal(i)
	if nil != err {
		return nil, err
	}
	return &Envelope{
		Type:      name,
		Arguments: arguments,
	}, nil
}

// Decode - recover the typed instruction from an envelope
func (envelope *Envelope) Decode() (Instruction, error) {
	i, err := newVariant(envelope.Type)
	if nil != err {
		return nil, err
	}
	if 0 != len(envelope.Arguments) {
		err = json.Unmarshal(envelope.Arguments, i)
		if nil != err {
			return nil, fault.ErrMissingParameters
		}
	}
	return i, nil
}
