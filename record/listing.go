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

// Listing - a property offered for rent
type Listing struct {
	Platform       account.Account `json:"platform"`
	ID             uint64          `json:"id"`
	Authority      account.Account `json:"authority"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Location       string          `json:"location"`
	Price          uint64          `json:"price,string"`
	Deposit        uint64          `json:"deposit,string"`
	Size           uint32          `json:"size"`
	Rooms          uint8           `json:"rooms"`
	Bathrooms      uint8           `json:"bathrooms"`
	Floor          uint8           `json:"floor"`
	TotalFloors    uint8           `json:"totalFloors"`
	ContractLength uint8           `json:"contractLength"`
	MoveInDate     int64           `json:"moveInDate"`
	Amenities      []string        `json:"amenities"`
	IsAvailable    bool            `json:"isAvailable"`
	IsVerified     bool            `json:"isVerified"`
	CreatedAt      int64           `json:"createdAt"`
	UpdatedAt      int64           `json:"updatedAt"`
}

// ListingTerms - the fields an authority supplies when creating or
// updating a listing
type ListingTerms struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	Price          uint64   `json:"price,string"`
	Deposit        uint64   `json:"deposit,string"`
	Size           uint32   `json:"size"`
	Rooms          uint8    `json:"rooms"`
	Bathrooms      uint8    `json:"bathrooms"`
	Floor          uint8    `json:"floor"`
	TotalFloors    uint8    `json:"totalFloors"`
	ContractLength uint8    `json:"contractLength"`
	MoveInDate     int64    `json:"moveInDate"`
	Amenities      []string `json:"amenities"`
}

// Validate - check the terms before they are stored
func (terms *ListingTerms) Validate() error {
	if "" == terms.Title {
		return fault.ErrTitleRequired
	}
	if len(terms.Title) > MaximumTitleLength {
		return fault.ErrTitleTooLong
	}
	if len(terms.Description) > MaximumDescriptionLength {
		return fault.ErrDescriptionTooLong
	}
	if len(terms.Location) > MaximumLocationLength {
		return fault.ErrLocationTooLong
	}
	if 0 == terms.Price {
		return fault.ErrZeroPrice
	}
	if 0 == terms.ContractLength {
		return fault.ErrContractLength
	}
	if 0 == terms.Size || terms.Size > MaximumSize {
		return fault.ErrInvalidSize
	}
	if 0 == terms.Rooms || terms.Rooms > MaximumRooms {
		return fault.ErrInvalidRooms
	}
	if 0 == terms.Bathrooms || terms.Bathrooms > MaximumBathrooms {
		return fault.ErrInvalidBathrooms
	}
	if 0 == terms.TotalFloors || terms.TotalFloors > MaximumTotalFloors {
		return fault.ErrInvalidTotalFloors
	}
	if terms.Floor > terms.TotalFloors {
		return fault.ErrFloorAboveTotal
	}
	if len(terms.Amenities) > MaximumAmenities {
		return fault.ErrTooManyAmenities
	}
	for _, a := range terms.Amenities {
		if 0 == len(a) || len(a) > MaximumAmenityLength {
			return fault.ErrAmenityLength
		}
	}
	return nil
}

// Apply - replace the descriptive and pricing fields of a listing
func (listing *Listing) Apply(terms *ListingTerms) {
	listing.Title = terms.Title
	listing.Description = terms.Description
	listing.Location = terms.Location
	listing.Price = terms.Price
	listing.Deposit = terms.Deposit
	listing.Size = terms.Size
	listing.Rooms = terms.Rooms
	listing.Bathrooms = terms.Bathrooms
	listing.Floor = terms.Floor
	listing.TotalFloors = terms.TotalFloors
	listing.ContractLength = terms.ContractLength
	listing.MoveInDate = terms.MoveInDate
	listing.Amenities = append([]string(nil), terms.Amenities...)
}

// Pack - Varint64(tag) followed by fields in order as struct above
func (listing *Listing) Pack() (Packed, error) {
	if len(listing.Title) > MaximumTitleLength {
		return nil, fault.ErrTitleTooLong
	}
	if len(listing.Description) > MaximumDescriptionLength {
		return nil, fault.ErrDescriptionTooLong
	}
	if len(listing.Location) > MaximumLocationLength {
		return nil, fault.ErrLocationTooLong
	}
	if len(listing.Amenities) > MaximumAmenities {
		return nil, fault.ErrTooManyAmenities
	}

	message := util.ToVarint64(uint64(ListingTag))
	message = append(message, listing.Platform[:]...)
	message = util.AppendVarint64(message, listing.ID)
	message = append(message, listing.Authority[:]...)
	message = util.AppendString(message, listing.Title)
	message = util.AppendString(message, listing.Description)
	message = util.AppendString(message, listing.Location)
	message = util.AppendVarint64(message, listing.Price)
	message = util.AppendVarint64(message, listing.Deposit)
	message = util.AppendVarint64(message, uint64(listing.Size))
	message = util.AppendVarint64(message, uint64(listing.Rooms))
	message = util.AppendVarint64(message, uint64(listing.Bathrooms))
	message = util.AppendVarint64(message, uint64(listing.Floor))
	message = util.AppendVarint64(message, uint64(listing.TotalFloors))
	message = util.AppendVarint64(message, uint64(listing.ContractLength))
	message = util.AppendVarint64(message, uint64(listing.MoveInDate))
	message = util.AppendVarint64(message, uint64(len(listing.Amenities)))
	for _, a := range listing.Amenities {
		if len(a) > MaximumAmenityLength {
			return nil, fault.ErrAmenityLength
		}
		message = util.AppendString(message, a)
	}
	message = util.AppendBool(message, listing.IsAvailable)
	message = util.AppendBool(message, listing.IsVerified)
	message = util.AppendVarint64(message, uint64(listing.CreatedAt))
	message = util.AppendVarint64(message, uint64(listing.UpdatedAt))
	return message, nil
}

func (r *reader) listing() *Listing {
	return &Listing{
		Platform:       r.account(),
		ID:             r.uint64(),
		Authority:      r.account(),
		Title:          r.string(MaximumTitleLength),
		Description:    r.string(MaximumDescriptionLength),
		Location:       r.string(MaximumLocationLength),
		Price:          r.uint64(),
		Deposit:        r.uint64(),
		Size:           uint32(r.bounded(32)),
		Rooms:          uint8(r.bounded(8)),
		Bathrooms:      uint8(r.bounded(8)),
		Floor:          uint8(r.bounded(8)),
		TotalFloors:    uint8(r.bounded(8)),
		ContractLength: uint8(r.bounded(8)),
		MoveInDate:     r.int64(),
		Amenities:      r.strings(MaximumAmenities, MaximumAmenityLength),
		IsAvailable:    r.bool(),
		IsVerified:     r.bool(),
		CreatedAt:      r.int64(),
		UpdatedAt:      r.int64(),
	}
}
