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

// RentalStatus - state of a rental
//
// transitions only leave Active; the other states are final
type RentalStatus uint8

// possible rental states
const (
	Active      RentalStatus = 1
	Terminated  RentalStatus = 2
	Expired     RentalStatus = 3
	Transferred RentalStatus = 4
)

var statusNames = map[RentalStatus]string{
	Active:      "active",
	Terminated:  "terminated",
	Expired:     "expired",
	Transferred: "transferred",
}

// String - name of a status
func (status RentalStatus) String() string {
	if s, ok := statusNames[status]; ok {
		return s
	}
	return "invalid"
}

// MarshalText - status as its name
func (status RentalStatus) MarshalText() ([]byte, error) {
	return []byte(status.String()), nil
}

// UnmarshalText - status from its name
func (status *RentalStatus) UnmarshalText(s []byte) error {
	for k, v := range statusNames {
		if v == string(s) {
			*status = k
			return nil
		}
	}
	return fault.ErrNotRecordPack
}

// IsClosed - true for any final state
func (status RentalStatus) IsClosed() bool {
	return Terminated == status || Expired == status || Transferred == status
}

// Rental - an agreement between a landlord and a tenant for one listing
type Rental struct {
	RentalID           uint64          `json:"rentalId"`
	Listing            account.Account `json:"listing"`
	Landlord           account.Account `json:"landlord"`
	Tenant             account.Account `json:"tenant"`
	Price              uint64          `json:"price,string"`
	Deposit            uint64          `json:"deposit,string"`
	ContractLength     uint8           `json:"contractLength"`
	StartDate          int64           `json:"startDate"`
	EndDate            int64           `json:"endDate"`
	NextPaymentDate    int64           `json:"nextPaymentDate"`
	Status             RentalStatus    `json:"status"`
	AutoRenew          bool            `json:"autoRenew"`
	ApprovedTransferee account.Account `json:"approvedTransferee"`
	CreatedAt          int64           `json:"createdAt"`
	UpdatedAt          int64           `json:"updatedAt"`
}

// Pack - Varint64(tag) followed by fields in order as struct above
func (rental *Rental) Pack() (Packed, error) {
	if _, ok := statusNames[rental.Status]; !ok {
		return nil, fault.ErrNotRecordPack
	}

	message := util.ToVarint64(uint64(RentalTag))
	message = util.AppendVarint64(message, rental.RentalID)
	message = append(message, rental.Listing[:]...)
	message = append(message, rental.Landlord[:]...)
	message = append(message, rental.Tenant[:]...)
	message = util.AppendVarint64(message, rental.Price)
	message = util.AppendVarint64(message, rental.Deposit)
	message = util.AppendVarint64(message, uint64(rental.ContractLength))
	message = util.AppendVarint64(message, uint64(rental.StartDate))
	message = util.AppendVarint64(message, uint64(rental.EndDate))
	message = util.AppendVarint64(message, uint64(rental.NextPaymentDate))
	message = util.AppendVarint64(message, uint64(rental.Status))
	message = util.AppendBool(message, rental.AutoRenew)
	message = append(message, rental.ApprovedTransferee[:]...)
	message = util.AppendVarint64(message, uint64(rental.CreatedAt))
	message = util.AppendVarint64(message, uint64(rental.UpdatedAt))
	return message, nil
}

func (r *reader) rental() *Rental {
	rental := &Rental{
		RentalID:           r.uint64(),
		Listing:            r.account(),
		Landlord:           r.account(),
		Tenant:             r.account(),
		Price:              r.uint64(),
		Deposit:            r.uint64(),
		ContractLength:     uint8(r.bounded(8)),
		StartDate:          r.int64(),
		EndDate:            r.int64(),
		NextPaymentDate:    r.int64(),
		Status:             RentalStatus(r.bounded(8)),
		AutoRenew:          r.bool(),
		ApprovedTransferee: r.account(),
		CreatedAt:          r.int64(),
		UpdatedAt:          r.int64(),
	}
	if _, ok := statusNames[rental.Status]; !ok {
		r.fail(fault.ErrNotRecordPack)
	}
	return rental
}

// IsParty - true if the account is the landlord or the tenant
func (rental *Rental) IsParty(a account.Account) bool {
	return a == rental.Landlord || a == rental.Tenant
}
