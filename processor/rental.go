// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor

import (
	"math/bits"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/address"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/instruction"
	"github.com/bitmark-inc/rentald/record"
)

// maximum days for a single extension
const maximumExtensionDays = 60

func (x *execution) rentProperty(i *instruction.RentProperty) error {
	listing, err := x.getListing(i.Listing)
	if nil != err {
		return err
	}
	if !listing.IsAvailable {
		return fault.ErrPropertyNotAvailable
	}
	if x.caller == listing.Authority {
		return fault.ErrSelfRental
	}

	platform, err := x.getPlatform()
	if nil != err {
		return err
	}

	a := address.Rental(i.Listing, x.caller)
	err = x.vacate(a)
	if nil != err {
		return err
	}

	endDate, err := addSeconds(x.now, int64(listing.ContractLength)*record.SecondsPerMonth)
	if nil != err {
		return err
	}
	nextPaymentDate, err := addSeconds(x.now, record.SecondsPerMonth)
	if nil != err {
		return err
	}

	volume, err := record.AddUint64(listing.Price, listing.Deposit)
	if nil != err {
		return err
	}
	err = platform.RecordRentalCreated(volume)
	if nil != err {
		return err
	}

	rental := &record.Rental{
		RentalID:        i.RentalID,
		Listing:         i.Listing,
		Landlord:        listing.Authority,
		Tenant:          x.caller,
		Price:           listing.Price,
		Deposit:         listing.Deposit,
		ContractLength:  listing.ContractLength,
		StartDate:       x.now,
		EndDate:         endDate,
		NextPaymentDate: nextPaymentDate,
		Status:          record.Active,
		CreatedAt:       x.now,
		UpdatedAt:       x.now,
	}
	err = x.putRental(a, rental)
	if nil != err {
		return err
	}
	x.indexParties(a, rental)

	listing.IsAvailable = false
	listing.UpdatedAt = x.now
	err = x.putListing(i.Listing, listing)
	if nil != err {
		return err
	}

	err = x.appendEvent(a, &record.Event{
		Kind:         record.RentedEvent,
		Amount:       rental.Price,
		EndDate:      rental.EndDate,
		Count:        uint64(rental.ContractLength),
		Counterparty: rental.Landlord,
	})
	if nil != err {
		return err
	}

	x.pay(rental.Tenant, rental.Landlord, rental.Price, "rent")
	x.pay(rental.Tenant, address.Escrow(a), rental.Deposit, "deposit")

	return x.putPlatform(platform)
}

func (x *execution) payRent(i *instruction.PayRent) error {
	rental, err := x.getActiveRental(i.Rental)
	if nil != err {
		return err
	}
	if x.caller != rental.Tenant {
		return fault.ErrUnauthorised
	}

	platform, err := x.getPlatform()
	if nil != err {
		return err
	}
	err = platform.RecordVolume(rental.Price)
	if nil != err {
		return err
	}

	nextPaymentDate, err := addSeconds(rental.NextPaymentDate, record.SecondsPerMonth)
	if nil != err {
		return err
	}
	rental.NextPaymentDate = nextPaymentDate
	rental.UpdatedAt = x.now

	err = x.putRental(i.Rental, rental)
	if nil != err {
		return err
	}

	err = x.appendEvent(i.Rental, &record.Event{
		Kind:    record.PaidEvent,
		Amount:  rental.Price,
		EndDate: rental.NextPaymentDate,
	})
	if nil != err {
		return err
	}

	x.pay(rental.Tenant, rental.Landlord, rental.Price, "rent")

	return x.putPlatform(platform)
}

func (x *execution) terminateRental(i *instruction.TerminateRental) error {
	rental, err := x.getActiveRental(i.Rental)
	if nil != err {
		return err
	}
	if !rental.IsParty(x.caller) {
		return fault.ErrUnauthorised
	}
	if !i.Disposition.IsValid() {
		return fault.ErrInvalidDisposition
	}

	byLandlord := x.caller == rental.Landlord

	disposition := i.Disposition
	if instruction.DispositionDefault == disposition {
		if byLandlord {
			disposition = instruction.DispositionRefund
		} else {
			disposition = instruction.DispositionForfeit
		}
	}
	if !byLandlord && instruction.DispositionForfeit != disposition {
		return fault.ErrDispositionNotPermitted
	}
	if instruction.DispositionSplit != disposition && 0 != i.Refund {
		return fault.ErrInvalidDisposition
	}

	tenantShare := uint64(0)
	switch disposition {
	case instruction.DispositionRefund:
		tenantShare = rental.Deposit
	case instruction.DispositionForfeit:
		tenantShare = 0
	case instruction.DispositionSplit:
		if i.Refund > rental.Deposit {
			return fault.ErrRefundExceedsDeposit
		}
		tenantShare = i.Refund
	}
	landlordShare := rental.Deposit - tenantShare

	prepaid := uint64(0)
	if byLandlord {
		prepaid, err = prepaidRent(rental, x.now)
		if nil != err {
			return err
		}
	}

	rental.Status = record.Terminated
	rental.UpdatedAt = x.now
	err = x.putRental(i.Rental, rental)
	if nil != err {
		return err
	}

	err = x.setAvailability(rental.Listing, true)
	if nil != err {
		return err
	}

	refunded, err := record.AddUint64(tenantShare, prepaid)
	if nil != err {
		return err
	}
	err = x.appendEvent(i.Rental, &record.Event{
		Kind:   record.TerminatedEvent,
		Amount: refunded,
		Reason: disposition.String(),
	})
	if nil != err {
		return err
	}

	escrow := address.Escrow(i.Rental)
	x.pay(escrow, rental.Tenant, tenantShare, "deposit refund")
	x.pay(escrow, rental.Landlord, landlordShare, "deposit forfeit")
	x.pay(rental.Landlord, rental.Tenant, prepaid, "prepaid rent refund")
	return nil
}

func (x *execution) adjustRental(i *instruction.AdjustRental) error {
	rental, err := x.getActiveRental(i.Rental)
	if nil != err {
		return err
	}

	allowed := x.caller == rental.Landlord || (x.processor.adjustEither && x.caller == rental.Tenant)
	if !allowed {
		return fault.ErrUnauthorised
	}

	if 0 == i.NewPrice {
		return fault.ErrZeroPrice
	}
	if i.NewEndDate <= rental.StartDate {
		return fault.ErrEndBeforeStart
	}
	if len(i.Reason) > record.MaximumReasonLength {
		return fault.ErrReasonTooLong
	}

	rental.Price = i.NewPrice
	rental.EndDate = i.NewEndDate
	rental.UpdatedAt = x.now

	err = x.putRental(i.Rental, rental)
	if nil != err {
		return err
	}

	return x.appendEvent(i.Rental, &record.Event{
		Kind:    record.AdjustedEvent,
		Amount:  i.NewPrice,
		EndDate: i.NewEndDate,
		Reason:  i.Reason,
	})
}

func (x *execution) renewRental(i *instruction.RenewRental) error {
	rental, err := x.getActiveRental(i.Rental)
	if nil != err {
		return err
	}
	if x.caller != rental.Tenant {
		return fault.ErrUnauthorised
	}
	if 0 == i.Months {
		return fault.ErrInvalidMonths
	}

	windowStart, err := addSeconds(rental.EndDate, -x.processor.renewalWindow)
	if nil != err {
		return err
	}
	if x.now < windowStart || x.now > rental.EndDate {
		return fault.ErrNotInRenewalWindow
	}

	endDate, err := addSeconds(rental.EndDate, int64(i.Months)*record.SecondsPerMonth)
	if nil != err {
		return err
	}

	price := rental.Price
	if 0 != i.NewPrice {
		price = i.NewPrice
	}

	// the renewed term counts towards volume at the renewed price
	volume, err := record.MulUint64(price, uint64(i.Months))
	if nil != err {
		return err
	}
	platform, err := x.getPlatform()
	if nil != err {
		return err
	}
	err = platform.RecordVolume(volume)
	if nil != err {
		return err
	}

	rental.EndDate = endDate
	rental.Price = price
	rental.ContractLength = i.Months
	rental.AutoRenew = i.AutoRenew
	rental.UpdatedAt = x.now

	err = x.putRental(i.Rental, rental)
	if nil != err {
		return err
	}

	err = x.appendEvent(i.Rental, &record.Event{
		Kind:    record.RenewedEvent,
		Amount:  rental.Price,
		EndDate: rental.EndDate,
		Count:   uint64(i.Months),
		Flag:    i.AutoRenew,
	})
	if nil != err {
		return err
	}

	return x.putPlatform(platform)
}

func (x *execution) approveTransfer(i *instruction.ApproveTransfer) error {
	rental, err := x.getActiveRental(i.Rental)
	if nil != err {
		return err
	}
	if x.caller != rental.Landlord {
		return fault.ErrUnauthorised
	}
	if !i.NewTenant.IsZero() {
		if i.NewTenant == rental.Tenant {
			return fault.ErrInvalidTransfer
		}
		if i.NewTenant == rental.Landlord {
			return fault.ErrTransferToLandlord
		}
	}

	rental.ApprovedTransferee = i.NewTenant
	rental.UpdatedAt = x.now

	err = x.putRental(i.Rental, rental)
	if nil != err {
		return err
	}

	return x.appendEvent(i.Rental, &record.Event{
		Kind:         record.TransferApprovedEvent,
		Counterparty: i.NewTenant,
	})
}

func (x *execution) transferRental(i *instruction.TransferRental) error {
	rental, err := x.getActiveRental(i.Rental)
	if nil != err {
		return err
	}
	if x.caller != rental.Tenant {
		return fault.ErrUnauthorised
	}
	if i.NewTenant.IsZero() {
		return fault.ErrInvalidAccount
	}
	if i.NewTenant == rental.Tenant {
		return fault.ErrInvalidTransfer
	}
	if i.NewTenant == rental.Landlord {
		return fault.ErrTransferToLandlord
	}
	if i.NewTenant != rental.ApprovedTransferee {
		return fault.ErrConsentRequired
	}

	next := address.Rental(rental.Listing, i.NewTenant)
	err = x.vacate(next)
	if nil != err {
		return err
	}

	successor := *rental
	successor.Tenant = i.NewTenant
	successor.StartDate = x.now
	successor.Status = record.Active
	successor.ApprovedTransferee = account.Zero
	successor.CreatedAt = x.now
	successor.UpdatedAt = x.now

	err = x.putRental(next, &successor)
	if nil != err {
		return err
	}
	x.indexParties(next, &successor)

	rental.Status = record.Transferred
	rental.UpdatedAt = x.now
	err = x.putRental(i.Rental, rental)
	if nil != err {
		return err
	}

	err = x.appendEvent(i.Rental, &record.Event{
		Kind:         record.TransferredEvent,
		Amount:       i.Fee,
		EndDate:      rental.EndDate,
		Counterparty: i.NewTenant,
	})
	if nil != err {
		return err
	}
	err = x.appendEvent(next, &record.Event{
		Kind:         record.TransferredEvent,
		Amount:       i.Fee,
		EndDate:      successor.EndDate,
		Counterparty: rental.Tenant,
	})
	if nil != err {
		return err
	}

	x.pay(address.Escrow(i.Rental), address.Escrow(next), rental.Deposit, "deposit transfer")
	x.pay(rental.Tenant, rental.Landlord, i.Fee, "transfer fee")
	return nil
}

func (x *execution) extendRental(i *instruction.ExtendRental) error {
	rental, err := x.getActiveRental(i.Rental)
	if nil != err {
		return err
	}
	if x.caller != rental.Tenant {
		return fault.ErrUnauthorised
	}
	if 0 == i.Days || i.Days > maximumExtensionDays {
		return fault.ErrInvalidExtension
	}
	if len(i.Reason) > record.MaximumReasonLength {
		return fault.ErrReasonTooLong
	}

	delta := int64(i.Days) * record.SecondsPerDay
	endDate, err := addSeconds(rental.EndDate, delta)
	if nil != err {
		return err
	}
	nextPaymentDate, err := addSeconds(rental.NextPaymentDate, delta)
	if nil != err {
		return err
	}

	rental.EndDate = endDate
	rental.NextPaymentDate = nextPaymentDate
	rental.UpdatedAt = x.now

	err = x.putRental(i.Rental, rental)
	if nil != err {
		return err
	}

	return x.appendEvent(i.Rental, &record.Event{
		Kind:    record.ExtendedEvent,
		EndDate: rental.EndDate,
		Count:   uint64(i.Days),
		Reason:  i.Reason,
	})
}

func (x *execution) expireRental(i *instruction.ExpireRental) error {
	rental, err := x.getActiveRental(i.Rental)
	if nil != err {
		return err
	}
	if x.now <= rental.EndDate {
		return fault.ErrNotExpired
	}

	rental.Status = record.Expired
	rental.UpdatedAt = x.now
	err = x.putRental(i.Rental, rental)
	if nil != err {
		return err
	}

	err = x.setAvailability(rental.Listing, true)
	if nil != err {
		return err
	}

	err = x.appendEvent(i.Rental, &record.Event{
		Kind:    record.ExpiredEvent,
		Amount:  rental.Deposit,
		EndDate: rental.EndDate,
	})
	if nil != err {
		return err
	}

	x.pay(address.Escrow(i.Rental), rental.Tenant, rental.Deposit, "deposit refund")
	return nil
}

// rent paid for the time between now and the next payment date
func prepaidRent(rental *record.Rental, now int64) (uint64, error) {
	if rental.NextPaymentDate <= now {
		return 0, nil
	}
	remaining := uint64(rental.NextPaymentDate - now)
	hi, lo := bits.Mul64(rental.Price, remaining)
	if hi >= record.SecondsPerMonth {
		return 0, fault.ErrOverflow
	}
	prepaid, _ := bits.Div64(hi, lo, record.SecondsPerMonth)
	return prepaid, nil
}
