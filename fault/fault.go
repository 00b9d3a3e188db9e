// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type AuthorisationError GenericError
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type OverflowError GenericError
type PaymentError GenericError
type ProcessError GenericError
type RecordError GenericError
type StateError GenericError

// common errors - keep in alphabetic order
var (
	ErrAccountNotFound         = NotFoundError("account not found")
	ErrAlreadyInitialised      = ExistsError("platform already initialised")
	ErrAlreadyRented           = ExistsError("active rental already exists for tenant")
	ErrAmenityLength           = InvalidError("amenity length is invalid")
	ErrConsentRequired         = StateError("landlord consent required")
	ErrContractLength          = InvalidError("contract length must be at least one month")
	ErrCreditDisabled          = PaymentError("credit is disabled")
	ErrDatabaseIsOpen          = ProcessError("database is already open")
	ErrDatabaseIsClosed        = ProcessError("database is not open")
	ErrDatabaseVersion         = ProcessError("database version is not supported")
	ErrDescriptionTooLong      = InvalidError("description too long")
	ErrDispositionNotPermitted = AuthorisationError("tenant may only forfeit the deposit")
	ErrEmptyDomainTag          = InvalidError("domain tag is empty")
	ErrEndBeforeStart          = InvalidError("end date is before start date")
	ErrFileAlreadyExists       = ExistsError("file already exists")
	ErrFloorAboveTotal         = InvalidError("floor is above total floors")
	ErrInsufficientFunds       = PaymentError("insufficient funds")
	ErrInvalidAccount          = InvalidError("account is invalid")
	ErrInvalidBathrooms        = InvalidError("bathrooms must be between 1 and 5")
	ErrInvalidCount            = InvalidError("count is invalid")
	ErrInvalidDiscriminator    = InvalidError("discriminator too long")
	ErrInvalidDisposition      = InvalidError("deposit disposition is invalid")
	ErrInvalidExtension        = InvalidError("extension must be between 1 and 60 days")
	ErrInvalidIPAddress        = InvalidError("ip address is invalid")
	ErrInvalidMonths           = InvalidError("months must be between 1 and 255")
	ErrInvalidRooms            = InvalidError("rooms must be between 1 and 10")
	ErrInvalidSignature        = AuthorisationError("signature is invalid")
	ErrInvalidSize             = InvalidError("size must be between 1 and 1000")
	ErrInvalidTimestamp        = InvalidError("timestamp is outside the allowed window")
	ErrInvalidTotalFloors      = InvalidError("total floors must be between 1 and 100")
	ErrInvalidTransfer         = InvalidError("new tenant must differ from current tenant")
	ErrListingNotFound         = NotFoundError("listing not found")
	ErrLocationTooLong         = InvalidError("location too long")
	ErrMissingParameters       = InvalidError("missing parameters")
	ErrNotExpired              = StateError("rental has not reached its end date")
	ErrNotInRenewalWindow      = StateError("not in renewal window")
	ErrNotRecordPack           = RecordError("not a record pack")
	ErrOverflow                = OverflowError("arithmetic overflow")
	ErrPaymentFailed           = PaymentError("payment channel failed")
	ErrPlatformNotFound        = NotFoundError("platform not found")
	ErrPropertyNotAvailable    = StateError("property not available")
	ErrRateLimiting            = InvalidError("rate limiting")
	ErrReasonTooLong           = InvalidError("reason too long")
	ErrRecordExists            = ExistsError("record already exists")
	ErrRefundExceedsDeposit    = InvalidError("refund exceeds deposit")
	ErrRentalNotActive         = StateError("rental not active")
	ErrRentalNotFound          = NotFoundError("rental not found")
	ErrReplayedRequest         = AuthorisationError("request was already submitted")
	ErrSelfRental              = AuthorisationError("authority cannot rent own listing")
	ErrTitleRequired           = InvalidError("title is required")
	ErrTitleTooLong            = InvalidError("title too long")
	ErrTooManyAmenities        = InvalidError("too many amenities")
	ErrTransactionClosed       = ProcessError("transaction is closed")
	ErrTransferToLandlord      = InvalidError("new tenant cannot be the landlord")
	ErrTruncatedRecord         = RecordError("truncated record")
	ErrUnauthorised            = AuthorisationError("caller is not authorised")
	ErrUnknownInstruction      = InvalidError("unknown instruction")
	ErrWrongRecordTag          = RecordError("wrong record tag")
	ErrZeroAmount              = InvalidError("amount must be greater than zero")
	ErrZeroPrice               = InvalidError("price must be greater than zero")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AuthorisationError) Error() string { return string(e) }
func (e ExistsError) Error() string        { return string(e) }
func (e InvalidError) Error() string       { return string(e) }
func (e NotFoundError) Error() string      { return string(e) }
func (e OverflowError) Error() string      { return string(e) }
func (e PaymentError) Error() string       { return string(e) }
func (e ProcessError) Error() string       { return string(e) }
func (e RecordError) Error() string        { return string(e) }
func (e StateError) Error() string         { return string(e) }

// determine the class of an error
func IsErrAuthorisation(e error) bool { var x AuthorisationError; return errors.As(e, &x) }
func IsErrExists(e error) bool        { var x ExistsError; return errors.As(e, &x) }
func IsErrInvalid(e error) bool       { var x InvalidError; return errors.As(e, &x) }
func IsErrNotFound(e error) bool      { var x NotFoundError; return errors.As(e, &x) }
func IsErrOverflow(e error) bool      { var x OverflowError; return errors.As(e, &x) }
func IsErrPayment(e error) bool       { var x PaymentError; return errors.As(e, &x) }
func IsErrProcess(e error) bool       { var x ProcessError; return errors.As(e, &x) }
func IsErrRecord(e error) bool        { var x RecordError; return errors.As(e, &x) }
func IsErrState(e error) bool         { var x StateError; return errors.As(e, &x) }
