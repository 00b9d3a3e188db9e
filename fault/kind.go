// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// error kinds reported to clients
const (
	KindAlreadyInitialised   = "AlreadyInitialized"
	KindAlreadyRented        = "AlreadyRented"
	KindConsentRequired      = "ConsentRequired"
	KindInsufficientFunds    = "InsufficientFunds"
	KindInvalidDiscriminator = "InvalidDiscriminator"
	KindNotExpired           = "NotExpired"
	KindNotFound             = "NotFound"
	KindNotInRenewalWindow   = "NotInRenewalWindow"
	KindOverflow             = "Overflow"
	KindPayment              = "PaymentError"
	KindProcess              = "ProcessError"
	KindPropertyNotAvailable = "PropertyNotAvailable"
	KindRentalNotActive      = "RentalNotActive"
	KindUnauthorised         = "Unauthorized"
	KindValidation           = "ValidationError"
)

// specific errors that carry their own kind
var specificKinds = []struct {
	err  error
	kind string
}{
	{ErrAlreadyInitialised, KindAlreadyInitialised},
	{ErrAlreadyRented, KindAlreadyRented},
	{ErrConsentRequired, KindConsentRequired},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrInvalidDiscriminator, KindInvalidDiscriminator},
	{ErrNotExpired, KindNotExpired},
	{ErrNotInRenewalWindow, KindNotInRenewalWindow},
	{ErrPropertyNotAvailable, KindPropertyNotAvailable},
	{ErrRentalNotActive, KindRentalNotActive},
}

// Kind - classify an error into the kind name seen by clients
//
// wrapped errors are unwrapped, anything unrecognised is a ProcessError
func Kind(err error) string {
	if nil == err {
		return ""
	}
	for _, k := range specificKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	switch {
	case IsErrInvalid(err):
		return KindValidation
	case IsErrAuthorisation(err):
		return KindUnauthorised
	case IsErrNotFound(err):
		return KindNotFound
	case IsErrOverflow(err):
		return KindOverflow
	case IsErrPayment(err):
		return KindPayment
	default:
		return KindProcess
	}
}
