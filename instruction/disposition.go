// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instruction

import (
	"github.com/bitmark-inc/rentald/fault"
)

// Disposition - what happens to the escrowed deposit on termination
type Disposition uint8

// possible dispositions
//
// DispositionDefault lets the processor choose: forfeit when the
// tenant terminates, refund when the landlord terminates
const (
	DispositionDefault Disposition = 0
	DispositionRefund  Disposition = 1
	DispositionForfeit Disposition = 2
	DispositionSplit   Disposition = 3
)

var dispositionNames = map[Disposition]string{
	DispositionDefault: "default",
	DispositionRefund:  "refund",
	DispositionForfeit: "forfeit",
	DispositionSplit:   "split",
}

// String - name of a disposition
func (d Disposition) String() string {
	if s, ok := dispositionNames[d]; ok {
		return s
	}
	return "invalid"
}

// IsValid - true for a known disposition
func (d Disposition) IsValid() bool {
	_, ok := dispositionNames[d]
	return ok
}

// MarshalText - disposition as its name
func (d Disposition) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fault.ErrInvalidDisposition
	}
	return []byte(d.String()), nil
}

// UnmarshalText - disposition from its name, empty means default
func (d *Disposition) UnmarshalText(s []byte) error {
	if 0 == len(s) {
		*d = DispositionDefault
		return nil
	}
	for k, v := range dispositionNames {
		if v == string(s) {
			*d = k
			return nil
		}
	}
	return fault.ErrInvalidDisposition
}
