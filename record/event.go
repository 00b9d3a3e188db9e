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

// EventKind - what happened to a rental
type EventKind uint8

// kinds of change log entries
const (
	RentedEvent           EventKind = 1
	PaidEvent             EventKind = 2
	TerminatedEvent       EventKind = 3
	ExpiredEvent          EventKind = 4
	AdjustedEvent         EventKind = 5
	RenewedEvent          EventKind = 6
	TransferApprovedEvent EventKind = 7
	TransferredEvent      EventKind = 8
	ExtendedEvent         EventKind = 9
)

var eventNames = map[EventKind]string{
	RentedEvent:           "rented",
	PaidEvent:             "paid",
	TerminatedEvent:       "terminated",
	ExpiredEvent:          "expired",
	AdjustedEvent:         "adjusted",
	RenewedEvent:          "renewed",
	TransferApprovedEvent: "transferApproved",
	TransferredEvent:      "transferred",
	ExtendedEvent:         "extended",
}

// String - name of an event kind
func (kind EventKind) String() string {
	if s, ok := eventNames[kind]; ok {
		return s
	}
	return "invalid"
}

// MarshalText - kind as its name
func (kind EventKind) MarshalText() ([]byte, error) {
	return []byte(kind.String()), nil
}

// UnmarshalText - kind from its name
func (kind *EventKind) UnmarshalText(s []byte) error {
	for k, v := range eventNames {
		if v == string(s) {
			*kind = k
			return nil
		}
	}
	return fault.ErrNotRecordPack
}

// Event - one entry of the append-only change log of a rental
//
// the meaning of Amount, EndDate, Count, Flag and Counterparty
// depends on Kind, unused fields are zero
type Event struct {
	Kind         EventKind       `json:"kind"`
	Rental       account.Account `json:"rental"`
	Actor        account.Account `json:"actor"`
	Timestamp    int64           `json:"timestamp"`
	Amount       uint64          `json:"amount,string"`
	EndDate      int64           `json:"endDate"`
	Count        uint64          `json:"count"`
	Flag         bool            `json:"flag"`
	Counterparty account.Account `json:"counterparty"`
	Reason       string          `json:"reason"`
}

// Pack - Varint64(tag) followed by fields in order as struct above
func (event *Event) Pack() (Packed, error) {
	if _, ok := eventNames[event.Kind]; !ok {
		return nil, fault.ErrNotRecordPack
	}
	if len(event.Reason) > MaximumReasonLength {
		return nil, fault.ErrReasonTooLong
	}

	message := util.ToVarint64(uint64(EventTag))
	message = util.AppendVarint64(message, uint64(event.Kind))
	message = append(message, event.Rental[:]...)
	message = append(message, event.Actor[:]...)
	message = util.AppendVarint64(message, uint64(event.Timestamp))
	message = util.AppendVarint64(message, event.Amount)
	message = util.AppendVarint64(message, uint64(event.EndDate))
	message = util.AppendVarint64(message, event.Count)
	message = util.AppendBool(message, event.Flag)
	message = append(message, event.Counterparty[:]...)
	message = util.AppendString(message, event.Reason)
	return message, nil
}

func (r *reader) event() *Event {
	event := &Event{
		Kind:         EventKind(r.bounded(8)),
		Rental:       r.account(),
		Actor:        r.account(),
		Timestamp:    r.int64(),
		Amount:       r.uint64(),
		EndDate:      r.int64(),
		Count:        r.uint64(),
		Flag:         r.bool(),
		Counterparty: r.account(),
		Reason:       r.string(MaximumReasonLength),
	}
	if _, ok := eventNames[event.Kind]; !ok {
		r.fail(fault.ErrNotRecordPack)
	}
	return event
}
