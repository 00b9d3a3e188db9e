// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/rentald/account"
	"github.com/bitmark-inc/rentald/address"
	"github.com/bitmark-inc/rentald/fixtures"
	"github.com/bitmark-inc/rentald/instruction"
	"github.com/bitmark-inc/rentald/payment"
	"github.com/bitmark-inc/rentald/payment/book"
	"github.com/bitmark-inc/rentald/processor"
	"github.com/bitmark-inc/rentald/record"
	"github.com/bitmark-inc/rentald/storage"
)

const (
	deployment = "testing"
	day        = record.SecondsPerDay * time.Second
	month      = record.SecondsPerMonth * time.Second
)

var (
	authority = account.Account{0x01}
	landlord  = account.Account{0x02}
	tenant    = account.Account{0x03}
	tenantTwo = account.Account{0x04}
	newTenant = account.Account{0x05}
	stranger  = account.Account{0x06}
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

// manually advanced time source
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func (c *clock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type harness struct {
	t         *testing.T
	ctx       context.Context
	store     *storage.Store
	book      *book.Book
	clock     *clock
	processor *processor.Processor
}

func setup(t *testing.T, adjustPolicy string) *harness {
	store, err := storage.Open(filepath.Join(t.TempDir(), "ledger.leveldb"), storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	t.Cleanup(store.Close)

	return setupWith(t, store, book.New(store, true), adjustPolicy)
}

func setupWith(t *testing.T, store *storage.Store, channel payment.Channel, adjustPolicy string) *harness {
	c := &clock{now: time.Unix(1600000000, 0)}

	p, err := processor.New(processor.Configuration{
		Deployment:   deployment,
		AdjustPolicy: adjustPolicy,
		Clock:        c.Now,
	}, store, channel)
	if nil != err {
		t.Fatalf("processor error: %s", err)
	}

	h := &harness{
		t:         t,
		ctx:       context.Background(),
		store:     store,
		clock:     c,
		processor: p,
	}
	if b, ok := channel.(*book.Book); ok {
		h.book = b
	}
	return h
}

func (h *harness) execute(caller account.Account, i instruction.Instruction) (*processor.Result, error) {
	return h.processor.Execute(h.ctx, caller, i)
}

func (h *harness) mustExecute(caller account.Account, i instruction.Instruction) *processor.Result {
	h.t.Helper()
	result, err := h.execute(caller, i)
	if nil != err {
		h.t.Fatalf("%s: unexpected error: %s", instruction.Name(i), err)
	}
	return result
}

func (h *harness) credit(a account.Account, amount uint64) {
	h.t.Helper()
	_, err := h.processor.Credit(h.ctx, a, amount)
	if nil != err {
		h.t.Fatalf("credit error: %s", err)
	}
}

func (h *harness) balance(a account.Account) uint64 {
	h.t.Helper()
	n, err := h.book.Balance(h.ctx, a)
	assert.Nil(h.t, err, "balance error")
	return n
}

func (h *harness) platform() *record.Platform {
	h.t.Helper()
	p, err := h.processor.Platform()
	if nil != err {
		h.t.Fatalf("platform error: %s", err)
	}
	return p
}

func (h *harness) listing(a account.Account) *record.Listing {
	h.t.Helper()
	view, err := h.processor.Listing(a)
	if nil != err {
		h.t.Fatalf("listing error: %s", err)
	}
	return view.Listing
}

func (h *harness) rental(a account.Account) *record.Rental {
	h.t.Helper()
	view, err := h.processor.Rental(a)
	if nil != err {
		h.t.Fatalf("rental error: %s", err)
	}
	return view.Rental
}

func terms() record.ListingTerms {
	return record.ListingTerms{
		Title:          "Two bedroom flat",
		Description:    "close to the station",
		Location:       "Taipei",
		Price:          1000,
		Deposit:        500,
		Size:           60,
		Rooms:          2,
		Bathrooms:      1,
		Floor:          3,
		TotalFloors:    12,
		ContractLength: 12,
		MoveInDate:     1600000000,
		Amenities:      []string{"wifi", "lift"},
	}
}

// initialised platform with one listing owned by landlord
func (h *harness) withListing() account.Account {
	h.t.Helper()
	h.mustExecute(authority, &instruction.Initialise{})
	h.mustExecute(landlord, &instruction.CreateListing{Terms: terms()})
	return address.Listing(h.processor.PlatformAddress(), h.platform().TotalListings-1)
}

// the listing above rented by tenant
func (h *harness) withRental() (account.Account, account.Account) {
	h.t.Helper()
	listing := h.withListing()
	h.credit(tenant, 10000)
	h.mustExecute(tenant, &instruction.RentProperty{Listing: listing, RentalID: 1})
	return listing, address.Rental(listing, tenant)
}
