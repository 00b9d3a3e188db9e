// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics - prometheus collectors for the daemon
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// instruction processing
var (
	InstructionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentald_instructions_total",
		Help: "Instructions executed by type and outcome kind",
	}, []string{"instruction", "outcome"})

	InstructionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentald_instruction_duration_seconds",
		Help:    "Time from lock acquisition to commit",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"instruction"})

	LockWaitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rentald_lock_wait_seconds",
		Help:    "Time spent waiting for record locks",
		Buckets: prometheus.DefBuckets,
	})
)

// payments
var (
	PaymentsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentald_payment_transfers_total",
		Help: "Transfers settled through the payment channel",
	})

	PaymentVolume = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentald_payment_volume_total",
		Help: "Minor units moved through the payment channel",
	})

	PaymentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentald_payment_failures_total",
		Help: "Settlements rejected by the payment channel",
	})
)

// ledger state
var (
	TotalListings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentald_platform_listings",
		Help: "Listings created on the platform",
	})

	TotalRentals = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentald_platform_rentals",
		Help: "Rentals created on the platform",
	})

	TotalVolume = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentald_platform_volume",
		Help: "Total volume recorded by the platform",
	})
)

// background and rpc
var (
	ExpirySweeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentald_expiry_sweeps_total",
		Help: "Completed scans for expired rentals",
	})

	RentalsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentald_rentals_expired_total",
		Help: "Rentals expired by the sweeper",
	})

	RPCConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentald_rpc_connections",
		Help: "Open RPC client connections",
	})

	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentald_rpc_requests_total",
		Help: "RPC requests by method and status",
	}, []string{"method", "status"})
)
