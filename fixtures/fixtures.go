// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared setup for package tests
package fixtures

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
)

// LogCategory - name of the test log file
const LogCategory = "testing"

var directory string

// SetupTestLogger - start logging into a temporary directory
//
// only critical messages are written so tests stay quiet
func SetupTestLogger() {
	dir, err := os.MkdirTemp("", "rentald-test-")
	if nil != err {
		panic(fmt.Sprintf("temporary directory error: %s", err))
	}
	directory = dir

	logging := logger.Configuration{
		Directory: directory,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the log files
func TeardownTestLogger() {
	logger.Finalise()
	if "" != directory {
		_ = os.RemoveAll(directory)
	}
}
