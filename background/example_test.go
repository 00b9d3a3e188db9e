// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/rentald/background"
)

type ticker struct {
	ticks int
}

func Example() {

	proc := &ticker{}

	// list of background processes to start
	processes := background.Processes{
		proc,
	}

	p := background.Start(processes, nil)
	time.Sleep(20 * time.Millisecond)
	p.Stop()

	fmt.Printf("stopped\n")
	// Output:
	// initialise
	// finalise
	// stopped
}

func (state *ticker) Run(args interface{}, shutdown <-chan struct{}) {

	fmt.Printf("initialise\n")

	delay := time.NewTicker(time.Millisecond)
	defer delay.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-delay.C:
			state.ticks += 1
		}
	}

	fmt.Printf("finalise\n")
}
