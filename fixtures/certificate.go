// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"time"

	"github.com/bitmark-inc/certgen"
)

// Certificate - a fresh self signed certificate and its private
// key, both PEM encoded
func Certificate() (string, string) {
	validUntil := time.Now().Add(24 * time.Hour)
	cert, key, err := certgen.NewTLSCertPair("rentald test certificate", validUntil, false, []string{"127.0.0.1"})
	if nil != err {
		panic(err)
	}
	return string(cert), string(key)
}
