// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listeners - TLS network front ends for the RPC server
package listeners

import (
	"net"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/fault"
)

const minConnectionCount = 1

// Listener - a started front end
type Listener interface {
	Serve() error
	Addresses() []net.Addr
	Stop()
}

// parseListenAddress - validate listen addresses and choose the
// network for each
//
// "*:PORT" is rewritten in place to "[::]:PORT" on the assumption
// that this will listen on tcp4 and tcp6
func parseListenAddress(addrs []string, log *logger.L) ([]string, error) {
	parsed := make([]string, len(addrs))
	for i, listen := range addrs {
		host, port, err := net.SplitHostPort(listen)
		if nil != err || "" == port {
			log.Errorf("listen: %q  error: %s", listen, fault.ErrInvalidIPAddress)
			return nil, fault.ErrInvalidIPAddress
		}

		switch {
		case "*" == host:
			addrs[i] = net.JoinHostPort("::", port)
			host = "::"
			parsed[i] = "tcp"
		case strings.Contains(host, ":"):
			parsed[i] = "tcp6"
		default:
			parsed[i] = "tcp4"
		}

		if ip := net.ParseIP(host); nil == ip {
			log.Errorf("listen: %q  error: %s", listen, fault.ErrInvalidIPAddress)
			return nil, fault.ErrInvalidIPAddress
		}
	}

	return parsed, nil
}
