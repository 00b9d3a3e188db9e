// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
)

// Client - to hold RPC connections streams
type Client struct {
	conn    net.Conn
	client  *rpc.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// NewClient - create a RPC connection to a rentald
func NewClient(connect string, verbose bool, handle io.Writer) (*Client, error) {

	// the daemon uses a self signed certificate
	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if nil != err {
		return nil, err
	}

	r := &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		verbose: verbose,
		handle:  handle,
	}
	return r, nil
}

// Close - shutdown the rentald connection
func (c *Client) Close() {
	c.client.Close()
	c.conn.Close()
}

// call a remote method, showing the exchange when verbose
func (c *Client) call(method string, arguments interface{}, reply interface{}) error {
	if c.verbose {
		c.printJSON(method+" request", arguments)
	}

	if err := c.client.Call(method, arguments, reply); nil != err {
		return err
	}

	if c.verbose {
		c.printJSON(method+" reply", reply)
	}
	return nil
}

func (c *Client) printJSON(title string, message interface{}) {
	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		fmt.Fprintf(c.handle, "%s: marshal error: %s\n", title, err)
		return
	}
	fmt.Fprintf(c.handle, "%s:\n%s\n", title, b)
}
