// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners_test

import (
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/counter"
	"github.com/bitmark-inc/rentald/fault"
	"github.com/bitmark-inc/rentald/fixtures"
	"github.com/bitmark-inc/rentald/rpc/certificate"
	"github.com/bitmark-inc/rentald/rpc/handler"
	"github.com/bitmark-inc/rentald/rpc/listeners"
)

type Add struct{}
type AddArg struct {
	A, B int
}

func (a Add) Add(arg *AddArg, reply *int) error {
	*reply = arg.A + arg.B
	return nil
}

func tlsSetup(t *testing.T) (*tls.Config, [32]byte) {
	cer, key := fixtures.Certificate()
	tlsConfig, fin, err := certificate.Get(logger.New(fixtures.LogCategory), "test", cer, key)
	if nil != err {
		t.Fatalf("certificate error: %s", err)
	}
	return tlsConfig, fin
}

func TestRPCListenerServe(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	con := listeners.RPCConfiguration{
		MaximumConnections: 5,
		Listen:             []string{"127.0.0.1:0"},
	}

	count := counter.Counter(0)

	s := rpc.NewServer()
	err := s.Register(Add{})
	assert.Nil(t, err, "register")

	tlsConfig, fin := tlsSetup(t)

	l, err := listeners.NewRPC(
		&con,
		logger.New(fixtures.LogCategory),
		&count,
		s,
		tlsConfig,
		fin,
	)
	assert.Nil(t, err, "wrong NewRPC")

	err = l.Serve()
	assert.Nil(t, err, "wrong Serve")
	defer l.Stop()

	addrs := l.Addresses()
	assert.Equal(t, 1, len(addrs), "wrong address count")

	c, err := tls.Dial("tcp", addrs[0].String(), &tls.Config{InsecureSkipVerify: true})
	if nil != err {
		t.Fatalf("dial error: %s", err)
	}

	arg := AddArg{
		A: 2,
		B: 5,
	}
	var reply int

	client := jsonrpc.NewClient(c)
	defer client.Close()

	err = client.Call("Add.Add", &arg, &reply)
	assert.Nil(t, err, "wrong client Call")
	assert.Equal(t, arg.A+arg.B, reply, "wrong result")
	assert.Equal(t, uint64(1), count.Uint64(), "wrong connection count")
}

func TestRPCListenerConfiguration(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	count := counter.Counter(0)
	s := rpc.NewServer()
	log := logger.New(fixtures.LogCategory)

	_, err := listeners.NewRPC(&listeners.RPCConfiguration{
		MaximumConnections: 0,
		Listen:             []string{"127.0.0.1:0"},
	}, log, &count, s, &tls.Config{}, [32]byte{})
	assert.Equal(t, fault.ErrMissingParameters, err, "zero connections")

	_, err = listeners.NewRPC(&listeners.RPCConfiguration{
		MaximumConnections: 1,
	}, log, &count, s, &tls.Config{}, [32]byte{})
	assert.Equal(t, fault.ErrMissingParameters, err, "empty listen")

	_, err = listeners.NewRPC(&listeners.RPCConfiguration{
		MaximumConnections: 1,
		Listen:             []string{"not-an-ip:1234"},
	}, log, &count, s, &tls.Config{}, [32]byte{})
	assert.Equal(t, fault.ErrInvalidIPAddress, err, "bad listen")
}

func TestHTTPSListenerServe(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := rpc.NewServer()
	log := logger.New(fixtures.LogCategory)
	tlsConfig, _ := tlsSetup(t)

	hdlr := handler.New(log, s, time.Now(), "2.0", 5)

	l, err := listeners.NewHTTPS(&listeners.HTTPSConfiguration{
		MaximumConnections: 5,
		Listen:             []string{"127.0.0.1:0"},
	}, log, tlsConfig, hdlr)
	assert.Nil(t, err, "wrong NewHTTPS")

	err = l.Serve()
	assert.Nil(t, err, "wrong Serve")
	defer l.Stop()

	client := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		Timeout: 5 * time.Second,
	}
	resp, err := client.Get("https://" + l.Addresses()[0].String() + "/health")
	if nil != err {
		t.Fatalf("get error: %s", err)
	}
	defer resp.Body.Close()

	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&health)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status")
	assert.Equal(t, "2.0", health.Version, "wrong version")
}

func TestHTTPSListenerDisabled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)
	hdlr := handler.New(log, rpc.NewServer(), time.Now(), "2.0", 5)

	l, err := listeners.NewHTTPS(&listeners.HTTPSConfiguration{}, log, &tls.Config{}, hdlr)
	assert.Nil(t, err, "disabled listener")
	assert.Nil(t, l, "listener created without listen address")
}
