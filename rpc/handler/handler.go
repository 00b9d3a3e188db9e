// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package handler - HTTP access to the RPC server
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/counter"
	"github.com/bitmark-inc/rentald/metrics"
)

// Handler - the HTTP endpoints
type Handler interface {
	RPC(http.ResponseWriter, *http.Request)
	Health(http.ResponseWriter, *http.Request)
	Root(http.ResponseWriter, *http.Request)
	Router() *mux.Router
}

type handler struct {
	log                *logger.L
	server             *rpc.Server
	start              time.Time
	version            string
	count              counter.Counter
	maximumConnections uint64
}

// New - create the HTTP handler for an RPC server
func New(log *logger.L, server *rpc.Server, start time.Time, version string, maximumConnections uint64) Handler {
	return &handler{
		log:                log,
		server:             server,
		start:              start,
		version:            version,
		maximumConnections: maximumConnections,
	}
}

// Router - routes for all endpoints
func (h *handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/rpc", h.RPC)
	r.HandleFunc("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(h.Root)
	return r
}

// type to allow rpc system to interface to http request
type internalConnection struct {
	in  io.Reader
	out io.Writer
}

func (c *internalConnection) Read(p []byte) (n int, err error) {
	return c.in.Read(p)
}

func (c *internalConnection) Write(d []byte) (n int, err error) {
	return c.out.Write(d)
}

func (c *internalConnection) Close() error {
	return nil
}

// Root - this matches anything not matched and returns error
func (h *handler) Root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// RPC - performs a call to any normal RPC
func (h *handler) RPC(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		record("rpc", http.StatusMethodNotAllowed)
		sendMethodNotAllowed(w)
		return
	}

	if !h.count.Acquire(h.maximumConnections) {
		record("rpc", http.StatusTooManyRequests)
		sendTooManyRequests(w)
		return
	}
	defer h.count.Release()

	codec := jsonrpc.NewServerCodec(&internalConnection{in: r.Body, out: w})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	err := h.server.ServeRequest(codec)
	if nil != err {
		h.log.Debugf("serve request from: %s  error: %s", r.RemoteAddr, err)
		record("rpc", http.StatusInternalServerError)
		sendInternalServerError(w)
		return
	}
	record("rpc", http.StatusOK)
}

// Health - liveness and basic details
func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		record("health", http.StatusMethodNotAllowed)
		sendMethodNotAllowed(w)
		return
	}

	type reply struct {
		Status  string `json:"status"`
		Version string `json:"version"`
		Uptime  string `json:"uptime"`
		RPCs    uint64 `json:"rpcs"`
	}

	record("health", http.StatusOK)
	sendReply(w, reply{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.start).String(),
		RPCs:    h.count.Uint64(),
	})
}

func record(route string, code int) {
	metrics.RPCRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}

func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}

func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}

func sendTooManyRequests(w http.ResponseWriter) {
	sendError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}

func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just incase JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write(text)
}
