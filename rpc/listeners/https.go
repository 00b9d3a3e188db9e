// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/rpc/handler"
)

const (
	httpsLogName     = "https_rpc"
	readWriteTimeout = 10 * time.Second
	shutdownTimeout  = 5 * time.Second
)

// HTTPSConfiguration - configuration file data for HTTPS setup
type HTTPSConfiguration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
}

type httpsListener struct {
	sync.Mutex
	log             *logger.L
	listenIPAndPort []string
	ipType          []string
	tlsConfig       *tls.Config
	handler         http.Handler
	servers         []*http.Server
	addrs           []net.Addr
}

// NewHTTPS - JSON-RPC over HTTPS plus health and metrics
//
// returns nil, nil when no listen address is configured
func NewHTTPS(
	configuration *HTTPSConfiguration,
	log *logger.L,
	tlsConfig *tls.Config,
	hdlr handler.Handler,
) (Listener, error) {
	if 0 == len(configuration.Listen) {
		log.Infof("disable: %s", httpsLogName)
		return nil, nil
	}

	h := &httpsListener{
		log:             log,
		listenIPAndPort: append([]string(nil), configuration.Listen...),
		tlsConfig:       tlsConfig.Clone(),
		handler:         hdlr.Router(),
	}
	h.tlsConfig.NextProtos = []string{"http/1.1"}

	var err error
	h.ipType, err = parseListenAddress(h.listenIPAndPort, log)
	if nil != err {
		return nil, err
	}

	return h, nil
}

// Serve - start an HTTPS server on every listen address
func (h *httpsListener) Serve() error {
	h.Lock()
	defer h.Unlock()

	for i, listen := range h.listenIPAndPort {
		h.log.Infof("starting server: %s on: %q", httpsLogName, listen)

		ln, err := net.Listen(h.ipType[i], listen)
		if nil != err {
			h.log.Errorf("%s listen error: %s", httpsLogName, err)
			return err
		}

		s := &http.Server{
			Handler:        h.handler,
			ReadTimeout:    readWriteTimeout,
			WriteTimeout:   readWriteTimeout,
			MaxHeaderBytes: 1 << 20,
		}
		h.servers = append(h.servers, s)
		h.addrs = append(h.addrs, ln.Addr())

		go func() {
			err := s.Serve(tls.NewListener(ln, h.tlsConfig))
			if nil != err && http.ErrServerClosed != err {
				h.log.Errorf("%s terminated: %s", httpsLogName, err)
			}
		}()
	}

	return nil
}

// Addresses - the bound addresses once serving
func (h *httpsListener) Addresses() []net.Addr {
	h.Lock()
	defer h.Unlock()
	return append([]net.Addr(nil), h.addrs...)
}

// Stop - shut every server down
func (h *httpsListener) Stop() {
	h.Lock()
	defer h.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, s := range h.servers {
		_ = s.Shutdown(ctx)
	}
	h.servers = nil
	h.addrs = nil
}
