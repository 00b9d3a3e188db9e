// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate

import (
	"crypto/tls"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/logger"
)

// Reloader - serves a certificate that is replaced whenever its
// files change on disk
//
// a failed reload keeps the previous pair
type Reloader struct {
	sync.RWMutex
	log             *logger.L
	name            string
	certificateFile string
	keyFile         string
	current         *tls.Certificate
	fingerprint     [32]byte
	watcher         *fsnotify.Watcher
}

// NewReloader - load the pair once and watch the containing directories
func NewReloader(log *logger.L, name, certificateFile, keyFile string) (*Reloader, error) {
	r := &Reloader{
		log:             log,
		name:            name,
		certificateFile: filepath.Clean(certificateFile),
		keyFile:         filepath.Clean(keyFile),
	}
	if err := r.reload(); nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("%s new watcher error: %s", name, err)
		return nil, err
	}

	// watch directories since editors and rotation tools replace files
	dirs := map[string]struct{}{
		filepath.Dir(r.certificateFile): {},
		filepath.Dir(r.keyFile):         {},
	}
	for d := range dirs {
		if err := watcher.Add(d); nil != err {
			log.Errorf("%s watch: %q  error: %s", name, d, err)
			_ = watcher.Close()
			return nil, err
		}
	}
	r.watcher = watcher

	return r, nil
}

// Config - a TLS configuration that always offers the current pair
func (r *Reloader) Config() *tls.Config {
	return &tls.Config{
		GetCertificate: func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
			r.RLock()
			defer r.RUnlock()
			return r.current, nil
		},
		MinVersion: tls.VersionTLS12,
	}
}

// Fingerprint - SHA3-256 of the current certificate
func (r *Reloader) Fingerprint() [32]byte {
	r.RLock()
	defer r.RUnlock()
	return r.fingerprint
}

// Run - background process that applies file changes
func (r *Reloader) Run(args interface{}, shutdown <-chan struct{}) {
	log := r.log
	defer r.watcher.Close()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-r.watcher.Events:
			if !ok {
				break loop
			}
			if !r.relevant(event) {
				continue
			}
			log.Debugf("%s file event: %v", r.name, event)
			if err := r.reload(); nil != err {
				log.Warnf("%s reload failed, keeping previous certificate: %s", r.name, err)
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("%s watcher error: %s", r.name, err)
		}
	}
	log.Infof("%s certificate watcher stopped", r.name)
}

func (r *Reloader) relevant(event fsnotify.Event) bool {
	name := filepath.Clean(event.Name)
	if name != r.certificateFile && name != r.keyFile {
		return false
	}
	return 0 != event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename)
}

func (r *Reloader) reload() error {
	tlsConfiguration, fin, err := Load(r.log, r.name, r.certificateFile, r.keyFile)
	if nil != err {
		return err
	}

	r.Lock()
	changed := fin != r.fingerprint
	r.current = &tlsConfiguration.Certificates[0]
	r.fingerprint = fin
	r.Unlock()

	if changed {
		r.log.Infof("%s: SHA3-256 fingerprint: %x", r.name, fin)
	}
	return nil
}
