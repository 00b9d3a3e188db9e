// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/configuration"
	"github.com/bitmark-inc/rentald/expiry"
	"github.com/bitmark-inc/rentald/processor"
	"github.com/bitmark-inc/rentald/rpc/listeners"
	"github.com/bitmark-inc/rentald/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultKeyFile         = "rpc.key"
	defaultCertificateFile = "rpc.crt"

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "rentald.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "rentald.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients = 10

	defaultRenewalWindowDays = 30
)

// payment channels
const (
	channelBook     = "book"
	channelPostgres = "postgres"
)

// DatabaseType - leveldb location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// PaymentType - which channel moves funds
type PaymentType struct {
	Channel     string `gluamapper:"channel" json:"channel"`
	DSN         string `gluamapper:"dsn" json:"-"`
	AllowCredit bool   `gluamapper:"allow_credit" json:"allow_credit"`
}

// ProcessorType - instruction rules
type ProcessorType struct {
	RenewalWindowDays uint64 `gluamapper:"renewal_window_days" json:"renewal_window_days"`
	AdjustPolicy      string `gluamapper:"adjust_policy" json:"adjust_policy"`
}

// ExpiryType - background expiry sweep
type ExpiryType struct {
	Enabled   bool   `gluamapper:"enabled" json:"enabled"`
	Interval  uint64 `gluamapper:"interval" json:"interval"` // seconds
	BatchSize int    `gluamapper:"batch_size" json:"batch_size"`
}

// Configuration - the daemon configuration file
type Configuration struct {
	DataDirectory string        `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string        `gluamapper:"pidfile" json:"pidfile"`
	Deployment    string        `gluamapper:"deployment" json:"deployment"`
	Database      DatabaseType  `gluamapper:"database" json:"database"`
	Payment       PaymentType   `gluamapper:"payment" json:"payment"`
	Processor     ProcessorType `gluamapper:"processor" json:"processor"`
	Expiry        ExpiryType    `gluamapper:"expiry" json:"expiry"`

	ClientRPC listeners.RPCConfiguration   `gluamapper:"client_rpc" json:"client_rpc"`
	HttpsRPC  listeners.HTTPSConfiguration `gluamapper:"https_rpc" json:"https_rpc"`
	Logging   logger.Configuration         `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		Payment: PaymentType{
			Channel: channelBook,
		},

		Processor: ProcessorType{
			RenewalWindowDays: defaultRenewalWindowDays,
			AdjustPolicy:      processor.AdjustByLandlord,
		},

		Expiry: ExpiryType{
			Enabled:   true,
			Interval:  uint64(expiry.DefaultInterval.Seconds()),
			BatchSize: expiry.DefaultBatchSize,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		// default: share config with normal RPC
		HttpsRPC: listeners.HTTPSConfiguration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	if "" == options.Deployment {
		return nil, fmt.Errorf("deployment: must not be blank")
	}

	switch options.Payment.Channel {
	case channelBook:
	case channelPostgres:
		if "" == options.Payment.DSN {
			return nil, fmt.Errorf("payment: channel: %q requires a dsn", channelPostgres)
		}
	default:
		return nil, fmt.Errorf("payment: channel: %q is not one of: %q, %q", options.Payment.Channel, channelBook, channelPostgres)
	}

	switch options.Processor.AdjustPolicy {
	case processor.AdjustByLandlord, processor.AdjustByEither:
	default:
		return nil, fmt.Errorf("processor: adjust_policy: %q is not one of: %q, %q", options.Processor.AdjustPolicy, processor.AdjustByLandlord, processor.AdjustByEither)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if !util.IsDirectory(options.DataDirectory) {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
		&options.HttpsRPC.Certificate,
		&options.HttpsRPC.PrivateKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path separator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("files: %q is not plain name", *f[0])
		}
	}

	// create directories if they do not already exist
	for _, d := range []string{
		options.Database.Directory,
		options.Logging.Directory,
	} {
		if err := os.MkdirAll(d, 0o700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}
