// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/rentald/background"
	"github.com/bitmark-inc/rentald/counter"
	"github.com/bitmark-inc/rentald/expiry"
	"github.com/bitmark-inc/rentald/payment"
	"github.com/bitmark-inc/rentald/payment/book"
	"github.com/bitmark-inc/rentald/payment/pgledger"
	"github.com/bitmark-inc/rentald/processor"
	"github.com/bitmark-inc/rentald/rpc/certificate"
	"github.com/bitmark-inc/rentald/rpc/handler"
	"github.com/bitmark-inc/rentald/rpc/listeners"
	"github.com/bitmark-inc/rentald/rpc/server"
	"github.com/bitmark-inc/rentald/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

const channelSetupTimeout = 30 * time.Second

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// general info
	log.Infof("deployment: %q", theConfiguration.Deployment)
	log.Infof("database: %q", theConfiguration.Database.Name)
	log.Infof("payment channel: %q", theConfiguration.Payment.Channel)

	// connection info
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)
	log.Debugf("%s = %#v", "HttpsRPC", theConfiguration.HttpsRPC)

	// start the data storage
	log.Info("initialise storage")
	store, err := storage.Open(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	// start payment services
	log.Info("initialise payment")
	channel, closeChannel, err := openChannel(&theConfiguration.Payment, store)
	if nil != err {
		log.Criticalf("payment initialise error: %s", err)
		exitwithstatus.Message("payment initialise error: %s", err)
	}
	defer closeChannel()

	// the instruction processor
	log.Info("initialise processor")
	ledger, err := processor.New(processor.Configuration{
		Deployment:    theConfiguration.Deployment,
		RenewalWindow: time.Duration(theConfiguration.Processor.RenewalWindowDays) * 24 * time.Hour,
		AdjustPolicy:  theConfiguration.Processor.AdjustPolicy,
	}, store, channel)
	if nil != err {
		log.Criticalf("processor initialise error: %s", err)
		exitwithstatus.Message("processor initialise error: %s", err)
	}

	processes := background.Processes{}

	// background expiry of overdue rentals
	if theConfiguration.Expiry.Enabled {
		caller, err := expiry.Identity(ledger.PlatformAddress())
		if nil != err {
			log.Criticalf("expiry identity error: %s", err)
			exitwithstatus.Message("expiry identity error: %s", err)
		}
		interval := time.Duration(theConfiguration.Expiry.Interval) * time.Second
		processes = append(processes, expiry.New(ledger, caller, interval, theConfiguration.Expiry.BatchSize))
	}

	// start up the rpc front ends
	rpcServer := server.Create(logger.New("rpc"), ledger)
	started := []listeners.Listener{}

	if 0 != len(theConfiguration.ClientRPC.Listen) {
		rpcLog := logger.New("client_rpc")
		reloader, err := certificate.NewReloader(rpcLog, "client_rpc", theConfiguration.ClientRPC.Certificate, theConfiguration.ClientRPC.PrivateKey)
		if nil != err {
			log.Criticalf("client rpc certificate error: %s", err)
			exitwithstatus.Message("client rpc certificate error: %s", err)
		}
		processes = append(processes, reloader)

		var connections counter.Counter
		l, err := listeners.NewRPC(&theConfiguration.ClientRPC, rpcLog, &connections, rpcServer, reloader.Config(), reloader.Fingerprint())
		if nil != err {
			log.Criticalf("client rpc initialise error: %s", err)
			exitwithstatus.Message("client rpc initialise error: %s", err)
		}
		started = append(started, l)
	} else {
		log.Info("disable: client_rpc")
	}

	httpsLog := logger.New("https_rpc")
	if 0 != len(theConfiguration.HttpsRPC.Listen) {
		reloader, err := certificate.NewReloader(httpsLog, "https_rpc", theConfiguration.HttpsRPC.Certificate, theConfiguration.HttpsRPC.PrivateKey)
		if nil != err {
			log.Criticalf("https rpc certificate error: %s", err)
			exitwithstatus.Message("https rpc certificate error: %s", err)
		}
		processes = append(processes, reloader)

		hdlr := handler.New(httpsLog, rpcServer, time.Now(), version, theConfiguration.HttpsRPC.MaximumConnections)
		l, err := listeners.NewHTTPS(&theConfiguration.HttpsRPC, httpsLog, reloader.Config(), hdlr)
		if nil != err {
			log.Criticalf("https rpc initialise error: %s", err)
			exitwithstatus.Message("https rpc initialise error: %s", err)
		}
		started = append(started, l)
	} else {
		log.Info("disable: https_rpc")
	}

	register := background.Start(processes, nil)
	defer register.Stop()

	for _, l := range started {
		if err := l.Serve(); nil != err {
			log.Criticalf("rpc serve error: %s", err)
			exitwithstatus.Message("rpc serve error: %s", err)
		}
		defer l.Stop()
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// openChannel - the configured payment channel and its close function
func openChannel(configuration *PaymentType, store *storage.Store) (payment.Channel, func(), error) {
	switch configuration.Channel {
	case channelPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), channelSetupTimeout)
		defer cancel()

		ledger, err := pgledger.New(ctx, configuration.DSN, configuration.AllowCredit)
		if nil != err {
			return nil, nil, err
		}
		if err := ledger.Migrate(ctx); nil != err {
			ledger.Close()
			return nil, nil, err
		}
		return ledger, ledger.Close, nil

	default:
		return book.New(store, configuration.AllowCredit), func() {}, nil
	}
}
