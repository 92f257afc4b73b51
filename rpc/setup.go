// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"net/rpc"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/clock"
	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/certificate"
	"github.com/bitmark-inc/marketd/rpc/handler"
	"github.com/bitmark-inc/marketd/rpc/listeners"
	"github.com/bitmark-inc/marketd/rpc/metrics"
	"github.com/bitmark-inc/marketd/rpc/server"
)

const (
	rpcName   = "client_rpc"
	httpsName = "https_rpc"
)

// globals
type rpcData struct {
	sync.RWMutex // to allow locking

	log *logger.L // logger

	rpcCount   counter.Counter
	httpsCount counter.Counter

	metrics   *metrics.Metrics
	handler   handler.Handler
	listeners []listeners.Listener

	// set once during initialise
	initialised bool
}

// global data
var globalData rpcData

// Parameters - the market and chain served by the listeners
type Parameters struct {
	Version string
	Chain   string
	Market  market.Service
	Clock   clock.Clock
}

// Initialise - start the RPC and HTTPS listeners
func Initialise(rpcConfiguration *listeners.RPCConfiguration, httpsConfiguration *listeners.HTTPSConfiguration, p Parameters) error {

	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	log := logger.New("rpc")
	globalData.log = log
	log.Info("starting…")

	globalData.metrics = metrics.New(&globalData.rpcCount)

	// one server for both listeners so a signed request is accepted once
	s := server.Create(log, p.Version, p.Chain, &globalData.rpcCount, p.Market, p.Clock)

	err := initialiseRPC(rpcConfiguration, s)
	if nil != err {
		closeListeners()
		return err
	}

	err = initialiseHTTPS(httpsConfiguration, s, p)
	if nil != err {
		closeListeners()
		return err
	}

	// all data initialised
	globalData.initialised = true

	return nil
}

func initialiseRPC(configuration *listeners.RPCConfiguration, s *rpc.Server) error {
	log := globalData.log

	tlsConfig, _, err := certificate.Get(log, rpcName, configuration.Certificate, configuration.PrivateKey)
	if nil != err {
		return err
	}

	rpcListener, err := listeners.NewRPC(
		configuration,
		log,
		&globalData.rpcCount,
		s,
		globalData.metrics,
		tlsConfig,
	)
	if nil != err {
		return err
	}

	err = rpcListener.Serve()
	if nil != err {
		return err
	}
	globalData.listeners = append(globalData.listeners, rpcListener)
	return nil
}

func initialiseHTTPS(configuration *listeners.HTTPSConfiguration, s *rpc.Server, p Parameters) error {
	log := globalData.log

	if 0 == len(configuration.Listen) {
		log.Infof("disable: %s", httpsName)
		return nil
	}

	tlsConfig, _, err := certificate.Get(log, httpsName, configuration.Certificate, configuration.PrivateKey)
	if nil != err {
		return err
	}

	globalData.handler = handler.New(handler.Parameters{
		Log:                log,
		Server:             s,
		Start:              time.Now(),
		Version:            p.Version,
		Chain:              p.Chain,
		MaximumConnections: configuration.MaximumConnections,
		Count:              &globalData.httpsCount,
		Market:             p.Market,
		Metrics:            globalData.metrics,
	})

	httpsListener, err := listeners.NewHTTPS(configuration, log, tlsConfig, globalData.handler, globalData.metrics)
	if nil != err {
		return err
	}

	err = httpsListener.Serve()
	if nil != err {
		return err
	}
	globalData.listeners = append(globalData.listeners, httpsListener)
	return nil
}

// Metrics - collectors shared with the event consumer
func Metrics() *metrics.Metrics {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.metrics
}

// SetAllow - replace the HTTPS access lists
func SetAllow(allow map[string][]string) error {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	if nil == globalData.handler {
		return nil
	}

	local, err := listeners.ParseAllow(allow)
	if nil != err {
		return err
	}
	globalData.handler.SetAllow(local)
	globalData.log.Infof("allow lists updated for %d paths", len(local))
	return nil
}

// Finalise - stop all listeners
func Finalise() error {

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	closeListeners()

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

func closeListeners() {
	for _, l := range globalData.listeners {
		_ = l.Close()
	}
	globalData.listeners = nil
	globalData.handler = nil
}
