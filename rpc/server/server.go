// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/chain"
	"github.com/bitmark-inc/marketd/clock"
	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/admin"
	"github.com/bitmark-inc/marketd/rpc/assets"
	"github.com/bitmark-inc/marketd/rpc/contract"
	"github.com/bitmark-inc/marketd/rpc/funds"
	"github.com/bitmark-inc/marketd/rpc/listings"
	"github.com/bitmark-inc/marketd/rpc/node"
	"github.com/bitmark-inc/marketd/rpc/signed"
)

// Create - an RPC server with every service registered
//
// all services share one verifier so a signed request is accepted
// once by whichever service it names
func Create(log *logger.L, version string, chainName string, rpcCount *counter.Counter, svc market.Service, c clock.Clock) *rpc.Server {

	start := time.Now().UTC()
	isTesting := chain.IsTesting(chainName)
	verifier := signed.NewVerifier(c, isTesting)

	server := rpc.NewServer()

	_ = server.Register(assets.New(log, svc, verifier))
	_ = server.Register(listings.New(log, svc, verifier))
	_ = server.Register(admin.New(log, svc, verifier))
	_ = server.Register(contract.New(log, svc, verifier))
	_ = server.Register(funds.New(log, svc, verifier, isTesting))
	_ = server.Register(node.New(log, start, version, chainName, rpcCount, svc))

	return server
}
