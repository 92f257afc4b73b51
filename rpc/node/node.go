// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Node - type for RPC calls
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Start   time.Time
	Version string
	Chain   string
	Market  market.Service
	counter *counter.Counter
}

// New - create the RPC type
func New(log *logger.L, start time.Time, version string, chain string, counter *counter.Counter, svc market.Service) *Node {
	return &Node{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:   start,
		Version: version,
		Chain:   chain,
		Market:  svc,
		counter: counter,
	}
}

// ---

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Chain   string      `json:"chain"`
	RPCs    uint64      `json:"rpcs"`
	Version string      `json:"version"`
	Uptime  string      `json:"uptime"`
	Market  market.Info `json:"market"`
}

// Info - return some information about this node
// only enough for clients to determine market state
// for more detail information use HTTP GET requests
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	reply.Chain = node.Chain
	reply.RPCs = node.counter.Uint64()
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	reply.Market = node.Market.Info()
	return nil
}

// ---

// EventsArguments - arguments for RPC
type EventsArguments struct {
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// EventsReply - result from RPC
type EventsReply struct {
	Events    []event.Record `json:"events"`
	NextStart uint64         `json:"nextStart,string"`
}

// Events - page through the committed event log
func (node *Node) Events(arguments *EventsArguments, reply *EventsReply) error {

	if err := ratelimit.LimitN(node.Limiter, arguments.Count, event.MaximumCount); nil != err {
		return err
	}

	records, nextStart, err := node.Market.Events(arguments.Start, arguments.Count)
	if nil != err {
		return err
	}
	reply.Events = records
	reply.NextStart = nextStart

	return nil
}
