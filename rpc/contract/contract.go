// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package contract - raw calls into the market
//
// Invoke accepts an encoded market request, the same form other
// contracts use when they call the market from a receiver hook; data
// naming no operation is recorded by the fallback.
package contract

import (
	"context"
	"encoding/json"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
	"github.com/bitmark-inc/marketd/rpc/signed"
)

const (
	rateLimitContract = 100
	rateBurstContract = 50

	// largest payload accepted by Invoke
	maximumDataLength = 65536
)

// Contract - type for the RPC
type Contract struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Market   market.Service
	Verifier *signed.Verifier
}

// New - create the RPC type
func New(log *logger.L, svc market.Service, verifier *signed.Verifier) *Contract {
	return &Contract{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitContract, rateBurstContract),
		Market:   svc,
		Verifier: verifier,
	}
}

// InvokeArguments - arguments for RPC
type InvokeArguments struct {
	signed.Envelope
	Data []byte `json:"data"`
}

// InvokeReply - the operation result, if it has one
type InvokeReply struct {
	Result json.RawMessage `json:"result,omitempty"`
}

// Invoke - dispatch encoded data as a market call
func (contract *Contract) Invoke(arguments *InvokeArguments, reply *InvokeReply) error {
	if err := ratelimit.LimitN(contract.Limiter, 1+len(arguments.Data)/4096, 1+maximumDataLength/4096); nil != err {
		return err
	}

	call, err := contract.Verifier.Verify("Contract.Invoke", arguments)
	if nil != err {
		return err
	}

	contract.Log.Infof("Contract.Invoke: caller: %s  value: %d  data: %d bytes", call.Caller, call.Value, len(arguments.Data))

	result, err := contract.Market.Invoke(context.Background(), call, arguments.Data)
	if nil != err {
		return err
	}
	if nil == result {
		return nil
	}

	reply.Result, err = json.Marshal(result)
	return err
}

// ReceiveArguments - arguments for RPC
type ReceiveArguments struct {
	signed.Envelope
}

// ReceiveReply - the amount accepted
type ReceiveReply struct {
	Amount uint64 `json:"amount,string"`
}

// Receive - send value to the market with no operation
func (contract *Contract) Receive(arguments *ReceiveArguments, reply *ReceiveReply) error {
	if err := ratelimit.Limit(contract.Limiter); nil != err {
		return err
	}

	call, err := contract.Verifier.Verify("Contract.Receive", arguments)
	if nil != err {
		return err
	}

	err = contract.Market.Receive(context.Background(), call)
	if nil != err {
		return err
	}
	reply.Amount = call.Value
	return nil
}
