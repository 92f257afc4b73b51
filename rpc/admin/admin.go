// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package admin

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
	"github.com/bitmark-inc/marketd/rpc/signed"
)

// owner operations are rare
const (
	rateLimitAdmin = 10
	rateBurstAdmin = 5
)

// Admin - type for the RPC
type Admin struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Market   market.Service
	Verifier *signed.Verifier
}

// New - create the RPC type
func New(log *logger.L, svc market.Service, verifier *signed.Verifier) *Admin {
	return &Admin{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitAdmin, rateBurstAdmin),
		Market:   svc,
		Verifier: verifier,
	}
}

// Arguments - owner request with no further data
type Arguments struct {
	signed.Envelope
}

// StateReply - pause state after the request
type StateReply struct {
	Paused bool `json:"paused"`
}

// Pause - stop listing and minting
func (admin *Admin) Pause(arguments *Arguments, reply *StateReply) error {
	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	call, err := admin.Verifier.Verify("Admin.Pause", arguments)
	if nil != err {
		return err
	}

	admin.Log.Warnf("Admin.Pause: caller: %s", call.Caller)

	err = admin.Market.Pause(context.Background(), call)
	if nil != err {
		return err
	}
	reply.Paused = true
	return nil
}

// Unpause - resume listing and minting
func (admin *Admin) Unpause(arguments *Arguments, reply *StateReply) error {
	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	call, err := admin.Verifier.Verify("Admin.Unpause", arguments)
	if nil != err {
		return err
	}

	admin.Log.Warnf("Admin.Unpause: caller: %s", call.Caller)

	err = admin.Market.Unpause(context.Background(), call)
	if nil != err {
		return err
	}
	reply.Paused = false
	return nil
}

// WithdrawReply - amount moved to the owner
type WithdrawReply struct {
	Amount uint64 `json:"amount,string"`
}

// Withdraw - move the custodian balance to the owner
func (admin *Admin) Withdraw(arguments *Arguments, reply *WithdrawReply) error {
	if err := ratelimit.Limit(admin.Limiter); nil != err {
		return err
	}

	call, err := admin.Verifier.Verify("Admin.Withdraw", arguments)
	if nil != err {
		return err
	}

	amount, err := admin.Market.Withdraw(context.Background(), call)
	if nil != err {
		return err
	}

	admin.Log.Warnf("Admin.Withdraw: caller: %s  amount: %d", call.Caller, amount)

	reply.Amount = amount
	return nil
}
