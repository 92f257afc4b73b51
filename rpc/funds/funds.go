// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package funds

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
	"github.com/bitmark-inc/marketd/rpc/signed"
)

const (
	rateLimitFunds = 200
	rateBurstFunds = 100

	// largest single test chain deposit
	MaximumDeposit = 1000000000
)

// Funds - type for the RPC
type Funds struct {
	Log       *logger.L
	Limiter   *rate.Limiter
	Market    market.Service
	Verifier  *signed.Verifier
	IsTesting bool
}

// New - create the RPC type
func New(log *logger.L, svc market.Service, verifier *signed.Verifier, isTesting bool) *Funds {
	return &Funds{
		Log:       log,
		Limiter:   rate.NewLimiter(rateLimitFunds, rateBurstFunds),
		Market:    svc,
		Verifier:  verifier,
		IsTesting: isTesting,
	}
}

// BalanceArguments - arguments for RPC
type BalanceArguments struct {
	Owner account.Account `json:"owner"`
}

// BalanceReply - spendable value of an identity
type BalanceReply struct {
	Owner   account.Account `json:"owner"`
	Balance uint64          `json:"balance,string"`
}

// Balance - value held by an identity
func (funds *Funds) Balance(arguments *BalanceArguments, reply *BalanceReply) error {
	if err := ratelimit.Limit(funds.Limiter); nil != err {
		return err
	}

	if arguments.Owner.IsNull() {
		return fault.MissingParameters
	}

	reply.Owner = arguments.Owner
	reply.Balance = funds.Market.Funds(arguments.Owner)
	return nil
}

// DepositArguments - arguments for RPC
type DepositArguments struct {
	signed.Envelope
	Amount uint64 `json:"amount,string"`
}

// Deposit - fund the caller, test chains only
func (funds *Funds) Deposit(arguments *DepositArguments, reply *BalanceReply) error {
	if err := ratelimit.Limit(funds.Limiter); nil != err {
		return err
	}

	if !funds.IsTesting {
		return fault.FundingNotAllowed
	}

	call, err := funds.Verifier.Verify("Funds.Deposit", arguments)
	if nil != err {
		return err
	}
	if 0 != call.Value {
		return fault.NotPayable
	}
	if 0 == arguments.Amount || arguments.Amount > MaximumDeposit {
		return fault.InvalidAmount
	}

	funds.Log.Infof("Funds.Deposit: caller: %s  amount: %d", call.Caller, arguments.Amount)

	err = funds.Market.Deposit(call.Caller, arguments.Amount)
	if nil != err {
		return err
	}

	reply.Owner = call.Caller
	reply.Balance = funds.Market.Funds(call.Caller)
	return nil
}
