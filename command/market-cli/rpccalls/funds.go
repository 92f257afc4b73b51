// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/rpc/contract"
	"github.com/bitmark-inc/marketd/rpc/funds"
)

// Balance - funds held by an identity
func (client *Client) Balance(owner account.Account) (*funds.BalanceReply, error) {
	args := &funds.BalanceArguments{
		Owner: owner,
	}
	var reply funds.BalanceReply
	if err := client.call("Funds.Balance", args, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Deposit - credit the signing identity (test chains only)
func (client *Client) Deposit(amount uint64) (*funds.BalanceReply, error) {
	args := &funds.DepositArguments{
		Amount: amount,
	}
	var reply funds.BalanceReply
	if err := client.signedCall("Funds.Deposit", args, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Send - plain value transfer to the market
func (client *Client) Send(amount uint64) (*contract.ReceiveReply, error) {
	var reply contract.ReceiveReply
	if err := client.signedCall("Contract.Receive", &contract.ReceiveArguments{}, amount, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
