// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
)

type balanceInfo struct {
	Owner   string `json:"owner"`
	Balance amount `json:"balance"`
}

func runBalance(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner, err := checkAccount(c, "owner", m.config, true)
	if nil != err {
		return err
	}

	client, err := queryClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Balance(owner)
	if nil != err {
		return err
	}
	return printJson(m.w, balanceInfo{
		Owner:   reply.Owner.String(),
		Balance: newAmount(reply.Balance),
	})
}

func runDeposit(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	units, err := checkAmount(c, "amount")
	if nil != err {
		return err
	}

	client, err := signingClient(c, m, "deposit funds")
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Deposit(units)
	if nil != err {
		return err
	}
	return printJson(m.w, balanceInfo{
		Owner:   reply.Owner.String(),
		Balance: newAmount(reply.Balance),
	})
}

func runSend(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	units, err := checkAmount(c, "amount")
	if nil != err {
		return err
	}

	client, err := signingClient(c, m, "send funds to the market")
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Send(units)
	if nil != err {
		return err
	}
	return printJson(m.w, newAmount(reply.Amount))
}
