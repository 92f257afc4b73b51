// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
)

func runPause(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := signingClient(c, m, "pause the market")
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Pause()
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runUnpause(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := signingClient(c, m, "unpause the market")
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Unpause()
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runWithdraw(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := signingClient(c, m, "withdraw market funds")
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Withdraw()
	if nil != err {
		return err
	}
	return printJson(m.w, newAmount(reply.Amount))
}
