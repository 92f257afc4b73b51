// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/account"
)

func runCreate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	uris := c.StringSlice("uri")
	if 0 == len(uris) {
		return fmt.Errorf("uri is required")
	}
	duplicationCap := c.Uint64("cap")

	client, err := signingClient(c, m, "create assets")
	if nil != err {
		return err
	}
	defer client.Close()

	if 1 == len(uris) {
		reply, err := client.Create(uris[0], duplicationCap)
		if nil != err {
			return err
		}
		return printJson(m.w, reply)
	}

	caps := make([]uint64, len(uris))
	for i := range caps {
		caps[i] = duplicationCap
	}
	reply, err := client.CreateBatch(uris, caps)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runDuplicate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	originalID, err := checkAssetID(c, "original")
	if nil != err {
		return err
	}
	uri := c.String("uri")
	if "" == uri {
		return fmt.Errorf("uri is required")
	}

	client, err := signingClient(c, m, "duplicate an asset")
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Duplicate(originalID, uri)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runTransfer(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkAssetID(c, "asset")
	if nil != err {
		return err
	}
	to, err := checkAccount(c, "receiver", m.config, false)
	if nil != err {
		return err
	}
	from, err := checkAccount(c, "from", m.config, true)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "asset: %d\n", id)
		fmt.Fprintf(m.e, "from: %s\n", from)
		fmt.Fprintf(m.e, "to: %s\n", to)
	}

	client, err := signingClient(c, m, "transfer an asset")
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Transfer(from, to, id)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runApprove(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkAssetID(c, "asset")
	if nil != err {
		return err
	}

	// a blank spender clears the approval
	spender := account.Account{}
	if "" != c.String("spender") {
		spender, err = checkAccount(c, "spender", m.config, false)
		if nil != err {
			return err
		}
	}

	client, err := signingClient(c, m, "approve a spender")
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Approve(spender, id)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runOperator(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	operator, err := checkAccount(c, "operator", m.config, false)
	if nil != err {
		return err
	}

	client, err := signingClient(c, m, "set an operator")
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.SetApprovalForAll(operator, !c.Bool("revoke"))
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runBurn(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkAssetID(c, "asset")
	if nil != err {
		return err
	}

	client, err := signingClient(c, m, "burn an asset")
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Burn(id)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runAsset(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkAssetID(c, "asset")
	if nil != err {
		return err
	}

	client, err := queryClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Asset(id)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runHoldings(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner, err := checkAccount(c, "owner", m.config, true)
	if nil != err {
		return err
	}
	operator := account.Account{}
	if "" != c.String("operator") {
		operator, err = checkAccount(c, "operator", m.config, false)
		if nil != err {
			return err
		}
	}

	client, err := queryClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Holdings(owner, operator)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}
