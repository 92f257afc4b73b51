// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/command/market-cli/configuration"
	"github.com/bitmark-inc/marketd/keypair"
)

func runGenerate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	keyPair, err := keypair.New(m.testnet)
	if nil != err {
		return err
	}

	return printJson(m.w, keyPair.Raw())
}

func runSetup(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.GlobalString("identity")
	if "" == name {
		return fmt.Errorf("identity name is required")
	}

	connect := c.String("connect")
	if "" == connect {
		return fmt.Errorf("connect is required")
	}

	m.config = configuration.New(m.testnet, connect)
	err := addIdentity(c, m, name)
	if nil != err {
		return err
	}

	m.save = true
	return printJson(m.w, m.config.Info())
}

func runAdd(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.GlobalString("identity")
	if "" == name {
		return fmt.Errorf("identity name is required")
	}

	if acc := c.String("account"); "" != acc {
		err := m.config.AddReceiveOnlyIdentity(name, c.String("description"), acc)
		if nil != err {
			return err
		}
	} else {
		err := addIdentity(c, m, name)
		if nil != err {
			return err
		}
		m.config.DefaultIdentity = name
	}

	m.save = true
	return printJson(m.w, m.config.Info())
}

func runIdentities(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	return printJson(m.w, m.config.Info())
}

// store an identity from a given or fresh seed
func addIdentity(c *cli.Context, m *metadata, name string) error {

	seed := c.String("seed")
	if "" == seed {
		var err error
		seed, err = keypair.NewSeed(m.testnet)
		if nil != err {
			return err
		}
	}

	password := c.GlobalString("password")
	if "" == password {
		var err error
		password, err = promptNewPassword()
		if nil != err {
			return err
		}
	}

	if m.verbose {
		fmt.Fprintf(m.e, "adding identity: %q\n", name)
	}

	return m.config.AddIdentity(name, c.String("description"), seed, password)
}
