// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/command/market-cli/configuration"
	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/keypair"
)

// name of the identity to act as
func identityName(c *cli.Context, config *configuration.Configuration) (string, error) {
	name := c.GlobalString("identity")
	if "" == name {
		name = config.DefaultIdentity
	}
	if "" == name {
		return "", fault.IdentityNameNotFound
	}
	return name, nil
}

// password from flag, agent or terminal in that order
func getPassword(c *cli.Context, name string, title string) (string, error) {
	if password := c.GlobalString("password"); "" != password {
		return password, nil
	}
	if agent := c.GlobalString("use-agent"); "" != agent {
		return passwordFromAgent(name, title, agent, c.GlobalBool("zero-agent-cache"))
	}
	return readPassword("password: ")
}

// unlock the acting identity
func getKeyPair(c *cli.Context, m *metadata, title string) (*keypair.KeyPair, error) {
	name, err := identityName(c, m.config)
	if nil != err {
		return nil, err
	}
	password, err := getPassword(c, name, title)
	if nil != err {
		return nil, err
	}
	return m.config.KeyPair(password, name)
}

// connection that can sign as the acting identity
func signingClient(c *cli.Context, m *metadata, title string) (*rpccalls.Client, error) {
	keyPair, err := getKeyPair(c, m, title)
	if nil != err {
		return nil, err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "identity: %s\n", keyPair.Account)
	}
	return rpccalls.NewClient(m.config.Connect, keyPair, m.verbose, m.e)
}

// connection for queries only
func queryClient(m *metadata) (*rpccalls.Client, error) {
	return rpccalls.NewClient(m.config.Connect, nil, m.verbose, m.e)
}

// flag holding an identity name or an account, blank selects the
// acting identity when allowed
func checkAccount(c *cli.Context, flag string, config *configuration.Configuration, optional bool) (account.Account, error) {
	s := c.String(flag)
	if "" == s {
		if !optional {
			return account.Account{}, fmt.Errorf("%s is required", flag)
		}
		name, err := identityName(c, config)
		if nil != err {
			return account.Account{}, err
		}
		s = name
	}

	if a, err := config.Account(s); nil == err {
		return a, nil
	}

	a, err := account.FromBase58(s)
	if nil != err {
		return account.Account{}, err
	}
	if a.IsTesting() != config.TestNet {
		return account.Account{}, fault.WrongNetworkForPublicKey
	}
	return a, nil
}

// flag holding a positive asset identifier
func checkAssetID(c *cli.Context, flag string) (uint64, error) {
	s := c.String(flag)
	if "" == s {
		return 0, fmt.Errorf("%s is required", flag)
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if nil != err || 0 == id {
		return 0, fmt.Errorf("%s: %q is not an asset id", flag, s)
	}
	return id, nil
}

// flag holding an amount
func checkAmount(c *cli.Context, flag string) (uint64, error) {
	s := c.String(flag)
	if "" == s {
		return 0, fmt.Errorf("%s is required", flag)
	}
	return parseAmount(s)
}

func checkFileExists(name string) (bool, error) {
	info, err := os.Stat(name)
	if nil != err {
		return false, err
	}
	return info.IsDir(), nil
}
