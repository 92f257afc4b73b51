// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/chain"
	"github.com/bitmark-inc/marketd/command/market-cli/configuration"
)

type metadata struct {
	file    string
	config  *configuration.Configuration
	save    bool
	testnet bool
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp()
	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {

	app := cli.NewApp()
	app.Name = "market-cli"
	app.Usage = "client for marketd"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	assetFlag := cli.StringFlag{
		Name:  "asset, a",
		Value: "",
		Usage: "*asset `ID`",
	}
	priceFlag := cli.StringFlag{
		Name:  "price, P",
		Value: "",
		Usage: "*price in whole units `AMOUNT`",
	}
	startFlag := cli.Uint64Flag{
		Name:  "start, s",
		Value: 0,
		Usage: " start point `COUNT`",
	}
	countFlag := cli.IntFlag{
		Name:  "count, c",
		Value: 20,
		Usage: " maximum records to output `COUNT`",
	}
	descriptionFlag := cli.StringFlag{
		Name:  "description, d",
		Value: "",
		Usage: " identity description `STRING`",
	}
	seedFlag := cli.StringFlag{
		Name:  "seed, k",
		Value: "",
		Usage: " use an existing `SEED`",
	}

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "network, n",
			Value: configuration.DefaultNetwork,
			Usage: " connect to market `NETWORK` [live|testing|local]",
		},
		cli.StringFlag{
			Name:  "identity, i",
			Value: "",
			Usage: " identity `NAME` [default identity]",
		},
		cli.StringFlag{
			Name:  "password, p",
			Value: "",
			Usage: " identity `PASSWORD`",
		},
		cli.StringFlag{
			Name:  "use-agent, u",
			Value: "",
			Usage: " executable program that returns the password `EXE`",
		},
		cli.BoolFlag{
			Name:  "zero-agent-cache, z",
			Usage: " force re-entry of agent password",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "generate key pair, will not store in config file",
			ArgsUsage: "\n   (* = required)",
			Action:    runGenerate,
		},
		{
			Name:      "setup",
			Usage:     "initialise market-cli configuration with the identity given by -i",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "connect, c",
					Value: "",
					Usage: "*marketd host/IP and port, `HOST:PORT`",
				},
				descriptionFlag,
				seedFlag,
			},
			Action: runSetup,
		},
		{
			Name:      "add",
			Usage:     "add the identity given by -i to config file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				descriptionFlag,
				seedFlag,
				cli.StringFlag{
					Name:  "account, A",
					Value: "",
					Usage: " receive only `ACCOUNT`, no signing key",
				},
			},
			Action: runAdd,
		},
		{
			Name:   "identities",
			Usage:  "display configured identities",
			Action: runIdentities,
		},
		{
			Name:      "create",
			Usage:     "create one or more original assets",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringSliceFlag{
					Name:  "uri, m",
					Usage: "*metadata `URI`, repeat for a batch",
				},
				cli.Uint64Flag{
					Name:  "cap, q",
					Value: 0,
					Usage: " duplicates allowed per asset `COUNT`",
				},
			},
			Action: runCreate,
		},
		{
			Name:      "duplicate",
			Usage:     "mint a duplicate of an original asset",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "original, o",
					Value: "",
					Usage: "*original asset `ID`",
				},
				cli.StringFlag{
					Name:  "uri, m",
					Value: "",
					Usage: "*metadata `URI`",
				},
			},
			Action: runDuplicate,
		},
		{
			Name:      "transfer",
			Usage:     "transfer an asset to another account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				assetFlag,
				cli.StringFlag{
					Name:  "receiver, r",
					Value: "",
					Usage: "*identity name or account to receive the asset `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "from, f",
					Value: "",
					Usage: " current owner `ACCOUNT` default is global identity",
				},
			},
			Action: runTransfer,
		},
		{
			Name:      "approve",
			Usage:     "allow another account to transfer an asset",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				assetFlag,
				cli.StringFlag{
					Name:  "spender, r",
					Value: "",
					Usage: " approved `ACCOUNT`, blank clears the approval",
				},
			},
			Action: runApprove,
		},
		{
			Name:      "operator",
			Usage:     "allow another account to transfer all assets",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "operator, o",
					Value: "",
					Usage: "*operator `ACCOUNT`",
				},
				cli.BoolFlag{
					Name:  "revoke, x",
					Usage: " remove the operator",
				},
			},
			Action: runOperator,
		},
		{
			Name:      "burn",
			Usage:     "destroy an asset",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{assetFlag},
			Action:    runBurn,
		},
		{
			Name:      "asset",
			Usage:     "display an asset",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{assetFlag},
			Action:    runAsset,
		},
		{
			Name:      "holdings",
			Usage:     "count assets owned",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: " owner `ACCOUNT` default is global identity",
				},
				cli.StringFlag{
					Name:  "operator, O",
					Value: "",
					Usage: " also check this operator `ACCOUNT`",
				},
			},
			Action: runHoldings,
		},
		{
			Name:      "list",
			Usage:     "offer an asset for sale",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{assetFlag, priceFlag},
			Action:    runList,
		},
		{
			Name:      "update",
			Usage:     "change the price of a listing",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{assetFlag, priceFlag},
			Action:    runUpdate,
		},
		{
			Name:      "buy",
			Usage:     "buy a listed asset",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				assetFlag,
				cli.StringFlag{
					Name:  "price, P",
					Value: "",
					Usage: " payment `AMOUNT` default is the listed price",
				},
			},
			Action: runBuy,
		},
		{
			Name:      "cancel",
			Usage:     "withdraw an asset from sale",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{assetFlag},
			Action:    runCancel,
		},
		{
			Name:      "listing",
			Usage:     "display a listing",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{assetFlag},
			Action:    runListing,
		},
		{
			Name:      "listings",
			Usage:     "display active listings",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{startFlag, countFlag},
			Action:    runListings,
		},
		{
			Name:      "events",
			Usage:     "display the event log",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{startFlag, countFlag},
			Action:    runEvents,
		},
		{
			Name:   "pause",
			Usage:  "stop minting and trading (owner only)",
			Action: runPause,
		},
		{
			Name:   "unpause",
			Usage:  "resume minting and trading (owner only)",
			Action: runUnpause,
		},
		{
			Name:   "withdraw",
			Usage:  "move the market balance to the owner (owner only)",
			Action: runWithdraw,
		},
		{
			Name:      "balance",
			Usage:     "display funds of an account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: " `ACCOUNT` default is global identity",
				},
			},
			Action: runBalance,
		},
		{
			Name:      "deposit",
			Usage:     "fund the global identity (test networks only)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "amount, A",
					Value: "",
					Usage: "*`AMOUNT` in whole units",
				},
			},
			Action: runDeposit,
		},
		{
			Name:      "send",
			Usage:     "send funds to the market",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "amount, A",
					Value: "",
					Usage: "*`AMOUNT` in whole units",
				},
			},
			Action: runSend,
		},
		{
			Name:   "info",
			Usage:  "display marketd status",
			Action: runInfo,
		},
		{
			Name:  "version",
			Usage: "display market-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// read the configuration
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		if "version" == command || "help" == command || "" == command {
			return nil
		}

		network := c.GlobalString("network")
		switch network {
		case chain.Live, "bitmark":
			network = chain.Live
		case chain.Testing, "test":
			network = chain.Testing
		case chain.Local, "regression":
			network = chain.Local
		default:
			return fmt.Errorf("network: %q can only be live/testing/local", network)
		}
		testnet := chain.IsTesting(network)

		m := &metadata{
			testnet: testnet,
			verbose: verbose,
			e:       e,
			w:       w,
		}
		c.App.Metadata["config"] = m

		if "generate" == command {
			return nil
		}

		file, err := configurationFile(app.Name, network)
		if nil != err {
			return err
		}
		m.file = file

		if verbose {
			fmt.Fprintf(e, "file: %q\n", file)
		}

		if "setup" == command {
			// do not run setup if there is an existing configuration
			if _, err := checkFileExists(file); nil == err {
				return fmt.Errorf("not overwriting existing configuration: %q", file)
			}
			return nil
		}

		config, err := configuration.Load(file)
		if nil != err {
			return err
		}
		if config.TestNet != testnet {
			return fmt.Errorf("configuration: %q is not for network: %s", file, network)
		}
		m.config = config

		return nil
	}

	// update the configuration if required
	app.After = func(c *cli.Context) error {
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok || !m.save {
			return nil
		}
		if m.verbose {
			fmt.Fprintf(m.e, "updating config file: %s\n", m.file)
		}
		return configuration.Save(m.file, m.config)
	}

	return app
}

// configuration file for a network under XDG_CONFIG_HOME
func configurationFile(name string, network string) (string, error) {
	p := os.Getenv("XDG_CONFIG_HOME")
	if "" == p {
		return "", fmt.Errorf("XDG_CONFIG_HOME environment is not set")
	}
	dir, err := checkFileExists(p)
	if nil != err {
		return "", err
	}
	if !dir {
		return "", fmt.Errorf("not a directory: %q", p)
	}
	return path.Join(p, name, network+"-"+name+".json"), nil
}
