// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/chain"
	"github.com/bitmark-inc/marketd/configuration"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/listeners"
	"github.com/bitmark-inc/marketd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultLiveDatabase     = chain.Live + ".leveldb"
	defaultTestingDatabase  = chain.Testing + ".leveldb"
	defaultLocalDatabase    = chain.Local + ".leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "marketd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients        = 10
	defaultMaxMintsPerWallet = 1

	// name of the market's custody identity
	custodianName = "market"
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - location of the leveldb files
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// MarketType - fixed parameters of the market
type MarketType struct {
	Owner             string `gluamapper:"owner" json:"owner"`
	RoyaltyPercentage uint64 `gluamapper:"royalty_percentage" json:"royalty_percentage"`
	MaxMintsPerWallet uint64 `gluamapper:"max_mints_per_wallet" json:"max_mints_per_wallet"`
	Cooldown          uint64 `gluamapper:"cooldown" json:"cooldown"`
	CooldownEnabled   bool   `gluamapper:"cooldown_enabled" json:"cooldown_enabled"`
	Pausable          bool   `gluamapper:"pausable" json:"pausable"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Chain         string       `gluamapper:"chain" json:"chain"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	ClientRPC listeners.RPCConfiguration   `gluamapper:"client_rpc" json:"client_rpc"`
	HttpsRPC  listeners.HTTPSConfiguration `gluamapper:"https_rpc" json:"https_rpc"`
	Market    MarketType                   `gluamapper:"market" json:"market"`
	Logging   logger.Configuration         `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Chain:         chain.Live,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultLiveDatabase,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
		},

		HttpsRPC: listeners.HTTPSConfiguration{
			MaximumConnections: defaultRPCClients,
		},

		Market: MarketType{
			MaxMintsPerWallet: defaultMaxMintsPerWallet,
			Cooldown:          uint64(listing.DefaultCooldown / time.Second),
			CooldownEnabled:   true,
			Pausable:          true,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// if any test mode and the database file was not specified
	// switch to appropriate default.  Abort if then chain name is
	// not recognised.
	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fmt.Errorf("Chain: %q is not supported", options.Chain)
	}

	// if database was not changed from default
	if options.Database.Name == defaultLiveDatabase {
		switch options.Chain {
		case chain.Live:
			// already correct default
		case chain.Testing:
			options.Database.Name = defaultTestingDatabase
		case chain.Local:
			options.Database.Name = defaultLocalDatabase
		default:
			return nil, fmt.Errorf("Chain: %s no default database setting", options.Chain)
		}
	}

	// HTTPS shares the RPC key material unless given its own
	if "" == options.HttpsRPC.Certificate && "" == options.HttpsRPC.PrivateKey {
		options.HttpsRPC.Certificate = options.ClientRPC.Certificate
		options.HttpsRPC.PrivateKey = options.ClientRPC.PrivateKey
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.PidFile {
		options.PidFile = util.EnsureAbsolute(options.DataDirectory, options.PidFile)
	}

	// fail if any of these are not simple file names
	for _, name := range []string{options.Database.Name, options.Logging.File} {
		if !util.IsPlainName(name) {
			return nil, fmt.Errorf("Files: %q is not plain name", name)
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d, err = util.EnsureDirectory(options.DataDirectory, *d)
		if nil != err {
			return nil, err
		}
	}
	options.Database.Name = util.EnsureAbsolute(options.Database.Directory, options.Database.Name)

	if _, err := options.marketConfiguration(); nil != err {
		return nil, err
	}

	// done
	return options, nil
}

// convert the market section, identities must belong to the chain
func (c *Configuration) marketConfiguration() (market.Configuration, error) {
	isTesting := chain.IsTesting(c.Chain)

	owner, err := account.FromBase58(c.Market.Owner)
	if nil != err {
		return market.Configuration{}, fmt.Errorf("Market: owner: %q  error: %s", c.Market.Owner, err)
	}
	if owner.IsNull() || owner.IsContract() {
		return market.Configuration{}, fmt.Errorf("Market: owner: %q is not a key identity", c.Market.Owner)
	}
	if owner.IsTesting() != isTesting {
		return market.Configuration{}, fmt.Errorf("Market: owner: %q is not for chain: %s", c.Market.Owner, c.Chain)
	}

	return market.Configuration{
		Owner:             owner,
		Custodian:         account.NewContract(custodianName, isTesting),
		RoyaltyPercentage: c.Market.RoyaltyPercentage,
		MaxMintsPerWallet: c.Market.MaxMintsPerWallet,
		Cooldown:          time.Duration(c.Market.Cooldown) * time.Second,
		CooldownEnabled:   c.Market.CooldownEnabled,
		Pausable:          c.Market.Pausable,
	}, nil
}
