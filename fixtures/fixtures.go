// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared setup for package tests
package fixtures

import (
	"fmt"
	"os"
	"time"

	"github.com/bitmark-inc/certgen"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/keypair"
	"github.com/bitmark-inc/marketd/storage"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// test identities
var (
	Owner *keypair.KeyPair
	Alice *keypair.KeyPair
	Bob   *keypair.KeyPair
	Carol *keypair.KeyPair

	// the market's custody identity
	Market = account.NewContract("market", true)
)

func init() {
	Owner = mustKeyPair()
	Alice = mustKeyPair()
	Bob = mustKeyPair()
	Carol = mustKeyPair()
}

func mustKeyPair() *keypair.KeyPair {
	k, err := keypair.New(true)
	if nil != err {
		panic(err)
	}
	return k
}

// SetupTestLogger - log to a scratch directory, critical only
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

// SetupDatabase - logger plus an empty in-memory database
func SetupDatabase() {
	SetupTestLogger()
	err := storage.InitialiseMemory()
	if nil != err {
		panic(err)
	}
}

// TeardownDatabase - discard the in-memory database
func TeardownDatabase() {
	storage.Finalise()
	TeardownTestLogger()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}

// Certificate - fresh self-signed PEM certificate and key
func Certificate() (string, string) {
	validUntil := time.Now().Add(24 * time.Hour)
	cert, key, err := certgen.NewTLSCertPair("marketd test certificate", validUntil, false, []string{"localhost"})
	if nil != err {
		panic(err)
	}
	return string(cert), string(key)
}
