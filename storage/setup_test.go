// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

const (
	testingDirName = "testing"
)

func setupTestLogger() {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
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

func removeFiles() {
	os.RemoveAll(testingDirName)
}

func setup(t *testing.T) {
	setupTestLogger()
	err := storage.InitialiseMemory()
	require.NoError(t, err, "memory database")
}

func teardown() {
	storage.Finalise()
	logger.Finalise()
	removeFiles()
}

func TestInitialiseTwice(t *testing.T) {
	setup(t)
	defer teardown()

	err := storage.InitialiseMemory()
	assert.Equal(t, fault.AlreadyInitialised, err, "second initialise")
}

func TestInitialiseOnDisk(t *testing.T) {
	setupTestLogger()
	defer removeFiles()

	database := testingDirName + "/market.leveldb"
	err := storage.Initialise(database, storage.ReadWrite)
	require.NoError(t, err, "create database")

	trx, err := storage.NewDBTransaction()
	require.NoError(t, err, "transaction")
	trx.PutN(storage.Pool.Counters, []byte("supply"), 3)
	require.NoError(t, trx.Commit(), "commit")
	storage.Finalise()

	err = storage.Initialise(database, storage.ReadOnly)
	require.NoError(t, err, "reopen read only")
	defer storage.Finalise()

	n, found := storage.Pool.Counters.GetN([]byte("supply"))
	assert.True(t, found, "counter persisted")
	assert.Equal(t, uint64(3), n, "counter value")

	_, err = storage.NewDBTransaction()
	assert.Equal(t, fault.NotAvailableInReadOnlyMode, err, "read only transaction")
}

func TestTransactionWithoutDatabase(t *testing.T) {
	_, err := storage.NewDBTransaction()
	assert.Equal(t, fault.DatabaseIsNotSet, err, "no database")
}
