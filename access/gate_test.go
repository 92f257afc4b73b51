// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/marketd/access"
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/clock"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/storage"
)

func setupGate(t *testing.T, pausable bool) *access.Gate {
	fixtures.SetupDatabase()
	g := access.New(event.NewLog(clock.NewManual(1000)), pausable)

	trx, err := storage.NewDBTransaction()
	require.NoError(t, err, "begin")
	require.NoError(t, g.Initialise(trx, fixtures.Owner.Account), "initialise")
	require.NoError(t, trx.Commit(), "commit")
	return g
}

func TestInitialise(t *testing.T) {
	g := setupGate(t, true)
	defer fixtures.TeardownDatabase()

	assert.Equal(t, fixtures.Owner.Account, g.Owner(storage.Committed()), "stored owner")

	trx, _ := storage.NewDBTransaction()
	defer trx.Abort()

	assert.NoError(t, g.Initialise(trx, fixtures.Owner.Account), "same owner again")
	assert.Equal(t, fault.OwnerMismatch, g.Initialise(trx, fixtures.Alice.Account), "different owner")
	assert.Equal(t, fault.InvalidOwner, g.Initialise(trx, account.NullAccount), "null owner")
	assert.Equal(t, fault.InvalidOwner, g.Initialise(trx, fixtures.Market), "contract owner")
}

func TestRequireOwner(t *testing.T) {
	g := setupGate(t, true)
	defer fixtures.TeardownDatabase()

	r := storage.Committed()
	assert.NoError(t, g.RequireOwner(r, fixtures.Owner.Account), "owner")

	err := g.RequireOwner(r, fixtures.Alice.Account)
	assert.Equal(t, fault.NotContractOwner, err, "not owner")
	assert.True(t, fault.IsErrAuthorization(err), "authorization class")

	assert.Equal(t, fault.NotContractOwner, g.RequireOwner(r, account.NullAccount), "null caller")
}

func TestPause(t *testing.T) {
	g := setupGate(t, true)
	defer fixtures.TeardownDatabase()

	owner := fixtures.Owner.Account

	trx, _ := storage.NewDBTransaction()
	defer trx.Abort()

	assert.NoError(t, g.RequireNotPaused(trx), "initially running")
	assert.Equal(t, fault.NotPaused, g.Unpause(trx, owner), "unpause while running")
	assert.Equal(t, fault.NotContractOwner, g.Pause(trx, fixtures.Alice.Account), "stranger pause")

	require.NoError(t, g.Pause(trx, owner), "pause")
	assert.True(t, g.IsPaused(trx), "paused")
	err := g.RequireNotPaused(trx)
	assert.Equal(t, fault.Paused, err, "require not paused")
	assert.True(t, fault.IsErrState(err), "state class")
	assert.Equal(t, fault.Paused, g.Pause(trx, owner), "pause twice")

	assert.Equal(t, fault.NotContractOwner, g.Unpause(trx, fixtures.Alice.Account), "stranger unpause")
	require.NoError(t, g.Unpause(trx, owner), "unpause")
	assert.NoError(t, g.RequireNotPaused(trx), "running again")

	assert.Equal(t, uint64(2), event.Sequence(trx), "two events")
}

func TestNotPausable(t *testing.T) {
	g := setupGate(t, false)
	defer fixtures.TeardownDatabase()

	trx, _ := storage.NewDBTransaction()
	defer trx.Abort()

	assert.False(t, g.Pausable(), "not pausable")
	assert.Equal(t, fault.NotPausable, g.Pause(trx, fixtures.Owner.Account), "pause")
	assert.Equal(t, fault.NotPausable, g.Unpause(trx, fixtures.Owner.Account), "unpause")
	assert.NoError(t, g.RequireNotPaused(trx), "never paused")
}

type owners map[uint64]account.Account

func (o owners) OwnerOf(_ storage.Reader, id uint64) (account.Account, error) {
	a, ok := o[id]
	if !ok {
		return account.NullAccount, fault.NoSuchAsset
	}
	return a, nil
}

func TestPredicates(t *testing.T) {
	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account

	assert.True(t, access.IsSeller(alice, alice), "seller")
	assert.False(t, access.IsSeller(alice, bob), "not seller")
	assert.False(t, access.IsSeller(account.NullAccount, account.NullAccount), "no seller of record")

	lookup := owners{1: alice}
	assert.True(t, access.IsAssetOwner(nil, lookup, alice, 1), "owner")
	assert.False(t, access.IsAssetOwner(nil, lookup, bob, 1), "not owner")
	assert.False(t, access.IsAssetOwner(nil, lookup, account.NullAccount, 2), "missing asset")
}
