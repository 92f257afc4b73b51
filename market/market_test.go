// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/clock"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/funds"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/messagebus"
)

const (
	startTime = 1600000000
	uri       = "ipfs://QmAsset"
)

var ctx = context.Background()

type testEnv struct {
	clock  *clock.Manual
	ledger *funds.Ledger
	market *market.Market
}

func defaultConfiguration() market.Configuration {
	return market.Configuration{
		Owner:             fixtures.Owner.Account,
		Custodian:         fixtures.Market,
		RoyaltyPercentage: 10,
		MaxMintsPerWallet: 1,
		Cooldown:          24 * time.Hour,
		CooldownEnabled:   true,
		Pausable:          true,
	}
}

func setup(t *testing.T) *testEnv {
	return setupWith(t, defaultConfiguration())
}

func setupWith(t *testing.T, conf market.Configuration) *testEnv {
	fixtures.SetupDatabase()

	c := clock.NewManual(startTime)
	ledger := funds.New()
	m, err := market.New(conf, c, ledger)
	require.NoError(t, err, "market")

	return &testEnv{
		clock:  c,
		ledger: ledger,
		market: m,
	}
}

func teardown() {
	fixtures.TeardownDatabase()
}

func caller(k account.Account) market.Call {
	return market.Call{Caller: k}
}

func paying(k account.Account, value uint64) market.Call {
	return market.Call{Caller: k, Value: value}
}

func eventKinds(t *testing.T, m *market.Market) []event.Kind {
	records, _, err := m.Events(1, event.MaximumCount)
	require.NoError(t, err, "events")
	kinds := make([]event.Kind, len(records))
	for i, r := range records {
		kinds[i] = r.Kind
	}
	return kinds
}

func TestNew(t *testing.T) {
	env := setup(t)
	defer teardown()

	info := env.market.Info()
	assert.Equal(t, fixtures.Owner.Account, info.Owner, "owner")
	assert.Equal(t, fixtures.Market, info.Custodian, "custodian")
	assert.Equal(t, uint64(10), info.RoyaltyPercentage, "royalty")
	assert.Equal(t, uint64(86400), info.Cooldown, "cooldown seconds")
	assert.False(t, info.Paused, "running")

	// a restart must name the same owner
	conf := defaultConfiguration()
	conf.Owner = fixtures.Alice.Account
	_, err := market.New(conf, env.clock, env.ledger)
	assert.Equal(t, fault.OwnerMismatch, err, "owner changed")

	conf = defaultConfiguration()
	conf.RoyaltyPercentage = 101
	_, err = market.New(conf, env.clock, env.ledger)
	assert.Equal(t, fault.InvalidRoyaltyPercentage, err, "royalty")

	conf = defaultConfiguration()
	conf.MaxMintsPerWallet = 0
	_, err = market.New(conf, env.clock, env.ledger)
	assert.Equal(t, fault.InvalidMaxMintsPerWallet, err, "quota")
}

func TestCallerChecks(t *testing.T) {
	env := setup(t)
	defer teardown()

	_, err := env.market.CreateOriginal(ctx, caller(account.NullAccount), uri, 1)
	assert.Equal(t, fault.InvalidCaller, err, "null caller")

	_, err = env.market.CreateOriginal(ctx, caller(fixtures.Market), uri, 1)
	assert.Equal(t, fault.InvalidCaller, err, "custodian as caller")

	_, err = env.market.CreateOriginal(ctx, paying(fixtures.Alice.Account, 1), uri, 1)
	assert.Equal(t, fault.NotPayable, err, "value to non-payable")
}

func TestPurchaseScenario(t *testing.T) {
	env := setup(t)
	defer teardown()

	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account
	m := env.market

	id, err := m.CreateOriginal(ctx, caller(alice), uri, 0)
	require.NoError(t, err, "create")
	require.NoError(t, m.Transfer(ctx, caller(alice), alice, bob, id), "give to bob")
	require.NoError(t, m.List(ctx, caller(bob), id, 100), "list")

	owner, _ := m.OwnerOf(id)
	assert.Equal(t, fixtures.Market, owner, "market custody")

	carol := fixtures.Carol.Account
	require.NoError(t, m.Deposit(carol, 100), "fund buyer")

	assert.Equal(t, fault.WrongPrice, m.Buy(ctx, paying(carol, 99), id), "wrong price")
	assert.Equal(t, uint64(100), m.Funds(carol), "value returned on failure")

	require.NoError(t, m.Buy(ctx, paying(carol, 100), id), "buy")

	assert.Equal(t, uint64(10), m.Funds(alice), "creator royalty")
	assert.Equal(t, uint64(90), m.Funds(bob), "seller share")
	assert.Equal(t, uint64(0), m.Funds(carol), "buyer paid")
	assert.Equal(t, uint64(0), m.Funds(fixtures.Market), "custodian keeps nothing")

	owner, _ = m.OwnerOf(id)
	assert.Equal(t, carol, owner, "buyer owns")
	_, err = m.Listing(id)
	assert.Equal(t, fault.NotListed, err, "listing removed")

	records, _, err := m.Events(1, event.MaximumCount)
	require.NoError(t, err, "events")
	last := records[len(records)-1]
	assert.Equal(t, event.AssetPurchased{AssetID: id, Buyer: carol, Seller: bob, Price: 100}, last.Event, "purchase event")
}

func TestListCancelRoundTrip(t *testing.T) {
	env := setup(t)
	defer teardown()

	alice := fixtures.Alice.Account
	m := env.market

	id, err := m.CreateOriginal(ctx, caller(alice), uri, 0)
	require.NoError(t, err, "create")
	balance := m.BalanceOf(alice)

	require.NoError(t, m.List(ctx, caller(alice), id, 5), "list")
	require.NoError(t, m.CancelListing(ctx, caller(alice), id), "cancel")

	owner, _ := m.OwnerOf(id)
	assert.Equal(t, alice, owner, "custody restored")
	assert.Equal(t, balance, m.BalanceOf(alice), "balance as before listing")
	assert.Equal(t, uint64(0), m.BalanceOf(fixtures.Market), "market holds nothing")
	_, err = m.Listing(id)
	assert.Equal(t, fault.NotListed, err, "no listing")
}

func TestTransferToCustodianRejected(t *testing.T) {
	env := setup(t)
	defer teardown()

	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account
	m := env.market

	id, err := m.CreateOriginal(ctx, caller(alice), uri, 0)
	require.NoError(t, err, "create")
	require.NoError(t, m.SetApprovalForAll(ctx, caller(alice), bob, true), "operator")
	_, next, err := m.Events(1, event.MaximumCount)
	require.NoError(t, err, "events")

	err = m.Transfer(ctx, caller(alice), alice, fixtures.Market, id)
	assert.Equal(t, fault.InvalidTarget, err, "owner to custodian")
	assert.True(t, fault.IsErrValidation(err), "error class")

	err = m.Transfer(ctx, caller(bob), alice, fixtures.Market, id)
	assert.Equal(t, fault.InvalidTarget, err, "operator to custodian")

	owner, err := m.OwnerOf(id)
	require.NoError(t, err, "owner")
	assert.Equal(t, alice, owner, "owner unchanged")
	assert.Equal(t, uint64(1), m.BalanceOf(alice), "owner balance")
	assert.Equal(t, uint64(0), m.BalanceOf(fixtures.Market), "market holds nothing")
	records, _, err := m.Events(next, event.MaximumCount)
	require.NoError(t, err, "later events")
	assert.Empty(t, records, "no events recorded")

	// listing remains the way into custody and out again
	require.NoError(t, m.List(ctx, caller(alice), id, 5), "list")
	require.NoError(t, m.CancelListing(ctx, caller(alice), id), "cancel")
	owner, _ = m.OwnerOf(id)
	assert.Equal(t, alice, owner, "custody restored")
}

func TestCooldownScenario(t *testing.T) {
	env := setup(t)
	defer teardown()

	alice := fixtures.Alice.Account
	m := env.market

	id, _ := m.CreateOriginal(ctx, caller(alice), uri, 0)
	require.NoError(t, m.List(ctx, caller(alice), id, 100), "list")

	remaining, err := m.CooldownRemaining(id)
	require.NoError(t, err, "remaining")
	assert.Equal(t, 24*time.Hour, remaining, "full cooldown after listing")

	env.clock.Advance(24 * time.Hour)
	require.NoError(t, m.UpdateListing(ctx, caller(alice), id, 110), "first update")

	env.clock.Advance(time.Minute)
	assert.Equal(t, fault.CooldownActive, m.UpdateListing(ctx, caller(alice), id, 120), "second update")

	env.clock.Advance(24 * time.Hour)
	require.NoError(t, m.UpdateListing(ctx, caller(alice), id, 120), "after cooldown")

	l, _ := m.Listing(id)
	assert.Equal(t, uint64(120), l.Price, "price")
	assert.Equal(t, env.clock.Now(), l.Timestamp, "timestamp refreshed")
}

func TestWalletQuotaScenario(t *testing.T) {
	env := setup(t)
	defer teardown()

	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account
	m := env.market

	original, err := m.CreateOriginal(ctx, caller(alice), uri, 2)
	require.NoError(t, err, "create")

	_, err = m.MintDuplicate(ctx, caller(bob), original, uri)
	require.NoError(t, err, "first duplicate")

	_, err = m.MintDuplicate(ctx, caller(bob), original, uri)
	assert.Equal(t, fault.WalletQuotaExceeded, err, "second duplicate")
	assert.Equal(t, uint64(1), m.WalletMints(original, bob), "wallet count")

	a, err := m.Asset(original)
	require.NoError(t, err, "asset")
	assert.Equal(t, uint64(1), a.Provenance.MintCount, "cap not exhausted")
}

func TestBatchIsAtomic(t *testing.T) {
	env := setup(t)
	defer teardown()

	alice := fixtures.Alice.Account
	m := env.market

	_, err := m.BatchCreateOriginal(ctx, caller(alice), []string{uri, uri, ""}, []uint64{1, 1, 1})
	assert.Equal(t, fault.InvalidURI, err, "bad element")
	assert.Equal(t, uint64(0), m.TotalSupply(), "nothing minted")
	assert.Equal(t, uint64(0), m.Info().LastAssetID, "no identifiers used")
	assert.Len(t, eventKinds(t, m), 0, "no events")

	ids, err := m.BatchCreateOriginal(ctx, caller(alice), []string{uri, uri}, []uint64{1, 2})
	require.NoError(t, err, "batch")
	assert.Equal(t, []uint64{1, 2}, ids, "identifiers")
}

func TestPause(t *testing.T) {
	env := setup(t)
	defer teardown()

	owner := fixtures.Owner.Account
	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account
	m := env.market

	id, _ := m.CreateOriginal(ctx, caller(alice), uri, 5)
	listed, _ := m.CreateOriginal(ctx, caller(alice), uri, 0)
	require.NoError(t, m.List(ctx, caller(alice), listed, 10), "list")
	require.NoError(t, m.Deposit(bob, 10), "fund")

	assert.Equal(t, fault.NotContractOwner, m.Pause(ctx, caller(alice)), "stranger")
	require.NoError(t, m.Pause(ctx, caller(owner)), "pause")
	assert.True(t, m.Info().Paused, "paused")

	_, err := m.CreateOriginal(ctx, caller(alice), uri, 1)
	assert.Equal(t, fault.Paused, err, "create")
	_, err = m.MintDuplicate(ctx, caller(bob), id, uri)
	assert.Equal(t, fault.Paused, err, "duplicate")
	_, err = m.BatchCreateOriginal(ctx, caller(alice), []string{uri}, []uint64{1})
	assert.Equal(t, fault.Paused, err, "batch")
	assert.Equal(t, fault.Paused, m.List(ctx, caller(alice), id, 10), "list")
	assert.Equal(t, fault.Paused, m.Buy(ctx, paying(bob, 10), listed), "buy")
	assert.Equal(t, fault.Paused, m.CancelListing(ctx, caller(alice), listed), "cancel")
	assert.Equal(t, fault.Paused, m.UpdateListing(ctx, caller(alice), listed, 20), "update")
	assert.Equal(t, uint64(10), m.Funds(bob), "value not taken while paused")

	// plain transfers are not gated
	assert.NoError(t, m.Transfer(ctx, caller(alice), alice, bob, id), "transfer")

	require.NoError(t, m.Unpause(ctx, caller(owner)), "unpause")
	assert.NoError(t, m.Buy(ctx, paying(bob, 10), listed), "buy after unpause")
}

func TestNotPausable(t *testing.T) {
	conf := defaultConfiguration()
	conf.Pausable = false
	env := setupWith(t, conf)
	defer teardown()

	assert.Equal(t, fault.NotPausable, env.market.Pause(ctx, caller(fixtures.Owner.Account)), "pause")
}

func TestReceiveAndWithdraw(t *testing.T) {
	env := setup(t)
	defer teardown()

	owner := fixtures.Owner.Account
	alice := fixtures.Alice.Account
	m := env.market

	_, err := m.Withdraw(ctx, caller(owner))
	assert.Equal(t, fault.NothingToWithdraw, err, "empty")

	require.NoError(t, m.Deposit(alice, 50), "fund")
	require.NoError(t, m.Receive(ctx, paying(alice, 30)), "receive")
	assert.Equal(t, uint64(30), m.Funds(fixtures.Market), "custodian balance")

	_, err = m.Withdraw(ctx, caller(alice))
	assert.Equal(t, fault.NotContractOwner, err, "stranger")

	_, err = m.Withdraw(ctx, paying(owner, 1))
	assert.Equal(t, fault.NotPayable, err, "withdraw with value")

	amount, err := m.Withdraw(ctx, caller(owner))
	require.NoError(t, err, "withdraw")
	assert.Equal(t, uint64(30), amount, "amount")
	assert.Equal(t, uint64(30), m.Funds(owner), "owner paid")

	_, err = m.Withdraw(ctx, caller(owner))
	assert.Equal(t, fault.NothingToWithdraw, err, "drained")

	records, _, _ := m.Events(1, event.MaximumCount)
	require.Len(t, records, 2, "two events")
	assert.Equal(t, event.FundsReceived{Sender: alice, Amount: 30}, records[0].Event, "received")
	assert.Equal(t, event.Withdrawn{Owner: owner, Amount: 30}, records[1].Event, "withdrawn")

	assert.Equal(t, fault.InsufficientFunds, m.Receive(ctx, paying(alice, 21)), "more than balance")
}

func TestBroadcastAfterCommit(t *testing.T) {
	env := setup(t)
	defer teardown()

	queue := messagebus.Bus.Broadcast.Chan(10)
	defer messagebus.Bus.Broadcast.Release(queue)

	_, err := env.market.CreateOriginal(ctx, caller(fixtures.Alice.Account), "bad uri", 0)
	require.Error(t, err, "failed call")
	assert.Len(t, queue, 0, "nothing broadcast for a failed call")

	_, err = env.market.CreateOriginal(ctx, caller(fixtures.Alice.Account), uri, 0)
	require.NoError(t, err, "create")

	first := <-queue
	second := <-queue
	assert.Equal(t, "Transfer", first.Command, "mint transfer")
	assert.Equal(t, "AssetCreated", second.Command, "creation")
	require.Len(t, second.Parameters, 2, "sequence and record")
	assert.Contains(t, string(second.Parameters[1]), uri, "record carries uri")
}
