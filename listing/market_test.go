// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing_test

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
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/mint"
	"github.com/bitmark-inc/marketd/registry"
	"github.com/bitmark-inc/marketd/storage"
)

const startTime = 1600000000

type testMarket struct {
	clock    *clock.Manual
	ledger   *funds.Ledger
	registry *registry.Registry
	mint     *mint.Controller
	market   *listing.Market
	trx      storage.Transaction
}

func setupMarket(t *testing.T, royalty uint64, cooldownEnabled bool) *testMarket {
	fixtures.SetupDatabase()

	c := clock.NewManual(startTime)
	events := event.NewLog(c)
	reg := registry.New(events)
	controller, err := mint.New(reg, events, 10)
	require.NoError(t, err, "mint controller")
	ledger := funds.New()

	m, err := listing.New(listing.Configuration{
		Custodian:         fixtures.Market,
		RoyaltyPercentage: royalty,
		CooldownEnabled:   cooldownEnabled,
	}, reg, controller, ledger, events, c)
	require.NoError(t, err, "listing market")

	trx, err := storage.NewDBTransaction()
	require.NoError(t, err, "begin")

	return &testMarket{
		clock:    c,
		ledger:   ledger,
		registry: reg,
		mint:     controller,
		market:   m,
		trx:      trx,
	}
}

func (tm *testMarket) teardown() {
	tm.trx.Abort()
	fixtures.TeardownDatabase()
}

// alice creates an original and gives it to seller
func (tm *testMarket) asset(t *testing.T, seller account.Account) uint64 {
	alice := fixtures.Alice.Account
	id, err := tm.mint.CreateOriginal(tm.trx, alice, "ipfs://asset", 0)
	require.NoError(t, err, "create original")
	if seller != alice {
		require.NoError(t, tm.registry.Transfer(tm.trx, alice, alice, seller, id), "give to seller")
	}
	return id
}

// value accompanying a buy reaches the custodian before the purchase
func (tm *testMarket) buy(ctx context.Context, t *testing.T, buyer account.Account, id uint64, value uint64) error {
	require.NoError(t, tm.ledger.Deposit(tm.trx, fixtures.Market, value), "value to custodian")
	return tm.market.Buy(ctx, tm.trx, buyer, id, value)
}

func TestNewMarket(t *testing.T) {
	_, err := listing.New(listing.Configuration{
		Custodian:         fixtures.Market,
		RoyaltyPercentage: 101,
	}, nil, nil, nil, nil, nil)
	assert.Equal(t, fault.InvalidRoyaltyPercentage, err, "royalty above 100")

	_, err = listing.New(listing.Configuration{
		Custodian: fixtures.Alice.Account,
	}, nil, nil, nil, nil, nil)
	assert.Equal(t, fault.InvalidOwner, err, "custodian must be a contract identity")
}

func TestListAndCancel(t *testing.T) {
	tm := setupMarket(t, 10, true)
	defer tm.teardown()

	bob := fixtures.Bob.Account
	id := tm.asset(t, bob)

	require.NoError(t, tm.market.List(tm.trx, bob, id, 100), "list")

	l, err := tm.market.Get(tm.trx, id)
	require.NoError(t, err, "get")
	assert.Equal(t, listing.Listing{Price: 100, Seller: bob, Timestamp: startTime}, l, "listing record")

	owner, _ := tm.registry.OwnerOf(tm.trx, id)
	assert.Equal(t, fixtures.Market, owner, "market custody")
	assert.Equal(t, uint64(0), tm.registry.BalanceOf(tm.trx, bob), "seller balance while listed")

	assert.Equal(t, fault.NotSeller, tm.market.Cancel(tm.trx, fixtures.Carol.Account, id), "stranger cancel")

	require.NoError(t, tm.market.Cancel(tm.trx, bob, id), "cancel")

	_, err = tm.market.Get(tm.trx, id)
	assert.Equal(t, fault.NotListed, err, "no listing after cancel")
	owner, _ = tm.registry.OwnerOf(tm.trx, id)
	assert.Equal(t, bob, owner, "custody restored")
	assert.Equal(t, uint64(1), tm.registry.BalanceOf(tm.trx, bob), "seller balance restored")
	assert.Equal(t, uint64(0), tm.registry.BalanceOf(tm.trx, fixtures.Market), "market holds nothing")

	assert.Equal(t, fault.NotListed, tm.market.Cancel(tm.trx, bob, id), "cancel twice")
}

func TestListErrors(t *testing.T) {
	tm := setupMarket(t, 10, true)
	defer tm.teardown()

	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account
	id := tm.asset(t, alice)

	assert.Equal(t, fault.ZeroPrice, tm.market.List(tm.trx, alice, id, 0), "zero price")
	assert.Equal(t, fault.NotOwner, tm.market.List(tm.trx, bob, id, 10), "not owner")
	assert.Equal(t, fault.NoSuchAsset, tm.market.List(tm.trx, alice, 99, 10), "missing asset")

	// an approved spender is not the current owner
	require.NoError(t, tm.registry.Approve(tm.trx, alice, bob, id), "approve")
	assert.Equal(t, fault.NotOwner, tm.market.List(tm.trx, bob, id, 10), "approved spender")

	require.NoError(t, tm.market.List(tm.trx, alice, id, 10), "list")
	assert.Equal(t, fault.AlreadyListed, tm.market.List(tm.trx, alice, id, 10), "list twice")
}

func TestBuyRoyaltySplit(t *testing.T) {
	tm := setupMarket(t, 10, true)
	defer tm.teardown()

	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account
	carol := fixtures.Carol.Account

	id := tm.asset(t, bob)
	require.NoError(t, tm.market.List(tm.trx, bob, id, 100), "list")

	require.NoError(t, tm.buy(context.Background(), t, carol, id, 100), "buy")

	assert.Equal(t, uint64(10), funds.Balance(tm.trx, alice), "creator royalty")
	assert.Equal(t, uint64(90), funds.Balance(tm.trx, bob), "seller amount")
	assert.Equal(t, uint64(0), funds.Balance(tm.trx, fixtures.Market), "custodian keeps nothing")

	owner, _ := tm.registry.OwnerOf(tm.trx, id)
	assert.Equal(t, carol, owner, "buyer owns")
	_, err := tm.market.Get(tm.trx, id)
	assert.Equal(t, fault.NotListed, err, "listing removed")

	require.NoError(t, tm.trx.Commit(), "commit")
	tm.trx, _ = storage.NewDBTransaction()

	records, _, err := event.List(1, event.MaximumCount)
	require.NoError(t, err, "events")
	last := records[len(records)-1]
	assert.Equal(t, event.AssetPurchased{AssetID: id, Buyer: carol, Seller: bob, Price: 100}, last.Event, "purchase event")
}

func TestBuyErrors(t *testing.T) {
	tm := setupMarket(t, 10, true)
	defer tm.teardown()

	bob := fixtures.Bob.Account
	carol := fixtures.Carol.Account
	ctx := context.Background()

	id := tm.asset(t, bob)
	assert.Equal(t, fault.NotListed, tm.market.Buy(ctx, tm.trx, carol, id, 100), "not listed")

	require.NoError(t, tm.market.List(tm.trx, bob, id, 100), "list")

	sp := tm.trx.Savepoint()
	assert.Equal(t, fault.WrongPrice, tm.buy(ctx, t, carol, id, 99), "under price")
	tm.trx.RollbackTo(sp)
	assert.Equal(t, fault.WrongPrice, tm.buy(ctx, t, carol, id, 101), "over price")
	tm.trx.RollbackTo(sp)

	// guard released on the error paths
	assert.NoError(t, tm.buy(ctx, t, carol, id, 100), "exact price")
}

func TestReentrantBuy(t *testing.T) {
	tm := setupMarket(t, 10, true)
	defer tm.teardown()

	bob := fixtures.Bob.Account
	carol := fixtures.Carol.Account

	first := tm.asset(t, bob)
	second := tm.asset(t, bob)
	require.NoError(t, tm.market.List(tm.trx, bob, first, 100), "list first")
	require.NoError(t, tm.market.List(tm.trx, bob, second, 50), "list second")

	attempts := []uint64{first, second}
	var reentrantErrors []error
	tm.ledger.Register(bob, func(ctx context.Context, from account.Account, amount uint64) error {
		for _, id := range attempts {
			before := tm.trx.Savepoint()
			err := tm.market.Buy(ctx, tm.trx, bob, id, amount)
			reentrantErrors = append(reentrantErrors, err)
			assert.Equal(t, before, tm.trx.Savepoint(), "reentrant attempt wrote nothing")
		}
		// swallow the failure so the outer purchase continues
		return nil
	})

	require.NoError(t, tm.buy(context.Background(), t, carol, first, 100), "outer buy")

	require.Len(t, reentrantErrors, 2, "both attempts made")
	for i, err := range reentrantErrors {
		assert.Equal(t, fault.ReentrantCall, err, "attempt: %d", i)
		assert.True(t, fault.IsErrReentrancy(err), "attempt: %d class", i)
	}

	owner, _ := tm.registry.OwnerOf(tm.trx, first)
	assert.Equal(t, carol, owner, "outer purchase completed")
	l, err := tm.market.Get(tm.trx, second)
	require.NoError(t, err, "second still listed")
	assert.Equal(t, uint64(50), l.Price, "second untouched")
	assert.Equal(t, uint64(90), funds.Balance(tm.trx, bob), "seller paid once")
}

func TestSellerRefusesPayment(t *testing.T) {
	tm := setupMarket(t, 10, true)
	defer tm.teardown()

	bob := fixtures.Bob.Account
	id := tm.asset(t, bob)
	require.NoError(t, tm.market.List(tm.trx, bob, id, 100), "list")

	tm.ledger.Register(bob, func(context.Context, account.Account, uint64) error {
		return fault.NotPayable
	})

	err := tm.buy(context.Background(), t, fixtures.Carol.Account, id, 100)
	assert.Equal(t, fault.NotPayable, err, "payment failure fails the purchase")
}

func TestUpdateCooldown(t *testing.T) {
	tm := setupMarket(t, 10, true)
	defer tm.teardown()

	bob := fixtures.Bob.Account
	id := tm.asset(t, bob)
	require.NoError(t, tm.market.List(tm.trx, bob, id, 100), "list")

	assert.Equal(t, fault.NotSeller, tm.market.Update(tm.trx, fixtures.Carol.Account, id, 120), "stranger update")
	assert.Equal(t, fault.NotListed, tm.market.Update(tm.trx, bob, 99, 120), "missing listing")

	tm.clock.Advance(listing.DefaultCooldown)
	assert.Equal(t, fault.ZeroPrice, tm.market.Update(tm.trx, bob, id, 0), "zero price")
	require.NoError(t, tm.market.Update(tm.trx, bob, id, 120), "first update")

	tm.clock.Advance(time.Hour)
	err := tm.market.Update(tm.trx, bob, id, 130)
	assert.Equal(t, fault.CooldownActive, err, "second update within cooldown")
	assert.True(t, fault.IsErrState(err), "state class")

	l, _ := tm.market.Get(tm.trx, id)
	assert.Equal(t, uint64(120), l.Price, "price from first update")

	tm.clock.Advance(listing.DefaultCooldown - time.Hour)
	require.NoError(t, tm.market.Update(tm.trx, bob, id, 130), "update after cooldown")

	l, _ = tm.market.Get(tm.trx, id)
	assert.Equal(t, uint64(130), l.Price, "new price")
	assert.Equal(t, tm.clock.Now(), l.Timestamp, "timestamp refreshed")
}

func TestUpdateWithoutCooldown(t *testing.T) {
	tm := setupMarket(t, 10, false)
	defer tm.teardown()

	bob := fixtures.Bob.Account
	id := tm.asset(t, bob)
	require.NoError(t, tm.market.List(tm.trx, bob, id, 100), "list")

	require.NoError(t, tm.market.Update(tm.trx, bob, id, 110), "first")
	require.NoError(t, tm.market.Update(tm.trx, bob, id, 120), "second")
}

func TestListings(t *testing.T) {
	tm := setupMarket(t, 10, true)
	defer tm.teardown()

	bob := fixtures.Bob.Account
	for i := 0; i < 3; i += 1 {
		id := tm.asset(t, bob)
		require.NoError(t, tm.market.List(tm.trx, bob, id, uint64(10*(i+1))), "list")
	}
	require.NoError(t, tm.trx.Commit(), "commit")
	tm.trx, _ = storage.NewDBTransaction()

	entries, next, err := tm.market.Listings(0, 2)
	require.NoError(t, err, "first page")
	require.Len(t, entries, 2, "page size")
	assert.Equal(t, uint64(1), entries[0].AssetID, "first asset")
	assert.Equal(t, uint64(10), entries[0].Price, "first price")
	assert.Equal(t, bob, entries[0].Seller, "seller")

	entries, _, err = tm.market.Listings(next, 2)
	require.NoError(t, err, "second page")
	require.Len(t, entries, 1, "remainder")
	assert.Equal(t, uint64(30), entries[0].Price, "last price")

	_, _, err = tm.market.Listings(0, 0)
	assert.Equal(t, fault.InvalidCount, err, "zero count")
}
