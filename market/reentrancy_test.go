// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/market"
)

// observable state after a sale
type outcome struct {
	funds  map[account.Account]uint64
	owners map[uint64]account.Account
	listed map[uint64]bool
	kinds  []event.Kind
}

// bob lists two assets created by alice; carol buys the first while
// bob's receiver hook (if any) runs
func saleScenario(t *testing.T, hook func(m *market.Market, second uint64) func(context.Context, account.Account, uint64) error) outcome {
	env := setup(t)
	defer teardown()

	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account
	carol := fixtures.Carol.Account
	m := env.market

	ids, err := m.BatchCreateOriginal(ctx, caller(alice), []string{uri, uri}, []uint64{0, 0})
	require.NoError(t, err, "create")
	for _, id := range ids {
		require.NoError(t, m.Transfer(ctx, caller(alice), alice, bob, id), "give to bob")
	}
	require.NoError(t, m.List(ctx, caller(bob), ids[0], 100), "list first")
	require.NoError(t, m.List(ctx, caller(bob), ids[1], 50), "list second")
	require.NoError(t, m.Deposit(carol, 100), "fund carol")

	if nil != hook {
		env.ledger.Register(bob, hook(m, ids[1]))
	}

	require.NoError(t, m.Buy(ctx, paying(carol, 100), ids[0]), "outer buy")

	o := outcome{
		funds:  make(map[account.Account]uint64),
		owners: make(map[uint64]account.Account),
		listed: make(map[uint64]bool),
		kinds:  eventKinds(t, m),
	}
	for _, a := range []account.Account{alice, bob, carol, fixtures.Market} {
		o.funds[a] = m.Funds(a)
	}
	for _, id := range ids {
		o.owners[id], _ = m.OwnerOf(id)
		_, err := m.Listing(id)
		o.listed[id] = nil == err
	}
	return o
}

func TestReentrantBuyRollsBack(t *testing.T) {
	expected := saleScenario(t, nil)

	var errs []error
	actual := saleScenario(t, func(m *market.Market, second uint64) func(context.Context, account.Account, uint64) error {
		return func(hookCtx context.Context, from account.Account, amount uint64) error {
			// same asset and a different asset, each carrying value
			// that the failed nested call must give back
			errs = append(errs, m.Buy(hookCtx, paying(fixtures.Bob.Account, 90), 1))
			errs = append(errs, m.Buy(hookCtx, paying(fixtures.Bob.Account, 50), second))
			return nil
		}
	})

	require.Len(t, errs, 2, "both attempts")
	for i, err := range errs {
		assert.Equal(t, fault.ReentrantCall, err, "attempt: %d", i)
		assert.True(t, fault.IsErrReentrancy(err), "attempt: %d class", i)
	}
	assert.Equal(t, expected, actual, "state as if no reentrant call was made")
	assert.Equal(t, uint64(90), actual.funds[fixtures.Bob.Account], "seller paid")
	assert.Equal(t, uint64(10), actual.funds[fixtures.Alice.Account], "creator paid")
}

func TestNestedCallJoinsTransaction(t *testing.T) {
	nested := uint64(0)
	actual := saleScenario(t, func(m *market.Market, second uint64) func(context.Context, account.Account, uint64) error {
		return func(hookCtx context.Context, from account.Account, amount uint64) error {
			// a failing nested call undoes only itself
			err := m.List(hookCtx, caller(fixtures.Bob.Account), second, 0)
			assert.Equal(t, fault.ZeroPrice, err, "nested failure")

			// a successful nested call commits with the outer call
			err = m.CancelListing(hookCtx, caller(fixtures.Bob.Account), second)
			assert.NoError(t, err, "nested cancel")
			nested += 1
			return nil
		}
	})

	assert.Equal(t, uint64(1), nested, "hook ran once")
	assert.Equal(t, fixtures.Bob.Account, actual.owners[2], "second returned to seller")
	assert.False(t, actual.listed[2], "second unlisted")
	assert.Equal(t, fixtures.Carol.Account, actual.owners[1], "first sold")
}

func TestHookFailureAbortsPurchase(t *testing.T) {
	env := setup(t)
	defer teardown()

	alice := fixtures.Alice.Account
	carol := fixtures.Carol.Account
	m := env.market

	id, _ := m.CreateOriginal(ctx, caller(alice), uri, 0)
	require.NoError(t, m.List(ctx, caller(alice), id, 100), "list")
	require.NoError(t, m.Deposit(carol, 100), "fund")

	before := eventKinds(t, m)

	// the seller cancels from inside the payment, so custody can no
	// longer reach the buyer and the whole purchase fails
	cancelled := false
	env.ledger.Register(alice, func(hookCtx context.Context, _ account.Account, _ uint64) error {
		if cancelled {
			return nil
		}
		cancelled = true
		return m.CancelListing(hookCtx, caller(alice), id)
	})

	err := m.Buy(ctx, paying(carol, 100), id)
	assert.Equal(t, fault.NotOwner, err, "custody gone")

	assert.Equal(t, uint64(100), m.Funds(carol), "buyer refunded")
	assert.Equal(t, uint64(0), m.Funds(alice), "seller unpaid")
	owner, _ := m.OwnerOf(id)
	assert.Equal(t, fixtures.Market, owner, "still in custody")
	_, err = m.Listing(id)
	assert.NoError(t, err, "still listed")
	assert.Equal(t, before, eventKinds(t, m), "no events recorded")
}

func TestCallDepthLimit(t *testing.T) {
	env := setup(t)
	defer teardown()

	alice := fixtures.Alice.Account
	m := env.market

	require.NoError(t, m.Deposit(alice, 100), "fund")

	// every payment into the custodian triggers another payment into it
	calls := 0
	env.ledger.Register(fixtures.Market, func(hookCtx context.Context, _ account.Account, _ uint64) error {
		calls += 1
		return m.Receive(hookCtx, paying(alice, 1))
	})
	defer env.ledger.Unregister(fixtures.Market)

	err := m.Receive(ctx, paying(alice, 1))
	assert.Equal(t, fault.CallDepthExceeded, err, "unbounded recursion stopped")
	assert.Equal(t, market.MaximumCallDepth, calls, "one hook call per frame")
	assert.Equal(t, uint64(100), m.Funds(alice), "all value returned")
	assert.Len(t, eventKinds(t, m), 0, "no events")
}

func TestHookCallWithoutFrameFails(t *testing.T) {
	env := setup(t)
	defer teardown()

	alice := fixtures.Alice.Account
	m := env.market

	require.NoError(t, m.Deposit(alice, 10), "fund")

	var hookErr error
	env.ledger.Register(fixtures.Market, func(_ context.Context, _ account.Account, _ uint64) error {
		_, hookErr = m.CreateOriginal(context.Background(), caller(alice), uri, 0)
		return nil
	})
	defer env.ledger.Unregister(fixtures.Market)

	err := m.Receive(ctx, paying(alice, 4))
	require.NoError(t, err, "receive")
	assert.Equal(t, fault.ReentrantCall, hookErr, "detached call from hook")
	assert.False(t, env.ledger.InReceiver(), "no hook running")
	assert.Equal(t, uint64(6), m.Funds(alice), "value paid")
	assert.Equal(t, uint64(0), m.BalanceOf(alice), "nothing minted")

	// outside a hook the same call waits for the lock as usual
	_, err = m.CreateOriginal(context.Background(), caller(alice), uri, 0)
	assert.NoError(t, err, "create after receive")
}
