// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/clock"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/registry"
	"github.com/bitmark-inc/marketd/storage"
)

func setupRegistry(t *testing.T) *registry.Registry {
	fixtures.SetupDatabase()
	return registry.New(event.NewLog(clock.NewManual(1000)))
}

// run f in its own committed transaction
func apply(t *testing.T, f func(trx storage.Transaction) error) error {
	trx, err := storage.NewDBTransaction()
	require.NoError(t, err, "begin")
	err = f(trx)
	if nil != err {
		trx.Abort()
		return err
	}
	require.NoError(t, trx.Commit(), "commit")
	return nil
}

// every balance equals the number of assets held, and the sum equals supply
func reconcile(t *testing.T, reg *registry.Registry) {
	counts := make(map[account.Account]uint64)
	total := uint64(0)
	err := storage.Pool.Assets.NewFetchCursor().Map(func(key []byte, value []byte) error {
		owner, err := account.FromBytes(value)
		require.NoError(t, err, "owner record")
		assert.False(t, owner.IsNull(), "existing asset has an owner")
		counts[owner] += 1
		total += 1
		return nil
	})
	require.NoError(t, err, "map assets")

	for owner, n := range counts {
		assert.Equal(t, n, reg.BalanceOf(storage.Committed(), owner), "balance of: %s", owner)
	}
	assert.Equal(t, total, reg.TotalSupply(storage.Committed()), "supply")
}

func TestMint(t *testing.T) {
	reg := setupRegistry(t)
	defer fixtures.TeardownDatabase()

	alice := fixtures.Alice.Account
	r := storage.Committed()

	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		return reg.Mint(trx, alice, 1)
	}), "mint")

	owner, err := reg.OwnerOf(r, 1)
	require.NoError(t, err, "owner")
	assert.Equal(t, alice, owner, "minted to alice")
	assert.True(t, reg.Exists(r, 1), "exists")
	assert.Equal(t, uint64(1), reg.BalanceOf(r, alice), "balance")

	err = apply(t, func(trx storage.Transaction) error {
		return reg.Mint(trx, alice, 1)
	})
	assert.Equal(t, fault.AssetExists, err, "duplicate id")

	err = apply(t, func(trx storage.Transaction) error {
		return reg.Mint(trx, account.NullAccount, 2)
	})
	assert.Equal(t, fault.ZeroTarget, err, "mint to null")

	records, _, err := event.List(1, 10)
	require.NoError(t, err, "events")
	require.Len(t, records, 1, "one event")
	assert.Equal(t, event.Transfer{From: account.NullAccount, To: alice, AssetID: 1}, records[0].Event, "mint event")

	reconcile(t, reg)
}

func TestTransfer(t *testing.T) {
	reg := setupRegistry(t)
	defer fixtures.TeardownDatabase()

	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account
	carol := fixtures.Carol.Account
	r := storage.Committed()

	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		return reg.Mint(trx, alice, 1)
	}), "mint")

	err := apply(t, func(trx storage.Transaction) error {
		return reg.Transfer(trx, bob, alice, bob, 1)
	})
	assert.Equal(t, fault.NotOwner, err, "stranger transfer")

	err = apply(t, func(trx storage.Transaction) error {
		return reg.Transfer(trx, alice, alice, account.NullAccount, 1)
	})
	assert.Equal(t, fault.ZeroTarget, err, "transfer to null")

	err = apply(t, func(trx storage.Transaction) error {
		return reg.Transfer(trx, alice, alice, bob, 99)
	})
	assert.Equal(t, fault.NoSuchAsset, err, "missing asset")

	err = apply(t, func(trx storage.Transaction) error {
		return reg.Transfer(trx, alice, bob, carol, 1)
	})
	assert.Equal(t, fault.NotOwner, err, "wrong from")

	// approved spender moves the asset and the approval is cleared
	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		return reg.Approve(trx, alice, carol, 1)
	}), "approve")
	spender, err := reg.GetApproved(r, 1)
	require.NoError(t, err, "get approved")
	assert.Equal(t, carol, spender, "approved carol")

	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		return reg.Transfer(trx, carol, alice, bob, 1)
	}), "approved transfer")

	owner, _ := reg.OwnerOf(r, 1)
	assert.Equal(t, bob, owner, "bob owns")
	spender, _ = reg.GetApproved(r, 1)
	assert.True(t, spender.IsNull(), "approval cleared by transfer")
	assert.Equal(t, uint64(0), reg.BalanceOf(r, alice), "alice balance")
	assert.Equal(t, uint64(1), reg.BalanceOf(r, bob), "bob balance")

	reconcile(t, reg)
}

func TestApprove(t *testing.T) {
	reg := setupRegistry(t)
	defer fixtures.TeardownDatabase()

	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account
	carol := fixtures.Carol.Account
	r := storage.Committed()

	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		return reg.Mint(trx, alice, 1)
	}), "mint")

	err := apply(t, func(trx storage.Transaction) error {
		return reg.Approve(trx, alice, alice, 1)
	})
	assert.Equal(t, fault.ApprovalToCurrentOwner, err, "approve owner")

	err = apply(t, func(trx storage.Transaction) error {
		return reg.Approve(trx, bob, carol, 1)
	})
	assert.Equal(t, fault.NotOwner, err, "stranger approve")

	_, err = reg.GetApproved(r, 2)
	assert.Equal(t, fault.NoSuchAsset, err, "approved of missing asset")

	// an operator may approve on the owner's behalf
	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		return reg.SetApprovalForAll(trx, alice, bob, true)
	}), "set operator")
	assert.True(t, reg.IsApprovedForAll(r, alice, bob), "bob is operator")

	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		return reg.Approve(trx, bob, carol, 1)
	}), "operator approve")
	assert.True(t, reg.IsApprovedOrOwner(r, carol, 1), "carol approved")

	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		return reg.Approve(trx, alice, account.NullAccount, 1)
	}), "clear approval")
	assert.False(t, reg.IsApprovedOrOwner(r, carol, 1), "carol cleared")

	err = apply(t, func(trx storage.Transaction) error {
		return reg.SetApprovalForAll(trx, alice, alice, true)
	})
	assert.Equal(t, fault.ApproveToCaller, err, "self operator")

	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		return reg.SetApprovalForAll(trx, alice, bob, false)
	}), "revoke operator")
	assert.False(t, reg.IsApprovedForAll(r, alice, bob), "bob revoked")
}

func TestBurn(t *testing.T) {
	reg := setupRegistry(t)
	defer fixtures.TeardownDatabase()

	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account
	r := storage.Committed()

	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		if err := reg.Mint(trx, alice, 1); nil != err {
			return err
		}
		if err := reg.Mint(trx, alice, 2); nil != err {
			return err
		}
		if err := reg.SetTokenURI(trx, 1, "ipfs://one"); nil != err {
			return err
		}
		return reg.Approve(trx, alice, bob, 1)
	}), "setup")

	err := apply(t, func(trx storage.Transaction) error {
		return reg.Burn(trx, fixtures.Carol.Account, 1)
	})
	assert.Equal(t, fault.NotOwner, err, "stranger burn")

	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		return reg.Burn(trx, bob, 1)
	}), "approved burn")

	assert.False(t, reg.Exists(r, 1), "burned")
	owner, err := reg.OwnerOf(r, 1)
	assert.Equal(t, fault.NoSuchAsset, err, "owner of burned")
	assert.True(t, owner.IsNull(), "burned owner is null")
	assert.False(t, storage.Pool.Approvals.Has(storage.Uint64Key(1)), "approval removed")
	_, err = reg.TokenURI(r, 1)
	assert.Equal(t, fault.NoSuchAsset, err, "uri of burned")
	assert.Equal(t, uint64(1), reg.BalanceOf(r, alice), "balance decremented")
	assert.Equal(t, uint64(1), reg.TotalSupply(r), "supply decremented")

	err = apply(t, func(trx storage.Transaction) error {
		return reg.Burn(trx, alice, 1)
	})
	assert.Equal(t, fault.NoSuchAsset, err, "burn twice")

	err = apply(t, func(trx storage.Transaction) error {
		return reg.SetTokenURI(trx, 1, "ipfs://gone")
	})
	assert.Equal(t, fault.NoSuchAsset, err, "uri for burned asset")

	reconcile(t, reg)
}

func TestAbortedTransferLeavesNoTrace(t *testing.T) {
	reg := setupRegistry(t)
	defer fixtures.TeardownDatabase()

	alice := fixtures.Alice.Account
	bob := fixtures.Bob.Account
	r := storage.Committed()

	require.NoError(t, apply(t, func(trx storage.Transaction) error {
		return reg.Mint(trx, alice, 1)
	}), "mint")

	trx, _ := storage.NewDBTransaction()
	require.NoError(t, reg.Transfer(trx, alice, alice, bob, 1), "transfer")
	trx.Abort()

	owner, _ := reg.OwnerOf(r, 1)
	assert.Equal(t, alice, owner, "owner unchanged")
	assert.Equal(t, uint64(1), reg.BalanceOf(r, alice), "alice unchanged")
	assert.Equal(t, uint64(0), reg.BalanceOf(r, bob), "bob unchanged")
	reconcile(t, reg)
}
