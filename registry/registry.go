// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package registry - the asset ownership ledger
//
// owns every asset record: owner, single approved spender,
// approved-for-all operators, per-identity balances, total supply and
// the metadata uri; all updates go through the caller's transaction
package registry

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

var supplyKey = []byte("supply")

// marker value for an operator record
var operatorFlag = []byte{0x01}

// Registry - asset ownership operations
type Registry struct {
	events *event.Log
	log    *logger.L
}

// New - create a registry emitting to the given log
func New(events *event.Log) *Registry {
	return &Registry{
		events: events,
		log:    logger.New("registry"),
	}
}

// Mint - create a new asset owned by to
func (reg *Registry) Mint(trx storage.Transaction, to account.Account, id uint64) error {
	if to.IsNull() {
		return fault.ZeroTarget
	}
	key := storage.Uint64Key(id)
	if trx.Has(storage.Pool.Assets, key) {
		return fault.AssetExists
	}

	trx.Put(storage.Pool.Assets, key, to.Bytes())
	trx.Delete(storage.Pool.Approvals, key)
	adjustBalance(trx, to, 1)

	supply, _ := trx.GetN(storage.Pool.Counters, supplyKey)
	trx.PutN(storage.Pool.Counters, supplyKey, supply+1)

	reg.events.Emit(trx, event.Transfer{
		From:    account.NullAccount,
		To:      to,
		AssetID: id,
	})
	reg.log.Debugf("mint: %d to: %s", id, to)
	return nil
}

// Transfer - move an asset from its owner to another identity
//
// the caller must be the owner, the approved spender or an operator
// for the owner
func (reg *Registry) Transfer(trx storage.Transaction, caller account.Account, from account.Account, to account.Account, id uint64) error {
	owner, err := reg.OwnerOf(trx, id)
	if nil != err {
		return err
	}
	if !reg.IsApprovedOrOwner(trx, caller, id) {
		return fault.NotOwner
	}
	if owner != from {
		return fault.NotOwner
	}
	if to.IsNull() {
		return fault.ZeroTarget
	}

	key := storage.Uint64Key(id)
	trx.Delete(storage.Pool.Approvals, key)
	adjustBalance(trx, from, -1)
	adjustBalance(trx, to, 1)
	trx.Put(storage.Pool.Assets, key, to.Bytes())

	reg.events.Emit(trx, event.Transfer{
		From:    from,
		To:      to,
		AssetID: id,
	})
	reg.log.Debugf("transfer: %d from: %s to: %s", id, from, to)
	return nil
}

// Approve - set the single approved spender, null clears it
func (reg *Registry) Approve(trx storage.Transaction, caller account.Account, spender account.Account, id uint64) error {
	owner, err := reg.OwnerOf(trx, id)
	if nil != err {
		return err
	}
	if spender == owner {
		return fault.ApprovalToCurrentOwner
	}
	if caller != owner && !reg.IsApprovedForAll(trx, owner, caller) {
		return fault.NotOwner
	}

	key := storage.Uint64Key(id)
	if spender.IsNull() {
		trx.Delete(storage.Pool.Approvals, key)
	} else {
		trx.Put(storage.Pool.Approvals, key, spender.Bytes())
	}

	reg.events.Emit(trx, event.Approval{
		Owner:    owner,
		Approved: spender,
		AssetID:  id,
	})
	return nil
}

// SetApprovalForAll - grant or revoke an operator for all of the caller's assets
func (reg *Registry) SetApprovalForAll(trx storage.Transaction, caller account.Account, operator account.Account, approved bool) error {
	if caller == operator {
		return fault.ApproveToCaller
	}
	if operator.IsNull() {
		return fault.ZeroTarget
	}

	key := operatorKey(caller, operator)
	if approved {
		trx.Put(storage.Pool.Operators, key, operatorFlag)
	} else {
		trx.Delete(storage.Pool.Operators, key)
	}

	reg.events.Emit(trx, event.ApprovalForAll{
		Owner:    caller,
		Operator: operator,
		Approved: approved,
	})
	return nil
}

// Burn - destroy an asset, the caller must be the owner or approved
func (reg *Registry) Burn(trx storage.Transaction, caller account.Account, id uint64) error {
	owner, err := reg.OwnerOf(trx, id)
	if nil != err {
		return err
	}
	if !reg.IsApprovedOrOwner(trx, caller, id) {
		return fault.NotOwner
	}

	key := storage.Uint64Key(id)
	trx.Delete(storage.Pool.Assets, key)
	trx.Delete(storage.Pool.Approvals, key)
	trx.Delete(storage.Pool.URIs, key)
	adjustBalance(trx, owner, -1)

	supply, _ := trx.GetN(storage.Pool.Counters, supplyKey)
	if 0 == supply {
		logger.Panicf("registry: burn: %d with zero supply", id)
	}
	trx.PutN(storage.Pool.Counters, supplyKey, supply-1)

	reg.events.Emit(trx, event.Transfer{
		From:    owner,
		To:      account.NullAccount,
		AssetID: id,
	})
	reg.log.Debugf("burn: %d owner: %s", id, owner)
	return nil
}

// SetTokenURI - attach the metadata uri to an existing asset
func (reg *Registry) SetTokenURI(trx storage.Transaction, id uint64, uri string) error {
	key := storage.Uint64Key(id)
	if !trx.Has(storage.Pool.Assets, key) {
		return fault.NoSuchAsset
	}
	trx.Put(storage.Pool.URIs, key, []byte(uri))
	return nil
}

// balances are never allowed to go negative
func adjustBalance(trx storage.Transaction, acct account.Account, delta int) {
	key := acct.Bytes()
	n, _ := trx.GetN(storage.Pool.Balances, key)
	switch {
	case delta > 0:
		n += uint64(delta)
	case uint64(-delta) > n:
		logger.Panicf("registry: balance underflow for: %s", acct)
	default:
		n -= uint64(-delta)
	}
	if 0 == n {
		trx.Delete(storage.Pool.Balances, key)
	} else {
		trx.PutN(storage.Pool.Balances, key, n)
	}
}

func operatorKey(owner account.Account, operator account.Account) []byte {
	return storage.JoinKey(owner.Bytes(), operator.Bytes())
}
