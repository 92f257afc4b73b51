// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package access - role checks and the pause switch
//
// the checks are plain predicates taking the caller; only Pause and
// Unpause write state
package access

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

// keys in the Settings pool
var (
	ownerKey  = []byte("owner")
	pausedKey = []byte("paused")
)

// Gate - access control for all mutating entry points
type Gate struct {
	pausable bool
	events   *event.Log
	log      *logger.L
}

// New - create a gate; a non-pausable gate never reports paused
func New(events *event.Log, pausable bool) *Gate {
	return &Gate{
		pausable: pausable,
		events:   events,
		log:      logger.New("access"),
	}
}

// Initialise - record the contract owner on first start
//
// a later start must name the same owner
func (g *Gate) Initialise(trx storage.Transaction, owner account.Account) error {
	if owner.IsNull() || owner.IsContract() {
		return fault.InvalidOwner
	}
	stored := trx.Get(storage.Pool.Settings, ownerKey)
	if nil == stored {
		trx.Put(storage.Pool.Settings, ownerKey, owner.Bytes())
		g.log.Infof("contract owner: %s", owner)
		return nil
	}
	current, err := account.FromBytes(stored)
	if nil != err {
		return err
	}
	if current != owner {
		g.log.Errorf("configured owner: %s  stored owner: %s", owner, current)
		return fault.OwnerMismatch
	}
	return nil
}

// Owner - the contract owner
func (g *Gate) Owner(r storage.Reader) account.Account {
	stored := r.Get(storage.Pool.Settings, ownerKey)
	if nil == stored {
		return account.NullAccount
	}
	owner, err := account.FromBytes(stored)
	if nil != err {
		logger.Panicf("access: corrupt owner record: %x  error: %s", stored, err)
	}
	return owner
}

// Pausable - whether the pause switch exists
func (g *Gate) Pausable() bool {
	return g.pausable
}

// IsPaused - state of the pause switch
func (g *Gate) IsPaused(r storage.Reader) bool {
	return g.pausable && r.Has(storage.Pool.Settings, pausedKey)
}

// RequireOwner - caller must be the contract owner
func (g *Gate) RequireOwner(r storage.Reader, caller account.Account) error {
	if caller.IsNull() || caller != g.Owner(r) {
		return fault.NotContractOwner
	}
	return nil
}

// RequireNotPaused - fails while the market is paused
func (g *Gate) RequireNotPaused(r storage.Reader) error {
	if g.IsPaused(r) {
		return fault.Paused
	}
	return nil
}

// IsSeller - caller is the recorded seller of a listing
func IsSeller(seller account.Account, caller account.Account) bool {
	return !seller.IsNull() && seller == caller
}

// OwnerLookup - the part of the registry needed for ownership checks
type OwnerLookup interface {
	OwnerOf(storage.Reader, uint64) (account.Account, error)
}

// IsAssetOwner - caller currently owns the asset
func IsAssetOwner(r storage.Reader, assets OwnerLookup, caller account.Account, id uint64) bool {
	owner, err := assets.OwnerOf(r, id)
	return nil == err && owner == caller
}

// Pause - owner only, disable mutating entry points
func (g *Gate) Pause(trx storage.Transaction, caller account.Account) error {
	if !g.pausable {
		return fault.NotPausable
	}
	err := g.RequireOwner(trx, caller)
	if nil != err {
		return err
	}
	if g.IsPaused(trx) {
		return fault.Paused
	}
	trx.Put(storage.Pool.Settings, pausedKey, []byte{0x01})
	g.events.Emit(trx, event.Paused{Account: caller})
	g.log.Warnf("paused by: %s", caller)
	return nil
}

// Unpause - owner only, enable mutating entry points
func (g *Gate) Unpause(trx storage.Transaction, caller account.Account) error {
	if !g.pausable {
		return fault.NotPausable
	}
	err := g.RequireOwner(trx, caller)
	if nil != err {
		return err
	}
	if !g.IsPaused(trx) {
		return fault.NotPaused
	}
	trx.Delete(storage.Pool.Settings, pausedKey)
	g.events.Emit(trx, event.Unpaused{Account: caller})
	g.log.Warnf("unpaused by: %s", caller)
	return nil
}
