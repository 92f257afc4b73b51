// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

// OwnerOf - current owner of an existing asset
func (reg *Registry) OwnerOf(r storage.Reader, id uint64) (account.Account, error) {
	return accountAt(r, storage.Pool.Assets, storage.Uint64Key(id), fault.NoSuchAsset)
}

// Exists - whether an asset has been minted and not burned
func (reg *Registry) Exists(r storage.Reader, id uint64) bool {
	return r.Has(storage.Pool.Assets, storage.Uint64Key(id))
}

// BalanceOf - number of assets owned by an identity
func (reg *Registry) BalanceOf(r storage.Reader, owner account.Account) uint64 {
	n, _ := r.GetN(storage.Pool.Balances, owner.Bytes())
	return n
}

// GetApproved - the single approved spender, null if none
func (reg *Registry) GetApproved(r storage.Reader, id uint64) (account.Account, error) {
	key := storage.Uint64Key(id)
	if !r.Has(storage.Pool.Assets, key) {
		return account.NullAccount, fault.NoSuchAsset
	}
	spender, err := accountAt(r, storage.Pool.Approvals, key, nil)
	if nil != err {
		return account.NullAccount, err
	}
	return spender, nil
}

// IsApprovedForAll - whether operator may act for all of owner's assets
func (reg *Registry) IsApprovedForAll(r storage.Reader, owner account.Account, operator account.Account) bool {
	return r.Has(storage.Pool.Operators, operatorKey(owner, operator))
}

// IsApprovedOrOwner - whether spender may transfer or burn the asset
func (reg *Registry) IsApprovedOrOwner(r storage.Reader, spender account.Account, id uint64) bool {
	owner, err := reg.OwnerOf(r, id)
	if nil != err {
		return false
	}
	if spender == owner || reg.IsApprovedForAll(r, owner, spender) {
		return true
	}
	approved, _ := reg.GetApproved(r, id)
	return !approved.IsNull() && approved == spender
}

// TotalSupply - number of existing assets
func (reg *Registry) TotalSupply(r storage.Reader) uint64 {
	n, _ := r.GetN(storage.Pool.Counters, supplyKey)
	return n
}

// TokenURI - metadata uri of an existing asset
func (reg *Registry) TokenURI(r storage.Reader, id uint64) (string, error) {
	key := storage.Uint64Key(id)
	if !r.Has(storage.Pool.Assets, key) {
		return "", fault.NoSuchAsset
	}
	return string(r.Get(storage.Pool.URIs, key)), nil
}

// read a packed account, a missing record gives null or notFound
func accountAt(r storage.Reader, pool *storage.PoolHandle, key []byte, notFound error) (account.Account, error) {
	buffer := r.Get(pool, key)
	if nil == buffer {
		return account.NullAccount, notFound
	}
	a, err := account.FromBytes(buffer)
	if nil != err {
		logger.Panicf("registry: %s: corrupt account for key: %x  error: %s", pool.Name(), key, err)
	}
	return a, nil
}
