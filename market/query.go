// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"time"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/funds"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/mint"
	"github.com/bitmark-inc/marketd/storage"
)

// Asset - everything known about one asset
type Asset struct {
	AssetID    uint64           `json:"assetId,string"`
	Owner      account.Account  `json:"owner"`
	Approved   account.Account  `json:"approved"`
	URI        string           `json:"uri"`
	Provenance mint.Provenance  `json:"provenance"`
	Listing    *listing.Listing `json:"listing,omitempty"`
}

// Info - market parameters and totals
type Info struct {
	Owner             account.Account `json:"owner"`
	Custodian         account.Account `json:"custodian"`
	Paused            bool            `json:"paused"`
	Pausable          bool            `json:"pausable"`
	RoyaltyPercentage uint64          `json:"royaltyPercentage"`
	Cooldown          uint64          `json:"cooldown"`
	CooldownEnabled   bool            `json:"cooldownEnabled"`
	MaxMintsPerWallet uint64          `json:"maxMintsPerWallet,string"`
	TotalSupply       uint64          `json:"totalSupply,string"`
	LastAssetID       uint64          `json:"lastAssetId,string"`
	EventSequence     uint64          `json:"eventSequence,string"`
	Balance           uint64          `json:"balance,string"`
	Now               uint64          `json:"now,string"`
}

// Info - current parameters
func (m *Market) Info() Info {
	r := storage.Committed()
	cooldown, enabled := m.listing.Cooldown()
	return Info{
		Owner:             m.gate.Owner(r),
		Custodian:         m.custodian,
		Paused:            m.gate.IsPaused(r),
		Pausable:          m.gate.Pausable(),
		RoyaltyPercentage: m.listing.RoyaltyPercentage(),
		Cooldown:          uint64(cooldown / time.Second),
		CooldownEnabled:   enabled,
		MaxMintsPerWallet: m.mint.MaxMintsPerWallet(),
		TotalSupply:       m.registry.TotalSupply(r),
		LastAssetID:       m.mint.Current(r),
		EventSequence:     event.Sequence(r),
		Balance:           funds.Balance(r, m.custodian),
		Now:               m.clock.Now(),
	}
}

// Asset - combined record for an existing asset
func (m *Market) Asset(id uint64) (Asset, error) {
	r := storage.Committed()

	owner, err := m.registry.OwnerOf(r, id)
	if nil != err {
		return Asset{}, err
	}
	approved, err := m.registry.GetApproved(r, id)
	if nil != err {
		return Asset{}, err
	}
	uri, err := m.registry.TokenURI(r, id)
	if nil != err {
		return Asset{}, err
	}
	p, err := m.mint.Provenance(r, id)
	if nil != err {
		return Asset{}, err
	}

	a := Asset{
		AssetID:    id,
		Owner:      owner,
		Approved:   approved,
		URI:        uri,
		Provenance: p,
	}
	if l, err := m.listing.Get(r, id); nil == err {
		a.Listing = &l
	}
	return a, nil
}

// OwnerOf - owner of an existing asset
func (m *Market) OwnerOf(id uint64) (account.Account, error) {
	return m.registry.OwnerOf(storage.Committed(), id)
}

// BalanceOf - number of assets owned
func (m *Market) BalanceOf(owner account.Account) uint64 {
	return m.registry.BalanceOf(storage.Committed(), owner)
}

// IsApprovedForAll - operator check
func (m *Market) IsApprovedForAll(owner account.Account, operator account.Account) bool {
	return m.registry.IsApprovedForAll(storage.Committed(), owner, operator)
}

// TotalSupply - number of existing assets
func (m *Market) TotalSupply() uint64 {
	return m.registry.TotalSupply(storage.Committed())
}

// WalletMints - duplicates of an original minted by a wallet
func (m *Market) WalletMints(originalID uint64, wallet account.Account) uint64 {
	return m.mint.WalletMints(storage.Committed(), originalID, wallet)
}

// Listing - active listing of an asset
func (m *Market) Listing(id uint64) (listing.Listing, error) {
	return m.listing.Get(storage.Committed(), id)
}

// Listings - page of active listings
func (m *Market) Listings(start uint64, count int) ([]listing.Entry, uint64, error) {
	return m.listing.Listings(start, count)
}

// Events - page of the event log
func (m *Market) Events(start uint64, count int) ([]event.Record, uint64, error) {
	return event.List(start, count)
}

// Funds - value balance of an identity
func (m *Market) Funds(acct account.Account) uint64 {
	return funds.Balance(storage.Committed(), acct)
}

// CooldownRemaining - time until a listing's price may next change
func (m *Market) CooldownRemaining(id uint64) (time.Duration, error) {
	l, err := m.Listing(id)
	if nil != err {
		return 0, err
	}
	readyAt := m.listing.ReadyAt(l)
	now := m.clock.Now()
	if now >= readyAt {
		return 0, nil
	}
	return time.Duration(readyAt-now) * time.Second, nil
}
