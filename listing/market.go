// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listing - the sale state machine
//
//	Unlisted --List--> Listed --Buy--> Unlisted (custody to buyer)
//	                   Listed --Cancel--> Unlisted (custody to seller)
//	                   Listed --Update--> Listed (price and timestamp)
//
// a listing exists exactly while the market's custodian identity owns
// the asset
package listing

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/access"
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/clock"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/record"
	"github.com/bitmark-inc/marketd/registry"
	"github.com/bitmark-inc/marketd/storage"
)

// DefaultCooldown - minimum time between price updates
const DefaultCooldown = 24 * time.Hour

// Listing - an active sale offer
type Listing struct {
	Price     uint64          `cbor:"1,keyasint" json:"price,string"`
	Seller    account.Account `cbor:"2,keyasint" json:"seller"`
	Timestamp uint64          `cbor:"3,keyasint" json:"timestamp,string"`
}

// Configuration - fixed at construction
type Configuration struct {
	Custodian         account.Account
	RoyaltyPercentage uint64
	Cooldown          time.Duration
	CooldownEnabled   bool
}

// Payer - the value-transfer primitive
type Payer interface {
	Pay(ctx context.Context, trx storage.Transaction, from account.Account, to account.Account, amount uint64) error
}

// Creators - royalty recipient lookup
type Creators interface {
	CreatorOf(storage.Reader, uint64) (account.Account, error)
}

// Market - listing operations
type Market struct {
	conf     Configuration
	registry *registry.Registry
	creators Creators
	payer    Payer
	events   *event.Log
	clock    clock.Clock
	guard    Guard
	log      *logger.L
}

// New - create a market
func New(conf Configuration, reg *registry.Registry, creators Creators, payer Payer, events *event.Log, c clock.Clock) (*Market, error) {
	if conf.RoyaltyPercentage > MaximumRoyaltyPercentage {
		return nil, fault.InvalidRoyaltyPercentage
	}
	if !conf.Custodian.IsContract() {
		return nil, fault.InvalidOwner
	}
	if conf.CooldownEnabled && conf.Cooldown <= 0 {
		conf.Cooldown = DefaultCooldown
	}
	return &Market{
		conf:     conf,
		registry: reg,
		creators: creators,
		payer:    payer,
		events:   events,
		clock:    c,
		log:      logger.New("listing"),
	}, nil
}

// Custodian - identity holding listed assets and in-flight payments
func (m *Market) Custodian() account.Account {
	return m.conf.Custodian
}

// RoyaltyPercentage - share of each sale paid to the creator
func (m *Market) RoyaltyPercentage() uint64 {
	return m.conf.RoyaltyPercentage
}

// Cooldown - minimum time between price updates, and whether it applies
func (m *Market) Cooldown() (time.Duration, bool) {
	return m.conf.Cooldown, m.conf.CooldownEnabled
}

// ReadyAt - earliest time the listing's price may change
func (m *Market) ReadyAt(l Listing) uint64 {
	if !m.conf.CooldownEnabled {
		return l.Timestamp
	}
	return l.Timestamp + uint64(m.conf.Cooldown/time.Second)
}

// List - the current owner offers an asset for sale
func (m *Market) List(trx storage.Transaction, caller account.Account, id uint64, price uint64) error {
	if 0 == price {
		return fault.ZeroPrice
	}
	if trx.Has(storage.Pool.Listings, storage.Uint64Key(id)) {
		return fault.AlreadyListed
	}
	if !access.IsAssetOwner(trx, m.registry, caller, id) {
		if !m.registry.Exists(trx, id) {
			return fault.NoSuchAsset
		}
		return fault.NotOwner
	}

	err := m.registry.Transfer(trx, caller, caller, m.conf.Custodian, id)
	if nil != err {
		return err
	}

	m.put(trx, id, Listing{
		Price:     price,
		Seller:    caller,
		Timestamp: m.clock.Now(),
	})
	m.events.Emit(trx, event.AssetListed{
		AssetID: id,
		Seller:  caller,
		Price:   price,
	})
	m.log.Infof("list: %d  seller: %s  price: %d", id, caller, price)
	return nil
}

// Buy - purchase a listed asset, value must equal the price
//
// value has already been moved to the custodian; the creator's
// royalty and then the seller's share are paid out of it before
// custody moves to the buyer and the listing is removed
func (m *Market) Buy(ctx context.Context, trx storage.Transaction, buyer account.Account, id uint64, value uint64) error {
	release, err := m.guard.Acquire()
	if nil != err {
		return err
	}
	defer release()

	l, err := m.Get(trx, id)
	if nil != err {
		return err
	}
	if value != l.Price {
		return fault.WrongPrice
	}

	creator, err := m.creators.CreatorOf(trx, id)
	if nil != err {
		return err
	}

	royalty, sellerAmount := Split(l.Price, m.conf.RoyaltyPercentage)

	err = m.payer.Pay(ctx, trx, m.conf.Custodian, creator, royalty)
	if nil != err {
		return err
	}
	err = m.payer.Pay(ctx, trx, m.conf.Custodian, l.Seller, sellerAmount)
	if nil != err {
		return err
	}

	err = m.registry.Transfer(trx, m.conf.Custodian, m.conf.Custodian, buyer, id)
	if nil != err {
		return err
	}
	trx.Delete(storage.Pool.Listings, storage.Uint64Key(id))

	m.events.Emit(trx, event.AssetPurchased{
		AssetID: id,
		Buyer:   buyer,
		Seller:  l.Seller,
		Price:   l.Price,
	})
	m.log.Infof("buy: %d  buyer: %s  seller: %s  price: %d  royalty: %d", id, buyer, l.Seller, l.Price, royalty)
	return nil
}

// Cancel - the seller withdraws a listing and regains custody
func (m *Market) Cancel(trx storage.Transaction, caller account.Account, id uint64) error {
	l, err := m.Get(trx, id)
	if nil != err {
		return err
	}
	if !access.IsSeller(l.Seller, caller) {
		return fault.NotSeller
	}

	err = m.registry.Transfer(trx, m.conf.Custodian, m.conf.Custodian, l.Seller, id)
	if nil != err {
		return err
	}
	trx.Delete(storage.Pool.Listings, storage.Uint64Key(id))

	m.events.Emit(trx, event.ListingCancelled{
		AssetID: id,
		Seller:  l.Seller,
	})
	m.log.Infof("cancel: %d  seller: %s", id, l.Seller)
	return nil
}

// Update - the seller changes the price
//
// with the cooldown enabled, a full cooldown must have passed since
// the listing was created or last updated
func (m *Market) Update(trx storage.Transaction, caller account.Account, id uint64, price uint64) error {
	l, err := m.Get(trx, id)
	if nil != err {
		return err
	}
	if !access.IsSeller(l.Seller, caller) {
		return fault.NotSeller
	}
	if 0 == price {
		return fault.ZeroPrice
	}

	now := m.clock.Now()
	if now < m.ReadyAt(l) {
		return fault.CooldownActive
	}

	l.Price = price
	l.Timestamp = now
	m.put(trx, id, l)

	m.events.Emit(trx, event.ListingUpdated{
		AssetID: id,
		Seller:  l.Seller,
		Price:   price,
	})
	m.log.Infof("update: %d  seller: %s  price: %d", id, l.Seller, price)
	return nil
}

// Get - the active listing for an asset
func (m *Market) Get(r storage.Reader, id uint64) (Listing, error) {
	buffer := r.Get(storage.Pool.Listings, storage.Uint64Key(id))
	if nil == buffer {
		return Listing{}, fault.NotListed
	}
	var l Listing
	err := record.Unpack(buffer, &l)
	if nil != err {
		logger.Panicf("listing: corrupt record for: %d  error: %s", id, err)
	}
	return l, nil
}

func (m *Market) put(trx storage.Transaction, id uint64, l Listing) {
	packed, err := record.Pack(l)
	logger.PanicIfError("listing.put", err)
	trx.Put(storage.Pool.Listings, storage.Uint64Key(id), packed)
}
