// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/access"
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/clock"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/funds"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/mint"
	"github.com/bitmark-inc/marketd/registry"
	"github.com/bitmark-inc/marketd/storage"
)

// Configuration - fixed at construction
type Configuration struct {
	Owner             account.Account
	Custodian         account.Account
	RoyaltyPercentage uint64
	MaxMintsPerWallet uint64
	Cooldown          time.Duration
	CooldownEnabled   bool
	Pausable          bool
}

// Call - the verified caller and the value sent with the call
type Call struct {
	Caller account.Account
	Value  uint64
}

// Market - the marketplace
type Market struct {
	sync.Mutex

	custodian account.Account
	clock     clock.Clock
	ledger    *funds.Ledger
	events    *event.Log
	gate      *access.Gate
	registry  *registry.Registry
	mint      *mint.Controller
	listing   *listing.Market

	log *logger.L
}

// New - create the market on an initialised database
//
// on first start the owner is recorded; later starts must name the
// same owner
func New(conf Configuration, c clock.Clock, ledger *funds.Ledger) (*Market, error) {
	events := event.NewLog(c)
	reg := registry.New(events)

	controller, err := mint.New(reg, events, conf.MaxMintsPerWallet)
	if nil != err {
		return nil, err
	}

	lm, err := listing.New(listing.Configuration{
		Custodian:         conf.Custodian,
		RoyaltyPercentage: conf.RoyaltyPercentage,
		Cooldown:          conf.Cooldown,
		CooldownEnabled:   conf.CooldownEnabled,
	}, reg, controller, ledger, events, c)
	if nil != err {
		return nil, err
	}

	m := &Market{
		custodian: conf.Custodian,
		clock:     c,
		ledger:    ledger,
		events:    events,
		gate:      access.New(events, conf.Pausable),
		registry:  reg,
		mint:      controller,
		listing:   lm,
		log:       logger.New("market"),
	}

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return nil, err
	}
	err = m.gate.Initialise(trx, conf.Owner)
	if nil != err {
		trx.Abort()
		return nil, err
	}
	err = trx.Commit()
	if nil != err {
		return nil, err
	}

	m.log.Infof("custodian: %s  royalty: %d%%  max mints per wallet: %d", conf.Custodian, conf.RoyaltyPercentage, conf.MaxMintsPerWallet)
	return m, nil
}

// Custodian - the market's own identity
func (m *Market) Custodian() account.Account {
	return m.custodian
}

// Ledger - the value-transfer primitive in use
func (m *Market) Ledger() *funds.Ledger {
	return m.ledger
}

// reject identities that cannot originate a call
func (m *Market) checkCaller(caller account.Account) error {
	if caller.IsNull() || caller.IsContract() {
		return fault.InvalidCaller
	}
	return nil
}

// Deposit - create value for an identity, only for funding test chains
func (m *Market) Deposit(to account.Account, amount uint64) error {
	return m.topLevel(func(f *frame) error {
		return m.ledger.Deposit(f.trx, to, amount)
	})
}
