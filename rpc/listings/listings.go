// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listings

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
	"github.com/bitmark-inc/marketd/rpc/signed"
)

const (
	rateLimitListings = 200
	rateBurstListings = 100
)

// Listings - type for the RPC
type Listings struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Market   market.Service
	Verifier *signed.Verifier
}

// New - create the RPC type
func New(log *logger.L, svc market.Service, verifier *signed.Verifier) *Listings {
	return &Listings{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitListings, rateBurstListings),
		Market:   svc,
		Verifier: verifier,
	}
}

// PriceArguments - arguments for List and Update
type PriceArguments struct {
	signed.Envelope
	AssetID uint64 `json:"assetId,string"`
	Price   uint64 `json:"price,string"`
}

// AssetArguments - arguments naming a single listed asset
type AssetArguments struct {
	signed.Envelope
	AssetID uint64 `json:"assetId,string"`
}

// Reply - the listing after the change, if any remains
type Reply struct {
	AssetID uint64           `json:"assetId,string"`
	Listing *listing.Listing `json:"listing,omitempty"`
}

// ---

// List - put an asset up for sale
func (listings *Listings) List(arguments *PriceArguments, reply *Reply) error {
	if err := ratelimit.Limit(listings.Limiter); nil != err {
		return err
	}

	call, err := listings.Verifier.Verify("Listings.List", arguments)
	if nil != err {
		return err
	}

	listings.Log.Infof("Listings.List: caller: %s  id: %d  price: %d", call.Caller, arguments.AssetID, arguments.Price)

	err = listings.Market.List(context.Background(), call, arguments.AssetID, arguments.Price)
	if nil != err {
		return err
	}
	return listings.current(arguments.AssetID, reply)
}

// Buy - purchase a listed asset, the envelope value is the payment
func (listings *Listings) Buy(arguments *AssetArguments, reply *Reply) error {
	if err := ratelimit.Limit(listings.Limiter); nil != err {
		return err
	}

	call, err := listings.Verifier.Verify("Listings.Buy", arguments)
	if nil != err {
		return err
	}

	listings.Log.Infof("Listings.Buy: caller: %s  id: %d  value: %d", call.Caller, arguments.AssetID, call.Value)

	err = listings.Market.Buy(context.Background(), call, arguments.AssetID)
	if nil != err {
		return err
	}
	reply.AssetID = arguments.AssetID
	return nil
}

// Cancel - withdraw an asset from sale
func (listings *Listings) Cancel(arguments *AssetArguments, reply *Reply) error {
	if err := ratelimit.Limit(listings.Limiter); nil != err {
		return err
	}

	call, err := listings.Verifier.Verify("Listings.Cancel", arguments)
	if nil != err {
		return err
	}

	listings.Log.Infof("Listings.Cancel: caller: %s  id: %d", call.Caller, arguments.AssetID)

	err = listings.Market.CancelListing(context.Background(), call, arguments.AssetID)
	if nil != err {
		return err
	}
	reply.AssetID = arguments.AssetID
	return nil
}

// Update - change the price of a listing
func (listings *Listings) Update(arguments *PriceArguments, reply *Reply) error {
	if err := ratelimit.Limit(listings.Limiter); nil != err {
		return err
	}

	call, err := listings.Verifier.Verify("Listings.Update", arguments)
	if nil != err {
		return err
	}

	listings.Log.Infof("Listings.Update: caller: %s  id: %d  price: %d", call.Caller, arguments.AssetID, arguments.Price)

	err = listings.Market.UpdateListing(context.Background(), call, arguments.AssetID, arguments.Price)
	if nil != err {
		return err
	}
	return listings.current(arguments.AssetID, reply)
}

func (listings *Listings) current(id uint64, reply *Reply) error {
	l, err := listings.Market.Listing(id)
	if nil != err {
		return err
	}
	reply.AssetID = id
	reply.Listing = &l
	return nil
}

// ---

// GetArguments - arguments for RPC
type GetArguments struct {
	AssetID uint64 `json:"assetId,string"`
}

// GetReply - an active listing and its remaining update cooldown
type GetReply struct {
	Listing  listing.Listing `json:"listing"`
	Cooldown uint64          `json:"cooldown"`
}

// Get - fetch one active listing
func (listings *Listings) Get(arguments *GetArguments, reply *GetReply) error {
	if err := ratelimit.Limit(listings.Limiter); nil != err {
		return err
	}

	l, err := listings.Market.Listing(arguments.AssetID)
	if nil != err {
		return err
	}
	remaining, err := listings.Market.CooldownRemaining(arguments.AssetID)
	if nil != err {
		return err
	}

	reply.Listing = l
	reply.Cooldown = uint64(remaining / time.Second)
	return nil
}

// ---

// AllArguments - arguments for RPC
type AllArguments struct {
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// AllReply - a page of active listings
type AllReply struct {
	Listings  []listing.Entry `json:"listings"`
	NextStart uint64          `json:"nextStart,string"`
}

// All - page through the active listings in asset order
func (listings *Listings) All(arguments *AllArguments, reply *AllReply) error {
	if err := ratelimit.LimitN(listings.Limiter, arguments.Count, listing.MaximumCount); nil != err {
		return err
	}

	entries, nextStart, err := listings.Market.Listings(arguments.Start, arguments.Count)
	if nil != err {
		return err
	}
	reply.Listings = entries
	reply.NextStart = nextStart
	return nil
}
