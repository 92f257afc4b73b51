// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/rpc/listings"
)

// List - offer an asset for sale
func (client *Client) List(id uint64, price uint64) (*listings.Reply, error) {
	args := &listings.PriceArguments{
		AssetID: id,
		Price:   price,
	}
	var reply listings.Reply
	if err := client.signedCall("Listings.List", args, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Update - change the price of a listing
func (client *Client) Update(id uint64, price uint64) (*listings.Reply, error) {
	args := &listings.PriceArguments{
		AssetID: id,
		Price:   price,
	}
	var reply listings.Reply
	if err := client.signedCall("Listings.Update", args, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Buy - purchase a listed asset sending exactly its price
func (client *Client) Buy(id uint64, price uint64) (*listings.Reply, error) {
	args := &listings.AssetArguments{
		AssetID: id,
	}
	var reply listings.Reply
	if err := client.signedCall("Listings.Buy", args, price, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Cancel - withdraw a listing
func (client *Client) Cancel(id uint64) (*listings.Reply, error) {
	args := &listings.AssetArguments{
		AssetID: id,
	}
	var reply listings.Reply
	if err := client.signedCall("Listings.Cancel", args, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Listing - one active listing
func (client *Client) Listing(id uint64) (*listings.GetReply, error) {
	args := &listings.GetArguments{
		AssetID: id,
	}
	var reply listings.GetReply
	if err := client.call("Listings.Get", args, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Listings - page of active listings
func (client *Client) Listings(start uint64, count int) (*listings.AllReply, error) {
	args := &listings.AllArguments{
		Start: start,
		Count: count,
	}
	var reply listings.AllReply
	if err := client.call("Listings.All", args, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
