// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/rpc/listings"
)

// display form of a listing
type listingInfo struct {
	AssetID  uint64 `json:"assetId,string"`
	Seller   string `json:"seller"`
	Price    amount `json:"price"`
	Listed   string `json:"listed"`
	Cooldown string `json:"cooldown,omitempty"`
}

func newListingInfo(id uint64, l listing.Listing) listingInfo {
	return listingInfo{
		AssetID: id,
		Seller:  l.Seller.String(),
		Price:   newAmount(l.Price),
		Listed:  time.Unix(int64(l.Timestamp), 0).UTC().Format(time.RFC3339),
	}
}

func runList(c *cli.Context) error {
	return setPrice(c, "list an asset", false)
}

func runUpdate(c *cli.Context) error {
	return setPrice(c, "update a listing", true)
}

func setPrice(c *cli.Context, title string, update bool) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkAssetID(c, "asset")
	if nil != err {
		return err
	}
	price, err := checkAmount(c, "price")
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "asset: %d\n", id)
		fmt.Fprintf(m.e, "price: %s\n", formatAmount(price))
	}

	client, err := signingClient(c, m, title)
	if nil != err {
		return err
	}
	defer client.Close()

	if update {
		reply, err := client.Update(id, price)
		if nil != err {
			return err
		}
		return printListingReply(m, reply)
	}

	reply, err := client.List(id, price)
	if nil != err {
		return err
	}
	return printListingReply(m, reply)
}

func printListingReply(m *metadata, reply *listings.Reply) error {
	if nil == reply.Listing {
		return printJson(m.w, reply)
	}
	return printJson(m.w, newListingInfo(reply.AssetID, *reply.Listing))
}

func runBuy(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkAssetID(c, "asset")
	if nil != err {
		return err
	}

	client, err := signingClient(c, m, "buy an asset")
	if nil != err {
		return err
	}
	defer client.Close()

	// pay the listed price unless one is given
	var price uint64
	if "" != c.String("price") {
		price, err = checkAmount(c, "price")
		if nil != err {
			return err
		}
	} else {
		current, err := client.Listing(id)
		if nil != err {
			return err
		}
		price = current.Listing.Price
	}

	if m.verbose {
		fmt.Fprintf(m.e, "asset: %d\n", id)
		fmt.Fprintf(m.e, "paying: %s\n", formatAmount(price))
	}

	reply, err := client.Buy(id, price)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runCancel(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkAssetID(c, "asset")
	if nil != err {
		return err
	}

	client, err := signingClient(c, m, "cancel a listing")
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Cancel(id)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}

func runListing(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkAssetID(c, "asset")
	if nil != err {
		return err
	}

	client, err := queryClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Listing(id)
	if nil != err {
		return err
	}

	info := newListingInfo(id, reply.Listing)
	if 0 != reply.Cooldown {
		info.Cooldown = (time.Duration(reply.Cooldown) * time.Second).String()
	}
	return printJson(m.w, info)
}

func runListings(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := queryClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Listings(c.Uint64("start"), c.Int("count"))
	if nil != err {
		return err
	}

	result := struct {
		Listings  []listingInfo `json:"listings"`
		NextStart uint64        `json:"nextStart,string"`
	}{
		Listings:  make([]listingInfo, 0, len(reply.Listings)),
		NextStart: reply.NextStart,
	}
	for _, entry := range reply.Listings {
		result.Listings = append(result.Listings, newListingInfo(entry.AssetID, entry.Listing))
	}
	return printJson(m.w, result)
}
