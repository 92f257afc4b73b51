// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing

import (
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/record"
	"github.com/bitmark-inc/marketd/storage"
)

// MaximumCount - largest page returned by Listings
const MaximumCount = 100

// Entry - a listing together with its asset
type Entry struct {
	AssetID uint64 `json:"assetId,string"`
	Listing
}

// Listings - committed listings in asset order from start (inclusive),
// and the identifier to continue from
func (m *Market) Listings(start uint64, count int) ([]Entry, uint64, error) {
	if count <= 0 || count > MaximumCount {
		return nil, start, fault.InvalidCount
	}

	cursor := storage.Pool.Listings.NewFetchCursor().Seek(storage.Uint64Key(start))
	elements, err := cursor.Fetch(count)
	if nil != err {
		return nil, start, err
	}

	entries := make([]Entry, 0, len(elements))
	next := start
	for _, e := range elements {
		entry := Entry{
			AssetID: storage.Uint64FromKey(e.Key),
		}
		err := record.Unpack(e.Value, &entry.Listing)
		if nil != err {
			return nil, start, err
		}
		entries = append(entries, entry)
		next = entry.AssetID + 1
	}
	return entries, next, nil
}
