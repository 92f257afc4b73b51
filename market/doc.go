// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package market - the entry points of the marketplace
//
// every mutating call runs in a frame:
//
//   - a top-level call takes the market lock, opens the storage
//     transaction and commits it only if the call succeeds, then
//     broadcasts the events it produced
//   - a call made from inside another call (a receiver hook run by a
//     payment) finds the outer frame in its context, joins the outer
//     transaction at a savepoint and on failure rolls back to that
//     savepoint only
//
// value sent with a call moves from the caller to the market's
// custodian identity before the operation runs; operations that do
// not accept value reject it
//
// queries read committed state only
package market
