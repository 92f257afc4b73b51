// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package event - the durable, append-only log of market state
// transitions
//
// each record is stored in the Events pool keyed by its sequence
// number:
//
//	E ++ sequence  ->  kind ++ timestamp ++ cbor(body)
//
// the sequence is allocated inside the caller's transaction, so an
// aborted or rolled back call leaves no gap in the numbering
package event
