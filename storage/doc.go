// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. id           = asset identifier as big endian uint64 (8 bytes)
// 4. count        = big endian uint64 (8 bytes)
// 5. account      = packed identity (key variant ++ 32 byte key)
// 6. record       = cbor encoded structure
//
// Assets:
//
//	A ++ id                    - owner of an existing asset
//	                             data: account
//	P ++ id                    - single approved spender
//	                             data: account
//	O ++ owner ++ operator     - approved-for-all operator
//	                             data: 0x01
//	B ++ account               - number of assets owned
//	                             data: count
//	U ++ id                    - metadata uri
//	                             data: uri bytes
//
// Minting:
//
//	M ++ id                    - provenance
//	                             data: record
//	W ++ original id ++ account - duplicates minted by a wallet from an original
//	                             data: count
//
// Market:
//
//	L ++ id                    - active listing
//	                             data: record
//	S ++ name                  - market settings (owner, paused)
//	                             data: bytes
//	F ++ account               - value balances held by the transfer ledger
//	                             data: count
//
// Common:
//
//	C ++ name                  - counters (supply, identifier sequence, event sequence)
//	                             data: count
//	E ++ sequence              - event log
//	                             data: record
package storage
