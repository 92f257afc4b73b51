// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mint

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/record"
	"github.com/bitmark-inc/marketd/registry"
	"github.com/bitmark-inc/marketd/storage"
)

// MaximumBatchSize - most originals in one batch
const MaximumBatchSize = 100

var sequenceKey = []byte("asset-sequence")

// Provenance - stored per minted asset
type Provenance struct {
	Original  uint64          `cbor:"1,keyasint" json:"original,string"` // zero for an original
	Creator   account.Account `cbor:"2,keyasint" json:"creator"`         // royalty recipient
	Minter    account.Account `cbor:"3,keyasint" json:"minter"`
	MintLimit uint64          `cbor:"4,keyasint" json:"mintLimit,string"`
	MintCount uint64          `cbor:"5,keyasint" json:"mintCount,string"`
}

// IsOriginal - true unless the asset is a duplicate
func (p Provenance) IsOriginal() bool {
	return 0 == p.Original
}

// Controller - minting operations
type Controller struct {
	registry          *registry.Registry
	events            *event.Log
	maxMintsPerWallet uint64
	log               *logger.L
}

// New - create a controller, maxMintsPerWallet must be positive
func New(reg *registry.Registry, events *event.Log, maxMintsPerWallet uint64) (*Controller, error) {
	if 0 == maxMintsPerWallet {
		return nil, fault.InvalidMaxMintsPerWallet
	}
	return &Controller{
		registry:          reg,
		events:            events,
		maxMintsPerWallet: maxMintsPerWallet,
		log:               logger.New("mint"),
	}, nil
}

// MaxMintsPerWallet - the per-wallet, per-original duplicate quota
func (c *Controller) MaxMintsPerWallet() uint64 {
	return c.maxMintsPerWallet
}

// Next - allocate the next identifier
func (c *Controller) Next(trx storage.Transaction) uint64 {
	n, _ := trx.GetN(storage.Pool.Counters, sequenceKey)
	n += 1
	trx.PutN(storage.Pool.Counters, sequenceKey, n)
	return n
}

// Current - the last identifier allocated, zero if none
func (c *Controller) Current(r storage.Reader) uint64 {
	n, _ := r.GetN(storage.Pool.Counters, sequenceKey)
	return n
}

// CreateOriginal - mint a new original to the caller
func (c *Controller) CreateOriginal(trx storage.Transaction, caller account.Account, uri string, duplicationCap uint64) (uint64, error) {
	err := ValidateURI(uri)
	if nil != err {
		return 0, err
	}

	id := c.Next(trx)
	err = c.issue(trx, caller, id, uri, Provenance{
		Creator:   caller,
		Minter:    caller,
		MintLimit: duplicationCap,
	})
	if nil != err {
		return 0, err
	}

	c.events.Emit(trx, event.AssetCreated{
		AssetID:   id,
		Creator:   caller,
		URI:       uri,
		Remaining: duplicationCap,
	})
	c.log.Infof("original: %d  creator: %s  cap: %d", id, caller, duplicationCap)
	return id, nil
}

// MintDuplicate - mint a copy of an original to the caller
func (c *Controller) MintDuplicate(trx storage.Transaction, caller account.Account, originalID uint64, uri string) (uint64, error) {
	err := ValidateURI(uri)
	if nil != err {
		return 0, err
	}

	if !c.registry.Exists(trx, originalID) {
		return 0, fault.NoSuchAsset
	}
	original, err := c.Provenance(trx, originalID)
	if nil != err {
		return 0, err
	}
	if !original.IsOriginal() {
		return 0, fault.NotAnOriginal
	}
	if 0 == original.MintLimit {
		return 0, fault.NotDuplicable
	}
	if original.MintCount >= original.MintLimit {
		return 0, fault.MintLimitReached
	}

	walletKey := walletMintsKey(originalID, caller)
	walletCount, _ := trx.GetN(storage.Pool.WalletMints, walletKey)
	if walletCount >= c.maxMintsPerWallet {
		return 0, fault.WalletQuotaExceeded
	}

	id := c.Next(trx)
	err = c.issue(trx, caller, id, uri, Provenance{
		Original: originalID,
		Creator:  original.Creator,
		Minter:   caller,
	})
	if nil != err {
		return 0, err
	}

	original.MintCount += 1
	c.putProvenance(trx, originalID, original)
	trx.PutN(storage.Pool.WalletMints, walletKey, walletCount+1)

	remaining := original.MintLimit - original.MintCount
	c.events.Emit(trx, event.AssetCreated{
		AssetID:   id,
		Creator:   caller,
		URI:       uri,
		Remaining: remaining,
		Original:  originalID,
	})
	c.log.Infof("duplicate: %d of: %d  minter: %s  remaining: %d", id, originalID, caller, remaining)
	return id, nil
}

// BatchCreateOriginal - CreateOriginal for each uri/cap pair, in order
//
// any failure discards every asset created by the batch
func (c *Controller) BatchCreateOriginal(trx storage.Transaction, caller account.Account, uris []string, caps []uint64) ([]uint64, error) {
	if len(uris) != len(caps) {
		return nil, fault.LengthMismatch
	}
	if len(uris) > MaximumBatchSize {
		return nil, fault.BatchTooLarge
	}

	savepoint := trx.Savepoint()
	ids := make([]uint64, 0, len(uris))
	for i, uri := range uris {
		id, err := c.CreateOriginal(trx, caller, uri, caps[i])
		if nil != err {
			trx.RollbackTo(savepoint)
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// mint the asset then record its uri and provenance
func (c *Controller) issue(trx storage.Transaction, to account.Account, id uint64, uri string, p Provenance) error {
	err := c.registry.Mint(trx, to, id)
	if nil != err {
		return err
	}
	err = c.registry.SetTokenURI(trx, id, uri)
	if nil != err {
		return err
	}
	c.putProvenance(trx, id, p)
	return nil
}

func (c *Controller) putProvenance(trx storage.Transaction, id uint64, p Provenance) {
	packed, err := record.Pack(p)
	logger.PanicIfError("mint.putProvenance", err)
	trx.Put(storage.Pool.Provenance, storage.Uint64Key(id), packed)
}

// Provenance - the mint record of an asset, kept after a burn
func (c *Controller) Provenance(r storage.Reader, id uint64) (Provenance, error) {
	buffer := r.Get(storage.Pool.Provenance, storage.Uint64Key(id))
	if nil == buffer {
		return Provenance{}, fault.NoSuchAsset
	}
	var p Provenance
	err := record.Unpack(buffer, &p)
	if nil != err {
		logger.Panicf("mint: corrupt provenance for: %d  error: %s", id, err)
	}
	return p, nil
}

// CreatorOf - the royalty recipient of an asset
func (c *Controller) CreatorOf(r storage.Reader, id uint64) (account.Account, error) {
	p, err := c.Provenance(r, id)
	if nil != err {
		return account.NullAccount, err
	}
	return p.Creator, nil
}

// WalletMints - duplicates of an original minted by one wallet
func (c *Controller) WalletMints(r storage.Reader, originalID uint64, wallet account.Account) uint64 {
	n, _ := r.GetN(storage.Pool.WalletMints, walletMintsKey(originalID, wallet))
	return n
}

func walletMintsKey(originalID uint64, wallet account.Account) []byte {
	return storage.JoinKey(storage.Uint64Key(originalID), wallet.Bytes())
}
