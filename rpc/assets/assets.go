// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assets

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/mint"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
	"github.com/bitmark-inc/marketd/rpc/signed"
)

// Assets - type for the RPC
type Assets struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Market   market.Service
	Verifier *signed.Verifier
}

const (
	rateLimitAssets = 200
	rateBurstAssets = 100
)

// New - create the RPC type
func New(log *logger.L, svc market.Service, verifier *signed.Verifier) *Assets {
	return &Assets{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitAssets, rateBurstAssets),
		Market:   svc,
		Verifier: verifier,
	}
}

// ActionReply - result of a request that returns no data
type ActionReply struct {
	AssetID uint64 `json:"assetId,string"`
}

// ---

// CreateArguments - arguments for RPC
type CreateArguments struct {
	signed.Envelope
	URI            string `json:"uri"`
	DuplicationCap uint64 `json:"duplicationCap,string"`
}

// CreateReply - the identifier of the new asset
type CreateReply struct {
	AssetID uint64 `json:"assetId,string"`
}

// Create - mint a new original
func (assets *Assets) Create(arguments *CreateArguments, reply *CreateReply) error {
	if err := ratelimit.Limit(assets.Limiter); nil != err {
		return err
	}

	call, err := assets.Verifier.Verify("Assets.Create", arguments)
	if nil != err {
		return err
	}

	assets.Log.Infof("Assets.Create: caller: %s  uri: %q  cap: %d", call.Caller, arguments.URI, arguments.DuplicationCap)

	id, err := assets.Market.CreateOriginal(context.Background(), call, arguments.URI, arguments.DuplicationCap)
	if nil != err {
		return err
	}
	reply.AssetID = id
	return nil
}

// ---

// DuplicateArguments - arguments for RPC
type DuplicateArguments struct {
	signed.Envelope
	OriginalID uint64 `json:"originalId,string"`
	URI        string `json:"uri"`
}

// Duplicate - mint a copy of an original
func (assets *Assets) Duplicate(arguments *DuplicateArguments, reply *CreateReply) error {
	if err := ratelimit.Limit(assets.Limiter); nil != err {
		return err
	}

	call, err := assets.Verifier.Verify("Assets.Duplicate", arguments)
	if nil != err {
		return err
	}

	assets.Log.Infof("Assets.Duplicate: caller: %s  original: %d", call.Caller, arguments.OriginalID)

	id, err := assets.Market.MintDuplicate(context.Background(), call, arguments.OriginalID, arguments.URI)
	if nil != err {
		return err
	}
	reply.AssetID = id
	return nil
}

// ---

// BatchArguments - arguments for RPC
type BatchArguments struct {
	signed.Envelope
	URIs []string `json:"uris"`
	Caps []uint64 `json:"caps"`
}

// BatchReply - identifiers in request order
type BatchReply struct {
	AssetIDs []uint64 `json:"assetIds"`
}

// CreateBatch - mint several originals, all or nothing
func (assets *Assets) CreateBatch(arguments *BatchArguments, reply *BatchReply) error {
	if err := ratelimit.LimitN(assets.Limiter, len(arguments.URIs), mint.MaximumBatchSize); nil != err {
		return err
	}

	call, err := assets.Verifier.Verify("Assets.CreateBatch", arguments)
	if nil != err {
		return err
	}

	assets.Log.Infof("Assets.CreateBatch: caller: %s  count: %d", call.Caller, len(arguments.URIs))

	ids, err := assets.Market.BatchCreateOriginal(context.Background(), call, arguments.URIs, arguments.Caps)
	if nil != err {
		return err
	}
	reply.AssetIDs = ids
	return nil
}

// ---

// TransferArguments - arguments for RPC
type TransferArguments struct {
	signed.Envelope
	From    account.Account `json:"from"`
	To      account.Account `json:"to"`
	AssetID uint64          `json:"assetId,string"`
}

// Transfer - move an asset between identities
func (assets *Assets) Transfer(arguments *TransferArguments, reply *ActionReply) error {
	if err := ratelimit.Limit(assets.Limiter); nil != err {
		return err
	}

	call, err := assets.Verifier.Verify("Assets.Transfer", arguments)
	if nil != err {
		return err
	}

	assets.Log.Infof("Assets.Transfer: caller: %s  id: %d  to: %s", call.Caller, arguments.AssetID, arguments.To)

	err = assets.Market.Transfer(context.Background(), call, arguments.From, arguments.To, arguments.AssetID)
	if nil != err {
		return err
	}
	reply.AssetID = arguments.AssetID
	return nil
}

// ---

// ApproveArguments - arguments for RPC
type ApproveArguments struct {
	signed.Envelope
	Spender account.Account `json:"spender"`
	AssetID uint64          `json:"assetId,string"`
}

// Approve - allow one identity to transfer an asset
func (assets *Assets) Approve(arguments *ApproveArguments, reply *ActionReply) error {
	if err := ratelimit.Limit(assets.Limiter); nil != err {
		return err
	}

	call, err := assets.Verifier.Verify("Assets.Approve", arguments)
	if nil != err {
		return err
	}

	err = assets.Market.Approve(context.Background(), call, arguments.Spender, arguments.AssetID)
	if nil != err {
		return err
	}
	reply.AssetID = arguments.AssetID
	return nil
}

// ---

// OperatorArguments - arguments for RPC
type OperatorArguments struct {
	signed.Envelope
	Operator account.Account `json:"operator"`
	Approved bool            `json:"approved"`
}

// OperatorReply - current operator state
type OperatorReply struct {
	Owner    account.Account `json:"owner"`
	Operator account.Account `json:"operator"`
	Approved bool            `json:"approved"`
}

// SetApprovalForAll - allow or revoke an operator for all the caller's assets
func (assets *Assets) SetApprovalForAll(arguments *OperatorArguments, reply *OperatorReply) error {
	if err := ratelimit.Limit(assets.Limiter); nil != err {
		return err
	}

	call, err := assets.Verifier.Verify("Assets.SetApprovalForAll", arguments)
	if nil != err {
		return err
	}

	err = assets.Market.SetApprovalForAll(context.Background(), call, arguments.Operator, arguments.Approved)
	if nil != err {
		return err
	}
	reply.Owner = call.Caller
	reply.Operator = arguments.Operator
	reply.Approved = arguments.Approved
	return nil
}

// ---

// BurnArguments - arguments for RPC
type BurnArguments struct {
	signed.Envelope
	AssetID uint64 `json:"assetId,string"`
}

// Burn - destroy an asset
func (assets *Assets) Burn(arguments *BurnArguments, reply *ActionReply) error {
	if err := ratelimit.Limit(assets.Limiter); nil != err {
		return err
	}

	call, err := assets.Verifier.Verify("Assets.Burn", arguments)
	if nil != err {
		return err
	}

	assets.Log.Infof("Assets.Burn: caller: %s  id: %d", call.Caller, arguments.AssetID)

	err = assets.Market.Burn(context.Background(), call, arguments.AssetID)
	if nil != err {
		return err
	}
	reply.AssetID = arguments.AssetID
	return nil
}

// ---

// GetArguments - arguments for RPC
type GetArguments struct {
	AssetID uint64 `json:"assetId,string"`
}

// GetReply - results from get RPC request
type GetReply struct {
	Asset market.Asset `json:"asset"`
}

// Get - RPC to fetch asset data
func (assets *Assets) Get(arguments *GetArguments, reply *GetReply) error {
	if err := ratelimit.Limit(assets.Limiter); nil != err {
		return err
	}

	a, err := assets.Market.Asset(arguments.AssetID)
	if nil != err {
		return err
	}
	reply.Asset = a
	return nil
}

// ---

// HoldingsArguments - arguments for RPC
type HoldingsArguments struct {
	Owner    account.Account `json:"owner"`
	Operator account.Account `json:"operator"`
}

// HoldingsReply - count of assets held, and operator state if asked
type HoldingsReply struct {
	Owner          account.Account `json:"owner"`
	Count          uint64          `json:"count,string"`
	ApprovedForAll bool            `json:"approvedForAll"`
}

// Holdings - balance of an owner
func (assets *Assets) Holdings(arguments *HoldingsArguments, reply *HoldingsReply) error {
	if err := ratelimit.Limit(assets.Limiter); nil != err {
		return err
	}

	reply.Owner = arguments.Owner
	reply.Count = assets.Market.BalanceOf(arguments.Owner)
	if !arguments.Operator.IsNull() {
		reply.ApprovedForAll = assets.Market.IsApprovedForAll(arguments.Owner, arguments.Operator)
	}
	return nil
}

// ---

// MintsArguments - arguments for RPC
type MintsArguments struct {
	OriginalID uint64          `json:"originalId,string"`
	Wallet     account.Account `json:"wallet"`
}

// MintsReply - duplicates minted by a wallet and the quota
type MintsReply struct {
	Count   uint64 `json:"count,string"`
	Maximum uint64 `json:"maximum,string"`
}

// Mints - how many duplicates of an original a wallet has minted
func (assets *Assets) Mints(arguments *MintsArguments, reply *MintsReply) error {
	if err := ratelimit.Limit(assets.Limiter); nil != err {
		return err
	}

	reply.Count = assets.Market.WalletMints(arguments.OriginalID, arguments.Wallet)
	reply.Maximum = assets.Market.Info().MaxMintsPerWallet
	return nil
}
