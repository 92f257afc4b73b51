// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"context"
	"encoding/json"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
)

// Operation - entry point selector
type Operation int

// enumerated operations
const (
	OpUnknown Operation = iota // no entry point matched: receive or fallback
	OpCreateOriginal
	OpMintDuplicate
	OpBatchCreateOriginal
	OpTransfer
	OpApprove
	OpSetApprovalForAll
	OpBurn
	OpList
	OpBuy
	OpCancelListing
	OpUpdateListing
	OpPause
	OpUnpause
	OpWithdraw
)

var operationNames = map[string]Operation{
	"createOriginal":      OpCreateOriginal,
	"mintDuplicate":       OpMintDuplicate,
	"batchCreateOriginal": OpBatchCreateOriginal,
	"transfer":            OpTransfer,
	"approve":             OpApprove,
	"setApprovalForAll":   OpSetApprovalForAll,
	"burn":                OpBurn,
	"list":                OpList,
	"buy":                 OpBuy,
	"cancelListing":       OpCancelListing,
	"updateListing":       OpUpdateListing,
	"pause":               OpPause,
	"unpause":             OpUnpause,
	"withdraw":            OpWithdraw,
}

// ParseOperation - selector for a method name, OpUnknown if none
func ParseOperation(method string) Operation {
	return operationNames[method]
}

// Request - the encoded form of a call accepted by Invoke
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// argument shapes
type (
	createArgs struct {
		URI            string `json:"uri"`
		DuplicationCap uint64 `json:"duplicationCap,string"`
	}
	duplicateArgs struct {
		OriginalID uint64 `json:"originalId,string"`
		URI        string `json:"uri"`
	}
	batchArgs struct {
		URIs []string `json:"uris"`
		Caps []uint64 `json:"caps"`
	}
	transferArgs struct {
		From    account.Account `json:"from"`
		To      account.Account `json:"to"`
		AssetID uint64          `json:"assetId,string"`
	}
	approveArgs struct {
		Spender account.Account `json:"spender"`
		AssetID uint64          `json:"assetId,string"`
	}
	operatorArgs struct {
		Operator account.Account `json:"operator"`
		Approved bool            `json:"approved"`
	}
	assetArgs struct {
		AssetID uint64 `json:"assetId,string"`
	}
	priceArgs struct {
		AssetID uint64 `json:"assetId,string"`
		Price   uint64 `json:"price,string"`
	}
)

// Invoke - dispatch an encoded Request
//
// data that is empty is a plain value transfer (Receive); data that
// does not decode, or names no known method, goes to Fallback with
// data recorded unchanged
func (m *Market) Invoke(ctx context.Context, call Call, data []byte) (interface{}, error) {
	if 0 == len(data) {
		return nil, m.Receive(ctx, call)
	}

	var request Request
	op := OpUnknown
	if nil == json.Unmarshal(data, &request) {
		op = ParseOperation(request.Method)
	}

	switch op {
	case OpCreateOriginal:
		var a createArgs
		if err := decode(request.Params, &a); nil != err {
			return nil, err
		}
		return m.CreateOriginal(ctx, call, a.URI, a.DuplicationCap)

	case OpMintDuplicate:
		var a duplicateArgs
		if err := decode(request.Params, &a); nil != err {
			return nil, err
		}
		return m.MintDuplicate(ctx, call, a.OriginalID, a.URI)

	case OpBatchCreateOriginal:
		var a batchArgs
		if err := decode(request.Params, &a); nil != err {
			return nil, err
		}
		return m.BatchCreateOriginal(ctx, call, a.URIs, a.Caps)

	case OpTransfer:
		var a transferArgs
		if err := decode(request.Params, &a); nil != err {
			return nil, err
		}
		return nil, m.Transfer(ctx, call, a.From, a.To, a.AssetID)

	case OpApprove:
		var a approveArgs
		if err := decode(request.Params, &a); nil != err {
			return nil, err
		}
		return nil, m.Approve(ctx, call, a.Spender, a.AssetID)

	case OpSetApprovalForAll:
		var a operatorArgs
		if err := decode(request.Params, &a); nil != err {
			return nil, err
		}
		return nil, m.SetApprovalForAll(ctx, call, a.Operator, a.Approved)

	case OpBurn:
		var a assetArgs
		if err := decode(request.Params, &a); nil != err {
			return nil, err
		}
		return nil, m.Burn(ctx, call, a.AssetID)

	case OpList:
		var a priceArgs
		if err := decode(request.Params, &a); nil != err {
			return nil, err
		}
		return nil, m.List(ctx, call, a.AssetID, a.Price)

	case OpBuy:
		var a assetArgs
		if err := decode(request.Params, &a); nil != err {
			return nil, err
		}
		return nil, m.Buy(ctx, call, a.AssetID)

	case OpCancelListing:
		var a assetArgs
		if err := decode(request.Params, &a); nil != err {
			return nil, err
		}
		return nil, m.CancelListing(ctx, call, a.AssetID)

	case OpUpdateListing:
		var a priceArgs
		if err := decode(request.Params, &a); nil != err {
			return nil, err
		}
		return nil, m.UpdateListing(ctx, call, a.AssetID, a.Price)

	case OpPause:
		return nil, m.Pause(ctx, call)

	case OpUnpause:
		return nil, m.Unpause(ctx, call)

	case OpWithdraw:
		return m.Withdraw(ctx, call)

	case OpUnknown:
		fallthrough
	default:
		return nil, m.Fallback(ctx, call, data)
	}
}

// missing params decode as zero arguments
func decode(params json.RawMessage, v interface{}) error {
	if 0 == len(params) {
		return nil
	}
	err := json.Unmarshal(params, v)
	if nil != err {
		return fault.InvalidParameters
	}
	return nil
}
