// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/rpc/assets"
)

// Create - mint an original asset
func (client *Client) Create(uri string, duplicationCap uint64) (*assets.CreateReply, error) {
	args := &assets.CreateArguments{
		URI:            uri,
		DuplicationCap: duplicationCap,
	}
	var reply assets.CreateReply
	if err := client.signedCall("Assets.Create", args, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// CreateBatch - mint several originals at once
func (client *Client) CreateBatch(uris []string, caps []uint64) (*assets.BatchReply, error) {
	args := &assets.BatchArguments{
		URIs: uris,
		Caps: caps,
	}
	var reply assets.BatchReply
	if err := client.signedCall("Assets.CreateBatch", args, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Duplicate - mint a duplicate of an original
func (client *Client) Duplicate(originalID uint64, uri string) (*assets.CreateReply, error) {
	args := &assets.DuplicateArguments{
		OriginalID: originalID,
		URI:        uri,
	}
	var reply assets.CreateReply
	if err := client.signedCall("Assets.Duplicate", args, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Transfer - move an asset between identities
func (client *Client) Transfer(from account.Account, to account.Account, id uint64) (*assets.ActionReply, error) {
	args := &assets.TransferArguments{
		From:    from,
		To:      to,
		AssetID: id,
	}
	var reply assets.ActionReply
	if err := client.signedCall("Assets.Transfer", args, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Approve - allow a spender to transfer one asset
func (client *Client) Approve(spender account.Account, id uint64) (*assets.ActionReply, error) {
	args := &assets.ApproveArguments{
		Spender: spender,
		AssetID: id,
	}
	var reply assets.ActionReply
	if err := client.signedCall("Assets.Approve", args, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// SetApprovalForAll - grant or revoke an operator
func (client *Client) SetApprovalForAll(operator account.Account, approved bool) (*assets.OperatorReply, error) {
	args := &assets.OperatorArguments{
		Operator: operator,
		Approved: approved,
	}
	var reply assets.OperatorReply
	if err := client.signedCall("Assets.SetApprovalForAll", args, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Burn - destroy an asset
func (client *Client) Burn(id uint64) (*assets.ActionReply, error) {
	args := &assets.BurnArguments{
		AssetID: id,
	}
	var reply assets.ActionReply
	if err := client.signedCall("Assets.Burn", args, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Asset - details of one asset
func (client *Client) Asset(id uint64) (*assets.GetReply, error) {
	args := &assets.GetArguments{
		AssetID: id,
	}
	var reply assets.GetReply
	if err := client.call("Assets.Get", args, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Holdings - count of assets owned and operator status
func (client *Client) Holdings(owner account.Account, operator account.Account) (*assets.HoldingsReply, error) {
	args := &assets.HoldingsArguments{
		Owner:    owner,
		Operator: operator,
	}
	var reply assets.HoldingsReply
	if err := client.call("Assets.Holdings", args, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
