// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/rpc/admin"
)

// Pause - stop minting and trading
func (client *Client) Pause() (*admin.StateReply, error) {
	var reply admin.StateReply
	if err := client.signedCall("Admin.Pause", &admin.Arguments{}, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Unpause - resume minting and trading
func (client *Client) Unpause() (*admin.StateReply, error) {
	var reply admin.StateReply
	if err := client.signedCall("Admin.Unpause", &admin.Arguments{}, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Withdraw - move the market's balance to the owner
func (client *Client) Withdraw() (*admin.WithdrawReply, error) {
	var reply admin.WithdrawReply
	if err := client.signedCall("Admin.Withdraw", &admin.Arguments{}, 0, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
