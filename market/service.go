// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"context"
	"time"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/listing"
)

// Service - everything the outer surfaces may call
type Service interface {
	CreateOriginal(ctx context.Context, call Call, uri string, duplicationCap uint64) (uint64, error)
	MintDuplicate(ctx context.Context, call Call, originalID uint64, uri string) (uint64, error)
	BatchCreateOriginal(ctx context.Context, call Call, uris []string, caps []uint64) ([]uint64, error)
	Transfer(ctx context.Context, call Call, from account.Account, to account.Account, id uint64) error
	Approve(ctx context.Context, call Call, spender account.Account, id uint64) error
	SetApprovalForAll(ctx context.Context, call Call, operator account.Account, approved bool) error
	Burn(ctx context.Context, call Call, id uint64) error

	List(ctx context.Context, call Call, id uint64, price uint64) error
	Buy(ctx context.Context, call Call, id uint64) error
	CancelListing(ctx context.Context, call Call, id uint64) error
	UpdateListing(ctx context.Context, call Call, id uint64, price uint64) error

	Pause(ctx context.Context, call Call) error
	Unpause(ctx context.Context, call Call) error
	Withdraw(ctx context.Context, call Call) (uint64, error)
	Receive(ctx context.Context, call Call) error
	Invoke(ctx context.Context, call Call, data []byte) (interface{}, error)
	Deposit(to account.Account, amount uint64) error

	Info() Info
	Asset(id uint64) (Asset, error)
	BalanceOf(owner account.Account) uint64
	IsApprovedForAll(owner account.Account, operator account.Account) bool
	WalletMints(originalID uint64, wallet account.Account) uint64
	Listing(id uint64) (listing.Listing, error)
	Listings(start uint64, count int) ([]listing.Entry, uint64, error)
	Events(start uint64, count int) ([]event.Record, uint64, error)
	Funds(acct account.Account) uint64
	CooldownRemaining(id uint64) (time.Duration, error)
}

var _ Service = (*Market)(nil)
