// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"context"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/funds"
	"github.com/bitmark-inc/marketd/storage"
)

const (
	payable    = true
	notPayable = false
)

// CreateOriginal - mint an original to the caller
func (m *Market) CreateOriginal(ctx context.Context, call Call, uri string, duplicationCap uint64) (uint64, error) {
	id := uint64(0)
	err := m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		err := m.gate.RequireNotPaused(trx)
		if nil != err {
			return err
		}
		id, err = m.mint.CreateOriginal(trx, call.Caller, uri, duplicationCap)
		return err
	})
	if nil != err {
		return 0, err
	}
	return id, nil
}

// MintDuplicate - mint a duplicate of an original to the caller
func (m *Market) MintDuplicate(ctx context.Context, call Call, originalID uint64, uri string) (uint64, error) {
	id := uint64(0)
	err := m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		err := m.gate.RequireNotPaused(trx)
		if nil != err {
			return err
		}
		id, err = m.mint.MintDuplicate(trx, call.Caller, originalID, uri)
		return err
	})
	if nil != err {
		return 0, err
	}
	return id, nil
}

// BatchCreateOriginal - mint several originals, all or nothing
func (m *Market) BatchCreateOriginal(ctx context.Context, call Call, uris []string, caps []uint64) ([]uint64, error) {
	var ids []uint64
	err := m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		err := m.gate.RequireNotPaused(trx)
		if nil != err {
			return err
		}
		ids, err = m.mint.BatchCreateOriginal(trx, call.Caller, uris, caps)
		return err
	})
	if nil != err {
		return nil, err
	}
	return ids, nil
}

// Transfer - move an asset
//
// only listing may place an asset in the custodian's hands
func (m *Market) Transfer(ctx context.Context, call Call, from account.Account, to account.Account, id uint64) error {
	if to == m.custodian {
		return fault.InvalidTarget
	}
	return m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		return m.registry.Transfer(trx, call.Caller, from, to, id)
	})
}

// Approve - set the single approved spender of an asset
func (m *Market) Approve(ctx context.Context, call Call, spender account.Account, id uint64) error {
	return m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		return m.registry.Approve(trx, call.Caller, spender, id)
	})
}

// SetApprovalForAll - grant or revoke an operator
func (m *Market) SetApprovalForAll(ctx context.Context, call Call, operator account.Account, approved bool) error {
	return m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		return m.registry.SetApprovalForAll(trx, call.Caller, operator, approved)
	})
}

// Burn - destroy an asset
func (m *Market) Burn(ctx context.Context, call Call, id uint64) error {
	return m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		return m.registry.Burn(trx, call.Caller, id)
	})
}

// List - offer an asset for sale
func (m *Market) List(ctx context.Context, call Call, id uint64, price uint64) error {
	return m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		err := m.gate.RequireNotPaused(trx)
		if nil != err {
			return err
		}
		return m.listing.List(trx, call.Caller, id, price)
	})
}

// Buy - purchase a listed asset, the call value must equal the price
func (m *Market) Buy(ctx context.Context, call Call, id uint64) error {
	return m.execute(ctx, call, payable, func(ctx context.Context, trx storage.Transaction) error {
		err := m.gate.RequireNotPaused(trx)
		if nil != err {
			return err
		}
		return m.listing.Buy(ctx, trx, call.Caller, id, call.Value)
	})
}

// CancelListing - the seller withdraws a listing
func (m *Market) CancelListing(ctx context.Context, call Call, id uint64) error {
	return m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		err := m.gate.RequireNotPaused(trx)
		if nil != err {
			return err
		}
		return m.listing.Cancel(trx, call.Caller, id)
	})
}

// UpdateListing - the seller changes the price
func (m *Market) UpdateListing(ctx context.Context, call Call, id uint64, price uint64) error {
	return m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		err := m.gate.RequireNotPaused(trx)
		if nil != err {
			return err
		}
		return m.listing.Update(trx, call.Caller, id, price)
	})
}

// Pause - owner only
func (m *Market) Pause(ctx context.Context, call Call) error {
	return m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		return m.gate.Pause(trx, call.Caller)
	})
}

// Unpause - owner only
func (m *Market) Unpause(ctx context.Context, call Call) error {
	return m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		return m.gate.Unpause(trx, call.Caller)
	})
}

// Withdraw - owner only, pay the custodian's whole balance to the owner
func (m *Market) Withdraw(ctx context.Context, call Call) (uint64, error) {
	amount := uint64(0)
	err := m.execute(ctx, call, notPayable, func(ctx context.Context, trx storage.Transaction) error {
		err := m.gate.RequireOwner(trx, call.Caller)
		if nil != err {
			return err
		}
		amount = funds.Balance(trx, m.custodian)
		if 0 == amount {
			return fault.NothingToWithdraw
		}
		err = m.ledger.Pay(ctx, trx, m.custodian, call.Caller, amount)
		if nil != err {
			return err
		}
		m.events.Emit(trx, event.Withdrawn{
			Owner:  call.Caller,
			Amount: amount,
		})
		m.log.Infof("withdraw: %d to: %s", amount, call.Caller)
		return nil
	})
	if nil != err {
		return 0, err
	}
	return amount, nil
}

// Receive - value sent with no operation
func (m *Market) Receive(ctx context.Context, call Call) error {
	return m.execute(ctx, call, payable, func(ctx context.Context, trx storage.Transaction) error {
		m.events.Emit(trx, event.FundsReceived{
			Sender: call.Caller,
			Amount: call.Value,
		})
		return nil
	})
}

// Fallback - a call that matched no operation, the raw payload is recorded
func (m *Market) Fallback(ctx context.Context, call Call, payload []byte) error {
	return m.execute(ctx, call, payable, func(ctx context.Context, trx storage.Transaction) error {
		m.events.Emit(trx, event.FallbackInvoked{
			Sender:  call.Caller,
			Value:   call.Value,
			Payload: payload,
		})
		m.log.Warnf("fallback from: %s  value: %d  payload: %d bytes", call.Caller, call.Value, len(payload))
		return nil
	})
}
