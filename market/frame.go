// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"context"
	"encoding/json"

	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/messagebus"
	"github.com/bitmark-inc/marketd/storage"
)

// MaximumCallDepth - nesting limit for calls made from receiver hooks
const MaximumCallDepth = 16

type frameKey struct{}

// one level of a call stack
type frame struct {
	market *Market
	trx    storage.Transaction
	depth  int
}

// operation body run inside a frame
type operation func(ctx context.Context, trx storage.Transaction) error

// the frame of the call that ctx belongs to, if it is this market's
func (m *Market) currentFrame(ctx context.Context) *frame {
	if nil == ctx {
		return nil
	}
	f, ok := ctx.Value(frameKey{}).(*frame)
	if !ok || f.market != m {
		return nil
	}
	return f
}

// execute - run a mutating operation for a caller
func (m *Market) execute(ctx context.Context, call Call, payable bool, op operation) error {
	if nil == ctx {
		ctx = context.Background()
	}
	err := m.checkCaller(call.Caller)
	if nil != err {
		return err
	}
	if !payable && 0 != call.Value {
		return fault.NotPayable
	}

	body := func(f *frame) error {
		frameCtx := context.WithValue(ctx, frameKey{}, f)
		if 0 != call.Value {
			err := m.ledger.Pay(frameCtx, f.trx, call.Caller, m.custodian, call.Value)
			if nil != err {
				return err
			}
		}
		return op(frameCtx, f.trx)
	}

	outer := m.currentFrame(ctx)
	if nil == outer {
		return m.topLevel(body)
	}
	return m.nested(outer, body)
}

// a new transaction, committed only on success
//
// while a receiver hook runs the lock is held by the paying call, so
// a call that did not come through the hook's context cannot wait
// for it
func (m *Market) topLevel(body func(*frame) error) error {
	if !m.TryLock() {
		if m.ledger.InReceiver() {
			m.log.Warn("call without frame from receiver hook")
			return fault.ReentrantCall
		}
		m.Lock()
	}
	defer m.Unlock()

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return err
	}

	before := event.Sequence(storage.Committed())

	err = body(&frame{
		market: m,
		trx:    trx,
	})
	if nil != err {
		trx.Abort()
		m.log.Debugf("call aborted: %s", err)
		return err
	}

	err = trx.Commit()
	if nil != err {
		m.log.Errorf("commit error: %s", err)
		return err
	}

	m.broadcast(before + 1)
	return nil
}

// join the outer transaction, undo only this call on failure
func (m *Market) nested(outer *frame, body func(*frame) error) error {
	if outer.depth+1 >= MaximumCallDepth {
		return fault.CallDepthExceeded
	}

	savepoint := outer.trx.Savepoint()
	err := body(&frame{
		market: m,
		trx:    outer.trx,
		depth:  outer.depth + 1,
	})
	if nil != err {
		outer.trx.RollbackTo(savepoint)
		m.log.Debugf("nested call at depth: %d rolled back: %s", outer.depth+1, err)
	}
	return err
}

// send newly committed events to listeners, must hold lock
func (m *Market) broadcast(start uint64) {
	for {
		records, next, err := event.List(start, event.MaximumCount)
		if nil != err {
			m.log.Errorf("broadcast from: %d  error: %s", start, err)
			return
		}
		if 0 == len(records) {
			return
		}
		for _, r := range records {
			data, err := json.Marshal(r)
			if nil != err {
				m.log.Errorf("broadcast: %d  marshal error: %s", r.Sequence, err)
				continue
			}
			messagebus.Bus.Broadcast.Send(r.Kind.String(), storage.Uint64Key(r.Sequence), data)
		}
		start = next
	}
}
