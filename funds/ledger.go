// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package funds

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

// Receiver - hook run after an identity has been credited
//
// ctx is the context of the paying call and must be passed on to
// any market call made from the hook; a market call made with any
// other context fails with a reentrancy error; returning an error
// fails the payment and so the whole paying call
type Receiver func(ctx context.Context, from account.Account, amount uint64) error

// Ledger - balances plus the registered receiver hooks
type Ledger struct {
	sync.RWMutex
	receivers map[account.Account]Receiver
	running   int64
	log       *logger.L
}

// New - create an empty ledger
func New() *Ledger {
	return &Ledger{
		receivers: make(map[account.Account]Receiver),
		log:       logger.New("funds"),
	}
}

// Register - install the hook for an identity, replacing any previous one
func (l *Ledger) Register(acct account.Account, r Receiver) {
	l.Lock()
	l.receivers[acct] = r
	l.Unlock()
}

// Unregister - remove an identity's hook
func (l *Ledger) Unregister(acct account.Account) {
	l.Lock()
	delete(l.receivers, acct)
	l.Unlock()
}

// InReceiver - true while any receiver hook is running
func (l *Ledger) InReceiver() bool {
	return 0 != atomic.LoadInt64(&l.running)
}

// Balance - current balance of an identity
func Balance(r storage.Reader, acct account.Account) uint64 {
	n, _ := r.GetN(storage.Pool.Funds, acct.Bytes())
	return n
}

// Deposit - create value for an identity, used for funding on test chains
func (l *Ledger) Deposit(trx storage.Transaction, to account.Account, amount uint64) error {
	if to.IsNull() {
		return fault.ZeroTarget
	}
	return credit(trx, to, amount)
}

// Pay - move value between identities
//
// either the whole amount moves and the receiver's hook succeeds,
// or an error is returned and the caller must discard the transaction
// back to a point before the call; a zero amount is a no-op
func (l *Ledger) Pay(ctx context.Context, trx storage.Transaction, from account.Account, to account.Account, amount uint64) error {
	if to.IsNull() {
		return fault.ZeroTarget
	}
	if 0 == amount {
		return nil
	}

	balance := Balance(trx, from)
	if balance < amount {
		return fault.InsufficientFunds
	}
	trx.PutN(storage.Pool.Funds, from.Bytes(), balance-amount)

	err := credit(trx, to, amount)
	if nil != err {
		return err
	}

	l.log.Debugf("pay: %s -> %s  amount: %d", from, to, amount)

	l.RLock()
	receiver := l.receivers[to]
	l.RUnlock()

	if nil == receiver {
		return nil
	}

	atomic.AddInt64(&l.running, 1)
	defer atomic.AddInt64(&l.running, -1)

	return receiver(ctx, from, amount)
}

func credit(trx storage.Transaction, to account.Account, amount uint64) error {
	balance := Balance(trx, to)
	if balance+amount < balance {
		return fault.BalanceOverflow
	}
	trx.PutN(storage.Pool.Funds, to.Bytes(), balance+amount)
	return nil
}
