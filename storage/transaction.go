// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/marketd/fault"
)

// Transaction - a single atomic unit of pool updates
//
// reads through a transaction see its own uncommitted writes;
// nothing reaches the database until Commit
type Transaction interface {
	Reader
	Begin() error
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Delete(*PoolHandle, []byte)
	Savepoint() int
	RollbackTo(int)
	Commit() error
	Abort()
	InUse() bool
}

// one journalled update
type operation struct {
	pool   *PoolHandle
	key    []byte
	value  []byte
	delete bool
}

// overlay entry, a nil value marks a deletion
type cached struct {
	value []byte
}

type transaction struct {
	sync.Mutex
	inUse   bool
	db      *leveldb.DB
	journal []operation
	cache   *cache.Cache
}

func newTransaction(db *leveldb.DB) *transaction {
	return &transaction{
		db:    db,
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Begin - mark the transaction as active
func (t *transaction) Begin() error {
	t.Lock()
	defer t.Unlock()

	if t.inUse {
		return fault.TransactionAlreadyInUse
	}
	t.inUse = true
	t.journal = t.journal[:0]
	t.cache.Flush()
	return nil
}

// InUse - true between Begin and Commit/Abort
func (t *transaction) InUse() bool {
	t.Lock()
	defer t.Unlock()
	return t.inUse
}

// Put - store a key/value bytes pair
func (t *transaction) Put(p *PoolHandle, key []byte, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	t.record(operation{
		pool:  p,
		key:   append([]byte{}, key...),
		value: v,
	})
}

// PutN - store a uint64 as an 8 byte big endian value
func (t *transaction) PutN(p *PoolHandle, key []byte, n uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, n)
	t.Put(p, key, buffer)
}

// Delete - remove a key
func (t *transaction) Delete(p *PoolHandle, key []byte) {
	t.record(operation{
		pool:   p,
		key:    append([]byte{}, key...),
		delete: true,
	})
}

func (t *transaction) record(op operation) {
	t.Lock()
	defer t.Unlock()

	if !t.inUse {
		logger.Panicf("transaction: %s write outside transaction", op.pool.name)
	}
	t.journal = append(t.journal, op)
	t.overlay(op)
}

// must hold lock
func (t *transaction) overlay(op operation) {
	entry := cached{}
	if !op.delete {
		entry.value = op.value
	}
	t.cache.Set(string(op.pool.prefixKey(op.key)), entry, cache.NoExpiration)
}

// Get - read the uncommitted value, falling back to the database
func (t *transaction) Get(p *PoolHandle, key []byte) []byte {
	t.Lock()
	item, found := t.cache.Get(string(p.prefixKey(key)))
	t.Unlock()

	if found {
		return item.(cached).value
	}
	return p.Get(key)
}

// GetN - uncommitted read of a uint64 value
func (t *transaction) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	return decodeN(p, key, t.Get(p, key))
}

// Has - uncommitted existence check
func (t *transaction) Has(p *PoolHandle, key []byte) bool {
	t.Lock()
	item, found := t.cache.Get(string(p.prefixKey(key)))
	t.Unlock()

	if found {
		return nil != item.(cached).value
	}
	return p.Has(key)
}

// Savepoint - a marker that RollbackTo can return to
func (t *transaction) Savepoint() int {
	t.Lock()
	defer t.Unlock()
	return len(t.journal)
}

// RollbackTo - discard every update made after the savepoint
func (t *transaction) RollbackTo(savepoint int) {
	t.Lock()
	defer t.Unlock()

	if savepoint < 0 || savepoint > len(t.journal) {
		logger.Panicf("transaction: savepoint: %d out of range: [0..%d]", savepoint, len(t.journal))
	}
	t.journal = t.journal[:savepoint]
	t.cache.Flush()
	for _, op := range t.journal {
		t.overlay(op)
	}
}

// Commit - write all updates to the database as a single batch
func (t *transaction) Commit() error {
	t.Lock()
	defer t.Unlock()

	if !t.inUse {
		return fault.TransactionNotInUse
	}

	batch := new(leveldb.Batch)
	for _, op := range t.journal {
		if op.delete {
			batch.Delete(op.pool.prefixKey(op.key))
		} else {
			batch.Put(op.pool.prefixKey(op.key), op.value)
		}
	}

	poolData.RLock()
	err := t.db.Write(batch, nil)
	poolData.RUnlock()

	t.reset()
	return err
}

// Abort - discard all updates
func (t *transaction) Abort() {
	t.Lock()
	defer t.Unlock()
	t.reset()
}

// must hold lock
func (t *transaction) reset() {
	t.inUse = false
	t.journal = nil
	t.cache.Flush()
}
