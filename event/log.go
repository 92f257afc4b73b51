// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package event

import (
	"encoding/binary"
	"reflect"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/marketd/clock"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/record"
	"github.com/bitmark-inc/marketd/storage"
)

// counter key for the last allocated sequence number
var sequenceKey = []byte("event-sequence")

const (
	headerLength = 1 + 8 // kind ++ timestamp

	// MaximumCount - largest page returned by List
	MaximumCount = 100
)

// Record - a stored event
type Record struct {
	Sequence  uint64 `json:"sequence,string"`
	Timestamp uint64 `json:"timestamp,string"`
	Kind      Kind   `json:"kind"`
	Event     Event  `json:"event"`
}

// Log - appends events inside a storage transaction
type Log struct {
	clock clock.Clock
	log   *logger.L
}

// NewLog - create an event log stamped by the given clock
func NewLog(c clock.Clock) *Log {
	return &Log{
		clock: c,
		log:   logger.New("event"),
	}
}

// Emit - append an event, it becomes visible when the transaction commits
func (l *Log) Emit(trx storage.Transaction, e Event) uint64 {
	sequence, _ := trx.GetN(storage.Pool.Counters, sequenceKey)
	sequence += 1

	packed, err := pack(l.clock.Now(), e)
	logger.PanicIfError("event.Emit", err)

	trx.Put(storage.Pool.Events, storage.Uint64Key(sequence), packed)
	trx.PutN(storage.Pool.Counters, sequenceKey, sequence)

	l.log.Debugf("emit: %d  %s: %+v", sequence, e.Kind(), e)
	return sequence
}

// Sequence - the last allocated sequence number as seen by the reader
func Sequence(r storage.Reader) uint64 {
	n, _ := r.GetN(storage.Pool.Counters, sequenceKey)
	return n
}

// List - committed records from start (inclusive), and the sequence
// to continue from
func List(start uint64, count int) ([]Record, uint64, error) {
	if count <= 0 || count > MaximumCount {
		return nil, start, fault.InvalidCount
	}

	cursor := storage.Pool.Events.NewFetchCursor().Seek(storage.Uint64Key(start))
	elements, err := cursor.Fetch(count)
	if nil != err {
		return nil, start, err
	}

	records := make([]Record, 0, len(elements))
	next := start
	for _, e := range elements {
		r, err := Unpack(e.Key, e.Value)
		if nil != err {
			return nil, start, err
		}
		records = append(records, r)
		next = r.Sequence + 1
	}
	return records, next, nil
}

func pack(timestamp uint64, e Event) ([]byte, error) {
	body, err := record.Pack(e)
	if nil != err {
		return nil, err
	}
	buffer := make([]byte, headerLength, headerLength+len(body))
	buffer[0] = byte(e.Kind())
	binary.BigEndian.PutUint64(buffer[1:headerLength], timestamp)
	return append(buffer, body...), nil
}

// Unpack - decode a stored key/value pair
func Unpack(key []byte, value []byte) (Record, error) {
	if 8 != len(key) || len(value) < headerLength {
		return Record{}, fault.InvalidEventRecord
	}

	k := Kind(value[0])
	body := newBody(k)
	if nil == body {
		return Record{}, fault.InvalidEventRecord
	}
	err := record.Unpack(value[headerLength:], body)
	if nil != err {
		return Record{}, err
	}

	return Record{
		Sequence:  storage.Uint64FromKey(key),
		Timestamp: binary.BigEndian.Uint64(value[1:headerLength]),
		Kind:      k,
		Event:     reflect.ValueOf(body).Elem().Interface().(Event),
	}, nil
}
