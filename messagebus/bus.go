// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"
)

// internal constants
const (
	defaultQueueSize = 1000
)

// Message - a command with its parameters
type Message struct {
	Command    string
	Parameters [][]byte
}

// BroadcastQueue - every listener receives every message sent
// after it started listening
type BroadcastQueue struct {
	sync.RWMutex
	out []chan Message
}

// the exported message queues
type busses struct {
	Broadcast *BroadcastQueue
}

// Bus - all available message queues
var Bus = busses{
	Broadcast: &BroadcastQueue{},
}

// Send - queue a message to all listeners
//
// a listener whose queue is full misses the message, so a slow
// consumer cannot stall the sender
func (queue *BroadcastQueue) Send(command string, parameters ...[]byte) {
	queue.RLock()
	defer queue.RUnlock()

	for _, out := range queue.out {
		select {
		case out <- Message{
			Command:    command,
			Parameters: parameters,
		}:
		default:
		}
	}
}

// Chan - new channel to read from, size <= 0 selects the default
func (queue *BroadcastQueue) Chan(size int) <-chan Message {
	if size <= 0 {
		size = defaultQueueSize
	}
	c := make(chan Message, size)

	queue.Lock()
	queue.out = append(queue.out, c)
	queue.Unlock()

	return c
}

// Release - stop sending to a channel obtained from Chan and close it
func (queue *BroadcastQueue) Release(c <-chan Message) {
	queue.Lock()
	defer queue.Unlock()

	for i, out := range queue.out {
		if c == (<-chan Message)(out) {
			n := len(queue.out) - 1
			queue.out[i] = queue.out[n]
			queue.out[n] = nil
			queue.out = queue.out[:n]
			close(out)
			return
		}
	}
}

// Listeners - number of active listeners
func (queue *BroadcastQueue) Listeners() int {
	queue.RLock()
	defer queue.RUnlock()
	return len(queue.out)
}
