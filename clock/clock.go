// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package clock

import (
	"sync"
	"time"
)

// Clock - source of timestamps
type Clock interface {
	Now() uint64
}

// System - host clock clamped to be non-decreasing
type System struct {
	sync.Mutex
	last uint64
}

// NewSystem - create a system clock
func NewSystem() *System {
	return &System{}
}

// Now - current time in seconds
func (c *System) Now() uint64 {
	now := uint64(time.Now().UTC().Unix())

	c.Lock()
	defer c.Unlock()

	if now < c.last {
		now = c.last
	}
	c.last = now
	return now
}

// Manual - clock that only moves when told to
type Manual struct {
	sync.Mutex
	now uint64
}

// NewManual - create a manual clock starting at the given time
func NewManual(start uint64) *Manual {
	return &Manual{
		now: start,
	}
}

// Now - current time in seconds
func (c *Manual) Now() uint64 {
	c.Lock()
	defer c.Unlock()
	return c.now
}

// Advance - move time forward
func (c *Manual) Advance(d time.Duration) {
	c.Lock()
	c.now += uint64(d / time.Second)
	c.Unlock()
}
