// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/clock"
)

func TestSystemIsMonotonic(t *testing.T) {
	c := clock.NewSystem()

	previous := c.Now()
	for i := 0; i < 1000; i += 1 {
		now := c.Now()
		if now < previous {
			t.Fatalf("%d: time went backwards: %d < %d", i, now, previous)
		}
		previous = now
	}
	assert.InDelta(t, time.Now().Unix(), int64(previous), 2, "system clock is not near host time")
}

func TestManual(t *testing.T) {
	c := clock.NewManual(1000)
	assert.Equal(t, uint64(1000), c.Now(), "wrong start")

	c.Advance(24 * time.Hour)
	assert.Equal(t, uint64(1000+86400), c.Now(), "wrong time after advance")
}
