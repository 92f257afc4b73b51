// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/counter"
)

func TestCounter(t *testing.T) {
	var c counter.Counter

	assert.True(t, c.IsZero(), "not initially zero")
	assert.Equal(t, uint64(1), c.Increment(), "wrong increment")
	assert.Equal(t, uint64(2), c.Increment(), "wrong increment")
	assert.Equal(t, uint64(1), c.Decrement(), "wrong decrement")
	assert.Equal(t, uint64(1), c.Uint64(), "wrong value")
	assert.False(t, c.IsZero(), "unexpected zero")
}

func TestTryIncrement(t *testing.T) {
	var c counter.Counter

	assert.True(t, c.TryIncrement(2), "first should succeed")
	assert.True(t, c.TryIncrement(2), "second should succeed")
	assert.False(t, c.TryIncrement(2), "third should fail")
	assert.Equal(t, uint64(2), c.Uint64(), "failed attempt changed the value")

	c.Decrement()
	assert.True(t, c.TryIncrement(2), "slot not released")

	var z counter.Counter
	assert.False(t, z.TryIncrement(0), "zero limit accepted")
}

func TestTryIncrementConcurrent(t *testing.T) {
	const limit = 10

	var c counter.Counter
	var accepted counter.Counter
	var wg sync.WaitGroup

	for i := 0; i < 100; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.TryIncrement(limit) {
				accepted.Increment()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(limit), accepted.Uint64(), "wrong number accepted")
	assert.Equal(t, uint64(limit), c.Uint64(), "wrong final count")
}
