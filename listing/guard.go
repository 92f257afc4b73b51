// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing

import (
	"sync"

	"github.com/bitmark-inc/marketd/fault"
)

// Guard - non-reentrant section
//
// usage:
//
//	release, err := guard.Acquire()
//	if nil != err {
//		return err
//	}
//	defer release()
type Guard struct {
	sync.Mutex
	entered bool
}

// Acquire - enter the section, fails if it is already entered
func (g *Guard) Acquire() (func(), error) {
	g.Lock()
	defer g.Unlock()

	if g.entered {
		return nil, fault.ReentrantCall
	}
	g.entered = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.Lock()
			g.entered = false
			g.Unlock()
		})
	}
	return release, nil
}

// Entered - whether the section is currently held
func (g *Guard) Entered() bool {
	g.Lock()
	defer g.Unlock()
	return g.entered
}
