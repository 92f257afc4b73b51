// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/messagebus"
	"github.com/bitmark-inc/marketd/rpc/metrics"
	"github.com/bitmark-inc/marketd/storage"
)

const eventQueueSize = 1000

// eventCounter - committed event consumer
//
// counts each broadcast event by kind and logs it
type eventCounter struct {
	log     *logger.L
	metrics *metrics.Metrics
	queue   <-chan messagebus.Message
}

// subscribe before any market call so no committed event is missed
func newEventCounter(log *logger.L, m *metrics.Metrics) *eventCounter {
	return &eventCounter{
		log:     log,
		metrics: m,
		queue:   messagebus.Bus.Broadcast.Chan(eventQueueSize),
	}
}

func (c *eventCounter) Run(args interface{}, shutdown <-chan struct{}) {
	log := c.log
	defer messagebus.Bus.Broadcast.Release(c.queue)

	log.Info("starting…")
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item, ok := <-c.queue:
			if !ok {
				break loop
			}
			c.process(item)
		}
	}
	log.Info("stopped")
}

// parameters: sequence key, JSON record
func (c *eventCounter) process(item messagebus.Message) {
	c.metrics.Event(item.Command)

	if len(item.Parameters) < 2 {
		c.log.Warnf("event: %s  missing parameters: %d", item.Command, len(item.Parameters))
		return
	}

	sequence := storage.Uint64FromKey(item.Parameters[0])
	c.log.Infof("event: %d  %s  %s", sequence, item.Command, item.Parameters[1])
}
