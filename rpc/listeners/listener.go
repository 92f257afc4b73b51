// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"net"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
)

const minConnectionCount = 1

// Listener - a set of network servers
type Listener interface {
	// Serve - bind every address then accept in the background
	Serve() error
	// Addresses - bound addresses, valid after Serve
	Addresses() []net.Addr
	// Close - stop accepting
	Close() error
}

// convert listen strings to network and address pairs
//
//	"*:PORT"      tcp   "[::]:PORT"  (tcp4 and tcp6)
//	"[IPv6]:PORT" tcp6
//	"IPv4:PORT"   tcp4
func parseListenAddress(addrs []string, log *logger.L) ([]string, []string, error) {
	networks := make([]string, len(addrs))
	addresses := make([]string, len(addrs))

	for i, listen := range addrs {
		host, port, err := net.SplitHostPort(listen)
		if nil != err {
			log.Errorf("listen: %q  error: %s", listen, err)
			return nil, nil, fault.InvalidIpAddress
		}

		switch {
		case "*" == host:
			networks[i] = "tcp"
			addresses[i] = net.JoinHostPort("::", port)
			continue
		case strings.Contains(host, ":"):
			networks[i] = "tcp6"
		default:
			networks[i] = "tcp4"
		}

		if ip := net.ParseIP(host); nil == ip {
			log.Errorf("listen: %q  error: %s", listen, fault.InvalidIpAddress)
			return nil, nil, fault.InvalidIpAddress
		}
		addresses[i] = listen
	}

	return networks, addresses, nil
}
