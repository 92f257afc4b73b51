// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - this is to setup and handle all of the incoming JSON RPC requests
// from clients requiring market services
//
// standard golang JSON RPC clients can be used to access these
// services, either on the TLS socket or by POST to the HTTPS bridge;
// state changing requests must carry a signed envelope
package rpc
