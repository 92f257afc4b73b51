// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package clock - logical time for the market
//
// values are UTC unix seconds and never decrease, even if the host
// clock is stepped backwards
package clock
