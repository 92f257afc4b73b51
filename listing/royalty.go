// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing

import (
	"math/bits"
)

// MaximumRoyaltyPercentage - royalty can take the whole price but no more
const MaximumRoyaltyPercentage = 100

// Royalty - floor(price × percentage / 100) using a 128 bit product
//
// percentage must not exceed MaximumRoyaltyPercentage, so the high
// word of the product is below the divisor
func Royalty(price uint64, percentage uint64) uint64 {
	hi, lo := bits.Mul64(price, percentage)
	quo, _ := bits.Div64(hi, lo, 100)
	return quo
}

// Split - royalty and seller amounts, always summing to price
func Split(price uint64, percentage uint64) (royalty uint64, seller uint64) {
	royalty = Royalty(price, percentage)
	return royalty, price - royalty
}
