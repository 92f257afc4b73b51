// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bitmark-inc/marketd/fault"
)

// amounts on the command line are whole units with up to this many
// decimal places, the market counts the smallest fraction
const amountDecimals = 8

var maximumAmount = decimal.NewFromInt(math.MaxInt64).Shift(-amountDecimals)

// convert "1.25" to 125000000
func parseAmount(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if "" == s {
		return 0, fault.InvalidPrice
	}

	d, err := decimal.NewFromString(s)
	if nil != err {
		return 0, fault.InvalidPrice
	}
	if d.Sign() <= 0 || d.GreaterThan(maximumAmount) {
		return 0, fault.InvalidPrice
	}

	units := d.Shift(amountDecimals)
	if !units.IsInteger() {
		return 0, fault.InvalidPrice
	}
	return uint64(units.IntPart()), nil
}

// convert 125000000 to "1.25000000"
func formatAmount(units uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -amountDecimals).StringFixed(amountDecimals)
}

// amount - both forms for JSON output
type amount struct {
	Units uint64 `json:"units,string"`
	Value string `json:"value"`
}

func newAmount(units uint64) amount {
	return amount{
		Units: units,
		Value: formatAmount(units),
	}
}
