// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record - the single cbor encoding used for every stored
// structure, so that the same value always packs to the same bytes
package record

import (
	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// core deterministic encoding, RFC 8949 section 4.2.1
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if nil != err {
		panic(err)
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if nil != err {
		panic(err)
	}
}

// Pack - encode a value
func Pack(v interface{}) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unpack - decode a value produced by Pack
func Unpack(data []byte, v interface{}) error {
	return decMode.Unmarshal(data, v)
}
