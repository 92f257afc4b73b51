// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mint

import (
	"strings"
	"unicode/utf8"

	"github.com/bitmark-inc/marketd/fault"
)

// MaxURILength - in bytes
const MaxURILength = 512

// accepted metadata locations
var uriSchemes = []string{
	"ipfs://",
	"ar://",
	"https://",
}

// ValidateURI - shape check only, the uri is never dereferenced
func ValidateURI(uri string) error {
	if 0 == len(uri) || len(uri) > MaxURILength {
		return fault.InvalidURI
	}
	if !utf8.ValidString(uri) {
		return fault.InvalidURI
	}
	for _, scheme := range uriSchemes {
		if strings.HasPrefix(uri, scheme) && len(uri) > len(scheme) {
			return checkCharacters(uri)
		}
	}
	return fault.InvalidURI
}

// no whitespace or control characters
func checkCharacters(uri string) error {
	for _, r := range uri {
		if r <= ' ' || 0x7f == r {
			return fault.InvalidURI
		}
	}
	return nil
}
