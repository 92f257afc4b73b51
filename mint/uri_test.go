// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mint_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/mint"
)

func TestValidateURI(t *testing.T) {
	long := "ipfs://" + strings.Repeat("a", mint.MaxURILength-len("ipfs://"))

	tests := []struct {
		uri string
		err error
	}{
		{"ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", nil},
		{"ar://bNbA3TEQVL60xlgCcqdz4ZPHFZ711cZ3hmkpGttDt_U", nil},
		{"https://example.com/metadata/1.json", nil},
		{long, nil},
		{long + "a", fault.InvalidURI},
		{"", fault.InvalidURI},
		{"ipfs://", fault.InvalidURI},
		{"http://example.com/1.json", fault.InvalidURI},
		{"IPFS://upper", fault.InvalidURI},
		{"ipfs://with space", fault.InvalidURI},
		{"ipfs://tab\there", fault.InvalidURI},
		{"ipfs://\xff\xfe", fault.InvalidURI},
	}

	for i, test := range tests {
		assert.Equal(t, test.err, mint.ValidateURI(test.uri), "%d: %q", i, test.uri)
	}
}
