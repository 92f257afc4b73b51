// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mint - issue new assets and track their provenance
//
// the controller is the only writer of the identifier sequence;
// identifiers start at one and are never reused, even after a burn
//
// an original carries its own duplication cap; each duplicate records
// the original it came from and inherits the original's creator as
// its royalty recipient
package mint
