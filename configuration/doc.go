// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// most of base Lua is available such as reading files to set key data
// and getenv to extract environment supplied items.  The file must
// return a single table; its fields are mapped onto the caller's
// structure using the "gluamapper" tags.
//
// variables passed by the caller appear as global strings, so a
// command line option can be referenced from the file:
//
//	local data_directory = arg[0]:match("(.*/)") or "."
//	return {
//	    data_directory = data_directory,
//	    chain = chain or "testing",
//	}
package configuration
