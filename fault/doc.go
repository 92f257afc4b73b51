// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// every error is a single typed value so callers compare with == and
// classify with the IsErrXxx predicates.  Market operations fail with
// AuthorizationError, StateError, ValidationError or ReentrancyError;
// the remaining classes report configuration and infrastructure
// problems.
package fault
