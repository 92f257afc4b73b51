// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package funds - the value-transfer primitive
//
// balances are held in the Funds pool, one count per identity; a
// payment is a debit and a credit in the caller's transaction
// followed by the receiver's hook, which may call back into the
// market before the payment returns
package funds
