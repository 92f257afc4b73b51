// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signed - caller authentication for RPC requests
//
// every state changing request carries an Envelope naming the caller
// and the value sent; the caller signs
//
//	method ++ "\n" ++ JSON(request without signature)
//
// with its ed25519 key.  A request is accepted once, within Window
// seconds of the server clock.  Seen signatures are only held in
// memory, so requests stamped before the verifier was created are
// refused: a restart cannot reopen a window for replay.
package signed

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/clock"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/keypair"
	"github.com/bitmark-inc/marketd/market"
)

// Window - allowed difference in seconds between request and server time
const Window = 300

// Envelope - authentication fields embedded in each request
type Envelope struct {
	Caller    account.Account   `json:"caller"`
	Value     uint64            `json:"value,string"`
	Timestamp uint64            `json:"timestamp,string"`
	Signature account.Signature `json:"signature,omitempty"`
}

// Request - any argument structure embedding an Envelope
type Request interface {
	SignedEnvelope() *Envelope
}

// SignedEnvelope - access to the embedded envelope
func (e *Envelope) SignedEnvelope() *Envelope {
	return e
}

// Message - the bytes covered by the signature
func Message(method string, request Request) ([]byte, error) {
	e := request.SignedEnvelope()
	signature := e.Signature
	e.Signature = nil
	data, err := json.Marshal(request)
	e.Signature = signature
	if nil != err {
		return nil, err
	}
	return append([]byte(method+"\n"), data...), nil
}

// Sign - fill in the envelope for a key pair and sign the request
func Sign(method string, request Request, keyPair *keypair.KeyPair, value uint64, now uint64) error {
	e := request.SignedEnvelope()
	e.Caller = keyPair.Account
	e.Value = value
	e.Timestamp = now

	message, err := Message(method, request)
	if nil != err {
		return err
	}
	e.Signature = keyPair.Sign(message)
	return nil
}

// Verifier - checks envelopes against one chain and clock
type Verifier struct {
	clock   clock.Clock
	testing bool
	started uint64
	seen    *cache.Cache
}

// NewVerifier - verifier for identities of a test or live chain
func NewVerifier(c clock.Clock, testing bool) *Verifier {
	expiry := 2 * Window * time.Second
	return &Verifier{
		clock:   c,
		testing: testing,
		started: c.Now(),
		seen:    cache.New(expiry, expiry),
	}
}

// Verify - authenticate a request, returning the call it represents
func (v *Verifier) Verify(method string, request Request) (market.Call, error) {
	e := request.SignedEnvelope()

	if e.Caller.IsNull() || e.Caller.IsContract() {
		return market.Call{}, fault.InvalidCaller
	}
	if e.Caller.IsTesting() != v.testing {
		return market.Call{}, fault.WrongNetworkForCaller
	}

	now := v.clock.Now()
	if e.Timestamp+Window < now || e.Timestamp > now+Window {
		return market.Call{}, fault.RequestExpired
	}
	if e.Timestamp < v.started {
		return market.Call{}, fault.RequestExpired
	}

	message, err := Message(method, request)
	if nil != err {
		return market.Call{}, err
	}
	err = e.Caller.CheckSignature(message, e.Signature)
	if nil != err {
		return market.Call{}, err
	}

	if nil != v.seen.Add(hex.EncodeToString(e.Signature), struct{}{}, cache.DefaultExpiration) {
		return market.Call{}, fault.RequestReplayed
	}

	return market.Call{
		Caller: e.Caller,
		Value:  e.Value,
	}, nil
}
