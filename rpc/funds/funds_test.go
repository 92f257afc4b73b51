// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package funds_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/clock"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/rpc/funds"
	"github.com/bitmark-inc/marketd/rpc/mocks"
	"github.com/bitmark-inc/marketd/rpc/signed"
)

const now = 1600000000

func setup(t *testing.T, isTesting bool) (*funds.Funds, *mocks.MockService, *gomock.Controller) {
	fixtures.SetupTestLogger()

	ctl := gomock.NewController(t)
	m := mocks.NewMockService(ctl)
	f := funds.New(
		logger.New(fixtures.LogCategory),
		m,
		signed.NewVerifier(clock.NewManual(now), true),
		isTesting,
	)
	return f, m, ctl
}

func teardown(ctl *gomock.Controller) {
	ctl.Finish()
	fixtures.TeardownTestLogger()
}

func TestBalance(t *testing.T) {
	f, m, ctl := setup(t, true)
	defer teardown(ctl)

	m.EXPECT().Funds(fixtures.Alice.Account).Return(uint64(55)).Times(1)

	var reply funds.BalanceReply
	err := f.Balance(&funds.BalanceArguments{Owner: fixtures.Alice.Account}, &reply)
	assert.Nil(t, err, "wrong Balance")
	assert.Equal(t, fixtures.Alice.Account, reply.Owner, "wrong owner")
	assert.Equal(t, uint64(55), reply.Balance, "wrong balance")
}

func TestBalanceWithoutOwner(t *testing.T) {
	f, _, ctl := setup(t, true)
	defer teardown(ctl)

	var reply funds.BalanceReply
	err := f.Balance(&funds.BalanceArguments{}, &reply)
	assert.Equal(t, fault.MissingParameters, err, "wrong error")
}

func TestDeposit(t *testing.T) {
	f, m, ctl := setup(t, true)
	defer teardown(ctl)

	arg := funds.DepositArguments{Amount: 1000}
	_ = signed.Sign("Funds.Deposit", &arg, fixtures.Bob, 0, now)

	gomock.InOrder(
		m.EXPECT().Deposit(fixtures.Bob.Account, uint64(1000)).Return(nil),
		m.EXPECT().Funds(fixtures.Bob.Account).Return(uint64(1500)),
	)

	var reply funds.BalanceReply
	err := f.Deposit(&arg, &reply)
	assert.Nil(t, err, "wrong Deposit")
	assert.Equal(t, uint64(1500), reply.Balance, "wrong balance")
}

func TestDepositOnLiveChain(t *testing.T) {
	f, _, ctl := setup(t, false)
	defer teardown(ctl)

	arg := funds.DepositArguments{Amount: 1000}
	_ = signed.Sign("Funds.Deposit", &arg, fixtures.Bob, 0, now)

	var reply funds.BalanceReply
	err := f.Deposit(&arg, &reply)
	assert.Equal(t, fault.FundingNotAllowed, err, "wrong error")
}

func TestDepositWithInvalidAmount(t *testing.T) {
	f, _, ctl := setup(t, true)
	defer teardown(ctl)

	arg := funds.DepositArguments{Amount: funds.MaximumDeposit + 1}
	_ = signed.Sign("Funds.Deposit", &arg, fixtures.Bob, 0, now)

	var reply funds.BalanceReply
	err := f.Deposit(&arg, &reply)
	assert.Equal(t, fault.InvalidAmount, err, "wrong error")
}

func TestDepositWithValue(t *testing.T) {
	f, _, ctl := setup(t, true)
	defer teardown(ctl)

	arg := funds.DepositArguments{Amount: 10}
	_ = signed.Sign("Funds.Deposit", &arg, fixtures.Bob, 5, now)

	var reply funds.BalanceReply
	err := f.Deposit(&arg, &reply)
	assert.Equal(t, fault.NotPayable, err, "wrong error")
}
