// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/marketd/command/market-cli/configuration"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/keypair"
)

const password = "password for testing"

func run(t *testing.T, args ...string) (string, error) {
	app := newApp()
	out := &bytes.Buffer{}
	app.Writer = out
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(append([]string{"market-cli"}, args...))
	return out.String(), err
}

func TestSetupAndAdd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	_, err := run(t, "-n", "testing", "-i", "alice", "-p", password, "setup", "-c", "127.0.0.1:2130", "-k", fixtures.Alice.Seed)
	require.Nil(t, err, "setup")

	_, err = run(t, "-n", "testing", "-i", "alice", "-p", password, "setup", "-c", "127.0.0.1:2130")
	assert.NotNil(t, err, "setup overwrote configuration")

	_, err = run(t, "-n", "testing", "-i", "bob", "add", "-A", fixtures.Bob.Account.String())
	require.Nil(t, err, "add")

	out, err := run(t, "-n", "testing", "identities")
	require.Nil(t, err, "identities")

	var info configuration.Info
	require.Nil(t, json.Unmarshal([]byte(out), &info), "decode")
	assert.Equal(t, "alice", info.DefaultIdentity, "wrong default")
	assert.Equal(t, "127.0.0.1:2130", info.Connect, "wrong connect")
	require.Equal(t, 2, len(info.Identities), "wrong count")
	assert.Equal(t, fixtures.Alice.Account.String(), info.Identities[0].Account, "wrong alice")
	assert.True(t, info.Identities[0].Signing, "alice cannot sign")
	assert.Equal(t, fixtures.Bob.Account.String(), info.Identities[1].Account, "wrong bob")
	assert.False(t, info.Identities[1].Signing, "bob can sign")

	config, err := configuration.Load(filepath.Join(dir, "market-cli", "testing-market-cli.json"))
	require.Nil(t, err, "load")
	keyPair, err := config.KeyPair(password, "alice")
	require.Nil(t, err, "unlock")
	assert.Equal(t, fixtures.Alice.Account, keyPair.Account, "wrong key")
}

func TestWrongNetworkConfiguration(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := run(t, "-n", "nowhere", "identities")
	assert.NotNil(t, err, "bad network accepted")

	_, err = run(t, "-n", "local", "identities")
	assert.NotNil(t, err, "missing configuration accepted")
}

func TestGenerate(t *testing.T) {
	out, err := run(t, "-n", "live", "generate")
	require.Nil(t, err, "generate")

	var raw keypair.RawKeyPair
	require.Nil(t, json.Unmarshal([]byte(out), &raw), "decode")

	keyPair, err := keypair.FromSeed(raw.Seed)
	require.Nil(t, err, "seed")
	assert.False(t, keyPair.Account.IsTesting(), "live key is for testing")
	assert.Equal(t, raw.Account, keyPair.Account.String(), "account does not match seed")
}
