// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/background"
	"github.com/bitmark-inc/marketd/chain"
	"github.com/bitmark-inc/marketd/fixtures"
)

func TestConfigWatcherReloads(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	dir := t.TempDir()
	owner := fixtures.Owner.Account.String()
	fileName := writeConfiguration(t, dir, chain.Testing, owner, "127.0.0.0/8")

	reloaded := make(chan []string, 10)
	w, err := newConfigWatcher(logger.New(fixtures.LogCategory), fileName, nil, func(conf *Configuration) error {
		reloaded <- conf.HttpsRPC.Allow["details"]
		return nil
	})
	require.Nil(t, err, "watcher")

	bg := background.Start(background.Processes{w}, nil)
	defer bg.Stop()

	// unrelated files in the directory are ignored
	require.Nil(t, os.WriteFile(fileName+".bak", []byte("junk"), 0600), "write other file")

	script := fmt.Sprintf(configTemplate, chain.Testing, owner, "10.0.0.0/8")
	require.Nil(t, os.WriteFile(fileName, []byte(script), 0600), "rewrite configuration")

	select {
	case allow := <-reloaded:
		assert.Equal(t, []string{"10.0.0.0/8"}, allow, "wrong allow list")
	case <-time.After(5 * time.Second):
		t.Fatal("configuration not reloaded")
	}
}

func TestConfigWatcherSkipsBadConfiguration(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	dir := t.TempDir()
	fileName := writeConfiguration(t, dir, chain.Testing, fixtures.Owner.Account.String(), "127.0.0.0/8")

	reloaded := make(chan struct{}, 10)
	w, err := newConfigWatcher(logger.New(fixtures.LogCategory), fileName, nil, func(*Configuration) error {
		reloaded <- struct{}{}
		return nil
	})
	require.Nil(t, err, "watcher")

	bg := background.Start(background.Processes{w}, nil)
	defer bg.Stop()

	require.Nil(t, os.WriteFile(fileName, []byte("return 42"), 0600), "rewrite configuration")

	select {
	case <-reloaded:
		t.Fatal("bad configuration applied")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestConfigWatcherMissingDirectory(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	_, err := newConfigWatcher(logger.New(fixtures.LogCategory), "/no/such/directory/marketd.conf", nil, nil)
	assert.NotNil(t, err, "missing directory accepted")
}
