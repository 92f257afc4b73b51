// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/util"
)

func TestEnsureAbsolute(t *testing.T) {
	tests := []struct {
		directory string
		path      string
		expected  string
	}{
		{"/var/lib/marketd", "data", "/var/lib/marketd/data"},
		{"/var/lib/marketd", "log/../rpc.crt", "/var/lib/marketd/rpc.crt"},
		{"/var/lib/marketd", "/etc/marketd/rpc.key", "/etc/marketd/rpc.key"},
		{"/var/lib/marketd/", "./marketd.pid", "/var/lib/marketd/marketd.pid"},
	}

	for i, item := range tests {
		actual := util.EnsureAbsolute(item.directory, item.path)
		assert.Equal(t, item.expected, actual, "%d: wrong path", i)
	}
}

func TestEnsureFileExists(t *testing.T) {
	dir, err := ioutil.TempDir("", "marketd-util")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "owner.key")
	assert.False(t, util.EnsureFileExists(name), "file should not exist")

	err = ioutil.WriteFile(name, []byte("key"), 0600)
	assert.Nil(t, err, "write file")
	assert.True(t, util.EnsureFileExists(name), "file should exist")
}

func TestEnsureDirectory(t *testing.T) {
	dir, err := ioutil.TempDir("", "marketd-util")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	path, err := util.EnsureDirectory(dir, "data/leveldb")
	assert.Nil(t, err, "ensure directory")
	assert.Equal(t, filepath.Join(dir, "data", "leveldb"), path, "wrong path")

	info, err := os.Stat(path)
	assert.Nil(t, err, "stat")
	assert.True(t, info.IsDir(), "not a directory")
}

func TestIsPlainName(t *testing.T) {
	assert.True(t, util.IsPlainName("marketd.log"), "plain name rejected")
	assert.False(t, util.IsPlainName("log/marketd.log"), "path accepted")
	assert.False(t, util.IsPlainName("/marketd.log"), "absolute path accepted")
	assert.False(t, util.IsPlainName(""), "empty name accepted")
}
