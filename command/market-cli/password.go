// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/exec"
	"strings"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/bitmark-inc/marketd/fault"
)

const (
	passwordTag           = "market-cli:password:"
	minimumPasswordLength = 8
)

// read a password from the controlling terminal
func readPassword(prompt string) (string, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if nil != err {
		return "", err
	}
	defer tty.Close()

	state, err := terminal.MakeRaw(int(tty.Fd()))
	if nil != err {
		return "", err
	}
	defer terminal.Restore(int(tty.Fd()), state)

	console := terminal.NewTerminal(tty, "")
	return console.ReadPassword(prompt)
}

// ask twice for a new password
func promptNewPassword() (string, error) {
	password, err := readPassword("Set identity password(length >= 8): ")
	if nil != err {
		return "", err
	}
	if len(password) < minimumPasswordLength {
		return "", fault.InvalidPasswordLength
	}

	verifyPassword, err := readPassword("Verify password: ")
	if nil != err {
		return "", err
	}
	if password != verifyPassword {
		return "", fault.PasswordMismatch
	}

	return password, nil
}

// expect to execute agent with parameters
//
//	--confirm=1         - for additional confirm
//	cache-id            - alows password to be cached for a time
//	error-message       - blank
//	prompt              - names the identity
//	description         - shows the operation
func passwordFromAgent(name string, title string, agent string, clear bool) (string, error) {

	cacheId := passwordTag + name
	errorMessage := ""
	prompt := "Password for: " + name
	description := "Enter password to: " + title

	arguments := []string{}
	if clear {
		arguments = append(arguments, "--clear")
	}
	arguments = append(arguments,
		"--confirm=1",
		cacheId,
		errorMessage,
		prompt,
		description,
	)

	out, err := exec.Command(agent, arguments...).Output()
	if nil != err {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
