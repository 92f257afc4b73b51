// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/bitmark-inc/certgen"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/keypair"
	"github.com/bitmark-inc/marketd/util"
)

// create a self-signed certificate
func makeSelfSignedCertificate(name string, certificateFileName string, privateKeyFileName string, override bool, extraHosts []string) error {

	if util.EnsureFileExists(certificateFileName) {
		return fault.CertificateFileExists
	}

	if util.EnsureFileExists(privateKeyFileName) {
		return fault.KeyFileExists
	}

	org := "marketd self signed cert for: " + name
	validUntil := time.Now().Add(10 * 365 * 24 * time.Hour)
	cert, key, err := certgen.NewTLSCertPair(org, validUntil, override, extraHosts)
	if err != nil {
		return err
	}

	if err = os.WriteFile(certificateFileName, cert, 0666); err != nil {
		return err
	}

	if err = os.WriteFile(privateKeyFileName, key, 0600); err != nil {
		_ = os.Remove(certificateFileName)
		return err
	}

	return nil
}

// create the market owner's key pair, the account is returned for
// the configuration file
func makeOwnerKey(testnet bool, fileName string) (string, error) {

	if util.EnsureFileExists(fileName) {
		return "", fault.KeyFileExists
	}

	keyPair, err := keypair.New(testnet)
	if nil != err {
		return "", err
	}

	data, err := json.MarshalIndent(keyPair.Raw(), "", "  ")
	if nil != err {
		return "", err
	}

	if err = os.WriteFile(fileName, append(data, '\n'), 0600); nil != err {
		return "", err
	}

	return keyPair.Account.String(), nil
}
