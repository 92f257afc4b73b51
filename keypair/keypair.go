// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keypair

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
)

// seed header and sizes
var seedHeader = []byte{0x5a, 0xfe, 0x02}

const (
	seedCoreLength     = ed25519.SeedSize
	seedChecksumLength = 4
)

// KeyPair - an identity together with its signing key
type KeyPair struct {
	Seed       string
	Account    account.Account
	PrivateKey ed25519.PrivateKey
}

// RawKeyPair - text version of seed and keys
type RawKeyPair struct {
	Seed       string `json:"seed"`
	Account    string `json:"account"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// NewSeed - create a new seed from secure random data
func NewSeed(test bool) (string, error) {
	seedCore := make([]byte, seedCoreLength)
	n, err := rand.Read(seedCore)
	if nil != err {
		return "", err
	}
	if seedCoreLength != n {
		panic("too few random bytes")
	}
	net := 0x00
	if test {
		net = 0x01
	}
	packedSeed := append(append([]byte{}, seedHeader...), byte(net))
	packedSeed = append(packedSeed, seedCore...)
	checksum := sha3.Sum256(packedSeed)
	packedSeed = append(packedSeed, checksum[:seedChecksumLength]...)

	return base58.Encode(packedSeed), nil
}

// New - create new seed and generate keys from it
func New(test bool) (*KeyPair, error) {
	seed, err := NewSeed(test)
	if nil != err {
		return nil, err
	}
	return FromSeed(seed)
}

// FromSeed - regenerate keys from an existing seed
func FromSeed(seed string) (*KeyPair, error) {
	packedSeed, err := base58.Decode(seed)
	if nil != err {
		return nil, fault.CannotDecodeAccount
	}
	headerLength := len(seedHeader) + 1
	if len(packedSeed) != headerLength+seedCoreLength+seedChecksumLength {
		return nil, fault.InvalidKeyLength
	}
	if !bytes.Equal(seedHeader, packedSeed[:len(seedHeader)]) {
		return nil, fault.InvalidKeyType
	}

	checksumStart := len(packedSeed) - seedChecksumLength
	checksum := sha3.Sum256(packedSeed[:checksumStart])
	if !bytes.Equal(checksum[:seedChecksumLength], packedSeed[checksumStart:]) {
		return nil, fault.ChecksumMismatch
	}

	test := 0x01 == packedSeed[len(seedHeader)]
	privateKey := ed25519.NewKeyFromSeed(packedSeed[headerLength:checksumStart])
	acc, err := account.New(privateKey.Public().(ed25519.PublicKey), test)
	if nil != err {
		return nil, err
	}

	return &KeyPair{
		Seed:       seed,
		Account:    acc,
		PrivateKey: privateKey,
	}, nil
}

// Sign - sign a message with the private key
func (keyPair *KeyPair) Sign(message []byte) account.Signature {
	return ed25519.Sign(keyPair.PrivateKey, message)
}

// Raw - text form for saving to a file
func (keyPair *KeyPair) Raw() *RawKeyPair {
	return &RawKeyPair{
		Seed:       keyPair.Seed,
		Account:    keyPair.Account.String(),
		PublicKey:  hex.EncodeToString(keyPair.Account.PublicKey[:]),
		PrivateKey: hex.EncodeToString(keyPair.PrivateKey),
	}
}
