// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/keypair"
)

// argon2i parameters
const (
	keyIterations  = 5
	keyMemory      = 1 << 16 // KiB
	keyParallelism = 4
	keyLength      = 32
	nonceLength    = 24
)

// check the password unlocks the identity and rebuild its key pair
func decryptIdentity(password string, identity *Identity) (*keypair.KeyPair, error) {

	salt := new(Salt)
	err := salt.UnmarshalText([]byte(identity.Salt))
	if err != nil || identity.Data == "" {
		return nil, fault.NotPrivateKey
	}

	seed, err := decryptData(identity.Data, generateKey(password, salt))
	if err != nil {
		return nil, fault.WrongPassword
	}

	return keypair.FromSeed(seed)
}

func hashPassword(password string) (*Salt, *[keyLength]byte, error) {
	salt, err := MakeSalt()
	if err != nil {
		return nil, nil, err
	}
	return salt, generateKey(password, salt), nil
}

func generateKey(password string, salt *Salt) *[keyLength]byte {
	hash := argon2.Key([]byte(password), salt.Bytes(), keyIterations, keyMemory, keyParallelism, keyLength)

	var secretKey [keyLength]byte
	copy(secretKey[:], hash)
	return &secretKey
}

// encrypt a string and convert to hex
func encryptData(data string, secretKey *[keyLength]byte) (string, error) {

	l := len(data)
	if l < 32 || l >= 16384 {
		return "", fault.CryptoFailed
	}

	// random nonce stored as the ciphertext prefix
	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fault.CryptoFailed
	}

	ciphertext := secretbox.Seal(nonce[:], []byte(data), &nonce, secretKey)
	return hex.EncodeToString(ciphertext), nil
}

// decrypt a hex string and return plaintext
func decryptData(ciphertext string, secretKey *[keyLength]byte) (string, error) {

	encrypted, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}
	if len(encrypted) <= nonceLength {
		return "", fault.CryptoFailed
	}

	var nonce [nonceLength]byte
	copy(nonce[:], encrypted[:nonceLength])

	decrypted, ok := secretbox.Open(nil, encrypted[nonceLength:], &nonce, secretKey)
	if !ok {
		return "", fault.CryptoFailed
	}

	return string(decrypted), nil
}
