// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/marketd/fault"
)

// enumeration of supported key algorithms
const (
	// list of valid algorithms
	Null     = iota // the null identity, never owns anything
	ED25519  = iota
	Contract = iota // identity of a contract, cannot sign
	// end of list (one greater than last item)
	algorithmLimit = iota
)

// miscellaneous constants
const (
	checksumLength = 4

	// bits in key code starting from LSB
	publicKeyCode = 0x01
	testKeyCode   = 0x02

	algorithmShift = 4 // shift 4 bits to get algorithm

	// KeySize - bytes in the key part of an identity
	KeySize = ed25519.PublicKeySize
)

// Account - an identity
//
// comparable, so it can be used directly as a map key; the zero
// value is the null identity
type Account struct {
	Algorithm int
	Test      bool
	PublicKey [KeySize]byte
}

// NullAccount - the null identity
var NullAccount = Account{}

// New - identity from an ed25519 public key
func New(publicKey ed25519.PublicKey, test bool) (Account, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return NullAccount, fault.InvalidKeyLength
	}
	a := Account{
		Algorithm: ED25519,
		Test:      test,
	}
	copy(a.PublicKey[:], publicKey)
	return a, nil
}

// NewContract - deterministic identity for a named contract
func NewContract(name string, test bool) Account {
	return Account{
		Algorithm: Contract,
		Test:      test,
		PublicKey: sha3.Sum256([]byte(name)),
	}
}

// FromBase58 - convert a Base58 encoded string to an account
func FromBase58(accountBase58Encoded string) (Account, error) {
	if "" == accountBase58Encoded {
		return NullAccount, nil
	}

	accountDecoded, err := base58.Decode(accountBase58Encoded)
	if nil != err || 0 == len(accountDecoded) {
		return NullAccount, fault.CannotDecodeAccount
	}
	if len(accountDecoded) <= checksumLength {
		return NullAccount, fault.NotPublicKey
	}

	checksumStart := len(accountDecoded) - checksumLength
	a, err := fromBytes(accountDecoded[:checksumStart])
	if nil != err {
		return NullAccount, err
	}

	checksum := sha3.Sum256(accountDecoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], accountDecoded[checksumStart:]) {
		return NullAccount, fault.ChecksumMismatch
	}
	return a, nil
}

// FromBytes - convert the packed byte form back to an account
func FromBytes(accountBytes []byte) (Account, error) {
	if 1 == len(accountBytes) && 0 == accountBytes[0] {
		return NullAccount, nil
	}
	return fromBytes(accountBytes)
}

func fromBytes(buffer []byte) (Account, error) {

	if 0 == len(buffer) {
		return NullAccount, fault.NotPublicKey
	}

	// check key type
	keyVariant := buffer[0]
	if keyVariant&publicKeyCode != publicKeyCode {
		return NullAccount, fault.NotPublicKey
	}

	// compute algorithm
	keyAlgorithm := int(keyVariant >> algorithmShift)
	if keyAlgorithm <= Null || keyAlgorithm >= algorithmLimit {
		return NullAccount, fault.InvalidKeyType
	}

	if len(buffer)-1 != KeySize {
		return NullAccount, fault.InvalidKeyLength
	}

	a := Account{
		Algorithm: keyAlgorithm,
		Test:      0 != keyVariant&testKeyCode,
	}
	copy(a.PublicKey[:], buffer[1:])
	return a, nil
}

// IsNull - true for the null identity
func (account Account) IsNull() bool {
	return Null == account.Algorithm
}

// IsContract - true for contract identities
func (account Account) IsContract() bool {
	return Contract == account.Algorithm
}

// IsTesting - whether the identity belongs to a test chain
func (account Account) IsTesting() bool {
	return account.Test
}

// Bytes - packed form: key variant followed by the key
func (account Account) Bytes() []byte {
	if account.IsNull() {
		return []byte{0}
	}
	keyVariant := byte(account.Algorithm<<algorithmShift) | publicKeyCode
	if account.Test {
		keyVariant |= testKeyCode
	}
	return append([]byte{keyVariant}, account.PublicKey[:]...)
}

// String - base58 encoding of packed key with checksum
func (account Account) String() string {
	if account.IsNull() {
		return ""
	}
	buffer := account.Bytes()
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return base58.Encode(buffer)
}

// CheckSignature - verify a signature made by this identity
func (account Account) CheckSignature(message []byte, signature Signature) error {
	if ED25519 != account.Algorithm {
		return fault.SignatureFromContract
	}
	if ed25519.SignatureSize != len(signature) {
		return fault.InvalidSignature
	}
	if !ed25519.Verify(account.PublicKey[:], message, signature) {
		return fault.InvalidSignature
	}
	return nil
}

// MarshalText - convert an account to its Base58 JSON form
func (account Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// UnmarshalText - convert Base58 text to an account
func (account *Account) UnmarshalText(s []byte) error {
	a, err := FromBase58(string(s))
	if nil != err {
		return err
	}
	*account = a
	return nil
}

// MarshalBinary - packed form for record encoding
func (account Account) MarshalBinary() ([]byte, error) {
	return account.Bytes(), nil
}

// UnmarshalBinary - restore from packed form
func (account *Account) UnmarshalBinary(buffer []byte) error {
	a, err := FromBytes(buffer)
	if nil != err {
		return err
	}
	*account = a
	return nil
}
