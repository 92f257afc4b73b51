// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type AuthorizationError GenericError
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type ReentrancyError GenericError
type StateError GenericError
type ValidationError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised         = ExistsError("already initialised")
	AlreadyListed              = StateError("asset is already listed")
	ApprovalToCurrentOwner     = ValidationError("approval to current owner")
	ApproveToCaller            = ValidationError("approve to caller")
	AssetExists                = StateError("asset already exists")
	BalanceOverflow            = ProcessError("balance overflow")
	BatchTooLarge              = ValidationError("batch is too large")
	CallDepthExceeded          = ProcessError("call depth exceeded")
	CannotDecodeAccount        = InvalidError("cannot decode account")
	CertificateFileExists      = ExistsError("certificate file already exists")
	ChecksumMismatch           = InvalidError("checksum mismatch")
	ConfigurationNotTable      = InvalidError("configuration did not return a table")
	CooldownActive             = StateError("listing update cooldown is active")
	CryptoFailed               = ProcessError("encryption failed")
	DatabaseIsNotSet           = ProcessError("database is not set")
	FundingNotAllowed          = AuthorizationError("funding is only available on test chains")
	IdentityNameAlreadyExists  = ExistsError("identity name already exists")
	IdentityNameNotFound       = NotFoundError("identity name not found")
	InsufficientFunds          = StateError("insufficient funds")
	InvalidAmount              = ValidationError("invalid amount")
	InvalidCaller              = AuthorizationError("caller identity may not make calls")
	InvalidChain               = InvalidError("invalid chain")
	InvalidCount               = InvalidError("invalid count")
	InvalidCursor              = InvalidError("invalid cursor")
	InvalidEventRecord         = InvalidError("invalid event record")
	InvalidIpAddress           = InvalidError("invalid IP address")
	InvalidKeyLength           = InvalidError("invalid key length")
	InvalidKeyType             = InvalidError("invalid key type")
	InvalidMaxMintsPerWallet   = InvalidError("maximum mints per wallet must be greater than zero")
	InvalidOwner               = InvalidError("invalid contract owner")
	InvalidParameters          = ValidationError("invalid parameters")
	InvalidPasswordLength      = InvalidError("invalid password length")
	InvalidPrice               = InvalidError("invalid price")
	InvalidRoyaltyPercentage   = InvalidError("royalty percentage must be in the range 0..100")
	InvalidSignature           = AuthorizationError("invalid signature")
	InvalidStructPointer       = InvalidError("invalid struct pointer")
	InvalidTarget              = ValidationError("transfer to the market custodian")
	InvalidURI                 = ValidationError("invalid metadata uri")
	KeyFileExists              = ExistsError("key file already exists")
	LengthMismatch             = ValidationError("array lengths do not match")
	MintLimitReached           = StateError("mint limit reached")
	MissingParameters          = InvalidError("missing parameters")
	NoConnectionsAvailable     = ProcessError("no connections available")
	NoSuchAsset                = StateError("asset does not exist")
	NotAnOriginal              = StateError("asset is not an original")
	NotAvailableInReadOnlyMode = ProcessError("not available in read-only mode")
	NotContractOwner           = AuthorizationError("caller is not the contract owner")
	NotDuplicable              = StateError("asset is not duplicable")
	NotInitialised             = NotFoundError("not initialised")
	NotListed                  = StateError("asset is not listed")
	NotOwner                   = AuthorizationError("caller is not owner nor approved")
	NotPaused                  = StateError("market is not paused")
	NotPausable                = StateError("market is not pausable")
	NotPayable                 = ValidationError("operation does not accept value")
	NotPrivateKey              = InvalidError("not a private key")
	NotPublicKey               = InvalidError("not a public key")
	NotSeller                  = AuthorizationError("caller is not the seller")
	NothingToWithdraw          = StateError("nothing to withdraw")
	OwnerMismatch              = InvalidError("configured owner does not match stored owner")
	PasswordMismatch           = InvalidError("password mismatch")
	Paused                     = StateError("market is paused")
	RateLimiting               = ProcessError("rate limiting")
	RequestExpired             = AuthorizationError("request timestamp outside allowed window")
	RequestReplayed            = AuthorizationError("request has already been processed")
	ReentrantCall              = ReentrancyError("reentrant call")
	SignatureFromContract      = AuthorizationError("contract identities cannot sign")
	TransactionAlreadyInUse    = ProcessError("transaction already in use")
	TransactionNotInUse        = ProcessError("transaction not in use")
	UnknownOperation           = ValidationError("unknown operation")
	WalletQuotaExceeded        = ValidationError("wallet mint quota exceeded")
	WrongNetworkForCaller      = AuthorizationError("caller identity is for the wrong network")
	WrongNetworkForPublicKey   = InvalidError("wrong network for public key")
	WrongPassword              = AuthorizationError("wrong password")
	WrongPrice                 = ValidationError("value does not match listing price")
	ZeroPrice                  = ValidationError("price must be greater than zero")
	ZeroTarget                 = ValidationError("transfer to the null identity")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AuthorizationError) Error() string { return string(e) }
func (e ExistsError) Error() string        { return string(e) }
func (e InvalidError) Error() string       { return string(e) }
func (e NotFoundError) Error() string      { return string(e) }
func (e ProcessError) Error() string       { return string(e) }
func (e ReentrancyError) Error() string    { return string(e) }
func (e StateError) Error() string         { return string(e) }
func (e ValidationError) Error() string    { return string(e) }

// determine the class of an error
func IsErrAuthorization(e error) bool { _, ok := e.(AuthorizationError); return ok }
func IsErrExists(e error) bool        { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool       { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool      { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool       { _, ok := e.(ProcessError); return ok }
func IsErrReentrancy(e error) bool    { _, ok := e.(ReentrancyError); return ok }
func IsErrState(e error) bool         { _, ok := e.(StateError); return ok }
func IsErrValidation(e error) bool    { _, ok := e.(ValidationError); return ok }
