// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package event

import (
	"github.com/bitmark-inc/marketd/account"
)

// Kind - event type code, the first byte of a packed record
type Kind uint8

// enumerated event kinds
const (
	NullKind             = Kind(iota) // not a valid event
	TransferKind         = Kind(iota)
	ApprovalKind         = Kind(iota)
	ApprovalForAllKind   = Kind(iota)
	AssetCreatedKind     = Kind(iota)
	AssetListedKind      = Kind(iota)
	ListingUpdatedKind   = Kind(iota)
	AssetPurchasedKind   = Kind(iota)
	ListingCancelledKind = Kind(iota)
	PausedKind           = Kind(iota)
	UnpausedKind         = Kind(iota)
	WithdrawnKind        = Kind(iota)
	FundsReceivedKind    = Kind(iota)
	FallbackInvokedKind  = Kind(iota)

	// this item must be last
	kindLimit = Kind(iota)
)

var kindNames = [...]string{
	NullKind:             "Null",
	TransferKind:         "Transfer",
	ApprovalKind:         "Approval",
	ApprovalForAllKind:   "ApprovalForAll",
	AssetCreatedKind:     "AssetCreated",
	AssetListedKind:      "AssetListed",
	ListingUpdatedKind:   "ListingUpdated",
	AssetPurchasedKind:   "AssetPurchased",
	ListingCancelledKind: "ListingCancelled",
	PausedKind:           "Paused",
	UnpausedKind:         "Unpaused",
	WithdrawnKind:        "Withdrawn",
	FundsReceivedKind:    "FundsReceived",
	FallbackInvokedKind:  "FallbackInvoked",
}

// String - name of the event kind
func (k Kind) String() string {
	if k >= kindLimit {
		return "Unknown"
	}
	return kindNames[k]
}

// MarshalText - kind name for JSON
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event - any event body
type Event interface {
	Kind() Kind
}

// Transfer - asset ownership changed; From is null for a mint, To
// is null for a burn
type Transfer struct {
	From    account.Account `cbor:"1,keyasint" json:"from"`
	To      account.Account `cbor:"2,keyasint" json:"to"`
	AssetID uint64          `cbor:"3,keyasint" json:"assetId,string"`
}

// Approval - single approved spender set or cleared
type Approval struct {
	Owner    account.Account `cbor:"1,keyasint" json:"owner"`
	Approved account.Account `cbor:"2,keyasint" json:"approved"`
	AssetID  uint64          `cbor:"3,keyasint" json:"assetId,string"`
}

// ApprovalForAll - operator granted or revoked rights over all of an
// owner's assets
type ApprovalForAll struct {
	Owner    account.Account `cbor:"1,keyasint" json:"owner"`
	Operator account.Account `cbor:"2,keyasint" json:"operator"`
	Approved bool            `cbor:"3,keyasint" json:"approved"`
}

// AssetCreated - an original or a duplicate was minted
//
// Original is zero for an original; Remaining is the duplication
// capacity left after this mint
type AssetCreated struct {
	AssetID   uint64          `cbor:"1,keyasint" json:"assetId,string"`
	Creator   account.Account `cbor:"2,keyasint" json:"creator"`
	URI       string          `cbor:"3,keyasint" json:"uri"`
	Remaining uint64          `cbor:"4,keyasint" json:"remaining,string"`
	Original  uint64          `cbor:"5,keyasint,omitempty" json:"original,omitempty,string"`
}

// AssetListed - an asset was placed into market custody for sale
type AssetListed struct {
	AssetID uint64          `cbor:"1,keyasint" json:"assetId,string"`
	Seller  account.Account `cbor:"2,keyasint" json:"seller"`
	Price   uint64          `cbor:"3,keyasint" json:"price,string"`
}

// ListingUpdated - the price of an active listing changed
type ListingUpdated struct {
	AssetID uint64          `cbor:"1,keyasint" json:"assetId,string"`
	Seller  account.Account `cbor:"2,keyasint" json:"seller"`
	Price   uint64          `cbor:"3,keyasint" json:"price,string"`
}

// AssetPurchased - a listing was bought
type AssetPurchased struct {
	AssetID uint64          `cbor:"1,keyasint" json:"assetId,string"`
	Buyer   account.Account `cbor:"2,keyasint" json:"buyer"`
	Seller  account.Account `cbor:"3,keyasint" json:"seller"`
	Price   uint64          `cbor:"4,keyasint" json:"price,string"`
}

// ListingCancelled - custody returned to the seller
type ListingCancelled struct {
	AssetID uint64          `cbor:"1,keyasint" json:"assetId,string"`
	Seller  account.Account `cbor:"2,keyasint" json:"seller"`
}

// Paused - mutating entry points disabled
type Paused struct {
	Account account.Account `cbor:"1,keyasint" json:"account"`
}

// Unpaused - mutating entry points enabled
type Unpaused struct {
	Account account.Account `cbor:"1,keyasint" json:"account"`
}

// Withdrawn - the market's own balance was paid to its owner
type Withdrawn struct {
	Owner  account.Account `cbor:"1,keyasint" json:"owner"`
	Amount uint64          `cbor:"2,keyasint" json:"amount,string"`
}

// FundsReceived - value arrived with no operation attached
type FundsReceived struct {
	Sender account.Account `cbor:"1,keyasint" json:"sender"`
	Amount uint64          `cbor:"2,keyasint" json:"amount,string"`
}

// FallbackInvoked - a call named no known operation
type FallbackInvoked struct {
	Sender  account.Account `cbor:"1,keyasint" json:"sender"`
	Value   uint64          `cbor:"2,keyasint" json:"value,string"`
	Payload []byte          `cbor:"3,keyasint" json:"payload"`
}

// Kind - event type codes
func (Transfer) Kind() Kind         { return TransferKind }
func (Approval) Kind() Kind         { return ApprovalKind }
func (ApprovalForAll) Kind() Kind   { return ApprovalForAllKind }
func (AssetCreated) Kind() Kind     { return AssetCreatedKind }
func (AssetListed) Kind() Kind      { return AssetListedKind }
func (ListingUpdated) Kind() Kind   { return ListingUpdatedKind }
func (AssetPurchased) Kind() Kind   { return AssetPurchasedKind }
func (ListingCancelled) Kind() Kind { return ListingCancelledKind }
func (Paused) Kind() Kind           { return PausedKind }
func (Unpaused) Kind() Kind         { return UnpausedKind }
func (Withdrawn) Kind() Kind        { return WithdrawnKind }
func (FundsReceived) Kind() Kind    { return FundsReceivedKind }
func (FallbackInvoked) Kind() Kind  { return FallbackInvokedKind }

// new empty body for a kind
func newBody(k Kind) Event {
	switch k {
	case TransferKind:
		return &Transfer{}
	case ApprovalKind:
		return &Approval{}
	case ApprovalForAllKind:
		return &ApprovalForAll{}
	case AssetCreatedKind:
		return &AssetCreated{}
	case AssetListedKind:
		return &AssetListed{}
	case ListingUpdatedKind:
		return &ListingUpdated{}
	case AssetPurchasedKind:
		return &AssetPurchased{}
	case ListingCancelledKind:
		return &ListingCancelled{}
	case PausedKind:
		return &Paused{}
	case UnpausedKind:
		return &Unpaused{}
	case WithdrawnKind:
		return &Withdrawn{}
	case FundsReceivedKind:
		return &FundsReceived{}
	case FallbackInvokedKind:
		return &FallbackInvoked{}
	default:
		return nil
	}
}
