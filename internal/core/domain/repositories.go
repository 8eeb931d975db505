package domain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// OfferRepository is the abstraction for any kind of database intended to
// persist Offers. Offers are never deleted.
type OfferRepository interface {
	// AddOffer stores a new offer, failing with ErrDuplicateID if one with the
	// same id exists already.
	AddOffer(ctx context.Context, offer *Offer) error
	// GetOffer returns the offer with the given id or ErrUnknownOffer.
	GetOffer(ctx context.Context, id common.Hash) (*Offer, error)
	// GetOfferBySequence returns the offer with the given sequence number or
	// ErrUnknownOffer.
	GetOfferBySequence(ctx context.Context, sequence uint64) (*Offer, error)
	// GetOffersInRange returns the existing offers with sequence number in
	// [low, high], ordered by sequence.
	GetOffersInRange(ctx context.Context, low, high uint64) ([]Offer, error)
	// GetAllOffers returns all offers ordered by sequence, optionally filtered
	// by status.
	GetAllOffers(ctx context.Context, status *OfferStatus) ([]Offer, error)
	// LastSequence returns the highest sequence number assigned so far, 0 if
	// none.
	LastSequence(ctx context.Context) (uint64, error)
	// UpdateOffer allows to commit multiple changes to the same offer in a
	// transactional way.
	UpdateOffer(
		ctx context.Context, id common.Hash,
		updateFn func(o *Offer) (*Offer, error),
	) error
}

// FeeRepository persists the fee accounts.
type FeeRepository interface {
	// GetFeeAccount returns the account of the given currency, an empty one if
	// never credited.
	GetFeeAccount(ctx context.Context, currency string) (*FeeAccount, error)
	GetAllFeeAccounts(ctx context.Context) ([]FeeAccount, error)
	// UpdateFeeAccount applies the changes to the account of the given
	// currency, creating it if needed.
	UpdateFeeAccount(
		ctx context.Context, currency string,
		updateFn func(f *FeeAccount) (*FeeAccount, error),
	) error
}

// NonceRepository persists the set of consumed authorization nonces.
type NonceRepository interface {
	IsNonceConsumed(
		ctx context.Context, subject common.Hash, action Action, nonce *big.Int,
	) (bool, error)
	// ConsumeNonce records the given tuple, failing with ErrReplayedNonce if
	// it was consumed already.
	ConsumeNonce(ctx context.Context, nonce ConsumedNonce) error
	GetAllConsumedNonces(ctx context.Context) ([]ConsumedNonce, error)
}

// CraftRepository persists the receipts of crafted rewards.
type CraftRepository interface {
	AddCraft(ctx context.Context, craft *Craft) error
	GetCraft(ctx context.Context, id string) (*Craft, error)
	GetCraftsByRecipient(
		ctx context.Context, recipient common.Address,
	) ([]Craft, error)
	GetAllCrafts(ctx context.Context) ([]Craft, error)
}
