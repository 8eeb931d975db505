package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	OfferStatusUndefined OfferStatus = iota
	OfferStatusCreated
	OfferStatusCompleted
	OfferStatusCancelled
)

var offerStatusNames = map[OfferStatus]string{
	OfferStatusUndefined: "undefined",
	OfferStatusCreated:   "created",
	OfferStatusCompleted: "completed",
	OfferStatusCancelled: "cancelled",
}

// OfferStatus represents the different statuses an offer can assume.
type OfferStatus int

func (s OfferStatus) String() string {
	if name, ok := offerStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseOfferStatus returns the status matching the given name.
func ParseOfferStatus(name string) (OfferStatus, error) {
	for s, n := range offerStatusNames {
		if n == name && s != OfferStatusUndefined {
			return s, nil
		}
	}
	return OfferStatusUndefined, fmt.Errorf("unknown offer status %q", name)
}

// OfferTerms are the content-addressed terms of an offer. Two offers with the
// same terms share the same fingerprint.
type OfferTerms struct {
	Maker     common.Address
	MakerLegs Legs
	TakerLegs Legs
	Nonce     *big.Int
}

// Validate checks that the terms are well formed.
func (t OfferTerms) Validate() error {
	if t.Maker == (common.Address{}) {
		return fmt.Errorf("%w: missing maker", ErrInvalidTerms)
	}
	if t.Nonce == nil || t.Nonce.Sign() < 0 || t.Nonce.BitLen() > 256 {
		return fmt.Errorf("%w: nonce must be a 256-bit unsigned integer", ErrInvalidTerms)
	}
	if len(t.MakerLegs)+len(t.TakerLegs) == 0 {
		return fmt.Errorf("%w: offer has no legs", ErrInvalidTerms)
	}
	if err := t.MakerLegs.Validate(); err != nil {
		return fmt.Errorf("maker %w", err)
	}
	if err := t.TakerLegs.Validate(); err != nil {
		return fmt.Errorf("taker %w", err)
	}
	return nil
}

// Party is one side of an offer.
type Party struct {
	Address common.Address
	Fee     *big.Int
	Legs    Legs
	Settled bool
}

func (p Party) clone() Party {
	return Party{
		Address: p.Address,
		Fee:     cloneInt(p.Fee),
		Legs:    p.Legs.Clone(),
		Settled: p.Settled,
	}
}

// Offer is the data structure representing an escrowed bundle swap.
type Offer struct {
	ID        common.Hash
	Sequence  uint64
	Maker     Party
	Taker     Party
	Status    OfferStatus
	IsPrivate bool
	Nonce     *big.Int
	Escrow    common.Address
	CreatedAt int64
	UpdatedAt int64
}

// NewOffer returns an offer in Undefined status for the given terms. A
// private offer can be accepted only by the given taker, a public one by
// anyone, in which case the taker address is only informational until the
// offer completes.
func NewOffer(
	terms OfferTerms, makerFee *big.Int, taker common.Address, isPrivate bool,
) (*Offer, error) {
	if makerFee == nil {
		makerFee = big.NewInt(0)
	}
	if makerFee.Sign() < 0 {
		return nil, fmt.Errorf("%w: maker fee must not be negative", ErrInvalidTerms)
	}
	if isPrivate && taker == (common.Address{}) {
		return nil, fmt.Errorf("%w: private offer requires a taker", ErrInvalidTerms)
	}

	id, err := Fingerprint(terms)
	if err != nil {
		return nil, err
	}

	return &Offer{
		ID: id,
		Maker: Party{
			Address: terms.Maker,
			Fee:     new(big.Int).Set(makerFee),
			Legs:    terms.MakerLegs.Clone(),
		},
		Taker: Party{
			Address: taker,
			Legs:    terms.TakerLegs.Clone(),
		},
		IsPrivate: isPrivate,
		Nonce:     new(big.Int).Set(terms.Nonce),
		Status:    OfferStatusUndefined,
	}, nil
}

// Terms returns the terms the offer was fingerprinted from.
func (o *Offer) Terms() OfferTerms {
	return OfferTerms{
		Maker:     o.Maker.Address,
		MakerLegs: o.Maker.Legs.Clone(),
		TakerLegs: o.Taker.Legs.Clone(),
		Nonce:     cloneInt(o.Nonce),
	}
}

// Create brings an Undefined offer to the Created status, assigning its
// sequence number and custody address.
func (o *Offer) Create(
	sequence uint64, escrow common.Address, timestamp int64,
) error {
	if !o.IsUndefined() {
		return fmt.Errorf(
			"%w: offer is %s, must be undefined", ErrInvalidStateTransition, o.Status,
		)
	}
	if sequence == 0 {
		return fmt.Errorf("offer sequence must be positive")
	}

	o.Sequence = sequence
	o.Escrow = escrow
	o.Status = OfferStatusCreated
	o.Maker.Settled = true
	o.CreatedAt = timestamp
	o.UpdatedAt = timestamp
	return nil
}

// Accept brings a Created offer to the Completed status. The taker of a
// private offer must match the one named at creation.
func (o *Offer) Accept(
	taker common.Address, takerFee *big.Int, timestamp int64,
) error {
	if !o.IsCreated() {
		return fmt.Errorf(
			"%w: offer is %s, must be created", ErrInvalidStateTransition, o.Status,
		)
	}
	if !o.CanBeAcceptedBy(taker) {
		return fmt.Errorf("%w: offer is private", ErrUnauthorized)
	}
	if takerFee == nil {
		takerFee = big.NewInt(0)
	}
	if takerFee.Sign() < 0 {
		return fmt.Errorf("%w: taker fee must not be negative", ErrInvalidTerms)
	}

	o.Taker.Address = taker
	o.Taker.Fee = new(big.Int).Set(takerFee)
	o.Taker.Settled = true
	o.Status = OfferStatusCompleted
	o.UpdatedAt = timestamp
	return nil
}

// Cancel brings a Created offer to the Cancelled status. The maker fee is not
// refunded.
func (o *Offer) Cancel(timestamp int64) error {
	if !o.IsCreated() {
		return fmt.Errorf(
			"%w: offer is %s, must be created", ErrInvalidStateTransition, o.Status,
		)
	}

	o.Status = OfferStatusCancelled
	o.UpdatedAt = timestamp
	return nil
}

// CanBeAcceptedBy returns whether the given address is allowed to take the
// offer.
func (o *Offer) CanBeAcceptedBy(taker common.Address) bool {
	if taker == (common.Address{}) {
		return false
	}
	return !o.IsPrivate || o.Taker.Address == taker
}

// IsUndefined returns whether the offer was not created yet.
func (o *Offer) IsUndefined() bool {
	return o.Status == OfferStatusUndefined
}

// IsCreated returns whether the offer is open.
func (o *Offer) IsCreated() bool {
	return o.Status == OfferStatusCreated
}

// IsCompleted returns whether the offer was accepted.
func (o *Offer) IsCompleted() bool {
	return o.Status == OfferStatusCompleted
}

// IsCancelled returns whether the offer was cancelled.
func (o *Offer) IsCancelled() bool {
	return o.Status == OfferStatusCancelled
}

// IsTerminal returns whether the offer can't change status anymore.
func (o *Offer) IsTerminal() bool {
	return o.IsCompleted() || o.IsCancelled()
}

// Clone returns a deep copy of the offer.
func (o Offer) Clone() *Offer {
	cloned := o
	cloned.Maker = o.Maker.clone()
	cloned.Taker = o.Taker.clone()
	cloned.Nonce = cloneInt(o.Nonce)
	return &cloned
}
