// Package record defines the storage layout of the ledger entities shared by
// the persistent backends. Integers are kept as decimal strings so that zero
// and 256-bit values survive any encoder unchanged.
package record

import (
	"fmt"
	"math/big"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
)

// Leg is the stored form of an asset leg.
type Leg struct {
	Standard  string   `json:"standard"`
	Contract  string   `json:"contract"`
	IDs       []string `json:"ids,omitempty"`
	Amounts   []string `json:"amounts,omitempty"`
	OriginTag uint64   `json:"origin_tag"`
}

// Party is the stored form of one side of an offer.
type Party struct {
	Address string `json:"address"`
	Fee     string `json:"fee,omitempty"`
	Legs    []Leg  `json:"legs,omitempty"`
	Settled bool   `json:"settled"`
}

// Offer is the stored form of an offer. Status is indexed by name.
type Offer struct {
	ID        string
	Sequence  uint64
	Maker     Party
	Taker     Party
	Status    string
	IsPrivate bool
	Nonce     string
	Escrow    string
	CreatedAt int64
	UpdatedAt int64
}

// FeeAccount is the stored form of a fee account.
type FeeAccount struct {
	Currency       string
	Balance        string
	TotalCollected string
	TotalWithdrawn string
	UpdatedAt      int64
}

// ConsumedNonce is the stored form of a consumed authorization nonce.
type ConsumedNonce struct {
	Key        string
	Subject    string
	Action     string
	Nonce      string
	ConsumedAt int64
}

// Craft is the stored form of a craft receipt.
type Craft struct {
	ID         string
	RewardID   string
	Recipient  string
	Rewards    []Leg
	Nonce      string
	Authorizer string
	CraftedAt  int64
}

func FromOffer(o domain.Offer) Offer {
	return Offer{
		ID:        o.ID.Hex(),
		Sequence:  o.Sequence,
		Maker:     fromParty(o.Maker),
		Taker:     fromParty(o.Taker),
		Status:    o.Status.String(),
		IsPrivate: o.IsPrivate,
		Nonce:     fromInt(o.Nonce),
		Escrow:    o.Escrow.Hex(),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (r Offer) ToDomain() (*domain.Offer, error) {
	maker, err := r.Maker.toDomain()
	if err != nil {
		return nil, fmt.Errorf("offer %s: maker: %w", r.ID, err)
	}
	taker, err := r.Taker.toDomain()
	if err != nil {
		return nil, fmt.Errorf("offer %s: taker: %w", r.ID, err)
	}
	nonce, err := toInt(r.Nonce)
	if err != nil {
		return nil, fmt.Errorf("offer %s: nonce: %w", r.ID, err)
	}
	status := domain.OfferStatusUndefined
	if r.Status != domain.OfferStatusUndefined.String() {
		if status, err = domain.ParseOfferStatus(r.Status); err != nil {
			return nil, fmt.Errorf("offer %s: %w", r.ID, err)
		}
	}

	return &domain.Offer{
		ID:        common.HexToHash(r.ID),
		Sequence:  r.Sequence,
		Maker:     *maker,
		Taker:     *taker,
		Status:    status,
		IsPrivate: r.IsPrivate,
		Nonce:     nonce,
		Escrow:    common.HexToAddress(r.Escrow),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func FromFeeAccount(f domain.FeeAccount) FeeAccount {
	return FeeAccount{
		Currency:       f.Currency,
		Balance:        fromInt(f.Balance),
		TotalCollected: fromInt(f.TotalCollected),
		TotalWithdrawn: fromInt(f.TotalWithdrawn),
		UpdatedAt:      f.UpdatedAt,
	}
}

func (r FeeAccount) ToDomain() (*domain.FeeAccount, error) {
	account := domain.NewFeeAccount(r.Currency)
	account.UpdatedAt = r.UpdatedAt
	for _, v := range []struct {
		dst **big.Int
		src string
	}{
		{&account.Balance, r.Balance},
		{&account.TotalCollected, r.TotalCollected},
		{&account.TotalWithdrawn, r.TotalWithdrawn},
	} {
		n, err := toInt(v.src)
		if err != nil {
			return nil, fmt.Errorf("fee account %s: %w", r.Currency, err)
		}
		if n != nil {
			*v.dst = n
		}
	}
	return account, nil
}

func FromConsumedNonce(n domain.ConsumedNonce) ConsumedNonce {
	return ConsumedNonce{
		Key:        n.Key,
		Subject:    n.Subject.Hex(),
		Action:     string(n.Action),
		Nonce:      fromInt(n.Nonce),
		ConsumedAt: n.ConsumedAt,
	}
}

func (r ConsumedNonce) ToDomain() (*domain.ConsumedNonce, error) {
	action, err := domain.ParseAction(r.Action)
	if err != nil {
		return nil, err
	}
	nonce, err := toInt(r.Nonce)
	if err != nil {
		return nil, fmt.Errorf("nonce %s: %w", r.Key, err)
	}
	return &domain.ConsumedNonce{
		Key:        r.Key,
		Subject:    common.HexToHash(r.Subject),
		Action:     action,
		Nonce:      nonce,
		ConsumedAt: r.ConsumedAt,
	}, nil
}

func FromCraft(c domain.Craft) Craft {
	return Craft{
		ID:         c.ID,
		RewardID:   fromInt(c.RewardID),
		Recipient:  c.Recipient.Hex(),
		Rewards:    FromLegs(c.Rewards),
		Nonce:      fromInt(c.Nonce),
		Authorizer: c.Authorizer.Hex(),
		CraftedAt:  c.CraftedAt,
	}
}

func (r Craft) ToDomain() (*domain.Craft, error) {
	rewardID, err := toInt(r.RewardID)
	if err != nil {
		return nil, fmt.Errorf("craft %s: reward id: %w", r.ID, err)
	}
	nonce, err := toInt(r.Nonce)
	if err != nil {
		return nil, fmt.Errorf("craft %s: nonce: %w", r.ID, err)
	}
	rewards, err := ToLegs(r.Rewards)
	if err != nil {
		return nil, fmt.Errorf("craft %s: %w", r.ID, err)
	}
	return &domain.Craft{
		ID:         r.ID,
		RewardID:   rewardID,
		Recipient:  common.HexToAddress(r.Recipient),
		Rewards:    rewards,
		Nonce:      nonce,
		Authorizer: common.HexToAddress(r.Authorizer),
		CraftedAt:  r.CraftedAt,
	}, nil
}

// FromLegs returns the stored form of the given bundle.
func FromLegs(legs domain.Legs) []Leg {
	if len(legs) == 0 {
		return nil
	}
	out := make([]Leg, 0, len(legs))
	for _, l := range legs {
		out = append(out, Leg{
			Standard:  l.Standard.String(),
			Contract:  l.Contract.Hex(),
			IDs:       fromInts(l.IDs),
			Amounts:   fromInts(l.Amounts),
			OriginTag: l.OriginTag,
		})
	}
	return out
}

// ToLegs parses the stored form of a bundle.
func ToLegs(legs []Leg) (domain.Legs, error) {
	if len(legs) == 0 {
		return nil, nil
	}
	out := make(domain.Legs, 0, len(legs))
	for i, l := range legs {
		standard, err := domain.ParseStandard(l.Standard)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}
		ids, err := toInts(l.IDs)
		if err != nil {
			return nil, fmt.Errorf("leg %d: ids: %w", i, err)
		}
		amounts, err := toInts(l.Amounts)
		if err != nil {
			return nil, fmt.Errorf("leg %d: amounts: %w", i, err)
		}
		out = append(out, domain.AssetLeg{
			Standard:  standard,
			Contract:  common.HexToAddress(l.Contract),
			IDs:       ids,
			Amounts:   amounts,
			OriginTag: l.OriginTag,
		})
	}
	return out, nil
}

func fromParty(p domain.Party) Party {
	return Party{
		Address: p.Address.Hex(),
		Fee:     fromInt(p.Fee),
		Legs:    FromLegs(p.Legs),
		Settled: p.Settled,
	}
}

func (r Party) toDomain() (*domain.Party, error) {
	fee, err := toInt(r.Fee)
	if err != nil {
		return nil, fmt.Errorf("fee: %w", err)
	}
	legs, err := ToLegs(r.Legs)
	if err != nil {
		return nil, err
	}
	return &domain.Party{
		Address: common.HexToAddress(r.Address),
		Fee:     fee,
		Legs:    legs,
		Settled: r.Settled,
	}, nil
}

func fromInt(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func toInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

func fromInts(values []*big.Int) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fromInt(v))
	}
	return out
}

func toInts(values []string) ([]*big.Int, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]*big.Int, 0, len(values))
	for _, s := range values {
		v, err := toInt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
