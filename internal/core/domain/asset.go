package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Standard identifies the token standard an asset leg is expressed in.
type Standard uint8

const (
	Native Standard = iota
	Fungible
	NonFungible
	SemiFungibleBatch
)

var standardNames = map[Standard]string{
	Native:            "native",
	Fungible:          "fungible",
	NonFungible:       "non-fungible",
	SemiFungibleBatch: "semi-fungible",
}

func (s Standard) String() string {
	if name, ok := standardNames[s]; ok {
		return name
	}
	return fmt.Sprintf("standard(%d)", uint8(s))
}

// IsValid returns whether the standard is one of the supported ones.
func (s Standard) IsValid() bool {
	_, ok := standardNames[s]
	return ok
}

// ParseStandard returns the standard matching the given name.
func ParseStandard(name string) (Standard, error) {
	for s, n := range standardNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown standard %q", ErrInvalidLeg, name)
}

// AssetLeg is one unit of value a party commits to an offer.
//
// Native and Fungible legs carry a single zero id and a single amount.
// NonFungible legs carry one or more ids, amounts are ignored.
// SemiFungibleBatch legs carry parallel ids and amounts.
// OriginTag is informational and never used in execution.
type AssetLeg struct {
	Standard  Standard
	Contract  common.Address
	IDs       []*big.Int
	Amounts   []*big.Int
	OriginTag uint64
}

// NewNativeLeg returns a leg of the given amount of native currency.
func NewNativeLeg(amount *big.Int) AssetLeg {
	return AssetLeg{
		Standard: Native,
		IDs:      []*big.Int{big.NewInt(0)},
		Amounts:  []*big.Int{new(big.Int).Set(amount)},
	}
}

// NewFungibleLeg returns a leg of the given amount of a fungible token.
func NewFungibleLeg(contract common.Address, amount *big.Int) AssetLeg {
	return AssetLeg{
		Standard: Fungible,
		Contract: contract,
		IDs:      []*big.Int{big.NewInt(0)},
		Amounts:  []*big.Int{new(big.Int).Set(amount)},
	}
}

// NewNonFungibleLeg returns a leg made of the given token ids of a
// non-fungible collection.
func NewNonFungibleLeg(contract common.Address, ids ...*big.Int) AssetLeg {
	return AssetLeg{
		Standard: NonFungible,
		Contract: contract,
		IDs:      cloneInts(ids),
	}
}

// NewSemiFungibleLeg returns a leg made of the given ids and amounts of a
// semi-fungible collection.
func NewSemiFungibleLeg(
	contract common.Address, ids, amounts []*big.Int,
) AssetLeg {
	return AssetLeg{
		Standard: SemiFungibleBatch,
		Contract: contract,
		IDs:      cloneInts(ids),
		Amounts:  cloneInts(amounts),
	}
}

// Validate checks the leg is well formed for its standard.
func (l AssetLeg) Validate() error {
	if !l.Standard.IsValid() {
		return fmt.Errorf("%w: unknown standard %d", ErrInvalidLeg, l.Standard)
	}
	if err := validateWords(l.IDs); err != nil {
		return fmt.Errorf("%w: ids: %s", ErrInvalidLeg, err)
	}
	if err := validateWords(l.Amounts); err != nil {
		return fmt.Errorf("%w: amounts: %s", ErrInvalidLeg, err)
	}

	switch l.Standard {
	case Native, Fungible:
		if l.Standard == Native && l.Contract != (common.Address{}) {
			return fmt.Errorf("%w: native leg must not have a contract", ErrInvalidLeg)
		}
		if l.Standard == Fungible && l.Contract == (common.Address{}) {
			return fmt.Errorf("%w: missing contract", ErrInvalidLeg)
		}
		if len(l.IDs) != 1 || l.IDs[0].Sign() != 0 {
			return fmt.Errorf(
				"%w: %s leg must have a single zero id", ErrInvalidLeg, l.Standard,
			)
		}
		if len(l.Amounts) != 1 {
			return fmt.Errorf(
				"%w: %s leg must have a single amount", ErrInvalidLeg, l.Standard,
			)
		}
	case NonFungible:
		if l.Contract == (common.Address{}) {
			return fmt.Errorf("%w: missing contract", ErrInvalidLeg)
		}
		if len(l.IDs) == 0 {
			return fmt.Errorf("%w: missing token ids", ErrInvalidLeg)
		}
		if hasDuplicates(l.IDs) {
			return fmt.Errorf("%w: duplicated token ids", ErrInvalidLeg)
		}
	case SemiFungibleBatch:
		if l.Contract == (common.Address{}) {
			return fmt.Errorf("%w: missing contract", ErrInvalidLeg)
		}
		if len(l.IDs) == 0 {
			return fmt.Errorf("%w: missing token ids", ErrInvalidLeg)
		}
		if len(l.IDs) != len(l.Amounts) {
			return fmt.Errorf(
				"%w: got %d ids and %d amounts", ErrInvalidLeg, len(l.IDs), len(l.Amounts),
			)
		}
	}
	return nil
}

// NativeAmount returns the amount of native currency moved by the leg.
func (l AssetLeg) NativeAmount() *big.Int {
	if l.Standard != Native || len(l.Amounts) == 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Set(l.Amounts[0])
}

// Clone returns a deep copy of the leg.
func (l AssetLeg) Clone() AssetLeg {
	return AssetLeg{
		Standard:  l.Standard,
		Contract:  l.Contract,
		IDs:       cloneInts(l.IDs),
		Amounts:   cloneInts(l.Amounts),
		OriginTag: l.OriginTag,
	}
}

// Legs is an ordered bundle of asset legs.
type Legs []AssetLeg

// Validate validates every leg of the bundle.
func (ls Legs) Validate() error {
	for i, l := range ls {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("leg %d: %w", i, err)
		}
	}
	return nil
}

// NativeTotal returns the sum of the native amounts of the bundle.
func (ls Legs) NativeTotal() *big.Int {
	total := big.NewInt(0)
	for _, l := range ls {
		total.Add(total, l.NativeAmount())
	}
	return total
}

// Clone returns a deep copy of the bundle.
func (ls Legs) Clone() Legs {
	if ls == nil {
		return nil
	}
	cloned := make(Legs, 0, len(ls))
	for _, l := range ls {
		cloned = append(cloned, l.Clone())
	}
	return cloned
}

func validateWords(values []*big.Int) error {
	for i, v := range values {
		if v == nil {
			return fmt.Errorf("value %d is null", i)
		}
		if v.Sign() < 0 {
			return fmt.Errorf("value %d is negative", i)
		}
		if v.BitLen() > 256 {
			return fmt.Errorf("value %d overflows 256 bits", i)
		}
	}
	return nil
}

func hasDuplicates(values []*big.Int) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		key := v.String()
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}

func cloneInts(values []*big.Int) []*big.Int {
	if values == nil {
		return nil
	}
	cloned := make([]*big.Int, 0, len(values))
	for _, v := range values {
		if v == nil {
			cloned = append(cloned, nil)
			continue
		}
		cloned = append(cloned, new(big.Int).Set(v))
	}
	return cloned
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
