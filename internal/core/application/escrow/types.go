package escrow

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
)

const DefaultMaxBatchCancelRange = 1000

// Policy is the authority an action must be endorsed by.
type Policy string

const (
	// PolicyNone requires no signature, the caller must be the acting party.
	PolicyNone Policy = "none"
	// PolicyOperator requires the signature of the configured authorizer, the
	// caller must be the acting party.
	PolicyOperator Policy = "operator"
	// PolicyParty requires the signature of the acting party, anyone can
	// submit the operation on its behalf.
	PolicyParty Policy = "party"
)

// ParsePolicy returns the policy with the given name.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(strings.ToLower(name)); p {
	case PolicyNone, PolicyOperator, PolicyParty:
		return p, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownPolicy, name)
}

func (p Policy) isSigned() bool {
	return p != PolicyNone
}

// Config holds the parameters of the escrow engine.
type Config struct {
	// ChainID takes part in every authorization message.
	ChainID *big.Int
	// CoreAddress is the address of the engine: it derives the escrow
	// addresses, verifies authorizations, holds the collected fees and mints
	// rewards.
	CoreAddress common.Address
	// Owner is the only address allowed to batch-cancel offers and collect
	// fees.
	Owner common.Address
	// Authorizer is the operator signer.
	Authorizer     common.Address
	EscrowTemplate string

	CreateAuthority Policy
	AcceptAuthority Policy
	CancelAuthority Policy

	MaxBatchCancelRange uint64
}

func (c *Config) validate() error {
	if c.CoreAddress == (common.Address{}) {
		return fmt.Errorf("missing core address")
	}
	if c.Owner == (common.Address{}) {
		return fmt.Errorf("missing owner address")
	}
	if c.Authorizer == (common.Address{}) {
		return fmt.Errorf("missing authorizer address")
	}
	if c.ChainID == nil {
		c.ChainID = big.NewInt(0)
	}
	if c.ChainID.Sign() < 0 {
		return fmt.Errorf("chain id must not be negative")
	}
	if c.EscrowTemplate == "" {
		c.EscrowTemplate = domain.DefaultEscrowTemplate
	}
	if c.MaxBatchCancelRange == 0 {
		c.MaxBatchCancelRange = DefaultMaxBatchCancelRange
	}
	for _, p := range []*Policy{
		&c.CreateAuthority, &c.AcceptAuthority, &c.CancelAuthority,
	} {
		if *p == "" {
			*p = PolicyNone
		}
		policy, err := ParsePolicy(string(*p))
		if err != nil {
			return err
		}
		*p = policy
	}
	return nil
}

// Authorization is the signed endorsement of an action.
type Authorization struct {
	Nonce     *big.Int
	Signature []byte
}

type CreateOfferRequest struct {
	// Caller submits the operation and pays the attached value.
	Caller    common.Address
	Terms     domain.OfferTerms
	MakerFee  *big.Int
	Taker     common.Address
	IsPrivate bool
	Value     *big.Int
	Auth      *Authorization
}

type AcceptOfferRequest struct {
	Caller common.Address
	// Taker defaults to the caller.
	Taker    common.Address
	OfferID  common.Hash
	TakerFee *big.Int
	Value    *big.Int
	Auth     *Authorization
}

type CancelOfferRequest struct {
	Caller  common.Address
	OfferID common.Hash
	Auth    *Authorization
}

type CraftRewardRequest struct {
	Caller   common.Address
	RewardID *big.Int
	// Recipient defaults to the caller.
	Recipient common.Address
	Rewards   domain.Legs
	Auth      *Authorization
}

// BatchCancelResult reports the outcome of a batch cancellation.
type BatchCancelResult struct {
	Cancelled []common.Hash
	Skipped   []common.Hash
}

// Count returns the number of cancelled offers.
func (r BatchCancelResult) Count() int {
	return len(r.Cancelled)
}

// ApprovalRequest lets an owner allow a spender to move its assets, usually
// the escrow address of an offer about to be created or accepted. Amount is
// used for fungible tokens, ID for a single non-fungible token and
// ApproveAll for operator approvals.
type ApprovalRequest struct {
	Owner      common.Address
	Contract   common.Address
	Spender    common.Address
	Amount     *big.Int
	ID         *big.Int
	ApproveAll *bool
}

// AssetBalance is the holding of an owner on a contract.
type AssetBalance struct {
	Standard domain.Standard
	Contract common.Address
	Owner    common.Address
	ID       *big.Int
	Balance  *big.Int
}
