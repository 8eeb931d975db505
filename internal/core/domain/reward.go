package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Craft is the receipt of a reward batch minted to a recipient.
type Craft struct {
	ID         string
	RewardID   *big.Int
	Recipient  common.Address
	Rewards    Legs
	Nonce      *big.Int
	Authorizer common.Address
	CraftedAt  int64
}

// NewCraft validates the reward terms and returns a receipt with a new id.
func NewCraft(
	rewardID *big.Int, recipient common.Address, rewards Legs, nonce *big.Int,
) (*Craft, error) {
	if rewardID == nil || rewardID.Sign() < 0 {
		return nil, fmt.Errorf("%w: invalid reward id", ErrInvalidTerms)
	}
	if recipient == (common.Address{}) {
		return nil, fmt.Errorf("%w: missing recipient", ErrInvalidTerms)
	}
	if len(rewards) == 0 {
		return nil, fmt.Errorf("%w: missing rewards", ErrInvalidTerms)
	}
	for i, r := range rewards {
		if r.Standard == Native {
			return nil, fmt.Errorf(
				"%w: reward %d: native currency can't be minted", ErrInvalidTerms, i,
			)
		}
	}
	if err := rewards.Validate(); err != nil {
		return nil, fmt.Errorf("rewards %w", err)
	}

	return &Craft{
		ID:        uuid.New().String(),
		RewardID:  new(big.Int).Set(rewardID),
		Recipient: recipient,
		Rewards:   rewards.Clone(),
		Nonce:     cloneInt(nonce),
	}, nil
}

// Subject returns the subject the authorizer signs for this craft.
func (c *Craft) Subject() common.Hash {
	return CraftSubject(c.RewardID, c.Recipient, c.Rewards)
}
