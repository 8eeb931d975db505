package escrow

import (
	"context"
	"math/big"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
)

// CraftReward mints the given rewards to the recipient. The authorizer must
// have signed the craft subject, each nonce can be used once.
func (s *Service) CraftReward(
	ctx context.Context, req CraftRewardRequest,
) (*domain.Craft, error) {
	recipient := req.Recipient
	if recipient == (common.Address{}) {
		recipient = req.Caller
	}
	if recipient == (common.Address{}) {
		return nil, ErrMissingRecipient
	}
	var nonce *big.Int
	if req.Auth != nil {
		nonce = req.Auth.Nonce
	}

	craft, err := domain.NewCraft(req.RewardID, recipient, req.Rewards, nonce)
	if err != nil {
		return nil, err
	}
	subject := craft.Subject()

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.runInTx(ctx, func(ctx context.Context) error {
		if err := s.checkReplay(
			ctx, PolicyOperator, subject, domain.ActionCraft, req.Auth,
		); err != nil {
			return err
		}
		if err := s.verifyAuthorization(
			PolicyOperator, subject, domain.ActionCraft, recipient, req.Auth,
		); err != nil {
			return err
		}

		instructions := make([]domain.Instruction, 0, len(craft.Rewards))
		for _, leg := range craft.Rewards {
			instructions = append(instructions, domain.MintInstruction(
				leg, s.cfg.CoreAddress, recipient,
			))
		}
		if err := s.executor.execute(ctx, instructions); err != nil {
			return err
		}

		craft.Authorizer = s.cfg.Authorizer
		craft.CraftedAt = now()
		if err := s.repoManager.CraftRepository().AddCraft(ctx, craft); err != nil {
			return err
		}
		return s.consumeAuthorization(
			ctx, PolicyOperator, subject, domain.ActionCraft, req.Auth,
			craft.CraftedAt,
		)
	}); err != nil {
		return nil, err
	}

	log.Debugf("crafted reward %s for %s", craft.RewardID, recipient.Hex())
	s.publishRewardCraftedEvent(craft)
	return craft, nil
}
