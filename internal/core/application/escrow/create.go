package escrow

import (
	"context"
	"errors"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
)

// CreateOffer moves the maker legs into the custody of a new offer and pays
// the maker fee. The maker must have approved the predicted escrow address
// for its non-native legs, while native legs and fee are paid with the value
// attached by the caller.
func (s *Service) CreateOffer(
	ctx context.Context, req CreateOfferRequest,
) (*domain.Offer, error) {
	offer, err := domain.NewOffer(req.Terms, req.MakerFee, req.Taker, req.IsPrivate)
	if err != nil {
		return nil, err
	}
	policy := s.cfg.CreateAuthority
	maker := offer.Maker.Address

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.runInTx(ctx, func(ctx context.Context) error {
		offerRepo := s.repoManager.OfferRepository()

		if _, err := offerRepo.GetOffer(ctx, offer.ID); err == nil {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateID, offer.ID.Hex())
		} else if !errors.Is(err, domain.ErrUnknownOffer) {
			return err
		}
		if err := s.checkReplay(
			ctx, policy, offer.ID, domain.ActionCreate, req.Auth,
		); err != nil {
			return err
		}
		if err := checkCaller(policy, req.Caller, maker); err != nil {
			return err
		}
		if err := checkValue(req.Value, offer.Maker.Legs, offer.Maker.Fee); err != nil {
			return err
		}
		if err := s.verifyAuthorization(
			policy, offer.ID, domain.ActionCreate, maker, req.Auth,
		); err != nil {
			return err
		}

		last, err := offerRepo.LastSequence(ctx)
		if err != nil {
			return err
		}
		timestamp := now()
		if err := offer.Create(
			last+1, s.escrowAddress(offer.ID), timestamp,
		); err != nil {
			return err
		}

		if err := s.executor.execute(
			ctx, s.depositInstructions(offer, req.Caller),
		); err != nil {
			return err
		}

		if err := offerRepo.AddOffer(ctx, offer); err != nil {
			return err
		}
		if err := s.consumeAuthorization(
			ctx, policy, offer.ID, domain.ActionCreate, req.Auth, timestamp,
		); err != nil {
			return err
		}
		return s.creditFee(ctx, offer.Maker.Fee, timestamp)
	}); err != nil {
		return nil, err
	}

	log.Debugf("created offer %s (#%d)", offer.ID.Hex(), offer.Sequence)
	s.publishOfferEvent(offer)
	return offer, nil
}

// depositInstructions moves the maker legs into custody and the maker fee
// into the fee vault.
func (s *Service) depositInstructions(
	offer *domain.Offer, payer common.Address,
) []domain.Instruction {
	instructions := make([]domain.Instruction, 0, len(offer.Maker.Legs)+1)
	for _, leg := range offer.Maker.Legs {
		if leg.Standard == domain.Native {
			instructions = append(instructions, domain.NativeTransferInstruction(
				payer, offer.Escrow, leg.NativeAmount(),
			))
			continue
		}
		instructions = append(instructions, domain.TransferInstruction(
			leg, offer.Escrow, offer.Maker.Address, offer.Escrow,
		))
	}
	if offer.Maker.Fee.Sign() > 0 {
		instructions = append(instructions, domain.NativeTransferInstruction(
			payer, s.cfg.CoreAddress, offer.Maker.Fee,
		))
	}
	return instructions
}
