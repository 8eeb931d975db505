package escrow

import (
	"context"
	"fmt"
	"math/big"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
)

// AcceptOffer settles an open offer: the taker legs go to the maker, the
// escrowed maker legs go to the taker and the taker fee goes to the fee
// vault, all or nothing.
func (s *Service) AcceptOffer(
	ctx context.Context, req AcceptOfferRequest,
) (*domain.Offer, error) {
	taker := req.Taker
	if taker == (common.Address{}) {
		taker = req.Caller
	}
	takerFee := req.TakerFee
	if takerFee == nil {
		takerFee = big.NewInt(0)
	}
	if takerFee.Sign() < 0 {
		return nil, fmt.Errorf("%w: taker fee must not be negative", domain.ErrInvalidTerms)
	}
	policy := s.cfg.AcceptAuthority

	s.lock.Lock()
	defer s.lock.Unlock()

	var offer *domain.Offer
	if err := s.runInTx(ctx, func(ctx context.Context) error {
		offerRepo := s.repoManager.OfferRepository()

		o, err := offerRepo.GetOffer(ctx, req.OfferID)
		if err != nil {
			return err
		}
		if err := s.checkReplay(
			ctx, policy, o.ID, domain.ActionAccept, req.Auth,
		); err != nil {
			return err
		}
		if !o.IsCreated() {
			return fmt.Errorf(
				"%w: offer is %s", domain.ErrInvalidStateTransition, o.Status,
			)
		}
		if err := checkCaller(policy, req.Caller, taker); err != nil {
			return err
		}
		if !o.CanBeAcceptedBy(taker) {
			return fmt.Errorf(
				"%w: offer is reserved to %s", domain.ErrUnauthorized, o.Taker.Address.Hex(),
			)
		}
		if err := checkValue(req.Value, o.Taker.Legs, takerFee); err != nil {
			return err
		}
		if err := s.verifyAuthorization(
			policy, o.ID, domain.ActionAccept, taker, req.Auth,
		); err != nil {
			return err
		}

		timestamp := now()
		if err := o.Accept(taker, takerFee, timestamp); err != nil {
			return err
		}

		if err := s.executor.execute(
			ctx, s.settlementInstructions(o, req.Caller),
		); err != nil {
			return err
		}

		if err := offerRepo.UpdateOffer(
			ctx, o.ID, func(_ *domain.Offer) (*domain.Offer, error) {
				return o, nil
			},
		); err != nil {
			return err
		}
		if err := s.consumeAuthorization(
			ctx, policy, o.ID, domain.ActionAccept, req.Auth, timestamp,
		); err != nil {
			return err
		}
		if err := s.creditFee(ctx, takerFee, timestamp); err != nil {
			return err
		}

		offer = o
		return nil
	}); err != nil {
		return nil, err
	}

	log.Debugf("offer %s accepted by %s", offer.ID.Hex(), offer.Taker.Address.Hex())
	s.publishOfferEvent(offer)
	return offer, nil
}

// settlementInstructions pays the taker legs to the maker, releases the
// escrowed maker legs to the taker and the taker fee to the fee vault.
func (s *Service) settlementInstructions(
	offer *domain.Offer, payer common.Address,
) []domain.Instruction {
	maker, taker, escrow := offer.Maker.Address, offer.Taker.Address, offer.Escrow

	instructions := make(
		[]domain.Instruction, 0, len(offer.Taker.Legs)+len(offer.Maker.Legs)+1,
	)
	for _, leg := range offer.Taker.Legs {
		if leg.Standard == domain.Native {
			instructions = append(instructions, domain.NativeTransferInstruction(
				payer, maker, leg.NativeAmount(),
			))
			continue
		}
		instructions = append(instructions, domain.TransferInstruction(
			leg, escrow, taker, maker,
		))
	}
	instructions = append(instructions, releaseInstructions(offer, taker)...)
	if offer.Taker.Fee.Sign() > 0 {
		instructions = append(instructions, domain.NativeTransferInstruction(
			payer, s.cfg.CoreAddress, offer.Taker.Fee,
		))
	}
	return instructions
}

// releaseInstructions moves the escrowed maker legs to the given recipient.
func releaseInstructions(
	offer *domain.Offer, recipient common.Address,
) []domain.Instruction {
	instructions := make([]domain.Instruction, 0, len(offer.Maker.Legs))
	for _, leg := range offer.Maker.Legs {
		instructions = append(instructions, domain.TransferInstruction(
			leg, offer.Escrow, offer.Escrow, recipient,
		))
	}
	return instructions
}
