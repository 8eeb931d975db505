package escrow

import (
	"context"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
)

// CancelOffer returns the escrowed maker legs of an open offer to the maker.
// The maker fee is not refunded.
func (s *Service) CancelOffer(
	ctx context.Context, req CancelOfferRequest,
) (*domain.Offer, error) {
	policy := s.cfg.CancelAuthority

	s.lock.Lock()
	defer s.lock.Unlock()

	var offer *domain.Offer
	if err := s.runInTx(ctx, func(ctx context.Context) error {
		o, err := s.repoManager.OfferRepository().GetOffer(ctx, req.OfferID)
		if err != nil {
			return err
		}
		if err := s.checkReplay(
			ctx, policy, o.ID, domain.ActionCancel, req.Auth,
		); err != nil {
			return err
		}
		if !o.IsCreated() {
			return fmt.Errorf(
				"%w: offer is %s", domain.ErrInvalidStateTransition, o.Status,
			)
		}
		if err := checkCaller(policy, req.Caller, o.Maker.Address); err != nil {
			return err
		}
		if err := s.verifyAuthorization(
			policy, o.ID, domain.ActionCancel, o.Maker.Address, req.Auth,
		); err != nil {
			return err
		}

		timestamp := now()
		if err := s.cancel(ctx, o, timestamp); err != nil {
			return err
		}
		if err := s.consumeAuthorization(
			ctx, policy, o.ID, domain.ActionCancel, req.Auth, timestamp,
		); err != nil {
			return err
		}

		offer = o
		return nil
	}); err != nil {
		return nil, err
	}

	log.Debugf("cancelled offer %s", offer.ID.Hex())
	s.publishOfferEvent(offer)
	return offer, nil
}

// BatchCancelOffers cancels every open offer with sequence number in
// [low, high]. Missing and terminal offers are skipped, as well as those
// whose assets can't be returned. Only the owner can call it.
func (s *Service) BatchCancelOffers(
	ctx context.Context, caller common.Address, low, high uint64,
) (*BatchCancelResult, error) {
	if caller != s.cfg.Owner {
		return nil, ErrOwnerOnly
	}
	if high < low {
		return nil, fmt.Errorf("%w: [%d, %d] is reversed", domain.ErrInvalidRange, low, high)
	}
	if high-low >= s.cfg.MaxBatchCancelRange {
		return nil, fmt.Errorf(
			"%w: [%d, %d] is wider than %d",
			domain.ErrInvalidRange, low, high, s.cfg.MaxBatchCancelRange,
		)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	offers, err := s.repoManager.OfferRepository().GetOffersInRange(ctx, low, high)
	if err != nil {
		return nil, err
	}

	result := &BatchCancelResult{
		Cancelled: make([]common.Hash, 0),
		Skipped:   make([]common.Hash, 0),
	}
	for i := range offers {
		o := &offers[i]
		if !o.IsCreated() {
			result.Skipped = append(result.Skipped, o.ID)
			continue
		}

		if err := s.runInTx(ctx, func(ctx context.Context) error {
			return s.cancel(ctx, o, now())
		}); err != nil {
			log.WithError(err).Warnf(
				"batch cancel: skipping offer %s (#%d)", o.ID.Hex(), o.Sequence,
			)
			result.Skipped = append(result.Skipped, o.ID)
			continue
		}
		result.Cancelled = append(result.Cancelled, o.ID)
		s.publishOfferEvent(o)
	}

	log.Debugf(
		"batch cancelled %d offers in range [%d, %d]", result.Count(), low, high,
	)
	return result, nil
}

// cancel returns the escrowed maker legs and marks the offer as cancelled.
func (s *Service) cancel(
	ctx context.Context, offer *domain.Offer, timestamp int64,
) error {
	if err := offer.Cancel(timestamp); err != nil {
		return err
	}
	if err := s.executor.execute(
		ctx, releaseInstructions(offer, offer.Maker.Address),
	); err != nil {
		return err
	}
	return s.repoManager.OfferRepository().UpdateOffer(
		ctx, offer.ID, func(_ *domain.Offer) (*domain.Offer, error) {
			return offer, nil
		},
	)
}
