package inmemory

import (
	"context"
	"fmt"
	"sort"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
)

type offerRepositoryImpl struct {
	rm *RepoManager
}

func (r offerRepositoryImpl) AddOffer(
	ctx context.Context, offer *domain.Offer,
) error {
	return r.rm.write(ctx, func(l *ledger) error {
		if _, ok := l.offers.get(offer.ID); ok {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateID, offer.ID.Hex())
		}
		if _, ok := l.sequences.get(offer.Sequence); ok {
			return fmt.Errorf("offer sequence %d already assigned", offer.Sequence)
		}

		l.offers.put(offer.ID, *offer.Clone())
		l.sequences.put(offer.Sequence, offer.ID)
		if offer.Sequence > l.lastSequence {
			l.lastSequence = offer.Sequence
		}
		return nil
	})
}

func (r offerRepositoryImpl) GetOffer(
	ctx context.Context, id common.Hash,
) (*domain.Offer, error) {
	var offer *domain.Offer
	err := r.rm.read(ctx, func(l *ledger) error {
		o, ok := l.offers.get(id)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownOffer, id.Hex())
		}
		offer = o.Clone()
		return nil
	})
	return offer, err
}

func (r offerRepositoryImpl) GetOfferBySequence(
	ctx context.Context, sequence uint64,
) (*domain.Offer, error) {
	var offer *domain.Offer
	err := r.rm.read(ctx, func(l *ledger) error {
		id, ok := l.sequences.get(sequence)
		if !ok {
			return fmt.Errorf("%w: sequence %d", domain.ErrUnknownOffer, sequence)
		}
		o, _ := l.offers.get(id)
		offer = o.Clone()
		return nil
	})
	return offer, err
}

func (r offerRepositoryImpl) GetOffersInRange(
	ctx context.Context, low, high uint64,
) ([]domain.Offer, error) {
	offers := make([]domain.Offer, 0)
	err := r.rm.read(ctx, func(l *ledger) error {
		if high > l.lastSequence {
			high = l.lastSequence
		}
		for seq := low; seq <= high; seq++ {
			id, ok := l.sequences.get(seq)
			if !ok {
				continue
			}
			o, _ := l.offers.get(id)
			offers = append(offers, *o.Clone())
		}
		return nil
	})
	return offers, err
}

func (r offerRepositoryImpl) GetAllOffers(
	ctx context.Context, status *domain.OfferStatus,
) ([]domain.Offer, error) {
	offers := make([]domain.Offer, 0)
	err := r.rm.read(ctx, func(l *ledger) error {
		l.offers.forEach(func(_ common.Hash, o domain.Offer) {
			if status != nil && o.Status != *status {
				return
			}
			offers = append(offers, *o.Clone())
		})
		return nil
	})
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Sequence < offers[j].Sequence
	})
	return offers, err
}

func (r offerRepositoryImpl) LastSequence(ctx context.Context) (uint64, error) {
	var last uint64
	err := r.rm.read(ctx, func(l *ledger) error {
		last = l.lastSequence
		return nil
	})
	return last, err
}

func (r offerRepositoryImpl) UpdateOffer(
	ctx context.Context, id common.Hash,
	updateFn func(o *domain.Offer) (*domain.Offer, error),
) error {
	return r.rm.write(ctx, func(l *ledger) error {
		current, ok := l.offers.get(id)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownOffer, id.Hex())
		}

		updated, err := updateFn(current.Clone())
		if err != nil {
			return err
		}
		if updated.ID != id || updated.Sequence != current.Sequence {
			return fmt.Errorf("offer id and sequence can't be updated")
		}

		l.offers.put(id, *updated.Clone())
		return nil
	})
}
