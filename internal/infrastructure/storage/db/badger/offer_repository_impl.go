package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/record"
	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/timshannon/badgerhold/v4"
)

const ledgerMetaKey = "meta"

// offerSequence indexes offers by their sequence number.
type offerSequence struct {
	Sequence uint64
	OfferID  string
}

type ledgerMeta struct {
	LastSequence uint64
}

type offerRepositoryImpl struct {
	rm *repoManager
}

func (r offerRepositoryImpl) AddOffer(
	ctx context.Context, offer *domain.Offer,
) error {
	store := r.rm.store
	return r.rm.update(ctx, func(tx *badger.Txn) error {
		key := offer.ID.Hex()
		if err := store.TxInsert(tx, key, record.FromOffer(*offer)); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateID, key)
			}
			return err
		}

		idx := offerSequence{offer.Sequence, key}
		if err := store.TxInsert(tx, offer.Sequence, idx); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return fmt.Errorf("offer sequence %d already assigned", offer.Sequence)
			}
			return err
		}

		meta, err := getMeta(store, tx)
		if err != nil {
			return err
		}
		if offer.Sequence > meta.LastSequence {
			meta.LastSequence = offer.Sequence
			return store.TxUpsert(tx, ledgerMetaKey, *meta)
		}
		return nil
	})
}

func (r offerRepositoryImpl) GetOffer(
	ctx context.Context, id common.Hash,
) (*domain.Offer, error) {
	var offer *domain.Offer
	err := r.rm.view(ctx, func(tx *badger.Txn) (err error) {
		offer, err = getOffer(r.rm.store, tx, id.Hex())
		return
	})
	return offer, err
}

func (r offerRepositoryImpl) GetOfferBySequence(
	ctx context.Context, sequence uint64,
) (*domain.Offer, error) {
	var offer *domain.Offer
	err := r.rm.view(ctx, func(tx *badger.Txn) error {
		var idx offerSequence
		if err := r.rm.store.TxGet(tx, sequence, &idx); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return fmt.Errorf("%w: sequence %d", domain.ErrUnknownOffer, sequence)
			}
			return err
		}

		o, err := getOffer(r.rm.store, tx, idx.OfferID)
		if err != nil {
			return err
		}
		offer = o
		return nil
	})
	return offer, err
}

func (r offerRepositoryImpl) GetOffersInRange(
	ctx context.Context, low, high uint64,
) ([]domain.Offer, error) {
	query := badgerhold.Where("Sequence").Ge(low).And("Sequence").Le(high).
		SortBy("Sequence")
	return r.findOffers(ctx, query)
}

func (r offerRepositoryImpl) GetAllOffers(
	ctx context.Context, status *domain.OfferStatus,
) ([]domain.Offer, error) {
	var query *badgerhold.Query
	if status != nil {
		query = badgerhold.Where("Status").Eq(status.String())
	}
	return r.findOffers(ctx, query)
}

func (r offerRepositoryImpl) LastSequence(ctx context.Context) (uint64, error) {
	var last uint64
	err := r.rm.view(ctx, func(tx *badger.Txn) error {
		meta, err := getMeta(r.rm.store, tx)
		if err != nil {
			return err
		}
		last = meta.LastSequence
		return nil
	})
	return last, err
}

func (r offerRepositoryImpl) UpdateOffer(
	ctx context.Context, id common.Hash,
	updateFn func(o *domain.Offer) (*domain.Offer, error),
) error {
	store := r.rm.store
	return r.rm.update(ctx, func(tx *badger.Txn) error {
		current, err := getOffer(store, tx, id.Hex())
		if err != nil {
			return err
		}

		updated, err := updateFn(current.Clone())
		if err != nil {
			return err
		}
		if updated.ID != id || updated.Sequence != current.Sequence {
			return fmt.Errorf("offer id and sequence can't be updated")
		}

		return store.TxUpdate(tx, id.Hex(), record.FromOffer(*updated))
	})
}

func (r offerRepositoryImpl) findOffers(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Offer, error) {
	var rows []record.Offer
	if err := r.rm.view(ctx, func(tx *badger.Txn) error {
		return r.rm.store.TxFind(tx, &rows, query)
	}); err != nil {
		return nil, err
	}

	offers := make([]domain.Offer, 0, len(rows))
	for _, row := range rows {
		offer, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Sequence < offers[j].Sequence
	})
	return offers, nil
}

func getOffer(
	store *badgerhold.Store, tx *badger.Txn, key string,
) (*domain.Offer, error) {
	var row record.Offer
	if err := store.TxGet(tx, key, &row); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownOffer, key)
		}
		return nil, err
	}
	return row.ToDomain()
}

func getMeta(store *badgerhold.Store, tx *badger.Txn) (*ledgerMeta, error) {
	var meta ledgerMeta
	if err := store.TxGet(tx, ledgerMetaKey, &meta); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return &ledgerMeta{}, nil
		}
		return nil, err
	}
	return &meta, nil
}
