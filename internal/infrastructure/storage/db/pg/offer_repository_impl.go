package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
)

const (
	insertOfferQuery = `INSERT INTO offers (` + offerColumns + `) VALUES (
		:id, :sequence, :status, :is_private, :nonce, :escrow, :maker, :taker,
		:created_at, :updated_at
	)`
	updateOfferQuery = `UPDATE offers SET
		status = :status, is_private = :is_private, nonce = :nonce,
		escrow = :escrow, maker = :maker, taker = :taker,
		created_at = :created_at, updated_at = :updated_at
	WHERE id = :id`
	selectOfferQuery           = `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`
	selectOfferForUpdateQuery  = selectOfferQuery + ` FOR UPDATE`
	selectOfferBySequenceQuery = `SELECT ` + offerColumns + ` FROM offers WHERE sequence = $1`
	selectOffersInRangeQuery   = `SELECT ` + offerColumns +
		` FROM offers WHERE sequence BETWEEN $1 AND $2 ORDER BY sequence`
	selectAllOffersQuery        = `SELECT ` + offerColumns + ` FROM offers ORDER BY sequence`
	selectOffersByStatusQuery   = `SELECT ` + offerColumns + ` FROM offers WHERE status = $1 ORDER BY sequence`
	selectLastSequenceQuery     = `SELECT COALESCE(MAX(sequence), 0) FROM offers`
	offersPrimaryKeyConstraint  = "offers_pkey"
	offersSequenceKeyConstraint = "offers_sequence_key"
)

type offerRepositoryImpl struct {
	rm *repoManager
}

func (r offerRepositoryImpl) AddOffer(
	ctx context.Context, offer *domain.Offer,
) error {
	row, err := newOfferRow(*offer)
	if err != nil {
		return err
	}

	return r.rm.execTx(ctx, func(q sqlx.ExtContext) error {
		if _, err := sqlx.NamedExecContext(ctx, q, insertOfferQuery, row); err != nil {
			if isUniqueViolation(err, offersPrimaryKeyConstraint) {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateID, row.ID)
			}
			if isUniqueViolation(err, offersSequenceKeyConstraint) {
				return fmt.Errorf("offer sequence %d already assigned", offer.Sequence)
			}
			return err
		}
		return nil
	})
}

func (r offerRepositoryImpl) GetOffer(
	ctx context.Context, id common.Hash,
) (*domain.Offer, error) {
	return getOffer(ctx, r.rm.querier(ctx), selectOfferQuery, id.Hex())
}

func (r offerRepositoryImpl) GetOfferBySequence(
	ctx context.Context, sequence uint64,
) (*domain.Offer, error) {
	return getOffer(
		ctx, r.rm.querier(ctx), selectOfferBySequenceQuery, int64(sequence),
	)
}

func (r offerRepositoryImpl) GetOffersInRange(
	ctx context.Context, low, high uint64,
) ([]domain.Offer, error) {
	return r.selectOffers(
		ctx, selectOffersInRangeQuery, int64(low), int64(high),
	)
}

func (r offerRepositoryImpl) GetAllOffers(
	ctx context.Context, status *domain.OfferStatus,
) ([]domain.Offer, error) {
	if status != nil {
		return r.selectOffers(ctx, selectOffersByStatusQuery, status.String())
	}
	return r.selectOffers(ctx, selectAllOffersQuery)
}

func (r offerRepositoryImpl) LastSequence(ctx context.Context) (uint64, error) {
	var last int64
	if err := sqlx.GetContext(
		ctx, r.rm.querier(ctx), &last, selectLastSequenceQuery,
	); err != nil {
		return 0, err
	}
	return uint64(last), nil
}

func (r offerRepositoryImpl) UpdateOffer(
	ctx context.Context, id common.Hash,
	updateFn func(o *domain.Offer) (*domain.Offer, error),
) error {
	return r.rm.execTx(ctx, func(q sqlx.ExtContext) error {
		current, err := getOffer(ctx, q, selectOfferForUpdateQuery, id.Hex())
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

		row, err := newOfferRow(*updated)
		if err != nil {
			return err
		}
		_, err = sqlx.NamedExecContext(ctx, q, updateOfferQuery, row)
		return err
	})
}

func (r offerRepositoryImpl) selectOffers(
	ctx context.Context, query string, args ...interface{},
) ([]domain.Offer, error) {
	var rows []offerRow
	if err := sqlx.SelectContext(
		ctx, r.rm.querier(ctx), &rows, query, args...,
	); err != nil {
		return nil, err
	}

	offers := make([]domain.Offer, 0, len(rows))
	for _, row := range rows {
		offer, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}
	return offers, nil
}

func getOffer(
	ctx context.Context, q sqlx.QueryerContext, query string, arg interface{},
) (*domain.Offer, error) {
	var row offerRow
	if err := sqlx.GetContext(ctx, q, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnknownOffer, arg)
		}
		return nil, err
	}
	return row.toDomain()
}
