package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/record"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/storageutil/uow"
	"github.com/stretchr/testify/require"
)

func TestOfferRepositoryImplementations(t *testing.T) {
	repoManagers := createRepoManagers(t)

	for i := range repoManagers {
		rm := repoManagers[i]

		t.Run(rm.name, func(t *testing.T) {
			t.Run("testAddGetOffer", func(t *testing.T) {
				testAddGetOffer(t, rm)
			})

			t.Run("testGetOffersBySequence", func(t *testing.T) {
				testGetOffersBySequence(t, rm)
			})

			t.Run("testUpdateOffer", func(t *testing.T) {
				testUpdateOffer(t, rm)
			})

			t.Run("testWriteRollback", func(t *testing.T) {
				testWriteRollback(t, rm)
			})
		})
	}
}

func testAddGetOffer(t *testing.T, rm repoManager) {
	repo := rm.OfferRepository()
	offer := makeRandomOffer(t, 1)

	got, err := repo.GetOffer(ctx, offer.ID)
	require.ErrorIs(t, err, domain.ErrUnknownOffer)
	require.Nil(t, got)

	err = repo.AddOffer(ctx, offer)
	require.NoError(t, err)

	got, err = repo.GetOffer(ctx, offer.ID)
	require.NoError(t, err)
	requireEqualOffers(t, *offer, *got)

	id, err := domain.Fingerprint(got.Terms())
	require.NoError(t, err)
	require.Equal(t, offer.ID, id)

	duplicated := offer.Clone()
	duplicated.Sequence = 2
	err = repo.AddOffer(ctx, duplicated)
	require.ErrorIs(t, err, domain.ErrDuplicateID)

	last, err := repo.LastSequence(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), last)
}

func testGetOffersBySequence(t *testing.T, rm repoManager) {
	repo := rm.OfferRepository()

	last, err := repo.LastSequence(ctx)
	require.NoError(t, err)

	offers := make([]domain.Offer, 0, 5)
	for i := uint64(1); i <= 5; i++ {
		offer := makeRandomOffer(t, last+i)
		require.NoError(t, repo.AddOffer(ctx, offer))
		offers = append(offers, *offer)
	}

	got, err := repo.GetOfferBySequence(ctx, last+3)
	require.NoError(t, err)
	requireEqualOffers(t, offers[2], *got)

	_, err = repo.GetOfferBySequence(ctx, last+100)
	require.ErrorIs(t, err, domain.ErrUnknownOffer)

	inRange, err := repo.GetOffersInRange(ctx, last+2, last+4)
	require.NoError(t, err)
	require.Len(t, inRange, 3)
	for i, o := range inRange {
		requireEqualOffers(t, offers[i+1], o)
	}

	inRange, err = repo.GetOffersInRange(ctx, last+4, last+1000)
	require.NoError(t, err)
	require.Len(t, inRange, 2)

	newLast, err := repo.LastSequence(ctx)
	require.NoError(t, err)
	require.Equal(t, last+5, newLast)

	all, err := repo.GetAllOffers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, int(newLast))
	for i := 1; i < len(all); i++ {
		require.Less(t, all[i-1].Sequence, all[i].Sequence)
	}
}

func testUpdateOffer(t *testing.T, rm repoManager) {
	repo := rm.OfferRepository()

	last, err := repo.LastSequence(ctx)
	require.NoError(t, err)

	offer := makeRandomOffer(t, last+1)
	require.NoError(t, repo.AddOffer(ctx, offer))

	status := domain.OfferStatusCompleted
	completed, err := repo.GetAllOffers(ctx, &status)
	require.NoError(t, err)
	require.Empty(t, completed)

	taker := offer.Taker.Address
	err = repo.UpdateOffer(ctx, offer.ID, func(o *domain.Offer) (*domain.Offer, error) {
		if err := o.Accept(taker, offer.Maker.Fee, o.CreatedAt+1); err != nil {
			return nil, err
		}
		return o, nil
	})
	require.NoError(t, err)

	got, err := repo.GetOffer(ctx, offer.ID)
	require.NoError(t, err)
	require.True(t, got.IsCompleted())
	require.True(t, got.Taker.Settled)
	require.Equal(t, offer.Maker.Fee.String(), got.Taker.Fee.String())

	completed, err = repo.GetAllOffers(ctx, &status)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	requireEqualOffers(t, *got, completed[0])

	err = repo.UpdateOffer(ctx, offer.ID, func(o *domain.Offer) (*domain.Offer, error) {
		if err := o.Cancel(o.CreatedAt + 2); err != nil {
			return nil, err
		}
		return o, nil
	})
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	err = repo.UpdateOffer(ctx, offer.ID, func(o *domain.Offer) (*domain.Offer, error) {
		o.Sequence++
		return o, nil
	})
	require.Error(t, err)

	err = repo.UpdateOffer(ctx, randomHash(), func(o *domain.Offer) (*domain.Offer, error) {
		return o, nil
	})
	require.ErrorIs(t, err, domain.ErrUnknownOffer)
}

func testWriteRollback(t *testing.T, rm repoManager) {
	last, err := rm.OfferRepository().LastSequence(ctx)
	require.NoError(t, err)

	offer := makeRandomOffer(t, last+1)
	nonce := domain.NewConsumedNonce(
		offer.ID, domain.ActionCreate, offer.Nonce, offer.CreatedAt,
	)

	err = uow.NewUnitOfWork(rm.RepoManager).Run(ctx, func(ctx context.Context) error {
		if err := rm.OfferRepository().AddOffer(ctx, offer); err != nil {
			return err
		}
		if err := rm.NonceRepository().ConsumeNonce(ctx, nonce); err != nil {
			return err
		}
		if err := rm.FeeRepository().UpdateFeeAccount(
			ctx, domain.NativeCurrency,
			func(f *domain.FeeAccount) (*domain.FeeAccount, error) {
				return f, f.Credit(offer.Maker.Fee, offer.CreatedAt)
			},
		); err != nil {
			return err
		}

		got, err := rm.OfferRepository().GetOffer(ctx, offer.ID)
		if err != nil {
			return err
		}
		return fmt.Errorf("rollback offer %s", got.ID.Hex())
	})
	require.Error(t, err)

	_, err = rm.OfferRepository().GetOffer(ctx, offer.ID)
	require.ErrorIs(t, err, domain.ErrUnknownOffer)

	newLast, err := rm.OfferRepository().LastSequence(ctx)
	require.NoError(t, err)
	require.Equal(t, last, newLast)

	consumed, err := rm.NonceRepository().IsNonceConsumed(
		ctx, offer.ID, domain.ActionCreate, offer.Nonce,
	)
	require.NoError(t, err)
	require.False(t, consumed)

	account, err := rm.FeeRepository().GetFeeAccount(ctx, domain.NativeCurrency)
	require.NoError(t, err)
	require.True(t, account.IsEmpty())
}

func requireEqualOffers(t *testing.T, expected, actual domain.Offer) {
	require.Equal(t, record.FromOffer(expected), record.FromOffer(actual))
}
