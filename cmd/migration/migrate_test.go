package main

import (
	"context"
	"math/big"
	"testing"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/inmemory"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	ctx      = context.Background()
	maker    = common.HexToAddress("0x1000000000000000000000000000000000000001")
	contract = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

func newPopulatedLedger(t *testing.T) ports.RepoManager {
	rm := inmemory.NewRepoManager()

	for i := int64(0); i < 3; i++ {
		offer, err := domain.NewOffer(domain.OfferTerms{
			Maker:     maker,
			MakerLegs: domain.Legs{domain.NewNativeLeg(big.NewInt(1))},
			TakerLegs: domain.Legs{domain.NewFungibleLeg(contract, big.NewInt(30))},
			Nonce:     big.NewInt(i),
		}, big.NewInt(10), common.Address{}, false)
		require.NoError(t, err)
		require.NoError(t, offer.Create(uint64(i+1), common.BigToAddress(big.NewInt(i+100)), 100))
		require.NoError(t, rm.OfferRepository().AddOffer(ctx, offer))
	}

	require.NoError(t, rm.FeeRepository().UpdateFeeAccount(
		ctx, domain.NativeCurrency,
		func(f *domain.FeeAccount) (*domain.FeeAccount, error) {
			if err := f.Credit(big.NewInt(30), 100); err != nil {
				return nil, err
			}
			return f, nil
		},
	))

	require.NoError(t, rm.NonceRepository().ConsumeNonce(ctx, domain.NewConsumedNonce(
		common.HexToHash("0x01"), domain.ActionCancel, big.NewInt(1), 100,
	)))

	craft, err := domain.NewCraft(
		big.NewInt(7), maker,
		domain.Legs{domain.NewFungibleLeg(contract, big.NewInt(5))}, nil,
	)
	require.NoError(t, err)
	require.NoError(t, rm.CraftRepository().AddCraft(ctx, craft))

	return rm
}

func TestMigrate(t *testing.T) {
	src := newPopulatedLedger(t)
	dst := inmemory.NewRepoManager()

	report, err := migrate(ctx, src, dst)
	require.NoError(t, err)
	require.Equal(t, &migrationReport{offers: 3, feeAccounts: 1, nonces: 1, crafts: 1}, report)

	lastSequence, err := dst.OfferRepository().LastSequence(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(3), lastSequence)

	srcOffers, err := src.OfferRepository().GetAllOffers(ctx, nil)
	require.NoError(t, err)
	dstOffers, err := dst.OfferRepository().GetAllOffers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, dstOffers, len(srcOffers))
	for i, o := range srcOffers {
		require.Equal(t, o.ID, dstOffers[i].ID)
		require.Equal(t, o.Sequence, dstOffers[i].Sequence)
		require.Equal(t, o.Status, dstOffers[i].Status)
		require.Equal(t, o.Escrow, dstOffers[i].Escrow)
	}

	fees, err := dst.FeeRepository().GetFeeAccount(ctx, domain.NativeCurrency)
	require.NoError(t, err)
	require.Equal(t, int64(30), fees.Balance.Int64())

	consumed, err := dst.NonceRepository().IsNonceConsumed(
		ctx, common.HexToHash("0x01"), domain.ActionCancel, big.NewInt(1),
	)
	require.NoError(t, err)
	require.True(t, consumed)

	crafts, err := dst.CraftRepository().GetCraftsByRecipient(ctx, maker)
	require.NoError(t, err)
	require.Len(t, crafts, 1)
}

func TestMigrateToNonEmptyLedger(t *testing.T) {
	src := newPopulatedLedger(t)
	dst := newPopulatedLedger(t)

	_, err := migrate(ctx, src, dst)
	require.EqualError(t, err, "destination ledger is not empty")
}

func TestMigrateToPartiallyFilledLedger(t *testing.T) {
	tests := []struct {
		name string
		fill func(t *testing.T, rm ports.RepoManager)
	}{
		{
			name: "offers",
			fill: func(t *testing.T, rm ports.RepoManager) {
				offer, err := domain.NewOffer(domain.OfferTerms{
					Maker:     maker,
					MakerLegs: domain.Legs{domain.NewNativeLeg(big.NewInt(1))},
					TakerLegs: domain.Legs{domain.NewNativeLeg(big.NewInt(2))},
					Nonce:     big.NewInt(0),
				}, big.NewInt(10), common.Address{}, false)
				require.NoError(t, err)
				require.NoError(t, offer.Create(1, contract, 100))
				require.NoError(t, rm.OfferRepository().AddOffer(ctx, offer))
			},
		},
		{
			name: "fee accounts",
			fill: func(t *testing.T, rm ports.RepoManager) {
				require.NoError(t, rm.FeeRepository().UpdateFeeAccount(
					ctx, domain.NativeCurrency,
					func(f *domain.FeeAccount) (*domain.FeeAccount, error) {
						if err := f.Credit(big.NewInt(5), 100); err != nil {
							return nil, err
						}
						return f, nil
					},
				))
			},
		},
		{
			name: "consumed nonces",
			fill: func(t *testing.T, rm ports.RepoManager) {
				require.NoError(t, rm.NonceRepository().ConsumeNonce(ctx, domain.NewConsumedNonce(
					common.HexToHash("0x02"), domain.ActionCancel, big.NewInt(1), 100,
				)))
			},
		},
		{
			name: "crafts",
			fill: func(t *testing.T, rm ports.RepoManager) {
				craft, err := domain.NewCraft(
					big.NewInt(9), maker,
					domain.Legs{domain.NewFungibleLeg(contract, big.NewInt(1))}, nil,
				)
				require.NoError(t, err)
				require.NoError(t, rm.CraftRepository().AddCraft(ctx, craft))
			},
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			src := newPopulatedLedger(t)
			dst := inmemory.NewRepoManager()
			tt.fill(t, dst)

			_, err := migrate(ctx, src, dst)
			require.EqualError(t, err, "destination ledger is not empty")

			// dst is left untouched
			nonces, err := dst.NonceRepository().GetAllConsumedNonces(ctx)
			require.NoError(t, err)
			crafts, err := dst.CraftRepository().GetAllCrafts(ctx)
			require.NoError(t, err)
			require.LessOrEqual(t, len(nonces)+len(crafts), 1)
		})
	}
}
