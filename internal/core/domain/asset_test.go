package domain_test

import (
	"math/big"
	"testing"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestAssetLegValidate(t *testing.T) {
	contract := randomAddress()
	overflow := new(big.Int).Lsh(big.NewInt(1), 256)

	t.Run("valid", func(t *testing.T) {
		legs := domain.Legs{
			domain.NewNativeLeg(big.NewInt(0)),
			domain.NewNativeLeg(big.NewInt(1)),
			domain.NewFungibleLeg(contract, big.NewInt(50)),
			domain.NewNonFungibleLeg(contract, big.NewInt(1), big.NewInt(2)),
			domain.NewSemiFungibleLeg(
				contract,
				[]*big.Int{big.NewInt(1), big.NewInt(1)},
				[]*big.Int{big.NewInt(5), big.NewInt(7)},
			),
		}
		require.NoError(t, legs.Validate())
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			leg  domain.AssetLeg
		}{
			{
				name: "unknown_standard",
				leg:  domain.AssetLeg{Standard: domain.Standard(9)},
			},
			{
				name: "native_with_contract",
				leg: domain.AssetLeg{
					Standard: domain.Native,
					Contract: contract,
					IDs:      []*big.Int{big.NewInt(0)},
					Amounts:  []*big.Int{big.NewInt(1)},
				},
			},
			{
				name: "native_negative_amount",
				leg:  domain.NewNativeLeg(big.NewInt(-1)),
			},
			{
				name: "fungible_without_contract",
				leg:  domain.NewFungibleLeg(common.Address{}, big.NewInt(1)),
			},
			{
				name: "fungible_nonzero_id",
				leg: domain.AssetLeg{
					Standard: domain.Fungible,
					Contract: contract,
					IDs:      []*big.Int{big.NewInt(3)},
					Amounts:  []*big.Int{big.NewInt(1)},
				},
			},
			{
				name: "fungible_overflow",
				leg:  domain.NewFungibleLeg(contract, overflow),
			},
			{
				name: "non_fungible_without_ids",
				leg:  domain.NewNonFungibleLeg(contract),
			},
			{
				name: "non_fungible_duplicated_ids",
				leg:  domain.NewNonFungibleLeg(contract, big.NewInt(1), big.NewInt(1)),
			},
			{
				name: "non_fungible_null_id",
				leg:  domain.NewNonFungibleLeg(contract, nil),
			},
			{
				name: "semi_fungible_length_mismatch",
				leg: domain.NewSemiFungibleLeg(
					contract, []*big.Int{big.NewInt(1)}, nil,
				),
			},
		}

		for i := range tests {
			tt := tests[i]
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				err := tt.leg.Validate()
				require.ErrorIs(t, err, domain.ErrInvalidLeg)
			})
		}
	})
}

func TestLegsNativeTotal(t *testing.T) {
	legs := domain.Legs{
		domain.NewNativeLeg(big.NewInt(1)),
		domain.NewFungibleLeg(randomAddress(), big.NewInt(50)),
		domain.NewNativeLeg(big.NewInt(4)),
	}
	require.Equal(t, big.NewInt(5), legs.NativeTotal())
	require.Equal(t, big.NewInt(0), domain.Legs{}.NativeTotal())
}

func TestParseStandard(t *testing.T) {
	for _, s := range []domain.Standard{
		domain.Native, domain.Fungible, domain.NonFungible, domain.SemiFungibleBatch,
	} {
		parsed, err := domain.ParseStandard(s.String())
		require.NoError(t, err)
		require.Equal(t, s, parsed)
	}

	_, err := domain.ParseStandard("erc404")
	require.ErrorIs(t, err, domain.ErrInvalidLeg)
}
