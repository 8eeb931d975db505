package domain_test

import (
	"math/big"
	"testing"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	terms := newTerms()

	id, err := domain.Fingerprint(terms)
	require.NoError(t, err)
	require.NotEqual(t, common.Hash{}, id)

	t.Run("deterministic", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			otherID, err := domain.Fingerprint(terms)
			require.NoError(t, err)
			require.Equal(t, id, otherID)
		}
	})

	t.Run("ignores_origin_tag", func(t *testing.T) {
		tagged := cloneTerms(terms)
		tagged.MakerLegs[0].OriginTag = 137
		otherID, err := domain.Fingerprint(tagged)
		require.NoError(t, err)
		require.Equal(t, id, otherID)
	})

	t.Run("changes_with_terms", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(t *domain.OfferTerms)
		}{
			{"maker", func(t *domain.OfferTerms) { t.Maker = randomAddress() }},
			{"nonce", func(t *domain.OfferTerms) { t.Nonce = big.NewInt(2) }},
			{"maker_amount", func(t *domain.OfferTerms) {
				t.MakerLegs[1].Amounts[0] = big.NewInt(51)
			}},
			{"taker_contract", func(t *domain.OfferTerms) {
				t.TakerLegs[0].Contract = randomAddress()
			}},
			{"legs_swapped", func(t *domain.OfferTerms) {
				t.MakerLegs, t.TakerLegs = t.TakerLegs, t.MakerLegs
			}},
			{"leg_moved_to_taker", func(t *domain.OfferTerms) {
				t.TakerLegs = append(domain.Legs{t.MakerLegs[1]}, t.TakerLegs...)
				t.MakerLegs = t.MakerLegs[:1]
			}},
		}

		for i := range tests {
			tt := tests[i]
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				mutated := cloneTerms(terms)
				tt.mutate(&mutated)
				otherID, err := domain.Fingerprint(mutated)
				require.NoError(t, err)
				require.NotEqual(t, id, otherID)
			})
		}
	})

	t.Run("invalid_terms", func(t *testing.T) {
		invalid := cloneTerms(terms)
		invalid.MakerLegs[1].Amounts = append(invalid.MakerLegs[1].Amounts, big.NewInt(1))
		_, err := domain.Fingerprint(invalid)
		require.ErrorIs(t, err, domain.ErrInvalidLeg)
	})
}

func TestPredictEscrowAddress(t *testing.T) {
	deployer := randomAddress()
	templateHash := domain.EscrowTemplateHash(domain.DefaultEscrowTemplate)
	id, err := domain.Fingerprint(newTerms())
	require.NoError(t, err)

	addr := domain.PredictEscrowAddress(deployer, templateHash, id)
	require.Equal(t, addr, domain.PredictEscrowAddress(deployer, templateHash, id))

	expected := common.BytesToAddress(crypto.Keccak256(
		[]byte{0xff}, deployer.Bytes(), id.Bytes(), templateHash.Bytes(),
	)[12:])
	require.Equal(t, expected, addr)

	otherTemplate := domain.EscrowTemplateHash("other")
	require.NotEqual(t, addr, domain.PredictEscrowAddress(deployer, otherTemplate, id))
	require.NotEqual(t, addr, domain.PredictEscrowAddress(randomAddress(), templateHash, id))
}

func TestCraftSubject(t *testing.T) {
	recipient := randomAddress()
	rewards := domain.Legs{
		domain.NewSemiFungibleLeg(
			randomAddress(),
			[]*big.Int{big.NewInt(1), big.NewInt(2)},
			[]*big.Int{big.NewInt(5), big.NewInt(1)},
		),
	}

	subject := domain.CraftSubject(big.NewInt(7), recipient, rewards)
	require.Equal(t, subject, domain.CraftSubject(big.NewInt(7), recipient, rewards))
	require.NotEqual(t, subject, domain.CraftSubject(big.NewInt(8), recipient, rewards))
	require.NotEqual(t, subject, domain.CraftSubject(big.NewInt(7), randomAddress(), rewards))
}

func cloneTerms(t domain.OfferTerms) domain.OfferTerms {
	return domain.OfferTerms{
		Maker:     t.Maker,
		MakerLegs: t.MakerLegs.Clone(),
		TakerLegs: t.TakerLegs.Clone(),
		Nonce:     new(big.Int).Set(t.Nonce),
	}
}
