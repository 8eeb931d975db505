package db_test

import (
	"context"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	dbbadger "github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/badger"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/inmemory"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type repoManager struct {
	name string
	ports.RepoManager
}

func createRepoManagers(t *testing.T) []repoManager {
	inmemoryRm := inmemory.NewRepoManager()

	badgerInMemoryRm, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	badgerRm, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		inmemoryRm.Close()
		badgerInMemoryRm.Close()
		badgerRm.Close()
	})

	return []repoManager{
		{"inmemory", inmemoryRm},
		{"badger_inmemory", badgerInMemoryRm},
		{"badger", badgerRm},
	}
}

func makeRandomOffer(t *testing.T, sequence uint64) *domain.Offer {
	terms := domain.OfferTerms{
		Maker: randomAddress(),
		MakerLegs: domain.Legs{
			domain.NewNativeLeg(big.NewInt(1000)),
			domain.NewNonFungibleLeg(randomAddress(), randomWord(), randomWord()),
		},
		TakerLegs: domain.Legs{
			domain.NewFungibleLeg(randomAddress(), randomWord()),
			domain.NewSemiFungibleLeg(
				randomAddress(),
				[]*big.Int{big.NewInt(0), big.NewInt(7)},
				[]*big.Int{big.NewInt(3), big.NewInt(0)},
			),
		},
		Nonce: big.NewInt(0),
	}
	offer, err := domain.NewOffer(terms, big.NewInt(25), randomAddress(), true)
	require.NoError(t, err)
	require.NoError(t, offer.Create(sequence, randomAddress(), randomTimestamp()))
	return offer
}

func makeRandomCraft(t *testing.T, recipient common.Address) *domain.Craft {
	craft, err := domain.NewCraft(
		randomWord(), recipient,
		domain.Legs{domain.NewSemiFungibleLeg(
			randomAddress(), []*big.Int{randomWord()}, []*big.Int{big.NewInt(2)},
		)},
		randomWord(),
	)
	require.NoError(t, err)
	craft.Authorizer = randomAddress()
	craft.CraftedAt = randomTimestamp()
	return craft
}

func randomAddress() common.Address {
	return common.BytesToAddress(randomBytes(20))
}

func randomHash() common.Hash {
	return common.BytesToHash(randomBytes(32))
}

func randomWord() *big.Int {
	return new(big.Int).SetBytes(randomBytes(32))
}

func randomTimestamp() int64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(662688000))
	return n.Int64() + 1000000000
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}
