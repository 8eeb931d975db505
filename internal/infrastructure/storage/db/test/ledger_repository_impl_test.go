package db_test

import (
	"math/big"
	"testing"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/record"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepositoryImplementations(t *testing.T) {
	repoManagers := createRepoManagers(t)

	for i := range repoManagers {
		rm := repoManagers[i]

		t.Run(rm.name, func(t *testing.T) {
			t.Parallel()

			t.Run("testFeeAccounts", func(t *testing.T) {
				t.Parallel()
				testFeeAccounts(t, rm)
			})

			t.Run("testConsumedNonces", func(t *testing.T) {
				t.Parallel()
				testConsumedNonces(t, rm)
			})

			t.Run("testCrafts", func(t *testing.T) {
				t.Parallel()
				testCrafts(t, rm)
			})
		})
	}
}

func testFeeAccounts(t *testing.T, rm repoManager) {
	repo := rm.FeeRepository()

	account, err := repo.GetFeeAccount(ctx, domain.NativeCurrency)
	require.NoError(t, err)
	require.True(t, account.IsEmpty())
	require.Equal(t, domain.NativeCurrency, account.Currency)

	for _, amount := range []int64{25, 0, 75} {
		err := repo.UpdateFeeAccount(
			ctx, domain.NativeCurrency,
			func(f *domain.FeeAccount) (*domain.FeeAccount, error) {
				return f, f.Credit(big.NewInt(amount), randomTimestamp())
			},
		)
		require.NoError(t, err)
	}

	account, err = repo.GetFeeAccount(ctx, domain.NativeCurrency)
	require.NoError(t, err)
	require.Equal(t, "100", account.Balance.String())
	require.Equal(t, "100", account.TotalCollected.String())

	var withdrawn *big.Int
	err = repo.UpdateFeeAccount(
		ctx, domain.NativeCurrency,
		func(f *domain.FeeAccount) (*domain.FeeAccount, error) {
			withdrawn = f.Withdraw(randomTimestamp())
			return f, nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, "100", withdrawn.String())

	accounts, err := repo.GetAllFeeAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.True(t, accounts[0].IsEmpty())
	require.Equal(t, "100", accounts[0].TotalWithdrawn.String())
}

func testConsumedNonces(t *testing.T, rm repoManager) {
	repo := rm.NonceRepository()
	subject := randomHash()

	nonce := domain.NewConsumedNonce(
		subject, domain.ActionAccept, big.NewInt(0), randomTimestamp(),
	)

	consumed, err := repo.IsNonceConsumed(ctx, subject, domain.ActionAccept, nonce.Nonce)
	require.NoError(t, err)
	require.False(t, consumed)

	require.NoError(t, repo.ConsumeNonce(ctx, nonce))

	consumed, err = repo.IsNonceConsumed(ctx, subject, domain.ActionAccept, nonce.Nonce)
	require.NoError(t, err)
	require.True(t, consumed)

	consumed, err = repo.IsNonceConsumed(ctx, subject, domain.ActionCancel, nonce.Nonce)
	require.NoError(t, err)
	require.False(t, consumed)

	err = repo.ConsumeNonce(ctx, nonce)
	require.ErrorIs(t, err, domain.ErrReplayedNonce)

	other := domain.NewConsumedNonce(
		subject, domain.ActionCancel, big.NewInt(0), nonce.ConsumedAt+1,
	)
	require.NoError(t, repo.ConsumeNonce(ctx, other))

	nonces, err := repo.GetAllConsumedNonces(ctx)
	require.NoError(t, err)
	require.Len(t, nonces, 2)
	require.Equal(t, record.FromConsumedNonce(nonce), record.FromConsumedNonce(nonces[0]))
	require.Equal(t, record.FromConsumedNonce(other), record.FromConsumedNonce(nonces[1]))
}

func testCrafts(t *testing.T, rm repoManager) {
	repo := rm.CraftRepository()
	recipient := randomAddress()

	crafts := []*domain.Craft{
		makeRandomCraft(t, recipient),
		makeRandomCraft(t, recipient),
		makeRandomCraft(t, randomAddress()),
	}
	for _, c := range crafts {
		require.NoError(t, repo.AddCraft(ctx, c))
	}
	require.Error(t, repo.AddCraft(ctx, crafts[0]))

	got, err := repo.GetCraft(ctx, crafts[0].ID)
	require.NoError(t, err)
	require.Equal(t, record.FromCraft(*crafts[0]), record.FromCraft(*got))

	_, err = repo.GetCraft(ctx, "unknown")
	require.ErrorIs(t, err, domain.ErrUnknownCraft)

	byRecipient, err := repo.GetCraftsByRecipient(ctx, recipient)
	require.NoError(t, err)
	require.Len(t, byRecipient, 2)
	for _, c := range byRecipient {
		require.Equal(t, recipient, c.Recipient)
	}

	all, err := repo.GetAllCrafts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
