package domain_test

import (
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestFeeAccount(t *testing.T) {
	now := time.Now().Unix()
	account := domain.NewFeeAccount(domain.NativeCurrency)
	require.True(t, account.IsEmpty())

	require.NoError(t, account.Credit(big.NewInt(10), now))
	require.NoError(t, account.Credit(big.NewInt(3), now))
	require.Error(t, account.Credit(big.NewInt(-1), now))
	require.Equal(t, big.NewInt(13), account.Balance)
	require.Equal(t, big.NewInt(13), account.TotalCollected)

	amount := account.Withdraw(now)
	require.Equal(t, big.NewInt(13), amount)
	require.True(t, account.IsEmpty())
	require.Equal(t, big.NewInt(13), account.TotalWithdrawn)

	amount = account.Withdraw(now)
	require.Zero(t, amount.Sign())
	require.Equal(t, big.NewInt(13), account.TotalWithdrawn)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err          error
		expectedKind string
	}{
		{nil, ""},
		{errors.New("boom"), "Internal"},
		{domain.ErrUnknownOffer, "UnknownOffer"},
		{fmt.Errorf("accept: %w", domain.ErrInvalidStateTransition), "InvalidStateTransition"},
		{fmt.Errorf("%w: got 1", domain.ErrValueMismatch), "ValueMismatch"},
		{domain.ErrReplayedNonce, "ReplayedNonce"},
		{domain.ErrDuplicateID, "DuplicateId"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expectedKind, domain.ErrorKind(tt.err))
	}
}

func TestNewCraft(t *testing.T) {
	contract := randomAddress()
	rewards := domain.Legs{domain.NewNonFungibleLeg(contract, big.NewInt(1))}

	craft, err := domain.NewCraft(big.NewInt(1), randomAddress(), rewards, big.NewInt(0))
	require.NoError(t, err)
	require.NotEmpty(t, craft.ID)
	require.Equal(t, domain.CraftSubject(craft.RewardID, craft.Recipient, rewards), craft.Subject())

	_, err = domain.NewCraft(
		big.NewInt(1), randomAddress(), domain.Legs{domain.NewNativeLeg(big.NewInt(1))}, nil,
	)
	require.ErrorIs(t, err, domain.ErrInvalidTerms)

	_, err = domain.NewCraft(big.NewInt(1), randomAddress(), nil, nil)
	require.ErrorIs(t, err, domain.ErrInvalidTerms)
}
