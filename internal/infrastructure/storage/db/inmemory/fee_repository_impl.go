package inmemory

import (
	"context"
	"sort"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
)

type feeRepositoryImpl struct {
	rm *RepoManager
}

func (r feeRepositoryImpl) GetFeeAccount(
	ctx context.Context, currency string,
) (*domain.FeeAccount, error) {
	var account *domain.FeeAccount
	err := r.rm.read(ctx, func(l *ledger) error {
		account = getFeeAccount(l, currency)
		return nil
	})
	return account, err
}

func (r feeRepositoryImpl) GetAllFeeAccounts(
	ctx context.Context,
) ([]domain.FeeAccount, error) {
	accounts := make([]domain.FeeAccount, 0)
	err := r.rm.read(ctx, func(l *ledger) error {
		l.fees.forEach(func(_ string, a domain.FeeAccount) {
			accounts = append(accounts, *a.Clone())
		})
		return nil
	})
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Currency < accounts[j].Currency
	})
	return accounts, err
}

func (r feeRepositoryImpl) UpdateFeeAccount(
	ctx context.Context, currency string,
	updateFn func(f *domain.FeeAccount) (*domain.FeeAccount, error),
) error {
	return r.rm.write(ctx, func(l *ledger) error {
		updated, err := updateFn(getFeeAccount(l, currency))
		if err != nil {
			return err
		}
		updated.Currency = currency
		l.fees.put(currency, *updated.Clone())
		return nil
	})
}

func getFeeAccount(l *ledger, currency string) *domain.FeeAccount {
	if account, ok := l.fees.get(currency); ok {
		return account.Clone()
	}
	return domain.NewFeeAccount(currency)
}
