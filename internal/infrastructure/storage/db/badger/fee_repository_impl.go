package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/record"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

type feeRepositoryImpl struct {
	rm *repoManager
}

func (r feeRepositoryImpl) GetFeeAccount(
	ctx context.Context, currency string,
) (*domain.FeeAccount, error) {
	var account *domain.FeeAccount
	err := r.rm.view(ctx, func(tx *badger.Txn) (err error) {
		account, err = getFeeAccount(r.rm.store, tx, currency)
		return
	})
	return account, err
}

func (r feeRepositoryImpl) GetAllFeeAccounts(
	ctx context.Context,
) ([]domain.FeeAccount, error) {
	var rows []record.FeeAccount
	if err := r.rm.view(ctx, func(tx *badger.Txn) error {
		return r.rm.store.TxFind(tx, &rows, nil)
	}); err != nil {
		return nil, err
	}

	accounts := make([]domain.FeeAccount, 0, len(rows))
	for _, row := range rows {
		account, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Currency < accounts[j].Currency
	})
	return accounts, nil
}

func (r feeRepositoryImpl) UpdateFeeAccount(
	ctx context.Context, currency string,
	updateFn func(f *domain.FeeAccount) (*domain.FeeAccount, error),
) error {
	store := r.rm.store
	return r.rm.update(ctx, func(tx *badger.Txn) error {
		current, err := getFeeAccount(store, tx, currency)
		if err != nil {
			return err
		}

		updated, err := updateFn(current)
		if err != nil {
			return err
		}
		updated.Currency = currency

		return store.TxUpsert(tx, currency, record.FromFeeAccount(*updated))
	})
}

func getFeeAccount(
	store *badgerhold.Store, tx *badger.Txn, currency string,
) (*domain.FeeAccount, error) {
	var row record.FeeAccount
	if err := store.TxGet(tx, currency, &row); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.NewFeeAccount(currency), nil
		}
		return nil, err
	}
	return row.ToDomain()
}
