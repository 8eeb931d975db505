package postgresdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

const (
	selectFeeAccountQuery          = `SELECT ` + feeColumns + ` FROM fee_accounts WHERE currency = $1`
	selectFeeAccountForUpdateQuery = selectFeeAccountQuery + ` FOR UPDATE`
	selectAllFeeAccountsQuery      = `SELECT ` + feeColumns + ` FROM fee_accounts ORDER BY currency`
	upsertFeeAccountQuery          = `INSERT INTO fee_accounts (` + feeColumns + `) VALUES (
		:currency, :balance, :total_collected, :total_withdrawn, :updated_at
	) ON CONFLICT (currency) DO UPDATE SET
		balance = EXCLUDED.balance,
		total_collected = EXCLUDED.total_collected,
		total_withdrawn = EXCLUDED.total_withdrawn,
		updated_at = EXCLUDED.updated_at`
)

type feeRepositoryImpl struct {
	rm *repoManager
}

func (r feeRepositoryImpl) GetFeeAccount(
	ctx context.Context, currency string,
) (*domain.FeeAccount, error) {
	return getFeeAccount(ctx, r.rm.querier(ctx), selectFeeAccountQuery, currency)
}

func (r feeRepositoryImpl) GetAllFeeAccounts(
	ctx context.Context,
) ([]domain.FeeAccount, error) {
	var rows []feeAccountRow
	if err := sqlx.SelectContext(
		ctx, r.rm.querier(ctx), &rows, selectAllFeeAccountsQuery,
	); err != nil {
		return nil, err
	}

	accounts := make([]domain.FeeAccount, 0, len(rows))
	for _, row := range rows {
		account, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, nil
}

func (r feeRepositoryImpl) UpdateFeeAccount(
	ctx context.Context, currency string,
	updateFn func(f *domain.FeeAccount) (*domain.FeeAccount, error),
) error {
	return r.rm.execTx(ctx, func(q sqlx.ExtContext) error {
		current, err := getFeeAccount(
			ctx, q, selectFeeAccountForUpdateQuery, currency,
		)
		if err != nil {
			return err
		}

		updated, err := updateFn(current)
		if err != nil {
			return err
		}
		updated.Currency = currency

		_, err = sqlx.NamedExecContext(
			ctx, q, upsertFeeAccountQuery, newFeeAccountRow(*updated),
		)
		return err
	})
}

func getFeeAccount(
	ctx context.Context, q sqlx.QueryerContext, query, currency string,
) (*domain.FeeAccount, error) {
	var row feeAccountRow
	if err := sqlx.GetContext(ctx, q, &row, query, currency); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewFeeAccount(currency), nil
		}
		return nil, err
	}
	return row.toDomain()
}
