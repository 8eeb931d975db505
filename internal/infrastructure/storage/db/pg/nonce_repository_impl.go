package postgresdb

import (
	"context"
	"fmt"
	"math/big"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
)

const (
	selectNonceConsumedQuery = `SELECT EXISTS(SELECT 1 FROM consumed_nonces WHERE key = $1)`
	insertNonceQuery         = `INSERT INTO consumed_nonces (` + nonceColumns + `) VALUES (
		:key, :subject, :action, :nonce, :consumed_at
	)`
	selectAllNoncesQuery = `SELECT ` + nonceColumns +
		` FROM consumed_nonces ORDER BY consumed_at, key`
)

type nonceRepositoryImpl struct {
	rm *repoManager
}

func (r nonceRepositoryImpl) IsNonceConsumed(
	ctx context.Context, subject common.Hash, action domain.Action, nonce *big.Int,
) (bool, error) {
	var consumed bool
	err := sqlx.GetContext(
		ctx, r.rm.querier(ctx), &consumed, selectNonceConsumedQuery,
		domain.NonceKey(subject, action, nonce),
	)
	return consumed, err
}

func (r nonceRepositoryImpl) ConsumeNonce(
	ctx context.Context, nonce domain.ConsumedNonce,
) error {
	if _, err := sqlx.NamedExecContext(
		ctx, r.rm.querier(ctx), insertNonceQuery, newNonceRow(nonce),
	); err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: %s", domain.ErrReplayedNonce, nonce.Key)
		}
		return err
	}
	return nil
}

func (r nonceRepositoryImpl) GetAllConsumedNonces(
	ctx context.Context,
) ([]domain.ConsumedNonce, error) {
	var rows []nonceRow
	if err := sqlx.SelectContext(
		ctx, r.rm.querier(ctx), &rows, selectAllNoncesQuery,
	); err != nil {
		return nil, err
	}

	nonces := make([]domain.ConsumedNonce, 0, len(rows))
	for _, row := range rows {
		n, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		nonces = append(nonces, *n)
	}
	return nonces, nil
}
