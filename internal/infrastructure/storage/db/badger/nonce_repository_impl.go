package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/record"
	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/timshannon/badgerhold/v4"
)

type nonceRepositoryImpl struct {
	rm *repoManager
}

func (r nonceRepositoryImpl) IsNonceConsumed(
	ctx context.Context, subject common.Hash, action domain.Action, nonce *big.Int,
) (bool, error) {
	consumed := true
	err := r.rm.view(ctx, func(tx *badger.Txn) error {
		var row record.ConsumedNonce
		err := r.rm.store.TxGet(tx, domain.NonceKey(subject, action, nonce), &row)
		if errors.Is(err, badgerhold.ErrNotFound) {
			consumed = false
			return nil
		}
		return err
	})
	return consumed, err
}

func (r nonceRepositoryImpl) ConsumeNonce(
	ctx context.Context, nonce domain.ConsumedNonce,
) error {
	return r.rm.update(ctx, func(tx *badger.Txn) error {
		err := r.rm.store.TxInsert(tx, nonce.Key, record.FromConsumedNonce(nonce))
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("%w: %s", domain.ErrReplayedNonce, nonce.Key)
		}
		return err
	})
}

func (r nonceRepositoryImpl) GetAllConsumedNonces(
	ctx context.Context,
) ([]domain.ConsumedNonce, error) {
	var rows []record.ConsumedNonce
	if err := r.rm.view(ctx, func(tx *badger.Txn) error {
		return r.rm.store.TxFind(tx, &rows, nil)
	}); err != nil {
		return nil, err
	}

	nonces := make([]domain.ConsumedNonce, 0, len(rows))
	for _, row := range rows {
		n, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		nonces = append(nonces, *n)
	}
	sort.Slice(nonces, func(i, j int) bool {
		return nonces[i].ConsumedAt < nonces[j].ConsumedAt ||
			(nonces[i].ConsumedAt == nonces[j].ConsumedAt && nonces[i].Key < nonces[j].Key)
	})
	return nonces, nil
}
