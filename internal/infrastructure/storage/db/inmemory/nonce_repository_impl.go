package inmemory

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
)

type nonceRepositoryImpl struct {
	rm *RepoManager
}

func (r nonceRepositoryImpl) IsNonceConsumed(
	ctx context.Context, subject common.Hash, action domain.Action, nonce *big.Int,
) (bool, error) {
	var consumed bool
	err := r.rm.read(ctx, func(l *ledger) error {
		_, consumed = l.nonces.get(domain.NonceKey(subject, action, nonce))
		return nil
	})
	return consumed, err
}

func (r nonceRepositoryImpl) ConsumeNonce(
	ctx context.Context, nonce domain.ConsumedNonce,
) error {
	return r.rm.write(ctx, func(l *ledger) error {
		if _, ok := l.nonces.get(nonce.Key); ok {
			return fmt.Errorf("%w: %s", domain.ErrReplayedNonce, nonce.Key)
		}
		l.nonces.put(nonce.Key, nonce)
		return nil
	})
}

func (r nonceRepositoryImpl) GetAllConsumedNonces(
	ctx context.Context,
) ([]domain.ConsumedNonce, error) {
	nonces := make([]domain.ConsumedNonce, 0)
	err := r.rm.read(ctx, func(l *ledger) error {
		l.nonces.forEach(func(_ string, n domain.ConsumedNonce) {
			nonces = append(nonces, n)
		})
		return nil
	})
	sort.Slice(nonces, func(i, j int) bool {
		return nonces[i].ConsumedAt < nonces[j].ConsumedAt ||
			(nonces[i].ConsumedAt == nonces[j].ConsumedAt && nonces[i].Key < nonces[j].Key)
	})
	return nonces, err
}
