package inmemory

import (
	"context"
	"sync"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/storageutil/uow"
	"github.com/ethereum/go-ethereum/common"
)

// table is a map that can be layered over a parent one. Lookups fall back
// to the parent, writes only touch the top layer. Entries are never deleted.
type table[K comparable, V any] struct {
	entries map[K]V
	parent  *table[K, V]
}

func newTable[K comparable, V any](parent *table[K, V]) *table[K, V] {
	return &table[K, V]{make(map[K]V), parent}
}

func (t *table[K, V]) get(key K) (V, bool) {
	if v, ok := t.entries[key]; ok {
		return v, true
	}
	if t.parent != nil {
		return t.parent.get(key)
	}
	var zero V
	return zero, false
}

func (t *table[K, V]) put(key K, value V) {
	t.entries[key] = value
}

// forEach visits every entry once, the top layer shadowing the parent.
func (t *table[K, V]) forEach(fn func(K, V)) {
	for k, v := range t.entries {
		fn(k, v)
	}
	if t.parent == nil {
		return
	}
	t.parent.forEach(func(k K, v V) {
		if _, ok := t.entries[k]; !ok {
			fn(k, v)
		}
	})
}

// merge writes the top layer into the parent.
func (t *table[K, V]) merge() {
	for k, v := range t.entries {
		t.parent.entries[k] = v
	}
}

type ledger struct {
	offers       *table[common.Hash, domain.Offer]
	sequences    *table[uint64, common.Hash]
	lastSequence uint64
	fees         *table[string, domain.FeeAccount]
	nonces       *table[string, domain.ConsumedNonce]
	crafts       *table[string, domain.Craft]
}

func newLedger() *ledger {
	return &ledger{
		offers:    newTable[common.Hash, domain.Offer](nil),
		sequences: newTable[uint64, common.Hash](nil),
		fees:      newTable[string, domain.FeeAccount](nil),
		nonces:    newTable[string, domain.ConsumedNonce](nil),
		crafts:    newTable[string, domain.Craft](nil),
	}
}

// stage returns an empty ledger layered over l. It costs nothing up front
// and holds only what the transaction writes.
func (l *ledger) stage() *ledger {
	return &ledger{
		offers:       newTable(l.offers),
		sequences:    newTable(l.sequences),
		lastSequence: l.lastSequence,
		fees:         newTable(l.fees),
		nonces:       newTable(l.nonces),
		crafts:       newTable(l.crafts),
	}
}

// mergeInto applies the changes of a staged ledger to the one it's layered
// over.
func (l *ledger) mergeInto(parent *ledger) {
	l.offers.merge()
	l.sequences.merge()
	l.fees.merge()
	l.nonces.merge()
	l.crafts.merge()
	if l.lastSequence > parent.lastSequence {
		parent.lastSequence = l.lastSequence
	}
}

// RepoManager keeps the whole ledger in memory. A transaction stages its
// writes in a layer over the live ledger that is merged into it on commit,
// so readers never see uncommitted changes and the cost of a transaction
// depends only on what it writes. Transactions are expected to be
// serialized by the caller.
type RepoManager struct {
	locker sync.RWMutex
	live   *ledger

	offerRepository domain.OfferRepository
	feeRepository   domain.FeeRepository
	nonceRepository domain.NonceRepository
	craftRepository domain.CraftRepository
}

func NewRepoManager() ports.RepoManager {
	rm := &RepoManager{live: newLedger()}
	rm.offerRepository = offerRepositoryImpl{rm}
	rm.feeRepository = feeRepositoryImpl{rm}
	rm.nonceRepository = nonceRepositoryImpl{rm}
	rm.craftRepository = craftRepositoryImpl{rm}
	return rm
}

func (r *RepoManager) Begin(_ context.Context) (uow.Tx, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	return &repoTx{rm: r, staged: r.live.stage()}, nil
}

func (r *RepoManager) OfferRepository() domain.OfferRepository {
	return r.offerRepository
}

func (r *RepoManager) FeeRepository() domain.FeeRepository {
	return r.feeRepository
}

func (r *RepoManager) NonceRepository() domain.NonceRepository {
	return r.nonceRepository
}

func (r *RepoManager) CraftRepository() domain.CraftRepository {
	return r.craftRepository
}

func (r *RepoManager) Close() {}

// read runs fn over the staged ledger of the transaction in ctx, if any, or
// over the live one.
func (r *RepoManager) read(ctx context.Context, fn func(l *ledger) error) error {
	r.locker.RLock()
	defer r.locker.RUnlock()

	if tx := r.txFromContext(ctx); tx != nil {
		return fn(tx.staged)
	}
	return fn(r.live)
}

// write is like read but takes the exclusive lock when operating on the live
// ledger. A staged ledger only falls back to the live one for reads, so the
// shared lock is enough. fn must not leave partial changes behind when
// failing.
func (r *RepoManager) write(ctx context.Context, fn func(l *ledger) error) error {
	if tx := r.txFromContext(ctx); tx != nil {
		r.locker.RLock()
		defer r.locker.RUnlock()
		return fn(tx.staged)
	}

	r.locker.Lock()
	defer r.locker.Unlock()
	return fn(r.live)
}

func (r *RepoManager) txFromContext(ctx context.Context) *repoTx {
	tx, ok := ctx.Value(r).(*repoTx)
	if !ok || tx.rm != r || tx.done {
		return nil
	}
	return tx
}

type repoTx struct {
	rm     *RepoManager
	staged *ledger
	done   bool
}

func (t *repoTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true

	t.rm.locker.Lock()
	defer t.rm.locker.Unlock()
	t.staged.mergeInto(t.rm.live)
	return nil
}

func (t *repoTx) Rollback() error {
	t.done = true
	return nil
}
