package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/storageutil/uow"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

type repoManager struct {
	store *badgerhold.Store
	quit  chan struct{}

	offerRepository domain.OfferRepository
	feeRepository   domain.FeeRepository
	nonceRepository domain.NonceRepository
	craftRepository domain.CraftRepository
}

// NewRepoManager opens (or creates if not exists) the badger store of the
// ledger in the given base dir. An empty dir opens an in-memory store.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var ledgerDir string
	if len(baseDbDir) > 0 {
		ledgerDir = filepath.Join(baseDbDir, "ledger")
	}

	store, quit, err := createDb(ledgerDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	rm := &repoManager{store: store, quit: quit}
	rm.offerRepository = offerRepositoryImpl{rm}
	rm.feeRepository = feeRepositoryImpl{rm}
	rm.nonceRepository = nonceRepositoryImpl{rm}
	rm.craftRepository = craftRepositoryImpl{rm}
	return rm, nil
}

func (r *repoManager) Begin(_ context.Context) (uow.Tx, error) {
	return &badgerTx{r.store.Badger().NewTransaction(true)}, nil
}

func (r *repoManager) OfferRepository() domain.OfferRepository {
	return r.offerRepository
}

func (r *repoManager) FeeRepository() domain.FeeRepository {
	return r.feeRepository
}

func (r *repoManager) NonceRepository() domain.NonceRepository {
	return r.nonceRepository
}

func (r *repoManager) CraftRepository() domain.CraftRepository {
	return r.craftRepository
}

func (r *repoManager) Close() {
	if r.quit != nil {
		close(r.quit)
	}
	if err := r.store.Close(); err != nil {
		log.WithError(err).Warn("error while closing ledger db")
	}
}

// view runs fn with the transaction of the unit of work in ctx, if any, or
// with a new read-only one.
func (r *repoManager) view(ctx context.Context, fn func(tx *badger.Txn) error) error {
	if tx, ok := ctx.Value(r).(*badgerTx); ok {
		return fn(tx.txn)
	}
	return r.store.Badger().View(fn)
}

// update runs fn with the transaction of the unit of work in ctx, if any, or
// with a new one committed right after.
func (r *repoManager) update(ctx context.Context, fn func(tx *badger.Txn) error) error {
	if tx, ok := ctx.Value(r).(*badgerTx); ok {
		return fn(tx.txn)
	}
	return r.store.Badger().Update(fn)
}

type badgerTx struct {
	txn *badger.Txn
}

func (t *badgerTx) Commit() error {
	return t.txn.Commit()
}

func (t *badgerTx) Rollback() error {
	t.txn.Discard()
	return nil
}

func createDb(
	dbDir string, logger badger.Logger,
) (*badgerhold.Store, chan struct{}, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, nil, err
	}

	if isInMemory {
		return db, nil, nil
	}

	quit := make(chan struct{})
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}
	}()

	return db, quit, nil
}
