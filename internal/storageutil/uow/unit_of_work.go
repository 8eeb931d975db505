package uow

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Transactional begins a transaction
type Transactional interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx represents an all-or-nothing transaction, by committing or rolling back
// a set of read/write operations
type Tx interface {
	Commit() error
	Rollback() error
}

// ContextProvider returns the key under which the transaction of a
// Transactional is stored in the context passed to the unit of work function.
type ContextProvider interface {
	ContextKey() interface{}
}

// UnitOfWork allows to run multiple transactions as one
type UnitOfWork struct {
	resources []Transactional
}

// NewUnitOfWork returns a new UnitOfWork with the given Transaction interfaces.
// Transactions are committed in the given order, so the resource most likely
// to fail on commit should come first.
func NewUnitOfWork(resources ...Transactional) *UnitOfWork {
	return &UnitOfWork{resources}
}

// TxFromContext returns the transaction stored under the given key, if any.
func TxFromContext(ctx context.Context, key interface{}) (Tx, bool) {
	tx, ok := ctx.Value(key).(Tx)
	return tx, ok
}

// Run executes the given function over the current UnitOfWork. The given
// function is likely making read/write operations to different resources in
// a transactional way, each of them finding its transaction in the context.
// Run makes sure that all the transactions within the given function are
// either all committed or rolled back if any error occurs.
func (u *UnitOfWork) Run(
	ctx context.Context, fn func(ctx context.Context) error,
) (err error) {
	txs := make([]Tx, 0, len(u.resources))
	committed := 0

	defer func() {
		if err == nil {
			return
		}
		for i := len(txs) - 1; i >= committed; i-- {
			if _err := txs[i].Rollback(); _err != nil {
				log.WithError(_err).Error("unable to rollback transaction")
			}
		}
	}()

	defer func() {
		if err != nil {
			return
		}
		for _, tx := range txs {
			if _err := tx.Commit(); _err != nil {
				err = fmt.Errorf("commit: %w", _err)
				return
			}
			committed++
		}
	}()

	defer func() {
		// panicking returns an error that causes txs rollback
		if rec := recover(); rec != nil {
			err = fmt.Errorf("recovered: %v", rec)
		}
	}()

	seen := make(map[interface{}]struct{})
	for _, r := range u.resources {
		var key interface{} = r
		if cp, ok := r.(ContextProvider); ok {
			key = cp.ContextKey()
		}
		// make sure that the same context providers share the same transaction
		if _, ok := seen[key]; ok {
			continue
		}

		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		seen[key] = struct{}{}
		ctx = context.WithValue(ctx, key, tx)
		txs = append(txs, tx)
	}

	return fn(ctx)
}
