package escrow

import (
	"context"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// batchExecutor runs a list of instructions as a single all-or-nothing unit.
type batchExecutor struct {
	book    ports.AssetBook
	adapter assetAdapter
}

func newBatchExecutor(book ports.AssetBook) batchExecutor {
	return batchExecutor{book, assetAdapter{book}}
}

// execute validates every instruction, then applies them in order. On the
// first failure the asset book is reverted to its state before the call.
func (e batchExecutor) execute(
	ctx context.Context, instructions []domain.Instruction,
) error {
	for i, ins := range instructions {
		if err := ins.Validate(); err != nil {
			return &BatchExecutionError{i, ins, err}
		}
	}

	snapshot := e.book.Snapshot()
	for i, ins := range instructions {
		if err := e.adapter.apply(ctx, ins); err != nil {
			e.book.RevertToSnapshot(snapshot)
			log.WithError(err).Debugf("batch reverted at instruction %d (%s)", i, ins)
			return &BatchExecutionError{i, ins, err}
		}
	}
	return nil
}
