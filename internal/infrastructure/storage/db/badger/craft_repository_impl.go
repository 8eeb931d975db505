package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/record"
	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/timshannon/badgerhold/v4"
)

type craftRepositoryImpl struct {
	rm *repoManager
}

func (r craftRepositoryImpl) AddCraft(
	ctx context.Context, craft *domain.Craft,
) error {
	return r.rm.update(ctx, func(tx *badger.Txn) error {
		err := r.rm.store.TxInsert(tx, craft.ID, record.FromCraft(*craft))
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("craft %s already exists", craft.ID)
		}
		return err
	})
}

func (r craftRepositoryImpl) GetCraft(
	ctx context.Context, id string,
) (*domain.Craft, error) {
	var craft *domain.Craft
	err := r.rm.view(ctx, func(tx *badger.Txn) error {
		var row record.Craft
		if err := r.rm.store.TxGet(tx, id, &row); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return fmt.Errorf("%w: %s", domain.ErrUnknownCraft, id)
			}
			return err
		}
		c, err := row.ToDomain()
		if err != nil {
			return err
		}
		craft = c
		return nil
	})
	return craft, err
}

func (r craftRepositoryImpl) GetCraftsByRecipient(
	ctx context.Context, recipient common.Address,
) ([]domain.Craft, error) {
	return r.find(ctx, badgerhold.Where("Recipient").Eq(recipient.Hex()))
}

func (r craftRepositoryImpl) GetAllCrafts(
	ctx context.Context,
) ([]domain.Craft, error) {
	return r.find(ctx, nil)
}

func (r craftRepositoryImpl) find(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Craft, error) {
	var rows []record.Craft
	if err := r.rm.view(ctx, func(tx *badger.Txn) error {
		return r.rm.store.TxFind(tx, &rows, query)
	}); err != nil {
		return nil, err
	}

	crafts := make([]domain.Craft, 0, len(rows))
	for _, row := range rows {
		c, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		crafts = append(crafts, *c)
	}
	sort.Slice(crafts, func(i, j int) bool {
		return crafts[i].CraftedAt < crafts[j].CraftedAt ||
			(crafts[i].CraftedAt == crafts[j].CraftedAt && crafts[i].ID < crafts[j].ID)
	})
	return crafts, nil
}
