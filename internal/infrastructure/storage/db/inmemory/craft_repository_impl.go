package inmemory

import (
	"context"
	"fmt"
	"sort"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
)

type craftRepositoryImpl struct {
	rm *RepoManager
}

func (r craftRepositoryImpl) AddCraft(
	ctx context.Context, craft *domain.Craft,
) error {
	return r.rm.write(ctx, func(l *ledger) error {
		if _, ok := l.crafts.get(craft.ID); ok {
			return fmt.Errorf("craft %s already exists", craft.ID)
		}
		l.crafts.put(craft.ID, *craft)
		return nil
	})
}

func (r craftRepositoryImpl) GetCraft(
	ctx context.Context, id string,
) (*domain.Craft, error) {
	var craft *domain.Craft
	err := r.rm.read(ctx, func(l *ledger) error {
		c, ok := l.crafts.get(id)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownCraft, id)
		}
		craft = &c
		return nil
	})
	return craft, err
}

func (r craftRepositoryImpl) GetCraftsByRecipient(
	ctx context.Context, recipient common.Address,
) ([]domain.Craft, error) {
	return r.find(ctx, func(c domain.Craft) bool {
		return c.Recipient == recipient
	})
}

func (r craftRepositoryImpl) GetAllCrafts(
	ctx context.Context,
) ([]domain.Craft, error) {
	return r.find(ctx, func(domain.Craft) bool { return true })
}

func (r craftRepositoryImpl) find(
	ctx context.Context, filter func(domain.Craft) bool,
) ([]domain.Craft, error) {
	crafts := make([]domain.Craft, 0)
	err := r.rm.read(ctx, func(l *ledger) error {
		l.crafts.forEach(func(_ string, c domain.Craft) {
			if filter(c) {
				crafts = append(crafts, c)
			}
		})
		return nil
	})
	sort.Slice(crafts, func(i, j int) bool {
		return crafts[i].CraftedAt < crafts[j].CraftedAt ||
			(crafts[i].CraftedAt == crafts[j].CraftedAt && crafts[i].ID < crafts[j].ID)
	})
	return crafts, err
}
