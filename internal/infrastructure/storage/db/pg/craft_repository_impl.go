package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
)

const (
	insertCraftQuery = `INSERT INTO crafts (` + craftColumns + `) VALUES (
		:id, :reward_id, :recipient, :rewards, :nonce, :authorizer, :crafted_at
	)`
	selectCraftQuery             = `SELECT ` + craftColumns + ` FROM crafts WHERE id = $1`
	selectCraftsByRecipientQuery = `SELECT ` + craftColumns +
		` FROM crafts WHERE recipient = $1 ORDER BY crafted_at, id`
	selectAllCraftsQuery = `SELECT ` + craftColumns + ` FROM crafts ORDER BY crafted_at, id`
)

type craftRepositoryImpl struct {
	rm *repoManager
}

func (r craftRepositoryImpl) AddCraft(
	ctx context.Context, craft *domain.Craft,
) error {
	row, err := newCraftRow(*craft)
	if err != nil {
		return err
	}

	if _, err := sqlx.NamedExecContext(
		ctx, r.rm.querier(ctx), insertCraftQuery, row,
	); err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("craft %s already exists", craft.ID)
		}
		return err
	}
	return nil
}

func (r craftRepositoryImpl) GetCraft(
	ctx context.Context, id string,
) (*domain.Craft, error) {
	var row craftRow
	if err := sqlx.GetContext(
		ctx, r.rm.querier(ctx), &row, selectCraftQuery, id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCraft, id)
		}
		return nil, err
	}
	return row.toDomain()
}

func (r craftRepositoryImpl) GetCraftsByRecipient(
	ctx context.Context, recipient common.Address,
) ([]domain.Craft, error) {
	return r.selectCrafts(ctx, selectCraftsByRecipientQuery, recipient.Hex())
}

func (r craftRepositoryImpl) GetAllCrafts(
	ctx context.Context,
) ([]domain.Craft, error) {
	return r.selectCrafts(ctx, selectAllCraftsQuery)
}

func (r craftRepositoryImpl) selectCrafts(
	ctx context.Context, query string, args ...interface{},
) ([]domain.Craft, error) {
	var rows []craftRow
	if err := sqlx.SelectContext(
		ctx, r.rm.querier(ctx), &rows, query, args...,
	); err != nil {
		return nil, err
	}

	crafts := make([]domain.Craft, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		crafts = append(crafts, *c)
	}
	return crafts, nil
}
