package postgresdb

import (
	"database/sql"
	"encoding/json"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/record"
	"github.com/jmoiron/sqlx/types"
)

const (
	offerColumns = "id, sequence, status, is_private, nonce, escrow, maker, taker, created_at, updated_at"
	feeColumns   = "currency, balance, total_collected, total_withdrawn, updated_at"
	nonceColumns = "key, subject, action, nonce, consumed_at"
	craftColumns = "id, reward_id, recipient, rewards, nonce, authorizer, crafted_at"
)

type offerRow struct {
	ID        string         `db:"id"`
	Sequence  int64          `db:"sequence"`
	Status    string         `db:"status"`
	IsPrivate bool           `db:"is_private"`
	Nonce     string         `db:"nonce"`
	Escrow    string         `db:"escrow"`
	Maker     types.JSONText `db:"maker"`
	Taker     types.JSONText `db:"taker"`
	CreatedAt int64          `db:"created_at"`
	UpdatedAt int64          `db:"updated_at"`
}

func newOfferRow(offer domain.Offer) (*offerRow, error) {
	r := record.FromOffer(offer)
	maker, err := json.Marshal(r.Maker)
	if err != nil {
		return nil, err
	}
	taker, err := json.Marshal(r.Taker)
	if err != nil {
		return nil, err
	}
	return &offerRow{
		ID:        r.ID,
		Sequence:  int64(r.Sequence),
		Status:    r.Status,
		IsPrivate: r.IsPrivate,
		Nonce:     r.Nonce,
		Escrow:    r.Escrow,
		Maker:     maker,
		Taker:     taker,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (r offerRow) toDomain() (*domain.Offer, error) {
	rec := record.Offer{
		ID:        r.ID,
		Sequence:  uint64(r.Sequence),
		Status:    r.Status,
		IsPrivate: r.IsPrivate,
		Nonce:     r.Nonce,
		Escrow:    r.Escrow,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if err := r.Maker.Unmarshal(&rec.Maker); err != nil {
		return nil, err
	}
	if err := r.Taker.Unmarshal(&rec.Taker); err != nil {
		return nil, err
	}
	return rec.ToDomain()
}

type feeAccountRow struct {
	Currency       string `db:"currency"`
	Balance        string `db:"balance"`
	TotalCollected string `db:"total_collected"`
	TotalWithdrawn string `db:"total_withdrawn"`
	UpdatedAt      int64  `db:"updated_at"`
}

func newFeeAccountRow(account domain.FeeAccount) feeAccountRow {
	r := record.FromFeeAccount(account)
	return feeAccountRow{
		Currency:       r.Currency,
		Balance:        orZero(r.Balance),
		TotalCollected: orZero(r.TotalCollected),
		TotalWithdrawn: orZero(r.TotalWithdrawn),
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r feeAccountRow) toDomain() (*domain.FeeAccount, error) {
	return record.FeeAccount(r).ToDomain()
}

type nonceRow struct {
	Key        string `db:"key"`
	Subject    string `db:"subject"`
	Action     string `db:"action"`
	Nonce      string `db:"nonce"`
	ConsumedAt int64  `db:"consumed_at"`
}

func newNonceRow(nonce domain.ConsumedNonce) nonceRow {
	r := record.FromConsumedNonce(nonce)
	r.Nonce = orZero(r.Nonce)
	return nonceRow(r)
}

func (r nonceRow) toDomain() (*domain.ConsumedNonce, error) {
	return record.ConsumedNonce(r).ToDomain()
}

type craftRow struct {
	ID         string         `db:"id"`
	RewardID   string         `db:"reward_id"`
	Recipient  string         `db:"recipient"`
	Rewards    types.JSONText `db:"rewards"`
	Nonce      sql.NullString `db:"nonce"`
	Authorizer string         `db:"authorizer"`
	CraftedAt  int64          `db:"crafted_at"`
}

func newCraftRow(craft domain.Craft) (*craftRow, error) {
	r := record.FromCraft(craft)
	rewards, err := json.Marshal(r.Rewards)
	if err != nil {
		return nil, err
	}
	return &craftRow{
		ID:         r.ID,
		RewardID:   r.RewardID,
		Recipient:  r.Recipient,
		Rewards:    rewards,
		Nonce:      sql.NullString{String: r.Nonce, Valid: r.Nonce != ""},
		Authorizer: r.Authorizer,
		CraftedAt:  r.CraftedAt,
	}, nil
}

func (r craftRow) toDomain() (*domain.Craft, error) {
	rec := record.Craft{
		ID:         r.ID,
		RewardID:   r.RewardID,
		Recipient:  r.Recipient,
		Nonce:      r.Nonce.String,
		Authorizer: r.Authorizer,
		CraftedAt:  r.CraftedAt,
	}
	if err := r.Rewards.Unmarshal(&rec.Rewards); err != nil {
		return nil, err
	}
	return rec.ToDomain()
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
