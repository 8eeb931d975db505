package main

import (
	"context"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/storageutil/uow"
	log "github.com/sirupsen/logrus"
)

type migrationReport struct {
	offers      int
	feeAccounts int
	nonces      int
	crafts      int
}

// migrate copies the whole ledger of src into dst within a single
// transaction of dst. The destination must be empty.
func migrate(
	ctx context.Context, src, dst ports.RepoManager,
) (*migrationReport, error) {
	empty, err := isEmptyLedger(ctx, dst)
	if err != nil {
		return nil, err
	}
	if !empty {
		return nil, fmt.Errorf("destination ledger is not empty")
	}

	offers, err := src.OfferRepository().GetAllOffers(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("reading offers: %w", err)
	}
	feeAccounts, err := src.FeeRepository().GetAllFeeAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading fee accounts: %w", err)
	}
	nonces, err := src.NonceRepository().GetAllConsumedNonces(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading nonces: %w", err)
	}
	crafts, err := src.CraftRepository().GetAllCrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading crafts: %w", err)
	}

	if err := uow.NewUnitOfWork(dst).Run(ctx, func(ctx context.Context) error {
		for i := range offers {
			offer := offers[i]
			if err := dst.OfferRepository().AddOffer(ctx, &offer); err != nil {
				return fmt.Errorf("offer %s: %w", offer.ID.Hex(), err)
			}
		}
		log.Debugf("migrated %d offers", len(offers))

		for i := range feeAccounts {
			account := feeAccounts[i]
			if err := dst.FeeRepository().UpdateFeeAccount(
				ctx, account.Currency,
				func(_ *domain.FeeAccount) (*domain.FeeAccount, error) {
					return &account, nil
				},
			); err != nil {
				return fmt.Errorf("fee account %s: %w", account.Currency, err)
			}
		}
		log.Debugf("migrated %d fee accounts", len(feeAccounts))

		for _, nonce := range nonces {
			if err := dst.NonceRepository().ConsumeNonce(ctx, nonce); err != nil {
				return fmt.Errorf("nonce %s: %w", nonce.Key, err)
			}
		}
		log.Debugf("migrated %d nonces", len(nonces))

		for i := range crafts {
			craft := crafts[i]
			if err := dst.CraftRepository().AddCraft(ctx, &craft); err != nil {
				return fmt.Errorf("craft %s: %w", craft.ID, err)
			}
		}
		log.Debugf("migrated %d crafts", len(crafts))
		return nil
	}); err != nil {
		return nil, err
	}

	return &migrationReport{
		offers:      len(offers),
		feeAccounts: len(feeAccounts),
		nonces:      len(nonces),
		crafts:      len(crafts),
	}, nil
}

// isEmptyLedger reports whether none of the repositories of rm holds data.
func isEmptyLedger(ctx context.Context, rm ports.RepoManager) (bool, error) {
	lastSequence, err := rm.OfferRepository().LastSequence(ctx)
	if err != nil {
		return false, err
	}
	if lastSequence > 0 {
		return false, nil
	}
	feeAccounts, err := rm.FeeRepository().GetAllFeeAccounts(ctx)
	if err != nil {
		return false, err
	}
	if len(feeAccounts) > 0 {
		return false, nil
	}
	nonces, err := rm.NonceRepository().GetAllConsumedNonces(ctx)
	if err != nil {
		return false, err
	}
	if len(nonces) > 0 {
		return false, nil
	}
	crafts, err := rm.CraftRepository().GetAllCrafts(ctx)
	if err != nil {
		return false, err
	}
	return len(crafts) == 0, nil
}
