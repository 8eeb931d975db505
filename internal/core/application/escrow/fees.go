package escrow

import (
	"context"
	"math/big"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
)

// CollectFees moves the whole fee balance from the fee vault to the owner
// and returns the amount withdrawn. Nothing happens if the balance is zero.
func (s *Service) CollectFees(
	ctx context.Context, caller common.Address,
) (*big.Int, error) {
	if caller != s.cfg.Owner {
		return nil, ErrOwnerOnly
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	amount := big.NewInt(0)
	if err := s.runInTx(ctx, func(ctx context.Context) error {
		feeRepo := s.repoManager.FeeRepository()

		account, err := feeRepo.GetFeeAccount(ctx, domain.NativeCurrency)
		if err != nil {
			return err
		}
		if account.IsEmpty() {
			return nil
		}

		if err := feeRepo.UpdateFeeAccount(
			ctx, domain.NativeCurrency,
			func(f *domain.FeeAccount) (*domain.FeeAccount, error) {
				amount = f.Withdraw(now())
				return f, nil
			},
		); err != nil {
			return err
		}

		return s.executor.execute(ctx, []domain.Instruction{
			domain.NativeTransferInstruction(s.cfg.CoreAddress, s.cfg.Owner, amount),
		})
	}); err != nil {
		return nil, err
	}

	if amount.Sign() > 0 {
		log.Debugf("collected %s native of fees", amount)
		s.publishFeesCollectedEvent(amount, now())
	}
	return amount, nil
}
