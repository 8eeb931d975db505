package escrow

import (
	"context"
	"fmt"
	"math/big"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/storageutil/uow"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
)

// Approve lets the owner allow a spender, usually an escrow address, to move
// its assets on the given contract.
func (s *Service) Approve(ctx context.Context, req ApprovalRequest) error {
	if req.Owner == (common.Address{}) || req.Spender == (common.Address{}) {
		return fmt.Errorf("%w: missing owner or spender", ErrInvalidApproval)
	}
	standard, err := s.standardOf(req.Contract)
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := uow.NewUnitOfWork(s.assetBook).Run(
		ctx, func(ctx context.Context) error {
			return s.approve(ctx, standard, req)
		},
	); err != nil {
		return err
	}

	log.Debugf(
		"%s approved %s on %s", req.Owner.Hex(), req.Spender.Hex(), req.Contract.Hex(),
	)
	return nil
}

func (s *Service) approve(
	ctx context.Context, standard domain.Standard, req ApprovalRequest,
) error {
	switch standard {
	case domain.Fungible:
		if req.Amount == nil {
			return fmt.Errorf("%w: missing amount", ErrInvalidApproval)
		}
		token, err := s.assetBook.Fungible(req.Contract)
		if err != nil {
			return err
		}
		return token.Approve(ctx, req.Owner, req.Spender, req.Amount)
	case domain.NonFungible:
		token, err := s.assetBook.NonFungible(req.Contract)
		if err != nil {
			return err
		}
		if req.ApproveAll != nil {
			return token.SetApprovalForAll(ctx, req.Owner, req.Spender, *req.ApproveAll)
		}
		if req.ID == nil {
			return fmt.Errorf("%w: missing token id", ErrInvalidApproval)
		}
		return token.Approve(ctx, req.Owner, req.Spender, req.ID)
	default:
		if req.ApproveAll == nil {
			return fmt.Errorf(
				"%w: semi-fungible tokens only support operator approvals",
				ErrInvalidApproval,
			)
		}
		token, err := s.assetBook.SemiFungible(req.Contract)
		if err != nil {
			return err
		}
		return token.SetApprovalForAll(ctx, req.Owner, req.Spender, *req.ApproveAll)
	}
}

// Balance returns the holding of the owner on the given contract. The zero
// contract address stands for the native currency. The id is required for
// semi-fungible tokens, while for non-fungible ones it restricts the balance
// to the given token.
func (s *Service) Balance(
	ctx context.Context, contract, owner common.Address, id *big.Int,
) (*AssetBalance, error) {
	if contract == (common.Address{}) {
		balance, err := s.assetBook.Native().BalanceOf(ctx, owner)
		if err != nil {
			return nil, err
		}
		return &AssetBalance{domain.Native, contract, owner, nil, balance}, nil
	}

	standard, err := s.standardOf(contract)
	if err != nil {
		return nil, err
	}

	var balance *big.Int
	switch standard {
	case domain.Fungible:
		token, _ := s.assetBook.Fungible(contract)
		balance, err = token.BalanceOf(ctx, owner)
	case domain.NonFungible:
		token, _ := s.assetBook.NonFungible(contract)
		if id == nil {
			balance, err = token.BalanceOf(ctx, owner)
			break
		}
		var holder common.Address
		if holder, err = token.OwnerOf(ctx, id); err == nil {
			balance = big.NewInt(0)
			if holder == owner {
				balance = big.NewInt(1)
			}
		}
	default:
		if id == nil {
			return nil, fmt.Errorf("%w: missing token id", domain.ErrInvalidLeg)
		}
		token, _ := s.assetBook.SemiFungible(contract)
		balance, err = token.BalanceOf(ctx, owner, id)
	}
	if err != nil {
		return nil, err
	}

	return &AssetBalance{standard, contract, owner, id, balance}, nil
}

func (s *Service) standardOf(contract common.Address) (domain.Standard, error) {
	if _, err := s.assetBook.Fungible(contract); err == nil {
		return domain.Fungible, nil
	}
	if _, err := s.assetBook.NonFungible(contract); err == nil {
		return domain.NonFungible, nil
	}
	if _, err := s.assetBook.SemiFungible(contract); err == nil {
		return domain.SemiFungibleBatch, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownContract, contract.Hex())
}
