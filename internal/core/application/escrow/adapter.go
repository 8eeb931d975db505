package escrow

import (
	"context"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
)

// assetAdapter translates instructions into the calls of the matching token
// standard.
type assetAdapter struct {
	book ports.AssetBook
}

func (a assetAdapter) apply(ctx context.Context, ins domain.Instruction) error {
	switch ins.Kind {
	case domain.InstructionTransfer:
		return a.transfer(ctx, ins)
	case domain.InstructionMint:
		return a.mint(ctx, ins)
	default:
		return fmt.Errorf("unknown instruction kind %s", ins.Kind)
	}
}

func (a assetAdapter) transfer(ctx context.Context, ins domain.Instruction) error {
	switch ins.Standard {
	case domain.Native:
		return a.book.Native().Transfer(
			ctx, ins.Operator, ins.From, ins.To, ins.Amounts[0],
		)
	case domain.Fungible:
		token, err := a.book.Fungible(ins.Contract)
		if err != nil {
			return err
		}
		return token.TransferFrom(ctx, ins.Operator, ins.From, ins.To, ins.Amounts[0])
	case domain.NonFungible:
		token, err := a.book.NonFungible(ins.Contract)
		if err != nil {
			return err
		}
		for _, id := range ins.IDs {
			if err := token.TransferFrom(
				ctx, ins.Operator, ins.From, ins.To, id,
			); err != nil {
				return err
			}
		}
		return nil
	case domain.SemiFungibleBatch:
		token, err := a.book.SemiFungible(ins.Contract)
		if err != nil {
			return err
		}
		return token.SafeBatchTransferFrom(
			ctx, ins.Operator, ins.From, ins.To, ins.IDs, ins.Amounts,
		)
	default:
		return fmt.Errorf("unsupported standard %s", ins.Standard)
	}
}

func (a assetAdapter) mint(ctx context.Context, ins domain.Instruction) error {
	switch ins.Standard {
	case domain.Fungible:
		token, err := a.book.Fungible(ins.Contract)
		if err != nil {
			return err
		}
		return token.Mint(ctx, ins.Operator, ins.To, ins.Amounts[0])
	case domain.NonFungible:
		token, err := a.book.NonFungible(ins.Contract)
		if err != nil {
			return err
		}
		for _, id := range ins.IDs {
			if err := token.Mint(ctx, ins.Operator, ins.To, id); err != nil {
				return err
			}
		}
		return nil
	case domain.SemiFungibleBatch:
		token, err := a.book.SemiFungible(ins.Contract)
		if err != nil {
			return err
		}
		return token.MintBatch(ctx, ins.Operator, ins.To, ins.IDs, ins.Amounts)
	default:
		return fmt.Errorf("%s assets can't be minted", ins.Standard)
	}
}
