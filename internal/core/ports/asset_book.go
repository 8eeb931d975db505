package ports

import (
	"context"
	"math/big"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/storageutil/uow"
	"github.com/ethereum/go-ethereum/common"
)

// AssetBook is the registry of the token contracts the engine moves assets
// through. Every mutating call is journaled: RevertToSnapshot undoes all the
// changes made after the matching Snapshot call. Begin opens a transaction
// that is rolled back the same way.
type AssetBook interface {
	uow.Transactional

	Snapshot() int
	RevertToSnapshot(id int)

	Native() NativeCurrency
	Fungible(contract common.Address) (FungibleToken, error)
	NonFungible(contract common.Address) (NonFungibleToken, error)
	SemiFungible(contract common.Address) (SemiFungibleToken, error)
}

// NativeCurrency is the chain native currency. Only owners move their own
// balance.
type NativeCurrency interface {
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Transfer(
		ctx context.Context, operator, from, to common.Address, amount *big.Int,
	) error
}

// FungibleToken is an allowance-based fungible token.
type FungibleToken interface {
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Allowance(
		ctx context.Context, owner, spender common.Address,
	) (*big.Int, error)
	Approve(
		ctx context.Context, owner, spender common.Address, amount *big.Int,
	) error
	TransferFrom(
		ctx context.Context, operator, from, to common.Address, amount *big.Int,
	) error
	Mint(ctx context.Context, minter, to common.Address, amount *big.Int) error
}

// NonFungibleToken is a collection of uniquely owned tokens.
type NonFungibleToken interface {
	OwnerOf(ctx context.Context, id *big.Int) (common.Address, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Approve(ctx context.Context, owner, spender common.Address, id *big.Int) error
	SetApprovalForAll(
		ctx context.Context, owner, operator common.Address, approved bool,
	) error
	TransferFrom(
		ctx context.Context, operator, from, to common.Address, id *big.Int,
	) error
	Mint(ctx context.Context, minter, to common.Address, id *big.Int) error
}

// SemiFungibleToken is a multi-token collection moved in batches.
type SemiFungibleToken interface {
	BalanceOf(
		ctx context.Context, owner common.Address, id *big.Int,
	) (*big.Int, error)
	SetApprovalForAll(
		ctx context.Context, owner, operator common.Address, approved bool,
	) error
	SafeBatchTransferFrom(
		ctx context.Context, operator, from, to common.Address,
		ids, amounts []*big.Int,
	) error
	MintBatch(
		ctx context.Context, minter, to common.Address, ids, amounts []*big.Int,
	) error
}
