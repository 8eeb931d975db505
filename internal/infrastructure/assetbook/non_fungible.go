package assetbook

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type nonFungibleToken struct {
	book      *Book
	address   common.Address
	name      string
	minters   map[common.Address]bool
	owners    map[string]common.Address
	approvals map[string]common.Address
	operators map[common.Address]map[common.Address]bool
}

func (t *nonFungibleToken) OwnerOf(
	_ context.Context, id *big.Int,
) (common.Address, error) {
	if !isValidAmount(id) {
		return common.Address{}, ErrInvalidAmount
	}

	t.book.lock.RLock()
	defer t.book.lock.RUnlock()

	owner, ok := t.owners[id.String()]
	if !ok {
		return common.Address{}, fmt.Errorf(
			"token %s of %s not minted", id, t.address.Hex(),
		)
	}
	return owner, nil
}

func (t *nonFungibleToken) BalanceOf(
	_ context.Context, owner common.Address,
) (*big.Int, error) {
	t.book.lock.RLock()
	defer t.book.lock.RUnlock()

	count := int64(0)
	for _, o := range t.owners {
		if o == owner {
			count++
		}
	}
	return big.NewInt(count), nil
}

func (t *nonFungibleToken) Approve(
	_ context.Context, owner, spender common.Address, id *big.Int,
) error {
	if !isValidAmount(id) {
		return ErrInvalidAmount
	}

	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	key := id.String()
	if t.owners[key] != owner {
		return fmt.Errorf("%w: %s of %s", ErrNotOwner, id, t.address.Hex())
	}
	t.book.setAddress(t.approvals, key, spender)
	return nil
}

func (t *nonFungibleToken) SetApprovalForAll(
	_ context.Context, owner, operator common.Address, approved bool,
) error {
	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	t.book.setOperator(t.operators, owner, operator, approved)
	return nil
}

func (t *nonFungibleToken) TransferFrom(
	_ context.Context, operator, from, to common.Address, id *big.Int,
) error {
	if !isValidAmount(id) {
		return ErrInvalidAmount
	}

	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	key := id.String()
	owner, ok := t.owners[key]
	if !ok || owner != from {
		return fmt.Errorf(
			"%w: %s of %s is not owned by %s", ErrNotOwner, id, t.address.Hex(), from.Hex(),
		)
	}
	if operator != from && t.approvals[key] != operator && !t.operators[from][operator] {
		return fmt.Errorf(
			"%w: %s can't move %s of %s", ErrNotApproved, operator.Hex(), id, t.address.Hex(),
		)
	}

	t.book.setAddress(t.approvals, key, common.Address{})
	t.book.setAddress(t.owners, key, to)
	return nil
}

func (t *nonFungibleToken) Mint(
	_ context.Context, minter, to common.Address, id *big.Int,
) error {
	if !isValidAmount(id) {
		return ErrInvalidAmount
	}

	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	if !t.minters[minter] {
		return fmt.Errorf("%w: %s on %s", ErrNotMinter, minter.Hex(), t.address.Hex())
	}
	key := id.String()
	if _, ok := t.owners[key]; ok {
		return fmt.Errorf("%w: %s of %s", ErrAlreadyMinted, id, t.address.Hex())
	}
	t.book.setAddress(t.owners, key, to)
	return nil
}
