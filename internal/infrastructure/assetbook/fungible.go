package assetbook

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type fungibleToken struct {
	book       *Book
	address    common.Address
	name       string
	minters    map[common.Address]bool
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
}

func (t *fungibleToken) BalanceOf(
	_ context.Context, owner common.Address,
) (*big.Int, error) {
	t.book.lock.RLock()
	defer t.book.lock.RUnlock()

	return t.balanceOf(owner), nil
}

func (t *fungibleToken) Allowance(
	_ context.Context, owner, spender common.Address,
) (*big.Int, error) {
	t.book.lock.RLock()
	defer t.book.lock.RUnlock()

	return t.allowance(owner, spender), nil
}

func (t *fungibleToken) Approve(
	_ context.Context, owner, spender common.Address, amount *big.Int,
) error {
	if !isValidAmount(amount) {
		return ErrInvalidAmount
	}

	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	t.book.setNestedAmount(t.allowances, owner, spender, new(big.Int).Set(amount))
	return nil
}

func (t *fungibleToken) TransferFrom(
	_ context.Context, operator, from, to common.Address, amount *big.Int,
) error {
	if !isValidAmount(amount) {
		return ErrInvalidAmount
	}

	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	balance := t.balanceOf(from)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf(
			"%w: %s holds %s of %s, needs %s",
			ErrInsufficientBalance, from.Hex(), balance, t.address.Hex(), amount,
		)
	}

	if operator != from {
		allowance := t.allowance(from, operator)
		if allowance.Cmp(amount) < 0 {
			return fmt.Errorf(
				"%w: %s allows %s to spend %s of %s, needs %s",
				ErrInsufficientAllowance, from.Hex(), operator.Hex(),
				allowance, t.address.Hex(), amount,
			)
		}
		t.book.setNestedAmount(
			t.allowances, from, operator, new(big.Int).Sub(allowance, amount),
		)
	}
	if from == to || amount.Sign() == 0 {
		return nil
	}

	t.book.setAmount(t.balances, from, new(big.Int).Sub(balance, amount))
	t.book.setAmount(t.balances, to, new(big.Int).Add(t.balanceOf(to), amount))
	return nil
}

func (t *fungibleToken) Mint(
	_ context.Context, minter, to common.Address, amount *big.Int,
) error {
	if !isValidAmount(amount) {
		return ErrInvalidAmount
	}

	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	if !t.minters[minter] {
		return fmt.Errorf("%w: %s on %s", ErrNotMinter, minter.Hex(), t.address.Hex())
	}
	t.book.setAmount(t.balances, to, new(big.Int).Add(t.balanceOf(to), amount))
	return nil
}

func (t *fungibleToken) balanceOf(owner common.Address) *big.Int {
	if balance, ok := t.balances[owner]; ok {
		return new(big.Int).Set(balance)
	}
	return big.NewInt(0)
}

func (t *fungibleToken) allowance(owner, spender common.Address) *big.Int {
	if allowances, ok := t.allowances[owner]; ok {
		if allowance, ok := allowances[spender]; ok {
			return new(big.Int).Set(allowance)
		}
	}
	return big.NewInt(0)
}
