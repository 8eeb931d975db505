package assetbook

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type semiFungibleToken struct {
	book      *Book
	address   common.Address
	name      string
	minters   map[common.Address]bool
	holdings  map[string]map[common.Address]*big.Int
	operators map[common.Address]map[common.Address]bool
}

func (t *semiFungibleToken) BalanceOf(
	_ context.Context, owner common.Address, id *big.Int,
) (*big.Int, error) {
	if !isValidAmount(id) {
		return nil, ErrInvalidAmount
	}

	t.book.lock.RLock()
	defer t.book.lock.RUnlock()

	return t.balanceOf(owner, id.String()), nil
}

func (t *semiFungibleToken) SetApprovalForAll(
	_ context.Context, owner, operator common.Address, approved bool,
) error {
	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	t.book.setOperator(t.operators, owner, operator, approved)
	return nil
}

// SafeBatchTransferFrom moves all the given ids and amounts or nothing.
func (t *semiFungibleToken) SafeBatchTransferFrom(
	_ context.Context, operator, from, to common.Address,
	ids, amounts []*big.Int,
) (err error) {
	if len(ids) != len(amounts) {
		return fmt.Errorf("got %d ids and %d amounts", len(ids), len(amounts))
	}
	for i := range ids {
		if !isValidAmount(ids[i]) || !isValidAmount(amounts[i]) {
			return ErrInvalidAmount
		}
	}

	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	if operator != from && !t.operators[from][operator] {
		return fmt.Errorf(
			"%w: %s can't move tokens of %s on %s",
			ErrNotApproved, operator.Hex(), from.Hex(), t.address.Hex(),
		)
	}

	mark := len(t.book.journal)
	defer func() {
		if err != nil {
			t.book.revert(mark)
		}
	}()

	for i, id := range ids {
		key := id.String()
		amount := amounts[i]
		balance := t.balanceOf(from, key)
		if balance.Cmp(amount) < 0 {
			return fmt.Errorf(
				"%w: %s holds %s of id %s of %s, needs %s",
				ErrInsufficientBalance, from.Hex(), balance, key, t.address.Hex(), amount,
			)
		}
		if from == to || amount.Sign() == 0 {
			continue
		}
		t.book.setHolding(t.holdings, key, from, new(big.Int).Sub(balance, amount))
		t.book.setHolding(
			t.holdings, key, to, new(big.Int).Add(t.balanceOf(to, key), amount),
		)
	}
	return nil
}

func (t *semiFungibleToken) MintBatch(
	_ context.Context, minter, to common.Address, ids, amounts []*big.Int,
) error {
	if len(ids) != len(amounts) {
		return fmt.Errorf("got %d ids and %d amounts", len(ids), len(amounts))
	}
	for i := range ids {
		if !isValidAmount(ids[i]) || !isValidAmount(amounts[i]) {
			return ErrInvalidAmount
		}
	}

	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	if !t.minters[minter] {
		return fmt.Errorf("%w: %s on %s", ErrNotMinter, minter.Hex(), t.address.Hex())
	}
	for i, id := range ids {
		key := id.String()
		t.book.setHolding(
			t.holdings, key, to, new(big.Int).Add(t.balanceOf(to, key), amounts[i]),
		)
	}
	return nil
}

func (t *semiFungibleToken) balanceOf(owner common.Address, id string) *big.Int {
	if holders, ok := t.holdings[id]; ok {
		if balance, ok := holders[owner]; ok {
			return new(big.Int).Set(balance)
		}
	}
	return big.NewInt(0)
}
