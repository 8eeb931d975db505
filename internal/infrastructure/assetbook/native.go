package assetbook

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type nativeCurrency struct {
	book     *Book
	balances map[common.Address]*big.Int
}

func (n *nativeCurrency) BalanceOf(
	_ context.Context, owner common.Address,
) (*big.Int, error) {
	n.book.lock.RLock()
	defer n.book.lock.RUnlock()

	return n.balanceOf(owner), nil
}

func (n *nativeCurrency) Transfer(
	_ context.Context, operator, from, to common.Address, amount *big.Int,
) error {
	if !isValidAmount(amount) {
		return ErrInvalidAmount
	}
	if operator != from {
		return fmt.Errorf(
			"%w: native currency can be moved only by its owner", ErrNotApproved,
		)
	}

	n.book.lock.Lock()
	defer n.book.lock.Unlock()

	balance := n.balanceOf(from)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf(
			"%w: %s holds %s native, needs %s",
			ErrInsufficientBalance, from.Hex(), balance, amount,
		)
	}
	if from == to || amount.Sign() == 0 {
		return nil
	}

	n.book.setAmount(n.balances, from, new(big.Int).Sub(balance, amount))
	n.book.setAmount(n.balances, to, new(big.Int).Add(n.balanceOf(to), amount))
	return nil
}

func (n *nativeCurrency) balanceOf(owner common.Address) *big.Int {
	if balance, ok := n.balances[owner]; ok {
		return new(big.Int).Set(balance)
	}
	return big.NewInt(0)
}
