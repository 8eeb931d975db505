package domain

import (
	"fmt"
	"math/big"
)

// NativeCurrency is the only settlement currency fees are collected in.
const NativeCurrency = "native"

// FeeAccount is the withdrawable fee balance of a settlement currency.
type FeeAccount struct {
	Currency       string
	Balance        *big.Int
	TotalCollected *big.Int
	TotalWithdrawn *big.Int
	UpdatedAt      int64
}

// NewFeeAccount returns an empty fee account for the given currency.
func NewFeeAccount(currency string) *FeeAccount {
	return &FeeAccount{
		Currency:       currency,
		Balance:        big.NewInt(0),
		TotalCollected: big.NewInt(0),
		TotalWithdrawn: big.NewInt(0),
	}
}

// Credit adds the given amount to the withdrawable balance.
func (f *FeeAccount) Credit(amount *big.Int, timestamp int64) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("fee amount must not be negative")
	}
	f.init()
	f.Balance = new(big.Int).Add(f.Balance, amount)
	f.TotalCollected = new(big.Int).Add(f.TotalCollected, amount)
	f.UpdatedAt = timestamp
	return nil
}

// Withdraw zeroes the withdrawable balance and returns the amount it held.
func (f *FeeAccount) Withdraw(timestamp int64) *big.Int {
	f.init()
	amount := f.Balance
	f.Balance = big.NewInt(0)
	f.TotalWithdrawn = new(big.Int).Add(f.TotalWithdrawn, amount)
	f.UpdatedAt = timestamp
	return amount
}

// IsEmpty returns whether there is nothing to withdraw.
func (f *FeeAccount) IsEmpty() bool {
	return f.Balance == nil || f.Balance.Sign() == 0
}

// Clone returns a deep copy of the account.
func (f FeeAccount) Clone() *FeeAccount {
	cloned := f
	cloned.Balance = cloneInt(f.Balance)
	cloned.TotalCollected = cloneInt(f.TotalCollected)
	cloned.TotalWithdrawn = cloneInt(f.TotalWithdrawn)
	return &cloned
}

func (f *FeeAccount) init() {
	if f.Balance == nil {
		f.Balance = big.NewInt(0)
	}
	if f.TotalCollected == nil {
		f.TotalCollected = big.NewInt(0)
	}
	if f.TotalWithdrawn == nil {
		f.TotalWithdrawn = big.NewInt(0)
	}
}
