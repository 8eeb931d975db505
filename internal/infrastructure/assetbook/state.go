package assetbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/mathutil"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
)

// State is the serializable form of the book, used both for the genesis file
// and for the datafile the book is persisted to. Amounts and ids are base
// unit integers in decimal or 0x-prefixed hex notation.
type State struct {
	// Native maps owners to their native currency balance.
	Native map[string]string `json:"native" mapstructure:"native"`
	Tokens []TokenState      `json:"tokens" mapstructure:"tokens"`
}

// TokenState is the serializable form of a token contract. Only the fields of
// its standard are set.
type TokenState struct {
	Address  string   `json:"address" mapstructure:"address"`
	Standard string   `json:"standard" mapstructure:"standard"`
	Name     string   `json:"name,omitempty" mapstructure:"name"`
	Minters  []string `json:"minters,omitempty" mapstructure:"minters"`

	// Balances maps owners to their fungible balance.
	Balances map[string]string `json:"balances,omitempty" mapstructure:"balances"`
	// Allowances maps owners to spenders to allowed amount.
	Allowances map[string]map[string]string `json:"allowances,omitempty" mapstructure:"allowances"`
	// Owners maps non-fungible ids to their owner.
	Owners map[string]string `json:"owners,omitempty" mapstructure:"owners"`
	// Approvals maps non-fungible ids to their approved spender.
	Approvals map[string]string `json:"approvals,omitempty" mapstructure:"approvals"`
	// Operators maps owners to the operators approved for all their tokens.
	Operators map[string][]string `json:"operators,omitempty" mapstructure:"operators"`
	// Holdings maps semi-fungible ids to owners to balance.
	Holdings map[string]map[string]string `json:"holdings,omitempty" mapstructure:"holdings"`
}

// NewFromState returns a book restored from the given state.
func NewFromState(state State) (*Book, error) {
	b := New()
	if err := b.load(state); err != nil {
		return nil, err
	}
	return b, nil
}

// Open returns a book persisted to the given datafile. If the datafile exists
// the book is restored from it, otherwise it's seeded with the given genesis
// state, if any, and the datafile is created.
func Open(datafile string, genesis *State) (*Book, error) {
	state, err := readState(datafile)
	if err != nil {
		return nil, err
	}

	if state == nil {
		state = &State{}
		if genesis != nil {
			state = genesis
			log.Infof("seeding asset book from genesis state")
		}
	}

	b, err := NewFromState(*state)
	if err != nil {
		return nil, err
	}
	b.datafile = datafile

	if err := writeState(datafile, b.State()); err != nil {
		return nil, err
	}
	return b, nil
}

// State returns a copy of the current state of the book.
func (b *Book) State() *State {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.state()
}

func (b *Book) load(state State) error {
	for owner, value := range state.Native {
		amount, err := mathutil.ParseInteger(value)
		if err != nil {
			return fmt.Errorf("native balance of %s: %w", owner, err)
		}
		if err := b.Fund(common.HexToAddress(owner), amount); err != nil {
			return err
		}
	}

	for _, ts := range state.Tokens {
		if err := b.loadToken(ts); err != nil {
			return fmt.Errorf("token %s: %w", ts.Address, err)
		}
	}

	b.lock.Lock()
	b.journal = nil
	b.lock.Unlock()
	return nil
}

func (b *Book) loadToken(ts TokenState) error {
	if !common.IsHexAddress(ts.Address) {
		return fmt.Errorf("invalid contract address")
	}
	contract := common.HexToAddress(ts.Address)
	standard, err := domain.ParseStandard(ts.Standard)
	if err != nil {
		return err
	}
	minters := make([]common.Address, 0, len(ts.Minters))
	for _, m := range ts.Minters {
		minters = append(minters, common.HexToAddress(m))
	}
	if err := b.Deploy(standard, contract, ts.Name, minters...); err != nil {
		return err
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	switch standard {
	case domain.Fungible:
		t := b.fungibles[contract]
		for owner, value := range ts.Balances {
			amount, err := mathutil.ParseInteger(value)
			if err != nil {
				return fmt.Errorf("balance of %s: %w", owner, err)
			}
			b.setAmount(t.balances, common.HexToAddress(owner), amount)
		}
		for owner, spenders := range ts.Allowances {
			for spender, value := range spenders {
				amount, err := mathutil.ParseInteger(value)
				if err != nil {
					return fmt.Errorf("allowance of %s: %w", owner, err)
				}
				b.setNestedAmount(
					t.allowances, common.HexToAddress(owner),
					common.HexToAddress(spender), amount,
				)
			}
		}
	case domain.NonFungible:
		t := b.nonFungibles[contract]
		for id, owner := range ts.Owners {
			key, err := mathutil.ParseInteger(id)
			if err != nil {
				return fmt.Errorf("token id %s: %w", id, err)
			}
			b.setAddress(t.owners, key.String(), common.HexToAddress(owner))
		}
		for id, spender := range ts.Approvals {
			key, err := mathutil.ParseInteger(id)
			if err != nil {
				return fmt.Errorf("token id %s: %w", id, err)
			}
			b.setAddress(t.approvals, key.String(), common.HexToAddress(spender))
		}
		loadOperators(b, t.operators, ts.Operators)
	case domain.SemiFungibleBatch:
		t := b.semiFungibles[contract]
		for id, holders := range ts.Holdings {
			key, err := mathutil.ParseInteger(id)
			if err != nil {
				return fmt.Errorf("token id %s: %w", id, err)
			}
			for owner, value := range holders {
				amount, err := mathutil.ParseInteger(value)
				if err != nil {
					return fmt.Errorf("balance of %s: %w", owner, err)
				}
				b.setHolding(t.holdings, key.String(), common.HexToAddress(owner), amount)
			}
		}
		loadOperators(b, t.operators, ts.Operators)
	}
	return nil
}

func loadOperators(
	b *Book, m map[common.Address]map[common.Address]bool,
	operators map[string][]string,
) {
	for owner, ops := range operators {
		for _, op := range ops {
			b.setOperator(m, common.HexToAddress(owner), common.HexToAddress(op), true)
		}
	}
}

func (b *Book) state() *State {
	state := &State{
		Native: amountsToStrings(b.native.balances),
		Tokens: make([]TokenState, 0),
	}

	for addr, t := range b.fungibles {
		allowances := make(map[string]map[string]string)
		for owner, spenders := range t.allowances {
			if len(spenders) > 0 {
				allowances[owner.Hex()] = amountsToStrings(spenders)
			}
		}
		state.Tokens = append(state.Tokens, TokenState{
			Address:    addr.Hex(),
			Standard:   domain.Fungible.String(),
			Name:       t.name,
			Minters:    addressesToStrings(minterList(t.minters)),
			Balances:   amountsToStrings(t.balances),
			Allowances: allowances,
		})
	}

	for addr, t := range b.nonFungibles {
		owners := make(map[string]string, len(t.owners))
		for id, owner := range t.owners {
			owners[id] = owner.Hex()
		}
		approvals := make(map[string]string, len(t.approvals))
		for id, spender := range t.approvals {
			approvals[id] = spender.Hex()
		}
		state.Tokens = append(state.Tokens, TokenState{
			Address:   addr.Hex(),
			Standard:  domain.NonFungible.String(),
			Name:      t.name,
			Minters:   addressesToStrings(minterList(t.minters)),
			Owners:    owners,
			Approvals: approvals,
			Operators: operatorsToStrings(t.operators),
		})
	}

	for addr, t := range b.semiFungibles {
		holdings := make(map[string]map[string]string, len(t.holdings))
		for id, holders := range t.holdings {
			if len(holders) > 0 {
				holdings[id] = amountsToStrings(holders)
			}
		}
		state.Tokens = append(state.Tokens, TokenState{
			Address:   addr.Hex(),
			Standard:  domain.SemiFungibleBatch.String(),
			Name:      t.name,
			Minters:   addressesToStrings(minterList(t.minters)),
			Holdings:  holdings,
			Operators: operatorsToStrings(t.operators),
		})
	}

	sort.Slice(state.Tokens, func(i, j int) bool {
		return state.Tokens[i].Address < state.Tokens[j].Address
	})
	return state
}

func readState(datafile string) (*State, error) {
	buf, err := os.ReadFile(datafile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	state := &State{}
	if err := json.Unmarshal(buf, state); err != nil {
		return nil, fmt.Errorf("invalid asset book datafile %s: %w", datafile, err)
	}
	return state, nil
}

func writeState(datafile string, state *State) error {
	buf, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(datafile), os.ModeDir|0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(datafile), filepath.Base(datafile)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), datafile)
}

func amountsToStrings(m map[common.Address]*big.Int) map[string]string {
	out := make(map[string]string, len(m))
	for addr, amount := range m {
		out[addr.Hex()] = amount.String()
	}
	return out
}

func addressesToStrings(addrs []common.Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.Hex())
	}
	return out
}

func operatorsToStrings(
	m map[common.Address]map[common.Address]bool,
) map[string][]string {
	out := make(map[string][]string)
	for owner, ops := range m {
		list := make([]common.Address, 0, len(ops))
		for op, approved := range ops {
			if approved {
				list = append(list, op)
			}
		}
		if len(list) > 0 {
			sort.Slice(list, func(i, j int) bool { return list[i].Hex() < list[j].Hex() })
			out[owner.Hex()] = addressesToStrings(list)
		}
	}
	return out
}
