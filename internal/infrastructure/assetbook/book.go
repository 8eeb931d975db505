package assetbook

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/storageutil/uow"
	"github.com/ethereum/go-ethereum/common"
)

// ContractInfo describes a token contract registered in the book.
type ContractInfo struct {
	Address  common.Address
	Standard domain.Standard
	Name     string
	Minters  []common.Address
}

// Book is an in-process registry of token contracts of the four supported
// standards. Every change is recorded in a journal of undo operations, which
// makes it possible to revert to any previous snapshot.
type Book struct {
	lock sync.RWMutex

	native        *nativeCurrency
	fungibles     map[common.Address]*fungibleToken
	nonFungibles  map[common.Address]*nonFungibleToken
	semiFungibles map[common.Address]*semiFungibleToken

	journal  []func()
	openTxs  int
	datafile string
}

// New returns an empty asset book.
func New() *Book {
	b := &Book{
		fungibles:     make(map[common.Address]*fungibleToken),
		nonFungibles:  make(map[common.Address]*nonFungibleToken),
		semiFungibles: make(map[common.Address]*semiFungibleToken),
	}
	b.native = &nativeCurrency{b, make(map[common.Address]*big.Int)}
	return b
}

// Snapshot returns an identifier of the current state.
func (b *Book) Snapshot() int {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return len(b.journal)
}

// RevertToSnapshot undoes every change made after the given snapshot was
// taken.
func (b *Book) RevertToSnapshot(id int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.revert(id)
}

// Begin opens a transaction over the book. Rolling it back reverts every
// change made since, committing it persists the state if the book is backed
// by a datafile.
func (b *Book) Begin(_ context.Context) (uow.Tx, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.openTxs++
	return &bookTx{book: b, snapshot: len(b.journal)}, nil
}

func (b *Book) Native() ports.NativeCurrency {
	return b.native
}

func (b *Book) Fungible(contract common.Address) (ports.FungibleToken, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	token, ok := b.fungibles[contract]
	if !ok {
		return nil, fmt.Errorf("%w: fungible %s", ErrUnknownToken, contract.Hex())
	}
	return token, nil
}

func (b *Book) NonFungible(
	contract common.Address,
) (ports.NonFungibleToken, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	token, ok := b.nonFungibles[contract]
	if !ok {
		return nil, fmt.Errorf("%w: non-fungible %s", ErrUnknownToken, contract.Hex())
	}
	return token, nil
}

func (b *Book) SemiFungible(
	contract common.Address,
) (ports.SemiFungibleToken, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	token, ok := b.semiFungibles[contract]
	if !ok {
		return nil, fmt.Errorf("%w: semi-fungible %s", ErrUnknownToken, contract.Hex())
	}
	return token, nil
}

// Deploy registers a new token contract of the given standard.
func (b *Book) Deploy(
	standard domain.Standard, contract common.Address, name string,
	minters ...common.Address,
) error {
	if contract == (common.Address{}) {
		return fmt.Errorf("missing contract address")
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if b.exists(contract) {
		return fmt.Errorf("%w: %s", ErrTokenExists, contract.Hex())
	}

	minterSet := make(map[common.Address]bool, len(minters))
	for _, m := range minters {
		minterSet[m] = true
	}

	switch standard {
	case domain.Fungible:
		b.fungibles[contract] = &fungibleToken{
			book:       b,
			address:    contract,
			name:       name,
			minters:    minterSet,
			balances:   make(map[common.Address]*big.Int),
			allowances: make(map[common.Address]map[common.Address]*big.Int),
		}
		b.record(func() { delete(b.fungibles, contract) })
	case domain.NonFungible:
		b.nonFungibles[contract] = &nonFungibleToken{
			book:      b,
			address:   contract,
			name:      name,
			minters:   minterSet,
			owners:    make(map[string]common.Address),
			approvals: make(map[string]common.Address),
			operators: make(map[common.Address]map[common.Address]bool),
		}
		b.record(func() { delete(b.nonFungibles, contract) })
	case domain.SemiFungibleBatch:
		b.semiFungibles[contract] = &semiFungibleToken{
			book:      b,
			address:   contract,
			name:      name,
			minters:   minterSet,
			holdings:  make(map[string]map[common.Address]*big.Int),
			operators: make(map[common.Address]map[common.Address]bool),
		}
		b.record(func() { delete(b.semiFungibles, contract) })
	default:
		return fmt.Errorf("can't deploy a %s contract", standard)
	}
	return nil
}

// Fund credits the given amount of native currency to the owner.
func (b *Book) Fund(owner common.Address, amount *big.Int) error {
	if !isValidAmount(amount) {
		return ErrInvalidAmount
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	balance := b.native.balanceOf(owner)
	b.setAmount(b.native.balances, owner, new(big.Int).Add(balance, amount))
	return nil
}

// Contracts returns the registered token contracts sorted by address.
func (b *Book) Contracts() []ContractInfo {
	b.lock.RLock()
	defer b.lock.RUnlock()

	contracts := make([]ContractInfo, 0)
	for addr, t := range b.fungibles {
		contracts = append(contracts, ContractInfo{addr, domain.Fungible, t.name, minterList(t.minters)})
	}
	for addr, t := range b.nonFungibles {
		contracts = append(contracts, ContractInfo{addr, domain.NonFungible, t.name, minterList(t.minters)})
	}
	for addr, t := range b.semiFungibles {
		contracts = append(contracts, ContractInfo{addr, domain.SemiFungibleBatch, t.name, minterList(t.minters)})
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].Address.Hex() < contracts[j].Address.Hex()
	})
	return contracts
}

func (b *Book) exists(contract common.Address) bool {
	_, isFungible := b.fungibles[contract]
	_, isNonFungible := b.nonFungibles[contract]
	_, isSemiFungible := b.semiFungibles[contract]
	return isFungible || isNonFungible || isSemiFungible
}

// record appends an undo operation to the journal. The lock must be held.
func (b *Book) record(undo func()) {
	b.journal = append(b.journal, undo)
}

// revert runs the undo operations down to the given journal position. The
// lock must be held.
func (b *Book) revert(id int) {
	if id < 0 {
		id = 0
	}
	for i := len(b.journal) - 1; i >= id; i-- {
		b.journal[i]()
	}
	if id < len(b.journal) {
		b.journal = b.journal[:id]
	}
}

func (b *Book) setAmount(
	m map[common.Address]*big.Int, key common.Address, value *big.Int,
) {
	prev, ok := m[key]
	b.record(func() {
		if ok {
			m[key] = prev
			return
		}
		delete(m, key)
	})
	if value.Sign() == 0 {
		delete(m, key)
		return
	}
	m[key] = value
}

func (b *Book) setNestedAmount(
	m map[common.Address]map[common.Address]*big.Int,
	outer, inner common.Address, value *big.Int,
) {
	if _, ok := m[outer]; !ok {
		m[outer] = make(map[common.Address]*big.Int)
	}
	b.setAmount(m[outer], inner, value)
}

func (b *Book) setHolding(
	m map[string]map[common.Address]*big.Int,
	id string, owner common.Address, value *big.Int,
) {
	if _, ok := m[id]; !ok {
		m[id] = make(map[common.Address]*big.Int)
	}
	b.setAmount(m[id], owner, value)
}

func (b *Book) setAddress(
	m map[string]common.Address, key string, value common.Address,
) {
	prev, ok := m[key]
	b.record(func() {
		if ok {
			m[key] = prev
			return
		}
		delete(m, key)
	})
	if value == (common.Address{}) {
		delete(m, key)
		return
	}
	m[key] = value
}

func (b *Book) setOperator(
	m map[common.Address]map[common.Address]bool,
	owner, operator common.Address, approved bool,
) {
	if _, ok := m[owner]; !ok {
		m[owner] = make(map[common.Address]bool)
	}
	ops := m[owner]
	prev := ops[operator]
	b.record(func() {
		if prev {
			ops[operator] = true
			return
		}
		delete(ops, operator)
	})
	if approved {
		ops[operator] = true
		return
	}
	delete(ops, operator)
}

type bookTx struct {
	book     *Book
	snapshot int
	done     bool
}

// Commit persists the state of the book if it's backed by a datafile. If
// persisting fails, the changes made within the transaction are reverted and
// the error is returned.
func (t *bookTx) Commit() error {
	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	if t.done {
		return nil
	}
	t.done = true
	t.book.openTxs--

	if len(t.book.datafile) > 0 {
		if err := writeState(t.book.datafile, t.book.state()); err != nil {
			t.book.revert(t.snapshot)
			return fmt.Errorf("persisting asset book to %s: %w", t.book.datafile, err)
		}
	}

	// nothing can be reverted past the outermost transaction
	if t.book.openTxs == 0 {
		t.book.journal = nil
	}
	return nil
}

func (t *bookTx) Rollback() error {
	t.book.lock.Lock()
	defer t.book.lock.Unlock()

	if t.done {
		return nil
	}
	t.done = true
	t.book.openTxs--
	t.book.revert(t.snapshot)
	return nil
}

func isValidAmount(amount *big.Int) bool {
	return amount != nil && amount.Sign() >= 0 && amount.BitLen() <= 256
}

func minterList(minters map[common.Address]bool) []common.Address {
	list := make([]common.Address, 0, len(minters))
	for m := range minters {
		list = append(list, m)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Hex() < list[j].Hex() })
	return list
}
