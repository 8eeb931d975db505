package escrow_test

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/escrow"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/assetbook"
	dbbadger "github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/badger"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/inmemory"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/authsig"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"
)

var (
	ctx     = context.Background()
	chainID = big.NewInt(1337)
)

type account struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

type fixture struct {
	svc       *escrow.Service
	book      *assetbook.Book
	publisher *eventRecorder

	core       common.Address
	owner      account
	authorizer account

	erc20   common.Address
	erc721  common.Address
	erc1155 common.Address
}

// backend is a ledger storage the engine tests run against.
type backend struct {
	name           string
	newRepoManager func(t *testing.T) ports.RepoManager
}

var backends = []backend{
	{
		name: "inmemory",
		newRepoManager: func(t *testing.T) ports.RepoManager {
			return inmemory.NewRepoManager()
		},
	},
	{
		name: "badger_inmemory",
		newRepoManager: func(t *testing.T) ports.RepoManager {
			rm, err := dbbadger.NewRepoManager("", nil)
			require.NoError(t, err)
			return rm
		},
	},
}

// forEachBackend runs the given test once per ledger storage.
func forEachBackend(t *testing.T, test func(t *testing.T, b backend)) {
	for i := range backends {
		b := backends[i]
		t.Run(b.name, func(t *testing.T) {
			test(t, b)
		})
	}
}

func (b backend) newFixture(t *testing.T, opts ...func(*escrow.Config)) *fixture {
	return newFixtureWith(t, b.newRepoManager(t), assetbook.New(), opts...)
}

func newFixture(t *testing.T, opts ...func(*escrow.Config)) *fixture {
	return backends[0].newFixture(t, opts...)
}

func newFixtureWith(
	t *testing.T, repoManager ports.RepoManager, book *assetbook.Book,
	opts ...func(*escrow.Config),
) *fixture {
	t.Cleanup(repoManager.Close)

	f := &fixture{
		book:       book,
		publisher:  &eventRecorder{},
		core:       randomAddress(),
		owner:      newAccount(t),
		authorizer: newAccount(t),
		erc20:      randomAddress(),
		erc721:     randomAddress(),
		erc1155:    randomAddress(),
	}
	require.NoError(t, f.book.Deploy(domain.Fungible, f.erc20, "Test20", f.core))
	require.NoError(t, f.book.Deploy(domain.NonFungible, f.erc721, "Test721", f.core))
	require.NoError(t, f.book.Deploy(domain.SemiFungibleBatch, f.erc1155, "Test1155", f.core))

	cfg := escrow.Config{
		ChainID:     chainID,
		CoreAddress: f.core,
		Owner:       f.owner.address,
		Authorizer:  f.authorizer.address,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	svc, err := escrow.NewService(repoManager, f.book, f.publisher, cfg)
	require.NoError(t, err)
	f.svc = svc
	t.Cleanup(svc.Close)
	return f
}

func newAccount(t *testing.T) account {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return account{key, crypto.PubkeyToAddress(key.PublicKey)}
}

// fund gives the address native currency and mints it fungible tokens.
func (f *fixture) fund(t *testing.T, addr common.Address, native, fungible int64) {
	require.NoError(t, f.book.Fund(addr, big.NewInt(native)))
	token, err := f.book.Fungible(f.erc20)
	require.NoError(t, err)
	require.NoError(t, token.Mint(ctx, f.core, addr, big.NewInt(fungible)))
}

func (f *fixture) mintNFT(t *testing.T, to common.Address, id int64) {
	token, err := f.book.NonFungible(f.erc721)
	require.NoError(t, err)
	require.NoError(t, token.Mint(ctx, f.core, to, big.NewInt(id)))
}

func (f *fixture) approveFungible(
	t *testing.T, owner, spender common.Address, amount int64,
) {
	err := f.svc.Approve(ctx, escrow.ApprovalRequest{
		Owner:    owner,
		Contract: f.erc20,
		Spender:  spender,
		Amount:   big.NewInt(amount),
	})
	require.NoError(t, err)
}

func (f *fixture) requireNative(t *testing.T, addr common.Address, expected int64) {
	balance, err := f.book.Native().BalanceOf(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, expected, balance.Int64(), "native balance of %s", addr.Hex())
}

func (f *fixture) requireFungible(t *testing.T, addr common.Address, expected int64) {
	token, err := f.book.Fungible(f.erc20)
	require.NoError(t, err)
	balance, err := token.BalanceOf(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, expected, balance.Int64(), "fungible balance of %s", addr.Hex())
}

func (f *fixture) requireFees(t *testing.T, expected int64) {
	fees, err := f.svc.GetFees(ctx)
	require.NoError(t, err)
	require.Equal(t, expected, fees.Balance.Int64())
}

// scenarioTerms are the terms of the reference swap: the maker gives 1 native
// and 50 fungible tokens for 30 native and 30 fungible tokens.
func (f *fixture) scenarioTerms(maker common.Address, nonce int64) domain.OfferTerms {
	return domain.OfferTerms{
		Maker: maker,
		MakerLegs: domain.Legs{
			domain.NewNativeLeg(big.NewInt(1)),
			domain.NewFungibleLeg(f.erc20, big.NewInt(50)),
		},
		TakerLegs: domain.Legs{
			domain.NewNativeLeg(big.NewInt(30)),
			domain.NewFungibleLeg(f.erc20, big.NewInt(30)),
		},
		Nonce: big.NewInt(nonce),
	}
}

// createScenarioOffer approves the escrow and creates the reference offer
// with a maker fee of 10.
func (f *fixture) createScenarioOffer(
	t *testing.T, maker common.Address, nonce int64,
) *domain.Offer {
	terms := f.scenarioTerms(maker, nonce)
	escrowAddr, err := f.svc.PredictAddress(terms)
	require.NoError(t, err)
	f.approveFungible(t, maker, escrowAddr, 50)

	offer, err := f.svc.CreateOffer(ctx, escrow.CreateOfferRequest{
		Caller:   maker,
		Terms:    terms,
		MakerFee: big.NewInt(10),
		Value:    big.NewInt(11),
	})
	require.NoError(t, err)
	require.Equal(t, escrowAddr, offer.Escrow)
	return offer
}

func (f *fixture) sign(
	t *testing.T, signer account, action domain.Action, subject common.Hash,
	nonce int64,
) *escrow.Authorization {
	sig, err := authsig.Sign(
		signer.key, string(action), chainID, f.core, subject, big.NewInt(nonce),
	)
	require.NoError(t, err)
	return &escrow.Authorization{Nonce: big.NewInt(nonce), Signature: sig}
}

func randomAddress() common.Address {
	return common.HexToAddress(randstr.Hex(20))
}

// eventRecorder collects the published events. Events listed in delays are
// recorded after sleeping for the given duration.
type eventRecorder struct {
	lock   sync.Mutex
	events []string
	delays map[string]time.Duration
}

func (r *eventRecorder) PublishOfferEvent(offer domain.Offer) error {
	r.record("offer." + offer.Status.String())
	return nil
}

func (r *eventRecorder) PublishFeesCollectedEvent(
	_ common.Address, _ *big.Int, _ int64,
) error {
	r.record("fees.collected")
	return nil
}

func (r *eventRecorder) PublishRewardCraftedEvent(_ domain.Craft) error {
	r.record("reward.crafted")
	return nil
}

func (r *eventRecorder) record(event string) {
	if delay, ok := r.delays[event]; ok {
		time.Sleep(delay)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) count(event string) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func (r *eventRecorder) all() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.events...)
}
