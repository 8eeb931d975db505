package escrow

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/storageutil/uow"
	"github.com/ethereum/go-ethereum/common"
)

// Service is the escrow engine. State-changing operations are serialized and
// each of them runs in a single unit of work spanning the ledger and the
// asset book.
type Service struct {
	lock sync.Mutex

	repoManager ports.RepoManager
	assetBook   ports.AssetBook
	executor    batchExecutor
	publisher   EventPublisher
	events      *eventQueue

	cfg          Config
	templateHash common.Hash
}

// NewService returns the escrow engine. The publisher is optional, if set
// it's notified of every committed operation, in commit order.
func NewService(
	repoManager ports.RepoManager, assetBook ports.AssetBook,
	publisher EventPublisher, cfg Config,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if assetBook == nil {
		return nil, fmt.Errorf("missing asset book")
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc := &Service{
		repoManager:  repoManager,
		assetBook:    assetBook,
		executor:     newBatchExecutor(assetBook),
		publisher:    publisher,
		cfg:          cfg,
		templateHash: domain.EscrowTemplateHash(cfg.EscrowTemplate),
	}
	if publisher != nil {
		svc.events = newEventQueue()
	}
	return svc, nil
}

// Close waits for the pending events to be published. Events of operations
// committed afterwards are dropped.
func (s *Service) Close() {
	if s.events != nil {
		s.events.close()
	}
}

// Config returns the validated configuration of the engine.
func (s *Service) Config() Config {
	cfg := s.cfg
	cfg.ChainID = new(big.Int).Set(s.cfg.ChainID)
	return cfg
}

// Fingerprint returns the id an offer with the given terms gets.
func (s *Service) Fingerprint(terms domain.OfferTerms) (common.Hash, error) {
	return domain.Fingerprint(terms)
}

// PredictAddress returns the custody address of the offer with the given
// terms. Makers approve it before creating the offer.
func (s *Service) PredictAddress(terms domain.OfferTerms) (common.Address, error) {
	id, err := domain.Fingerprint(terms)
	if err != nil {
		return common.Address{}, err
	}
	return s.escrowAddress(id), nil
}

func (s *Service) GetOffer(
	ctx context.Context, id common.Hash,
) (*domain.Offer, error) {
	return s.repoManager.OfferRepository().GetOffer(ctx, id)
}

func (s *Service) GetOfferBySequence(
	ctx context.Context, sequence uint64,
) (*domain.Offer, error) {
	return s.repoManager.OfferRepository().GetOfferBySequence(ctx, sequence)
}

// ListOffers returns all offers ordered by sequence, optionally filtered by
// status.
func (s *Service) ListOffers(
	ctx context.Context, status *domain.OfferStatus,
) ([]domain.Offer, error) {
	return s.repoManager.OfferRepository().GetAllOffers(ctx, status)
}

// GetFees returns the native fee account.
func (s *Service) GetFees(ctx context.Context) (*domain.FeeAccount, error) {
	return s.repoManager.FeeRepository().GetFeeAccount(ctx, domain.NativeCurrency)
}

func (s *Service) GetCraft(ctx context.Context, id string) (*domain.Craft, error) {
	return s.repoManager.CraftRepository().GetCraft(ctx, id)
}

// ListCrafts returns the crafts minted to the given recipient, or all of them
// if the recipient is the zero address.
func (s *Service) ListCrafts(
	ctx context.Context, recipient common.Address,
) ([]domain.Craft, error) {
	if recipient == (common.Address{}) {
		return s.repoManager.CraftRepository().GetAllCrafts(ctx)
	}
	return s.repoManager.CraftRepository().GetCraftsByRecipient(ctx, recipient)
}

func (s *Service) escrowAddress(id common.Hash) common.Address {
	return domain.PredictEscrowAddress(s.cfg.CoreAddress, s.templateHash, id)
}

// runInTx runs fn in a unit of work over the asset book and the ledger. The
// book commits first since persisting its datafile is what most likely fails,
// and a failed book commit leaves the ledger uncommitted.
func (s *Service) runInTx(
	ctx context.Context, fn func(ctx context.Context) error,
) error {
	return uow.NewUnitOfWork(s.assetBook, s.repoManager).Run(ctx, fn)
}

func (s *Service) creditFee(
	ctx context.Context, amount *big.Int, timestamp int64,
) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return s.repoManager.FeeRepository().UpdateFeeAccount(
		ctx, domain.NativeCurrency,
		func(f *domain.FeeAccount) (*domain.FeeAccount, error) {
			if err := f.Credit(amount, timestamp); err != nil {
				return nil, err
			}
			return f, nil
		},
	)
}

// checkValue makes sure the attached value covers exactly the native legs
// the caller pays plus its fee.
func checkValue(value *big.Int, legs domain.Legs, fee *big.Int) error {
	if value == nil {
		value = big.NewInt(0)
	}
	if value.Sign() < 0 {
		return ErrNegativeValue
	}
	expected := legs.NativeTotal()
	if fee != nil {
		expected = new(big.Int).Add(expected, fee)
	}
	if value.Cmp(expected) != 0 {
		return fmt.Errorf(
			"%w: got %s, expected %s", domain.ErrValueMismatch, value, expected,
		)
	}
	return nil
}

func now() int64 {
	return time.Now().Unix()
}
