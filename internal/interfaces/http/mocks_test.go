package httpinterface

import (
	"context"
	"math/big"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/escrow"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

type mockEscrowService struct {
	mock.Mock
}

func (m *mockEscrowService) Config() escrow.Config {
	args := m.Called()
	return args.Get(0).(escrow.Config)
}

func (m *mockEscrowService) Fingerprint(terms domain.OfferTerms) (common.Hash, error) {
	args := m.Called(terms)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *mockEscrowService) PredictAddress(terms domain.OfferTerms) (common.Address, error) {
	args := m.Called(terms)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *mockEscrowService) CreateOffer(
	ctx context.Context, req escrow.CreateOfferRequest,
) (*domain.Offer, error) {
	args := m.Called(ctx, req)
	return offerArg(args), args.Error(1)
}

func (m *mockEscrowService) AcceptOffer(
	ctx context.Context, req escrow.AcceptOfferRequest,
) (*domain.Offer, error) {
	args := m.Called(ctx, req)
	return offerArg(args), args.Error(1)
}

func (m *mockEscrowService) CancelOffer(
	ctx context.Context, req escrow.CancelOfferRequest,
) (*domain.Offer, error) {
	args := m.Called(ctx, req)
	return offerArg(args), args.Error(1)
}

func (m *mockEscrowService) BatchCancelOffers(
	ctx context.Context, caller common.Address, low, high uint64,
) (*escrow.BatchCancelResult, error) {
	args := m.Called(ctx, caller, low, high)

	var res *escrow.BatchCancelResult
	if a := args.Get(0); a != nil {
		res = a.(*escrow.BatchCancelResult)
	}
	return res, args.Error(1)
}

func (m *mockEscrowService) GetOffer(
	ctx context.Context, id common.Hash,
) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	return offerArg(args), args.Error(1)
}

func (m *mockEscrowService) GetOfferBySequence(
	ctx context.Context, sequence uint64,
) (*domain.Offer, error) {
	args := m.Called(ctx, sequence)
	return offerArg(args), args.Error(1)
}

func (m *mockEscrowService) ListOffers(
	ctx context.Context, status *domain.OfferStatus,
) ([]domain.Offer, error) {
	args := m.Called(ctx, status)

	var res []domain.Offer
	if a := args.Get(0); a != nil {
		res = a.([]domain.Offer)
	}
	return res, args.Error(1)
}

func (m *mockEscrowService) GetFees(ctx context.Context) (*domain.FeeAccount, error) {
	args := m.Called(ctx)

	var res *domain.FeeAccount
	if a := args.Get(0); a != nil {
		res = a.(*domain.FeeAccount)
	}
	return res, args.Error(1)
}

func (m *mockEscrowService) CollectFees(
	ctx context.Context, caller common.Address,
) (*big.Int, error) {
	args := m.Called(ctx, caller)

	var res *big.Int
	if a := args.Get(0); a != nil {
		res = a.(*big.Int)
	}
	return res, args.Error(1)
}

func (m *mockEscrowService) CraftReward(
	ctx context.Context, req escrow.CraftRewardRequest,
) (*domain.Craft, error) {
	args := m.Called(ctx, req)
	return craftArg(args), args.Error(1)
}

func (m *mockEscrowService) GetCraft(ctx context.Context, id string) (*domain.Craft, error) {
	args := m.Called(ctx, id)
	return craftArg(args), args.Error(1)
}

func (m *mockEscrowService) ListCrafts(
	ctx context.Context, recipient common.Address,
) ([]domain.Craft, error) {
	args := m.Called(ctx, recipient)

	var res []domain.Craft
	if a := args.Get(0); a != nil {
		res = a.([]domain.Craft)
	}
	return res, args.Error(1)
}

func (m *mockEscrowService) Approve(ctx context.Context, req escrow.ApprovalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockEscrowService) Balance(
	ctx context.Context, contract, owner common.Address, id *big.Int,
) (*escrow.AssetBalance, error) {
	args := m.Called(ctx, contract, owner, id)

	var res *escrow.AssetBalance
	if a := args.Get(0); a != nil {
		res = a.(*escrow.AssetBalance)
	}
	return res, args.Error(1)
}

func offerArg(args mock.Arguments) *domain.Offer {
	if a := args.Get(0); a != nil {
		return a.(*domain.Offer)
	}
	return nil
}

func craftArg(args mock.Arguments) *domain.Craft {
	if a := args.Get(0); a != nil {
		return a.(*domain.Craft)
	}
	return nil
}
