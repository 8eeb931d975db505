package escrow_test

import (
	"math/big"
	"testing"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/escrow"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestPartyPolicy(t *testing.T) {
	forEachBackend(t, testPartyPolicy)
}

func testPartyPolicy(t *testing.T, b backend) {
	f := b.newFixture(t, func(c *escrow.Config) {
		c.CreateAuthority = escrow.PolicyParty
		c.AcceptAuthority = escrow.PolicyParty
		c.CancelAuthority = escrow.PolicyParty
	})
	maker, taker := newAccount(t), newAccount(t)
	relayer := randomAddress()
	f.fund(t, maker.address, 100, 100)
	f.fund(t, taker.address, 0, 30)
	f.fund(t, relayer, 100, 0)

	terms := f.scenarioTerms(maker.address, 0)
	id, err := f.svc.Fingerprint(terms)
	require.NoError(t, err)
	escrowAddr, err := f.svc.PredictAddress(terms)
	require.NoError(t, err)
	f.approveFungible(t, maker.address, escrowAddr, 50)

	createReq := escrow.CreateOfferRequest{
		Caller:   relayer,
		Terms:    terms,
		MakerFee: big.NewInt(10),
		Value:    big.NewInt(11),
	}

	_, err = f.svc.CreateOffer(ctx, createReq)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)
	require.ErrorIs(t, err, escrow.ErrMissingAuthorization)

	createReq.Auth = f.sign(t, taker, domain.ActionCreate, id, 1)
	_, err = f.svc.CreateOffer(ctx, createReq)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	createReq.Auth = f.sign(t, maker, domain.ActionAccept, id, 1)
	_, err = f.svc.CreateOffer(ctx, createReq)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	// the relayer submits and pays the value, the maker endorses
	createReq.Auth = f.sign(t, maker, domain.ActionCreate, id, 1)
	offer, err := f.svc.CreateOffer(ctx, createReq)
	require.NoError(t, err)
	require.Equal(t, maker.address, offer.Maker.Address)
	f.requireNative(t, relayer, 89)
	f.requireNative(t, maker.address, 100)
	f.requireFungible(t, maker.address, 50)

	f.approveFungible(t, taker.address, offer.Escrow, 30)
	acceptReq := escrow.AcceptOfferRequest{
		Caller:  relayer,
		Taker:   taker.address,
		OfferID: offer.ID,
		Value:   big.NewInt(30),
		Auth:    f.sign(t, taker, domain.ActionAccept, offer.ID, 7),
	}
	accepted, err := f.svc.AcceptOffer(ctx, acceptReq)
	require.NoError(t, err)
	require.Equal(t, taker.address, accepted.Taker.Address)
	f.requireFungible(t, taker.address, 50)
	f.requireNative(t, taker.address, 1)

	// a consumed nonce is rejected before anything else
	_, err = f.svc.AcceptOffer(ctx, acceptReq)
	require.ErrorIs(t, err, domain.ErrReplayedNonce)

	acceptReq.Auth = f.sign(t, taker, domain.ActionAccept, offer.ID, 8)
	_, err = f.svc.AcceptOffer(ctx, acceptReq)
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = f.svc.CancelOffer(ctx, escrow.CancelOfferRequest{
		Caller:  relayer,
		OfferID: offer.ID,
		Auth:    f.sign(t, maker, domain.ActionCancel, offer.ID, 1),
	})
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestOperatorPolicy(t *testing.T) {
	f := newFixture(t, func(c *escrow.Config) {
		c.CancelAuthority = escrow.PolicyOperator
	})
	maker := randomAddress()
	f.fund(t, maker, 100, 100)
	offer := f.createScenarioOffer(t, maker, 0)

	tests := []struct {
		name        string
		req         escrow.CancelOfferRequest
		expectedErr error
	}{
		{
			name:        "missing_authorization",
			req:         escrow.CancelOfferRequest{Caller: maker, OfferID: offer.ID},
			expectedErr: domain.ErrInvalidSignature,
		},
		{
			name: "signed_by_stranger",
			req: escrow.CancelOfferRequest{
				Caller:  maker,
				OfferID: offer.ID,
				Auth:    f.sign(t, newAccount(t), domain.ActionCancel, offer.ID, 1),
			},
			expectedErr: domain.ErrInvalidSignature,
		},
		{
			name: "malformed_signature",
			req: escrow.CancelOfferRequest{
				Caller:  maker,
				OfferID: offer.ID,
				Auth: &escrow.Authorization{
					Nonce: big.NewInt(1), Signature: []byte{1, 2, 3},
				},
			},
			expectedErr: domain.ErrInvalidSignature,
		},
		{
			name: "caller_is_not_maker",
			req: escrow.CancelOfferRequest{
				Caller:  randomAddress(),
				OfferID: offer.ID,
				Auth:    f.sign(t, f.authorizer, domain.ActionCancel, offer.ID, 1),
			},
			expectedErr: domain.ErrUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.CancelOffer(ctx, tt.req)
			require.ErrorIs(t, err, tt.expectedErr)
			require.Nil(t, res)
		})
	}

	auth := f.sign(t, f.authorizer, domain.ActionCancel, offer.ID, 1)
	cancelled, err := f.svc.CancelOffer(ctx, escrow.CancelOfferRequest{
		Caller: maker, OfferID: offer.ID, Auth: auth,
	})
	require.NoError(t, err)
	require.True(t, cancelled.IsCancelled())

	_, err = f.svc.CancelOffer(ctx, escrow.CancelOfferRequest{
		Caller: maker, OfferID: offer.ID, Auth: auth,
	})
	require.ErrorIs(t, err, domain.ErrReplayedNonce)
}

func TestCraftReward(t *testing.T) {
	forEachBackend(t, testCraftReward)
}

func testCraftReward(t *testing.T, b backend) {
	f := b.newFixture(t)
	player := randomAddress()
	rewards := domain.Legs{
		domain.NewFungibleLeg(f.erc20, big.NewInt(500)),
		domain.NewNonFungibleLeg(f.erc721, big.NewInt(1), big.NewInt(2)),
		domain.NewSemiFungibleLeg(
			f.erc1155,
			[]*big.Int{big.NewInt(10), big.NewInt(11)},
			[]*big.Int{big.NewInt(3), big.NewInt(1)},
		),
	}
	rewardID := big.NewInt(99)
	subject := domain.CraftSubject(rewardID, player, rewards)

	req := escrow.CraftRewardRequest{
		Caller:   player,
		RewardID: rewardID,
		Rewards:  rewards,
	}
	_, err := f.svc.CraftReward(ctx, req)
	require.ErrorIs(t, err, escrow.ErrMissingAuthorization)

	req.Auth = f.sign(t, newAccount(t), domain.ActionCraft, subject, 1)
	_, err = f.svc.CraftReward(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	req.Auth = f.sign(t, f.authorizer, domain.ActionCraft, subject, 1)
	craft, err := f.svc.CraftReward(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, craft.ID)
	require.Equal(t, player, craft.Recipient)
	require.Equal(t, f.authorizer.address, craft.Authorizer)

	f.requireFungible(t, player, 500)
	nft, err := f.svc.Balance(ctx, f.erc721, player, nil)
	require.NoError(t, err)
	require.Equal(t, int64(2), nft.Balance.Int64())
	sft, err := f.svc.Balance(ctx, f.erc1155, player, big.NewInt(10))
	require.NoError(t, err)
	require.Equal(t, int64(3), sft.Balance.Int64())

	_, err = f.svc.CraftReward(ctx, req)
	require.ErrorIs(t, err, domain.ErrReplayedNonce)

	// the same nonce can't be reused for a different recipient either
	other := req
	other.Recipient = randomAddress()
	_, err = f.svc.CraftReward(ctx, other)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	// minting the same non-fungible ids twice fails as a whole
	req.Auth = f.sign(t, f.authorizer, domain.ActionCraft, subject, 2)
	_, err = f.svc.CraftReward(ctx, req)
	require.ErrorIs(t, err, domain.ErrBatchExecutionFailed)
	f.requireFungible(t, player, 500)

	crafts, err := f.svc.ListCrafts(ctx, player)
	require.NoError(t, err)
	require.Len(t, crafts, 1)
	got, err := f.svc.GetCraft(ctx, craft.ID)
	require.NoError(t, err)
	require.Equal(t, craft.ID, got.ID)

	_, err = f.svc.GetCraft(ctx, "unknown")
	require.ErrorIs(t, err, domain.ErrUnknownCraft)

	_, err = f.svc.CraftReward(ctx, escrow.CraftRewardRequest{
		RewardID: rewardID, Rewards: rewards,
	})
	require.ErrorIs(t, err, escrow.ErrMissingRecipient)

	_, err = f.svc.CraftReward(ctx, escrow.CraftRewardRequest{
		Caller:   player,
		RewardID: rewardID,
		Rewards:  domain.Legs{domain.NewNativeLeg(big.NewInt(1))},
	})
	require.ErrorIs(t, err, domain.ErrInvalidTerms)
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	owner, spender := randomAddress(), randomAddress()
	approveAll := true

	tests := []struct {
		name        string
		req         escrow.ApprovalRequest
		expectedErr error
	}{
		{
			name:        "unknown_contract",
			req:         escrow.ApprovalRequest{Owner: owner, Spender: spender, Contract: randomAddress(), Amount: big.NewInt(1)},
			expectedErr: escrow.ErrUnknownContract,
		},
		{
			name:        "missing_spender",
			req:         escrow.ApprovalRequest{Owner: owner, Contract: f.erc20, Amount: big.NewInt(1)},
			expectedErr: escrow.ErrInvalidApproval,
		},
		{
			name:        "fungible_without_amount",
			req:         escrow.ApprovalRequest{Owner: owner, Spender: spender, Contract: f.erc20},
			expectedErr: escrow.ErrInvalidApproval,
		},
		{
			name:        "non_fungible_without_id",
			req:         escrow.ApprovalRequest{Owner: owner, Spender: spender, Contract: f.erc721},
			expectedErr: escrow.ErrInvalidApproval,
		},
		{
			name:        "semi_fungible_single_token",
			req:         escrow.ApprovalRequest{Owner: owner, Spender: spender, Contract: f.erc1155, ID: big.NewInt(1)},
			expectedErr: escrow.ErrInvalidApproval,
		},
		{
			name: "semi_fungible_operator",
			req:  escrow.ApprovalRequest{Owner: owner, Spender: spender, Contract: f.erc1155, ApproveAll: &approveAll},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.Approve(ctx, tt.req)
			if tt.expectedErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}

	_, err := f.svc.Balance(ctx, randomAddress(), owner, nil)
	require.ErrorIs(t, err, escrow.ErrUnknownContract)
	_, err = f.svc.Balance(ctx, f.erc1155, owner, nil)
	require.ErrorIs(t, err, domain.ErrInvalidLeg)

	balance, err := f.svc.Balance(ctx, common.Address{}, owner, nil)
	require.NoError(t, err)
	require.Equal(t, domain.Native, balance.Standard)
	require.Zero(t, balance.Balance.Sign())
}
