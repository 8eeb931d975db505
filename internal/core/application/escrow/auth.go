package escrow

import (
	"context"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/authsig"
	"github.com/ethereum/go-ethereum/common"
)

// checkReplay fails if the nonce of the given authorization was already
// consumed for the subject and action. Unsigned policies skip it.
func (s *Service) checkReplay(
	ctx context.Context, policy Policy, subject common.Hash,
	action domain.Action, auth *Authorization,
) error {
	if !policy.isSigned() || auth == nil || auth.Nonce == nil {
		return nil
	}
	consumed, err := s.repoManager.NonceRepository().IsNonceConsumed(
		ctx, subject, action, auth.Nonce,
	)
	if err != nil {
		return err
	}
	if consumed {
		return fmt.Errorf(
			"%w: %s nonce %s for %s", domain.ErrReplayedNonce, action, auth.Nonce,
			subject.Hex(),
		)
	}
	return nil
}

// checkCaller makes sure that the caller is the acting party, unless the
// policy lets a relayer submit on its behalf.
func checkCaller(policy Policy, caller, actingParty common.Address) error {
	if policy == PolicyParty {
		return nil
	}
	if caller != actingParty {
		return fmt.Errorf("%w: %s", ErrNotActingParty, caller.Hex())
	}
	return nil
}

// verifyAuthorization checks the signature required by the policy: the
// authorizer signs under the operator policy, the acting party under the
// party policy.
func (s *Service) verifyAuthorization(
	policy Policy, subject common.Hash, action domain.Action,
	actingParty common.Address, auth *Authorization,
) error {
	if !policy.isSigned() {
		return nil
	}
	if auth == nil || auth.Nonce == nil || len(auth.Signature) == 0 {
		return ErrMissingAuthorization
	}

	signer := s.cfg.Authorizer
	if policy == PolicyParty {
		signer = actingParty
	}
	if err := authsig.Verify(
		signer, auth.Signature, string(action), s.cfg.ChainID,
		s.cfg.CoreAddress, subject, auth.Nonce,
	); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidSignature, err)
	}
	return nil
}

// consumeAuthorization records the nonce of a verified authorization.
func (s *Service) consumeAuthorization(
	ctx context.Context, policy Policy, subject common.Hash,
	action domain.Action, auth *Authorization, timestamp int64,
) error {
	if !policy.isSigned() {
		return nil
	}
	return s.repoManager.NonceRepository().ConsumeNonce(
		ctx, domain.NewConsumedNonce(subject, action, auth.Nonce, timestamp),
	)
}
