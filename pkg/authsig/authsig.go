// Package authsig builds, signs and verifies the authorization messages that
// gate escrow operations. A message binds an action tag, a chain id, the
// verifying (core) address, a 32-byte subject and a nonce, and is signed as an
// EIP-191 personal message.
package authsig

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	prefix = "FioraSwap"
	// SignatureLength is the length of a [R || S || V] signature.
	SignatureLength = crypto.SignatureLength
)

var (
	// ErrMalformedSignature ...
	ErrMalformedSignature = errors.New("malformed signature")
	// ErrSignerMismatch is returned when a signature recovers to an address
	// other than the expected one.
	ErrSignerMismatch = errors.New("signer mismatch")
	// ErrInvalidNonce ...
	ErrInvalidNonce = errors.New("nonce must be a 256-bit unsigned integer")
)

// Digest returns the hash of the authorization message, before the EIP-191
// envelope is applied.
func Digest(
	action string, chainID *big.Int, verifier common.Address,
	subject common.Hash, nonce *big.Int,
) (common.Hash, error) {
	if nonce == nil || nonce.Sign() < 0 || nonce.BitLen() > 256 {
		return common.Hash{}, ErrInvalidNonce
	}
	if chainID == nil {
		chainID = big.NewInt(0)
	}
	if chainID.Sign() < 0 || chainID.BitLen() > 256 {
		return common.Hash{}, fmt.Errorf("invalid chain id %s", chainID)
	}

	return crypto.Keccak256Hash(
		[]byte(prefix),
		[]byte(action),
		math.U256Bytes(new(big.Int).Set(chainID)),
		verifier.Bytes(),
		subject.Bytes(),
		math.U256Bytes(new(big.Int).Set(nonce)),
	), nil
}

// MessageHash returns the EIP-191 hash of the authorization message, the one
// actually signed.
func MessageHash(
	action string, chainID *big.Int, verifier common.Address,
	subject common.Hash, nonce *big.Int,
) ([]byte, error) {
	digest, err := Digest(action, chainID, verifier, subject, nonce)
	if err != nil {
		return nil, err
	}
	return accounts.TextHash(digest.Bytes()), nil
}

// Sign signs the authorization message with the given key. The returned
// signature has V in {27, 28}.
func Sign(
	key *ecdsa.PrivateKey, action string, chainID *big.Int,
	verifier common.Address, subject common.Hash, nonce *big.Int,
) ([]byte, error) {
	hash, err := MessageHash(action, chainID, verifier, subject, nonce)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(hash, key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// Recover returns the address of the signer of the authorization message.
// Both {0, 1} and {27, 28} recovery ids are accepted.
func Recover(
	signature []byte, action string, chainID *big.Int,
	verifier common.Address, subject common.Hash, nonce *big.Int,
) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrMalformedSignature, SignatureLength, len(signature),
		)
	}

	hash, err := MessageHash(action, chainID, verifier, subject, nonce)
	if err != nil {
		return common.Address{}, err
	}

	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return common.Address{}, fmt.Errorf(
			"%w: invalid recovery id", ErrMalformedSignature,
		)
	}

	pubkey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %s", ErrMalformedSignature, err)
	}
	return crypto.PubkeyToAddress(*pubkey), nil
}

// Verify checks that the signature was produced by the expected signer.
func Verify(
	expected common.Address, signature []byte, action string, chainID *big.Int,
	verifier common.Address, subject common.Hash, nonce *big.Int,
) error {
	signer, err := Recover(signature, action, chainID, verifier, subject, nonce)
	if err != nil {
		return err
	}
	if signer != expected {
		return fmt.Errorf(
			"%w: got %s, expected %s", ErrSignerMismatch, signer.Hex(), expected.Hex(),
		)
	}
	return nil
}
