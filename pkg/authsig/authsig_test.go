package authsig_test

import (
	"math/big"
	"testing"

	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/authsig"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var (
	chainID  = big.NewInt(31337)
	verifier = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	subject  = common.HexToHash("0x0102030405060708091011121314151617181920212223242526272829303132")
)

func TestDigest(t *testing.T) {
	t.Parallel()

	digest, err := authsig.Digest("accept", chainID, verifier, subject, big.NewInt(1))
	require.NoError(t, err)

	again, err := authsig.Digest("accept", chainID, verifier, subject, big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, digest, again)

	tests := []struct {
		name     string
		action   string
		chainID  *big.Int
		verifier common.Address
		subject  common.Hash
		nonce    *big.Int
	}{
		{"action", "cancel", chainID, verifier, subject, big.NewInt(1)},
		{"chain id", "accept", big.NewInt(1), verifier, subject, big.NewInt(1)},
		{"verifier", "accept", chainID, common.HexToAddress("0x01"), subject, big.NewInt(1)},
		{"subject", "accept", chainID, verifier, common.HexToHash("0x01"), big.NewInt(1)},
		{"nonce", "accept", chainID, verifier, subject, big.NewInt(2)},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			other, err := authsig.Digest(tt.action, tt.chainID, tt.verifier, tt.subject, tt.nonce)
			require.NoError(t, err)
			require.NotEqual(t, digest, other)
		})
	}

	_, err = authsig.Digest("accept", chainID, verifier, subject, big.NewInt(-1))
	require.ErrorIs(t, err, authsig.ErrInvalidNonce)

	_, err = authsig.Digest("accept", chainID, verifier, subject, nil)
	require.ErrorIs(t, err, authsig.ErrInvalidNonce)
}

func TestSignRecoverVerify(t *testing.T) {
	t.Parallel()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)
	nonce := big.NewInt(42)

	sig, err := authsig.Sign(key, "create", chainID, verifier, subject, nonce)
	require.NoError(t, err)
	require.Len(t, sig, authsig.SignatureLength)
	require.Contains(t, []byte{27, 28}, sig[64])

	recovered, err := authsig.Recover(sig, "create", chainID, verifier, subject, nonce)
	require.NoError(t, err)
	require.Equal(t, signer, recovered)

	// Raw recovery ids are accepted as well.
	raw := append([]byte{}, sig...)
	raw[64] -= 27
	recovered, err = authsig.Recover(raw, "create", chainID, verifier, subject, nonce)
	require.NoError(t, err)
	require.Equal(t, signer, recovered)

	require.NoError(t, authsig.Verify(signer, sig, "create", chainID, verifier, subject, nonce))

	err = authsig.Verify(signer, sig, "accept", chainID, verifier, subject, nonce)
	require.ErrorIs(t, err, authsig.ErrSignerMismatch)

	err = authsig.Verify(common.HexToAddress("0x01"), sig, "create", chainID, verifier, subject, nonce)
	require.ErrorIs(t, err, authsig.ErrSignerMismatch)

	_, err = authsig.Recover(sig[:64], "create", chainID, verifier, subject, nonce)
	require.ErrorIs(t, err, authsig.ErrMalformedSignature)

	bad := append([]byte{}, sig...)
	bad[64] = 30
	_, err = authsig.Recover(bad, "create", chainID, verifier, subject, nonce)
	require.ErrorIs(t, err, authsig.ErrMalformedSignature)
}
