package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultEscrowTemplate is the name of the custody account template whose hash
// takes part in escrow address derivation.
const DefaultEscrowTemplate = "FioraSwap/Escrow/v1"

// Fingerprint returns the content-addressed id of an offer. It is the keccak256
// hash of a length-prefixed encoding of the maker, the maker legs, the taker
// legs and the nonce, so distinct terms can't collide by re-splitting bytes
// across fields. Leg origin tags and fees don't take part in it.
func Fingerprint(terms OfferTerms) (common.Hash, error) {
	if err := terms.Validate(); err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encodeTerms(terms)), nil
}

// EscrowTemplateHash returns the hash of the given custody template name.
func EscrowTemplateHash(template string) common.Hash {
	return crypto.Keccak256Hash([]byte(template))
}

// PredictEscrowAddress returns the custody address of the offer with the given
// id, derived CREATE2-style from the deployer address and the template hash.
// It can be computed before the offer exists.
func PredictEscrowAddress(
	deployer common.Address, templateHash, id common.Hash,
) common.Address {
	return crypto.CreateAddress2(deployer, id, templateHash.Bytes())
}

// CraftSubject returns the subject an authorizer signs to allow minting the
// given rewards to the recipient.
func CraftSubject(
	rewardID *big.Int, recipient common.Address, rewards Legs,
) common.Hash {
	buf := make([]byte, 0, 64+len(rewards)*128)
	buf = append(buf, word(rewardID)...)
	buf = append(buf, recipient.Bytes()...)
	buf = appendLegs(buf, rewards)
	return crypto.Keccak256Hash(buf)
}

func encodeTerms(terms OfferTerms) []byte {
	size := common.AddressLength + 2*common.HashLength +
		(len(terms.MakerLegs)+len(terms.TakerLegs))*4*common.HashLength
	buf := make([]byte, 0, size)

	buf = append(buf, terms.Maker.Bytes()...)
	buf = appendLegs(buf, terms.MakerLegs)
	buf = appendLegs(buf, terms.TakerLegs)
	buf = append(buf, word(terms.Nonce)...)
	return buf
}

func appendLegs(buf []byte, legs Legs) []byte {
	buf = append(buf, wordFromInt(len(legs))...)
	for _, l := range legs {
		buf = append(buf, byte(l.Standard))
		buf = append(buf, l.Contract.Bytes()...)
		buf = appendWords(buf, l.IDs)
		buf = appendWords(buf, l.Amounts)
	}
	return buf
}

func appendWords(buf []byte, values []*big.Int) []byte {
	buf = append(buf, wordFromInt(len(values))...)
	for _, v := range values {
		buf = append(buf, word(v)...)
	}
	return buf
}

func word(v *big.Int) []byte {
	if v == nil {
		return make([]byte, common.HashLength)
	}
	return math.U256Bytes(new(big.Int).Set(v))
}

func wordFromInt(n int) []byte {
	return word(big.NewInt(int64(n)))
}
