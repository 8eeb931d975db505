package httpinterface

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/escrow"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/api"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/mathutil"
	"github.com/ethereum/go-ethereum/common"
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func parseAddress(name, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, badRequest("invalid %s address %q", name, value)
	}
	return common.HexToAddress(value), nil
}

func parseOptionalAddress(name, value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, nil
	}
	return parseAddress(name, value)
}

func parseHash(value string) (common.Hash, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(value, "0x"))
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, badRequest("invalid id %q", value)
	}
	return common.BytesToHash(b), nil
}

func parseInteger(name, value string) (*big.Int, error) {
	n, err := mathutil.ParseInteger(value)
	if err != nil {
		return nil, badRequest("%s: %s", name, err)
	}
	return n, nil
}

// parseOptionalInteger returns nil for an empty value.
func parseOptionalInteger(name, value string) (*big.Int, error) {
	if value == "" {
		return nil, nil
	}
	return parseInteger(name, value)
}

func parseIntegers(name string, values []string) ([]*big.Int, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]*big.Int, 0, len(values))
	for i, v := range values {
		n, err := parseInteger(fmt.Sprintf("%s[%d]", name, i), v)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// parseLeg converts a leg message. Native and fungible legs may omit the
// token id, that is always zero for them.
func parseLeg(l api.Leg) (domain.AssetLeg, error) {
	standard, err := domain.ParseStandard(l.Standard)
	if err != nil {
		return domain.AssetLeg{}, err
	}
	contract, err := parseOptionalAddress("contract", l.Contract)
	if err != nil {
		return domain.AssetLeg{}, err
	}
	ids, err := parseIntegers("ids", l.IDs)
	if err != nil {
		return domain.AssetLeg{}, err
	}
	amounts, err := parseIntegers("amounts", l.Amounts)
	if err != nil {
		return domain.AssetLeg{}, err
	}
	if len(ids) == 0 && (standard == domain.Native || standard == domain.Fungible) {
		ids = []*big.Int{big.NewInt(0)}
	}
	return domain.AssetLeg{
		Standard:  standard,
		Contract:  contract,
		IDs:       ids,
		Amounts:   amounts,
		OriginTag: l.OriginTag,
	}, nil
}

func parseLegs(legs []api.Leg) (domain.Legs, error) {
	out := make(domain.Legs, 0, len(legs))
	for i, l := range legs {
		leg, err := parseLeg(l)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}
		out = append(out, leg)
	}
	return out, nil
}

func parseTerms(t api.OfferTerms) (domain.OfferTerms, error) {
	maker, err := parseAddress("maker", t.Maker)
	if err != nil {
		return domain.OfferTerms{}, err
	}
	makerLegs, err := parseLegs(t.MakerLegs)
	if err != nil {
		return domain.OfferTerms{}, fmt.Errorf("maker %w", err)
	}
	takerLegs, err := parseLegs(t.TakerLegs)
	if err != nil {
		return domain.OfferTerms{}, fmt.Errorf("taker %w", err)
	}
	nonce, err := parseInteger("nonce", t.Nonce)
	if err != nil {
		return domain.OfferTerms{}, err
	}
	return domain.OfferTerms{
		Maker:     maker,
		MakerLegs: makerLegs,
		TakerLegs: takerLegs,
		Nonce:     nonce,
	}, nil
}

func parseAuthorization(a *api.Authorization) (*escrow.Authorization, error) {
	if a == nil {
		return nil, nil
	}
	nonce, err := parseInteger("auth nonce", a.Nonce)
	if err != nil {
		return nil, err
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(a.Signature, "0x"))
	if err != nil {
		return nil, badRequest("invalid auth signature encoding")
	}
	return &escrow.Authorization{Nonce: nonce, Signature: sig}, nil
}

func toLegs(legs domain.Legs) []api.Leg {
	out := make([]api.Leg, 0, len(legs))
	for _, l := range legs {
		out = append(out, api.Leg{
			Standard:  l.Standard.String(),
			Contract:  l.Contract.Hex(),
			IDs:       toIntegers(l.IDs),
			Amounts:   toIntegers(l.Amounts),
			OriginTag: l.OriginTag,
		})
	}
	return out
}

func toParty(p domain.Party) api.Party {
	return api.Party{
		Address: p.Address.Hex(),
		Fee:     toInteger(p.Fee),
		Legs:    toLegs(p.Legs),
		Settled: p.Settled,
	}
}

func toOffer(o domain.Offer) api.Offer {
	return api.Offer{
		ID:        o.ID.Hex(),
		Sequence:  o.Sequence,
		Status:    o.Status.String(),
		Maker:     toParty(o.Maker),
		Taker:     toParty(o.Taker),
		IsPrivate: o.IsPrivate,
		Nonce:     toInteger(o.Nonce),
		Escrow:    o.Escrow.Hex(),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toOffers(offers []domain.Offer) []api.Offer {
	out := make([]api.Offer, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOffer(o))
	}
	return out
}

func toFeeAccount(f domain.FeeAccount) api.FeeAccount {
	return api.FeeAccount{
		Currency:       f.Currency,
		Balance:        toInteger(f.Balance),
		TotalCollected: toInteger(f.TotalCollected),
		TotalWithdrawn: toInteger(f.TotalWithdrawn),
		UpdatedAt:      f.UpdatedAt,
	}
}

func toCraft(c domain.Craft) api.Craft {
	craft := api.Craft{
		ID:         c.ID,
		RewardID:   toInteger(c.RewardID),
		Recipient:  c.Recipient.Hex(),
		Rewards:    toLegs(c.Rewards),
		Authorizer: c.Authorizer.Hex(),
		CraftedAt:  c.CraftedAt,
	}
	if c.Nonce != nil {
		craft.Nonce = c.Nonce.String()
	}
	return craft
}

func toCrafts(crafts []domain.Craft) []api.Craft {
	out := make([]api.Craft, 0, len(crafts))
	for _, c := range crafts {
		out = append(out, toCraft(c))
	}
	return out
}

func toBalance(b escrow.AssetBalance) api.Balance {
	balance := api.Balance{
		Standard: b.Standard.String(),
		Contract: b.Contract.Hex(),
		Owner:    b.Owner.Hex(),
		Balance:  toInteger(b.Balance),
	}
	if b.ID != nil {
		balance.ID = b.ID.String()
	}
	return balance
}

func toEngineConfig(cfg escrow.Config) api.EngineConfig {
	return api.EngineConfig{
		ChainID:             toInteger(cfg.ChainID),
		CoreAddress:         cfg.CoreAddress.Hex(),
		Owner:               cfg.Owner.Hex(),
		Authorizer:          cfg.Authorizer.Hex(),
		EscrowTemplate:      cfg.EscrowTemplate,
		CreateAuthority:     string(cfg.CreateAuthority),
		AcceptAuthority:     string(cfg.AcceptAuthority),
		CancelAuthority:     string(cfg.CancelAuthority),
		MaxBatchCancelRange: cfg.MaxBatchCancelRange,
	}
}

func toHashes(hashes []common.Hash) []string {
	out := make([]string, 0, len(hashes))
	for _, h := range hashes {
		out = append(out, h.Hex())
	}
	return out
}

func toInteger(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func toIntegers(values []*big.Int) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, toInteger(v))
	}
	return out
}
