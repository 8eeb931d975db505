package pubsub

import (
	"math/big"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
)

func getOfferPayload(offer domain.Offer) map[string]interface{} {
	return map[string]interface{}{
		"id":         offer.ID.Hex(),
		"sequence":   offer.Sequence,
		"status":     offer.Status.String(),
		"escrow":     offer.Escrow.Hex(),
		"is_private": offer.IsPrivate,
		"maker":      getPartyPayload(offer.Maker),
		"taker":      getPartyPayload(offer.Taker),
	}
}

func getPartyPayload(party domain.Party) map[string]interface{} {
	return map[string]interface{}{
		"address": party.Address.Hex(),
		"fee":     intString(party.Fee),
		"legs":    getLegsPayload(party.Legs),
		"settled": party.Settled,
	}
}

func getLegsPayload(legs domain.Legs) []map[string]interface{} {
	payload := make([]map[string]interface{}, 0, len(legs))
	for _, leg := range legs {
		ids := make([]string, 0, len(leg.IDs))
		for _, id := range leg.IDs {
			ids = append(ids, intString(id))
		}
		amounts := make([]string, 0, len(leg.Amounts))
		for _, amount := range leg.Amounts {
			amounts = append(amounts, intString(amount))
		}
		payload = append(payload, map[string]interface{}{
			"standard": leg.Standard.String(),
			"contract": leg.Contract.Hex(),
			"ids":      ids,
			"amounts":  amounts,
		})
	}
	return payload
}

func intString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
