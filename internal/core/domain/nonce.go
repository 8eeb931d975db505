package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Action is the tag of a signature-gated operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionAccept Action = "accept"
	ActionCancel Action = "cancel"
	ActionCraft  Action = "craft"
)

// ParseAction returns the action matching the given tag.
func ParseAction(tag string) (Action, error) {
	switch a := Action(tag); a {
	case ActionCreate, ActionAccept, ActionCancel, ActionCraft:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", tag)
}

// ConsumedNonce records that an authorization nonce was used for a given
// subject and action.
type ConsumedNonce struct {
	Key        string
	Subject    common.Hash
	Action     Action
	Nonce      *big.Int
	ConsumedAt int64
}

// NewConsumedNonce returns the record of the given authorization tuple.
func NewConsumedNonce(
	subject common.Hash, action Action, nonce *big.Int, timestamp int64,
) ConsumedNonce {
	return ConsumedNonce{
		Key:        NonceKey(subject, action, nonce),
		Subject:    subject,
		Action:     action,
		Nonce:      cloneInt(nonce),
		ConsumedAt: timestamp,
	}
}

// NonceKey returns the unique key of an authorization tuple.
func NonceKey(subject common.Hash, action Action, nonce *big.Int) string {
	n := "0"
	if nonce != nil {
		n = nonce.String()
	}
	return fmt.Sprintf("%s:%s:%s", subject.Hex(), action, n)
}
