package escrow

import (
	"errors"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
)

var (
	ErrMissingAuthorization = fmt.Errorf(
		"%w: missing authorization", domain.ErrInvalidSignature,
	)
	ErrUnknownPolicy    = errors.New("unknown authority policy")
	ErrUnknownContract  = errors.New("unknown asset contract")
	ErrInvalidApproval  = errors.New("invalid approval request")
	ErrOwnerOnly        = fmt.Errorf("%w: operation reserved to the owner", domain.ErrUnauthorized)
	ErrNotActingParty   = fmt.Errorf("%w: caller is not the acting party", domain.ErrUnauthorized)
	ErrNegativeValue    = fmt.Errorf("%w: attached value must not be negative", domain.ErrValueMismatch)
	ErrMissingRecipient = fmt.Errorf("%w: missing reward recipient", domain.ErrInvalidTerms)
)

// BatchExecutionError is returned when an instruction of an atomic batch
// fails. Nothing of the batch is applied.
type BatchExecutionError struct {
	Index       int
	Instruction domain.Instruction
	Err         error
}

func (e *BatchExecutionError) Error() string {
	return fmt.Sprintf(
		"%s: instruction %d (%s): %s",
		domain.ErrBatchExecutionFailed, e.Index, e.Instruction, e.Err,
	)
}

func (e *BatchExecutionError) Unwrap() []error {
	return []error{domain.ErrBatchExecutionFailed, e.Err}
}
