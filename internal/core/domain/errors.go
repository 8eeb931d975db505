package domain

import "errors"

var (
	// ErrValueMismatch is returned when the native value attached to a call
	// differs from the native legs plus the fee the caller is due to pay.
	ErrValueMismatch = errors.New("attached value does not match native legs plus fee")
	// ErrDuplicateID is returned when creating an offer whose fingerprint
	// already exists in any status.
	ErrDuplicateID = errors.New("offer already exists")
	// ErrUnknownOffer ...
	ErrUnknownOffer = errors.New("offer not found")
	// ErrUnknownCraft ...
	ErrUnknownCraft = errors.New("craft not found")
	// ErrInvalidStateTransition is returned when an offer is not in a status
	// that allows the requested transition.
	ErrInvalidStateTransition = errors.New("invalid offer status transition")
	// ErrUnauthorized ...
	ErrUnauthorized = errors.New("caller is not authorized for this operation")
	// ErrInvalidSignature is returned when an authorization signature is
	// missing, malformed or recovers to an unexpected signer.
	ErrInvalidSignature = errors.New("invalid authorization signature")
	// ErrReplayedNonce is returned when an authorization nonce was already
	// consumed for the same subject and action.
	ErrReplayedNonce = errors.New("authorization nonce already consumed")
	// ErrBatchExecutionFailed is returned when any instruction of an atomic
	// batch fails. Nothing of the batch is applied.
	ErrBatchExecutionFailed = errors.New("batch execution failed")
	// ErrInvalidRange is returned for batch cancellation over an empty,
	// reversed or too wide sequence range.
	ErrInvalidRange = errors.New("invalid offer sequence range")
	// ErrInvalidLeg is returned when an asset leg is malformed for its
	// standard.
	ErrInvalidLeg = errors.New("invalid asset leg")
	// ErrInvalidTerms is returned when offer or reward terms are malformed.
	ErrInvalidTerms = errors.New("invalid terms")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrValueMismatch, "ValueMismatch"},
	{ErrDuplicateID, "DuplicateId"},
	{ErrUnknownOffer, "UnknownOffer"},
	{ErrUnknownCraft, "UnknownCraft"},
	{ErrInvalidStateTransition, "InvalidStateTransition"},
	{ErrUnauthorized, "Unauthorized"},
	{ErrInvalidSignature, "InvalidSignature"},
	{ErrReplayedNonce, "ReplayedNonce"},
	{ErrBatchExecutionFailed, "BatchExecutionFailed"},
	{ErrInvalidRange, "InvalidRange"},
	{ErrInvalidLeg, "InvalidLeg"},
	{ErrInvalidTerms, "InvalidTerms"},
}

// ErrorKind returns the name of the error kind the given error belongs to, or
// "Internal" if it does not wrap any of the sentinel errors of this package.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "Internal"
}
