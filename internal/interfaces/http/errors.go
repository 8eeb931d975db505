package httpinterface

import (
	"errors"
	"net/http"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/escrow"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/pubsub"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/assetbook"
	pubsubinfra "github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/pubsub"
)

const (
	kindBadRequest      = "BadRequest"
	kindUnauthenticated = "Unauthenticated"
	kindUnknownContract = "UnknownContract"
	kindInvalidApproval = "InvalidApproval"
	kindNotFound        = "NotFound"
	kindInternal        = "Internal"
)

var errUnauthenticated = errors.New("missing or invalid caller credentials")

var statusByKind = map[string]int{
	"UnknownOffer":           http.StatusNotFound,
	"UnknownCraft":           http.StatusNotFound,
	kindUnknownContract:      http.StatusNotFound,
	kindNotFound:             http.StatusNotFound,
	"Unauthorized":           http.StatusForbidden,
	"InvalidSignature":       http.StatusUnauthorized,
	kindUnauthenticated:      http.StatusUnauthorized,
	"DuplicateId":            http.StatusConflict,
	"ReplayedNonce":          http.StatusConflict,
	"InvalidStateTransition": http.StatusConflict,
	"BatchExecutionFailed":   http.StatusUnprocessableEntity,
	"ValueMismatch":          http.StatusUnprocessableEntity,
	"InvalidRange":           http.StatusBadRequest,
	"InvalidLeg":             http.StatusBadRequest,
	"InvalidTerms":           http.StatusBadRequest,
	kindInvalidApproval:      http.StatusBadRequest,
	kindBadRequest:           http.StatusBadRequest,
	kindInternal:             http.StatusInternalServerError,
}

// errorKind extends the domain error kinds with the ones raised by the
// escrow service and by this interface.
func errorKind(err error) string {
	if kind := domain.ErrorKind(err); kind != kindInternal {
		return kind
	}
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, pubsub.ErrUnknownEvent),
		errors.Is(err, pubsubinfra.ErrMissingEvent),
		errors.Is(err, pubsubinfra.ErrInvalidEndpoint):
		return kindBadRequest
	case errors.Is(err, pubsubinfra.ErrSubscriptionNotFound):
		return kindNotFound
	case errors.Is(err, errUnauthenticated):
		return kindUnauthenticated
	case errors.Is(err, escrow.ErrUnknownContract),
		errors.Is(err, assetbook.ErrUnknownToken):
		return kindUnknownContract
	case errors.Is(err, escrow.ErrInvalidApproval),
		errors.Is(err, assetbook.ErrInvalidAmount):
		return kindInvalidApproval
	case errors.Is(err, assetbook.ErrNotOwner):
		return "Unauthorized"
	}
	return kindInternal
}

func statusOf(kind string) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
