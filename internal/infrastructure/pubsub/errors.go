package pubsub

import "errors"

var (
	ErrMissingEvent         = errors.New("missing event")
	ErrInvalidEndpoint      = errors.New("invalid webhook endpoint, must be a valid http URI")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrUnexpectedStatus     = errors.New("unexpected response status")
)
