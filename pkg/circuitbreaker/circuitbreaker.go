package circuitbreaker

import (
	"github.com/sony/gobreaker"
	log "github.com/sirupsen/logrus"
)

var (
	// MaxNumOfFailingRequests is the number of requests after which the
	// breaker can trip.
	MaxNumOfFailingRequests = 10
	// FailingRatio is the ratio of failed requests that trips the breaker.
	FailingRatio = 0.6
)

// NewCircuitBreaker returns a *gobreaker.CircuitBreaker for the named remote
// service that opens once more than MaxNumOfFailingRequests requests have
// been made and at least FailingRatio of them failed. State changes are
// logged.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch {
			case to == gobreaker.StateOpen:
				log.Warnf("%s seems down, stop allowing requests", name)
			case from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen:
				log.Infof("checking %s status", name)
			case from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed:
				log.Infof("%s seems ok, restart allowing requests", name)
			}
		},
	})
}
