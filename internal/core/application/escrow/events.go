package escrow

import (
	"math/big"
	"sync"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
)

// EventPublisher notifies the outcome of the committed operations.
type EventPublisher interface {
	PublishOfferEvent(offer domain.Offer) error
	PublishFeesCollectedEvent(
		owner common.Address, amount *big.Int, timestamp int64,
	) error
	PublishRewardCraftedEvent(craft domain.Craft) error
}

type event struct {
	name    string
	publish func() error
}

// eventQueue publishes events in background, one at a time and in the order
// they are pushed. Pushing never blocks.
type eventQueue struct {
	lock    sync.Mutex
	pending []event
	closed  bool

	notify chan struct{}
	done   chan struct{}
}

func newEventQueue() *eventQueue {
	q := &eventQueue{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *eventQueue) push(e event) {
	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		log.Warnf("dropping %s event, publisher closed", e.name)
		return
	}
	q.pending = append(q.pending, e)
	q.lock.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// close stops accepting events and waits for the pending ones to be published.
func (q *eventQueue) close() {
	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		return
	}
	q.closed = true
	q.lock.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	<-q.done
}

func (q *eventQueue) run() {
	defer close(q.done)

	for range q.notify {
		for {
			e, ok, closed := q.pop()
			if !ok {
				if closed {
					return
				}
				break
			}
			if err := e.publish(); err != nil {
				log.WithError(err).Warnf("failed to publish %s event", e.name)
			}
		}
	}
}

func (q *eventQueue) pop() (event, bool, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if len(q.pending) == 0 {
		return event{}, false, q.closed
	}
	e := q.pending[0]
	q.pending[0] = event{}
	q.pending = q.pending[1:]
	return e, true, q.closed
}

// Events are pushed once the unit of work is committed and while the service
// lock is held, so they're published in commit order. A failure never affects
// the operation.

func (s *Service) publishOfferEvent(offer *domain.Offer) {
	if s.events == nil {
		return
	}
	o := offer.Clone()
	s.events.push(event{
		name: "offer " + o.Status.String() + " " + o.ID.Hex(),
		publish: func() error {
			return s.publisher.PublishOfferEvent(*o)
		},
	})
}

func (s *Service) publishFeesCollectedEvent(amount *big.Int, timestamp int64) {
	if s.events == nil {
		return
	}
	amount = new(big.Int).Set(amount)
	s.events.push(event{
		name: "fees collected",
		publish: func() error {
			return s.publisher.PublishFeesCollectedEvent(s.cfg.Owner, amount, timestamp)
		},
	})
}

func (s *Service) publishRewardCraftedEvent(craft *domain.Craft) {
	if s.events == nil {
		return
	}
	c := *craft
	c.Rewards = craft.Rewards.Clone()
	s.events.push(event{
		name: "reward crafted " + c.ID,
		publish: func() error {
			return s.publisher.PublishRewardCraftedEvent(c)
		},
	})
}
