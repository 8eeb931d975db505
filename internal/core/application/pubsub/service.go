package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/ethereum/go-ethereum/common"
)

const (
	EventOfferCreated   = "offer.created"
	EventOfferCompleted = "offer.completed"
	EventOfferCancelled = "offer.cancelled"
	EventFeesCollected  = "fees.collected"
	EventRewardCrafted  = "reward.crafted"
)

var (
	ErrOwnerOnly = fmt.Errorf(
		"%w: webhooks are managed by the owner only", domain.ErrUnauthorized,
	)
	ErrUnknownEvent = errors.New("unknown webhook event")
)

var events = map[string]struct{}{
	EventOfferCreated:   {},
	EventOfferCompleted: {},
	EventOfferCancelled: {},
	EventFeesCollected:  {},
	EventRewardCrafted:  {},
	ports.AnyTopic:      {},
}

// WebhookInfo describes a registered webhook. The secret is never exposed.
type WebhookInfo struct {
	ID        string
	Event     string
	Endpoint  string
	IsSecured bool
}

// Service manages the webhooks notified of the escrow events and publishes
// them. Only the owner can manage webhooks.
type Service struct {
	pubsub ports.PubSub
	owner  common.Address
}

func NewService(pubsub ports.PubSub, owner common.Address) (*Service, error) {
	if pubsub == nil {
		return nil, fmt.Errorf("missing pubsub")
	}
	if owner == (common.Address{}) {
		return nil, fmt.Errorf("missing owner")
	}
	return &Service{pubsub, owner}, nil
}

func (s *Service) AddWebhook(
	_ context.Context, caller common.Address, event, endpoint, secret string,
) (string, error) {
	if caller != s.owner {
		return "", ErrOwnerOnly
	}
	if _, ok := events[event]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownEvent, event)
	}
	return s.pubsub.Subscribe(event, endpoint, secret)
}

func (s *Service) RemoveWebhook(
	_ context.Context, caller common.Address, id string,
) error {
	if caller != s.owner {
		return ErrOwnerOnly
	}
	return s.pubsub.Unsubscribe(id)
}

// ListWebhooks returns the webhooks notified for the given event, or all of
// them if the event is empty.
func (s *Service) ListWebhooks(
	_ context.Context, caller common.Address, event string,
) ([]WebhookInfo, error) {
	if caller != s.owner {
		return nil, ErrOwnerOnly
	}
	if _, ok := events[event]; !ok && event != ports.UnspecifiedTopic {
		return nil, fmt.Errorf("%w %q", ErrUnknownEvent, event)
	}

	subs := s.pubsub.ListSubscriptionsForTopic(event)
	webhooks := make([]WebhookInfo, 0, len(subs))
	for _, sub := range subs {
		webhooks = append(webhooks, WebhookInfo{
			ID:        sub.Id(),
			Event:     sub.Topic(),
			Endpoint:  sub.NotifyAt(),
			IsSecured: sub.IsSecured(),
		})
	}
	return webhooks, nil
}

// PublishOfferEvent notifies the status the offer just moved to.
func (s *Service) PublishOfferEvent(offer domain.Offer) error {
	var event string
	switch offer.Status {
	case domain.OfferStatusCreated:
		event = EventOfferCreated
	case domain.OfferStatusCompleted:
		event = EventOfferCompleted
	case domain.OfferStatusCancelled:
		event = EventOfferCancelled
	default:
		return fmt.Errorf("no event for offer status %s", offer.Status)
	}

	payload := map[string]interface{}{
		"event": event,
		"offer": getOfferPayload(offer),
	}
	return s.publish(event, payload, offer.UpdatedAt)
}

func (s *Service) PublishFeesCollectedEvent(
	owner common.Address, amount *big.Int, timestamp int64,
) error {
	event := EventFeesCollected
	payload := map[string]interface{}{
		"event":    event,
		"owner":    owner.Hex(),
		"currency": domain.NativeCurrency,
		"amount":   intString(amount),
	}
	return s.publish(event, payload, timestamp)
}

func (s *Service) PublishRewardCraftedEvent(craft domain.Craft) error {
	event := EventRewardCrafted
	payload := map[string]interface{}{
		"event": event,
		"craft": map[string]interface{}{
			"id":        craft.ID,
			"reward_id": intString(craft.RewardID),
			"recipient": craft.Recipient.Hex(),
			"rewards":   getLegsPayload(craft.Rewards),
		},
	}
	return s.publish(event, payload, craft.CraftedAt)
}

func (s *Service) Close() {
	s.pubsub.Close()
}

func (s *Service) publish(
	event string, payload map[string]interface{}, timestamp int64,
) error {
	payload["timestamp"] = timestamp
	payload["date"] = time.Unix(timestamp, 0).UTC().Format(time.RFC3339)
	message, _ := json.Marshal(payload)

	if err := s.pubsub.Publish(event, string(message)); err != nil {
		return fmt.Errorf(
			"an error occured while publishing message for event %s: %w", event, err,
		)
	}
	return nil
}
