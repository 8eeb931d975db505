package pubsub_test

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/pubsub"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	owner    = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	stranger = common.HexToAddress("0x0000000000000000000000000000000000000bad")
	maker    = common.HexToAddress("0x1000000000000000000000000000000000000001")
)

type mockPubSub struct {
	mock.Mock
}

func (m *mockPubSub) Subscribe(topic, endpoint, secret string) (string, error) {
	args := m.Called(topic, endpoint, secret)
	return args.String(0), args.Error(1)
}

func (m *mockPubSub) Unsubscribe(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockPubSub) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	args := m.Called(topic)

	var res []ports.Subscription
	if a := args.Get(0); a != nil {
		res = a.([]ports.Subscription)
	}
	return res
}

func (m *mockPubSub) Publish(topic string, message string) error {
	return m.Called(topic, message).Error(0)
}

func (m *mockPubSub) Close() {
	m.Called()
}

type subscription struct {
	id, topic, endpoint string
	secured             bool
}

func (s subscription) Topic() string    { return s.topic }
func (s subscription) Id() string       { return s.id }
func (s subscription) IsSecured() bool  { return s.secured }
func (s subscription) NotifyAt() string { return s.endpoint }

func TestNewService(t *testing.T) {
	_, err := pubsub.NewService(nil, owner)
	require.EqualError(t, err, "missing pubsub")

	_, err = pubsub.NewService(&mockPubSub{}, common.Address{})
	require.EqualError(t, err, "missing owner")
}

func TestWebhooks(t *testing.T) {
	ps := &mockPubSub{}
	ps.On("Subscribe", pubsub.EventOfferCompleted, "http://localhost/hook", "s3cr3t").
		Return("hook-1", nil)
	ps.On("Unsubscribe", "hook-1").Return(nil)
	ps.On("ListSubscriptionsForTopic", "").Return([]ports.Subscription{
		subscription{"hook-1", pubsub.EventOfferCompleted, "http://localhost/hook", true},
	})

	svc, err := pubsub.NewService(ps, owner)
	require.NoError(t, err)
	ctx := context.Background()

	id, err := svc.AddWebhook(
		ctx, owner, pubsub.EventOfferCompleted, "http://localhost/hook", "s3cr3t",
	)
	require.NoError(t, err)
	require.Equal(t, "hook-1", id)

	_, err = svc.AddWebhook(ctx, owner, "offer.expired", "http://localhost/hook", "")
	require.ErrorIs(t, err, pubsub.ErrUnknownEvent)

	_, err = svc.AddWebhook(
		ctx, stranger, pubsub.EventOfferCompleted, "http://localhost/hook", "",
	)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	hooks, err := svc.ListWebhooks(ctx, owner, "")
	require.NoError(t, err)
	require.Equal(t, []pubsub.WebhookInfo{{
		ID:        "hook-1",
		Event:     pubsub.EventOfferCompleted,
		Endpoint:  "http://localhost/hook",
		IsSecured: true,
	}}, hooks)

	_, err = svc.ListWebhooks(ctx, stranger, "")
	require.ErrorIs(t, err, pubsub.ErrOwnerOnly)

	require.ErrorIs(t, svc.RemoveWebhook(ctx, stranger, "hook-1"), pubsub.ErrOwnerOnly)
	require.NoError(t, svc.RemoveWebhook(ctx, owner, "hook-1"))

	ps.AssertExpectations(t)
}

func TestPublishOfferEvent(t *testing.T) {
	terms := domain.OfferTerms{
		Maker:     maker,
		MakerLegs: domain.Legs{domain.NewNativeLeg(big.NewInt(1))},
		TakerLegs: domain.Legs{domain.NewNativeLeg(big.NewInt(30))},
		Nonce:     big.NewInt(0),
	}
	offer, err := domain.NewOffer(terms, big.NewInt(10), common.Address{}, false)
	require.NoError(t, err)

	ps := &mockPubSub{}
	svc, err := pubsub.NewService(ps, owner)
	require.NoError(t, err)

	err = svc.PublishOfferEvent(*offer)
	require.Error(t, err)

	require.NoError(t, offer.Create(1, common.HexToAddress("0xe5c0"), 100))

	var message string
	ps.On("Publish", pubsub.EventOfferCreated, mock.Anything).
		Run(func(args mock.Arguments) { message = args.String(1) }).
		Return(nil)

	require.NoError(t, svc.PublishOfferEvent(*offer))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(message), &payload))
	require.Equal(t, pubsub.EventOfferCreated, payload["event"])
	require.Equal(t, float64(100), payload["timestamp"])
	o := payload["offer"].(map[string]interface{})
	require.Equal(t, offer.ID.Hex(), o["id"])
	require.Equal(t, "created", o["status"])
	require.Equal(t, "10", o["maker"].(map[string]interface{})["fee"])

	ps.AssertExpectations(t)
}

func TestPublishFeesCollectedEvent(t *testing.T) {
	ps := &mockPubSub{}
	ps.On("Publish", pubsub.EventFeesCollected, mock.MatchedBy(func(msg string) bool {
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(msg), &payload); err != nil {
			return false
		}
		return payload["amount"] == "13" && payload["owner"] == owner.Hex()
	})).Return(nil)

	svc, err := pubsub.NewService(ps, owner)
	require.NoError(t, err)

	require.NoError(t, svc.PublishFeesCollectedEvent(owner, big.NewInt(13), 200))
	ps.AssertExpectations(t)
}
