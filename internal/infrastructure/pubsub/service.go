package pubsub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/circuitbreaker"
	"github.com/dgraph-io/badger/v3"
	"github.com/golang-jwt/jwt"
	"github.com/sony/gobreaker"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"golang.org/x/sync/errgroup"
)

const (
	requestTimeout = 15 * time.Second
	tokenTTL       = 5 * time.Minute
	tokenIssuer    = "fiora-swap"
)

type service struct {
	store      *badgerhold.Store
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// NewService opens (or creates if not exists) the subscription store in the
// given base dir. An empty dir opens an in-memory store.
func NewService(baseDbDir string, logger badger.Logger) (ports.PubSub, error) {
	var dir string
	if len(baseDbDir) > 0 {
		dir = filepath.Join(baseDbDir, "pubsub")
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = logger
	opts.InMemory = len(dir) <= 0

	store, err := badgerhold.Open(badgerhold.Options{
		Encoder: badgerhold.DefaultEncode,
		Decoder: badgerhold.DefaultDecode,
		Options: opts,
	})
	if err != nil {
		return nil, fmt.Errorf("opening pubsub db: %w", err)
	}

	return &service{
		store:      store,
		httpClient: &http.Client{Timeout: requestTimeout},
		cb:         circuitbreaker.NewCircuitBreaker("webhooks"),
	}, nil
}

func (s *service) Subscribe(topic, endpoint, secret string) (string, error) {
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}
	if err := s.store.Insert(sub.ID, *sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (s *service) Unsubscribe(id string) error {
	if err := s.store.Delete(id, Subscription{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return s.listSubscriptionsForTopic(topic).toPortable()
}

// Publish POSTs the message to every subscriber of the topic concurrently.
// Requests go through a circuit breaker shared by all the endpoints.
func (s *service) Publish(topic string, message string) error {
	subs := s.listSubscriptionsForTopic(topic)

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return s.doRequest(sub, message) })
	}
	return eg.Wait()
}

func (s *service) Close() {
	if err := s.store.Close(); err != nil {
		log.WithError(err).Warn("error while closing pubsub db")
	}
}

func (s *service) listSubscriptionsForTopic(topic string) subscriptions {
	var query *badgerhold.Query
	switch topic {
	case ports.UnspecifiedTopic:
	case ports.AnyTopic:
		query = badgerhold.Where("Event").Eq(ports.AnyTopic).Index("Event")
	default:
		query = badgerhold.Where("Event").Eq(topic).Index("Event").
			Or(badgerhold.Where("Event").Eq(ports.AnyTopic).Index("Event"))
	}

	var subs subscriptions
	if err := s.store.Find(&subs, query); err != nil {
		log.WithError(err).Warnf("error while listing subscriptions for %q", topic)
		return nil
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs
}

func (s *service) doRequest(sub Subscription, payload string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, sub.Endpoint, strings.NewReader(payload),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if sub.IsSecured() {
			token, err := signToken(sub)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf(
				"%w %d from %s: %s",
				ErrUnexpectedStatus, resp.StatusCode, sub.Endpoint, body,
			)
		}
		return nil, nil
	})
	return err
}

// signToken returns a short lived token signed with the subscription secret
// the receiver can verify the notification with.
func signToken(sub Subscription) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Issuer:    tokenIssuer,
		Subject:   sub.Event,
		Id:        sub.ID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(sub.Secret))
}
