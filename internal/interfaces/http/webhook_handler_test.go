package httpinterface

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/pubsub"
	pubsubinfra "github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/pubsub"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/api"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestWebhookRoutes(t *testing.T) {
	owner := common.HexToAddress("0x0000000000000000000000000000000000000a11")

	ps, err := pubsubinfra.NewService("", nil)
	require.NoError(t, err)
	t.Cleanup(ps.Close)
	webhookSvc, err := pubsub.NewService(ps, owner)
	require.NoError(t, err)

	router := newRouter(ServiceOpts{
		EscrowSvc:  &mockEscrowService{},
		WebhookSvc: webhookSvc,
		NoAuth:     true,
	}, newMetrics())

	rec := doRequest(t, router, http.MethodPost, "/v1/admin/webhooks", api.AddWebhookRequest{
		Event:    pubsub.EventOfferCreated,
		Endpoint: "http://127.0.0.1:8080/hook",
		Secret:   "s3cr3t",
	}, asCaller(owner))
	require.Equal(t, http.StatusCreated, rec.Code)
	var added api.AddWebhookResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&added))
	require.NotEmpty(t, added.ID)

	rec = doRequest(t, router, http.MethodGet, "/v1/admin/webhooks", nil, asCaller(owner))
	require.Equal(t, http.StatusOK, rec.Code)
	var list api.ListWebhooksResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Webhooks, 1)
	require.Equal(t, added.ID, list.Webhooks[0].ID)
	require.Equal(t, pubsub.EventOfferCreated, list.Webhooks[0].Event)
	require.True(t, list.Webhooks[0].IsSecured)

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		caller         common.Address
		expectedStatus int
	}{
		{
			name:   "unknown_event",
			method: http.MethodPost,
			path:   "/v1/admin/webhooks",
			body: api.AddWebhookRequest{
				Event: "offer.unknown", Endpoint: "http://127.0.0.1:8080/hook",
			},
			caller:         owner,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "invalid_endpoint",
			method: http.MethodPost,
			path:   "/v1/admin/webhooks",
			body: api.AddWebhookRequest{
				Event: pubsub.EventOfferCreated, Endpoint: "ftp://127.0.0.1/hook",
			},
			caller:         owner,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not_owner",
			method:         http.MethodGet,
			path:           "/v1/admin/webhooks",
			caller:         maker,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "unknown_webhook",
			method:         http.MethodDelete,
			path:           "/v1/admin/webhooks/unknown",
			caller:         owner,
			expectedStatus: http.StatusNotFound,
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, tt.method, tt.path, tt.body, asCaller(tt.caller))
			require.Equal(t, tt.expectedStatus, rec.Code)
		})
	}

	rec = doRequest(
		t, router, http.MethodDelete, "/v1/admin/webhooks/"+added.ID, nil,
		asCaller(owner),
	)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/admin/webhooks", nil, asCaller(owner))
	require.Equal(t, http.StatusOK, rec.Code)
	list = api.ListWebhooksResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Empty(t, list.Webhooks)
}

func TestWebhookRoutesDisabled(t *testing.T) {
	router, _ := newTestRouter(&mockEscrowService{}, true)

	rec := doRequest(
		t, router, http.MethodGet, "/v1/admin/webhooks", nil,
		asCaller(maker),
	)
	require.NotEqual(t, http.StatusOK, rec.Code)
}
