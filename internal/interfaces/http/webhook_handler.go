package httpinterface

import (
	"context"
	"net/http"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/pubsub"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/api"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
)

// WebhookService manages the endpoints notified of the escrow events.
type WebhookService interface {
	AddWebhook(
		ctx context.Context, caller common.Address, event, endpoint, secret string,
	) (string, error)
	RemoveWebhook(ctx context.Context, caller common.Address, id string) error
	ListWebhooks(
		ctx context.Context, caller common.Address, event string,
	) ([]pubsub.WebhookInfo, error)
}

func (h *handler) addWebhook(w http.ResponseWriter, r *http.Request) {
	var body api.AddWebhookRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.webhooks.AddWebhook(
		r.Context(), callerFromContext(r.Context()),
		body.Event, body.Endpoint, body.Secret,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.AddWebhookResponse{ID: id})
}

func (h *handler) removeWebhook(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.webhooks.RemoveWebhook(
		r.Context(), callerFromContext(r.Context()), id,
	); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	webhooks, err := h.webhooks.ListWebhooks(
		r.Context(), callerFromContext(r.Context()), r.URL.Query().Get("event"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWebhooks(webhooks))
}

func toWebhooks(webhooks []pubsub.WebhookInfo) api.ListWebhooksResponse {
	out := make([]api.Webhook, 0, len(webhooks))
	for _, w := range webhooks {
		out = append(out, api.Webhook{
			ID:        w.ID,
			Event:     w.Event,
			Endpoint:  w.Endpoint,
			IsSecured: w.IsSecured,
		})
	}
	return api.ListWebhooksResponse{Webhooks: out}
}
