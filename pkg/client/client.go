// Package client is a Go client of the FioraSwap HTTP interface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/api"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/circuitbreaker"
	"github.com/sony/gobreaker"
)

const defaultTimeout = 15 * time.Second

// Error is returned for any non 2xx response of the daemon.
type Error struct {
	Status  int
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

// IsKind returns whether err is an *Error of the given kind.
func IsKind(err error, kind string) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Client performs requests to the daemon. Requests are authenticated with
// the bearer token, if set, or on behalf of the caller address otherwise.
// Failures of the daemon trip a circuit breaker shared by all requests.
type Client struct {
	baseURL string
	token   string
	caller  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
}

type Option func(*Client)

// WithToken authenticates requests with the given api token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithCaller makes requests on behalf of the given address, only accepted by
// a daemon with token authentication disabled.
func WithCaller(caller string) Option {
	return func(c *Client) { c.caller = caller }
}

// WithTimeout sets the timeout of every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.http.Timeout = timeout }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid daemon url %q", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		cb:      circuitbreaker.NewCircuitBreaker("fiorad"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	res := &api.HealthResponse{}
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Config(ctx context.Context) (*api.EngineConfig, error) {
	res := &api.EngineConfig{}
	if err := c.do(ctx, http.MethodGet, "/v1/config", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Fingerprint(
	ctx context.Context, terms api.OfferTerms,
) (*api.FingerprintResponse, error) {
	res := &api.FingerprintResponse{}
	if err := c.do(
		ctx, http.MethodPost, "/v1/offers/fingerprint", terms, res,
	); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) PredictAddress(
	ctx context.Context, terms api.OfferTerms,
) (*api.AddressResponse, error) {
	res := &api.AddressResponse{}
	if err := c.do(ctx, http.MethodPost, "/v1/offers/address", terms, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateOffer(
	ctx context.Context, req api.CreateOfferRequest,
) (*api.Offer, error) {
	res := &api.Offer{}
	if err := c.do(ctx, http.MethodPost, "/v1/offers", req, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ListOffers returns the offers with the given status, or all of them if
// status is empty.
func (c *Client) ListOffers(ctx context.Context, status string) ([]api.Offer, error) {
	path := "/v1/offers"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}
	res := &api.ListOffersResponse{}
	if err := c.do(ctx, http.MethodGet, path, nil, res); err != nil {
		return nil, err
	}
	return res.Offers, nil
}

// GetOffer returns the offer with the given id or sequence number.
func (c *Client) GetOffer(ctx context.Context, idOrSequence string) (*api.Offer, error) {
	res := &api.Offer{}
	if err := c.do(
		ctx, http.MethodGet, "/v1/offers/"+url.PathEscape(idOrSequence), nil, res,
	); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) AcceptOffer(
	ctx context.Context, id string, req api.AcceptOfferRequest,
) (*api.Offer, error) {
	res := &api.Offer{}
	if err := c.do(
		ctx, http.MethodPost, "/v1/offers/"+url.PathEscape(id)+"/accept", req, res,
	); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CancelOffer(
	ctx context.Context, id string, req api.CancelOfferRequest,
) (*api.Offer, error) {
	res := &api.Offer{}
	if err := c.do(
		ctx, http.MethodPost, "/v1/offers/"+url.PathEscape(id)+"/cancel", req, res,
	); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) BatchCancelOffers(
	ctx context.Context, low, high uint64,
) (*api.BatchCancelResponse, error) {
	res := &api.BatchCancelResponse{}
	if err := c.do(
		ctx, http.MethodPost, "/v1/admin/offers/cancel",
		api.BatchCancelRequest{Low: low, High: high}, res,
	); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetFees(ctx context.Context) (*api.FeeAccount, error) {
	res := &api.FeeAccount{}
	if err := c.do(ctx, http.MethodGet, "/v1/fees", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CollectFees(ctx context.Context) (string, error) {
	res := &api.CollectFeesResponse{}
	if err := c.do(ctx, http.MethodPost, "/v1/admin/fees/collect", nil, res); err != nil {
		return "", err
	}
	return res.Amount, nil
}

func (c *Client) CraftReward(
	ctx context.Context, req api.CraftRewardRequest,
) (*api.Craft, error) {
	res := &api.Craft{}
	if err := c.do(ctx, http.MethodPost, "/v1/rewards", req, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ListCrafts returns the receipts of the given recipient, or all of them if
// recipient is empty.
func (c *Client) ListCrafts(ctx context.Context, recipient string) ([]api.Craft, error) {
	path := "/v1/rewards"
	if recipient != "" {
		path += "?" + url.Values{"recipient": {recipient}}.Encode()
	}
	res := &api.ListCraftsResponse{}
	if err := c.do(ctx, http.MethodGet, path, nil, res); err != nil {
		return nil, err
	}
	return res.Crafts, nil
}

func (c *Client) GetCraft(ctx context.Context, id string) (*api.Craft, error) {
	res := &api.Craft{}
	if err := c.do(
		ctx, http.MethodGet, "/v1/rewards/"+url.PathEscape(id), nil, res,
	); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Approve(
	ctx context.Context, contract string, req api.ApprovalRequest,
) error {
	return c.do(
		ctx, http.MethodPost, "/v1/assets/"+url.PathEscape(contract)+"/approvals",
		req, nil,
	)
}

// Balance returns the balance of owner for the given contract. The id is
// required by non-fungible and semi-fungible contracts only.
func (c *Client) Balance(
	ctx context.Context, contract, owner, id string,
) (*api.Balance, error) {
	path := "/v1/assets/" + url.PathEscape(contract) + "/" + url.PathEscape(owner)
	if id != "" {
		path += "?" + url.Values{"id": {id}}.Encode()
	}
	res := &api.Balance{}
	if err := c.do(ctx, http.MethodGet, path, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) AddWebhook(
	ctx context.Context, req api.AddWebhookRequest,
) (string, error) {
	res := &api.AddWebhookResponse{}
	if err := c.do(ctx, http.MethodPost, "/v1/admin/webhooks", req, res); err != nil {
		return "", err
	}
	return res.ID, nil
}

func (c *Client) RemoveWebhook(ctx context.Context, id string) error {
	return c.do(
		ctx, http.MethodDelete, "/v1/admin/webhooks/"+url.PathEscape(id), nil, nil,
	)
}

func (c *Client) ListWebhooks(ctx context.Context, event string) ([]api.Webhook, error) {
	path := "/v1/admin/webhooks"
	if event != "" {
		path += "?" + url.Values{"event": {event}}.Encode()
	}
	res := &api.ListWebhooksResponse{}
	if err := c.do(ctx, http.MethodGet, path, nil, res); err != nil {
		return nil, err
	}
	return res.Webhooks, nil
}

// do sends the request through the circuit breaker. Only transport failures
// and 5xx responses count as failures of the daemon.
func (c *Client) do(
	ctx context.Context, method, path string, body, out interface{},
) error {
	var apiErr *Error
	_, err := c.cb.Execute(func() (interface{}, error) {
		err := c.send(ctx, method, path, body, out)
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return nil, nil
		}
		return nil, err
	})
	if err != nil {
		return err
	}
	if apiErr != nil {
		return apiErr
	}
	return nil
}

func (c *Client) send(
	ctx context.Context, method, path string, body, out interface{},
) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(api.AuthorizationHeader, "Bearer "+c.token)
	} else if c.caller != "" {
		req.Header.Set(api.CallerHeader, c.caller)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errRes := api.ErrorResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&errRes); err != nil {
			errRes.Error = http.StatusText(resp.StatusCode)
		}
		return &Error{
			Status:  resp.StatusCode,
			Kind:    errRes.Kind,
			Message: errRes.Error,
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
