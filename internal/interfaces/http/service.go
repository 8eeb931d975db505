package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/interfaces"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	minSecretLen    = 32
	shutdownTimeout = 10 * time.Second
	readTimeout     = 15 * time.Second
)

type ServiceOpts struct {
	// Address is the listening address of the API, ie. ":9945".
	Address string
	// MetricsAddress, if set, serves the metrics on a dedicated listener,
	// otherwise they are exposed by the API at /metrics.
	MetricsAddress string

	// AuthSecret signs and verifies the caller tokens.
	AuthSecret []byte
	// NoAuth trusts the caller header instead of requiring a token.
	NoAuth    bool
	RateLimit int

	EscrowSvc EscrowService
	// WebhookSvc is optional, the webhook routes are not served without it.
	WebhookSvc WebhookService
}

func (o ServiceOpts) validate() error {
	if o.Address == "" {
		return fmt.Errorf("missing listening address")
	}
	if o.MetricsAddress != "" && o.MetricsAddress == o.Address {
		return fmt.Errorf("metrics address must differ from api address")
	}
	if !o.NoAuth && len(o.AuthSecret) < minSecretLen {
		return fmt.Errorf(
			"auth secret must be at least %d bytes long", minSecretLen,
		)
	}
	if o.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if o.EscrowSvc == nil {
		return fmt.Errorf("escrow app service must not be null")
	}
	return nil
}

type service struct {
	opts          ServiceOpts
	metrics       *metrics
	server        *http.Server
	metricsServer *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	return &service{opts: opts, metrics: newMetrics()}, nil
}

func (s *service) Start() error {
	router := newRouter(s.opts, s.metrics)
	server, err := serve(s.opts.Address, router)
	if err != nil {
		return err
	}
	s.server = server
	log.Infof("api interface is listening on %s", s.opts.Address)

	if s.opts.MetricsAddress != "" {
		metricsServer, err := serve(s.opts.MetricsAddress, s.metricsHandler())
		if err != nil {
			s.shutdown(s.server)
			return err
		}
		s.metricsServer = metricsServer
		log.Infof("metrics are exposed on %s", s.opts.MetricsAddress)
	}
	return nil
}

func (s *service) Stop() {
	if s.metricsServer != nil {
		s.shutdown(s.metricsServer)
		log.Debug("disabled metrics interface")
	}
	if s.server != nil {
		s.shutdown(s.server)
		log.Debug("disabled api interface")
	}
}

func (s *service) metricsHandler() http.Handler {
	return promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})
}

func (s *service) shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warnf("error while stopping server on %s", server.Addr)
	}
}

func newRouter(opts ServiceOpts, m *metrics) *mux.Router {
	h := &handler{svc: opts.EscrowSvc, webhooks: opts.WebhookSvc, metrics: m}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet).Name(routeHealth)
	if opts.MetricsAddress == "" {
		router.Handle(
			"/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}),
		).Methods(http.MethodGet).Name(routeMetrics)
	}

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/config", h.getConfig).Methods(http.MethodGet).Name(routeGetEngineConfig)

	v1.HandleFunc("/offers/fingerprint", h.fingerprint).Methods(http.MethodPost).Name(routeFingerprint)
	v1.HandleFunc("/offers/address", h.predictAddress).Methods(http.MethodPost).Name(routePredictAddress)
	v1.HandleFunc("/offers", h.createOffer).Methods(http.MethodPost).Name(routeCreateOffer)
	v1.HandleFunc("/offers", h.listOffers).Methods(http.MethodGet).Name(routeListOffers)
	v1.HandleFunc("/offers/{id}", h.getOffer).Methods(http.MethodGet).Name(routeGetOffer)
	v1.HandleFunc("/offers/{id}/accept", h.acceptOffer).Methods(http.MethodPost).Name(routeAcceptOffer)
	v1.HandleFunc("/offers/{id}/cancel", h.cancelOffer).Methods(http.MethodPost).Name(routeCancelOffer)

	v1.HandleFunc("/fees", h.getFees).Methods(http.MethodGet).Name(routeGetFees)

	v1.HandleFunc("/rewards", h.craftReward).Methods(http.MethodPost).Name(routeCraftReward)
	v1.HandleFunc("/rewards", h.listCrafts).Methods(http.MethodGet).Name(routeListCrafts)
	v1.HandleFunc("/rewards/{id}", h.getCraft).Methods(http.MethodGet).Name(routeGetCraft)

	v1.HandleFunc("/assets/{contract}/approvals", h.approve).Methods(http.MethodPost).Name(routeApprove)
	v1.HandleFunc("/assets/{contract}/{owner}", h.getBalance).Methods(http.MethodGet).Name(routeGetBalance)

	v1.HandleFunc("/admin/offers/cancel", h.batchCancelOffers).Methods(http.MethodPost).Name(routeBatchCancel)
	v1.HandleFunc("/admin/fees/collect", h.collectFees).Methods(http.MethodPost).Name(routeCollectFees)

	if opts.WebhookSvc != nil {
		v1.HandleFunc("/admin/webhooks", h.addWebhook).Methods(http.MethodPost).Name(routeAddWebhook)
		v1.HandleFunc("/admin/webhooks", h.listWebhooks).Methods(http.MethodGet).Name(routeListWebhooks)
		v1.HandleFunc("/admin/webhooks/{id}", h.removeWebhook).Methods(http.MethodDelete).Name(routeRemoveWebhook)
	}

	router.Use(
		loggerMiddleware,
		metricsMiddleware(m),
		rateLimitMiddleware(opts.RateLimit),
		authMiddleware(AllPermissionsByRoute(), opts.AuthSecret, opts.NoAuth),
	)
	return router
}

func serve(addr string, handler http.Handler) (*http.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readTimeout,
	}
	go func() {
		if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Errorf("server on %s stopped unexpectedly", addr)
		}
	}()
	return server, nil
}
