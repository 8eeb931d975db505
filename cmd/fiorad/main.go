package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/config"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/escrow"
	pubsubapp "github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/application/pubsub"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/assetbook"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/pubsub"
	dbbadger "github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/badger"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/TheCryptoChad/FioraSwap-Contracts/internal/infrastructure/storage/db/pg"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/interfaces"
	httpinterface "github.com/TheCryptoChad/FioraSwap-Contracts/internal/interfaces/http"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/stats"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		stats.EnableMemoryStatistics(
			ctx, interval, config.GetStatsDir(), prometheus.DefaultGatherer,
		)
	}

	dbType := config.GetString(config.DBTypeKey)
	repoManager, err := newRepoManager(dbType)
	if err != nil {
		log.WithError(err).Fatal("failed to open ledger db")
	}
	defer repoManager.Close()

	genesis, err := config.GetGenesis()
	if err != nil {
		log.WithError(err).Fatal("failed to load genesis state")
	}
	assetBook, err := assetbook.Open(config.GetAssetBookDatafile(), genesis)
	if err != nil {
		log.WithError(err).Fatal("failed to open asset book")
	}

	escrowCfg := config.GetEscrowConfig()

	var (
		publisher  escrow.EventPublisher
		webhookSvc httpinterface.WebhookService
	)
	if config.GetBool(config.EnableWebhooksKey) {
		svc, err := newWebhookService(dbType, escrowCfg)
		if err != nil {
			log.WithError(err).Fatal("failed to start webhooks")
		}
		defer svc.Close()

		publisher, webhookSvc = svc, svc
	}

	escrowSvc, err := escrow.NewService(
		repoManager, assetBook, publisher, escrowCfg,
	)
	if err != nil {
		log.WithError(err).Fatal("failed to init escrow engine")
	}
	defer escrowSvc.Close()

	svc, err := newHTTPService(escrowSvc, webhookSvc)
	if err != nil {
		log.WithError(err).Fatal(err)
	}

	log.RegisterExitHandler(svc.Stop)

	log.Info("starting daemon")
	defer log.Info("shutdown")

	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal(err)
	}
	defer svc.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-sigChan

	log.Info("shutting down daemon")
}

func newRepoManager(dbType string) (ports.RepoManager, error) {
	switch dbType {
	case config.DBInMemory:
		return inmemory.NewRepoManager(), nil
	case config.DBBadger:
		return dbbadger.NewRepoManager(config.GetDbDir(), log.StandardLogger())
	case config.DBPostgres:
		return postgresdb.NewService(config.GetPgConfig())
	default:
		return nil, fmt.Errorf("unknown db type %s", dbType)
	}
}

func newWebhookService(
	dbType string, cfg escrow.Config,
) (*pubsubapp.Service, error) {
	dbDir := config.GetDbDir()
	if dbType == config.DBInMemory {
		dbDir = ""
	}
	ps, err := pubsub.NewService(dbDir, log.StandardLogger())
	if err != nil {
		return nil, err
	}
	return pubsubapp.NewService(ps, cfg.Owner)
}

func newHTTPService(
	escrowSvc *escrow.Service, webhookSvc httpinterface.WebhookService,
) (interfaces.Service, error) {
	var metricsAddress string
	if port := config.GetInt(config.MetricsPortKey); port > 0 {
		metricsAddress = fmt.Sprintf(":%d", port)
	}

	opts := httpinterface.ServiceOpts{
		Address:        fmt.Sprintf(":%d", config.GetInt(config.APIPortKey)),
		MetricsAddress: metricsAddress,
		AuthSecret:     []byte(config.GetString(config.AuthSecretKey)),
		NoAuth:         config.GetBool(config.NoAuthKey),
		RateLimit:      config.GetInt(config.RateLimitKey),
		EscrowSvc:      escrowSvc,
		WebhookSvc:     webhookSvc,
	}
	return httpinterface.NewService(opts)
}
