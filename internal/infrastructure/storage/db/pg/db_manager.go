package postgresdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/ports"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/storageutil/uow"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

const (
	postgresDriver             = "postgres"
	insecureDataSourceTemplate = "postgresql://%s:%s@%s:%d/%s?sslmode=disable"

	uniqueViolation = "23505"
)

//go:embed migrations/*.sql
var migrations embed.FS

type repoManager struct {
	db *sqlx.DB

	offerRepository domain.OfferRepository
	feeRepository   domain.FeeRepository
	nonceRepository domain.NonceRepository
	craftRepository domain.CraftRepository
}

// DbConfig describes the postgres db to connect to. DataSourceURL, if set,
// takes precedence over the single connection fields. MigrationSourceURL
// overrides the embedded migrations.
type DbConfig struct {
	DataSourceURL      string
	DbUser             string
	DbPassword         string
	DbHost             string
	DbPort             int
	DbName             string
	MigrationSourceURL string
}

// NewService connects to the postgres db described by the given config and
// brings its schema up to date.
func NewService(dbConfig DbConfig) (ports.RepoManager, error) {
	dataSource := dbConfig.DataSourceURL
	if dataSource == "" {
		dataSource = insecureDataSourceStr(dbConfig)
	}

	db, err := sqlx.Connect(postgresDriver, dataSource)
	if err != nil {
		return nil, err
	}

	if err := migrateDb(db.DB, dbConfig.MigrationSourceURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating db: %w", err)
	}

	return newRepoManager(db), nil
}

func newRepoManager(db *sqlx.DB) *repoManager {
	rm := &repoManager{db: db}
	rm.offerRepository = offerRepositoryImpl{rm}
	rm.feeRepository = feeRepositoryImpl{rm}
	rm.nonceRepository = nonceRepositoryImpl{rm}
	rm.craftRepository = craftRepositoryImpl{rm}
	return rm
}

func (r *repoManager) Begin(ctx context.Context) (uow.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &pgTx{tx}, nil
}

func (r *repoManager) OfferRepository() domain.OfferRepository {
	return r.offerRepository
}

func (r *repoManager) FeeRepository() domain.FeeRepository {
	return r.feeRepository
}

func (r *repoManager) NonceRepository() domain.NonceRepository {
	return r.nonceRepository
}

func (r *repoManager) CraftRepository() domain.CraftRepository {
	return r.craftRepository
}

func (r *repoManager) Close() {
	if err := r.db.Close(); err != nil {
		log.WithError(err).Warn("error while closing postgres db")
	}
}

// querier returns the tx of the unit of work in ctx, if any, or the db.
func (r *repoManager) querier(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(r).(*pgTx); ok {
		return tx.tx
	}
	return r.db
}

// execTx runs txBody within the tx of the unit of work in ctx, if any, or
// within a new tx committed right after.
func (r *repoManager) execTx(
	ctx context.Context, txBody func(sqlx.ExtContext) error,
) error {
	if tx, ok := ctx.Value(r).(*pgTx); ok {
		return txBody(tx.tx)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	// Rollback is safe to call even if the tx is already closed, so if
	// the tx commits successfully, this is a no-op.
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Errorf("unable to rollback db tx: %v", err)
		}
	}()

	if err := txBody(tx); err != nil {
		return err
	}

	return tx.Commit()
}

type pgTx struct {
	tx *sqlx.Tx
}

func (t *pgTx) Commit() error {
	return t.tx.Commit()
}

func (t *pgTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func migrateDb(db *sql.DB, migrationSourceURL string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	var m *migrate.Migrate
	if migrationSourceURL != "" {
		m, err = migrate.NewWithDatabaseInstance(
			migrationSourceURL, postgresDriver, driver,
		)
	} else {
		var src source.Driver
		if src, err = iofs.New(migrations, "migrations"); err != nil {
			return err
		}
		m, err = migrate.NewWithInstance("iofs", src, postgresDriver, driver)
	}
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func insecureDataSourceStr(dbConfig DbConfig) string {
	return fmt.Sprintf(
		insecureDataSourceTemplate,
		dbConfig.DbUser,
		dbConfig.DbPassword,
		dbConfig.DbHost,
		dbConfig.DbPort,
		dbConfig.DbName,
	)
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
