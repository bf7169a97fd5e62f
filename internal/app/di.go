package app

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/thednalab/catalog-sync/internal/client/http/source"
	"github.com/thednalab/catalog-sync/internal/config"
	"github.com/thednalab/catalog-sync/internal/migrator"
	"github.com/thednalab/catalog-sync/internal/platform/closer"
	repository "github.com/thednalab/catalog-sync/internal/repository/bridge"
	publishersvc "github.com/thednalab/catalog-sync/internal/service/publisher"
	reconcilersvc "github.com/thednalab/catalog-sync/internal/service/reconciler"
	validatorsvc "github.com/thednalab/catalog-sync/internal/service/validator"
	syncv1 "github.com/thednalab/catalog-sync/internal/transport/http/sync/v1"
)

// BridgeRepository aggregates every consumer-side view of the bridge
// store; the concrete repository satisfies all of them.
type BridgeRepository interface {
	reconcilersvc.BridgeRepository
	validatorsvc.BridgeReader
	publishersvc.BridgeRepository
}

type ReconcilerService interface {
	syncv1.SyncService
	publishersvc.Reconciler
}

type ValidatorService interface {
	syncv1.ValidatorService
	publishersvc.Validator
}

type SyncHandler interface {
	Register(r chi.Router)
}

type di struct {
	dbPool   *pgxpool.Pool
	migrator *migrator.Migrator

	repository   BridgeRepository
	sourceClient *source.Client

	reconciler ReconcilerService
	validator  ValidatorService
	publisher  syncv1.PublisherService

	handler SyncHandler
	router  *chi.Mux
}

func NewDI() *di { return &di{} }

func (d *di) DBPool(ctx context.Context) *pgxpool.Pool {
	if d.dbPool == nil {
		pool, err := pgxpool.New(ctx, config.C().Postgres.DSN())
		if err != nil {
			panic(fmt.Sprintf("failed to create pg pool: %v\n", err))
		}

		closer.AddNamed("PGX Pool",
			func(ctx context.Context) error {
				pool.Close()
				return nil
			})

		if err := pool.Ping(ctx); err != nil {
			panic(fmt.Sprintf("failed to ping db: %v\n", err))
		}

		d.dbPool = pool
	}

	return d.dbPool
}

func (d *di) Migrator(ctx context.Context) *migrator.Migrator {
	if d.migrator == nil {
		d.migrator = migrator.NewMigrator(
			stdlib.OpenDBFromPool(d.DBPool(ctx)),
			config.C().Postgres.MigrationDirectory(),
		)

		closer.AddNamed("Migrator",
			func(ctx context.Context) error {
				return d.migrator.Close()
			})
	}

	return d.migrator
}

func (d *di) BridgeRepository(ctx context.Context) BridgeRepository {
	if d.repository == nil {
		d.repository = repository.NewBridgeRepository(d.DBPool(ctx))
	}

	return d.repository
}

func (d *di) SourceClient(_ context.Context) *source.Client {
	if d.sourceClient == nil {
		cfg := config.C()
		d.sourceClient = source.NewClient(
			cfg.Source.BaseURL(),
			cfg.Source.Token(),
			cfg.Source.PageSize(),
			cfg.Source.Timeout(),
		)
	}

	return d.sourceClient
}

// draftSource adapts the concrete source client to the reconciler's
// cursor interface.
type draftSource struct {
	client *source.Client
}

func (s draftSource) Drafts() reconcilersvc.DraftCursor { return s.client.Drafts() }

func (d *di) ReconcilerService(ctx context.Context) ReconcilerService {
	if d.reconciler == nil {
		cfg := config.C()
		d.reconciler = reconcilersvc.NewReconcilerService(
			d.BridgeRepository(ctx),
			draftSource{client: d.SourceClient(ctx)},
			cfg.Sync.DefaultCurrency(),
			cfg.Server.DBWriteTimeout(),
		)
	}

	return d.reconciler
}

func (d *di) ValidatorService(ctx context.Context) ValidatorService {
	if d.validator == nil {
		d.validator = validatorsvc.NewValidatorService(
			d.BridgeRepository(ctx),
			d.SourceClient(ctx),
			config.C().Server.DBReadTimeout(),
		)
	}

	return d.validator
}

func (d *di) PublisherService(ctx context.Context) syncv1.PublisherService {
	if d.publisher == nil {
		d.publisher = publishersvc.NewPublisherService(
			d.SourceClient(ctx),
			d.ValidatorService(ctx),
			d.ReconcilerService(ctx),
			d.BridgeRepository(ctx),
		)
	}

	return d.publisher
}

func (d *di) SyncHandler(ctx context.Context) SyncHandler {
	if d.handler == nil {
		d.handler = syncv1.NewSyncHandler(
			d.ReconcilerService(ctx),
			d.ValidatorService(ctx),
			d.PublisherService(ctx),
		)
	}

	return d.handler
}

func (d *di) Router(_ context.Context) *chi.Mux {
	if d.router == nil {
		d.router = chi.NewRouter()
	}

	return d.router
}
