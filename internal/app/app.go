package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/sports-mirror/external/jobqueue"
	"github.com/riskibarqy/sports-mirror/external/rabbitmq"
	"github.com/riskibarqy/sports-mirror/external/thesports"
	"github.com/riskibarqy/sports-mirror/internal/config"
	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/match"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/domain/syncstate"
	livestore "github.com/riskibarqy/sports-mirror/internal/infrastructure/livescore"
	cacherepo "github.com/riskibarqy/sports-mirror/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/sports-mirror/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sports-mirror/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/sports-mirror/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/sports-mirror/internal/platform/cache"
	idgen "github.com/riskibarqy/sports-mirror/internal/platform/id"
	"github.com/riskibarqy/sports-mirror/internal/platform/logging"
	"github.com/riskibarqy/sports-mirror/internal/usecase"
)

const dbPingTimeout = 5 * time.Second

// App is the assembled service graph shared by the api and syncer binaries.
type App struct {
	Server    *http.Server
	Sync      *usecase.SyncService
	LiveScore *usecase.LiveScoreService
	Scheduler *usecase.Scheduler

	closers []func() error
}

type storage struct {
	collections usecase.CollectionSet
	readers     catalog.ReaderSet
	matches     match.Repository
	states      syncstate.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	a := &App{}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("build resource registry: %w", err)
	}

	store, closeStore, err := openStorage(cfg, registry, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	events := usecase.NewNoopSyncEventPublisher()
	if cfg.RabbitMQEnabled {
		publisher, err := rabbitmq.NewPublisher(rabbitmq.Config{
			URL:        cfg.RabbitMQURL,
			Exchange:   cfg.RabbitMQExchange,
			QueueName:  cfg.RabbitMQQueue,
			RoutingKey: cfg.RabbitMQRoutingKey,
		}, logger.Named("rabbitmq"))
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("build rabbitmq publisher: %w", err)
		}
		events = publisher
		a.closers = append(a.closers, publisher.Close)
	}

	readers, matches := store.readers, store.matches
	if cfg.CacheEnabled {
		cache := basecache.NewStore(cfg.CacheTTL)
		readers = cacherepo.NewReaderSet(store.readers, registry, cache)
		matches = cacherepo.NewMatchRepository(store.matches, cache)
		events = cacherepo.NewInvalidatingPublisher(events, cache)
	}

	queue := usecase.NewNoopJobQueue()
	if cfg.QStashEnabled {
		qstash, err := jobqueue.New(jobqueue.Config{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker:   cfg.QStashCircuit,
		}, logger)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("build qstash job queue: %w", err)
		}
		queue = qstash
	}

	provider := thesports.NewClient(thesports.ClientConfig{
		BaseURL:        cfg.TheSportsBaseURL,
		User:           cfg.TheSportsUser,
		Secret:         cfg.TheSportsSecret,
		Timeout:        cfg.TheSportsTimeout,
		Logger:         logger.Named("thesports"),
		CircuitBreaker: cfg.TheSportsCircuit,
	})

	syncLogger := logger.Named("sync")
	retry := usecase.NewBackoffRetry(usecase.BackoffRetryConfig{
		MaxAttempts:     uint(cfg.SyncRetryMaxAttempts),
		InitialInterval: cfg.SyncRetryInitialInterval,
		MaxInterval:     cfg.SyncRetryMaxInterval,
		Retryable:       thesports.IsTransient,
	}, syncLogger)
	writer := usecase.NewUpsertWriter(usecase.NewValidator())

	full := usecase.NewFullSyncDriver(provider, writer, retry, usecase.FullSyncConfig{
		PageDelay:              cfg.SyncPageDelay,
		MaxConsecutiveFailures: cfg.SyncMaxConsecutiveFailures,
		MaxPages:               cfg.SyncMaxPages,
	}, syncLogger)
	incremental := usecase.NewIncrementalSyncDriver(provider, writer, retry, usecase.IncrementalSyncConfig{
		Lookback: cfg.SyncIncrementalLookback,
	}, syncLogger)

	a.Sync = usecase.NewSyncService(
		registry,
		store.collections,
		store.states,
		full,
		incremental,
		events,
		queue,
		idgen.NewUUIDGenerator(),
		usecase.SyncServiceConfig{
			RetryDelay:  cfg.SyncRetryDelay,
			Concurrency: cfg.SyncWorkers,
		},
		syncLogger,
	)

	snapshots := livestore.NewStore(cfg.LiveScoreTTL, cfg.LiveScoreCacheSize)
	if cfg.LiveScoreEnabled {
		a.LiveScore = usecase.NewLiveScoreService(provider, thesports.ParseScoreTuple, snapshots, logger.Named("livescore"))
	}

	if cfg.SyncEnabled {
		var live usecase.LiveRefresher
		if a.LiveScore != nil {
			live = a.LiveScore
		}
		a.Scheduler, err = usecase.NewScheduler(a.Sync, live, registry, usecase.SchedulerConfig{
			Workers:      cfg.SyncWorkers,
			LiveInterval: cfg.LiveScoreInterval,
		}, logger.Named("scheduler"))
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	overlay := usecase.NewOverlayService(snapshots)
	handler := httpapi.NewHandler(
		usecase.NewCatalogService(readers),
		usecase.NewMatchService(matches, overlay, provider),
		usecase.NewStandingsService(matches),
		a.Sync,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	if cfg.HTTPAddr == "" {
		_ = a.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// Close releases storage and broker connections in reverse order of creation.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func openStorage(cfg config.Config, registry *resource.Registry, logger *logging.Logger) (storage, func() error, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore(registry)
		return storage{
			collections: store,
			readers:     store,
			matches:     store.Matches(),
			states:      store.SyncStates(),
		}, func() error { return nil }, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return storage{}, nil, err
	}
	store := postgres.NewStore(db, registry)
	logger.Info("connected to postgres", "db_name", dbNameFromURL(cfg.DBURL))
	return storage{
		collections: store,
		readers:     store,
		matches:     store.Matches(),
		states:      store.SyncStates(),
	}, db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
