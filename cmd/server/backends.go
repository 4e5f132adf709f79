package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"credverify/internal/filestore"
	instsvc "credverify/internal/institution/service"
	inststore "credverify/internal/institution/store"
	"credverify/internal/notify"
	"credverify/internal/platform/config"
	"credverify/internal/platform/httpserver"
	"credverify/internal/platform/redis"
	ratelimit "credverify/internal/ratelimit/middleware"
	"credverify/internal/ratelimit/store/bucket"
	verifsvc "credverify/internal/verification/service"
	verifstore "credverify/internal/verification/store"
	walletsvc "credverify/internal/wallet/service"
	walletstore "credverify/internal/wallet/store"
	"credverify/migrations"
	audit "credverify/pkg/platform/audit"
	auditmemory "credverify/pkg/platform/audit/store/memory"
	auditpostgres "credverify/pkg/platform/audit/store/postgres"
)

// backends holds the storage implementations selected by configuration.
type backends struct {
	requests     verifsvc.RequestStore
	responses    verifsvc.ResponseStore
	tx           verifsvc.Tx
	wallet       walletsvc.Store
	institutions instsvc.Store
	audit        audit.Store
	cache        instsvc.Cache
	buckets      ratelimit.BucketStore

	checks  map[string]httpserver.Checker
	closers []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackends connects Postgres when DATABASE_URL is set and falls back to
// the in-memory stores otherwise. The wallet uses pgx for row-locked debits;
// the remaining stores share a database/sql pool.
func openBackends(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backends, error) {
	b := &backends{checks: map[string]httpserver.Checker{}}

	if cfg.Database.URL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		b.requests = verifstore.NewInMemoryRequests()
		b.responses = verifstore.NewInMemoryResponses()
		b.tx = verifstore.NewShardedTx()
		b.wallet = walletstore.NewInMemory()
		b.institutions = inststore.NewInMemory()
		b.audit = auditmemory.NewInMemoryStore()
	} else {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		b.closers = append(b.closers, func() { _ = db.Close() })
		if err := db.PingContext(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := migrations.Apply(ctx, db); err != nil {
				b.Close()
				return nil, err
			}
			logger.Info("database migrations applied")
		}

		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("open pgx pool: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.checks["postgres"] = db.PingContext
		b.checks["postgres_pgx"] = pool.Ping

		b.requests = verifstore.NewPostgresRequests(db)
		b.responses = verifstore.NewPostgresResponses(db)
		b.tx = verifstore.NewPostgresTx(db)
		b.wallet = walletstore.NewPostgres(pool)
		b.institutions = inststore.NewPostgres(db)
		b.audit = auditpostgres.New(db)
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		b.Close()
		return nil, err
	}
	if rc != nil {
		b.closers = append(b.closers, func() { _ = rc.Close() })
		b.checks["redis"] = rc.Health
		b.cache = inststore.NewRedisCache(rc.Client, inststore.WithCacheTTL(cfg.Redis.DirectoryTTL))
		b.buckets = bucket.NewRedisBucketStore(rc.Client)
	} else {
		b.buckets = bucket.NewInMemoryBucketStore()
	}
	return b, nil
}

// openFileStore selects S3 when a bucket is configured.
func openFileStore(ctx context.Context, cfg config.Storage, logger *slog.Logger) (filestore.Store, error) {
	if cfg.S3Bucket == "" {
		logger.Warn("S3_BUCKET not set, documents are kept in memory")
		return filestore.NewInMemory(), nil
	}
	client, err := filestore.NewS3Client(ctx, cfg.Region, cfg.S3Endpoint)
	if err != nil {
		return nil, err
	}
	return filestore.NewS3(client, cfg.S3Bucket, cfg.S3Prefix), nil
}

// openNotifier builds the dispatcher over every configured sink. The log sink
// is always present.
func openNotifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*notify.Dispatcher, func(), error) {
	sinks := []notify.Sink{notify.NewLogSink(logger)}
	closeFn := func() {}

	if cfg.Notify.SESSender != "" {
		client, err := notify.NewSESClient(ctx, cfg.Storage.Region)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, notify.NewSESSink(client, cfg.Notify.SESSender))
	}
	if len(cfg.Notify.KafkaBrokers) > 0 {
		client, err := notify.NewKafkaClient(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		if err := notify.EnsureTopic(ctx, client, cfg.Notify.KafkaTopic, 3, 1); err != nil {
			logger.Warn("kafka topic check failed", "topic", cfg.Notify.KafkaTopic, "error", err)
		}
		sinks = append(sinks, notify.NewKafkaSink(client, cfg.Notify.KafkaTopic))
		closeFn = client.Close
	}

	d := notify.NewDispatcher(sinks,
		notify.WithLogger(logger),
		notify.WithMetrics(notify.NewMetrics()),
		notify.WithBufferSize(cfg.Notify.BufferSize),
	)
	return d, closeFn, nil
}
