package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cacheadapter "github.com/maglieria/storefront/internal/adapters/cache"
	eventadapter "github.com/maglieria/storefront/internal/adapters/events"
	httpadapter "github.com/maglieria/storefront/internal/adapters/http"
	mailadapter "github.com/maglieria/storefront/internal/adapters/mail"
	"github.com/maglieria/storefront/internal/adapters/postgres"
	"github.com/maglieria/storefront/internal/adapters/receipt"
	"github.com/maglieria/storefront/internal/adapters/security"
	"github.com/maglieria/storefront/internal/application"
	"github.com/maglieria/storefront/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	healthSrv  *health.Server
	outbox     *eventadapter.OutboxWorker
	cleanupFn  func(context.Context)
}

type closer func()

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With("service", cfg.ServiceID)
	slog.SetDefault(logger)
	logger.Info("bootstrapping storefront", "http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	var closers []closer
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*Runtime, error) {
		cleanup()
		return nil, err
	}

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}
	closers = append(closers, func() { _ = sqlDB.Close() })

	if err := postgres.RunMigrations(ctx, db); err != nil {
		return fail(fmt.Errorf("run migrations: %w", err))
	}
	repos := postgres.NewRepositories(db)

	var (
		redisClient *redis.Client
		catalog     ports.CatalogCache
		lockouts    ports.LockoutStore
	)
	if cfg.RedisURL != "" {
		redisClient, err = cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fail(fmt.Errorf("parse redis url: %w", err))
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fail(fmt.Errorf("connect redis: %w", err))
		}
		catalog = cacheadapter.NewRedisCatalogCache(redisClient, cfg.CatalogCacheTTL)
		lockouts = cacheadapter.NewRedisLockoutStore(redisClient)
	} else {
		logger.Warn("REDIS_URL not set: catalog cache and login lockout are disabled")
	}

	tokenSigner, err := security.NewJWTSigner(cfg.JWTKeyID, cfg.JWTIssuer, cfg.JWTPrivateKeyPEM, cfg.JWTPublicKeyPEM)
	if err != nil {
		if !cfg.AllowEphemeralJWT {
			return fail(fmt.Errorf("init jwt signer: %w", err))
		}
		logger.Warn("using ephemeral JWT keys for local/dev runtime")
		tokenSigner, err = security.NewEphemeralJWTSigner(cfg.JWTKeyID, cfg.JWTIssuer)
		if err != nil {
			return fail(fmt.Errorf("init ephemeral jwt signer: %w", err))
		}
	}

	notifier, err := buildNotifier(cfg, logger)
	if err != nil {
		return fail(err)
	}

	publisher, err := buildPublisher(cfg, logger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() { _ = publisher.Close() })

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			TokenTTL:             cfg.TokenTTL,
			ResetTokenTTL:        cfg.ResetTokenTTL,
			ResetURLBase:         cfg.ResetURLBase,
			FailedLoginThreshold: cfg.FailedThreshold,
			LockoutDuration:      cfg.LockoutDuration,
			BootstrapAdminEmail:  cfg.BootstrapAdminEmail,
			AttachReceipts:       cfg.AttachReceipts,
		},
		Users:    repos.Users,
		Products: repos.Products,
		Orders:   repos.Orders,
		Comments: repos.Comments,
		Catalog:  catalog,
		Lockouts: lockouts,
		Hasher:   security.NewBcryptHasher(cfg.BcryptCost),
		Tokens:   tokenSigner,
		Notifier: notifier,
		Receipts: receipt.NewPDFRenderer(cfg.StoreName, cfg.ReceiptSigningKey),
		Logger:   logger,
	})

	handler := httpadapter.NewHandler(svc).WithReadiness(func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	})
	router := httpadapter.NewRouter(handler, httpadapter.RouterOptions{
		AllowedOrigins:    cfg.CORSOrigins,
		AuthRatePerMinute: cfg.AuthRatePerMinute,
		AuthBurst:         cfg.AuthBurst,
		TrustProxy:        cfg.TrustProxy,
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	outbox := eventadapter.NewOutboxWorker(
		logger,
		repos.Outbox,
		publisher,
		cfg.OutboxPollInterval,
		cfg.OutboxBatchSize,
		cfg.OutboxClaimTTL,
		cfg.OutboxMaxRetries,
	)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		healthSrv:  healthSrv,
		outbox:     outbox,
		cleanupFn: func(context.Context) {
			cleanup()
		},
	}, nil
}

type eventPublisher interface {
	ports.EventPublisher
	Close() error
}

func buildPublisher(cfg Config, logger *slog.Logger) (eventPublisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set: outbox events are logged only")
		return eventadapter.NewLoggingPublisher(logger), nil
	}
	publisher, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicByEvent)
	if err != nil {
		return nil, fmt.Errorf("init kafka publisher: %w", err)
	}
	return publisher, nil
}

func buildNotifier(cfg Config, logger *slog.Logger) (ports.Notifier, error) {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set: customer emails are logged, not sent")
		return mailadapter.NewLoggingNotifier(logger), nil
	}
	notifier, err := mailadapter.NewSMTPNotifier(mailadapter.SMTPConfig{
		Host:         cfg.SMTPHost,
		Port:         cfg.SMTPPort,
		Username:     cfg.SMTPUsername,
		Password:     cfg.SMTPPassword,
		From:         cfg.SMTPFrom,
		ResetLinkTTL: cfg.ResetTokenTTL,
		RequireTLS:   cfg.SMTPRequireTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("init smtp notifier: %w", err)
	}
	return notifier, nil
}

// listenGRPC binds the health port; a non-positive port disables it.
func listenGRPC(port int) (net.Listener, error) {
	if port <= 0 {
		return nil, nil
	}
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}
	return lis, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	grpcLis, err := listenGRPC(r.cfg.GRPCPort)
	if err != nil {
		r.cleanupFn(ctx)
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	if grpcLis != nil {
		go func() {
			r.logger.Info("grpc health server started", "addr", grpcLis.Addr().String())
			if err := r.grpcServer.Serve(grpcLis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		r.logger.Error("server failure", "error", runErr)
	}

	r.healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("http shutdown incomplete", "error", err)
	}
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return runErr
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("outbox worker started")
	err := r.outbox.Run(ctx)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
