package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-storefront/internal/auth"
	"github.com/noah-isme/backend-storefront/internal/cart"
	"github.com/noah-isme/backend-storefront/internal/catalog"
	"github.com/noah-isme/backend-storefront/internal/checkout"
	"github.com/noah-isme/backend-storefront/internal/common"
	"github.com/noah-isme/backend-storefront/internal/config"
	"github.com/noah-isme/backend-storefront/internal/db"
	"github.com/noah-isme/backend-storefront/internal/events"
	"github.com/noah-isme/backend-storefront/internal/health"
	"github.com/noah-isme/backend-storefront/internal/lock"
	"github.com/noah-isme/backend-storefront/internal/obs"
	"github.com/noah-isme/backend-storefront/internal/pricing"
	"github.com/noah-isme/backend-storefront/internal/ratelimit"
	"github.com/noah-isme/backend-storefront/internal/security"
	"github.com/noah-isme/backend-storefront/internal/shipping"
	"github.com/noah-isme/backend-storefront/internal/store"
	"github.com/noah-isme/backend-storefront/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
			ServiceName:   "storefront-api",
			Endpoint:      cfg.TracingEndpoint,
			SamplingRatio: cfg.TracingSampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	pool := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	queries := store.New(pool)

	verifier, err := auth.NewVerifier(auth.Config{
		Secret:         cfg.JWTSecret,
		Issuer:         cfg.JWTIssuer,
		Audience:       cfg.JWTAudience,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise token verifier")
	}
	authMiddleware := auth.Middleware{Verifier: verifier}

	catalogSvc := &catalog.Service{
		Q:            queries,
		Cache:        catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		DefaultLimit: cfg.CatalogDefaultPage,
		MaxLimit:     cfg.CatalogMaxPage,
	}
	catalogHandler := &catalog.Handler{Svc: catalogSvc}

	cartSvc := &cart.Service{Q: queries}
	cartHandler := &cart.Handler{Svc: cartSvc, Catalog: catalogSvc}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	taskClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisOpts.Addr,
		Password: redisOpts.Password,
		DB:       redisOpts.DB,
	})
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task client")
		}
	}()

	bus := &events.Bus{Store: queries}
	orderMetrics := obs.NewOrderMetrics("storefront", nil)

	checkoutSvc, err := checkout.NewService(checkout.Service{
		Carts:   queries,
		Catalog: catalogSvc,
		Orders:  queries,
		Events:  bus,
		Mailer:  tasks.Enqueuer{Client: taskClient},
		Locker:  lock.Locker{R: redisClient},
		LockTTL: cfg.CheckoutLockTTL,
		Metrics: orderMetrics,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise checkout service")
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}
	limiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "rl:"},
		Config: ratelimit.Config{
			Key:    ratelimit.ByUser,
			Window: cfg.RateLimitWindow,
			Max:    cfg.RateLimitMax,
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("rate limit probe")
		},
	}

	buckets := obs.ParseBucketsCSV(cfg.MetricsBucketsCSV)
	httpMetrics := obs.NewHTTPMetrics("storefront", buckets, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if cfg.TracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: cfg.SecurityHeaders, EnableHSTS: cfg.AppEnv == "production"}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	healthHandler := health.Handler{Checker: readinessChecker{db: pool, redis: redisClient}}
	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(authMiddleware.Authenticate)
		v.Use(limiter.Middleware)

		v.Get("/products", catalogHandler.Products)
		v.Get("/products/{id}", catalogHandler.ProductDetail)
		v.Get("/shipping/options", shipping.Handler{}.Options)
		v.Post("/promo/preview", pricing.PreviewHandler{}.Preview)

		v.Group(func(protected chi.Router) {
			protected.Use(authMiddleware.RequireAuth)
			protected.Get("/cart", cartHandler.Get)
			protected.Post("/cart/items", cartHandler.AddItem)
			protected.Patch("/cart/items/{itemId}", cartHandler.UpdateItem)
			protected.Delete("/cart/items/{itemId}", cartHandler.RemoveItem)
			protected.With(idem.Middleware).Post("/checkout", checkoutHandler.Checkout)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown http server")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
	logger.Info().Msg("server shutdown complete")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(ctx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pgxpool.Pool {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "storefront-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis metrics")
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return redisClient
}
