package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/connect"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
	"github.com/MrSnakeDoc/bookmarks/internal/mongo"
	"github.com/MrSnakeDoc/bookmarks/internal/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/service"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
	"github.com/MrSnakeDoc/bookmarks/internal/store/memory"
	mongostore "github.com/MrSnakeDoc/bookmarks/internal/store/mongo"
	redisstore "github.com/MrSnakeDoc/bookmarks/internal/store/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/utils"
	"github.com/MrSnakeDoc/bookmarks/internal/validation"
	"github.com/MrSnakeDoc/bookmarks/internal/version"
)

type App struct {
	cfg     *config.Config
	logger  logger.Logger
	server  *httpserver.Server
	closers []utils.Closer
}

func New(ctx context.Context) (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	verifier, err := newVerifier(cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	// Initialize the store early - fail fast if unavailable
	repo, closers, err := openStore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}
	loggerClient.Info("store initialized successfully", logger.Backend(cfg.Store))

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		Bookmarks:    service.NewBookmarkService(repo, loggerClient),
		Validator:    validation.New(cfg.MaxBodyBytes),
		Verifier:     verifier,
		Store:        repo,
		StoreBackend: cfg.Store,
		Metrics:      metrics.New(),
		ReadyTimeout: 2 * time.Second,
		CORSOrigins:  cfg.CORSOrigins,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
	}

	return &App{
		cfg:     cfg,
		logger:  loggerClient,
		server:  httpserver.New(cfg, d),
		closers: closers,
	}, nil
}

// newVerifier chains every configured auth source. JWTs are tried first.
func newVerifier(cfg *config.Config, log logger.Logger) (auth.Verifier, error) {
	var chain auth.Chain

	if cfg.JWTSecret != "" {
		chain = append(chain, auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer))
		log.Info("JWT authentication enabled", logger.Bool("issuer_check", cfg.JWTIssuer != ""))
	}

	if cfg.TokensFile != "" {
		tokens, err := auth.LoadStaticTokens(cfg.TokensFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load static tokens: %w", err)
		}
		chain = append(chain, tokens)
		log.Info("static token authentication enabled",
			logger.String("file", cfg.TokensFile),
			logger.Int("tokens", tokens.Len()),
		)
	}

	return chain, nil
}

// openStore connects the configured backend and returns the resources to release at shutdown.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.BookmarkRepository, []utils.Closer, error) {
	switch cfg.Store {
	case config.StoreMongo:
		log.Infof("Connecting to MongoDB at %s", mongo.Redact(cfg.MongoURI))
		client, err := mongo.New(ctx, mongo.ConnectOptions{
			URI:     cfg.MongoURI,
			AppName: "bookmarks",
			Retry: connect.Policy{
				ConnectTimeout: cfg.MongoConnectTimeout,
				RetryInterval:  cfg.MongoRetryInterval,
				MaxWait:        cfg.MongoMaxWait,
				PingTimeout:    cfg.MongoPingTimeout,
				WarnThreshold:  cfg.ConnectWarnThreshold,
			},
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		closers := []utils.Closer{{Name: "MongoDB", Close: client.Disconnect}}

		repo := mongostore.NewStore(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = utils.CloseAll(ctx, log, closers...)
			return nil, nil, fmt.Errorf("failed to create MongoDB indexes: %w", err)
		}
		return repo, closers, nil

	case config.StoreRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:         cfg.RedisAddr,
			User:         cfg.RedisUser,
			Password:     cfg.RedisPassword,
			RedisDB:      cfg.RedisDB,
			DialTimeout:  cfg.RedisDT,
			ReadTimeout:  cfg.RedisRT,
			WriteTimeout: cfg.RedisWT,
			PoolSize:     cfg.RedisPoolSize,
			Retry: connect.Policy{
				ConnectTimeout: cfg.RedisConnectTimeout,
				RetryInterval:  cfg.RedisRetryInterval,
				MaxWait:        cfg.RedisMaxWait,
				PingTimeout:    cfg.RedisPingTimeout,
				WarnThreshold:  cfg.ConnectWarnThreshold,
			},
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		closers := []utils.Closer{{Name: "Redis", Close: func(context.Context) error { return client.Close() }}}
		return redisstore.NewStore(client), closers, nil

	case config.StoreMemory:
		log.Warn("using the in-memory store, data is lost on restart")
		return memory.New(), nil, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store)
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting bookmarks v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		_ = utils.CloseAll(context.Background(), a.logger, a.closers...)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := utils.CloseAll(shutdownCtx, a.logger, a.closers...); err != nil {
		a.logger.Warn("store did not close cleanly", logger.Error(err))
	}

	a.logger.Info("✅ bookmarks stopped cleanly")
	return nil
}
