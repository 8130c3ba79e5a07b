package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"

	"ridereservation/internal/api"
	"ridereservation/internal/api/handlers"
	"ridereservation/internal/config"
	"ridereservation/internal/o11y"
	"ridereservation/internal/repository"
	"ridereservation/internal/repository/memory"
	"ridereservation/internal/repository/redisstore"
	"ridereservation/internal/services"
	"ridereservation/pkg/utils"
)

// cli defaults come from config.NewDefaultConfig through kong.Vars.
var cli = struct {
	Port            string        `name:"port" env:"PORT" default:"${port}" help:"Listen address."`
	ReadTimeout     time.Duration `name:"read-timeout" env:"READ_TIMEOUT" default:"${read_timeout}"`
	WriteTimeout    time.Duration `name:"write-timeout" env:"WRITE_TIMEOUT" default:"${write_timeout}"`
	ShutdownTimeout time.Duration `name:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" default:"${shutdown_timeout}"`

	StoreBackend  string `name:"store" env:"STORE_BACKEND" default:"${store}" enum:"memory,redis" help:"Where to keep records."`
	RedisAddr     string `name:"redis-addr" env:"REDIS_ADDR" default:"${redis_addr}"`
	RedisPassword string `name:"redis-password" env:"REDIS_PASSWORD"`
	RedisDB       int    `name:"redis-db" env:"REDIS_DB" default:"0"`
	KeyPrefix     string `name:"key-prefix" env:"KEY_PREFIX" default:"${key_prefix}"`

	LogLevel       string `name:"log-level" env:"LOG_LEVEL" default:"${log_level}"`
	TracingEnabled bool   `name:"tracing" env:"TRACING_ENABLED" help:"Export traces over OTLP/HTTP."`
	OTLPEndpoint   string `name:"otlp-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"${otlp_endpoint}"`
}{}

func main() {
	if err := run(); err != nil {
		log.Fatalf("unexpected error: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.NewDefaultConfig()
	kong.Parse(&cli,
		kong.Description("Ride reservation lifecycle server."),
		kong.Vars{
			"port":             cfg.Server.Port,
			"read_timeout":     cfg.Server.ReadTimeout.String(),
			"write_timeout":    cfg.Server.WriteTimeout.String(),
			"shutdown_timeout": cfg.Server.ShutdownTimeout.String(),
			"store":            cfg.Store.Backend,
			"redis_addr":       cfg.Store.RedisAddr,
			"key_prefix":       cfg.Store.KeyPrefix,
			"log_level":        cfg.Observability.LogLevel,
			"otlp_endpoint":    cfg.Observability.OTLPEndpoint,
		},
	)
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	obs, cleanup, err := o11y.Setup(ctx, cfg.Observability)
	defer cleanup()
	if err != nil {
		return err
	}
	logger := obs.Logger

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	ids := utils.NewUUIDGenerator()
	notifier := services.NewNotificationService(logger)
	metrics := services.NewLifecycleMetrics(obs.Registry)

	registrationService := services.NewRegistrationService(store, ids, utils.IsValidPhoneNumber, notifier, metrics)
	reservationService := services.NewReservationService(store, ids, notifier, metrics)
	queryService := services.NewQueryService(store)

	customerHandler := handlers.NewCustomerHandler(registrationService, reservationService, queryService)
	driverHandler := handlers.NewDriverHandler(registrationService, reservationService, queryService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	api.NewRouter(customerHandler, driverHandler, logger, obs.Registry).Setup(engine)

	serv := http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("starting server",
		slog.String("addr", cfg.Server.Port),
		slog.String("store", cfg.Store.Backend),
	)
	return serve(ctx, &serv, cfg.Server.ShutdownTimeout, logger)
}

// serve runs srv until ctx is done, then shuts it down within timeout. A
// listen failure is returned instead of waiting for a signal.
func serve(ctx context.Context, srv *http.Server, timeout time.Duration, logger *slog.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func applyFlags(cfg *config.Config) {
	cfg.Server.Port = cli.Port
	if _, err := strconv.Atoi(cli.Port); err == nil {
		cfg.Server.Port = ":" + cli.Port
	}
	cfg.Server.ReadTimeout = cli.ReadTimeout
	cfg.Server.WriteTimeout = cli.WriteTimeout
	cfg.Server.ShutdownTimeout = cli.ShutdownTimeout

	cfg.Store.Backend = cli.StoreBackend
	cfg.Store.RedisAddr = cli.RedisAddr
	cfg.Store.RedisPassword = cli.RedisPassword
	cfg.Store.RedisDB = cli.RedisDB
	cfg.Store.KeyPrefix = cli.KeyPrefix

	cfg.Observability.LogLevel = cli.LogLevel
	cfg.Observability.TracingEnabled = cli.TracingEnabled
	cfg.Observability.OTLPEndpoint = cli.OTLPEndpoint
}

func openStore(ctx context.Context, cfg config.StoreConfig) (*repository.Store, func(), error) {
	if cfg.Backend != config.BackendRedis {
		return memory.NewStore(), func() {}, nil
	}

	client, err := redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return redisstore.NewStore(client, cfg.KeyPrefix), func() { client.Close() }, nil
}
