// Command worker consumes claim analysis requests from Kafka and publishes
// the completed reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/milo0914/ChemPatent-Pro/internal/application/claims"
	"github.com/milo0914/ChemPatent-Pro/internal/config"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/database/redis"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/messaging/kafka"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/stack"
	httpserver "github.com/milo0914/ChemPatent-Pro/internal/interfaces/http"
	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/handlers"
	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/middleware"
)

const (
	defaultHealthPort = 8081
	// leaseTTL bounds how long a crashed worker blocks redelivery of the
	// event it was processing.
	leaseTTL = 5 * time.Minute
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: CHEMPATENT_* environment)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port of the health and metrics endpoint")
	ensureTopics := flag.Bool("ensure-topics", true, "create the claims topics when missing")
	replication := flag.Int("replication", 1, "replication factor of created topics")
	flag.Parse()

	if err := run(*configPath, *healthPort, *ensureTopics, *replication); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, healthPort int, ensureTopics bool, replication int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !cfg.Kafka.Enabled {
		return fmt.Errorf("kafka is disabled; set kafka.enabled to run the worker")
	}

	logger, err := stack.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	logger.Info("starting ChemPatent-Pro worker",
		logging.String("version", version),
		logging.String("topic", cfg.Kafka.RequestTopic),
		logging.String("group", cfg.Kafka.GroupID),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := stack.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	if ensureTopics {
		if err := createTopics(ctx, cfg.Kafka, replication, logger); err != nil {
			return err
		}
	}

	analyzer, err := claims.NewAnalyzer(cfg.Analysis, logger, infra.Metrics)
	if err != nil {
		return err
	}
	opts := []claims.Option{claims.WithTimeout(cfg.Analysis.Timeout)}
	if infra.Cache != nil {
		opts = append(opts, claims.WithCache(infra.Cache, infra.CacheName, cfg.Cache.TTL))
	}
	if infra.Repository != nil {
		opts = append(opts, claims.WithRepository(infra.Repository))
	}
	if infra.Metrics != nil {
		opts = append(opts, claims.WithMetrics(infra.Metrics))
	}
	svc := claims.NewService(analyzer, logger, opts...)

	producer, err := kafka.NewProducer(producerConfig(cfg.Kafka), logger, infra.Metrics)
	if err != nil {
		return err
	}
	defer producer.Close()

	var locker claims.EventLocker
	if infra.Redis != nil {
		locker = eventLocker{locker: redis.NewLocker(infra.Redis, logger, leaseTTL)}
	} else {
		logger.Warn("redis cache backend not configured; redelivered events will be analysed again")
	}
	handler := claims.NewEventHandler(svc, producer, locker, cfg.Kafka.CompletedTopic, logger)

	consumer, err := kafka.NewConsumer(consumerConfig(cfg.Kafka), producer, logger, infra.Metrics)
	if err != nil {
		return err
	}
	consumer.Subscribe(cfg.Kafka.RequestTopic, handler.HandleAnalysisRequested)

	healthServer := startHealthServer(cfg, healthPort, infra, logger)

	if err := consumer.Start(ctx); err != nil {
		_ = consumer.Close()
		return err
	}
	<-ctx.Done()
	logger.Info("shutdown signal received, draining consumer")

	if err := consumer.Close(); err != nil {
		logger.Error("consumer close failed", logging.Err(err))
	}
	st := consumer.Stats()
	logger.Info("consumer stopped",
		logging.Int64("consumed", st.Consumed),
		logging.Int64("processed", st.Processed),
		logging.Int64("dead_lettered", st.DeadLettered),
		logging.Int64("dropped", st.Dropped),
	)
	if err := healthServer.Stop(context.Background()); err != nil {
		logger.Error("health server shutdown failed", logging.Err(err))
	}
	logger.Info("worker stopped")
	return nil
}

func createTopics(ctx context.Context, c config.KafkaConfig, replication int, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(c.Brokers, logger)
	if err != nil {
		return err
	}
	defer tm.Close()
	return tm.EnsureTopics(ctx, kafka.ClaimsTopics(c.RequestTopic, c.CompletedTopic, c.DeadLetterTopic, replication))
}

// startHealthServer serves /healthz, /readyz and the metrics endpoint for
// the orchestrator.
func startHealthServer(cfg *config.Config, port int, infra *stack.Infrastructure, logger logging.Logger) *httpserver.Server {
	checkers := make([]handlers.HealthChecker, 0)
	for _, c := range infra.Checks() {
		checkers = append(checkers, handlers.CheckFunc{ComponentName: c.Name, Fn: c.Fn})
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(version, infra.Metrics, checkers...),
		LoggingConfig:    middleware.DefaultLoggingConfig(),
		Logger:           logger,
		MetricsCollector: infra.Collector,
		MetricsPath:      cfg.Metrics.Path,
	})

	serverCfg := cfg.Server
	serverCfg.Port = port
	server := httpserver.NewServer(serverCfg, router, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("health server failed", logging.Err(err))
		}
	}()
	return server
}

//Personal.AI order the ending
