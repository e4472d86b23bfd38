package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"pulsechain-cluster-analyzer/internal/api"
	app_service "pulsechain-cluster-analyzer/internal/application/service"
	"pulsechain-cluster-analyzer/internal/domain/repository"
	domain_service "pulsechain-cluster-analyzer/internal/domain/service"
	"pulsechain-cluster-analyzer/internal/infrastructure/config"
	"pulsechain-cluster-analyzer/internal/infrastructure/database"
	"pulsechain-cluster-analyzer/internal/infrastructure/explorer"
	"pulsechain-cluster-analyzer/internal/infrastructure/logger"
	"pulsechain-cluster-analyzer/internal/infrastructure/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.NewLogger(cfg.App.LogLevel)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Create FX application
	app := fx.New(
		// Provide dependencies
		fx.Supply(cfg),
		fx.Supply(log),
		fx.Supply(&cfg.Explorer),
		fx.Supply(&cfg.NATS),
		fx.Supply(&cfg.Neo4J),
		fx.Provide(func() *zap.Logger { return log.Logger }),

		// Infrastructure providers
		fx.Provide(
			explorer.NewClient,
			explorer.NewHolderAdapter,
			explorer.NewTransferAdapter,
			database.NewNeo4JClient,
			messaging.NewNATSPublisher,
			func(client *database.Neo4JClient, cfg *config.Config, log *logger.Logger) repository.ClusterRepository {
				if !cfg.Neo4J.Enabled {
					return nil
				}
				return database.NewNeo4JClusterRepository(client, log)
			},
			func(publisher *messaging.NATSPublisher, cfg *config.Config) domain_service.AnalysisPublisher {
				if !cfg.NATS.Enabled {
					return nil
				}
				return publisher
			},
		),

		// Domain services
		fx.Provide(
			func(cfg *config.Config) domain_service.Thresholds { return cfg.Analysis.Thresholds },
			domain_service.NewGraphBuilder,
			domain_service.NewPatternDetector,
			domain_service.NewRiskAssessor,
			domain_service.NewClusterFinder,
		),

		// Application providers
		fx.Provide(
			app_service.NewClusterAnalysisApplicationService,
			api.NewServer,
		),

		// Lifecycle hooks
		fx.Invoke(startSinks),
		fx.Invoke(startAPIServer),

		// Configure logging
		fx.WithLogger(func() fxevent.Logger {
			return fxevent.NopLogger
		}),
	)

	// Start the application
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Error("Failed to start application", zap.Error(err))
		os.Exit(1)
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down application...")

	// Stop the application
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Error("Failed to stop application gracefully", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped successfully")
}

// startSinks connects the optional result sinks
func startSinks(
	lifecycle fx.Lifecycle,
	cfg *config.Config,
	neo4jClient *database.Neo4JClient,
	publisher *messaging.NATSPublisher,
	log *logger.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Neo4J.Enabled {
				log.Info("Connecting to Neo4J database")
				if err := neo4jClient.Connect(ctx); err != nil {
					return fmt.Errorf("failed to connect to Neo4J: %w", err)
				}
			}
			if cfg.NATS.Enabled {
				if err := publisher.Connect(ctx); err != nil {
					return fmt.Errorf("failed to connect to NATS: %w", err)
				}
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cfg.Neo4J.Enabled {
				if err := neo4jClient.Close(ctx); err != nil {
					log.Error("Failed to close Neo4J connection", zap.Error(err))
				}
			}
			return publisher.Disconnect()
		},
	})
}

// startAPIServer starts the HTTP API server
func startAPIServer(
	lifecycle fx.Lifecycle,
	cfg *config.Config,
	server *api.Server,
	log *logger.Logger,
) {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.HTTPPort),
		Handler: server.Handler(),
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server", zap.Int("port", cfg.App.HTTPPort))

			// Start server in background
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("API server error", zap.Error(err))
				}
			}()

			log.Info("API server started successfully")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping API server...")
			return httpServer.Shutdown(ctx)
		},
	})
}
