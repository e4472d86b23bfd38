package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"pulsechain-cluster-analyzer/internal/domain/entity"
	"pulsechain-cluster-analyzer/internal/infrastructure/config"
	"pulsechain-cluster-analyzer/internal/infrastructure/logger"
)

// NATSPublisher publishes completed cluster analyses to a NATS subject for
// downstream consumers
type NATSPublisher struct {
	conn   *nats.Conn
	config *config.NATSConfig
	logger *logger.Logger
}

// NewNATSPublisher creates a new NATS publisher
func NewNATSPublisher(cfg *config.NATSConfig, logger *logger.Logger) *NATSPublisher {
	return &NATSPublisher{
		config: cfg,
		logger: logger.WithComponent("nats-publisher"),
	}
}

// Connect connects to the NATS server
func (p *NATSPublisher) Connect(ctx context.Context) error {
	if !p.config.Enabled {
		p.logger.Info("NATS is disabled, skipping connection")
		return nil
	}

	p.logger.Info("Connecting to NATS server", zap.String("url", p.config.URL))

	opts := []nats.Option{
		nats.Name("pulsechain-cluster-analyzer"),
		nats.Timeout(p.config.ConnectTimeout),
		nats.ReconnectWait(p.config.ReconnectDelay),
		nats.MaxReconnects(p.config.ReconnectAttempts),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			p.logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			p.logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			p.logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(p.config.URL, opts...)
	if err != nil {
		p.logger.Error("Failed to connect to NATS", zap.Error(err))
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p.conn = conn
	p.logger.Info("Successfully connected to NATS")
	return nil
}

// PublishAnalysis publishes one analysis result as JSON
func (p *NATSPublisher) PublishAnalysis(ctx context.Context, analysis *entity.ClusterAnalysis) error {
	if p.conn == nil {
		return nil // publishing disabled
	}

	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if err := p.conn.Publish(p.config.Subject, payload); err != nil {
		return fmt.Errorf("failed to publish analysis: %w", err)
	}

	p.logger.Info("Published cluster analysis",
		zap.String("subject", p.config.Subject),
		zap.String("analysis_id", analysis.AnalysisID),
		zap.Int("clusters", len(analysis.Clusters)))

	return nil
}

// Disconnect closes the NATS connection
func (p *NATSPublisher) Disconnect() error {
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
		p.logger.Info("Disconnected from NATS")
	}
	return nil
}

// IsConnected checks if connected to NATS
func (p *NATSPublisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}
