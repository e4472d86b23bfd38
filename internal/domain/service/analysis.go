package service

import (
	"context"

	"pulsechain-cluster-analyzer/internal/domain/entity"
)

// ClusterAnalysisService defines the interface for wallet cluster analysis
type ClusterAnalysisService interface {
	// AnalyzeWalletClusters runs the full pipeline for one token: top holders,
	// per-holder transfers, graph construction, component discovery and
	// scoring. It fails only when no holders can be found for the token.
	AnalyzeWalletClusters(ctx context.Context, options *entity.ClusteringOptions) (*entity.ClusterAnalysis, error)
}

// AnalysisPublisher publishes completed analyses for downstream consumers
type AnalysisPublisher interface {
	PublishAnalysis(ctx context.Context, analysis *entity.ClusterAnalysis) error
}
