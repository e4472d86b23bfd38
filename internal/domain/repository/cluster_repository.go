package repository

import (
	"context"

	"pulsechain-cluster-analyzer/internal/domain/entity"
)

// ClusterRepository defines the interface for persisting discovered wallet
// clusters to the graph store
type ClusterRepository interface {
	// SaveAnalysis merges the analysis' wallets, transfer relationships and
	// cluster memberships into the store
	SaveAnalysis(ctx context.Context, analysis *entity.ClusterAnalysis) error
}
