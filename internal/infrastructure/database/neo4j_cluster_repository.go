package database

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"pulsechain-cluster-analyzer/internal/domain/entity"
	"pulsechain-cluster-analyzer/internal/domain/repository"
	"pulsechain-cluster-analyzer/internal/infrastructure/logger"
)

// Neo4JClusterRepository implements ClusterRepository interface
type Neo4JClusterRepository struct {
	client *Neo4JClient
	logger *logger.Logger
}

// NewNeo4JClusterRepository creates a new Neo4J cluster repository
func NewNeo4JClusterRepository(client *Neo4JClient, logger *logger.Logger) repository.ClusterRepository {
	return &Neo4JClusterRepository{
		client: client,
		logger: logger.WithComponent("neo4j-cluster-repo"),
	}
}

// SaveAnalysis merges the analysis' wallets, transfer relationships and
// cluster memberships into Neo4J
func (r *Neo4JClusterRepository) SaveAnalysis(ctx context.Context, analysis *entity.ClusterAnalysis) error {
	session := r.client.GetDriver().NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	timestamp := analysis.AnalysisTimestamp.Format("2006-01-02T15:04:05.000Z")

	for _, cluster := range analysis.Clusters {
		if err := r.saveCluster(ctx, session, analysis, cluster, timestamp); err != nil {
			return fmt.Errorf("failed to save cluster %s: %w", cluster.ID, err)
		}
	}

	r.logger.Info("Saved cluster analysis to Neo4J",
		zap.String("analysis_id", analysis.AnalysisID),
		zap.Int("clusters", len(analysis.Clusters)))

	return nil
}

// saveCluster merges one cluster with its member wallets and edges
func (r *Neo4JClusterRepository) saveCluster(
	ctx context.Context,
	session neo4j.SessionWithContext,
	analysis *entity.ClusterAnalysis,
	cluster *entity.WalletCluster,
	timestamp string,
) error {
	// Cluster IDs are only unique per token, so the merge key includes the
	// token address.
	clusterQuery := `
		MERGE (c:Cluster {key: $key})
		SET
			c.id = $id,
			c.token_address = $token_address,
			c.risk_score = $risk_score,
			c.total_volume = $total_volume,
			c.transaction_count = $transaction_count,
			c.common_patterns = $common_patterns,
			c.risk_indicators = $risk_indicators,
			c.last_analyzed = datetime($timestamp)
		WITH c
		UNWIND $members AS member
		MERGE (w:Wallet {address: member.address})
		SET
			w.balance = member.balance,
			w.percentage = member.percentage,
			w.last_analyzed = datetime($timestamp)
		MERGE (w)-[:MEMBER_OF]->(c)
	`

	members := make([]map[string]interface{}, 0, len(cluster.Nodes))
	for _, node := range cluster.Nodes {
		members = append(members, map[string]interface{}{
			"address":    node.Address,
			"balance":    node.Balance,
			"percentage": node.Percentage,
		})
	}

	clusterParams := map[string]interface{}{
		"key":               analysis.TokenAddress + ":" + cluster.ID,
		"id":                cluster.ID,
		"token_address":     analysis.TokenAddress,
		"risk_score":        cluster.RiskScore,
		"total_volume":      cluster.TotalVolume,
		"transaction_count": cluster.TransactionCount,
		"common_patterns":   cluster.CommonPatterns,
		"risk_indicators":   cluster.RiskIndicators,
		"timestamp":         timestamp,
		"members":           members,
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, clusterQuery, clusterParams)
	})
	if err != nil {
		return fmt.Errorf("failed to merge cluster node: %w", err)
	}

	edgeQuery := `
		UNWIND $edges AS edge
		MATCH (from:Wallet {address: edge.from})
		MATCH (to:Wallet {address: edge.to})
		MERGE (from)-[t:TRANSFERRED_TO {tx_hash: edge.tx_hash}]->(to)
		SET
			t.amount = edge.amount,
			t.token_address = edge.token_address,
			t.block_number = edge.block_number,
			t.timestamp = datetime(edge.timestamp)
	`

	edges := make([]map[string]interface{}, 0, len(cluster.Edges))
	for _, edge := range cluster.Edges {
		edges = append(edges, map[string]interface{}{
			"from":          edge.From,
			"to":            edge.To,
			"tx_hash":       edge.TxHash,
			"amount":        edge.Amount,
			"token_address": edge.TokenAddress,
			"block_number":  edge.BlockNumber,
			"timestamp":     edge.Timestamp.Format("2006-01-02T15:04:05.000Z"),
		})
	}

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, edgeQuery, map[string]interface{}{"edges": edges})
	})
	if err != nil {
		return fmt.Errorf("failed to merge cluster edges: %w", err)
	}

	return nil
}
