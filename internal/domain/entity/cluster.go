package entity

import (
	"time"
)

// WalletCluster represents one connected component of the transaction graph
// with at least two member addresses
type WalletCluster struct {
	ID                 string             `json:"id"`
	Addresses          []string           `json:"addresses"`
	ConnectionStrength float64            `json:"connection_strength"`
	TotalVolume        float64            `json:"total_volume"`
	TransactionCount   int                `json:"transaction_count"`
	CommonPatterns     []string           `json:"common_patterns"`
	RiskIndicators     []string           `json:"risk_indicators"`
	RiskScore          float64            `json:"risk_score"`
	Nodes              []*TransactionNode `json:"nodes"`
	Edges              []*TransactionEdge `json:"edges"`
}

// ClusterAnalysis is the single-shot result of one wallet cluster analysis run
type ClusterAnalysis struct {
	AnalysisID        string           `json:"analysis_id"`
	TokenAddress      string           `json:"token_address"`
	Clusters          []*WalletCluster `json:"clusters"`
	TotalWallets      int              `json:"total_wallets"`
	TotalConnections  int              `json:"total_connections"`
	HighRiskClusters  int              `json:"high_risk_clusters"`
	AnalysisTimestamp time.Time        `json:"analysis_timestamp"`
}

// ClusteringOptions is the caller-supplied configuration for one analysis run.
// MinTransactionAmount and MaxClusterSize are accepted for API compatibility
// but are not applied by the current heuristics.
type ClusteringOptions struct {
	TokenAddress         string  `json:"token_address"`
	TopHoldersCount      int     `json:"top_holders_count"`
	DaysBack             int     `json:"days_back"`
	MinTransactionAmount float64 `json:"min_transaction_amount,omitempty"`
	MaxClusterSize       int     `json:"max_cluster_size,omitempty"`
}
