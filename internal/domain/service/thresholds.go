package service

import (
	"time"
)

// Thresholds holds the tunable constants behind the clustering heuristics and
// the cluster risk score. Defaults reproduce the dashboard's production values.
type Thresholds struct {
	// Pattern detection
	RoundAmountShare       float64       `mapstructure:"round_amount_share"`
	RoundAmountMinLength   int           `mapstructure:"round_amount_min_length"`
	BackAndForthWindow     time.Duration `mapstructure:"back_and_forth_window"`
	SimilarAmountShare     float64       `mapstructure:"similar_amount_share"`
	SimilarAmountTolerance float64       `mapstructure:"similar_amount_tolerance"`
	PairTradeCount         int           `mapstructure:"pair_trade_count"`

	// Risk indicators
	HubCounterpartyShare float64 `mapstructure:"hub_counterparty_share"`
	BurstEdgeCount       int     `mapstructure:"burst_edge_count"`

	// Scoring
	PatternWeight       float64 `mapstructure:"pattern_weight"`
	IndicatorWeight     float64 `mapstructure:"indicator_weight"`
	HighVolumeBonus     float64 `mapstructure:"high_volume_bonus"`
	HighVolumeThreshold float64 `mapstructure:"high_volume_threshold"`
	LargeClusterBonus   float64 `mapstructure:"large_cluster_bonus"`
	LargeClusterSize    int     `mapstructure:"large_cluster_size"`
	HighRiskScore       float64 `mapstructure:"high_risk_score"`
}

// DefaultThresholds returns the production heuristic constants
func DefaultThresholds() Thresholds {
	return Thresholds{
		RoundAmountShare:       0.3,
		RoundAmountMinLength:   6,
		BackAndForthWindow:     time.Hour,
		SimilarAmountShare:     0.5,
		SimilarAmountTolerance: 0.1,
		PairTradeCount:         5,
		HubCounterpartyShare:   0.4,
		BurstEdgeCount:         10,
		PatternWeight:          20,
		IndicatorWeight:        30,
		HighVolumeBonus:        25,
		HighVolumeThreshold:    1_000_000,
		LargeClusterBonus:      15,
		LargeClusterSize:       10,
		HighRiskScore:          50,
	}
}
