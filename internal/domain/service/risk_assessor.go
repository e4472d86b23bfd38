package service

import (
	"pulsechain-cluster-analyzer/internal/domain/entity"
)

// RiskAssessor emits structural risk indicators for a cluster and computes
// its aggregate risk score
type RiskAssessor struct {
	thresholds Thresholds
}

// NewRiskAssessor creates a new risk assessor
func NewRiskAssessor(thresholds Thresholds) *RiskAssessor {
	return &RiskAssessor{thresholds: thresholds}
}

// AssessRiskIndicators returns zero or more risk indicator labels for the
// cluster's edges and member addresses
func (a *RiskAssessor) AssessRiskIndicators(edges []*entity.TransactionEdge, addresses []string) []string {
	indicators := []string{}
	if len(edges) == 0 {
		return indicators
	}

	if a.hasCentralHub(edges, addresses) {
		indicators = append(indicators, "Central hub wallet detected")
	}

	if a.hasBurstActivity(edges) {
		indicators = append(indicators, "High transaction volume in specific time windows")
	}

	return indicators
}

// ScoreCluster computes the additive risk score, clamped to [0, 100]
func (a *RiskAssessor) ScoreCluster(patterns, indicators []string, totalVolume float64, addressCount int) float64 {
	score := float64(len(patterns))*a.thresholds.PatternWeight +
		float64(len(indicators))*a.thresholds.IndicatorWeight

	if totalVolume > a.thresholds.HighVolumeThreshold {
		score += a.thresholds.HighVolumeBonus
	}
	if addressCount > a.thresholds.LargeClusterSize {
		score += a.thresholds.LargeClusterBonus
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// hasCentralHub checks whether any single address touches more distinct
// counterparties than the configured share of the cluster size
func (a *RiskAssessor) hasCentralHub(edges []*entity.TransactionEdge, addresses []string) bool {
	counterparties := make(map[string]map[string]bool, len(addresses))
	add := func(addr, other string) {
		if counterparties[addr] == nil {
			counterparties[addr] = make(map[string]bool)
		}
		counterparties[addr][other] = true
	}

	for _, edge := range edges {
		add(edge.From, edge.To)
		add(edge.To, edge.From)
	}

	maxDegree := 0
	for _, others := range counterparties {
		if len(others) > maxDegree {
			maxDegree = len(others)
		}
	}

	return float64(maxDegree) > float64(len(addresses))*a.thresholds.HubCounterpartyShare
}

// hasBurstActivity buckets edges by calendar day and hour and checks for an
// overloaded bucket
func (a *RiskAssessor) hasBurstActivity(edges []*entity.TransactionEdge) bool {
	buckets := make(map[string]int)
	for _, edge := range edges {
		buckets[edge.Timestamp.UTC().Format("2006-01-02-15")]++
	}
	for _, count := range buckets {
		if count > a.thresholds.BurstEdgeCount {
			return true
		}
	}
	return false
}
