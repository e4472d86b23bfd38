package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pulsechain-cluster-analyzer/internal/domain/entity"
)

// PatternDetector derives qualitative trading pattern labels from one
// cluster's edge list
type PatternDetector struct {
	thresholds Thresholds
}

// NewPatternDetector creates a new pattern detector
func NewPatternDetector(thresholds Thresholds) *PatternDetector {
	return &PatternDetector{thresholds: thresholds}
}

// DetectPatterns returns zero or more pattern labels for the given edges
func (d *PatternDetector) DetectPatterns(edges []*entity.TransactionEdge) []string {
	patterns := []string{}
	if len(edges) == 0 {
		return patterns
	}

	if d.hasRoundAmounts(edges) {
		patterns = append(patterns, "High frequency of round number transactions")
	}

	if pairs := d.countBackAndForthPairs(edges); pairs > 0 {
		patterns = append(patterns, fmt.Sprintf("Rapid back-and-forth transactions (%d pairs)", pairs))
	}

	if d.hasSimilarAmounts(edges) {
		patterns = append(patterns, "Unusually similar transaction amounts")
	}

	if busy := d.countBusyPairs(edges); busy > 0 {
		patterns = append(patterns, fmt.Sprintf("High frequency trading (%d wallet pairs)", busy))
	}

	return patterns
}

// hasRoundAmounts checks whether round-number transfers dominate the edge set
func (d *PatternDetector) hasRoundAmounts(edges []*entity.TransactionEdge) bool {
	round := 0
	for _, edge := range edges {
		repr := strconv.FormatFloat(edge.Amount, 'f', -1, 64)
		if strings.Contains(repr, "000") && len(repr) > d.thresholds.RoundAmountMinLength {
			round++
		}
	}
	return float64(round) > float64(len(edges))*d.thresholds.RoundAmountShare
}

// countBackAndForthPairs pairs each forward edge with one unmatched reverse
// edge inside the configured window
func (d *PatternDetector) countBackAndForthPairs(edges []*entity.TransactionEdge) int {
	used := make(map[int]bool, len(edges))
	pairs := 0

	for i, edge := range edges {
		if used[i] {
			continue
		}
		for j, reverse := range edges {
			if i == j || used[j] {
				continue
			}
			if reverse.From != edge.To || reverse.To != edge.From {
				continue
			}
			gap := reverse.Timestamp.Sub(edge.Timestamp)
			if gap < 0 {
				gap = -gap
			}
			if gap <= d.thresholds.BackAndForthWindow {
				used[i] = true
				used[j] = true
				pairs++
				break
			}
		}
	}

	return pairs
}

// hasSimilarAmounts checks whether most amounts sit within tolerance of the
// median amount
func (d *PatternDetector) hasSimilarAmounts(edges []*entity.TransactionEdge) bool {
	amounts := make([]float64, len(edges))
	for i, edge := range edges {
		amounts[i] = edge.Amount
	}
	sort.Float64s(amounts)

	median := amounts[len(amounts)/2]
	similar := 0
	for _, amount := range amounts {
		diff := amount - median
		if diff < 0 {
			diff = -diff
		}
		if diff <= median*d.thresholds.SimilarAmountTolerance {
			similar++
		}
	}
	return float64(similar) > float64(len(edges))*d.thresholds.SimilarAmountShare
}

// countBusyPairs counts unordered address pairs trading more often than the
// configured pair threshold
func (d *PatternDetector) countBusyPairs(edges []*entity.TransactionEdge) int {
	pairCounts := make(map[string]int)
	for _, edge := range edges {
		pairCounts[pairKey(edge.From, edge.To)]++
	}

	busy := 0
	for _, count := range pairCounts {
		if count > d.thresholds.PairTradeCount {
			busy++
		}
	}
	return busy
}

// pairKey builds an order-insensitive key for an address pair
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "-" + b
}
