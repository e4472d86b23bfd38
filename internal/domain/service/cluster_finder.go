package service

import (
	"sort"
	"strings"

	"pulsechain-cluster-analyzer/internal/domain/entity"
)

// ClusterFinder discovers connected components in the transaction graph and
// turns each multi-address component into a scored WalletCluster
type ClusterFinder struct {
	patternDetector *PatternDetector
	riskAssessor    *RiskAssessor
}

// NewClusterFinder creates a new cluster finder
func NewClusterFinder(patternDetector *PatternDetector, riskAssessor *RiskAssessor) *ClusterFinder {
	return &ClusterFinder{
		patternDetector: patternDetector,
		riskAssessor:    riskAssessor,
	}
}

// FindClusters runs connected-component discovery over the undirected closure
// of the graph's adjacency. Components with fewer than two addresses are
// discarded. Output order is deterministic for a given graph.
func (f *ClusterFinder) FindClusters(graph map[string]*entity.TransactionNode) []*entity.WalletCluster {
	// Edges are attributed to the sender only, so a one-directional edge must
	// still link both endpoints into the same component.
	neighbors := make(map[string][]string, len(graph))
	neighborSet := make(map[string]map[string]bool, len(graph))
	link := func(a, b string) {
		if neighborSet[a] == nil {
			neighborSet[a] = make(map[string]bool)
		}
		if !neighborSet[a][b] {
			neighborSet[a][b] = true
			neighbors[a] = append(neighbors[a], b)
		}
	}
	for address, node := range graph {
		for counterparty := range node.Connections {
			link(address, counterparty)
			link(counterparty, address)
		}
	}

	roots := make([]string, 0, len(graph))
	for address := range graph {
		roots = append(roots, address)
	}
	sort.Strings(roots)

	processed := make(map[string]bool, len(graph))
	var clusters []*entity.WalletCluster

	for _, root := range roots {
		if processed[root] {
			continue
		}

		// Iterative DFS with an explicit stack
		stack := []string{root}
		var componentAddresses []string

		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if processed[current] {
				continue
			}
			processed[current] = true
			componentAddresses = append(componentAddresses, current)

			for _, next := range neighbors[current] {
				if !processed[next] {
					stack = append(stack, next)
				}
			}
		}

		if len(componentAddresses) < 2 {
			continue
		}

		clusters = append(clusters, f.analyzeCluster(componentAddresses, graph))
	}

	return clusters
}

// analyzeCluster assembles and scores a WalletCluster from one component
func (f *ClusterFinder) analyzeCluster(addresses []string, graph map[string]*entity.TransactionNode) *entity.WalletCluster {
	sort.Strings(addresses)

	var edges []*entity.TransactionEdge
	nodes := make([]*entity.TransactionNode, 0, len(addresses))
	for _, address := range addresses {
		node := graph[address]
		nodes = append(nodes, node)
		// Each edge lives only under its sender's node, so collecting
		// outbound adjacency covers the component exactly once.
		for _, outbound := range node.Connections {
			edges = append(edges, outbound...)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if !edges[i].Timestamp.Equal(edges[j].Timestamp) {
			return edges[i].Timestamp.Before(edges[j].Timestamp)
		}
		return edges[i].TxHash < edges[j].TxHash
	})

	totalVolume := 0.0
	for _, edge := range edges {
		totalVolume += edge.Amount
	}

	patterns := f.patternDetector.DetectPatterns(edges)
	indicators := f.riskAssessor.AssessRiskIndicators(edges, addresses)
	score := f.riskAssessor.ScoreCluster(patterns, indicators, totalVolume, len(addresses))

	return &entity.WalletCluster{
		ID:                 clusterID(addresses),
		Addresses:          addresses,
		ConnectionStrength: totalVolume,
		TotalVolume:        totalVolume,
		TransactionCount:   len(edges),
		CommonPatterns:     patterns,
		RiskIndicators:     indicators,
		RiskScore:          score,
		Nodes:              nodes,
		Edges:              edges,
	}
}

// clusterID derives a human-scannable fingerprint from the first three sorted
// member addresses. Not guaranteed globally unique.
func clusterID(sortedAddresses []string) string {
	parts := make([]string, 0, 3)
	for i, address := range sortedAddresses {
		if i == 3 {
			break
		}
		if len(address) >= 6 {
			parts = append(parts, address[2:6])
		} else {
			parts = append(parts, address)
		}
	}
	return strings.Join(parts, "-")
}
