package service

import (
	"strconv"
	"strings"

	"pulsechain-cluster-analyzer/internal/domain/entity"
)

// GraphBuilder builds the directed transfer multigraph over the tracked
// top-holder set
type GraphBuilder struct{}

// NewGraphBuilder creates a new graph builder
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{}
}

// Build creates one TransactionNode per holder and records an edge for every
// transfer whose sender and receiver are both tracked holders. Edges are
// always attributed to the sender's node, regardless of which holder's fetched
// transfer list surfaced them, and the same on-chain event discovered from
// both endpoints is recorded only once.
func (b *GraphBuilder) Build(
	holders []*entity.TokenHolder,
	transfersByHolder map[string][]*entity.TokenTransfer,
) map[string]*entity.TransactionNode {
	graph := make(map[string]*entity.TransactionNode, len(holders))
	tracked := make(map[string]bool, len(holders))

	for _, holder := range holders {
		balance, _ := strconv.ParseFloat(holder.Balance, 64)
		graph[holder.Address] = entity.NewTransactionNode(holder, balance)
		tracked[holder.Address] = true
	}

	seen := make(map[string]bool)

	for _, transfers := range transfersByHolder {
		for _, transfer := range transfers {
			fromAddr := strings.ToLower(transfer.From)
			toAddr := strings.ToLower(transfer.To)

			// Only edges between tracked holders, self-transfers excluded
			if !tracked[fromAddr] || !tracked[toAddr] || fromAddr == toAddr {
				continue
			}

			key := strings.ToLower(transfer.TxHash) + "|" + fromAddr + "|" + toAddr
			if seen[key] {
				continue
			}
			seen[key] = true

			amount, _ := strconv.ParseFloat(transfer.Amount, 64)
			edge := &entity.TransactionEdge{
				From:         fromAddr,
				To:           toAddr,
				Amount:       amount,
				Timestamp:    transfer.Timestamp,
				TokenAddress: transfer.TokenAddress,
				TxHash:       transfer.TxHash,
				BlockNumber:  transfer.BlockNumber,
			}

			fromNode := graph[fromAddr]
			fromNode.Connections[toAddr] = append(fromNode.Connections[toAddr], edge)
			fromNode.TotalVolume += amount
			fromNode.TransactionCount++
		}
	}

	return graph
}
