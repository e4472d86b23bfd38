package entity

import (
	"time"
)

// TransactionEdge represents one token transfer between two tracked holders.
// The graph is a multigraph: the same ordered pair can carry one edge per
// on-chain transfer event.
type TransactionEdge struct {
	From         string    `json:"from"`
	To           string    `json:"to"`
	Amount       float64   `json:"amount"`
	Timestamp    time.Time `json:"timestamp"`
	TokenAddress string    `json:"token_address"`
	TxHash       string    `json:"tx_hash"`
	BlockNumber  int64     `json:"block_number"`
}

// TransactionNode represents one tracked top holder in the transaction graph.
// Connections is the outbound adjacency list keyed by counterparty address;
// TotalVolume and TransactionCount accumulate over outbound edges only.
type TransactionNode struct {
	Address          string                        `json:"address"`
	Balance          float64                       `json:"balance"`
	Percentage       float64                       `json:"percentage"`
	Connections      map[string][]*TransactionEdge `json:"connections"`
	TotalVolume      float64                       `json:"total_volume"`
	TransactionCount int                           `json:"transaction_count"`
	RiskScore        float64                       `json:"risk_score"`
}

// NewTransactionNode creates a graph node for a tracked holder
func NewTransactionNode(holder *TokenHolder, balance float64) *TransactionNode {
	return &TransactionNode{
		Address:     holder.Address,
		Balance:     balance,
		Percentage:  holder.Percentage,
		Connections: make(map[string][]*TransactionEdge),
	}
}
