package entity

import (
	"time"
)

// TokenTransfer represents a single ERC-20 transfer event returned by the explorer
type TokenTransfer struct {
	From         string    `json:"from"`
	To           string    `json:"to"`
	Amount       string    `json:"amount"`
	TokenAddress string    `json:"token_address"`
	TxHash       string    `json:"tx_hash"`
	BlockNumber  int64     `json:"block_number"`
	Timestamp    time.Time `json:"timestamp"`
}
