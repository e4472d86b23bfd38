package explorer

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"pulsechain-cluster-analyzer/internal/domain/entity"
	"pulsechain-cluster-analyzer/internal/domain/service"
	"pulsechain-cluster-analyzer/internal/infrastructure/config"
	"pulsechain-cluster-analyzer/internal/infrastructure/logger"
)

// TransferAdapter implements service.TransferSource against the explorer API
type TransferAdapter struct {
	client    *Client
	pageLimit int
	logger    *logger.Logger
}

// NewTransferAdapter creates a new transfer source adapter
func NewTransferAdapter(client *Client, cfg *config.ExplorerConfig, logger *logger.Logger) service.TransferSource {
	return &TransferAdapter{
		client:    client,
		pageLimit: cfg.TransferPageLimit,
		logger:    logger.WithComponent("transfer-source"),
	}
}

// GetAddressTransfers fetches up to one page of the address's ERC-20
// transfers and re-filters them client-side to the target token and the
// trailing window, in case the server-side token filter is ignored. Any
// failure degrades to an empty result so one holder cannot abort an analysis.
// Wallets with more than one page of activity in the window are undercounted.
func (a *TransferAdapter) GetAddressTransfers(ctx context.Context, address, tokenAddress string, daysBack int) []*entity.TokenTransfer {
	cutoff := time.Now().AddDate(0, 0, -daysBack)

	items, err := a.client.AddressTokenTransfers(ctx, address, tokenAddress, a.pageLimit)
	if err != nil {
		a.logger.Warn("Failed to fetch address transfers",
			zap.String("address", address),
			zap.String("token", tokenAddress),
			zap.Error(err))
		return []*entity.TokenTransfer{}
	}

	wantToken := strings.ToLower(tokenAddress)
	transfers := make([]*entity.TokenTransfer, 0, len(items))
	for _, item := range items {
		timestamp, err := time.Parse(time.RFC3339, item.Timestamp)
		if err != nil {
			a.logger.Debug("Skipping transfer with unparseable timestamp",
				zap.String("tx_hash", item.TransactionHash),
				zap.String("timestamp", item.Timestamp))
			continue
		}
		if timestamp.Before(cutoff) {
			continue
		}
		if strings.ToLower(item.Token.Address) != wantToken {
			continue
		}

		transfers = append(transfers, &entity.TokenTransfer{
			From:         strings.ToLower(item.From.Hash),
			To:           strings.ToLower(item.To.Hash),
			Amount:       item.Total.Value,
			TokenAddress: strings.ToLower(item.Token.Address),
			TxHash:       item.TransactionHash,
			BlockNumber:  item.BlockNumber,
			Timestamp:    timestamp,
		})
	}

	a.logger.Debug("Fetched address transfers",
		zap.String("address", address),
		zap.Int("fetched", len(items)),
		zap.Int("in_window", len(transfers)))

	return transfers
}
