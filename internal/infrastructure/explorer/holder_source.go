package explorer

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pulsechain-cluster-analyzer/internal/domain/entity"
	"pulsechain-cluster-analyzer/internal/domain/service"
	"pulsechain-cluster-analyzer/internal/infrastructure/logger"
)

// HolderAdapter implements service.HolderSource against the explorer API
type HolderAdapter struct {
	client *Client
	logger *logger.Logger
}

// NewHolderAdapter creates a new holder source adapter
func NewHolderAdapter(client *Client, logger *logger.Logger) service.HolderSource {
	return &HolderAdapter{
		client: client,
		logger: logger.WithComponent("holder-source"),
	}
}

// GetTopHolders fetches one page of top holders and derives each holder's
// ownership percentage relative to the fetched page's summed balances. Any
// failure degrades to an empty result.
func (a *HolderAdapter) GetTopHolders(ctx context.Context, tokenAddress string, limit int) []*entity.TokenHolder {
	items, err := a.client.TokenHolders(ctx, tokenAddress, limit)
	if err != nil {
		a.logger.Warn("Failed to fetch token holders",
			zap.String("token", tokenAddress),
			zap.Error(err))
		return []*entity.TokenHolder{}
	}

	if len(items) == 0 {
		a.logger.Info("Holders endpoint returned no items", zap.String("token", tokenAddress))
		return []*entity.TokenHolder{}
	}

	// Raw balances overflow float64, so the page total is summed with
	// arbitrary-precision decimals.
	total := decimal.Zero
	balances := make([]decimal.Decimal, len(items))
	for i, item := range items {
		balance, err := decimal.NewFromString(item.Value)
		if err != nil {
			a.logger.Warn("Skipping holder with unparseable balance",
				zap.String("address", item.Address.Hash),
				zap.String("value", item.Value))
			balance = decimal.Zero
		}
		balances[i] = balance
		total = total.Add(balance)
	}

	hundred := decimal.NewFromInt(100)
	holders := make([]*entity.TokenHolder, 0, len(items))
	for i, item := range items {
		percentage := 0.0
		if !total.IsZero() {
			percentage = balances[i].Div(total).Mul(hundred).InexactFloat64()
		}
		holders = append(holders, &entity.TokenHolder{
			Address:    strings.ToLower(item.Address.Hash),
			Balance:    item.Value,
			Percentage: percentage,
		})
	}

	a.logger.Info("Fetched top holders",
		zap.String("token", tokenAddress),
		zap.Int("count", len(holders)))

	return holders
}
