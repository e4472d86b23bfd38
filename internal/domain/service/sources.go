package service

import (
	"context"

	"pulsechain-cluster-analyzer/internal/domain/entity"
)

// HolderSource fetches the top holders of a token from the explorer.
// Failures degrade to an empty result; a holder page is never a fatal error
// at this level.
type HolderSource interface {
	// GetTopHolders returns up to limit holders with their page-relative
	// ownership percentage
	GetTopHolders(ctx context.Context, tokenAddress string, limit int) []*entity.TokenHolder
}

// TransferSource fetches a holder's token transfers restricted to one token
// and a trailing time window. Failures degrade to an empty result so a single
// holder cannot abort a whole analysis.
type TransferSource interface {
	// GetAddressTransfers returns transfers where address is sender or
	// receiver, newer than now minus daysBack
	GetAddressTransfers(ctx context.Context, address, tokenAddress string, daysBack int) []*entity.TokenTransfer
}
