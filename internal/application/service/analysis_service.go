package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pulsechain-cluster-analyzer/internal/domain/entity"
	"pulsechain-cluster-analyzer/internal/domain/repository"
	"pulsechain-cluster-analyzer/internal/domain/service"
	"pulsechain-cluster-analyzer/internal/infrastructure/config"
	"pulsechain-cluster-analyzer/internal/infrastructure/logger"
)

// ErrNoTokenHolders is the analysis' only fatal error: without a holder set
// there is nothing to cluster.
var ErrNoTokenHolders = errors.New("no token holders found or invalid token address")

// ClusterAnalysisApplicationService implements ClusterAnalysisService
type ClusterAnalysisApplicationService struct {
	holderSource   service.HolderSource
	transferSource service.TransferSource
	graphBuilder   *service.GraphBuilder
	clusterFinder  *service.ClusterFinder
	clusterRepo    repository.ClusterRepository
	publisher      service.AnalysisPublisher
	analysisCfg    config.AnalysisConfig
	logger         *logger.Logger
}

// NewClusterAnalysisApplicationService creates a new cluster analysis
// application service. clusterRepo and publisher may be nil when the
// corresponding sinks are disabled.
func NewClusterAnalysisApplicationService(
	holderSource service.HolderSource,
	transferSource service.TransferSource,
	graphBuilder *service.GraphBuilder,
	clusterFinder *service.ClusterFinder,
	clusterRepo repository.ClusterRepository,
	publisher service.AnalysisPublisher,
	cfg *config.Config,
	logger *logger.Logger,
) service.ClusterAnalysisService {
	return &ClusterAnalysisApplicationService{
		holderSource:   holderSource,
		transferSource: transferSource,
		graphBuilder:   graphBuilder,
		clusterFinder:  clusterFinder,
		clusterRepo:    clusterRepo,
		publisher:      publisher,
		analysisCfg:    cfg.Analysis,
		logger:         logger.WithComponent("cluster-analysis-service"),
	}
}

// AnalyzeWalletClusters runs the full clustering pipeline for one token
func (s *ClusterAnalysisApplicationService) AnalyzeWalletClusters(ctx context.Context, options *entity.ClusteringOptions) (*entity.ClusterAnalysis, error) {
	topHolders := options.TopHoldersCount
	if topHolders <= 0 {
		topHolders = s.analysisCfg.DefaultTopHolders
	}
	daysBack := options.DaysBack
	if daysBack <= 0 {
		daysBack = s.analysisCfg.DefaultDaysBack
	}

	s.logger.Info("Starting wallet cluster analysis",
		zap.String("token", options.TokenAddress),
		zap.Int("top_holders", topHolders),
		zap.Int("days_back", daysBack))

	holders := s.holderSource.GetTopHolders(ctx, options.TokenAddress, topHolders)
	if len(holders) == 0 {
		return nil, ErrNoTokenHolders
	}

	transfersByHolder := s.fetchTransfers(ctx, holders, options.TokenAddress, daysBack)

	graph := s.graphBuilder.Build(holders, transfersByHolder)
	clusters := s.clusterFinder.FindClusters(graph)

	// Highest-risk clusters first; ID ties keep output deterministic
	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].RiskScore != clusters[j].RiskScore {
			return clusters[i].RiskScore > clusters[j].RiskScore
		}
		return clusters[i].ID < clusters[j].ID
	})

	totalConnections := 0
	highRisk := 0
	for _, cluster := range clusters {
		totalConnections += cluster.TransactionCount
		if cluster.RiskScore > s.analysisCfg.Thresholds.HighRiskScore {
			highRisk++
		}
	}

	analysis := &entity.ClusterAnalysis{
		AnalysisID:        uuid.NewString(),
		TokenAddress:      options.TokenAddress,
		Clusters:          clusters,
		TotalWallets:      len(holders),
		TotalConnections:  totalConnections,
		HighRiskClusters:  highRisk,
		AnalysisTimestamp: time.Now().UTC(),
	}

	s.logger.Info("Completed wallet cluster analysis",
		zap.String("analysis_id", analysis.AnalysisID),
		zap.Int("wallets", analysis.TotalWallets),
		zap.Int("clusters", len(clusters)),
		zap.Int("high_risk_clusters", highRisk))

	s.deliverResults(ctx, analysis)

	return analysis, nil
}

// fetchTransfers fetches each holder's transfers in fixed-size batches,
// concurrent within a batch and sequential across batches to bound pressure
// on the explorer API
func (s *ClusterAnalysisApplicationService) fetchTransfers(
	ctx context.Context,
	holders []*entity.TokenHolder,
	tokenAddress string,
	daysBack int,
) map[string][]*entity.TokenTransfer {
	batchSize := s.analysisCfg.FetchBatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	transfersByHolder := make(map[string][]*entity.TokenTransfer, len(holders))
	var mu sync.Mutex

	for start := 0; start < len(holders); start += batchSize {
		end := start + batchSize
		if end > len(holders) {
			end = len(holders)
		}

		var wg sync.WaitGroup
		for _, holder := range holders[start:end] {
			wg.Add(1)
			go func(address string) {
				defer wg.Done()
				transfers := s.transferSource.GetAddressTransfers(ctx, address, tokenAddress, daysBack)
				mu.Lock()
				transfersByHolder[address] = transfers
				mu.Unlock()
			}(holder.Address)
		}
		wg.Wait()
	}

	return transfersByHolder
}

// deliverResults hands the analysis to the optional sinks. Sink failures are
// logged, never surfaced: the in-memory result is the contract.
func (s *ClusterAnalysisApplicationService) deliverResults(ctx context.Context, analysis *entity.ClusterAnalysis) {
	if s.clusterRepo != nil {
		if err := s.clusterRepo.SaveAnalysis(ctx, analysis); err != nil {
			s.logger.Error("Failed to persist cluster analysis",
				zap.String("analysis_id", analysis.AnalysisID),
				zap.Error(err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAnalysis(ctx, analysis); err != nil {
			s.logger.Error("Failed to publish cluster analysis",
				zap.String("analysis_id", analysis.AnalysisID),
				zap.Error(err))
		}
	}
}
