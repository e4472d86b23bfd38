package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsechain-cluster-analyzer/internal/domain/entity"
)

func newClusterFinderFixture() *ClusterFinder {
	thresholds := DefaultThresholds()
	return NewClusterFinder(NewPatternDetector(thresholds), NewRiskAssessor(thresholds))
}

func TestClusterFinder_FindClusters(t *testing.T) {
	builder := NewGraphBuilder()
	finder := newClusterFinderFixture()
	now := time.Now().UTC()

	t.Run("no transfers yields no clusters", func(t *testing.T) {
		graph := builder.Build([]*entity.TokenHolder{
			holderFixture("0xaaaa", "1000"),
			holderFixture("0xbbbb", "1000"),
		}, nil)

		assert.Empty(t, finder.FindClusters(graph))
	})

	t.Run("one transfer links both endpoints into one cluster", func(t *testing.T) {
		holders := []*entity.TokenHolder{
			holderFixture("0xaaaa", "1000"),
			holderFixture("0xbbbb", "1000"),
			holderFixture("0xcccc", "1000"),
		}
		transfers := map[string][]*entity.TokenTransfer{
			"0xaaaa": {transferFixture("0xaaaa", "0xbbbb", "500", "0xh1", now)},
		}

		clusters := finder.FindClusters(builder.Build(holders, transfers))

		require.Len(t, clusters, 1)
		cluster := clusters[0]
		assert.Equal(t, "aaaa-bbbb", cluster.ID)
		assert.Equal(t, []string{"0xaaaa", "0xbbbb"}, cluster.Addresses)
		assert.Equal(t, 1, cluster.TransactionCount)
		assert.Equal(t, 500.0, cluster.TotalVolume)
		assert.Equal(t, 500.0, cluster.ConnectionStrength)
		// One similar-amount pattern plus the trivial two-address hub
		assert.Equal(t, 50.0, cluster.RiskScore)
	})

	t.Run("disjoint components become separate clusters", func(t *testing.T) {
		holders := []*entity.TokenHolder{
			holderFixture("0xaaaa", "1000"),
			holderFixture("0xbbbb", "1000"),
			holderFixture("0xcccc", "1000"),
			holderFixture("0xdddd", "1000"),
			holderFixture("0xeeee", "1000"),
		}
		transfers := map[string][]*entity.TokenTransfer{
			"0xaaaa": {transferFixture("0xaaaa", "0xbbbb", "100", "0xh1", now)},
			"0xcccc": {transferFixture("0xcccc", "0xdddd", "900", "0xh2", now)},
		}

		clusters := finder.FindClusters(builder.Build(holders, transfers))

		require.Len(t, clusters, 2)
		assert.Equal(t, []string{"0xaaaa", "0xbbbb"}, clusters[0].Addresses)
		assert.Equal(t, []string{"0xcccc", "0xdddd"}, clusters[1].Addresses)
	})

	t.Run("transitive transfers merge into one component", func(t *testing.T) {
		holders := []*entity.TokenHolder{
			holderFixture("0xaaaa", "1000"),
			holderFixture("0xbbbb", "1000"),
			holderFixture("0xcccc", "1000"),
		}
		transfers := map[string][]*entity.TokenTransfer{
			"0xaaaa": {transferFixture("0xaaaa", "0xbbbb", "100", "0xh1", now)},
			"0xcccc": {transferFixture("0xcccc", "0xbbbb", "200", "0xh2", now)},
		}

		clusters := finder.FindClusters(builder.Build(holders, transfers))

		require.Len(t, clusters, 1)
		assert.Equal(t, []string{"0xaaaa", "0xbbbb", "0xcccc"}, clusters[0].Addresses)
		assert.Equal(t, "aaaa-bbbb-cccc", clusters[0].ID)
	})

	t.Run("edges are ordered by timestamp", func(t *testing.T) {
		holders := []*entity.TokenHolder{
			holderFixture("0xaaaa", "1000"),
			holderFixture("0xbbbb", "1000"),
		}
		transfers := map[string][]*entity.TokenTransfer{
			"0xaaaa": {
				transferFixture("0xaaaa", "0xbbbb", "300", "0xh3", now.Add(2*time.Hour)),
				transferFixture("0xaaaa", "0xbbbb", "100", "0xh1", now),
				transferFixture("0xbbbb", "0xaaaa", "200", "0xh2", now.Add(time.Hour)),
			},
		}

		clusters := finder.FindClusters(builder.Build(holders, transfers))

		require.Len(t, clusters, 1)
		require.Len(t, clusters[0].Edges, 3)
		assert.Equal(t, "0xh1", clusters[0].Edges[0].TxHash)
		assert.Equal(t, "0xh2", clusters[0].Edges[1].TxHash)
		assert.Equal(t, "0xh3", clusters[0].Edges[2].TxHash)
	})

	t.Run("output is stable across runs", func(t *testing.T) {
		holders := []*entity.TokenHolder{
			holderFixture("0xaaaa", "1000"),
			holderFixture("0xbbbb", "1000"),
			holderFixture("0xcccc", "1000"),
			holderFixture("0xdddd", "1000"),
		}
		transfers := map[string][]*entity.TokenTransfer{
			"0xbbbb": {transferFixture("0xbbbb", "0xaaaa", "100", "0xh1", now)},
			"0xdddd": {transferFixture("0xdddd", "0xcccc", "200", "0xh2", now)},
		}

		first := finder.FindClusters(builder.Build(holders, transfers))
		second := finder.FindClusters(builder.Build(holders, transfers))

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
			assert.Equal(t, first[i].Addresses, second[i].Addresses)
			assert.Equal(t, first[i].RiskScore, second[i].RiskScore)
		}
	})
}
