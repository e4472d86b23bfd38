package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pulsechain-cluster-analyzer/internal/domain/entity"
)

func edgeFixture(from, to string, amount float64, timestamp time.Time) *entity.TransactionEdge {
	return &entity.TransactionEdge{
		From:      from,
		To:        to,
		Amount:    amount,
		Timestamp: timestamp,
	}
}

func TestPatternDetector_DetectPatterns(t *testing.T) {
	detector := NewPatternDetector(DefaultThresholds())

	t.Run("no edges yields no patterns", func(t *testing.T) {
		patterns := detector.DetectPatterns([]*entity.TransactionEdge{})

		assert.NotNil(t, patterns)
		assert.Empty(t, patterns)
	})

	t.Run("labels carry pair counts", func(t *testing.T) {
		now := time.Now().UTC()
		edges := []*entity.TransactionEdge{
			edgeFixture("0xaaaa", "0xbbbb", 100, now),
			edgeFixture("0xbbbb", "0xaaaa", 700, now.Add(10*time.Minute)),
		}

		patterns := detector.DetectPatterns(edges)

		assert.Contains(t, patterns, "Rapid back-and-forth transactions (1 pairs)")
	})
}

func TestPatternDetector_RoundAmounts(t *testing.T) {
	detector := NewPatternDetector(DefaultThresholds())
	now := time.Now().UTC()

	t.Run("detected when round transfers dominate", func(t *testing.T) {
		edges := []*entity.TransactionEdge{
			edgeFixture("0xaaaa", "0xbbbb", 1000000, now),
			edgeFixture("0xaaaa", "0xbbbb", 5000000, now),
			edgeFixture("0xaaaa", "0xbbbb", 123.45, now),
			edgeFixture("0xaaaa", "0xbbbb", 678.9, now),
		}

		assert.True(t, detector.hasRoundAmounts(edges))
	})

	t.Run("short round amounts do not count", func(t *testing.T) {
		// "1000" contains zeros but is too short to be a deliberate round figure
		edges := []*entity.TransactionEdge{
			edgeFixture("0xaaaa", "0xbbbb", 1000, now),
			edgeFixture("0xaaaa", "0xbbbb", 1000, now),
		}

		assert.False(t, detector.hasRoundAmounts(edges))
	})

	t.Run("not detected below the share threshold", func(t *testing.T) {
		edges := []*entity.TransactionEdge{
			edgeFixture("0xaaaa", "0xbbbb", 1000000, now),
			edgeFixture("0xaaaa", "0xbbbb", 123.45, now),
			edgeFixture("0xaaaa", "0xbbbb", 678.9, now),
			edgeFixture("0xaaaa", "0xbbbb", 42.1, now),
		}

		assert.False(t, detector.hasRoundAmounts(edges))
	})
}

func TestPatternDetector_BackAndForth(t *testing.T) {
	detector := NewPatternDetector(DefaultThresholds())
	now := time.Now().UTC()

	t.Run("reverse edge inside the window forms a pair", func(t *testing.T) {
		edges := []*entity.TransactionEdge{
			edgeFixture("0xaaaa", "0xbbbb", 100, now),
			edgeFixture("0xbbbb", "0xaaaa", 90, now.Add(30*time.Minute)),
		}

		assert.Equal(t, 1, detector.countBackAndForthPairs(edges))
	})

	t.Run("reverse edge outside the window does not pair", func(t *testing.T) {
		edges := []*entity.TransactionEdge{
			edgeFixture("0xaaaa", "0xbbbb", 100, now),
			edgeFixture("0xbbbb", "0xaaaa", 90, now.Add(2*time.Hour)),
		}

		assert.Equal(t, 0, detector.countBackAndForthPairs(edges))
	})

	t.Run("each edge pairs at most once", func(t *testing.T) {
		edges := []*entity.TransactionEdge{
			edgeFixture("0xaaaa", "0xbbbb", 100, now),
			edgeFixture("0xbbbb", "0xaaaa", 90, now.Add(5*time.Minute)),
			edgeFixture("0xbbbb", "0xaaaa", 80, now.Add(10*time.Minute)),
		}

		assert.Equal(t, 1, detector.countBackAndForthPairs(edges))
	})

	t.Run("same-direction edges never pair", func(t *testing.T) {
		edges := []*entity.TransactionEdge{
			edgeFixture("0xaaaa", "0xbbbb", 100, now),
			edgeFixture("0xaaaa", "0xbbbb", 90, now.Add(5*time.Minute)),
		}

		assert.Equal(t, 0, detector.countBackAndForthPairs(edges))
	})
}

func TestPatternDetector_SimilarAmounts(t *testing.T) {
	detector := NewPatternDetector(DefaultThresholds())
	now := time.Now().UTC()

	t.Run("detected when most amounts sit near the median", func(t *testing.T) {
		edges := []*entity.TransactionEdge{
			edgeFixture("0xaaaa", "0xbbbb", 99, now),
			edgeFixture("0xaaaa", "0xbbbb", 100, now),
			edgeFixture("0xaaaa", "0xbbbb", 101, now),
			edgeFixture("0xaaaa", "0xbbbb", 500, now),
		}

		assert.True(t, detector.hasSimilarAmounts(edges))
	})

	t.Run("not detected for spread-out amounts", func(t *testing.T) {
		edges := []*entity.TransactionEdge{
			edgeFixture("0xaaaa", "0xbbbb", 10, now),
			edgeFixture("0xaaaa", "0xbbbb", 250, now),
			edgeFixture("0xaaaa", "0xbbbb", 900, now),
			edgeFixture("0xaaaa", "0xbbbb", 4000, now),
		}

		assert.False(t, detector.hasSimilarAmounts(edges))
	})
}

func TestPatternDetector_BusyPairs(t *testing.T) {
	detector := NewPatternDetector(DefaultThresholds())
	now := time.Now().UTC()

	t.Run("pair direction is ignored", func(t *testing.T) {
		edges := make([]*entity.TransactionEdge, 0, 6)
		for i := 0; i < 4; i++ {
			edges = append(edges, edgeFixture("0xaaaa", "0xbbbb", float64(i+1), now))
		}
		for i := 0; i < 2; i++ {
			edges = append(edges, edgeFixture("0xbbbb", "0xaaaa", float64(i+10), now))
		}

		assert.Equal(t, 1, detector.countBusyPairs(edges))
	})

	t.Run("pairs at the threshold are not busy", func(t *testing.T) {
		edges := make([]*entity.TransactionEdge, 0, 5)
		for i := 0; i < 5; i++ {
			edges = append(edges, edgeFixture("0xaaaa", "0xbbbb", float64(i+1), now))
		}

		assert.Equal(t, 0, detector.countBusyPairs(edges))
	})
}
