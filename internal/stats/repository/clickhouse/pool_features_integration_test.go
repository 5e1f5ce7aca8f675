package clickhouse

import (
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

func poolFeature(height uint64, date string, poolID uint32, name string, feature model.Feature, count uint32) model.PoolFeature {
	return model.PoolFeature{
		Height:      height,
		Date:        date,
		PoolID:      poolID,
		PoolName:    name,
		Feature:     feature,
		Occurrences: count,
	}
}

func (s *RepositorySuite) TestPoolFeatureFirstSeen() {
	s.expectObserved()

	rows := []model.PoolFeature{
		poolFeature(840000, "2024-04-20", 4, "Foundry", model.FeatureP2ASpend, 2),
		poolFeature(840005, "2024-04-21", 4, "Foundry", model.FeatureP2ASpend, 3),
		poolFeature(840003, "2024-04-20", 7, "AntPool", model.FeatureP2ASpend, 1),
		poolFeature(840003, "2024-04-20", 7, "AntPool", model.FeatureTxV3, 5),
	}
	s.Require().NoError(s.repo.InsertPoolFeatures(s.testCtx, rows))

	got, err := s.repo.PoolFeatureFirstSeen(s.testCtx)
	s.Require().NoError(err)

	s.Equal([]model.PoolFeatureFirstSeen{
		{PoolID: 4, PoolName: "Foundry", Feature: model.FeatureP2ASpend, FirstHeight: 840000, FirstDate: "2024-04-20", Occurrences: 5},
		{PoolID: 7, PoolName: "AntPool", Feature: model.FeatureP2ASpend, FirstHeight: 840003, FirstDate: "2024-04-20", Occurrences: 1},
		{PoolID: 7, PoolName: "AntPool", Feature: model.FeatureTxV3, FirstHeight: 840003, FirstDate: "2024-04-20", Occurrences: 5},
	}, got)
}

func (s *RepositorySuite) TestPoolFeatureFirstSeen_RewriteStaysIdempotent() {
	s.expectObserved()

	original := []model.PoolFeature{
		poolFeature(840000, "2024-04-20", 4, "Foundry", model.FeatureTxV3, 2),
	}
	s.Require().NoError(s.repo.InsertPoolFeatures(s.testCtx, original))

	// Rewriting a height deletes its rows first; the cumulative count must
	// reflect only the rewritten rows.
	s.Require().NoError(s.repo.DeletePoolFeatures(s.testCtx, 840000))
	rewritten := []model.PoolFeature{
		poolFeature(840000, "2024-04-20", 4, "Foundry", model.FeatureTxV3, 7),
	}
	s.Require().NoError(s.repo.InsertPoolFeatures(s.testCtx, rewritten))

	got, err := s.repo.PoolFeatureFirstSeen(s.testCtx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(uint64(7), got[0].Occurrences)
	s.Equal(uint64(840000), got[0].FirstHeight)
}

func (s *RepositorySuite) TestDeletePoolFeatures_RemovesOnlyHeight() {
	s.expectObserved()

	rows := []model.PoolFeature{
		poolFeature(1, "2024-04-20", 4, "Foundry", model.FeatureP2ACreate, 1),
		poolFeature(2, "2024-04-20", 4, "Foundry", model.FeatureP2ACreate, 1),
	}
	s.Require().NoError(s.repo.InsertPoolFeatures(s.testCtx, rows))

	s.Require().NoError(s.repo.DeletePoolFeatures(s.testCtx, 1))

	got, err := s.repo.PoolFeatureFirstSeen(s.testCtx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(uint64(2), got[0].FirstHeight)
	s.Equal(uint64(1), s.countRows("pool_feature_stats"))
}
