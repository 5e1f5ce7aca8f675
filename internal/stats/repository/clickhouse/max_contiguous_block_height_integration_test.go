package clickhouse

import (
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

func (s *RepositorySuite) TestMaxContiguousBlockHeight() {
	s.expectObserved()

	rows := []model.BlockStats{
		newBlockStats(0, "a", "2024-04-20"),
		newBlockStats(1, "b", "2024-04-20"),
		newBlockStats(2, "c", "2024-04-20"),
		newBlockStats(4, "d", "2024-04-20"),
	}
	s.Require().NoError(s.repo.InsertBlockStats(s.testCtx, rows))

	height, err := s.repo.MaxContiguousBlockHeight(s.testCtx)
	s.Require().NoError(err)
	s.Equal(uint64(2), height)

	max, err := s.repo.MaxBlockHeight(s.testCtx)
	s.Require().NoError(err)
	s.Equal(uint64(4), max)
}

func (s *RepositorySuite) TestMaxContiguousBlockHeight_EmptyStore() {
	s.expectObserved()

	_, err := s.repo.MaxContiguousBlockHeight(s.testCtx)
	s.Require().ErrorIs(err, ErrNotFound)

	max, err := s.repo.MaxBlockHeight(s.testCtx)
	s.Require().NoError(err)
	s.Equal(uint64(0), max)
}

func (s *RepositorySuite) TestMaxContiguousBlockHeight_DuplicateRowsCountOnce() {
	s.expectObserved()

	rows := []model.BlockStats{
		newBlockStats(0, "a", "2024-04-20"),
		newBlockStats(1, "b", "2024-04-20"),
	}
	s.Require().NoError(s.repo.InsertBlockStats(s.testCtx, rows))

	// A resync rewrite leaves a second physical row for height 1 until the
	// replacing merge runs; contiguity must not be fooled by it.
	s.seedBlockStats([]model.BlockStats{newBlockStats(1, "e", "2024-04-20")}, model.StatsVersion, time.Now().UTC().Add(time.Second))

	height, err := s.repo.MaxContiguousBlockHeight(s.testCtx)
	s.Require().NoError(err)
	s.Equal(uint64(1), height)
}

func (s *RepositorySuite) TestStaleBlockHeights() {
	s.expectObserved()

	now := time.Now().UTC()
	stale := []model.BlockStats{
		newBlockStats(0, "a", "2024-04-20"),
		newBlockStats(1, "b", "2024-04-20"),
		newBlockStats(3, "c", "2024-04-20"),
	}
	s.seedBlockStats(stale, model.StatsVersion-1, now)

	current := []model.BlockStats{newBlockStats(2, "d", "2024-04-20")}
	s.seedBlockStats(current, model.StatsVersion, now)

	heights, err := s.repo.StaleBlockHeights(s.testCtx, model.StatsVersion, 2)
	s.Require().NoError(err)
	s.Equal([]uint64{0, 1}, heights)

	heights, err = s.repo.StaleBlockHeights(s.testCtx, model.StatsVersion, 10)
	s.Require().NoError(err)
	s.Equal([]uint64{0, 1, 3}, heights)
}

func (s *RepositorySuite) TestStaleBlockHeights_RewriteClears() {
	s.expectObserved()

	s.seedBlockStats([]model.BlockStats{newBlockStats(7, "a", "2024-04-20")}, model.StatsVersion-1, time.Now().UTC())

	heights, err := s.repo.StaleBlockHeights(s.testCtx, model.StatsVersion, 10)
	s.Require().NoError(err)
	s.Equal([]uint64{7}, heights)

	// Rewriting through the normal path stamps the current version: the
	// height must no longer show up as stale even before any merge.
	s.Require().NoError(s.repo.InsertBlockStats(s.testCtx, []model.BlockStats{newBlockStats(7, "b", "2024-04-20")}))

	heights, err = s.repo.StaleBlockHeights(s.testCtx, model.StatsVersion, 10)
	s.Require().NoError(err)
	s.Empty(heights)
}
