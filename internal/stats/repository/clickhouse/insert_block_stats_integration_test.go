package clickhouse

import (
	"errors"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

func (s *RepositorySuite) TestInsertBlockStats_RoundTrip() {
	s.expectObserved()

	stats := newBlockStats(840000, "a", "2024-04-20")
	stats.OutputsP2A = 3
	stats.InputsP2TRKeyPath = 700
	stats.SigsECDSALen71 = 1200
	stats.InputsSpendAge0 = 4
	stats.CoinbaseBIP54 = true
	stats.DustCreated = 2
	stats.TxVersion3 = 9

	s.Require().NoError(s.repo.InsertBlockStats(s.testCtx, []model.BlockStats{stats}))

	got, err := s.repo.BlockStats(s.testCtx, stats.Height)
	s.Require().NoError(err)

	// The write stamps the version; everything else round-trips as written.
	stats.StatsVersion = model.StatsVersion
	s.Equal(stats, got)
}

func (s *RepositorySuite) TestInsertBlockStats_NotFound() {
	s.expectObserved()

	_, err := s.repo.BlockStats(s.testCtx, 1)
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *RepositorySuite) TestInsertBlockStats_RewriteReplaces() {
	s.expectObserved()

	first := newBlockStats(840001, "b", "2024-04-20")
	first.Transactions = 10
	s.Require().NoError(s.repo.InsertBlockStats(s.testCtx, []model.BlockStats{first}))

	second := first
	second.Transactions = 99
	s.Require().NoError(s.repo.InsertBlockStats(s.testCtx, []model.BlockStats{second}))

	got, err := s.repo.BlockStats(s.testCtx, first.Height)
	s.Require().NoError(err)
	s.Equal(uint32(99), got.Transactions)
}

func (s *RepositorySuite) TestInsertBlockStats_KeepsNewerStoredVersion() {
	s.expectObserved()

	stored := newBlockStats(840002, "c", "2024-04-20")
	stored.Transactions = 42
	s.seedBlockStats([]model.BlockStats{stored}, model.StatsVersion+1, time.Now().UTC())

	write := stored
	write.Transactions = 1
	s.Require().NoError(s.repo.InsertBlockStats(s.testCtx, []model.BlockStats{write}))

	got, err := s.repo.BlockStats(s.testCtx, stored.Height)
	s.Require().NoError(err)
	s.Equal(uint32(42), got.Transactions)
	s.Equal(model.StatsVersion+1, got.StatsVersion)
}

func (s *RepositorySuite) TestDeleteBlockRange() {
	s.expectObserved()

	var rows []model.BlockStats
	for h := uint64(0); h < 5; h++ {
		rows = append(rows, newBlockStats(h, "d", "2024-04-20"))
	}
	s.Require().NoError(s.repo.InsertBlockStats(s.testCtx, rows))

	s.Require().NoError(s.repo.DeleteBlockRange(s.testCtx, 3, 4))

	max, err := s.repo.MaxBlockHeight(s.testCtx)
	s.Require().NoError(err)
	s.Equal(uint64(2), max)

	_, err = s.repo.BlockStats(s.testCtx, 3)
	s.Require().True(errors.Is(err, ErrNotFound))
}
