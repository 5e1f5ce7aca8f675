package clickhouse

import (
	"strings"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

func (s *RepositorySuite) TestTransactionOutputs_RoundTrip() {
	s.expectObserved()

	txidA := strings.Repeat("a", 64)
	txidB := strings.Repeat("b", 64)
	outputs := []model.PrevOutput{
		{TxID: txidA, Index: 0, Value: 50000, PkScript: []byte{0x51, 0x02, 0x4e, 0x73}, Height: 100},
		{TxID: txidA, Index: 1, Value: 240, PkScript: []byte{0x6a}, Height: 100},
		{TxID: txidB, Index: 0, Value: 1, PkScript: nil, Height: 101},
	}
	s.Require().NoError(s.repo.InsertTransactionOutputs(s.testCtx, outputs))

	got, err := s.repo.TransactionOutputsByTxIDs(s.testCtx, []string{txidA})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(outputs[0], got[model.Outpoint{TxID: txidA, Index: 0}])
	s.Equal(outputs[1], got[model.Outpoint{TxID: txidA, Index: 1}])

	got, err = s.repo.TransactionOutputsByTxIDs(s.testCtx, []string{txidA, txidB})
	s.Require().NoError(err)
	s.Len(got, 3)

	got, err = s.repo.TransactionOutputsByTxIDs(s.testCtx, []string{strings.Repeat("c", 64)})
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *RepositorySuite) TestDeleteOutputsRange() {
	s.expectObserved()

	txid := strings.Repeat("d", 64)
	outputs := []model.PrevOutput{
		{TxID: txid, Index: 0, Value: 1000, PkScript: []byte{0x51}, Height: 100},
		{TxID: txid, Index: 1, Value: 2000, PkScript: []byte{0x51}, Height: 105},
	}
	s.Require().NoError(s.repo.InsertTransactionOutputs(s.testCtx, outputs))

	s.Require().NoError(s.repo.DeleteOutputsRange(s.testCtx, 101, 110))

	got, err := s.repo.TransactionOutputsByTxIDs(s.testCtx, []string{txid})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(uint64(100), got[model.Outpoint{TxID: txid, Index: 0}].Height)
}
