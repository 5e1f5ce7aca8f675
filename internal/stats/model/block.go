// Package model defines domain models for block statistics ingestion.
package model

import "time"

// Block represents a fully fetched block with every transaction decoded.
type Block struct {
	Height    uint64
	Hash      string
	PrevHash  string
	Timestamp time.Time
	Txs       []Transaction
}

// Date returns the block day in UTC, formatted YYYY-MM-DD.
func (b Block) Date() string {
	return b.Timestamp.UTC().Format("2006-01-02")
}

// Transaction carries the transaction fields statistics are computed from.
type Transaction struct {
	TxID     string
	Version  int32
	LockTime uint32
	Size     uint32
	VSize    uint32
	Inputs   []TxInput
	Outputs  []TxOutput
}

// TxInput describes a spend of a previous output. For the coinbase input
// Coinbase is true and the prevout reference is meaningless.
type TxInput struct {
	PrevTxID  string
	PrevIndex uint32
	ScriptSig []byte
	Witness   [][]byte
	Sequence  uint32
	Coinbase  bool
}

// TxOutput is a newly created output.
type TxOutput struct {
	Value    uint64
	PkScript []byte
}

// Outpoint identifies a transaction output by creating txid and index.
type Outpoint struct {
	TxID  string
	Index uint32
}

// PrevOutput is the resolved shape of a spent output: enough to classify
// the spend, compute fees and measure spend age.
type PrevOutput struct {
	TxID     string
	Index    uint32
	Value    uint64
	PkScript []byte
	Height   uint64
}

// Outpoint returns the map key locating this output.
func (p PrevOutput) Outpoint() Outpoint {
	return Outpoint{TxID: p.TxID, Index: p.Index}
}
