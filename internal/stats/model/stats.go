package model

// BlockStats is the one wide statistics row persisted per block height.
// Every counter is derived from the block alone plus resolved prevouts,
// so recomputing a height always yields an identical row for the same
// chain state.
type BlockStats struct {
	Height       uint64
	Hash         string
	Date         string
	StatsVersion uint32

	Transactions uint32
	Inputs       uint32
	Outputs      uint32
	Empty        bool

	OutputsP2PK     uint32
	OutputsP2PKH    uint32
	OutputsP2WPKH   uint32
	OutputsP2SH     uint32
	OutputsP2WSH    uint32
	OutputsP2TR     uint32
	OutputsP2MS     uint32
	OutputsP2A      uint32
	OutputsOPReturn uint32
	OutputsUnknown  uint32

	InputsCoinbase       uint32
	InputsP2PK           uint32
	InputsP2PKH          uint32
	InputsP2WPKH         uint32
	InputsP2SH           uint32
	InputsP2WSH          uint32
	InputsP2TRKeyPath    uint32
	InputsP2TRScriptPath uint32
	InputsP2MS           uint32
	InputsP2A            uint32
	InputsUnknown        uint32

	OPReturnBytes uint64

	SigsECDSA        uint32
	SigsECDSABytes   uint64
	SigsSchnorr      uint32
	SigsSchnorrBytes uint64
	SigsUnclassified uint32

	// ECDSA signature length histogram, length includes the sighash byte.
	SigsECDSALenLt70  uint32
	SigsECDSALen70    uint32
	SigsECDSALen71    uint32
	SigsECDSALen72    uint32
	SigsECDSALen73    uint32
	SigsECDSALen74    uint32
	SigsECDSALenGte75 uint32

	// Cumulative spend age buckets: an input of age a increments every
	// bucket whose threshold is >= a. Age is spend height minus creation
	// height, so 0 means spent in the creating block.
	InputsSpendAge0    uint32
	InputsSpendAge1    uint32
	InputsSpendAge6    uint32
	InputsSpendAge144  uint32
	InputsSpendAge2016 uint32

	CoinbaseLockTime          uint32
	CoinbaseSequence          uint32
	CoinbaseBIP54             bool
	CoinbaseWitnessCommitment bool

	DustCreated    uint32
	DustSpent      uint32
	P2ADustCreated uint32
	P2ADustSpent   uint32

	TxVersion1     uint32
	TxVersion2     uint32
	TxVersion3     uint32
	TxVersionOther uint32
}

// AddOutputClass bumps the output counter for a class.
func (s *BlockStats) AddOutputClass(class ScriptClass) {
	switch class {
	case ClassP2PK:
		s.OutputsP2PK++
	case ClassP2PKH:
		s.OutputsP2PKH++
	case ClassP2WPKH:
		s.OutputsP2WPKH++
	case ClassP2SH:
		s.OutputsP2SH++
	case ClassP2WSH:
		s.OutputsP2WSH++
	case ClassP2TR:
		s.OutputsP2TR++
	case ClassP2MS:
		s.OutputsP2MS++
	case ClassP2A:
		s.OutputsP2A++
	case ClassOPReturn:
		s.OutputsOPReturn++
	default:
		s.OutputsUnknown++
	}
}

// AddInputClass bumps the input counter for a spend class.
func (s *BlockStats) AddInputClass(class ScriptClass) {
	switch class {
	case ClassP2PK:
		s.InputsP2PK++
	case ClassP2PKH:
		s.InputsP2PKH++
	case ClassP2WPKH:
		s.InputsP2WPKH++
	case ClassP2SH:
		s.InputsP2SH++
	case ClassP2WSH:
		s.InputsP2WSH++
	case ClassP2TRKeyPath:
		s.InputsP2TRKeyPath++
	case ClassP2TRScriptPath:
		s.InputsP2TRScriptPath++
	case ClassP2MS:
		s.InputsP2MS++
	case ClassP2A:
		s.InputsP2A++
	default:
		s.InputsUnknown++
	}
}

// AddSpendAge records a resolved input age into the cumulative buckets.
func (s *BlockStats) AddSpendAge(age uint64) {
	if age == 0 {
		s.InputsSpendAge0++
	}
	if age <= 1 {
		s.InputsSpendAge1++
	}
	if age <= 6 {
		s.InputsSpendAge6++
	}
	if age <= 144 {
		s.InputsSpendAge144++
	}
	if age <= 2016 {
		s.InputsSpendAge2016++
	}
}

// AddECDSALen records one ECDSA signature length, sighash byte included.
func (s *BlockStats) AddECDSALen(length int) {
	switch {
	case length < 70:
		s.SigsECDSALenLt70++
	case length == 70:
		s.SigsECDSALen70++
	case length == 71:
		s.SigsECDSALen71++
	case length == 72:
		s.SigsECDSALen72++
	case length == 73:
		s.SigsECDSALen73++
	case length == 74:
		s.SigsECDSALen74++
	default:
		s.SigsECDSALenGte75++
	}
}
