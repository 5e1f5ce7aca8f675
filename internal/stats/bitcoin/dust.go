package bitcoin

import (
	"math"

	"github.com/btcsuite/btcd/txscript"
)

// dustRelayFee is the relay fee floor the dust definition is derived from,
// in satoshis per kvB.
const dustRelayFee = 3000

const maxScriptSize = 10000

// DustThreshold returns the value in satoshis below which an output with
// the given locking script counts as dust under relay policy: three
// satoshis per vbyte of the output itself plus the input that would later
// spend it, with the witness discount applied to witness programs.
// Unspendable outputs are never dust; their threshold is zero.
//
// Reference points: P2PKH 546, P2WPKH 294, P2WSH and P2TR 330, P2A 240.
func DustThreshold(pkScript []byte) uint64 {
	if isUnspendable(pkScript) {
		return 0
	}

	size := outputSerializeSize(pkScript)
	if txscript.IsWitnessProgram(pkScript) {
		size += 32 + 4 + 1 + 107/4 + 4
	} else {
		size += 32 + 4 + 1 + 107 + 4
	}
	return size * dustRelayFee / 1000
}

func isUnspendable(pkScript []byte) bool {
	if len(pkScript) > maxScriptSize {
		return true
	}
	return len(pkScript) > 0 && pkScript[0] == txscript.OP_RETURN
}

// outputSerializeSize is the wire size of a txout: 8 value bytes plus the
// script with its compact-size length prefix.
func outputSerializeSize(pkScript []byte) uint64 {
	n := uint64(len(pkScript))
	return 8 + compactSizeLen(n) + n
}

func compactSizeLen(n uint64) uint64 {
	switch {
	case n < 253:
		return 1
	case n <= math.MaxUint16:
		return 3
	case n <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}
