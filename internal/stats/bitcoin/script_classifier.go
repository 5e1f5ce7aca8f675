package bitcoin

import (
	"bytes"

	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

const (
	derSequenceTag = 0x30
	derIntegerTag  = 0x02
	minECDSASigLen = 9
	maxECDSASigLen = 73
	schnorrSigLen  = 64
	annexTag       = 0x50

	witnessCommitmentLen = 38
)

// anchorScript is the pay-to-anchor output script: OP_1 <0x4e73>.
var anchorScript = []byte{txscript.OP_1, txscript.OP_DATA_2, 0x4e, 0x73}

// witnessCommitmentPrefix starts the coinbase output carrying the segwit
// commitment: OP_RETURN OP_DATA_36 0xaa21a9ed followed by the hash.
var witnessCommitmentPrefix = []byte{txscript.OP_RETURN, txscript.OP_DATA_36, 0xaa, 0x21, 0xa9, 0xed}

// ClassifyOutput maps a locking script to its script class. Anything not
// matching a known template is Unknown; classification never fails. Any
// script starting with OP_RETURN counts as OP_RETURN regardless of what
// follows, matching how payload bytes are summed.
func ClassifyOutput(pkScript []byte) model.ScriptClass {
	if len(pkScript) > 0 && pkScript[0] == txscript.OP_RETURN {
		return model.ClassOPReturn
	}
	if bytes.Equal(pkScript, anchorScript) {
		return model.ClassP2A
	}

	switch txscript.GetScriptClass(pkScript) {
	case txscript.PubKeyTy:
		return model.ClassP2PK
	case txscript.PubKeyHashTy:
		return model.ClassP2PKH
	case txscript.WitnessV0PubKeyHashTy:
		return model.ClassP2WPKH
	case txscript.ScriptHashTy:
		return model.ClassP2SH
	case txscript.WitnessV0ScriptHashTy:
		return model.ClassP2WSH
	case txscript.WitnessV1TaprootTy:
		return model.ClassP2TR
	case txscript.MultiSigTy:
		return model.ClassP2MS
	default:
		return model.ClassUnknown
	}
}

// ClassifyInput classifies a spend by the script of the output it consumes,
// not by its own unlocking data. Taproot spends additionally split into key
// path and script path by witness stack shape.
func ClassifyInput(spentPkScript []byte, witness [][]byte, _ []byte) model.ScriptClass {
	class := ClassifyOutput(spentPkScript)
	if class != model.ClassP2TR {
		return class
	}
	return classifyTaprootSpend(witness)
}

// classifyTaprootSpend resolves key path vs script path per BIP-341: after
// stripping the annex, a single 64/65-byte element is a key path spend and
// a trailing control block preceded by at least a script element is a
// script path spend.
func classifyTaprootSpend(witness [][]byte) model.ScriptClass {
	stack := stripAnnex(witness)
	switch {
	case len(stack) == 1 && (len(stack[0]) == schnorrSigLen || len(stack[0]) == schnorrSigLen+1):
		return model.ClassP2TRKeyPath
	case len(stack) >= 2 && isControlBlock(stack[len(stack)-1]):
		return model.ClassP2TRScriptPath
	default:
		return model.ClassUnknown
	}
}

// stripAnnex drops the trailing annex element when present: at least two
// witness elements and the last one starting with 0x50.
func stripAnnex(witness [][]byte) [][]byte {
	if len(witness) >= 2 {
		last := witness[len(witness)-1]
		if len(last) > 0 && last[0] == annexTag {
			return witness[:len(witness)-1]
		}
	}
	return witness
}

// isControlBlock matches the BIP-341 control block framing: a leaf version
// byte, a 32-byte internal key and up to 128 32-byte merkle path nodes.
func isControlBlock(data []byte) bool {
	if len(data) < 33 || (len(data)-33)%32 != 0 {
		return false
	}
	return (len(data)-33)/32 <= 128
}

// ExtractSignatures pulls signature records out of one input's unlocking
// data, guided by the spend class. Elements in known signature positions
// that fail to parse are reported as unclassified rather than dropped;
// elements that cannot be signatures (keys, preimages, scripts) are skipped.
func ExtractSignatures(class model.ScriptClass, scriptSig []byte, witness [][]byte) []model.SignatureRecord {
	switch class {
	case model.ClassP2PK, model.ClassP2PKH:
		return expectECDSA(firstPush(scriptSig))
	case model.ClassP2MS:
		return scanECDSA(scriptSigPushes(scriptSig), nil)
	case model.ClassP2SH:
		pushes := scriptSigPushes(scriptSig)
		if len(pushes) > 0 {
			pushes = pushes[:len(pushes)-1] // redeem script
		}
		return scanECDSA(pushes, sigStack(witness))
	case model.ClassP2WPKH:
		if len(witness) == 0 {
			return nil
		}
		return expectECDSA(witness[0])
	case model.ClassP2WSH:
		return scanECDSA(nil, sigStack(witness))
	case model.ClassP2TRKeyPath:
		stack := stripAnnex(witness)
		if len(stack) != 1 {
			return nil
		}
		return expectSchnorr(stack[0])
	case model.ClassP2TRScriptPath:
		return scanSchnorr(tapscriptStack(witness))
	default:
		return nil
	}
}

// sigStack returns the witness elements that can carry signatures: all but
// the trailing script element.
func sigStack(witness [][]byte) [][]byte {
	if len(witness) < 2 {
		return nil
	}
	return witness[:len(witness)-1]
}

// tapscriptStack returns the stack elements of a script path spend with
// the annex, the control block and the script dropped.
func tapscriptStack(witness [][]byte) [][]byte {
	stack := stripAnnex(witness)
	if len(stack) < 2 {
		return nil
	}
	return stack[:len(stack)-2]
}

func expectECDSA(data []byte) []model.SignatureRecord {
	if len(data) == 0 {
		return nil
	}
	if isECDSASignature(data) {
		return []model.SignatureRecord{{Algorithm: model.SigAlgECDSA, Length: len(data)}}
	}
	return []model.SignatureRecord{{Algorithm: model.SigAlgUnclassified, Length: len(data)}}
}

func expectSchnorr(data []byte) []model.SignatureRecord {
	if len(data) == 0 {
		return nil
	}
	if isSchnorrSignature(data) {
		return []model.SignatureRecord{{Algorithm: model.SigAlgSchnorr, Length: len(data)}}
	}
	return []model.SignatureRecord{{Algorithm: model.SigAlgUnclassified, Length: len(data)}}
}

func scanECDSA(pushes, witnessElems [][]byte) []model.SignatureRecord {
	var records []model.SignatureRecord
	for _, group := range [...][][]byte{pushes, witnessElems} {
		for _, data := range group {
			switch {
			case isECDSASignature(data):
				records = append(records, model.SignatureRecord{Algorithm: model.SigAlgECDSA, Length: len(data)})
			case looksLikeSignature(data):
				records = append(records, model.SignatureRecord{Algorithm: model.SigAlgUnclassified, Length: len(data)})
			}
		}
	}
	return records
}

func scanSchnorr(elems [][]byte) []model.SignatureRecord {
	var records []model.SignatureRecord
	for _, data := range elems {
		if isSchnorrSignature(data) {
			records = append(records, model.SignatureRecord{Algorithm: model.SigAlgSchnorr, Length: len(data)})
		}
	}
	return records
}

// isECDSASignature matches a DER-encoded ECDSA signature followed by a
// sighash byte: SEQUENCE{INTEGER r, INTEGER s} with consistent lengths.
// Integer minimality is not enforced, so historic non-strict encodings
// still count as ECDSA.
func isECDSASignature(data []byte) bool {
	if len(data) < minECDSASigLen || len(data) > maxECDSASigLen {
		return false
	}
	if data[0] != derSequenceTag || int(data[1]) != len(data)-3 {
		return false
	}
	if data[2] != derIntegerTag {
		return false
	}
	rLen := int(data[3])
	if rLen == 0 || 5+rLen >= len(data)-1 {
		return false
	}
	if data[4+rLen] != derIntegerTag {
		return false
	}
	sLen := int(data[5+rLen])
	return sLen > 0 && 6+rLen+sLen == len(data)-1
}

// looksLikeSignature is the lax filter applied to scanned stacks: a DER
// sequence tag within a plausible signature size. Used to count malformed
// or truncated signatures as present but unclassified.
func looksLikeSignature(data []byte) bool {
	return len(data) >= 2 && len(data) <= maxECDSASigLen && data[0] == derSequenceTag
}

// isSchnorrSignature matches a BIP-340 signature: 64 bytes, or 65 with an
// explicit non-default sighash byte appended.
func isSchnorrSignature(data []byte) bool {
	if len(data) == schnorrSigLen {
		return true
	}
	return len(data) == schnorrSigLen+1 && isSighashByte(data[schnorrSigLen])
}

func isSighashByte(b byte) bool {
	switch b {
	case 0x01, 0x02, 0x03, 0x81, 0x82, 0x83:
		return true
	}
	return false
}

// scriptSigPushes returns the data pushes of an unlocking script in order.
// A script that fails to parse mid-way yields the pushes seen so far.
func scriptSigPushes(scriptSig []byte) [][]byte {
	var pushes [][]byte
	tokenizer := txscript.MakeScriptTokenizer(0, scriptSig)
	for tokenizer.Next() {
		if data := tokenizer.Data(); data != nil {
			pushes = append(pushes, data)
		}
	}
	return pushes
}

func firstPush(scriptSig []byte) []byte {
	tokenizer := txscript.MakeScriptTokenizer(0, scriptSig)
	for tokenizer.Next() {
		if data := tokenizer.Data(); data != nil {
			return data
		}
	}
	return nil
}

// OpReturnPayloadSize sums the data push lengths of an OP_RETURN script,
// excluding opcode and length prefix bytes. A malformed tail keeps the
// bytes counted up to that point.
func OpReturnPayloadSize(pkScript []byte) uint64 {
	if len(pkScript) == 0 || pkScript[0] != txscript.OP_RETURN {
		return 0
	}
	var total uint64
	tokenizer := txscript.MakeScriptTokenizer(0, pkScript)
	for tokenizer.Next() {
		total += uint64(len(tokenizer.Data()))
	}
	return total
}

// IsWitnessCommitment reports whether a coinbase output script carries the
// BIP-141 witness commitment.
func IsWitnessCommitment(pkScript []byte) bool {
	return len(pkScript) >= witnessCommitmentLen && bytes.HasPrefix(pkScript, witnessCommitmentPrefix)
}
