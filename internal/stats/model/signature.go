package model

// SignatureAlgorithm distinguishes the two signature encodings found in
// scripts and witnesses.
type SignatureAlgorithm string

const (
	SigAlgECDSA   SignatureAlgorithm = "ecdsa"
	SigAlgSchnorr SignatureAlgorithm = "schnorr"

	// SigAlgUnclassified marks a malformed or truncated encoding found in
	// a signature position: counted as present, never measured.
	SigAlgUnclassified SignatureAlgorithm = "unclassified"
)

// SignatureRecord is one extracted signature: algorithm plus encoded byte
// length, sighash byte included when present. ECDSA lengths vary with the
// DER integer encoding; Schnorr is 64 bytes, or 65 with an explicit
// non-default sighash appended.
type SignatureRecord struct {
	Algorithm SignatureAlgorithm
	Length    int
}
