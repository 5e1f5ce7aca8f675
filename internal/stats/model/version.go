package model

// StatsVersion identifies the shape and semantics of computed block
// statistics. Rows stamped with an older version are found by the resync
// scheduler and recomputed; bumping this constant is the only trigger a
// schema or rule change needs.
//
// History:
//
//	1: script class counts, op_return payload bytes
//	2: spend age buckets
//	3: signature size histogram, ephemeral dust tracking
//	4: bip54 coinbase check, witness commitment flag, pool features
const StatsVersion uint32 = 4
