package model

// ScriptClass names the recognized output script shapes. Inputs are
// classified by the script of the output they spend; taproot spends
// additionally split into key path and script path by witness shape.
type ScriptClass string

const (
	ClassP2PK     ScriptClass = "p2pk"
	ClassP2PKH    ScriptClass = "p2pkh"
	ClassP2WPKH   ScriptClass = "p2wpkh"
	ClassP2SH     ScriptClass = "p2sh"
	ClassP2WSH    ScriptClass = "p2wsh"
	ClassP2TR     ScriptClass = "p2tr"
	ClassP2MS     ScriptClass = "p2ms"
	ClassP2A      ScriptClass = "p2a"
	ClassOPReturn ScriptClass = "op_return"
	ClassUnknown  ScriptClass = "unknown"

	// Input-only refinements of ClassP2TR.
	ClassP2TRKeyPath    ScriptClass = "p2tr_keypath"
	ClassP2TRScriptPath ScriptClass = "p2tr_scriptpath"
)
