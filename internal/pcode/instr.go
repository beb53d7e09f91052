// Package pcode implements the stack-machine instruction emitter:
// stateful sink for code, its four operation shapes,
// the label counter, the read-only string table, and the initializer
// list flushed at block entry.
package pcode

// Op is the instruction mnemonic. A single Instr struct carries every
// shape's fields; which are meaningful is determined by Op, the same
// "one struct, fields selected by a kind tag" shape symtab.Symbol
// uses for symbol records.
type Op uint8

const (
	OpNop Op = iota

	// --- Shape 1: simple ops, no operand ---
	OpAdd
	OpSub
	OpMul
	OpDivInt
	OpModInt
	OpNeg
	OpNot
	OpAndOp
	OpOrOp
	OpXorOp
	OpShlOp
	OpShrOp
	OpSymDiffOp
	OpDup
	OpExchange
	OpLoadIndirect
	OpStoreIndirect
	OpReturn
	OpHalt

	// --- Shape 2: data ops ---
	OpPushImmediate // IData = literal value
	OpInds          // IData = data-stack pointer delta
	OpLabel         // IData = label id being planted here
	OpJump          // IData = target label id
	OpJumpFalse     // IData = target label id, pops a boolean
	OpJumpTrue      // IData = target label id, pops a boolean
	OpCall          // IData = target label id

	// --- Shape 3: stack-reference ops ---
	OpLoadVar     // Level, Offset, Indexed, Width, Signed
	OpStoreVar    // Level, Offset, Indexed, Width, Signed
	OpLoadAddress // Level, Offset, Indexed — "load-address" factor flag

	// --- relational family: Class picks one of the 10 operator slots ---
	OpEqual
	OpNotEqual
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpIn

	// --- Shape 4: specialized families ---
	OpFAdd // floating family; ConvFlags marks which operand needs int->real conversion
	OpFSub
	OpFMul
	OpFDiv
	OpFMod
	OpFNeg
	OpFloatConvert

	OpLAdd // long-integer family (dedicated opcodes)
	OpLSub
	OpLMul
	OpLDiv
	OpLMod
	OpLNeg
	OpLAndOp
	OpLOrOp
	OpLXorOp
	OpLShl
	OpLShr

	OpStringCall // Sub names the string-library routine
	OpSetCall    // Sub names the set-library routine
	OpSysioCall  // Sub names the system-I/O routine

	// --- module-level directives ---
	OpEntryPoint
	OpExportSymbol // Sub = exported name
	OpImportSymbol // Sub = imported name
)

// Class selects one of the ten operand-type slots the
// relational-operator dispatch table names. ClassNone in a slot the
// grammar actually reaches is a compile error ("not applicable for
// this type"), caught by the expression evaluator before it ever
// asks the emitter to encode the instruction.
type Class uint8

const (
	ClassNone Class = iota
	ClassInteger
	ClassWord
	ClassPointer
	ClassChar
	ClassBoolean
	ClassLongInt
	ClassLongWord
	ClassFloat
	ClassString
	ClassSet
)

// Width distinguishes byte, word, and multi-word stack-reference
// access (shape 3).
type Width uint8

const (
	WidthByte Width = iota
	WidthWord
	WidthMulti
)

// ConvFlags marks which side of a floating binary op needs an
// integer-to-real conversion inserted.
type ConvFlags uint8

const (
	ConvNone  ConvFlags = 0
	ConvLeft  ConvFlags = 1 << 0
	ConvRight ConvFlags = 1 << 1
)

// Instr is one emitted instruction. Fields outside the shape Op
// selects are left zero.
type Instr struct {
	Op Op

	// Shape 2: data ops.
	IData int32

	// Shape 3: stack-reference ops.
	Level   int32
	Offset  int32
	Indexed bool
	Width   Width
	Signed  bool

	// Relational family + arithmetic family dispatch.
	Class Class

	// Floating family.
	Conv ConvFlags

	// Specialized library calls and module directives.
	Sub string
}
