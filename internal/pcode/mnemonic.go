package pcode

var mnemonics = map[Op]string{
	OpNop: "nop", OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDivInt: "div",
	OpModInt: "mod", OpNeg: "neg", OpNot: "not", OpAndOp: "and", OpOrOp: "or",
	OpXorOp: "xor", OpShlOp: "shl", OpShrOp: "shr", OpSymDiffOp: "symdiff",
	OpDup: "dup", OpExchange: "xchg", OpLoadIndirect: "ldind", OpStoreIndirect: "stind",
	OpReturn: "ret", OpHalt: "halt",
	OpPushImmediate: "push", OpInds: "inds", OpLabel: "label", OpJump: "jmp",
	OpJumpFalse: "jmpf", OpJumpTrue: "jmpt", OpCall: "call",
	OpLoadVar: "ldvar", OpStoreVar: "stvar", OpLoadAddress: "ldaddr",
	OpEqual: "eq", OpNotEqual: "ne", OpLess: "lt", OpLessEq: "le",
	OpGreater: "gt", OpGreaterEq: "ge", OpIn: "in",
	OpFAdd: "fadd", OpFSub: "fsub", OpFMul: "fmul", OpFDiv: "fdiv", OpFMod: "fmod",
	OpFNeg: "fneg", OpFloatConvert: "fconv",
	OpLAdd: "ladd", OpLSub: "lsub", OpLMul: "lmul", OpLDiv: "ldiv", OpLMod: "lmod",
	OpLNeg: "lneg", OpLAndOp: "land", OpLOrOp: "lor", OpLXorOp: "lxor",
	OpLShl: "lshl", OpLShr: "lshr",
	OpStringCall: "scall", OpSetCall: "setcall", OpSysioCall: "syscall",
	OpEntryPoint: "entry", OpExportSymbol: "export", OpImportSymbol: "import",
}

func (op Op) String() string {
	if s, ok := mnemonics[op]; ok {
		return s
	}
	return "?"
}

var classNames = [...]string{
	ClassNone: "-", ClassInteger: "int", ClassWord: "word", ClassPointer: "ptr",
	ClassChar: "char", ClassBoolean: "bool", ClassLongInt: "long", ClassLongWord: "ulong",
	ClassFloat: "real", ClassString: "string", ClassSet: "set",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "?"
}
