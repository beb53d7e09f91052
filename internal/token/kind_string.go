package token

var kindNames = map[Kind]string{
	Unknown: "unknown", EOF: "eof",

	IntLiteral: "int-literal", RealLiteral: "real-literal",
	StringLiteral: "string-literal", CharLiteral: "char-literal",
	Ident: "ident",

	KwAnd: "and", KwArray: "array", KwBegin: "begin", KwCase: "case",
	KwConst: "const", KwDiv: "div", KwDo: "do", KwDownto: "downto",
	KwElse: "else", KwEnd: "end", KwFile: "file", KwFor: "for",
	KwForward: "forward", KwFunction: "function", KwGoto: "goto",
	KwIf: "if", KwImplementation: "implementation", KwIn: "in",
	KwInterface: "interface", KwLabel: "label", KwMod: "mod",
	KwNil: "nil", KwNot: "not", KwOf: "of", KwOr: "or",
	KwPacked: "packed", KwProcedure: "procedure", KwProgram: "program",
	KwRecord: "record", KwRepeat: "repeat", KwSet: "set", KwShl: "shl",
	KwShr: "shr", KwThen: "then", KwTo: "to", KwType: "type",
	KwUnit: "unit", KwUntil: "until", KwUses: "uses", KwVar: "var",
	KwWhile: "while", KwWith: "with", KwXor: "xor",

	Plus: "+", Minus: "-", Star: "*", Slash: "/", Assign: ":=",
	Equal: "=", NotEqual: "<>", Less: "<", LessEq: "<=", Greater: ">",
	GreaterEq: ">=", SymDiff: "><", Ampersand: "&", Comma: ",",
	Semicolon: ";", Colon: ":", Dot: ".", DotDot: "..", LParen: "(",
	RParen: ")", LBracket: "[", RBracket: "]", Caret: "^", At: "@",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "?"
}
