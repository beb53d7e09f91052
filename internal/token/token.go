// Package token defines the lexeme kinds the Pascal front end consumes
// and the Token value the lexer produces. Tokens carry their own
// literal payload so the parser never re-reads source text.
package token

import (
	"fmt"

	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/symtab"
)

// Kind identifies the lexical class of a token.
type Kind int

const (
	Unknown Kind = iota
	EOF

	// Literals
	IntLiteral
	RealLiteral
	StringLiteral
	CharLiteral

	// An identifier. Stream sets the token's Sym to the symbol the name
	// resolves to when it is scanned (NoSymbol if none is visible); the
	// parser looks names up again in the symbol table where it uses them.
	Ident

	// Reserved words
	KwAnd
	KwArray
	KwBegin
	KwCase
	KwConst
	KwDiv
	KwDo
	KwDownto
	KwElse
	KwEnd
	KwFile
	KwFor
	KwForward
	KwFunction
	KwGoto
	KwIf
	KwImplementation
	KwIn
	KwInterface
	KwLabel
	KwMod
	KwNil
	KwNot
	KwOf
	KwOr
	KwPacked
	KwProcedure
	KwProgram
	KwRecord
	KwRepeat
	KwSet
	KwShl
	KwShr
	KwThen
	KwTo
	KwType
	KwUnit
	KwUntil
	KwUses
	KwVar
	KwWhile
	KwWith
	KwXor

	// Punctuation and operators
	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Assign     // :=
	Equal      // =
	NotEqual   // <>
	Less       // <
	LessEq     // <=
	Greater    // >
	GreaterEq  // >=
	SymDiff    // ><
	Ampersand  // &
	Comma      // ,
	Semicolon  // ;
	Colon      // :
	Dot        // .
	DotDot     // ..
	LParen     // (
	RParen     // )
	LBracket   // [
	RBracket   // ]
	Caret      // ^
	At         // @
)

var reserved = map[string]Kind{
	"and": KwAnd, "array": KwArray, "begin": KwBegin, "case": KwCase,
	"const": KwConst, "div": KwDiv, "do": KwDo, "downto": KwDownto,
	"else": KwElse, "end": KwEnd, "file": KwFile, "for": KwFor,
	"forward": KwForward,
	"function": KwFunction, "goto": KwGoto, "if": KwIf,
	"implementation": KwImplementation, "in": KwIn,
	"interface": KwInterface, "label": KwLabel, "mod": KwMod,
	"nil": KwNil, "not": KwNot, "of": KwOf, "or": KwOr,
	"packed": KwPacked, "procedure": KwProcedure, "program": KwProgram,
	"record": KwRecord, "repeat": KwRepeat, "set": KwSet, "shl": KwShl,
	"shr": KwShr, "then": KwThen, "to": KwTo, "type": KwType,
	"unit": KwUnit, "until": KwUntil, "uses": KwUses, "var": KwVar,
	"while": KwWhile, "with": KwWith, "xor": KwXor,
}

// LookupReserved returns the reserved-word kind for a case-folded
// identifier spelling, or (Unknown, false) if it is a plain identifier.
func LookupReserved(lower string) (Kind, bool) {
	k, ok := reserved[lower]
	return k, ok
}

// Token is the lazily-produced unit the parser consumes. Exactly one
// of the payload fields is meaningful, selected by Kind.
type Token struct {
	Kind Kind
	Pos  diag.Pos

	IVal int32           // IntLiteral
	RVal float64         // RealLiteral
	SVal string          // StringLiteral, CharLiteral (length 1), Ident spelling
	Sym  symtab.SymbolRef // Ident: back-reference resolved at scan time; symtab.NoSymbol if undeclared
}

func (t Token) String() string {
	switch t.Kind {
	case IntLiteral:
		return fmt.Sprintf("int(%d)", t.IVal)
	case RealLiteral:
		return fmt.Sprintf("real(%g)", t.RVal)
	case StringLiteral, CharLiteral:
		return fmt.Sprintf("%q", t.SVal)
	case Ident:
		return fmt.Sprintf("ident(%s)", t.SVal)
	default:
		return fmt.Sprintf("kind(%d)", t.Kind)
	}
}
