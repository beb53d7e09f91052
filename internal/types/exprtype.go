package types

import "github.com/pascalfe/pascalfe/internal/symtab"

// Tag is the result type of every expression, term, and factor
// ("Expression type tags"). It is deliberately a separate
// taxonomy from symtab.Kind: Kind identifies what a *symbol* is,
// Tag identifies what a *computed value* is, including the generic
// "any-X" forms (nil, the empty set literal, an untyped constant) that
// never have their own symbol.
type Tag int

const (
	Unknown Tag = iota
	AnyOrdinal
	AnyString
	AnyPointer
	EmptySet
	Integer
	Word
	ShortInt
	ShortWord
	LongInt
	LongWord
	Char
	Boolean
	Real
	Scalar
	String
	ShortString
	CString
	Set
	File
	Record
)

// ExprType is the value every expression-parsing function returns.
// Pointer is a single bit layered over Tag rather than a distinct set
// of "pointer-to-X" tags.
type ExprType struct {
	Tag     Tag
	Pointer bool
	Sym     symtab.SymbolRef // concrete identity: the scalar/record/set/file type, or (if Pointer) the pointee
}

// FromTypeSymbol computes the ExprType a variable or field of the
// given declared type yields when read.
func FromTypeSymbol(tab *symtab.Table, ref symtab.SymbolRef) ExprType {
	sym := tab.At(ref)
	if sym == nil {
		return ExprType{Tag: Unknown}
	}
	switch sym.Kind {
	case symtab.KindInteger:
		return ExprType{Tag: Integer, Sym: ref}
	case symtab.KindWord:
		return ExprType{Tag: Word, Sym: ref}
	case symtab.KindShortInt:
		return ExprType{Tag: ShortInt, Sym: ref}
	case symtab.KindShortWord:
		return ExprType{Tag: ShortWord, Sym: ref}
	case symtab.KindLongInt:
		return ExprType{Tag: LongInt, Sym: ref}
	case symtab.KindLongWord:
		return ExprType{Tag: LongWord, Sym: ref}
	case symtab.KindChar:
		return ExprType{Tag: Char, Sym: ref}
	case symtab.KindBoolean:
		return ExprType{Tag: Boolean, Sym: ref}
	case symtab.KindReal:
		return ExprType{Tag: Real, Sym: ref}
	case symtab.KindScalar:
		return ExprType{Tag: Scalar, Sym: ref}
	case symtab.KindSubrange:
		p, _ := sym.Type()
		return FromTypeSymbol(tab, p.Base)
	case symtab.KindString:
		return ExprType{Tag: String, Sym: ref}
	case symtab.KindSet:
		return ExprType{Tag: Set, Sym: ref}
	case symtab.KindFile, symtab.KindTextFile:
		return ExprType{Tag: File, Sym: ref}
	case symtab.KindRecord:
		return ExprType{Tag: Record, Sym: ref}
	case symtab.KindPointer:
		p, _ := sym.Type()
		inner := FromTypeSymbol(tab, p.Base)
		inner.Pointer = true
		inner.Sym = p.Base
		return inner
	default:
		return ExprType{Tag: Unknown}
	}
}

// IsOrdinal reports whether e is usable as an ordinal value: any
// integer-family tag, char, boolean, scalar, or the any-ordinal
// sentinel (nil literal path never reaches here; empty-set does not
// count as ordinal).
func (e ExprType) IsOrdinal() bool {
	switch e.Tag {
	case AnyOrdinal, Integer, Word, ShortInt, ShortWord, LongInt, LongWord, Char, Boolean, Scalar:
		return true
	default:
		return false
	}
}

// IsIntegerFamily reports whether e is one of the int/word/short/long
// integer tags (not char, not scalar).
func (e ExprType) IsIntegerFamily() bool {
	switch e.Tag {
	case Integer, Word, ShortInt, ShortWord, LongInt, LongWord:
		return true
	default:
		return false
	}
}

// IsLong reports whether e belongs to the dedicated long-opcode
// family.
func (e ExprType) IsLong() bool {
	return e.Tag == LongInt || e.Tag == LongWord
}

// IsNumeric reports whether e participates in integer/real mixed
// arithmetic.
func (e ExprType) IsNumeric() bool {
	return e.IsIntegerFamily() || e.Tag == Real
}

// IsStringFamily reports whether e is a string, short-string,
// c-string, or the any-string sentinel (an untyped string/char
// literal before a concrete width is chosen).
func (e ExprType) IsStringFamily() bool {
	switch e.Tag {
	case AnyString, String, ShortString, CString:
		return true
	default:
		return false
	}
}

// IsSet reports whether e is a set value, concrete or the
// distinguished empty-set sentinel.
func (e ExprType) IsSet() bool {
	return e.Tag == Set || e.Tag == EmptySet
}

// SameBase reports whether two set (or record) expression types share
// the same underlying type symbol, treating the empty-set sentinel as
// unifying with any concrete set.
func SameBase(tab *symtab.Table, a, b ExprType) bool {
	if a.Tag == EmptySet || b.Tag == EmptySet {
		return a.IsSet() && b.IsSet()
	}
	return a.Sym == b.Sym
}

// UnifyPointer reports whether two pointer-typed expressions may be
// compared: the generic any-pointer form (the literal `nil`) unifies
// with any concrete pointer, and two concrete pointers unify only if
// they point to the same type.
func UnifyPointer(a, b ExprType) bool {
	if !a.Pointer || !b.Pointer {
		return false
	}
	if a.Tag == AnyPointer || b.Tag == AnyPointer {
		return true
	}
	return a.Sym == b.Sym
}

// SetElementTag reports the ordinal ExprType elements of a set type
// must have, derived from the set's stored base-element type symbol.
func SetElementTag(tab *symtab.Table, setType symtab.SymbolRef) ExprType {
	p, ok := tab.At(setType).Type()
	if !ok {
		return ExprType{Tag: Unknown}
	}
	return FromTypeSymbol(tab, p.Base)
}
