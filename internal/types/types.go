// Package types implements Pascal's type algebra on top of symtab:
// ordinal primitives, new ordinal types (enum, subrange), the four
// complex shapes (pointer, array, record, set), files, and aliases.
// Types live in the same symbol table as everything else — a type is
// just a Symbol whose Payload is a *symtab.TypePayload — so this
// package is mostly size/alignment arithmetic and constructors rather
// than a parallel graph.
package types

import (
	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/symtab"
)

// Stack footprints for the parameter-passing convention and primitive
// sizing.
const (
	ShortSize  = 1 // short-int / short-word instance size
	WordSize   = 2 // integer / word / pointer / stack word
	CharSize   = 1 // char instance size (promoted to WordSize on the stack)
	BoolSize   = 1
	LongSize   = 4 // long-int / long-word
	RealSize   = 8
	PointerSize = WordSize

	// StringHeaderSize is the (size, capacity) pair kept alongside a
	// string's character buffer.
	StringHeaderSize = 2 * WordSize
	// StringTripleSize is the caller/callee parameter-passing
	// footprint for a string actual parameter: size, buffer address,
	// capacity.
	StringTripleSize = 3 * WordSize
	// DefaultStringCapacity is used for a bare `string` declaration
	// with no explicit length.
	DefaultStringCapacity = 255

	// SetBits is the bit width of the runtime set-word group; a set
	// type whose element range exceeds this triggers a range error.
	SetBits  = 256
	SetBytes = SetBits / 8
)

// Builtins holds the back-references to the predeclared primitive
// type symbols, reserved once at level 0 before any source is parsed.
type Builtins struct {
	Integer   symtab.SymbolRef
	Word      symtab.SymbolRef
	ShortInt  symtab.SymbolRef
	ShortWord symtab.SymbolRef
	LongInt   symtab.SymbolRef
	LongWord  symtab.SymbolRef
	Boolean   symtab.SymbolRef
	Char      symtab.SymbolRef
	Real      symtab.SymbolRef
	String    symtab.SymbolRef
}

func primitive(tab *symtab.Table, name string, kind symtab.Kind, allocSize int) symtab.SymbolRef {
	ref := tab.ReserveTypeDefinition(diag.Pos{}, name, 0, kind, allocSize, symtab.NoSymbol, symtab.NoSymbol)
	if p, ok := tab.At(ref).Type(); ok {
		p.RefSize = allocSize
		p.Discriminant = symtab.SubKindPrimitive
	}
	return ref
}

// RegisterBuiltins reserves the predeclared primitive types at level 0.
// It must run before any user declaration so that level-0 offsets for
// actual program symbols start after the builtins.
func RegisterBuiltins(tab *symtab.Table) *Builtins {
	b := &Builtins{
		Integer:   primitive(tab, "integer", symtab.KindInteger, WordSize),
		Word:      primitive(tab, "word", symtab.KindWord, WordSize),
		ShortInt:  primitive(tab, "shortint", symtab.KindShortInt, ShortSize),
		ShortWord: primitive(tab, "shortword", symtab.KindShortWord, ShortSize),
		LongInt:   primitive(tab, "longint", symtab.KindLongInt, LongSize),
		LongWord:  primitive(tab, "longword", symtab.KindLongWord, LongSize),
		Boolean:   primitive(tab, "boolean", symtab.KindBoolean, BoolSize),
		Char:      primitive(tab, "char", symtab.KindChar, CharSize),
		Real:      primitive(tab, "real", symtab.KindReal, RealSize),
	}
	// char is promoted to a full stack word when passed by value, so
	// its RefSize diverges from its AllocSize (unlike every other
	// primitive, where the two coincide).
	if p, ok := tab.At(b.Char).Type(); ok {
		p.RefSize = WordSize
	}
	strRef := tab.ReserveTypeDefinition(diag.Pos{}, "string", 0, symtab.KindString,
		StringHeaderSize+DefaultStringCapacity, symtab.NoSymbol, symtab.NoSymbol)
	if p, ok := tab.At(strRef).Type(); ok {
		p.RefSize = StringTripleSize
		p.Discriminant = symtab.SubKindPrimitive
		p.Max = DefaultStringCapacity
	}
	b.String = strRef
	return b
}

// AllocSize returns the size in bytes of one instance of the type ref
// names. It is a plain getter: construction computes and stores the
// value once, "allocation size (instance)" field.
func AllocSize(tab *symtab.Table, ref symtab.SymbolRef) int {
	sym := tab.At(ref)
	if sym == nil {
		return 0
	}
	if p, ok := sym.Type(); ok {
		return p.AllocSize
	}
	return 0
}

// RefSize returns the size used when ref is passed by value as an
// actual parameter — equal to AllocSize for most types, but distinct
// for strings (the 3-word triple vs. the full buffer allocation).
func RefSize(tab *symtab.Table, ref symtab.SymbolRef) int {
	sym := tab.At(ref)
	if sym == nil {
		return 0
	}
	if p, ok := sym.Type(); ok {
		return p.RefSize
	}
	return 0
}

// BaseType follows one link of base-type traversal: pointee of a
// pointer, element type of an array/file, or alias target.
func BaseType(tab *symtab.Table, ref symtab.SymbolRef) symtab.SymbolRef {
	sym := tab.At(ref)
	if sym == nil {
		return symtab.NoSymbol
	}
	if p, ok := sym.Type(); ok {
		return p.Base
	}
	return symtab.NoSymbol
}

// UltimateBase follows alias links until it reaches a non-alias type,
// used wherever the grammar cares about the underlying shape rather
// than the declared name (`type A = B; type C = A;` — C's ultimate
// base is B's shape).
func UltimateBase(tab *symtab.Table, ref symtab.SymbolRef) symtab.SymbolRef {
	seen := map[symtab.SymbolRef]bool{}
	for {
		sym := tab.At(ref)
		if sym == nil {
			return ref
		}
		p, ok := sym.Type()
		if !ok || p.Discriminant != symtab.SubKindAlias {
			return ref
		}
		if seen[ref] {
			return ref // defensive: cyclic alias, should never happen
		}
		seen[ref] = true
		ref = p.Base
	}
}

// RequiresIntegerAlignment implements alignment policy:
// every type requires integer alignment unless it is char, or an
// array whose final (innermost) element type is char.
func RequiresIntegerAlignment(tab *symtab.Table, ref symtab.SymbolRef) bool {
	sym := tab.At(ref)
	if sym == nil {
		return true
	}
	switch sym.Kind {
	case symtab.KindChar:
		return false
	case symtab.KindArray:
		p, _ := sym.Type()
		return RequiresIntegerAlignment(tab, p.Base)
	default:
		return true
	}
}

// AlignOffset rounds offset up to the next even boundary if ref
// requires integer alignment, implementing the "round the current
// offset up to integer alignment before allocating" rule shared by
// record layout and variable declaration.
func AlignOffset(tab *symtab.Table, ref symtab.SymbolRef, offset int) int {
	if RequiresIntegerAlignment(tab, ref) && offset%2 != 0 {
		return offset + 1
	}
	return offset
}

// NewAlias creates `type A = B;`: a new symbol cross-referencing B's
// shape without copying it.
func NewAlias(tab *symtab.Table, pos diag.Pos, name string, level int, target symtab.SymbolRef) symtab.SymbolRef {
	targetSym := tab.At(target)
	if targetSym == nil {
		return symtab.NoSymbol
	}
	ref := tab.ReserveTypeDefinition(pos, name, level, targetSym.Kind, AllocSize(tab, target), target, symtab.NoSymbol)
	if p, ok := tab.At(ref).Type(); ok {
		p.RefSize = RefSize(tab, target)
		p.Discriminant = symtab.SubKindAlias
		if tp, ok := targetSym.Type(); ok {
			p.Min, p.Max = tp.Min, tp.Max
		}
	}
	return ref
}
