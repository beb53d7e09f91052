// Package ctx holds CompilationContext, the single struct every
// parser function threads explicitly instead of reaching for a
// package-level variable: five pieces of mutable state (the current
// expression's abstract type, the active with-statement binding, the
// constant folder's last result, the level-zero program's file symbol,
// and the data-stack high-water mark) plus the five scoped high-water
// marks a block saves and restores on entry and exit.
// CompilationContext is where all of it actually lives for the
// lifetime of one compilation.
package ctx

import (
	"github.com/pascalfe/pascalfe/internal/pcode"
	"github.com/pascalfe/pascalfe/internal/symtab"
	"github.com/pascalfe/pascalfe/internal/types"
)

// WithBinding records one active with-statement's record variable, so
// the expression evaluator can resolve a bare field name against it
// ("with-statement thread-local record binding").
type WithBinding struct {
	RecordVar symtab.SymbolRef // the bound record variable (or var-parameter) symbol
	Level     int32
	Offset    int32
	Indirect  bool // true if RecordVar is itself a pointer/var-parameter needing a dereference
}

// Marks is the five-high-water-mark snapshot a block saves on entry
// and restores on exit ("Block lifecycle").
type Marks struct {
	Symbol      symtab.SymbolRef
	Constant    int
	Initializer int
	StringPool  int
	DataOffset  int32
}

// CompilationContext is the explicit replacement for every mutable
// global original design relies on. One instance is created
// per compilation and threaded through the parser, declaration, and
// expression-evaluation functions by pointer.
type CompilationContext struct {
	Symbols  *symtab.Table
	Builtins *types.Builtins
	Emitter  *pcode.Emitter

	// CurrentExprType holds the type of the expression the evaluator
	// most recently reduced,
	// consulted by callers that need it without threading an extra
	// return value through every grammar production.
	CurrentExprType types.ExprType

	// WithStack is the active stack of with-statement bindings;
	// nested with-statements push, the statement parser pops on exit.
	WithStack []WithBinding

	// FoldResult is the constant folder's last computed value, read by
	// declaration parsers that need a constant's value immediately
	// after requesting it be folded.
	FoldResult FoldValue

	// Level0File is the slot for the implicit program-level file
	// (standard output). New sets it to NoSymbol and the parser does
	// not assign it.
	Level0File symtab.SymbolRef

	// DataOffset is the current data-stack high-water mark for the
	// block being compiled: the offset the next declared variable in
	// this scope receives, non-decreasing within one block per
	// invariant 5.
	DataOffset int32

	// Level is the current lexical nesting depth: 0 for the program
	// block, incrementing across each nested procedure/function.
	Level int32

	errorsInCurrentRoutine int
}

// FoldKind discriminates the kind of value FoldValue carries, mirroring
// the constant-folder's five literal kinds.
type FoldKind int

const (
	FoldInt FoldKind = iota
	FoldReal
	FoldChar
	FoldBool
	FoldString
	FoldSet
)

// FoldValue is one constant folder result.
type FoldValue struct {
	Kind    FoldKind
	IntVal  int64
	RealVal float64
	StrVal  string
	SetVal  []int64 // sorted, de-duplicated ordinal members
	Type    types.ExprType
}

// New creates a CompilationContext ready to compile a level-0 program
// block: an empty symbol table already carrying the registered
// builtins, a fresh emitter, and the data-stack offset reset to zero.
func New(symbols *symtab.Table, builtins *types.Builtins, emitter *pcode.Emitter) *CompilationContext {
	return &CompilationContext{
		Symbols:    symbols,
		Builtins:   builtins,
		Emitter:    emitter,
		Level0File: symtab.NoSymbol,
	}
}

// Mark snapshots the five high-water marks a block's lifecycle needs,
// to be restored by TruncateTo when the block's scope exits. Constant
// mirrors Symbol: constants are reserved as ordinary symbols in the
// unified table rather than a separate pool, so discarding the
// symbol-table tail already discards them. The field stays distinct
// from Symbol to keep the two marks independently nameable.
func (c *CompilationContext) Mark() Marks {
	sym := c.Symbols.Mark()
	return Marks{
		Symbol:      symtab.SymbolRef(sym),
		Constant:    sym,
		Initializer: c.Emitter.InitMark(),
		StringPool:  c.Emitter.RodataMark(),
		DataOffset:  c.DataOffset,
	}
}

// TruncateTo restores everything Mark snapshotted: the symbol table,
// the emitter's rodata and initializer lists, and the data-stack
// offset, atomically from the caller's point of view.
func (c *CompilationContext) TruncateTo(m Marks) {
	c.Symbols.TruncateTo(int(m.Symbol))
	c.Emitter.TruncateInitializers(m.Initializer)
	c.Emitter.TruncateRodata(m.StringPool)
	c.DataOffset = m.DataOffset
}

// PushWith enters a with-statement's scope.
func (c *CompilationContext) PushWith(b WithBinding) { c.WithStack = append(c.WithStack, b) }

// PopWith leaves the innermost active with-statement's scope.
func (c *CompilationContext) PopWith() {
	if len(c.WithStack) == 0 {
		return
	}
	c.WithStack = c.WithStack[:len(c.WithStack)-1]
}

// CurrentWith returns the innermost active with-binding, or false if
// no with-statement is currently open.
func (c *CompilationContext) CurrentWith() (WithBinding, bool) {
	if len(c.WithStack) == 0 {
		return WithBinding{}, false
	}
	return c.WithStack[len(c.WithStack)-1], true
}

// EnterRoutine resets the per-routine error counter that gates
// suppressing p-code emission for routines with accumulated errors.
func (c *CompilationContext) EnterRoutine() { c.errorsInCurrentRoutine = 0 }

// NoteError records that an error occurred while compiling the
// current routine.
func (c *CompilationContext) NoteError() { c.errorsInCurrentRoutine++ }

// ShouldEmit reports whether the current routine is still clean enough
// to have its p-code emitted.
func (c *CompilationContext) ShouldEmit() bool { return c.errorsInCurrentRoutine == 0 }

// AllocLocal advances DataOffset by size, rounded to alignment, and
// returns the offset the new local/parameter occupies.
func (c *CompilationContext) AllocLocal(size int, alignToInteger bool) int32 {
	off := c.DataOffset
	if alignToInteger && off%2 != 0 {
		off++
	}
	c.DataOffset = off + int32(size)
	return off
}
