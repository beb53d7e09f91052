package types

import (
	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/symtab"
)

// NewEnum builds `(a, b, c)`: a scalar type whose members get
// consecutive ordinal values starting at 0, caching the max.
func NewEnum(tab *symtab.Table, pos diag.Pos, name string, level int, members []string) (symtab.SymbolRef, []symtab.SymbolRef) {
	ref := tab.ReserveTypeDefinition(pos, name, level, symtab.KindScalar, WordSize, symtab.NoSymbol, symtab.NoSymbol)
	p, _ := tab.At(ref).Type()
	p.Discriminant = symtab.SubKindEnum
	p.Min = 0
	p.Max = int64(len(members) - 1)

	memberRefs := make([]symtab.SymbolRef, len(members))
	for i, m := range members {
		memberRefs[i] = tab.ReserveEnumMember(pos, m, level, i, ref)
	}
	return ref, memberRefs
}

// NewSubrange builds `low..high`. base must be the same ordinal kind
// for both bounds (both integer-family, both char, or both members of
// the same enum). low must not exceed high.
func NewSubrange(tab *symtab.Table, d *diag.Collector, pos diag.Pos, name string, level int, baseKind symtab.Kind, low, high int64, baseType symtab.SymbolRef) symtab.SymbolRef {
	if low > high {
		if d != nil {
			d.Report(diag.CategoryDeclaration, pos, diag.ErrInvalidSubrange, "")
		}
		high = low
	}
	size := WordSize
	switch baseKind {
	case symtab.KindChar:
		size = CharSize
	case symtab.KindShortInt, symtab.KindShortWord:
		size = ShortSize
	case symtab.KindLongInt, symtab.KindLongWord:
		size = LongSize
	}
	ref := tab.ReserveTypeDefinition(pos, name, level, symtab.KindSubrange, size, baseType, symtab.NoSymbol)
	p, _ := tab.At(ref).Type()
	p.Discriminant = symtab.SubKindSubrange
	p.Min, p.Max = low, high
	return ref
}

// NewPointer builds `^T`. T may not yet be defined (the recursive
// pointer case): callers pass symtab.NoSymbol for pointee and patch it
// in once T's symbol exists.
func NewPointer(tab *symtab.Table, pos diag.Pos, name string, level int, pointee symtab.SymbolRef) symtab.SymbolRef {
	ref := tab.ReserveTypeDefinition(pos, name, level, symtab.KindPointer, PointerSize, pointee, symtab.NoSymbol)
	p, _ := tab.At(ref).Type()
	p.Discriminant = symtab.SubKindPointer
	return ref
}

// PatchPointee resolves a forward-declared pointer's pointee once the
// referenced type's symbol exists.
func PatchPointee(tab *symtab.Table, ptr, pointee symtab.SymbolRef) {
	if p, ok := tab.At(ptr).Type(); ok {
		p.Base = pointee
	}
}

// NewArray builds `array[i1, i2, ...] of elem`, nesting one anonymous
// array type per dimension from the innermost outward so that
// Dimensions counts remaining index positions and each dimension's
// allocation is the product of the inner allocation and its own
// element count. indexTypes must each be ordinal; the returned
// Dimensions on the outermost type equals len(indexTypes).
func NewArray(tab *symtab.Table, pos diag.Pos, indexTypes []symtab.SymbolRef, elemType symtab.SymbolRef) symtab.SymbolRef {
	cur := elemType
	for i := len(indexTypes) - 1; i >= 0; i-- {
		idx := indexTypes[i]
		idxP, _ := tab.At(idx).Type()
		count := int(idxP.Max-idxP.Min) + 1
		innerSize := AllocSize(tab, cur)
		ref := tab.ReserveTypeDefinition(pos, "", 0, symtab.KindArray, count*innerSize, cur, idx)
		p, _ := tab.At(ref).Type()
		p.Discriminant = symtab.SubKindArray
		p.Dimensions = len(indexTypes) - i
		p.RefSize = p.AllocSize
		cur = ref
	}
	return cur
}

// NewSet builds `set of ordinalType`. If the element range exceeds
// SetBits, the range is clamped and a diagnostic reported.
func NewSet(tab *symtab.Table, d *diag.Collector, pos diag.Pos, elemType symtab.SymbolRef, min, max int64) symtab.SymbolRef {
	if max-min+1 > SetBits {
		if d != nil {
			d.Report(diag.CategoryDeclaration, pos, diag.ErrSetElementOutOfRange, "")
		}
		max = min + SetBits - 1
	}
	ref := tab.ReserveTypeDefinition(pos, "", 0, symtab.KindSet, SetBytes, elemType, symtab.NoSymbol)
	p, _ := tab.At(ref).Type()
	p.Discriminant = symtab.SubKindSet
	p.Min, p.Max = min, max
	p.RefSize = SetBytes
	return ref
}

// NewFile builds `file of T` (isText false) or `text` (isText true,
// T is implicitly char). The transfer unit is the element's
// allocation size, or char size for text files.
func NewFile(tab *symtab.Table, pos diag.Pos, elemType symtab.SymbolRef, isText bool) symtab.SymbolRef {
	kind := symtab.KindFile
	transferUnit := AllocSize(tab, elemType)
	if isText {
		kind = symtab.KindTextFile
		transferUnit = CharSize
	}
	ref := tab.ReserveTypeDefinition(pos, "", 0, kind, WordSize, elemType, symtab.NoSymbol)
	p, _ := tab.At(ref).Type()
	p.Discriminant = symtab.SubKindFile
	p.Min = int64(transferUnit)
	return ref
}

// TransferUnit returns the file type's natural read/write size.
func TransferUnit(tab *symtab.Table, fileType symtab.SymbolRef) int {
	if p, ok := tab.At(fileType).Type(); ok {
		return int(p.Min)
	}
	return 0
}

// RecordBuilder assembles a record type's fields and variant part
// incrementally, implementing item 3's layout rule: each
// `case` variant resets the offset to the post-fixed-part high-water
// mark, and the record's final allocation is the max across variants.
type RecordBuilder struct {
	tab      *symtab.Table
	ref      symtab.SymbolRef
	offset   int // current layout cursor
	fixedEnd int // offset right after the fixed part, where every variant restarts
	maxEnd   int // largest offset reached by any variant (or the fixed part alone)
	variants bool
}

// NewRecordBuilder reserves the record type symbol and returns a
// builder for its fields.
func NewRecordBuilder(tab *symtab.Table, pos diag.Pos, name string, level int) *RecordBuilder {
	ref := tab.ReserveTypeDefinition(pos, name, level, symtab.KindRecord, 0, symtab.NoSymbol, symtab.NoSymbol)
	if p, ok := tab.At(ref).Type(); ok {
		p.Discriminant = symtab.SubKindRecord
	}
	return &RecordBuilder{tab: tab, ref: ref}
}

// Type returns the record type symbol being built.
func (b *RecordBuilder) Type() symtab.SymbolRef { return b.ref }

// AddField lays out one fixed or per-variant field, aligning the
// cursor first if fieldType requires it.
func (b *RecordBuilder) AddField(pos diag.Pos, name string, fieldType symtab.SymbolRef) symtab.SymbolRef {
	b.offset = AlignOffset(b.tab, fieldType, b.offset)
	size := AllocSize(b.tab, fieldType)
	field := b.tab.ReserveRecordField(pos, name, 0, b.offset, size, b.ref, fieldType)
	b.offset += size
	if b.offset > b.maxEnd {
		b.maxEnd = b.offset
	}
	return field
}

// BeginVariantPart marks the end of the record's fixed part; every
// subsequent variant's fields start from here.
func (b *RecordBuilder) BeginVariantPart() {
	b.fixedEnd = b.offset
	b.variants = true
}

// StartVariant resets the layout cursor to the start of the variant
// part, so each `case` alternative overlaps the others in storage.
func (b *RecordBuilder) StartVariant() {
	b.offset = b.fixedEnd
}

// Finish commits the record's final allocation size: the maximum
// offset reached by the fixed part or any variant, rounded up to
// integer alignment since a record (unlike char or array-of-char)
// always requires it when allocated as a field or array element
// elsewhere.
func (b *RecordBuilder) Finish() symtab.SymbolRef {
	size := b.maxEnd
	if size%2 != 0 {
		size++
	}
	p, _ := b.tab.At(b.ref).Type()
	p.AllocSize = size
	p.RefSize = size
	p.VariantSize = b.variants
	return b.ref
}
