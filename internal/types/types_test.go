package types

import (
	"testing"

	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/symtab"
)

func newTestTable() (*symtab.Table, *Builtins, *diag.Collector) {
	var col diag.Collector
	tab := symtab.New(&col)
	b := RegisterBuiltins(tab)
	return tab, b, &col
}

func TestRecordLayoutAlignsAndSumsToAllocSize(t *testing.T) {
	tab, b, _ := newTestTable()

	// record a: integer; b: char end -- a at 0, b at 2; maxEnd reaches
	// 3, then the record's own allocation is rounded up to integer
	// alignment, giving the total size 4.
	rb := NewRecordBuilder(tab, diag.Pos{}, "r", 0)
	fa := rb.AddField(diag.Pos{}, "a", b.Integer)
	fb := rb.AddField(diag.Pos{}, "b", b.Char)
	rec := rb.Finish()

	af, _ := tab.At(fa).Field()
	bf, _ := tab.At(fb).Field()
	if af.Offset != 0 {
		t.Fatalf("field a offset = %d, want 0", af.Offset)
	}
	if bf.Offset != 2 {
		t.Fatalf("field b offset = %d, want 2", bf.Offset)
	}
	if got := AllocSize(tab, rec); got != 4 {
		t.Fatalf("record alloc size = %d, want 4 (0..2 int, 2..3 char, aligned to 4)", got)
	}
}

func TestVariantRecordTakesMaxAcrossVariants(t *testing.T) {
	tab, b, _ := newTestTable()

	rb := NewRecordBuilder(tab, diag.Pos{}, "r", 0)
	rb.AddField(diag.Pos{}, "tag", b.Integer) // fixed part: offset 0..2
	rb.BeginVariantPart()

	rb.StartVariant()
	rb.AddField(diag.Pos{}, "small", b.Char) // variant 1: 2..3

	rb.StartVariant()
	rb.AddField(diag.Pos{}, "big", b.Real) // variant 2: 2..10 (aligned already)

	rec := rb.Finish()
	if got := AllocSize(tab, rec); got != 10 {
		t.Fatalf("variant record alloc size = %d, want 10 (max across variants)", got)
	}
}

func TestNewSubrangeRejectsLowGreaterThanHigh(t *testing.T) {
	tab, b, col := newTestTable()
	NewSubrange(tab, col, diag.Pos{}, "bad", 0, symtab.KindInteger, 10, 1, b.Integer)
	if !col.HasErrors() {
		t.Fatalf("expected a diagnostic for low > high")
	}
}

func TestNewSetClampsOversizedRange(t *testing.T) {
	tab, b, col := newTestTable()
	ref := NewSet(tab, col, diag.Pos{}, b.Integer, 0, 1000)
	if !col.HasErrors() {
		t.Fatalf("expected a range diagnostic for a set exceeding SetBits")
	}
	p, _ := tab.At(ref).Type()
	if p.Max-p.Min+1 != SetBits {
		t.Fatalf("clamped set range = %d, want %d", p.Max-p.Min+1, SetBits)
	}
}

func TestArrayDimensionsAndAllocSize(t *testing.T) {
	tab, b, col := newTestTable()
	dim1 := NewSubrange(tab, col, diag.Pos{}, "", 0, symtab.KindInteger, 1, 3, b.Integer)
	dim2 := NewSubrange(tab, col, diag.Pos{}, "", 0, symtab.KindInteger, 1, 4, b.Integer)

	arr := NewArray(tab, diag.Pos{}, []symtab.SymbolRef{dim1, dim2}, b.Integer)
	p, _ := tab.At(arr).Type()
	if p.Dimensions != 2 {
		t.Fatalf("Dimensions = %d, want 2", p.Dimensions)
	}
	// a: array[1..3, 1..4] of integer -- total = 3*4*2 = 24 bytes.
	if got := AllocSize(tab, arr); got != 24 {
		t.Fatalf("array alloc size = %d, want 24", got)
	}
}

func TestPointerToPointerRoundTrips(t *testing.T) {
	tab, b, _ := newTestTable()
	inner := NewPointer(tab, diag.Pos{}, "p1", 0, b.Integer)
	outer := NewPointer(tab, diag.Pos{}, "p2", 0, inner)
	if BaseType(tab, outer) != inner {
		t.Fatalf("outer pointer's base is not inner pointer")
	}
	if BaseType(tab, BaseType(tab, outer)) != b.Integer {
		t.Fatalf("pointer-to-pointer does not resolve back to integer")
	}
}

func TestRequiresIntegerAlignment(t *testing.T) {
	tab, b, col := newTestTable()
	charArray := NewArray(tab, diag.Pos{}, []symtab.SymbolRef{
		NewSubrange(tab, col, diag.Pos{}, "", 0, symtab.KindInteger, 1, 10, b.Integer),
	}, b.Char)

	if RequiresIntegerAlignment(tab, b.Char) {
		t.Fatalf("char must not require integer alignment")
	}
	if RequiresIntegerAlignment(tab, charArray) {
		t.Fatalf("array of char must not require integer alignment")
	}
	if !RequiresIntegerAlignment(tab, b.Integer) {
		t.Fatalf("integer must require integer alignment")
	}
}
