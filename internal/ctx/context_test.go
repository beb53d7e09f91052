package ctx

import (
	"testing"

	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/pcode"
	"github.com/pascalfe/pascalfe/internal/symtab"
	"github.com/pascalfe/pascalfe/internal/types"
)

func newTestContext() *CompilationContext {
	tab := symtab.New(nil)
	b := types.RegisterBuiltins(tab)
	e := pcode.New()
	return New(tab, b, e)
}

func TestMarkTruncateToRestoresAllFiveHighWaterMarks(t *testing.T) {
	c := newTestContext()
	c.DataOffset = 10
	c.Emitter.InternString("outer")
	c.Emitter.AddInitializer(0, 0, 0)

	m := c.Mark()

	c.Symbols.ReserveVariable(diag.Pos{}, "scratch", 1, symtab.KindInteger, 10, 2, symtab.NoSymbol)
	c.Emitter.InternString("inner")
	c.Emitter.AddInitializer(1, 1, 2)
	c.DataOffset = 20

	c.TruncateTo(m)

	if c.Symbols.Mark() != int(m.Symbol) {
		t.Fatalf("symbol table not truncated: Mark()=%d, want %d", c.Symbols.Mark(), m.Symbol)
	}
	if c.Emitter.RodataMark() != m.StringPool {
		t.Fatalf("rodata not truncated: got %d, want %d", c.Emitter.RodataMark(), m.StringPool)
	}
	if c.Emitter.InitMark() != m.Initializer {
		t.Fatalf("initializer list not truncated: got %d, want %d", c.Emitter.InitMark(), m.Initializer)
	}
	if c.DataOffset != m.DataOffset {
		t.Fatalf("DataOffset not restored: got %d, want %d", c.DataOffset, m.DataOffset)
	}
}

func TestWithStackPushPopOrdering(t *testing.T) {
	c := newTestContext()
	if _, ok := c.CurrentWith(); ok {
		t.Fatalf("expected no active with-binding initially")
	}
	c.PushWith(WithBinding{RecordVar: 1})
	c.PushWith(WithBinding{RecordVar: 2})
	top, ok := c.CurrentWith()
	if !ok || top.RecordVar != 2 {
		t.Fatalf("CurrentWith = %+v, ok=%v, want RecordVar=2", top, ok)
	}
	c.PopWith()
	top, ok = c.CurrentWith()
	if !ok || top.RecordVar != 1 {
		t.Fatalf("CurrentWith after pop = %+v, ok=%v, want RecordVar=1", top, ok)
	}
	c.PopWith()
	if _, ok := c.CurrentWith(); ok {
		t.Fatalf("expected no active with-binding after popping all")
	}
}

func TestShouldEmitGatesOnPerRoutineErrorCount(t *testing.T) {
	c := newTestContext()
	c.EnterRoutine()
	if !c.ShouldEmit() {
		t.Fatalf("fresh routine should be emittable")
	}
	c.NoteError()
	if c.ShouldEmit() {
		t.Fatalf("routine with a recorded error should not be emittable")
	}
	c.EnterRoutine()
	if !c.ShouldEmit() {
		t.Fatalf("entering a new routine should reset the error count")
	}
}

func TestAllocLocalAlignsAndAdvancesOffset(t *testing.T) {
	c := newTestContext()
	c.DataOffset = 1
	off := c.AllocLocal(2, true)
	if off != 2 {
		t.Fatalf("AllocLocal from odd offset with alignment = %d, want 2", off)
	}
	if c.DataOffset != 4 {
		t.Fatalf("DataOffset after alloc = %d, want 4", c.DataOffset)
	}

	off = c.AllocLocal(1, false)
	if off != 4 {
		t.Fatalf("AllocLocal without alignment = %d, want 4", off)
	}
	if c.DataOffset != 5 {
		t.Fatalf("DataOffset after unaligned alloc = %d, want 5", c.DataOffset)
	}
}
