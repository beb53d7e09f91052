package compiler

import (
	"strings"
	"testing"

	"github.com/pascalfe/pascalfe/internal/pcode"
)

func compileOK(t *testing.T, src string) *pcode.Module {
	t.Helper()
	mod, diags, err := Compile(strings.NewReader(src), "test.pas")
	if err != nil {
		t.Fatalf("Compile returned I/O error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return mod
}

func opsOf(mod *pcode.Module) []pcode.Op {
	ops := make([]pcode.Op, len(mod.Code))
	for i, in := range mod.Code {
		ops[i] = in.Op
	}
	return ops
}

func findFirst(mod *pcode.Module, op pcode.Op) (pcode.Instr, bool) {
	for _, in := range mod.Code {
		if in.Op == op {
			return in, true
		}
	}
	return pcode.Instr{}, false
}

func countOp(mod *pcode.Module, op pcode.Op) int {
	n := 0
	for _, in := range mod.Code {
		if in.Op == op {
			n++
		}
	}
	return n
}

// Scenario 1: `i := 1 + 2` at level 0 offset 0, entry
// point present.
func TestCompileScenario1_IntegerAssignment(t *testing.T) {
	mod := compileOK(t, `program p; var i:integer; begin i:=1+2 end.`)
	if !mod.HasEntry {
		t.Fatal("expected HasEntry")
	}
	store, ok := findFirst(mod, pcode.OpStoreVar)
	if !ok {
		t.Fatal("expected a store instruction")
	}
	if store.Level != 0 || store.Offset != 0 {
		t.Fatalf("expected store at level 0 offset 0, got level=%d offset=%d", store.Level, store.Offset)
	}
	if countOp(mod, pcode.OpAdd) != 1 {
		t.Fatalf("expected exactly one add, got ops=%v", opsOf(mod))
	}
	if countOp(mod, pcode.OpPushImmediate) != 2 {
		t.Fatalf("expected two immediate pushes (1 and 2), got ops=%v", opsOf(mod))
	}
}

// Scenario 2: record field stores at offset 0 (x.a) and
// offset 2 (x.b, after integer alignment pads past the 2-byte integer
// field).
func TestCompileScenario2_RecordFieldAssignment(t *testing.T) {
	mod := compileOK(t, `program p; type r = record a:integer; b:char end; var x:r; begin x.a:=5; x.b:='z' end.`)

	var stores []pcode.Instr
	for _, in := range mod.Code {
		if in.Op == pcode.OpStoreVar {
			stores = append(stores, in)
		}
	}
	if len(stores) != 2 {
		t.Fatalf("expected exactly two field stores, got %d: %v", len(stores), stores)
	}
	if stores[0].Offset != 0 {
		t.Fatalf("expected x.a store at offset 0, got %d", stores[0].Offset)
	}
	if stores[1].Offset != 2 {
		t.Fatalf("expected x.b store at offset 2 (after integer alignment), got %d", stores[1].Offset)
	}
}

// Scenario 3: a set constructor of literal members assigned to a set
// variable — a single store. The constructor is built at run time
// (set_empty, then set_add / set_add_range per element); literal
// members are not folded into a compile-time constant set.
func TestCompileScenario3_SetConstant(t *testing.T) {
	mod := compileOK(t, `program p; var s:set of 'A'..'E'; begin s := ['A','C'..'E'] end.`)
	if countOp(mod, pcode.OpStoreVar) != 1 {
		t.Fatalf("expected exactly one store, got ops=%v", opsOf(mod))
	}
}

// Scenario 4: a VAR parameter passes an address, the
// function's hidden result local is written, and the caller stores the
// call's result into y.
func TestCompileScenario4_VarParamFunctionCall(t *testing.T) {
	mod := compileOK(t, `program p; function f(var a:integer):integer; begin f:=a+1 end; var x,y:integer; begin x:=3; y:=f(x) end.`)
	if countOp(mod, pcode.OpCall) != 1 {
		t.Fatalf("expected exactly one call, got ops=%v", opsOf(mod))
	}
	if countOp(mod, pcode.OpLoadAddress) != 1 {
		t.Fatalf("expected exactly one load-address (the VAR actual), got ops=%v", opsOf(mod))
	}
	if countOp(mod, pcode.OpStoreVar) < 3 {
		t.Fatalf("expected at least 3 stores (x, f's result, y), got ops=%v", opsOf(mod))
	}
}

// Scenario 5: two-dimensional array indexing, a[2,3]:=7,
// computes offset ((2-1)*4 + (3-1))*2 = 12 via runtime arithmetic
// (subtract low bound, multiply by inner-dimension stride, accumulate).
func TestCompileScenario5_ArrayIndexing(t *testing.T) {
	mod := compileOK(t, `program p; var a:array[1..3,1..4] of integer; begin a[2,3]:=7 end.`)
	if countOp(mod, pcode.OpSub) < 2 {
		t.Fatalf("expected at least 2 subtractions (one per dimension's low-bound rebase), got ops=%v", opsOf(mod))
	}
	if countOp(mod, pcode.OpMul) < 2 {
		t.Fatalf("expected at least 2 multiplications (one per dimension's stride), got ops=%v", opsOf(mod))
	}
	if countOp(mod, pcode.OpAdd) < 1 {
		t.Fatalf("expected at least 1 addition combining the two dimensions, got ops=%v", opsOf(mod))
	}
	if countOp(mod, pcode.OpStoreVar) != 1 {
		t.Fatalf("expected exactly one indexed store, got ops=%v", opsOf(mod))
	}
}

// Scenario 6: nil unifies with a concrete pointer type
// in a comparison, and a self-referential record (list -> node ->
// list) resolves via the pending-pointer-patch mechanism without
// reporting an undeclared-identifier error.
func TestCompileScenario6_PointerUnification(t *testing.T) {
	mod := compileOK(t, `program p; type list=^node; node=record v:integer; next:list end; var h:list; begin h:=nil; if h=nil then h:=h end.`)
	if countOp(mod, pcode.OpEqual) != 1 {
		t.Fatalf("expected exactly one equality comparison, got ops=%v", opsOf(mod))
	}
	if countOp(mod, pcode.OpJumpFalse) != 1 {
		t.Fatalf("expected exactly one conditional jump for the if, got ops=%v", opsOf(mod))
	}
}

func TestCompileUnit(t *testing.T) {
	mod := compileOK(t, `unit u; interface procedure p; implementation procedure p; begin end; end.`)
	if len(mod.Exports) != 1 || mod.Exports[0] != "p" {
		t.Fatalf("expected p exported, got exports=%v", mod.Exports)
	}
}

func TestCompileDiagnosticsOnUndeclaredIdentifier(t *testing.T) {
	_, diags, err := Compile(strings.NewReader(`program p; begin x:=1 end.`), "bad.pas")
	if err != nil {
		t.Fatalf("Compile returned I/O error: %v", err)
	}
	if len(diags) == 0 {
		t.Fatal("expected a diagnostic for the undeclared identifier x")
	}
}
