package symtab

import (
	"testing"

	"github.com/pascalfe/pascalfe/internal/diag"
)

func TestReserveAndLookup(t *testing.T) {
	tab := New(nil)
	intType := tab.ReserveTypeDefinition(diag.Pos{}, "integer", 0, KindInteger, 2, NoSymbol, NoSymbol)

	tests := []struct {
		name string
		want SymbolRef
	}{
		{"integer", intType},
		{"INTEGER", intType}, // Pascal identifiers are case-insensitive
		{"missing", NoSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tab.Lookup(tt.name)
			if tt.want == NoSymbol {
				if ok {
					t.Fatalf("Lookup(%q) = %v, want miss", tt.name, got)
				}
				return
			}
			if !ok || got != tt.want {
				t.Fatalf("Lookup(%q) = %v, %v; want %v, true", tt.name, got, ok, tt.want)
			}
		})
	}
}

func TestScopeTruncationIsAtomic(t *testing.T) {
	tab := New(nil)
	tab.ReserveTypeDefinition(diag.Pos{}, "integer", 0, KindInteger, 2, NoSymbol, NoSymbol)
	outerMark := tab.Mark()

	// Enter a nested scope and declare a few symbols.
	tab.ReserveVariable(diag.Pos{}, "x", 1, KindInteger, 0, 2, NoSymbol)
	tab.ReserveVariable(diag.Pos{}, "y", 1, KindInteger, 2, 2, NoSymbol)
	if tab.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tab.Len())
	}

	tab.TruncateTo(outerMark)
	if tab.Len() != 1 {
		t.Fatalf("Len() after truncate = %d, want 1", tab.Len())
	}
	if _, ok := tab.Lookup("x"); ok {
		t.Fatalf("Lookup(x) succeeded after scope truncation")
	}
	if _, ok := tab.Lookup("integer"); !ok {
		t.Fatalf("Lookup(integer) failed; outer scope should survive truncation")
	}
}

func TestLookupRestrictedSuppressesShadowing(t *testing.T) {
	tab := New(nil)
	outer := tab.ReserveVariable(diag.Pos{}, "x", 0, KindInteger, 0, 2, NoSymbol)
	_ = outer

	// At level 1, "x" is not yet declared in the current scope, so a
	// restricted lookup must miss even though an outer "x" exists.
	if _, ok := tab.LookupRestricted("x", 1); ok {
		t.Fatalf("LookupRestricted found the outer-scope symbol; redeclaration would wrongly reuse it")
	}

	inner := tab.ReserveVariable(diag.Pos{}, "x", 1, KindInteger, 0, 2, NoSymbol)
	got, ok := tab.LookupRestricted("x", 1)
	if !ok || got != inner {
		t.Fatalf("LookupRestricted(x, 1) = %v, %v; want %v, true", got, ok, inner)
	}

	// Unrestricted lookup still finds the innermost (shadowing) symbol.
	if got, _ := tab.Lookup("x"); got != inner {
		t.Fatalf("Lookup(x) = %v, want innermost %v", got, inner)
	}
}

func TestDuplicateDeclarationReportsAndRecovers(t *testing.T) {
	var col diag.Collector
	tab := New(&col)

	tab.ReserveVariable(diag.Pos{Line: 1}, "x", 0, KindInteger, 0, 2, NoSymbol)
	dup := tab.ReserveVariable(diag.Pos{Line: 2}, "x", 0, KindInteger, 2, 2, NoSymbol)

	if !col.HasErrors() {
		t.Fatalf("expected a duplicate-declaration diagnostic")
	}
	if s := tab.At(dup); s.Kind != KindUnknown {
		t.Fatalf("duplicate declaration did not insert the KindUnknown sentinel, got %v", s.Kind)
	}
}

func TestParametersFollowRoutineSymbol(t *testing.T) {
	tab := New(nil)
	proc := tab.ReserveProcedure(diag.Pos{}, "f", 0, KindFunction, 100, 2, NoSymbol)
	p1 := tab.ReserveVariable(diag.Pos{}, "a", 1, KindInteger, -4, 2, NoSymbol)
	p2 := tab.ReserveVariable(diag.Pos{}, "b", 1, KindInteger, -6, 2, NoSymbol)

	rp, ok := tab.At(proc).Routine()
	if !ok {
		t.Fatalf("proc symbol has no RoutinePayload")
	}
	if rp.ParamCount != 2 {
		t.Fatalf("ParamCount = %d, want 2", rp.ParamCount)
	}
	if int(p1) != int(proc)+1 || int(p2) != int(proc)+2 {
		t.Fatalf("parameters are not contiguous after the routine symbol: proc=%d p1=%d p2=%d", proc, p1, p2)
	}
}

func TestVerifyLabelsDefined(t *testing.T) {
	var col diag.Collector
	tab := New(&col)
	mark := tab.Mark()
	undefined := tab.ReserveLabel(diag.Pos{}, "99", 1, 99)
	defined := tab.ReserveLabel(diag.Pos{}, "100", 1, 100)
	tab.DefineLabel(defined)

	tab.VerifyLabelsDefined(diag.Pos{}, mark)
	if !col.HasErrors() {
		t.Fatalf("expected an undefined-label diagnostic")
	}
	if col.Count() != 1 {
		t.Fatalf("Count() = %d, want exactly one diagnostic (only %q is undefined)", col.Count(), tab.At(undefined).Name)
	}
}
