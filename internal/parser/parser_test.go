package parser

import (
	"testing"

	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/symtab"
)

func newParser(t *testing.T, src string) *Parser {
	t.Helper()
	return New("test.pas", []byte(src))
}

func TestNewPrimesBuiltins(t *testing.T) {
	p := newParser(t, "")
	if p.Ctx.Builtins.Integer == symtab.NoSymbol {
		t.Fatal("expected Integer builtin to be registered")
	}
	ref, ok := p.Table.Lookup("integer")
	if !ok || ref != p.Ctx.Builtins.Integer {
		t.Fatalf("Lookup(integer) = %v, %v; want %v, true", ref, ok, p.Ctx.Builtins.Integer)
	}
}

func TestParseConstDeclarationsFoldsEachKind(t *testing.T) {
	p := newParser(t, "const a = 1; b = 2.5; c = 'x'; d = true;")
	p.Stream.Advance() // consume 'const'
	p.parseConstDeclarations(0)

	ref, ok := p.Table.Lookup("a")
	if !ok {
		t.Fatal("expected constant a to be declared")
	}
	cp, ok := p.Table.At(ref).Constant()
	if !ok || cp.IntVal != 1 {
		t.Fatalf("a: got %v, %v; want IntVal=1", cp, ok)
	}

	ref, ok = p.Table.Lookup("b")
	if !ok {
		t.Fatal("expected constant b to be declared")
	}
	cp, ok = p.Table.At(ref).Constant()
	if !ok || cp.RealVal != 2.5 {
		t.Fatalf("b: got %v, %v; want RealVal=2.5", cp, ok)
	}

	if _, ok := p.Table.Lookup("c"); !ok {
		t.Fatal("expected constant c to be declared")
	}
	if _, ok := p.Table.Lookup("d"); !ok {
		t.Fatal("expected constant d to be declared")
	}
}

func TestParseConstDeclarationsEarlierConstantVisibleToLater(t *testing.T) {
	p := newParser(t, "const low = 1; high = low + 9;")
	p.Stream.Advance()
	p.parseConstDeclarations(0)

	ref, ok := p.Table.Lookup("high")
	if !ok {
		t.Fatal("expected constant high to be declared")
	}
	cp, ok := p.Table.At(ref).Constant()
	if !ok || cp.IntVal != 10 {
		t.Fatalf("high: got %v, %v; want IntVal=10", cp, ok)
	}
}

func TestParseVarDeclarationsAssignsGrowingOffsets(t *testing.T) {
	p := newParser(t, "var i, j: integer; f: char;")
	p.Stream.Advance() // consume 'var'
	p.parseVarDeclarations(0)

	iRef, ok := p.Table.Lookup("i")
	if !ok {
		t.Fatal("expected i to be declared")
	}
	jRef, ok := p.Table.Lookup("j")
	if !ok {
		t.Fatal("expected j to be declared")
	}
	fRef, ok := p.Table.Lookup("f")
	if !ok {
		t.Fatal("expected f to be declared")
	}

	iv, _ := p.Table.At(iRef).Variable()
	jv, _ := p.Table.At(jRef).Variable()
	fv, _ := p.Table.At(fRef).Variable()

	if iv.Offset >= jv.Offset {
		t.Fatalf("expected i's offset (%d) before j's (%d)", iv.Offset, jv.Offset)
	}
	if jv.Offset >= fv.Offset {
		t.Fatalf("expected j's offset (%d) before f's (%d)", jv.Offset, fv.Offset)
	}
}

func TestParseTypeDeclarationsRecursivePointerResolves(t *testing.T) {
	p := newParser(t, "type node = record val: integer; next: ^node end;")
	p.Stream.Advance() // consume 'type'
	p.parseTypeDeclarations(0)

	if len(p.pendingPointerPatches) != 0 {
		t.Fatalf("expected all pointer patches resolved, got %d pending", len(p.pendingPointerPatches))
	}
	if p.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", p.Diags.All())
	}

	ref, ok := p.Table.Lookup("node")
	if !ok {
		t.Fatal("expected node type to be declared")
	}
	_, ok = p.Table.At(ref).Type()
	if !ok {
		t.Fatal("expected node to carry a TypePayload")
	}
	if p.Table.At(ref).Kind != symtab.KindRecord {
		t.Fatalf("node.Kind = %v, want KindRecord", p.Table.At(ref).Kind)
	}
}

func TestLabelNameMatchesStrconv(t *testing.T) {
	cases := []struct {
		n    int32
		want string
	}{
		{0, "0"},
		{7, "7"},
		{42, "42"},
		{1000, "1000"},
	}
	for _, c := range cases {
		if got := labelName(c.n); got != c.want {
			t.Errorf("labelName(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestIdentNameReportsSyntaxErrorOnNonIdent(t *testing.T) {
	p := newParser(t, "123")
	name := p.identName()
	if name != "" {
		t.Fatalf("identName() on a non-identifier = %q, want \"\"", name)
	}
	if !p.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for the missing identifier")
	}
	d := p.Diags.All()[0]
	if d.Category != diag.CategorySyntactic {
		t.Fatalf("category = %v, want CategorySyntactic", d.Category)
	}
}

func TestParseDeclarationsUndeclaredTypeReportsOnce(t *testing.T) {
	p := newParser(t, "var x: nosuchtype;")
	p.Stream.Advance()
	p.parseVarDeclarations(0)

	if p.Diags.Count() != 1 {
		t.Fatalf("expected exactly one undeclared-identifier diagnostic, got %v", p.Diags.All())
	}
	ref, ok := p.Table.Lookup("x")
	if !ok {
		t.Fatal("expected x to still be declared despite the bad type, so parsing can continue")
	}
	v, ok := p.Table.At(ref).Variable()
	if !ok {
		t.Fatal("expected x to carry a VariablePayload")
	}
	if v.Type != p.Ctx.Builtins.Integer {
		t.Fatalf("expected x to fall back to the Integer builtin, got %v", v.Type)
	}
}

func TestGotoBeforeLabelDefinitionSharesTarget(t *testing.T) {
	p := newParser(t, "label 1; begin goto 1; 1: end")
	p.Stream.Advance() // consume 'label'
	p.parseLabelDeclarations(0)

	ref, ok := p.Table.Lookup("1")
	if !ok {
		t.Fatal("expected label 1 to be declared")
	}

	p.parseCompoundStatement(0)

	lp, ok := p.Table.At(ref).Label()
	if !ok {
		t.Fatal("expected ref to carry a LabelPayload")
	}
	if !lp.Defined {
		t.Fatal("expected the label to be marked Defined once its statement was parsed")
	}
	if lp.Target == 0 {
		t.Fatal("expected a non-zero p-code label id to have been assigned")
	}
}
