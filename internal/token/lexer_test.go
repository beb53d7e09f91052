package token

import "testing"

func scanAll(src string) []Token {
	l := NewLexer("t.pas", []byte(src), nil)
	var toks []Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == EOF {
			return toks
		}
	}
}

func TestScanIdentifiersAndKeywordsAreCaseInsensitive(t *testing.T) {
	toks := scanAll("BEGIN foo End")
	if toks[0].Kind != KwBegin {
		t.Fatalf("BEGIN scanned as %v, want KwBegin", toks[0].Kind)
	}
	if toks[1].Kind != Ident || toks[1].SVal != "foo" {
		t.Fatalf("foo scanned as %+v, want Ident(foo)", toks[1])
	}
	if toks[2].Kind != KwEnd {
		t.Fatalf("End scanned as %v, want KwEnd", toks[2].Kind)
	}
}

func TestScanIntegerAndRealLiterals(t *testing.T) {
	toks := scanAll("42 3.14 2e10 1.5e-3")
	if toks[0].Kind != IntLiteral || toks[0].IVal != 42 {
		t.Fatalf("got %+v, want IntLiteral(42)", toks[0])
	}
	if toks[1].Kind != RealLiteral || toks[1].RVal != 3.14 {
		t.Fatalf("got %+v, want RealLiteral(3.14)", toks[1])
	}
	if toks[2].Kind != RealLiteral {
		t.Fatalf("2e10 scanned as %v, want RealLiteral", toks[2].Kind)
	}
	if toks[3].Kind != RealLiteral {
		t.Fatalf("1.5e-3 scanned as %v, want RealLiteral", toks[3].Kind)
	}
}

func TestScanCharVsStringLiteral(t *testing.T) {
	toks := scanAll(`'A' 'hello' 'it''s'`)
	if toks[0].Kind != CharLiteral || toks[0].SVal != "A" {
		t.Fatalf("got %+v, want CharLiteral(A)", toks[0])
	}
	if toks[1].Kind != StringLiteral || toks[1].SVal != "hello" {
		t.Fatalf("got %+v, want StringLiteral(hello)", toks[1])
	}
	if toks[2].Kind != StringLiteral || toks[2].SVal != "it's" {
		t.Fatalf("doubled-quote escape: got %+v, want StringLiteral(it's)", toks[2])
	}
}

func TestScanTwoCharOperators(t *testing.T) {
	toks := scanAll(":= <> <= >= .. ><")
	want := []Kind{Assign, NotEqual, LessEq, GreaterEq, DotDot, SymDiff}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestSkipsBraceParenStarAndLineComments(t *testing.T) {
	toks := scanAll("a { ignored } b (* also ignored *) c // trailing\nd")
	var idents []string
	for _, tk := range toks {
		if tk.Kind == Ident {
			idents = append(idents, tk.SVal)
		}
	}
	want := []string{"a", "b", "c", "d"}
	if len(idents) != len(want) {
		t.Fatalf("idents = %v, want %v", idents, want)
	}
	for i := range want {
		if idents[i] != want[i] {
			t.Fatalf("idents[%d] = %q, want %q", i, idents[i], want[i])
		}
	}
}

func TestStreamAdvanceTracksCurrent(t *testing.T) {
	l := NewLexer("t.pas", []byte("begin end"), nil)
	s := NewStream(l, nil)
	if s.Current().Kind != KwBegin {
		t.Fatalf("initial Current = %v, want KwBegin", s.Current().Kind)
	}
	prev := s.Advance()
	if prev.Kind != KwBegin {
		t.Fatalf("Advance returned %v, want the consumed KwBegin", prev.Kind)
	}
	if s.Current().Kind != KwEnd {
		t.Fatalf("Current after Advance = %v, want KwEnd", s.Current().Kind)
	}
}
