package pcode

import "testing"

func TestInternStringReusesIdenticalLiterals(t *testing.T) {
	e := New()
	a := e.InternString("hello")
	b := e.InternString("world")
	c := e.InternString("hello")
	if a != c {
		t.Fatalf("InternString(\"hello\") twice gave different offsets: %d, %d", a, c)
	}
	if a == b {
		t.Fatalf("two distinct literals got the same offset")
	}
}

func TestRodataMarkTruncateRoundTrips(t *testing.T) {
	e := New()
	e.InternString("outer")
	mark := e.RodataMark()
	e.InternString("inner-scope-only")
	if e.RodataMark() == mark {
		t.Fatalf("RodataMark did not advance after interning")
	}
	e.TruncateRodata(mark)
	if e.RodataMark() != mark {
		t.Fatalf("TruncateRodata did not restore the mark")
	}
	// The outer string must still resolve to the same offset.
	if got := e.InternString("outer"); int(got) != 0 {
		t.Fatalf("InternString(\"outer\") after truncation = %d, want 0", got)
	}
}

func TestInitializerScopeDiscipline(t *testing.T) {
	e := New()
	e.AddInitializer(InitString, 0, 0)
	mark := e.InitMark()
	e.AddInitializer(InitFile, 1, 4)
	if len(e.InitializersSince(mark)) != 1 {
		t.Fatalf("expected exactly one initializer since mark")
	}
	e.TruncateInitializers(mark)
	if e.InitMark() != mark {
		t.Fatalf("TruncateInitializers did not restore the mark")
	}
}

func TestLabelsAreMonotonicAndDistinct(t *testing.T) {
	e := New()
	seen := map[int32]bool{}
	for i := 0; i < 5; i++ {
		l := e.NewLabel()
		if seen[l] {
			t.Fatalf("label %d reused", l)
		}
		seen[l] = true
	}
}

func TestModuleEncodeDecodeRoundTrip(t *testing.T) {
	e := New()
	entry := e.NewLabel()
	e.PlaceLabel(entry)
	e.PushImmediate(1)
	e.PushImmediate(2)
	e.Arithmetic(OpAdd, ClassInteger)
	e.StoreVar(0, 0, false, WidthWord, true)
	e.Simple(OpReturn)
	e.ExportSymbol("main")
	off := e.InternString("hi")
	_ = off

	m := Build(e, "prog", true, entry)
	encoded := m.Encode()

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Name != "prog" {
		t.Fatalf("Name = %q, want prog", decoded.Name)
	}
	if !decoded.HasEntry || decoded.EntryLabel != entry {
		t.Fatalf("entry point not preserved: HasEntry=%v EntryLabel=%d", decoded.HasEntry, decoded.EntryLabel)
	}
	if len(decoded.Code) != len(m.Code) {
		t.Fatalf("Code length = %d, want %d", len(decoded.Code), len(m.Code))
	}
	for i := range m.Code {
		if decoded.Code[i] != m.Code[i] {
			t.Fatalf("instruction %d mismatch: got %+v, want %+v", i, decoded.Code[i], m.Code[i])
		}
	}
	if string(decoded.Rodata) != "hi" {
		t.Fatalf("Rodata = %q, want %q", decoded.Rodata, "hi")
	}
	if len(decoded.Exports) != 1 || decoded.Exports[0] != "main" {
		t.Fatalf("Exports = %v, want [main]", decoded.Exports)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	if _, err := Decode([]byte("not a pcode file at all")); err != ErrBadMagic {
		t.Fatalf("Decode of garbage = %v, want ErrBadMagic", err)
	}
}
