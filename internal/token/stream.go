package token

import "github.com/pascalfe/pascalfe/internal/symtab"

// Stream wraps a Lexer with one token of lookahead: Current always
// holds the token the parser is deciding on, and
// Advance/AdvanceRestricted are the only ways to move past it.
type Stream struct {
	lex *Lexer
	cur Token

	symbols *symtab.Table
}

// NewStream creates a Stream positioned at the first token of lex's
// source. symbols may be nil for tests that only exercise lexical
// classification and never need identifier resolution.
func NewStream(lex *Lexer, symbols *symtab.Table) *Stream {
	s := &Stream{lex: lex, symbols: symbols}
	s.cur = s.scanResolved()
	return s
}

// Current returns the token the stream is positioned on without
// consuming it.
func (s *Stream) Current() Token { return s.cur }

// Advance consumes Current and scans the next token, resolving an
// identifier against every visible scope (ordinary lookup).
func (s *Stream) Advance() Token {
	prev := s.cur
	s.cur = s.scanResolved()
	return prev
}

// AdvanceRestricted consumes Current and scans the next token,
// resolving an identifier only against symbols declared at exactly the
// given level — the lookup a declaration header needs so that a name
// already used at an outer level doesn't shadow a fresh declaration
// ("advanceLevelRestricted").
func (s *Stream) AdvanceRestricted(level int) Token {
	prev := s.cur
	s.cur = s.scanAt(level)
	return prev
}

func (s *Stream) scanResolved() Token {
	t := s.lex.Next()
	if t.Kind == Ident && s.symbols != nil {
		if ref, ok := s.symbols.Lookup(t.SVal); ok {
			t.Sym = ref
		}
	}
	return t
}

func (s *Stream) scanAt(level int) Token {
	t := s.lex.Next()
	if t.Kind == Ident && s.symbols != nil {
		if ref, ok := s.symbols.LookupRestricted(t.SVal, level); ok {
			t.Sym = ref
		}
	}
	return t
}
