// Package parser implements the recursive-descent front end: one
// parser function per grammar production, fused with the symbol table
// so that declaring a name and resolving a reference to it are the
// same table ("parser fused with symbol/type table").
// Every production takes *Parser by pointer and reports errors through
// its diag.Collector rather than returning them, matching how the
// token stream and symbol table already centralize error recovery: a
// malformed declaration or expression still produces a symbol or an
// ExprType (usually types.Unknown) so the caller can keep parsing to
// end of input.
package parser

import (
	"github.com/pascalfe/pascalfe/internal/ctx"
	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/pcode"
	"github.com/pascalfe/pascalfe/internal/symtab"
	"github.com/pascalfe/pascalfe/internal/token"
	"github.com/pascalfe/pascalfe/internal/types"
)

// Parser holds every collaborator a grammar production needs: the
// token stream, the symbol table, the registered builtins, the p-code
// emitter, the diagnostic collector, and the CompilationContext that
// replaces named globals.
type Parser struct {
	Stream *token.Stream
	Table  *symtab.Table
	Diags  *diag.Collector
	Ctx    *ctx.CompilationContext

	fileName   string
	labelCount int

	pendingPointerPatches []pendingPatch
}

// New creates a Parser over src, with the symbol table already primed
// with the predeclared builtin types.
func New(fileName string, src []byte) *Parser {
	diags := &diag.Collector{}
	tab := symtab.New(diags)
	builtins := types.RegisterBuiltins(tab)
	emitter := pcode.New()
	lex := token.NewLexer(fileName, src, diags)
	stream := token.NewStream(lex, tab)

	return &Parser{
		Stream:   stream,
		Table:    tab,
		Diags:    diags,
		Ctx:      ctx.New(tab, builtins, emitter),
		fileName: fileName,
	}
}

func (p *Parser) pos() diag.Pos { return p.Stream.Current().Pos }

// errSyntax reports a syntactic error positioned at the current token.
func (p *Parser) errSyntax(sentinel error, detail string) {
	p.Diags.Report(diag.CategorySyntactic, p.pos(), sentinel, detail)
	p.Ctx.NoteError()
}

// errDecl reports a declaration-category error.
func (p *Parser) errDecl(sentinel error, detail string) {
	p.Diags.Report(diag.CategoryDeclaration, p.pos(), sentinel, detail)
	p.Ctx.NoteError()
}

// errType reports a type-category error.
func (p *Parser) errType(sentinel error, detail string) {
	p.Diags.Report(diag.CategoryType, p.pos(), sentinel, detail)
	p.Ctx.NoteError()
}

// at reports whether the current token has kind k.
func (p *Parser) at(k token.Kind) bool { return p.Stream.Current().Kind == k }

// accept consumes and returns true if the current token has kind k,
// otherwise leaves the stream untouched.
func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.Stream.Advance()
		return true
	}
	return false
}

// expect consumes the current token if it has kind k, reporting a
// missing-token error and leaving the stream positioned where it was
// otherwise (so the caller's next expect has a chance to resynchronize
// rather than looping on the same bad token).
func (p *Parser) expect(k token.Kind, what string) token.Token {
	if p.at(k) {
		return p.Stream.Advance()
	}
	p.errSyntax(diag.ErrUnexpectedToken, what)
	return p.Stream.Current()
}

// identName consumes an identifier and returns its spelling, reporting
// a syntax error and returning "" if the current token is not one.
func (p *Parser) identName() string {
	if !p.at(token.Ident) {
		p.errSyntax(diag.ErrUnexpectedToken, "identifier")
		return ""
	}
	t := p.Stream.Advance()
	return t.SVal
}

// newLabel allocates a fresh emitter label.
func (p *Parser) newLabel() int32 { return p.Ctx.Emitter.NewLabel() }

// ParseProgram parses a complete `program ... .` compilation unit (the
// program's level-0 block) and returns the finished object-file
// module. It is the top-level entry point mirroring how
// compiler.Compile exposes the whole front end as a single call.
func (p *Parser) ParseProgram() *pcode.Module {
	name := "main"
	hasEntry := false
	var entryLabel int32

	if p.accept(token.KwProgram) {
		name = p.identName()
		if p.accept(token.LParen) {
			for {
				p.identName()
				if !p.accept(token.Comma) {
					break
				}
			}
			p.expect(token.RParen, ")")
		}
		p.expect(token.Semicolon, ";")
	}

	entryLabel = p.newLabel()
	p.Ctx.Emitter.PlaceLabel(entryLabel)
	p.Ctx.Emitter.EntryPoint()
	hasEntry = true

	p.parseBlock(0)
	p.expect(token.Dot, ".")
	p.Ctx.Emitter.Simple(pcode.OpHalt)

	return pcode.Build(p.Ctx.Emitter, name, hasEntry, entryLabel)
}

// ParseUnit parses a `unit ... end.` compilation unit: an interface
// section, whose procedure and function headers and level-0 variables
// are exported (its const and type declarations are not), followed by
// an implementation section. Each unit named in a uses clause becomes
// an import directive. Full cross-unit resolution
// (pulling another unit's declarations into scope) is out of scope.
func (p *Parser) ParseUnit() *pcode.Module {
	p.expect(token.KwUnit, "unit")
	name := p.identName()
	p.expect(token.Semicolon, ";")

	p.expect(token.KwInterface, "interface")
	p.parseUsesClause()
	interfaceMark := p.Table.Mark()
	p.parseDeclarations(0, true)

	for i := interfaceMark; i < p.Table.Mark(); i++ {
		sym := p.Table.At(symtab.SymbolRef(i))
		if sym == nil {
			continue
		}
		if rp, ok := sym.Routine(); ok {
			rp.Exported = true
			p.Ctx.Emitter.ExportSymbol(sym.Name)
		} else if vp, ok := sym.Variable(); ok && sym.Level == 0 {
			vp.Flags |= symtab.FlagExternal
			p.Ctx.Emitter.ExportSymbol(sym.Name)
		}
	}

	p.expect(token.KwImplementation, "implementation")
	p.parseUsesClause()
	p.parseDeclarations(0, false)

	if p.accept(token.KwBegin) {
		p.parseStatementSequence(0)
	}
	p.expect(token.KwEnd, "end")
	p.expect(token.Dot, ".")

	return pcode.Build(p.Ctx.Emitter, name, false, 0)
}

func (p *Parser) parseUsesClause() {
	if !p.accept(token.KwUses) {
		return
	}
	for {
		name := p.identName()
		p.Ctx.Emitter.ImportSymbol(name)
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.Semicolon, ";")
}
