package parser

import (
	"github.com/pascalfe/pascalfe/internal/ctx"
	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/pcode"
	"github.com/pascalfe/pascalfe/internal/symtab"
	"github.com/pascalfe/pascalfe/internal/token"
	"github.com/pascalfe/pascalfe/internal/types"
)

// parseCompoundStatement parses `begin stmt; stmt; ... end`, the only
// entry point a block body uses.
func (p *Parser) parseCompoundStatement(level int) {
	p.expect(token.KwBegin, "begin")
	p.parseStatementSequence(level)
	p.expect(token.KwEnd, "end")
}

// parseStatementSequence parses one or more semicolon-separated
// statements, stopping at a token that cannot start another one (end,
// until, else, or end of input), matching how a compound statement,
// a unit's body, and a repeat-loop body all share this production.
func (p *Parser) parseStatementSequence(level int) {
	p.parseStatement(level)
	for p.accept(token.Semicolon) {
		if p.atStatementEnd() {
			break
		}
		p.parseStatement(level)
	}
}

func (p *Parser) atStatementEnd() bool {
	switch p.Stream.Current().Kind {
	case token.KwEnd, token.KwUntil, token.KwElse, token.EOF:
		return true
	default:
		return false
	}
}

// parseStatement parses one (possibly label-prefixed) statement.
func (p *Parser) parseStatement(level int) {
	if p.at(token.IntLiteral) {
		p.parseLabelPrefix(level)
	}

	switch {
	case p.at(token.KwBegin):
		p.parseCompoundStatement(level)
	case p.at(token.KwIf):
		p.parseIfStatement(level)
	case p.at(token.KwWhile):
		p.parseWhileStatement(level)
	case p.at(token.KwRepeat):
		p.parseRepeatStatement(level)
	case p.at(token.KwFor):
		p.parseForStatement(level)
	case p.at(token.KwCase):
		p.parseCaseStatement(level)
	case p.at(token.KwWith):
		p.parseWithStatement(level)
	case p.at(token.KwGoto):
		p.parseGotoStatement()
	case p.atStatementEnd():
		// empty statement
	case p.at(token.Ident):
		p.parseSimpleStatement(level)
	default:
		p.errSyntax(diag.ErrUnexpectedToken, "statement")
	}
}

func (p *Parser) parseLabelPrefix(level int) {
	t := p.Stream.Advance()
	name := labelName(t.IVal)
	if ref, ok := p.Table.LookupRestricted(name, level); ok {
		p.Table.DefineLabel(ref)
		p.Ctx.Emitter.PlaceLabel(p.labelTarget(ref))
	} else {
		p.errDecl(diag.ErrUndeclaredIdentifier, name)
	}
	p.expect(token.Colon, ":")
}

// labelTarget returns the p-code label id a label symbol resolves to,
// allocating one on first use whether that use is the label statement
// itself or an earlier forward goto referencing it.
func (p *Parser) labelTarget(ref symtab.SymbolRef) int32 {
	sym := p.Table.At(ref)
	lp, _ := sym.Label()
	if lp.Target == 0 {
		lp.Target = p.newLabel()
	}
	return lp.Target
}

// parseSimpleStatement disambiguates an assignment from a
// procedure-call statement, both of which start with an identifier.
func (p *Parser) parseSimpleStatement(level int) {
	name := p.Stream.Current().SVal
	ref, ok := p.Table.Lookup(name)
	if ok {
		if sym := p.Table.At(ref); sym != nil {
			if rp, isRoutine := sym.Routine(); isRoutine {
				p.Stream.Advance()
				p.parseCallTail(ref, rp)
				return
			}
		}
	}
	p.parseAssignment(level)
}

func (p *Parser) parseAssignment(level int) {
	pl := p.parseDesignator()
	p.expect(token.Assign, ":=")
	valType := p.parseExpression()
	if valType.Tag == types.Real && pl.typ.IsIntegerFamily() {
		p.errType(diag.ErrOperandTypeMismatch, "real value assigned to integer variable")
	} else if valType.IsIntegerFamily() && pl.typ.Tag == types.Real {
		p.Ctx.Emitter.Float(pcode.OpFloatConvert, pcode.ConvRight)
	}
	p.emitStore(pl)
}

func (p *Parser) parseIfStatement(level int) {
	p.Stream.Advance()
	p.parseExpression()
	p.expect(token.KwThen, "then")
	elseLabel := p.newLabel()
	p.Ctx.Emitter.JumpFalse(elseLabel)
	p.parseStatement(level)
	if p.accept(token.KwElse) {
		endLabel := p.newLabel()
		p.Ctx.Emitter.Jump(endLabel)
		p.Ctx.Emitter.PlaceLabel(elseLabel)
		p.parseStatement(level)
		p.Ctx.Emitter.PlaceLabel(endLabel)
	} else {
		p.Ctx.Emitter.PlaceLabel(elseLabel)
	}
}

func (p *Parser) parseWhileStatement(level int) {
	p.Stream.Advance()
	topLabel := p.newLabel()
	doneLabel := p.newLabel()
	p.Ctx.Emitter.PlaceLabel(topLabel)
	p.parseExpression()
	p.Ctx.Emitter.JumpFalse(doneLabel)
	p.expect(token.KwDo, "do")
	p.parseStatement(level)
	p.Ctx.Emitter.Jump(topLabel)
	p.Ctx.Emitter.PlaceLabel(doneLabel)
}

func (p *Parser) parseRepeatStatement(level int) {
	p.Stream.Advance()
	topLabel := p.newLabel()
	p.Ctx.Emitter.PlaceLabel(topLabel)
	p.parseStatementSequence(level)
	p.expect(token.KwUntil, "until")
	p.parseExpression()
	p.Ctx.Emitter.JumpFalse(topLabel)
}

// parseForStatement parses `for v := low to/downto high do stmt`,
// emitting the bound check before each iteration rather than trusting
// a decrement-past-zero sentinel, since the loop variable's ordinal
// type may not have room for an out-of-range sentinel value.
func (p *Parser) parseForStatement(level int) {
	p.Stream.Advance()
	pl := p.parseDesignator()
	p.expect(token.Assign, ":=")
	p.parseExpression()
	p.emitStore(pl)

	down := false
	if p.accept(token.KwDownto) {
		down = true
	} else {
		p.expect(token.KwTo, "to")
	}
	p.parseExpression()
	limitOffset := p.Ctx.AllocLocal(types.WordSize, true)
	p.Ctx.Emitter.StoreVar(p.Ctx.Level, limitOffset, false, pcode.WidthWord, true)

	p.expect(token.KwDo, "do")

	topLabel := p.newLabel()
	doneLabel := p.newLabel()
	p.Ctx.Emitter.PlaceLabel(topLabel)
	p.emitLoad(pl)
	p.Ctx.Emitter.LoadVar(p.Ctx.Level, limitOffset, false, pcode.WidthWord, true)
	if down {
		p.Ctx.Emitter.Relational(pcode.OpLess, pcode.ClassInteger)
	} else {
		p.Ctx.Emitter.Relational(pcode.OpGreater, pcode.ClassInteger)
	}
	p.Ctx.Emitter.JumpTrue(doneLabel)

	p.parseStatement(level)

	p.emitLoad(pl)
	p.Ctx.Emitter.PushImmediate(1)
	if down {
		p.Ctx.Emitter.Simple(pcode.OpSub)
	} else {
		p.Ctx.Emitter.Simple(pcode.OpAdd)
	}
	p.emitStore(pl)
	p.Ctx.Emitter.Jump(topLabel)
	p.Ctx.Emitter.PlaceLabel(doneLabel)
}

// parseCaseStatement parses `case expr of label,label: stmt; ... end`,
// compiling the selector once and testing each label list in turn.
// A linear compare-and-branch chain is what the rest of this front end's
// control-flow statements already use).
func (p *Parser) parseCaseStatement(level int) {
	p.Stream.Advance()
	selType := p.parseExpression()
	selOffset := p.Ctx.AllocLocal(types.WordSize, true)
	p.Ctx.Emitter.StoreVar(p.Ctx.Level, selOffset, false, pcode.WidthWord, true)
	p.expect(token.KwOf, "of")

	class := pcode.ClassInteger
	if selType.Tag == types.Char {
		class = pcode.ClassChar
	}

	endLabel := p.newLabel()
	for !p.at(token.KwEnd) {
		nextArmLabel := p.newLabel()
		bodyLabel := p.newLabel()
		for {
			val := p.parseConstExpression()
			p.Ctx.Emitter.LoadVar(p.Ctx.Level, selOffset, false, pcode.WidthWord, true)
			pushFoldValue(p, val)
			p.Ctx.Emitter.Relational(pcode.OpEqual, class)
			p.Ctx.Emitter.JumpTrue(bodyLabel)
			if !p.accept(token.Comma) {
				break
			}
		}
		p.Ctx.Emitter.Jump(nextArmLabel)
		p.Ctx.Emitter.PlaceLabel(bodyLabel)
		p.expect(token.Colon, ":")
		p.parseStatement(level)
		p.Ctx.Emitter.Jump(endLabel)
		p.Ctx.Emitter.PlaceLabel(nextArmLabel)
		if !p.accept(token.Semicolon) {
			break
		}
	}
	p.expect(token.KwEnd, "end")
	p.Ctx.Emitter.PlaceLabel(endLabel)
}

func pushFoldValue(p *Parser, v ctx.FoldValue) {
	switch v.Kind {
	case ctx.FoldChar:
		if len(v.StrVal) > 0 {
			p.Ctx.Emitter.PushImmediate(int32(v.StrVal[0]))
		} else {
			p.Ctx.Emitter.PushImmediate(0)
		}
	default:
		p.Ctx.Emitter.PushImmediate(int32(v.IntVal))
	}
}

// parseWithStatement parses `with v1, v2, ... do stmt`, pushing one
// ctx.WithBinding per record variable named and popping them all on
// exit (thread-local record binding).
func (p *Parser) parseWithStatement(level int) {
	p.Stream.Advance()
	pushed := 0
	for {
		pl := p.parseDesignator()
		wb := ctx.WithBinding{
			Level:     pl.level,
			Offset:    pl.offset,
			Indirect:  pl.flags&flagIndirect != 0,
			RecordVar: p.withRecordSymbol(pl),
		}
		p.Ctx.PushWith(wb)
		pushed++
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.KwDo, "do")
	p.parseStatement(level)
	for i := 0; i < pushed; i++ {
		p.Ctx.PopWith()
	}
}

// withRecordSymbol locates the symbol table entry backing a just
// parsed with-target designator, so later field lookups can resolve
// the record's field list. A with-target that is itself a nested field
// or array element has no single backing symbol; only a plain variable
// designator resolves here.
func (p *Parser) withRecordSymbol(pl place) symtab.SymbolRef {
	for i := 0; i < p.Table.Len(); i++ {
		ref := symtab.SymbolRef(i)
		sym := p.Table.At(ref)
		if sym == nil {
			continue
		}
		vp, ok := sym.Variable()
		if !ok {
			continue
		}
		if int32(sym.Level) == pl.level && int32(vp.Offset) == pl.offset && vp.Type == pl.typeRef {
			return ref
		}
	}
	return symtab.NoSymbol
}

func (p *Parser) parseGotoStatement() {
	p.Stream.Advance()
	if !p.at(token.IntLiteral) {
		p.errSyntax(diag.ErrUnexpectedToken, "label number")
		return
	}
	t := p.Stream.Advance()
	name := labelName(t.IVal)
	if ref, ok := p.Table.Lookup(name); ok {
		if _, isLabel := p.Table.At(ref).Label(); isLabel {
			p.Ctx.Emitter.Jump(p.labelTarget(ref))
			return
		}
	}
	p.errDecl(diag.ErrUndeclaredIdentifier, name)
}
