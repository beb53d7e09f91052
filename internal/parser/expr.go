package parser

import (
	"strconv"

	"github.com/pascalfe/pascalfe/internal/ctx"
	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/pcode"
	"github.com/pascalfe/pascalfe/internal/symtab"
	"github.com/pascalfe/pascalfe/internal/token"
	"github.com/pascalfe/pascalfe/internal/types"
)

// factorFlags is the bitset reduces a factor's addressing
// mode to. indirect marks a chain that passes through a VAR parameter
// or an explicit `^`: once set, the designator's address lives on the
// p-code stack rather than at a fixed (level, offset), and every
// further field/index suffix folds into that stack-resident address
// instead of a symbolic offset.
type factorFlags uint8

const (
	flagIndexed factorFlags = 1 << iota
	flagIndirect
)

// place is a resolved designator: either a fixed (level, offset)
// stack-reference with at most one pending runtime index contribution
// already pushed (the non-indirect, common case), or — once flagIndirect
// is set — a computed address already sitting on top of the p-code
// stack.
type place struct {
	level   int32
	offset  int32
	flags   factorFlags
	width   pcode.Width
	signed  bool
	typ     types.ExprType
	typeRef symtab.SymbolRef
}

func (p *Parser) widthFor(kind symtab.Kind) (pcode.Width, bool) {
	switch kind {
	case symtab.KindChar, symtab.KindShortInt, symtab.KindShortWord, symtab.KindBoolean:
		return pcode.WidthByte, kind == symtab.KindShortInt
	case symtab.KindLongInt, symtab.KindLongWord:
		return pcode.WidthMulti, kind == symtab.KindLongInt
	case symtab.KindRecord, symtab.KindArray, symtab.KindSet, symtab.KindString:
		return pcode.WidthMulti, false
	default:
		return pcode.WidthWord, kind == symtab.KindInteger
	}
}

// emitLoad pushes pl's value. In indirect mode the address is already
// on the stack (pushed as the chain was parsed), so loading is a
// single OpLoadIndirect; scalar width through a pointer is not
// distinguished further, a simplification this front end accepts for
// the pointer-dereference path.
func (p *Parser) emitLoad(pl place) {
	if pl.flags&flagIndirect != 0 {
		p.Ctx.Emitter.Simple(pcode.OpLoadIndirect)
		return
	}
	p.Ctx.Emitter.LoadVar(pl.level, pl.offset, pl.flags&flagIndexed != 0, pl.width, pl.signed)
}

// emitStore pops a value already on the stack into pl. For the
// indirect case the address was pushed while parsing the chain, the
// value is pushed afterward by the caller, so OpExchange restores the
// address-then-value order OpStoreIndirect expects.
func (p *Parser) emitStore(pl place) {
	if pl.flags&flagIndirect != 0 {
		p.Ctx.Emitter.Simple(pcode.OpExchange)
		p.Ctx.Emitter.Simple(pcode.OpStoreIndirect)
		return
	}
	p.Ctx.Emitter.StoreVar(pl.level, pl.offset, pl.flags&flagIndexed != 0, pl.width, pl.signed)
}

// emitAddress leaves pl's address on the stack: already there in
// indirect mode, otherwise a LoadAddress of the fixed reference.
func (p *Parser) emitAddress(pl place) {
	if pl.flags&flagIndirect != 0 {
		return
	}
	p.Ctx.Emitter.LoadAddress(pl.level, pl.offset, pl.flags&flagIndexed != 0)
}

// parseExpression parses the top grammar level: a simple expression
// optionally followed by one relational operator (Pascal relational
// operators do not chain).
func (p *Parser) parseExpression() types.ExprType {
	left := p.parseSimpleExpression()
	if isRelational(p.Stream.Current().Kind) {
		op := p.Stream.Advance().Kind
		right := p.parseSimpleExpression()
		p.emitRelational(op, left, right)
		left = types.ExprType{Tag: types.Boolean, Sym: p.Ctx.Builtins.Boolean}
	}
	p.Ctx.CurrentExprType = left
	return left
}

func (p *Parser) parseSimpleExpression() types.ExprType {
	neg := p.accept(token.Minus)
	p.accept(token.Plus)
	left := p.parseTerm()
	if neg {
		p.emitUnaryMinus(left)
	}
	for isAdditive(p.Stream.Current().Kind) {
		op := p.Stream.Advance().Kind
		right := p.parseTerm()
		left = p.emitAdditive(op, left, right)
	}
	return left
}

func (p *Parser) parseTerm() types.ExprType {
	left := p.parseFactor()
	for isMultiplicative(p.Stream.Current().Kind) {
		op := p.Stream.Advance().Kind
		right := p.parseFactor()
		left = p.emitMultiplicative(op, left, right)
	}
	return left
}

func (p *Parser) parseFactor() types.ExprType {
	switch {
	case p.at(token.IntLiteral):
		p.Ctx.Emitter.PushImmediate(p.Stream.Advance().IVal)
		return types.ExprType{Tag: types.Integer, Sym: p.Ctx.Builtins.Integer}

	case p.at(token.RealLiteral):
		v := p.Stream.Advance().RVal
		off := p.Ctx.Emitter.InternString(strconv.FormatFloat(v, 'g', -1, 64))
		p.Ctx.Emitter.PushImmediate(off)
		return types.ExprType{Tag: types.Real, Sym: p.Ctx.Builtins.Real}

	case p.at(token.CharLiteral):
		c := p.Stream.Advance().SVal
		var b byte
		if len(c) > 0 {
			b = c[0]
		}
		p.Ctx.Emitter.PushImmediate(int32(b))
		return types.ExprType{Tag: types.Char, Sym: p.Ctx.Builtins.Char}

	case p.at(token.StringLiteral):
		s := p.Stream.Advance().SVal
		off := p.Ctx.Emitter.InternString(s)
		p.Ctx.Emitter.PushImmediate(off)
		p.Ctx.Emitter.PushImmediate(int32(len(s)))
		return types.ExprType{Tag: types.String, Sym: p.Ctx.Builtins.String}

	case p.at(token.KwNil):
		p.Stream.Advance()
		p.Ctx.Emitter.PushImmediate(0)
		return types.ExprType{Tag: types.AnyPointer, Pointer: true}

	case p.accept(token.KwNot):
		v := p.parseFactor()
		p.Ctx.Emitter.Simple(pcode.OpNot)
		return v

	case p.accept(token.At):
		pl := p.parseDesignator()
		p.emitAddress(pl)
		return types.ExprType{Tag: types.AnyPointer, Pointer: true, Sym: pl.typeRef}

	case p.accept(token.LParen):
		v := p.parseExpression()
		p.expect(token.RParen, ")")
		return v

	case p.at(token.LBracket):
		return p.parseSetConstructor()

	case p.at(token.Ident):
		return p.parseIdentFactor()

	default:
		p.errSyntax(diag.ErrUnexpectedToken, "expression")
		return types.ExprType{Tag: types.Unknown}
	}
}

// parseIdentFactor disambiguates a designator from a function call, a
// named constant, an enum literal, and a type cast, all of which start
// with an identifier.
func (p *Parser) parseIdentFactor() types.ExprType {
	name := p.Stream.Current().SVal
	ref, ok := p.Table.Lookup(name)
	if !ok {
		if v, handled := p.tryWithFieldFactor(name); handled {
			return v
		}
		p.errDecl(diag.ErrUndeclaredIdentifier, name)
		p.Stream.Advance()
		return types.ExprType{Tag: types.Unknown}
	}
	sym := p.Table.At(ref)

	if sym.Kind == symtab.KindType {
		p.Stream.Advance()
		p.expect(token.LParen, "(")
		v := p.parseExpression()
		p.expect(token.RParen, ")")
		return p.emitTypeCast(ref, v)
	}

	if rp, ok := sym.Routine(); ok {
		p.Stream.Advance()
		return p.parseCallTail(ref, rp)
	}

	if ep, ok := sym.EnumMember(); ok {
		p.Stream.Advance()
		p.Ctx.Emitter.PushImmediate(int32(ep.Ordinal))
		return types.FromTypeSymbol(p.Table, ep.Type)
	}

	if cp, ok := sym.Constant(); ok {
		p.Stream.Advance()
		switch sym.Kind {
		case symtab.KindReal:
			off := p.Ctx.Emitter.InternString(strconv.FormatFloat(cp.RealVal, 'g', -1, 64))
			p.Ctx.Emitter.PushImmediate(off)
			return types.ExprType{Tag: types.Real, Sym: p.Ctx.Builtins.Real}
		case symtab.KindStringConstant:
			p.Ctx.Emitter.PushImmediate(int32(cp.StrOffset))
			p.Ctx.Emitter.PushImmediate(int32(cp.StrLen))
			return types.ExprType{Tag: types.String, Sym: p.Ctx.Builtins.String}
		case symtab.KindBoolean:
			p.Ctx.Emitter.PushImmediate(int32(cp.IntVal))
			return types.ExprType{Tag: types.Boolean, Sym: p.Ctx.Builtins.Boolean}
		case symtab.KindChar:
			p.Ctx.Emitter.PushImmediate(int32(cp.IntVal))
			return types.ExprType{Tag: types.Char, Sym: p.Ctx.Builtins.Char}
		default:
			p.Ctx.Emitter.PushImmediate(int32(cp.IntVal))
			return types.ExprType{Tag: types.Integer, Sym: p.Ctx.Builtins.Integer}
		}
	}

	pl := p.parseDesignator()
	p.emitLoad(pl)
	return pl.typ
}

// emitTypeCast implements `T(expr)`: reinterprets expr's already
// pushed value as targetType. Only the int<->real pair needs an actual
// conversion instruction; every other pairing is a same-representation
// reinterpretation the emitter does not need to act on.
func (p *Parser) emitTypeCast(targetType symtab.SymbolRef, v types.ExprType) types.ExprType {
	out := types.FromTypeSymbol(p.Table, targetType)
	switch {
	case out.Tag == types.Real && v.IsIntegerFamily():
		p.Ctx.Emitter.Float(pcode.OpFloatConvert, pcode.ConvLeft)
	case v.Tag == types.Real && out.IsIntegerFamily():
		p.Ctx.Emitter.Float(pcode.OpFloatConvert, pcode.ConvRight)
	}
	return out
}

// parseDesignator resolves a variable reference through any chain of
// `.field`, `[index]`, and `^` suffixes into the place the caller will
// load, store into, or take the address of.
func (p *Parser) parseDesignator() place {
	name := p.identName()
	ref, ok := p.Table.Lookup(name)
	if !ok {
		if wb, inWith := p.Ctx.CurrentWith(); inWith {
			if pl, handled := p.withFieldPlace(wb, name); handled {
				return p.parseDesignatorSuffixes(pl)
			}
		}
		p.errDecl(diag.ErrUndeclaredIdentifier, name)
		return place{typ: types.ExprType{Tag: types.Unknown}}
	}
	sym := p.Table.At(ref)

	vp, isVar := sym.Variable()
	if !isVar {
		p.errDecl(diag.ErrUndeclaredIdentifier, name)
		return place{typ: types.ExprType{Tag: types.Unknown}}
	}

	pl := place{
		level:   int32(sym.Level),
		offset:  int32(vp.Offset),
		typeRef: vp.Type,
		typ:     types.FromTypeSymbol(p.Table, vp.Type),
	}
	w, s := p.widthFor(p.Table.At(vp.Type).Kind)
	pl.width, pl.signed = w, s

	if sym.Kind == symtab.KindVarParameter {
		// The parameter slot holds a pointer; fetch it now, switching
		// the rest of the chain to stack-resident addressing.
		p.Ctx.Emitter.LoadVar(pl.level, pl.offset, false, pcode.WidthWord, false)
		pl.flags |= flagIndirect
	}

	return p.parseDesignatorSuffixes(pl)
}

// tryWithFieldFactor resolves name as a field of the innermost active
// with-binding when it is not itself a declared identifier, for use as
// a value-producing factor (not a store target).
func (p *Parser) tryWithFieldFactor(name string) (types.ExprType, bool) {
	wb, ok := p.Ctx.CurrentWith()
	if !ok {
		return types.ExprType{}, false
	}
	pl, handled := p.withFieldPlace(wb, name)
	if !handled {
		return types.ExprType{}, false
	}
	p.Stream.Advance()
	pl = p.parseDesignatorSuffixes(pl)
	p.emitLoad(pl)
	return pl.typ, true
}

// withFieldPlace resolves name as a field of an active with-binding's
// record variable, without consuming the token (callers advance once
// they know the lookup succeeded).
func (p *Parser) withFieldPlace(wb ctx.WithBinding, name string) (place, bool) {
	recSym := p.Table.At(wb.RecordVar)
	if recSym == nil {
		return place{}, false
	}
	vp, ok := recSym.Variable()
	if !ok {
		return place{}, false
	}
	fieldRef, ok := p.lookupField(vp.Type, name)
	if !ok {
		return place{}, false
	}
	fp, _ := p.Table.At(fieldRef).Field()

	pl := place{level: wb.Level, offset: wb.Offset, typeRef: vp.Type}
	if wb.Indirect {
		p.Ctx.Emitter.LoadVar(pl.level, pl.offset, false, pcode.WidthWord, false)
		pl.flags |= flagIndirect
	}
	pl = p.applyFieldOffset(pl, fp.Offset, fp.Type)
	return pl, true
}

func (p *Parser) applyFieldOffset(pl place, fieldOffset int, fieldType symtab.SymbolRef) place {
	if pl.flags&flagIndirect != 0 {
		if fieldOffset != 0 {
			p.Ctx.Emitter.PushImmediate(int32(fieldOffset))
			p.Ctx.Emitter.Simple(pcode.OpAdd)
		}
	} else {
		pl.offset += int32(fieldOffset)
	}
	pl.typeRef = fieldType
	pl.typ = types.FromTypeSymbol(p.Table, fieldType)
	w, s := p.widthFor(p.Table.At(fieldType).Kind)
	pl.width, pl.signed = w, s
	pl.flags &^= flagIndexed
	return pl
}

func (p *Parser) parseDesignatorSuffixes(pl place) place {
	for {
		switch {
		case p.accept(token.Dot):
			fieldName := p.identName()
			fieldRef, ok := p.lookupField(pl.typeRef, fieldName)
			if !ok {
				p.errDecl(diag.ErrUndeclaredIdentifier, fieldName)
				continue
			}
			fp, _ := p.Table.At(fieldRef).Field()
			pl = p.applyFieldOffset(pl, fp.Offset, fp.Type)

		case p.accept(token.LBracket):
			first := true
			for {
				arrType, ok := p.Table.At(pl.typeRef).Type()
				if !ok {
					p.errType(diag.ErrOperandTypeMismatch, "not an array type")
					p.parseExpression()
				} else {
					idxLow := int64(0)
					if idxSym, ok := p.Table.At(arrType.IndexType).Type(); ok {
						idxLow = idxSym.Min
					}
					p.parseExpression()
					if idxLow != 0 {
						p.Ctx.Emitter.PushImmediate(int32(idxLow))
						p.Ctx.Emitter.Simple(pcode.OpSub)
					}
					elemSize := types.AllocSize(p.Table, arrType.Base)
					if elemSize != 1 {
						p.Ctx.Emitter.PushImmediate(int32(elemSize))
						p.Ctx.Emitter.Simple(pcode.OpMul)
					}
					if pl.flags&flagIndirect != 0 || !first {
						p.Ctx.Emitter.Simple(pcode.OpAdd)
					}
					pl.typeRef = arrType.Base
					pl.typ = types.FromTypeSymbol(p.Table, arrType.Base)
				}
				first = false
				if !p.accept(token.Comma) {
					break
				}
			}
			p.expect(token.RBracket, "]")
			w, s := p.widthFor(p.Table.At(pl.typeRef).Kind)
			pl.width, pl.signed = w, s
			if pl.flags&flagIndirect == 0 {
				pl.flags |= flagIndexed
			}

		case p.accept(token.Caret):
			if pl.flags&flagIndirect != 0 {
				p.Ctx.Emitter.Simple(pcode.OpLoadIndirect)
			} else {
				p.Ctx.Emitter.LoadAddress(pl.level, pl.offset, pl.flags&flagIndexed != 0)
				p.Ctx.Emitter.Simple(pcode.OpLoadIndirect)
				pl.flags |= flagIndirect
			}
			if tp, ok := p.Table.At(pl.typeRef).Type(); ok {
				pl.typeRef = tp.Base
				pl.typ = types.FromTypeSymbol(p.Table, tp.Base)
				pl.typ.Pointer = false
				w, s := p.widthFor(p.Table.At(tp.Base).Kind)
				pl.width, pl.signed = w, s
			}
			pl.flags &^= flagIndexed

		default:
			return pl
		}
	}
}

func (p *Parser) lookupField(recordType symtab.SymbolRef, name string) (symtab.SymbolRef, bool) {
	for i := 0; i < p.Table.Len(); i++ {
		ref := symtab.SymbolRef(i)
		sym := p.Table.At(ref)
		if sym.Kind != symtab.KindRecordObject {
			continue
		}
		fp, _ := sym.Field()
		if fp.Record == recordType && sameNameFold(sym.Name, name) {
			return ref, true
		}
	}
	return symtab.NoSymbol, false
}

func sameNameFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// parseCallTail parses a function call's actual-parameter list and
// emits the call, releasing any transient string scratch used to
// evaluate string-valued actuals ("string-scratch
// release").
func (p *Parser) parseCallTail(routineRef symtab.SymbolRef, rp *symtab.RoutinePayload) types.ExprType {
	scratchMark := p.Ctx.Emitter.BeginStringScratch()
	index := 0
	if p.accept(token.LParen) {
		for !p.at(token.RParen) {
			if index < rp.ParamCount && isVarParamSlot(p.Table, routineRef, index) {
				pl := p.parseDesignator()
				p.emitAddress(pl)
			} else {
				v := p.parseExpression()
				if v.IsStringFamily() {
					p.Ctx.Emitter.AllocStringScratch()
				}
			}
			index++
			if !p.accept(token.Comma) {
				break
			}
		}
		p.expect(token.RParen, ")")
	}
	p.Ctx.Emitter.Call(int32(rp.EntryLabel))
	p.Ctx.Emitter.ReleaseStringScratch(scratchMark)
	return types.FromTypeSymbol(p.Table, rp.ReturnType)
}

func isVarParamSlot(tab *symtab.Table, routineRef symtab.SymbolRef, index int) bool {
	sym := tab.At(routineRef + 1 + symtab.SymbolRef(index))
	return sym != nil && sym.Kind == symtab.KindVarParameter
}

// parseSetConstructor parses `[ expr, expr..expr, ... ]` at runtime,
// emitting one set-library call per element/range and unioning the
// results.
func (p *Parser) parseSetConstructor() types.ExprType {
	p.Stream.Advance() // '['
	p.Ctx.Emitter.SetCall("set_empty")
	if !p.at(token.RBracket) {
		for {
			p.parseExpression()
			if p.accept(token.DotDot) {
				p.parseExpression()
				p.Ctx.Emitter.SetCall("set_add_range")
			} else {
				p.Ctx.Emitter.SetCall("set_add")
			}
			if !p.accept(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RBracket, "]")
	return types.ExprType{Tag: types.Set}
}

func (p *Parser) emitUnaryMinus(v types.ExprType) {
	switch {
	case v.Tag == types.Real:
		p.Ctx.Emitter.Float(pcode.OpFNeg, pcode.ConvNone)
	case v.IsLong():
		p.Ctx.Emitter.Long(pcode.OpLNeg)
	default:
		p.Ctx.Emitter.Simple(pcode.OpNeg)
	}
}

func (p *Parser) emitAdditive(op token.Kind, a, b types.ExprType) types.ExprType {
	switch {
	case a.IsStringFamily() || b.IsStringFamily():
		p.Ctx.Emitter.StringCall("concat")
		return types.ExprType{Tag: types.String, Sym: p.Ctx.Builtins.String}
	case a.IsSet() || b.IsSet():
		return p.emitSetBinary(op)
	case a.Tag == types.Real || b.Tag == types.Real:
		conv := mixedConv(a, b)
		switch op {
		case token.Plus:
			p.Ctx.Emitter.Float(pcode.OpFAdd, conv)
		case token.Minus:
			p.Ctx.Emitter.Float(pcode.OpFSub, conv)
		}
		return types.ExprType{Tag: types.Real, Sym: p.Ctx.Builtins.Real}
	case a.IsLong() || b.IsLong():
		switch op {
		case token.Plus:
			p.Ctx.Emitter.Long(pcode.OpLAdd)
		case token.Minus:
			p.Ctx.Emitter.Long(pcode.OpLSub)
		}
		return a
	}
	switch op {
	case token.Plus:
		p.Ctx.Emitter.Simple(pcode.OpAdd)
		return a
	case token.Minus:
		p.Ctx.Emitter.Simple(pcode.OpSub)
		return a
	case token.KwOr:
		p.Ctx.Emitter.Simple(pcode.OpOrOp)
		return types.ExprType{Tag: types.Boolean, Sym: p.Ctx.Builtins.Boolean}
	case token.KwXor:
		p.Ctx.Emitter.Simple(pcode.OpXorOp)
		return types.ExprType{Tag: types.Boolean, Sym: p.Ctx.Builtins.Boolean}
	}
	return a
}

func (p *Parser) emitMultiplicative(op token.Kind, a, b types.ExprType) types.ExprType {
	switch {
	case a.IsSet() || b.IsSet():
		return p.emitSetBinary(op)
	case op == token.Slash:
		conv := mixedConv(a, b)
		p.Ctx.Emitter.Float(pcode.OpFDiv, conv)
		return types.ExprType{Tag: types.Real, Sym: p.Ctx.Builtins.Real}
	case a.Tag == types.Real || b.Tag == types.Real:
		conv := mixedConv(a, b)
		p.Ctx.Emitter.Float(pcode.OpFMul, conv)
		return types.ExprType{Tag: types.Real, Sym: p.Ctx.Builtins.Real}
	}
	switch op {
	case token.Star:
		if a.IsLong() || b.IsLong() {
			p.Ctx.Emitter.Long(pcode.OpLMul)
		} else {
			p.Ctx.Emitter.Simple(pcode.OpMul)
		}
		return a
	case token.KwDiv:
		p.Ctx.Emitter.Simple(pcode.OpDivInt)
		return a
	case token.KwMod:
		p.Ctx.Emitter.Simple(pcode.OpModInt)
		return a
	case token.KwAnd, token.Ampersand:
		p.Ctx.Emitter.Simple(pcode.OpAndOp)
		if op == token.Ampersand {
			return a
		}
		return types.ExprType{Tag: types.Boolean, Sym: p.Ctx.Builtins.Boolean}
	case token.KwShl:
		p.Ctx.Emitter.Simple(pcode.OpShlOp)
		return a
	case token.KwShr:
		p.Ctx.Emitter.Simple(pcode.OpShrOp)
		return a
	}
	return a
}

func (p *Parser) emitSetBinary(op token.Kind) types.ExprType {
	switch op {
	case token.Plus:
		p.Ctx.Emitter.SetCall("set_union")
	case token.Minus:
		p.Ctx.Emitter.SetCall("set_difference")
	case token.Star:
		p.Ctx.Emitter.SetCall("set_intersect")
	case token.SymDiff:
		p.Ctx.Emitter.Simple(pcode.OpSymDiffOp)
	}
	return types.ExprType{Tag: types.Set}
}

func mixedConv(a, b types.ExprType) pcode.ConvFlags {
	var c pcode.ConvFlags
	if a.Tag != types.Real {
		c |= pcode.ConvLeft
	}
	if b.Tag != types.Real {
		c |= pcode.ConvRight
	}
	return c
}

// emitRelational picks one of ten relational-operator
// dispatch slots based on the operand types, unifying pointer/nil and
// any-pointer comparisons first.
func (p *Parser) emitRelational(op token.Kind, a, b types.ExprType) {
	if op == token.KwIn {
		p.Ctx.Emitter.SetCall("set_in")
		return
	}
	class := relationalClass(a, b)
	if class == pcode.ClassNone {
		p.errType(diag.ErrOperandTypeMismatch, "relational operator not applicable to this type")
		return
	}
	switch op {
	case token.Equal:
		p.Ctx.Emitter.Relational(pcode.OpEqual, class)
	case token.NotEqual:
		p.Ctx.Emitter.Relational(pcode.OpNotEqual, class)
	case token.Less:
		p.Ctx.Emitter.Relational(pcode.OpLess, class)
	case token.LessEq:
		p.Ctx.Emitter.Relational(pcode.OpLessEq, class)
	case token.Greater:
		p.Ctx.Emitter.Relational(pcode.OpGreater, class)
	case token.GreaterEq:
		p.Ctx.Emitter.Relational(pcode.OpGreaterEq, class)
	}
}

func relationalClass(a, b types.ExprType) pcode.Class {
	switch {
	case a.Pointer || b.Pointer:
		if types.UnifyPointer(a, b) {
			return pcode.ClassPointer
		}
		return pcode.ClassNone
	case a.IsSet() && b.IsSet():
		return pcode.ClassSet
	case a.IsStringFamily() || b.IsStringFamily():
		return pcode.ClassString
	case a.Tag == types.Real || b.Tag == types.Real:
		return pcode.ClassFloat
	case a.IsLong() || b.IsLong():
		if a.Tag == types.LongWord || b.Tag == types.LongWord {
			return pcode.ClassLongWord
		}
		return pcode.ClassLongInt
	case a.Tag == types.Boolean && b.Tag == types.Boolean:
		return pcode.ClassBoolean
	case a.Tag == types.Char && b.Tag == types.Char:
		return pcode.ClassChar
	case a.IsIntegerFamily() || b.IsIntegerFamily() || a.Tag == types.Scalar || b.Tag == types.Scalar:
		if a.Tag == types.Word || b.Tag == types.Word {
			return pcode.ClassWord
		}
		return pcode.ClassInteger
	default:
		return pcode.ClassNone
	}
}
