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

// parseDeclarations parses the declaration groups a Pascal block
// allows: label, const, type, var, then zero or more
// procedure/function declarations. Every group is optional, and a
// further label, const, type or var group after the routines starts
// the sequence again. At a nested level (level != 0) the routines'
// code is preceded by a jump over it, so entering the enclosing block
// does not run them. When interfaceOnly is true (a unit's interface
// section) procedure and function declarations are headers only, with
// no body.
func (p *Parser) parseDeclarations(level int, interfaceOnly bool) {
	if p.accept(token.KwLabel) {
		p.parseLabelDeclarations(level)
	}
	if p.accept(token.KwConst) {
		p.parseConstDeclarations(level)
	}
	if p.accept(token.KwType) {
		p.parseTypeDeclarations(level)
	}
	if p.accept(token.KwVar) {
		p.parseVarDeclarations(level)
	}
	skip := int32(0)
	if level != 0 && !interfaceOnly && (p.at(token.KwProcedure) || p.at(token.KwFunction)) {
		skip = p.newLabel()
		p.Ctx.Emitter.Jump(skip)
	}
	for p.at(token.KwProcedure) || p.at(token.KwFunction) {
		p.parseProcedureOrFunction(level, interfaceOnly)
	}
	if skip != 0 {
		p.Ctx.Emitter.PlaceLabel(skip)
	}
	if p.at(token.KwLabel) || p.at(token.KwConst) || p.at(token.KwType) || p.at(token.KwVar) {
		p.parseDeclarations(level, interfaceOnly)
	}
}

// parseLabelDeclarations parses `label 1, 2, 99;`.
func (p *Parser) parseLabelDeclarations(level int) {
	for {
		if !p.at(token.IntLiteral) {
			p.errSyntax(diag.ErrUnexpectedToken, "label number")
			break
		}
		t := p.Stream.Advance()
		p.Table.ReserveLabel(t.Pos, labelName(t.IVal), level, int(t.IVal))
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.Semicolon, ";")
}

func labelName(n int32) string {
	return strconv.Itoa(int(n))
}

// parseConstDeclarations parses one or more `name = expr;` entries,
// each folded immediately so later constants may reference earlier
// ones.
func (p *Parser) parseConstDeclarations(level int) {
	for p.at(token.Ident) {
		pos := p.pos()
		name := p.identName()
		p.expect(token.Equal, "=")
		val := p.parseConstExpression()
		p.expect(token.Semicolon, ";")

		switch val.Kind {
		case ctx.FoldInt:
			p.Table.ReserveConstant(pos, name, level, symtab.KindInteger, val.IntVal, 0, symtab.NoSymbol)
		case ctx.FoldReal:
			p.Table.ReserveConstant(pos, name, level, symtab.KindReal, 0, val.RealVal, symtab.NoSymbol)
		case ctx.FoldChar:
			p.Table.ReserveConstant(pos, name, level, symtab.KindChar, int64(val.StrVal[0]), 0, symtab.NoSymbol)
		case ctx.FoldBool:
			p.Table.ReserveConstant(pos, name, level, symtab.KindBoolean, val.IntVal, 0, symtab.NoSymbol)
		case ctx.FoldString:
			off := p.Ctx.Emitter.InternString(val.StrVal)
			p.Table.ReserveStringConstant(pos, name, level, int(off), len(val.StrVal))
		case ctx.FoldSet:
			p.Table.ReserveConstant(pos, name, level, symtab.KindSet, 0, 0, symtab.NoSymbol)
		}
	}
}

// parseTypeDeclarations parses one or more `name = typeDenoter;`
// entries.
func (p *Parser) parseTypeDeclarations(level int) {
	for p.at(token.Ident) {
		pos := p.pos()
		name := p.identName()
		p.expect(token.Equal, "=")
		target := p.parseTypeDenoter(level, name)
		p.expect(token.Semicolon, ";")
		_ = pos
		_ = target
	}
	p.resolvePendingPointerPatches()
}

// parseVarDeclarations parses one or more `name1, name2: typeDenoter;`
// groups, allocating each variable's data-stack offset from
// p.Ctx.DataOffset, which only ever grows; a variable whose type
// requires integer alignment starts at the next even offset.
func (p *Parser) parseVarDeclarations(level int) {
	for p.at(token.Ident) {
		var names []string
		var positions []diag.Pos
		for {
			positions = append(positions, p.pos())
			names = append(names, p.identName())
			if !p.accept(token.Comma) {
				break
			}
		}
		p.expect(token.Colon, ":")
		typeRef := p.parseTypeDenoter(level, "")
		p.expect(token.Semicolon, ";")

		size := types.AllocSize(p.Table, typeRef)
		alignToInt := types.RequiresIntegerAlignment(p.Table, typeRef)
		for i, name := range names {
			offset := p.Ctx.AllocLocal(size, alignToInt)
			kind := p.Table.At(typeRef).Kind
			ref := p.Table.ReserveVariable(positions[i], name, level, kind, int(offset), size, typeRef)
			switch kind {
			case symtab.KindString:
				p.Ctx.Emitter.AddInitializer(pcode.InitString, int32(level), offset)
			case symtab.KindFile, symtab.KindTextFile:
				p.Ctx.Emitter.AddInitializer(pcode.InitFile, int32(level), offset)
			case symtab.KindRecord:
				p.registerFieldInitializers(level, offset, typeRef)
			}
			_ = ref
		}
	}
}

// registerFieldInitializers walks a record type's fields, recursing
// into nested records, and registers a runtime initializer for every
// string or file field found. base is the offset of the record
// instance itself; each field's own offset within the record is added
// to it to find the field's absolute storage slot.
func (p *Parser) registerFieldInitializers(level int, base int32, recordType symtab.SymbolRef) {
	for i := 0; i < p.Table.Len(); i++ {
		ref := symtab.SymbolRef(i)
		sym := p.Table.At(ref)
		if sym.Kind != symtab.KindRecordObject {
			continue
		}
		fp, ok := sym.Field()
		if !ok || fp.Record != recordType {
			continue
		}
		fieldOffset := base + int32(fp.Offset)
		switch p.Table.At(fp.Type).Kind {
		case symtab.KindString:
			p.Ctx.Emitter.AddInitializer(pcode.InitString, int32(level), fieldOffset)
		case symtab.KindFile, symtab.KindTextFile:
			p.Ctx.Emitter.AddInitializer(pcode.InitFile, int32(level), fieldOffset)
		case symtab.KindRecord:
			p.registerFieldInitializers(level, fieldOffset, fp.Type)
		}
	}
}

// parseTypeDenoter parses a type expression: a named reference, or one
// of the `packed? array/record/set/file`, `^T`, `(enum)`, `low..high`
// forms. name, when non-empty, is the name being bound by a `type`
// section entry (used so a recursive `^SelfRef` inside a record body
// can resolve before SelfRef is fully defined).
func (p *Parser) parseTypeDenoter(level int, name string) symtab.SymbolRef {
	pos := p.pos()

	// `packed` is parsed and discarded: the layout is identical to an
	// unpacked array, matching how the rest of the type system already
	// ignores alignment savings smaller than a stack word.
	p.accept(token.KwPacked)

	switch {
	case p.at(token.Caret):
		p.Stream.Advance()
		pointeeName := p.identName()
		if existing, ok := p.Table.Lookup(pointeeName); ok {
			return types.NewPointer(p.Table, pos, name, level, existing)
		}
		// Forward reference: reserve the pointer now with no pointee
		// and let the caller (parseTypeDeclarations, seeing the same
		// name declared later in this type section) patch it in.
		ref := types.NewPointer(p.Table, pos, name, level, symtab.NoSymbol)
		p.pendingPointerPatches = append(p.pendingPointerPatches, pendingPatch{ptr: ref, pointee: pointeeName})
		return ref

	case p.at(token.LParen):
		return p.parseEnumType(level, name)

	case p.at(token.KwArray):
		return p.parseArrayType(level, name)

	case p.at(token.KwRecord):
		return p.parseRecordType(level, name)

	case p.at(token.KwSet):
		p.Stream.Advance()
		p.expect(token.KwOf, "of")
		elemPos := p.pos()
		elemRef := p.parseOrdinalTypeReference()
		min, max := ordinalBounds(p.Table, elemRef)
		_ = elemPos
		return types.NewSet(p.Table, p.Diags, pos, elemRef, min, max)

	case p.at(token.KwFile):
		p.Stream.Advance()
		if p.accept(token.KwOf) {
			elemRef := p.parseOrdinalTypeReference()
			return types.NewFile(p.Table, pos, elemRef, false)
		}
		return types.NewFile(p.Table, pos, p.Ctx.Builtins.Char, false)

	case p.at(token.IntLiteral) || p.at(token.CharLiteral) || p.at(token.Minus):
		return p.parseSubrangeFromLiteral(level, name)

	case p.at(token.Ident):
		return p.parseSubrangeOrAlias(level, name)

	default:
		p.errSyntax(diag.ErrUnexpectedToken, "type")
		return p.Ctx.Builtins.Integer
	}
}

// pendingPatch defers a self-referential pointer's pointee resolution
// until its named type is declared later in the same type section.
type pendingPatch struct {
	ptr     symtab.SymbolRef
	pointee string
}

// resolvePendingPointerPatches is invoked once a type section finishes
// so forward pointer references (`^Node` before `Node` itself is
// declared) resolve to the now-complete symbol.
func (p *Parser) resolvePendingPointerPatches() {
	for _, pp := range p.pendingPointerPatches {
		if ref, ok := p.Table.Lookup(pp.pointee); ok {
			types.PatchPointee(p.Table, pp.ptr, ref)
		} else {
			p.errDecl(diag.ErrUndeclaredIdentifier, pp.pointee)
		}
	}
	p.pendingPointerPatches = nil
}

// parseSubrangeOrAlias disambiguates `type A = B;` (plain alias) from
// `type A = Low..High;` when Low is itself a named constant.
func (p *Parser) parseSubrangeOrAlias(level int, name string) symtab.SymbolRef {
	pos := p.pos()
	firstName := p.identName()
	if p.at(token.DotDot) {
		lowRef, ok := p.Table.Lookup(firstName)
		var low int64
		var baseKind symtab.Kind = symtab.KindInteger
		var baseType symtab.SymbolRef = p.Ctx.Builtins.Integer
		if ok {
			if cp, isC := p.Table.At(lowRef).Constant(); isC {
				low = cp.IntVal
			}
		}
		p.Stream.Advance() // ..
		high := p.parseOrdinalConstInt()
		return types.NewSubrange(p.Table, p.Diags, pos, name, level, baseKind, low, high, baseType)
	}
	ref, ok := p.Table.Lookup(firstName)
	if !ok {
		p.errDecl(diag.ErrUndeclaredIdentifier, firstName)
		return p.Ctx.Builtins.Integer
	}
	if name != "" {
		return types.NewAlias(p.Table, pos, name, level, ref)
	}
	return ref
}

// parseSubrangeFromLiteral parses `1..10` or `'a'..'z'` subranges whose
// bounds are literal constants rather than named ones.
func (p *Parser) parseSubrangeFromLiteral(level int, name string) symtab.SymbolRef {
	pos := p.pos()
	baseKind := symtab.KindInteger
	baseType := p.Ctx.Builtins.Integer
	if p.at(token.CharLiteral) {
		baseKind = symtab.KindChar
		baseType = p.Ctx.Builtins.Char
	}
	low := p.parseOrdinalConstInt()
	p.expect(token.DotDot, "..")
	high := p.parseOrdinalConstInt()
	return types.NewSubrange(p.Table, p.Diags, pos, name, level, baseKind, low, high, baseType)
}

// parseOrdinalConstInt consumes one ordinal literal (optionally
// negated) and returns its ordinal value.
func (p *Parser) parseOrdinalConstInt() int64 {
	neg := p.accept(token.Minus)
	var v int64
	switch {
	case p.at(token.IntLiteral):
		v = int64(p.Stream.Advance().IVal)
	case p.at(token.CharLiteral):
		v = int64(p.Stream.Advance().SVal[0])
	default:
		p.errSyntax(diag.ErrUnexpectedToken, "ordinal constant")
	}
	if neg {
		v = -v
	}
	return v
}

// parseOrdinalTypeReference resolves a named ordinal type (builtin,
// enum, or subrange) used as a set-element or array-index type.
func (p *Parser) parseOrdinalTypeReference() symtab.SymbolRef {
	if p.at(token.IntLiteral) || p.at(token.CharLiteral) || p.at(token.Minus) {
		return p.parseSubrangeFromLiteral(0, "")
	}
	name := p.identName()
	ref, ok := p.Table.Lookup(name)
	if !ok {
		p.errDecl(diag.ErrUndeclaredIdentifier, name)
		return p.Ctx.Builtins.Integer
	}
	if p.at(token.DotDot) {
		p.Stream.Advance()
		low := int64(0)
		if cp, isC := p.Table.At(ref).Constant(); isC {
			low = cp.IntVal
		}
		high := p.parseOrdinalConstInt()
		return types.NewSubrange(p.Table, p.Diags, p.pos(), "", 0, symtab.KindInteger, low, high, p.Ctx.Builtins.Integer)
	}
	return ref
}

func ordinalBounds(tab *symtab.Table, ref symtab.SymbolRef) (int64, int64) {
	sym := tab.At(ref)
	if sym == nil {
		return 0, 0
	}
	switch sym.Kind {
	case symtab.KindChar:
		return 0, 255
	case symtab.KindBoolean:
		return 0, 1
	default:
		if p, ok := sym.Type(); ok {
			return p.Min, p.Max
		}
		return 0, 0
	}
}

// parseEnumType parses `(a, b, c)`.
func (p *Parser) parseEnumType(level int, name string) symtab.SymbolRef {
	pos := p.pos()
	p.expect(token.LParen, "(")
	var members []string
	for {
		members = append(members, p.identName())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, ")")
	ref, _ := types.NewEnum(p.Table, pos, name, level, members)
	return ref
}

// parseArrayType parses `array[idx1, idx2, ...] of elem`.
func (p *Parser) parseArrayType(level int, name string) symtab.SymbolRef {
	pos := p.pos()
	p.Stream.Advance() // 'array'
	p.expect(token.LBracket, "[")
	var indexTypes []symtab.SymbolRef
	for {
		indexTypes = append(indexTypes, p.parseOrdinalTypeReference())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, "]")
	p.expect(token.KwOf, "of")
	elemType := p.parseTypeDenoter(level, "")
	ref := types.NewArray(p.Table, pos, indexTypes, elemType)
	if name != "" {
		return types.NewAlias(p.Table, pos, name, level, ref)
	}
	return ref
}

// parseRecordType parses `record field-list [case tag: type of
// variants] end`, using types.RecordBuilder for the layout arithmetic.
func (p *Parser) parseRecordType(level int, name string) symtab.SymbolRef {
	pos := p.pos()
	p.Stream.Advance() // 'record'
	b := types.NewRecordBuilder(p.Table, pos, name, level)

	p.parseFieldList(b)

	if p.accept(token.KwCase) {
		p.identName() // tag field name (variant selection at runtime is out of scope)
		p.expect(token.Colon, ":")
		p.identName() // tag type
		p.expect(token.KwOf, "of")
		b.BeginVariantPart()
		for !p.at(token.KwEnd) {
			for {
				p.parseConstExpression()
				if !p.accept(token.Comma) {
					break
				}
			}
			p.expect(token.Colon, ":")
			p.expect(token.LParen, "(")
			b.StartVariant()
			p.parseFieldList(b)
			p.expect(token.RParen, ")")
			if !p.accept(token.Semicolon) {
				break
			}
		}
	}

	p.expect(token.KwEnd, "end")
	return b.Finish()
}

func (p *Parser) parseFieldList(b *types.RecordBuilder) {
	for p.at(token.Ident) {
		var names []string
		var positions []diag.Pos
		for {
			positions = append(positions, p.pos())
			names = append(names, p.identName())
			if !p.accept(token.Comma) {
				break
			}
		}
		p.expect(token.Colon, ":")
		typeRef := p.parseTypeDenoter(0, "")
		for i, n := range names {
			b.AddField(positions[i], n, typeRef)
		}
		if !p.accept(token.Semicolon) {
			break
		}
	}
}

// paramSpec is one parsed formal parameter before it is turned into a
// symbol (its offset depends on every parameter's size, so the whole
// list is parsed first).
type paramSpec struct {
	pos     diag.Pos
	name    string
	typeRef symtab.SymbolRef
	isVar   bool
}

// parseFormalParameterList parses `(var? a, b: T; var? c: U)`.
func (p *Parser) parseFormalParameterList() []paramSpec {
	var params []paramSpec
	if !p.accept(token.LParen) {
		return params
	}
	for !p.at(token.RParen) {
		isVar := p.accept(token.KwVar)
		var names []string
		var positions []diag.Pos
		for {
			positions = append(positions, p.pos())
			names = append(names, p.identName())
			if !p.accept(token.Comma) {
				break
			}
		}
		p.expect(token.Colon, ":")
		typeName := p.identName()
		typeRef, ok := p.Table.Lookup(typeName)
		if !ok {
			p.errDecl(diag.ErrUndeclaredIdentifier, typeName)
			typeRef = p.Ctx.Builtins.Integer
		}
		for i, n := range names {
			params = append(params, paramSpec{pos: positions[i], name: n, typeRef: typeRef, isVar: isVar})
		}
		if !p.accept(token.Semicolon) {
			break
		}
	}
	p.expect(token.RParen, ")")
	return params
}

// parseProcedureOrFunction parses one procedure or function
// declaration: header, parameter list, optional return type, and
// (unless interfaceOnly) a nested block at level+1. Parameter offsets
// are computed by decrementing from -returnSize: the hidden
// function-result slot sits closest to the frame boundary and
// parameters are laid out progressively further from it, so offsets
// strictly decrease as parameters are declared.
func (p *Parser) parseProcedureOrFunction(level int, interfaceOnly bool) {
	isFunction := p.at(token.KwFunction)
	p.Stream.Advance()
	pos := p.pos()
	name := p.identName()

	params := p.parseFormalParameterList()

	var returnType symtab.SymbolRef = symtab.NoSymbol
	if isFunction {
		p.expect(token.Colon, ":")
		typeName := p.identName()
		ref, ok := p.Table.Lookup(typeName)
		if !ok {
			p.errDecl(diag.ErrUndeclaredIdentifier, typeName)
			ref = p.Ctx.Builtins.Integer
		}
		returnType = ref
	}
	p.expect(token.Semicolon, ";")

	kind := symtab.KindProcedure
	if isFunction {
		kind = symtab.KindFunction
	}

	entryLabel := p.newLabel()
	routineRef := symtab.NoSymbol
	if prior, found := p.Table.LookupRestricted(name, level); found {
		if rp, isRoutine := p.Table.At(prior).Routine(); isRoutine {
			// The body of an earlier forward or interface header reuses
			// that header's symbol, entry label and parameters.
			routineRef, entryLabel, params = prior, int32(rp.EntryLabel), nil
		}
	}
	if routineRef == symtab.NoSymbol {
		routineRef = p.Table.ReserveProcedure(pos, name, level, kind, int(entryLabel), len(params), returnType)
	}

	returnSize := 0
	if isFunction {
		returnSize = types.AllocSize(p.Table, returnType)
	}

	offset := int32(-returnSize)
	for _, ps := range params {
		if ps.isVar {
			offset -= int32(types.PointerSize)
			p.Table.ReserveVarParameter(ps.pos, ps.name, level+1, int(offset), types.PointerSize, ps.typeRef)
			continue
		}
		size := types.RefSize(p.Table, ps.typeRef)
		offset -= int32(size)
		kindOfParam := p.Table.At(ps.typeRef).Kind
		p.Table.ReserveVariable(ps.pos, ps.name, level+1, kindOfParam, int(offset), size, ps.typeRef)
	}

	// The hidden result variable shadows the function's name only inside
	// its body; it is dropped again afterwards so that later references
	// resolve to the routine. The parameters stay, right after the
	// routine symbol, where calls look them up.
	resultMark := p.Table.Mark()
	if isFunction {
		kindOfReturn := p.Table.At(returnType).Kind
		p.Table.ReserveVariable(pos, name, level+1, kindOfReturn, -returnSize, returnSize, returnType)
	}

	if interfaceOnly {
		p.Table.TruncateTo(resultMark)
		return
	}

	if p.accept(token.KwForward) {
		p.expect(token.Semicolon, ";")
		p.Table.TruncateTo(resultMark)
		return
	}

	p.Ctx.Emitter.PlaceLabel(entryLabel)
	p.parseBlock(level + 1)
	p.Ctx.Emitter.Simple(pcode.OpReturn)
	p.Table.TruncateTo(resultMark)
	p.expect(token.Semicolon, ";")

	_ = routineRef
}
