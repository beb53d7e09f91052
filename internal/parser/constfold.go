package parser

import (
	"sort"

	"github.com/pascalfe/pascalfe/internal/ctx"
	"github.com/pascalfe/pascalfe/internal/diag"
	"github.com/pascalfe/pascalfe/internal/symtab"
	"github.com/pascalfe/pascalfe/internal/token"
)

// parseConstExpression evaluates the same grammar parseExpression
// does, but entirely at compile time: every operand must itself reduce
// to a literal or a previously folded constant. The result is also
// left in p.Ctx.FoldResult, mirroring how the rest of
// the front end consults the context rather than threading an extra
// return value everywhere a folded value is needed mid-expression.
func (p *Parser) parseConstExpression() ctx.FoldValue {
	left := p.parseConstSimpleExpression()
	if isRelational(p.Stream.Current().Kind) {
		op := p.Stream.Advance().Kind
		right := p.parseConstSimpleExpression()
		left = foldRelational(op, left, right)
	}
	p.Ctx.FoldResult = left
	return left
}

func isRelational(k token.Kind) bool {
	switch k {
	case token.Equal, token.NotEqual, token.Less, token.LessEq, token.Greater, token.GreaterEq, token.KwIn:
		return true
	default:
		return false
	}
}

func (p *Parser) parseConstSimpleExpression() ctx.FoldValue {
	neg := p.accept(token.Minus)
	p.accept(token.Plus)
	left := p.parseConstTerm()
	if neg {
		left = foldUnaryMinus(left)
	}
	for isAdditive(p.Stream.Current().Kind) {
		op := p.Stream.Advance().Kind
		right := p.parseConstTerm()
		left = foldAdditive(p.Diags, p.pos(), op, left, right)
	}
	return left
}

func isAdditive(k token.Kind) bool {
	switch k {
	case token.Plus, token.Minus, token.KwOr, token.KwXor, token.SymDiff:
		return true
	default:
		return false
	}
}

func (p *Parser) parseConstTerm() ctx.FoldValue {
	left := p.parseConstFactor()
	for isMultiplicative(p.Stream.Current().Kind) {
		op := p.Stream.Advance().Kind
		right := p.parseConstFactor()
		left = foldMultiplicative(p.Diags, p.pos(), op, left, right)
	}
	return left
}

func isMultiplicative(k token.Kind) bool {
	switch k {
	case token.Star, token.Slash, token.KwDiv, token.KwMod, token.KwAnd, token.KwShl, token.KwShr, token.Ampersand:
		return true
	default:
		return false
	}
}

func (p *Parser) parseConstFactor() ctx.FoldValue {
	switch {
	case p.at(token.IntLiteral):
		return ctx.FoldValue{Kind: ctx.FoldInt, IntVal: int64(p.Stream.Advance().IVal)}

	case p.at(token.RealLiteral):
		return ctx.FoldValue{Kind: ctx.FoldReal, RealVal: p.Stream.Advance().RVal}

	case p.at(token.CharLiteral):
		return ctx.FoldValue{Kind: ctx.FoldChar, StrVal: p.Stream.Advance().SVal}

	case p.at(token.StringLiteral):
		return ctx.FoldValue{Kind: ctx.FoldString, StrVal: p.Stream.Advance().SVal}

	case p.accept(token.KwNot):
		v := p.parseConstFactor()
		if v.Kind == ctx.FoldBool {
			v.IntVal = boolInt(v.IntVal == 0)
		}
		return v

	case p.accept(token.LParen):
		v := p.parseConstExpression()
		p.expect(token.RParen, ")")
		return v

	case p.at(token.LBracket):
		return p.parseConstSetConstructor()

	case p.at(token.Ident):
		return p.resolveConstIdent()

	default:
		p.errSyntax(diag.ErrUnexpectedToken, "constant")
		return ctx.FoldValue{Kind: ctx.FoldInt}
	}
}

func (p *Parser) resolveConstIdent() ctx.FoldValue {
	name := p.identName()
	if name == "true" || name == "True" || name == "TRUE" {
		return ctx.FoldValue{Kind: ctx.FoldBool, IntVal: 1}
	}
	if name == "false" || name == "False" || name == "FALSE" {
		return ctx.FoldValue{Kind: ctx.FoldBool, IntVal: 0}
	}
	ref, ok := p.Table.Lookup(name)
	if !ok {
		p.errDecl(diag.ErrUndeclaredIdentifier, name)
		return ctx.FoldValue{Kind: ctx.FoldInt}
	}
	sym := p.Table.At(ref)
	if cp, ok := sym.Constant(); ok {
		switch sym.Kind {
		case symtab.KindReal:
			return ctx.FoldValue{Kind: ctx.FoldReal, RealVal: cp.RealVal}
		case symtab.KindChar:
			return ctx.FoldValue{Kind: ctx.FoldChar, StrVal: string(rune(cp.IntVal))}
		case symtab.KindBoolean:
			return ctx.FoldValue{Kind: ctx.FoldBool, IntVal: cp.IntVal}
		case symtab.KindStringConstant:
			return ctx.FoldValue{Kind: ctx.FoldString}
		default:
			return ctx.FoldValue{Kind: ctx.FoldInt, IntVal: cp.IntVal}
		}
	}
	if ep, ok := sym.EnumMember(); ok {
		return ctx.FoldValue{Kind: ctx.FoldInt, IntVal: int64(ep.Ordinal)}
	}
	p.errDecl(diag.ErrUndeclaredIdentifier, name+" is not a constant")
	return ctx.FoldValue{Kind: ctx.FoldInt}
}

// parseConstSetConstructor parses `['A', 'C'..'E']`, folding it into a
// sorted, de-duplicated ordinal member list.
func (p *Parser) parseConstSetConstructor() ctx.FoldValue {
	p.Stream.Advance() // '['
	members := map[int64]bool{}
	if !p.at(token.RBracket) {
		for {
			lowVal := p.parseConstExpression()
			low := ordinalOf(lowVal)
			high := low
			if p.accept(token.DotDot) {
				highVal := p.parseConstExpression()
				high = ordinalOf(highVal)
			}
			for v := low; v <= high; v++ {
				members[v] = true
			}
			if !p.accept(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RBracket, "]")
	out := make([]int64, 0, len(members))
	for v := range members {
		out = append(out, v)
	}
	sortInt64s(out)
	return ctx.FoldValue{Kind: ctx.FoldSet, SetVal: out}
}

func sortInt64s(s []int64) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}

func ordinalOf(v ctx.FoldValue) int64 {
	switch v.Kind {
	case ctx.FoldChar:
		if len(v.StrVal) > 0 {
			return int64(v.StrVal[0])
		}
		return 0
	default:
		return v.IntVal
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func foldUnaryMinus(v ctx.FoldValue) ctx.FoldValue {
	switch v.Kind {
	case ctx.FoldReal:
		v.RealVal = -v.RealVal
	default:
		v.IntVal = -v.IntVal
	}
	return v
}

// promoteMixed implements "mixed int/real promotion":
// if either operand is real, both are treated as real.
func promoteMixed(a, b ctx.FoldValue) (ar, br float64, bothInt bool) {
	if a.Kind == ctx.FoldReal || b.Kind == ctx.FoldReal {
		av, bv := a.RealVal, b.RealVal
		if a.Kind != ctx.FoldReal {
			av = float64(a.IntVal)
		}
		if b.Kind != ctx.FoldReal {
			bv = float64(b.IntVal)
		}
		return av, bv, false
	}
	return 0, 0, true
}

func foldAdditive(d *diag.Collector, pos diag.Pos, op token.Kind, a, b ctx.FoldValue) ctx.FoldValue {
	if a.Kind == ctx.FoldString || b.Kind == ctx.FoldString {
		if op == token.Plus {
			return ctx.FoldValue{Kind: ctx.FoldString, StrVal: a.StrVal + b.StrVal}
		}
		d.Report(diag.CategoryType, pos, diag.ErrOperandTypeMismatch, "only + applies to strings")
		return a
	}
	if a.Kind == ctx.FoldSet || b.Kind == ctx.FoldSet {
		return foldSetOp(op, a, b)
	}
	if av, bv, bothInt := promoteMixed(a, b); !bothInt {
		switch op {
		case token.Plus:
			return ctx.FoldValue{Kind: ctx.FoldReal, RealVal: av + bv}
		case token.Minus:
			return ctx.FoldValue{Kind: ctx.FoldReal, RealVal: av - bv}
		}
	}
	switch op {
	case token.Plus:
		return ctx.FoldValue{Kind: ctx.FoldInt, IntVal: a.IntVal + b.IntVal}
	case token.Minus:
		return ctx.FoldValue{Kind: ctx.FoldInt, IntVal: a.IntVal - b.IntVal}
	case token.KwOr:
		return ctx.FoldValue{Kind: ctx.FoldBool, IntVal: boolInt(a.IntVal != 0 || b.IntVal != 0)}
	case token.KwXor:
		return ctx.FoldValue{Kind: ctx.FoldBool, IntVal: boolInt((a.IntVal != 0) != (b.IntVal != 0))}
	}
	return a
}

func foldMultiplicative(d *diag.Collector, pos diag.Pos, op token.Kind, a, b ctx.FoldValue) ctx.FoldValue {
	if a.Kind == ctx.FoldSet || b.Kind == ctx.FoldSet {
		return foldSetOp(op, a, b)
	}
	if av, bv, bothInt := promoteMixed(a, b); !bothInt {
		switch op {
		case token.Star:
			return ctx.FoldValue{Kind: ctx.FoldReal, RealVal: av * bv}
		case token.Slash:
			return ctx.FoldValue{Kind: ctx.FoldReal, RealVal: av / bv}
		}
	}
	switch op {
	case token.Star:
		return ctx.FoldValue{Kind: ctx.FoldInt, IntVal: a.IntVal * b.IntVal}
	case token.Slash:
		if b.IntVal == 0 {
			return ctx.FoldValue{Kind: ctx.FoldReal}
		}
		return ctx.FoldValue{Kind: ctx.FoldReal, RealVal: float64(a.IntVal) / float64(b.IntVal)}
	case token.KwDiv:
		if b.IntVal == 0 {
			d.Report(diag.CategoryType, pos, diag.ErrOperandTypeMismatch, "division by zero")
			return ctx.FoldValue{Kind: ctx.FoldInt}
		}
		return ctx.FoldValue{Kind: ctx.FoldInt, IntVal: a.IntVal / b.IntVal}
	case token.KwMod:
		if b.IntVal == 0 {
			d.Report(diag.CategoryType, pos, diag.ErrOperandTypeMismatch, "division by zero")
			return ctx.FoldValue{Kind: ctx.FoldInt}
		}
		return ctx.FoldValue{Kind: ctx.FoldInt, IntVal: a.IntVal % b.IntVal}
	case token.KwAnd:
		return ctx.FoldValue{Kind: ctx.FoldBool, IntVal: boolInt(a.IntVal != 0 && b.IntVal != 0)}
	case token.KwShl:
		return ctx.FoldValue{Kind: ctx.FoldInt, IntVal: a.IntVal << uint64(b.IntVal)}
	case token.KwShr:
		return ctx.FoldValue{Kind: ctx.FoldInt, IntVal: a.IntVal >> uint64(b.IntVal)}
	case token.Ampersand:
		return ctx.FoldValue{Kind: ctx.FoldInt, IntVal: a.IntVal & b.IntVal}
	}
	return a
}

func foldSetOp(op token.Kind, a, b ctx.FoldValue) ctx.FoldValue {
	inA := map[int64]bool{}
	for _, v := range a.SetVal {
		inA[v] = true
	}
	inB := map[int64]bool{}
	for _, v := range b.SetVal {
		inB[v] = true
	}
	out := map[int64]bool{}
	switch op {
	case token.Plus:
		for v := range inA {
			out[v] = true
		}
		for v := range inB {
			out[v] = true
		}
	case token.Star:
		for v := range inA {
			if inB[v] {
				out[v] = true
			}
		}
	case token.Minus:
		for v := range inA {
			if !inB[v] {
				out[v] = true
			}
		}
	case token.SymDiff:
		for v := range inA {
			if !inB[v] {
				out[v] = true
			}
		}
		for v := range inB {
			if !inA[v] {
				out[v] = true
			}
		}
	}
	res := make([]int64, 0, len(out))
	for v := range out {
		res = append(res, v)
	}
	sortInt64s(res)
	return ctx.FoldValue{Kind: ctx.FoldSet, SetVal: res}
}

func foldRelational(op token.Kind, a, b ctx.FoldValue) ctx.FoldValue {
	if op == token.KwIn {
		target := ordinalOf(a)
		for _, v := range b.SetVal {
			if v == target {
				return ctx.FoldValue{Kind: ctx.FoldBool, IntVal: 1}
			}
		}
		return ctx.FoldValue{Kind: ctx.FoldBool, IntVal: 0}
	}
	var cmp int
	if a.Kind == ctx.FoldReal || b.Kind == ctx.FoldReal {
		av, bv, _ := promoteMixed(a, b)
		switch {
		case av < bv:
			cmp = -1
		case av > bv:
			cmp = 1
		}
	} else if a.Kind == ctx.FoldString || a.Kind == ctx.FoldChar {
		switch {
		case a.StrVal < b.StrVal:
			cmp = -1
		case a.StrVal > b.StrVal:
			cmp = 1
		}
	} else {
		switch {
		case a.IntVal < b.IntVal:
			cmp = -1
		case a.IntVal > b.IntVal:
			cmp = 1
		}
	}
	var result bool
	switch op {
	case token.Equal:
		result = cmp == 0
	case token.NotEqual:
		result = cmp != 0
	case token.Less:
		result = cmp < 0
	case token.LessEq:
		result = cmp <= 0
	case token.Greater:
		result = cmp > 0
	case token.GreaterEq:
		result = cmp >= 0
	}
	return ctx.FoldValue{Kind: ctx.FoldBool, IntVal: boolInt(result)}
}
