package parser

import "github.com/pascalfe/pascalfe/internal/pcode"

// parseBlock parses one block at the given lexical level: the fixed
// declaration-group order (label, const, type, var, procedure/function,
// each repeatable and all optional) followed by the block's compound
// statement. It saves and restores the scope's five high-water marks
// around the whole thing (see ctx.Marks).
func (p *Parser) parseBlock(level int) {
	mark := p.Ctx.Mark()
	savedLevel := p.Ctx.Level
	p.Ctx.Level = int32(level)
	p.Ctx.EnterRoutine()

	p.parseDeclarations(level, false)

	localsSize := p.Ctx.DataOffset - mark.DataOffset
	if localsSize > 0 {
		p.Ctx.Emitter.Inds(localsSize)
	}
	for _, init := range p.Ctx.Emitter.InitializersSince(mark.Initializer) {
		p.Ctx.Emitter.LoadAddress(init.Level, init.Offset, false)
		switch init.Kind {
		case pcode.InitString:
			p.Ctx.Emitter.StringCall("init_string")
		case pcode.InitFile:
			p.Ctx.Emitter.SysioCall("init_file")
		}
	}

	p.parseCompoundStatement(level)

	p.Table.VerifyLabelsDefined(p.pos(), int(mark.Symbol))

	if localsSize > 0 {
		p.Ctx.Emitter.Inds(-localsSize)
	}

	p.Ctx.TruncateTo(mark)
	p.Ctx.Level = savedLevel
}
