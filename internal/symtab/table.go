package symtab

import (
	"strings"

	"github.com/pascalfe/pascalfe/internal/diag"
)

// Table is an append-only symbol vector. Scope exit never edits
// entries in place; it truncates the vector back to a saved Mark,
// which is the only form of "deletion" this type supports.
type Table struct {
	symbols []Symbol
	diags   *diag.Collector
}

// New creates an empty Table that reports reservation conflicts
// through d. d may be nil in tests that don't care about diagnostics.
func New(d *diag.Collector) *Table {
	return &Table{diags: d}
}

// Mark returns the current high-water mark: the append-index that a
// later TruncateTo(mark) will roll back to.
func (t *Table) Mark() int { return len(t.symbols) }

// TruncateTo discards every symbol appended since mark, releasing an
// entire lexical scope atomically.
func (t *Table) TruncateTo(mark int) {
	t.symbols = t.symbols[:mark]
}

// Len returns the number of live symbols.
func (t *Table) Len() int { return len(t.symbols) }

// At dereferences a SymbolRef. Callers must not hold the pointer
// across a TruncateTo that invalidates it.
func (t *Table) At(ref SymbolRef) *Symbol {
	if ref < 0 || int(ref) >= len(t.symbols) {
		return nil
	}
	return &t.symbols[ref]
}

func sameName(a, b string) bool { return strings.EqualFold(a, b) }

// Lookup resolves name to the innermost (most recently appended)
// matching symbol, implementing ordinary shadowed scoping. It never
// reports a diagnostic; callers decide how to react to a miss.
func (t *Table) Lookup(name string) (SymbolRef, bool) {
	for i := len(t.symbols) - 1; i >= 0; i-- {
		if sameName(t.symbols[i].Name, name) {
			return SymbolRef(i), true
		}
	}
	return NoSymbol, false
}

// LookupRestricted resolves name only among symbols declared at the
// given level — "the current scope only" — the semantics a
// redeclaration check needs to make redeclaration at the same level
// parse as a fresh declaration rather than a reference to the outer
// name.
func (t *Table) LookupRestricted(name string, level int) (SymbolRef, bool) {
	for i := len(t.symbols) - 1; i >= 0; i-- {
		if t.symbols[i].Level < level {
			break
		}
		if t.symbols[i].Level == level && sameName(t.symbols[i].Name, name) {
			return SymbolRef(i), true
		}
	}
	return NoSymbol, false
}

// reserve appends a new symbol, reporting and substituting a sentinel
// if name collides with an existing symbol in the same scope. This is
// the single choke point every reserveX method below funnels through.
func (t *Table) reserve(pos diag.Pos, name string, level int, kind Kind, payload any) SymbolRef {
	if name != "" {
		if _, found := t.LookupRestricted(name, level); found {
			if t.diags != nil {
				t.diags.Report(diag.CategoryDeclaration, pos, diag.ErrDuplicateSymbol, name)
			}
			ref := SymbolRef(len(t.symbols))
			t.symbols = append(t.symbols, Symbol{Name: name, Level: level, Kind: KindUnknown})
			return ref
		}
	}
	ref := SymbolRef(len(t.symbols))
	t.symbols = append(t.symbols, Symbol{Name: name, Level: level, Kind: kind, Payload: payload})
	return ref
}

// ReserveTypeDefinition reserves a named type (primitive, alias, or
// one of the four complex shapes). base and indexBase may be
// NoSymbol.
func (t *Table) ReserveTypeDefinition(pos diag.Pos, name string, level int, kind Kind, allocSize int, base, indexBase SymbolRef) SymbolRef {
	return t.reserve(pos, name, level, kind, &TypePayload{
		AllocSize: allocSize,
		RefSize:   allocSize,
		Base:      base,
		IndexType: indexBase,
	})
}

// ReserveVariable reserves a local or global variable.
func (t *Table) ReserveVariable(pos diag.Pos, name string, level int, kind Kind, offset, size int, typeRef SymbolRef) SymbolRef {
	return t.reserve(pos, name, level, kind, &VariablePayload{
		Offset: offset,
		Size:   size,
		Type:   typeRef,
	})
}

// ReserveVarParameter reserves a VAR-formal-parameter symbol: always
// pointer-sized on the stack regardless of the referenced type's size.
func (t *Table) ReserveVarParameter(pos diag.Pos, name string, level int, offset, ptrSize int, typeRef SymbolRef) SymbolRef {
	return t.reserve(pos, name, level, KindVarParameter, &VariablePayload{
		Offset: offset,
		Size:   ptrSize,
		Flags:  FlagVarParam,
		Type:   typeRef,
	})
}

// ReserveConstant reserves an integer, real, or (interned) string
// constant.
func (t *Table) ReserveConstant(pos diag.Pos, name string, level int, kind Kind, intVal int64, realVal float64, parentType SymbolRef) SymbolRef {
	return t.reserve(pos, name, level, kind, &ConstantPayload{
		IntVal:  intVal,
		RealVal: realVal,
		Type:    parentType,
	})
}

// ReserveStringConstant reserves a string literal already interned
// into the object file's read-only data section at [offset, offset+size).
func (t *Table) ReserveStringConstant(pos diag.Pos, name string, level int, offset, size int) SymbolRef {
	return t.reserve(pos, name, level, KindStringConstant, &ConstantPayload{
		StrOffset: offset,
		StrLen:    size,
	})
}

// ReserveRecordField reserves a field. Per invariant 2, callers append
// a record type's fields immediately after one another so that
// baseSymbol[i] indexing holds.
func (t *Table) ReserveRecordField(pos diag.Pos, name string, level int, offset, size int, recordRef, typeRef SymbolRef) SymbolRef {
	return t.reserve(pos, name, level, KindRecordObject, &FieldPayload{
		Offset: offset,
		Size:   size,
		Record: recordRef,
		Type:   typeRef,
	})
}

// ReserveEnumMember reserves one member of a scalar (enum) type.
func (t *Table) ReserveEnumMember(pos diag.Pos, name string, level int, ordinal int, enumType SymbolRef) SymbolRef {
	return t.reserve(pos, name, level, KindScalarObject, &EnumMemberPayload{
		Ordinal: ordinal,
		Type:    enumType,
	})
}

// ReserveLabel reserves a label declared in a `label` group. Its
// definition (the statement it prefixes) is recorded later via
// DefineLabel.
func (t *Table) ReserveLabel(pos diag.Pos, name string, level int, number int) SymbolRef {
	return t.reserve(pos, name, level, KindLabel, &LabelPayload{Number: number})
}

// DefineLabel marks a previously reserved label as having been
// attached to a statement.
func (t *Table) DefineLabel(ref SymbolRef) {
	if s := t.At(ref); s != nil {
		if lp, ok := s.Label(); ok {
			lp.Defined = true
		}
	}
}

// VerifyLabelsDefined reports a diagnostic for every label declared
// since scopeMark that was never attached to a statement.
func (t *Table) VerifyLabelsDefined(pos diag.Pos, scopeMark int) {
	for i := scopeMark; i < len(t.symbols); i++ {
		s := &t.symbols[i]
		if s.Kind != KindLabel {
			continue
		}
		if lp, ok := s.Label(); ok && !lp.Defined {
			if t.diags != nil {
				t.diags.Report(diag.CategoryDeclaration, pos, diag.ErrLabelUndefined, s.Name)
			}
		}
	}
}

// ReserveFile reserves a file (or text-file) variable.
func (t *Table) ReserveFile(pos diag.Pos, name string, level int, kind Kind, offset, transferUnit int, elementType SymbolRef) SymbolRef {
	return t.reserve(pos, name, level, kind, &VariablePayload{
		Offset:       offset,
		Size:         transferUnit,
		Type:         elementType,
		TransferUnit: transferUnit,
	})
}

// ReserveProcedure reserves a procedure or function. Its formal
// parameters must be reserved immediately afterward (invariant 2).
func (t *Table) ReserveProcedure(pos diag.Pos, name string, level int, kind Kind, entryLabel, paramCount int, returnType SymbolRef) SymbolRef {
	return t.reserve(pos, name, level, kind, &RoutinePayload{
		EntryLabel: entryLabel,
		ParamCount: paramCount,
		ReturnType: returnType,
	})
}
