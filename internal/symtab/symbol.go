// Package symtab implements the append-only symbol table: nested
// lexical scopes addressed by high-water marks, name lookup with
// optional level restriction, and typed reservation of constants,
// types, variables, fields, procedures, functions, and labels.
//
// Every back-reference in this package is a SymbolRef — a stable index
// into Table.symbols — rather than a pointer, so the cyclic
// record -> field -> record dependency of a recursive pointer type is
// held without Go pointers: only the index needs to stay valid until
// the owning scope is truncated away. A pointer type declared before
// its pointee still starts with Base == NoSymbol and is patched once
// the pointee exists (see types.PatchPointee).
package symtab

// SymbolRef is an index into a Table's symbol vector. NoSymbol (-1)
// denotes "no symbol" (an unresolved lookup, or an absent optional
// back-reference such as a variable with no type yet).
type SymbolRef int

// NoSymbol is the sentinel SymbolRef meaning "absent".
const NoSymbol SymbolRef = -1

// Kind is the discriminant calls out: one tag shared by
// every symbol shape, reused both for type-definition symbols (the
// builtin "integer" type itself) and for instances of that kind (a
// variable declared "x: integer" also carries Kind == Integer).
type Kind int

const (
	KindUnknown Kind = iota
	KindProcedure
	KindFunction
	KindLabel
	KindType
	KindFile
	KindTextFile
	KindInteger
	KindWord
	KindShortInt
	KindShortWord
	KindLongInt
	KindLongWord
	KindBoolean
	KindChar
	KindReal
	KindString
	KindStringConstant
	KindPointer
	KindScalar       // enum type declaration
	KindScalarObject // enum member
	KindSubrange
	KindSet
	KindArray
	KindRecord
	KindRecordObject // record field
	KindVarParameter
	KindUnitName
)

func (k Kind) String() string {
	switch k {
	case KindProcedure:
		return "procedure"
	case KindFunction:
		return "function"
	case KindLabel:
		return "label"
	case KindType:
		return "type"
	case KindFile:
		return "file"
	case KindTextFile:
		return "text"
	case KindInteger:
		return "integer"
	case KindWord:
		return "word"
	case KindShortInt:
		return "shortint"
	case KindShortWord:
		return "shortword"
	case KindLongInt:
		return "longint"
	case KindLongWord:
		return "longword"
	case KindBoolean:
		return "boolean"
	case KindChar:
		return "char"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindStringConstant:
		return "string-constant"
	case KindPointer:
		return "pointer"
	case KindScalar:
		return "scalar"
	case KindScalarObject:
		return "scalar-object"
	case KindSubrange:
		return "subrange"
	case KindSet:
		return "set"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	case KindRecordObject:
		return "record-object"
	case KindVarParameter:
		return "var-parameter"
	case KindUnitName:
		return "unit-name"
	default:
		return "unknown"
	}
}

// IsOrdinal reports whether a symbol of this Kind denotes an ordinal
// value (integer family, char, boolean, scalar, subrange of one).
func (k Kind) IsOrdinal() bool {
	switch k {
	case KindInteger, KindWord, KindShortInt, KindShortWord, KindLongInt,
		KindLongWord, KindChar, KindBoolean, KindScalar, KindSubrange:
		return true
	default:
		return false
	}
}

// VariableFlags records the boolean attributes attaches to
// a variable symbol.
type VariableFlags uint8

const (
	FlagExternal VariableFlags = 1 << iota
	FlagVarParam
)

// VariablePayload is attached to variable, field-backed, and
// parameter symbols: everything with a stack footprint.
type VariablePayload struct {
	Offset        int
	Size          int
	Flags         VariableFlags
	Type          SymbolRef // back-reference to the variable's type symbol
	TransferUnit  int       // files: natural read/write size
}

// TypePayload is attached to type-definition symbols: builtin
// primitives, aliases, and the four complex shapes (pointer, array,
// record, set) plus file/subrange/scalar.
type TypePayload struct {
	AllocSize    int       // size of one instance
	RefSize      int       // size when passed by reference (compact types)
	Base         SymbolRef // base type: pointed-to type, element type, alias target
	IndexType    SymbolRef // arrays: the (hidden subrange) index type of this dimension
	Discriminant SubKind   // which of the four complex shapes / alias this is
	Min, Max     int64     // ordinal bounds: subrange/scalar/set element range
	VariantSize  bool      // record: true if any case-variant made the layout size-ambiguous
	Dimensions   int       // arrays: remaining dimension count at this level
}

// SubKind discriminates the shape of a TypePayload beyond the coarse
// symtab.Kind tag (Kind already says "array" vs "record"; SubKind
// distinguishes e.g. a type alias from the type it was derived from).
type SubKind int

const (
	SubKindPrimitive SubKind = iota
	SubKindAlias
	SubKindEnum
	SubKindSubrange
	SubKindPointer
	SubKindArray
	SubKindRecord
	SubKindSet
	SubKindFile
)

// FieldPayload is attached to record-field symbols.
type FieldPayload struct {
	Offset int
	Size   int
	Record SymbolRef // back-reference to the parent record type
	Type   SymbolRef // back-reference to the field's own type
}

// RoutinePayload is attached to procedure/function symbols. Its
// formal parameters are not stored here: they immediately follow the
// routine's own symbol record in the table, so callers index
// baseSymbol+1 .. baseSymbol+ParamCount.
type RoutinePayload struct {
	EntryLabel int
	ParamCount int
	ReturnType SymbolRef // NoSymbol for procedures
	Exported   bool      // level-1 implementation-section routine of a unit
	Imported   bool      // referenced via another unit's interface
}

// ConstantPayload is attached to constant symbols.
type ConstantPayload struct {
	IntVal    int64
	RealVal   float64
	StrOffset int // string-table offset, for string constants
	StrLen    int
	Type      SymbolRef // parent/declared type, if constrained (e.g. enum literal)
}

// EnumMemberPayload is attached to scalar-object (enum member)
// symbols.
type EnumMemberPayload struct {
	Ordinal int
	Type    SymbolRef // back-reference to the owning scalar type
}

// LabelPayload is attached to label symbols.
type LabelPayload struct {
	Number  int
	Defined bool

	// Target is the p-code label id this label's statement resolves
	// to, assigned lazily by whichever of the label statement or an
	// earlier goto reference is compiled first. Zero means unassigned;
	// p-code label ids themselves start at 1 (see pcode.Emitter.NewLabel).
	Target int32
}

// Symbol is the single record shape describes: common
// fields directly, plus exactly one concrete payload selected at
// construction by the Table's reserveX method and never reassigned.
type Symbol struct {
	Name  string
	Level int
	Kind  Kind

	Payload any // one of the *Payload types above
}

// Variable returns the VariablePayload attached to s, or (nil, false)
// if s was not constructed by reserveVariable/reserveFile/a parameter.
func (s *Symbol) Variable() (*VariablePayload, bool) {
	p, ok := s.Payload.(*VariablePayload)
	return p, ok
}

// Type returns the TypePayload attached to s.
func (s *Symbol) Type() (*TypePayload, bool) {
	p, ok := s.Payload.(*TypePayload)
	return p, ok
}

// Field returns the FieldPayload attached to s.
func (s *Symbol) Field() (*FieldPayload, bool) {
	p, ok := s.Payload.(*FieldPayload)
	return p, ok
}

// Routine returns the RoutinePayload attached to s.
func (s *Symbol) Routine() (*RoutinePayload, bool) {
	p, ok := s.Payload.(*RoutinePayload)
	return p, ok
}

// Constant returns the ConstantPayload attached to s.
func (s *Symbol) Constant() (*ConstantPayload, bool) {
	p, ok := s.Payload.(*ConstantPayload)
	return p, ok
}

// EnumMember returns the EnumMemberPayload attached to s.
func (s *Symbol) EnumMember() (*EnumMemberPayload, bool) {
	p, ok := s.Payload.(*EnumMemberPayload)
	return p, ok
}

// Label returns the LabelPayload attached to s.
func (s *Symbol) Label() (*LabelPayload, bool) {
	p, ok := s.Payload.(*LabelPayload)
	return p, ok
}
