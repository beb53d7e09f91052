package pcode

// InitKind identifies what kind of runtime initialization a declared
// variable needs performed at block entry.
type InitKind uint8

const (
	InitString InitKind = iota // allocate the variable's string buffer
	InitFile                   // zero the variable's runtime file descriptor slot
)

// Initializer is one entry in the emitter's initializer list,
// appended during variable declaration and consumed by the block
// parser when it emits a block's prologue.
type Initializer struct {
	Kind   InitKind
	Level  int32
	Offset int32
}

// Emitter is the stateful sink that accumulates a compilation unit's
// output: the growing instruction stream, the monotonic label
// counter, the read-only string table (interned, offset-addressed),
// the scoped initializer list, and the string-stack-fixup counter
// that tracks transient string scratch allocated inside a call site.
type Emitter struct {
	instrs []Instr

	nextLabel int32

	rodata        []byte
	rodataOffsets map[string]int

	initializers []Initializer

	stringScratchDepth int
}

// New creates an empty Emitter.
func New() *Emitter {
	return &Emitter{rodataOffsets: map[string]int{}}
}

// Instrs returns the emitted instruction stream.
func (e *Emitter) Instrs() []Instr { return e.instrs }

func (e *Emitter) emit(i Instr) { e.instrs = append(e.instrs, i) }

// NewLabel allocates and returns a fresh label id; ids start at 1 so
// that the zero value can mean "no label" wherever that matters.
func (e *Emitter) NewLabel() int32 {
	e.nextLabel++
	return e.nextLabel
}

// PlaceLabel plants a previously allocated label at the current
// instruction position.
func (e *Emitter) PlaceLabel(id int32) { e.emit(Instr{Op: OpLabel, IData: id}) }

// Jump emits an unconditional jump to a label.
func (e *Emitter) Jump(id int32) { e.emit(Instr{Op: OpJump, IData: id}) }

// JumpFalse emits a conditional branch taken when the popped boolean
// is false.
func (e *Emitter) JumpFalse(id int32) { e.emit(Instr{Op: OpJumpFalse, IData: id}) }

// JumpTrue emits a conditional branch taken when the popped boolean
// is true.
func (e *Emitter) JumpTrue(id int32) { e.emit(Instr{Op: OpJumpTrue, IData: id}) }

// Call emits a call to a routine's entry label.
func (e *Emitter) Call(entryLabel int32) { e.emit(Instr{Op: OpCall, IData: entryLabel}) }

// Simple emits one of the no-operand instructions (shape 1).
func (e *Emitter) Simple(op Op) { e.emit(Instr{Op: op}) }

// PushImmediate emits a literal push.
func (e *Emitter) PushImmediate(v int32) { e.emit(Instr{Op: OpPushImmediate, IData: v}) }

// Inds adjusts the data-stack pointer by delta (positive to allocate,
// negative to release a block's locals).
func (e *Emitter) Inds(delta int32) { e.emit(Instr{Op: OpInds, IData: delta}) }

// LoadVar emits a stack-reference load.
func (e *Emitter) LoadVar(level, offset int32, indexed bool, width Width, signed bool) {
	e.emit(Instr{Op: OpLoadVar, Level: level, Offset: offset, Indexed: indexed, Width: width, Signed: signed})
}

// StoreVar emits a stack-reference store.
func (e *Emitter) StoreVar(level, offset int32, indexed bool, width Width, signed bool) {
	e.emit(Instr{Op: OpStoreVar, Level: level, Offset: offset, Indexed: indexed, Width: width, Signed: signed})
}

// LoadAddress emits the "load-address" factor-flag opcode: push the
// address of a (possibly indexed) stack-reference rather than its
// value.
func (e *Emitter) LoadAddress(level, offset int32, indexed bool) {
	e.emit(Instr{Op: OpLoadAddress, Level: level, Offset: offset, Indexed: indexed})
}

// Relational emits one slot of the ten-way relational-operator
// dispatch table. Callers must have already rejected ClassNone (not
// applicable for this type) before calling.
func (e *Emitter) Relational(op Op, class Class) { e.emit(Instr{Op: op, Class: class}) }

// Arithmetic emits a shape-1 arithmetic op tagged with the operand
// class it was type-checked against, matching how the relational
// family records its slot (useful for dump/debug output even though
// simple ops otherwise carry no operand).
func (e *Emitter) Arithmetic(op Op, class Class) { e.emit(Instr{Op: op, Class: class}) }

// Float emits a floating-point family instruction; conv marks which
// operand (if any) needs an int->real conversion inserted first.
func (e *Emitter) Float(op Op, conv ConvFlags) { e.emit(Instr{Op: op, Conv: conv}) }

// Long emits a long-integer family instruction.
func (e *Emitter) Long(op Op) { e.emit(Instr{Op: op}) }

// StringCall emits a call into the string runtime library.
func (e *Emitter) StringCall(name string) { e.emit(Instr{Op: OpStringCall, Sub: name}) }

// SetCall emits a call into the set runtime library.
func (e *Emitter) SetCall(name string) { e.emit(Instr{Op: OpSetCall, Sub: name}) }

// SysioCall emits a call into the system I/O runtime library.
func (e *Emitter) SysioCall(name string) { e.emit(Instr{Op: OpSysioCall, Sub: name}) }

// EntryPoint marks the object file's program start (level-0 block).
func (e *Emitter) EntryPoint() { e.emit(Instr{Op: OpEntryPoint}) }

// ExportSymbol emits an export directive for a level-0 program symbol
// or a unit interface-section symbol.
func (e *Emitter) ExportSymbol(name string) { e.emit(Instr{Op: OpExportSymbol, Sub: name}) }

// ImportSymbol emits an import directive for a name consumed from
// another unit's interface.
func (e *Emitter) ImportSymbol(name string) { e.emit(Instr{Op: OpImportSymbol, Sub: name}) }

// InternString appends s to the read-only data section, returning its
// byte offset. Identical strings already in the table are reused.
func (e *Emitter) InternString(s string) int32 {
	if off, ok := e.rodataOffsets[s]; ok {
		return int32(off)
	}
	off := len(e.rodata)
	e.rodata = append(e.rodata, s...)
	e.rodataOffsets[s] = off
	return int32(off)
}

// Rodata returns the accumulated read-only data section.
func (e *Emitter) Rodata() []byte { return e.rodata }

// RodataMark returns the string-pool top, one of the five high-water
// marks a block snapshots on entry.
func (e *Emitter) RodataMark() int { return len(e.rodata) }

// TruncateRodata releases everything interned since mark, used on
// scope exit alongside the symbol-table truncation.
func (e *Emitter) TruncateRodata(mark int) {
	e.rodata = e.rodata[:mark]
	for s, off := range e.rodataOffsets {
		if off >= mark {
			delete(e.rodataOffsets, s)
		}
	}
}

// AddInitializer appends a runtime-initialization entry for a just
// declared variable.
func (e *Emitter) AddInitializer(kind InitKind, level, offset int32) {
	e.initializers = append(e.initializers, Initializer{Kind: kind, Level: level, Offset: offset})
}

// InitMark returns the initializer-list high-water mark.
func (e *Emitter) InitMark() int { return len(e.initializers) }

// TruncateInitializers releases initializers appended since mark.
func (e *Emitter) TruncateInitializers(mark int) { e.initializers = e.initializers[:mark] }

// InitializersSince returns the initializers appended since mark, the
// set a block's prologue must emit runtime setup calls for.
func (e *Emitter) InitializersSince(mark int) []Initializer {
	out := make([]Initializer, len(e.initializers)-mark)
	copy(out, e.initializers[mark:])
	return out
}

// BeginStringScratch returns the current string-stack-fixup depth, to
// be passed back to ReleaseStringScratch once a call site's actual
// parameters have been consumed.
func (e *Emitter) BeginStringScratch() int { return e.stringScratchDepth }

// AllocStringScratch records one transient string temporary allocated
// while evaluating a call site's actual parameters (e.g. a
// concatenation result that only lives long enough to be passed).
func (e *Emitter) AllocStringScratch() { e.stringScratchDepth++ }

// ReleaseStringScratch emits the runtime calls needed to free every
// transient string allocated since mark and resets the depth.
func (e *Emitter) ReleaseStringScratch(mark int) {
	count := e.stringScratchDepth - mark
	for i := 0; i < count; i++ {
		e.StringCall("release_temp")
	}
	e.stringScratchDepth = mark
}
