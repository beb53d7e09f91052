package pcode

import (
	"errors"
	"fmt"

	"github.com/pascalfe/pascalfe/internal/objfile"
)

// Magic and version identify pascalfe's object-file container, a
// concrete encoding giving the emitter's output somewhere to go even
// though the downstream linker/optimizer/interpreter are out of scope
// for this repository.
const (
	Magic          = "PASC"
	FormatVersion  = uint16(1)
	flagHasEntry   = uint8(1 << 0)
)

var (
	ErrBadMagic          = errors.New("pcode: not a pascalfe object file")
	ErrUnsupportedFormat = errors.New("pcode: unsupported object file version")
	ErrTruncated         = errors.New("pcode: truncated object file")
)

// Module is a compiled unit's complete output: its code, read-only
// data, and the export/import/entry-point directives carried as the
// object file's auxiliary records.
type Module struct {
	Name    string
	Code    []Instr
	Rodata  []byte
	Exports []string
	Imports []string

	HasEntry   bool
	EntryLabel int32
}

// Build snapshots an Emitter's accumulated state into a Module.
func Build(e *Emitter, name string, hasEntry bool, entryLabel int32) *Module {
	m := &Module{
		Name:       name,
		Code:       append([]Instr(nil), e.Instrs()...),
		Rodata:     append([]byte(nil), e.Rodata()...),
		HasEntry:   hasEntry,
		EntryLabel: entryLabel,
	}
	for _, in := range e.Instrs() {
		switch in.Op {
		case OpExportSymbol:
			m.Exports = append(m.Exports, in.Sub)
		case OpImportSymbol:
			m.Imports = append(m.Imports, in.Sub)
		}
	}
	return m
}

// Encode serializes m into pascalfe's object-file container format.
func (m *Module) Encode() []byte {
	w := objfile.NewWriter()
	w.WriteBytes([]byte(Magic))
	w.WriteU16(FormatVersion)

	flags := uint8(0)
	if m.HasEntry {
		flags |= flagHasEntry
	}
	w.WriteU8(flags)
	w.WriteI32(m.EntryLabel)

	w.WriteCString(m.Name)

	w.WriteU32(uint32(len(m.Code)))
	for _, in := range m.Code {
		encodeInstr(w, in)
	}

	w.WriteU32(uint32(len(m.Rodata)))
	w.WriteBytes(m.Rodata)

	w.WriteU32(uint32(len(m.Exports)))
	for _, s := range m.Exports {
		w.WriteCString(s)
	}
	w.WriteU32(uint32(len(m.Imports)))
	for _, s := range m.Imports {
		w.WriteCString(s)
	}
	return w.Bytes()
}

func encodeInstr(w *objfile.Writer, in Instr) {
	w.WriteU8(uint8(in.Op))
	w.WriteU8(uint8(in.Class))
	w.WriteU8(uint8(in.Width))
	w.WriteU8(uint8(in.Conv))
	flags := uint8(0)
	if in.Indexed {
		flags |= 1
	}
	if in.Signed {
		flags |= 2
	}
	w.WriteU8(flags)
	w.WriteI32(in.Level)
	w.WriteI32(in.Offset)
	w.WriteI32(in.IData)
	w.WriteCString(in.Sub)
}

// Decode parses an object file previously produced by Encode.
func Decode(data []byte) (*Module, error) {
	r := objfile.NewReader(data)
	magic, err := r.ReadBytes(len(Magic))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if string(magic) != Magic {
		return nil, ErrBadMagic
	}
	version, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if version != FormatVersion {
		return nil, ErrUnsupportedFormat
	}

	flags, err := r.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	entryLabel, err := r.ReadI32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	name, err := r.ReadCString()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	m := &Module{Name: name, HasEntry: flags&flagHasEntry != 0, EntryLabel: entryLabel}

	instrCount, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	m.Code = make([]Instr, instrCount)
	for i := range m.Code {
		in, err := decodeInstr(r)
		if err != nil {
			return nil, err
		}
		m.Code[i] = in
	}

	rodataLen, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	m.Rodata, err = r.ReadBytes(int(rodataLen))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	exportCount, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	for i := uint32(0); i < exportCount; i++ {
		s, err := r.ReadCString()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		m.Exports = append(m.Exports, s)
	}

	importCount, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	for i := uint32(0); i < importCount; i++ {
		s, err := r.ReadCString()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		m.Imports = append(m.Imports, s)
	}

	return m, nil
}

func decodeInstr(r *objfile.Reader) (Instr, error) {
	op, err := r.ReadU8()
	if err != nil {
		return Instr{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	class, err := r.ReadU8()
	if err != nil {
		return Instr{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	width, err := r.ReadU8()
	if err != nil {
		return Instr{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	conv, err := r.ReadU8()
	if err != nil {
		return Instr{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	flags, err := r.ReadU8()
	if err != nil {
		return Instr{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	level, err := r.ReadI32()
	if err != nil {
		return Instr{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	offset, err := r.ReadI32()
	if err != nil {
		return Instr{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	idata, err := r.ReadI32()
	if err != nil {
		return Instr{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	sub, err := r.ReadCString()
	if err != nil {
		return Instr{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return Instr{
		Op:      Op(op),
		Class:   Class(class),
		Width:   Width(width),
		Conv:    ConvFlags(conv),
		Indexed: flags&1 != 0,
		Signed:  flags&2 != 0,
		Level:   level,
		Offset:  offset,
		IData:   idata,
		Sub:     sub,
	}, nil
}
