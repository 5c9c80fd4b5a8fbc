package grammar

import (
	"fmt"

	"github.com/Dannysek/SimpleServer/internal/wire"
)

// FieldType names one primitive the pass-through interpreter knows how to
// copy from a Reader to a Writer unmodified (spec.md §4.1's primitive set,
// plus the two composite records).
type FieldType int

const (
	FI8 FieldType = iota
	FU8
	FBool
	FI16
	FU16
	FI32
	FI64
	FF32
	FF64
	FVarint
	FUTF16
	FItem
	FMetadataBlob

	// FSpanLenU16 reads/writes a u16 and remembers it as the pending span
	// length for the FSpanFromLen field that must follow later in the same
	// row (spec.md §3's byte-span[n] primitive, length taken from a
	// preceding field rather than being constant).
	FSpanLenU16
	FSpanLenU32
	// FSpanFromLen copies the number of bytes remembered by the most recent
	// FSpanLenU16/FSpanLenU32 field.
	FSpanFromLen
	// FSpanConst copies exactly N bytes, N fixed by the table row.
	FSpanConst
)

// Field is one instruction in a packet's pass-through layout. N is only
// meaningful for FSpanConst.
type Field struct {
	Type FieldType
	N    int
}

// Run executes fields in order, reading each from r and writing it to w
// unmodified. It is the one generic loop spec.md §4.2 asks for: an opcode
// with no policy hook is entirely described by its []Field row.
func Run(r *wire.Reader, w *wire.Writer, fields []Field) error {
	var pendingLen int
	for _, f := range fields {
		switch f.Type {
		case FI8:
			v, err := r.ReadI8()
			if err != nil {
				return err
			}
			if _, err := w.WriteI8(v); err != nil {
				return err
			}
		case FU8:
			v, err := r.ReadU8()
			if err != nil {
				return err
			}
			if _, err := w.WriteU8(v); err != nil {
				return err
			}
		case FBool:
			v, err := r.ReadBool()
			if err != nil {
				return err
			}
			if _, err := w.WriteBool(v); err != nil {
				return err
			}
		case FI16:
			v, err := r.ReadI16()
			if err != nil {
				return err
			}
			if _, err := w.WriteI16(v); err != nil {
				return err
			}
		case FU16:
			v, err := r.ReadU16()
			if err != nil {
				return err
			}
			if _, err := w.WriteU16(v); err != nil {
				return err
			}
		case FI32:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			if _, err := w.WriteI32(v); err != nil {
				return err
			}
		case FI64:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			if _, err := w.WriteI64(v); err != nil {
				return err
			}
		case FF32:
			v, err := r.ReadF32()
			if err != nil {
				return err
			}
			if _, err := w.WriteF32(v); err != nil {
				return err
			}
		case FF64:
			v, err := r.ReadF64()
			if err != nil {
				return err
			}
			if _, err := w.WriteF64(v); err != nil {
				return err
			}
		case FVarint:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			if _, err := w.WriteVarint(v); err != nil {
				return err
			}
		case FUTF16:
			v, err := r.ReadUTF16()
			if err != nil {
				return err
			}
			if _, err := w.WriteUTF16(v); err != nil {
				return err
			}
		case FItem:
			v, err := r.ReadItem()
			if err != nil {
				return err
			}
			if _, err := w.WriteItem(v); err != nil {
				return err
			}
		case FMetadataBlob:
			v, err := r.ReadMetadataBlob()
			if err != nil {
				return err
			}
			if _, err := w.WriteMetadataBlob(v); err != nil {
				return err
			}
		case FSpanLenU16:
			v, err := r.ReadU16()
			if err != nil {
				return err
			}
			if _, err := w.WriteU16(v); err != nil {
				return err
			}
			pendingLen = int(v)
		case FSpanLenU32:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			if _, err := w.WriteI32(v); err != nil {
				return err
			}
			pendingLen = int(v)
		case FSpanFromLen:
			if err := r.Copy(w, pendingLen); err != nil {
				return err
			}
		case FSpanConst:
			if err := r.Copy(w, f.N); err != nil {
				return err
			}
		default:
			return fmt.Errorf("grammar: unknown field type %d", f.Type)
		}
	}
	return nil
}
