package wire

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
)

// Writer is the write half of the typed I/O layer, mirroring Reader.
//
// Every Write* method returns the value it wrote (spec.md §4.1: "Each
// write_* returns the value written so callers can fold 'parse, remember,
// forward' into a single expression"), so a policy hook that just forwards
// a field verbatim can write `w.WriteI32(r.ReadI32())`-shaped code without a
// throwaway local.
type Writer struct {
	raw io.Writer
	bw  *bufio.Writer
	tee io.Writer
}

func NewWriter(dst io.Writer) *Writer {
	return &Writer{raw: dst, bw: bufio.NewWriter(dst)}
}

func (w *Writer) SetTee(tee io.Writer) { w.tee = tee }

// RawSink exposes the current destination so the transport-upgrade step can
// wrap it with an encrypting stream (spec.md §4.4).
func (w *Writer) RawSink() io.Writer { return w.raw }

// Reset replaces the underlying destination. Callers must Flush before
// calling Reset, or buffered plaintext bytes would be lost.
func (w *Writer) Reset(dst io.Writer) {
	w.raw = dst
	w.bw = bufio.NewWriter(dst)
}

func (w *Writer) Flush() error { return w.bw.Flush() }

func (w *Writer) writeRaw(p []byte) (int, error) {
	n, err := w.bw.Write(p)
	if err == nil && w.tee != nil {
		w.tee.Write(p)
	}
	return n, err
}

func (w *Writer) WriteI8(v int8) (int8, error) {
	_, err := w.writeRaw([]byte{byte(v)})
	return v, err
}

func (w *Writer) WriteU8(v uint8) (uint8, error) {
	_, err := w.writeRaw([]byte{v})
	return v, err
}

func (w *Writer) WriteBool(v bool) (bool, error) {
	b := byte(0)
	if v {
		b = 1
	}
	_, err := w.writeRaw([]byte{b})
	return v, err
}

func (w *Writer) WriteI16(v int16) (int16, error) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	_, err := w.writeRaw(b[:])
	return v, err
}

func (w *Writer) WriteU16(v uint16) (uint16, error) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.writeRaw(b[:])
	return v, err
}

func (w *Writer) WriteI32(v int32) (int32, error) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	_, err := w.writeRaw(b[:])
	return v, err
}

func (w *Writer) WriteI64(v int64) (int64, error) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	_, err := w.writeRaw(b[:])
	return v, err
}

func (w *Writer) WriteF32(v float32) (float32, error) {
	_, err := w.WriteI32(int32(math.Float32bits(v)))
	return v, err
}

func (w *Writer) WriteF64(v float64) (float64, error) {
	_, err := w.WriteI64(int64(math.Float64bits(v)))
	return v, err
}

// WriteVarint writes v as a little-endian base-128 varint.
func (w *Writer) WriteVarint(v uint64) (uint64, error) {
	err := WriteVarint(w.bw, v)
	if err == nil && w.tee != nil {
		// Re-derive the bytes written for the tee; varints are short-lived
		// so the extra encode is cheap and keeps WriteVarint allocation-free
		// on the hot (non-debug) path.
		var buf [10]byte
		n := 0
		vv := v
		for {
			buf[n] = byte(vv & 0x7F)
			vv >>= 7
			if vv != 0 {
				buf[n] |= 0x80
			}
			n++
			if vv == 0 {
				break
			}
		}
		w.tee.Write(buf[:n])
	}
	return v, err
}

// WriteUTF16 writes the i16 code-unit count followed by the code units
// (spec.md §3).
func (w *Writer) WriteUTF16(s UTF16String) (UTF16String, error) {
	if _, err := w.WriteU16(uint16(len(s))); err != nil {
		return nil, err
	}
	for _, u := range s {
		if _, err := w.WriteU16(u); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WriteSpan writes raw bytes with no length prefix (the caller already
// wrote or knows the length).
func (w *Writer) WriteSpan(b []byte) ([]byte, error) {
	_, err := w.writeRaw(b)
	return b, err
}

// WriteItem writes the Item composite record (spec.md §3).
func (w *Writer) WriteItem(it Item) (Item, error) {
	if _, err := w.WriteI16(it.ID); err != nil {
		return it, err
	}
	if it.ID < 0 {
		return it, nil
	}
	if _, err := w.WriteI8(it.Count); err != nil {
		return it, err
	}
	if _, err := w.WriteI16(it.Damage); err != nil {
		return it, err
	}
	if _, err := w.WriteI16(int16(len(it.NBT))); err != nil {
		return it, err
	}
	if len(it.NBT) > 0 {
		if _, err := w.WriteSpan(it.NBT); err != nil {
			return it, err
		}
	}
	return it, nil
}

// WriteMetadataBlob writes entries followed by the 0x7F sentinel.
func (w *Writer) WriteMetadataBlob(entries []MetadataEntry) ([]MetadataEntry, error) {
	for _, e := range entries {
		tag := byte(e.Kind)<<5 | (e.Key & 0x1F)
		if _, err := w.WriteU8(tag); err != nil {
			return nil, err
		}
		var err error
		switch e.Kind {
		case MetaI8:
			_, err = w.WriteI8(e.I8)
		case MetaI16:
			_, err = w.WriteI16(e.I16)
		case MetaI32:
			_, err = w.WriteI32(e.I32)
		case MetaF32:
			_, err = w.WriteF32(e.F32)
		case MetaString:
			_, err = w.WriteUTF16(e.Str)
		case MetaItem:
			_, err = w.WriteItem(e.Item)
		case MetaInts3:
			for _, v := range e.Ints3 {
				if _, err = w.WriteI32(v); err != nil {
					break
				}
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if _, err := w.WriteU8(metadataEnd); err != nil {
		return nil, err
	}
	return entries, nil
}
