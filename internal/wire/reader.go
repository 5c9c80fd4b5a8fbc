package wire

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
)

// Reader is the read half of the typed I/O layer. It wraps whatever
// io.Reader currently backs a tunnel direction — the raw socket before the
// transport upgrade (spec.md §4.4), an encrypted stream afterward — behind
// a single buffered indirection so the swap is invisible to callers one
// layer up (internal/grammar, internal/policy).
//
// A Reader is owned by exactly one tunnel and is not safe for concurrent
// use (spec.md §5: "every read/write on a tunnel is blocking on its
// socket"; only the tunnel's own worker ever touches it).
type Reader struct {
	br      *bufio.Reader
	tee     io.Writer // optional debug-dump sink; nil when disabled
	scratch [1024]byte
}

// NewReader wraps src for reading.
func NewReader(src io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(src)}
}

// SetTee installs (or, with nil, removes) a side sink that every byte read
// is mirrored into, per spec.md §4.1's debug-dump requirement.
func (r *Reader) SetTee(w io.Writer) { r.tee = w }

// RawSource exposes the current buffered reader as an io.Reader so the
// transport-upgrade step can wrap it — not bypass it — with a decrypting
// stream. Any bytes already buffered here (read off the socket but not yet
// consumed by the dispatcher) are served to the new wrapper before it pulls
// more from the socket, which is what makes the cipher swap lossless
// (spec.md §4.4: "buffered but unread bytes must remain accessible").
func (r *Reader) RawSource() io.Reader { return r.br }

// Reset replaces the underlying source, e.g. with an EncryptionContext's
// decrypting stream built over RawSource(). The next ReadByte/ReadI* call
// reads from src.
func (r *Reader) Reset(src io.Reader) {
	r.br = bufio.NewReader(src)
}

func (r *Reader) readFull(p []byte) error {
	if _, err := io.ReadFull(r.br, p); err != nil {
		return ErrShortRead
	}
	if r.tee != nil {
		r.tee.Write(p)
	}
	return nil
}

// ReadByte satisfies io.ByteReader, required by ReadVarint.
func (r *Reader) ReadByte() (byte, error) {
	var b [1]byte
	if err := r.readFull(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadI8() (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadByte()
	return b, err
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

func (r *Reader) ReadI16() (int16, error) {
	var b [2]byte
	if err := r.readFull(b[:]); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b[:])), nil
}

func (r *Reader) ReadU16() (uint16, error) {
	var b [2]byte
	if err := r.readFull(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (r *Reader) ReadI32() (int32, error) {
	var b [4]byte
	if err := r.readFull(b[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

func (r *Reader) ReadI64() (int64, error) {
	var b [8]byte
	if err := r.readFull(b[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadI32()
	return math.Float32frombits(uint32(v)), err
}

func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadI64()
	return math.Float64frombits(uint64(v)), err
}

// ReadVarint reads a little-endian base-128 varint (spec.md §3, §4.2).
func (r *Reader) ReadVarint() (uint64, error) {
	return ReadVarint(r)
}

// ReadUTF16 reads an i16 code-unit count followed by that many big-endian
// 16-bit code units (spec.md §3). The count is unsigned per spec.md §4.1;
// an over-long request is bounded by MaxUTF16Len.
func (r *Reader) ReadUTF16() (UTF16String, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if int(n) > MaxUTF16Len {
		return nil, ErrStringTooLong
	}
	units := make([]uint16, n)
	for i := range units {
		u, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		units[i] = u
	}
	return UTF16String(units), nil
}

// ReadSpan reads exactly n raw bytes (the byte-span[n] primitive, spec.md
// §3), n either a constant known by the grammar or taken from a preceding
// length field.
func (r *Reader) ReadSpan(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	buf := make([]byte, n)
	if err := r.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Skip discards n bytes without allocating a result, for read_and_discard
// fields the grammar never forwards.
func (r *Reader) Skip(n int) error {
	for n > 0 {
		chunk := n
		if chunk > len(r.scratch) {
			chunk = len(r.scratch)
		}
		if err := r.readFull(r.scratch[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// Copy reads n bytes and mirrors them to w using the reader's fixed 1024
// byte scratch buffer (spec.md §4.1), without allocating a []byte for the
// span. This is the primitive the pass-through dispatcher uses for
// byte-span fields nothing ever inspects (chunk payloads, NBT blobs).
func (r *Reader) Copy(w *Writer, n int) error {
	if n < 0 {
		return ErrNegativeLength
	}
	for n > 0 {
		chunk := n
		if chunk > len(r.scratch) {
			chunk = len(r.scratch)
		}
		if err := r.readFull(r.scratch[:chunk]); err != nil {
			return err
		}
		if _, err := w.writeRaw(r.scratch[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// ReadItem reads the Item composite record (spec.md §3).
func (r *Reader) ReadItem() (Item, error) {
	id, err := r.ReadI16()
	if err != nil {
		return Item{}, err
	}
	it := Item{ID: id}
	if id < 0 {
		return it, nil
	}
	count, err := r.ReadI8()
	if err != nil {
		return Item{}, err
	}
	damage, err := r.ReadI16()
	if err != nil {
		return Item{}, err
	}
	it.Count, it.Damage = count, damage

	nbtLen, err := r.ReadI16()
	if err != nil {
		return Item{}, err
	}
	if nbtLen > 0 {
		nbt, err := r.ReadSpan(int(nbtLen))
		if err != nil {
			return Item{}, err
		}
		it.NBT = nbt
	}
	return it, nil
}

// ReadMetadataBlob reads entries until the 0x7F sentinel (spec.md §3).
func (r *Reader) ReadMetadataBlob() ([]MetadataEntry, error) {
	var entries []MetadataEntry
	for {
		tag, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		if tag == metadataEnd {
			return entries, nil
		}
		entry := MetadataEntry{
			Key:  tag & 0x1F,
			Kind: MetadataKind(tag >> 5),
		}
		switch entry.Kind {
		case MetaI8:
			entry.I8, err = r.ReadI8()
		case MetaI16:
			entry.I16, err = r.ReadI16()
		case MetaI32:
			entry.I32, err = r.ReadI32()
		case MetaF32:
			entry.F32, err = r.ReadF32()
		case MetaString:
			entry.Str, err = r.ReadUTF16()
		case MetaItem:
			entry.Item, err = r.ReadItem()
		case MetaInts3:
			for i := range entry.Ints3 {
				entry.Ints3[i], err = r.ReadI32()
				if err != nil {
					break
				}
			}
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}
