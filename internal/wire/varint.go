package wire

import "io"

// ReadVarint reads a little-endian base-128 varint (7-bit groups, high bit
// = continuation). Grounded on the teacher's ReadVarInt, widened from int
// to uint64 so it holds the full 64-bit range spec.md §4.2 requires
// ("does not bound the width and accepts at least 64 bits").
func ReadVarint(r io.ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, ErrShortRead
		}
		result |= uint64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			return result, nil
		}
		if shift >= 64 {
			return 0, ErrVarintTooWide
		}
	}
}

// WriteVarint writes v as a little-endian base-128 varint.
func WriteVarint(w io.Writer, v uint64) error {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		if _, err := w.Write([]byte{b}); err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}
