package wire

import "errors"

// Sentinel errors surfaced by the typed I/O layer. Callers in internal/grammar
// and internal/tunnel wrap these with opcode/direction context (spec.md §7).
var (
	// ErrShortRead means the stream ended (or a deadline fired) before a
	// primitive or record finished decoding. A short read inside a known
	// packet is always fatal to the tunnel.
	ErrShortRead = errors.New("wire: short read")

	// ErrStringTooLong is returned when a UTF-16 length prefix claims more
	// code units than remain plausible for the stream (bounds an over-long
	// allocation request, per spec.md §4.1).
	ErrStringTooLong = errors.New("wire: utf16 string length exceeds bound")

	// ErrVarintTooWide is returned when a varint exceeds the width this
	// implementation is willing to hold (64 bits, per spec.md §4.2 — the
	// format itself is unbounded but a value that can't fit a uint64 is
	// treated as malformed input).
	ErrVarintTooWide = errors.New("wire: varint wider than 64 bits")

	// ErrNegativeLength is returned by ReadSpan and Copy when asked for a
	// negative byte count. ReadItem does not return it: a negative item NBT
	// length is read as "no NBT".
	ErrNegativeLength = errors.New("wire: negative length prefix")
)

// MaxUTF16Len bounds the number of code units a single string may declare,
// matching spec.md §4.1's "bounded by remaining stream bytes" requirement.
// 32767 code units (the largest value an i16 length can carry, read as
// unsigned) is the hard ceiling; callers may impose a tighter bound given
// known-remaining bytes.
const MaxUTF16Len = 0x7FFF
