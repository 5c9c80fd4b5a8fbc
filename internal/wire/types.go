// Package wire implements the typed I/O layer for the intercepted wire
// protocol: fixed-width big-endian primitives, length-prefixed UTF-16
// strings, variable-length integers, raw byte spans, and the two composite
// records (Item, metadata blob) described in spec.md §3.
package wire

import "unicode/utf16"

// UTF16String holds a string as its raw 16-bit code units, exactly as they
// appear on the wire. Unlike a Go string it is not required to be valid
// UTF-16 — surrogate pairs are never interpreted (spec.md §4.2: "surrogate
// pairs are not interpreted"), so a read-then-write round trip reproduces
// the original bytes even for malformed input.
type UTF16String []uint16

// String decodes the code units into a Go string on a best-effort basis.
// Lone surrogates are replaced per unicode/utf16's normal decoding rules;
// this is only used where the value is handed to code that wants text
// (chat bodies, player names), never on the read-modify-forward fast path.
func (u UTF16String) String() string {
	return string(utf16.Decode(u))
}

// NewUTF16String encodes a Go string into its wire code units.
func NewUTF16String(s string) UTF16String {
	return UTF16String(utf16.Encode([]rune(s)))
}

// Item is the variable-length inventory-slot record from spec.md §3: an
// empty slot is `id < 0` alone; a populated slot carries count, damage, and
// an optional NBT blob.
type Item struct {
	ID     int16
	Count  int8
	Damage int16
	NBT    []byte
}

// Empty reports whether this is the `id < 0` empty-slot encoding.
func (it Item) Empty() bool { return it.ID < 0 }

// MetadataEntry is one tagged entry of an entity metadata blob (spec.md
// §3). Kind selects which of the I8/I16/I32/F32/Str/Item/Ints3 fields is
// populated; Key is the
// low 5 bits of the entry's tag byte.
type MetadataEntry struct {
	Key   byte
	Kind  MetadataKind
	I8    int8
	I16   int16
	I32   int32
	F32   float32
	Str   UTF16String
	Item  Item
	Ints3 [3]int32
}

// MetadataKind enumerates the high-3-bits primitive selector of a metadata
// entry's tag byte.
type MetadataKind byte

const (
	MetaI8 MetadataKind = iota
	MetaI16
	MetaI32
	MetaF32
	MetaString
	MetaItem
	MetaInts3
)

// metadataEnd is the sentinel byte terminating a metadata blob.
const metadataEnd = 0x7F
