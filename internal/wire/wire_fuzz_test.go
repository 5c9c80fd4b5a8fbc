package wire_test

import (
	"bytes"
	"reflect"
	"testing"

	fuzz "github.com/trailofbits/go-fuzz-utils"

	"github.com/Dannysek/SimpleServer/internal/wire"
)

// FuzzUTF16RoundTrip checks that writing and reading back a UTF16String
// reproduces the exact code units, including malformed (unpaired surrogate)
// sequences — spec.md §4.2: "surrogate pairs are not interpreted."
func FuzzUTF16RoundTrip(f *testing.F) {
	f.Add([]byte{0x00, 0x03, 0x00, 'h', 0x00, 'i', 0xD8, 0x00})
	f.Fuzz(func(t *testing.T, data []byte) {
		tp, err := fuzz.NewTypeProvider(data)
		if err != nil {
			t.Skip(err)
		}
		n, err := tp.GetUint16()
		if err != nil {
			t.Skip(err)
		}
		units := make([]uint16, n%256)
		for i := range units {
			u, err := tp.GetUint16()
			if err != nil {
				t.Skip(err)
			}
			units[i] = u
		}
		s := wire.UTF16String(units)

		var buf bytes.Buffer
		w := wire.NewWriter(&buf)
		if _, err := w.WriteUTF16(s); err != nil {
			t.Fatalf("WriteUTF16: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}

		r := wire.NewReader(bytes.NewReader(buf.Bytes()))
		got, err := r.ReadUTF16()
		if err != nil {
			t.Fatalf("ReadUTF16: %v", err)
		}
		if len(got) != len(s) {
			t.Fatalf("length mismatch: got %d, want %d", len(got), len(s))
		}
		for i := range got {
			if got[i] != s[i] {
				t.Fatalf("unit %d: got %04x, want %04x", i, got[i], s[i])
			}
		}
	})
}

// FuzzItemRoundTrip checks the Item composite record round-trips, including
// the id<0 empty-slot encoding that skips every other field.
func FuzzItemRoundTrip(f *testing.F) {
	f.Add(int16(-1), int8(0), int16(0), []byte{})
	f.Add(int16(54), int8(3), int16(7), []byte{0x01, 0x02, 0x03})
	f.Fuzz(func(t *testing.T, id int16, count int8, damage int16, nbt []byte) {
		if len(nbt) > 0x7FFF {
			t.Skip("nbt too long for an i16 length prefix")
		}
		it := wire.Item{ID: id, Count: count, Damage: damage, NBT: nbt}

		var buf bytes.Buffer
		w := wire.NewWriter(&buf)
		if _, err := w.WriteItem(it); err != nil {
			t.Fatalf("WriteItem: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}

		r := wire.NewReader(bytes.NewReader(buf.Bytes()))
		got, err := r.ReadItem()
		if err != nil {
			t.Fatalf("ReadItem: %v", err)
		}
		if got.ID != it.ID {
			t.Fatalf("ID: got %d, want %d", got.ID, it.ID)
		}
		if it.Empty() {
			return
		}
		if got.Count != it.Count || got.Damage != it.Damage {
			t.Fatalf("got %+v, want %+v", got, it)
		}
		if !bytes.Equal(got.NBT, it.NBT) && len(it.NBT) > 0 {
			t.Fatalf("NBT mismatch: got %x, want %x", got.NBT, it.NBT)
		}
	})
}

// FuzzVarintRoundTrip checks WriteVarint/ReadVarint agree for every uint64.
func FuzzVarintRoundTrip(f *testing.F) {
	f.Add(uint64(0))
	f.Add(uint64(1))
	f.Add(^uint64(0))
	f.Fuzz(func(t *testing.T, v uint64) {
		var buf bytes.Buffer
		w := wire.NewWriter(&buf)
		if _, err := w.WriteVarint(v); err != nil {
			t.Fatalf("WriteVarint: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}

		r := wire.NewReader(bytes.NewReader(buf.Bytes()))
		got, err := r.ReadVarint()
		if err != nil {
			t.Fatalf("ReadVarint: %v", err)
		}
		if got != v {
			t.Fatalf("got %d, want %d", got, v)
		}
	})
}

// FuzzMetadataBlobRoundTrip checks a randomly generated metadata blob
// round-trips entry-for-entry (spec.md §3).
func FuzzMetadataBlobRoundTrip(f *testing.F) {
	f.Add([]byte{0x00, 0x05, 0x7F})
	f.Fuzz(func(t *testing.T, data []byte) {
		tp, err := fuzz.NewTypeProvider(data)
		if err != nil {
			t.Skip(err)
		}
		count, err := tp.GetByte()
		if err != nil {
			t.Skip(err)
		}

		var entries []wire.MetadataEntry
		for i := 0; i < int(count%16); i++ {
			kindRaw, err := tp.GetByte()
			if err != nil {
				t.Skip(err)
			}
			e := wire.MetadataEntry{Key: byte(i) & 0x1F, Kind: wire.MetadataKind(kindRaw % 7)}
			switch e.Kind {
			case wire.MetaI8:
				v, err := tp.GetByte()
				if err != nil {
					t.Skip(err)
				}
				e.I8 = int8(v)
			case wire.MetaI16:
				v, err := tp.GetUint16()
				if err != nil {
					t.Skip(err)
				}
				e.I16 = int16(v)
			case wire.MetaI32:
				v, err := tp.GetUint16()
				if err != nil {
					t.Skip(err)
				}
				e.I32 = int32(v)
			case wire.MetaF32:
				e.F32 = 0
			case wire.MetaString:
				s, err := tp.GetString()
				if err != nil {
					t.Skip(err)
				}
				e.Str = wire.NewUTF16String(s)
			case wire.MetaInts3:
				// left zero-valued.
			}
			entries = append(entries, e)
		}

		var buf bytes.Buffer
		w := wire.NewWriter(&buf)
		if _, err := w.WriteMetadataBlob(entries); err != nil {
			t.Fatalf("WriteMetadataBlob: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}

		r := wire.NewReader(bytes.NewReader(buf.Bytes()))
		got, err := r.ReadMetadataBlob()
		if err != nil {
			t.Fatalf("ReadMetadataBlob: %v", err)
		}
		if len(got) != len(entries) {
			t.Fatalf("entry count: got %d, want %d", len(got), len(entries))
		}
		for i := range got {
			if !reflect.DeepEqual(got[i], entries[i]) {
				t.Fatalf("entry %d: got %+v, want %+v", i, got[i], entries[i])
			}
		}
	})
}
