package grammar

import "github.com/Dannysek/SimpleServer/internal/wire"

// The opcodes below carry a length-prefixed repeated group of more than one
// parallel field, which Field/Run's single pendingLen slot can't express —
// spec.md §4.1 only promises a generic loop for the flat case; packets with
// real internal structure get a dedicated function instead, the same way
// the table's comment says to handle them.

// passThroughMultiBlockChange forwards opcode 0x34: a chunk coordinate
// followed by three parallel count-length arrays (coordinate, block type,
// block metadata).
func passThroughMultiBlockChange(r *wire.Reader, w *wire.Writer) error {
	if err := Run(r, w, []Field{{Type: FI32}, {Type: FI32}}); err != nil {
		return err
	}
	count, err := r.ReadU16()
	if err != nil {
		return err
	}
	if _, err := w.WriteU16(count); err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		v, err := r.ReadU16()
		if err != nil {
			return err
		}
		if _, err := w.WriteU16(v); err != nil {
			return err
		}
	}
	for i := 0; i < int(count); i++ {
		v, err := r.ReadU8()
		if err != nil {
			return err
		}
		if _, err := w.WriteU8(v); err != nil {
			return err
		}
	}
	for i := 0; i < int(count); i++ {
		v, err := r.ReadU8()
		if err != nil {
			return err
		}
		if _, err := w.WriteU8(v); err != nil {
			return err
		}
	}
	return nil
}

// passThroughWindowItems forwards opcode 0x68: a window id, a count, and
// that many Item records.
func passThroughWindowItems(r *wire.Reader, w *wire.Writer) error {
	id, err := r.ReadI8()
	if err != nil {
		return err
	}
	if _, err := w.WriteI8(id); err != nil {
		return err
	}
	count, err := r.ReadI16()
	if err != nil {
		return err
	}
	if _, err := w.WriteI16(count); err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		it, err := r.ReadItem()
		if err != nil {
			return err
		}
		if _, err := w.WriteItem(it); err != nil {
			return err
		}
	}
	return nil
}

// passThroughModOpcode forwards one of the gated mod-specific opcodes
// (0xD3/0xE6) using the generic i16-length-prefixed-payload convention real
// Minecraft mods of this era used for their own packets — the real per-mod
// internal layout is opaque to this proxy, and nothing in spec.md §4.2
// parses inside it. Only reached when Config.EnableModOpcodes is set
// (internal/tunnel); otherwise an unrecognized mod opcode is a protocol
// desync.
func passThroughModOpcode(r *wire.Reader, w *wire.Writer) error {
	n, err := r.ReadU16()
	if err != nil {
		return err
	}
	if _, err := w.WriteU16(n); err != nil {
		return err
	}
	return r.Copy(w, int(n))
}
