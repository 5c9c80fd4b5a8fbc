package grammar

import (
	"errors"
	"fmt"

	"github.com/Dannysek/SimpleServer/internal/wire"
)

// ErrProtocolDesync is returned when Dispatch sees an opcode it has no row,
// hook, or special case for — spec.md §4.2: "an opcode the table has never
// seen is a fatal protocol desync, not a skip."
var ErrProtocolDesync = errors.New("grammar: protocol desync")

// Hook is one opcode's policy-driven handling. It receives the opcode byte
// already consumed by Dispatch, because a hook that decides to suppress the
// packet entirely (mute, permission deny, bot filter) must be free to write
// nothing at all — including the opcode — so writing op is the hook's own
// responsibility whenever it does forward something. Hooks live in
// internal/policy; grammar only calls them by opcode so this package stays
// free of any dependency on session/collab.
type Hook func(op byte, r *wire.Reader, w *wire.Writer) error

// Dispatch reads and forwards exactly one packet already identified as op,
// in this order: a registered Hook wins, then a PassThrough table row, then
// the opcodes with special repeated-group shapes, then the gated mod
// opcodes. Anything else is ErrProtocolDesync. Table rows and special cases
// always forward, so Dispatch writes the opcode byte for them itself before
// running the row; a Hook writes its own opcode byte if and when it forwards.
func Dispatch(op byte, r *wire.Reader, w *wire.Writer, hooks map[Opcode]Hook, modOpcodesEnabled bool) error {
	opcode := Opcode(op)

	if hook, ok := hooks[opcode]; ok {
		return hook(op, r, w)
	}
	if fields, ok := PassThrough[opcode]; ok {
		if _, err := w.WriteU8(op); err != nil {
			return err
		}
		return Run(r, w, fields)
	}
	switch opcode {
	case OpMultiBlockChange:
		if _, err := w.WriteU8(op); err != nil {
			return err
		}
		return passThroughMultiBlockChange(r, w)
	case OpWindowItems:
		if _, err := w.WriteU8(op); err != nil {
			return err
		}
		return passThroughWindowItems(r, w)
	case OpModFirst, OpModSecond:
		if !modOpcodesEnabled {
			return fmt.Errorf("%w: opcode 0x%02X (mod opcodes disabled)", ErrProtocolDesync, op)
		}
		if _, err := w.WriteU8(op); err != nil {
			return err
		}
		return passThroughModOpcode(r, w)
	}
	return fmt.Errorf("%w: opcode 0x%02X", ErrProtocolDesync, op)
}
