package policy

import (
	"github.com/Dannysek/SimpleServer/internal/grammar"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

// useEntityHook implements spec.md §4.2's 0x07 Use-entity row: if the
// target is a player currently in god mode, the packet (including its
// trailing boolean) is consumed and dropped; otherwise it is forwarded
// unmodified.
func useEntityHook(sess *session.Session, deps Collaborators) grammar.Hook {
	return func(op byte, r *wire.Reader, w *wire.Writer) error {
		user, err := r.ReadI32()
		if err != nil {
			return err
		}
		target, err := r.ReadI32()
		if err != nil {
			return err
		}
		leftClick, err := r.ReadBool()
		if err != nil {
			return err
		}

		if name, ok := deps.Entities.PlayerNameByEntityID(target); ok && deps.Permissions.GodMode(name) {
			return nil // shield: drop entirely, boolean already consumed
		}

		if _, err := w.WriteU8(op); err != nil {
			return err
		}
		if _, err := w.WriteI32(user); err != nil {
			return err
		}
		if _, err := w.WriteI32(target); err != nil {
			return err
		}
		_, err = w.WriteBool(leftClick)
		return err
	}
}
