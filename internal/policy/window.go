package policy

import (
	"github.com/Dannysek/SimpleServer/internal/collab"
	"github.com/Dannysek/SimpleServer/internal/grammar"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

// chestInventoryType is the inventory-type byte identifying a chest window
// (spec.md §4.2, 0x64).
const chestInventoryType = 0

// openWindowHook implements spec.md §4.2's 0x64 Open-window row
// (server→client only). Non-chest windows pass straight through; chest
// windows are resolved against the registry using the coordinate the most
// recent 0x0F place packet recorded in the Session (blocks.go).
func openWindowHook(sess *session.Session, deps Collaborators) grammar.Hook {
	return func(op byte, r *wire.Reader, w *wire.Writer) error {
		windowID, err := r.ReadI8()
		if err != nil {
			return err
		}
		invType, err := r.ReadI8()
		if err != nil {
			return err
		}
		title, err := r.ReadUTF16()
		if err != nil {
			return err
		}
		slotCount, err := r.ReadI8()
		if err != nil {
			return err
		}

		if invType != chestInventoryType {
			return writeOpenWindow(w, op, windowID, invType, title, slotCount)
		}

		scratch := sess.Chest()
		coord := collab.Coordinate{X: scratch.X, Y: scratch.Y, Z: scratch.Z}

		if _, ok := deps.Chests.Lookup(coord); !ok {
			if adj, ok := deps.Chests.Adjacent(coord); ok && adj.Locked {
				deps.Chests.GiveLock(coord, adj.Owner, adj.DisplayName)
			} else {
				deps.Chests.AddOpen(coord)
			}
		}

		if !deps.Chests.CanOpen(sess.Name(), coord) || !deps.Permissions.Allow(sess.Group(), collab.ActionUse, coord, 0) {
			if _, err := w.WriteU8(byte(grammar.OpCloseWindow)); err != nil {
				return err
			}
			_, err := w.WriteI8(windowID)
			return err
		}

		entry, _ := deps.Chests.Lookup(coord)
		newTitle := title
		switch {
		case entry.Locked && scratch.RequestedUnlock:
			deps.Chests.Unlock(coord)
			deps.Chests.Rename(coord, scratch.RequestedLockName)
			newTitle = wire.NewUTF16String(scratch.RequestedLockName)
		case !entry.Locked && scratch.RequestedLock:
			deps.Chests.GiveLock(coord, sess.Name(), scratch.RequestedLockName)
			newTitle = wire.NewUTF16String(scratch.RequestedLockName)
		case entry.Locked && entry.DisplayName != "":
			newTitle = wire.NewUTF16String(entry.DisplayName)
		}

		return writeOpenWindow(w, op, windowID, invType, newTitle, slotCount)
	}
}

func writeOpenWindow(w *wire.Writer, op byte, windowID, invType int8, title wire.UTF16String, slotCount int8) error {
	if _, err := w.WriteU8(op); err != nil {
		return err
	}
	if _, err := w.WriteI8(windowID); err != nil {
		return err
	}
	if _, err := w.WriteI8(invType); err != nil {
		return err
	}
	if _, err := w.WriteUTF16(title); err != nil {
		return err
	}
	_, err := w.WriteI8(slotCount)
	return err
}
