package policy

import (
	"github.com/Dannysek/SimpleServer/internal/collab"
	"github.com/Dannysek/SimpleServer/internal/grammar"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

// digHook implements spec.md §4.2's 0x0E Dig row (client→server only).
func digHook(sess *session.Session, deps Collaborators) grammar.Hook {
	return func(op byte, r *wire.Reader, w *wire.Writer) error {
		status, err := r.ReadI8()
		if err != nil {
			return err
		}
		x, err := r.ReadI32()
		if err != nil {
			return err
		}
		y, err := r.ReadI8()
		if err != nil {
			return err
		}
		z, err := r.ReadI32()
		if err != nil {
			return err
		}
		face, err := r.ReadI8()
		if err != nil {
			return err
		}

		coord := collab.Coordinate{X: x, Y: int32(y), Z: z}

		if deps.Chests.IsLocked(coord) && !deps.Chests.CanOpen(sess.Name(), coord) {
			sess.EnqueueInbound(redNotice + "This chest is locked.")
			return nil
		}

		var action collab.BlockAction
		checkPermission := true
		switch status {
		case 0:
			action = collab.ActionUse
		case 2:
			action = collab.ActionDestroy
		default:
			checkPermission = false
		}
		if checkPermission && !deps.Permissions.Allow(sess.Group(), action, coord, 0) {
			sess.EnqueueInbound(redNotice + "You are not allowed to do that here.")
			return nil
		}

		if err := writeDig(w, op, status, x, y, z, face); err != nil {
			return err
		}

		if status == 2 {
			sess.IncDestroyedBlocks()
			if deps.Chests.IsLocked(coord) {
				deps.Chests.Release(coord)
			}
			if deps.Permissions.InstantDestroy() {
				return writeDig(w, op, status, x, y, z, face)
			}
		}
		return nil
	}
}

func writeDig(w *wire.Writer, op byte, status int8, x int32, y int8, z int32, face int8) error {
	if _, err := w.WriteU8(op); err != nil {
		return err
	}
	if _, err := w.WriteI8(status); err != nil {
		return err
	}
	if _, err := w.WriteI32(x); err != nil {
		return err
	}
	if _, err := w.WriteI8(y); err != nil {
		return err
	}
	if _, err := w.WriteI32(z); err != nil {
		return err
	}
	_, err := w.WriteI8(face)
	return err
}

// placeHook implements spec.md §4.2's 0x0F Place row (client→server only).
func placeHook(sess *session.Session, deps Collaborators) grammar.Hook {
	return func(op byte, r *wire.Reader, w *wire.Writer) error {
		x, err := r.ReadI32()
		if err != nil {
			return err
		}
		y, err := r.ReadI8()
		if err != nil {
			return err
		}
		z, err := r.ReadI32()
		if err != nil {
			return err
		}
		direction, err := r.ReadI8()
		if err != nil {
			return err
		}
		item, err := r.ReadItem()
		if err != nil {
			return err
		}
		cursorX, err := r.ReadI8()
		if err != nil {
			return err
		}
		cursorY, err := r.ReadI8()
		if err != nil {
			return err
		}
		cursorZ, err := r.ReadI8()
		if err != nil {
			return err
		}

		target := faceCoordinate(x, y, z, direction)
		if item.ID == chestItemID {
			if adj, ok := deps.Chests.Adjacent(target); ok && deps.Chests.IsLocked(adj.Coord) && !deps.Chests.CanOpen(sess.Name(), adj.Coord) {
				return writeDig(w, byte(grammar.OpDig), 4, x, int8(y), z, direction)
			}
		}
		// Record the targeted block regardless of the item in hand: this is
		// also how 0x64 open-window later learns which coordinate a right
		// click opened (spec.md §4.2, 0x64).
		scratch := sess.Chest()
		scratch.Valid = true
		scratch.X, scratch.Y, scratch.Z = target.X, target.Y, target.Z
		sess.SetChest(scratch)

		coord := collab.Coordinate{X: x, Y: int32(y), Z: z}
		if !deps.Permissions.Allow(sess.Group(), collab.ActionPlace, coord, item.ID) {
			sess.EnqueueInbound(redNotice + "You are not allowed to place that here.")
			return nil
		}

		if _, err := w.WriteU8(op); err != nil {
			return err
		}
		if _, err := w.WriteI32(x); err != nil {
			return err
		}
		if _, err := w.WriteI8(y); err != nil {
			return err
		}
		if _, err := w.WriteI32(z); err != nil {
			return err
		}
		if _, err := w.WriteI8(direction); err != nil {
			return err
		}
		if _, err := w.WriteItem(item); err != nil {
			return err
		}
		if _, err := w.WriteI8(cursorX); err != nil {
			return err
		}
		if _, err := w.WriteI8(cursorY); err != nil {
			return err
		}
		_, err = w.WriteI8(cursorZ)
		return err
	}
}
