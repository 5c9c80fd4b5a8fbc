package policy

import (
	"github.com/Dannysek/SimpleServer/internal/collab"
	"github.com/Dannysek/SimpleServer/internal/grammar"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

// namedEntitySpawnHook implements spec.md §4.2's 0x14 row (server→client
// only): suppress the whole packet for registered bots, otherwise forward
// every field including the trailing metadata blob.
func namedEntitySpawnHook(deps Collaborators) grammar.Hook {
	return func(op byte, r *wire.Reader, w *wire.Writer) error {
		entityID, err := r.ReadI32()
		if err != nil {
			return err
		}
		name, err := r.ReadUTF16()
		if err != nil {
			return err
		}
		x, err := r.ReadI32()
		if err != nil {
			return err
		}
		y, err := r.ReadI32()
		if err != nil {
			return err
		}
		z, err := r.ReadI32()
		if err != nil {
			return err
		}
		yaw, err := r.ReadI8()
		if err != nil {
			return err
		}
		pitch, err := r.ReadI8()
		if err != nil {
			return err
		}
		heldItem, err := r.ReadI16()
		if err != nil {
			return err
		}
		metadata, err := r.ReadMetadataBlob()
		if err != nil {
			return err
		}

		if deps.Bots.IsBot(name.String()) {
			return nil
		}

		if _, err := w.WriteU8(op); err != nil {
			return err
		}
		if _, err := w.WriteI32(entityID); err != nil {
			return err
		}
		if _, err := w.WriteUTF16(name); err != nil {
			return err
		}
		if _, err := w.WriteI32(x); err != nil {
			return err
		}
		if _, err := w.WriteI32(y); err != nil {
			return err
		}
		if _, err := w.WriteI32(z); err != nil {
			return err
		}
		if _, err := w.WriteI8(yaw); err != nil {
			return err
		}
		if _, err := w.WriteI8(pitch); err != nil {
			return err
		}
		if _, err := w.WriteI16(heldItem); err != nil {
			return err
		}
		_, err = w.WriteMetadataBlob(metadata)
		return err
	}
}

// chestBlockID is the placed-block type id for a chest, shared with the
// item id a place packet carries (spec.md §4.2, §4.3).
const chestBlockID = chestItemID

// blockChangeHook implements spec.md §4.2's 0x35 row (server→client only):
// when the new block matches the Session's pending chest placement,
// trigger the chest sub-protocol's lock decision.
func blockChangeHook(sess *session.Session, deps Collaborators) grammar.Hook {
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
		blockType, err := r.ReadI8()
		if err != nil {
			return err
		}
		blockMeta, err := r.ReadI8()
		if err != nil {
			return err
		}

		scratch := sess.Chest()
		if blockType == chestBlockID && scratch.Valid && scratch.X == x && scratch.Y == int32(y) && scratch.Z == z {
			coord := collab.Coordinate{X: x, Y: int32(y), Z: z}
			lockChest(coord, sess.Name(), sess, deps.Chests)
			sess.ClearChest()
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
		if _, err := w.WriteI8(blockType); err != nil {
			return err
		}
		_, err = w.WriteI8(blockMeta)
		return err
	}
}
