package policy

import (
	"github.com/Dannysek/SimpleServer/internal/collab"
	"github.com/Dannysek/SimpleServer/internal/session"
)

// faceCoordinate resolves the block position on the far side of the face a
// 0x0F place packet's direction byte names, relative to the clicked block
// (spec.md §4.2, §4.3).
func faceCoordinate(x int32, y int8, z int32, dir int8) collab.Coordinate {
	c := collab.Coordinate{X: x, Y: int32(y), Z: z}
	switch dir {
	case 0:
		c.Y--
	case 1:
		c.Y++
	case 2:
		c.Z--
	case 3:
		c.Z++
	case 4:
		c.X--
	case 5:
		c.X++
	}
	return c
}

// lockChest implements spec.md §4.3's chest sub-protocol: the 0x35
// block-change hook calls this once it has confirmed the Session's pending
// chest placement actually became a chest block.
func lockChest(coord collab.Coordinate, player string, sess *session.Session, chests collab.ChestRegistry) error {
	if adj, ok := chests.Adjacent(coord); ok && adj.Locked {
		return chests.GiveLock(coord, adj.Owner, adj.DisplayName)
	}
	scratch := sess.Chest()
	if scratch.RequestedLock {
		return chests.GiveLock(coord, player, scratch.RequestedLockName)
	}
	return chests.AddOpen(coord)
}

// chestItemID is the Item.ID placing a chest block (spec.md §4.2, 0x0F).
const chestItemID = 54
