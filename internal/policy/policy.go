// Package policy implements the nontrivial per-opcode hooks spec.md §4.2
// names: login, handshake, chat, combat, block, window, spawn, and
// disconnect handling. Every hook is built as a grammar.Hook closure over
// the one Session it applies to and the external collaborators it needs,
// so internal/grammar itself never depends on session or collab.
package policy

import (
	"github.com/Dannysek/SimpleServer/internal/collab"
	"github.com/Dannysek/SimpleServer/internal/config"
	"github.com/Dannysek/SimpleServer/internal/grammar"
	"github.com/Dannysek/SimpleServer/internal/session"
)

// Direction distinguishes the two tunnels of a player's pair; several hooks
// (login, chat) behave differently depending which way the packet is
// travelling (spec.md §4.2).
type Direction int

const (
	ServerToClient Direction = iota
	ClientToServer
)

// redNotice is the color code the rest of this package uses for
// player-visible denial messages (spec.md §8 scenarios S3/S4: "a
// red-colored notice").
const redNotice = "§c"

// Collaborators bundles the external interfaces spec.md §6 requires of the
// host, so BuildHooks takes one argument instead of six.
type Collaborators struct {
	Chests      collab.ChestRegistry
	Bots        collab.BotRegistry
	Entities    collab.EntityDirectory
	Population  collab.PopulationCounter
	Permissions collab.PermissionConfig
	Commands    collab.CommandProcessor
	Events      collab.EventHost
	Translator  collab.Translator
	Auth        collab.Authenticator
}

// BuildHooks returns the opcode→Hook table for one tunnel direction of one
// Session. Opcodes with no entry here either have no policy (pure
// pass-through, handled by internal/grammar's table) or are handled by
// internal/tunnel directly before calling grammar.Dispatch (the transport
// upgrade opcodes 0xFC/0xFD, which need to reassign the tunnel's reader and
// writer, not just fill them — spec.md §4.4).
func BuildHooks(dir Direction, sess *session.Session, cfg *config.Config, deps Collaborators) map[grammar.Opcode]grammar.Hook {
	hooks := map[grammar.Opcode]grammar.Hook{
		grammar.OpLogin:      loginHook(dir, sess, cfg),
		grammar.OpChat:       chatHook(dir, sess, cfg, deps),
		grammar.OpDisconnect: disconnectHook(sess, cfg, deps),
	}
	if dir == ClientToServer {
		hooks[grammar.OpHandshake] = handshakeHook(sess, deps)
		hooks[grammar.OpUseEntity] = useEntityHook(sess, deps)
		hooks[grammar.OpDig] = digHook(sess, deps)
		hooks[grammar.OpPlace] = placeHook(sess, deps)
	} else {
		hooks[grammar.OpNamedEntitySpawn] = namedEntitySpawnHook(deps)
		hooks[grammar.OpBlockChange] = blockChangeHook(sess, deps)
		hooks[grammar.OpOpenWindow] = openWindowHook(sess, deps)
	}
	return hooks
}
