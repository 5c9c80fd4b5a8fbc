package policy

import (
	"strconv"
	"strings"

	"github.com/Dannysek/SimpleServer/internal/config"
	"github.com/Dannysek/SimpleServer/internal/grammar"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

// serverListPingSentinel marks a disconnect reason as a legacy
// server-list-ping request rather than a real kick (spec.md §4.2, §8 S6).
const serverListPingSentinel = "§1"

// robotReasonPrefix marks a disconnect as the server's own idle timeout,
// which this side takes as a signal the connection is a scripted client
// rather than a human (spec.md §4.2, §9 open question).
const robotReasonPrefix = "Took too long"

// disconnectHook implements spec.md §4.2's 0xFF row for both directions:
// rewrite a legacy ping sentinel into the standard five-field response,
// detect the robot-timeout reason, and always close the Session.
func disconnectHook(sess *session.Session, cfg *config.Config, deps Collaborators) grammar.Hook {
	return func(op byte, r *wire.Reader, w *wire.Writer) error {
		raw, err := r.ReadUTF16()
		if err != nil {
			return err
		}
		reason := raw.String()

		switch {
		case strings.HasPrefix(reason, serverListPingSentinel):
			reason = rewriteServerListPing(cfg, deps)
		case strings.HasPrefix(reason, robotReasonPrefix):
			sess.SetRobot(true)
		}

		// disconnectHook writes its own (possibly rewritten) 0xFF below, so it
		// must not go through Kick: Kick also arms tunnel.flushKick's
		// exit-time 0xFF, meant for hooks that never get to write their own
		// disconnect (e.g. handshakeHook's guest-disallowed path) — arming it
		// here would append a second, redundant disconnect packet right
		// behind this one.
		sess.Stop()

		if _, err := w.WriteU8(op); err != nil {
			return err
		}
		_, err = w.WriteUTF16(wire.NewUTF16String(reason))
		return err
	}
}

// rewriteServerListPing builds the standard null-delimited five-field
// legacy ping response: protocol version, game version, description,
// current players, max players (spec.md §8 S6).
func rewriteServerListPing(cfg *config.Config, deps Collaborators) string {
	players := 0
	if deps.Population != nil {
		players = deps.Population.Count()
	}
	fields := []string{
		serverListPingSentinel,
		strconv.Itoa(cfg.ProtocolVersion),
		cfg.GameVersion,
		cfg.Description,
		strconv.Itoa(players),
		strconv.Itoa(cfg.MaxPlayers),
	}
	return strings.Join(fields, "\x00")
}
