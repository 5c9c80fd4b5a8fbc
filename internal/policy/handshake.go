package policy

import (
	"strings"

	"github.com/Dannysek/SimpleServer/internal/grammar"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

// handshakeHook implements spec.md §4.2's 0x02 Handshake row: resolve the
// Session's final name once, from either a pending authenticated request or
// a freshly issued guest name, then write (opcode, version, final-name,
// next-field, next-int). Handshake never suppresses the packet outright —
// a disallowed guest is kicked but the handshake still completes so the
// kick packet can follow on a clean protocol state.
func handshakeHook(sess *session.Session, deps Collaborators) grammar.Hook {
	return func(op byte, r *wire.Reader, w *wire.Writer) error {
		version, err := r.ReadI8()
		if err != nil {
			return err
		}

		rawName, err := r.ReadUTF16()
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(rawName.String(), ";")

		// The name is final once set: a later handshake on the same Session
		// forwards the name already stored instead of resolving a new one.
		if sess.Name() == "" {
			if name == "Player" || !deps.Auth.IsMinecraftUp() {
				resolveViaAuth(sess, deps, name)
			} else {
				sess.SetName(name, false)
			}
		}

		host, err := r.ReadUTF16()
		if err != nil {
			return err
		}
		port, err := r.ReadI32()
		if err != nil {
			return err
		}

		if _, err := w.WriteU8(op); err != nil {
			return err
		}
		if _, err := w.WriteI8(version); err != nil {
			return err
		}
		if _, err := w.WriteUTF16(wire.NewUTF16String(sess.Name())); err != nil {
			return err
		}
		if _, err := w.WriteUTF16(host); err != nil {
			return err
		}
		_, err = w.WriteI32(port)
		return err
	}
}

// resolveViaAuth implements the fallback branch of 0x02: complete a pending
// auth request by IP, or fall back to a guest name (spec.md §4.2, §8 S1).
func resolveViaAuth(sess *session.Session, deps Collaborators, fallbackName string) {
	if req, ok := deps.Auth.GetAuthRequest(sess.RemoteIP); ok {
		if err := deps.Auth.CompleteLogin(req, sess); err == nil {
			return
		}
	}
	if !deps.Auth.AllowGuestJoin() {
		sess.SetName(fallbackName, true)
		sess.Kick(redNotice + "Guests are not allowed on this server")
		return
	}
	sess.SetName(deps.Auth.GetFreeGuestName(), true)
}
