package policy

import (
	"github.com/Dannysek/SimpleServer/internal/config"
	"github.com/Dannysek/SimpleServer/internal/grammar"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

// loginHook implements spec.md §4.2's 0x01 Login row. On server→client it
// captures entityId and dimension into the Session and rewrites the
// server-supplied max-players byte to the configured value; on
// client→server it is a plain forward of the login-request shape. Login
// never denies, so both branches always write op first.
func loginHook(dir Direction, sess *session.Session, cfg *config.Config) grammar.Hook {
	if dir == ClientToServer {
		return func(op byte, r *wire.Reader, w *wire.Writer) error {
			if _, err := w.WriteU8(op); err != nil {
				return err
			}
			if _, err := wirePassI32(r, w); err != nil { // protocol version
				return err
			}
			name, err := r.ReadUTF16()
			if err != nil {
				return err
			}
			if _, err := w.WriteUTF16(name); err != nil {
				return err
			}
			if _, err := wirePassI64(r, w); err != nil { // map seed
				return err
			}
			_, err = wirePassI8(r, w) // dimension
			return err
		}
	}

	return func(op byte, r *wire.Reader, w *wire.Writer) error {
		entityID, err := r.ReadI32()
		if err != nil {
			return err
		}
		sess.EntityID = entityID

		levelType, err := r.ReadUTF16()
		if err != nil {
			return err
		}

		gameMode, err := r.ReadI8()
		if err != nil {
			return err
		}

		dimension, err := r.ReadI8()
		if err != nil {
			return err
		}
		sess.Dimension = int32(dimension)

		difficulty, err := r.ReadI8()
		if err != nil {
			return err
		}
		worldHeight, err := r.ReadI8()
		if err != nil {
			return err
		}
		if _, err := r.ReadU8(); err != nil { // server-supplied max players, discarded
			return err
		}

		if _, err := w.WriteU8(op); err != nil {
			return err
		}
		if _, err := w.WriteI32(entityID); err != nil {
			return err
		}
		if _, err := w.WriteUTF16(levelType); err != nil {
			return err
		}
		if _, err := w.WriteI8(gameMode); err != nil {
			return err
		}
		if _, err := w.WriteI8(dimension); err != nil {
			return err
		}
		if _, err := w.WriteI8(difficulty); err != nil {
			return err
		}
		if _, err := w.WriteI8(worldHeight); err != nil {
			return err
		}
		_, err = w.WriteU8(uint8(cfg.MaxPlayers))
		return err
	}
}

func wirePassI8(r *wire.Reader, w *wire.Writer) (int8, error) {
	v, err := r.ReadI8()
	if err != nil {
		return 0, err
	}
	return w.WriteI8(v)
}

func wirePassI32(r *wire.Reader, w *wire.Writer) (int32, error) {
	v, err := r.ReadI32()
	if err != nil {
		return 0, err
	}
	return w.WriteI32(v)
}

func wirePassI64(r *wire.Reader, w *wire.Writer) (int64, error) {
	v, err := r.ReadI64()
	if err != nil {
		return 0, err
	}
	return w.WriteI64(v)
}
