package policy

import (
	"encoding/json"
	"strings"

	"github.com/Dannysek/SimpleServer/internal/config"
	"github.com/Dannysek/SimpleServer/internal/grammar"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

// joinLeftNotice is the structured "joined/left" shape a chat packet's text
// may carry instead of a plain message (spec.md §4.2, 0x03 chat).
type joinLeftNotice struct {
	Type   string `json:"type"`
	Player string `json:"player"`
}

func parseJoinLeft(body string) (joinLeftNotice, bool) {
	var n joinLeftNotice
	if err := json.Unmarshal([]byte(body), &n); err != nil {
		return joinLeftNotice{}, false
	}
	if n.Type != "joined" && n.Type != "left" {
		return joinLeftNotice{}, false
	}
	return n, true
}

// wrapChat splits text into chunks of at most width runes (Unicode code
// points, not 16-bit code units) (spec.md §6 msgWrap); width <= 0 disables
// wrapping.
func wrapChat(text string, width int) []string {
	runes := []rune(text)
	if width <= 0 || len(runes) <= width {
		return []string{text}
	}
	var lines []string
	for len(runes) > 0 {
		n := width
		if n > len(runes) {
			n = len(runes)
		}
		lines = append(lines, string(runes[:n]))
		runes = runes[n:]
	}
	return lines
}

func writeChat(op byte, w *wire.Writer, text string) error {
	if _, err := w.WriteU8(op); err != nil {
		return err
	}
	_, err := w.WriteUTF16(wire.NewUTF16String(text))
	return err
}

// chatHook implements spec.md §4.2's 0x03 Chat row for both directions.
func chatHook(dir Direction, sess *session.Session, cfg *config.Config, deps Collaborators) grammar.Hook {
	if dir == ServerToClient {
		return chatServerToClient(sess, cfg, deps)
	}
	return chatClientToServer(sess, cfg, deps)
}

func chatServerToClient(sess *session.Session, cfg *config.Config, deps Collaborators) grammar.Hook {
	return func(op byte, r *wire.Reader, w *wire.Writer) error {
		text, err := r.ReadUTF16()
		if err != nil {
			return err
		}
		body := text.String()

		if notice, ok := parseJoinLeft(body); ok {
			if deps.Bots.IsBot(notice.Player) {
				return nil // suppress join/left noise for registered bots
			}
			key := "chat.player_left"
			if notice.Type == "joined" {
				key = "chat.player_joined"
			}
			return writeChat(op, w, deps.Translator.Translate(key, notice.Player))
		}

		if !cfg.ForwardChat {
			return nil // loopback suppression: raw server chat isn't re-forwarded
		}
		if !cfg.ChatConsoleToOps && strings.HasPrefix(body, "[CONSOLE]") {
			return nil
		}
		for _, line := range wrapChat(body, cfg.MsgWrap) {
			if err := writeChat(op, w, line); err != nil {
				return err
			}
		}
		return nil
	}
}

func chatClientToServer(sess *session.Session, cfg *config.Config, deps Collaborators) grammar.Hook {
	return func(op byte, r *wire.Reader, w *wire.Writer) error {
		text, err := r.ReadUTF16()
		if err != nil {
			return err
		}
		body := text.String()
		isCommand := cfg.CommandPrefix != "" && strings.HasPrefix(body, cfg.CommandPrefix)

		if sess.Muted() && !isCommand {
			sess.EnqueueInbound(redNotice + "You are muted! Your message was not sent.")
			return nil
		}
		if isCommand {
			rewritten, ok := deps.Commands.Process(sess.Name(), body)
			if !ok {
				return nil
			}
			return writeChat(op, w, rewritten)
		}
		return writeChat(op, w, body)
	}
}
