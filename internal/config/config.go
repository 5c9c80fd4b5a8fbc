// Package config loads the ambient knobs listed in spec.md §6, the way the
// teacher's main.go loads server.yaml: gopkg.in/yaml.v3 decodes directly
// into a tagged struct, with zero-value defaulting applied after decode.
package config

import (
	"os"

	"github.com/Dannysek/SimpleServer/internal/debugstream"
	"gopkg.in/yaml.v3"
)

// Config is read once at tunnel-pair construction (spec.md §6: "read once
// at tunnel construction unless noted").
type Config struct {
	// UseSlashes selects the command prefix: '/' when true, '!' when false
	// (spec.md §4.2, 0x03 chat).
	UseSlashes bool `yaml:"use_slashes"`

	// MaxPlayers rewrites the login packet's server-supplied value
	// (spec.md §4.2, 0x01 login).
	MaxPlayers int `yaml:"max_players"`

	ForwardChat       bool `yaml:"forward_chat"`
	UseMsgFormats     bool `yaml:"use_msg_formats"`
	MsgWrap           int  `yaml:"msg_wrap"`
	ChatConsoleToOps  bool `yaml:"chat_console_to_ops"`
	ShowListOnConnect bool `yaml:"show_list_on_connect"`
	EnableEvents      bool `yaml:"enable_events"`

	// EnableModOpcodes gates the 0xD3/0xE6 mod-specific opcodes behind a
	// knob per spec.md §9's open question ("may be absent in the target
	// protocol version — gate them behind a configuration knob").
	EnableModOpcodes bool `yaml:"enable_mod_opcodes"`

	// DebugDump mirrors EXPENSIVE_DEBUG_LOGGING; the env var, when set,
	// always wins over this field — the same override order the teacher
	// applies to its own zero-value config fields (ProtocolID, MaxPlayers).
	DebugDump bool `yaml:"debug_dump"`

	// DebugTapAddr, if set, additionally serves the four debug dumps live
	// over yamux (internal/debugstream) at this address when DebugDump is
	// active.
	DebugTapAddr string `yaml:"debug_tap_addr"`

	// ProtocolVersion, GameVersion, and Description feed the legacy
	// server-list-ping rewrite (spec.md §4.2, 0xFF disconnect; §8 S6).
	ProtocolVersion int    `yaml:"protocol_version"`
	GameVersion     string `yaml:"game_version"`
	Description     string `yaml:"description"`

	CommandPrefix string `yaml:"-"` // derived from UseSlashes, not decoded
}

const defaultMsgWrap = 119 // legacy chat-line wrap width, matches vanilla client text boxes

// Load reads and decodes path, applying the same kind of post-decode
// defaulting the teacher's main() does for ProtocolID/MaxPlayers.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = 20
	}
	if cfg.MsgWrap == 0 {
		cfg.MsgWrap = defaultMsgWrap
	}
	if cfg.UseSlashes {
		cfg.CommandPrefix = "/"
	} else {
		cfg.CommandPrefix = "!"
	}
	if debugstream.Enabled() {
		cfg.DebugDump = true
	}
	if cfg.GameVersion == "" {
		cfg.GameVersion = "1.5.2"
	}
	if cfg.Description == "" {
		cfg.Description = "A Minecraft Server"
	}
}
