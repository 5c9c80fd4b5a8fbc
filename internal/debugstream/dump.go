// Package debugstream implements the optional per-direction byte tee
// described in spec.md §4.1 and §6: when EXPENSIVE_DEBUG_LOGGING is set,
// every byte read and written by a tunnel pair is mirrored into one of four
// well-known files for offline replay, with packet-boundary markers
// recordable on demand.
package debugstream

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnvFlag is the environment variable that enables dumping, per spec.md §6.
const EnvFlag = "EXPENSIVE_DEBUG_LOGGING"

// Enabled reports whether the debug-dump environment flag is set.
func Enabled() bool {
	return os.Getenv(EnvFlag) != ""
}

// Dump is a tee sink: every Write is persisted to a file and, if any live
// tap subscribers are attached (see mux.go), fanned out to them too.
type Dump struct {
	mu   sync.Mutex
	file *os.File
	subs []chan []byte
}

// Open creates (truncating) the named dump file. The returned Dump is
// never nil; when path is empty it discards writes, which lets callers
// always hold a non-nil tee and skip nil checks on the hot path.
func Open(path string) (*Dump, error) {
	if path == "" {
		return &Dump{}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("debugstream: open %s: %w", path, err)
	}
	return &Dump{file: f}, nil
}

func (d *Dump) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file != nil {
		if _, err := d.file.Write(p); err != nil {
			return 0, err
		}
	}
	for _, sub := range d.subs {
		cp := append([]byte(nil), p...)
		select {
		case sub <- cp:
		default:
			// Slow tap subscriber: drop rather than block the tunnel.
		}
	}
	return len(p), nil
}

// Mark writes a packet-boundary marker on demand (spec.md §4.1: "records
// packet-boundary markers on demand"). The marker is a short ASCII line so
// a replay tool can resynchronize on it without ambiguity against binary
// packet bytes, which never begin a line with this exact token.
func (d *Dump) Mark(opcode byte) {
	d.Write([]byte(fmt.Sprintf("\n--pkt:%02x--\n", opcode)))
}

func (d *Dump) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sub := range d.subs {
		close(sub)
	}
	d.subs = nil
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// subscribe registers a channel that receives a copy of every future Write.
// Used by mux.go to feed a live yamux stream.
func (d *Dump) subscribe() chan []byte {
	ch := make(chan []byte, 64)
	d.mu.Lock()
	d.subs = append(d.subs, ch)
	d.mu.Unlock()
	return ch
}

// Manager owns the four well-known per-connection dump sinks.
type Manager struct {
	ServerInput, ServerOutput *Dump
	PlayerInput, PlayerOutput *Dump
}

// NewManager opens the four dumps named in spec.md §6 under dir (the
// working directory if dir is empty). When disabled it returns a Manager
// whose four dumps silently discard everything, so callers can wire
// io.Writer tees unconditionally.
func NewManager(dir string, enabled bool) (*Manager, error) {
	if !enabled {
		noop := &Dump{}
		return &Manager{ServerInput: noop, ServerOutput: noop, PlayerInput: noop, PlayerOutput: noop}, nil
	}
	names := []string{"ServerStreamInput.debug", "ServerStreamOutput.debug", "PlayerStreamInput.debug", "PlayerStreamOutput.debug"}
	dumps := make([]*Dump, len(names))
	for i, n := range names {
		path := n
		if dir != "" {
			path = dir + string(os.PathSeparator) + n
		}
		d, err := Open(path)
		if err != nil {
			for _, opened := range dumps[:i] {
				if opened != nil {
					opened.Close()
				}
			}
			return nil, err
		}
		dumps[i] = d
	}
	return &Manager{ServerInput: dumps[0], ServerOutput: dumps[1], PlayerInput: dumps[2], PlayerOutput: dumps[3]}, nil
}

// Close releases all four dump files, honoring the tunnel worker's
// guaranteed-exit clause (spec.md §5: "Debug-dump files are owned by the
// tunnel and released in a guaranteed-exit clause at worker end").
func (m *Manager) Close() {
	for _, d := range []*Dump{m.ServerInput, m.ServerOutput, m.PlayerInput, m.PlayerOutput} {
		if d != nil {
			d.Close()
		}
	}
}
