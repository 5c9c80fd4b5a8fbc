// Package tunnel implements the per-player worker pair spec.md §4.5
// describes: two goroutines, one per direction, sharing one Session, each
// running grammar.Dispatch packet-by-packet with the hooks internal/policy
// builds for its direction. The two opcodes that need every object in the
// pair at once — the encryption upgrade, spec.md §4.4 — are special-cased
// here ahead of Dispatch rather than expressed as a Hook.
package tunnel

import (
	"errors"
	"log"
	"net"
	"time"

	"github.com/Dannysek/SimpleServer/internal/config"
	"github.com/Dannysek/SimpleServer/internal/debugstream"
	"github.com/Dannysek/SimpleServer/internal/grammar"
	"github.com/Dannysek/SimpleServer/internal/policy"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/transport"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

// watchdogInterval is how often the idle watchdog polls Session.IsActive
// (spec.md §4.5: "isActive() returns true iff now - lastRead < 30s").
const watchdogInterval = 5 * time.Second

// Pair owns both directions of one player's connection: the socket facing
// the real client and the socket facing the real (upstream) server, plus
// the shared Session and debug-dump sinks both workers write into.
type Pair struct {
	Session *session.Session
	cfg     *config.Config
	deps    policy.Collaborators

	clientConn net.Conn
	serverConn net.Conn

	clientR *wire.Reader
	clientW *wire.Writer
	serverR *wire.Reader
	serverW *wire.Writer

	dumps *debugstream.Manager
}

// NewPair wires one player's sockets into a Pair ready for Run. dumps may
// be nil, in which case debug mirroring is skipped.
func NewPair(clientConn, serverConn net.Conn, sess *session.Session, cfg *config.Config, deps policy.Collaborators, dumps *debugstream.Manager) *Pair {
	p := &Pair{
		Session:    sess,
		cfg:        cfg,
		deps:       deps,
		clientConn: clientConn,
		serverConn: serverConn,
		clientR:    wire.NewReader(clientConn),
		clientW:    wire.NewWriter(clientConn),
		serverR:    wire.NewReader(serverConn),
		serverW:    wire.NewWriter(serverConn),
		dumps:      dumps,
	}
	if dumps != nil {
		p.clientR.SetTee(dumps.PlayerInput)
		p.clientW.SetTee(dumps.PlayerOutput)
		p.serverR.SetTee(dumps.ServerInput)
		p.serverW.SetTee(dumps.ServerOutput)
	}
	return p
}

// Run starts both direction workers and the idle watchdog, and blocks until
// the Session stops (spec.md §4.5). It always closes both sockets and
// releases the debug dumps before returning, satisfying the worker's
// guaranteed-exit clause regardless of which side failed first.
func (p *Pair) Run() {
	done := make(chan struct{}, 2)

	go func() {
		p.worker(policy.ClientToServer, p.clientR, p.serverW, p.serverR, p.serverW)
		done <- struct{}{}
	}()
	go func() {
		p.worker(policy.ServerToClient, p.serverR, p.clientW, p.clientR, p.clientW)
		done <- struct{}{}
	}()
	go p.watchdog()

	<-done
	p.Session.Stop()
	p.clientConn.Close()
	p.serverConn.Close()
	<-done

	if p.dumps != nil {
		p.dumps.Close()
	}
}

// watchdog force-closes both sockets once the Session goes idle, so the two
// workers' blocking reads unblock even with no traffic to observe (spec.md
// §4.5).
func (p *Pair) watchdog() {
	ticker := time.NewTicker(watchdogInterval)
	defer ticker.Stop()
	for range ticker.C {
		if !p.Session.Running() {
			return
		}
		if !p.Session.IsActive(time.Now()) {
			p.Session.Kick("Idle timeout")
			p.clientConn.Close()
			p.serverConn.Close()
			return
		}
	}
}

// worker runs one direction's read/dispatch/flush loop. r/w is this
// direction's own reader/writer pair; peerR/peerW is the other direction's
// pair, needed only for the 0xFC encryption-response row (spec.md §4.4).
func (p *Pair) worker(dir policy.Direction, r *wire.Reader, w *wire.Writer, peerR *wire.Reader, peerW *wire.Writer) {
	hooks := policy.BuildHooks(dir, p.Session, p.cfg, p.deps)

	var prevOp byte
	havePrev := false
	for p.Session.Running() {
		op, err := r.ReadByte()
		if err != nil {
			if !errors.Is(err, wire.ErrShortRead) {
				log.Printf("tunnel: read: %v", err)
			}
			break
		}
		p.Session.Touch(time.Now())
		if p.dumps != nil {
			p.tee(dir, op)
		}

		if err := p.dispatchOne(dir, op, r, w, peerR, peerW, hooks); err != nil {
			if havePrev {
				log.Printf("tunnel: player %q direction %d: dispatch 0x%02X (previous 0x%02X): %v", p.Session.Name(), dir, op, prevOp, err)
			} else {
				log.Printf("tunnel: player %q direction %d: dispatch 0x%02X: %v", p.Session.Name(), dir, op, err)
			}
			break
		}
		prevOp, havePrev = op, true
		if err := w.Flush(); err != nil {
			log.Printf("tunnel: flush: %v", err)
			break
		}

		if err := p.drainQueue(dir, w); err != nil {
			log.Printf("tunnel: drain queue: %v", err)
			break
		}
	}

	p.flushKick(dir, w)
}

func (p *Pair) dispatchOne(dir policy.Direction, op byte, r *wire.Reader, w *wire.Writer, peerR *wire.Reader, peerW *wire.Writer, hooks map[grammar.Opcode]grammar.Hook) error {
	switch {
	case dir == policy.ServerToClient && grammar.Opcode(op) == grammar.OpEncryptionReq:
		return transport.HandleEncryptionRequest(op, r, w, p.Session, p.deps.Auth)
	case dir == policy.ClientToServer && grammar.Opcode(op) == grammar.OpEncryptionResp:
		return transport.HandleEncryptionResponse(op, r, w, peerR, peerW, p.Session, p.deps.Auth)
	default:
		return grammar.Dispatch(op, r, w, hooks, p.cfg.EnableModOpcodes)
	}
}

func (p *Pair) tee(dir policy.Direction, op byte) {
	if dir == policy.ServerToClient {
		p.dumps.ServerInput.Mark(op)
	} else {
		p.dumps.PlayerInput.Mark(op)
	}
}

// drainQueue delivers whatever chat this direction owns: the server→client
// worker drains inbound (messages destined for the client), the
// client→server worker drains forward (messages destined for the server) —
// spec.md §4.3, §4.5.
func (p *Pair) drainQueue(dir policy.Direction, w *wire.Writer) error {
	var msgs []string
	if dir == policy.ServerToClient {
		msgs = p.Session.DrainInbound()
	} else {
		msgs = p.Session.DrainForward()
	}
	if len(msgs) == 0 {
		return nil
	}
	for _, m := range msgs {
		if err := writeChatPacket(w, m); err != nil {
			return err
		}
	}
	return w.Flush()
}

func writeChatPacket(w *wire.Writer, text string) error {
	if _, err := w.WriteU8(byte(grammar.OpChat)); err != nil {
		return err
	}
	_, err := w.WriteUTF16(wire.NewUTF16String(text))
	return err
}

// flushKick writes the final 0xFF this Session was kicked with, if any
// (spec.md §4.5: "on exit, a kicked Session gets one last disconnect
// packet"). Both directions attempt it; whichever socket is still open
// wins, the other's write simply errors and is ignored since the worker is
// exiting anyway.
func (p *Pair) flushKick(dir policy.Direction, w *wire.Writer) {
	if !p.Session.Kicked() {
		return
	}
	reason := p.Session.KickReason()
	if reason == "" {
		reason = "Disconnected"
	}
	if _, err := w.WriteU8(byte(grammar.OpDisconnect)); err != nil {
		return
	}
	if _, err := w.WriteUTF16(wire.NewUTF16String(reason)); err != nil {
		return
	}
	w.Flush()
}
