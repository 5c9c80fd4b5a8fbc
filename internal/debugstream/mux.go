package debugstream

import (
	"io"
	"log"
	"net"

	"github.com/hashicorp/yamux"
)

// streamNames fixes the order dumps are exposed as yamux streams: this side
// opens four streams in sequence, and a tap client accepts them in this
// order.
var streamNames = []string{"server-input", "server-output", "player-input", "player-output"}

// ServeTap accepts tap clients on ln and multiplexes the four dump streams
// over each one with yamux, so a live debugger can tail all four at once
// instead of tailing four files by hand. This repurposes the teacher's use
// of yamux (there, multiplexing a disguised VPN session; here, multiplexing
// diagnostic byte streams) — see DESIGN.md.
//
// ServeTap blocks accepting tap connections until Accept on ln fails (for
// example because ln was closed); closing the dumps ends the tail goroutines
// but not the accept loop. Callers run it in its own goroutine.
func (m *Manager) ServeTap(ln net.Listener) {
	dumps := []*Dump{m.ServerInput, m.ServerOutput, m.PlayerInput, m.PlayerOutput}
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go m.serveTapConn(conn, dumps)
	}
}

func (m *Manager) serveTapConn(conn net.Conn, dumps []*Dump) {
	session, err := yamux.Server(conn, nil)
	if err != nil {
		conn.Close()
		return
	}
	defer session.Close()

	for i, d := range dumps {
		stream, err := session.OpenStream()
		if err != nil {
			log.Printf("debugstream: opening tap stream %s: %v", streamNames[i], err)
			return
		}
		go tailDump(stream, d)
	}

	// Keep the session alive until the peer goes away; streams opened above
	// run independently in their own goroutines.
	<-session.CloseChan()
}

func tailDump(w io.WriteCloser, d *Dump) {
	defer w.Close()
	ch := d.subscribe()
	for chunk := range ch {
		if _, err := w.Write(chunk); err != nil {
			return
		}
	}
}
