// Command minewatch is the sample wiring for the interceptor: it accepts a
// client connection, dials the real upstream server, and runs the two
// resulting sockets through a tunnel.Pair built from the in-memory
// reference collaborators in internal/collab. A real deployment swaps those
// reference implementations for its own persistence/auth/permission stores
// and otherwise reuses everything below unchanged (spec.md §1, §6).
package main

import (
	"flag"
	"log"
	"net"
	"os"

	"github.com/Dannysek/SimpleServer/internal/collab"
	"github.com/Dannysek/SimpleServer/internal/config"
	"github.com/Dannysek/SimpleServer/internal/debugstream"
	"github.com/Dannysek/SimpleServer/internal/policy"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/transport/refcrypto"
	"github.com/Dannysek/SimpleServer/internal/tunnel"
)

func main() {
	configPath := flag.String("config", "server.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config: ", err)
	}

	dumps, err := debugstream.NewManager("", cfg.DebugDump)
	if err != nil {
		log.Fatal("could not open debug dumps: ", err)
	}
	if cfg.DebugDump && cfg.DebugTapAddr != "" {
		tapLn, err := net.Listen("tcp", cfg.DebugTapAddr)
		if err != nil {
			log.Fatal("could not listen for debug tap: ", err)
		}
		go dumps.ServeTap(tapLn)
		log.Printf("debug tap listening on %s", cfg.DebugTapAddr)
	}

	deps := policy.Collaborators{
		Chests:      collab.NewMemoryChestRegistry(nil),
		Bots:        collab.NewMemoryBotRegistry(),
		Entities:    collab.NewMemoryEntityDirectory(),
		Population:  &collab.MemoryPopulationCounter{},
		Permissions: collab.NewAllowAllPermissions(),
		Commands:    noopCommands{},
		Events:      collab.NoopEventHost{},
		Translator:  collab.PassthroughTranslator{},
		Auth:        collab.NewMemoryAuthenticatorSeeded(true),
	}

	listenAddr := os.Getenv("MINEWATCH_LISTEN")
	if listenAddr == "" {
		listenAddr = "0.0.0.0:25565"
	}
	upstreamAddr := os.Getenv("MINEWATCH_UPSTREAM")
	if upstreamAddr == "" {
		log.Fatal("MINEWATCH_UPSTREAM must name the real server's host:port")
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("minewatch listening on %s, forwarding to %s", listenAddr, upstreamAddr)

	for {
		clientConn, err := ln.Accept()
		if err != nil {
			log.Printf("accept: %v", err)
			continue
		}
		go acceptPlayer(clientConn, upstreamAddr, cfg, deps, dumps)
	}
}

func acceptPlayer(clientConn net.Conn, upstreamAddr string, cfg *config.Config, deps policy.Collaborators, dumps *debugstream.Manager) {
	serverConn, err := net.Dial("tcp", upstreamAddr)
	if err != nil {
		log.Printf("dial upstream for %s: %v", clientConn.RemoteAddr(), err)
		clientConn.Close()
		return
	}

	remoteIP, _, _ := net.SplitHostPort(clientConn.RemoteAddr().String())
	sess := session.New(remoteIP)

	serverCrypt, clientCrypt, err := refcrypto.NewPair()
	if err != nil {
		log.Printf("generating encryption keypair for %s: %v", remoteIP, err)
		clientConn.Close()
		serverConn.Close()
		return
	}
	sess.ServerCrypt = serverCrypt
	sess.ClientCrypt = clientCrypt

	if pop, ok := deps.Population.(*collab.MemoryPopulationCounter); ok {
		pop.Inc()
		defer pop.Dec()
	}

	pair := tunnel.NewPair(clientConn, serverConn, sess, cfg, deps, dumps)
	pair.Run()
}

// noopCommands forwards every command unmodified; a real deployment wires a
// CommandProcessor that actually dispatches (spec.md §1).
type noopCommands struct{}

func (noopCommands) Process(_ string, text string) (string, bool) { return text, true }
