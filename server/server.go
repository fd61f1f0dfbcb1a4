// Package server exposes the auction engine to the host over one-shot
// JSON-over-TCP requests: the client writes a single request, half-closes,
// and reads a single response.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/lienworks/liqauction/core"
)

// Server accepts auction requests over TCP. Mutating requests (place_bid,
// advance_counter) serialize through an internal mutex so the engine's
// reentrancy guard only ever trips on genuine nested callbacks from the
// settlement bank.
type Server struct {
	addr       string
	engine     *core.Engine
	counter    *core.MonotonicCounter
	maxWorkers int

	mu sync.Mutex

	listenerMu sync.Mutex
	listener   net.Listener
}

// New builds a server for engine. counter is the host-fed source behind
// the engine's clock.
func New(addr string, engine *core.Engine, counter *core.MonotonicCounter, maxWorkers int) *Server {
	return &Server{
		addr:       addr,
		engine:     engine,
		counter:    counter,
		maxWorkers: maxWorkers,
	}
}

// MutatingLock returns the lock held around every mutating auction call.
// The retention sweeper shares it so pruning never races a bid.
func (s *Server) MutatingLock() sync.Locker {
	return &s.mu
}

// Start listens and serves until the listener is closed. Blocks.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listenerMu.Lock()
	s.listener = listener
	s.listenerMu.Unlock()
	defer func() {
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Printf("ERROR: Failed to close listener: %v", err)
		}
	}()

	log.Printf("INFO: auction server listening on %s", listener.Addr())

	semaphore := make(chan struct{}, s.maxWorkers)
	log.Printf("INFO: Worker pool initialized with %d max concurrent workers", s.maxWorkers)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("ERROR: Failed to accept connection: %v", err)
			continue
		}

		// Acquire worker slot - immediate rejection if pool full
		select {
		case semaphore <- struct{}{}:
			go func(c net.Conn) {
				defer func() { <-semaphore }() // Release worker slot
				s.handleConnection(c)
			}(conn)
		default:
			log.Printf("INFO: No workers available, rejecting connection (pool full)")
			if err := conn.Close(); err != nil {
				log.Printf("ERROR: Failed to close rejected connection: %v", err)
			}
		}
	}
}

// Addr returns the bound listen address once Start has opened it.
func (s *Server) Addr() net.Addr {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close stops the accept loop.
func (s *Server) Close() error {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handleConnection(conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: Panic recovered in handleConnection: %v", r)
		}
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Printf("ERROR: Failed to close connection: %v", err)
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, conn); err != nil {
		log.Printf("ERROR: Failed to read request: %v", err)
		return
	}

	s.respond(conn, s.handleRequest(buf.Bytes()))
}
