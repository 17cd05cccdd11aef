package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/nickyhof/SessionVars/db"
)

// Server is a TCP server that exposes the SessionVars engine. Every
// connection gets its own session, so variables never leak between clients
// and the single-threaded store needs no locking.
type Server struct {
	listener   net.Listener
	authConfig *AuthConfig
	done       chan struct{}
	wg         sync.WaitGroup
}

// connState tracks one connection's session and authentication.
type connState struct {
	session       *db.Session
	engine        *db.Engine
	subject       string
	authenticated bool
	tokenExpiry   time.Time
}

// NewServer creates a new server without authentication.
func NewServer() *Server {
	return &Server{
		done: make(chan struct{}),
	}
}

// NewServerWithAuth creates a new server that requires JWT authentication.
func NewServerWithAuth(authConfig *AuthConfig) *Server {
	return &Server{
		authConfig: authConfig,
		done:       make(chan struct{}),
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	log.Printf("SessionVars server listening on %s", addr)

	go s.acceptLoop()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) requireAuth() bool {
	return s.authConfig != nil && s.authConfig.Enabled
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("Accept error: %v", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	session := db.NewSession()
	state := &connState{
		session: session,
		engine:  db.NewEngine(session),
	}

	log.Printf("Client connected: %s (session %s)", conn.RemoteAddr(), session.ID)

	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// Read until newline (one statement per line)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("Read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		// Handle special commands
		if strings.ToLower(query) == "quit" || strings.ToLower(query) == "exit" {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}

		var response Response
		if strings.HasPrefix(strings.ToUpper(query), "AUTH ") {
			response = s.handleAuth(query, state)
		} else if s.requireAuth() && !s.authorized(state) {
			response = Response{
				Success: false,
				Error:   "authentication required: send AUTH JWT <token>",
			}
		} else {
			response = executeQuery(state.engine, query)
		}

		// Send response
		data, err := EncodeResponse(response)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}

		_, err = conn.Write(data)
		if err != nil {
			log.Printf("Write error to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

// authorized reports whether the connection may run statements. An expired
// token must be renewed with a fresh AUTH command.
func (s *Server) authorized(state *connState) bool {
	if !state.authenticated {
		return false
	}
	if !state.tokenExpiry.IsZero() && time.Now().After(state.tokenExpiry) {
		state.authenticated = false
		return false
	}
	return true
}

func executeQuery(engine *db.Engine, query string) Response {
	result, err := engine.Execute(query)
	if err != nil {
		return Response{
			Success: false,
			Error:   err.Error(),
		}
	}

	switch r := result.(type) {
	case db.QueryResult:
		qr := QueryResponse{
			Columns:     r.Columns,
			Data:        r.Data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(qr)
		return Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}

	case db.CommitResult:
		cr := CommitResponse{
			PackagesDropped:  r.PackagesDropped,
			VariablesSet:     r.VariablesSet,
			VariablesRemoved: r.VariablesRemoved,
			RecordsWritten:   r.RecordsWritten,
			RecordsDeleted:   r.RecordsDeleted,
			TimeMs:           r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(cr)
		return Response{
			Success: true,
			Type:    "commit",
			Result:  data,
		}

	default:
		return Response{
			Success: true,
			Type:    "unknown",
		}
	}
}
