package server

import (
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plainchat/plainchat/pkg/directory"
)

var (
	errorLog = log.New(os.Stderr, "ERROR: ", log.LstdFlags)
	debugLog = log.New(io.Discard, "DEBUG: ", log.LstdFlags)
)

// Server is the chat room server: one accept loop, one goroutine per
// connection, shared state behind the Directory and the SessionManager.
type Server struct {
	directory  *directory.Directory
	sessions   *SessionManager
	router     *Router
	config     ServerConfig
	metrics    *Metrics
	listener   net.Listener
	httpServer *http.Server
	shutdown   chan struct{}
	wg         sync.WaitGroup
	startTime  time.Time
}

// NewServer creates a new server instance around an account directory.
func NewServer(dir *directory.Directory, config ServerConfig) *Server {
	sessions := NewSessionManager()

	return &Server{
		directory: dir,
		sessions:  sessions,
		router:    NewRouter(sessions),
		config:    config,
		shutdown:  make(chan struct{}),
		startTime: time.Now(),
	}
}

// SetMetrics attaches Prometheus metrics. Optional; without it the server
// runs unmetered (tests rely on this to avoid registry conflicts).
func (s *Server) SetMetrics(metrics *Metrics) {
	s.metrics = metrics
	s.sessions.SetMetrics(metrics)
	s.router.SetMetrics(metrics)
}

// EnableDebugLogging routes per-frame debug output to stderr.
func (s *Server) EnableDebugLogging() {
	debugLog = log.New(os.Stderr, "DEBUG: ", log.LstdFlags|log.Lmicroseconds)
}

// Directory returns the account directory, for persistence at shutdown.
func (s *Server) Directory() *directory.Directory {
	return s.directory
}

// Start binds the TCP listener and begins accepting connections. Failure
// to bind is the only fatal startup condition.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.TCPPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = listener
	log.Printf("TCP server listening on %s", listener.Addr())

	if s.config.HTTPPort > 0 {
		s.startHTTPServer()
	}

	s.wg.Add(1)
	go s.acceptLoop(listener)

	return nil
}

// Addr returns the bound TCP address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully stops the server and closes all sessions.
func (s *Server) Stop() error {
	close(s.shutdown)

	if s.listener != nil {
		s.listener.Close()
		s.listener = nil
	}

	if s.httpServer != nil {
		s.httpServer.Close()
		s.httpServer = nil
	}

	s.wg.Wait()
	s.sessions.CloseAll()
	return nil
}

// startHTTPServer serves /healthz, /metrics and the /ws WebSocket
// transport on the configured HTTP port.
func (s *Server) startHTTPServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", s.HandleWebSocket)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.HTTPPort),
		Handler: mux,
	}

	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errorLog.Printf("HTTP server error: %v", err)
		}
	}()
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop(listener net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				errorLog.Printf("Accept error: %v", err)
				continue
			}
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single client connection
func (s *Server) handleConnection(conn net.Conn) {
	// Disable Nagle's algorithm for immediate sends
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		tcpConn.SetNoDelay(true)
	}

	sess := s.sessions.Register(conn)
	log.Printf("New connection from %s (session %d)", conn.RemoteAddr(), sess.ID)

	s.messageLoop(sess)
}

// messageLoop runs the decode→dispatch→respond loop for one session until
// disconnect. Shared by the TCP and WebSocket transports.
func (s *Server) messageLoop(sess *Session) {
	defer s.sessions.Unregister(sess.ID)

	for {
		line, err := sess.Conn.ReadFrame()
		if err != nil {
			if err == io.EOF {
				debugLog.Printf("Session %d disconnected", sess.ID)
			} else {
				debugLog.Printf("Session %d read error: %v", sess.ID, err)
			}
			return
		}

		debugLog.Printf("Session %d ← RECV: %q", sess.ID, line)

		if disconnect := s.dispatch(sess, line); disconnect {
			return
		}
	}
}
