package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/arxinspect/internal/logging"
	"github.com/muurk/arxinspect/internal/packet"
)

// DefaultListen is the listen address used when Config.Listen is empty
const DefaultListen = ":8080"

// shutdownTimeout bounds how long Start waits for in-flight requests
const shutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Listen     string         // host:port to listen on
	Options    packet.Options // Layout and model table used for every decode
	CertPath   string         // TLS certificate (optional, enables HTTPS together with KeyPath)
	KeyPath    string         // TLS private key
	CaptureDir string         // Directory to append decoded packets to (empty = disabled)
}

// Server is the HTTP packet inspector
type Server struct {
	config     *Config
	httpServer *http.Server
	listener   net.Listener
	tlsConfig  *tls.Config
	capture    *Capture
	upgrader   websocket.Upgrader

	wg           sync.WaitGroup
	mu           sync.Mutex
	activeConns  map[string]*websocket.Conn
	shuttingDown bool
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config.Listen == "" {
		config.Listen = DefaultListen
	}

	var tlsConfig *tls.Config
	if config.CertPath != "" || config.KeyPath != "" {
		if config.CertPath == "" || config.KeyPath == "" {
			return nil, fmt.Errorf("both certificate and key are required for TLS")
		}
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	var capture *Capture
	if config.CaptureDir != "" {
		var err error
		capture, err = NewCapture(config.CaptureDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open capture directory: %w", err)
		}
	}

	s := &Server{
		config:      config,
		tlsConfig:   tlsConfig,
		capture:     capture,
		activeConns: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig:         tlsConfig,
	}
	return s, nil
}

// Listen binds the configured address. Start calls it when needed; tests
// call it directly to learn the chosen port.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound TCP port, or 0 before Listen.
func (s *Server) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// Start serves HTTP and blocks until ctx is cancelled, a shutdown signal
// arrives or the server fails.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	logging.Info("Starting packet inspector server",
		zap.String("addr", s.listener.Addr().String()),
		zap.Any("tls", GetTLSInfo(s.tlsConfig)),
		zap.String("layout", s.layoutName()),
		zap.String("capture_dir", s.config.CaptureDir),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(s.listener)
	}()

	var serveErr error
	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
	case <-ctx.Done():
		logging.Info("Context cancelled, stopping server...")
	case serveErr = <-errChan:
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	// No WebSocket is tracked (or added to wg) after this point
	s.mu.Lock()
	s.shuttingDown = true
	s.mu.Unlock()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		logging.Warn("HTTP shutdown did not complete", zap.Error(err))
	}

	// Hijacked WebSocket connections are not tracked by http.Server
	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Info("Closing active connection", zap.String("remote_addr", addr))
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	if s.capture != nil {
		if cerr := s.capture.Close(); cerr != nil {
			logging.Error("Failed to close capture file", zap.Error(cerr))
		}
	}

	logging.Sync()
	return err
}

// GetActiveConnections returns the number of open WebSocket connections
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

// trackConn registers a WebSocket connection and adds it to wg. It
// reports false once Shutdown has begun; the caller must then close conn.
func (s *Server) trackConn(remoteAddr string, conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shuttingDown {
		return false
	}
	s.activeConns[remoteAddr] = conn
	s.wg.Add(1)
	return true
}

// untrackConn removes a connection registered by trackConn
func (s *Server) untrackConn(remoteAddr string) {
	s.mu.Lock()
	delete(s.activeConns, remoteAddr)
	s.mu.Unlock()
	s.wg.Done()
}

func (s *Server) layoutName() string {
	if s.config.Options.Layout.Name == "" {
		return packet.LayoutCanonical.Name
	}
	return s.config.Options.Layout.Name
}
