// Package server implements the TCP server and packet dispatcher
package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"td-game/internal/network"
	"td-game/pkg/logger"
)

// DefaultWriteTimeout bounds a response write when Options leaves it unset
const DefaultWriteTimeout = 10 * time.Second

// Options tunes connection handling
type Options struct {
	MaxPayload   uint32
	IdleTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server represents the TCP server
type Server struct {
	address      string
	listener     net.Listener
	clients      map[string]*Client
	dispatcher   *Dispatcher
	maxPayload   uint32
	idleTimeout  time.Duration
	writeTimeout time.Duration
	nextID       atomic.Uint64
	isRunning    atomic.Bool
	quit         chan struct{}
	mu           sync.RWMutex
	wg           sync.WaitGroup
	logger       *logger.Logger
}

// Client represents a connected client
type Client struct {
	ID           string
	Conn         net.Conn
	Writer       *bufio.Writer
	writeTimeout time.Duration
	lastSeen     time.Time
	mu           sync.Mutex
	writeMu      sync.Mutex
}

// Write sends p to the client and flushes it. A write that misses the
// deadline closes the connection, which ends the client's read loop.
func (c *Client) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		c.Conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}

	n, err := c.Writer.Write(p)
	if err == nil {
		err = c.Writer.Flush()
	}
	if err != nil {
		c.Conn.Close()
	}
	return n, err
}

func (c *Client) touch() {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
}

func (c *Client) idleSince(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.lastSeen)
}

// NewServer creates a new TCP server instance
func NewServer(address string, dispatcher *Dispatcher, opts Options) *Server {
	if opts.MaxPayload == 0 {
		opts.MaxPayload = network.MaxPayloadSize
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	return &Server{
		address:      address,
		clients:      make(map[string]*Client),
		dispatcher:   dispatcher,
		maxPayload:   opts.MaxPayload,
		idleTimeout:  opts.IdleTimeout,
		writeTimeout: opts.WriteTimeout,
		quit:         make(chan struct{}),
		logger:       logger.Server,
	}
}

// Start listens and serves until Stop is called
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Listen binds the listening socket
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener
	s.isRunning.Store(true)
	s.logger.Info("Server started and listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts client connections on the bound listener
func (s *Server) Serve() error {
	if s.listener == nil {
		return fmt.Errorf("server is not listening")
	}

	// Start cleanup service
	if s.idleTimeout > 0 {
		go s.cleanupService()
	}

	// Accept client connections
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.isRunning.Load() {
				return nil
			}
			s.logger.Error("Failed to accept connection: %v", err)
			continue
		}

		s.wg.Add(1)
		go s.handleClient(conn)
	}
}

// Stop shuts down the server and waits for connection handlers to exit
func (s *Server) Stop() error {
	if !s.isRunning.CompareAndSwap(true, false) {
		return nil
	}
	close(s.quit)

	// Stop accepting
	if s.listener != nil {
		s.listener.Close()
	}

	// Close all client connections
	s.mu.Lock()
	for _, client := range s.clients {
		client.Conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Server stopped")
	return nil
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// handleClient reads framed packets from one connection and dispatches them
// in arrival order
func (s *Server) handleClient(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	client := &Client{
		ID:           fmt.Sprintf("client_%d", s.nextID.Add(1)),
		Conn:         conn,
		Writer:       bufio.NewWriter(conn),
		writeTimeout: s.writeTimeout,
		lastSeen:     time.Now(),
	}

	s.logger.Info("New client connected: %s from %s", client.ID, conn.RemoteAddr())

	// Register client
	s.mu.Lock()
	if !s.isRunning.Load() {
		s.mu.Unlock()
		return
	}
	s.clients[client.ID] = client
	s.mu.Unlock()

	// Handle packets in arrival order
	reader := bufio.NewReader(conn)
	for s.isRunning.Load() {
		packet, err := network.ReadPacket(reader, s.maxPayload)
		if errors.Is(err, network.ErrFrameTooLarge) {
			// header only; the dispatcher reports it as malformed
			client.touch()
			s.dispatcher.Dispatch(client, packet)
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && s.isRunning.Load() {
				s.logger.Debug("Read from %s ended: %v", client.ID, err)
			}
			break
		}

		client.touch()
		s.dispatcher.Dispatch(client, packet)
	}

	// Cleanup
	s.removeClient(client.ID)
	s.logger.Info("Client disconnected: %s", client.ID)
}

func (s *Server) removeClient(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)
}

// Cleanup service for idle connections
func (s *Server) cleanupService() {
	interval := s.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.cleanupInactiveClients()
		}
	}
}

func (s *Server) cleanupInactiveClients() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	for clientID, client := range s.clients {
		if client.idleSince(now) > s.idleTimeout {
			// handleClient removes it once the read fails
			client.Conn.Close()
			s.logger.Info("Closed idle client: %s", clientID)
		}
	}
}
