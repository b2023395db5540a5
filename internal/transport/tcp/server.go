package tcp

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/netchat-server/internal/auth"
	"github.com/vovakirdan/netchat-server/internal/core"
	"github.com/vovakirdan/netchat-server/internal/metrics"
)

var banner = []string{
	"====================",
	"||    netchat     ||",
	"====================",
}

// Server accepts chat connections and drives one session per connection
// through authenticate, register, read loop, deregister.
type Server struct {
	addr       string
	negotiator *auth.Negotiator
	registry   *core.Registry
	executor   *core.Executor
	metrics    metrics.Collector
	log        *zerolog.Logger

	wg sync.WaitGroup
}

// NewServer builds a chat server listening on addr.
func NewServer(addr string, negotiator *auth.Negotiator, registry *core.Registry, executor *core.Executor, collector metrics.Collector, logger *zerolog.Logger) *Server {
	return &Server{
		addr:       addr,
		negotiator: negotiator,
		registry:   registry,
		executor:   executor,
		metrics:    collector,
		log:        logger,
	}
}

// ListenAndServe binds the listener and serves until ctx is canceled.
// Failure to bind is the only fatal condition.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled. Each
// connection gets its own goroutine; a failed session never takes the
// listener or other sessions down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Msg("chat listener started")

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info().Msg("chat listener stopped")
				s.wg.Wait()
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

// handleConn is the session driver: Accepted, Authenticating,
// Registered, Draining, Closed, in that order with no way back.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	logger := s.log.With().
		Str("conn_id", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	s.metrics.RecordConnection()

	// Unblock the read side on shutdown. Sessions past authentication
	// are also torn down by their mailbox draining and closing the conn.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	reader := bufio.NewReader(conn)

	username, err := s.negotiator.Negotiate(ctx, reader, conn)
	if err != nil {
		s.metrics.RecordAuthFailure()
		logger.Warn().Err(err).Msg("authentication aborted")
		_ = conn.Close()
		return
	}

	mailbox := core.NewMailbox()
	session := core.NewSession(username, mailbox)

	if err := s.registry.Register(session); err != nil {
		logger.Warn().Str("username", username).Msg("rejected duplicate session")
		_, _ = fmt.Fprintf(conn, "%s is already connected elsewhere\n", username)
		_ = conn.Close()
		return
	}

	s.metrics.SessionStarted()
	logger.Info().Str("username", username).Msg("user connected")

	// Delivery goroutine: drains the mailbox onto the socket in FIFO
	// order. When it returns, closing the socket unblocks the read
	// loop, so a kicked session ends once its notices are flushed.
	delivered := make(chan struct{})
	go func() {
		defer close(delivered)
		if err := mailbox.Run(conn); err != nil {
			logger.Debug().Err(err).Msg("delivery stopped")
		}
		_ = conn.Close()
	}()

	for _, line := range banner {
		_ = mailbox.Send(line)
	}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if s.executor.Execute(username, scanner.Text()) == core.SignalClose {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Debug().Err(err).Msg("read loop ended")
	}

	// Draining: deregister exactly once, let the mailbox flush, then
	// release the connection.
	s.registry.Deregister(username)
	mailbox.Close()
	<-delivered
	_ = conn.Close()

	s.metrics.SessionEnded()
	logger.Info().Str("username", username).Msg("user disconnected")
}
