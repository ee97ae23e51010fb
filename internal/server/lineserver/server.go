package lineserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/yndnr/kvfile-go/internal/telemetry/logger"
	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

// Config holds the line server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// ReadTimeout bounds reading the rest of a line once its first byte
	// has arrived.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing a reply.
	WriteTimeout time.Duration
	// IdleTimeout closes connections that send nothing for this long.
	IdleTimeout time.Duration
	// RateLimit is the sustained commands per second per connection.
	// Zero disables limiting.
	RateLimit float64
	// RateBurst is the limiter bucket size.
	RateBurst int
	// MaxLineBytes bounds a single request line.
	MaxLineBytes int
	// MaxConns bounds concurrent connections. Zero means unlimited.
	MaxConns int
	// Registerer receives the server metrics. Nil disables export.
	Registerer prometheus.Registerer
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:6380",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  5 * time.Minute,
		RateLimit:    1000,
		RateBurst:    100,
		MaxLineBytes: 1 << 20,
	}
}

// Server is the line protocol server.
type Server struct {
	cfg     *Config
	handler *Handler
	logger  *slog.Logger
	metrics *metrics

	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup

	connMu sync.Mutex
	conns  map[*Conn]struct{}
}

// New creates a server for store. The server owns all access to store
// from then on; use WithStore for out-of-band access.
func New(cfg *Config, store *kvfile.Store, log *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}

	m := newMetrics(cfg.Registerer)
	return &Server{
		cfg:     cfg,
		handler: NewHandler(store, log, m),
		logger:  log,
		metrics: m,
		conns:   make(map[*Conn]struct{}),
	}
}

// Start listens on cfg.Addr and serves connections in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.running.Store(true)
	s.logger.Info("line server listening", "addr", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("accept loop stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// WithStore runs fn with exclusive access to the store.
func (s *Server) WithStore(fn func(*kvfile.Store) error) error {
	return s.handler.WithStore(fn)
}

// Shutdown stops accepting, closes open connections and waits for their
// goroutines to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}

	s.connMu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.connMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		c := s.newConn(nc)
		if err := s.track(c); err != nil {
			if errors.Is(err, errShuttingDown) {
				_ = c.Close()
				return nil
			}
			s.metrics.rejected.WithLabelValues("max_conns").Inc()
			s.logger.Warn("connection rejected", "remote", nc.RemoteAddr().String(), "reason", "max_conns")
			_ = nc.SetWriteDeadline(time.Now().Add(s.writeTimeout()))
			_ = writeLine(c.bw, "ERR too many connections")
			_ = c.bw.Flush()
			_ = c.Close()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) newConn(nc net.Conn) *Conn {
	return newConn(nc, rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)
}

var (
	errShuttingDown = errors.New("lineserver: shutting down")
	errTooManyConns = errors.New("lineserver: too many connections")
)

// track registers c. It checks running under connMu so that a connection
// accepted while Shutdown runs is either closed by Shutdown or refused here.
func (s *Server) track(c *Conn) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if !s.running.Load() {
		return errShuttingDown
	}
	if s.cfg.MaxConns > 0 && len(s.conns) >= s.cfg.MaxConns {
		return errTooManyConns
	}
	s.conns[c] = struct{}{}
	s.metrics.connections.Inc()
	return nil
}

func (s *Server) untrack(c *Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	delete(s.conns, c)
	s.metrics.connections.Dec()
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	ctx = logger.WithConnID(logger.WithLogger(ctx, s.logger), c.ID())
	log := logger.L(ctx)
	log.Debug("connection opened", "remote", c.RemoteAddr().String())
	defer log.Debug("connection closed")

	readTimeout := orDefault(s.cfg.ReadTimeout, 30*time.Second)
	idleTimeout := orDefault(s.cfg.IdleTimeout, 5*time.Minute)
	maxLine := s.cfg.MaxLineBytes
	if maxLine <= 0 {
		maxLine = DefaultConfig().MaxLineBytes
	}

	for {
		if err := c.netConn.SetReadDeadline(time.Now().Add(idleTimeout)); err != nil {
			return
		}
		if _, err := c.br.Peek(1); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Debug("connection read error", "error", err)
			}
			return
		}

		// Once a line has started it must complete within readTimeout.
		if err := c.netConn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return
		}
		line, err := readLine(c.br, maxLine)
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				s.metrics.rejected.WithLabelValues("line_too_long").Inc()
				log.Warn("request line too long", "limit", maxLine)
				_ = s.reply(c, "ERR line too long")
			} else if !errors.Is(err, io.EOF) {
				log.Debug("connection read error", "error", err)
			}
			return
		}

		if !c.allow() {
			s.metrics.rejected.WithLabelValues("rate_limit").Inc()
			if err := s.reply(c, "ERR rate limit exceeded"); err != nil {
				return
			}
			continue
		}

		reply, quit := s.handler.Handle(line)
		if err := s.reply(c, reply); err != nil || quit {
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (s *Server) reply(c *Conn, line string) error {
	if err := c.netConn.SetWriteDeadline(time.Now().Add(s.writeTimeout())); err != nil {
		return err
	}
	if err := writeLine(c.bw, line); err != nil {
		return err
	}
	return c.bw.Flush()
}

func (s *Server) writeTimeout() time.Duration {
	return orDefault(s.cfg.WriteTimeout, 10*time.Second)
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
