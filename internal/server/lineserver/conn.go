package lineserver

import (
	"bufio"
	"net"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"
)

// Conn is a single client connection.
type Conn struct {
	id      string
	netConn net.Conn
	br      *bufio.Reader
	bw      *bufio.Writer
	limiter *rate.Limiter

	closed atomic.Bool
}

func newConn(c net.Conn, limit rate.Limit, burst int) *Conn {
	conn := &Conn{
		id:      ulid.Make().String(),
		netConn: c,
		br:      bufio.NewReader(c),
		bw:      bufio.NewWriter(c),
	}
	if limit > 0 {
		conn.limiter = rate.NewLimiter(limit, burst)
	}
	return conn
}

// ID returns the connection's ULID.
func (c *Conn) ID() string { return c.id }

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr { return c.netConn.RemoteAddr() }

// Close closes the connection once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// allow reports whether the connection may run another command.
func (c *Conn) allow() bool {
	return c.limiter == nil || c.limiter.Allow()
}
