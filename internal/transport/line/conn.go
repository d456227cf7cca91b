// Package line carries protocol lines over a stream connection. Lines are
// written with a "\r\n" terminator and flushed one at a time.
package line

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"sync"
)

const (
	terminator = "\r\n"

	// MaxLineLength bounds a single incoming line.
	MaxLineLength = 4096
)

type Conn struct {
	conn    net.Conn
	scanner *bufio.Scanner
	writer  *bufio.Writer

	closeOnce sync.Once
	closeErr  error
}

func NewConn(conn net.Conn) *Conn {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 256), MaxLineLength)
	// ScanLines drops a trailing "\r" as well as the "\n"
	scanner.Split(bufio.ScanLines)

	return &Conn{
		conn:    conn,
		scanner: scanner,
		writer:  bufio.NewWriter(conn),
	}
}

// Dial opens a TCP connection to addr.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return NewConn(conn), nil
}

// ReadLine blocks until a line arrives and returns it without its
// terminator. A final unterminated line is still returned; after that the
// result is io.EOF.
func (c *Conn) ReadLine() (string, error) {
	if c.scanner.Scan() {
		return c.scanner.Text(), nil
	}
	if err := c.scanner.Err(); err != nil {
		return "", fmt.Errorf("read line: %w", err)
	}
	return "", io.EOF
}

func (c *Conn) WriteLine(text string) error {
	if _, err := c.writer.WriteString(text + terminator); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	if err := c.writer.Flush(); err != nil {
		return fmt.Errorf("flush line: %w", err)
	}
	return nil
}

// Close closes the underlying connection, unblocking a pending ReadLine. It
// is safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
