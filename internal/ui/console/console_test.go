package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsole(input string) (*Console, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out, domain.DefaultBounds), &out
}

func TestRenderEmptyBoard(t *testing.T) {
	b, err := domain.NewBoard(4, 4, domain.DefaultBounds)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Render(&out, b))
	assert.Equal(t, "\n1  2  3  4\n.  .  .  .\n.  .  .  .\n.  .  .  .\n.  .  .  .\n\n", out.String())
}

func TestRenderTopRowFirst(t *testing.T) {
	g, err := domain.NewGame(4, 4, domain.DefaultBounds)
	require.NoError(t, err)
	g, _ = g.Apply(domain.DropAt(1))
	g, _ = g.Apply(domain.DropAt(1))
	g, _ = g.Apply(domain.DropAt(4))

	var out bytes.Buffer
	require.NoError(t, Render(&out, g.Board()))
	lines := strings.Split(strings.Trim(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Y  .  .  .", lines[3])
	assert.Equal(t, "R  .  .  R", lines[4])
}

func TestRenderTwoDigitColumns(t *testing.T) {
	b, err := domain.NewBoard(11, 4, domain.DefaultBounds)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Render(&out, b))
	lines := strings.Split(strings.Trim(out.String(), "\n"), "\n")
	assert.Equal(t, "1  2  3  4  5  6  7  8  9 10 11", lines[0])
	assert.Equal(t, len(lines[0]), len(lines[1]))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("stdout closed") }

func TestPlayLocalStopsWhenBoardCannotBeShown(t *testing.T) {
	c := New(strings.NewReader("4\n4\n1\n"), failingWriter{}, domain.DefaultBounds)
	_, err := c.PlayLocal(context.Background())
	assert.EqualError(t, err, "stdout closed")
}

func TestAskIntRetries(t *testing.T) {
	c, out := newConsole("abc\n2\n30\n7\n")
	n, err := c.AskInt(4, 20)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Contains(t, out.String(), "Invalid Input. Please enter a value between 4-20:")
	assert.Contains(t, out.String(), "Too Small! Enter a value between 4-20:")
	assert.Contains(t, out.String(), "Too Large! Enter a value between 4-20:")
}

func TestAskIntEOF(t *testing.T) {
	c, _ := newConsole("x\n")
	_, err := c.AskInt(1, 2)
	assert.ErrorIs(t, err, io.EOF)
}

func TestAskUsername(t *testing.T) {
	c, out := newConsole("\nbob smith\nbob\n")
	name, err := c.AskUsername()
	require.NoError(t, err)
	assert.Equal(t, "bob", name)
	assert.Contains(t, out.String(), "Username must not be empty!")
	assert.Contains(t, out.String(), "Username must have no spaces!")
}

func TestAskServer(t *testing.T) {
	c, out := newConsole("\nlocalhost\nport\n70000\n4444\n")
	host, port, err := c.AskServer()
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)
	assert.Equal(t, 4444, port)
	assert.Contains(t, out.String(), "Host cannot be empty!")
	assert.Contains(t, out.String(), "Port must be an integer!")
	assert.Contains(t, out.String(), "Port must be 0-65535!")
}

func TestNextMoveSkipsTypeWithoutPop(t *testing.T) {
	g, err := domain.NewGame(7, 6, domain.DefaultBounds)
	require.NoError(t, err)

	c, out := newConsole("3\n")
	m, err := c.NextMove(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, domain.DropAt(3), m)
	assert.NotContains(t, out.String(), "Move Type")
}

func TestNextMoveAsksTypeWhenPopPossible(t *testing.T) {
	g, err := domain.NewGame(7, 6, domain.DefaultBounds)
	require.NoError(t, err)
	g, _ = g.Apply(domain.DropAt(2))
	g, _ = g.Apply(domain.DropAt(5))

	c, out := newConsole("2\n2\n")
	m, err := c.NextMove(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, domain.PopAt(2), m)
	assert.Contains(t, out.String(), "Choose a Move Type (1 or 2):")
	assert.Contains(t, out.String(), "Choose a column (1-7):")
}

func TestNextMoveCancelled(t *testing.T) {
	g, err := domain.NewGame(7, 6, domain.DefaultBounds)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := newConsole("3\n")
	_, err = c.NextMove(ctx, g)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlayLocal(t *testing.T) {
	// 4x4 board; red fills the bottom row while yellow stacks on top, with a
	// rejected pop by red on an empty column along the way
	input := strings.Join([]string{
		"4", "4", // dimensions
		"1",      // red drop 1
		"1",      // yellow drop 1, no pop possible
		"2", "2", // red pop 2 rejected
		"1", "2", // red drop 2
		"2",      // yellow drop 2
		"1", "3", // red drop 3
		"3",      // yellow drop 3
		"1", "4", // red drop 4
	}, "\n") + "\n"

	c, out := newConsole(input)
	winner, err := c.PlayLocal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Red, winner)

	text := out.String()
	assert.Contains(t, text, "Welcome  to")
	assert.Contains(t, text, "----Player 2's Turn (YELLOW)----")
	assert.Contains(t, text, "You don't have a chip in the bottom of that column!")
	assert.Contains(t, text, "Player 1 (RED) is the winner!")
}
