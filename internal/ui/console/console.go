// Package console is the terminal front end: prompts, board rendering and
// the hot-seat game loop.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iamasit07/connectfour/internal/domain"
)

type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	bounds domain.Bounds
}

func New(in io.Reader, out io.Writer, bounds domain.Bounds) *Console {
	return &Console{in: bufio.NewScanner(in), out: out, bounds: bounds}
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Banner() {
	io.WriteString(c.out, banner)
}

// PrintBoard renders the board to the console output. Prompt text is written
// best effort; a failed board write is returned so a game is not played blind.
func (c *Console) PrintBoard(b domain.Board) error {
	return Render(c.out, b)
}

// readLine returns the next input line, trimmed. It returns io.EOF once input
// is exhausted.
func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// AskInt reads until it gets an integer in [lo, hi].
func (c *Console) AskInt(lo, hi int) (int, error) {
	for {
		text, err := c.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(text)
		switch {
		case err != nil:
			c.Printf("Invalid Input. Please enter a value between %d-%d:\n", lo, hi)
		case n < lo:
			c.Printf("Too Small! Enter a value between %d-%d:\n", lo, hi)
		case n > hi:
			c.Printf("Too Large! Enter a value between %d-%d:\n", lo, hi)
		default:
			return n, nil
		}
	}
}

// AskDimensions asks for a board size inside the configured bounds.
func (c *Console) AskDimensions() (columns, rows int, err error) {
	c.Printf("How many columns should the board have?\n(min = %d, max = %d)\n", c.bounds.MinColumns, c.bounds.MaxColumns)
	if columns, err = c.AskInt(c.bounds.MinColumns, c.bounds.MaxColumns); err != nil {
		return 0, 0, err
	}
	c.Printf("Great! Now how many rows should the board have?\n(min = %d, max = %d)\n", c.bounds.MinRows, c.bounds.MaxRows)
	if rows, err = c.AskInt(c.bounds.MinRows, c.bounds.MaxRows); err != nil {
		return 0, 0, err
	}
	return columns, rows, nil
}

// AskUsername reads a non-empty username without spaces.
func (c *Console) AskUsername() (string, error) {
	for {
		c.Printf("Enter a username: ")
		name, err := c.readLine()
		if err != nil {
			return "", err
		}
		switch {
		case name == "":
			c.Printf("Username must not be empty!\n")
		case strings.ContainsAny(name, " \t"):
			c.Printf("Username must have no spaces!\n")
		default:
			return name, nil
		}
	}
}

// AskServer reads a host and a port in 0-65535.
func (c *Console) AskServer() (host string, port int, err error) {
	for {
		c.Printf("Enter the host of the server: ")
		if host, err = c.readLine(); err != nil {
			return "", 0, err
		}
		if host != "" {
			break
		}
		c.Printf("Host cannot be empty!\n")
	}
	for {
		c.Printf("Enter the port of the server: ")
		text, err := c.readLine()
		if err != nil {
			return "", 0, err
		}
		port, convErr := strconv.Atoi(text)
		switch {
		case convErr != nil:
			c.Printf("Port must be an integer!\n")
		case port < 0 || port > 65535:
			c.Printf("Port must be 0-65535!\n")
		default:
			return host, port, nil
		}
	}
}

// NextMove asks the player to move. The move type is only asked for when a
// pop is possible.
func (c *Console) NextMove(ctx context.Context, g domain.GameState) (domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return domain.Move{}, err
	}
	kind := domain.Drop
	if g.Board().CanPop(g.Turn()) {
		c.Printf("Choose a Move Type (1 or 2):\n1) Drop\n2) Pop\n")
		n, err := c.AskInt(1, 2)
		if err != nil {
			return domain.Move{}, err
		}
		if n == 2 {
			kind = domain.Pop
		}
	}

	columns := g.Board().Columns()
	c.Printf("Choose a column (1-%d):\n", columns)
	col, err := c.AskInt(1, columns)
	if err != nil {
		return domain.Move{}, err
	}
	return domain.Move{Kind: kind, Column: col}, nil
}

// Rejected explains why a move was refused.
func (c *Console) Rejected(move domain.Move, _ domain.GameState) {
	c.Printf("---Invalid Move!---\n")
	if move.Kind == domain.Pop {
		c.Printf("You don't have a chip in the bottom of that column!\n\n")
	} else {
		c.Printf("That column is full!\n\n")
	}
}

// PlayLocal runs a hot-seat game where both colours are entered at this
// console. It returns the winner.
func (c *Console) PlayLocal(ctx context.Context) (domain.Player, error) {
	c.Banner()
	columns, rows, err := c.AskDimensions()
	if err != nil {
		return domain.Empty, err
	}
	game, err := domain.NewGame(columns, rows, c.bounds)
	if err != nil {
		return domain.Empty, err
	}
	if err := c.PrintBoard(game.Board()); err != nil {
		return domain.Empty, err
	}

	for !game.Finished() {
		player := game.Turn()
		if len(game.LegalMoves()) == 0 {
			c.Printf("The board is full and %s cannot pop. Nobody wins!\n\n", player)
			return domain.Empty, nil
		}
		c.Printf("----Player %d's Turn (%s)----\n", int(player), player)
		move, err := c.NextMove(ctx, game)
		if err != nil {
			return domain.Empty, err
		}
		next, ok := game.Apply(move)
		if !ok {
			c.Rejected(move, game)
			continue
		}
		game = next
		if err := c.PrintBoard(game.Board()); err != nil {
			return domain.Empty, err
		}
	}

	winner := game.Winner()
	c.Printf("Player %d (%s) is the winner!\n\n", int(winner), winner)
	return winner, nil
}
