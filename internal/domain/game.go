package domain

import "fmt"

type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
)

// GameState is one version of a game. Apply never modifies the receiver.
type GameState struct {
	board     Board
	turn      Player
	winner    Player
	moveCount int
}

// NewGame creates an empty board with Red to move.
func NewGame(columns, rows int, bounds Bounds) (GameState, error) {
	board, err := NewBoard(columns, rows, bounds)
	if err != nil {
		return GameState{}, err
	}
	return GameState{board: board, turn: Red}, nil
}

func (g GameState) Board() Board { return g.board }

func (g GameState) Turn() Player { return g.turn }

func (g GameState) Winner() Player { return g.winner }

func (g GameState) MoveCount() int { return g.moveCount }

func (g GameState) Status() GameStatus {
	if g.winner != Empty {
		return StatusWon
	}
	return StatusActive
}

func (g GameState) Finished() bool {
	return g.Status() == StatusWon
}

// Apply plays a move for the side to move. An illegal move is an ordinary
// outcome: it reports false and hands back the state unchanged.
func (g GameState) Apply(m Move) (GameState, bool) {
	if g.Finished() {
		return g, false
	}

	// every error from the board is an ErrInvalidMove
	next, err := g.play(m)
	if err != nil {
		return g, false
	}

	return GameState{
		board:     next,
		turn:      g.turn.Opponent(),
		winner:    next.Winner(),
		moveCount: g.moveCount + 1,
	}, true
}

func (g GameState) play(m Move) (Board, error) {
	switch m.Kind {
	case Drop:
		return g.board.Drop(m.Column-1, g.turn)
	case Pop:
		return g.board.Pop(m.Column-1, g.turn)
	}
	return g.board, fmt.Errorf("%w: unknown move kind %d", ErrInvalidMove, m.Kind)
}

// LegalMoveKinds lists the move kinds worth offering the side to move. Pop
// only shows up when the player owns a bottom chip somewhere.
func (g GameState) LegalMoveKinds() []MoveKind {
	kinds := []MoveKind{Drop}
	if g.board.CanPop(g.turn) {
		kinds = append(kinds, Pop)
	}
	return kinds
}

// LegalMoves enumerates every move Apply would accept, drops first.
func (g GameState) LegalMoves() []Move {
	if g.Finished() {
		return nil
	}
	moves := []Move{}
	for c := 0; c < g.board.columns; c++ {
		if g.board.Height(c) < g.board.rows {
			moves = append(moves, DropAt(c+1))
		}
	}
	for c := 0; c < g.board.columns; c++ {
		if g.board.Cell(c, 0) == g.turn {
			moves = append(moves, PopAt(c+1))
		}
	}
	return moves
}
