package bot

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/iamasit07/connectfour/internal/domain"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("unknown bot difficulty %q", s)
}

// Engine picks moves for whichever side is to move. It keeps its own random
// source, so give each game its own Engine.
type Engine struct {
	difficulty Difficulty
	depth      int
	rng        *rand.Rand
}

// New builds an engine. depth only applies to Hard and is clamped to at
// least 1.
func New(difficulty Difficulty, depth int, seed int64) *Engine {
	if depth < 1 {
		depth = 1
	}
	return &Engine{
		difficulty: difficulty,
		depth:      depth,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (e *Engine) Difficulty() Difficulty { return e.difficulty }

// Choose selects the best move based on difficulty. It reports false when
// the side to move has no legal move.
func (e *Engine) Choose(g domain.GameState) (domain.Move, bool) {
	if len(g.LegalMoves()) == 0 {
		return domain.Move{}, false
	}
	switch e.difficulty {
	case Easy:
		return e.chooseEasy(g), true
	case Hard:
		return e.search(g, e.depth), true
	default:
		return e.search(g, 2), true
	}
}

// NextMove lets an Engine stand in for a human at the console.
func (e *Engine) NextMove(ctx context.Context, g domain.GameState) (domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return domain.Move{}, err
	}
	m, ok := e.Choose(g)
	if !ok {
		return domain.Move{}, fmt.Errorf("no legal move for %s", g.Turn())
	}
	return m, nil
}

// orderedMoves lists legal moves with drops nearest the centre first, which
// lets alpha-beta cut earlier.
func orderedMoves(g domain.GameState) []domain.Move {
	moves := g.LegalMoves()
	center := (g.Board().Columns() + 1) / 2
	sort.SliceStable(moves, func(i, j int) bool {
		if moves[i].Kind != moves[j].Kind {
			return moves[i].Kind == domain.Drop
		}
		return abs(moves[i].Column-center) < abs(moves[j].Column-center)
	})
	return moves
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
