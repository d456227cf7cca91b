package bot

import "github.com/iamasit07/connectfour/internal/domain"

// chooseEasy wins if it can, blocks an immediate drop win, otherwise plays at
// random.
func (e *Engine) chooseEasy(g domain.GameState) domain.Move {
	moves := g.LegalMoves()
	me := g.Turn()

	for _, m := range moves {
		if next, _ := g.Apply(m); next.Winner() == me {
			return m
		}
	}

	board := g.Board()
	opponent := me.Opponent()
	for c := 0; c < board.Columns(); c++ {
		threat, err := board.Drop(c, opponent)
		if err != nil || threat.Winner() != opponent {
			continue
		}
		block := domain.DropAt(c + 1)
		if _, ok := g.Apply(block); ok {
			return block
		}
	}

	return moves[e.rng.Intn(len(moves))]
}
