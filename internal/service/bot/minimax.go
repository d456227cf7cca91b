package bot

import (
	"math"

	"github.com/iamasit07/connectfour/internal/domain"
)

const (
	MINIMAX_WIN  = 1000000
	MINIMAX_LOSS = -1000000
)

// search runs minimax with alpha-beta pruning to the given depth.
func (e *Engine) search(g domain.GameState, depth int) domain.Move {
	moves := orderedMoves(g)
	me := g.Turn()

	bestMove := moves[0]
	bestScore := math.MinInt32
	alpha := math.MinInt32
	beta := math.MaxInt32

	for _, m := range moves {
		next, _ := g.Apply(m)

		// If this move wins immediately, take it
		if next.Winner() == me {
			return m
		}

		score := minimax(next, depth-1, alpha, beta, me)
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		alpha = max(alpha, bestScore)
	}

	return bestMove
}

func minimax(g domain.GameState, depth, alpha, beta int, me domain.Player) int {
	// Prefer quicker wins and slower losses
	switch g.Winner() {
	case me:
		return MINIMAX_WIN + depth
	case me.Opponent():
		return MINIMAX_LOSS - depth
	}

	moves := orderedMoves(g)
	if depth <= 0 || len(moves) == 0 {
		return evaluateBoard(g.Board(), me)
	}

	if g.Turn() == me {
		maxEval := math.MinInt32
		for _, m := range moves {
			next, _ := g.Apply(m)
			eval := minimax(next, depth-1, alpha, beta, me)
			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break // Beta cutoff
			}
		}
		return maxEval
	}

	minEval := math.MaxInt32
	for _, m := range moves {
		next, _ := g.Apply(m)
		eval := minimax(next, depth-1, alpha, beta, me)
		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break // Alpha cutoff
		}
	}
	return minEval
}
