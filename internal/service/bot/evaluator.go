package bot

import "github.com/iamasit07/connectfour/internal/domain"

const (
	POSITION_WEIGHT     = 10
	TWO_IN_ROW_WEIGHT   = 50
	THREE_IN_ROW_WEIGHT = 500
)

var windowDirections = [4][2]int{
	{1, 0},  // horizontal
	{0, 1},  // vertical
	{1, 1},  // diagonal /
	{1, -1}, // diagonal \
}

// evaluateBoard scores a position from me's point of view by looking at
// every window of ToWin cells that still could become a line.
func evaluateBoard(board domain.Board, me domain.Player) int {
	score := 0
	opponent := me.Opponent()

	for c := 0; c < board.Columns(); c++ {
		for r := 0; r < board.Rows(); r++ {
			for _, d := range windowDirections {
				endCol := c + d[0]*(domain.ToWin-1)
				endRow := r + d[1]*(domain.ToWin-1)
				if endCol < 0 || endCol >= board.Columns() || endRow < 0 || endRow >= board.Rows() {
					continue
				}
				mine, theirs := 0, 0
				for i := 0; i < domain.ToWin; i++ {
					switch board.Cell(c+d[0]*i, r+d[1]*i) {
					case me:
						mine++
					case opponent:
						theirs++
					}
				}
				score += scoreWindow(mine, theirs)
			}
		}
	}

	// Center column preference
	for _, center := range centerColumns(board.Columns()) {
		for r := 0; r < board.Rows(); r++ {
			switch board.Cell(center, r) {
			case me:
				score += POSITION_WEIGHT * 2
			case opponent:
				score -= POSITION_WEIGHT * 2
			}
		}
	}

	return score
}

// a window holding both colours can never become a line
func scoreWindow(mine, theirs int) int {
	switch {
	case mine > 0 && theirs > 0:
		return 0
	case mine == 3:
		return THREE_IN_ROW_WEIGHT
	case mine == 2:
		return TWO_IN_ROW_WEIGHT
	case theirs == 3:
		return -THREE_IN_ROW_WEIGHT
	case theirs == 2:
		return -TWO_IN_ROW_WEIGHT
	}
	return 0
}

func centerColumns(columns int) []int {
	if columns%2 == 1 {
		return []int{columns / 2}
	}
	return []int{columns/2 - 1, columns / 2}
}
