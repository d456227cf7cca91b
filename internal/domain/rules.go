package domain

// directions scanned for a winning line: right, up, up-right, down-right
var directions = [4][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

// Winner scans the whole grid and returns the owner of the first run of
// ToWin contiguous chips it finds, or Empty when there is none. A grid where
// both players hold a line can only be produced with Pop; the result then
// follows scan order.
func (b Board) Winner() Player {
	for c := 0; c < b.columns; c++ {
		for r := 0; r < b.rows; r++ {
			player := b.Cell(c, r)
			if player == Empty {
				continue
			}
			for _, d := range directions {
				if b.runFrom(c, r, d[0], d[1], player) >= ToWin {
					return player
				}
			}
		}
	}
	return Empty
}

// runFrom counts the chips of one player starting at (column, row) and
// walking in one direction.
func (b Board) runFrom(column, row, deltaCol, deltaRow int, player Player) int {
	count := 0
	for b.inBounds(column, row) && b.Cell(column, row) == player {
		count++
		if count == ToWin {
			break
		}
		column += deltaCol
		row += deltaRow
	}
	return count
}

