package domain

import "fmt"

// Board is an immutable grid. Cells are stored column-major and row 0 is the
// bottom of each column. Drop and Pop return new boards and never touch the
// receiver, so a failed move cannot leave a half-applied grid behind.
type Board struct {
	columns int
	rows    int
	cells   []Player
}

func NewBoard(columns, rows int, bounds Bounds) (Board, error) {
	if !bounds.Contains(columns, rows) {
		return Board{}, fmt.Errorf("%w: %dx%d outside columns %d-%d, rows %d-%d",
			ErrConfig, columns, rows, bounds.MinColumns, bounds.MaxColumns, bounds.MinRows, bounds.MaxRows)
	}
	return Board{
		columns: columns,
		rows:    rows,
		cells:   make([]Player, columns*rows),
	}, nil
}

func (b Board) Columns() int { return b.columns }

func (b Board) Rows() int { return b.rows }

// Cell returns the chip at a 0-based column and row, or Empty when the
// position is off the board.
func (b Board) Cell(column, row int) Player {
	if !b.inBounds(column, row) {
		return Empty
	}
	return b.cells[column*b.rows+row]
}

// Height is the number of chips stacked in a column.
func (b Board) Height(column int) int {
	if column < 0 || column >= b.columns {
		return 0
	}
	h := 0
	for h < b.rows && b.cells[column*b.rows+h] != Empty {
		h++
	}
	return h
}

// Grid exports the board column-major using the 0/1/2 cell encoding.
func (b Board) Grid() [][]int {
	grid := make([][]int, b.columns)
	for c := range grid {
		grid[c] = make([]int, b.rows)
		for r := range grid[c] {
			grid[c][r] = int(b.cells[c*b.rows+r])
		}
	}
	return grid
}

// Drop places the player's chip in the lowest empty cell of a 0-based column.
func (b Board) Drop(column int, player Player) (Board, error) {
	if err := checkMover(player); err != nil {
		return b, err
	}
	if column < 0 || column >= b.columns {
		return b, fmt.Errorf("%w: column %d out of range", ErrInvalidMove, column+1)
	}

	row := b.Height(column)
	if row == b.rows {
		return b, fmt.Errorf("%w: column %d is full", ErrInvalidMove, column+1)
	}

	next := b.copy()
	next.cells[column*b.rows+row] = player
	return next, nil
}

// Pop removes the player's own chip from the bottom of a 0-based column and
// shifts the rest of the column down by one.
func (b Board) Pop(column int, player Player) (Board, error) {
	if err := checkMover(player); err != nil {
		return b, err
	}
	if column < 0 || column >= b.columns {
		return b, fmt.Errorf("%w: column %d out of range", ErrInvalidMove, column+1)
	}

	switch bottom := b.cells[column*b.rows]; bottom {
	case Empty:
		return b, fmt.Errorf("%w: column %d is empty", ErrInvalidMove, column+1)
	case player:
	default:
		return b, fmt.Errorf("%w: bottom of column %d belongs to %s", ErrInvalidMove, column+1, bottom)
	}

	next := b.copy()
	base := column * b.rows
	copy(next.cells[base:base+b.rows-1], b.cells[base+1:base+b.rows])
	next.cells[base+b.rows-1] = Empty
	return next, nil
}

// CanPop reports whether the player owns at least one bottom-row chip.
func (b Board) CanPop(player Player) bool {
	for c := 0; c < b.columns; c++ {
		if b.cells[c*b.rows] == player {
			return true
		}
	}
	return false
}

func (b Board) IsFull() bool {
	for c := 0; c < b.columns; c++ {
		if b.Height(c) < b.rows {
			return false
		}
	}
	return true
}

// only Red and Yellow own chips
func checkMover(player Player) error {
	if player != Red && player != Yellow {
		return fmt.Errorf("%w: %s cannot move", ErrInvalidMove, player)
	}
	return nil
}

func (b Board) inBounds(column, row int) bool {
	return column >= 0 && column < b.columns && row >= 0 && row < b.rows
}

// this creates a deep copy of the board
func (b Board) copy() Board {
	cells := make([]Player, len(b.cells))
	copy(cells, b.cells)
	return Board{columns: b.columns, rows: b.rows, cells: cells}
}
