package console

import (
	"io"
	"strconv"
	"strings"

	"github.com/iamasit07/connectfour/internal/domain"
)

const banner = `-----------------
 . . . . . . . . 
 . Welcome  to . 
 . . . . . . . . 
 . Connect  4! . 
 . . . . . . . . 
-----------------

`

// Render writes the board with a header of column numbers and the top row
// first. Cells are three characters wide so two-digit columns line up.
func Render(w io.Writer, b domain.Board) error {
	var sb strings.Builder
	sb.WriteByte('\n')
	for c := 1; c <= b.Columns(); c++ {
		label := strconv.Itoa(c)
		if c > 1 {
			sb.WriteString(strings.Repeat(" ", max(1, 3-len(label))))
		}
		sb.WriteString(label)
	}
	sb.WriteByte('\n')

	for row := b.Rows() - 1; row >= 0; row-- {
		for c := 0; c < b.Columns(); c++ {
			if c > 0 {
				sb.WriteString("  ")
			}
			sb.WriteByte(piece(b.Cell(c, row)))
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())
	return err
}

func piece(p domain.Player) byte {
	switch p {
	case domain.Red:
		return 'R'
	case domain.Yellow:
		return 'Y'
	default:
		return '.'
	}
}
