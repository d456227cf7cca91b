package domain

type MoveKind int

const (
	Drop MoveKind = iota + 1
	Pop
)

func (k MoveKind) String() string {
	switch k {
	case Drop:
		return "DROP"
	case Pop:
		return "POP"
	}
	return "UNKNOWN"
}

// Move is a Drop or Pop into a 1-based column.
type Move struct {
	Kind   MoveKind
	Column int
}

func DropAt(column int) Move { return Move{Kind: Drop, Column: column} }

func PopAt(column int) Move { return Move{Kind: Pop, Column: column} }
