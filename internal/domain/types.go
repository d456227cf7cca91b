package domain

// Player doubles as the cell value. The numeric values are part of the wire
// contract and must not change.
type Player int

const (
	Empty  Player = 0
	Red    Player = 1
	Yellow Player = 2
)

const ToWin = 4

func (p Player) Opponent() Player {
	switch p {
	case Red:
		return Yellow
	case Yellow:
		return Red
	}
	return Empty
}

func (p Player) String() string {
	switch p {
	case Red:
		return "RED"
	case Yellow:
		return "YELLOW"
	}
	return "EMPTY"
}

// Bounds limits the board dimensions a game may be created with.
type Bounds struct {
	MinColumns int
	MaxColumns int
	MinRows    int
	MaxRows    int
}

var DefaultBounds = Bounds{
	MinColumns: 4,
	MaxColumns: 20,
	MinRows:    4,
	MaxRows:    20,
}

func (b Bounds) Contains(columns, rows int) bool {
	return columns >= b.MinColumns && columns <= b.MaxColumns &&
		rows >= b.MinRows && rows <= b.MaxRows
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove Error = "invalid move"
	ErrConfig      Error = "invalid board configuration"
)
