package protocol

import "github.com/iamasit07/connectfour/internal/domain"

type Kind int

const (
	KindHello Kind = iota + 1
	KindWelcome
	KindGameRequest
	KindReady
	KindDrop
	KindPop
	KindOkay
	KindInvalid
	KindWinnerRed
	KindWinnerYellow
)

// wire keywords
const (
	helloKeyword        = "I32CFSP_HELLO"
	welcomeKeyword      = "WELCOME"
	gameRequestKeyword  = "AI_GAME"
	readyKeyword        = "READY"
	dropKeyword         = "DROP"
	popKeyword          = "POP"
	okayKeyword         = "OKAY"
	invalidKeyword      = "INVALID"
	winnerRedKeyword    = "WINNER_RED"
	winnerYellowKeyword = "WINNER_YELLOW"
)

var keywords = map[Kind]string{
	KindHello:        helloKeyword,
	KindWelcome:      welcomeKeyword,
	KindGameRequest:  gameRequestKeyword,
	KindReady:        readyKeyword,
	KindDrop:         dropKeyword,
	KindPop:          popKeyword,
	KindOkay:         okayKeyword,
	KindInvalid:      invalidKeyword,
	KindWinnerRed:    winnerRedKeyword,
	KindWinnerYellow: winnerYellowKeyword,
}

func (k Kind) String() string {
	if s, ok := keywords[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Message is one protocol line in structured form. Only the fields used by
// Kind are set.
type Message struct {
	Kind     Kind
	Username string
	Columns  int
	Rows     int
	Column   int
}

func Hello(username string) Message {
	return Message{Kind: KindHello, Username: username}
}

func Welcome(username string) Message {
	return Message{Kind: KindWelcome, Username: username}
}

func GameRequest(columns, rows int) Message {
	return Message{Kind: KindGameRequest, Columns: columns, Rows: rows}
}

func Ready() Message { return Message{Kind: KindReady} }

func Okay() Message { return Message{Kind: KindOkay} }

func Invalid() Message { return Message{Kind: KindInvalid} }

func MoveMessage(m domain.Move) Message {
	if m.Kind == domain.Pop {
		return Message{Kind: KindPop, Column: m.Column}
	}
	return Message{Kind: KindDrop, Column: m.Column}
}

// WinnerMessage builds WINNER_RED or WINNER_YELLOW. Any other player yields
// READY, the "no winner yet" status.
func WinnerMessage(p domain.Player) Message {
	switch p {
	case domain.Red:
		return Message{Kind: KindWinnerRed}
	case domain.Yellow:
		return Message{Kind: KindWinnerYellow}
	}
	return Ready()
}

// Move converts a DROP or POP message.
func (m Message) Move() (domain.Move, bool) {
	switch m.Kind {
	case KindDrop:
		return domain.DropAt(m.Column), true
	case KindPop:
		return domain.PopAt(m.Column), true
	}
	return domain.Move{}, false
}

// Winner reports the player named by a WINNER_* message.
func (m Message) Winner() (domain.Player, bool) {
	switch m.Kind {
	case KindWinnerRed:
		return domain.Red, true
	case KindWinnerYellow:
		return domain.Yellow, true
	}
	return domain.Empty, false
}

func (m Message) String() string {
	line, err := Encode(m)
	if err != nil {
		return m.Kind.String()
	}
	return line
}
