package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrDecode = errors.New("protocol decode error")
	ErrEncode = errors.New("protocol encode error")
)

// DecodeError describes a line that matches none of the message grammars.
type DecodeError struct {
	Line   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %q", ErrDecode, e.Reason, e.Line)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Encode renders a message as a single line without the line terminator.
func Encode(m Message) (string, error) {
	switch m.Kind {
	case KindHello, KindWelcome:
		if !validUsername(m.Username) {
			return "", fmt.Errorf("%w: username %q must be a non-empty token", ErrEncode, m.Username)
		}
		return keywords[m.Kind] + " " + m.Username, nil

	case KindGameRequest:
		if m.Columns <= 0 || m.Rows <= 0 {
			return "", fmt.Errorf("%w: dimensions %dx%d must be positive", ErrEncode, m.Columns, m.Rows)
		}
		return fmt.Sprintf("%s %d %d", gameRequestKeyword, m.Columns, m.Rows), nil

	case KindDrop, KindPop:
		if m.Column <= 0 {
			return "", fmt.Errorf("%w: column %d must be positive", ErrEncode, m.Column)
		}
		return fmt.Sprintf("%s %d", keywords[m.Kind], m.Column), nil

	case KindReady, KindOkay, KindInvalid, KindWinnerRed, KindWinnerYellow:
		return keywords[m.Kind], nil
	}

	return "", fmt.Errorf("%w: unknown message kind %d", ErrEncode, m.Kind)
}

// Decode parses one line (terminator already stripped). It accepts exactly
// the grammar Encode produces: single spaces between tokens, plain decimal
// digits, nothing trailing.
func Decode(line string) (Message, error) {
	if line == "" {
		return Message{}, &DecodeError{Line: line, Reason: "empty line"}
	}

	tokens := strings.Split(line, " ")
	for _, tok := range tokens {
		if tok == "" {
			return Message{}, &DecodeError{Line: line, Reason: "unexpected spacing"}
		}
	}

	switch tokens[0] {
	case helloKeyword, welcomeKeyword:
		if len(tokens) != 2 {
			return Message{}, arityError(line, 1)
		}
		if !validUsername(tokens[1]) {
			return Message{}, &DecodeError{Line: line, Reason: "malformed username"}
		}
		if tokens[0] == helloKeyword {
			return Hello(tokens[1]), nil
		}
		return Welcome(tokens[1]), nil

	case gameRequestKeyword:
		if len(tokens) != 3 {
			return Message{}, arityError(line, 2)
		}
		columns, err := parsePositive(line, tokens[1])
		if err != nil {
			return Message{}, err
		}
		rows, err := parsePositive(line, tokens[2])
		if err != nil {
			return Message{}, err
		}
		return GameRequest(columns, rows), nil

	case dropKeyword, popKeyword:
		if len(tokens) != 2 {
			return Message{}, arityError(line, 1)
		}
		column, err := parsePositive(line, tokens[1])
		if err != nil {
			return Message{}, err
		}
		if tokens[0] == popKeyword {
			return Message{Kind: KindPop, Column: column}, nil
		}
		return Message{Kind: KindDrop, Column: column}, nil
	}

	for _, kind := range []Kind{KindReady, KindOkay, KindInvalid, KindWinnerRed, KindWinnerYellow} {
		if tokens[0] == keywords[kind] {
			if len(tokens) != 1 {
				return Message{}, arityError(line, 0)
			}
			return Message{Kind: kind}, nil
		}
	}

	return Message{}, &DecodeError{Line: line, Reason: "unknown keyword"}
}

func arityError(line string, want int) error {
	return &DecodeError{Line: line, Reason: fmt.Sprintf("expected %d argument(s)", want)}
}

// parsePositive accepts ASCII digits only, so "+3", "03 " or "3.0" are
// rejected even where strconv would be lenient.
func parsePositive(line, tok string) (int, error) {
	if len(tok) > 1 && tok[0] == '0' {
		return 0, &DecodeError{Line: line, Reason: "leading zero in " + strconv.Quote(tok)}
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, &DecodeError{Line: line, Reason: "malformed integer " + strconv.Quote(tok)}
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &DecodeError{Line: line, Reason: "malformed integer " + strconv.Quote(tok)}
	}
	if n <= 0 {
		return 0, &DecodeError{Line: line, Reason: "non-positive integer " + strconv.Quote(tok)}
	}
	return n, nil
}

func validUsername(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) || r > unicode.MaxASCII || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
