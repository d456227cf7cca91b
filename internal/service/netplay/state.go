package netplay

type State int

const (
	Disconnected State = iota
	Handshaking
	AwaitingGameStart
	LocalTurn
	RemoteTurn
	Finished
	Errored
)

var stateNames = [...]string{
	Disconnected:      "disconnected",
	Handshaking:       "handshaking",
	AwaitingGameStart: "awaiting_game_start",
	LocalTurn:         "local_turn",
	RemoteTurn:        "remote_turn",
	Finished:          "finished",
	Errored:           "errored",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further exchanges are possible.
func (s State) Terminal() bool {
	return s == Finished || s == Errored
}
