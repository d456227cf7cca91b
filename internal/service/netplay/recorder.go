package netplay

import "go.uber.org/zap"

type EventKind int

const (
	EventSent EventKind = iota + 1
	EventReceived
	EventTransition
)

func (k EventKind) String() string {
	switch k {
	case EventSent:
		return "sent"
	case EventReceived:
		return "received"
	case EventTransition:
		return "transition"
	}
	return "unknown"
}

// Event is a single observable step of a session: a line on the wire or a
// state change.
type Event struct {
	Kind EventKind
	Line string
	From State
	To   State
	Err  error
}

// Recorder receives session events. Implementations must not block.
type Recorder interface {
	Record(Event)
}

type nopRecorder struct{}

func (nopRecorder) Record(Event) {}

var NopRecorder Recorder = nopRecorder{}

// ZapRecorder writes events to a zap logger at debug level, errors at warn.
type ZapRecorder struct {
	log *zap.Logger
}

func NewZapRecorder(log *zap.Logger) *ZapRecorder {
	return &ZapRecorder{log: log}
}

func (r *ZapRecorder) Record(e Event) {
	switch e.Kind {
	case EventSent:
		r.log.Debug("SENT", zap.String("line", e.Line))
	case EventReceived:
		r.log.Debug(" GOT", zap.String("line", e.Line))
	case EventTransition:
		if e.Err != nil {
			r.log.Warn("session failed",
				zap.Stringer("from", e.From), zap.Stringer("to", e.To), zap.Error(e.Err))
			return
		}
		r.log.Debug("state change", zap.Stringer("from", e.From), zap.Stringer("to", e.To))
	}
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(Event)

func (f RecorderFunc) Record(e Event) { f(e) }
