// Package netplay keeps a local game in lockstep with a remote peer over the
// line protocol. Every move is judged by both sides; any disagreement ends
// the session with ErrProtocolMismatch because the two copies can no longer
// be trusted.
package netplay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/iamasit07/connectfour/internal/protocol"
)

// Transport is a blocking line-oriented connection. Close must unblock a
// pending ReadLine.
type Transport interface {
	ReadLine() (string, error)
	WriteLine(text string) error
	Close() error
}

// MoveResult is the agreed outcome of a locally submitted move.
type MoveResult struct {
	Accepted bool
	Winner   domain.Player
}

type Option func(*Synchronizer)

func WithRecorder(r Recorder) Option {
	return func(s *Synchronizer) { s.recorder = r }
}

func WithBounds(b domain.Bounds) Option {
	return func(s *Synchronizer) { s.bounds = b }
}

// Synchronizer drives one game over one transport. It is not safe for
// concurrent use; exactly one goroutine owns it.
type Synchronizer struct {
	transport Transport
	recorder  Recorder
	bounds    domain.Bounds

	state    State
	game     domain.GameState
	username string
	err      error

	closeOnce sync.Once
	closeErr  error
}

func New(t Transport, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		transport: t,
		recorder:  NopRecorder,
		bounds:    domain.DefaultBounds,
		state:     Disconnected,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Synchronizer) State() State { return s.state }

// Game returns the local copy of the game. It is the zero value until a game
// has been negotiated.
func (s *Synchronizer) Game() domain.GameState { return s.game }

func (s *Synchronizer) Winner() domain.Player { return s.game.Winner() }

// Err returns the error that moved the session to Errored, if any.
func (s *Synchronizer) Err() error { return s.err }

func (s *Synchronizer) Username() string { return s.username }

// LocalPlayer is the colour this side plays. The peer that requests the game
// moves first as Red.
func (s *Synchronizer) LocalPlayer() domain.Player { return domain.Red }

// Close releases the transport. It is safe to call more than once and from
// any state.
func (s *Synchronizer) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.transport.Close()
	})
	return s.closeErr
}

// Hello introduces the local player. The peer must echo the same username.
func (s *Synchronizer) Hello(ctx context.Context, username string) error {
	stop, err := s.begin(ctx, Disconnected)
	if err != nil {
		return err
	}
	defer stop()

	if err := s.send(ctx, protocol.Hello(username)); err != nil {
		return err
	}

	reply, err := s.receive(ctx)
	if err != nil {
		return err
	}
	if reply != protocol.Welcome(username) {
		return s.fail(fmt.Errorf("%w: hello as %q answered with %q", ErrProtocolMismatch, username, reply))
	}

	s.username = username
	s.transition(Handshaking)
	return nil
}

// RequestGame negotiates the board size and sets up the local game. Sizes
// outside the configured bounds fail with domain.ErrConfig before anything is
// sent.
func (s *Synchronizer) RequestGame(ctx context.Context, columns, rows int) error {
	if s.state == Handshaking {
		if _, err := domain.NewGame(columns, rows, s.bounds); err != nil {
			return err
		}
	}

	stop, err := s.begin(ctx, Handshaking)
	if err != nil {
		return err
	}
	defer stop()

	if err := s.send(ctx, protocol.GameRequest(columns, rows)); err != nil {
		return err
	}

	reply, err := s.receive(ctx)
	if err != nil {
		return err
	}
	if reply.Kind != protocol.KindReady {
		return s.fail(fmt.Errorf("%w: game request answered with %q", ErrProtocolMismatch, reply))
	}
	s.transition(AwaitingGameStart)

	game, err := domain.NewGame(columns, rows, s.bounds)
	if err != nil {
		return s.fail(err)
	}
	s.game = game
	s.transition(LocalTurn)
	return nil
}

// SubmitMove plays a local move. Both sides judge it; a rejection on both
// sides is an ordinary outcome and leaves the turn with the local player.
// A move that cannot be expressed on the wire (non-positive column, unknown
// kind) is rejected without contacting the peer.
func (s *Synchronizer) SubmitMove(ctx context.Context, move domain.Move) (MoveResult, error) {
	stop, err := s.begin(ctx, LocalTurn)
	if err != nil {
		return MoveResult{}, err
	}
	defer stop()

	if (move.Kind != domain.Drop && move.Kind != domain.Pop) || move.Column < 1 {
		return MoveResult{}, nil
	}

	if err := s.send(ctx, protocol.MoveMessage(move)); err != nil {
		return MoveResult{}, err
	}

	reply, err := s.receive(ctx)
	if err != nil {
		return MoveResult{}, err
	}

	var remoteAccepted bool
	remoteWinner := domain.Empty
	switch reply.Kind {
	case protocol.KindOkay:
		remoteAccepted = true
	case protocol.KindInvalid:
		remoteAccepted = false
	case protocol.KindWinnerRed, protocol.KindWinnerYellow:
		// a winner reply implies the move was accepted
		remoteAccepted = true
		remoteWinner, _ = reply.Winner()
	default:
		return MoveResult{}, s.fail(fmt.Errorf("%w: move %s answered with %q", ErrProtocolMismatch, move.Kind, reply))
	}

	next, localAccepted := s.game.Apply(move)
	if localAccepted != remoteAccepted {
		return MoveResult{}, s.fail(fmt.Errorf("%w: %s %d accepted locally=%t, by peer=%t",
			ErrProtocolMismatch, move.Kind, move.Column, localAccepted, remoteAccepted))
	}

	if !localAccepted {
		// the peer follows INVALID with its READY status
		status, err := s.receive(ctx)
		if err != nil {
			return MoveResult{}, err
		}
		if status.Kind != protocol.KindReady {
			return MoveResult{}, s.fail(fmt.Errorf("%w: expected READY after INVALID, got %q", ErrProtocolMismatch, status))
		}
		return MoveResult{Accepted: false}, nil
	}

	s.game = next
	if localWinner := next.Winner(); localWinner != remoteWinner {
		return MoveResult{}, s.fail(fmt.Errorf("%w: local winner %s, peer winner %s",
			ErrProtocolMismatch, localWinner, remoteWinner))
	}

	if remoteWinner != domain.Empty {
		s.transition(Finished)
		return MoveResult{Accepted: true, Winner: remoteWinner}, nil
	}
	s.transition(RemoteTurn)
	return MoveResult{Accepted: true}, nil
}

// ReceiveMove waits for the peer's move and applies it. The peer is trusted
// only as far as the local engine agrees with it.
func (s *Synchronizer) ReceiveMove(ctx context.Context) (domain.Move, error) {
	stop, err := s.begin(ctx, RemoteTurn)
	if err != nil {
		return domain.Move{}, err
	}
	defer stop()

	msg, err := s.receive(ctx)
	if err != nil {
		return domain.Move{}, err
	}
	move, ok := msg.Move()
	if !ok {
		return domain.Move{}, s.fail(fmt.Errorf("%w: expected a move, got %q", ErrProtocolMismatch, msg))
	}

	next, accepted := s.game.Apply(move)
	if !accepted {
		return move, s.fail(fmt.Errorf("%w: peer move %q is illegal locally", ErrProtocolMismatch, msg))
	}
	s.game = next

	status, err := s.receive(ctx)
	if err != nil {
		return move, err
	}
	remoteWinner := domain.Empty
	switch status.Kind {
	case protocol.KindReady:
	case protocol.KindWinnerRed, protocol.KindWinnerYellow:
		remoteWinner, _ = status.Winner()
	default:
		return move, s.fail(fmt.Errorf("%w: expected status after move, got %q", ErrProtocolMismatch, status))
	}

	if localWinner := next.Winner(); localWinner != remoteWinner {
		return move, s.fail(fmt.Errorf("%w: local winner %s, peer winner %s",
			ErrProtocolMismatch, localWinner, remoteWinner))
	}

	if remoteWinner != domain.Empty {
		s.transition(Finished)
	} else {
		s.transition(LocalTurn)
	}
	return move, nil
}

// begin checks that an operation may run now and ties the context to the
// transport: cancelling ctx closes the transport, which unblocks any read.
func (s *Synchronizer) begin(ctx context.Context, want State) (func() bool, error) {
	if s.state == Errored {
		return nil, s.err
	}
	if s.state != want {
		return nil, fmt.Errorf("%w: in %s, need %s", ErrWrongState, s.state, want)
	}
	if err := ctx.Err(); err != nil {
		s.Close()
		return nil, s.fail(fmt.Errorf("%w: %w", ErrTransport, err))
	}
	return context.AfterFunc(ctx, func() { s.Close() }), nil
}

func (s *Synchronizer) send(ctx context.Context, msg protocol.Message) error {
	line, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	if err := s.transport.WriteLine(line); err != nil {
		return s.fail(s.transportError(ctx, "write", err))
	}
	s.recorder.Record(Event{Kind: EventSent, Line: line})
	return nil
}

func (s *Synchronizer) receive(ctx context.Context) (protocol.Message, error) {
	line, err := s.transport.ReadLine()
	if errors.Is(err, bufio.ErrTooLong) {
		// an oversized line is malformed input, not a lost connection
		return protocol.Message{}, s.fail(&protocol.DecodeError{Reason: "line too long"})
	}
	if err != nil {
		return protocol.Message{}, s.fail(s.transportError(ctx, "read", err))
	}
	s.recorder.Record(Event{Kind: EventReceived, Line: line})

	msg, err := protocol.Decode(line)
	if err != nil {
		return protocol.Message{}, s.fail(err)
	}
	return msg, nil
}

func (s *Synchronizer) transportError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, op, ctxErr)
	}
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}

func (s *Synchronizer) transition(to State) {
	from := s.state
	s.state = to
	s.recorder.Record(Event{Kind: EventTransition, From: from, To: to})
}

func (s *Synchronizer) fail(err error) error {
	from := s.state
	s.state = Errored
	s.err = err
	s.recorder.Record(Event{Kind: EventTransition, From: from, To: Errored, Err: err})
	return err
}
