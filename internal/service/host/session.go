package host

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/iamasit07/connectfour/internal/protocol"
	"github.com/iamasit07/connectfour/internal/service/bot"
	"go.uber.org/zap"
)

var (
	ErrUnexpectedMessage = errors.New("unexpected message")
	ErrNoMove            = errors.New("bot has no legal move")
)

// Conn is the line transport a session is served over.
type Conn interface {
	ReadLine() (string, error)
	WriteLine(text string) error
	Close() error
}

// Session plays the answering side of one game: the client is Red and moves
// first, the bot is Yellow.
type Session struct {
	ID        string
	CreatedAt time.Time

	conn   Conn
	engine *bot.Engine
	bounds domain.Bounds
	log    *zap.Logger

	mu       sync.Mutex
	username string
	game     domain.GameState

	lastActive atomic.Int64
	closeOnce  sync.Once
}

func newSession(id string, conn Conn, engine *bot.Engine, bounds domain.Bounds, log *zap.Logger) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		conn:      conn,
		engine:    engine,
		bounds:    bounds,
		log:       log.With(zap.String("session", id)),
	}
	s.touch()
	return s
}

// Username is empty until the client has said hello.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// Game returns a snapshot of the session's game.
func (s *Session) Game() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Close drops the connection; a Run blocked on a read returns.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	return err
}

// Run serves the protocol until the game ends or the connection fails. It
// returns the winner of a completed game.
func (s *Session) Run(ctx context.Context) (domain.Player, error) {
	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	hello, err := s.expect(protocol.KindHello)
	if err != nil {
		return domain.Empty, err
	}
	s.mu.Lock()
	s.username = hello.Username
	s.mu.Unlock()
	if err := s.send(protocol.Welcome(hello.Username)); err != nil {
		return domain.Empty, err
	}

	req, err := s.expect(protocol.KindGameRequest)
	if err != nil {
		return domain.Empty, err
	}
	game, err := domain.NewGame(req.Columns, req.Rows, s.bounds)
	if err != nil {
		return domain.Empty, err
	}
	s.setGame(game)
	if err := s.send(protocol.Ready()); err != nil {
		return domain.Empty, err
	}
	s.log.Info("game started",
		zap.String("username", hello.Username), zap.Int("columns", req.Columns), zap.Int("rows", req.Rows))

	for {
		winner, err := s.round()
		if err != nil {
			return domain.Empty, err
		}
		if winner != domain.Empty {
			s.log.Info("game finished", zap.Stringer("winner", winner), zap.Int("moves", s.Game().MoveCount()))
			return winner, nil
		}
	}
}

// round handles one client move and, if the game goes on, the bot's reply.
func (s *Session) round() (domain.Player, error) {
	msg, err := s.receive()
	if err != nil {
		return domain.Empty, err
	}
	move, ok := msg.Move()
	if !ok {
		return domain.Empty, fmt.Errorf("%w: expected a move, got %q", ErrUnexpectedMessage, msg)
	}

	game, accepted := s.Game().Apply(move)
	if !accepted {
		if err := s.send(protocol.Invalid()); err != nil {
			return domain.Empty, err
		}
		return domain.Empty, s.send(protocol.Ready())
	}
	s.setGame(game)

	if winner := game.Winner(); winner != domain.Empty {
		return winner, s.send(protocol.WinnerMessage(winner))
	}
	if err := s.send(protocol.Okay()); err != nil {
		return domain.Empty, err
	}

	reply, ok := s.engine.Choose(game)
	if !ok {
		return domain.Empty, ErrNoMove
	}
	game, _ = game.Apply(reply)
	s.setGame(game)

	if err := s.send(protocol.MoveMessage(reply)); err != nil {
		return domain.Empty, err
	}
	return game.Winner(), s.send(protocol.WinnerMessage(game.Winner()))
}

func (s *Session) expect(kind protocol.Kind) (protocol.Message, error) {
	msg, err := s.receive()
	if err != nil {
		return msg, err
	}
	if msg.Kind != kind {
		return msg, fmt.Errorf("%w: expected %s, got %q", ErrUnexpectedMessage, kind, msg)
	}
	return msg, nil
}

func (s *Session) receive() (protocol.Message, error) {
	line, err := s.conn.ReadLine()
	if errors.Is(err, bufio.ErrTooLong) {
		return protocol.Message{}, &protocol.DecodeError{Reason: "line too long"}
	}
	if err != nil {
		return protocol.Message{}, fmt.Errorf("read: %w", err)
	}
	s.touch()
	s.log.Debug(" GOT", zap.String("line", line))
	return protocol.Decode(line)
}

func (s *Session) send(msg protocol.Message) error {
	line, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	if err := s.conn.WriteLine(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	s.touch()
	s.log.Debug("SENT", zap.String("line", line))
	return nil
}

func (s *Session) setGame(g domain.GameState) {
	s.mu.Lock()
	s.game = g
	s.mu.Unlock()
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}
