package netplay

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/iamasit07/connectfour/internal/protocol"
	"github.com/iamasit07/connectfour/internal/transport/line"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedTransport replays canned peer lines and records what was sent.
type scriptedTransport struct {
	in     []string
	out    []string
	closed bool
}

func newScripted(lines ...string) *scriptedTransport {
	return &scriptedTransport{in: lines}
}

func (t *scriptedTransport) ReadLine() (string, error) {
	if t.closed {
		return "", net.ErrClosed
	}
	if len(t.in) == 0 {
		return "", io.EOF
	}
	line := t.in[0]
	t.in = t.in[1:]
	return line, nil
}

func (t *scriptedTransport) WriteLine(text string) error {
	if t.closed {
		return net.ErrClosed
	}
	t.out = append(t.out, text)
	return nil
}

func (t *scriptedTransport) Close() error {
	t.closed = true
	return nil
}

// startedGame returns a synchronizer already in LocalTurn on a 7x6 board.
func startedGame(t *testing.T, peer ...string) (*Synchronizer, *scriptedTransport) {
	t.Helper()
	tr := newScripted(append([]string{"WELCOME bob", "READY"}, peer...)...)
	s := New(tr)
	ctx := context.Background()
	require.NoError(t, s.Hello(ctx, "bob"))
	require.NoError(t, s.RequestGame(ctx, 7, 6))
	require.Equal(t, LocalTurn, s.State())
	return s, tr
}

func assertMismatch(t *testing.T, s *Synchronizer, err error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocolMismatch)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.Equal(t, Errored, s.State())
	assert.Equal(t, err, s.Err())
}

func TestHandshake(t *testing.T) {
	s, tr := startedGame(t)
	assert.Equal(t, []string{"I32CFSP_HELLO bob", "AI_GAME 7 6"}, tr.out)
	assert.Equal(t, "bob", s.Username())
	assert.Equal(t, 7, s.Game().Board().Columns())
	assert.Equal(t, 6, s.Game().Board().Rows())
	assert.Equal(t, domain.Red, s.Game().Turn())
	assert.Equal(t, domain.Red, s.LocalPlayer())
}

func TestHelloUsernameMismatch(t *testing.T) {
	tr := newScripted("WELCOME alice")
	s := New(tr)

	err := s.Hello(context.Background(), "bob")
	assertMismatch(t, s, err)

	err = s.RequestGame(context.Background(), 7, 6)
	assert.ErrorIs(t, err, ErrProtocolMismatch, "errored is absorbing")
	assert.Equal(t, []string{"I32CFSP_HELLO bob"}, tr.out, "no game was requested")
}

func TestHelloMalformedReply(t *testing.T) {
	s := New(newScripted("WELCOME"))
	err := s.Hello(context.Background(), "bob")
	assert.ErrorIs(t, err, protocol.ErrDecode)
	assert.NotErrorIs(t, err, ErrProtocolMismatch)
	assert.Equal(t, Errored, s.State())
}

func TestHelloEndOfStream(t *testing.T) {
	s := New(newScripted())
	err := s.Hello(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, io.EOF)
	assert.NotErrorIs(t, err, ErrProtocolMismatch)
	assert.Equal(t, Errored, s.State())
}

func TestHelloBadUsernameSendsNothing(t *testing.T) {
	tr := newScripted()
	s := New(tr)
	err := s.Hello(context.Background(), "bob smith")
	assert.ErrorIs(t, err, protocol.ErrEncode)
	assert.Equal(t, Disconnected, s.State())
	assert.Empty(t, tr.out)
}

func TestRequestGameOutsideBounds(t *testing.T) {
	tr := newScripted("WELCOME bob")
	s := New(tr, WithBounds(domain.Bounds{MinColumns: 4, MaxColumns: 10, MinRows: 4, MaxRows: 10}))
	require.NoError(t, s.Hello(context.Background(), "bob"))

	err := s.RequestGame(context.Background(), 11, 6)
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.Equal(t, Handshaking, s.State())
	assert.Equal(t, []string{"I32CFSP_HELLO bob"}, tr.out)
}

func TestRequestGameNotReady(t *testing.T) {
	s := New(newScripted("WELCOME bob", "OKAY"))
	require.NoError(t, s.Hello(context.Background(), "bob"))
	err := s.RequestGame(context.Background(), 7, 6)
	assertMismatch(t, s, err)
}

func TestWrongState(t *testing.T) {
	tr := newScripted()
	s := New(tr)

	_, err := s.SubmitMove(context.Background(), domain.DropAt(1))
	assert.ErrorIs(t, err, ErrWrongState)
	_, err = s.ReceiveMove(context.Background())
	assert.ErrorIs(t, err, ErrWrongState)
	err = s.RequestGame(context.Background(), 7, 6)
	assert.ErrorIs(t, err, ErrWrongState)
	assert.Equal(t, Disconnected, s.State())
	assert.Empty(t, tr.out)
}

func TestLocalAcceptRemoteInvalid(t *testing.T) {
	s, tr := startedGame(t, "INVALID", "READY")
	_, err := s.SubmitMove(context.Background(), domain.DropAt(1))
	assertMismatch(t, s, err)
	assert.Equal(t, "DROP 1", tr.out[len(tr.out)-1])
}

func TestLocalRejectRemoteOkay(t *testing.T) {
	s, _ := startedGame(t, "OKAY")
	_, err := s.SubmitMove(context.Background(), domain.PopAt(1))
	assertMismatch(t, s, err)
}

func TestBothRejectStaysOnLocalTurn(t *testing.T) {
	s, tr := startedGame(t, "INVALID", "READY")
	before := s.Game()

	res, err := s.SubmitMove(context.Background(), domain.PopAt(3))
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, LocalTurn, s.State())
	assert.Equal(t, before, s.Game())
	assert.Equal(t, "POP 3", tr.out[len(tr.out)-1])
}

func TestBothRejectNeedsReadyFollowUp(t *testing.T) {
	s, _ := startedGame(t, "INVALID", "OKAY")
	_, err := s.SubmitMove(context.Background(), domain.PopAt(3))
	assertMismatch(t, s, err)
}

func TestUnsendableMoveRejectedLocally(t *testing.T) {
	s, tr := startedGame(t)
	sent := len(tr.out)

	for _, m := range []domain.Move{domain.DropAt(0), {Kind: 0, Column: 1}} {
		res, err := s.SubmitMove(context.Background(), m)
		require.NoError(t, err)
		assert.False(t, res.Accepted)
	}
	assert.Len(t, tr.out, sent)
	assert.Equal(t, LocalTurn, s.State())
}

func TestRemoteReportsWinnerLocalDoesNot(t *testing.T) {
	s, _ := startedGame(t, "WINNER_RED")
	_, err := s.SubmitMove(context.Background(), domain.DropAt(1))
	assertMismatch(t, s, err)
}

func TestUnexpectedMoveReply(t *testing.T) {
	s, _ := startedGame(t, "READY")
	_, err := s.SubmitMove(context.Background(), domain.DropAt(1))
	assertMismatch(t, s, err)
}

func TestRemoteMoveIllegalLocally(t *testing.T) {
	// yellow tries to pop red's chip
	s, _ := startedGame(t, "OKAY", "POP 1", "READY")
	res, err := s.SubmitMove(context.Background(), domain.DropAt(1))
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.Equal(t, RemoteTurn, s.State())

	_, err = s.ReceiveMove(context.Background())
	assertMismatch(t, s, err)
}

func TestRemoteSendsStatusInsteadOfMove(t *testing.T) {
	s, _ := startedGame(t, "OKAY", "READY")
	_, err := s.SubmitMove(context.Background(), domain.DropAt(1))
	require.NoError(t, err)

	_, err = s.ReceiveMove(context.Background())
	assertMismatch(t, s, err)
}

func TestRemoteMoveDecodeFailure(t *testing.T) {
	s, _ := startedGame(t, "OKAY", "DROP seven")
	_, err := s.SubmitMove(context.Background(), domain.DropAt(1))
	require.NoError(t, err)

	_, err = s.ReceiveMove(context.Background())
	assert.ErrorIs(t, err, protocol.ErrDecode)
	assert.NotErrorIs(t, err, ErrProtocolMismatch)
	assert.Equal(t, Errored, s.State())
}

func TestRemoteStatusDisagreesWithLocalWinner(t *testing.T) {
	s, _ := startedGame(t, "OKAY", "DROP 2", "WINNER_YELLOW")
	_, err := s.SubmitMove(context.Background(), domain.DropAt(1))
	require.NoError(t, err)

	_, err = s.ReceiveMove(context.Background())
	assertMismatch(t, s, err)
}

func TestLocalWinnerRemoteOkay(t *testing.T) {
	s, _ := startedGame(t,
		"OKAY", "DROP 7", "READY",
		"OKAY", "DROP 7", "READY",
		"OKAY", "DROP 7", "READY",
		"OKAY",
	)
	ctx := context.Background()
	for col := 1; col <= 3; col++ {
		_, err := s.SubmitMove(ctx, domain.DropAt(col))
		require.NoError(t, err)
		_, err = s.ReceiveMove(ctx)
		require.NoError(t, err)
	}

	_, err := s.SubmitMove(ctx, domain.DropAt(4))
	assertMismatch(t, s, err)
	assert.Equal(t, domain.Red, s.Game().Winner())
}

func TestLocalWinnerRemoteReady(t *testing.T) {
	// yellow stacks column 1 but the peer never announces the win
	s, _ := startedGame(t,
		"OKAY", "DROP 1", "READY",
		"OKAY", "DROP 1", "READY",
		"OKAY", "DROP 1", "READY",
		"OKAY", "DROP 1", "READY",
	)
	ctx := context.Background()
	for i, col := range []int{2, 3, 2, 3} {
		_, err := s.SubmitMove(ctx, domain.DropAt(col))
		require.NoError(t, err)
		_, err = s.ReceiveMove(ctx)
		if i < 3 {
			require.NoError(t, err)
			continue
		}
		assertMismatch(t, s, err)
	}
	assert.Equal(t, domain.Yellow, s.Game().Winner())
}

func TestOversizedLineIsDecodeError(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	go func() {
		buf := make([]byte, 64)
		if _, err := server.Read(buf); err != nil {
			return
		}
		server.Write([]byte("WELCOME " + strings.Repeat("a", line.MaxLineLength+100) + "\r\n"))
	}()

	s := New(line.NewConn(client))
	defer s.Close()

	err := s.Hello(context.Background(), "bob")
	assert.ErrorIs(t, err, protocol.ErrDecode)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.Equal(t, Errored, s.State())
}

func TestRedWinsScenario(t *testing.T) {
	// red drops 1..4, yellow answers on column 7 each time
	s, tr := startedGame(t,
		"OKAY", "DROP 7", "READY",
		"OKAY", "DROP 7", "READY",
		"OKAY", "DROP 7", "READY",
		"WINNER_RED",
	)
	ctx := context.Background()

	for col := 1; col <= 3; col++ {
		res, err := s.SubmitMove(ctx, domain.DropAt(col))
		require.NoError(t, err)
		assert.Equal(t, MoveResult{Accepted: true}, res)
		assert.Equal(t, RemoteTurn, s.State())

		move, err := s.ReceiveMove(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DropAt(7), move)
		assert.Equal(t, LocalTurn, s.State())
	}

	res, err := s.SubmitMove(ctx, domain.DropAt(4))
	require.NoError(t, err)
	assert.Equal(t, MoveResult{Accepted: true, Winner: domain.Red}, res)
	assert.Equal(t, Finished, s.State())
	assert.Equal(t, domain.Red, s.Winner())
	assert.Equal(t, "DROP 4", tr.out[len(tr.out)-1])

	_, err = s.SubmitMove(ctx, domain.DropAt(5))
	assert.ErrorIs(t, err, ErrWrongState, "finished is terminal")
}

func TestRemoteWins(t *testing.T) {
	s, _ := startedGame(t,
		"OKAY", "DROP 1", "READY",
		"OKAY", "DROP 1", "READY",
		"OKAY", "DROP 1", "READY",
		"OKAY", "DROP 1", "WINNER_YELLOW",
	)
	ctx := context.Background()
	for _, col := range []int{2, 3, 2, 3} {
		_, err := s.SubmitMove(ctx, domain.DropAt(col))
		require.NoError(t, err)
		_, err = s.ReceiveMove(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, Finished, s.State())
	assert.Equal(t, domain.Yellow, s.Winner())
}

func TestRecorderSeesTraffic(t *testing.T) {
	var events []Event
	tr := newScripted("WELCOME bob")
	s := New(tr, WithRecorder(RecorderFunc(func(e Event) { events = append(events, e) })))
	require.NoError(t, s.Hello(context.Background(), "bob"))

	require.Len(t, events, 3)
	assert.Equal(t, Event{Kind: EventSent, Line: "I32CFSP_HELLO bob"}, events[0])
	assert.Equal(t, Event{Kind: EventReceived, Line: "WELCOME bob"}, events[1])
	assert.Equal(t, Event{Kind: EventTransition, From: Disconnected, To: Handshaking}, events[2])
}

func TestCancelUnblocksPendingRead(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	// the peer reads the hello and then goes silent
	go func() {
		buf := make([]byte, 64)
		server.Read(buf)
	}()

	s := New(line.NewConn(client))
	ctx, cancel := context.WithCancel(context.Background())

	errs := make(chan error, 1)
	go func() { errs <- s.Hello(ctx, "bob") }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrTransport)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, Errored, s.State())
	case <-time.After(2 * time.Second):
		t.Fatal("Hello still blocked after cancel")
	}
}

func TestCancelledBeforeStart(t *testing.T) {
	tr := newScripted("WELCOME bob")
	s := New(tr)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Hello(ctx, "bob")
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, tr.closed)
	assert.Empty(t, tr.out)
}
