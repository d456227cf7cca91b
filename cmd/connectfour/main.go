// Command connectfour plays Connect Four with pops, either hot-seat at one
// terminal or as RED against a server speaking the I32CFSP line protocol.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamasit07/connectfour/internal/config"
	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/iamasit07/connectfour/internal/logging"
	"github.com/iamasit07/connectfour/internal/protocol"
	"github.com/iamasit07/connectfour/internal/service/bot"
	"github.com/iamasit07/connectfour/internal/service/netplay"
	"github.com/iamasit07/connectfour/internal/transport/line"
	"github.com/iamasit07/connectfour/internal/transport/websocket"
	"github.com/iamasit07/connectfour/internal/ui/console"
	"go.uber.org/zap"
)

func main() {
	local := flag.Bool("local", false, "play both colours at this terminal")
	wsURL := flag.String("ws", "", "play over a websocket at this URL instead of TCP")
	askServer := flag.Bool("ask-server", false, "prompt for the server host and port")
	autoplay := flag.String("bot", "", "let a bot (easy, medium, hard) choose RED's moves")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	log := logging.Must(cfg.Debug)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui := console.New(os.Stdin, os.Stdout, cfg.Bounds())

	if *local {
		if _, err := ui.PlayLocal(ctx); err != nil && !errors.Is(err, io.EOF) {
			log.Error("local game failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	var src netplay.MoveSource = ui
	if *autoplay != "" {
		difficulty, err := bot.ParseDifficulty(*autoplay)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		src = bot.New(difficulty, cfg.BotDepth, time.Now().UnixNano())
	}

	if *askServer {
		host, port, err := ui.AskServer()
		if err != nil {
			return
		}
		cfg.Host, cfg.Port = host, port
	}

	if err := playNetwork(ctx, ui, src, cfg, *wsURL, log); err != nil {
		log.Debug("network game ended", zap.Error(err))
		os.Exit(1)
	}
}

func dial(ctx context.Context, cfg config.Config, wsURL string) (netplay.Transport, error) {
	if wsURL != "" {
		return websocket.Dial(ctx, wsURL)
	}
	return line.Dial(ctx, cfg.ServerAddr())
}

// redTurn announces the local player's turn before asking for a move. Moves
// not typed at the console are echoed.
type redTurn struct {
	ui       *console.Console
	src      netplay.MoveSource
	username string
	echo     bool
}

func (t redTurn) NextMove(ctx context.Context, g domain.GameState) (domain.Move, error) {
	t.ui.Printf("----%s's Move (RED)----\n", t.username)
	m, err := t.src.NextMove(ctx, g)
	if err == nil && t.echo {
		t.ui.Printf("%s %d\n", m.Kind, m.Column)
	}
	return m, err
}

func playNetwork(ctx context.Context, ui *console.Console, src netplay.MoveSource, cfg config.Config, wsURL string, log *zap.Logger) error {
	tr, err := dial(ctx, cfg, wsURL)
	if err != nil {
		ui.Printf("%s\n", connectError(err))
		return err
	}

	s := netplay.New(tr,
		netplay.WithBounds(cfg.Bounds()),
		netplay.WithRecorder(netplay.NewZapRecorder(log.Named("netplay"))),
	)
	defer s.Close()

	err = runGame(ctx, ui, src, s)
	if err != nil && !errors.Is(err, io.EOF) {
		ui.Printf("%s\n", gameError(err))
	}
	return err
}

func runGame(ctx context.Context, ui *console.Console, src netplay.MoveSource, s *netplay.Synchronizer) error {
	username, err := ui.AskUsername()
	if err != nil {
		return err
	}
	if err := s.Hello(ctx, username); err != nil {
		return err
	}

	ui.Banner()
	columns, rows, err := ui.AskDimensions()
	if err != nil {
		return err
	}
	if err := s.RequestGame(ctx, columns, rows); err != nil {
		return err
	}
	if err := ui.PrintBoard(s.Game().Board()); err != nil {
		return err
	}

	var printErr error
	_, typed := src.(*console.Console)
	winner, err := s.Play(ctx, redTurn{ui: ui, src: src, username: username, echo: !typed}, netplay.Observer{
		Rejected: ui.Rejected,
		Played: func(_ domain.Move, by domain.Player, g domain.GameState) {
			if by == domain.Yellow {
				ui.Printf("----The Server's Move (YELLOW)----\n")
			}
			if err := ui.PrintBoard(g.Board()); err != nil && printErr == nil {
				printErr = err
			}
		},
	})
	if err != nil {
		return err
	}
	if printErr != nil {
		return printErr
	}

	if winner == domain.Red {
		ui.Printf("%s (RED) is the winner!\n", username)
	} else {
		ui.Printf("The Server (YELLOW) is the winner!\n")
	}
	return nil
}

func connectError(err error) string {
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "---ERROR: Cannot connect to this server---"
	case errors.As(err, &dnsErr):
		return "---ERROR: Host or port does not exist---"
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return "---ERROR: No route to host---"
	case errors.Is(err, context.Canceled):
		return "---Interrupted---"
	default:
		return "---ERROR: " + err.Error() + "---"
	}
}

func gameError(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "---Interrupted---"
	case errors.Is(err, netplay.ErrProtocolMismatch):
		return "---ERROR: Server and client mismatch!---"
	case errors.Is(err, protocol.ErrDecode):
		return "---ERROR: Server sent a message that could not be read!---"
	case errors.Is(err, netplay.ErrTransport):
		return "---ERROR: Lost the connection to the server---"
	default:
		return "---ERROR: " + err.Error() + "---"
	}
}
