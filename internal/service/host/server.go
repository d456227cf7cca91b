// Package host plays the answering side of the line protocol with a bot, so
// a client can be run against a local opponent instead of the course server.
package host

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/iamasit07/connectfour/internal/service/bot"
	"github.com/iamasit07/connectfour/internal/transport/line"
	"github.com/iamasit07/connectfour/pkg/uid"
	"go.uber.org/zap"
)

type Options struct {
	Bounds     domain.Bounds
	Difficulty bot.Difficulty
	Depth      int
	// Seed feeds the bots' random choices; zero seeds from the clock.
	Seed int64
}

type Server struct {
	opts     Options
	registry *Registry
	log      *zap.Logger

	wg sync.WaitGroup
}

func NewServer(opts Options, registry *Registry, log *zap.Logger) *Server {
	return &Server{opts: opts, registry: registry, log: log}
}

func (s *Server) Registry() *Registry { return s.registry }

// Serve runs one session on conn and closes it when the session ends.
func (s *Server) Serve(ctx context.Context, conn Conn) (domain.Player, error) {
	seed := s.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	session := newSession(uid.NewSessionID(), conn, bot.New(s.opts.Difficulty, s.opts.Depth, seed), s.opts.Bounds, s.log)

	s.registry.Add(session)
	defer s.registry.Remove(session.ID)
	defer session.Close()

	winner, err := session.Run(ctx)
	if err != nil {
		session.log.Info("session ended", zap.Error(err))
	}
	return winner, err
}

// ListenAndServe accepts TCP connections on addr until ctx is cancelled, then
// waits for the running sessions to end.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	defer s.wg.Wait()

	s.log.Info("listening", zap.String("addr", ln.Addr().String()))
	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.log.Debug("accepted", zap.String("remote", c.RemoteAddr().String()))

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.Serve(ctx, line.NewConn(c))
		}()
	}
}
