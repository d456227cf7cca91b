package netplay

import (
	"context"
	"fmt"

	"github.com/iamasit07/connectfour/internal/domain"
)

// MoveSource picks the local player's next move: a console prompt, a bot.
type MoveSource interface {
	NextMove(ctx context.Context, game domain.GameState) (domain.Move, error)
}

// Observer is told about every accepted or rejected move. Either hook may be
// nil.
type Observer struct {
	Rejected func(move domain.Move, game domain.GameState)
	Played   func(move domain.Move, by domain.Player, game domain.GameState)
}

// Play alternates SubmitMove and ReceiveMove until the game finishes and
// returns the winner. It expects a negotiated game (LocalTurn).
func (s *Synchronizer) Play(ctx context.Context, src MoveSource, obs Observer) (domain.Player, error) {
	for !s.state.Terminal() {
		switch s.state {
		case LocalTurn:
			move, err := src.NextMove(ctx, s.game)
			if err != nil {
				return domain.Empty, err
			}
			res, err := s.SubmitMove(ctx, move)
			if err != nil {
				return domain.Empty, err
			}
			if !res.Accepted {
				if obs.Rejected != nil {
					obs.Rejected(move, s.game)
				}
				continue
			}
			if obs.Played != nil {
				obs.Played(move, s.LocalPlayer(), s.game)
			}

		case RemoteTurn:
			move, err := s.ReceiveMove(ctx)
			if err != nil {
				return domain.Empty, err
			}
			if obs.Played != nil {
				obs.Played(move, s.LocalPlayer().Opponent(), s.game)
			}

		default:
			return domain.Empty, fmt.Errorf("%w: in %s, need a negotiated game", ErrWrongState, s.state)
		}
	}

	if s.state == Errored {
		return domain.Empty, s.err
	}
	return s.game.Winner(), nil
}
