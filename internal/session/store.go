package session

import (
	"context"
	"errors"

	"github.com/nvlasov/minefield/internal/mines"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username taken")
)

type Player struct {
	PlayerId     int64
	Username     string
	PasswordHash []byte
}

// Store persists players and game sessions. Implementations return
// [ErrNotFound] and [ErrUsernameTaken] for the matching conditions so
// handlers can map storage failures to response statuses without knowing
// the backend.
type Store interface {
	Ping(ctx context.Context) error
	Close()

	CreatePlayer(ctx context.Context, username string, passwordHash []byte) (*Player, error)
	GetPlayer(ctx context.Context, username string) (*Player, error)

	CreateSession(ctx context.Context, playerId *int64, state mines.GameState) (*GameSession, error)
	GetSession(ctx context.Context, sessionId int64) (*GameSession, error)
	UpdateSession(ctx context.Context, s *GameSession) error
}

// Session rows keep a dead/won column pair; the engine's single status
// enum maps onto it on the way in.
func statusColumns(s mines.GameState) (dead, won bool) {
	return s.Status == mines.Lost, s.Status == mines.Won
}
