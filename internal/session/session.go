package session

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/nvlasov/minefield/internal/mines"
)

// GameSession binds one engine GameState to its storage row. The engine's
// transitions are pure, so handlers assign the transition result back to
// State and persist the session as a whole.
type GameSession struct {
	SessionId int64
	PlayerId  *int64
	State     mines.GameState
	StartedAt time.Time
	EndedAt   time.Time
}

type GameSessionJSON struct {
	SessionId string         `json:"session_id"`
	Grid      mines.GridView `json:"grid"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	MineCount int            `json:"mine_count"`
	Status    string         `json:"status"`
	StartedAt int64          `json:"started_at"`
	EndedAt   *int64         `json:"ended_at,omitempty"`
}

// MarshalJSON sends the player view only; the raw grid with mine placement
// never crosses the process boundary.
func (s GameSession) MarshalJSON() ([]byte, error) {
	var endedAt *int64
	if !s.EndedAt.IsZero() {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return json.Marshal(GameSessionJSON{
		SessionId: strconv.FormatInt(s.SessionId, 10),
		Grid:      s.State.PlayerView(),
		Width:     s.State.Width,
		Height:    s.State.Height,
		MineCount: s.State.MineCount,
		Status:    s.State.Status.String(),
		StartedAt: s.StartedAt.UnixMilli(),
		EndedAt:   endedAt,
	})
}
