package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/nvlasov/minefield/internal/mines"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS player (
	player_id		INTEGER PRIMARY KEY AUTOINCREMENT,
	username		TEXT NOT NULL UNIQUE,
	password_hash	BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS game_session (
	game_session_id	INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id		INTEGER REFERENCES player (player_id),
	width			INTEGER NOT NULL,
	height			INTEGER NOT NULL,
	mine_count		INTEGER NOT NULL,
	dead			INTEGER NOT NULL DEFAULT 0,
	won				INTEGER NOT NULL DEFAULT 0,
	started_at		TIMESTAMP NOT NULL,
	ended_at		TIMESTAMP,
	state			BLOB NOT NULL
);`

// Sqlite is the embedded single-node [Store]. Game states are stored as
// gob blobs next to the queryable dimension columns.
type Sqlite struct {
	db *sql.DB
}

func NewSqlite(path string) (*Sqlite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Sqlite{db}, nil
}

func (s *Sqlite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Sqlite) Close() {
	s.db.Close()
}

func (s *Sqlite) CreatePlayer(
	ctx context.Context, username string, passwordHash []byte,
) (*Player, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO player (username, password_hash)
		VALUES (?, ?);`,
		username, passwordHash)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return nil, ErrUsernameTaken
	} else if err != nil {
		return nil, err
	}
	playerId, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Player{
		PlayerId:     playerId,
		Username:     username,
		PasswordHash: passwordHash,
	}, nil
}

func (s *Sqlite) GetPlayer(ctx context.Context, username string) (*Player, error) {
	player := &Player{Username: username}
	err := s.db.QueryRowContext(ctx, `
		SELECT player_id, password_hash
		FROM player
		WHERE username = ?;`,
		username).Scan(&player.PlayerId, &player.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return player, nil
}

func (s *Sqlite) CreateSession(
	ctx context.Context, playerId *int64, state mines.GameState,
) (*GameSession, error) {
	stateBuf, err := state.Bytes()
	if err != nil {
		return nil, err
	}
	dead, won := statusColumns(state)
	startedAt := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO game_session (
			player_id, width, height, mine_count, dead, won, started_at, state
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		playerId, state.Width, state.Height, state.MineCount,
		dead, won, startedAt, stateBuf)
	if err != nil {
		return nil, err
	}
	sessionId, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &GameSession{
		SessionId: sessionId,
		PlayerId:  playerId,
		State:     state,
		StartedAt: startedAt,
	}, nil
}

func (s *Sqlite) GetSession(
	ctx context.Context, sessionId int64,
) (*GameSession, error) {
	var (
		playerId sql.NullInt64
		stateBuf []byte
		started  time.Time
		ended    sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT player_id, state, started_at, ended_at
		FROM game_session
		WHERE game_session_id = ?;`,
		sessionId).Scan(&playerId, &stateBuf, &started, &ended)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	state, err := mines.DecodeGameState(stateBuf)
	if err != nil {
		return nil, err
	}
	session := &GameSession{
		SessionId: sessionId,
		State:     *state,
		StartedAt: started,
		EndedAt:   ended.Time,
	}
	if playerId.Valid {
		session.PlayerId = &playerId.Int64
	}
	return session, nil
}

func (s *Sqlite) UpdateSession(ctx context.Context, session *GameSession) error {
	stateBuf, err := session.State.Bytes()
	if err != nil {
		return err
	}
	var endedAt any
	if !session.EndedAt.IsZero() {
		endedAt = session.EndedAt
	}
	dead, won := statusColumns(session.State)
	_, err = s.db.ExecContext(ctx, `
		UPDATE game_session
		SET dead = ?
			, won = ?
			, ended_at = ?
			, state = ?
		WHERE game_session_id = ?;`,
		dead, won, endedAt, stateBuf, session.SessionId)
	return err
}
