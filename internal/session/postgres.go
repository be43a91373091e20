package session

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvlasov/minefield/internal/mines"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres is the pooled multi-node [Store].
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dbUrl string) (*Postgres, error) {
	if err := migrateUp(dbUrl); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	pool, err := pgxpool.New(ctx, dbUrl)
	if err != nil {
		return nil, err
	}
	return &Postgres{pool}, nil
}

func migrateUp(dbUrl string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbUrl)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) CreatePlayer(
	ctx context.Context, username string, passwordHash []byte,
) (*Player, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO player (username, password_hash)
		VALUES (@username, @passwordHash)
		RETURNING player_id;`,
		pgx.NamedArgs{
			"username":     username,
			"passwordHash": passwordHash,
		})
	player := &Player{Username: username, PasswordHash: passwordHash}
	err := row.Scan(&player.PlayerId)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return nil, ErrUsernameTaken
	} else if err != nil {
		return nil, err
	}
	return player, nil
}

func (p *Postgres) GetPlayer(ctx context.Context, username string) (*Player, error) {
	player := &Player{Username: username}
	err := p.pool.QueryRow(ctx, `
		SELECT player_id, password_hash
		FROM player
		WHERE username = @username;`,
		pgx.NamedArgs{"username": username},
	).Scan(&player.PlayerId, &player.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return player, nil
}

func (p *Postgres) CreateSession(
	ctx context.Context, playerId *int64, state mines.GameState,
) (*GameSession, error) {
	stateBuf, err := state.Bytes()
	if err != nil {
		return nil, err
	}
	dead, won := statusColumns(state)
	session := &GameSession{PlayerId: playerId, State: state}
	var startedAt pgtype.Timestamptz
	err = p.pool.QueryRow(ctx, `
		INSERT INTO game_session (
			player_id, width, height, mine_count, dead, won, state
		)
		VALUES (
			@playerId, @width, @height, @mineCount, @dead, @won, @state
		)
		RETURNING game_session_id, started_at;`,
		pgx.NamedArgs{
			"playerId":  playerId,
			"width":     state.Width,
			"height":    state.Height,
			"mineCount": state.MineCount,
			"dead":      dead,
			"won":       won,
			"state":     stateBuf,
		}).Scan(&session.SessionId, &startedAt)
	if err != nil {
		return nil, err
	}
	session.StartedAt = startedAt.Time
	return session, nil
}

func (p *Postgres) GetSession(
	ctx context.Context, sessionId int64,
) (*GameSession, error) {
	var (
		playerId *int64
		stateBuf []byte
		started  pgtype.Timestamptz
		ended    pgtype.Timestamptz
	)
	err := p.pool.QueryRow(ctx, `
		SELECT player_id, state, started_at, ended_at
		FROM game_session
		WHERE game_session_id = @sessionId;`,
		pgx.NamedArgs{"sessionId": sessionId},
	).Scan(&playerId, &stateBuf, &started, &ended)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	state, err := mines.DecodeGameState(stateBuf)
	if err != nil {
		return nil, err
	}
	return &GameSession{
		SessionId: sessionId,
		PlayerId:  playerId,
		State:     *state,
		StartedAt: started.Time,
		EndedAt:   ended.Time,
	}, nil
}

func (p *Postgres) UpdateSession(ctx context.Context, session *GameSession) error {
	stateBuf, err := session.State.Bytes()
	if err != nil {
		return err
	}
	var endedAt *time.Time
	if !session.EndedAt.IsZero() {
		endedAt = &session.EndedAt
	}
	dead, won := statusColumns(session.State)
	_, err = p.pool.Exec(ctx, `
		UPDATE game_session
		SET dead = @dead
			, won = @won
			, ended_at = @endedAt
			, state = @state
		WHERE game_session_id = @sessionId;`,
		pgx.NamedArgs{
			"dead":      dead,
			"won":       won,
			"endedAt":   endedAt,
			"state":     stateBuf,
			"sessionId": session.SessionId,
		})
	return err
}
