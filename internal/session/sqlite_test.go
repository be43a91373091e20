package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/nvlasov/minefield/internal/mines"
)

func setupTestStore(t *testing.T) *Sqlite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.db")
	s, err := NewSqlite(path)
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func testState(t *testing.T) mines.GameState {
	t.Helper()
	r := rand.New(rand.NewPCG(1, 2))
	state, err := mines.NewGame(mines.GameParams{
		Width: 9, Height: 9, MineCount: 10,
	}, r)
	if err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	return state
}

func TestSqliteSessionRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	state := testState(t)
	created, err := s.CreateSession(ctx, nil, state)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if created.SessionId == 0 {
		t.Fatal("expected a session id")
	}

	fetched, err := s.GetSession(ctx, created.SessionId)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if !reflect.DeepEqual(fetched.State, state) {
		t.Fatalf("have %+v, want %+v", fetched.State, state)
	}
	if fetched.PlayerId != nil {
		t.Fatalf("expected anonymous session, got player %d", *fetched.PlayerId)
	}
	if !fetched.EndedAt.IsZero() {
		t.Fatalf("expected zero ended_at, got %v", fetched.EndedAt)
	}
}

func TestSqliteSessionUpdate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.CreateSession(ctx, nil, testState(t))
	if err != nil {
		t.Fatal(err)
	}

	created.State = created.State.SetFlag(0, 0, mines.FlagSure)
	created.EndedAt = time.Now().UTC().Truncate(time.Second)
	if err := s.UpdateSession(ctx, created); err != nil {
		t.Fatalf("failed to update session: %v", err)
	}

	fetched, err := s.GetSession(ctx, created.SessionId)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.State.Grid[0][0].Flag != mines.FlagSure {
		t.Fatalf("have %v, want %v", fetched.State.Grid[0][0].Flag, mines.FlagSure)
	}
	if !fetched.EndedAt.Equal(created.EndedAt) {
		t.Fatalf("have %v, want %v", fetched.EndedAt, created.EndedAt)
	}
}

func TestSqliteSessionNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetSession(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found error, received %v", err)
	}
}

func TestSqlitePlayerRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	hash := []byte("not a real hash")
	created, err := s.CreatePlayer(ctx, "alice", hash)
	if err != nil {
		t.Fatalf("failed to create player: %v", err)
	}

	fetched, err := s.GetPlayer(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to get player: %v", err)
	}
	if !reflect.DeepEqual(fetched, created) {
		t.Fatalf("have %+v, want %+v", fetched, created)
	}

	if _, err := s.GetPlayer(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found error, received %v", err)
	}
}

func TestSqliteDuplicateUsername(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.CreatePlayer(ctx, "alice", []byte("h1")); err != nil {
		t.Fatal(err)
	}
	_, err := s.CreatePlayer(ctx, "alice", []byte("h2"))
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username taken error, received %v", err)
	}
}

func TestSqliteSessionBelongsToPlayer(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	player, err := s.CreatePlayer(ctx, "carol", []byte("h"))
	if err != nil {
		t.Fatal(err)
	}

	created, err := s.CreateSession(ctx, &player.PlayerId, testState(t))
	if err != nil {
		t.Fatal(err)
	}
	fetched, err := s.GetSession(ctx, created.SessionId)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.PlayerId == nil || *fetched.PlayerId != player.PlayerId {
		t.Fatalf("have %v, want %d", fetched.PlayerId, player.PlayerId)
	}
}

func TestSqliteReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	s, err := NewSqlite(path)
	if err != nil {
		t.Fatal(err)
	}
	created, err := s.CreateSession(context.Background(), nil, testState(t))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatal(fmt.Errorf("database file missing: %w", err))
	}

	s, err = NewSqlite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.GetSession(context.Background(), created.SessionId); err != nil {
		t.Fatalf("failed to get session after reopen: %v", err)
	}
}
