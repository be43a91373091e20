package main

import (
	"errors"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"

	"github.com/nvlasov/minefield/internal/mines"
	"github.com/nvlasov/minefield/internal/session"
)

var (
	dec = schema.NewDecoder()
	rnd = rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(),
		new(maphash.Hash).Sum64(),
	))
)

func init() {
	dec.IgnoreUnknownKeys(true)
}

type PosParams struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

type FlagParams struct {
	X    int    `schema:"x,required"`
	Y    int    `schema:"y,required"`
	Flag string `schema:"flag,required"`
}

func handleNewGame(w http.ResponseWriter, r *http.Request) {
	var params mines.GameParams
	if err := dec.Decode(&params, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	game, err := mines.NewGame(params, rnd)
	if errors.Is(err, mines.ErrInvalidParams) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	var playerId *int64
	if claims, ok := r.Context().Value(ctxPlayerClaims).(*PlayerClaims); ok {
		log.Debug("creating session for player ", claims.Username)
		playerId = &claims.PlayerId
		refreshPlayerCookies(w, *claims)
	} else {
		log.Debug("creating anonymous session")
	}
	sess, err := store.CreateSession(r.Context(), playerId, game)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, sess); err != nil {
		log.Error(err)
	}
}

func fetchSession(w http.ResponseWriter, r *http.Request) *session.GameSession {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil
	}
	sess, err := store.GetSession(r.Context(), sessionId)
	if errors.Is(err, session.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return nil
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return nil
	}
	return sess
}

func saveAndSend(w http.ResponseWriter, r *http.Request, sess *session.GameSession) {
	if sess.State.Status.Over() && sess.EndedAt.IsZero() {
		sess.EndedAt = time.Now().UTC()
	}
	if err := store.UpdateSession(r.Context(), sess); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, sess); err != nil {
		log.Error(err)
	}
}

func handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess := fetchSession(w, r)
	if sess == nil {
		return
	}
	if _, err := sendJSON(w, sess); err != nil {
		log.Error(err)
	}
}

func handleOpen(w http.ResponseWriter, r *http.Request) {
	var posParams PosParams
	if err := dec.Decode(&posParams, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	sess := fetchSession(w, r)
	if sess == nil {
		return
	}
	if !sess.State.ValidatePoint(posParams.X, posParams.Y) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	sess.State = sess.State.OpenCell(posParams.X, posParams.Y)
	saveAndSend(w, r, sess)
}

func handleFlag(w http.ResponseWriter, r *http.Request) {
	var flagParams FlagParams
	if err := dec.Decode(&flagParams, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	flag, err := mines.ParseFlag(flagParams.Flag)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	sess := fetchSession(w, r)
	if sess == nil {
		return
	}
	if !sess.State.ValidatePoint(flagParams.X, flagParams.Y) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	sess.State = sess.State.SetFlag(flagParams.X, flagParams.Y, flag)
	saveAndSend(w, r, sess)
}

type commandError struct {
	Loc     int    `json:"loc"`
	Message string `json:"message"`
}

// Accepts newline-separated commands transferred via body of following syntax:
//
//	o x y   // open a square at x:y
//	f x y m // flag a square at x:y with mark m (n, u or s)
//	g       // no-op, returns game state
//
// Commands are interpreted in the order they are listed. If any command
// results in a game over, interpretation stops and game state is returned
// immediately. If any command is malformed, all changes to game state will be
// dropped and response will have a status of [http.StatusBadRequest] and a
// payload with command's line number and an error message.
func handleBatch(w http.ResponseWriter, r *http.Request) {
	sess := fetchSession(w, r)
	if sess == nil {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	lines := strings.TrimSpace(string(body))
	if loc, err := executeScript(&sess.State, lines); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		if _, err := sendJSON(w, commandError{loc, err.Error()}); err != nil {
			log.Error(err)
		}
		return
	}
	saveAndSend(w, r, sess)
}
