package main

import (
	"encoding/json"
	"iter"
	"net/http"
	"strings"
)

// byPiece yields the pieces of s split by sep together with their
// positions, without collecting the whole slice up front. Unlike
// [strings.Split] on an empty input it still yields one empty piece.
func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i := 0; ; i++ {
			piece, rest, found := strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			if !found {
				return
			}
			s = rest
		}
	}
}

// sendJSON marshals v and writes it as the response body.
func sendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}
