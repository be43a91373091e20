package main

import (
	"errors"
	"strconv"
	"strings"

	"github.com/nvlasov/minefield/internal/mines"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0,
	"o": 2,
	"f": 3,
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

// Interprets a single game command against g:
//
//	o x y   // open a square at x:y
//	f x y m // flag a square at x:y with mark m (n, u or s)
//	g       // no-op
func executeCommand(g *mines.GameState, c string) (err error) {
	parts := strings.Split(c, " ")
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}
	switch parts[0] {
	case "g":
		return
	case "o":
		if x, y, err := parseXY(parts[1:]); err != nil {
			return err
		} else if !g.ValidatePoint(x, y) {
			return errors.New("invalid square coordinates")
		} else {
			*g = g.OpenCell(x, y)
		}
		return
	case "f":
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		if !g.ValidatePoint(x, y) {
			return errors.New("invalid square coordinates")
		}
		flag, err := mines.ParseFlag(parts[3])
		if err != nil {
			return err
		}
		*g = g.SetFlag(x, y, flag)
		return nil
	}
	return errors.New("invalid command")
}

// executeScript interprets a newline-separated command list against g,
// stopping as soon as the game reaches a terminal status. Commands past
// that point are never interpreted, malformed ones included. On a
// malformed command it returns the zero-based line number with the error.
func executeScript(g *mines.GameState, script string) (int, error) {
	for i, c := range byPiece(script, "\n") {
		if err := executeCommand(g, c); err != nil {
			return i, err
		}
		if g.Status.Over() {
			break
		}
	}
	return 0, nil
}
