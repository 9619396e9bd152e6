/*
Package pgn extracts positions from games stored in Portable Game Notation
so they can be drawn as diagrams.
*/
package pgn

import (
	"errors"
	"fmt"
	"io"

	"github.com/notnil/chess"
)

var errNoGame = errors.New("pgn: no such game")

// The scanner produces a game with nothing in it for input that isn't PGN
func empty(g *chess.Game) bool {
	return g == nil || len(g.TagPairs()) == 0 && len(g.Moves()) == 0
}

// Position returns the notation of the position reached in the n'th game
// (counting from 1) of r after ply half-moves. A negative ply selects the
// final position of the game.
func Position(r io.Reader, n, ply int) (string, error) {
	if n < 1 {
		return "", errNoGame
	}

	scanner := chess.NewScanner(r)
	for i := 0; scanner.Scan(); {
		g := scanner.Next()
		if empty(g) {
			continue
		}
		if i++; i < n {
			continue
		}

		positions := g.Positions()
		if ply < 0 {
			ply = len(positions) - 1
		}
		if ply >= len(positions) {
			return "", fmt.Errorf("pgn: game %d has only %d half-moves", n, len(positions)-1)
		}
		return positions[ply].String(), nil
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return "", err
	}

	return "", errNoGame
}
