package pgn_test

import (
	"strings"
	"testing"

	"github.com/bodgit/chessdiag"
	"github.com/bodgit/chessdiag/pgn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const games = `[Event "First"]
[Site "?"]
[Date "????.??.??"]
[Round "1"]
[White "A"]
[Black "B"]
[Result "*"]

1. e4 e5 2. Nf3 *

[Event "Second"]
[Site "?"]
[Date "????.??.??"]
[Round "2"]
[White "B"]
[Black "A"]
[Result "*"]

1. d4 *
`

func TestPosition(t *testing.T) {
	tables := []struct {
		name   string
		game   int
		ply    int
		prefix string
	}{
		{"start", 1, 0, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w"},
		{"first move", 1, 1, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b"},
		{"final", 1, -1, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b"},
		{"second game", 2, -1, "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b"},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			s, err := pgn.Position(strings.NewReader(games), table.game, table.ply)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(s, table.prefix), "got %s", s)

			// Whatever the library appends must still parse
			p, err := chessdiag.ParseNotation(s)
			require.NoError(t, err)
			assert.Equal(t, table.prefix, p.String())
		})
	}
}

func TestPositionErrors(t *testing.T) {
	tables := []struct {
		name string
		game int
		ply  int
	}{
		{"no game zero", 0, 0},
		{"missing game", 3, 0},
		{"ply past end", 1, 4},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := pgn.Position(strings.NewReader(games), table.game, table.ply)
			assert.Error(t, err)
		})
	}
}

func TestPositionNotPGN(t *testing.T) {
	for _, s := range []string{"", "\n\n", "not pgn at all"} {
		_, err := pgn.Position(strings.NewReader(s), 1, -1)
		assert.Error(t, err, "%q", s)
	}
}
