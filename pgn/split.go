package pgn

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

const noTimeControl = "_"

// TimeControl formats the value of a TimeControl tag for use in a file
// name. "300+5" becomes "5 5", minutes and increment; anything else is
// returned unchanged.
func TimeControl(tc string) string {
	if tc == "" {
		return noTimeControl
	}
	i := strings.IndexByte(tc, '+')
	if i < 0 {
		return tc
	}
	secs, err := strconv.Atoi(tc[:i])
	if err != nil {
		return tc
	}
	return fmt.Sprintf("%d %s", secs/60, tc[i+1:])
}

func timeControl(g *chess.Game) string {
	if tp := g.GetTagPair("TimeControl"); tp != nil {
		return TimeControl(tp.Value)
	}
	return noTimeControl
}

// Split reads every game from r and appends it to the file named
// "root TC.pgn" for its time control. It returns the number of games
// written for each time control.
func Split(r io.Reader, root string) (map[string]int, error) {
	files := make(map[string]*os.File)
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	counts := make(map[string]int)
	scanner := chess.NewScanner(r)
	for scanner.Scan() {
		g := scanner.Next()
		if empty(g) {
			continue
		}
		tc := timeControl(g)

		f, ok := files[tc]
		if !ok {
			var err error
			if f, err = os.Create(root + " " + tc + ".pgn"); err != nil {
				return counts, err
			}
			files[tc] = f
		}

		if _, err := fmt.Fprintf(f, "%s\n\n", g.String()); err != nil {
			return counts, err
		}
		counts[tc]++
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return counts, err
	}

	for tc, f := range files {
		delete(files, tc)
		if err := f.Close(); err != nil {
			return counts, err
		}
	}

	return counts, nil
}
