package chessdiag

import (
	"bufio"
	"io"
	"regexp"
)

var (
	toPlayRe = regexp.MustCompile(`(\w+) to (play|move)`)
	imgSrcRe = regexp.MustCompile(`<img src="(.*?)">`)
)

const maxLine = 1 << 20

var strToBlack = map[string]bool{
	"B":     true,
	"W":     false,
	"Black": true,
	"White": false,
}

// ParseHint extracts the image name and side to move from a single line
// of a flash card export, such as
//
//	What's best? <img src="images/diag12.png"> Black to play
//
// ok is false unless the line has both an image and a recognized side.
func ParseHint(line string) (image string, blackToMove, ok bool) {
	m := imgSrcRe.FindStringSubmatch(line)
	if m == nil {
		return "", false, false
	}
	s := toPlayRe.FindStringSubmatch(line)
	if s == nil {
		return m[1], false, false
	}
	blackToMove, ok = strToBlack[s[1]]
	return m[1], blackToMove, ok
}

// ImportHints reads a flash card export from r and records a side to
// move hint for every image it mentions. It returns the number of hints
// recorded.
func (db *DiagramDB) ImportHints(r io.Reader) (int, error) {
	n := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		image, blackToMove, ok := ParseHint(scanner.Text())
		if !ok {
			continue
		}
		if err := db.SetHint(image, blackToMove); err != nil {
			return n, err
		}
		n++
	}
	return n, scanner.Err()
}
