package chessdiag

import (
	"strconv"
	"strings"
)

// Piece is a single square's occupant using the usual notation letters,
// upper case for white. NoPiece is an empty square.
type Piece byte

// Pieces
const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 'P'
	WhiteKnight Piece = 'N'
	WhiteBishop Piece = 'B'
	WhiteRook   Piece = 'R'
	WhiteQueen  Piece = 'Q'
	WhiteKing   Piece = 'K'
	BlackPawn   Piece = 'p'
	BlackKnight Piece = 'n'
	BlackBishop Piece = 'b'
	BlackRook   Piece = 'r'
	BlackQueen  Piece = 'q'
	BlackKing   Piece = 'k'
)

const (
	ranks = 8
	files = 8
)

// Valid reports whether p is one of the twelve pieces.
func (p Piece) Valid() bool {
	return strings.IndexByte("PNBRQKpnbrqk", byte(p)) >= 0
}

func (p Piece) String() string {
	if p == NoPiece {
		return " "
	}
	return string(p)
}

// Board is an 8 by 8 grid indexed [row][col], row 0 being rank 8 and
// column 0 being the a-file.
type Board [ranks][files]Piece

// String returns the board field of the notation, rank 8 first with runs
// of empty squares collapsed into a count.
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < ranks; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < files; col++ {
			if b[row][col] == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(byte(b[row][col]))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	return sb.String()
}

// Position is a board plus the side to move.
type Position struct {
	Board       Board
	BlackToMove bool
}

func (p Position) side() string {
	if p.BlackToMove {
		return "b"
	}
	return "w"
}

// String returns the board and side to move fields.
func (p Position) String() string {
	return p.Board.String() + " " + p.side()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// ParseNotation parses s, which must start with a complete board field in
// its canonical form, each run of empty squares being a single digit. An
// optional side to move field of "w" or "b" may follow; anything after that
// (castling rights, en passant target, clocks) is accepted and ignored.
func ParseNotation(s string) (Position, error) {
	var p Position

	end := strings.IndexByte(s, ' ')
	if end < 0 {
		end = len(s)
	}
	if end == 0 {
		return p, &SyntaxError{Pos: 0, Msg: "missing board field"}
	}

	row, col := 0, 0
	for i := 0; i < end; i++ {
		c := s[i]
		switch {
		case c == '/':
			if col != files {
				return p, &SyntaxError{Pos: i, Msg: "rank does not cover 8 files"}
			}
			row++
			col = 0
			if row == ranks {
				return p, &SyntaxError{Pos: i, Msg: "too many ranks"}
			}
		case c >= '1' && c <= '8':
			if i > 0 && isDigit(s[i-1]) {
				return p, &SyntaxError{Pos: i, Msg: "empty squares must be a single digit"}
			}
			col += int(c - '0')
			if col > files {
				return p, &SyntaxError{Pos: i, Msg: "rank overflows 8 files"}
			}
		case Piece(c).Valid():
			if col == files {
				return p, &SyntaxError{Pos: i, Msg: "rank overflows 8 files"}
			}
			p.Board[row][col] = Piece(c)
			col++
		default:
			return p, &SyntaxError{Pos: i, Msg: "unexpected character " + strconv.QuoteRune(rune(c))}
		}
	}
	if row != ranks-1 || col != files {
		return p, &SyntaxError{Pos: end, Msg: "board field is incomplete"}
	}

	if end == len(s) {
		return p, nil
	}

	// Side to move, if present
	rest := strings.TrimLeft(s[end:], " ")
	offset := len(s) - len(rest)
	if rest == "" {
		return p, nil
	}
	side := rest
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		side = rest[:i]
	}
	switch side {
	case "w":
	case "b":
		p.BlackToMove = true
	default:
		return p, &SyntaxError{Pos: offset, Msg: "side to move must be w or b"}
	}

	return p, nil
}
