package chessdiag

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousOrientation is returned when the bottom margin of a
	// diagram matches none, or more than one, of the reference variants.
	ErrAmbiguousOrientation = errors.New("chessdiag: ambiguous orientation")

	// ErrDuplicateGlyph is returned by NewCatalog when two codes share the
	// same glyph on the same square color.
	ErrDuplicateGlyph = errors.New("chessdiag: duplicate glyph in reference art")
)

// DimensionError reports an image that is neither a bare nor a margined
// diagram.
type DimensionError struct {
	Width, Height int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("chessdiag: malformed image dimensions %dx%d", e.Width, e.Height)
}

// TileError reports a tile that matches no reference glyph. Row 0 is rank
// 8 and column 0 is the a-file, whatever the orientation of the diagram.
type TileError struct {
	Row, Col int
}

func (e *TileError) Error() string {
	return fmt.Sprintf("chessdiag: unrecognized tile at row %d, column %d", e.Row, e.Col)
}

// SyntaxError reports invalid board notation. Pos is the byte offset of
// the offending character.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("chessdiag: invalid notation at offset %d: %s", e.Pos, e.Msg)
}
