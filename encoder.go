package chessdiag

import (
	"fmt"
	"image"
	"image/draw"
)

// Options control how a position is drawn.
type Options struct {
	// Flip draws the board with black at the bottom
	Flip bool
	// ShowMargin adds the coordinates and to-move indicator
	ShowMargin bool
	// BlackToMove selects the to-move indicator in the margin
	BlackToMove bool
}

// Resolve returns the options actually used to draw p: black to move in
// the position forces the indicator on even if the caller didn't ask for
// it.
func (o Options) Resolve(p Position) Options {
	if p.BlackToMove {
		o.BlackToMove = true
	}
	return o
}

func paste(dst *image.RGBA, src *image.RGBA, at image.Point) {
	draw.Draw(dst, src.Bounds().Add(at), src, image.Point{}, draw.Src)
}

// Encode draws p as a diagram.
func (c *Catalog) Encode(p Position, o Options) (*image.RGBA, error) {
	for row := range p.Board {
		for col, piece := range p.Board[row] {
			if piece != NoPiece && !piece.Valid() {
				return nil, fmt.Errorf("chessdiag: invalid piece %q at row %d, column %d", byte(piece), row, col)
			}
		}
	}

	o = o.Resolve(p)

	size := Dimension(o.ShowMargin)
	m := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(m, m.Bounds(), image.Black, image.Point{}, draw.Src)

	for row := 0; row < ranks; row++ {
		for col := 0; col < files; col++ {
			t := c.tiles[p.Board[row][col]][squareColor(row, col)]
			paste(m, t, tileRect(row, col, o.Flip, o.ShowMargin).Min)
		}
	}

	if o.ShowMargin {
		v := c.margins[variant(o.Flip, o.BlackToMove)]
		paste(m, v.left, leftMarginRect.Min)
		paste(m, v.bottom, bottomMarginRect.Min)
	}

	return m, nil
}

// EncodeNotation parses s and draws the resulting position.
func (c *Catalog) EncodeNotation(s string, o Options) (*image.RGBA, error) {
	p, err := ParseNotation(s)
	if err != nil {
		return nil, err
	}
	return c.Encode(p, o)
}
