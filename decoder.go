package chessdiag

import "image"

// Notation fields that cannot be recovered from a diagram
const placeholderFields = "- - 0 1"

// Diagram is the result of recognizing a diagram image.
type Diagram struct {
	Position
	// Flipped is true when black is at the bottom
	Flipped bool
	// HasMargin is true when the diagram carries coordinates and a to-move
	// indicator; without one the side to move is always white.
	HasMargin bool
}

// Notation returns the full notation of the recognized position. Castling
// rights, the en passant target and the clocks are placeholders.
func (d *Diagram) Notation() string {
	return d.Position.String() + " " + placeholderFields
}

// HasMargin reports whether m is a diagram with a margin, returning a
// *DimensionError if it is not a diagram at all.
func HasMargin(m image.Image) (bool, error) {
	b := m.Bounds()
	if b.Dx() == b.Dy() {
		switch b.Dx() {
		case Dimension(false):
			return false, nil
		case Dimension(true):
			return true, nil
		}
	}
	return false, &DimensionError{Width: b.Dx(), Height: b.Dy()}
}

// Decoder recognizes diagrams drawn with a catalog's reference art.
type Decoder struct {
	Catalog *Catalog
	// Tolerance is the largest difference allowed between any channel of
	// a pixel and the reference. The default of zero demands an exact
	// match, which is all that diagrams produced by Encode need; anything
	// else risks misclassifying similar glyphs.
	Tolerance uint8
}

func (d *Decoder) orientation(m *image.RGBA) (flipped, blackToMove bool, err error) {
	strip := crop(m, bottomMarginRect)
	matches := 0
	for _, f := range []bool{false, true} {
		for _, b := range []bool{false, true} {
			if equalPixels(strip, d.Catalog.margins[variant(f, b)].bottom, d.Tolerance) {
				flipped, blackToMove = f, b
				matches++
			}
		}
	}
	if matches != 1 {
		return false, false, ErrAmbiguousOrientation
	}
	return flipped, blackToMove, nil
}

// DetectOrientation reports the orientation and side to move shown in the
// margin of m. A diagram without a margin is assumed to be the right way
// up with white to move.
func (d *Decoder) DetectOrientation(m image.Image) (flipped, blackToMove bool, err error) {
	margin, err := HasMargin(m)
	if err != nil || !margin {
		return false, false, err
	}
	return d.orientation(normalize(m))
}

// Decode recognizes every square of m. Any failure aborts the whole decode.
func (d *Decoder) Decode(m image.Image) (*Diagram, error) {
	margin, err := HasMargin(m)
	if err != nil {
		return nil, err
	}

	rgba := normalize(m)

	diag := &Diagram{HasMargin: margin}
	if margin {
		if diag.Flipped, diag.BlackToMove, err = d.orientation(rgba); err != nil {
			return nil, err
		}
	}

	for row := 0; row < ranks; row++ {
		for col := 0; col < files; col++ {
			tile := crop(rgba, tileRect(row, col, diag.Flipped, margin))
			p, err := d.Catalog.classify(tile, row, col, d.Tolerance)
			if err != nil {
				return nil, err
			}
			diag.Board[row][col] = p
		}
	}

	return diag, nil
}

// DetectOrientation is shorthand for an exact-matching Decoder's method.
func (c *Catalog) DetectOrientation(m image.Image) (flipped, blackToMove bool, err error) {
	d := Decoder{Catalog: c}
	return d.DetectOrientation(m)
}

// Decode is shorthand for an exact-matching Decoder's method.
func (c *Catalog) Decode(m image.Image) (*Diagram, error) {
	d := Decoder{Catalog: c}
	return d.Decode(m)
}
