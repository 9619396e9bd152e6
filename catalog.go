package chessdiag

import (
	"errors"
	"image"
	"image/draw"
)

// Codes in the order they are tried when classifying a tile
var codes = [...]Piece{
	WhitePawn, WhiteRook, WhiteKnight, WhiteBishop, WhiteQueen, WhiteKing,
	BlackPawn, BlackRook, BlackKnight, BlackBishop, BlackQueen, BlackKing,
	NoPiece,
}

// Squares in the first reference image holding each glyph on a dark and a
// light square
var layout = map[Piece][numColors]string{
	WhitePawn:   {"a1", "a2"},
	WhiteRook:   {"b2", "b1"},
	WhiteKnight: {"c1", "c2"},
	WhiteBishop: {"d2", "d1"},
	WhiteQueen:  {"e1", "e2"},
	WhiteKing:   {"f2", "f1"},
	BlackPawn:   {"a3", "a4"},
	BlackRook:   {"b4", "b3"},
	BlackKnight: {"c3", "c4"},
	BlackBishop: {"d4", "d3"},
	BlackQueen:  {"e3", "e4"},
	BlackKing:   {"f4", "f3"},
	NoPiece:     {"g1", "g2"},
}

// Layout returns the square of the first reference image that holds the
// glyph for p on a dark (color 0) or light (color 1) square. It returns ""
// for any other color or for a code that isn't a piece or NoPiece.
func Layout(p Piece, color int) string {
	if color != dark && color != light {
		return ""
	}
	return layout[p][color]
}

type margin struct {
	left, bottom *image.RGBA
}

// Catalog holds the tile glyphs and margin artwork cut from the four
// reference images. It is immutable once built and safe for concurrent use.
type Catalog struct {
	tiles   map[Piece][numColors]*image.RGBA
	margins [numVariant]margin
}

func variant(flipped, blackToMove bool) int {
	i := 0
	if flipped {
		i += 2
	}
	if blackToMove {
		i++
	}
	return i
}

func crop(m image.Image, r image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), m, r.Min, draw.Src)
	return dst
}

// NewCatalog builds a catalog from the four reference images, indexed by
// 2*flipped + blackToMove. Each must be a margined diagram; the glyphs are
// taken from the first one.
func NewCatalog(refs [numVariant]image.Image) (*Catalog, error) {
	for _, ref := range refs {
		if ref == nil {
			return nil, errors.New("chessdiag: missing reference image")
		}
		b := ref.Bounds()
		if b.Dx() != Dimension(true) || b.Dy() != Dimension(true) {
			return nil, &DimensionError{Width: b.Dx(), Height: b.Dy()}
		}
	}

	c := &Catalog{
		tiles: make(map[Piece][numColors]*image.RGBA, len(codes)),
	}

	base := refs[0].Bounds().Min
	for _, p := range codes {
		var t [numColors]*image.RGBA
		for color, sq := range layout[p] {
			r, err := SquareBox(sq, false, true)
			if err != nil {
				return nil, err
			}
			t[color] = crop(refs[0], r.Add(base))
		}
		c.tiles[p] = t
	}

	// Every glyph must be distinguishable on both square colors
	for color := 0; color < numColors; color++ {
		for i, p := range codes {
			for _, q := range codes[i+1:] {
				if equalPixels(c.tiles[p][color], c.tiles[q][color], 0) {
					return nil, ErrDuplicateGlyph
				}
			}
		}
	}

	for i, ref := range refs {
		min := ref.Bounds().Min
		c.margins[i] = margin{
			left:   crop(ref, leftMarginRect.Add(min)),
			bottom: crop(ref, bottomMarginRect.Add(min)),
		}
	}

	return c, nil
}

// Tile returns a copy of the glyph for p on a dark (0) or light (1)
// square, or nil for any other color or code.
func (c *Catalog) Tile(p Piece, color int) image.Image {
	if color != dark && color != light {
		return nil
	}
	t, ok := c.tiles[p]
	if !ok {
		return nil
	}
	return crop(t[color], t[color].Bounds())
}

func abs(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// Both images must have their origin at (0, 0)
func equalPixels(a, b *image.RGBA, tolerance uint8) bool {
	if a.Rect != b.Rect {
		return false
	}
	w := a.Rect.Dx() * 4
	for y := 0; y < a.Rect.Dy(); y++ {
		ra := a.Pix[y*a.Stride : y*a.Stride+w]
		rb := b.Pix[y*b.Stride : y*b.Stride+w]
		for i := range ra {
			if ra[i] != rb[i] && (tolerance == 0 || abs(ra[i], rb[i]) > tolerance) {
				return false
			}
		}
	}
	return true
}
