/*
Package refart draws the reference art that defines every glyph of a
chessdiag diagram.

There are four reference images, one for each combination of board
orientation and side to move, numbered 2*flipped + blackToMove. Each is a
257 by 257 pixel margined diagram: a one pixel black border, 30 by 30 pixel
squares and a 15 pixel margin on the left and bottom holding the rank and
file labels. The bottom left corner of the margin holds the to-move
indicator, an outlined box for white and a filled box for black.

The board of every reference image carries each of the twelve pieces on a
dark and a light square at the positions returned by chessdiag.Layout, all
other squares are empty.
*/
package refart

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/bodgit/chessdiag"
	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	size      = 8*chessdiag.TileSize + 2 + chessdiag.MarginSize
	discSize  = 11
	boxSize   = 9
	glyphW    = 7
	glyphRise = 4
)

// Every pixel of the reference art is one of these
var (
	Black      = color.RGBA{0x00, 0x00, 0x00, 0xff}
	White      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	DarkSquare = color.RGBA{0xb5, 0x88, 0x63, 0xff}
	LitSquare  = color.RGBA{0xf0, 0xd9, 0xb5, 0xff}

	palette = color.Palette{Black, White, DarkSquare, LitSquare}
)

func fill(m draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(m, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func center(r image.Rectangle) (float64, float64) {
	return float64(r.Min.X+r.Max.X) / 2, float64(r.Min.Y+r.Max.Y) / 2
}

func label(m draw.Image, r image.Rectangle, s string, c color.Color) {
	cx, cy := center(r)
	d := &font.Drawer{
		Dst:  m,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math.Round(cx))-glyphW/2, int(math.Round(cy))+glyphRise),
	}
	d.DrawString(s)
}

// Snap every pixel to the nearest palette entry so anti-aliased edges
// don't leak arbitrary colors into the art
func posterize(m *image.RGBA) {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m.Set(x, y, palette.Convert(m.At(x, y)))
		}
	}
}

func board() (b chessdiag.Board) {
	for _, p := range []chessdiag.Piece{
		chessdiag.WhitePawn, chessdiag.WhiteRook, chessdiag.WhiteKnight,
		chessdiag.WhiteBishop, chessdiag.WhiteQueen, chessdiag.WhiteKing,
		chessdiag.BlackPawn, chessdiag.BlackRook, chessdiag.BlackKnight,
		chessdiag.BlackBishop, chessdiag.BlackQueen, chessdiag.BlackKing,
	} {
		for c := 0; c < 2; c++ {
			sq := chessdiag.Layout(p, c)
			b[int('8'-sq[1])][int(sq[0]-'a')] = p
		}
	}
	return
}

func square(row, col int) string {
	return string([]byte{byte('a' + col), byte('8' - row)})
}

func isWhite(p chessdiag.Piece) bool {
	return p >= 'A' && p <= 'Z'
}

func drawReference(flipped, blackToMove bool) (*image.RGBA, error) {
	m := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(m, m.Bounds(), Black)

	pieces := board()

	// Squares
	boxes := make(map[string]image.Rectangle, 64)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := square(row, col)
			r, err := chessdiag.SquareBox(sq, flipped, true)
			if err != nil {
				return nil, err
			}
			boxes[sq] = r
			if (row+col+1)%2 == 0 {
				fill(m, r, DarkSquare)
			} else {
				fill(m, r, LitSquare)
			}
		}
	}

	// Margin and to-move indicator
	fill(m, image.Rect(1, 1, 1+chessdiag.MarginSize, size-1), White)
	fill(m, image.Rect(1, size-1-chessdiag.MarginSize, size-1, size-1), White)
	corner := image.Rect(1, size-1-chessdiag.MarginSize, 1+chessdiag.MarginSize, size-1)

	dc := gg.NewContextForImage(m)
	defer dc.Close()

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := pieces[row][col]
			if p == chessdiag.NoPiece {
				continue
			}
			x, y := center(boxes[square(row, col)])
			if isWhite(p) {
				dc.SetColor(White)
			} else {
				dc.SetColor(Black)
			}
			dc.DrawCircle(x, y, discSize)
			if err := dc.Fill(); err != nil {
				return nil, err
			}
		}
	}

	inset := (chessdiag.MarginSize - boxSize) / 2
	x, y := float64(corner.Min.X+inset), float64(corner.Min.Y+inset)
	dc.SetColor(Black)
	dc.DrawRectangle(x, y, boxSize, boxSize)
	if err := dc.Fill(); err != nil {
		return nil, err
	}
	if !blackToMove {
		dc.SetColor(White)
		dc.DrawRectangle(x+1, y+1, boxSize-2, boxSize-2)
		if err := dc.Fill(); err != nil {
			return nil, err
		}
	}

	m = dc.Image().(*image.RGBA)
	posterize(m)

	// Piece letters
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := pieces[row][col]
			if p == chessdiag.NoPiece {
				continue
			}
			letter := strings.ToUpper(p.String())
			if isWhite(p) {
				label(m, boxes[square(row, col)], letter, Black)
			} else {
				label(m, boxes[square(row, col)], letter, White)
			}
		}
	}

	// Rank and file labels
	for i := 0; i < 8; i++ {
		rank := byte('8' - i)
		file := byte('a' + i)
		if flipped {
			rank = byte('1' + i)
			file = byte('h' - i)
		}
		top := 1 + i*chessdiag.TileSize
		label(m, image.Rect(1, top, 1+chessdiag.MarginSize, top+chessdiag.TileSize), string([]byte{rank}), Black)
		left := 1 + chessdiag.MarginSize + i*chessdiag.TileSize
		label(m, image.Rect(left, size-1-chessdiag.MarginSize, left+chessdiag.TileSize, size-1), string([]byte{file}), Black)
	}

	return m, nil
}

// Generate draws the four reference images.
func Generate() ([4]*image.RGBA, error) {
	var refs [4]*image.RGBA
	for i := range refs {
		m, err := drawReference(i&2 != 0, i&1 != 0)
		if err != nil {
			return refs, err
		}
		refs[i] = m
	}
	return refs, nil
}
