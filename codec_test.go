package chessdiag_test

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/bodgit/chessdiag"
	"github.com/bodgit/chessdiag/refart"
	"github.com/nfnt/resize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var positions = []string{
	"8/8/8/8/8/8/8/8",
	startBoard,
	"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR",
	"8/5k2/8/3Pp3/8/8/1K6/8",
	"rnbqkbnr/pppppppp/pppppppp/qqqqqqqq/QQQQQQQQ/PPPPPPPP/PPPPPPPP/RNBQKBNR",
	"K7/8/8/8/8/8/8/7k",
}

func testCatalog(t *testing.T) *chessdiag.Catalog {
	t.Helper()
	c, err := refart.Catalog()
	require.NoError(t, err)
	return c
}

func references(t *testing.T) [4]image.Image {
	t.Helper()
	refs, err := refart.Generate()
	require.NoError(t, err)
	var imgs [4]image.Image
	for i, m := range refs {
		imgs[i] = m
	}
	return imgs
}

func rotate(b chessdiag.Board) chessdiag.Board {
	var r chessdiag.Board
	for row := range b {
		for col := range b[row] {
			r[7-row][7-col] = b[row][col]
		}
	}
	return r
}

func allOptions() []chessdiag.Options {
	var opts []chessdiag.Options
	for _, flip := range []bool{false, true} {
		for _, margin := range []bool{false, true} {
			for _, black := range []bool{false, true} {
				opts = append(opts, chessdiag.Options{Flip: flip, ShowMargin: margin, BlackToMove: black})
			}
		}
	}
	return opts
}

func TestNewCatalog(t *testing.T) {
	_, err := chessdiag.NewCatalog(references(t))
	assert.NoError(t, err)
}

func TestNewCatalogWrongSize(t *testing.T) {
	refs := references(t)
	refs[2] = image.NewRGBA(image.Rect(0, 0, 242, 242))

	_, err := chessdiag.NewCatalog(refs)
	var de *chessdiag.DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, chessdiag.DimensionError{Width: 242, Height: 242}, *de)
}

func TestNewCatalogMissing(t *testing.T) {
	refs := references(t)
	refs[1] = nil

	_, err := chessdiag.NewCatalog(refs)
	assert.Error(t, err)
}

func TestNewCatalogDuplicateGlyph(t *testing.T) {
	refs := references(t)
	base := image.NewRGBA(refs[0].Bounds())
	draw.Draw(base, base.Bounds(), refs[0], image.Point{}, draw.Src)

	// Overwrite the dark square rook with the dark square pawn
	pawn, err := chessdiag.SquareBox(chessdiag.Layout(chessdiag.WhitePawn, 0), false, true)
	require.NoError(t, err)
	rook, err := chessdiag.SquareBox(chessdiag.Layout(chessdiag.WhiteRook, 0), false, true)
	require.NoError(t, err)
	draw.Draw(base, rook, refs[0], pawn.Min, draw.Src)
	refs[0] = base

	_, err = chessdiag.NewCatalog(refs)
	assert.Equal(t, chessdiag.ErrDuplicateGlyph, err)
}

func TestClassifyEveryGlyph(t *testing.T) {
	c := testCatalog(t)

	pieces := []chessdiag.Piece{
		chessdiag.WhitePawn, chessdiag.WhiteRook, chessdiag.WhiteKnight,
		chessdiag.WhiteBishop, chessdiag.WhiteQueen, chessdiag.WhiteKing,
		chessdiag.BlackPawn, chessdiag.BlackRook, chessdiag.BlackKnight,
		chessdiag.BlackBishop, chessdiag.BlackQueen, chessdiag.BlackKing,
		chessdiag.NoPiece,
	}

	for _, p := range pieces {
		for sq := 0; sq < 2; sq++ {
			// (0, 0) is a light square, (0, 1) a dark one
			got, err := c.Classify(c.Tile(p, sq), 0, 1-sq)
			require.NoError(t, err)
			assert.Equal(t, p, got, "%q on color %d", byte(p), sq)
		}
	}
}

func TestClassifyWrongColor(t *testing.T) {
	c := testCatalog(t)

	_, err := c.Classify(c.Tile(chessdiag.NoPiece, 0), 0, 0)
	var te *chessdiag.TileError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, chessdiag.TileError{Row: 0, Col: 0}, *te)
}

func TestClassifyOutsideBoard(t *testing.T) {
	c := testCatalog(t)
	tile := c.Tile(chessdiag.NoPiece, 0)

	tables := []struct {
		row, col int
	}{
		{-1, 0},
		{0, -1},
		{8, 0},
		{0, 8},
	}

	for _, table := range tables {
		_, err := c.Classify(tile, table.row, table.col)
		var te *chessdiag.TileError
		require.True(t, errors.As(err, &te), "%d, %d", table.row, table.col)
		assert.Equal(t, chessdiag.TileError{Row: table.row, Col: table.col}, *te)
	}
}

func TestTileInvalid(t *testing.T) {
	c := testCatalog(t)

	assert.Nil(t, c.Tile(chessdiag.WhitePawn, 2))
	assert.Nil(t, c.Tile(chessdiag.WhitePawn, -1))
	assert.Nil(t, c.Tile('x', 0))
	assert.NotNil(t, c.Tile(chessdiag.NoPiece, 1))

	assert.Equal(t, "", chessdiag.Layout(chessdiag.WhitePawn, 2))
	assert.Equal(t, "", chessdiag.Layout('x', 0))
	assert.Equal(t, "a1", chessdiag.Layout(chessdiag.WhitePawn, 0))
}

func TestClassifyOffsetTile(t *testing.T) {
	c := testCatalog(t)

	// A sub-image keeps the coordinates of its parent
	m, err := c.EncodeNotation(startBoard, chessdiag.Options{})
	require.NoError(t, err)
	r, err := chessdiag.SquareBox("e1", false, false)
	require.NoError(t, err)

	got, err := c.Classify(m.SubImage(r), 7, 4)
	require.NoError(t, err)
	assert.Equal(t, chessdiag.WhiteKing, got)
}

func TestEncodeSize(t *testing.T) {
	c := testCatalog(t)

	for _, o := range allOptions() {
		m, err := c.EncodeNotation(startBoard, o)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, chessdiag.Dimension(o.ShowMargin), chessdiag.Dimension(o.ShowMargin)), m.Bounds())
		assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, m.RGBAAt(0, 0))

		margin, err := chessdiag.HasMargin(m)
		require.NoError(t, err)
		assert.Equal(t, o.ShowMargin, margin)
	}
}

func TestEncodeInvalidPiece(t *testing.T) {
	c := testCatalog(t)

	var p chessdiag.Position
	p.Board[3][3] = 'x'
	_, err := c.Encode(p, chessdiag.Options{})
	assert.Error(t, err)
}

func TestEncodeBadNotation(t *testing.T) {
	c := testCatalog(t)

	_, err := c.EncodeNotation("8/8/8", chessdiag.Options{})
	var se *chessdiag.SyntaxError
	assert.True(t, errors.As(err, &se))
}

func TestRoundTrip(t *testing.T) {
	c := testCatalog(t)

	for _, s := range positions {
		for _, o := range allOptions() {
			t.Run(fmt.Sprintf("%s/%+v", s, o), func(t *testing.T) {
				m, err := c.EncodeNotation(s, o)
				require.NoError(t, err)

				d, err := c.Decode(m)
				require.NoError(t, err)
				want, err := chessdiag.ParseNotation(s)
				require.NoError(t, err)
				if o.Flip && !o.ShowMargin {
					// Nothing says the board is upside down
					want.Board = rotate(want.Board)
				}
				assert.Equal(t, want.Board, d.Board)
				assert.Equal(t, o.ShowMargin, d.HasMargin)
				if o.ShowMargin {
					assert.Equal(t, o.BlackToMove, d.BlackToMove)
					assert.Equal(t, o.Flip, d.Flipped)
				} else {
					assert.False(t, d.BlackToMove)
					assert.False(t, d.Flipped)
				}
			})
		}
	}
}

func TestDetectOrientation(t *testing.T) {
	c := testCatalog(t)

	for _, flip := range []bool{false, true} {
		for _, black := range []bool{false, true} {
			m, err := c.EncodeNotation(startBoard, chessdiag.Options{Flip: flip, ShowMargin: true, BlackToMove: black})
			require.NoError(t, err)

			f, b, err := c.DetectOrientation(m)
			require.NoError(t, err)
			assert.Equal(t, flip, f)
			assert.Equal(t, black, b)
		}
	}

	// No margin, no indicator
	m, err := c.EncodeNotation(startBoard, chessdiag.Options{Flip: true, BlackToMove: true})
	require.NoError(t, err)
	f, b, err := c.DetectOrientation(m)
	require.NoError(t, err)
	assert.False(t, f)
	assert.False(t, b)
}

func TestEmptyBoardScenario(t *testing.T) {
	c := testCatalog(t)

	m, err := c.EncodeNotation("8/8/8/8/8/8/8/8", chessdiag.Options{})
	require.NoError(t, err)
	assert.Equal(t, 242, m.Bounds().Dx())
	assert.Equal(t, 242, m.Bounds().Dy())

	d, err := c.Decode(m)
	require.NoError(t, err)
	assert.Equal(t, "8/8/8/8/8/8/8/8 w - - 0 1", d.Notation())
}

func TestStartPositionScenario(t *testing.T) {
	c := testCatalog(t)

	m, err := c.EncodeNotation(startBoard+" w", chessdiag.Options{ShowMargin: true})
	require.NoError(t, err)

	d, err := c.Decode(m)
	require.NoError(t, err)
	assert.Equal(t, startBoard+" w - - 0 1", d.Notation())
}

func TestFlippedBlackScenario(t *testing.T) {
	c := testCatalog(t)

	m, err := c.EncodeNotation(startBoard, chessdiag.Options{Flip: true, ShowMargin: true, BlackToMove: true})
	require.NoError(t, err)

	d, err := c.Decode(m)
	require.NoError(t, err)
	assert.True(t, d.BlackToMove)
	assert.True(t, d.Flipped)
	assert.Equal(t, startBoard+" b - - 0 1", d.Notation())
}

func TestSideToMoveOverride(t *testing.T) {
	assert.True(t, chessdiag.Options{}.Resolve(chessdiag.Position{BlackToMove: true}).BlackToMove)
	assert.True(t, chessdiag.Options{BlackToMove: true}.Resolve(chessdiag.Position{}).BlackToMove)
	assert.False(t, chessdiag.Options{}.Resolve(chessdiag.Position{}).BlackToMove)

	c := testCatalog(t)

	// The notation's side to move selects the margin
	m, err := c.EncodeNotation(startBoard+" b", chessdiag.Options{ShowMargin: true})
	require.NoError(t, err)
	d, err := c.Decode(m)
	require.NoError(t, err)
	assert.True(t, d.BlackToMove)

	// ...and nothing else
	white, err := c.EncodeNotation(startBoard+" w", chessdiag.Options{})
	require.NoError(t, err)
	black, err := c.EncodeNotation(startBoard+" b", chessdiag.Options{})
	require.NoError(t, err)
	assert.Equal(t, white.Pix, black.Pix)
}

func TestDecodeMalformed(t *testing.T) {
	c := testCatalog(t)

	tables := []struct {
		width, height int
	}{
		{100, 100},
		{242, 257},
		{257, 242},
		{243, 243},
	}

	for _, table := range tables {
		_, err := c.Decode(image.NewRGBA(image.Rect(0, 0, table.width, table.height)))
		var de *chessdiag.DimensionError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, chessdiag.DimensionError{Width: table.width, Height: table.height}, *de)
	}
}

func TestDecodeAmbiguousOrientation(t *testing.T) {
	c := testCatalog(t)

	m, err := c.EncodeNotation(startBoard, chessdiag.Options{ShowMargin: true})
	require.NoError(t, err)
	m.Set(100, 250, color.RGBA{0xff, 0, 0, 0xff})

	_, err = c.Decode(m)
	assert.Equal(t, chessdiag.ErrAmbiguousOrientation, err)

	_, _, err = c.DetectOrientation(m)
	assert.Equal(t, chessdiag.ErrAmbiguousOrientation, err)
}

func TestDecodeSharedMargin(t *testing.T) {
	refs := references(t)
	refs[1] = refs[0]

	// Both sides to move now have the same margin
	c, err := chessdiag.NewCatalog(refs)
	require.NoError(t, err)

	m, err := c.EncodeNotation(startBoard, chessdiag.Options{ShowMargin: true})
	require.NoError(t, err)

	_, err = c.Decode(m)
	assert.Equal(t, chessdiag.ErrAmbiguousOrientation, err)

	_, _, err = c.DetectOrientation(m)
	assert.Equal(t, chessdiag.ErrAmbiguousOrientation, err)

	// The flipped variants are still distinct
	m, err = c.EncodeNotation(startBoard, chessdiag.Options{ShowMargin: true, Flip: true})
	require.NoError(t, err)
	f, _, err := c.DetectOrientation(m)
	require.NoError(t, err)
	assert.True(t, f)
}

func TestDecodeUnrecognizedTile(t *testing.T) {
	c := testCatalog(t)

	m, err := c.EncodeNotation(startBoard, chessdiag.Options{})
	require.NoError(t, err)

	// Somewhere inside e4
	r, err := chessdiag.SquareBox("e4", false, false)
	require.NoError(t, err)
	m.Set(r.Min.X+3, r.Min.Y+3, color.RGBA{0xff, 0, 0, 0xff})

	_, err = c.Decode(m)
	var te *chessdiag.TileError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, chessdiag.TileError{Row: 4, Col: 4}, *te)
}

func TestDecodeTolerance(t *testing.T) {
	c := testCatalog(t)

	m, err := c.EncodeNotation(startBoard, chessdiag.Options{ShowMargin: true, Flip: true})
	require.NoError(t, err)

	// Shift the red channel of every pixel by one
	for i := range m.Pix {
		if i%4 == 0 {
			if m.Pix[i] == 0xff {
				m.Pix[i]--
			} else {
				m.Pix[i]++
			}
		}
	}

	_, err = c.Decode(m)
	assert.Error(t, err)

	d := chessdiag.Decoder{Catalog: c, Tolerance: 1}
	diag, err := d.Decode(m)
	require.NoError(t, err)
	assert.Equal(t, startBoard, diag.Board.String())
	assert.True(t, diag.Flipped)
}

func TestDecodeResampled(t *testing.T) {
	c := testCatalog(t)

	m, err := c.EncodeNotation(startBoard, chessdiag.Options{})
	require.NoError(t, err)

	// Same size, but every pixel has been through a filter
	blurred := resize.Resize(uint(m.Bounds().Dx()), uint(m.Bounds().Dy()), resize.Resize(400, 400, m, resize.Bilinear), resize.Bilinear)

	_, err = c.Decode(blurred)
	var te *chessdiag.TileError
	assert.True(t, errors.As(err, &te))
}

func TestDecodeConcurrent(t *testing.T) {
	c := testCatalog(t)

	errc := make(chan error, len(positions))
	for _, s := range positions {
		go func(s string) {
			m, err := c.EncodeNotation(s, chessdiag.Options{ShowMargin: true})
			if err != nil {
				errc <- err
				return
			}
			d, err := c.Decode(m)
			if err == nil && d.Board.String() != s {
				err = fmt.Errorf("got %s, want %s", d.Board.String(), s)
			}
			errc <- err
		}(s)
	}
	for range positions {
		assert.NoError(t, <-errc)
	}
}
