package chessdiag

import (
	"errors"
	"image"
)

const (
	// TileSize is the width and height of a square in pixels
	TileSize = 30
	// MarginSize is the width of the left and bottom margin in pixels
	MarginSize = 15

	inset      = 1
	boardSize  = ranks * TileSize
	marginEnd  = boardSize + MarginSize + inset
	dark       = 0
	light      = 1
	numColors  = 2
	numVariant = 4
)

var errBadSquare = errors.New("chessdiag: invalid square")

// Dimension returns the width and height of a diagram with or without a
// margin.
func Dimension(showMargin bool) int {
	if showMargin {
		return boardSize + 2*inset + MarginSize
	}
	return boardSize + 2*inset
}

// 0 = dark, 1 = light
func squareColor(row, col int) int {
	return (row + col + 1) % numColors
}

func tileRect(row, col int, flipped, margin bool) image.Rectangle {
	if flipped {
		row, col = ranks-1-row, files-1-col
	}
	offset := 0
	if margin {
		offset = MarginSize
	}
	return image.Rect(
		TileSize*col+offset+inset,
		TileSize*row+inset,
		TileSize*(col+1)+offset+inset,
		TileSize*(row+1)+inset,
	)
}

func parseSquare(square string) (row, col int, err error) {
	if len(square) != 2 || square[0] < 'a' || square[0] > 'h' || square[1] < '1' || square[1] > '8' {
		return 0, 0, errBadSquare
	}
	return int('8' - square[1]), int(square[0] - 'a'), nil
}

// SquareBox returns the pixel bounds of a square such as "e4" within a
// diagram.
func SquareBox(square string, flipped, margin bool) (image.Rectangle, error) {
	row, col, err := parseSquare(square)
	if err != nil {
		return image.Rectangle{}, err
	}
	return tileRect(row, col, flipped, margin), nil
}

// Margin strips in the coordinates used by the reference art
var (
	leftMarginRect   = image.Rect(inset, inset, MarginSize+inset, marginEnd)
	bottomMarginRect = image.Rect(inset, marginEnd-MarginSize, marginEnd, marginEnd)
)
