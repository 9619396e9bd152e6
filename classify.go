package chessdiag

import "image"

func normalize(m image.Image) *image.RGBA {
	if rgba, ok := m.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	return crop(m, m.Bounds())
}

func (c *Catalog) classify(tile *image.RGBA, row, col int, tolerance uint8) (Piece, error) {
	color := squareColor(row, col)
	for _, p := range codes {
		if equalPixels(tile, c.tiles[p][color], tolerance) {
			return p, nil
		}
	}
	return NoPiece, &TileError{Row: row, Col: col}
}

// Classify identifies the occupant of the tile found at board row and
// column, both 0 to 7. The match must be exact: diagrams that have been resampled or
// recompressed with a lossy codec will not be recognized.
func (c *Catalog) Classify(tile image.Image, row, col int) (Piece, error) {
	if row < 0 || row >= ranks || col < 0 || col >= files {
		return NoPiece, &TileError{Row: row, Col: col}
	}
	return c.classify(normalize(tile), row, col, 0)
}
