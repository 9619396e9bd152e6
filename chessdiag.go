/*
Package chessdiag converts between board notation and chess diagram images.

A diagram is drawn from a fixed set of reference glyphs: 30 by 30 pixel
squares inside a one pixel border, optionally with a 15 pixel margin on the
left and bottom carrying the coordinates and a to-move indicator. A bare
diagram is 242 pixels square and a margined one 257.

Recognition is the exact inverse of drawing. Every square is compared
pixel for pixel against the glyphs in the Catalog and the margin against
the four reference margins, which gives the orientation of the board and
the side to move. Only diagrams drawn with the same reference art, or
lossless copies of them, can be recognized.

The package also provides a Library that indexes directories of diagrams
in a SQLite database and adds margins to diagrams that lack them.
*/
package chessdiag

import "log"

// Library maintains a collection of diagram image files.
type Library struct {
	db      *DiagramDB
	catalog *Catalog
	logger  *log.Logger
}

// NewLibrary returns a Library recording diagrams in db, recognizing them
// with catalog.
func NewLibrary(db *DiagramDB, catalog *Catalog, logger *log.Logger) *Library {
	return &Library{
		db:      db,
		catalog: catalog,
		logger:  logger,
	}
}
