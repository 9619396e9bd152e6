package chessdiag

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DiagramDB records recognized diagrams and side to move hints.
type DiagramDB struct {
	db *sql.DB
}

// NewDiagramDB opens, creating if necessary, the database in file.
func NewDiagramDB(file string) (*DiagramDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS diagram (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, board TEXT NOT NULL, black_to_move INTEGER NOT NULL, flipped INTEGER NOT NULL, has_margin INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS diagram_board ON diagram (board)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS hint (id INTEGER PRIMARY KEY NOT NULL, image TEXT NOT NULL UNIQUE, black_to_move INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	return &DiagramDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DiagramDB) Close() error {
	return db.db.Close()
}

// AddDiagram records the diagram found in the file at path whose contents
// hash to sha.
func (db *DiagramDB) AddDiagram(path, sha string, d *Diagram) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO diagram (path, sha1, board, black_to_move, flipped, has_margin) VALUES (?, ?, ?, ?, ?, ?)", path, sha, d.Board.String(), d.BlackToMove, d.Flipped, d.HasMargin); err != nil {
		return err
	}
	return nil
}

// FindBySHA1 returns a previously recognized diagram from any file with
// the same contents, or nil if there isn't one.
func (db *DiagramDB) FindBySHA1(sha string) (*Diagram, error) {
	var board string
	d := new(Diagram)
	switch err := db.db.QueryRow("SELECT board, black_to_move, flipped, has_margin FROM diagram WHERE sha1 = ? LIMIT 1", sha).Scan(&board, &d.BlackToMove, &d.Flipped, &d.HasMargin); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		p, err := ParseNotation(board)
		if err != nil {
			return nil, err
		}
		d.Board = p.Board
		return d, nil
	default:
		return nil, err
	}
}

// FindByBoard returns the paths of every diagram showing board, which is
// the board field of the notation.
func (db *DiagramDB) FindByBoard(board string) ([]string, error) {
	rows, err := db.db.Query("SELECT path FROM diagram WHERE board = ? ORDER BY path", board)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// SetHint records the side to move for the image named image.
func (db *DiagramDB) SetHint(image string, blackToMove bool) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO hint (image, black_to_move) VALUES (?, ?)", image, blackToMove); err != nil {
		return err
	}
	return nil
}

// FindHint returns the side to move recorded for image, ok is false if
// there is no hint. A hint recorded for a longer path ending in
// "/"+image, such as "images/x.png" for "x.png", also matches; an exact
// match wins, then the shortest.
func (db *DiagramDB) FindHint(image string) (blackToMove, ok bool, err error) {
	switch err := db.db.QueryRow("SELECT black_to_move FROM hint WHERE image = ?1 OR substr(image, -length(?1) - 1) = '/' || ?1 ORDER BY image = ?1 DESC, length(image) LIMIT 1", image).Scan(&blackToMove); err {
	case sql.ErrNoRows:
		return false, false, nil
	case nil:
		return blackToMove, true, nil
	default:
		return false, false, err
	}
}
