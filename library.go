package chessdiag

import (
	"crypto/sha1"
	"fmt"
	"image"
	_ "image/gif" // diagrams may be stored in any of these formats
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// AddMargin returns a copy of the diagram m redrawn with a margin showing
// the given side to move. If m already has a margin it is returned as is
// with added set to false.
func (c *Catalog) AddMargin(m image.Image, blackToMove bool) (out image.Image, added bool, err error) {
	d, err := c.Decode(m)
	if err != nil {
		return nil, false, err
	}
	if d.HasMargin {
		return m, false, nil
	}

	p := d.Position
	p.BlackToMove = blackToMove
	out, err = c.Encode(p, Options{
		Flip:        d.Flipped,
		ShowMargin:  true,
		BlackToMove: blackToMove,
	})
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// ReadImage decodes the image in file, also returning the SHA-1 of its
// contents.
func ReadImage(file string) (image.Image, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	h := sha1.New()
	m, _, err := image.Decode(io.TeeReader(f, h))
	if err != nil {
		return nil, "", err
	}
	// Hash anything the decoder didn't need to read
	if _, err := io.Copy(h, f); err != nil {
		return nil, "", err
	}

	return m, fmt.Sprintf("%X", h.Sum(nil)), nil
}

// WriteImage writes m to file as a PNG, creating any missing directories.
func WriteImage(file string, m image.Image) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := png.Encode(f, m); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func (l *Library) scanFile(file string) error {
	m, sha, err := ReadImage(file)
	if err != nil {
		l.logger.Printf("Unable to read \"%s\": %v\n", file, err)
		return nil
	}

	d, err := l.db.FindBySHA1(sha)
	if err != nil {
		return err
	}
	if d == nil {
		if d, err = l.catalog.Decode(m); err != nil {
			l.logger.Printf("No match for \"%s\": %v\n", file, err)
			return nil
		}
	}

	l.logger.Printf("Found %s in \"%s\"\n", d.Notation(), file)

	return l.db.AddDiagram(file, sha, d)
}

func hintKey(base, file string) (string, error) {
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func (l *Library) addMarginFromHint(base, out, file string) error {
	key, err := hintKey(base, file)
	if err != nil {
		return err
	}

	blackToMove, ok, err := l.db.FindHint(key)
	if err != nil {
		return err
	}
	if !ok {
		l.logger.Printf("Couldn't find side to play for \"%s\"\n", key)
		return nil
	}

	m, _, err := ReadImage(file)
	if err != nil {
		l.logger.Printf("Unable to read \"%s\": %v\n", file, err)
		return nil
	}

	// Only recognition failures are skipped, a failed write stops the run
	m, added, err := l.catalog.AddMargin(m, blackToMove)
	if err != nil {
		l.logger.Printf("No match for \"%s\": %v\n", file, err)
		return nil
	}
	if !added {
		return nil
	}

	if err := WriteImage(filepath.Join(out, filepath.FromSlash(key)), m); err != nil {
		return err
	}
	l.logger.Printf("Added margin to \"%s\"\n", file)

	return nil
}

// AddMargin redraws the diagram in file with a margin showing the given
// side to move and writes it to out. Nothing is written if the diagram
// already has a margin.
func (l *Library) AddMargin(file, out string, blackToMove bool) (bool, error) {
	m, _, err := ReadImage(file)
	if err != nil {
		return false, err
	}

	m, added, err := l.catalog.AddMargin(m, blackToMove)
	if err != nil || !added {
		return false, err
	}

	return true, WriteImage(out, m)
}
