package refart

import (
	"fmt"
	"image"
	_ "image/gif" // register decoders for Load
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/bodgit/chessdiag"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Filename returns the name of the i'th reference image, as used by Load
// and Save.
func Filename(i int) string {
	return fmt.Sprintf("reference%d.png", i+1)
}

func decodeFile(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("refart: %s: %w", file, err)
	}
	return m, nil
}

// Load reads the four reference images from dir.
func Load(dir string) ([4]image.Image, error) {
	var refs [4]image.Image
	for i := range refs {
		m, err := decodeFile(filepath.Join(dir, Filename(i)))
		if err != nil {
			return refs, err
		}
		refs[i] = m
	}
	return refs, nil
}

// Save writes the four reference images to dir as PNG files.
func Save(dir string, refs [4]*image.RGBA) error {
	for i, m := range refs {
		f, err := os.Create(filepath.Join(dir, Filename(i)))
		if err != nil {
			return err
		}
		if err := png.Encode(f, m); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

// LoadCatalog builds a catalog from the reference images in dir.
func LoadCatalog(dir string) (*chessdiag.Catalog, error) {
	refs, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return chessdiag.NewCatalog(refs)
}

var (
	once    sync.Once
	catalog *chessdiag.Catalog
	errCat  error
)

// Catalog returns a catalog built from the generated reference art. The
// art is only drawn once per process.
func Catalog() (*chessdiag.Catalog, error) {
	once.Do(func() {
		var refs [4]*image.RGBA
		if refs, errCat = Generate(); errCat != nil {
			return
		}
		var imgs [4]image.Image
		for i, m := range refs {
			imgs[i] = m
		}
		catalog, errCat = chessdiag.NewCatalog(imgs)
	})
	return catalog, errCat
}
