package chessdiag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const numWorkers = 10

func isDiagramFile(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png", ".gif", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

func (l *Library) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || !isDiagramFile(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (l *Library) scanWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := l.scanFile(file); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func (l *Library) marginWorker(ctx context.Context, base, out string, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := l.addMarginFromHint(base, out, file); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

type workerFunc func(context.Context, <-chan string) (<-chan error, error)

func (l *Library) run(path string, worker workerFunc) error {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := l.findFiles(ctx, path)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < numWorkers; i++ {
		errc, err := worker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}

// Scan recognizes every diagram found under path and records it in the
// database. Files that can't be recognized are logged and skipped.
func (l *Library) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	return l.run(dir, l.scanWorker)
}

// AddMargins finds every diagram under path without a margin and, if the
// database holds a side to move hint for it, writes a copy with a margin
// to the same relative path under out. Hints are keyed by the path of the
// image relative to path, using forward slashes.
func (l *Library) AddMargins(path, out string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	return l.run(dir, func(ctx context.Context, in <-chan string) (<-chan error, error) {
		return l.marginWorker(ctx, dir, out, in)
	})
}
