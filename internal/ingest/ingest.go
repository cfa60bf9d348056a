// Package ingest turns user-selected files into upload payloads.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/okian/skillview/internal/domain/model"
)

// ErrRead wraps any failure to read one of the files.
var ErrRead = errors.New("read file")

// Source is one selected file.
type Source interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

type pathSource string

func (p pathSource) Name() string { return filepath.Base(string(p)) }

func (p pathSource) Read(_ context.Context) ([]byte, error) {
	return os.ReadFile(string(p))
}

type fsSource struct {
	fsys fs.FS
	name string
}

func (s fsSource) Name() string { return filepath.Base(s.name) }

func (s fsSource) Read(_ context.Context) ([]byte, error) {
	return fs.ReadFile(s.fsys, s.name)
}

type bytesSource struct {
	name string
	data []byte
}

func (b bytesSource) Name() string { return b.name }

func (b bytesSource) Read(_ context.Context) ([]byte, error) { return b.data, nil }

// FromPaths reads files from the local disk.
func FromPaths(paths ...string) []Source {
	out := make([]Source, len(paths))
	for i, p := range paths {
		out[i] = pathSource(p)
	}
	return out
}

// FromFS reads the named files from fsys.
func FromFS(fsys fs.FS, names ...string) []Source {
	out := make([]Source, len(names))
	for i, n := range names {
		out[i] = fsSource{fsys: fsys, name: n}
	}
	return out
}

// FromBytes wraps content already in memory, such as a multipart part.
func FromBytes(name string, data []byte) Source {
	return bytesSource{name: name, data: data}
}

// Extension returns the text after the last dot, or "" when there is none
// or the only dot is leading.
func Extension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i <= 0 || i == len(filename)-1 {
		return ""
	}
	return filename[i+1:]
}

// ReadAll reads every source concurrently. The result keeps input order.
// Any single failure fails the whole batch.
func ReadAll(ctx context.Context, files []Source) ([]model.FileSubmission, error) {
	out := make([]model.FileSubmission, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := src.Read(gctx)
			if err != nil {
				return fmt.Errorf("%w %s: %w", ErrRead, src.Name(), err)
			}
			name := src.Name()
			out[i] = model.FileSubmission{
				Filename:  name,
				Content:   string(data),
				Extension: Extension(name),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
