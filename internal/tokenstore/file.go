package tokenstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// File writes one <key>.json file per entry under a base location. The base
// may be a local path or any URL afs understands.
type File struct {
	fs   afs.Service
	base string
}

func NewFile(base string) *File {
	if url.Scheme(base, "") == "" {
		base = "file://" + base
	}
	return &File{fs: afs.New(), base: strings.TrimRight(base, "/")}
}

func (f *File) location(key string) string {
	return url.Join(f.base, key+".json")
}

func (f *File) Save(ctx context.Context, key string, value []byte) error {
	if err := f.fs.Upload(ctx, f.location(key), 0o600, bytes.NewReader(value)); err != nil {
		return fmt.Errorf("tokenstore: writing %s: %w", key, err)
	}
	return nil
}

func (f *File) Load(ctx context.Context, key string) ([]byte, error) {
	loc := f.location(key)
	ok, err := f.fs.Exists(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: checking %s: %w", key, err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	data, err := f.fs.DownloadWithURL(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: reading %s: %w", key, err)
	}
	return data, nil
}

func (f *File) Delete(ctx context.Context, key string) error {
	loc := f.location(key)
	ok, err := f.fs.Exists(ctx, loc)
	if err != nil || !ok {
		return err
	}
	return f.fs.Delete(ctx, loc)
}

func (f *File) Close() error { return nil }
