package kv

import (
	"context"
	"errors"
	"strings"

	"veostudio/internal/storage"
)

// File stores each key as its own JSON file inside a directory.
type File struct {
	fs *storage.FileStore
}

func NewFile(dir string) (*File, error) {
	fs, err := storage.NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	return &File{fs: fs}, nil
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	name, err := fileName(key)
	if err != nil {
		return "", false, err
	}
	data, err := f.fs.Read(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	name, err := fileName(key)
	if err != nil {
		return err
	}
	_, err = f.fs.Write(ctx, name, []byte(value))
	return err
}

func (f *File) Remove(ctx context.Context, key string) error {
	name, err := fileName(key)
	if err != nil {
		return err
	}
	return f.fs.Remove(ctx, name)
}

var keyReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")

func fileName(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errEmptyKey
	}
	return keyReplacer.Replace(key) + ".json", nil
}

var _ Store = (*File)(nil)
