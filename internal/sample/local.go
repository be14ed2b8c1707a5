package sample

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type localConfig struct {
	Dir string `json:"dir"`
}

type localSource struct {
	dir string
}

func init() {
	Register("local", createLocalSource)
}

func createLocalSource(args interface{}) (Source, error) {
	cfg := &localConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("local sample dir is required")
	}
	return &localSource{dir: cfg.Dir}, nil
}

func (s *localSource) Type() string {
	return "local"
}

func (s *localSource) Read(ctx context.Context, key string) (string, error) {
	_ = ctx
	p, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *localSource) List(ctx context.Context, dir string) ([]string, error) {
	_ = ctx
	p, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		keys = append(keys, path.Join(dir, entry.Name()))
	}
	return keys, nil
}

func (s *localSource) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if strings.Contains(key, "\\") || clean == "/" {
		return "", fmt.Errorf("invalid sample key: %s", key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
