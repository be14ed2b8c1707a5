package sample

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Source reads sample files by slash separated key, e.g. "samples/java-1.txt".
type Source interface {
	Type() string
	Read(ctx context.Context, key string) (string, error)
	// List returns the keys of the files directly below dir. A missing dir
	// yields an empty list.
	List(ctx context.Context, dir string) ([]string, error)
}

type Factory func(args interface{}) (Source, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(name string, args interface{}) (Source, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("samples.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported sample source type: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("sample source config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode sample source config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode sample source config: %w", err)
	}
	return nil
}
