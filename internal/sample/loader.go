package sample

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/codegen/internal/model"
	appErr "github.com/xxxsen/codegen/internal/pkg/errors"
	"github.com/xxxsen/codegen/internal/pkg/listutil"
)

const (
	samplesDir = "samples"
	contextDir = "context"
)

// NotFoundError reports a sample file that could not be read.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	return "file " + e.Name + " not found"
}

func (e *NotFoundError) Unwrap() []error {
	return []error{appErr.ErrSampleNotFound, e.Err}
}

type LoaderConfig struct {
	PairCount    int
	SourcePrefix string
	TargetPrefix string
}

type Loader struct {
	src Source
	cfg LoaderConfig
}

func NewLoader(src Source, cfg LoaderConfig) *Loader {
	return &Loader{src: src, cfg: cfg}
}

// LoadCodePairs reads pairs 1..PairCount in order. When any pair fails the
// returned error combines every failing pair, in pair order.
func (l *Loader) LoadCodePairs(ctx context.Context) ([]model.CodePair, error) {
	results := make([]listutil.Result[model.CodePair], 0, l.cfg.PairCount)
	for n := 1; n <= l.cfg.PairCount; n++ {
		results = append(results, l.readPair(ctx, n))
	}
	return listutil.Collect(results)
}

func (l *Loader) readPair(ctx context.Context, n int) listutil.Result[model.CodePair] {
	source, err := l.src.Read(ctx, path.Join(samplesDir, fmt.Sprintf("%s-%d.txt", l.cfg.SourcePrefix, n)))
	if err == nil {
		var target string
		target, err = l.src.Read(ctx, path.Join(samplesDir, fmt.Sprintf("%s-%d.txt", l.cfg.TargetPrefix, n)))
		if err == nil {
			return listutil.Ok(model.CodePair{Source: source, Target: target})
		}
	}
	logutil.GetLogger(ctx).Warn("read sample pair failed", zap.Int("pair", n), zap.Error(err))
	return listutil.Fail[model.CodePair](&NotFoundError{Name: fmt.Sprintf("pair %d", n), Err: err})
}

// LoadContexts reads every .txt file of the context directory sorted by
// file name.
func (l *Loader) LoadContexts(ctx context.Context) ([]string, error) {
	keys, err := l.src.List(ctx, contextDir)
	if err != nil {
		return nil, &NotFoundError{Name: "context file", Err: err}
	}
	txt := keys[:0]
	for _, key := range keys {
		if strings.HasSuffix(key, ".txt") {
			txt = append(txt, key)
		}
	}
	sort.Slice(txt, func(i, j int) bool {
		return path.Base(txt[i]) < path.Base(txt[j])
	})
	contexts := make([]string, 0, len(txt))
	for _, key := range txt {
		content, err := l.src.Read(ctx, key)
		if err != nil {
			logutil.GetLogger(ctx).Warn("read context file failed", zap.String("key", key), zap.Error(err))
			return nil, &NotFoundError{Name: "context file", Err: err}
		}
		contexts = append(contexts, content)
	}
	return contexts, nil
}
