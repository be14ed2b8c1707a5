package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/codegen/internal/model"
	"github.com/xxxsen/codegen/internal/sample"
	"github.com/xxxsen/codegen/internal/similarity"
)

// Snapshot is one immutable generation of the sample set together with the
// corpus built from it.
type Snapshot struct {
	Pairs       []model.CodePair
	Contexts    []string
	Corpus      *similarity.Corpus
	Ranker      *similarity.Ranker
	Fingerprint string
	LoadedAt    time.Time
}

type CorpusStats struct {
	Documents      int       `json:"documents"`
	Pairs          int       `json:"pairs"`
	Contexts       int       `json:"contexts"`
	VocabularySize int       `json:"vocabulary_size"`
	NGramSize      int       `json:"ngram_size"`
	Fingerprint    string    `json:"fingerprint"`
	LoadedAt       time.Time `json:"loaded_at"`
}

type ISampleLoader interface {
	LoadCodePairs(ctx context.Context) ([]model.CodePair, error)
	LoadContexts(ctx context.Context) ([]string, error)
}

var _ ISampleLoader = (*sample.Loader)(nil)

// CorpusService owns the current snapshot. Readers never lock; a reload
// builds a complete new snapshot and swaps it in.
type CorpusService struct {
	loader     ISampleLoader
	ngramSize  int
	rankerOpts []similarity.Option
	current    atomic.Pointer[Snapshot]
}

func NewCorpusService(loader ISampleLoader, ngramSize int, opts ...similarity.Option) *CorpusService {
	return &CorpusService{loader: loader, ngramSize: ngramSize, rankerOpts: opts}
}

// Load builds the first snapshot. It must succeed before serving requests.
func (s *CorpusService) Load(ctx context.Context) error {
	snap, err := s.build(ctx)
	if err != nil {
		return err
	}
	s.current.Store(snap)
	return nil
}

// Reload rebuilds the corpus from scratch when the samples changed. On
// failure the previous snapshot stays in place.
func (s *CorpusService) Reload(ctx context.Context) (bool, error) {
	logger := logutil.GetLogger(ctx)
	snap, err := s.build(ctx)
	if err != nil {
		logger.Error("corpus reload failed, keeping previous snapshot", zap.Error(err))
		return false, err
	}
	if old := s.current.Load(); old != nil && old.Fingerprint == snap.Fingerprint {
		logger.Debug("corpus unchanged", zap.String("fingerprint", snap.Fingerprint))
		return false, nil
	}
	s.current.Store(snap)
	logger.Info("corpus reloaded", zap.String("fingerprint", snap.Fingerprint))
	return true, nil
}

func (s *CorpusService) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, fmt.Errorf("corpus not loaded")
	}
	return snap, nil
}

func (s *CorpusService) Stats() (*CorpusStats, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return &CorpusStats{
		Documents:      snap.Corpus.Documents(),
		Pairs:          len(snap.Pairs),
		Contexts:       len(snap.Contexts),
		VocabularySize: snap.Corpus.VocabularySize(),
		NGramSize:      snap.Corpus.NGramSize(),
		Fingerprint:    snap.Fingerprint,
		LoadedAt:       snap.LoadedAt,
	}, nil
}

func (s *CorpusService) build(ctx context.Context) (*Snapshot, error) {
	logger := logutil.GetLogger(ctx)
	pairs, err := s.loader.LoadCodePairs(ctx)
	if err != nil {
		return nil, err
	}
	contexts, err := s.loader.LoadContexts(ctx)
	if err != nil {
		return nil, err
	}
	documents := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		documents = append(documents, pair.Source)
	}
	corpus := similarity.BuildCorpus(documents, s.ngramSize)
	if corpus.Documents() != len(documents) {
		logger.Warn("duplicate sample sources collapsed in corpus",
			zap.Int("pairs", len(documents)),
			zap.Int("documents", corpus.Documents()),
		)
	}
	logger.Info("corpus built",
		zap.Int("documents", corpus.Documents()),
		zap.Int("vocabulary", corpus.VocabularySize()),
		zap.Int("ngram_size", s.ngramSize),
		zap.Int("contexts", len(contexts)),
	)
	return &Snapshot{
		Pairs:       pairs,
		Contexts:    contexts,
		Corpus:      corpus,
		Ranker:      similarity.NewRanker(corpus, s.rankerOpts...),
		Fingerprint: fingerprint(pairs, contexts),
		LoadedAt:    time.Now(),
	}, nil
}

func fingerprint(pairs []model.CodePair, contexts []string) string {
	h := sha256.New()
	for _, pair := range pairs {
		fmt.Fprintf(h, "%d:%s%d:%s", len(pair.Source), pair.Source, len(pair.Target), pair.Target)
	}
	for _, c := range contexts {
		fmt.Fprintf(h, "%d:%s", len(c), c)
	}
	return hex.EncodeToString(h.Sum(nil))
}
