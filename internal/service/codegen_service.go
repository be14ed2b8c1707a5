package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/codegen/internal/ai"
	"github.com/xxxsen/codegen/internal/model"
	appErr "github.com/xxxsen/codegen/internal/pkg/errors"
	"github.com/xxxsen/codegen/internal/pkg/listutil"
	"github.com/xxxsen/codegen/internal/prompt"
	"github.com/xxxsen/codegen/internal/similarity"
)

var ErrAIUnavailable = ai.ErrUnavailable

type CodeGenConfig struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	// CacheSize of 0 disables the response cache.
	CacheSize int
}

type GenerateResult struct {
	Response *model.ChatResponse
	Examples int
	Cached   bool
}

type CodeGenService struct {
	corpus  *CorpusService
	prompts *prompt.Builder
	chatter ai.IChatter
	cfg     CodeGenConfig
	cache   *expirable.LRU[string, *model.ChatResponse]
}

func NewCodeGenService(corpus *CorpusService, prompts *prompt.Builder, chatter ai.IChatter, cfg CodeGenConfig) *CodeGenService {
	s := &CodeGenService{
		corpus:  corpus,
		prompts: prompts,
		chatter: chatter,
		cfg:     cfg,
	}
	if cfg.CacheSize > 0 && cfg.CacheTTL > 0 {
		s.cache = expirable.NewLRU[string, *model.ChatResponse](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	return s
}

// Generate translates sample number (1 based). The remaining samples are
// the candidate examples; unless useAllExamples is set only the ones the
// ranker selects go into the prompt.
func (s *CodeGenService) Generate(ctx context.Context, number int, useAllExamples bool) (*GenerateResult, error) {
	logger := logutil.GetLogger(ctx).With(zap.Int("number", number), zap.Bool("use_all_examples", useAllExamples))
	snap, err := s.corpus.Snapshot()
	if err != nil {
		return nil, err
	}
	candidates, target, err := s.split(snap, number)
	if err != nil {
		return nil, err
	}
	examples := candidates
	if !useAllExamples {
		examples, err = s.selectExamples(ctx, snap, target, candidates)
		if err != nil {
			return nil, err
		}
	}
	messages := []model.Message{
		s.prompts.BuildSystemPrompt(snap.Contexts),
		s.prompts.BuildUserPrompt(examples, target.Source),
	}
	key := cacheKey(messages)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			logger.Debug("generation cache hit")
			return &GenerateResult{Response: cached, Examples: len(examples), Cached: true}, nil
		}
	}
	if s.chatter == nil {
		return nil, ErrAIUnavailable
	}
	resp, err := s.chat(ctx, messages)
	if err != nil {
		logger.Error("generate code failed", zap.Error(err))
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(key, resp)
	}
	logger.Info("code generated", zap.Int("examples", len(examples)), zap.String("model", resp.Model))
	return &GenerateResult{Response: resp, Examples: len(examples)}, nil
}

// SimilarExamples returns the scored selection for sample number without
// calling the model.
func (s *CodeGenService) SimilarExamples(ctx context.Context, number int) ([]similarity.ScoredPair, error) {
	snap, err := s.corpus.Snapshot()
	if err != nil {
		return nil, err
	}
	candidates, target, err := s.split(snap, number)
	if err != nil {
		return nil, err
	}
	scored, err := snap.Ranker.RankExamples(target.Source, candidates)
	if err != nil {
		logutil.GetLogger(ctx).Error("rank examples failed", zap.Int("number", number), zap.Error(err))
		return nil, err
	}
	return scored, nil
}

func (s *CodeGenService) split(snap *Snapshot, number int) ([]model.CodePair, model.CodePair, error) {
	if number < 1 || number > len(snap.Pairs) {
		return nil, model.CodePair{}, fmt.Errorf("input number %d needs to be between 1 and %d: %w", number, len(snap.Pairs), appErr.ErrInvalidInputNumber)
	}
	return listutil.ExtractAt(snap.Pairs, number-1)
}

func (s *CodeGenService) selectExamples(ctx context.Context, snap *Snapshot, target model.CodePair, candidates []model.CodePair) ([]model.CodePair, error) {
	scored, err := snap.Ranker.RankExamples(target.Source, candidates)
	if err != nil {
		logutil.GetLogger(ctx).Error("rank examples failed", zap.Error(err))
		return nil, err
	}
	examples := make([]model.CodePair, 0, len(scored))
	for i, item := range scored {
		logutil.GetLogger(ctx).Debug("example selected", zap.Int("rank", i), zap.Float64("similarity", item.Similarity))
		examples = append(examples, item.Pair)
	}
	return examples, nil
}

func (s *CodeGenService) chat(ctx context.Context, messages []model.Message) (*model.ChatResponse, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	resp, err := s.chatter.Chat(ctx, messages)
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", appErr.ErrAPI, err.Error())
	}
	if strings.TrimSpace(resp.FirstContent()) == "" {
		return nil, fmt.Errorf("%w: empty response", appErr.ErrAPI)
	}
	return resp, nil
}

func cacheKey(messages []model.Message) string {
	h := sha256.New()
	for _, msg := range messages {
		fmt.Fprintf(h, "%s:%d:%s", msg.Role, len(msg.Content), msg.Content)
	}
	return "generate:" + hex.EncodeToString(h.Sum(nil))
}
