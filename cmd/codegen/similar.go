package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/xxxsen/codegen/internal/config"
	"github.com/xxxsen/codegen/internal/pkg/listutil"
	"github.com/xxxsen/codegen/internal/service"
	"github.com/xxxsen/codegen/internal/similarity"
)

const previewRunes = 60

func runSimilar(ctx context.Context, cfg *config.Config, arg string, showAll bool) error {
	number, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid sample number %q", arg)
	}
	corpusService, err := newCorpusService(cfg)
	if err != nil {
		return err
	}
	if err := corpusService.Load(ctx); err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	var scored []similarity.ScoredPair
	if showAll {
		scored, err = rankAll(corpusService, number)
	} else {
		scored, err = service.NewCodeGenService(corpusService, nil, nil, service.CodeGenConfig{}).SimilarExamples(ctx, number)
	}
	if err != nil {
		return err
	}
	printScored(number, scored)
	return nil
}

// rankAll returns every candidate in rank order, bypassing the selection.
func rankAll(corpusService *service.CorpusService, number int) ([]similarity.ScoredPair, error) {
	snap, err := corpusService.Snapshot()
	if err != nil {
		return nil, err
	}
	if number < 1 || number > len(snap.Pairs) {
		return nil, fmt.Errorf("input number %d needs to be between 1 and %d", number, len(snap.Pairs))
	}
	rest, target, err := listutil.ExtractAt(snap.Pairs, number-1)
	if err != nil {
		return nil, err
	}
	ranker := similarity.NewRanker(snap.Corpus, similarity.WithTopK(len(rest)))
	return ranker.RankExamples(target.Source, rest)
}

func printScored(number int, scored []similarity.ScoredPair) {
	header := color.New(color.FgCyan, color.Bold)
	high := color.New(color.FgGreen)
	low := color.New(color.FgYellow)

	header.Printf("sample %d: %d example(s)\n", number, len(scored))
	for i, item := range scored {
		c := low
		if item.Similarity >= similarity.DefaultThreshold {
			c = high
		}
		c.Printf("%2d. %.4f", i+1, item.Similarity)
		fmt.Printf("  %s\n", preview(item.Pair.Source))
	}
}

func preview(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= previewRunes {
		return flat
	}
	return string(runes[:previewRunes]) + "..."
}
