package job

import (
	"context"
)

type CorpusReloader interface {
	Reload(ctx context.Context) (bool, error)
}

// CorpusReloadJob rereads the sample set and swaps in a new corpus when the
// content changed.
type CorpusReloadJob struct {
	corpus CorpusReloader
}

func NewCorpusReloadJob(corpus CorpusReloader) *CorpusReloadJob {
	return &CorpusReloadJob{corpus: corpus}
}

func (j *CorpusReloadJob) Name() string {
	return "corpus_reload"
}

func (j *CorpusReloadJob) Run(ctx context.Context) error {
	if j.corpus == nil {
		return nil
	}
	_, err := j.corpus.Reload(ctx)
	return err
}
