package vocab

import (
	"context"
	"fmt"
	"strings"

	"sentix/internal/config"
	"sentix/internal/explain"
	"sentix/internal/logger"
	"sentix/internal/subtitle"
	"sentix/internal/text"
	"sentix/internal/worker"
)

// ImportOptions controls ImportFromCues.
type ImportOptions struct {
	OwnerID    string
	Workers    int
	MaxWords   int
	MinLength  int
	Exclude    []Entry // entries already saved; their words are skipped
	OnProgress worker.ProgressFunc
}

type importWord struct {
	word    string
	example string
}

// ImportFromCues collects the distinct words of a subtitle track, explains
// them concurrently and returns entries ready to be added to a store.
// Words whose explanation fails are skipped and counted in the returned error.
func ImportFromCues(ctx context.Context, cues subtitle.List, explainer explain.Explainer, opts ImportOptions) ([]Entry, error) {
	if opts.Workers <= 0 {
		opts.Workers = config.DynamicWorkerCount("explain-api")
	}
	if opts.MaxWords <= 0 {
		opts.MaxWords = config.ImportMaxWords
	}
	if opts.MinLength <= 0 {
		opts.MinLength = 3
	}

	known := make(map[string]bool, len(opts.Exclude))
	for _, e := range opts.Exclude {
		known[strings.ToLower(e.Word)] = true
	}

	var items []importWord
	for _, cue := range cues.NonEmpty() {
		for _, w := range text.UniqueWords([]string{cue.Text}, opts.MinLength) {
			key := strings.ToLower(w)
			if known[key] {
				continue
			}
			known[key] = true
			items = append(items, importWord{word: w, example: text.CleanCaption(cue.Text)})
			if len(items) == opts.MaxWords {
				break
			}
		}
		if len(items) == opts.MaxWords {
			break
		}
	}
	if len(items) == 0 {
		return nil, nil
	}

	log := logger.Named("import")
	log.Info("explaining %d words with %d workers", len(items), opts.Workers)

	results, errs := worker.ProcessWithErrors(ctx, items, opts.Workers, func(ctx context.Context, job worker.Job[importWord]) (Entry, error) {
		meaning, err := explainer.Explain(ctx, job.Data.word)
		if err != nil {
			return Entry{}, fmt.Errorf("explain %q: %w", job.Data.word, err)
		}
		return Entry{
			OwnerID: opts.OwnerID,
			Word:    job.Data.word,
			Meaning: strings.TrimSpace(meaning),
			Example: job.Data.example,
		}, nil
	}, opts.OnProgress)

	entries := make([]Entry, 0, len(results))
	for _, e := range results {
		if e.Usable() {
			entries = append(entries, e)
		}
	}

	if len(errs) > 0 {
		log.Warn("%d of %d words failed: %v", len(errs), len(items), errs[0])
		return entries, fmt.Errorf("%d of %d words could not be explained: %w", len(errs), len(items), errs[0])
	}
	return entries, nil
}
