package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"sentix/internal/config"
	"sentix/internal/logger"
	"sentix/models"
	"sentix/services"
)

// Publisher sends a message body to a named queue.
type Publisher interface {
	Publish(queue string, body []byte) error
}

// Generator produces subtitles for a job's video.
type Generator interface {
	Generate(ctx context.Context, req services.GenerateRequest, onStatus services.StatusFunc) (string, error)
}

// JobWorker runs generation jobs taken from the command queue and reports
// every stage change and the final result on the result queue.
type JobWorker struct {
	generator Generator
	publisher Publisher
	log       *logger.Logger
}

func NewJobWorker(g Generator, p Publisher) *JobWorker {
	return &JobWorker{generator: g, publisher: p, log: logger.Named("worker")}
}

// Handle is a Handler for config.SubtitleCommandQueue. Generation failures
// are reported as failed jobs, not returned; only undecodable messages and
// publish failures are errors.
func (w *JobWorker) Handle(ctx context.Context, body []byte) error {
	var job models.GenerationJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("decode job: %w", err)
	}
	if job.ID == "" {
		return fmt.Errorf("decode job: missing id")
	}

	w.log.Info("⚙️ Job %s: %s", job.ID, job.Source())

	req := services.GenerateRequest{
		StoragePath: job.StoragePath,
		DownloadURL: job.DownloadURL,
		Language:    job.Language,
	}
	srt, err := w.generator.Generate(ctx, req, func(s models.JobStatus) {
		job.SetStatus(s)
		if err := w.report(&job); err != nil {
			w.log.Warn("job %s: status update not sent: %v", job.ID, err)
		}
	})
	if err != nil {
		w.log.Warn("❌ Job %s failed: %v", job.ID, err)
		job.Fail(err)
	} else {
		w.log.Info("✅ Job %s done", job.ID)
		job.Complete(srt)
	}
	return w.report(&job)
}

func (w *JobWorker) report(job *models.GenerationJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return w.publisher.Publish(config.SubtitleResultQueue, data)
}

// JobSink records job updates, e.g. the server's job table.
type JobSink interface {
	Apply(job models.GenerationJob) bool
}

// ResultHandler is a Handler for config.SubtitleResultQueue that applies
// each update to sink. Updates for unknown jobs are dropped; they belong to
// another server instance or one that restarted.
func ResultHandler(sink JobSink) Handler {
	log := logger.Named("results")
	return func(ctx context.Context, body []byte) error {
		var job models.GenerationJob
		if err := json.Unmarshal(body, &job); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
		if !sink.Apply(job) {
			log.Debug("ignoring update for unknown job %s", job.ID)
		}
		return nil
	}
}
