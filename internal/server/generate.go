package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"sentix/internal/config"
	"sentix/internal/logger"
	"sentix/models"
	"sentix/services"
)

type generateRequest struct {
	services.GenerateRequest
	Async bool `json:"async"`
}

type GenerateHandler struct {
	generator  Generator
	publisher  Publisher
	jobs       *JobTable
	background func(func(ctx context.Context))
	log        *logger.Logger
}

func NewGenerateHandler(g Generator, p Publisher, jobs *JobTable, background func(func(ctx context.Context))) *GenerateHandler {
	return &GenerateHandler{
		generator:  g,
		publisher:  p,
		jobs:       jobs,
		background: background,
		log:        logger.Named("generate"),
	}
}

// Generate answers {storagePath}|{downloadURL} with {srt}. With async set it
// answers 202 and the job to poll instead.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var in generateRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.StoragePath == "" && in.DownloadURL == "" {
		writeError(w, http.StatusBadRequest, services.ErrNoSource.Error())
		return
	}

	if in.Async {
		h.queue(w, r, in.GenerateRequest)
		return
	}

	if h.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "Subtitle generation is not configured")
		return
	}
	srt, err := h.generator.Generate(r.Context(), in.GenerateRequest, nil)
	if err != nil {
		h.log.Warn("generate %s: %v", sourceOf(in.GenerateRequest), err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"srt": srt})
}

// Job returns a queued job.
func (h *GenerateHandler) Job(w http.ResponseWriter, r *http.Request) {
	job, ok := h.jobs.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	if job.OwnerID != "" && job.OwnerID != ownerID(r.Context()) {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *GenerateHandler) queue(w http.ResponseWriter, r *http.Request, req services.GenerateRequest) {
	job := models.NewGenerationJob(req.StoragePath, req.DownloadURL)
	job.Language = req.Language
	if GetUserID(r.Context()) != 0 {
		job.OwnerID = ownerID(r.Context())
	}

	if h.publisher != nil {
		body, err := json.Marshal(job)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		h.jobs.Put(job)
		if err := h.publisher.Publish(config.SubtitleCommandQueue, body); err != nil {
			h.log.Error("publish job %s: %v", job.ID, err)
			h.jobs.Update(job.ID, func(j *models.GenerationJob) { j.Fail(err) })
			writeError(w, http.StatusBadGateway, "Failed to queue job")
			return
		}
		h.log.Info("📤 Queued job %s for %s", job.ID, job.Source())
		writeJSON(w, http.StatusAccepted, job)
		return
	}

	if h.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "Subtitle generation is not configured")
		return
	}
	h.jobs.Put(job)
	id := job.ID
	h.background(func(ctx context.Context) {
		srt, err := h.generator.Generate(ctx, req, func(s models.JobStatus) {
			h.jobs.Update(id, func(j *models.GenerationJob) { j.SetStatus(s) })
		})
		h.jobs.Update(id, func(j *models.GenerationJob) {
			if err != nil {
				j.Fail(err)
				return
			}
			j.Complete(srt)
		})
		if err != nil {
			h.log.Warn("job %s failed: %v", id, err)
		}
	})
	writeJSON(w, http.StatusAccepted, job)
}

func sourceOf(req services.GenerateRequest) string {
	if req.StoragePath != "" {
		return req.StoragePath
	}
	return req.DownloadURL
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNoSource), errors.Is(err, services.ErrInvalidStoragePath):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrVideoNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
