package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusPending      JobStatus = "pending"
	StatusProcessing   JobStatus = "processing"
	StatusDownloading  JobStatus = "downloading"
	StatusExtracting   JobStatus = "extracting"
	StatusTranscribing JobStatus = "transcribing"
	StatusCompleted    JobStatus = "completed"
	StatusFailed       JobStatus = "failed"
)

// GenerationJob is a subtitle generation request. It travels through the
// queue as JSON and is polled by clients at /api/jobs/{id}.
type GenerationJob struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId,omitempty"`
	StoragePath string     `json:"storagePath,omitempty"`
	DownloadURL string     `json:"downloadURL,omitempty"`
	Language    string     `json:"language,omitempty"`
	Status      JobStatus  `json:"status"`
	SRT         string     `json:"srt,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func NewGenerationJob(storagePath, downloadURL string) *GenerationJob {
	return &GenerationJob{
		ID:          uuid.New().String(),
		StoragePath: storagePath,
		DownloadURL: downloadURL,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
}

// Source returns the storage path when set, else the download URL.
func (j *GenerationJob) Source() string {
	if j.StoragePath != "" {
		return j.StoragePath
	}
	return j.DownloadURL
}

func (j *GenerationJob) SetStatus(status JobStatus) {
	j.Status = status
}

func (j *GenerationJob) Complete(srt string) {
	j.Status = StatusCompleted
	j.SRT = srt
	j.Error = ""
	now := time.Now()
	j.CompletedAt = &now
}

func (j *GenerationJob) Fail(err error) {
	j.Status = StatusFailed
	if err != nil {
		j.Error = err.Error()
	}
	now := time.Now()
	j.CompletedAt = &now
}

// Done reports whether the job reached a final state.
func (j *GenerationJob) Done() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

func (j *GenerationJob) StatusText() string {
	switch j.Status {
	case StatusPending:
		return "Queued"
	case StatusProcessing:
		return "Starting..."
	case StatusDownloading:
		return "Downloading video..."
	case StatusExtracting:
		return "Extracting audio..."
	case StatusTranscribing:
		return "Transcribing..."
	case StatusCompleted:
		return "Subtitles ready"
	case StatusFailed:
		if j.Error != "" {
			return "Failed: " + j.Error
		}
		return "Failed"
	default:
		return string(j.Status)
	}
}

// StatusIcon returns an emoji icon representing the job status
func (j *GenerationJob) StatusIcon() string {
	switch j.Status {
	case StatusPending:
		return "⏳"
	case StatusProcessing, StatusDownloading, StatusExtracting, StatusTranscribing:
		return "🔄"
	case StatusCompleted:
		return "✅"
	case StatusFailed:
		return "❌"
	default:
		return "📄"
	}
}
