package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewGenerationJob(t *testing.T) {
	job := NewGenerationJob("uploads/clip.mp4", "")

	if job.ID == "" {
		t.Error("expected non-empty ID")
	}
	if job.Status != StatusPending {
		t.Errorf("expected StatusPending, got %s", job.Status)
	}
	if job.Source() != "uploads/clip.mp4" {
		t.Errorf("Source() = %q, want storage path", job.Source())
	}
	if job.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if job.Done() {
		t.Error("new job should not be done")
	}
}

func TestGenerationJob_SourceFallsBackToURL(t *testing.T) {
	job := NewGenerationJob("", "https://cdn.example.com/v.mp4")
	if job.Source() != "https://cdn.example.com/v.mp4" {
		t.Errorf("Source() = %q", job.Source())
	}
}

func TestComplete(t *testing.T) {
	job := NewGenerationJob("a.mp4", "")
	job.SetStatus(StatusTranscribing)

	job.Complete("1\n00:00:01,000 --> 00:00:02,000\nHi\n")

	if job.Status != StatusCompleted {
		t.Errorf("expected StatusCompleted, got %s", job.Status)
	}
	if job.SRT == "" {
		t.Error("expected SRT to be set")
	}
	if job.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}
	if !job.Done() {
		t.Error("completed job should be done")
	}
}

func TestFail(t *testing.T) {
	job := NewGenerationJob("a.mp4", "")
	job.Fail(errors.New("ffmpeg exploded"))

	if job.Status != StatusFailed {
		t.Errorf("expected StatusFailed, got %s", job.Status)
	}
	if job.Error != "ffmpeg exploded" {
		t.Errorf("Error = %q", job.Error)
	}
	if !job.Done() {
		t.Error("failed job should be done")
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		status   JobStatus
		err      string
		expected string
	}{
		{StatusPending, "", "Queued"},
		{StatusProcessing, "", "Starting..."},
		{StatusDownloading, "", "Downloading video..."},
		{StatusExtracting, "", "Extracting audio..."},
		{StatusTranscribing, "", "Transcribing..."},
		{StatusCompleted, "", "Subtitles ready"},
		{StatusFailed, "", "Failed"},
		{StatusFailed, "some error", "Failed: some error"},
		{"unknown", "", "unknown"},
	}

	for _, tt := range tests {
		job := &GenerationJob{Status: tt.status, Error: tt.err}
		if got := job.StatusText(); got != tt.expected {
			t.Errorf("StatusText(%s) = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status JobStatus
		icon   string
	}{
		{StatusPending, "⏳"},
		{StatusProcessing, "🔄"},
		{StatusExtracting, "🔄"},
		{StatusTranscribing, "🔄"},
		{StatusCompleted, "✅"},
		{StatusFailed, "❌"},
		{"unknown", "📄"},
	}

	for _, tt := range tests {
		job := &GenerationJob{Status: tt.status}
		if got := job.StatusIcon(); got != tt.icon {
			t.Errorf("StatusIcon(%s) = %q, want %q", tt.status, got, tt.icon)
		}
	}
}

func TestGenerationJob_JSONShape(t *testing.T) {
	job := &GenerationJob{
		ID:          "j1",
		DownloadURL: "https://x/v.mp4",
		Status:      StatusPending,
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	data, err := json.Marshal(job)
	if err != nil {
		t.Fatal(err)
	}

	var fields map[string]any
	json.Unmarshal(data, &fields)
	if fields["downloadURL"] != "https://x/v.mp4" {
		t.Errorf("downloadURL = %v", fields["downloadURL"])
	}
	if _, ok := fields["storagePath"]; ok {
		t.Error("empty storagePath should be omitted")
	}
	if fields["status"] != "pending" {
		t.Errorf("status = %v", fields["status"])
	}
}
