package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewFFmpegServiceWithPath(t *testing.T) {
	s := NewFFmpegServiceWithPath("/custom/bin/ffmpeg")
	if s.GetPath() != "/custom/bin/ffmpeg" {
		t.Errorf("GetPath() = %q", s.GetPath())
	}
	if s.ffprobePath != "/custom/bin/ffprobe" {
		t.Errorf("ffprobePath = %q, want /custom/bin/ffprobe", s.ffprobePath)
	}
	if s.FFplayPath() != "/custom/bin/ffplay" {
		t.Errorf("FFplayPath() = %q, want /custom/bin/ffplay", s.FFplayPath())
	}
}

func TestSiblingTool_BareName(t *testing.T) {
	if got := siblingTool("ffmpeg", "ffprobe"); got != "ffprobe" {
		t.Errorf("siblingTool() = %q, want ffprobe", got)
	}
}

func TestFFmpegService_CheckInstalled_NotFound(t *testing.T) {
	s := NewFFmpegServiceWithPath("/nonexistent/ffmpeg")
	if err := s.CheckInstalled(); err == nil {
		t.Error("CheckInstalled() should return error for nonexistent ffmpeg")
	}
}

func TestFFmpegService_GetDuration_CacheHit(t *testing.T) {
	s := NewFFmpegServiceWithPath("/nonexistent/ffmpeg")
	s.cache.Set("https://example.com/v.mp4", 42)

	got, err := s.GetDuration(context.Background(), "https://example.com/v.mp4")
	if err != nil {
		t.Fatalf("GetDuration() error: %v", err)
	}
	if got != 42 {
		t.Errorf("GetDuration() = %v, want 42", got)
	}
}

func TestFFmpegService_GetDuration_MissingProbe(t *testing.T) {
	s := NewFFmpegServiceWithPath("/nonexistent/ffmpeg")
	if _, err := s.GetDuration(context.Background(), "/nonexistent/video.mp4"); err == nil {
		t.Error("GetDuration() should fail without ffprobe")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"12.480000\n", 12.48, false},
		{"  3600 ", 3600, false},
		{"N/A\n", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDuration(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDurationCache_InvalidatesOnModification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewDurationCache()
	c.Set(path, 10)
	if got, ok := c.Get(path); !ok || got != 10 {
		t.Fatalf("Get() = %v, %v; want 10, true", got, ok)
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(path); ok {
		t.Error("Get() should miss after the file changed")
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestDurationCache_Remove(t *testing.T) {
	c := NewDurationCache()
	c.Set("a", 1)
	c.Set("b", 2)
	c.Remove("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be gone")
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestFFmpegService_ExtractAudio_InvalidInput(t *testing.T) {
	s := NewFFmpegServiceWithPath("/nonexistent/ffmpeg")
	out := filepath.Join(t.TempDir(), "audio", "out.mp3")
	if err := s.ExtractAudio(context.Background(), "/nonexistent/video.mp4", out); err == nil {
		t.Error("ExtractAudio() should return error for missing ffmpeg")
	}
}
