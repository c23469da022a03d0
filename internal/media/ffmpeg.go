// Package media provides audio/video processing utilities using FFmpeg and
// a wall-clock media player for the subtitle view.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"sentix/internal/config"
	"sentix/internal/logger"
)

// FFmpegService wraps FFmpeg commands for audio/video processing.
type FFmpegService struct {
	ffmpegPath  string
	ffprobePath string
	ffplayPath  string
	cache       *DurationCache
}

// NewFFmpegService creates a new FFmpeg service with auto-detected paths.
func NewFFmpegService() *FFmpegService {
	paths := []string{
		"/opt/homebrew/bin/ffmpeg",
		"/usr/local/bin/ffmpeg",
		"/usr/bin/ffmpeg",
		"ffmpeg",
	}

	ffmpegPath := "ffmpeg"
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			ffmpegPath = p
			break
		}
	}

	return NewFFmpegServiceWithPath(ffmpegPath)
}

// NewFFmpegServiceWithPath creates a new FFmpeg service with a custom path.
// ffprobe and ffplay are expected next to it.
func NewFFmpegServiceWithPath(path string) *FFmpegService {
	return &FFmpegService{
		ffmpegPath:  path,
		ffprobePath: siblingTool(path, "ffprobe"),
		ffplayPath:  siblingTool(path, "ffplay"),
		cache:       NewDurationCache(),
	}
}

func siblingTool(ffmpegPath, tool string) string {
	dir, base := filepath.Split(ffmpegPath)
	return dir + strings.Replace(base, "ffmpeg", tool, 1)
}

// CheckInstalled verifies FFmpeg is available.
func (s *FFmpegService) CheckInstalled() error {
	cmd := exec.Command(s.ffmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not found at %s: %w", s.ffmpegPath, err)
	}
	return nil
}

// GetPath returns the FFmpeg executable path.
func (s *FFmpegService) GetPath() string {
	return s.ffmpegPath
}

// FFplayPath returns the ffplay executable path used for audible playback.
func (s *FFmpegService) FFplayPath() string {
	return s.ffplayPath
}

// ExtractAudio extracts speech audio as a small mono MP3 (16kHz) suitable
// for upload to a speech-to-text provider.
func (s *FFmpegService) ExtractAudio(ctx context.Context, videoPath, outputPath string) error {
	logger.Info("FFmpeg: extracting audio → %s", filepath.Base(outputPath))

	if err := ensureDir(outputPath); err != nil {
		return err
	}

	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", strconv.Itoa(config.AudioSampleRate16k),
		"-ac", "1",
		"-acodec", "libmp3lame",
		"-b:a", config.AudioBitrate,
		"-y",
		outputPath,
	}

	return s.run(ctx, args, "audio extraction")
}

// GetDuration returns the duration of a media file or URL in seconds.
// Results are cached to avoid repeated ffprobe calls.
func (s *FFmpegService) GetDuration(ctx context.Context, source string) (float64, error) {
	if duration, ok := s.cache.Get(source); ok {
		return duration, nil
	}

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		source,
	}

	cmd := exec.CommandContext(ctx, s.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	duration, err := parseDuration(string(output))
	if err != nil {
		return 0, err
	}

	s.cache.Set(source, duration)
	return duration, nil
}

func parseDuration(output string) (float64, error) {
	duration, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", strings.TrimSpace(output), err)
	}
	return duration, nil
}

// run executes an FFmpeg command and returns any error.
func (s *FFmpegService) run(ctx context.Context, args []string, operation string) error {
	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s failed: %w\nOutput: %s", operation, err, string(output))
	}
	return nil
}

// ensureDir creates the parent directory for a file path.
func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
