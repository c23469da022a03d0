// Package config provides centralized configuration and constants for the sentix application.
package config

import (
	"runtime"
	"time"
)

// Playback settings
const (
	// TimeUpdateInterval bounds how often a playing media element reports its position.
	TimeUpdateInterval = 250 * time.Millisecond
	SkipStep           = 10.0 // seconds for the rewind/forward buttons
	DefaultVolume      = 1.0
)

// Desktop settings
const (
	JobPollInterval    = time.Second
	VocabPollInterval  = 5 * time.Second
	HealthCheckTimeout = 5 * time.Second
)

// Explanation panel settings
const (
	ExplainTimeout     = 30 * time.Second
	ExplainPending     = "Loading..."
	ExplainFailed      = "Error"
	ExplainDefaultHint = "Click a word for its definition.\nOr, click a whole sentence for an explanation."
)

// Quiz settings
const (
	QuizOptionCount      = 4
	QuizDefaultQuestions = 5
	QuizBlankPlaceholder = "____"
	QuizDefinitionPrompt = "Which word matches this meaning?"
	QuizBlankPrompt      = "Fill in the blank"
	QuizDefaultFeedback  = "This is the right answer."
	QuizBlankProbability = 0.5
)

// Retry settings (provider calls made by the server only)
const (
	DefaultMaxRetries     = 3
	DefaultRetryDelayBase = time.Second
)

// HTTP client settings
const (
	HTTPTimeout             = 2 * time.Minute
	HTTPMaxIdleConns        = 10
	HTTPMaxIdleConnsPerHost = 10
	HTTPIdleConnTimeout     = 90 * time.Second
	APIClientTimeout        = 60 * time.Second
	UploadTimeout           = 30 * time.Minute
	DownloadTimeout         = 10 * time.Minute
)

// Server limits
const (
	MaxUploadSize = 2 << 30 // 2GB
	MaxJSONBody   = 1 << 20
	SessionMaxAge = 7 * 24 * time.Hour
	MinPassword   = 6
)

// Global resource limits
const (
	// MaxConcurrentTranscriptions limits total concurrent subtitle generations
	// (ffmpeg extraction + upload to the speech-to-text provider).
	MaxConcurrentTranscriptions = 3

	// MaxConcurrentExtractions limits ffmpeg audio extractions running at once.
	MaxConcurrentExtractions = 2
)

// Audio settings
const (
	AudioSampleRate16k = 16000 // Whisper requirement
	AudioBitrate       = "48k" // keeps an hour of speech under the 25MB provider limit
	MaxTranscribeSize  = 25 * 1024 * 1024
)

// API endpoints
const (
	DeepSeekBaseURL = "https://api.deepseek.com/v1"
	OpenAIBaseURL   = "https://api.openai.com/v1"
	GroqBaseURL     = "https://api.groq.com/openai/v1"
)

// API models
const (
	DeepSeekModel      = "deepseek-chat"
	OpenAIChatModel    = "gpt-4o-mini"
	GroqWhisperModel   = "whisper-large-v3"
	OpenAIWhisperModel = "whisper-1"
)

// Temperature settings for LLM calls
const (
	ExplainTemperature = 0.3
	ChatTemperature    = 0.8
	ExplainMaxTokens   = 400
	ChatMaxTokens      = 512
)

// Queue names
const (
	SubtitleCommandQueue = "sentix.subtitles.cmd"
	SubtitleResultQueue  = "sentix.subtitles.done"
)

// Persistence keys
const (
	CurrentVideoKey = "sentix:currentVideo"
	AppID           = "io.sentix.app"
	AppName         = "Sentix"
)

// Import settings
const (
	ImportMaxWords = 200
)

// DynamicWorkerCount returns the optimal worker count based on task type and CPU cores.
func DynamicWorkerCount(taskType string) int {
	cpus := runtime.NumCPU()

	switch taskType {
	case "explain-api":
		// I/O-bound API calls
		return minInt(cpus*3, 16)
	case "transcription":
		return minInt(cpus, MaxConcurrentTranscriptions)
	default:
		return cpus
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
