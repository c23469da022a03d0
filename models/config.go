package models

import (
	"encoding/json"
	"os"
	"path/filepath"

	"sentix/internal/config"
	"sentix/internal/text"
)

// Config holds desktop application settings.
// When APIBaseURL is set, explanations, chat and subtitle generation go
// through the sentix server; otherwise the providers are called directly
// with the keys below.
type Config struct {
	// Server settings
	APIBaseURL string `json:"api_base_url"`
	Username   string `json:"username"`

	// Learner settings
	ExplanationLanguage string `json:"explanation_language"` // language the meanings are written in
	QuizQuestions       int    `json:"quiz_questions"`

	// Provider selection (deepseek, openai)
	ChatProvider string `json:"chat_provider"`
	// Provider selection (groq, openai)
	TranscriptionProvider string `json:"transcription_provider"`

	// API keys
	DeepSeekKey string `json:"deepseek_key"`
	OpenAIKey   string `json:"openai_key"`
	GroqAPIKey  string `json:"groq_api_key"`

	// Tool paths
	FFmpegPath string `json:"ffmpeg_path"`

	// Storage
	DBPath          string `json:"db_path"`
	UploadDirectory string `json:"upload_directory"`

	// Playback
	PlayAudio bool    `json:"play_audio"` // route sound through ffplay
	Volume    float64 `json:"volume"`

	LogLevel string `json:"log_level"`
}

func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "sentix")
	return &Config{
		APIBaseURL: "",

		ExplanationLanguage: "en",
		QuizQuestions:       config.QuizDefaultQuestions,

		ChatProvider:          "deepseek",
		TranscriptionProvider: "groq",

		FFmpegPath: "ffmpeg",

		DBPath:          filepath.Join(dataDir, "sentix.db"),
		UploadDirectory: filepath.Join(dataDir, "uploads"),

		PlayAudio: true,
		Volume:    config.DefaultVolume,

		LogLevel: "info",
	}
}

func (c *Config) ConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "sentix", "config.json")
}

// UsesServer reports whether requests go through the sentix HTTP API.
func (c *Config) UsesServer() bool {
	return c.APIBaseURL != ""
}

// ChatKey returns the key for the selected chat provider.
func (c *Config) ChatKey() string {
	if c.ChatProvider == "openai" {
		return c.OpenAIKey
	}
	return c.DeepSeekKey
}

// TranscriptionKey returns the key for the selected speech-to-text provider.
func (c *Config) TranscriptionKey() string {
	if c.TranscriptionProvider == "openai" {
		return c.OpenAIKey
	}
	return c.GroqAPIKey
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfig().ConfigPath())
}

// LoadConfigFrom reads settings from path, keeping defaults for missing fields.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.QuizQuestions <= 0 {
		cfg.QuizQuestions = config.QuizDefaultQuestions
	}
	if !text.IsValidLanguage(cfg.ExplanationLanguage) {
		cfg.ExplanationLanguage = "en"
	}
	return cfg, nil
}

func (c *Config) Save() error {
	return c.SaveTo(c.ConfigPath())
}

// SaveTo writes settings to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // keys are stored here
}
