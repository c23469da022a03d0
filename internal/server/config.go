package server

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no --config flag is given.
const DefaultConfigFile = "sentix.yaml"

// ProviderConfig selects an OpenAI-compatible provider.
type ProviderConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
}

// Config holds the server settings. Values come from the YAML file, then the
// environment, then command-line flags, each layer overriding the previous.
type Config struct {
	Addr                string `yaml:"addr"`
	DataDir             string `yaml:"data_dir"`
	DBPath              string `yaml:"database"`
	UploadDir           string `yaml:"upload_dir"`
	WorkDir             string `yaml:"work_dir"`
	FFmpegPath          string `yaml:"ffmpeg_path"`
	ExplanationLanguage string `yaml:"explanation_language"`
	LogLevel            string `yaml:"log_level"`

	Chat          ProviderConfig `yaml:"chat"`
	Transcription ProviderConfig `yaml:"transcription"`

	// Queue enables asynchronous generation through RabbitMQ when URL is set.
	Queue struct {
		URL           string `yaml:"url"`
		ConsumeResult bool   `yaml:"consume_results"`
	} `yaml:"queue"`
}

func defaultConfig() *Config {
	c := &Config{}
	c.Addr = ":8080"
	c.DataDir = "data"
	c.FFmpegPath = "ffmpeg"
	c.ExplanationLanguage = "en"
	c.LogLevel = "info"
	c.Chat.Provider = "deepseek"
	c.Transcription.Provider = "groq"
	c.Queue.ConsumeResult = true
	return c
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.normalize()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// Windows paths written with backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables. getenv is usually
// os.Getenv after godotenv has loaded .env.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&c.Addr, "SENTIX_ADDR")
	set(&c.DataDir, "SENTIX_DATA_DIR")
	set(&c.DBPath, "SENTIX_DB")
	set(&c.UploadDir, "SENTIX_UPLOAD_DIR")
	set(&c.FFmpegPath, "FFMPEG_PATH")
	set(&c.LogLevel, "SENTIX_LOG_LEVEL")
	set(&c.Chat.Provider, "SENTIX_CHAT_PROVIDER")
	set(&c.Transcription.Provider, "SENTIX_TRANSCRIPTION_PROVIDER")
	set(&c.Queue.URL, "RABBITMQ_URL")

	c.normalize()

	switch c.Chat.Provider {
	case "openai":
		set(&c.Chat.APIKey, "OPENAI_API_KEY")
	default:
		set(&c.Chat.APIKey, "DEEPSEEK_API_KEY")
	}
	switch c.Transcription.Provider {
	case "openai":
		set(&c.Transcription.APIKey, "OPENAI_API_KEY")
	default:
		set(&c.Transcription.APIKey, "GROQ_API_KEY")
	}
}

func (c *Config) normalize() {
	c.Chat.Provider = strings.ToLower(strings.TrimSpace(c.Chat.Provider))
	if c.Chat.Provider == "" {
		c.Chat.Provider = "deepseek"
	}
	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = "groq"
	}
	if strings.TrimSpace(c.ExplanationLanguage) == "" {
		c.ExplanationLanguage = "en"
	}

	c.DataDir = filepath.Clean(c.DataDir)
}

// DatabasePath returns the SQLite file, defaulting to DataDir/sentix.db.
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "sentix.db")
}

// Uploads returns the directory served under /uploads/.
func (c *Config) Uploads() string {
	if c.UploadDir != "" {
		return c.UploadDir
	}
	return filepath.Join(c.DataDir, "uploads")
}

// Work returns the scratch directory for downloads and extracted audio.
func (c *Config) Work() string {
	if c.WorkDir != "" {
		return c.WorkDir
	}
	return filepath.Join(c.DataDir, "work")
}

// QueueEnabled reports whether generation jobs go through RabbitMQ.
func (c *Config) QueueEnabled() bool {
	return c.Queue.URL != ""
}
