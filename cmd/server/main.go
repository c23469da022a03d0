package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"sentix/internal/config"
	"sentix/internal/db"
	"sentix/internal/logger"
	"sentix/internal/media"
	"sentix/internal/queue"
	"sentix/internal/server"
	"sentix/services"
)

type args struct {
	Config  string `arg:"-c,--config" help:"YAML config file" default:"sentix.yaml"`
	Addr    string `arg:"-a,--addr" help:"listen address, overrides the config file"`
	DataDir string `arg:"--data-dir" help:"directory for the database and uploads"`
	NoQueue bool   `arg:"--no-queue" help:"run queued jobs in-process even when a broker is configured"`
	Verbose bool   `arg:"-v,--verbose" help:"debug logging"`
}

func (args) Description() string {
	return "sentix API server: explanations, subtitle generation, uploads and vocabulary"
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("ignoring .env: %v", err)
	}

	var a args
	arg.MustParse(&a)

	cfg, err := server.LoadConfig(a.Config)
	if err != nil {
		exitWithErr(err)
	}
	cfg.ApplyEnv(os.Getenv)
	if a.Addr != "" {
		cfg.Addr = a.Addr
	}
	if a.DataDir != "" {
		cfg.DataDir = a.DataDir
	}
	if a.NoQueue {
		cfg.Queue.URL = ""
	}
	if a.Verbose {
		cfg.LogLevel = "debug"
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		exitWithErr(err)
	}
	defer database.Close()

	ffmpeg := newFFmpeg(cfg.FFmpegPath)
	if err := ffmpeg.CheckInstalled(); err != nil {
		logger.Warn("⚠️ %v: subtitle generation will fail", err)
	}

	llm := services.NewLLMService(cfg.Chat.Provider, cfg.Chat.APIKey, cfg.ExplanationLanguage)
	if err := llm.CheckAPIKey(); err != nil {
		logger.Warn("⚠️ %v", err)
	}
	transcriber := services.NewTranscriptionService(cfg.Transcription.Provider, cfg.Transcription.APIKey)
	if err := transcriber.CheckInstalled(); err != nil {
		logger.Warn("⚠️ %v", err)
	}

	deps := server.Deps{
		DB:        database,
		Explainer: llm,
		Chat:      llm,
		Generator: services.NewSubtitleGenerator(ffmpeg, transcriber, cfg.Uploads(), cfg.Work()),
		UploadDir: cfg.Uploads(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var results *queue.Consumer
	if cfg.QueueEnabled() {
		logger.Info("🐰 Connecting to RabbitMQ...")
		producer, err := queue.NewProducer(cfg.Queue.URL)
		if err != nil {
			exitWithErr(err)
		}
		defer producer.Close()
		deps.Publisher = producer

		if cfg.Queue.ConsumeResult {
			results, err = queue.NewConsumer(cfg.Queue.URL, config.SubtitleResultQueue)
			if err != nil {
				exitWithErr(err)
			}
			defer results.Close()
		}
	}

	srv := server.New(deps)
	if results != nil {
		go func() {
			if err := results.Consume(ctx, queue.ResultHandler(srv.Jobs())); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("result consumer stopped: %v", err)
			}
		}()
	}

	logger.Info("📂 Uploads in %s, database %s", cfg.Uploads(), cfg.DatabasePath())
	if err := srv.Run(ctx, cfg.Addr); err != nil {
		exitWithErr(err)
	}
	logger.Info("👋 Server stopped")
}

func newFFmpeg(path string) *media.FFmpegService {
	if path == "" || path == "ffmpeg" {
		return media.NewFFmpegService()
	}
	return media.NewFFmpegServiceWithPath(path)
}

func exitWithErr(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
