package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"sentix/internal/config"
	"sentix/internal/logger"
	"sentix/internal/media"
	"sentix/internal/queue"
	"sentix/internal/server"
	"sentix/services"
)

type args struct {
	Config  string `arg:"-c,--config" help:"YAML config file shared with the server" default:"sentix.yaml"`
	Workers int    `arg:"-w,--workers" help:"jobs processed at once" default:"1"`
	Verbose bool   `arg:"-v,--verbose" help:"debug logging"`
}

func (args) Description() string {
	return "sentix worker: runs queued subtitle generation jobs"
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
	if a.Verbose {
		cfg.LogLevel = "debug"
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	if !cfg.QueueEnabled() {
		exitWithErr(errors.New("no broker configured: set RABBITMQ_URL or queue.url"))
	}

	ffmpeg := media.NewFFmpegServiceWithPath(cfg.FFmpegPath)
	if cfg.FFmpegPath == "" || cfg.FFmpegPath == "ffmpeg" {
		ffmpeg = media.NewFFmpegService()
	}
	if err := ffmpeg.CheckInstalled(); err != nil {
		exitWithErr(err)
	}
	transcriber := services.NewTranscriptionService(cfg.Transcription.Provider, cfg.Transcription.APIKey)
	if err := transcriber.CheckInstalled(); err != nil {
		exitWithErr(err)
	}
	generator := services.NewSubtitleGenerator(ffmpeg, transcriber, cfg.Uploads(), cfg.Work())

	logger.Info("🐰 Connecting to RabbitMQ...")
	producer, err := queue.NewProducer(cfg.Queue.URL)
	if err != nil {
		exitWithErr(err)
	}
	defer producer.Close()

	worker := queue.NewJobWorker(generator, producer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n := max(a.Workers, 1)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		consumer, err := queue.NewConsumer(cfg.Queue.URL, config.SubtitleCommandQueue)
		if err != nil {
			exitWithErr(err)
		}
		defer consumer.Close()

		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := consumer.Consume(ctx, worker.Handle); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("consumer %d stopped: %v", id, err)
				stop()
			}
		}(i)
	}

	logger.Info("🚀 Worker started with %d consumer(s), listening on %s", n, config.SubtitleCommandQueue)
	wg.Wait()
	logger.Info("👋 Worker stopped")
}

func exitWithErr(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
