package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/jmgilman/s3fs/internal/cli"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func setupLogging() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}),
	))
}

func main() {
	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	setupLogging()

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
