package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mcoot/mobboss/internal/cli"
)

func main() {
	// A .env file is optional; the environment always wins over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Warn("failed to read .env", slog.String("error", err.Error()))
	}

	cli.Execute()
}
