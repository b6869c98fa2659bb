package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/terminal"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

// main - plays against the computer in the terminal, no server needed.
func main() {
	configPath := flag.String("config", "", "path to config.yml; environment and defaults when empty")
	logPath := flag.String("log", "", "write JSON logs to this file")
	flag.Parse()

	if err := run(*configPath, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "ttt-terminal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logPath string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := initLogger(conf, logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	scoring, err := tictactoe.ParseScoring(conf.AI.Scoring)
	if err != nil {
		return fmt.Errorf("invalid ai config: %w", err)
	}

	session := terminal.NewSession(tictactoe.NewGameController(tictactoe.NewEngine(scoring)))

	return terminal.NewApp(logger, session, scheduler.New(conf.AI.ThinkDelay)).Run()
}

// initialize logger; the screen belongs to the board, so logs go to a file or nowhere.
func initLogger(conf *config.Config, path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: config.ParseLogLevel(conf.LogLevel)}))

	return logger, func() { _ = file.Close() }, nil
}
