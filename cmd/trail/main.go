package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jwebster45206/trail1897/internal/config"
	"github.com/jwebster45206/trail1897/internal/logger"
	"github.com/jwebster45206/trail1897/internal/services"
	"github.com/jwebster45206/trail1897/internal/storage"
	"github.com/jwebster45206/trail1897/pkg/gate"
	"github.com/jwebster45206/trail1897/pkg/game"
	"github.com/jwebster45206/trail1897/pkg/narrative"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trail: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logFile, err := logger.OpenFile(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = logFile.Close() // Ignore error in defer
	}()
	log := logger.Setup(cfg, logFile)
	log.Info("Starting trail",
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model", cfg.ModelName,
		"storage", cfg.StorageBackend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing storage", "error", err)
		}
	}()

	llm, err := services.NewLLMService(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create LLM service: %w", err)
	}
	defer func() {
		if err := llm.Close(); err != nil {
			log.Error("Error closing LLM client", "error", err)
		}
	}()
	if err := llm.InitModel(ctx, cfg.ModelName); err != nil {
		log.Warn("Model initialization failed", "model", cfg.ModelName, "error", err)
	}

	rules := gate.DefaultRules()
	if cfg.RulesFile != "" {
		rules, err = gate.LoadRulesINI(cfg.RulesFile)
		if err != nil {
			return err
		}
		log.Info("Loaded gate rules", "path", cfg.RulesFile)
	}

	session := game.NewSession(game.Options{
		Narrator:    narrative.NewNarrator(llm, log),
		Store:       store,
		Gate:        gate.New(rules),
		SleepPolicy: cfg.SleepPolicy,
		JournalDir:  cfg.JournalDir,
		Logger:      log,
	})
	opening, err := session.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return runREPL(ctx, session, opening, os.Stdin, os.Stdout)
	}
	return runUI(ctx, session, opening, log)
}

func runUI(ctx context.Context, session *game.Session, opening *game.Turn, log *slog.Logger) error {
	p := tea.NewProgram(NewConsoleUI(ctx, session, opening, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
