// Command nexus is a terminal gaming companion chat.
//
// Usage:
//
//	NEXUS_API_URL=http://localhost:5000 nexus   # talk to a GG Nexus backend
//	GEMINI_API_KEY=gk-... nexus                 # talk to Gemini directly
//
// Flags:
//
//	-api-url string    Backend base URL (overrides NEXUS_API_URL)
//	-model string      Model ID for the direct Gemini transport (overrides NEXUS_MODEL)
//	-state-dir string  Directory for identity and transcripts (default ~/.nexus)
//	-debug             Write a debug log to the state directory
//
// Environment:
//
//	NEXUS_API_URL, NEXUS_API_TOKEN      Remote backend and its bearer token
//	GEMINI_API_KEY, NEXUS_MODEL         Direct Gemini transport
//	NEXUS_USERNAME, NEXUS_GAMES,        Player profile (NEXUS_GAMES is
//	NEXUS_REGION, NEXUS_GOALS           comma-separated)
//	NEXUS_STATE_DIR, NEXUS_DEBUG
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ggnexus/nexus"
	bt "github.com/ggnexus/nexus/bubbletea"
	"github.com/ggnexus/nexus/chat"
	"github.com/ggnexus/nexus/gemini"
	"github.com/ggnexus/nexus/httpapi"
	"github.com/ggnexus/nexus/profile"
	"github.com/ggnexus/nexus/state"
)

type config struct {
	APIURL    string   `env:"NEXUS_API_URL"`
	APIToken  string   `env:"NEXUS_API_TOKEN"`
	GeminiKey string   `env:"GEMINI_API_KEY"`
	Model     string   `env:"NEXUS_MODEL"`
	Username  string   `env:"NEXUS_USERNAME"`
	Games     []string `env:"NEXUS_GAMES" envSeparator:","`
	Region    string   `env:"NEXUS_REGION"`
	Goals     string   `env:"NEXUS_GOALS"`
	StateDir  string   `env:"NEXUS_STATE_DIR"`
	Debug     bool     `env:"NEXUS_DEBUG"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "nexus: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	var (
		apiURL   = flag.String("api-url", "", "Backend base URL (overrides NEXUS_API_URL)")
		model    = flag.String("model", "", "Model ID for the direct Gemini transport")
		stateDir = flag.String("state-dir", "", "Directory for identity and transcripts")
		debug    = flag.Bool("debug", false, "Write a debug log to the state directory")
	)
	flag.Parse()
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *stateDir != "" {
		cfg.StateDir = *stateDir
	}
	if *debug {
		cfg.Debug = true
	}
	if cfg.StateDir == "" {
		cfg.StateDir = defaultStateDir()
	}

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := slog.New(slog.DiscardHandler)
	if cfg.Debug {
		f, err := tea.LogToFile(filepath.Join(cfg.StateDir, "debug.log"), "nexus")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	prof := &profile.Summary{
		Username:      cfg.Username,
		FavoriteGames: cfg.Games,
		Region:        cfg.Region,
		Goals:         cfg.Goals,
	}

	transport, err := buildTransport(ctx, cfg, prof, logger)
	if err != nil {
		return err
	}

	ids := nexus.NewIdentityStore(state.NewFile(filepath.Join(cfg.StateDir, "state")))

	// The program does not exist yet when the controller is built, so
	// the change callback reads it through the closure.
	var program *tea.Program
	ctrl := chat.New(transport, ids, prof,
		chat.WithLogger(logger),
		chat.WithOnChange(func() {
			if program != nil {
				program.Send(bt.ChangedMsg{})
			}
		}),
	)

	program = bt.NewProgram(bt.New(ctrl, nexus.DefaultTheme()))
	if err := bt.Run(ctx, program); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

func buildTransport(ctx context.Context, cfg config, prof *profile.Summary, logger *slog.Logger) (nexus.Transport, error) {
	if cfg.APIURL != "" {
		var opts []httpapi.Option
		if cfg.APIToken != "" {
			opts = append(opts, httpapi.WithToken(cfg.APIToken))
		}
		return httpapi.New(cfg.APIURL, opts...), nil
	}

	if cfg.GeminiKey != "" {
		opts := []gemini.Option{
			gemini.WithLogger(logger),
		}
		if block := prof.PromptBlock(); block != "" {
			opts = append(opts, gemini.WithProfile(block))
		}
		if cfg.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Model))
		}
		return gemini.New(ctx, cfg.GeminiKey, filepath.Join(cfg.StateDir, "sessions"), opts...)
	}

	return nil, fmt.Errorf("no transport configured: set NEXUS_API_URL or GEMINI_API_KEY")
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".nexus")
}
