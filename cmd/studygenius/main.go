package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/csheth/studygenius/internal/config"
	"github.com/csheth/studygenius/internal/inbox"
	"github.com/csheth/studygenius/internal/llm"
	"github.com/csheth/studygenius/internal/logging"
	"github.com/csheth/studygenius/internal/tui"
)

var errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()

func main() {
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	model := flag.String("model", "", "override the Gemini model (STUDYGENIUS_MODEL)")
	endpoint := flag.String("endpoint", "", "override the Gemini API base URL (STUDYGENIUS_ENDPOINT)")
	inboxDir := flag.String("inbox", "", "watch this folder for dropped study files (STUDYGENIUS_INBOX)")
	startDir := flag.String("dir", "", "directory the file picker opens in")
	debug := flag.Bool("debug", false, "write debug records to the log file")
	forgetKey := flag.Bool("forget-key", false, "delete the stored API key before starting")
	flag.Parse()

	if err := run(runOptions{
		noAltScreen: *noAltScreen,
		model:       *model,
		endpoint:    *endpoint,
		inboxDir:    *inboxDir,
		startDir:    *startDir,
		debug:       *debug,
		forgetKey:   *forgetKey,
	}); err != nil {
		fmt.Fprintln(os.Stderr, errorLabel("error:"), err)
		os.Exit(1)
	}
}

type runOptions struct {
	noAltScreen bool
	model       string
	endpoint    string
	inboxDir    string
	startDir    string
	debug       bool
	forgetKey   bool
}

func run(opts runOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.endpoint != "" {
		cfg.Endpoint = opts.endpoint
	}
	if opts.inboxDir != "" {
		cfg.InboxDir = opts.inboxDir
	}

	level := zapcore.InfoLevel
	if opts.debug {
		level = zapcore.DebugLevel
	}
	logger, closeLog, err := logging.New(logging.Options{Path: cfg.LogFile, Level: level})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	store := config.NewCredentialStore(cfg.CredentialsPath())
	if opts.forgetKey {
		if err := store.Clear(); err != nil {
			return err
		}
		logger.Info("stored api key removed", zap.String("path", store.Path()))
	}
	newClient := clientFactory(cfg, logger)

	var client llm.Client
	key, source, err := cfg.ResolveAPIKey(store)
	if err != nil {
		// A damaged credentials file only costs the user a re-entry.
		logger.Warn("read stored API key", zap.String("path", store.Path()), zap.Error(err))
	}
	if key != "" {
		client, err = newClient(key)
		if err != nil {
			return fmt.Errorf("create gemini client: %w", err)
		}
		logger.Info("api key resolved", zap.String("source", string(source)))
	}

	uiCfg := tui.Config{
		Client:      client,
		NewClient:   newClient,
		Credentials: store,
		StartDir:    opts.startDir,
		Logger:      logger,
		Context:     ctx,
	}

	if cfg.InboxDir != "" {
		watcher, err := inbox.New(inbox.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("create inbox watcher: %w", err)
		}
		defer func() { _ = watcher.Stop() }()
		paths, err := watcher.Watch(ctx, cfg.InboxDir)
		if err != nil {
			return fmt.Errorf("watch inbox: %w", err)
		}
		uiCfg.Inbox = paths
		uiCfg.InboxDir = cfg.InboxDir
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if !opts.noAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(uiCfg), programOpts...)

	logger.Info("starting", zap.String("model", cfg.Model), zap.Bool("strict_schema", cfg.StrictSchema))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func clientFactory(cfg *config.Config, logger *zap.Logger) func(string) (llm.Client, error) {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	temperature := cfg.Temperature
	return func(apiKey string) (llm.Client, error) {
		return llm.New(llm.Config{
			APIKey:       apiKey,
			Model:        cfg.Model,
			Endpoint:     cfg.Endpoint,
			Temperature:  &temperature,
			StrictSchema: cfg.StrictSchema,
			HTTPClient:   httpClient,
			Logger:       logger,
		})
	}
}
