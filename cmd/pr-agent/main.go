package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/patryk-kowalski-ds/pr-agent/internal/adapter/cli"
	"github.com/patryk-kowalski-ds/pr-agent/internal/adapter/local"
	"github.com/patryk-kowalski-ds/pr-agent/internal/adapter/observability"
	"github.com/patryk-kowalski-ds/pr-agent/internal/adapter/output/markdown"
	"github.com/patryk-kowalski-ds/pr-agent/internal/adapter/store/sqlite"
	"github.com/patryk-kowalski-ds/pr-agent/internal/config"
	"github.com/patryk-kowalski-ds/pr-agent/internal/store"
	"github.com/patryk-kowalski-ds/pr-agent/internal/usecase/review"
	"github.com/patryk-kowalski-ds/pr-agent/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "pr-agent",
		EnvPrefix:   "PR_AGENT",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	// Inline code comments cannot be placed against a local repository;
	// force the setting off regardless of configuration.
	if cfg.Review.InlineComments {
		log.Println("inline code comments are not supported for local repositories; disabling")
		cfg.Review.InlineComments = false
	}

	repoDir := cfg.Git.RepositoryDir
	if repoDir == "" {
		repoDir = "."
	}

	logger := buildLogger(cfg.Observability.Logging)

	var runStore store.Store
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0o755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				runStore = sqliteStore
				defer runStore.Close()
			}
		}
	}

	factory := func(ctx context.Context, req review.Request) (review.GitProvider, error) {
		dir := req.RepoDir
		if dir == "" {
			dir = repoDir
		}
		return local.NewProvider(ctx, local.Options{
			RepoDir:         dir,
			BranchName:      req.Branch,
			BaseBranch:      req.BaseBranch,
			DescriptionPath: choosePath(req.DescriptionPath, cfg.Local.DescriptionPath),
			ReviewPath:      choosePath(req.ReviewPath, cfg.Local.ReviewPath),
		})
	}

	orchestrator := review.NewOrchestrator(review.OrchestratorDeps{
		NewProvider:            factory,
		Renderer:               markdown.NewBuilder(),
		Store:                  runStore,
		Logger:                 logger,
		Repository:             repositoryName(repoDir),
		DefaultDescriptionPath: cfg.Local.DescriptionPath,
		DefaultReviewPath:      cfg.Local.ReviewPath,
	})

	root := cli.NewRootCommand(cli.Dependencies{
		Runner:            orchestrator,
		DefaultBaseBranch: cfg.Git.BaseBranch,
		DefaultRepoDir:    cfg.Git.RepositoryDir,
		Version:           version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func buildLogger(cfg config.LoggingConfig) review.Logger {
	if !cfg.Enabled {
		return nil
	}

	level := observability.LogLevelInfo
	switch cfg.Level {
	case "debug":
		level = observability.LogLevelDebug
	case "warn":
		level = observability.LogLevelWarn
	case "error":
		level = observability.LogLevelError
	}

	format := observability.LogFormatHuman
	if cfg.Format == "json" || (cfg.Format == "" && !review.IsOutputTerminal()) {
		format = observability.LogFormatJSON
	}

	return observability.NewLogger(level, format)
}

func choosePath(override, configured string) string {
	if override != "" {
		return override
	}
	return configured
}

func repositoryName(repoDir string) string {
	abs, err := filepath.Abs(repoDir)
	if err != nil {
		return "unknown"
	}
	return filepath.Base(abs)
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pr-agent"))
	}
	return paths
}

// Compile-time interface compliance checks
var _ review.GitProvider = (*local.Provider)(nil)
var _ review.Renderer = (*markdown.Builder)(nil)
var _ review.Logger = (*observability.Logger)(nil)
var _ store.Store = (*sqlite.Store)(nil)
var _ cli.BranchRunner = (*review.Orchestrator)(nil)
