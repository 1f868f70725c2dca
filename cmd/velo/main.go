package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/velo/internal/cache"
	"github.com/alexanderramin/velo/internal/cli"
	"github.com/alexanderramin/velo/internal/config"
	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/fitfile"
	"github.com/alexanderramin/velo/internal/knowledge"
	"github.com/alexanderramin/velo/internal/llm"
	"github.com/alexanderramin/velo/internal/logging"
	"github.com/alexanderramin/velo/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}
	defer logger.Close()
	ctx = logger.WithContext(ctx)

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	deps := service.Deps{
		Conn:     database,
		UoW:      db.NewSQLiteUnitOfWork(database),
		Cache:    cache.New[domain.FitnessSnapshot](cfg.Cache.TTL),
		Observer: service.NewLogUseCaseObserver(logger.Logger),
		Clock:    func() time.Time { return time.Now().UTC() },
		Config:   cfg.Service(),
	}

	// Collaborators are optional; without them generation and resync report
	// the collaborator as unavailable.
	if cfg.Generator.Enabled {
		llmCfg := llm.DefaultConfig()
		llmCfg.Endpoint = cfg.Generator.Endpoint
		llmCfg.Model = cfg.Generator.Model
		llmCfg.Timeout = cfg.Generator.Timeout
		llmCfg.MaxRetries = cfg.Generator.MaxRetries
		client := llm.NewOllamaClient(llmCfg, llm.NewLogObserver(logger.Logger))
		deps.Generator = llm.NewWorkoutGenerator(client, cfg.Generator.ArtifactDir)
	}
	if cfg.Knowledge.Enabled {
		deps.Retriever = knowledge.NewClient(knowledge.Config{
			Endpoint:    cfg.Knowledge.Endpoint,
			Timeout:     cfg.Knowledge.Timeout,
			Limit:       cfg.Knowledge.Limit,
			MinScore:    cfg.Knowledge.MinScore,
			MaxPassages: cfg.Knowledge.MaxPassages,
		})
	}
	if cfg.Sync.FitDir != "" {
		deps.Source = fitfile.NewDirSource(cfg.Sync.FitDir, cfg.Sync.Workers)
	}

	app := &cli.App{
		Services: service.New(deps),
		Deps:     deps,
		Config:   cfg,
		Logger:   logger.Logger,
		IsInteractive: func() bool {
			return logging.IsTerminal(os.Stdin)
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
