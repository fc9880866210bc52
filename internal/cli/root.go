// Package cli wires the configuration, store, provider, and translation
// service into the uitranslator command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gearbase/uitranslator/internal/config"
	"github.com/gearbase/uitranslator/internal/glossary"
	"github.com/gearbase/uitranslator/internal/logger"
	"github.com/gearbase/uitranslator/internal/provider"
	"github.com/gearbase/uitranslator/internal/store"
	"github.com/gearbase/uitranslator/internal/translator"
)

var (
	cfgFile    string
	targetLang string
	debugMode  bool
)

// NewRootCommand creates the root command and its subcommands.
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "uitranslator",
		Short: "Resolve UI strings into cached machine translations",
		Long: `uitranslator resolves interface strings through a layered pipeline:
an in-memory cache, a durable SQLite store, and finally a rate-limited
machine-translation provider. Successful translations are glossary-corrected
and persisted, so every string is paid for at most once.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.uitranslator.yaml)")
	rootCmd.PersistentFlags().StringVar(&targetLang, "lang", "", "target language (default from config)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newTranslateCommand())
	rootCmd.AddCommand(newPreloadCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newClearCacheCommand())

	return rootCmd
}

// app holds the assembled components for one command invocation.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	repo    *store.TranslationRepo
	service *translator.Service
	close   func()
}

// newApp loads configuration and assembles the service. withProvider
// controls whether missing credentials are an error: read-only commands
// work against the store alone.
func newApp(withProvider bool) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if debugMode {
		cfg.Debug = true
	}

	log := logger.New(cfg.Debug)

	db, err := store.Init(cfg.DBPath)
	if err != nil {
		log.Error("failed to open translation store", zap.String("path", cfg.DBPath), zap.Error(err))
		_ = log.Sync()
		return nil, err
	}
	repo := store.NewTranslationRepo(db)

	gloss := glossary.NewDefault()
	if cfg.GlossaryPath != "" {
		if gloss, err = glossary.Load(cfg.GlossaryPath); err != nil {
			_ = db.Close()
			_ = log.Sync()
			return nil, fmt.Errorf("load glossary: %w", err)
		}
	}

	var client provider.Client
	if withProvider {
		creds := make([]provider.Credential, 0, len(cfg.Provider.Credentials))
		for _, c := range cfg.Provider.Credentials {
			creds = append(creds, provider.Credential{
				Key:               c.Key,
				RequestsPerMinute: c.RequestsPerMinute,
				DailyQuota:        c.DailyQuota,
			})
		}
		client, err = provider.New(provider.Config{
			Endpoint:    cfg.Provider.Endpoint,
			AuthScheme:  cfg.Provider.AuthScheme,
			Timeout:     cfg.Provider.RequestTimeout,
			Credentials: creds,
		}, log)
		if err != nil {
			_ = db.Close()
			_ = log.Sync()
			return nil, err
		}
	}

	service := translator.NewService(translator.Options{
		Provider:        client,
		Store:           repo,
		Glossary:        gloss,
		Logger:          log,
		SourceLang:      cfg.SourceLang,
		Model:           cfg.Provider.Model,
		MaxBatchSize:    cfg.Scheduler.MaxBatchSize,
		InterBatchDelay: cfg.Scheduler.InterBatchDelay,
	})

	return &app{
		cfg:     cfg,
		log:     log,
		repo:    repo,
		service: service,
		close: func() {
			_ = db.Close()
			_ = log.Sync()
		},
	}, nil
}

// resolveLang applies the command-line language override.
func (a *app) resolveLang() string {
	if targetLang != "" {
		return targetLang
	}
	return a.cfg.DefaultTargetLang
}
