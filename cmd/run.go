package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/anamnesis/internal/cases"
	"github.com/abhisek/anamnesis/internal/config"
	"github.com/abhisek/anamnesis/internal/freeform"
	"github.com/abhisek/anamnesis/internal/interview"
	"github.com/abhisek/anamnesis/internal/llm"
	"github.com/abhisek/anamnesis/internal/store"
)

// backend is an opened store.
type backend struct {
	journal   store.Journal
	snapshots store.SnapshotRepo
	reset     func(context.Context) error
	close     func() error
}

// deps bundles what every command needs.
type deps struct {
	cfg     *config.Config
	logger  *zap.Logger
	backend *backend
}

// loadConfig reads the config and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{File: file})
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Path = p
	}
	if d, _ := cmd.Flags().GetString("cases"); d != "" {
		cfg.Cases.Dir = d
	}
	return cfg, nil
}

// setup loads config, builds the logger and opens the store. logFile
// redirects logs away from the terminal.
func setup(cmd *cobra.Command, logFile string) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	dev, _ := cmd.Flags().GetBool("dev")

	lc := cfg.Log
	if logFile != "" && lc.File == "" {
		lc.File = logFile
	}
	logger, err := config.NewLogger(lc, verbose, dev)
	if err != nil {
		return nil, err
	}

	b, err := openBackend(cmd.Context(), cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return &deps{cfg: cfg, logger: logger, backend: b}, nil
}

func (rt *deps) Close() {
	if err := rt.backend.close(); err != nil {
		rt.logger.Warn("close store", zap.Error(err))
	}
	_ = rt.logger.Sync()
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		rs, err := store.OpenRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return &backend{journal: rs.Journal(), snapshots: rs.SnapshotRepo(), reset: rs.Reset, close: rs.Close}, nil

	case config.BackendMemory:
		j, snaps := store.NewMemoryJournal(), &store.MemorySnapshots{}
		reset := func(ctx context.Context) error {
			if err := j.Reset(ctx); err != nil {
				return err
			}
			return snaps.Reset(ctx)
		}
		return &backend{journal: j, snapshots: snaps, reset: reset, close: func() error { return nil }}, nil
	}

	path := cfg.Store.Path
	if path == "" {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", zap.String("path", path))
	return &backend{journal: st.Journal(), snapshots: st.SnapshotRepo(), reset: st.Reset, close: st.Close}, nil
}

// buildEngine wires the interview engine to the store through an async
// recorder. The caller closes the recorder after the engine is done.
func (rt *deps) buildEngine() (*interview.Engine, *store.Recorder, error) {
	lib, err := cases.Load(rt.cfg.Cases.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load cases: %w", err)
	}
	rec := store.NewRecorder(rt.backend.journal, rt.cfg.Recorder.QueueSize, rt.logger)
	engine, err := interview.New(interview.Options{
		MinScore:    rt.cfg.Classifier.MinScore,
		MinWordLen:  rt.cfg.Classifier.MinInputWordLen,
		Cases:       lib,
		Doorknob:    rt.cfg.Doorknob,
		MaxSessions: rt.cfg.Sessions.Max,
		Recorder:    rec,
		Snapshots:   rt.backend.snapshots,
		Logger:      rt.logger,
	})
	if err != nil {
		rec.Close()
		return nil, nil, err
	}
	return engine, rec, nil
}

// buildFreeform returns the LLM responder when a provider is configured
// and the case fallback otherwise.
func (rt *deps) buildFreeform(ctx context.Context, rec *store.Recorder) freeform.Responder {
	provider, err := llm.NewProvider(ctx, rt.cfg.LLM, rec, rt.logger)
	switch {
	case errors.Is(err, llm.ErrDisabled):
		rt.logger.Debug("no LLM provider configured; using case fallback lines")
		return freeform.CaseFallback{}
	case err != nil:
		fmt.Fprintln(os.Stderr, "warning: LLM provider unavailable:", err)
		return freeform.CaseFallback{}
	}
	rt.logger.Info("free-form answers enabled", zap.String("provider", rt.cfg.LLM.Provider), zap.String("model", provider.ModelID()))
	return freeform.NewLLMResponder(provider, rt.cfg.Freeform, freeform.CaseFallback{}, rt.logger)
}
