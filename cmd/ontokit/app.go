package main

import (
	"errors"
	"fmt"
	"log/slog"
	stdos "os"
	"path/filepath"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/os"
	"github.com/spf13/cobra"

	"github.com/kittclouds/ontokit/internal/config"
	"github.com/kittclouds/ontokit/internal/store"
	"github.com/kittclouds/ontokit/pkg/grammar"
	"github.com/kittclouds/ontokit/pkg/model"
	"github.com/kittclouds/ontokit/pkg/ontology"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	lang       string
	modelDir   string
	train      bool
}

// app is the state a subcommand runs with.
type app struct {
	cfg  *config.Config
	log  *slog.Logger
	reg  *grammar.Registry
	lang grammar.Lang
}

func (g *globals) setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("lang") {
		cfg.Lang = g.lang
	}
	if flags.Changed("model-dir") {
		cfg.ModelDir = g.modelDir
	}
	if flags.Changed("train") {
		cfg.Train = g.train
	}

	fs, err := modelFS(cfg.ModelDir)
	if err != nil {
		return nil, err
	}
	reg := grammar.Default(fs)
	lang, err := reg.Lookup(cfg.Lang)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:  cfg,
		log:  cfg.NewLogger(cmd.ErrOrStderr()),
		reg:  reg,
		lang: lang,
	}, nil
}

// modelFS roots a filesystem at dir, creating it.
func modelFS(dir string) (hackpadfs.FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := stdos.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}
	fs := os.NewFS()
	root, err := fs.FromOSPath(abs)
	if err != nil {
		return nil, err
	}
	return fs.Sub(root)
}

// parser loads the persisted model, training and saving one when it is
// missing and training is enabled.
func (a *app) parser() (*ontology.Parser, error) {
	p, err := ontology.BuildParser(a.reg, a.lang, ontology.WithLogger(a.log))
	if err == nil || !errors.Is(err, model.ErrModelNotFound) || !a.cfg.Train {
		return p, err
	}
	a.log.Info("no model found, training", "lang", a.lang)
	p, _, err = a.trainAndSave()
	return p, err
}

func (a *app) trainAndSave() (*ontology.Parser, model.TrainStats, error) {
	p, stats, err := ontology.TrainParser(a.reg, a.lang, ontology.WithLogger(a.log))
	if err != nil {
		return nil, stats, err
	}
	if err := a.reg.SaveModel(a.lang, p.Model()); err != nil {
		return nil, stats, err
	}
	a.log.Debug("model saved", "lang", a.lang, "path", grammar.ModelPath(a.lang))
	return p, stats, nil
}

func (a *app) store() (store.Storer, error) {
	return store.Open(a.cfg.Store.Driver, a.cfg.Store.DSN)
}
