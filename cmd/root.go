// Package cmd defines the CLI surface of the compliance engine.
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/config"
	"github.com/warp/compliance-engine/factory"
	"github.com/warp/compliance-engine/logger"
	"github.com/warp/compliance-engine/store/sqlite"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Training compliance and scheduling engine",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// setup wires the pieces every command needs: config, store, catalog,
// engine. Callers own closing the returned store.
func setup(component string) (*config.Config, *sqlite.Store, *compliance.Engine, logger.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	log := logger.New(component)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	catalog, err := factory.Load(cfg.CatalogPath)
	if err != nil {
		store.Close()
		return nil, nil, nil, nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	engine := compliance.NewEngine(store, catalog, compliance.Options{
		Rand:            compliance.NewRand(seed),
		Log:             log,
		Instructors:     factory.Instructors(),
		PassProbability: cfg.Lifecycle.PassProbability,
	})
	return cfg, store, engine, log, nil
}
