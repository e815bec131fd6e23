package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fkgwiki/nazuna/internal/bundle"
	"github.com/fkgwiki/nazuna/internal/config"
	"github.com/fkgwiki/nazuna/internal/data"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/nazuna.toml"

var (
	configPath string
	inputFlag  []string
	strictFlag bool

	cfg *config.Config
	log *zap.Logger
	out io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:   "nazuna",
	Short: "Flower Knight Girl master data tools",
	Long: `Decodes getMaster bundles, reconstructs flower knights from their
evolution rows and renders the wiki's data modules.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $NAZUNA_CONFIG or "+defaultConfigPath+")")
	rootCmd.PersistentFlags().StringSliceVarP(&inputFlag, "input", "i", nil, "getMaster files to merge, in order (default from config)")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "abort when a knight has an evolution tier gap")
}

// setup loads the config and logger once per invocation. A missing default
// config file falls back to built-in defaults.
func setup(cmd *cobra.Command, _ []string) error {
	out = cmd.OutOrStdout()

	path := configPath
	if path == "" {
		path = os.Getenv("NAZUNA_CONFIG")
	}
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	var err error
	cfg, err = config.Load(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}
	if strictFlag {
		cfg.Parse.Strict = true
	}

	log, err = newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

// inputFiles returns --input, or the configured inputs when it is unset.
func inputFiles() []string {
	if len(inputFlag) > 0 {
		return inputFlag
	}
	return cfg.Input.Files
}

func decodeInputs() (*bundle.Bundle, error) {
	files := inputFiles()
	if len(files) == 0 {
		return nil, errors.New("no input files")
	}
	b, err := bundle.NewDecoder(log).Decode(files...)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return b, nil
}

func schemas() (data.Schemas, error) {
	var s data.Schemas
	switch cfg.Input.Schema {
	case "", "auto":
	default:
		cs, err := data.CharacterSchemaByVersion(cfg.Input.Schema)
		if err != nil {
			return s, err
		}
		s.Character = cs
	}
	return s, nil
}

// loadMaster decodes the inputs and builds the master data.
func loadMaster() (*data.Master, error) {
	b, err := decodeInputs()
	if err != nil {
		return nil, err
	}
	s, err := schemas()
	if err != nil {
		return nil, err
	}
	return data.Load(b, log, data.Options{Schemas: s, Strict: cfg.Parse.Strict})
}
