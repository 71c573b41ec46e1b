package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/savedobjects/pkg/sqlite"
	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend      string                 `yaml:"backend"`
	DataDir      string                 `yaml:"data_dir,omitempty"`
	Namespace    string                 `yaml:"namespace,omitempty"`
	LogLevel     string                 `yaml:"log_level"`
	Listen       string                 `yaml:"listen"`
	SyncStrategy string                 `yaml:"sync_strategy"`
	Types        []types.TypeDefinition `yaml:"types"`
}

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long:  "Create config.yaml when missing, then create the data directory and an empty snapshot.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(a.settings.configDir, 0o755); err != nil {
		return sysErrorf("create config directory: %w", err)
	}

	cfg, err := a.settings.backendConfig(a.flags.dataDir)
	if err != nil {
		return err
	}

	configPath := filepath.Join(a.settings.configDir, configFileExt)
	written, err := writeConfigIfMissing(configPath, a.settings, a.flags.dataDir)
	if err != nil {
		return sysErrorf("write config: %w", err)
	}

	backend := sqlite.NewBackend(sqlite.WithLogger(a.logger))
	if err := backend.Attach(cfg); err != nil {
		return sysErrorf("initialize storage: %w", err)
	}
	if err := backend.Detach(); err != nil {
		return sysErrorf("finalize storage: %w", err)
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "wrote %s\n", configPath)
	}
	fmt.Fprintf(out, "initialized %s\n", cfg.DataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml from s. It reports whether the
// file was written; an existing file is left alone.
func writeConfigIfMissing(path string, s settings, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if dataDir == "" {
		dataDir = s.DataDir
	}
	cfg := configFile{
		Backend:      s.Backend,
		DataDir:      dataDir,
		Namespace:    s.Namespace,
		LogLevel:     s.LogLevel,
		Listen:       s.Listen,
		SyncStrategy: s.SyncStrategy,
		Types:        s.Types,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	return true, os.WriteFile(path, data, 0o644)
}
