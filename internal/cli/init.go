package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/watchlist/pkg/store"
	"github.com/mesh-intelligence/watchlist/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize watchlist storage",
		Long: `Create the configuration and data directories, record the data directory
in config.yaml, and check that the configured backend can attach.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	if err := os.MkdirAll(a.cfg.DataDir, 0o755); err != nil {
		return sysError("create data directory: %w", err)
	}

	configPath := a.v.ConfigFileUsed()
	if configPath == "" {
		return sysError("no config file in use")
	}
	if a.flags.dataDir != "" {
		if err := setConfigDataDir(configPath, a.cfg.DataDir); err != nil {
			return sysError("write config: %w", err)
		}
	}

	st, err := store.New(a.cfg.Backend)
	if err != nil {
		return sysError("create store: %w", err)
	}
	if err := st.Attach(a.cfg); err != nil {
		return sysError("initialize storage: %w", err)
	}
	if err := st.Detach(); err != nil {
		return sysError("finalize storage: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watchlist initialized\nconfig: %s\ndata:   %s\n",
		configPath, filepath.Join(a.cfg.DataDir, a.cfg.EntriesName()))
	return nil
}

// setConfigDataDir rewrites data_dir in the config file at path, keeping
// the other keys.
func setConfigDataDir(path, dataDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg := configFile{
		Backend:       defaultBackend,
		EntriesFile:   types.DefaultEntriesFile,
		ReferenceFile: types.DefaultReferenceFile,
		LogLevel:      defaultLogLevel,
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DataDir == dataDir {
		return nil
	}
	cfg.DataDir = dataDir
	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}
