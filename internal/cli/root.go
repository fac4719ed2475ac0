// Package cli implements the watchlist command-line interface: entry
// management commands, the three charts, and the interactive dashboard.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/watchlist/internal/dashboard"
	"github.com/mesh-intelligence/watchlist/internal/paths"
	"github.com/mesh-intelligence/watchlist/internal/refdata"
	"github.com/mesh-intelligence/watchlist/pkg/store"
	"github.com/mesh-intelligence/watchlist/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by the subcommands of one root command.
type app struct {
	flags  rootFlags
	v      *viper.Viper
	cfg    types.Config
	logger *zap.Logger
}

// NewRootCmd creates the top-level "watchlist" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "watchlist",
		Short: "Track the anime you watch",
		Long: `watchlist keeps a personal anime watchlist in a CSV file and charts it:
genre distribution, rating distribution by status, and favourite characters
from a JSON reference file.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory holding data.csv and data.json (default: current directory)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newRemoveCmd(a))
	root.AddCommand(newGenresCmd(a))
	root.AddCommand(newRatingsCmd(a))
	root.AddCommand(newCharactersCmd(a))
	root.AddCommand(newDashboardCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("✖ "+err.Error()))
	}
	return exitCode(err)
}

// setup resolves directories, loads configuration, and builds the logger.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError("load config: %w", err)
	}
	a.v = v

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return sysError("resolve data dir: %w", err)
	}
	a.cfg = types.Config{
		Backend:       v.GetString(cfgKeyBackend),
		DataDir:       dataDir,
		EntriesFile:   v.GetString(cfgKeyEntriesFile),
		ReferenceFile: v.GetString(cfgKeyReferenceFile),
	}
	if err := a.cfg.Validate(); err != nil {
		return userError("config backend %q: %w", a.cfg.Backend, err)
	}

	logger, err := newLogger(v.GetString(cfgKeyLogLevel), a.flags.verbose)
	if err != nil {
		return sysError("initialize logger: %w", err)
	}
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("data_dir", dataDir),
		zap.String("backend", a.cfg.Backend))
	return nil
}

// newLogger builds a production zap logger at level, or debug when verbose.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func (a *app) entriesPath() string {
	return filepath.Join(a.cfg.DataDir, a.cfg.EntriesName())
}

func (a *app) referencePath() string {
	return filepath.Join(a.cfg.DataDir, a.cfg.ReferenceName())
}

// openDashboard attaches the configured store and wraps it in a Dashboard.
// The caller must call the returned close function.
func (a *app) openDashboard() (*dashboard.Dashboard, func(), error) {
	st, err := store.New(a.cfg.Backend)
	if err != nil {
		return nil, nil, sysError("create store: %w", err)
	}
	if err := st.Attach(a.cfg); err != nil {
		return nil, nil, storeError(err)
	}
	d := dashboard.New(st, refdata.NewLoader(a.referencePath()), a.logger)
	closeFn := func() {
		if err := st.Detach(); err != nil {
			a.logger.Warn("detach store", zap.Error(err))
		}
	}
	return d, closeFn, nil
}
