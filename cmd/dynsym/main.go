// Command dynsym finds the time-varying quantities in symbolic expressions
// and simulates symbolic ODE models.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/dynsym/internal/experiment"
	"github.com/san-kum/dynsym/internal/storage"
)

// app is the state shared by all commands.
type app struct {
	v       *viper.Viper
	logger  *zap.Logger
	cfgFile string
	verbose bool
}

func (a *app) store() (*storage.Store, error) {
	st := storage.New(a.v.GetString("data"))
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

// registry returns an experiment registry with the model files of the
// configured models directory registered by name.
func (a *app) registry() *experiment.Registry {
	r := experiment.NewRegistry()
	dir := a.v.GetString("models")
	if dir == "" {
		return r
	}
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		paths, _ := filepath.Glob(filepath.Join(dir, pattern))
		for _, path := range paths {
			m, err := loadModelFile(path)
			if err != nil {
				a.logger.Warn("skipping model file", zap.String("path", path), zap.Error(err))
				continue
			}
			r.RegisterModel(m)
		}
	}
	return r
}

func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.SetConfigName("dynsym")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "dynsym"))
		}
	}
	a.v.SetEnvPrefix("DYNSYM")
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (a *app) initLogger() error {
	config := zap.NewProductionConfig()
	if a.verbose || a.v.GetBool("verbose") {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

func newApp() *app {
	return &app{v: viper.New(), logger: zap.NewNop()}
}

func newRootCmd() *cobra.Command { return newApp().rootCmd() }

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dynsym",
		Short: "symbolic dynamics lab",
		Long: `dynsym extracts the time-varying quantities of symbolic expressions and
simulates ODE systems written as symbolic right-hand sides.

Quantities such as x(t) and diff(x(t), t) are found with the find command.
Models are built in or loaded from YAML files; their specified inputs and
constants are discovered from the equations.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The logger level depends on the config, so it is read first.
			if err := a.initConfig(); err != nil {
				return err
			}
			if err := a.initLogger(); err != nil {
				return err
			}
			if path := a.v.ConfigFileUsed(); path != "" {
				a.logger.Debug("using config file", zap.String("path", path))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./dynsym.yaml or ~/.config/dynsym/dynsym.yaml)")
	flags.String("data", ".dynsym", "data directory for stored runs")
	flags.String("models", "", "directory of YAML model files")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	_ = a.v.BindPFlag("data", flags.Lookup("data"))
	_ = a.v.BindPFlag("models", flags.Lookup("models"))

	rootCmd.AddCommand(
		newFindCmd(a),
		newRunCmd(a),
		newListCmd(a),
		newPlotCmd(a),
		newExportCSVCmd(a),
		newExportJSONCmd(a),
		newDeleteCmd(a),
		newAnalyzeCmd(a),
		newPhaseCmd(a),
		newLyapunovCmd(a),
		newTuneCmd(a),
		newSweepCmd(a),
		newScenarioCmd(a),
		newCodegenCmd(a),
		newModelsCmd(a),
		newPresetsCmd(a),
		newLiveCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
