// Package cli implements the specmodel command line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/specmodel/internal/config"
	"github.com/katalvlaran/specmodel/internal/logging"
	"github.com/katalvlaran/specmodel/model"
	"github.com/katalvlaran/specmodel/modelio"
	"github.com/katalvlaran/specmodel/registry"
)

// errNotConverged is returned by "fit --strict" when the fit did not converge.
var errNotConverged = errors.New("fit did not converge")

// flagKeys maps configuration keys to the flags that override them.
var flagKeys = map[string]string{
	config.KeyLogLevel:       "log-level",
	config.KeyLogDevelopment: "log-development",
	config.KeyFitFitter:      "fitter",
	config.KeyFitMaxIter:     "max-iterations",
}

// app is the state shared by all subcommands once the root has run.
type app struct {
	v    *viper.Viper
	cfg  config.Config
	log  logr.Logger
	sync func() error
	reg  *registry.Registry
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: config.New(), log: logr.Discard(), reg: registry.Default()}
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "specmodel",
		Short:        "Compose, fit and persist spectral models",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			for key, name := range flagKeys {
				f := cmd.Flags().Lookup(name)
				if f == nil {
					continue
				}
				if err := a.v.BindPFlag(key, f); err != nil {
					return err
				}
			}
			cfg, err := config.Load(a.v, cfgFile, nil)
			if err != nil {
				return err
			}
			a.cfg = cfg

			log, sync, err := logging.New(cfg.Log.Level, cfg.Log.Development)
			if err != nil {
				return err
			}
			a.log, a.sync = log, sync
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.sync != nil {
				_ = a.sync()
			}
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "YAML config file")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.Bool("log-development", false, "human-readable console logs")

	cmd.AddCommand(
		a.kindsCmd(),
		a.checkCmd(),
		a.evalCmd(),
		a.fitCmd(),
		a.statsCmd(),
		a.ewCmd(),
		a.smoothCmd(),
		a.newCmd(),
	)
	return cmd
}

// loadModel reads a model file with the app's registry and logger.
func (a *app) loadModel(path string) (*model.Composite, error) {
	return modelio.LoadFile(path, modelio.WithRegistry(a.reg), modelio.WithLogger(a.log))
}
