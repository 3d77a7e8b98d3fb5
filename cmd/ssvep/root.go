package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-ssvep/internal/config"
	"github.com/cwbudde/algo-ssvep/internal/logging"
)

// configKeyAnnotation maps a flag to the config key it overrides.
const configKeyAnnotation = "ssvep/config-key"

// skipConfigAnnotation marks commands that run without loading the config.
const skipConfigAnnotation = "ssvep/skip-config"

// app holds the state shared by all commands of one invocation.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "ssvep",
		Short: "SSVEP detection for recorded EEG sessions",
		Long: `ssvep classifies windows of multi-channel EEG by canonical correlation
against harmonic reference signals of the stimulation frequencies.

Configuration is read from ssvep.yaml (working directory or
$HOME/.config/ssvep), SSVEP_* environment variables and flags, in
increasing order of precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfigAnnotation] != "" {
				return nil
			}
			return a.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./ssvep.yaml or $HOME/.config/ssvep/ssvep.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console or json")
	bindFlag(flags, "log-level", "log.level")
	bindFlag(flags, "log-format", "log.format")

	root.AddCommand(
		newRunCmd(a),
		newReferencesCmd(a),
		newQuantizeCmd(a),
		newSimulateCmd(a),
		newSpectrumCmd(a),
		newConfigCmd(a),
	)
	return root
}

// bindFlag records that flag name overrides config key.
func bindFlag(fs *pflag.FlagSet, name, key string) {
	if err := fs.SetAnnotation(name, configKeyAnnotation, []string{key}); err != nil {
		panic(err)
	}
}

// load reads the configuration, applies the flags the user set and builds
// the logger.
func (a *app) load(cmd *cobra.Command) error {
	a.v = config.New(a.cfgFile)
	if err := config.Read(a.v); err != nil {
		return err
	}

	var bindErr error
	bind := func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if len(keys) == 0 || bindErr != nil {
			return
		}
		bindErr = a.v.BindPFlag(keys[0], f)
	}
	cmd.InheritedFlags().VisitAll(bind)
	cmd.Flags().VisitAll(bind)
	if bindErr != nil {
		return fmt.Errorf("bind flags: %w", bindErr)
	}

	cfg, err := config.Decode(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.log = log
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("config loaded", zap.String("file", used))
	}
	return nil
}
