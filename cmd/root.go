package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/darmiel/cftools/internal/buildinfo"
	"github.com/darmiel/cftools/internal/config"
	"github.com/darmiel/cftools/internal/logging"
)

// global flags
var (
	userConfig string
	envFile    string
)

var f = NewFactory()

var rootCmd = &cobra.Command{
	Use:   "cftools",
	Short: fmt.Sprintf("CFTools Cloud CLI (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `cftools talks to the CFTools Cloud Data API to manage DayZ game servers.
It authenticates with an application id and secret, keeps the bearer token
in a token store and reuses it until it is 12 hours old.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envErr := config.LoadDotEnv(envFiles()...)
		configPath, configErr := initConfig()
		logging.Init(nil)
		if viper.GetBool(logging.NoColorKey) {
			color.NoColor = true
			greenCheck, redCross = "✔", "✖"
		}
		// handle errors after logging is initialized
		if envErr != nil {
			return envErr
		}
		if configErr != nil {
			return configErr
		}
		if configPath != "" {
			log.Debug().Msgf("using config file: %s", configPath)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return f.Close()
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var quiet BeQuietError
		if !errors.As(err, &quiet) {
			log.Error().Err(err).Msg("execution failed")
		}
		_ = f.Close()
		os.Exit(1)
	}
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&userConfig, "config", "",
		"Configuration file (default is .cftools.yaml in ., $HOME or $XDG_CONFIG_HOME/cftools)")
	flags.StringVar(&envFile, "env-file", "", "Load environment variables from this file (default is .env)")

	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	bindFlag(flags, logging.LevelKey, "log-level")

	flags.String("log-format", "console", "Log format (console, json)")
	bindFlag(flags, logging.FormatKey, "log-format")

	flags.Bool("no-color", false, "Disable color output")
	bindFlag(flags, logging.NoColorKey, "no-color")

	flags.StringP("output", "o", "table", "Output format (table, json, yaml)")
	bindFlag(flags, config.OutputKey, "output")

	flags.String("server-id", "", "Server API id (see the server API settings)")
	bindFlag(flags, config.ServerAPIIDKey, "server-id")

	flags.String("banlist-id", "", "Banlist id")
	bindFlag(flags, config.BanlistIDKey, "banlist-id")

	flags.String("base-url", "", "Data API base URL")
	bindFlag(flags, config.BaseURLKey, "base-url")

	flags.String("audit-log", "", "Append mutating calls to this audit log file")
	bindFlag(flags, config.AuditPathKey, "audit-log")

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))

	viper.AutomaticEnv()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

// bindFlag makes the flag override the viper key.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		log.Fatal().Err(err).Str("flag", name).Msg("cannot bind flag")
	}
}

func envFiles() []string {
	if envFile != "" {
		return []string{envFile}
	}
	return nil
}

func initConfig() (string, error) {
	// reads in config file and ENV variables if set.
	if userConfig != "" {
		viper.SetConfigFile(userConfig)
	} else {
		// search order: current dir, $HOME, XDG config
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}

		cfgDir, err := os.UserConfigDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(cfgDir, "cftools"))
		}

		viper.SetConfigType("yaml")
		viper.SetConfigName(".cftools")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundError) {
			return "", err
		}
	} else {
		return viper.ConfigFileUsed(), nil
	}

	return "", nil
}
