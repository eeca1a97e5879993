package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dropforge/launchpad/configs"
	"github.com/dropforge/launchpad/internal/commands"
	"github.com/dropforge/launchpad/internal/logger"
)

const (
	appName   = "launchpad"
	envPrefix = "LAUNCHPAD"
)

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Deploy and configure token collections across EVM chains",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.RegisterDefaults(viper.GetViper()); err != nil {
			return err
		}

		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")

		if execPath, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(execPath))
		}
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")

		viper.SetEnvPrefix(envPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
		viper.AutomaticEnv()

		// A config file is optional; flags and environment can provide everything.
		configErr := viper.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if configErr != nil && !errors.As(configErr, &notFound) {
			return errors.Join(configErr, errors.New("error reading config file"))
		}

		if err := viper.Unmarshal(&configs.Values); err != nil {
			return errors.Join(err, errors.New("unable to decode application config"))
		}

		logger.Initialize(logger.ParseLevel(configs.Values.Log.Level), configs.Values.Log.Format)
		if configErr == nil {
			slog.With("config_file", viper.ConfigFileUsed()).Debug("config file loaded")
		} else {
			slog.Debug("no config file found, relying on flags, environment and defaults")
		}

		return nil
	},
}

var exampleConfigCmd = &cobra.Command{
	Use:   "example-config",
	Short: "Print an annotated example launchpad.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write([]byte(configs.ExampleYAML()))
		return err
	},
}

func main() {
	if err := commands.DeclarePersistentFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(commands.All()...)
	rootCmd.AddCommand(exampleConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.With("err", err.Error()).Error("command failed")
		os.Exit(1)
	}
}
