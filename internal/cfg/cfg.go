// Package cfg provides configuration and command-line interface setup for mediagrab.
package cfg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mediagrab/internal/domain/consts"
	"mediagrab/internal/domain/keys"
	"mediagrab/internal/models"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Handlers run the work behind each command once settings are built.
type Handlers struct {
	Download func(ctx context.Context, s models.Settings) error
	History  func(ctx context.Context, s models.Settings, q HistoryQuery) error
}

// NewRootCmd builds the command tree. Each call gets its own viper instance.
func NewRootCmd(h Handlers) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(consts.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_")) // "limit-rate" reads MEDIAGRAB_LIMIT_RATE
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           consts.ProgramName + " [flags] <url>...",
		Short:         "Download videos, audio tracks and playlists with live progress.",
		Version:       consts.ProgramVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfigFile(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := BuildSettings(v, args)
			if err != nil {
				return err
			}
			if len(settings.URLs) == 0 {
				return errors.New("no URLs given, pass at least one URL or --" + keys.BatchFile)
			}
			return h.Download(cmd.Context(), settings)
		},
	}

	initProgramFlags(rootCmd, v)
	initDownloadFlags(rootCmd, v)
	rootCmd.AddCommand(initHistoryCmd(v, h))

	return rootCmd
}

// Execute parses the command line and runs the selected command.
func Execute(ctx context.Context, h Handlers) error {
	return NewRootCmd(h).ExecuteContext(ctx)
}

// loadConfigFile reads the --config file, if any, into v.
func loadConfigFile(v *viper.Viper) error {
	file := v.GetString(keys.ConfigFile)
	if file == "" {
		return nil
	}

	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("failed check for config file path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config file %q is a directory, should be a file", file)
	}

	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed loading config file %q: %w", file, err)
	}
	return nil
}
