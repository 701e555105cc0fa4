package cfg

import (
	"mediagrab/internal/domain/consts"
	"mediagrab/internal/domain/keys"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initProgramFlags sets flags shared by every command.
func initProgramFlags(rootCmd *cobra.Command, v *viper.Viper) {
	flags := rootCmd.PersistentFlags()

	// Config file
	flags.String(keys.ConfigFile, "", "Config file (yaml, toml or json) with flag values")
	v.BindPFlag(keys.ConfigFile, flags.Lookup(keys.ConfigFile))

	// History database
	flags.String(keys.HistoryFile, "", "Record finished downloads in this sqlite database")
	v.BindPFlag(keys.HistoryFile, flags.Lookup(keys.HistoryFile))

	// Log file
	flags.String(keys.LogFile, "", "Write diagnostics to this file")
	v.BindPFlag(keys.LogFile, flags.Lookup(keys.LogFile))

	// Debug level, "--debug" alone means 1
	flags.Int(keys.DebugLevel, 0, "Debug level (0-5), also prints diagnostics to stderr")
	flags.Lookup(keys.DebugLevel).NoOptDefVal = "1"
	v.BindPFlag(keys.DebugLevel, flags.Lookup(keys.DebugLevel))

	flags.Bool(keys.NoColor, false, "Disable colored output")
	v.BindPFlag(keys.NoColor, flags.Lookup(keys.NoColor))
}

// initDownloadFlags sets the flags of the download command.
func initDownloadFlags(rootCmd *cobra.Command, v *viper.Viper) {
	flags := rootCmd.Flags()

	// Requested formats
	flags.StringSliceP(keys.Formats, "f", nil, "Formats to download, e.g. -f 1080p -f \"audio 128kbps\" -f videoonly,720p")
	v.BindPFlag(keys.Formats, flags.Lookup(keys.Formats))

	// Output location
	flags.StringP(keys.Output, "o", consts.DefaultOutputDir, "Output directory, or a file path to set the filename")
	v.BindPFlag(keys.Output, flags.Lookup(keys.Output))

	flags.StringP(keys.BatchFile, "b", "", "File with one URL per line ('#' starts a comment)")
	v.BindPFlag(keys.BatchFile, flags.Lookup(keys.BatchFile))

	flags.BoolP(keys.AssumeYes, "y", false, "Download without asking for confirmation")
	v.BindPFlag(keys.AssumeYes, flags.Lookup(keys.AssumeYes))

	flags.IntP(keys.Parallel, "p", consts.DefaultParallel, "Maximum number of items downloaded at once")
	v.BindPFlag(keys.Parallel, flags.Lookup(keys.Parallel))

	// Transfer and conversion
	flags.String(keys.FFmpegPath, "", "Path to the ffmpeg binary")
	v.BindPFlag(keys.FFmpegPath, flags.Lookup(keys.FFmpegPath))

	flags.String(keys.LimitRate, "", "Maximum download rate, e.g. 2M or 500K")
	v.BindPFlag(keys.LimitRate, flags.Lookup(keys.LimitRate))

	flags.String(keys.Proxy, "", "Proxy URL (http, https or socks5)")
	v.BindPFlag(keys.Proxy, flags.Lookup(keys.Proxy))

	flags.Duration(keys.HTTPTimeout, consts.DefaultHTTPTimeout, "Timeout waiting for server responses")
	v.BindPFlag(keys.HTTPTimeout, flags.Lookup(keys.HTTPTimeout))
}
