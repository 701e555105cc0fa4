// Package keys holds the Viper/flag keys used across the program.
package keys

// Download flags
const (
	Formats     string = "formats"
	Output      string = "output"
	BatchFile   string = "batch"
	AssumeYes   string = "yes"
	Parallel    string = "parallel"
	NoColor     string = "no-color"
	FFmpegPath  string = "ffmpeg"
	LimitRate   string = "limit-rate"
	Proxy       string = "proxy"
	HTTPTimeout string = "timeout"
)

// Program
const (
	ConfigFile  string = "config"
	HistoryFile string = "history-file"
	LogFile     string = "log-file"
	DebugLevel  string = "debug"
)

// History subcommand
const (
	HistorySince string = "since"
	HistoryLimit string = "limit"
)
