package cfg

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"unicode"

	"mediagrab/internal/domain/consts"
	"mediagrab/internal/domain/keys"
	"mediagrab/internal/models"
	"mediagrab/internal/parsing"
	"mediagrab/internal/utils/fs"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/spf13/viper"
)

// BuildSettings validates the values in v and returns the run's settings.
// args are URLs given on the command line; batch file URLs come first.
func BuildSettings(v *viper.Viper, args []string) (models.Settings, error) {
	s := models.Settings{
		Formats:     splitFormats(v.GetStringSlice(keys.Formats)),
		BatchFile:   v.GetString(keys.BatchFile),
		AssumeYes:   v.GetBool(keys.AssumeYes),
		Parallel:    v.GetInt(keys.Parallel),
		Color:       !v.GetBool(keys.NoColor),
		FFmpegPath:  v.GetString(keys.FFmpegPath),
		Proxy:       v.GetString(keys.Proxy),
		Timeout:     v.GetDuration(keys.HTTPTimeout),
		HistoryFile: v.GetString(keys.HistoryFile),
		LogFile:     v.GetString(keys.LogFile),
		DebugLevel:  v.GetInt(keys.DebugLevel),
	}

	if s.Parallel < 1 {
		return s, fmt.Errorf("--%s must be at least 1, got %d", keys.Parallel, s.Parallel)
	}
	if s.Timeout < 0 {
		return s, fmt.Errorf("--%s cannot be negative, got %v", keys.HTTPTimeout, s.Timeout)
	}

	rate, err := parsing.ParseRate(v.GetString(keys.LimitRate))
	if err != nil {
		return s, fmt.Errorf("--%s: %w", keys.LimitRate, err)
	}
	s.RateLimit = rate

	if err := validateProxy(s.Proxy); err != nil {
		return s, err
	}

	output := v.GetString(keys.Output)
	if output == "" {
		output = consts.DefaultOutputDir
	}
	s.OutputDir, s.Filename = fs.SplitOutputPath(output)
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return s, fmt.Errorf("failed to create output directory %q: %w", s.OutputDir, err)
	}

	var urls []string
	if s.BatchFile != "" {
		if urls, err = fs.ReadFileLines(s.BatchFile); err != nil {
			return s, fmt.Errorf("failed to read batch file: %w", err)
		}
	}
	urls = append(urls, args...)
	s.URLs = slice.Unique(urls)

	return s, nil
}

// splitFormats splits flag values on commas and whitespace.
func splitFormats(values []string) []string {
	var tokens []string
	for _, v := range values {
		tokens = append(tokens, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})...)
	}
	return tokens
}

func validateProxy(proxy string) error {
	if proxy == "" {
		return nil
	}

	u, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("invalid --%s %q: %w", keys.Proxy, proxy, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
		return nil
	}
	return fmt.Errorf("invalid --%s %q: scheme must be http, https or socks5", keys.Proxy, proxy)
}
