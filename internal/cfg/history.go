package cfg

import (
	"errors"
	"time"

	"mediagrab/internal/domain/keys"
	"mediagrab/internal/parsing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// HistoryQuery narrows the history listing.
type HistoryQuery struct {
	Since time.Time
	Limit int
}

// initHistoryCmd returns the "history" subcommand.
func initHistoryCmd(v *viper.Viper, h Handlers) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List downloads recorded in the history database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := BuildSettings(v, nil)
			if err != nil {
				return err
			}
			if settings.HistoryFile == "" {
				return errors.New("--" + keys.HistoryFile + " is required to list history")
			}

			since, err := parsing.ParseSince(v.GetString(keys.HistorySince), time.Now())
			if err != nil {
				return err
			}
			return h.History(cmd.Context(), settings, HistoryQuery{
				Since: since,
				Limit: v.GetInt(keys.HistoryLimit),
			})
		},
	}

	flags := historyCmd.Flags()

	flags.String(keys.HistorySince, "", "Only list downloads since a date or age (e.g. 2024-01-31, 36h, 7d)")
	v.BindPFlag(keys.HistorySince, flags.Lookup(keys.HistorySince))

	flags.Int(keys.HistoryLimit, 20, "Maximum number of downloads to list (0 for all)")
	v.BindPFlag(keys.HistoryLimit, flags.Lookup(keys.HistoryLimit))

	return historyCmd
}
