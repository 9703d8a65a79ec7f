package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazysheet/internal/history"
	"github.com/rebeliceyang/lazysheet/internal/ui/styles"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent filter runs and exports",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 0, "Number of entries to show (default: history.max_entries)")
	cmd.Flags().StringP("search", "s", "", "Only show runs whose source or filters contain TEXT")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.History.MaxEntries
	}
	search, _ := cmd.Flags().GetString("search")

	store, err := history.NewStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var entries []history.Entry
	if search != "" {
		entries, err = store.Search(search, limit)
	} else {
		entries, err = store.GetRecent(limit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, styles.MutedMsg("No history yet"))
		return nil
	}

	for _, e := range entries {
		status := styles.SuccessMsg(fmt.Sprintf("%d/%d rows", e.MatchedRows, e.TotalRows))
		if !e.Success {
			status = styles.ErrorMsg(e.ErrorMessage)
		}
		fmt.Fprintf(out, "%s  %-6s  %s  %s\n",
			styles.MutedMsg(e.ExecutedAt.Format("2006-01-02 15:04:05")),
			e.Action,
			e.Source,
			status,
		)
		fmt.Fprintln(out, styles.Indent(e.Filters, 2))
	}
	return nil
}
