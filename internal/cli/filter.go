package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazysheet/internal/export"
	"github.com/rebeliceyang/lazysheet/internal/history"
	"github.com/rebeliceyang/lazysheet/internal/ui/styles"
	"github.com/rebeliceyang/lazysheet/internal/ui/table"
)

func newFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Evaluate filters and print the matching rows",
		Long: `Evaluate filters without the interactive interface.

Filters come from a saved preset (--preset) and/or --where expressions,
which are added as one extra group. Supported operators are
>, <, >=, <=, = for numeric columns and in, not_in for text columns.

On a terminal the results open in a scrollable table; when piped, a
plain table is printed. Use --json or --raw for machine-readable output.`,
		Example: `  lazysheet filter -f partite.xlsx -w "Quota Equa >= 2" -w "Div in I1,E0"
  lazysheet filter --preset "Serie A" --columns "Div,Nome Mercato,Quota Equa" --json`,
		Args: cobra.NoArgs,
		RunE: runFilter,
	}

	addSelectionFlags(cmd)
	cmd.Flags().Bool("raw", false, "Output raw values without formatting (for piping)")
	cmd.Flags().Bool("json", false, "Output results as JSON array")
	cmd.Flags().Bool("no-pager", false, "Disable interactive table view")

	return cmd
}

func runFilter(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetBool("raw")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	noPager, _ := cmd.Flags().GetBool("no-pager")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sess, err := openSession(cmd, cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	res := sess.Evaluate()
	recordRun(cfg, sess, history.ActionFilter, res, time.Since(start), nil)

	return table.DisplayResults(sess.Dataset().Name, sess.RenderResult(res), table.DisplayOptions{
		JSON:    jsonOutput,
		Raw:     raw,
		NoPager: noPager,
		Theme:   cfg.UI.Theme,
		Out:     cmd.OutOrStdout(),
	})
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the matching rows to CSV or JSON",
		Long: `Evaluate filters and write the matching rows with the selected columns.

Values are written raw, without display formatting. The output file
defaults to export.filename in export.dir from the config.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	addSelectionFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Output file (default: from config)")
	cmd.Flags().String("format", "", "Output format: csv or json (default: from config)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("out")
	if path == "" {
		path = cfg.ExportPath()
	}
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Export.Format
	}

	sess, err := openSession(cmd, cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	res := sess.Evaluate()
	err = export.Export(export.Format(format), path, sess.Dataset(), res, sess.SelectedColumns())
	recordRun(cfg, sess, history.ActionExport, res, time.Since(start), err)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg(fmt.Sprintf("Exported %d of %d rows to %s", res.Matched(), res.Total, path)))
	return nil
}
