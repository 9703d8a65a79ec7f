package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/filter"
	"github.com/rebeliceyang/lazysheet/internal/render"
	"github.com/rebeliceyang/lazysheet/internal/ui/styles"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the dataset columns with their type and conditions",
		Args:  cobra.NoArgs,
		RunE:  runColumns,
	}
}

func runColumns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	resolvePassword(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
	defer cancel()
	ds, err := dataset.Open(ctx, nil, cfg.Source())
	if err != nil {
		return err
	}

	columns := ds.Columns()
	nameWidth := len("Column")
	for _, c := range columns {
		nameWidth = max(nameWidth, util.DisplayWidth(c.Name))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.SectionHeader(fmt.Sprintf("%s: %d columns, %d rows", ds.Name, len(columns), ds.Len())))
	fmt.Fprintln(out, styles.Header(util.Pad("Column", nameWidth)+"  "+util.Pad("Type", 8)+"  Conditions"))

	for _, c := range columns {
		conds := filter.ConditionsFor(c.Type)
		names := make([]string, len(conds))
		for i, cond := range conds {
			names[i] = string(cond)
		}

		kind := c.Type.String()
		if render.Layout(c.Name).Pinned {
			kind += "*"
		}
		fmt.Fprintf(out, "%s  %s  %s\n", util.Pad(c.Name, nameWidth), util.Pad(kind, 8), strings.Join(names, " "))
	}
	fmt.Fprintln(out, styles.MutedMsg("* pinned column"))
	return nil
}
