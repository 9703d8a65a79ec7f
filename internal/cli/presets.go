package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazysheet/internal/presets"
	"github.com/rebeliceyang/lazysheet/internal/ui/styles"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage saved filter presets",
		Long: `Manage saved filter presets.

Presets are created from the interactive interface (ctrl+s) and stored
as YAML in presets.dir.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved presets",
			Args:  cobra.NoArgs,
			RunE:  runPresetsList,
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Print a preset as YAML",
			Args:  cobra.ExactArgs(1),
			RunE:  runPresetsShow,
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete a preset",
			Args:  cobra.ExactArgs(1),
			RunE:  runPresetsDelete,
		},
	)
	return cmd
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := presetsManager(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	list := m.List()
	if len(list) == 0 {
		fmt.Fprintln(out, styles.MutedMsg("No presets saved"))
		return nil
	}

	nameWidth := len("Name")
	for _, p := range list {
		nameWidth = max(nameWidth, util.DisplayWidth(p.Name))
	}

	fmt.Fprintln(out, styles.Header(util.Pad("Name", nameWidth)+"  Groups  Filters  Used  Last used"))
	for _, p := range list {
		groups, filters := p.FilterSet().Counts()
		lastUsed := "-"
		if !p.LastUsed.IsZero() {
			lastUsed = p.LastUsed.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "%s  %6d  %7d  %4d  %s\n", util.Pad(p.Name, nameWidth), groups, filters, p.UsageCount, lastUsed)
	}
	return nil
}

func runPresetsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := presetsManager(cfg)
	if err != nil {
		return err
	}
	p, err := m.GetByName(args[0])
	if err != nil {
		return err
	}

	data, err := presets.Marshal(*p)
	if err != nil {
		return err
	}

	text := string(data)
	if !styles.NoColor() {
		text = presets.HighlightYAML(text, cfg.UI.SyntaxStyle)
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

func runPresetsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := presetsManager(cfg)
	if err != nil {
		return err
	}
	p, err := m.GetByName(args[0])
	if err != nil {
		return err
	}
	if err := m.Delete(p.ID); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg(fmt.Sprintf("Deleted preset %q", p.Name)))
	return nil
}
