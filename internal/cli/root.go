package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazysheet/internal/app"
	"github.com/rebeliceyang/lazysheet/internal/logger"
	"github.com/rebeliceyang/lazysheet/internal/ui/styles"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

var rootCmd = newRootCmd()

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if e, ok := util.AsError(err); ok {
			fmt.Fprintln(os.Stderr, e.Format())
		} else {
			fmt.Fprintln(os.Stderr, styles.ErrorMsg(err.Error()))
		}
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lazysheet",
		Short: "Filter spreadsheet data with nested boolean filter groups",
		Long: `lazysheet loads a spreadsheet, a CSV file or a PostgreSQL table once and
lets you build groups of per-column filters, combined with AND/OR inside
each group and across groups, then view and export the matching rows.

Run without arguments to open the interactive interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		Args:          cobra.NoArgs,
		RunE:          runTUI,
	}

	// Global flags
	root.PersistentFlags().String("config", "", "Config file (default: searched in the user config dir)")
	root.PersistentFlags().StringP("file", "f", "", "Data file to load (.xlsx or .csv)")
	root.PersistentFlags().String("sheet", "", "Worksheet to read (default: first sheet)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")

	root.SetVersionTemplate(fmt.Sprintf("lazysheet version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor {
			styles.SetNoColor(true)
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			logger.SetOutput(cmd.ErrOrStderr())
		}
	}

	root.AddCommand(
		newVersionCmd(),
		newFilterCmd(),
		newExportCmd(),
		newColumnsCmd(),
		newPresetsCmd(),
		newHistoryCmd(),
		newPasswordCmd(),
		newCompletionCmd(root),
	)
	return root
}

// runTUI opens the interactive interface. Logs go to the log file since
// the terminal belongs to the UI.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	closeLog, err := logger.OpenFile(cfg.Log.File)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.WarningMsg(fmt.Sprintf("logging disabled: %v", err)))
	} else {
		defer func() { _ = closeLog() }()
	}

	resolvePassword(cfg)

	zone.NewGlobal()
	a := app.New(cfg)
	defer func() { _ = a.Close() }()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	if _, err := tea.NewProgram(a, opts...).Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for lazysheet.

To load completions:

Bash:
  $ source <(lazysheet completion bash)

Zsh:
  $ lazysheet completion zsh > "${fpath[1]}/_lazysheet"

Fish:
  $ lazysheet completion fish | source

PowerShell:
  PS> lazysheet completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return errors.New("unsupported shell")
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lazysheet version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", CommitSHA)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}
