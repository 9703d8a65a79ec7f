package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/ui/styles"
)

func newPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Store the PostgreSQL password in the system keyring",
		Long: `Store or remove the password used for the PostgreSQL data source.

The keyring entry is keyed by data.postgres host, port, database and
user. A password set in the config file takes precedence.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set",
			Short: "Prompt for the password and save it",
			Args:  cobra.NoArgs,
			RunE:  runPasswordSet,
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the saved password",
			Args:  cobra.NoArgs,
			RunE:  runPasswordDelete,
		},
	)
	return cmd
}

func postgresTarget(cmd *cobra.Command) (dataset.PostgresConfig, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return dataset.PostgresConfig{}, err
	}
	pg := cfg.Data.Postgres
	if pg.Host == "" || pg.Database == "" || pg.User == "" {
		return pg, errors.New("data.postgres host, database and user must be configured")
	}
	return pg, nil
}

func runPasswordSet(cmd *cobra.Command, args []string) error {
	pg, err := postgresTarget(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s@%s:%d/%s: ", pg.User, pg.Host, pg.Port, pg.Database)
	password, err := readPassword(cmd.InOrStdin())
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return errors.New("empty password, nothing saved")
	}

	store, err := openPasswordStore()
	if err != nil {
		return err
	}
	if err := store.Save(pg.Host, pg.Port, pg.Database, pg.User, password); err != nil {
		return err
	}

	msg := "Password saved to the system keyring"
	if store.IsUsingFallback() {
		msg = "Password saved to the encrypted file keyring"
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg(msg))
	return nil
}

func runPasswordDelete(cmd *cobra.Command, args []string) error {
	pg, err := postgresTarget(cmd)
	if err != nil {
		return err
	}

	store, err := openPasswordStore()
	if err != nil {
		return err
	}
	if err := store.Delete(pg.Host, pg.Port, pg.Database, pg.User); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg("Password removed"))
	return nil
}

// readPassword reads without echo on a terminal, otherwise one line of input
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
