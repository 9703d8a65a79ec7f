package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazysheet/internal/config"
	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/filter"
	"github.com/rebeliceyang/lazysheet/internal/history"
	"github.com/rebeliceyang/lazysheet/internal/logger"
	"github.com/rebeliceyang/lazysheet/internal/models"
	"github.com/rebeliceyang/lazysheet/internal/presets"
	"github.com/rebeliceyang/lazysheet/internal/secrets"
	"github.com/rebeliceyang/lazysheet/internal/session"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

const loadTimeout = 60 * time.Second

// loadConfig reads the config file and applies the global flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		cfg.Data.File = file
		cfg.Data.Kind = ""
	}
	if sheet, _ := cmd.Flags().GetString("sheet"); sheet != "" {
		cfg.Data.Sheet = sheet
	}

	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(slog.LevelDebug)
	}
	return cfg, nil
}

// resolvePassword fills in a missing Postgres password from the keyring
func resolvePassword(cfg *config.Config) {
	pg := &cfg.Data.Postgres
	if cfg.Source().ResolveKind() != dataset.KindPostgres || pg.Password != "" {
		return
	}

	store, err := openPasswordStore()
	if err != nil {
		logger.Warn("keyring unavailable", "error", err)
		return
	}
	password, err := store.Get(pg.Host, pg.Port, pg.Database, pg.User)
	if err != nil {
		if !errors.Is(err, secrets.ErrPasswordNotFound) {
			logger.Warn("failed to read password from keyring", "error", err)
		}
		return
	}
	pg.Password = password
}

func openPasswordStore() (*secrets.PasswordStore, error) {
	dir, err := config.GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config directory: %w", err)
	}
	return secrets.NewPasswordStore(dir)
}

// addSelectionFlags registers the flags that shape a headless session
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "Apply a saved preset by name")
	cmd.Flags().StringArrayP("where", "w", nil, `Add a filter, e.g. "Quota Equa >= 2" or "Div in I1,E0" (repeatable)`)
	cmd.Flags().Bool("any", false, "Combine --where filters with OR instead of AND")
	cmd.Flags().StringSlice("columns", nil, "Columns to include, comma separated")
}

// openSession loads the dataset and applies --preset, --where and --columns
func openSession(cmd *cobra.Command, cfg *config.Config) (*session.Session, error) {
	resolvePassword(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
	defer cancel()

	ds, err := dataset.Open(ctx, nil, cfg.Source())
	if err != nil {
		return nil, err
	}
	sess := session.New(ds, cfg.Data.DefaultColumns)

	if name, _ := cmd.Flags().GetString("preset"); name != "" {
		m, err := presetsManager(cfg)
		if err != nil {
			return nil, err
		}
		p, err := m.GetByName(name)
		if err != nil {
			return nil, err
		}
		sess.Restore(*p)
		if err := m.MarkUsed(p.ID); err != nil {
			logger.Warn("failed to update preset usage", "preset", p.Name, "error", err)
		}
	}

	wheres, _ := cmd.Flags().GetStringArray("where")
	anyLogic, _ := cmd.Flags().GetBool("any")
	if err := applyWhere(sess, wheres, anyLogic); err != nil {
		return nil, err
	}

	if columns, _ := cmd.Flags().GetStringSlice("columns"); len(columns) > 0 {
		if err := sess.SelectColumns(columns); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

var (
	setExpr     = regexp.MustCompile(`(?i)^(.+?)\s+(not_in|not in|in)\s+(.+)$`)
	compareExpr = regexp.MustCompile(`^(.+?)\s*(>=|<=|>|<|=)\s*(.+)$`)
)

// whereClause is one parsed --where expression
type whereClause struct {
	Column    string
	Condition models.Condition
	Value     string
}

// parseWhere splits "COLUMN OP VALUE". When both forms match, the one
// naming an existing column wins.
func parseWhere(ds *dataset.Dataset, expr string) (whereClause, error) {
	var candidates []whereClause
	for _, re := range []*regexp.Regexp{compareExpr, setExpr} {
		m := re.FindStringSubmatch(strings.TrimSpace(expr))
		if m == nil {
			continue
		}
		cond, ok := models.ParseCondition(m[2])
		if !ok {
			continue
		}
		candidates = append(candidates, whereClause{
			Column:    strings.TrimSpace(m[1]),
			Condition: cond,
			Value:     strings.TrimSpace(m[3]),
		})
	}
	if len(candidates) == 0 {
		return whereClause{}, fmt.Errorf("invalid filter %q: expected COLUMN OP VALUE", expr)
	}
	for _, c := range candidates {
		if ds.HasColumn(c.Column) {
			return c, nil
		}
	}
	return whereClause{}, fmt.Errorf("%w: %q", session.ErrUnknownColumn, candidates[0].Column)
}

// applyWhere adds all clauses to a new group
func applyWhere(sess *session.Session, exprs []string, anyLogic bool) error {
	if len(exprs) == 0 {
		return nil
	}

	gid := sess.AddGroup()
	if anyLogic {
		if err := sess.SetGroupLogic(gid, models.LogicOr); err != nil {
			return err
		}
	}

	for _, expr := range exprs {
		clause, err := parseWhere(sess.Dataset(), expr)
		if err != nil {
			return err
		}
		fid, err := sess.AddFilter(gid)
		if err != nil {
			return err
		}
		if err := sess.SetFilterColumn(gid, fid, clause.Column); err != nil {
			return err
		}
		if err := sess.SetFilterCondition(gid, fid, clause.Condition); err != nil {
			return fmt.Errorf("filter %q: %w", expr, err)
		}
		if clause.Condition.IsSet() {
			var values []string
			for _, v := range strings.Split(clause.Value, ",") {
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, v)
				}
			}
			err = sess.SetFilterValues(gid, fid, values)
		} else {
			err = sess.SetFilterScalar(gid, fid, clause.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// recordRun writes a history entry when history is enabled
func recordRun(cfg *config.Config, sess *session.Session, action string, res filter.Result, d time.Duration, runErr error) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.NewStore(cfg.History.Path)
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	groups, filters := sess.FilterSet().Counts()
	entry := history.Entry{
		Source:      cfg.Source().String(),
		Action:      action,
		Filters:     sess.Describe(),
		GroupCount:  groups,
		FilterCount: filters,
		MatchedRows: res.Matched(),
		TotalRows:   res.Total,
		Duration:    d,
		Success:     runErr == nil,
	}
	if runErr != nil {
		entry.ErrorMessage = runErr.Error()
	}
	if err := store.Add(entry); err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}

// presetsManager opens the preset store named by the config
func presetsManager(cfg *config.Config) (*presets.Manager, error) {
	m, err := presets.NewManager(cfg.Presets.Dir)
	if err != nil {
		return nil, util.NewError("Cannot read presets").
			WithMessage(err.Error()).
			WithSuggestions("Check or remove " + cfg.Presets.Dir + "/presets.yaml").
			Wrap(err)
	}
	return m, nil
}
