package dataset

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig describes a table or query to load from PostgreSQL
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
	Schema   string `mapstructure:"schema"`
	Table    string `mapstructure:"table"`
	Query    string `mapstructure:"query"`
}

// Name identifies the source in logs and the status bar
func (c PostgresConfig) Name() string {
	target := c.Table
	if c.Query != "" {
		target = "query"
	} else if c.Schema != "" {
		target = c.Schema + "." + c.Table
	}
	return fmt.Sprintf("%s@%s:%d/%s/%s", c.User, c.Host, c.Port, c.Database, target)
}

// LoadPostgres reads every row of the configured table or query
func LoadPostgres(ctx context.Context, cfg PostgresConfig) (*Dataset, error) {
	poolConfig, err := pgxpool.ParseConfig(buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	poolConfig.MaxConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	query, err := selectQuery(cfg)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table data: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	var data [][]Value
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]Value, len(values))
		for i, v := range values {
			row[i] = fromDatabase(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(data) == 0 {
		return nil, ErrEmptyDataset
	}

	return New(cfg.Name(), columns, data)
}

func selectQuery(cfg PostgresConfig) (string, error) {
	if cfg.Query != "" {
		return cfg.Query, nil
	}
	if cfg.Table == "" {
		return "", fmt.Errorf("postgres source needs a table or a query")
	}
	ident := pgx.Identifier{cfg.Table}
	if cfg.Schema != "" {
		ident = pgx.Identifier{cfg.Schema, cfg.Table}
	}
	return "SELECT * FROM " + ident.Sanitize(), nil
}

// fromDatabase maps a decoded PostgreSQL value onto a cell
func fromDatabase(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case float32:
		return Number(float64(x))
	case float64:
		return Number(x)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return Null()
		}
		return Number(f.Float64)
	case string:
		return Text(x)
	case bool:
		return Text(strconv.FormatBool(x))
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return Text(x.Format("2006-01-02"))
		}
		return Text(x.Format("2006-01-02 15:04:05"))
	case []byte:
		return Text(string(x))
	default:
		return Text(fmt.Sprintf("%v", x))
	}
}

// buildConnectionString creates a PostgreSQL connection string
func buildConnectionString(cfg PostgresConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	parts := []string{
		"host=" + quoteConnValue(cfg.Host),
		fmt.Sprintf("port=%d", port),
		"user=" + quoteConnValue(cfg.User),
		"dbname=" + quoteConnValue(cfg.Database),
		"sslmode=" + sslMode,
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+quoteConnValue(cfg.Password))
	}
	return strings.Join(parts, " ")
}

func quoteConnValue(s string) string {
	if s != "" && !strings.ContainsAny(s, " '\\") {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
