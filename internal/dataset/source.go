package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rebeliceyang/lazysheet/internal/logger"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

// Source kinds
const (
	KindXLSX     = "xlsx"
	KindCSV      = "csv"
	KindPostgres = "postgres"
)

// Source selects where the dataset comes from
type Source struct {
	Kind     string
	Path     string
	Sheet    string
	Postgres PostgresConfig
}

// ResolveKind fills in the kind from the file extension when unset
func (s Source) ResolveKind() string {
	if s.Kind != "" {
		return strings.ToLower(s.Kind)
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv", ".txt":
		return KindCSV
	default:
		return KindXLSX
	}
}

// String names the source for display
func (s Source) String() string {
	if s.ResolveKind() == KindPostgres {
		return s.Postgres.Name()
	}
	if s.Sheet != "" {
		return s.Path + ":" + s.Sheet
	}
	return s.Path
}

// Open loads the dataset described by src. File sources go through the
// cache so an unchanged file is parsed only once per process.
func Open(ctx context.Context, cache *Cache, src Source) (*Dataset, error) {
	start := time.Now()
	if cache == nil {
		cache = NewCache()
	}

	var (
		ds  *Dataset
		err error
	)
	switch kind := src.ResolveKind(); kind {
	case KindXLSX:
		ds, err = cache.Load(src.Path, src.Sheet, LoadXLSX)
	case KindCSV:
		ds, err = cache.Load(src.Path, "", func(path, _ string) (*Dataset, error) {
			return LoadCSV(path)
		})
	case KindPostgres:
		ds, err = LoadPostgres(ctx, src.Postgres)
	default:
		err = fmt.Errorf("%w: %q", util.ErrUnsupportedKind, kind)
	}
	if err != nil {
		logger.Error("dataset load failed", "source", src.String(), "error", err)
		return nil, LoadFailed(src.String(), err)
	}

	logger.LogLoad(src.String(), ds.Len(), len(ds.columns), time.Since(start))
	return ds, nil
}
