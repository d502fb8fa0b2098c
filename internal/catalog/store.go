// Package catalog stores and resolves product categories.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"

	"github.com/sells-group/elicit/internal/budget"
	"github.com/sells-group/elicit/internal/config"
	"github.com/sells-group/elicit/internal/depend"
	"github.com/sells-group/elicit/internal/model"
	"github.com/sells-group/elicit/internal/resilience"
)

// ErrCategoryNotFound is returned when no category matches a name or query.
var ErrCategoryNotFound = eris.New("catalog: category not found")

// ErrReadOnly is returned when writing to a store that cannot persist.
var ErrReadOnly = eris.New("catalog: store is read-only")

// Store is a read-only category lookup.
type Store interface {
	Get(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Close() error
}

// WritableStore is a Store that can persist categories.
type WritableStore interface {
	Store
	Put(ctx context.Context, cat *model.Category) error
	Migrate(ctx context.Context) error
}

// Key folds a category name into its lookup key.
func Key(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// ValidateCategory checks a category's name, schema, and budget ladder.
func ValidateCategory(cat *model.Category) error {
	var errs []string
	if strings.TrimSpace(cat.Name) == "" {
		errs = append(errs, "name is required")
	}
	if err := depend.Validate(cat.Attributes); err != nil {
		errs = append(errs, err.Error())
	}
	for l, bands := range cat.BudgetBands {
		if _, ok := model.ParseLocale(string(l)); !ok {
			errs = append(errs, fmt.Sprintf("budget_bands: unsupported locale %q", l))
		}
		if len(bands) == 0 {
			errs = append(errs, fmt.Sprintf("budget_bands: %s ladder is empty", l))
		}
		for _, band := range bands {
			if r := budget.Parse(band); r.Min != nil && r.Max != nil && *r.Min > *r.Max {
				errs = append(errs, fmt.Sprintf("budget_bands: %s band %q parses to min %d above max %d", l, band, *r.Min, *r.Max))
			}
		}
	}
	if len(errs) > 0 {
		return eris.Errorf("catalog: invalid category %q: %s", cat.Name, strings.Join(errs, "; "))
	}
	return nil
}

// Open creates the store selected by cfg.Driver. SQL stores are dialed and
// migrated with retries before they are returned.
func Open(ctx context.Context, cfg config.CatalogConfig) (Store, error) {
	switch cfg.Driver {
	case "file", "":
		return NewFileStore(cfg.Path)
	case "sqlite":
		return openMigrated(ctx, cfg, func(context.Context) (WritableStore, error) {
			return NewSQLite(cfg.Path)
		})
	case "postgres":
		return openMigrated(ctx, cfg, func(ctx context.Context) (WritableStore, error) {
			return NewPostgres(ctx, cfg.DatabaseURL, &cfg.Pool)
		})
	}
	return nil, eris.Errorf("catalog: unknown driver %q", cfg.Driver)
}

func openMigrated(ctx context.Context, cfg config.CatalogConfig, dial func(context.Context) (WritableStore, error)) (WritableStore, error) {
	retry := resilience.DefaultRetryConfig()
	if cfg.ConnectAttempts > 0 {
		retry.MaxAttempts = cfg.ConnectAttempts
	}
	if cfg.ConnectBackoff > 0 {
		retry.InitialBackoff = cfg.ConnectBackoff
	}
	retry.OnRetry = resilience.LogRetry("catalog: open " + cfg.Driver)

	return resilience.DoVal(ctx, retry, func(ctx context.Context) (WritableStore, error) {
		st, err := dial(ctx)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		return st, nil
	})
}
