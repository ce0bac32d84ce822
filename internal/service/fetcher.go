package service

import (
	"context"
	"fmt"

	"github.com/fortuna/pivotboard/internal/cache"
	"github.com/fortuna/pivotboard/internal/store"
	"go.uber.org/zap"
)

// Fetcher loads header and detail tables through the TTL cache. It never
// returns an error: empty results and failures come back as an empty table
// carrying a notice.
type Fetcher struct {
	source Querier
	cache  *cache.TableCache
	logger *zap.Logger
}

// NewFetcher creates a fetcher over source, memoized by tableCache
func NewFetcher(source Querier, tableCache *cache.TableCache, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		source: source,
		cache:  tableCache,
		logger: logger,
	}
}

// FetchHeader returns every row of an accuracy table, unordered
func (f *Fetcher) FetchHeader(ctx context.Context, table string) store.Table {
	return f.cache.GetOrFetch(ctx, "header:"+table, func(ctx context.Context) store.Table {
		return f.load(ctx, table, "")
	})
}

// FetchDetail returns every row of a prediction table ordered by its sort key.
// The player prop table additionally gets its numeric columns derived and
// its missing cells zero-filled.
func (f *Fetcher) FetchDetail(ctx context.Context, table string) store.Table {
	return f.cache.GetOrFetch(ctx, "detail:"+table, func(ctx context.Context) store.Table {
		result := f.load(ctx, table, detailOrderColumn(table))
		if table == TablePlayerProps && !result.Empty() {
			deriveNumericColumns(&result)
		}
		return result
	})
}

func (f *Fetcher) load(ctx context.Context, table, orderBy string) store.Table {
	result := store.Table{Name: table}

	rows, err := f.source.Select(ctx, table, orderBy)
	if err != nil {
		f.logger.Error("table fetch failed", zap.String("table", table), zap.Error(err))
		result.Notices = append(result.Notices, store.Notice{
			Level:   store.NoticeError,
			Message: fmt.Sprintf("An error occurred while fetching data from '%s': %v", table, err),
		})
		return result
	}

	if len(rows) == 0 {
		f.logger.Warn("table is empty", zap.String("table", table))
		result.Notices = append(result.Notices, store.Notice{
			Level:   store.NoticeWarning,
			Message: fmt.Sprintf("No data found in the '%s' table.", table),
		})
		return result
	}

	f.logger.Info("table fetched", zap.String("table", table), zap.Int("rows", len(rows)))
	result.Rows = rows
	return result
}
