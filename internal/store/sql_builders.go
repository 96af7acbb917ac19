package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/o-dots/backend/internal/logger"
)

// Listing queries clamp the page size so an unbounded request cannot drag
// whole tables across the wire.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// orderClause resolves the ORDER BY expression for a listing query. SortBy
// is matched against the allowed column set; unknown columns fall back to
// fallback. Order defaults to descending.
func orderClause(opts ListOptions, allowed map[string]struct{}, fallback string) string {
	column := fallback
	if _, ok := allowed[opts.SortBy]; ok {
		column = opts.SortBy
	}

	direction := "DESC"
	if strings.EqualFold(opts.Order, "asc") {
		direction = "ASC"
	}

	return column + " " + direction
}

// paginate applies LIMIT/OFFSET to a listing query from the page-based
// options. Pages are 1-based.
func paginate(builder sq.SelectBuilder, opts ListOptions) sq.SelectBuilder {
	opts = opts.Normalize()
	return builder.Limit(uint64(opts.Limit)).Offset(uint64((opts.Page - 1) * opts.Limit))
}

// countRows reports the total number of rows in a content table so callers
// can derive page counts alongside the paginated listings. table is always a
// compile-time constant from the model's TableName, never user input.
func countRows(ctx context.Context, db *DB, table string, caller string) (int, error) {
	log := logger.FromContext(ctx)

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+";").Scan(&total); err != nil {
		log.Err(err).Str("func", caller).Msg("error: executing count")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return total, nil
}

// marshalStringSlices marshals up to three string slices for jsonb storage
// in one call, since the content tables tend to carry several list-valued
// columns per row.
func marshalStringSlices(a, b, c []string) ([]byte, []byte, []byte, error) {
	first, err := jsonbValue(a)
	if err != nil {
		return nil, nil, nil, err
	}
	second, err := jsonbValue(b)
	if err != nil {
		return nil, nil, nil, err
	}
	third, err := jsonbValue(c)
	if err != nil {
		return nil, nil, nil, err
	}

	return first, second, third, nil
}
