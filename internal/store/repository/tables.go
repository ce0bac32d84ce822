package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fortuna/pivotboard/internal/store"
	"github.com/lib/pq"
)

// TableRepository scans whole prediction tables straight from Postgres
type TableRepository struct {
	db *store.Database
}

// NewTableRepository creates a new table repository
func NewTableRepository(db *store.Database) *TableRepository {
	return &TableRepository{db: db}
}

// Select returns every row of table, ordered ascending by orderBy when it is set
func (r *TableRepository) Select(ctx context.Context, table, orderBy string) ([]store.Row, error) {
	query := fmt.Sprintf("SELECT * FROM %s", pq.QuoteIdentifier(table))
	if orderBy != "" {
		query += fmt.Sprintf(" ORDER BY %s ASC", pq.QuoteIdentifier(orderBy))
	}

	rows, err := r.db.DB().QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("reading %s column types: %w", table, err)
	}
	jsonCols := make(map[string]bool)
	for _, ct := range types {
		switch strings.ToUpper(ct.DatabaseTypeName()) {
		case "JSON", "JSONB":
			jsonCols[ct.Name()] = true
		}
	}

	var result []store.Row
	for rows.Next() {
		raw := make(map[string]interface{})
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}

		row := make(store.Row, len(raw))
		for col, val := range raw {
			if jsonCols[col] {
				row[col] = decodeJSONValue(val)
				continue
			}
			row[col] = normalizeValue(val)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", table, err)
	}

	return result, nil
}

// HealthCheck pings the database
func (r *TableRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// normalizeValue converts driver values into the shapes the REST API returns:
// text and numeric columns come back as []byte, dates as time.Time.
func normalizeValue(val interface{}) interface{} {
	switch v := val.(type) {
	case []byte:
		return string(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	default:
		return v
	}
}

// decodeJSONValue unpacks a json/jsonb cell into the structure the REST API
// would have returned for it. Undecodable text is kept as a string.
func decodeJSONValue(val interface{}) interface{} {
	var raw []byte
	switch v := val.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return normalizeValue(val)
	}

	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw)
	}
	return out
}
