package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fortuna/pivotboard/internal/store"
	"github.com/shopspring/decimal"
)

// numericTextColumns carry a number embedded in free text on the prop table
var numericTextColumns = []string{"sim_yards", "sim_tds", "boom_prob", "bust_prob"}

var numeralPattern = regexp.MustCompile(`(\d+\.?\d*)`)

// ExtractNumeric returns the first integer or decimal numeral in the text form
// of v, or 0 when there is none
func ExtractNumeric(v any) float64 {
	if v == nil {
		return 0
	}
	m := numeralPattern.FindString(cellText(v))
	if m == "" {
		return 0
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(m, "."))
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// deriveNumericColumns adds <col>_numeric for each numeric text column present
// in the table, then zero-fills every nil or absent cell across all columns
func deriveNumericColumns(table *store.Table) {
	for _, col := range numericTextColumns {
		if !table.HasColumn(col) {
			continue
		}
		for _, row := range table.Rows {
			row[col+"_numeric"] = ExtractNumeric(row[col])
		}
	}

	cols := table.Columns()
	for _, row := range table.Rows {
		for _, col := range cols {
			if v, ok := row[col]; !ok || v == nil {
				row[col] = float64(0)
			}
		}
	}
}

// cellText renders a cell the way it would print as plain text
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(x)
	}
}
