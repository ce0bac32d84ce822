package service

import (
	"encoding/json"
	"fmt"
	"time"
)

// Metric is one labelled value on a card
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormatGameday turns "2025-09-07" into "Sunday, September 07". Anything that
// does not parse is returned as-is.
func FormatGameday(gameday string) string {
	t, err := time.Parse("2006-01-02", gameday)
	if err != nil {
		return gameday
	}
	return t.Format("Monday, January 02")
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// rawCell renders any cell for the fallback table dump
func rawCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return cellText(x)
	}
}
