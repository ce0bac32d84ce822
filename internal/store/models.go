package store

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Row is one record as returned by the data source, keyed by column name
type Row map[string]any

// NoticeLevel classifies a user-facing report produced while fetching
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a non-fatal message surfaced on the dashboard
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Table is the result of one table fetch, rows in source order
type Table struct {
	Name      string    `json:"name"`
	Rows      []Row     `json:"rows"`
	Notices   []Notice  `json:"notices,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Empty reports whether the table holds no rows
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Columns returns the union of column names across all rows, in first-seen order.
// Keys within a single row are visited in sorted order so the result is stable.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var cols []string
	for _, row := range t.Rows {
		for _, key := range slices.Sorted(maps.Keys(row)) {
			if !seen[key] {
				seen[key] = true
				cols = append(cols, key)
			}
		}
	}
	return cols
}

// HasColumn reports whether any row carries the column
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, row := range t.Rows {
		if _, ok := row[name]; ok {
			return true
		}
	}
	return false
}

// AccuracySummary is a row of nfl_results / cfb_results
type AccuracySummary struct {
	MoneylineAccuracy float64 `mapstructure:"moneyline_accuracy" json:"moneyline_accuracy"`
	ATSAccuracy       float64 `mapstructure:"ats_accuracy" json:"ats_accuracy"`
	TotalAccuracy     float64 `mapstructure:"total_accuracy" json:"total_accuracy"`
}

// Insight is one precomputed narrative path with its probability
type Insight struct {
	Path      string `mapstructure:"path" json:"path"`
	Prob      string `mapstructure:"prob" json:"prob"`
	Narrative string `mapstructure:"narrative" json:"narrative"`
}

// GamePrediction is a row of nfl_games / cfb_games
type GamePrediction struct {
	Concat        string    `mapstructure:"concat" json:"concat"`
	Gameday       string    `mapstructure:"gameday" json:"gameday"`
	AwayTeam      string    `mapstructure:"away_team" json:"away_team"`
	HomeTeam      string    `mapstructure:"home_team" json:"home_team"`
	AwayTeamName  string    `mapstructure:"away_team_name" json:"away_team_name"`
	HomeTeamName  string    `mapstructure:"home_team_name" json:"home_team_name"`
	AwaySimPoints float64   `mapstructure:"away_sim_points" json:"away_sim_points"`
	HomeSimPoints float64   `mapstructure:"home_sim_points" json:"home_sim_points"`
	AwayML        string    `mapstructure:"away_ml" json:"away_ml"`
	HomeML        string    `mapstructure:"home_ml" json:"home_ml"`
	AwaySpread    string    `mapstructure:"away_spread" json:"away_spread"`
	HomeSpread    string    `mapstructure:"home_spread" json:"home_spread"`
	TotalOver     string    `mapstructure:"total_over" json:"total_over"`
	TotalUnder    string    `mapstructure:"total_under" json:"total_under"`
	PredWinner    string    `mapstructure:"pred_winner" json:"pred_winner"`
	PredWP        string    `mapstructure:"pred_wp" json:"pred_wp"`
	PredCoverTeam string    `mapstructure:"pred_cover_team" json:"pred_cover_team"`
	PredATSProb   string    `mapstructure:"pred_ats_prob" json:"pred_ats_prob"`
	PredTotalName string    `mapstructure:"pred_total_name" json:"pred_total_name"`
	PredOUProb    string    `mapstructure:"pred_ou_prob" json:"pred_ou_prob"`
	InsightsV1    []Insight `mapstructure:"-" json:"insights_v1"`
	InsightsV2    []Insight `mapstructure:"-" json:"insights_v2"`
}

// PlayerProp is a row of nfl_player_prop after numeric extraction
type PlayerProp struct {
	Matchup         string  `mapstructure:"matchup" json:"matchup"`
	Gameday         string  `mapstructure:"gameday" json:"gameday"`
	Team            string  `mapstructure:"team" json:"team"`
	PlayerName      string  `mapstructure:"player_name" json:"player_name"`
	SimYards        string  `mapstructure:"sim_yards" json:"sim_yards"`
	SimTDs          string  `mapstructure:"sim_tds" json:"sim_tds"`
	BoomProb        string  `mapstructure:"boom_prob" json:"boom_prob"`
	BustProb        string  `mapstructure:"bust_prob" json:"bust_prob"`
	SimYardsNumeric float64 `mapstructure:"sim_yards_numeric" json:"sim_yards_numeric"`
	SimTDsNumeric   float64 `mapstructure:"sim_tds_numeric" json:"sim_tds_numeric"`
	BoomProbNumeric float64 `mapstructure:"boom_prob_numeric" json:"boom_prob_numeric"`
	BustProbNumeric float64 `mapstructure:"bust_prob_numeric" json:"bust_prob_numeric"`
}

// Decode converts a row into a typed record; numbers and strings convert
// between each other.
func Decode(row Row, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(row)); err != nil {
		return fmt.Errorf("decoding row: %w", err)
	}
	return nil
}

// DecodeGamePrediction decodes a game row including its insight lists.
// The returned record is usable even when err is non-nil.
func DecodeGamePrediction(row Row) (GamePrediction, error) {
	var game GamePrediction
	err := Decode(row, &game)
	game.InsightsV1 = decodeInsights(row["insights_v1"])
	game.InsightsV2 = decodeInsights(row["insights_v2"])
	return game, err
}

// decodeInsights returns nil unless v is already a list, so text that merely
// looks like JSON gets no section. An empty list yields an empty, non-nil slice.
func decodeInsights(v any) []Insight {
	var items []any
	switch raw := v.(type) {
	case []any:
		items = raw
	case []map[string]any:
		items = make([]any, 0, len(raw))
		for _, m := range raw {
			items = append(items, m)
		}
	default:
		return nil
	}
	if items == nil {
		return nil
	}

	out := make([]Insight, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var insight Insight
		if err := Decode(m, &insight); err != nil {
			continue
		}
		out = append(out, insight)
	}
	return out
}
