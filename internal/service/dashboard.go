package service

import (
	"context"
	"fmt"

	"github.com/fortuna/pivotboard/internal/store"
	"go.uber.org/zap"
)

// PageTitle is shown at the top of every dashboard view
const PageTitle = "PivotBets Sports Predictions"

// AccuracyHeader is the model-accuracy strip above the game board
type AccuracyHeader struct {
	Title       string   `json:"title"`
	Metrics     []Metric `json:"metrics,omitempty"`
	Unavailable string   `json:"unavailable,omitempty"`
}

// RawTable is the column dump shown when a table lacks its grouping column
type RawTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Page is everything the dashboard renders for one category and matchup selection
type Page struct {
	Title           string          `json:"title"`
	Categories      []string        `json:"categories"`
	Category        string          `json:"category"`
	KnownCategory   bool            `json:"known_category"`
	Table           string          `json:"table"`
	Notices         []store.Notice  `json:"notices,omitempty"`
	Header          *AccuracyHeader `json:"header,omitempty"`
	Heading         string          `json:"heading,omitempty"`
	MatchupOptions  []string        `json:"matchup_options,omitempty"`
	SelectedMatchup string          `json:"selected_matchup"`
	Games           *GameBoard      `json:"games,omitempty"`
	Props           *PropBoard      `json:"props,omitempty"`
	Raw             *RawTable       `json:"raw,omitempty"`
	Info            string          `json:"info,omitempty"`
}

// Dashboard assembles pages from cached table fetches
type Dashboard struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

// NewDashboard creates a dashboard over fetcher
func NewDashboard(fetcher *Fetcher, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{fetcher: fetcher, logger: logger}
}

// Fetcher exposes the underlying fetcher
func (d *Dashboard) Fetcher() *Fetcher {
	return d.fetcher
}

// Build derives the whole page from scratch for the given selection.
// A matchup that is not offered for the category falls back to all matchups.
func (d *Dashboard) Build(ctx context.Context, category, matchup string) *Page {
	page := &Page{
		Title:         PageTitle,
		Categories:    Categories(),
		Category:      category,
		KnownCategory: IsKnownCategory(category),
		Table:         TableForCategory(category),
	}
	if !page.KnownCategory {
		d.logger.Warn("unknown category, defaulting to player props", zap.String("category", category))
	}

	// Both accuracy tables load on every view, so their notices show everywhere
	headers := make(map[string]store.Table)
	for _, name := range HeaderTables() {
		t := d.fetcher.FetchHeader(ctx, name)
		page.Notices = append(page.Notices, t.Notices...)
		headers[name] = t
	}
	if headerTable := HeaderTableForCategory(category); headerTable != "" {
		t := headers[headerTable]
		page.Header = buildAccuracyHeader(category, &t, d.logger)
	}

	data := d.fetcher.FetchDetail(ctx, page.Table)
	page.Notices = append(page.Notices, data.Notices...)

	if data.Empty() {
		page.SelectedMatchup = AllMatchups
		page.Info = "Could not retrieve data for the selected league."
		return page
	}

	if page.Table == TablePlayerProps {
		d.buildProps(page, &data, matchup)
	} else {
		d.buildGames(page, &data, matchup)
	}
	return page
}

func (d *Dashboard) buildGames(page *Page, data *store.Table, matchup string) {
	page.Heading = fmt.Sprintf("%s Game Predictions", page.Category)

	if !data.HasColumn("concat") {
		page.SelectedMatchup = AllMatchups
		page.Notices = append(page.Notices, shapeWarning(data.Name, "concat"))
		page.Raw = buildRawTable(data)
		return
	}

	page.Games = BuildGameBoard(data, matchup, d.logger)
	page.SelectedMatchup = page.Games.Selected
	page.MatchupOptions = append([]string{AllMatchups}, page.Games.Matchups...)

	if page.Games.Count == 0 {
		page.Info = "No predictions available for the selected matchup."
	}
}

func (d *Dashboard) buildProps(page *Page, data *store.Table, matchup string) {
	page.Heading = "NFL Player Prop Predictions"

	if !data.HasColumn("matchup") {
		page.SelectedMatchup = AllMatchups
		page.Notices = append(page.Notices, shapeWarning(data.Name, "matchup"))
		page.Raw = buildRawTable(data)
		return
	}

	page.Props = BuildPropBoard(data, matchup, d.logger)
	page.SelectedMatchup = page.Props.Selected
	page.MatchupOptions = append([]string{AllMatchups}, page.Props.Matchups...)
}

func buildAccuracyHeader(category string, t *store.Table, logger *zap.Logger) *AccuracyHeader {
	league := category
	header := &AccuracyHeader{Title: league + " Model Accuracy"}

	if t.Empty() {
		header.Unavailable = fmt.Sprintf("Could not load %s results data.", league)
		return header
	}

	var summary store.AccuracySummary
	if err := store.Decode(t.Rows[0], &summary); err != nil {
		logger.Warn("accuracy row decoded partially", zap.String("table", t.Name), zap.Error(err))
	}

	header.Metrics = []Metric{
		{Label: "Winner Accuracy", Value: formatPercent(summary.MoneylineAccuracy)},
		{Label: "Spread Accuracy", Value: formatPercent(summary.ATSAccuracy)},
		{Label: "Total Score Accuracy", Value: formatPercent(summary.TotalAccuracy)},
	}
	return header
}

func shapeWarning(table, column string) store.Notice {
	return store.Notice{
		Level:   store.NoticeWarning,
		Message: fmt.Sprintf("The table '%s' does not contain a '%s' column.", table, column),
	}
}

func buildRawTable(t *store.Table) *RawTable {
	raw := &RawTable{Columns: t.Columns()}
	for _, row := range t.Rows {
		cells := make([]string, len(raw.Columns))
		for i, col := range raw.Columns {
			cells[i] = rawCell(row[col])
		}
		raw.Rows = append(raw.Rows, cells)
	}
	return raw
}
