package service

import (
	"fmt"
	"strings"

	"github.com/fortuna/pivotboard/internal/reconciliation"
	"github.com/fortuna/pivotboard/internal/store"
	"go.uber.org/zap"
)

// StatLine is one stat-category row for a player
type StatLine struct {
	Category string   `json:"category"`
	Metrics  []Metric `json:"metrics"`
}

// PlayerUnit groups every stat row of one player, in source order
type PlayerUnit struct {
	Name  string     `json:"name"`
	Stats []StatLine `json:"stats"`
}

// TeamPanel is one team's column inside a matchup card
type TeamPanel struct {
	Team     string                  `json:"team"`
	Strategy reconciliation.Strategy `json:"strategy"`
	Players  []PlayerUnit            `json:"players"`
}

// MatchupCard renders all player props of one matchup
type MatchupCard struct {
	Matchup string    `json:"matchup"`
	Gameday string    `json:"gameday"`
	Away    TeamPanel `json:"away"`
	Home    TeamPanel `json:"home"`
}

// PropBoard is the player prop view
type PropBoard struct {
	Matchups []string      `json:"matchups"`
	Selected string        `json:"selected"`
	Cards    []MatchupCard `json:"cards"`
}

// ClassifyStatCategory maps the sim_yards text to a display title. The
// checks run in order pass, rush, rec, so the first hit wins.
func ClassifyStatCategory(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "pass"):
		return "Passing"
	case strings.Contains(lower, "rush"):
		return "Rushing"
	case strings.Contains(lower, "rec"):
		return "Receiving"
	default:
		return "Stats"
	}
}

func decodeProps(table *store.Table, logger *zap.Logger) []store.PlayerProp {
	props := make([]store.PlayerProp, 0, len(table.Rows))
	for i, row := range table.Rows {
		var p store.PlayerProp
		if err := store.Decode(row, &p); err != nil {
			logger.Warn("prop row decoded partially", zap.Int("index", i), zap.Error(err))
		}
		props = append(props, p)
	}
	return props
}

// BuildPropBoard groups prop rows into one card per matchup, split by team and
// then by player. An unknown selection shows every matchup. Matchups that do not parse as "AWAY @ HOME" or whose rows
// carry fewer than two teams are skipped.
func BuildPropBoard(table *store.Table, selected string, logger *zap.Logger) *PropBoard {
	if logger == nil {
		logger = zap.NewNop()
	}

	props := decodeProps(table, logger)
	board := &PropBoard{
		Matchups: distinctSorted(props, func(p store.PlayerProp) string { return p.Matchup }),
	}
	board.Selected = normalizeSelection(selected, board.Matchups)

	toShow := board.Matchups
	if board.Selected != AllMatchups {
		toShow = []string{board.Selected}
	}

	for _, matchup := range toShow {
		var rows []store.PlayerProp
		for _, p := range props {
			if p.Matchup == matchup {
				rows = append(rows, p)
			}
		}
		if len(rows) == 0 {
			continue
		}

		teams := distinctInOrder(rows, func(p store.PlayerProp) string { return p.Team })
		if len(teams) < 2 {
			logger.Debug("matchup skipped: fewer than two teams", zap.String("matchup", matchup))
			continue
		}

		awayAbbr, homeAbbr, ok := reconciliation.ParseMatchup(matchup)
		if !ok {
			logger.Debug("matchup skipped: unparseable", zap.String("matchup", matchup))
			continue
		}

		res := reconciliation.ResolveTeams(awayAbbr, homeAbbr, teams)
		if res.Away.Strategy == reconciliation.ByPosition || res.Home.Strategy == reconciliation.ByPosition {
			logger.Debug("matchup teams resolved by position",
				zap.String("matchup", matchup),
				zap.String("away", res.Away.Team), zap.String("away_strategy", string(res.Away.Strategy)),
				zap.String("home", res.Home.Team), zap.String("home_strategy", string(res.Home.Strategy)))
		}

		board.Cards = append(board.Cards, MatchupCard{
			Matchup: matchup,
			Gameday: FormatGameday(rows[0].Gameday),
			Away:    buildTeamPanel(res.Away, rows),
			Home:    buildTeamPanel(res.Home, rows),
		})
	}

	return board
}

func buildTeamPanel(side reconciliation.Side, rows []store.PlayerProp) TeamPanel {
	panel := TeamPanel{Team: side.Team, Strategy: side.Strategy}

	var teamRows []store.PlayerProp
	for _, r := range rows {
		if r.Team == side.Team {
			teamRows = append(teamRows, r)
		}
	}

	for _, name := range distinctInOrder(teamRows, func(p store.PlayerProp) string { return p.PlayerName }) {
		unit := PlayerUnit{Name: name}
		for _, r := range teamRows {
			if r.PlayerName == name {
				unit.Stats = append(unit.Stats, newStatLine(r))
			}
		}
		panel.Players = append(panel.Players, unit)
	}

	return panel
}

func newStatLine(p store.PlayerProp) StatLine {
	return StatLine{
		Category: ClassifyStatCategory(p.SimYards),
		Metrics: []Metric{
			{Label: "Simulated Yards", Value: fmt.Sprintf("%.1f", p.SimYardsNumeric)},
			{Label: "Simulated TDs", Value: fmt.Sprintf("%.2f", p.SimTDsNumeric)},
			{Label: "Boom Probability", Value: fmt.Sprintf("%.1f%%", p.BoomProbNumeric)},
			{Label: "Bust Probability", Value: fmt.Sprintf("%.1f%%", p.BustProbNumeric)},
		},
	}
}

// distinctInOrder collects keys of items in first-appearance order
func distinctInOrder[T any](items []T, key func(T) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		k := key(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
