package service

import (
	"fmt"
	"slices"

	"github.com/fortuna/pivotboard/internal/store"
	"go.uber.org/zap"
)

// GameColumns is the number of card columns on the game board
const GameColumns = 2

// TeamColumn is one side of a game card
type TeamColumn struct {
	Team    string   `json:"team"`
	Metrics []Metric `json:"metrics"`
}

// InsightList is a collapsible list of narrative paths. Present is false
// when the row carried no list at all.
type InsightList struct {
	Title   string          `json:"title"`
	Present bool            `json:"present"`
	Items   []store.Insight `json:"items"`
}

// GameCard renders one game prediction row
type GameCard struct {
	Index       int         `json:"index"`
	Column      int         `json:"column"`
	Matchup     string      `json:"matchup"`
	Title       string      `json:"title"`
	Gameday     string      `json:"gameday"`
	Away        TeamColumn  `json:"away"`
	Home        TeamColumn  `json:"home"`
	Predictions []string    `json:"predictions"`
	Paths       InsightList `json:"paths"`
	Archetypes  InsightList `json:"archetypes"`
}

// GameBoard is the filtered game cards laid out in columns
type GameBoard struct {
	Matchups []string     `json:"matchups"`
	Selected string       `json:"selected"`
	Columns  [][]GameCard `json:"columns"`
	Count    int          `json:"count"`
}

// decodedGame pairs a decoded record with its position in the source table
type decodedGame struct {
	index int
	game  store.GamePrediction
}

func decodeGames(table *store.Table, logger *zap.Logger) []decodedGame {
	games := make([]decodedGame, 0, len(table.Rows))
	for i, row := range table.Rows {
		game, err := store.DecodeGamePrediction(row)
		if err != nil {
			logger.Warn("game row decoded partially", zap.String("table", table.Name), zap.Int("index", i), zap.Error(err))
		}
		games = append(games, decodedGame{index: i, game: game})
	}
	return games
}

// BuildGameBoard filters a game table to the selected matchup and lays the
// cards out round-robin by source row index, so a filtered board can leave
// one column taller than the other. A selection that is not one of the
// table's matchups shows all of them.
func BuildGameBoard(table *store.Table, selected string, logger *zap.Logger) *GameBoard {
	if logger == nil {
		logger = zap.NewNop()
	}

	games := decodeGames(table, logger)
	board := &GameBoard{
		Matchups: distinctSorted(games, func(g decodedGame) string { return g.game.Concat }),
		Columns:  make([][]GameCard, GameColumns),
	}
	board.Selected = normalizeSelection(selected, board.Matchups)

	for _, g := range games {
		if board.Selected != AllMatchups && g.game.Concat != board.Selected {
			continue
		}
		card := newGameCard(g.index, g.game)
		board.Columns[card.Column] = append(board.Columns[card.Column], card)
		board.Count++
	}

	return board
}

func newGameCard(index int, g store.GamePrediction) GameCard {
	return GameCard{
		Index:   index,
		Column:  index % GameColumns,
		Matchup: g.Concat,
		Title:   fmt.Sprintf("%s @ %s", g.AwayTeamName, g.HomeTeamName),
		Gameday: FormatGameday(g.Gameday),
		Away: TeamColumn{
			Team: g.AwayTeam,
			Metrics: []Metric{
				{Label: "Projected Away Score", Value: fmt.Sprintf("%.1f", g.AwaySimPoints)},
				{Label: "Moneyline Odds", Value: g.AwayML},
				{Label: "Away Spread", Value: g.AwaySpread},
				{Label: "Total Under", Value: g.TotalUnder},
			},
		},
		Home: TeamColumn{
			Team: g.HomeTeam,
			Metrics: []Metric{
				{Label: "Projected Home Score", Value: fmt.Sprintf("%.1f", g.HomeSimPoints)},
				{Label: "Moneyline Odds", Value: g.HomeML},
				{Label: "Home Spread", Value: g.HomeSpread},
				{Label: "Total Over", Value: g.TotalOver},
			},
		},
		Predictions: []string{
			fmt.Sprintf("Predicted Winner: %s | %s Win Probability", g.PredWinner, g.PredWP),
			fmt.Sprintf("Predicted Cover: %s | %s Cover Probability", g.PredCoverTeam, g.PredATSProb),
			fmt.Sprintf("Predicted Total: %s | %s O/U Probability", g.PredTotalName, g.PredOUProb),
		},
		Paths: InsightList{
			Title:   g.PredWinner + " Paths to Victory",
			Present: g.InsightsV2 != nil,
			Items:   g.InsightsV2,
		},
		Archetypes: InsightList{
			Title:   g.PredWinner + " Score Archetypes",
			Present: g.InsightsV1 != nil,
			Items:   g.InsightsV1,
		},
	}
}

func normalizeSelection(matchup string, available []string) string {
	if matchup == "" || matchup == AllMatchups || !slices.Contains(available, matchup) {
		return AllMatchups
	}
	return matchup
}

// distinctSorted collects the non-empty keys of items, deduplicated and sorted
func distinctSorted[T any](items []T, key func(T) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		k := key(item)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
