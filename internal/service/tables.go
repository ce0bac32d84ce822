package service

import (
	"context"

	"github.com/fortuna/pivotboard/internal/store"
)

// Tables served by the dashboard
const (
	TableNFLResults  = "nfl_results"
	TableCFBResults  = "cfb_results"
	TableNFLGames    = "nfl_games"
	TableCFBGames    = "cfb_games"
	TablePlayerProps = "nfl_player_prop"
)

// Categories offered in the sidebar, in display order
const (
	CategoryNFL         = "NFL"
	CategoryCFB         = "College Football"
	CategoryPlayerProps = "NFL Player Props"
)

// AllMatchups is the filter sentinel that selects every matchup
const AllMatchups = "All Matchups"

// Querier runs a select against a named table. An empty orderBy means no ordering.
type Querier interface {
	Select(ctx context.Context, table, orderBy string) ([]store.Row, error)
}

// HeaderTables lists the model-accuracy tables
func HeaderTables() []string {
	return []string{TableNFLResults, TableCFBResults}
}

// DetailTables lists the per-game and per-player prediction tables
func DetailTables() []string {
	return []string{TableNFLGames, TableCFBGames, TablePlayerProps}
}

// IsHeaderTable reports whether table is one of the accuracy tables
func IsHeaderTable(table string) bool {
	return table == TableNFLResults || table == TableCFBResults
}

// IsDetailTable reports whether table is one of the prediction tables
func IsDetailTable(table string) bool {
	return table == TableNFLGames || table == TableCFBGames || table == TablePlayerProps
}

// detailOrderColumn is the ascending sort key for a detail table
func detailOrderColumn(table string) string {
	if table == TablePlayerProps {
		return "player_name"
	}
	return "gameday"
}
