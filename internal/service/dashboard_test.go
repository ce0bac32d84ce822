package service

import (
	"context"
	"testing"

	"github.com/fortuna/pivotboard/internal/store"
)

func TestDashboardGamesWithHeader(t *testing.T) {
	src := newFakeSource()
	src.rows[TableNFLResults] = []store.Row{{"moneyline_accuracy": 64.123, "ats_accuracy": "55.5", "total_accuracy": 51.0}}
	src.rows[TableCFBResults] = []store.Row{{"moneyline_accuracy": 70.0}}
	src.rows[TableNFLGames] = []store.Row{gameRow("A @ B", "A", "B")}
	d := NewDashboard(newTestFetcher(src), nil)

	page := d.Build(context.Background(), CategoryNFL, "")

	if page.Table != TableNFLGames || page.Heading != "NFL Game Predictions" {
		t.Fatalf("table/heading = %q / %q", page.Table, page.Heading)
	}
	if len(page.Notices) != 0 {
		t.Errorf("notices = %v, want none", page.Notices)
	}
	if page.Header == nil || page.Header.Title != "NFL Model Accuracy" {
		t.Fatalf("header = %+v", page.Header)
	}
	want := []string{"64.12%", "55.50%", "51.00%"}
	for i, m := range page.Header.Metrics {
		if m.Value != want[i] {
			t.Errorf("header metric %s = %q, want %q", m.Label, m.Value, want[i])
		}
	}
	if len(page.MatchupOptions) != 2 || page.MatchupOptions[0] != AllMatchups {
		t.Errorf("matchup options = %v", page.MatchupOptions)
	}
	if page.Games == nil || page.Games.Count != 1 {
		t.Fatalf("games = %+v", page.Games)
	}
}

func TestDashboardHeaderUnavailable(t *testing.T) {
	src := newFakeSource()
	src.rows[TableCFBGames] = []store.Row{gameRow("A @ B", "A", "B")}
	d := NewDashboard(newTestFetcher(src), nil)

	page := d.Build(context.Background(), CategoryCFB, "")

	if page.Header == nil || page.Header.Unavailable != "Could not load College Football results data." {
		t.Fatalf("header = %+v", page.Header)
	}
	// Both accuracy tables are empty, so both warn
	if len(page.Notices) != 2 {
		t.Errorf("notices = %v, want two empty-table warnings", page.Notices)
	}
}

func TestDashboardUnknownCategoryFallsThroughToProps(t *testing.T) {
	src := newFakeSource()
	src.rows[TablePlayerProps] = []store.Row{
		{"matchup": "NE @ KC", "team": "NE", "player_name": "Maye", "sim_yards": "200 passing"},
		{"matchup": "NE @ KC", "team": "KC", "player_name": "Mahomes", "sim_yards": "250 passing"},
	}
	d := NewDashboard(newTestFetcher(src), nil)

	page := d.Build(context.Background(), "Hockey", "")

	if page.KnownCategory {
		t.Error("KnownCategory = true for an unrecognised category")
	}
	if page.Table != TablePlayerProps || page.Header != nil {
		t.Fatalf("table = %q header = %+v", page.Table, page.Header)
	}
	if page.Props == nil || len(page.Props.Cards) != 1 {
		t.Fatalf("props = %+v", page.Props)
	}
	if page.Props.Cards[0].Away.Players[0].Stats[0].Metrics[0].Value != "200.0" {
		t.Errorf("derived yards = %q", page.Props.Cards[0].Away.Players[0].Stats[0].Metrics[0].Value)
	}
}

func TestDashboardShapeMismatch(t *testing.T) {
	src := newFakeSource()
	src.rows[TableNFLGames] = []store.Row{{"home_team": "B", "away_team": "A"}}
	d := NewDashboard(newTestFetcher(src), nil)

	page := d.Build(context.Background(), CategoryNFL, "A @ B")

	if page.Games != nil {
		t.Error("game board rendered without a concat column")
	}
	if page.Raw == nil || len(page.Raw.Rows) != 1 || len(page.Raw.Columns) != 2 {
		t.Fatalf("raw = %+v", page.Raw)
	}
	last := page.Notices[len(page.Notices)-1]
	if last.Message != "The table 'nfl_games' does not contain a 'concat' column." {
		t.Errorf("last notice = %q", last.Message)
	}
}

func TestDashboardEmptyDetail(t *testing.T) {
	d := NewDashboard(newTestFetcher(newFakeSource()), nil)

	page := d.Build(context.Background(), CategoryPlayerProps, "")

	if page.Info != "Could not retrieve data for the selected league." {
		t.Errorf("info = %q", page.Info)
	}
	if page.Props != nil || page.Games != nil {
		t.Error("boards rendered for an empty table")
	}
}
