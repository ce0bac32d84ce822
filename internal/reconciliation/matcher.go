package reconciliation

import (
	"regexp"
	"strings"
)

// Strategy records how a side of a matchup was resolved to a team
type Strategy string

const (
	// ByAbbreviation means the parsed abbreviation occurs in the team string
	ByAbbreviation Strategy = "abbreviation"
	// ByPosition means no team contained the abbreviation, so the first
	// (away) or second (home) distinct team was taken
	ByPosition Strategy = "position"
)

var matchupPattern = regexp.MustCompile(`(.+) @ (.+)`)

// ParseMatchup splits "AWAY @ HOME" into its abbreviations.
// ok is false when the string has no " @ " separator.
func ParseMatchup(matchup string) (away, home string, ok bool) {
	m := matchupPattern.FindStringSubmatch(matchup)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Side is one resolved side of a matchup
type Side struct {
	Abbreviation string   `json:"abbreviation"`
	Team         string   `json:"team"`
	Strategy     Strategy `json:"strategy"`
}

// Resolution maps a matchup's abbreviations onto the team values present in its rows
type Resolution struct {
	Away Side `json:"away"`
	Home Side `json:"home"`
}

// ResolveTeams picks, for each side, the first team whose name contains the
// side's abbreviation, falling back to position (teams[0] away, teams[1] home).
// When both sides land on the same team the containment match is ambiguous and
// both sides are assigned by position.
// teams must hold at least two entries, in first-appearance order.
func ResolveTeams(awayAbbr, homeAbbr string, teams []string) Resolution {
	res := Resolution{
		Away: resolveSide(awayAbbr, teams, 0),
		Home: resolveSide(homeAbbr, teams, 1),
	}
	if res.Away.Team == res.Home.Team {
		res.Away = Side{Abbreviation: awayAbbr, Team: teams[0], Strategy: ByPosition}
		res.Home = Side{Abbreviation: homeAbbr, Team: teams[1], Strategy: ByPosition}
	}
	return res
}

func resolveSide(abbr string, teams []string, position int) Side {
	for _, team := range teams {
		if strings.Contains(team, abbr) {
			return Side{Abbreviation: abbr, Team: team, Strategy: ByAbbreviation}
		}
	}
	return Side{Abbreviation: abbr, Team: teams[position], Strategy: ByPosition}
}
