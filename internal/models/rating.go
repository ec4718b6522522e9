package models

// Rating is a team's Elo-style strength for one season. Values are mutated
// only by the rating update rule, strictly in game order; everything else
// receives copies.
type Rating struct {
	Team        string  `db:"team" json:"team"`
	Season      int     `db:"season" json:"season"`
	Value       float64 `db:"value" json:"value"`
	GamesPlayed int     `db:"games_played" json:"games_played"`
	AsOfWeek    int     `db:"as_of_week" json:"as_of_week"`
}
