package kpi

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/movieetl/internal/movies"
)

const (
	// MinROIBudget is the smallest budget, in millions, a movie needs to be
	// ranked by ROI.
	MinROIBudget = 10.0
	// MinRatingVotes is the smallest vote count a movie needs to be ranked by
	// rating.
	MinRatingVotes = 10
)

// Measure is a ranking measure shared by a highest/lowest pair, so both ends
// see the same eligible movies.
type Measure struct {
	Key   string
	Where Predicate
}

// Measures behind the named rankings.
var (
	Revenue    = Measure{Key: "revenue_musd"}
	Budget     = Measure{Key: "budget_musd"}
	Profit     = Measure{Key: movies.FieldProfit}
	ROI        = Measure{Key: movies.FieldROI, Where: MinBudget(MinROIBudget)}
	Votes      = Measure{Key: "vote_count"}
	Rating     = Measure{Key: "vote_average", Where: MinVotes(MinRatingVotes)}
	Popularity = Measure{Key: "popularity"}
)

// MinBudget keeps movies with a known budget of at least floor.
func MinBudget(floor float64) Predicate {
	return func(m movies.Movie) bool {
		return m.BudgetMUSD != nil && *m.BudgetMUSD >= floor
	}
}

// MinVotes keeps movies with at least floor votes.
func MinVotes(floor int64) Predicate {
	return func(m movies.Movie) bool {
		return m.VoteCount != nil && *m.VoteCount >= floor
	}
}

// Query builds the ranking query for this measure.
func (s Measure) Query(ascending bool, limit int, label string) Query {
	return Query{By: []string{s.Key}, Ascending: ascending, Limit: limit, Where: s.Where, Label: label}
}

// Top returns the n highest movies by this measure.
func (s Measure) Top(ds *movies.Dataset, n int) (*Ranking, error) {
	return Rank(ds, s.Query(false, n, ""))
}

// Bottom returns the n lowest movies by this measure.
func (s Measure) Bottom(ds *movies.Dataset, n int) (*Ranking, error) {
	return Rank(ds, s.Query(true, n, ""))
}

// Named is one of the standard rankings shown in the KPI report.
type Named struct {
	Name      string
	Measure   Measure
	Ascending bool
}

// NamedRankings lists the standard rankings in report order.
var NamedRankings = []Named{
	{Name: "Highest Revenue", Measure: Revenue},
	{Name: "Lowest Revenue", Measure: Revenue, Ascending: true},
	{Name: "Highest Budget", Measure: Budget},
	{Name: "Lowest Budget", Measure: Budget, Ascending: true},
	{Name: "Highest Profit", Measure: Profit},
	{Name: "Lowest Profit", Measure: Profit, Ascending: true},
	{Name: "Highest ROI", Measure: ROI},
	{Name: "Lowest ROI", Measure: ROI, Ascending: true},
	{Name: "Most Voted", Measure: Votes},
	{Name: "Highest Rated", Measure: Rating},
	{Name: "Lowest Rated", Measure: Rating, Ascending: true},
	{Name: "Most Popular", Measure: Popularity},
}

// RankNamed runs the standard ranking called name, matched case-insensitively.
func RankNamed(ds *movies.Dataset, name string, n int) (*Ranking, error) {
	for _, nr := range NamedRankings {
		if strings.EqualFold(nr.Name, name) {
			return Rank(ds, nr.Measure.Query(nr.Ascending, n, nr.Name))
		}
	}
	return nil, fmt.Errorf("unknown ranking %q", name)
}
