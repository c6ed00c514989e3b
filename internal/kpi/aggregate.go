package kpi

import (
	"cmp"
	"slices"
	"sort"

	"github.com/lehigh-university-libraries/movieetl/internal/movies"
)

// Group names used by FranchiseVsStandalone.
const (
	GroupFranchise  = "Franchise"
	GroupStandalone = "Standalone"
)

// GroupSummary compares franchise and standalone movies. Nil statistics had
// no values to aggregate.
type GroupSummary struct {
	Group          string   `json:"group" yaml:"group"`
	Count          int      `json:"count" yaml:"count"`
	MeanRevenue    *float64 `json:"mean_revenue_musd" yaml:"mean_revenue_musd"`
	MedianROI      *float64 `json:"median_roi" yaml:"median_roi"`
	MeanBudget     *float64 `json:"mean_budget_musd" yaml:"mean_budget_musd"`
	MeanPopularity *float64 `json:"mean_popularity" yaml:"mean_popularity"`
	MeanRating     *float64 `json:"mean_rating" yaml:"mean_rating"`
}

// FranchiseStats summarizes one collection.
type FranchiseStats struct {
	Collection   string   `json:"collection" yaml:"collection"`
	Count        int      `json:"count" yaml:"count"`
	TotalBudget  *float64 `json:"total_budget_musd" yaml:"total_budget_musd"`
	MeanBudget   *float64 `json:"mean_budget_musd" yaml:"mean_budget_musd"`
	TotalRevenue *float64 `json:"total_revenue_musd" yaml:"total_revenue_musd"`
	MeanRevenue  *float64 `json:"mean_revenue_musd" yaml:"mean_revenue_musd"`
	MeanRating   *float64 `json:"mean_rating" yaml:"mean_rating"`
}

// DirectorStats summarizes one director's movies.
type DirectorStats struct {
	Director     string   `json:"director" yaml:"director"`
	Count        int      `json:"count" yaml:"count"`
	TotalRevenue *float64 `json:"total_revenue_musd" yaml:"total_revenue_musd"`
	MeanRating   *float64 `json:"mean_rating" yaml:"mean_rating"`
}

// FranchiseVsStandalone splits the dataset by collection membership. Only
// groups with at least one movie are returned, franchise first.
func FranchiseVsStandalone(ds *movies.Dataset) []GroupSummary {
	var franchise, standalone []movies.Movie
	for _, m := range datasetMovies(ds) {
		if m.IsFranchise() {
			franchise = append(franchise, m)
		} else {
			standalone = append(standalone, m)
		}
	}

	var out []GroupSummary
	for _, g := range []struct {
		name string
		ms   []movies.Movie
	}{{GroupFranchise, franchise}, {GroupStandalone, standalone}} {
		if len(g.ms) == 0 {
			continue
		}
		out = append(out, GroupSummary{
			Group:          g.name,
			Count:          len(g.ms),
			MeanRevenue:    Mean(collect(g.ms, revenue)),
			MedianROI:      Median(collect(g.ms, movies.Movie.ROI)),
			MeanBudget:     Mean(collect(g.ms, budget)),
			MeanPopularity: Mean(collect(g.ms, popularity)),
			MeanRating:     Mean(collect(g.ms, rating)),
		})
	}
	return out
}

// FranchiseLeaderboard summarizes every collection, largest first.
func FranchiseLeaderboard(ds *movies.Dataset) []FranchiseStats {
	groups, order := groupBy(datasetMovies(ds), func(m movies.Movie) []string {
		if !m.IsFranchise() {
			return nil
		}
		return []string{m.Collection}
	})

	out := make([]FranchiseStats, 0, len(order))
	for _, name := range order {
		ms := groups[name]
		budgets := collect(ms, budget)
		revenues := collect(ms, revenue)
		out = append(out, FranchiseStats{
			Collection:   name,
			Count:        len(ms),
			TotalBudget:  Sum(budgets),
			MeanBudget:   Mean(budgets),
			TotalRevenue: Sum(revenues),
			MeanRevenue:  Mean(revenues),
			MeanRating:   Mean(collect(ms, rating)),
		})
	}
	slices.SortStableFunc(out, func(a, b FranchiseStats) int {
		return leaderboardOrder(a.Count, b.Count, a.TotalRevenue, b.TotalRevenue, a.Collection, b.Collection)
	})
	return out
}

// DirectorLeaderboard credits each movie to every one of its directors.
func DirectorLeaderboard(ds *movies.Dataset) []DirectorStats {
	groups, order := groupBy(datasetMovies(ds), func(m movies.Movie) []string {
		return m.Directors
	})

	out := make([]DirectorStats, 0, len(order))
	for _, name := range order {
		ms := groups[name]
		out = append(out, DirectorStats{
			Director:     name,
			Count:        len(ms),
			TotalRevenue: Sum(collect(ms, revenue)),
			MeanRating:   Mean(collect(ms, rating)),
		})
	}
	slices.SortStableFunc(out, func(a, b DirectorStats) int {
		return leaderboardOrder(a.Count, b.Count, a.TotalRevenue, b.TotalRevenue, a.Director, b.Director)
	})
	return out
}

// leaderboardOrder sorts by count desc, total revenue desc, then name.
func leaderboardOrder(countA, countB int, revA, revB *float64, nameA, nameB string) int {
	if c := cmp.Compare(countB, countA); c != 0 {
		return c
	}
	switch {
	case revA != nil && revB != nil:
		if c := cmp.Compare(*revB, *revA); c != 0 {
			return c
		}
	case revA != nil:
		return -1
	case revB != nil:
		return 1
	}
	return cmp.Compare(nameA, nameB)
}

func groupBy(ms []movies.Movie, keys func(movies.Movie) []string) (map[string][]movies.Movie, []string) {
	groups := make(map[string][]movies.Movie)
	var order []string
	for _, m := range ms {
		for _, k := range keys(m) {
			if k == "" {
				continue
			}
			if _, ok := groups[k]; !ok {
				order = append(order, k)
			}
			groups[k] = append(groups[k], m)
		}
	}
	return groups, order
}

func collect(ms []movies.Movie, get func(movies.Movie) (float64, bool)) []float64 {
	var out []float64
	for _, m := range ms {
		if v, ok := get(m); ok {
			out = append(out, v)
		}
	}
	return out
}

func deref(f *float64) (float64, bool) {
	if f == nil {
		return 0, false
	}
	return *f, true
}

func revenue(m movies.Movie) (float64, bool)    { return deref(m.RevenueMUSD) }
func budget(m movies.Movie) (float64, bool)     { return deref(m.BudgetMUSD) }
func popularity(m movies.Movie) (float64, bool) { return deref(m.Popularity) }
func rating(m movies.Movie) (float64, bool)     { return deref(m.VoteAverage) }

// Sum returns nil for no values.
func Sum(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	var total float64
	for _, v := range vals {
		total += v
	}
	return &total
}

// Mean returns nil for no values.
func Mean(vals []float64) *float64 {
	total := Sum(vals)
	if total == nil {
		return nil
	}
	mean := *total / float64(len(vals))
	return &mean
}

// Median returns nil for no values.
func Median(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	sorted := slices.Clone(vals)
	sort.Float64s(sorted)
	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return &median
}
