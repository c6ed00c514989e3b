package kpi

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/lehigh-university-libraries/movieetl/internal/movies"
)

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType" yaml:"chart_type"`
	Title      string        `json:"title" yaml:"title"`
	XAxis      string        `json:"xAxis,omitempty" yaml:"x_axis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty" yaml:"y_axis,omitempty"`
	Series     []ChartSeries `json:"series" yaml:"series"`
	Colors     []string      `json:"colors,omitempty" yaml:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend" yaml:"show_legend"`
	ShowGrid   bool          `json:"showGrid" yaml:"show_grid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name" yaml:"name"`
	Data  []ChartPoint `json:"data" yaml:"data"`
	Color string       `json:"color,omitempty" yaml:"color,omitempty"`
}

// ChartPoint is a labelled value. Scatter points also carry X.
type ChartPoint struct {
	Label string   `json:"label" yaml:"label"`
	X     *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Value float64  `json:"value" yaml:"value"`
}

var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Charts builds every chart for the dataset. Charts with no data are skipped.
func Charts(ds *movies.Dataset) []ChartConfig {
	var out []ChartConfig
	for _, build := range []func(*movies.Dataset) *ChartConfig{
		RevenueVsBudgetChart,
		ROIByGenreChart,
		PopularityVsRatingChart,
		YearlyBoxOfficeChart,
		FranchiseVsStandaloneChart,
	} {
		if c := build(ds); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// RevenueVsBudgetChart plots each movie's revenue against its budget.
func RevenueVsBudgetChart(ds *movies.Dataset) *ChartConfig {
	return scatter(ds, "Revenue vs. Budget", "Budget (M)", "Revenue (M)", budget, revenue)
}

// PopularityVsRatingChart plots popularity against average rating.
func PopularityVsRatingChart(ds *movies.Dataset) *ChartConfig {
	return scatter(ds, "Popularity vs. Rating", "Average Rating", "Popularity", rating, popularity)
}

func scatter(ds *movies.Dataset, title, xAxis, yAxis string, x, y func(movies.Movie) (float64, bool)) *ChartConfig {
	var points []ChartPoint
	for _, m := range datasetMovies(ds) {
		xv, okX := x(m)
		yv, okY := y(m)
		if !okX || !okY {
			continue
		}
		xr := RoundTo2(xv)
		points = append(points, ChartPoint{Label: m.Title, X: &xr, Value: RoundTo2(yv)})
	}
	if len(points) == 0 {
		return nil
	}
	return newChart("scatter", title, xAxis, yAxis, ChartSeries{Name: title, Data: points})
}

// ROIByGenreChart shows the median ROI of each genre, highest first.
func ROIByGenreChart(ds *movies.Dataset) *ChartConfig {
	groups, order := groupBy(datasetMovies(ds), func(m movies.Movie) []string {
		if _, ok := m.ROI(); !ok {
			return nil
		}
		return m.Genres
	})

	points := make([]ChartPoint, 0, len(order))
	for _, genre := range order {
		if med := Median(collect(groups[genre], movies.Movie.ROI)); med != nil {
			points = append(points, ChartPoint{Label: genre, Value: RoundTo2(*med)})
		}
	}
	if len(points) == 0 {
		return nil
	}
	slices.SortStableFunc(points, func(a, b ChartPoint) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return newChart("bar", "Median ROI by Genre", "Genre", "Median ROI", ChartSeries{Name: "Median ROI", Data: points})
}

// YearlyBoxOfficeChart sums revenue and budget per release year.
func YearlyBoxOfficeChart(ds *movies.Dataset) *ChartConfig {
	groups, order := groupBy(datasetMovies(ds), func(m movies.Movie) []string {
		y, ok := m.ReleaseYear()
		if !ok {
			return nil
		}
		return []string{strconv.Itoa(y)}
	})
	if len(order) == 0 {
		return nil
	}
	slices.Sort(order)

	rev := ChartSeries{Name: "Revenue"}
	bud := ChartSeries{Name: "Budget"}
	for _, year := range order {
		ms := groups[year]
		rev.add(year, Sum(collect(ms, revenue)))
		bud.add(year, Sum(collect(ms, budget)))
	}
	if len(rev.Data) == 0 && len(bud.Data) == 0 {
		return nil
	}
	return newChart("line", "Yearly Box Office", "Release Year", "Total (M)", rev, bud)
}

// FranchiseVsStandaloneChart compares mean revenue and budget per group.
func FranchiseVsStandaloneChart(ds *movies.Dataset) *ChartConfig {
	groups := FranchiseVsStandalone(ds)
	if len(groups) == 0 {
		return nil
	}
	rev := ChartSeries{Name: "Mean Revenue"}
	bud := ChartSeries{Name: "Mean Budget"}
	for _, g := range groups {
		rev.add(g.Group, g.MeanRevenue)
		bud.add(g.Group, g.MeanBudget)
	}
	if len(rev.Data) == 0 && len(bud.Data) == 0 {
		return nil
	}
	return newChart("bar", "Franchise vs. Standalone", "Group", "Mean (M)", rev, bud)
}

func newChart(chartType, title, xAxis, yAxis string, series ...ChartSeries) *ChartConfig {
	colors := assignColors(len(series))
	for i := range series {
		series[i].Color = colors[i]
	}
	return &ChartConfig{
		ChartType:  chartType,
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     series,
		Colors:     colors,
		ShowLegend: len(series) > 1,
		ShowGrid:   true,
	}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

// add appends a labelled point, skipping unknown values.
func (s *ChartSeries) add(label string, v *float64) {
	if v == nil {
		return
	}
	s.Data = append(s.Data, ChartPoint{Label: label, Value: RoundTo2(*v)})
}
