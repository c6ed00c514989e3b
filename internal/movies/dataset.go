package movies

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/movieetl/internal/cleaning"
	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

// Dataset is the cleaned movie collection.
type Dataset struct {
	Movies []Movie `json:"movies" yaml:"movies"`
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Movies)
}

// FromResult builds a dataset from a pipeline result.
func FromResult(res *cleaning.Result) (*Dataset, error) {
	if res == nil {
		return nil, fmt.Errorf("nil cleaning result")
	}
	return FromFrame(res.Frame, res.Credits)
}

// FromFrame converts a cleaned frame into typed movies. credits may be nil;
// when set it must hold one row per cleaned row, in the same order.
func FromFrame(f *frame.Frame, credits *frame.Frame) (*Dataset, error) {
	if f == nil {
		return nil, fmt.Errorf("nil frame")
	}
	if credits != nil && credits.Len() != f.Len() {
		return nil, fmt.Errorf("credits have %d rows, dataset has %d", credits.Len(), f.Len())
	}

	ds := &Dataset{Movies: make([]Movie, 0, f.Len())}
	for i, row := range f.Rows() {
		m, err := movieFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if credits != nil {
			applyCredits(&m, credits.Row(i))
		}
		ds.Movies = append(ds.Movies, m)
	}
	return ds, nil
}

func movieFromRow(row frame.Row) (Movie, error) {
	id, ok := row.Get("id").IntVal()
	if !ok {
		return Movie{}, fmt.Errorf("missing id")
	}
	title, ok := row.Get("title").Str()
	if !ok {
		return Movie{}, fmt.Errorf("missing title for id %d", id)
	}

	m := Movie{
		ID:                  id,
		Title:               title,
		Tagline:             str(row.Get("tagline")),
		Genres:              SplitList(str(row.Get("genres"))),
		Collection:          str(row.Get("belongs_to_collection")),
		OriginalLanguage:    str(row.Get("original_language")),
		BudgetMUSD:          floatPtr(row.Get("budget_musd")),
		RevenueMUSD:         floatPtr(row.Get("revenue_musd")),
		ProductionCompanies: SplitList(str(row.Get("production_companies"))),
		ProductionCountries: SplitList(str(row.Get("production_countries"))),
		VoteAverage:         floatPtr(row.Get("vote_average")),
		Popularity:          floatPtr(row.Get("popularity")),
		Runtime:             floatPtr(row.Get("runtime")),
		Overview:            str(row.Get("overview")),
		SpokenLanguages:     SplitList(str(row.Get("spoken_languages"))),
		PosterPath:          str(row.Get("poster_path")),
	}
	if votes, ok := row.Get("vote_count").IntVal(); ok {
		m.VoteCount = &votes
	}
	if t, ok := row.Get("release_date").DateVal(); ok {
		m.ReleaseDate = &t
	}
	return m, nil
}

func applyCredits(m *Movie, row frame.Row) {
	m.Directors = SplitList(str(row.Get(cleaning.ColumnDirector)))
	m.Cast = SplitList(str(row.Get(cleaning.ColumnCast)))
	if n, ok := row.Get(cleaning.ColumnCastSize).IntVal(); ok {
		m.CastSize = &n
	}
	if n, ok := row.Get(cleaning.ColumnCrewSize).IntVal(); ok {
		m.CrewSize = &n
	}
}

// SplitList splits a delimiter-joined list. An empty string is an empty list.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listDelimiter)
}

func str(v frame.Value) string {
	s, _ := v.Str()
	return s
}

func floatPtr(v frame.Value) *float64 {
	n, ok := v.Number()
	if !ok {
		return nil
	}
	return &n
}
