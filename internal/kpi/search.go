package kpi

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/lehigh-university-libraries/movieetl/internal/movies"
)

// ErrNoMatch is returned when a search is valid but selects nothing.
var ErrNoMatch = errors.New("no movies match the search criteria")

// Criteria narrows a search. Zero-valued fields do not filter.
type Criteria struct {
	// TitleContains matches a substring of the title, ignoring case and accents.
	TitleContains string
	// Genres must each be one of the movie's genres, ignoring case.
	Genres []string
	// Year is the release year.
	Year int
	// Director must be one of the credited directors, exactly.
	Director string
	// Cast must be one of the top-billed cast members, ignoring case.
	Cast string
	// SortBy orders the matches; empty keeps dataset order.
	SortBy    []string
	Ascending bool
	// Limit caps the matches; zero or negative means all.
	Limit int
}

// IsEmpty reports whether the criteria select every movie.
func (c Criteria) IsEmpty() bool {
	return c.TitleContains == "" && len(c.Genres) == 0 && c.Year == 0 && c.Director == "" && c.Cast == ""
}

// Search returns the movies satisfying every set criterion.
func Search(ds *movies.Dataset, c Criteria) ([]movies.Movie, error) {
	if err := validateFields(c.SortBy); err != nil {
		return nil, err
	}

	title := fold(c.TitleContains)
	var out []movies.Movie
	for _, m := range datasetMovies(ds) {
		if c.matches(m, title) {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMatch
	}

	if len(c.SortBy) > 0 {
		sortMovies(out, c.SortBy, c.Ascending)
	}
	if c.Limit > 0 && c.Limit < len(out) {
		out = out[:c.Limit]
	}
	return out, nil
}

func (c Criteria) matches(m movies.Movie, foldedTitle string) bool {
	if foldedTitle != "" && !strings.Contains(fold(m.Title), foldedTitle) {
		return false
	}
	for _, g := range c.Genres {
		if !containsFold(m.Genres, g) {
			return false
		}
	}
	if c.Year != 0 {
		if y, ok := m.ReleaseYear(); !ok || y != c.Year {
			return false
		}
	}
	if c.Director != "" && !contains(m.Directors, c.Director) {
		return false
	}
	if c.Cast != "" && !containsFold(m.Cast, c.Cast) {
		return false
	}
	return true
}

// fold strips accents and case so "Amélie" and "AMELIE" compare equal.
func fold(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

func contains(items []string, want string) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}

func containsFold(items []string, want string) bool {
	for _, it := range items {
		if strings.EqualFold(it, want) {
			return true
		}
	}
	return false
}

func datasetMovies(ds *movies.Dataset) []movies.Movie {
	if ds == nil {
		return nil
	}
	return ds.Movies
}
