// Package movies holds the typed view of the cleaned dataset.
package movies

import (
	"strings"
	"time"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

const listDelimiter = "|"

// Movie is one cleaned record. Optional numeric attributes are nil when
// unknown.
type Movie struct {
	ID                  int64      `json:"id" yaml:"id"`
	Title               string     `json:"title" yaml:"title"`
	Tagline             string     `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	ReleaseDate         *time.Time `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	Genres              []string   `json:"genres,omitempty" yaml:"genres,omitempty"`
	Collection          string     `json:"belongs_to_collection,omitempty" yaml:"belongs_to_collection,omitempty"`
	OriginalLanguage    string     `json:"original_language,omitempty" yaml:"original_language,omitempty"`
	BudgetMUSD          *float64   `json:"budget_musd,omitempty" yaml:"budget_musd,omitempty"`
	RevenueMUSD         *float64   `json:"revenue_musd,omitempty" yaml:"revenue_musd,omitempty"`
	ProductionCompanies []string   `json:"production_companies,omitempty" yaml:"production_companies,omitempty"`
	ProductionCountries []string   `json:"production_countries,omitempty" yaml:"production_countries,omitempty"`
	VoteCount           *int64     `json:"vote_count,omitempty" yaml:"vote_count,omitempty"`
	VoteAverage         *float64   `json:"vote_average,omitempty" yaml:"vote_average,omitempty"`
	Popularity          *float64   `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	Runtime             *float64   `json:"runtime,omitempty" yaml:"runtime,omitempty"`
	Overview            string     `json:"overview,omitempty" yaml:"overview,omitempty"`
	SpokenLanguages     []string   `json:"spoken_languages,omitempty" yaml:"spoken_languages,omitempty"`
	PosterPath          string     `json:"poster_path,omitempty" yaml:"poster_path,omitempty"`

	// Credits, present only when the record was fetched with credits.
	Directors []string `json:"directors,omitempty" yaml:"directors,omitempty"`
	Cast      []string `json:"cast,omitempty" yaml:"cast,omitempty"`
	CastSize  *int64   `json:"cast_size,omitempty" yaml:"cast_size,omitempty"`
	CrewSize  *int64   `json:"crew_size,omitempty" yaml:"crew_size,omitempty"`
}

// IsFranchise reports whether the movie belongs to a named collection.
func (m Movie) IsFranchise() bool {
	return m.Collection != ""
}

// Profit is revenue minus budget, in million units.
func (m Movie) Profit() (float64, bool) {
	if m.BudgetMUSD == nil || m.RevenueMUSD == nil {
		return 0, false
	}
	return *m.RevenueMUSD - *m.BudgetMUSD, true
}

// ROI is revenue divided by budget. It is undefined unless budget > 0.
func (m Movie) ROI() (float64, bool) {
	if m.BudgetMUSD == nil || m.RevenueMUSD == nil || *m.BudgetMUSD <= 0 {
		return 0, false
	}
	return *m.RevenueMUSD / *m.BudgetMUSD, true
}

// ReleaseYear returns the year of the release date.
func (m Movie) ReleaseYear() (int, bool) {
	if m.ReleaseDate == nil {
		return 0, false
	}
	return m.ReleaseDate.Year(), true
}

// Derived and credit attribute names accepted by Value.
const (
	FieldProfit      = "profit"
	FieldROI         = "roi"
	FieldReleaseYear = "release_year"
	FieldDirector    = "director"
	FieldCast        = "cast"
	FieldCastSize    = "cast_size"
	FieldCrewSize    = "crew_size"
)

// Fields lists every name Value understands.
var Fields = []string{
	"id", "title", "tagline", "release_date", "genres", "belongs_to_collection",
	"original_language", "budget_musd", "revenue_musd", "production_companies",
	"production_countries", "vote_count", "vote_average", "popularity", "runtime",
	"overview", "spoken_languages", "poster_path",
	FieldProfit, FieldROI, FieldReleaseYear, FieldDirector, FieldCast, FieldCastSize, FieldCrewSize,
}

// Value returns the named attribute as a frame value, Missing when unknown.
// It accepts every cleaned column plus the derived and credit fields.
func (m Movie) Value(field string) frame.Value {
	switch field {
	case "id":
		return frame.Int(m.ID)
	case "title":
		return text(m.Title)
	case "tagline":
		return text(m.Tagline)
	case "release_date":
		if m.ReleaseDate == nil {
			return frame.Missing()
		}
		return frame.Date(*m.ReleaseDate)
	case "genres":
		return list(m.Genres)
	case "belongs_to_collection":
		return text(m.Collection)
	case "original_language":
		return text(m.OriginalLanguage)
	case "budget_musd":
		return number(m.BudgetMUSD)
	case "revenue_musd":
		return number(m.RevenueMUSD)
	case "production_companies":
		return list(m.ProductionCompanies)
	case "production_countries":
		return list(m.ProductionCountries)
	case "vote_count":
		if m.VoteCount == nil {
			return frame.Missing()
		}
		return frame.Int(*m.VoteCount)
	case "vote_average":
		return number(m.VoteAverage)
	case "popularity":
		return number(m.Popularity)
	case "runtime":
		return number(m.Runtime)
	case "overview":
		return text(m.Overview)
	case "spoken_languages":
		return list(m.SpokenLanguages)
	case "poster_path":
		return text(m.PosterPath)
	case FieldProfit:
		if p, ok := m.Profit(); ok {
			return frame.Float(p)
		}
	case FieldROI:
		if r, ok := m.ROI(); ok {
			return frame.Float(r)
		}
	case FieldReleaseYear:
		if y, ok := m.ReleaseYear(); ok {
			return frame.Int(int64(y))
		}
	case FieldDirector:
		return list(m.Directors)
	case FieldCast:
		return list(m.Cast)
	case FieldCastSize:
		if m.CastSize != nil {
			return frame.Int(*m.CastSize)
		}
	case FieldCrewSize:
		if m.CrewSize != nil {
			return frame.Int(*m.CrewSize)
		}
	}
	return frame.Missing()
}

func text(s string) frame.Value {
	if s == "" {
		return frame.Missing()
	}
	return frame.String(s)
}

// list joins names with the list delimiter; an empty list is Missing.
func list(names []string) frame.Value {
	return text(strings.Join(names, listDelimiter))
}

func number(f *float64) frame.Value {
	if f == nil {
		return frame.Missing()
	}
	return frame.Float(*f)
}
