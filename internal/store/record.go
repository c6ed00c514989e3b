// Package store persists cleaned datasets as Parquet files or SQLite tables.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
	"github.com/lehigh-university-libraries/movieetl/internal/movies"
)

const listDelimiter = "|"

// Record is the flat, storage-friendly form of a movie. Lists are joined
// with "|" and the release date is kept as YYYY-MM-DD.
type Record struct {
	ID                  int64    `parquet:"id"`
	Title               string   `parquet:"title"`
	Tagline             *string  `parquet:"tagline,optional"`
	ReleaseDate         *string  `parquet:"release_date,optional"`
	Genres              string   `parquet:"genres"`
	Collection          *string  `parquet:"belongs_to_collection,optional"`
	OriginalLanguage    *string  `parquet:"original_language,optional"`
	BudgetMUSD          *float64 `parquet:"budget_musd,optional"`
	RevenueMUSD         *float64 `parquet:"revenue_musd,optional"`
	ProductionCompanies string   `parquet:"production_companies"`
	ProductionCountries string   `parquet:"production_countries"`
	VoteCount           *int64   `parquet:"vote_count,optional"`
	VoteAverage         *float64 `parquet:"vote_average,optional"`
	Popularity          *float64 `parquet:"popularity,optional"`
	Runtime             *float64 `parquet:"runtime,optional"`
	Overview            *string  `parquet:"overview,optional"`
	SpokenLanguages     string   `parquet:"spoken_languages"`
	PosterPath          *string  `parquet:"poster_path,optional"`
	Director            *string  `parquet:"director,optional"`
	Cast                *string  `parquet:"cast,optional"`
	CastSize            *int64   `parquet:"cast_size,optional"`
	CrewSize            *int64   `parquet:"crew_size,optional"`
}

// ToRecord flattens m.
func ToRecord(m movies.Movie) Record {
	r := Record{
		ID:                  m.ID,
		Title:               m.Title,
		Tagline:             optString(m.Tagline),
		Genres:              strings.Join(m.Genres, listDelimiter),
		Collection:          optString(m.Collection),
		OriginalLanguage:    optString(m.OriginalLanguage),
		BudgetMUSD:          m.BudgetMUSD,
		RevenueMUSD:         m.RevenueMUSD,
		ProductionCompanies: strings.Join(m.ProductionCompanies, listDelimiter),
		ProductionCountries: strings.Join(m.ProductionCountries, listDelimiter),
		VoteCount:           m.VoteCount,
		VoteAverage:         m.VoteAverage,
		Popularity:          m.Popularity,
		Runtime:             m.Runtime,
		Overview:            optString(m.Overview),
		SpokenLanguages:     strings.Join(m.SpokenLanguages, listDelimiter),
		PosterPath:          optString(m.PosterPath),
		Director:            optString(strings.Join(m.Directors, listDelimiter)),
		Cast:                optString(strings.Join(m.Cast, listDelimiter)),
		CastSize:            m.CastSize,
		CrewSize:            m.CrewSize,
	}
	if m.ReleaseDate != nil {
		d := m.ReleaseDate.Format(frame.DateLayout)
		r.ReleaseDate = &d
	}
	return r
}

// Movie expands the record back into a movie.
func (r Record) Movie() (movies.Movie, error) {
	m := movies.Movie{
		ID:                  r.ID,
		Title:               r.Title,
		Tagline:             deref(r.Tagline),
		Genres:              movies.SplitList(r.Genres),
		Collection:          deref(r.Collection),
		OriginalLanguage:    deref(r.OriginalLanguage),
		BudgetMUSD:          r.BudgetMUSD,
		RevenueMUSD:         r.RevenueMUSD,
		ProductionCompanies: movies.SplitList(r.ProductionCompanies),
		ProductionCountries: movies.SplitList(r.ProductionCountries),
		VoteCount:           r.VoteCount,
		VoteAverage:         r.VoteAverage,
		Popularity:          r.Popularity,
		Runtime:             r.Runtime,
		Overview:            deref(r.Overview),
		SpokenLanguages:     movies.SplitList(r.SpokenLanguages),
		PosterPath:          deref(r.PosterPath),
		Directors:           movies.SplitList(deref(r.Director)),
		Cast:                movies.SplitList(deref(r.Cast)),
		CastSize:            r.CastSize,
		CrewSize:            r.CrewSize,
	}
	if r.ReleaseDate != nil {
		t, err := time.Parse(frame.DateLayout, *r.ReleaseDate)
		if err != nil {
			return movies.Movie{}, err
		}
		m.ReleaseDate = &t
	}
	return m, nil
}

// Records flattens a dataset.
func Records(ds *movies.Dataset) []Record {
	out := make([]Record, 0, ds.Len())
	if ds == nil {
		return out
	}
	for _, m := range ds.Movies {
		out = append(out, ToRecord(m))
	}
	return out
}

// FromRecords rebuilds a dataset.
func FromRecords(records []Record) (*movies.Dataset, error) {
	ds := &movies.Dataset{Movies: make([]movies.Movie, 0, len(records))}
	for i, r := range records {
		m, err := r.Movie()
		if err != nil {
			return nil, fmt.Errorf("failed to decode record %d (id %d): %w", i, r.ID, err)
		}
		ds.Movies = append(ds.Movies, m)
	}
	return ds, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
