package cleaning

import "github.com/lehigh-university-libraries/movieetl/internal/frame"

// Columns is the final column order of the cleaned dataset.
var Columns = []string{
	"id",
	"title",
	"tagline",
	"release_date",
	"genres",
	"belongs_to_collection",
	"original_language",
	"budget_musd",
	"revenue_musd",
	"production_companies",
	"production_countries",
	"vote_count",
	"vote_average",
	"popularity",
	"runtime",
	"overview",
	"spoken_languages",
	"poster_path",
}

// CreditColumns ride alongside the cleaned dataset, keyed by row position.
var CreditColumns = []string{"id", ColumnDirector, ColumnCast, ColumnCastSize, ColumnCrewSize}

// Project selects exactly Columns, in order.
type Project struct {
	Columns []string
}

func (Project) Name() string { return "project" }

func (p Project) Apply(in *frame.Frame) (*frame.Frame, error) {
	return in.Select(p.Columns), nil
}
