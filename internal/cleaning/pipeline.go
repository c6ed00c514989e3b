package cleaning

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

// Pipeline holds the tunables of a cleaning run.
type Pipeline struct {
	// Threshold is the minimum number of present attributes per record.
	Threshold int
}

// New returns a pipeline with the default threshold.
func New() *Pipeline {
	return &Pipeline{Threshold: DefaultThreshold}
}

// Result is the output of a pipeline run.
type Result struct {
	// Frame is the cleaned dataset with exactly Columns.
	Frame *frame.Frame
	// Credits holds CreditColumns for the same rows, in the same order.
	Credits *frame.Frame
}

// Stages returns the chain up to, but not including, projection.
func (p *Pipeline) Stages() Chain {
	threshold := p.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Chain{
		NewNormalizer(),
		Coercer{},
		Sanitizer{},
		DeDup{Keys: DedupKeys},
		Require{Fields: RequiredColumns},
		Threshold{Min: threshold, Grouped: CreditDerivedColumns},
		ReleasedOnly{},
	}
}

// Run cleans raws. On failure it returns an empty result alongside the error,
// never a partially cleaned frame.
func (p *Pipeline) Run(raws []frame.Raw) (*Result, error) {
	empty := &Result{Frame: frame.Empty(Columns), Credits: frame.Empty(CreditColumns)}
	if len(raws) == 0 {
		return empty, ErrNoRecords
	}

	slog.Info("Cleaning records", "records", len(raws))

	filtered, err := p.Stages().Apply(frame.FromRaw(raws))
	if err != nil {
		return empty, fmt.Errorf("failed to clean records: %w", err)
	}

	cleaned, err := Project{Columns: Columns}.Apply(filtered)
	if err != nil {
		return empty, fmt.Errorf("failed to project columns: %w", err)
	}
	credits, err := Project{Columns: CreditColumns}.Apply(filtered)
	if err != nil {
		return empty, fmt.Errorf("failed to project credits: %w", err)
	}

	slog.Info("Cleaning complete", "records_in", len(raws), "records_out", cleaned.Len())
	return &Result{Frame: cleaned, Credits: credits}, nil
}

// NormalizeAndClean runs the default pipeline and returns the cleaned frame.
func NormalizeAndClean(raws []frame.Raw) (*frame.Frame, error) {
	res, err := New().Run(raws)
	return res.Frame, err
}
