// Package report renders KPI reports and search results.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
	"github.com/lehigh-university-libraries/movieetl/internal/kpi"
	"github.com/lehigh-university-libraries/movieetl/internal/movies"
)

// Formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Write renders r to w in format.
func Write(w io.Writer, r *kpi.Report, format string) error {
	switch format {
	case FormatText:
		return WriteText(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteText prints every ranking and aggregate as a table.
func WriteText(w io.Writer, r *kpi.Report) error {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Movie KPI Report")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Records:   %d\n", r.Records)
	fmt.Fprintf(w, "Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))

	for _, rk := range r.Rankings {
		fmt.Fprintf(w, "\n%s\n", rk.Label)
		if rk.Len() == 0 {
			fmt.Fprintln(w, "  (no eligible movies)")
			continue
		}
		cols := rankingColumns(rk)
		t := table.New().Headers(cols...)
		for _, row := range rk.Rows {
			t.Row(rowCells(row, cols)...)
		}
		fmt.Fprintln(w, t.String())
	}

	if len(r.FranchiseVsStandalone) > 0 {
		fmt.Fprintln(w, "\nFranchise vs. Standalone")
		t := table.New().Headers("group", "count", "mean_revenue_musd", "median_roi", "mean_budget_musd", "mean_popularity", "mean_rating")
		for _, g := range r.FranchiseVsStandalone {
			t.Row(g.Group, strconv.Itoa(g.Count), num(g.MeanRevenue), num(g.MedianROI), num(g.MeanBudget), num(g.MeanPopularity), num(g.MeanRating))
		}
		fmt.Fprintln(w, t.String())
	}

	if len(r.Franchises) > 0 {
		fmt.Fprintln(w, "\nMost Successful Franchises")
		t := table.New().Headers("collection", "count", "total_budget_musd", "mean_budget_musd", "total_revenue_musd", "mean_revenue_musd", "mean_rating")
		for _, f := range r.Franchises {
			t.Row(f.Collection, strconv.Itoa(f.Count), num(f.TotalBudget), num(f.MeanBudget), num(f.TotalRevenue), num(f.MeanRevenue), num(f.MeanRating))
		}
		fmt.Fprintln(w, t.String())
	}

	if len(r.Directors) > 0 {
		fmt.Fprintln(w, "\nMost Successful Directors")
		t := table.New().Headers("director", "count", "total_revenue_musd", "mean_rating")
		for _, d := range r.Directors {
			t.Row(d.Director, strconv.Itoa(d.Count), num(d.TotalRevenue), num(d.MeanRating))
		}
		fmt.Fprintln(w, t.String())
	}
	return nil
}

// WriteCSV writes the rankings as one long table: kpi, rank, then the
// ranking's display columns under a shared header.
func WriteCSV(w io.Writer, r *kpi.Report) error {
	writer := csv.NewWriter(w)

	var cols []string
	seen := map[string]bool{kpi.ColumnKPI: true}
	for _, rk := range r.Rankings {
		for _, c := range rk.Columns {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}

	header := append([]string{kpi.ColumnKPI, "rank"}, cols...)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, rk := range r.Rankings {
		for i, row := range rk.Rows {
			record := append([]string{rk.Label, strconv.Itoa(i + 1)}, rowCells(row, cols)...)
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveYAML writes r to a timestamped file under dir and returns its path.
func SaveYAML(dir string, r *kpi.Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	timestamp := r.GeneratedAt.Format("2006-01-02_15-04-05")
	path := filepath.Join(dir, fmt.Sprintf("kpis_%s.yaml", timestamp))

	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	return path, nil
}

// searchColumns are printed for search results.
var searchColumns = []string{"id", "title", "release_date", "genres", "director", "vote_average", "revenue_musd"}

// WriteMovies renders search results in format.
func WriteMovies(w io.Writer, ms []movies.Movie, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, ms)
	case FormatYAML:
		return writeYAML(w, ms)
	case FormatText, FormatCSV:
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		cells := make([]string, 0, len(searchColumns))
		for _, c := range searchColumns {
			cells = append(cells, cell(displayValue(m, c)))
		}
		rows = append(rows, cells)
	}

	if format == FormatCSV {
		writer := csv.NewWriter(w)
		if err := writer.Write(searchColumns); err != nil {
			return err
		}
		if err := writer.WriteAll(rows); err != nil {
			return err
		}
		return writer.Error()
	}

	fmt.Fprintln(w, table.New().Headers(searchColumns...).Rows(rows...).String())
	fmt.Fprintf(w, "%d movie(s)\n", len(ms))
	return nil
}

func displayValue(m movies.Movie, field string) any {
	v := m.Value(field)
	switch v.Kind() {
	case frame.KindMissing:
		return nil
	case frame.KindInt:
		n, _ := v.IntVal()
		return n
	case frame.KindFloat:
		f, _ := v.Number()
		return kpi.RoundTo2(f)
	default:
		return strings.ReplaceAll(v.String(), "|", ", ")
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func rankingColumns(rk *kpi.Ranking) []string {
	cols := make([]string, 0, len(rk.Columns))
	for _, c := range rk.Columns {
		if c != kpi.ColumnKPI {
			cols = append(cols, c)
		}
	}
	return cols
}

func rowCells(row map[string]any, cols []string) []string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = cell(row[c])
	}
	return cells
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func num(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(kpi.RoundTo2(*f), 'f', 2, 64)
}
