package moviecmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/movieetl/internal/config"
)

// movieDoc returns a TMDB movie-detail document that survives cleaning.
func movieDoc(id int, title, collection string, budget, revenue int, director string) string {
	coll := "null"
	if collection != "" {
		coll = fmt.Sprintf(`{"id": 1, "name": %q}`, collection)
	}
	return fmt.Sprintf(`{
		"id": %d,
		"title": %q,
		"status": "Released",
		"release_date": "2012-04-25",
		"genres": [{"id": 28, "name": "Action"}],
		"belongs_to_collection": %s,
		"original_language": "en",
		"budget": %d,
		"revenue": %d,
		"production_companies": [{"name": "Marvel Studios"}],
		"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
		"spoken_languages": [{"english_name": "English", "name": "English"}],
		"vote_count": 1000,
		"vote_average": 7.5,
		"popularity": 50.5,
		"runtime": 143,
		"overview": "Heroes assemble.",
		"tagline": "Some assembly required.",
		"poster_path": "/poster.jpg",
		"credits": {"cast": [{"name": "Robert Downey Jr."}], "crew": [{"job": "Director", "name": %q}]}
	}`, id, title, coll, budget, revenue, director)
}

func writeRawDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "raw_data")
	require.NoError(t, os.MkdirAll(dir, 0755))
	docs := map[int]string{
		24428:  movieDoc(24428, "The Avengers", "The Avengers Collection", 220000000, 1518815515, "Joss Whedon"),
		299534: movieDoc(299534, "Avengers: Endgame", "The Avengers Collection", 356000000, 2799439100, "Anthony Russo"),
		597:    movieDoc(597, "Titanic", "", 200000000, 2264162353, "James Cameron"),
	}
	for id, doc := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("movie_%d.json", id)), []byte(doc), 0644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "movieetl", SilenceUsage: true}
	root.AddCommand(NewFetchCmd(), NewCleanCmd(), NewKPICmd(), NewSearchCmd(), NewRunCmd())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCleanThenKPI(t *testing.T) {
	raw := writeRawDir(t)
	parquetPath := filepath.Join(t.TempDir(), "movies.parquet")
	dbPath := filepath.Join(t.TempDir(), "movies.db")

	out, err := run(t, "clean", "--input", raw, "--output", parquetPath, "--sqlite", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleaned 3 movies")

	for _, input := range []string{parquetPath, dbPath, "sqlite:" + dbPath, raw} {
		t.Run(filepath.Base(input), func(t *testing.T) {
			out, err := run(t, "kpi", "--input", input, "--format", "json", "--limit", "2")
			require.NoError(t, err)

			var decoded struct {
				Records  int `json:"records"`
				Rankings []struct {
					Label string           `json:"label"`
					Rows  []map[string]any `json:"rows"`
				} `json:"rankings"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &decoded))
			assert.Equal(t, 3, decoded.Records)
			require.NotEmpty(t, decoded.Rankings)
			assert.Equal(t, "Highest Revenue", decoded.Rankings[0].Label)
			require.Len(t, decoded.Rankings[0].Rows, 2)
			assert.Equal(t, "Avengers: Endgame", decoded.Rankings[0].Rows[0]["title"])
			assert.Equal(t, 2799.44, decoded.Rankings[0].Rows[0]["revenue_musd"])
		})
	}
}

func TestKPISaveYAML(t *testing.T) {
	raw := writeRawDir(t)
	reports := filepath.Join(t.TempDir(), "reports")

	out, err := run(t, "kpi", "--input", raw, "--save-yaml", reports, "--charts")
	require.NoError(t, err)
	assert.Contains(t, out, "Movie KPI Report")

	files, err := filepath.Glob(filepath.Join(reports, "kpis_*.yaml"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSearch(t *testing.T) {
	raw := writeRawDir(t)

	out, err := run(t, "search", "--input", raw, "--title", "avengers", "--format", "csv", "--sort", "revenue_musd")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "299534,Avengers: Endgame"))
	assert.True(t, strings.HasPrefix(lines[2], "24428,The Avengers"))

	out, err = run(t, "search", "--input", raw, "--director", "Steven Spielberg")
	require.NoError(t, err)
	assert.Contains(t, out, "No movies match")
}

func TestKPIMissingInput(t *testing.T) {
	_, err := run(t, "kpi", "--input", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/")
		if id == "0" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"id": %s, "title": "Movie %s"}`, id, id)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "raw")
	t.Setenv(config.EnvAPIKey, "secret")
	t.Setenv(config.EnvRawDataDir, dir)

	out, err := run(t, "fetch", "0,597", "19995", "--base-url", srv.URL+"/")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 2 movies")

	data, err := os.ReadFile(filepath.Join(dir, "movie_597.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `    "title": "Movie 597"`)
	assert.NoFileExists(t, filepath.Join(dir, "movie_0.json"))
}

func TestFetchRequiresAPIKey(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvTMDBAPIKey, "")
	_, err := run(t, "fetch", "597")
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestRunPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/") {
		case "24428":
			fmt.Fprint(w, movieDoc(24428, "The Avengers", "The Avengers Collection", 220000000, 1518815515, "Joss Whedon"))
		case "597":
			fmt.Fprint(w, movieDoc(597, "Titanic", "", 200000000, 2264162353, "James Cameron"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	root := t.TempDir()
	dir := filepath.Join(root, "raw_data")
	out, err := run(t, "run", "0", "597", "24428",
		"--api-key", "secret", "--base-url", srv.URL+"/", "--raw-dir", dir, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "records: 2")
	assert.Contains(t, out, "James Cameron")
	assert.FileExists(t, filepath.Join(root, "movies.parquet"))
}
