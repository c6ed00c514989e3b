package rawdata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

func TestSaveRawThenLoadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw_data")

	path, err := SaveRaw(dir, 597, frame.Raw{"id": json.Number("597"), "title": "Titanic"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "movie_597.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    \"id\": 597,")

	_, err = SaveRaw(dir, 19995, frame.Raw{"id": json.Number("19995"), "title": "Avatar"})
	require.NoError(t, err)

	raws, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, raws, 2)
	// Lexical file order: movie_19995.json sorts before movie_597.json.
	assert.Equal(t, "Avatar", raws[0]["title"])
	assert.Equal(t, json.Number("597"), raws[1]["id"])
}

func TestLoadDirIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644))

	raws, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestLoadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.jsonl")
	lines := []string{
		`{"id": 1, "title": "One", "budget": 1.5e6}`,
		``,
		`{"id": 2, "title": "Two"}`,
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644))

	raws, err := Load(path)
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, json.Number("1.5e6"), raws[0]["budget"])
}

func TestLoadJSONLReportsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"id\": 1}\n{oops\n"), 0644))

	_, err := LoadJSONL(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadJSONArrayAndObject(t *testing.T) {
	dir := t.TempDir()
	arr := filepath.Join(dir, "all.json")
	require.NoError(t, os.WriteFile(arr, []byte(` [{"id": 1}, {"id": 2}]`), 0644))
	obj := filepath.Join(dir, "one.json")
	require.NoError(t, os.WriteFile(obj, []byte(`{"id": 3}`), 0644))

	raws, err := Load(arr)
	require.NoError(t, err)
	assert.Len(t, raws, 2)

	raws, err = Load(obj)
	require.NoError(t, err)
	assert.Equal(t, json.Number("3"), raws[0]["id"])
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	csvPath := filepath.Join(dir, "movies.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("id\n1\n"), 0644))
	_, err = Load(csvPath)
	assert.Error(t, err)

	nullPath := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(nullPath, []byte("null"), 0644))
	_, err = Load(nullPath)
	assert.Error(t, err)
}
